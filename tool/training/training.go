//
// Copyright (C) 2025 garmin-mcp-poke authors.  All rights reserved.
//
// garmin-mcp-poke is licensed under the Apache License Version 2.0.
//
//

// Package training exposes training and performance tools: progress
// summaries, hill and endurance scores, HRV, fitness age, training
// status and lactate threshold.
package training

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tidwall/gjson"
	mcp "trpc.group/trpc-go/trpc-mcp-go"

	"github.com/theol0403/garmin-mcp-poke/internal/argext"
	"github.com/theol0403/garmin-mcp-poke/internal/curate"
	"github.com/theol0403/garmin-mcp-poke/internal/garmin"
)

// ToolSet groups the training tools around a shared client.
type ToolSet struct {
	client *garmin.Client

	typeOnce  sync.Once
	typeNames map[int64]string
}

// NewToolSet creates the training toolset around an authenticated client.
func NewToolSet(client *garmin.Client) *ToolSet {
	return &ToolSet{client: client}
}

// Register adds every training tool to the MCP server.
func (t *ToolSet) Register(s *mcp.Server) {
	s.RegisterTool(mcp.NewTool("get_progress_summary_between_dates",
		mcp.WithDescription("Get progress summary for a metric between dates"),
		mcp.WithString("start_date", mcp.Description("Start date in YYYY-MM-DD format"), mcp.Required()),
		mcp.WithString("end_date", mcp.Description("End date in YYYY-MM-DD format"), mcp.Required()),
		mcp.WithString("metric",
			mcp.Description(`Metric to get progress for (e.g. "elevationGain", "duration", "distance", "movingDuration")`),
			mcp.Required()),
	), t.getProgressSummary)
	s.RegisterTool(mcp.NewTool("get_hill_score",
		mcp.WithDescription("Get hill score data between dates"),
		mcp.WithString("start_date", mcp.Description("Start date in YYYY-MM-DD format"), mcp.Required()),
		mcp.WithString("end_date", mcp.Description("End date in YYYY-MM-DD format"), mcp.Required()),
	), t.getHillScore)
	s.RegisterTool(mcp.NewTool("get_endurance_score",
		mcp.WithDescription("Get endurance score data between dates"),
		mcp.WithString("start_date", mcp.Description("Start date in YYYY-MM-DD format"), mcp.Required()),
		mcp.WithString("end_date", mcp.Description("End date in YYYY-MM-DD format"), mcp.Required()),
	), t.getEnduranceScore)
	s.RegisterTool(mcp.NewTool("get_training_effect",
		mcp.WithDescription("Get training effect data for a specific activity"),
		mcp.WithString("activity_id", mcp.Description("ID of the activity to retrieve training effect for"), mcp.Required()),
	), t.getTrainingEffect)
	s.RegisterTool(mcp.NewTool("get_hrv_data",
		mcp.WithDescription("Get Heart Rate Variability (HRV) data"),
		mcp.WithString("date", mcp.Description("Date in YYYY-MM-DD format"), mcp.Required()),
		mcp.WithBoolean("return_timeseries",
			mcp.Description("If true, include detailed 5-minute HRV readings (can be large)")),
	), t.getHRVData)
	s.RegisterTool(mcp.NewTool("get_fitnessage_data",
		mcp.WithDescription("Get fitness age data"),
		mcp.WithString("date", mcp.Description("Date in YYYY-MM-DD format"), mcp.Required()),
		mcp.WithBoolean("details",
			mcp.Description("If true, include component breakdown (BMI, RHR, vigorous activity) with targets and improvement suggestions")),
	), t.getFitnessAge)
	s.RegisterTool(mcp.NewTool("get_training_status",
		mcp.WithDescription("Get training status with load, VO2 max, recovery and readiness indicators"),
		mcp.WithString("date", mcp.Description("Date in YYYY-MM-DD format"), mcp.Required()),
	), t.getTrainingStatus)
	s.RegisterTool(mcp.NewTool("get_lactate_threshold",
		mcp.WithDescription("Get lactate threshold data, the exercise intensity at which lactate starts to accumulate in the blood"),
		mcp.WithString("start_date", mcp.Description("Start date in YYYY-MM-DD format (optional, omit for latest)")),
		mcp.WithString("end_date", mcp.Description("End date in YYYY-MM-DD format (optional, omit for latest)")),
	), t.getLactateThreshold)
	s.RegisterTool(mcp.NewTool("request_reload",
		mcp.WithDescription("Request reload of epoch data"),
		mcp.WithString("date", mcp.Description("Date in YYYY-MM-DD format"), mcp.Required()),
	), t.requestReload)
}

// activityTypeNames maps type IDs to keys, fetched once per process.
func (t *ToolSet) activityTypeNames(ctx context.Context) map[int64]string {
	t.typeOnce.Do(func() {
		t.typeNames = map[int64]string{}
		raw, err := t.client.ActivityTypes(ctx)
		if err != nil {
			return
		}
		for _, at := range gjson.ParseBytes(raw).Array() {
			if id := at.Get("typeId"); id.Exists() {
				name := at.Get("typeKey").String()
				if name == "" {
					name = "unknown"
				}
				t.typeNames[id.Int()] = name
			}
		}
	})
	return t.typeNames
}

// mapContributor attaches a human-readable activity type to a score
// contributor entry.
func mapContributor(c gjson.Result, typeNames map[int64]string) map[string]any {
	entry := map[string]any{}
	if contribution := c.Get("contribution"); contribution.Exists() && contribution.Float() != 0 {
		entry["contribution_percent"] = curate.Round(contribution.Float(), 2)
	}
	if id := c.Get("activityTypeId"); id.Exists() {
		name, ok := typeNames[id.Int()]
		if !ok {
			name = fmt.Sprintf("unknown_%d", id.Int())
		}
		entry["activity_type"] = name
		entry["activity_type_id"] = id.Int()
	} else if group := c.Get("group"); group.Exists() {
		names := map[int64]string{
			0: "running (?)",
			1: "biking (?)",
			8: "Other Activities",
		}
		name, ok := names[group.Int()]
		if !ok {
			name = fmt.Sprintf("group_%d", group.Int())
		}
		entry["group"] = name
	}
	return entry
}

func (t *ToolSet) getProgressSummary(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	startDate, err := argext.Require(args, "start_date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	endDate, err := argext.Require(args, "end_date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	metric, err := argext.Require(args, "metric")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	raw, err := t.client.ProgressSummary(ctx, startDate, endDate, metric)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving progress summary: %v", err)), nil
	}
	list := gjson.ParseBytes(raw).Array()
	if len(list) == 0 {
		return mcp.NewTextResult(fmt.Sprintf("No progress summary found for %s between %s and %s.", metric, startDate, endDate)), nil
	}
	data := list[0]

	byType := map[string]any{}
	data.Get("stats").ForEach(func(activityType, stats gjson.Result) bool {
		m := stats.Get(metric)
		if m.Exists() && m.Get("count").Int() > 0 {
			byType[activityType.String()] = curate.Compact(map[string]any{
				"count": m.Get("count").Value(),
				"sum":   m.Get("sum").Value(),
				"avg":   m.Get("avg").Value(),
				"min":   m.Get("min").Value(),
				"max":   m.Get("max").Value(),
			})
		}
		return true
	})

	curated := curate.Compact(map[string]any{
		"metric":                 metric,
		"start_date":             startDate,
		"end_date":               endDate,
		"date":                   data.Get("date").Value(),
		"count_of_activities":    data.Get("countOfActivities").Value(),
		"stats_by_activity_type": byType,
	})
	return mcp.NewTextResult(curate.JSON(curated)), nil
}

func (t *ToolSet) getHillScore(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	startDate, err := argext.Require(args, "start_date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	endDate, err := argext.Require(args, "end_date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	raw, err := t.client.HillScore(ctx, startDate, endDate)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving hill score data: %v", err)), nil
	}
	res := gjson.ParseBytes(raw)
	if !res.Exists() || len(res.Map()) == 0 {
		return mcp.NewTextResult(fmt.Sprintf("No hill score data found between %s and %s.", startDate, endDate)), nil
	}

	// periodAvgScore is keyed by an opaque period identifier.
	var avgScore any
	res.Get("periodAvgScore").ForEach(func(_, v gjson.Result) bool {
		avgScore = v.Value()
		return false
	})

	dailyScores := res.Get("hillScoreDTOList").Array()
	daily := make([]map[string]any, 0, len(dailyScores))
	for _, score := range dailyScores {
		daily = append(daily, curate.Compact(map[string]any{
			"date":      score.Get("calendarDate").Value(),
			"overall":   score.Get("overallScore").Value(),
			"strength":  score.Get("strengthScore").Value(),
			"endurance": score.Get("enduranceScore").Value(),
		}))
	}

	curated := map[string]any{
		"start_date":       startDate,
		"end_date":         endDate,
		"period_avg_score": avgScore,
		"max_score":        res.Get("maxScore").Value(),
		"daily_scores":     daily,
	}
	if len(dailyScores) > 0 {
		latest := dailyScores[0]
		curated["latest_date"] = latest.Get("calendarDate").Value()
		curated["latest_overall_score"] = latest.Get("overallScore").Value()
		curated["latest_strength_score"] = latest.Get("strengthScore").Value()
		curated["latest_endurance_score"] = latest.Get("enduranceScore").Value()
		curated["latest_classification_id"] = latest.Get("hillScoreClassificationId").Value()
	}
	return mcp.NewTextResult(curate.JSON(curate.Compact(curated))), nil
}

var enduranceClassifications = map[int64]string{
	1: "recreational",
	2: "intermediate",
	3: "trained",
	4: "well_trained",
	5: "expert",
	6: "superior",
	7: "elite",
}

func (t *ToolSet) getEnduranceScore(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	startDate, err := argext.Require(args, "start_date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	endDate, err := argext.Require(args, "end_date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	raw, err := t.client.EnduranceScore(ctx, startDate, endDate)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving endurance score data: %v", err)), nil
	}
	res := gjson.ParseBytes(raw)
	if !res.Exists() || len(res.Map()) == 0 {
		return mcp.NewTextResult(fmt.Sprintf("No endurance score data found between %s and %s.", startDate, endDate)), nil
	}

	typeNames := t.activityTypeNames(ctx)
	scoreDTO := res.Get("enduranceScoreDTO")

	curated := map[string]any{
		"start_date": startDate,
		"end_date":   endDate,

		"period_avg_score": res.Get("avg").Value(),
		"period_max_score": res.Get("max").Value(),

		"current_score": scoreDTO.Get("overallScore").Value(),
		"current_date":  scoreDTO.Get("calendarDate").Value(),
	}

	if classification := scoreDTO.Get("classification"); classification.Exists() {
		label, ok := enduranceClassifications[classification.Int()]
		if !ok {
			label = fmt.Sprintf("level_%d", classification.Int())
		}
		curated["classification"] = label
		curated["classification_id"] = classification.Int()
	}
	if scoreDTO.Get("classificationLowerLimitTrained").Exists() {
		curated["thresholds"] = curate.Compact(map[string]any{
			"intermediate": scoreDTO.Get("classificationLowerLimitIntermediate").Value(),
			"trained":      scoreDTO.Get("classificationLowerLimitTrained").Value(),
			"well_trained": scoreDTO.Get("classificationLowerLimitWellTrained").Value(),
			"expert":       scoreDTO.Get("classificationLowerLimitExpert").Value(),
			"superior":     scoreDTO.Get("classificationLowerLimitSuperior").Value(),
			"elite":        scoreDTO.Get("classificationLowerLimitElite").Value(),
		})
	}

	if raw := scoreDTO.Get("contributors").Array(); len(raw) > 0 {
		contributors := make([]map[string]any, 0, len(raw))
		for _, c := range raw {
			contributors = append(contributors, mapContributor(c, typeNames))
		}
		curated["contributors"] = contributors
	}

	// groupMap holds the per-week breakdown keyed by week start date.
	groupMap := res.Get("groupMap").Map()
	if len(groupMap) > 0 {
		weekStarts := make([]string, 0, len(groupMap))
		for week := range groupMap {
			weekStarts = append(weekStarts, week)
		}
		sort.Strings(weekStarts)

		weekly := make([]map[string]any, 0, len(weekStarts))
		for _, weekStart := range weekStarts {
			week := groupMap[weekStart]
			entry := curate.Compact(map[string]any{
				"week_start": weekStart,
				"avg_score":  week.Get("groupAverage").Value(),
				"max_score":  week.Get("groupMax").Value(),
			})
			if contributors := week.Get("enduranceContributorDTOList").Array(); len(contributors) > 0 {
				mapped := make([]map[string]any, 0, len(contributors))
				for _, c := range contributors {
					mapped = append(mapped, mapContributor(c, typeNames))
				}
				entry["contributors"] = mapped
			}
			weekly = append(weekly, entry)
		}
		curated["weekly_breakdown"] = weekly
	}
	return mcp.NewTextResult(curate.JSON(curate.Compact(curated))), nil
}

func (t *ToolSet) getTrainingEffect(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	activityID, err := argext.ID(req.Params.Arguments, "activity_id")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	raw, err := t.client.Activity(ctx, activityID)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving training effect data: %v", err)), nil
	}
	res := gjson.ParseBytes(raw)
	if !res.Exists() || len(res.Map()) == 0 {
		return mcp.NewTextResult(fmt.Sprintf("No activity found with ID %s.", activityID)), nil
	}

	summary := res.Get("summaryDTO")
	curated := map[string]any{
		"activity_id":           activityID,
		"training_effect":       summary.Get("trainingEffect").Value(),
		"aerobic_effect":        summary.Get("trainingEffect").Value(),
		"anaerobic_effect":      summary.Get("anaerobicTrainingEffect").Value(),
		"training_effect_label": summary.Get("trainingEffectLabel").Value(),
		"training_load":         summary.Get("activityTrainingLoad").Value(),
		"performance_condition": summary.Get("performanceCondition").Value(),
	}
	if rt := summary.Get("recoveryTime"); rt.Exists() && rt.Float() != 0 {
		curated["recovery_time_hours"] = curate.Round(rt.Float()/60, 1)
	}
	return mcp.NewTextResult(curate.JSON(curate.Compact(curated))), nil
}

func (t *ToolSet) getHRVData(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	date, err := argext.Require(args, "date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	raw, err := t.client.HRVData(ctx, date)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving HRV data: %v", err)), nil
	}
	res := gjson.ParseBytes(raw)
	if !res.Exists() || len(res.Map()) == 0 {
		return mcp.NewTextResult(fmt.Sprintf("No HRV data found for %s.", date)), nil
	}

	summary := res.Get("hrvSummary")
	baseline := summary.Get("baseline")

	calendarDate := summary.Get("calendarDate").String()
	if calendarDate == "" {
		calendarDate = date
	}

	curated := map[string]any{
		"date": calendarDate,

		"last_night_avg_hrv_ms":       summary.Get("lastNightAvg").Value(),
		"last_night_5min_high_hrv_ms": summary.Get("lastNight5MinHigh").Value(),
		"weekly_avg_hrv_ms":           summary.Get("weeklyAvg").Value(),

		"baseline_balanced_low_ms":   baseline.Get("balancedLow").Value(),
		"baseline_balanced_upper_ms": baseline.Get("balancedUpper").Value(),
		"baseline_low_upper_ms":      baseline.Get("lowUpper").Value(),

		"status":   summary.Get("status").Value(),
		"feedback": summary.Get("feedbackPhrase").Value(),

		"sleep_start": res.Get("sleepStartTimestampLocal").Value(),
		"sleep_end":   res.Get("sleepEndTimestampLocal").Value(),
	}

	if argext.Bool(args, "return_timeseries", false) {
		readings := res.Get("hrvReadings").Array()
		series := make([]map[string]any, 0, len(readings))
		for _, r := range readings {
			series = append(series, curate.Compact(map[string]any{
				"time":   r.Get("readingTimeLocal").Value(),
				"hrv_ms": r.Get("hrvValue").Value(),
			}))
		}
		curated["hrv_readings"] = series
		curated["readings_count"] = len(readings)
	}
	return mcp.NewTextResult(curate.JSON(curate.Compact(curated))), nil
}

func (t *ToolSet) getFitnessAge(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	date, err := argext.Require(args, "date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	raw, err := t.client.FitnessAge(ctx, date)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving fitness age data: %v", err)), nil
	}
	res := gjson.ParseBytes(raw)
	if !res.Exists() || len(res.Map()) == 0 {
		return mcp.NewTextResult(fmt.Sprintf("No fitness age data found for %s.", date)), nil
	}

	curated := map[string]any{
		"date":                    date,
		"chronological_age_years": res.Get("chronologicalAge").Value(),
		"last_updated":            res.Get("lastUpdated").Value(),
	}
	chronoAge := res.Get("chronologicalAge")
	fitAge := res.Get("fitnessAge")
	if fitAge.Exists() && fitAge.Float() != 0 {
		curated["fitness_age_years"] = curate.Round(fitAge.Float(), 1)
	}
	if chronoAge.Exists() && fitAge.Exists() {
		curated["age_difference_years"] = curate.Round(chronoAge.Float()-fitAge.Float(), 1)
	}
	if v := res.Get("achievableFitnessAge"); v.Exists() && v.Float() != 0 {
		curated["achievable_fitness_age_years"] = curate.Round(v.Float(), 1)
	}
	if v := res.Get("previousFitnessAge"); v.Exists() && v.Float() != 0 {
		curated["previous_fitness_age_years"] = curate.Round(v.Float(), 1)
	}

	if argext.Bool(args, "details", false) {
		components := map[string]any{}
		res.Get("components").ForEach(func(name, comp gjson.Result) bool {
			if !comp.IsObject() {
				return true
			}
			info := map[string]any{"value": comp.Get("value").Value()}
			if v := comp.Get("targetValue"); v.Exists() {
				info["target"] = v.Value()
			}
			if v := comp.Get("improvementValue"); v.Exists() {
				info["improvement_needed"] = v.Value()
			}
			if v := comp.Get("potentialAge"); v.Exists() {
				info["potential_age_if_improved"] = curate.Round(v.Float(), 1)
			}
			if v := comp.Get("priority"); v.Exists() {
				info["priority"] = v.Value()
			}
			if v := comp.Get("stale"); v.Exists() {
				info["stale"] = v.Value()
			}
			if v := comp.Get("lastMeasurementDate"); v.Exists() {
				info["last_measurement"] = v.Value()
			}
			components[name.String()] = info
			return true
		})
		if len(components) > 0 {
			curated["components"] = components
		}
	}
	return mcp.NewTextResult(curate.JSON(curate.Compact(curated))), nil
}

func (t *ToolSet) getTrainingStatus(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := argext.Require(req.Params.Arguments, "date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	raw, err := t.client.TrainingStatus(ctx, date)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving training status data: %v", err)), nil
	}
	res := gjson.ParseBytes(raw)
	if !res.Exists() || len(res.Map()) == 0 {
		return mcp.NewTextResult(fmt.Sprintf("No training status data found for %s.", date)), nil
	}

	// Both maps are keyed by device ID; take the primary (first) device.
	var deviceData gjson.Result
	res.Get("mostRecentTrainingStatus.latestTrainingStatusData").ForEach(func(_, data gjson.Result) bool {
		deviceData = data
		return false
	})
	var loadData gjson.Result
	res.Get("mostRecentTrainingLoadBalance.metricsTrainingLoadBalanceDTOMap").ForEach(func(_, data gjson.Result) bool {
		loadData = data
		return false
	})

	acwr := deviceData.Get("acuteTrainingLoadDTO")
	vo2 := res.Get("mostRecentVO2Max.generic")

	calendarDate := deviceData.Get("calendarDate").String()
	if calendarDate == "" {
		calendarDate = date
	}

	curated := curate.Compact(map[string]any{
		"date": calendarDate,

		"training_status":          deviceData.Get("trainingStatus").Value(),
		"training_status_feedback": deviceData.Get("trainingStatusFeedbackPhrase").Value(),
		"sport":                    deviceData.Get("sport").Value(),
		"fitness_trend":            deviceData.Get("fitnessTrend").Value(),

		// Acute/chronic workload ratio.
		"acute_load":               acwr.Get("dailyTrainingLoadAcute").Value(),
		"chronic_load":             acwr.Get("dailyTrainingLoadChronic").Value(),
		"load_ratio":               acwr.Get("dailyAcuteChronicWorkloadRatio").Value(),
		"acwr_status":              acwr.Get("acwrStatus").Value(),
		"acwr_percent":             acwr.Get("acwrPercent").Value(),
		"optimal_chronic_load_min": acwr.Get("minTrainingLoadChronic").Value(),
		"optimal_chronic_load_max": acwr.Get("maxTrainingLoadChronic").Value(),

		"vo2_max":         vo2.Get("vo2MaxValue").Value(),
		"vo2_max_precise": vo2.Get("vo2MaxPreciseValue").Value(),

		"monthly_load_aerobic_low":  loadData.Get("monthlyLoadAerobicLow").Value(),
		"monthly_load_aerobic_high": loadData.Get("monthlyLoadAerobicHigh").Value(),
		"monthly_load_anaerobic":    loadData.Get("monthlyLoadAnaerobic").Value(),
		"training_balance_feedback": loadData.Get("trainingBalanceFeedbackPhrase").Value(),
	})
	return mcp.NewTextResult(curate.JSON(curated)), nil
}

func (t *ToolSet) getLactateThreshold(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	startDate := argext.String(args, "start_date", "")
	endDate := argext.String(args, "end_date", "")

	if startDate != "" && endDate != "" {
		raw, err := t.client.LactateThresholdRange(ctx, startDate, endDate)
		if err != nil {
			return mcp.NewErrorResult(fmt.Sprintf("Error retrieving lactate threshold data: %v", err)), nil
		}
		res := gjson.ParseBytes(raw)
		if !res.Exists() || len(res.Map()) == 0 {
			return mcp.NewTextResult(fmt.Sprintf("No lactate threshold data found between %s and %s", startDate, endDate)), nil
		}

		curated := map[string]any{
			"start_date": startDate,
			"end_date":   endDate,
		}
		history := func(key, valueName string) []map[string]any {
			entries := res.Get(key).Array()
			if len(entries) == 0 {
				return nil
			}
			out := make([]map[string]any, 0, len(entries))
			for _, entry := range entries {
				out = append(out, curate.Compact(map[string]any{
					"date":    entry.Get("from").Value(),
					valueName: entry.Get("value").Value(),
					"series":  entry.Get("series").Value(),
				}))
			}
			return out
		}
		if h := history("speed", "speed_mps"); h != nil {
			curated["speed_history"] = h
		}
		if h := history("heartRate", "heart_rate_bpm"); h != nil {
			curated["heart_rate_history"] = h
		}
		if h := history("power", "power_watts"); h != nil {
			curated["power_history"] = h
		}
		return mcp.NewTextResult(curate.JSON(curated)), nil
	}

	raw, err := t.client.LatestLactateThreshold(ctx)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving lactate threshold data: %v", err)), nil
	}
	res := gjson.ParseBytes(raw)
	if !res.Exists() || len(res.Map()) == 0 {
		return mcp.NewTextResult("No lactate threshold data found"), nil
	}

	speedHR := res.Get("speed_and_heart_rate")
	power := res.Get("power")
	curated := curate.Compact(map[string]any{
		"lactate_threshold_speed_mps":      speedHR.Get("speed").Value(),
		"lactate_threshold_heart_rate_bpm": speedHR.Get("heartRate").Value(),
		"heart_rate_cycling_bpm":           speedHR.Get("heartRateCycling").Value(),
		"speed_hr_date":                    speedHR.Get("calendarDate").Value(),

		"functional_threshold_power_watts": power.Get("functionalThresholdPower").Value(),
		"weight_kg":                        power.Get("weight").Value(),
		"power_to_weight":                  power.Get("powerToWeight").Value(),
		"sport":                            power.Get("sport").Value(),
		"power_date":                       power.Get("calendarDate").Value(),
		"is_stale":                         power.Get("isStale").Value(),
	})
	return mcp.NewTextResult(curate.JSON(curated)), nil
}

func (t *ToolSet) requestReload(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := argext.Require(req.Params.Arguments, "date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	raw, err := t.client.RequestReload(ctx, date)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error requesting data reload: %v", err)), nil
	}
	return mcp.NewTextResult(curate.JSON(gjson.ParseBytes(raw).Value())), nil
}
