//
// Copyright (C) 2025 garmin-mcp-poke authors.  All rights reserved.
//
// garmin-mcp-poke is licensed under the Apache License Version 2.0.
//
//

package health

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"
	mcp "trpc.group/trpc-go/trpc-mcp-go"

	"github.com/theol0403/garmin-mcp-poke/internal/argext"
	"github.com/theol0403/garmin-mcp-poke/internal/curate"
)

func (t *ToolSet) getStats(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := argext.Require(req.Params.Arguments, "date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	raw, err := t.client.UserSummary(ctx, date)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving stats: %v", err)), nil
	}
	if emptyPayload(raw) {
		return mcp.NewTextResult(fmt.Sprintf("No stats found for %s", date)), nil
	}

	stats := gjson.ParseBytes(raw)
	summary := map[string]any{
		"date": stats.Get("calendarDate").Value(),

		// Activity.
		"total_steps":     stats.Get("totalSteps").Value(),
		"daily_step_goal": stats.Get("dailyStepGoal").Value(),
		"distance_meters": stats.Get("totalDistanceMeters").Value(),

		// Calories.
		"total_calories":  stats.Get("totalKilocalories").Value(),
		"active_calories": stats.Get("activeKilocalories").Value(),
		"bmr_calories":    stats.Get("bmrKilocalories").Value(),

		// Activity duration.
		"highly_active_seconds": stats.Get("highlyActiveSeconds").Value(),
		"active_seconds":        stats.Get("activeSeconds").Value(),
		"sedentary_seconds":     stats.Get("sedentarySeconds").Value(),
		"sleeping_seconds":      stats.Get("sleepingSeconds").Value(),

		// Intensity minutes.
		"moderate_intensity_minutes": stats.Get("moderateIntensityMinutes").Value(),
		"vigorous_intensity_minutes": stats.Get("vigorousIntensityMinutes").Value(),
		"intensity_minutes_goal":     stats.Get("intensityMinutesGoal").Value(),

		// Heart rate.
		"min_heart_rate_bpm":         stats.Get("minHeartRate").Value(),
		"max_heart_rate_bpm":         stats.Get("maxHeartRate").Value(),
		"resting_heart_rate_bpm":     stats.Get("restingHeartRate").Value(),
		"last_7_days_avg_resting_hr": stats.Get("lastSevenDaysAvgRestingHeartRate").Value(),

		// Stress.
		"avg_stress_level": stats.Get("averageStressLevel").Value(),
		"max_stress_level": stats.Get("maxStressLevel").Value(),
		"stress_qualifier": stats.Get("stressQualifier").Value(),

		// Body battery.
		"body_battery_charged": stats.Get("bodyBatteryChargedValue").Value(),
		"body_battery_drained": stats.Get("bodyBatteryDrainedValue").Value(),
		"body_battery_highest": stats.Get("bodyBatteryHighestValue").Value(),
		"body_battery_lowest":  stats.Get("bodyBatteryLowestValue").Value(),
		"body_battery_current": stats.Get("bodyBatteryMostRecentValue").Value(),

		// SpO2.
		"avg_spo2_percent":    stats.Get("averageSpo2").Value(),
		"lowest_spo2_percent": stats.Get("lowestSpo2").Value(),

		// Respiration.
		"avg_waking_respiration": stats.Get("avgWakingRespirationValue").Value(),
		"highest_respiration":    stats.Get("highestRespirationValue").Value(),
		"lowest_respiration":     stats.Get("lowestRespirationValue").Value(),
	}
	if v := stats.Get("floorsAscended"); v.Exists() && v.Float() != 0 {
		summary["floors_ascended"] = curate.Round(v.Float(), 1)
	}
	if v := stats.Get("floorsDescended"); v.Exists() && v.Float() != 0 {
		summary["floors_descended"] = curate.Round(v.Float(), 1)
	}
	return mcp.NewTextResult(curate.JSON(curate.Compact(summary))), nil
}

func (t *ToolSet) getTrainingReadiness(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := argext.Require(req.Params.Arguments, "date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	raw, err := t.client.TrainingReadiness(ctx, date)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving training readiness data: %v", err)), nil
	}
	list := gjson.ParseBytes(raw).Array()
	if len(list) == 0 {
		return mcp.NewTextResult(fmt.Sprintf("No training readiness data found for %s", date)), nil
	}

	// Usually one or two entries per day.
	curated := make([]map[string]any, 0, len(list))
	for _, r := range list {
		entry := map[string]any{
			"date":      r.Get("calendarDate").Value(),
			"timestamp": r.Get("timestampLocal").Value(),
			"context":   r.Get("inputContext").Value(),

			// Overall readiness.
			"level":    r.Get("level").Value(),
			"score":    r.Get("score").Value(),
			"feedback": r.Get("feedbackShort").Value(),

			// Contributing factors.
			"sleep_score":           r.Get("sleepScore").Value(),
			"sleep_factor_percent":  r.Get("sleepScoreFactorPercent").Value(),
			"sleep_factor_feedback": r.Get("sleepScoreFactorFeedback").Value(),

			"recovery_factor_percent":  r.Get("recoveryTimeFactorPercent").Value(),
			"recovery_factor_feedback": r.Get("recoveryTimeFactorFeedback").Value(),

			"training_load_factor_percent": r.Get("acwrFactorPercent").Value(),
			"training_load_feedback":       r.Get("acwrFactorFeedback").Value(),
			"acute_load":                   r.Get("acuteLoad").Value(),

			"hrv_factor_percent":  r.Get("hrvFactorPercent").Value(),
			"hrv_factor_feedback": r.Get("hrvFactorFeedback").Value(),
			"hrv_weekly_avg":      r.Get("hrvWeeklyAverage").Value(),

			"stress_history_factor_percent": r.Get("stressHistoryFactorPercent").Value(),
			"stress_history_feedback":       r.Get("stressHistoryFactorFeedback").Value(),

			"sleep_history_factor_percent": r.Get("sleepHistoryFactorPercent").Value(),
			"sleep_history_feedback":       r.Get("sleepHistoryFactorFeedback").Value(),
		}
		if rt := r.Get("recoveryTime"); rt.Exists() && rt.Float() != 0 {
			entry["recovery_time_hours"] = curate.Round(rt.Float()/60, 1)
		}
		curated = append(curated, curate.Compact(entry))
	}
	return mcp.NewTextResult(curate.JSON(curated)), nil
}

func (t *ToolSet) getBodyBattery(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	startDate, err := argext.Require(args, "start_date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	endDate, err := argext.Require(args, "end_date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	raw, err := t.client.BodyBattery(ctx, startDate, endDate)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving body battery data: %v", err)), nil
	}
	days := gjson.ParseBytes(raw).Array()
	if len(days) == 0 {
		return mcp.NewTextResult(fmt.Sprintf("No body battery data found between %s and %s", startDate, endDate)), nil
	}

	curated := make([]map[string]any, 0, len(days))
	for _, day := range days {
		events := []map[string]any{}
		for _, event := range day.Get("bodyBatteryActivityEvent").Array() {
			events = append(events, map[string]any{
				"type":                event.Get("eventType").Value(),
				"start_time":          event.Get("eventStartTimeGmt").Value(),
				"duration_minutes":    curate.Round(event.Get("durationInMilliseconds").Float()/60000, 1),
				"body_battery_impact": event.Get("bodyBatteryImpact").Value(),
				"feedback":            event.Get("shortFeedback").Value(),
			})
		}
		entry := map[string]any{
			"date":    day.Get("date").Value(),
			"charged": day.Get("charged").Value(),
			"drained": day.Get("drained").Value(),
			"events":  events,
		}
		if feedback := day.Get("bodyBatteryDynamicFeedbackEvent"); feedback.Exists() {
			entry["current_feedback"] = feedback.Get("feedbackShortType").Value()
			entry["body_battery_level"] = feedback.Get("bodyBatteryLevel").Value()
		}
		curated = append(curated, entry)
	}
	return mcp.NewTextResult(curate.JSON(curated)), nil
}

func (t *ToolSet) getHeartRatesSummary(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := argext.Require(req.Params.Arguments, "date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	raw, err := t.client.HeartRates(ctx, date)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving heart rate summary: %v", err)), nil
	}
	if emptyPayload(raw) {
		return mcp.NewTextResult(fmt.Sprintf("No heart rate data found for %s", date)), nil
	}

	hr := gjson.ParseBytes(raw)
	summary := map[string]any{
		"date":                       hr.Get("calendarDate").Value(),
		"max_heart_rate_bpm":         hr.Get("maxHeartRate").Value(),
		"min_heart_rate_bpm":         hr.Get("minHeartRate").Value(),
		"resting_heart_rate_bpm":     hr.Get("restingHeartRate").Value(),
		"last_7_days_avg_resting_hr": hr.Get("lastSevenDaysAvgRestingHeartRate").Value(),
	}

	// Average over the [timestamp, bpm] series, skipping gaps.
	var sum float64
	var count int
	for _, pair := range hr.Get("heartRateValues").Array() {
		v := pair.Get("1").Float()
		if v > 0 {
			sum += v
			count++
		}
	}
	if count > 0 {
		summary["avg_heart_rate_bpm"] = curate.Round(sum/float64(count), 1)
		summary["data_points_count"] = count
	}
	return mcp.NewTextResult(curate.JSON(curate.Compact(summary))), nil
}

func (t *ToolSet) getSleepSummary(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := argext.Require(req.Params.Arguments, "date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	raw, err := t.client.SleepData(ctx, date)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving sleep summary: %v", err)), nil
	}
	if emptyPayload(raw) {
		return mcp.NewTextResult(fmt.Sprintf("No sleep summary found for %s", date)), nil
	}

	res := gjson.ParseBytes(raw)
	summary := map[string]any{}

	if daily := res.Get("dailySleepDTO"); daily.Exists() {
		summary["sleep_seconds"] = daily.Get("sleepTimeSeconds").Value()
		summary["nap_seconds"] = daily.Get("napTimeSeconds").Value()
		summary["sleep_start"] = daily.Get("sleepStartTimestampGMT").Value()
		summary["sleep_end"] = daily.Get("sleepEndTimestampGMT").Value()

		summary["sleep_score"] = daily.Get("sleepScores.overall.value").Value()
		summary["sleep_score_qualifier"] = daily.Get("sleepScores.overall.qualifierKey").Value()

		summary["deep_sleep_seconds"] = daily.Get("deepSleepSeconds").Value()
		summary["light_sleep_seconds"] = daily.Get("lightSleepSeconds").Value()
		summary["rem_sleep_seconds"] = daily.Get("remSleepSeconds").Value()
		summary["awake_seconds"] = daily.Get("awakeSleepSeconds").Value()

		summary["awake_count"] = daily.Get("awakeCount").Value()
		summary["restless_moments_count"] = daily.Get("restlessMomentsCount").Value()

		summary["avg_sleep_stress"] = daily.Get("avgSleepStress").Value()
		summary["resting_heart_rate_bpm"] = daily.Get("restingHeartRate").Value()
	}
	if spo2 := res.Get("wellnessSpO2SleepSummaryDTO"); spo2.Exists() {
		summary["avg_spo2_percent"] = spo2.Get("averageSpo2").Value()
		summary["lowest_spo2_percent"] = spo2.Get("lowestSpo2").Value()
	}
	if hrv := res.Get("avgOvernightHrv"); hrv.Exists() {
		summary["avg_overnight_hrv"] = hrv.Value()
	}

	if total := res.Get("dailySleepDTO.sleepTimeSeconds").Float(); total > 0 {
		summary["deep_sleep_percent"] = curate.Round(res.Get("dailySleepDTO.deepSleepSeconds").Float()/total*100, 1)
		summary["light_sleep_percent"] = curate.Round(res.Get("dailySleepDTO.lightSleepSeconds").Float()/total*100, 1)
		summary["rem_sleep_percent"] = curate.Round(res.Get("dailySleepDTO.remSleepSeconds").Float()/total*100, 1)
		summary["sleep_hours"] = curate.Round(total/3600, 2)
	}
	return mcp.NewTextResult(curate.JSON(curate.Compact(summary))), nil
}

// Stress level bands used by the Connect app: below 26 counts as rest,
// 26-50 low, 51-75 medium, 76 and up high.
func (t *ToolSet) getStressSummary(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := argext.Require(req.Params.Arguments, "date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	raw, err := t.client.StressData(ctx, date)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving stress summary: %v", err)), nil
	}
	if emptyPayload(raw) {
		return mcp.NewTextResult(fmt.Sprintf("No stress data found for %s", date)), nil
	}

	res := gjson.ParseBytes(raw)
	summary := map[string]any{
		"date":             res.Get("calendarDate").Value(),
		"max_stress_level": res.Get("maxStressLevel").Value(),
		"avg_stress_level": res.Get("avgStressLevel").Value(),
	}

	// Negative readings mark measurement gaps and activity time.
	var rest, low, medium, high, total int
	for _, pair := range res.Get("stressValuesArray").Array() {
		v := pair.Get("1").Float()
		if v <= 0 {
			continue
		}
		total++
		switch {
		case v < 26:
			rest++
		case v < 51:
			low++
		case v < 76:
			medium++
		default:
			high++
		}
	}
	if total > 0 {
		summary["rest_percent"] = curate.Round(float64(rest)/float64(total)*100, 1)
		summary["low_stress_percent"] = curate.Round(float64(low)/float64(total)*100, 1)
		summary["medium_stress_percent"] = curate.Round(float64(medium)/float64(total)*100, 1)
		summary["high_stress_percent"] = curate.Round(float64(high)/float64(total)*100, 1)
		summary["data_points_count"] = total
	}
	return mcp.NewTextResult(curate.JSON(curate.Compact(summary))), nil
}

func (t *ToolSet) getRespirationSummary(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := argext.Require(req.Params.Arguments, "date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	raw, err := t.client.RespirationData(ctx, date)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving respiration summary: %v", err)), nil
	}
	if emptyPayload(raw) {
		return mcp.NewTextResult(fmt.Sprintf("No respiration data found for %s", date)), nil
	}

	res := gjson.ParseBytes(raw)
	summary := curate.Compact(map[string]any{
		"date":                       res.Get("calendarDate").Value(),
		"lowest_breaths_per_min":     res.Get("lowestRespirationValue").Value(),
		"highest_breaths_per_min":    res.Get("highestRespirationValue").Value(),
		"avg_waking_breaths_per_min": res.Get("avgWakingRespirationValue").Value(),
		"avg_sleep_breaths_per_min":  res.Get("avgSleepRespirationValue").Value(),
	})
	return mcp.NewTextResult(curate.JSON(summary)), nil
}

func (t *ToolSet) getSpO2Data(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := argext.Require(req.Params.Arguments, "date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	raw, err := t.client.SpO2(ctx, date)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving SpO2 data: %v", err)), nil
	}
	if emptyPayload(raw) {
		return mcp.NewTextResult(fmt.Sprintf("No SpO2 data found for %s", date)), nil
	}

	res := gjson.ParseBytes(raw)
	summary := map[string]any{
		"date":                   res.Get("calendarDate").Value(),
		"avg_spo2_percent":       res.Get("averageSpO2").Value(),
		"lowest_spo2_percent":    res.Get("lowestSpO2").Value(),
		"latest_spo2_percent":    res.Get("latestSpO2").Value(),
		"latest_reading_time":    res.Get("latestSpO2TimestampLocal").Value(),
		"last_7_days_avg_spo2":   res.Get("lastSevenDaysAvgSpO2").Value(),
		"avg_sleep_spo2_percent": res.Get("avgSleepSpO2").Value(),
	}
	if hourly := res.Get("spO2HourlyAverages"); hourly.Exists() && len(hourly.Array()) > 0 {
		summary["hourly_averages"] = hourly.Value()
	}
	return mcp.NewTextResult(curate.JSON(curate.Compact(summary))), nil
}

func (t *ToolSet) getMorningTrainingReadiness(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := argext.Require(req.Params.Arguments, "date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	raw, err := t.client.MorningTrainingReadiness(ctx, date)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving morning training readiness: %v", err)), nil
	}
	if emptyPayload(raw) {
		return mcp.NewTextResult(fmt.Sprintf("No morning training readiness data found for %s", date)), nil
	}

	res := gjson.ParseBytes(raw)
	curated := curate.Compact(map[string]any{
		"date":                   date,
		"readiness_score":        res.Get("readinessScore").Value(),
		"readiness_level":        res.Get("readinessLevel").Value(),
		"recovery_time_hours":    res.Get("recoveryTime").Value(),
		"hrv_status":             res.Get("hrvStatus").Value(),
		"sleep_quality":          res.Get("sleepQuality").Value(),
		"sleep_score":            res.Get("sleepScore").Value(),
		"resting_heart_rate_bpm": res.Get("restingHeartRate").Value(),
		"hrv_baseline":           res.Get("hrvBaseline").Value(),
		"hrv_last_night":         res.Get("hrvLastNight").Value(),
		"body_battery_percent":   res.Get("bodyBattery").Value(),
		"stress_level":           res.Get("stressLevel").Value(),
		"training_load_balance":  res.Get("trainingLoadBalance").Value(),
		"acute_load":             res.Get("acuteLoad").Value(),
		"chronic_load":           res.Get("chronicLoad").Value(),
	})
	return mcp.NewTextResult(curate.JSON(curated)), nil
}
