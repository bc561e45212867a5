//
// Copyright (C) 2025 garmin-mcp-poke authors.  All rights reserved.
//
// garmin-mcp-poke is licensed under the Apache License Version 2.0.
//
//

// Package activity exposes Garmin Connect activity data as MCP tools:
// activity lists, per-activity details, splits, weather, gear and the
// activity type catalogue.
package activity

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"
	mcp "trpc.group/trpc-go/trpc-mcp-go"

	"github.com/theol0403/garmin-mcp-poke/internal/argext"
	"github.com/theol0403/garmin-mcp-poke/internal/curate"
	"github.com/theol0403/garmin-mcp-poke/internal/garmin"
)

// ToolSet registers the activity management tools.
type ToolSet struct {
	client *garmin.Client
}

// NewToolSet creates the activity toolset around an authenticated client.
func NewToolSet(client *garmin.Client) *ToolSet {
	return &ToolSet{client: client}
}

// Register adds every activity tool to the MCP server.
func (t *ToolSet) Register(s *mcp.Server) {
	s.RegisterTool(mcp.NewTool("get_activities_by_date",
		mcp.WithDescription("Get activities data between specified dates, optionally filtered by activity type"),
		mcp.WithString("start_date", mcp.Description("Start date in YYYY-MM-DD format"), mcp.Required()),
		mcp.WithString("end_date", mcp.Description("End date in YYYY-MM-DD format"), mcp.Required()),
		mcp.WithString("activity_type", mcp.Description("Optional activity type filter (e.g., cycling, running, swimming)")),
	), t.getActivitiesByDate)

	s.RegisterTool(mcp.NewTool("get_activities_fordate",
		mcp.WithDescription("Get activities for a specific date"),
		mcp.WithString("date", mcp.Description("Date in YYYY-MM-DD format"), mcp.Required()),
	), t.getActivitiesForDate)

	s.RegisterTool(mcp.NewTool("get_activity",
		mcp.WithDescription("Get basic activity information"),
		mcp.WithString("activity_id", mcp.Description("ID of the activity to retrieve"), mcp.Required()),
	), t.getActivity)

	s.RegisterTool(mcp.NewTool("get_activity_splits",
		mcp.WithDescription("Get splits for an activity"),
		mcp.WithString("activity_id", mcp.Description("ID of the activity to retrieve splits for"), mcp.Required()),
	), t.getActivitySplits)

	s.RegisterTool(mcp.NewTool("get_activity_typed_splits",
		mcp.WithDescription("Get typed splits for an activity"),
		mcp.WithString("activity_id", mcp.Description("ID of the activity to retrieve typed splits for"), mcp.Required()),
	), t.getActivityTypedSplits)

	s.RegisterTool(mcp.NewTool("get_activity_split_summaries",
		mcp.WithDescription("Get split summaries for an activity"),
		mcp.WithString("activity_id", mcp.Description("ID of the activity to retrieve split summaries for"), mcp.Required()),
	), t.getActivitySplitSummaries)

	s.RegisterTool(mcp.NewTool("get_activity_weather",
		mcp.WithDescription("Get weather data for an activity"),
		mcp.WithString("activity_id", mcp.Description("ID of the activity to retrieve weather data for"), mcp.Required()),
	), t.getActivityWeather)

	s.RegisterTool(mcp.NewTool("get_activity_hr_in_timezones",
		mcp.WithDescription("Get heart rate data in different time zones for an activity"),
		mcp.WithString("activity_id", mcp.Description("ID of the activity to retrieve heart rate time zone data for"), mcp.Required()),
	), t.getActivityHRInTimezones)

	s.RegisterTool(mcp.NewTool("get_activity_gear",
		mcp.WithDescription("Get gear data used for an activity"),
		mcp.WithString("activity_id", mcp.Description("ID of the activity to retrieve gear data for"), mcp.Required()),
	), t.getActivityGear)

	s.RegisterTool(mcp.NewTool("get_activity_exercise_sets",
		mcp.WithDescription("Get exercise sets for strength training activities"),
		mcp.WithString("activity_id", mcp.Description("ID of the activity to retrieve exercise sets for"), mcp.Required()),
	), t.getActivityExerciseSets)

	s.RegisterTool(mcp.NewTool("count_activities",
		mcp.WithDescription("Get total count of activities in the user's Garmin account"),
	), t.countActivities)

	s.RegisterTool(mcp.NewTool("get_activities",
		mcp.WithDescription("Get activities with pagination support. Activities are ordered newest first."),
		mcp.WithNumber("start", mcp.Description("Starting index (default 0)"), mcp.Default(0.0)),
		mcp.WithNumber("limit", mcp.Description("Maximum number of activities to return (default 20, max 100)"), mcp.Default(20.0)),
	), t.getActivities)

	s.RegisterTool(mcp.NewTool("get_activity_types",
		mcp.WithDescription("Get all available activity types, useful for filtering activities by type"),
	), t.getActivityTypes)
}

// summarizeActivity curates one entry of an activity list.
func summarizeActivity(a gjson.Result) map[string]any {
	return curate.Compact(map[string]any{
		"id":               a.Get("activityId").Value(),
		"name":             a.Get("activityName").Value(),
		"type":             a.Get("activityType.typeKey").Value(),
		"start_time":       a.Get("startTimeLocal").Value(),
		"distance_meters":  a.Get("distance").Value(),
		"duration_seconds": a.Get("duration").Value(),
		"calories":         a.Get("calories").Value(),
		"avg_hr_bpm":       a.Get("averageHR").Value(),
		"max_hr_bpm":       a.Get("maxHR").Value(),
		"steps":            a.Get("steps").Value(),
	})
}

func (t *ToolSet) getActivitiesByDate(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	startDate, err := argext.Require(args, "start_date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	endDate, err := argext.Require(args, "end_date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	activityType := argext.String(args, "activity_type", "")

	raw, err := t.client.ActivitiesByDate(ctx, startDate, endDate, activityType)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving activities by date: %v", err)), nil
	}
	list := gjson.ParseBytes(raw).Array()
	if len(list) == 0 {
		msg := fmt.Sprintf("No activities found between %s and %s", startDate, endDate)
		if activityType != "" {
			msg += fmt.Sprintf(" for activity type '%s'", activityType)
		}
		return mcp.NewTextResult(msg), nil
	}

	activities := make([]map[string]any, 0, len(list))
	for _, a := range list {
		activities = append(activities, summarizeActivity(a))
	}
	return mcp.NewTextResult(curate.JSON(map[string]any{
		"count":      len(list),
		"date_range": map[string]string{"start": startDate, "end": endDate},
		"activities": activities,
	})), nil
}

func (t *ToolSet) getActivitiesForDate(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := argext.Require(req.Params.Arguments, "date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	raw, err := t.client.ActivitiesForDate(ctx, date)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving activities for date: %v", err)), nil
	}

	// Pull out just the activities, not the embedded HR data.
	payload := gjson.GetBytes(raw, "ActivitiesForDay.payload").Array()
	if len(payload) == 0 {
		return mcp.NewTextResult(fmt.Sprintf("No activities found for %s", date)), nil
	}

	activities := make([]map[string]any, 0, len(payload))
	for _, a := range payload {
		entry := summarizeActivity(a)
		for k, v := range curate.Compact(map[string]any{
			"lap_count":                  a.Get("lapCount").Value(),
			"moderate_intensity_minutes": a.Get("moderateIntensityMinutes").Value(),
			"vigorous_intensity_minutes": a.Get("vigorousIntensityMinutes").Value(),
		}) {
			entry[k] = v
		}
		delete(entry, "max_hr_bpm")
		activities = append(activities, entry)
	}
	return mcp.NewTextResult(curate.JSON(map[string]any{
		"date":       date,
		"count":      len(payload),
		"activities": activities,
	})), nil
}

func (t *ToolSet) getActivity(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	activityID, err := argext.ID(req.Params.Arguments, "activity_id")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	raw, err := t.client.Activity(ctx, activityID)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving activity: %v", err)), nil
	}
	if len(raw) == 0 {
		return mcp.NewTextResult(fmt.Sprintf("No activity found with ID %s", activityID)), nil
	}

	res := gjson.ParseBytes(raw)
	summary := res.Get("summaryDTO")
	curated := curate.Compact(map[string]any{
		"id":          res.Get("activityId").Value(),
		"name":        res.Get("activityName").Value(),
		"type":        res.Get("activityTypeDTO.typeKey").Value(),
		"parent_type": res.Get("activityTypeDTO.parentTypeId").Value(),

		// Timing.
		"start_time_local":         summary.Get("startTimeLocal").Value(),
		"start_time_gmt":           summary.Get("startTimeGMT").Value(),
		"duration_seconds":         summary.Get("duration").Value(),
		"moving_duration_seconds":  summary.Get("movingDuration").Value(),
		"elapsed_duration_seconds": summary.Get("elapsedDuration").Value(),

		// Distance and speed.
		"distance_meters": summary.Get("distance").Value(),
		"avg_speed_mps":   summary.Get("averageSpeed").Value(),
		"max_speed_mps":   summary.Get("maxSpeed").Value(),

		// Heart rate.
		"avg_hr_bpm": summary.Get("averageHR").Value(),
		"max_hr_bpm": summary.Get("maxHR").Value(),
		"min_hr_bpm": summary.Get("minHR").Value(),

		// Calories.
		"calories":     summary.Get("calories").Value(),
		"bmr_calories": summary.Get("bmrCalories").Value(),

		// Running metrics.
		"avg_cadence":                 summary.Get("averageRunCadence").Value(),
		"max_cadence":                 summary.Get("maxRunCadence").Value(),
		"avg_stride_length_cm":        summary.Get("strideLength").Value(),
		"avg_ground_contact_time_ms":  summary.Get("groundContactTime").Value(),
		"avg_vertical_oscillation_cm": summary.Get("verticalOscillation").Value(),
		"steps":                       summary.Get("steps").Value(),

		// Power.
		"avg_power_watts":        summary.Get("averagePower").Value(),
		"max_power_watts":        summary.Get("maxPower").Value(),
		"normalized_power_watts": summary.Get("normalizedPower").Value(),

		// Training effect.
		"training_effect":           summary.Get("trainingEffect").Value(),
		"anaerobic_training_effect": summary.Get("anaerobicTrainingEffect").Value(),
		"training_effect_label":     summary.Get("trainingEffectLabel").Value(),
		"training_load":             summary.Get("activityTrainingLoad").Value(),

		// Intensity minutes.
		"moderate_intensity_minutes": summary.Get("moderateIntensityMinutes").Value(),
		"vigorous_intensity_minutes": summary.Get("vigorousIntensityMinutes").Value(),

		// Recovery.
		"recovery_hr_bpm":     summary.Get("recoveryHeartRate").Value(),
		"body_battery_impact": summary.Get("differenceBodyBattery").Value(),

		// Workout feedback.
		"workout_feel": summary.Get("directWorkoutFeel").Value(),
		"workout_rpe":  summary.Get("directWorkoutRpe").Value(),

		// Metadata.
		"lap_count":           res.Get("metadataDTO.lapCount").Value(),
		"has_splits":          res.Get("metadataDTO.hasSplits").Value(),
		"device_manufacturer": res.Get("metadataDTO.manufacturer").Value(),
	})
	return mcp.NewTextResult(curate.JSON(curated)), nil
}

func (t *ToolSet) getActivitySplits(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	activityID, err := argext.ID(req.Params.Arguments, "activity_id")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	raw, err := t.client.ActivitySplits(ctx, activityID)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving activity splits: %v", err)), nil
	}
	if len(raw) == 0 {
		return mcp.NewTextResult(fmt.Sprintf("No splits found for activity with ID %s", activityID)), nil
	}

	res := gjson.ParseBytes(raw)
	lapDTOs := res.Get("lapDTOs").Array()
	laps := make([]map[string]any, 0, len(lapDTOs))
	for _, lap := range lapDTOs {
		laps = append(laps, curate.Compact(map[string]any{
			"lap_number":       lap.Get("lapIndex").Value(),
			"start_time":       lap.Get("startTimeGMT").Value(),
			"distance_meters":  lap.Get("distance").Value(),
			"duration_seconds": lap.Get("duration").Value(),
			"avg_speed_mps":    lap.Get("averageSpeed").Value(),
			"max_speed_mps":    lap.Get("maxSpeed").Value(),
			"avg_hr_bpm":       lap.Get("averageHR").Value(),
			"max_hr_bpm":       lap.Get("maxHR").Value(),
			"calories":         lap.Get("calories").Value(),
			"avg_cadence":      lap.Get("averageRunCadence").Value(),
			"avg_power_watts":  lap.Get("averagePower").Value(),
			"intensity_type":   lap.Get("intensityType").Value(),
		}))
	}
	return mcp.NewTextResult(curate.JSON(map[string]any{
		"activity_id": res.Get("activityId").Value(),
		"lap_count":   len(laps),
		"laps":        laps,
	})), nil
}

func (t *ToolSet) getActivityTypedSplits(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.rawActivityResource(ctx, req, "typed splits",
		func(ctx context.Context, id string) ([]byte, error) {
			return t.client.ActivityTypedSplits(ctx, id)
		})
}

func (t *ToolSet) getActivitySplitSummaries(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.rawActivityResource(ctx, req, "split summaries",
		func(ctx context.Context, id string) ([]byte, error) {
			return t.client.ActivitySplitSummaries(ctx, id)
		})
}

func (t *ToolSet) getActivityHRInTimezones(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.rawActivityResource(ctx, req, "heart rate time zone data",
		func(ctx context.Context, id string) ([]byte, error) {
			return t.client.ActivityHRInTimezones(ctx, id)
		})
}

func (t *ToolSet) getActivityGear(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.rawActivityResource(ctx, req, "gear data",
		func(ctx context.Context, id string) ([]byte, error) {
			return t.client.ActivityGear(ctx, id)
		})
}

func (t *ToolSet) getActivityExerciseSets(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.rawActivityResource(ctx, req, "exercise sets",
		func(ctx context.Context, id string) ([]byte, error) {
			return t.client.ActivityExerciseSets(ctx, id)
		})
}

// rawActivityResource serves the per-activity endpoints that are returned
// to the model as-is, pretty-printed.
func (t *ToolSet) rawActivityResource(ctx context.Context, req *mcp.CallToolRequest, what string,
	fetch func(context.Context, string) ([]byte, error)) (*mcp.CallToolResult, error) {
	activityID, err := argext.ID(req.Params.Arguments, "activity_id")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	raw, err := fetch(ctx, activityID)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving activity %s: %v", what, err)), nil
	}
	if len(raw) == 0 || string(raw) == "null" || string(raw) == "[]" {
		return mcp.NewTextResult(fmt.Sprintf("No %s found for activity with ID %s", what, activityID)), nil
	}
	return mcp.NewTextResult(curate.JSON(gjson.ParseBytes(raw).Value())), nil
}

func (t *ToolSet) getActivityWeather(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	activityID, err := argext.ID(req.Params.Arguments, "activity_id")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	raw, err := t.client.ActivityWeather(ctx, activityID)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving activity weather data: %v", err)), nil
	}
	if len(raw) == 0 {
		return mcp.NewTextResult(fmt.Sprintf("No weather data found for activity with ID %s", activityID)), nil
	}

	w := gjson.ParseBytes(raw)
	curated := curate.Compact(map[string]any{
		"activity_id":                  activityID,
		"temperature_celsius":          w.Get("temp").Value(),
		"apparent_temperature_celsius": w.Get("apparentTemp").Value(),
		"humidity_percent":             w.Get("relativeHumidity").Value(),
		"wind_speed_mps":               w.Get("windSpeed").Value(),
		"wind_direction_degrees":       w.Get("windDirection").Value(),
		"weather_type":                 w.Get("weatherTypeDTO.weatherTypeName").Value(),
		"weather_description":          w.Get("weatherTypeDTO.weatherTypeDesc").Value(),
		"location":                     w.Get("issueLocation").Value(),
		"issue_time":                   w.Get("issueDate").Value(),
	})
	return mcp.NewTextResult(curate.JSON(curated)), nil
}

func (t *ToolSet) countActivities(ctx context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := t.client.CountActivities(ctx)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error counting activities: %v", err)), nil
	}
	if len(raw) == 0 {
		return mcp.NewTextResult("Unable to retrieve activity count"), nil
	}
	count := gjson.ParseBytes(raw)
	total := count.Value()
	if count.IsObject() {
		total = count.Get("countOfActivities").Value()
	}
	return mcp.NewTextResult(curate.JSON(map[string]any{
		"total_activities": total,
		"note":             "Use get_activities() with pagination to retrieve activity details",
	})), nil
}

func (t *ToolSet) getActivities(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	start := argext.Int(args, "start", 0)
	limit := curate.Clamp(argext.Int(args, "limit", 20), 1, 100)

	raw, err := t.client.Activities(ctx, start, limit)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving activities: %v", err)), nil
	}
	list := gjson.ParseBytes(raw).Array()
	if len(list) == 0 {
		return mcp.NewTextResult(fmt.Sprintf("No activities found at index %d", start)), nil
	}

	activities := make([]map[string]any, 0, len(list))
	for _, a := range list {
		entry := summarizeActivity(a)
		for k, v := range curate.Compact(map[string]any{
			"moving_duration_seconds": a.Get("movingDuration").Value(),
			"owner_display_name":      a.Get("ownerDisplayName").Value(),
		}) {
			entry[k] = v
		}
		activities = append(activities, entry)
	}

	out := map[string]any{
		"start":      start,
		"limit":      limit,
		"count":      len(list),
		"has_more":   len(list) == limit,
		"activities": activities,
	}
	if len(list) == limit {
		out["next_start"] = start + limit
	}
	return mcp.NewTextResult(curate.JSON(out)), nil
}

func (t *ToolSet) getActivityTypes(ctx context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := t.client.ActivityTypes(ctx)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving activity types: %v", err)), nil
	}
	list := gjson.ParseBytes(raw).Array()
	if len(list) == 0 {
		return mcp.NewTextResult("No activity types found"), nil
	}

	types := make([]map[string]any, 0, len(list))
	for _, at := range list {
		types = append(types, curate.Compact(map[string]any{
			"type_id":        at.Get("typeId").Value(),
			"type_key":       at.Get("typeKey").Value(),
			"display_name":   at.Get("displayName").Value(),
			"parent_type_id": at.Get("parentTypeId").Value(),
			"is_hidden":      at.Get("isHidden").Value(),
		}))
	}
	return mcp.NewTextResult(curate.JSON(map[string]any{
		"count":          len(types),
		"activity_types": types,
	})), nil
}
