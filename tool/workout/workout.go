//
// Copyright (C) 2025 garmin-mcp-poke authors.  All rights reserved.
//
// garmin-mcp-poke is licensed under the Apache License Version 2.0.
//
//

// Package workout exposes workout library, scheduling and training plan
// tools, plus read-only workout template resources for building custom
// workouts.
package workout

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	mcp "trpc.group/trpc-go/trpc-mcp-go"

	"github.com/theol0403/garmin-mcp-poke/internal/argext"
	"github.com/theol0403/garmin-mcp-poke/internal/curate"
	"github.com/theol0403/garmin-mcp-poke/internal/garmin"
)

// ToolSet groups the workout tools around a shared client.
type ToolSet struct {
	client *garmin.Client
}

// NewToolSet creates the workout toolset around an authenticated client.
func NewToolSet(client *garmin.Client) *ToolSet {
	return &ToolSet{client: client}
}

// Register adds every workout tool and template resource to the MCP server.
func (t *ToolSet) Register(s *mcp.Server) {
	s.RegisterTool(mcp.NewTool("get_workouts",
		mcp.WithDescription("Get all workouts with curated summary list. For detailed workout information including segments, use get_workout_by_id"),
	), t.getWorkouts)
	s.RegisterTool(mcp.NewTool("get_workout_by_id",
		mcp.WithDescription("Get detailed information for a specific workout, including segments and step structure"),
		mcp.WithString("workout_id",
			mcp.Description("Workout ID (numeric) or UUID (for training plan workouts)"),
			mcp.Required()),
	), t.getWorkoutByID)
	s.RegisterTool(mcp.NewTool("download_workout",
		mcp.WithDescription("Download a workout as a FIT file. The binary data cannot be returned directly, but this confirms the workout is available"),
		mcp.WithString("workout_id", mcp.Description("ID of the workout to download"), mcp.Required()),
	), t.downloadWorkout)
	s.RegisterTool(mcp.NewTool("upload_workout",
		mcp.WithDescription(`Upload a workout from JSON data. Step types must use Garmin's DTO format: "ExecutableStepDTO" for regular steps and "RepeatGroupDTO" for repeat groups with numberOfIterations. See the workout://reference/structure resource for valid values`),
		mcp.WithObject("workout_data",
			mcp.Description("Workout structure (name, sport type, segments, etc.)"),
			mcp.Required()),
	), t.uploadWorkout)
	s.RegisterTool(mcp.NewTool("get_scheduled_workouts",
		mcp.WithDescription("Get workouts scheduled on the Garmin Connect calendar between two dates, with completion status"),
		mcp.WithString("start_date", mcp.Description("Start date in YYYY-MM-DD format"), mcp.Required()),
		mcp.WithString("end_date", mcp.Description("End date in YYYY-MM-DD format"), mcp.Required()),
	), t.getScheduledWorkouts)
	s.RegisterTool(mcp.NewTool("get_training_plan_workouts",
		mcp.WithDescription("Get training plan workouts for the week containing the given date. Training plan workouts have workout_uuid; use it with get_workout_by_id for step details"),
		mcp.WithString("calendar_date", mcp.Description("Reference date in YYYY-MM-DD format (returns week's workouts)"), mcp.Required()),
	), t.getTrainingPlanWorkouts)
	s.RegisterTool(mcp.NewTool("schedule_workout",
		mcp.WithDescription("Schedule an existing workout from your library to a specific calendar date"),
		mcp.WithString("workout_id", mcp.Description("ID of the workout to schedule (get IDs from get_workouts)"), mcp.Required()),
		mcp.WithString("calendar_date", mcp.Description("Date to schedule the workout in YYYY-MM-DD format"), mcp.Required()),
	), t.scheduleWorkout)

	registerTemplates(s)
}

// curateWorkoutSummary extracts list-view metadata for a workout.
func curateWorkoutSummary(w gjson.Result) map[string]any {
	summary := map[string]any{
		"id":           w.Get("workoutId").Value(),
		"name":         w.Get("workoutName").Value(),
		"sport":        w.Get("sportType.sportTypeKey").Value(),
		"provider":     w.Get("workoutProvider").Value(),
		"created_date": w.Get("createdDate").Value(),
		"updated_date": w.Get("updatedDate").Value(),
	}
	if desc := w.Get("description"); desc.String() != "" {
		summary["description"] = desc.Value()
	}
	if d := w.Get("estimatedDuration"); d.Float() != 0 {
		summary["estimated_duration_seconds"] = d.Value()
	}
	if d := w.Get("estimatedDistance"); d.Float() != 0 {
		summary["estimated_distance_meters"] = d.Value()
	}
	return curate.Compact(summary)
}

func curateWorkoutStep(step gjson.Result) map[string]any {
	curated := map[string]any{
		"order": step.Get("stepOrder").Value(),
		// warmup, interval, cooldown, rest, recover
		"type": step.Get("stepType.stepTypeKey").Value(),
	}
	if desc := step.Get("description"); desc.String() != "" {
		curated["description"] = desc.Value()
	}
	if cond := step.Get("endCondition.conditionTypeKey"); cond.String() != "" {
		curated["end_condition"] = cond.Value()
	}
	if v := step.Get("endConditionValue"); v.Float() != 0 {
		// Seconds for time conditions, meters for distance.
		curated["end_condition_value"] = v.Value()
	}
	if target := step.Get("targetType.workoutTargetTypeKey"); target.String() != "" && target.String() != "no.target" {
		curated["target_type"] = target.Value()
		if v := step.Get("targetValueOne"); v.Float() != 0 {
			curated["target_value_low"] = v.Value()
		}
		if v := step.Get("targetValueTwo"); v.Float() != 0 {
			curated["target_value_high"] = v.Value()
		}
		if v := step.Get("zoneNumber"); v.Int() != 0 {
			curated["target_zone"] = v.Value()
		}
	}
	if step.Get("type").String() == "RepeatGroupDTO" {
		curated["repeat_count"] = step.Get("numberOfIterations").Value()
	}
	return curate.Compact(curated)
}

func curateWorkoutSegment(segment gjson.Result) map[string]any {
	curated := map[string]any{
		"order": segment.Get("segmentOrder").Value(),
		"sport": segment.Get("sportType.sportTypeKey").Value(),
	}
	if d := segment.Get("estimatedDurationInSecs"); d.Float() != 0 {
		curated["estimated_duration_seconds"] = d.Value()
	}
	if d := segment.Get("estimatedDistanceInMeters"); d.Float() != 0 {
		curated["estimated_distance_meters"] = d.Value()
	}
	if steps := segment.Get("workoutSteps").Array(); len(steps) > 0 {
		curatedSteps := make([]map[string]any, 0, len(steps))
		for _, step := range steps {
			curatedSteps = append(curatedSteps, curateWorkoutStep(step))
		}
		curated["steps"] = curatedSteps
		curated["step_count"] = len(steps)
	}
	return curate.Compact(curated)
}

// curateWorkoutDetails handles both regular workouts and training plan
// workouts, which use slightly different field names.
func curateWorkoutDetails(w gjson.Result) map[string]any {
	details := map[string]any{
		"id":           w.Get("workoutId").Value(),
		"uuid":         w.Get("workoutUuid").Value(),
		"name":         w.Get("workoutName").Value(),
		"sport":        w.Get("sportType.sportTypeKey").Value(),
		"provider":     w.Get("workoutProvider").Value(),
		"created_date": w.Get("createdDate").Value(),
		"updated_date": w.Get("updatedDate").Value(),
	}
	if desc := w.Get("description"); desc.String() != "" {
		details["description"] = desc.Value()
	}
	duration := w.Get("estimatedDuration")
	if !duration.Exists() || duration.Float() == 0 {
		duration = w.Get("estimatedDurationInSecs")
	}
	if duration.Float() != 0 {
		details["estimated_duration_seconds"] = duration.Value()
	}
	distance := w.Get("estimatedDistance")
	if !distance.Exists() || distance.Float() == 0 {
		distance = w.Get("estimatedDistanceInMeters")
	}
	if distance.Float() != 0 {
		details["estimated_distance_meters"] = distance.Value()
	}
	if v := w.Get("avgTrainingSpeed"); v.Float() != 0 {
		details["avg_training_speed_mps"] = v.Value()
	}
	if v := w.Get("workoutPhrase"); v.String() != "" {
		details["workout_type"] = v.Value()
	}
	if v := w.Get("trainingEffectLabel"); v.String() != "" {
		details["training_effect_label"] = v.Value()
	}
	if v := w.Get("estimatedTrainingEffect"); v.Float() != 0 {
		details["estimated_training_effect"] = v.Value()
	}
	if segments := w.Get("workoutSegments").Array(); len(segments) > 0 {
		curatedSegments := make([]map[string]any, 0, len(segments))
		for _, segment := range segments {
			curatedSegments = append(curatedSegments, curateWorkoutSegment(segment))
		}
		details["segments"] = curatedSegments
		details["segment_count"] = len(segments)
	}
	return curate.Compact(details)
}

// curateScheduledWorkout shapes a GraphQL schedule summary. Completion is
// inferred from the presence of an associated activity.
func curateScheduledWorkout(scheduled gjson.Result) map[string]any {
	activityID := scheduled.Get("associatedActivityId")
	completed := activityID.Exists() && activityID.Type != gjson.Null

	summary := map[string]any{
		"date":         scheduled.Get("scheduleDate").Value(),
		"workout_uuid": scheduled.Get("workoutUuid").Value(),
		"workout_id":   scheduled.Get("workoutId").Value(),
		"name":         scheduled.Get("workoutName").Value(),
		"sport":        scheduled.Get("workoutType").Value(),
		"completed":    completed,
	}
	if v := scheduled.Get("tpPlanName"); v.String() != "" {
		summary["training_plan"] = v.Value()
	}
	// Workout intent from Garmin Coach, e.g. "ANAEROBIC_SPEED" or
	// "LONG_WORKOUT".
	if v := scheduled.Get("workoutPhrase"); v.String() != "" {
		summary["workout_type"] = v.Value()
	}
	if scheduled.Get("isRestDay").Bool() {
		summary["is_rest_day"] = true
	}
	if scheduled.Get("race").Bool() {
		summary["is_race_day"] = true
	}
	if v := scheduled.Get("estimatedDurationInSecs"); v.Float() != 0 {
		summary["estimated_duration_seconds"] = v.Value()
	}
	if v := scheduled.Get("estimatedDistanceInMeters"); v.Float() != 0 {
		summary["estimated_distance_meters"] = v.Value()
	}
	if completed {
		summary["activity_id"] = activityID.Value()
	}
	return curate.Compact(summary)
}

func (t *ToolSet) getWorkouts(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := t.client.Workouts(ctx, 0, 100)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving workouts: %v", err)), nil
	}
	workouts := gjson.ParseBytes(raw).Array()
	if len(workouts) == 0 {
		return mcp.NewTextResult("No workouts found."), nil
	}

	curated := make([]map[string]any, 0, len(workouts))
	for _, w := range workouts {
		curated = append(curated, curateWorkoutSummary(w))
	}
	return mcp.NewTextResult(curate.JSON(map[string]any{
		"count":    len(curated),
		"workouts": curated,
	})), nil
}

func (t *ToolSet) getWorkoutByID(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workoutID, err := argext.ID(req.Params.Arguments, "workout_id")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}

	var raw []byte
	if strings.Contains(workoutID, "-") {
		// UUIDs identify Garmin Coach / training plan workouts.
		raw, err = t.client.AdaptiveWorkout(ctx, workoutID)
	} else {
		raw, err = t.client.Workout(ctx, workoutID)
	}
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving workout: %v", err)), nil
	}
	workout := gjson.ParseBytes(raw)
	if !workout.Exists() || len(workout.Map()) == 0 {
		return mcp.NewTextResult(fmt.Sprintf("No workout found with ID %s.", workoutID)), nil
	}
	return mcp.NewTextResult(curate.JSON(curateWorkoutDetails(workout))), nil
}

func (t *ToolSet) downloadWorkout(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workoutID, err := argext.ID(req.Params.Arguments, "workout_id")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	data, err := t.client.DownloadWorkout(ctx, workoutID)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error downloading workout: %v", err)), nil
	}
	if len(data) == 0 {
		return mcp.NewTextResult(fmt.Sprintf("No workout data found for workout with ID %s.", workoutID)), nil
	}
	return mcp.NewTextResult(curate.JSON(map[string]any{
		"workout_id": workoutID,
		"format":     "FIT",
		"size_bytes": len(data),
		"message":    "Workout data is available in FIT format. Use Garmin Connect API to save to file.",
	})), nil
}

func (t *ToolSet) uploadWorkout(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workoutData := argext.Map(req.Params.Arguments, "workout_data")
	if len(workoutData) == 0 {
		return mcp.NewErrorResult(`missing required argument "workout_data"`), nil
	}
	raw, err := t.client.UploadWorkout(ctx, workoutData)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error uploading workout: %v", err)), nil
	}
	result := gjson.ParseBytes(raw)
	if result.IsObject() {
		return mcp.NewTextResult(curate.JSON(curate.Compact(map[string]any{
			"status":     "success",
			"workout_id": result.Get("workoutId").Value(),
			"name":       result.Get("workoutName").Value(),
			"message":    "Workout uploaded successfully",
		}))), nil
	}
	return mcp.NewTextResult(curate.JSON(result.Value())), nil
}

func (t *ToolSet) getScheduledWorkouts(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	startDate, err := argext.Require(args, "start_date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	endDate, err := argext.Require(args, "end_date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}

	query := fmt.Sprintf(`query{workoutScheduleSummariesScalar(startDate:%q, endDate:%q)}`, startDate, endDate)
	raw, err := t.client.GraphQL(ctx, query)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving scheduled workouts: %v", err)), nil
	}
	result := gjson.ParseBytes(raw)
	if !result.Get("data").Exists() {
		return mcp.NewTextResult("No scheduled workouts found or error querying data."), nil
	}
	scheduled := result.Get("data.workoutScheduleSummariesScalar").Array()
	if len(scheduled) == 0 {
		return mcp.NewTextResult(fmt.Sprintf("No workouts scheduled between %s and %s.", startDate, endDate)), nil
	}

	curated := make([]map[string]any, 0, len(scheduled))
	for _, s := range scheduled {
		curated = append(curated, curateScheduledWorkout(s))
	}
	return mcp.NewTextResult(curate.JSON(map[string]any{
		"count":              len(curated),
		"date_range":         map[string]any{"start": startDate, "end": endDate},
		"scheduled_workouts": curated,
	})), nil
}

func (t *ToolSet) getTrainingPlanWorkouts(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	calendarDate, err := argext.Require(req.Params.Arguments, "calendar_date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}

	query := fmt.Sprintf(`query{trainingPlanScalar(calendarDate:%q, lang:"en-US", firstDayOfWeek:"monday")}`, calendarDate)
	raw, err := t.client.GraphQL(ctx, query)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving training plan workouts: %v", err)), nil
	}
	result := gjson.ParseBytes(raw)
	if !result.Get("data").Exists() {
		return mcp.NewTextResult("No training plan data found or error querying data."), nil
	}
	plans := result.Get("data.trainingPlanScalar.trainingPlanWorkoutScheduleDTOS").Array()
	if len(plans) == 0 {
		return mcp.NewTextResult(fmt.Sprintf("No training plan workouts scheduled for %s.", calendarDate)), nil
	}

	var planNames []string
	var workouts []map[string]any
	seen := map[string]bool{}
	for _, plan := range plans {
		if name := plan.Get("planName").String(); name != "" && !seen[name] {
			seen[name] = true
			planNames = append(planNames, name)
		}
		for _, w := range plan.Get("workoutScheduleSummaries").Array() {
			workouts = append(workouts, curateScheduledWorkout(w))
		}
	}

	curated := map[string]any{
		"date":     calendarDate,
		"count":    len(workouts),
		"workouts": workouts,
	}
	if len(planNames) > 0 {
		curated["training_plans"] = planNames
	}
	return mcp.NewTextResult(curate.JSON(curated)), nil
}

func (t *ToolSet) scheduleWorkout(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	workoutID, err := argext.ID(args, "workout_id")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	calendarDate, err := argext.Require(args, "calendar_date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	if _, err := t.client.ScheduleWorkout(ctx, workoutID, calendarDate); err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error scheduling workout: %v", err)), nil
	}
	return mcp.NewTextResult(curate.JSON(map[string]any{
		"status":         "success",
		"workout_id":     workoutID,
		"scheduled_date": calendarDate,
		"message":        fmt.Sprintf("Successfully scheduled workout %s for %s", workoutID, calendarDate),
	})), nil
}
