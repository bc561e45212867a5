//
// Copyright (C) 2025 garmin-mcp-poke authors.  All rights reserved.
//
// garmin-mcp-poke is licensed under the Apache License Version 2.0.
//
//

package workout

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	mcp "trpc.group/trpc-go/trpc-mcp-go"

	"github.com/theol0403/garmin-mcp-poke/internal/curate"
	"github.com/theol0403/garmin-mcp-poke/internal/garmin"
)

func newTestToolSet(t *testing.T, handler http.Handler) *ToolSet {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store := &garmin.TokenStore{
		OAuth1: &garmin.OAuth1Token{Token: "t", Secret: "s"},
		OAuth2: &garmin.OAuth2Token{
			TokenType:   "Bearer",
			AccessToken: "access",
			ExpiresAt:   time.Now().Add(time.Hour).Unix(),
		},
	}
	return NewToolSet(garmin.NewWithTokens(store, srv.URL, srv.Client()))
}

func callReq(args map[string]any) *mcp.CallToolRequest {
	req := &mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	}
	t.Fatalf("unexpected content type %T", res.Content[0])
	return ""
}

func TestCurateWorkoutDetails(t *testing.T) {
	w := gjson.Parse(`{
		"workoutId": 5001,
		"workoutName": "Tempo Run",
		"sportType": {"sportTypeKey": "running"},
		"estimatedDuration": 2400,
		"workoutSegments": [{
			"segmentOrder": 1,
			"sportType": {"sportTypeKey": "running"},
			"workoutSteps": [
				{
					"type": "ExecutableStepDTO",
					"stepOrder": 1,
					"stepType": {"stepTypeKey": "warmup"},
					"endCondition": {"conditionTypeKey": "time"},
					"endConditionValue": 600
				},
				{
					"type": "ExecutableStepDTO",
					"stepOrder": 2,
					"stepType": {"stepTypeKey": "interval"},
					"endCondition": {"conditionTypeKey": "time"},
					"endConditionValue": 1200,
					"targetType": {"workoutTargetTypeKey": "heart.rate.zone"},
					"zoneNumber": 4
				},
				{
					"type": "RepeatGroupDTO",
					"stepOrder": 3,
					"numberOfIterations": 6
				}
			]
		}]
	}`)

	details := curateWorkoutDetails(w)
	assert.Equal(t, float64(5001), details["id"])
	assert.Equal(t, "running", details["sport"])
	assert.Equal(t, float64(2400), details["estimated_duration_seconds"])
	assert.Equal(t, 1, details["segment_count"])

	segments := details["segments"].([]map[string]any)
	steps := segments[0]["steps"].([]map[string]any)
	require.Len(t, steps, 3)
	assert.Equal(t, "warmup", steps[0]["type"])
	assert.Equal(t, float64(600), steps[0]["end_condition_value"])
	assert.NotContains(t, steps[0], "target_type")
	assert.Equal(t, "heart.rate.zone", steps[1]["target_type"])
	assert.Equal(t, float64(4), steps[1]["target_zone"])
	assert.Equal(t, float64(6), steps[2]["repeat_count"])
}

func TestCurateWorkoutDetailsAdaptiveFieldNames(t *testing.T) {
	w := gjson.Parse(`{
		"workoutUuid": "aa-bb-cc",
		"workoutName": "Coach Run",
		"sportType": {"sportTypeKey": "running"},
		"estimatedDurationInSecs": 1800,
		"estimatedDistanceInMeters": 5000
	}`)

	details := curateWorkoutDetails(w)
	assert.Equal(t, "aa-bb-cc", details["uuid"])
	assert.Equal(t, float64(1800), details["estimated_duration_seconds"])
	assert.Equal(t, float64(5000), details["estimated_distance_meters"])
}

func TestCurateScheduledWorkoutCompletion(t *testing.T) {
	done := curateScheduledWorkout(gjson.Parse(`{
		"scheduleDate": "2025-06-01",
		"workoutName": "Long Run",
		"workoutType": "running",
		"associatedActivityId": 999
	}`))
	assert.Equal(t, true, done["completed"])
	assert.Equal(t, float64(999), done["activity_id"])

	pending := curateScheduledWorkout(gjson.Parse(`{
		"scheduleDate": "2025-06-03",
		"workoutName": "Intervals",
		"workoutType": "running",
		"associatedActivityId": null
	}`))
	assert.Equal(t, false, pending["completed"])
	assert.NotContains(t, pending, "activity_id")
}

func TestGetWorkoutByIDRoutesUUID(t *testing.T) {
	const uuid = "123e4567-e89b-12d3-a456-426614174000"
	var gotPath string
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"workoutUuid": "` + uuid + `", "workoutName": "Coach Run", "sportType": {"sportTypeKey": "running"}}`))
	}))

	res, err := ts.getWorkoutByID(context.Background(), callReq(map[string]any{"workout_id": uuid}))
	require.NoError(t, err)
	// Adaptive (training plan) workouts live under fbt-adaptive directly,
	// not under the regular workout path.
	assert.Equal(t, "/workout-service/fbt-adaptive/"+uuid, gotPath)
	assert.Equal(t, "Coach Run", gjson.Parse(resultText(t, res)).Get("name").String())
}

func TestGetWorkoutByIDRoutesNumericID(t *testing.T) {
	var gotPath string
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"workoutId": 5001, "workoutName": "Tempo", "sportType": {"sportTypeKey": "running"}}`))
	}))

	// Numeric IDs arrive as JSON numbers.
	res, err := ts.getWorkoutByID(context.Background(), callReq(map[string]any{"workout_id": float64(5001)}))
	require.NoError(t, err)
	assert.Equal(t, "/workout-service/workout/5001", gotPath)
	assert.Equal(t, int64(5001), gjson.Parse(resultText(t, res)).Get("id").Int())
}

func TestGetScheduledWorkouts(t *testing.T) {
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/graphql-gateway/graphql", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		query := gjson.ParseBytes(body).Get("query").String()
		assert.Contains(t, query, "workoutScheduleSummariesScalar")
		assert.Contains(t, query, "2025-06-01")
		w.Write([]byte(`{"data": {"workoutScheduleSummariesScalar": [
			{"scheduleDate": "2025-06-02", "workoutName": "Easy Run", "workoutType": "running",
			 "associatedActivityId": 777, "tpPlanName": "Half Marathon Plan"},
			{"scheduleDate": "2025-06-04", "workoutName": "Intervals", "workoutType": "running"}
		]}}`))
	}))

	res, err := ts.getScheduledWorkouts(context.Background(),
		callReq(map[string]any{"start_date": "2025-06-01", "end_date": "2025-06-07"}))
	require.NoError(t, err)
	out := gjson.Parse(resultText(t, res))

	assert.Equal(t, int64(2), out.Get("count").Int())
	assert.True(t, out.Get("scheduled_workouts.0.completed").Bool())
	assert.Equal(t, "Half Marathon Plan", out.Get("scheduled_workouts.0.training_plan").String())
	assert.False(t, out.Get("scheduled_workouts.1.completed").Bool())
}

func TestGetTrainingPlanWorkouts(t *testing.T) {
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"trainingPlanScalar": {"trainingPlanWorkoutScheduleDTOS": [
			{"planName": "5K Plan", "workoutScheduleSummaries": [
				{"scheduleDate": "2025-06-02", "workoutUuid": "u1", "workoutName": "Base Run", "workoutType": "running"}
			]},
			{"planName": "5K Plan", "workoutScheduleSummaries": [
				{"scheduleDate": "2025-06-04", "workoutUuid": "u2", "workoutName": "Speed Work", "workoutType": "running"}
			]}
		]}}}`))
	}))

	res, err := ts.getTrainingPlanWorkouts(context.Background(),
		callReq(map[string]any{"calendar_date": "2025-06-02"}))
	require.NoError(t, err)
	out := gjson.Parse(resultText(t, res))

	assert.Equal(t, int64(2), out.Get("count").Int())
	// Duplicate plan names collapse to one entry.
	require.Len(t, out.Get("training_plans").Array(), 1)
	assert.Equal(t, "5K Plan", out.Get("training_plans.0").String())
	assert.Equal(t, "u1", out.Get("workouts.0.workout_uuid").String())
}

func TestUploadWorkout(t *testing.T) {
	var gotBody []byte
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/workout-service/workout", r.URL.Path)
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"workoutId": 6001, "workoutName": "Custom"}`))
	}))

	res, err := ts.uploadWorkout(context.Background(), callReq(map[string]any{
		"workout_data": map[string]any{"workoutName": "Custom"},
	}))
	require.NoError(t, err)

	assert.Equal(t, "Custom", gjson.ParseBytes(gotBody).Get("workoutName").String())
	out := gjson.Parse(resultText(t, res))
	assert.Equal(t, "success", out.Get("status").String())
	assert.Equal(t, int64(6001), out.Get("workout_id").Int())
}

func TestUploadWorkoutRequiresData(t *testing.T) {
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	res, err := ts.uploadWorkout(context.Background(), callReq(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestScheduleWorkout(t *testing.T) {
	var gotPath string
	var gotBody []byte
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{}`))
	}))

	res, err := ts.scheduleWorkout(context.Background(),
		callReq(map[string]any{"workout_id": "5001", "calendar_date": "2025-06-10"}))
	require.NoError(t, err)

	assert.Equal(t, "/workout-service/schedule/5001", gotPath)
	assert.Equal(t, "2025-06-10", gjson.ParseBytes(gotBody).Get("date").String())
	assert.Equal(t, "success", gjson.Parse(resultText(t, res)).Get("status").String())
}

func TestTemplatesAreValidWorkoutDocuments(t *testing.T) {
	for name, tmpl := range map[string]map[string]any{
		"simple-run":       simpleRunTemplate,
		"interval-running": intervalRunningTemplate,
		"tempo-run":        tempoRunTemplate,
		"strength-circuit": strengthCircuitTemplate,
	} {
		doc := gjson.Parse(curate.JSON(tmpl))
		assert.NotEmpty(t, doc.Get("workoutName").String(), name)
		assert.NotEmpty(t, doc.Get("sportType.sportTypeKey").String(), name)
		steps := doc.Get("workoutSegments.0.workoutSteps").Array()
		assert.NotEmpty(t, steps, name)
		for _, s := range steps {
			typ := s.Get("type").String()
			assert.Contains(t, []string{"ExecutableStepDTO", "RepeatGroupDTO"}, typ, name)
			if typ == "RepeatGroupDTO" {
				assert.Greater(t, s.Get("numberOfIterations").Int(), int64(0), name)
				assert.NotEmpty(t, s.Get("workoutSteps").Array(), name)
			}
		}
	}
}

func TestIntervalTemplateRepeatStructure(t *testing.T) {
	doc := gjson.Parse(curate.JSON(intervalRunningTemplate))
	repeat := doc.Get("workoutSegments.0.workoutSteps.1")
	assert.Equal(t, "RepeatGroupDTO", repeat.Get("type").String())
	assert.Equal(t, int64(6), repeat.Get("numberOfIterations").Int())
	assert.Equal(t, "distance", repeat.Get("workoutSteps.0.endCondition.conditionTypeKey").String())
	assert.Equal(t, float64(400), repeat.Get("workoutSteps.0.endConditionValue").Float())
}
