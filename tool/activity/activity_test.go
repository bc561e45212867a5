//
// Copyright (C) 2025 garmin-mcp-poke authors.  All rights reserved.
//
// garmin-mcp-poke is licensed under the Apache License Version 2.0.
//
//

package activity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	mcp "trpc.group/trpc-go/trpc-mcp-go"

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

const activityPage = `[
	{
		"activityId": 101,
		"activityName": "Morning Run",
		"activityType": {"typeKey": "running"},
		"startTimeLocal": "2025-06-01 06:30:00",
		"distance": 5012.5,
		"duration": 1545.2,
		"calories": 312,
		"averageHR": 148,
		"maxHR": 172,
		"steps": 5204,
		"movingDuration": 1530.0,
		"ownerDisplayName": "abcd-1234"
	},
	{
		"activityId": 102,
		"activityName": "Evening Walk",
		"activityType": {"typeKey": "walking"},
		"startTimeLocal": "2025-06-01 18:00:00",
		"distance": 2000,
		"duration": 1400,
		"calories": 90,
		"averageHR": null,
		"maxHR": null,
		"steps": 2600
	}
]`

func TestGetActivitiesByDateSummarizes(t *testing.T) {
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/activitylist-service/activities/search/activities", r.URL.Path)
		assert.Equal(t, "2025-06-01", r.URL.Query().Get("startDate"))
		assert.Equal(t, "2025-06-07", r.URL.Query().Get("endDate"))
		assert.Equal(t, "running", r.URL.Query().Get("activityType"))
		w.Write([]byte(activityPage))
	}))

	res, err := ts.getActivitiesByDate(context.Background(), callReq(map[string]any{
		"start_date":    "2025-06-01",
		"end_date":      "2025-06-07",
		"activity_type": "running",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := gjson.Parse(resultText(t, res))
	assert.Equal(t, float64(2), out.Get("count").Float())
	assert.Equal(t, "2025-06-01", out.Get("date_range.start").String())
	assert.Equal(t, "2025-06-07", out.Get("date_range.end").String())

	first := out.Get("activities.0")
	assert.Equal(t, float64(101), first.Get("id").Float())
	assert.Equal(t, "Morning Run", first.Get("name").String())
	assert.Equal(t, "running", first.Get("type").String())
	assert.Equal(t, float64(148), first.Get("avg_hr_bpm").Float())

	// Null HR fields are dropped from the second entry.
	second := out.Get("activities.1")
	assert.False(t, second.Get("avg_hr_bpm").Exists())
	assert.False(t, second.Get("max_hr_bpm").Exists())
	assert.Equal(t, float64(2600), second.Get("steps").Float())
}

func TestGetActivitiesByDateEmptyAndMissingArgs(t *testing.T) {
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))

	res, err := ts.getActivitiesByDate(context.Background(), callReq(map[string]any{
		"start_date":    "2025-06-01",
		"end_date":      "2025-06-07",
		"activity_type": "cycling",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Equal(t,
		"No activities found between 2025-06-01 and 2025-06-07 for activity type 'cycling'",
		resultText(t, res))

	res, err = ts.getActivitiesByDate(context.Background(), callReq(map[string]any{
		"start_date": "2025-06-01",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestGetActivitiesForDate(t *testing.T) {
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mobile-gateway/activity-list/activities/fordate/2025-06-01", r.URL.Path)
		w.Write([]byte(`{
			"ActivitiesForDay": {
				"payload": [{
					"activityId": 101,
					"activityName": "Morning Run",
					"activityType": {"typeKey": "running"},
					"startTimeLocal": "2025-06-01 06:30:00",
					"distance": 5012.5,
					"duration": 1545.2,
					"calories": 312,
					"averageHR": 148,
					"maxHR": 172,
					"lapCount": 5,
					"moderateIntensityMinutes": 10,
					"vigorousIntensityMinutes": 24
				}]
			}
		}`))
	}))

	res, err := ts.getActivitiesForDate(context.Background(), callReq(map[string]any{"date": "2025-06-01"}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := gjson.Parse(resultText(t, res))
	assert.Equal(t, "2025-06-01", out.Get("date").String())
	assert.Equal(t, float64(1), out.Get("count").Float())
	entry := out.Get("activities.0")
	assert.Equal(t, float64(5), entry.Get("lap_count").Float())
	assert.Equal(t, float64(24), entry.Get("vigorous_intensity_minutes").Float())
	// The per-day view keeps avg HR but drops max HR.
	assert.Equal(t, float64(148), entry.Get("avg_hr_bpm").Float())
	assert.False(t, entry.Get("max_hr_bpm").Exists())
}

func TestGetActivityDetail(t *testing.T) {
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/activity-service/activity/101", r.URL.Path)
		w.Write([]byte(`{
			"activityId": 101,
			"activityName": "Morning Run",
			"activityTypeDTO": {"typeKey": "running", "parentTypeId": 17},
			"summaryDTO": {
				"startTimeLocal": "2025-06-01T06:30:00.0",
				"duration": 1545.2,
				"distance": 5012.5,
				"averageSpeed": 3.24,
				"averageHR": 148,
				"maxHR": 172,
				"calories": 312,
				"averageRunCadence": 168,
				"trainingEffect": 3.1,
				"anaerobicTrainingEffect": 0.4,
				"trainingEffectLabel": "TEMPO",
				"activityTrainingLoad": 112.5,
				"directWorkoutRpe": 60,
				"normalizedPower": null
			},
			"metadataDTO": {"lapCount": 5, "hasSplits": true, "manufacturer": "GARMIN"}
		}`))
	}))

	res, err := ts.getActivity(context.Background(), callReq(map[string]any{"activity_id": float64(101)}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := gjson.Parse(resultText(t, res))
	assert.Equal(t, float64(101), out.Get("id").Float())
	assert.Equal(t, "running", out.Get("type").String())
	assert.Equal(t, float64(17), out.Get("parent_type").Float())
	assert.Equal(t, float64(1545.2), out.Get("duration_seconds").Float())
	assert.Equal(t, float64(3.24), out.Get("avg_speed_mps").Float())
	assert.Equal(t, "TEMPO", out.Get("training_effect_label").String())
	assert.Equal(t, float64(60), out.Get("workout_rpe").Float())
	assert.Equal(t, float64(5), out.Get("lap_count").Float())
	assert.Equal(t, true, out.Get("has_splits").Bool())
	assert.Equal(t, "GARMIN", out.Get("device_manufacturer").String())
	assert.False(t, out.Get("normalized_power_watts").Exists())
	assert.False(t, out.Get("steps").Exists())
}

func TestGetActivitySplits(t *testing.T) {
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/activity-service/activity/101/splits", r.URL.Path)
		w.Write([]byte(`{
			"activityId": 101,
			"lapDTOs": [
				{"lapIndex": 1, "startTimeGMT": "2025-06-01T10:30:00.0", "distance": 1000,
				 "duration": 305.1, "averageSpeed": 3.28, "averageHR": 142, "maxHR": 155,
				 "calories": 61, "averageRunCadence": 166, "intensityType": "ACTIVE"},
				{"lapIndex": 2, "startTimeGMT": "2025-06-01T10:35:05.0", "distance": 1000,
				 "duration": 298.4, "averageSpeed": 3.35, "averageHR": 151, "maxHR": 162,
				 "calories": 63, "averagePower": null}
			]
		}`))
	}))

	res, err := ts.getActivitySplits(context.Background(), callReq(map[string]any{"activity_id": "101"}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := gjson.Parse(resultText(t, res))
	assert.Equal(t, float64(101), out.Get("activity_id").Float())
	assert.Equal(t, float64(2), out.Get("lap_count").Float())
	assert.Equal(t, float64(1), out.Get("laps.0.lap_number").Float())
	assert.Equal(t, "ACTIVE", out.Get("laps.0.intensity_type").String())
	assert.Equal(t, float64(298.4), out.Get("laps.1.duration_seconds").Float())
	assert.False(t, out.Get("laps.1.avg_power_watts").Exists())
}

func TestRawActivityResources(t *testing.T) {
	paths := map[string]string{}
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths[r.URL.Path] = r.URL.RawQuery
		switch r.URL.Path {
		case "/activity-service/activity/101/hrTimeInZones":
			w.Write([]byte(`[{"zoneNumber": 1, "secsInZone": 120.5}]`))
		case "/activity-service/activity/101/exerciseSets":
			w.Write([]byte(`null`))
		case "/gear-service/gear/filterGear":
			w.Write([]byte(`[]`))
		}
	}))

	res, err := ts.getActivityHRInTimezones(context.Background(), callReq(map[string]any{"activity_id": "101"}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	out := gjson.Parse(resultText(t, res))
	assert.Equal(t, float64(120.5), out.Get("0.secsInZone").Float())

	// A literal null body reads as no data.
	res, err = ts.getActivityExerciseSets(context.Background(), callReq(map[string]any{"activity_id": "101"}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Equal(t, "No exercise sets found for activity with ID 101", resultText(t, res))

	// Same for an empty array.
	res, err = ts.getActivityGear(context.Background(), callReq(map[string]any{"activity_id": "101"}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Equal(t, "No gear data found for activity with ID 101", resultText(t, res))
	assert.Equal(t, "activityId=101", paths["/gear-service/gear/filterGear"])
}

func TestGetActivityWeather(t *testing.T) {
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/activity-service/activity/101/weather", r.URL.Path)
		w.Write([]byte(`{
			"temp": 18.0,
			"apparentTemp": 17.2,
			"relativeHumidity": 62,
			"windSpeed": 3.5,
			"windDirection": 240,
			"weatherTypeDTO": {"weatherTypeName": "Clear", "weatherTypeDesc": "Clear sky"},
			"issueLocation": "Portland, OR",
			"issueDate": "2025-06-01T10:30:00.0"
		}`))
	}))

	res, err := ts.getActivityWeather(context.Background(), callReq(map[string]any{"activity_id": "101"}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := gjson.Parse(resultText(t, res))
	assert.Equal(t, "101", out.Get("activity_id").String())
	assert.Equal(t, float64(18.0), out.Get("temperature_celsius").Float())
	assert.Equal(t, float64(62), out.Get("humidity_percent").Float())
	assert.Equal(t, "Clear", out.Get("weather_type").String())
	assert.Equal(t, "Portland, OR", out.Get("location").String())
}

func TestCountActivities(t *testing.T) {
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/activitylist-service/activities/count", r.URL.Path)
		w.Write([]byte(`{"countOfActivities": 843}`))
	}))

	res, err := ts.countActivities(context.Background(), callReq(nil))
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := gjson.Parse(resultText(t, res))
	assert.Equal(t, float64(843), out.Get("total_activities").Float())
	assert.Contains(t, out.Get("note").String(), "pagination")
}

func TestCountActivitiesBareNumber(t *testing.T) {
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`843`))
	}))

	res, err := ts.countActivities(context.Background(), callReq(nil))
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Equal(t, float64(843), gjson.Parse(resultText(t, res)).Get("total_activities").Float())
}

func TestGetActivitiesPagination(t *testing.T) {
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/activitylist-service/activities/search/activities", r.URL.Path)
		assert.Equal(t, "40", r.URL.Query().Get("start"))
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		w.Write([]byte(activityPage))
	}))

	res, err := ts.getActivities(context.Background(), callReq(map[string]any{
		"start": float64(40),
		"limit": float64(2),
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := gjson.Parse(resultText(t, res))
	assert.Equal(t, float64(40), out.Get("start").Float())
	assert.Equal(t, float64(2), out.Get("limit").Float())
	assert.Equal(t, float64(2), out.Get("count").Float())
	assert.True(t, out.Get("has_more").Bool())
	assert.Equal(t, float64(42), out.Get("next_start").Float())
	assert.Equal(t, "abcd-1234", out.Get("activities.0.owner_display_name").String())
	assert.Equal(t, float64(1530), out.Get("activities.0.moving_duration_seconds").Float())
}

func TestGetActivitiesLimitClampAndEmpty(t *testing.T) {
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		w.Write([]byte(`[]`))
	}))

	res, err := ts.getActivities(context.Background(), callReq(map[string]any{
		"start": float64(500),
		"limit": float64(9999),
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Equal(t, "No activities found at index 500", resultText(t, res))
}

func TestGetActivityTypes(t *testing.T) {
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/activity-service/activity/activityTypes", r.URL.Path)
		w.Write([]byte(`[
			{"typeId": 1, "typeKey": "running", "displayName": "Running", "parentTypeId": 17, "isHidden": false},
			{"typeId": 2, "typeKey": "cycling", "displayName": "Cycling", "parentTypeId": 17, "isHidden": false}
		]`))
	}))

	res, err := ts.getActivityTypes(context.Background(), callReq(nil))
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := gjson.Parse(resultText(t, res))
	assert.Equal(t, float64(2), out.Get("count").Float())
	assert.Equal(t, "running", out.Get("activity_types.0.type_key").String())
	assert.Equal(t, "Cycling", out.Get("activity_types.1.display_name").String())
}
