//
// Copyright (C) 2025 garmin-mcp-poke authors.  All rights reserved.
//
// garmin-mcp-poke is licensed under the Apache License Version 2.0.
//
//

package training

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

func TestMapContributor(t *testing.T) {
	typeNames := map[int64]string{1: "running", 2: "cycling"}

	byType := mapContributor(gjson.Parse(`{"activityTypeId": 1, "contribution": 62.348}`), typeNames)
	assert.Equal(t, "running", byType["activity_type"])
	assert.Equal(t, 62.35, byType["contribution_percent"])

	unknown := mapContributor(gjson.Parse(`{"activityTypeId": 99, "contribution": 10}`), typeNames)
	assert.Equal(t, "unknown_99", unknown["activity_type"])

	byGroup := mapContributor(gjson.Parse(`{"group": 8, "contribution": 5}`), typeNames)
	assert.Equal(t, "Other Activities", byGroup["group"])
}

func TestGetProgressSummaryFiltersEmptyMetrics(t *testing.T) {
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fitnessstats-service/activity", r.URL.Path)
		assert.Equal(t, "distance", r.URL.Query().Get("metric"))
		w.Write([]byte(`[{
			"date": "2025-06-01",
			"countOfActivities": 12,
			"stats": {
				"running": {"distance": {"count": 10, "sum": 80000, "avg": 8000, "min": 3000, "max": 21000}},
				"cycling": {"distance": {"count": 0}}
			}
		}]`))
	}))

	res, err := ts.getProgressSummary(context.Background(), callReq(map[string]any{
		"start_date": "2025-05-01", "end_date": "2025-06-01", "metric": "distance",
	}))
	require.NoError(t, err)
	out := gjson.Parse(resultText(t, res))

	assert.Equal(t, int64(12), out.Get("count_of_activities").Int())
	assert.Equal(t, float64(80000), out.Get("stats_by_activity_type.running.sum").Float())
	// Activity types with no samples are dropped.
	assert.False(t, out.Get("stats_by_activity_type.cycling").Exists())
}

func TestGetHillScore(t *testing.T) {
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/metrics-service/metrics/hillscore/stats", r.URL.Path)
		w.Write([]byte(`{
			"periodAvgScore": {"2025-05": 61},
			"maxScore": 70,
			"hillScoreDTOList": [
				{"calendarDate": "2025-06-01", "overallScore": 64, "strengthScore": 60,
				 "enduranceScore": 68, "hillScoreClassificationId": 3}
			]
		}`))
	}))

	res, err := ts.getHillScore(context.Background(), callReq(map[string]any{
		"start_date": "2025-05-01", "end_date": "2025-06-01",
	}))
	require.NoError(t, err)
	out := gjson.Parse(resultText(t, res))

	assert.Equal(t, int64(61), out.Get("period_avg_score").Int())
	assert.Equal(t, int64(70), out.Get("max_score").Int())
	assert.Equal(t, "2025-06-01", out.Get("latest_date").String())
	assert.Equal(t, int64(64), out.Get("latest_overall_score").Int())
	require.Len(t, out.Get("daily_scores").Array(), 1)
}

func TestGetEnduranceScore(t *testing.T) {
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/activity-service/activity/activityTypes":
			w.Write([]byte(`[{"typeId": 1, "typeKey": "running"}, {"typeId": 2, "typeKey": "cycling"}]`))
		default:
			w.Write([]byte(`{
				"avg": 6200,
				"max": 6350,
				"enduranceScoreDTO": {
					"calendarDate": "2025-06-01",
					"overallScore": 6350,
					"classification": 4,
					"classificationLowerLimitIntermediate": 4700,
					"classificationLowerLimitTrained": 5500,
					"classificationLowerLimitWellTrained": 6300,
					"classificationLowerLimitExpert": 7100,
					"classificationLowerLimitSuperior": 7900,
					"classificationLowerLimitElite": 8700,
					"contributors": [{"activityTypeId": 1, "contribution": 85.5}]
				},
				"groupMap": {
					"2025-05-26": {"groupAverage": 6300, "groupMax": 6350},
					"2025-05-19": {"groupAverage": 6200, "groupMax": 6280}
				}
			}`))
		}
	}))

	res, err := ts.getEnduranceScore(context.Background(), callReq(map[string]any{
		"start_date": "2025-05-01", "end_date": "2025-06-01",
	}))
	require.NoError(t, err)
	out := gjson.Parse(resultText(t, res))

	assert.Equal(t, "well_trained", out.Get("classification").String())
	assert.Equal(t, int64(6350), out.Get("current_score").Int())
	assert.Equal(t, int64(5500), out.Get("thresholds.trained").Int())
	assert.Equal(t, "running", out.Get("contributors.0.activity_type").String())
	// Weekly breakdown sorted by week start ascending.
	require.Len(t, out.Get("weekly_breakdown").Array(), 2)
	assert.Equal(t, "2025-05-19", out.Get("weekly_breakdown.0.week_start").String())
}

func TestGetTrainingEffect(t *testing.T) {
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/activity-service/activity/12345", r.URL.Path)
		w.Write([]byte(`{
			"activityId": 12345,
			"summaryDTO": {
				"trainingEffect": 3.4,
				"anaerobicTrainingEffect": 1.2,
				"trainingEffectLabel": "TEMPO",
				"activityTrainingLoad": 182.5,
				"recoveryTime": 1650
			}
		}`))
	}))

	res, err := ts.getTrainingEffect(context.Background(), callReq(map[string]any{"activity_id": "12345"}))
	require.NoError(t, err)
	out := gjson.Parse(resultText(t, res))

	assert.Equal(t, 3.4, out.Get("aerobic_effect").Float())
	assert.Equal(t, 1.2, out.Get("anaerobic_effect").Float())
	assert.Equal(t, 27.5, out.Get("recovery_time_hours").Float())
}

func TestGetHRVDataTimeseriesOptIn(t *testing.T) {
	payload := `{
		"hrvSummary": {
			"calendarDate": "2025-06-01",
			"lastNightAvg": 52,
			"weeklyAvg": 48,
			"status": "BALANCED",
			"baseline": {"balancedLow": 40, "balancedUpper": 60, "lowUpper": 38}
		},
		"hrvReadings": [
			{"readingTimeLocal": "2025-06-01T01:00:00.0", "hrvValue": 50},
			{"readingTimeLocal": "2025-06-01T01:05:00.0", "hrvValue": 54}
		]
	}`
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/hrv-service/hrv/2025-06-01", r.URL.Path)
		w.Write([]byte(payload))
	}))

	res, err := ts.getHRVData(context.Background(), callReq(map[string]any{"date": "2025-06-01"}))
	require.NoError(t, err)
	out := gjson.Parse(resultText(t, res))
	assert.Equal(t, int64(52), out.Get("last_night_avg_hrv_ms").Int())
	assert.False(t, out.Get("hrv_readings").Exists())

	res, err = ts.getHRVData(context.Background(),
		callReq(map[string]any{"date": "2025-06-01", "return_timeseries": true}))
	require.NoError(t, err)
	out = gjson.Parse(resultText(t, res))
	assert.Equal(t, int64(2), out.Get("readings_count").Int())
	assert.Equal(t, int64(54), out.Get("hrv_readings.1.hrv_ms").Int())
}

func TestGetFitnessAge(t *testing.T) {
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"chronologicalAge": 35,
			"fitnessAge": 28.6,
			"achievableFitnessAge": 26.1,
			"components": {
				"rhr": {"value": 52, "targetValue": 48, "potentialAge": 27.5}
			}
		}`))
	}))

	res, err := ts.getFitnessAge(context.Background(), callReq(map[string]any{"date": "2025-06-01"}))
	require.NoError(t, err)
	out := gjson.Parse(resultText(t, res))
	assert.Equal(t, 28.6, out.Get("fitness_age_years").Float())
	assert.Equal(t, 6.4, out.Get("age_difference_years").Float())
	assert.False(t, out.Get("components").Exists())

	res, err = ts.getFitnessAge(context.Background(),
		callReq(map[string]any{"date": "2025-06-01", "details": true}))
	require.NoError(t, err)
	out = gjson.Parse(resultText(t, res))
	assert.Equal(t, int64(48), out.Get("components.rhr.target").Int())
	assert.Equal(t, 27.5, out.Get("components.rhr.potential_age_if_improved").Float())
}

func TestGetTrainingStatusTakesPrimaryDevice(t *testing.T) {
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"mostRecentTrainingStatus": {
				"latestTrainingStatusData": {
					"3323456": {
						"calendarDate": "2025-06-01",
						"trainingStatus": 4,
						"trainingStatusFeedbackPhrase": "PRODUCTIVE_1",
						"acuteTrainingLoadDTO": {
							"dailyTrainingLoadAcute": 520,
							"dailyTrainingLoadChronic": 480,
							"dailyAcuteChronicWorkloadRatio": 1.08,
							"acwrStatus": "OPTIMAL"
						}
					}
				}
			},
			"mostRecentTrainingLoadBalance": {
				"metricsTrainingLoadBalanceDTOMap": {
					"3323456": {
						"monthlyLoadAerobicLow": 540,
						"monthlyLoadAerobicHigh": 320,
						"monthlyLoadAnaerobic": 110
					}
				}
			},
			"mostRecentVO2Max": {"generic": {"vo2MaxValue": 52, "vo2MaxPreciseValue": 52.4}}
		}`))
	}))

	res, err := ts.getTrainingStatus(context.Background(), callReq(map[string]any{"date": "2025-06-01"}))
	require.NoError(t, err)
	out := gjson.Parse(resultText(t, res))

	assert.Equal(t, "PRODUCTIVE_1", out.Get("training_status_feedback").String())
	assert.Equal(t, 1.08, out.Get("load_ratio").Float())
	assert.Equal(t, 52.4, out.Get("vo2_max_precise").Float())
	assert.Equal(t, int64(540), out.Get("monthly_load_aerobic_low").Int())
}

func TestGetLactateThresholdLatest(t *testing.T) {
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/biometric-service/biometric/latest/lactateThresholdSpeedAndHeartRate":
			w.Write([]byte(`{"speed": 3.3, "heartRate": 170, "calendarDate": "2025-05-28"}`))
		case "/biometric-service/biometric/latest/functionalThresholdPower":
			w.Write([]byte(`{"functionalThresholdPower": 255, "weight": 72.5, "calendarDate": "2025-05-20"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	res, err := ts.getLactateThreshold(context.Background(), callReq(map[string]any{}))
	require.NoError(t, err)
	out := gjson.Parse(resultText(t, res))

	assert.Equal(t, 3.3, out.Get("lactate_threshold_speed_mps").Float())
	assert.Equal(t, int64(170), out.Get("lactate_threshold_heart_rate_bpm").Int())
	assert.Equal(t, int64(255), out.Get("functional_threshold_power_watts").Int())
	assert.Equal(t, "2025-05-20", out.Get("power_date").String())
}

func TestGetLactateThresholdRange(t *testing.T) {
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/metrics-service/metrics/lactatethreshold/stats", r.URL.Path)
		w.Write([]byte(`{
			"speed": [{"from": "2025-05-01", "value": 3.2, "series": "LT_SPEED"}],
			"heartRate": [{"from": "2025-05-01", "value": 168, "series": "LT_HR"}]
		}`))
	}))

	res, err := ts.getLactateThreshold(context.Background(), callReq(map[string]any{
		"start_date": "2025-05-01", "end_date": "2025-06-01",
	}))
	require.NoError(t, err)
	out := gjson.Parse(resultText(t, res))

	assert.Equal(t, 3.2, out.Get("speed_history.0.speed_mps").Float())
	assert.Equal(t, int64(168), out.Get("heart_rate_history.0.heart_rate_bpm").Int())
	assert.False(t, out.Get("power_history").Exists())
}
