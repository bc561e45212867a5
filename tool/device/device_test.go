//
// Copyright (C) 2025 garmin-mcp-poke authors.  All rights reserved.
//
// garmin-mcp-poke is licensed under the Apache License Version 2.0.
//
//

package device

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

func TestGetDevices(t *testing.T) {
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/device-service/deviceregistration/devices", r.URL.Path)
		w.Write([]byte(`[
			{
				"deviceId": 11,
				"displayName": "",
				"productDisplayName": "Forerunner 965",
				"partNumber": "006-B4315-00",
				"manufacturerName": "GARMIN",
				"serialNumber": "ABC123",
				"softwareVersionString": "20.26",
				"deviceStatusName": "active",
				"lastSyncTime": "2025-06-01T06:45:00.0",
				"primaryDevice": true,
				"deviceType": "wearable"
			},
			{
				"deviceId": 22,
				"displayName": "Edge",
				"partNumber": "006-B3570-00",
				"manufacturerName": "GARMIN",
				"batteryStatus": null
			}
		]`))
	}))

	res, err := ts.getDevices(context.Background(), callReq(nil))
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := gjson.Parse(resultText(t, res))
	first := out.Get("0")
	// Falls back to the product name when displayName is blank.
	assert.Equal(t, "Forerunner 965", first.Get("device_name").String())
	assert.Equal(t, float64(11), first.Get("device_id").Float())
	assert.Equal(t, "wearable", first.Get("device_type").String())
	assert.True(t, first.Get("is_primary").Bool())

	second := out.Get("1")
	assert.Equal(t, "Edge", second.Get("device_name").String())
	assert.False(t, second.Get("battery_status").Exists())
	assert.False(t, second.Get("is_primary").Exists())
}

func TestGetDevicesEmpty(t *testing.T) {
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	res, err := ts.getDevices(context.Background(), callReq(nil))
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Equal(t, "No devices found.", resultText(t, res))
}

func TestGetDeviceLastUsed(t *testing.T) {
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/device-service/deviceservice/mylastused", r.URL.Path)
		w.Write([]byte(`{
			"userDeviceId": 11,
			"lastUsedDeviceName": "Forerunner 965",
			"lastUsedDeviceApplicationKey": "fr965",
			"userProfileNumber": 1234,
			"lastUsedDeviceUploadTime": 1748759100000,
			"imageUrl": ""
		}`))
	}))

	res, err := ts.getDeviceLastUsed(context.Background(), callReq(nil))
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := gjson.Parse(resultText(t, res))
	assert.Equal(t, "Forerunner 965", out.Get("device_name").String())
	assert.Equal(t, float64(1234), out.Get("user_profile_id").Float())
	assert.True(t, out.Get("last_upload_time").Exists())
	assert.False(t, out.Get("image_url").Exists())
}

func TestGetDeviceSettings(t *testing.T) {
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/device-service/deviceservice/device-info/settings/11", r.URL.Path)
		w.Write([]byte(`{
			"deviceId": 11,
			"timeFormat": "time_twenty_four_hr",
			"dateFormat": "date_day_month",
			"measurementUnits": "metric",
			"keyTonesEnabled": false,
			"activityTracking": {
				"moveAlertEnabled": true,
				"pulseOxSleepTrackingEnabled": false
			},
			"alarms": [
				{"alarmId": 1, "alarmMode": "ON"},
				{"alarmId": 2, "alarmMode": "OFF"}
			]
		}`))
	}))

	res, err := ts.getDeviceSettings(context.Background(), callReq(map[string]any{"device_id": float64(11)}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := gjson.Parse(resultText(t, res))
	assert.Equal(t, "metric", out.Get("measurement_units").String())
	// Explicit false survives curation.
	assert.True(t, out.Get("key_tones_enabled").Exists())
	assert.False(t, out.Get("key_tones_enabled").Bool())
	assert.True(t, out.Get("activity_tracking.move_alert_enabled").Bool())
	assert.False(t, out.Get("activity_tracking.pulse_ox_sleep_tracking").Bool())
	assert.Equal(t, float64(2), out.Get("alarm_count").Float())
	assert.Equal(t, float64(1), out.Get("enabled_alarm_count").Float())
}

func TestGetPrimaryTrainingDevice(t *testing.T) {
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/web-gateway/device-info/primary-training-device", r.URL.Path)
		w.Write([]byte(`{
			"PrimaryTrainingDevice": {"deviceId": 11},
			"PrimaryTrainingDevices": {
				"deviceWeights": [
					{"deviceId": 11, "displayName": "Forerunner 965",
					 "primaryWearableDevice": true, "primaryTrainingCapable": true}
				]
			},
			"WearableDevices": {"wearableDeviceCount": 2}
		}`))
	}))

	res, err := ts.getPrimaryTrainingDevice(context.Background(), callReq(nil))
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := gjson.Parse(resultText(t, res))
	assert.Equal(t, float64(11), out.Get("primary_device_id").Float())
	assert.Equal(t, float64(1), out.Get("training_device_count").Float())
	assert.True(t, out.Get("training_devices.0.is_primary_wearable").Bool())
	assert.Equal(t, float64(2), out.Get("wearable_device_count").Float())
}

func TestGetDeviceSolarData(t *testing.T) {
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/web-gateway/solar/11/2025-06-01/2025-06-01", r.URL.Path)
		w.Write([]byte(`{
			"solarDailyDataDTOs": [{
				"calendarDate": "2025-06-01",
				"solarIntensityAvg": 34.2,
				"solarIntensityMax": 98,
				"batteryCharged": 6.5,
				"batteryUsed": 11.0,
				"batteryNet": -4.5
			}]
		}`))
	}))

	res, err := ts.getDeviceSolarData(context.Background(), callReq(map[string]any{
		"device_id": "11",
		"date":      "2025-06-01",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := gjson.Parse(resultText(t, res))
	assert.Equal(t, "11", out.Get("device_id").String())
	day := out.Get("solar_data.0")
	assert.Equal(t, 34.2, day.Get("solar_intensity_avg").Float())
	assert.Equal(t, -4.5, day.Get("battery_net_percent").Float())
}

func TestGetDeviceSolarDataUnsupported(t *testing.T) {
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"deviceId": 11, "solarDailyDataDTOs": []}`))
	}))
	res, err := ts.getDeviceSolarData(context.Background(), callReq(map[string]any{
		"device_id": "11",
		"date":      "2025-06-01",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "may not have solar capabilities")
}

func TestGetDeviceAlarmsSorted(t *testing.T) {
	ts := newTestToolSet(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/device-service/deviceregistration/devices":
			w.Write([]byte(`[{"deviceId": 11}, {"deviceId": 22}]`))
		case "/device-service/deviceservice/device-info/settings/11":
			w.Write([]byte(`{"alarms": [{"alarmId": 1, "alarmMode": "ON", "alarmTime": 480,
				"alarmDays": ["MONDAY"], "alarmSound": "TONE"}]}`))
		case "/device-service/deviceservice/device-info/settings/22":
			w.Write([]byte(`{"alarms": [{"alarmId": 2, "alarmMode": "OFF", "alarmTime": 390,
				"alarmDays": ["SATURDAY"], "alarmSound": "VIBRATION", "alarmMessage": "Long run"}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	res, err := ts.getDeviceAlarms(context.Background(), callReq(nil))
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := gjson.Parse(resultText(t, res))
	assert.Equal(t, float64(2), out.Get("total_alarms").Float())
	assert.Equal(t, float64(1), out.Get("enabled_alarms").Float())
	// Sorted by time of day: 06:30 before 08:00.
	assert.Equal(t, "06:30", out.Get("alarms.0.time").String())
	assert.False(t, out.Get("alarms.0.enabled").Bool())
	assert.Equal(t, "Long run", out.Get("alarms.0.message").String())
	assert.Equal(t, "08:00", out.Get("alarms.1.time").String())
	assert.True(t, out.Get("alarms.1.enabled").Bool())
}
