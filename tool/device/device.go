//
// Copyright (C) 2025 garmin-mcp-poke authors.  All rights reserved.
//
// garmin-mcp-poke is licensed under the Apache License Version 2.0.
//
//

// Package device exposes Garmin device inventory, settings, alarm and
// solar data tools.
package device

import (
	"context"
	"fmt"
	"sort"

	"github.com/tidwall/gjson"
	mcp "trpc.group/trpc-go/trpc-mcp-go"

	"github.com/theol0403/garmin-mcp-poke/internal/argext"
	"github.com/theol0403/garmin-mcp-poke/internal/curate"
	"github.com/theol0403/garmin-mcp-poke/internal/garmin"
)

// ToolSet groups the device tools around a shared client.
type ToolSet struct {
	client *garmin.Client
}

// NewToolSet creates the device toolset around an authenticated client.
func NewToolSet(client *garmin.Client) *ToolSet {
	return &ToolSet{client: client}
}

// Register adds every device tool to the MCP server.
func (t *ToolSet) Register(s *mcp.Server) {
	s.RegisterTool(mcp.NewTool("get_devices",
		mcp.WithDescription("Get all Garmin devices associated with the user account"),
	), t.getDevices)
	s.RegisterTool(mcp.NewTool("get_device_last_used",
		mcp.WithDescription("Get information about the last used Garmin device"),
	), t.getDeviceLastUsed)
	s.RegisterTool(mcp.NewTool("get_device_settings",
		mcp.WithDescription("Get settings for a specific Garmin device: time/date format, units, activity tracking and alarms"),
		mcp.WithString("device_id",
			mcp.Description("Device ID (can be obtained from get_devices or get_device_last_used)"),
			mcp.Required()),
	), t.getDeviceSettings)
	s.RegisterTool(mcp.NewTool("get_primary_training_device",
		mcp.WithDescription("Get information about the device designated as primary for training metrics"),
	), t.getPrimaryTrainingDevice)
	s.RegisterTool(mcp.NewTool("get_device_solar_data",
		mcp.WithDescription("Get solar charging data for solar-capable devices (e.g. Instinct Solar, Fenix Solar)"),
		mcp.WithString("device_id", mcp.Description("Device ID (can be obtained from get_devices)"), mcp.Required()),
		mcp.WithString("date", mcp.Description("Date in YYYY-MM-DD format"), mcp.Required()),
	), t.getDeviceSolarData)
	s.RegisterTool(mcp.NewTool("get_device_alarms",
		mcp.WithDescription("Get all configured alarms from every Garmin device with schedules, sounds and enabled status"),
	), t.getDeviceAlarms)
}

func (t *ToolSet) getDevices(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := t.client.Devices(ctx)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving devices: %v", err)), nil
	}
	devices := gjson.ParseBytes(raw).Array()
	if len(devices) == 0 {
		return mcp.NewTextResult("No devices found."), nil
	}

	// The raw payload carries 200+ capability flags per device; keep the
	// essentials only.
	curated := make([]map[string]any, 0, len(devices))
	for _, device := range devices {
		name := device.Get("displayName")
		if name.String() == "" {
			name = device.Get("productDisplayName")
		}
		info := map[string]any{
			"device_id":        device.Get("deviceId").Value(),
			"device_name":      name.Value(),
			"model":            device.Get("partNumber").Value(),
			"manufacturer":     device.Get("manufacturerName").Value(),
			"serial_number":    device.Get("serialNumber").Value(),
			"software_version": device.Get("softwareVersionString").Value(),
			"status":           device.Get("deviceStatusName").Value(),
			"last_sync_time":   device.Get("lastSyncTime").Value(),
			"battery_status":   device.Get("batteryStatus").Value(),
		}
		if v := device.Get("deviceType"); v.String() != "" {
			info["device_type"] = v.Value()
		}
		if v := device.Get("primaryDevice"); v.Exists() {
			info["is_primary"] = v.Bool()
		}
		curated = append(curated, curate.Compact(info))
	}
	return mcp.NewTextResult(curate.JSON(curated)), nil
}

func (t *ToolSet) getDeviceLastUsed(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := t.client.DeviceLastUsed(ctx)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving last used device: %v", err)), nil
	}
	device := gjson.ParseBytes(raw)
	if !device.Exists() || len(device.Map()) == 0 {
		return mcp.NewTextResult("No last used device found."), nil
	}

	curated := map[string]any{
		"user_device_id":  device.Get("userDeviceId").Value(),
		"device_name":     device.Get("lastUsedDeviceName").Value(),
		"device_key":      device.Get("lastUsedDeviceApplicationKey").Value(),
		"user_profile_id": device.Get("userProfileNumber").Value(),
	}
	if uploadMillis := device.Get("lastUsedDeviceUploadTime").Int(); uploadMillis > 0 {
		curated["last_upload_time"] = curate.TimestampFromMillis(uploadMillis)
	}
	if v := device.Get("imageUrl"); v.String() != "" {
		curated["image_url"] = v.Value()
	}
	return mcp.NewTextResult(curate.JSON(curate.Compact(curated))), nil
}

func (t *ToolSet) getDeviceSettings(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	deviceID, err := argext.ID(req.Params.Arguments, "device_id")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	raw, err := t.client.DeviceSettings(ctx, deviceID)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving device settings: %v", err)), nil
	}
	settings := gjson.ParseBytes(raw)
	if !settings.Exists() || len(settings.Map()) == 0 {
		return mcp.NewTextResult(fmt.Sprintf("No settings found for device ID %s.", deviceID)), nil
	}

	curated := map[string]any{
		"device_id":         settings.Get("deviceId").Value(),
		"time_format":       settings.Get("timeFormat").Value(),
		"date_format":       settings.Get("dateFormat").Value(),
		"measurement_units": settings.Get("measurementUnits").Value(),
	}
	if v := settings.Get("keyTonesEnabled"); v.Exists() {
		curated["key_tones_enabled"] = v.Bool()
	}
	if v := settings.Get("keyVibrationEnabled"); v.Exists() {
		curated["key_vibration_enabled"] = v.Bool()
	}
	if v := settings.Get("alertTonesEnabled"); v.Exists() {
		curated["alert_tones_enabled"] = v.Bool()
	}

	tracking := map[string]any{}
	if v := settings.Get("activityTracking.moveAlertEnabled"); v.Exists() {
		tracking["move_alert_enabled"] = v.Bool()
	}
	if v := settings.Get("activityTracking.pulseOxSleepTrackingEnabled"); v.Exists() {
		tracking["pulse_ox_sleep_tracking"] = v.Bool()
	}
	if v := settings.Get("activityTracking.highHrAlertEnabled"); v.Exists() {
		tracking["high_hr_alert_enabled"] = v.Bool()
	}
	if v := settings.Get("activityTracking.lowHrAlertEnabled"); v.Exists() {
		tracking["low_hr_alert_enabled"] = v.Bool()
	}
	if len(tracking) > 0 {
		curated["activity_tracking"] = tracking
	}

	if alarms := settings.Get("alarms").Array(); len(alarms) > 0 {
		enabled := 0
		for _, alarm := range alarms {
			if alarm.Get("alarmMode").String() == "ON" {
				enabled++
			}
		}
		curated["alarm_count"] = len(alarms)
		curated["enabled_alarm_count"] = enabled
	}
	return mcp.NewTextResult(curate.JSON(curate.Compact(curated))), nil
}

func (t *ToolSet) getPrimaryTrainingDevice(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := t.client.PrimaryTrainingDevice(ctx)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving primary training device: %v", err)), nil
	}
	data := gjson.ParseBytes(raw)
	if !data.Exists() || len(data.Map()) == 0 {
		return mcp.NewTextResult("No primary training device found."), nil
	}

	curated := map[string]any{
		"primary_device_id": data.Get("PrimaryTrainingDevice.deviceId").Value(),
	}
	if weights := data.Get("PrimaryTrainingDevices.deviceWeights").Array(); len(weights) > 0 {
		devices := make([]map[string]any, 0, len(weights))
		for _, device := range weights {
			info := map[string]any{
				"device_id":                device.Get("deviceId").Value(),
				"display_name":             device.Get("displayName").Value(),
				"is_primary_wearable":      device.Get("primaryWearableDevice").Value(),
				"primary_training_capable": device.Get("primaryTrainingCapable").Value(),
			}
			if v := device.Get("imageUrl"); v.String() != "" {
				info["image_url"] = v.Value()
			}
			devices = append(devices, curate.Compact(info))
		}
		curated["training_devices"] = devices
		curated["training_device_count"] = len(devices)
	}
	if count := data.Get("WearableDevices.wearableDeviceCount"); count.Int() > 0 {
		curated["wearable_device_count"] = count.Value()
	}
	return mcp.NewTextResult(curate.JSON(curate.Compact(curated))), nil
}

func (t *ToolSet) getDeviceSolarData(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	deviceID, err := argext.ID(args, "device_id")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	date, err := argext.Require(args, "date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	raw, err := t.client.DeviceSolarData(ctx, deviceID, date)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving solar data: %v", err)), nil
	}
	data := gjson.ParseBytes(raw)
	if !data.Exists() || len(data.Map()) == 0 {
		return mcp.NewTextResult(fmt.Sprintf("No solar data found for device ID %s on %s.", deviceID, date)), nil
	}
	days := data.Get("solarDailyDataDTOs").Array()
	if len(days) == 0 {
		return mcp.NewTextResult(fmt.Sprintf(
			"No solar data available for device ID %s on %s. This device may not have solar capabilities.",
			deviceID, date)), nil
	}

	curated := make([]map[string]any, 0, len(days))
	for _, day := range days {
		curated = append(curated, curate.Compact(map[string]any{
			"date":                    day.Get("calendarDate").Value(),
			"solar_intensity_avg":     day.Get("solarIntensityAvg").Value(),
			"solar_intensity_max":     day.Get("solarIntensityMax").Value(),
			"battery_charged_percent": day.Get("batteryCharged").Value(),
			"battery_used_percent":    day.Get("batteryUsed").Value(),
			"battery_net_percent":     day.Get("batteryNet").Value(),
		}))
	}
	return mcp.NewTextResult(curate.JSON(map[string]any{
		"device_id":  deviceID,
		"solar_data": curated,
	})), nil
}

func (t *ToolSet) getDeviceAlarms(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := t.client.DeviceAlarms(ctx)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving device alarms: %v", err)), nil
	}
	alarms := gjson.ParseBytes(raw).Array()
	if len(alarms) == 0 {
		return mcp.NewTextResult("No device alarms found."), nil
	}

	curated := make([]map[string]any, 0, len(alarms))
	enabled := 0
	for _, alarm := range alarms {
		isOn := alarm.Get("alarmMode").String() == "ON"
		if isOn {
			enabled++
		}
		info := map[string]any{
			"alarm_id": alarm.Get("alarmId").Value(),
			"enabled":  isOn,
			"days":     alarm.Get("alarmDays").Value(),
			"sound":    alarm.Get("alarmSound").Value(),
		}
		if minutes := alarm.Get("alarmTime"); minutes.Exists() {
			info["time"] = curate.Clock(int(minutes.Int()))
			info["time_minutes"] = minutes.Value()
		}
		if v := alarm.Get("backlight"); v.String() != "" {
			info["backlight"] = v.Value()
		}
		if v := alarm.Get("alarmMessage"); v.String() != "" {
			info["message"] = v.Value()
		}
		curated = append(curated, curate.Compact(info))
	}
	sort.SliceStable(curated, func(i, j int) bool {
		a, _ := curated[i]["time_minutes"].(float64)
		b, _ := curated[j]["time_minutes"].(float64)
		return a < b
	})

	return mcp.NewTextResult(curate.JSON(map[string]any{
		"total_alarms":   len(curated),
		"enabled_alarms": enabled,
		"alarms":         curated,
	})), nil
}
