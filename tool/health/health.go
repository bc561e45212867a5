//
// Copyright (C) 2025 garmin-mcp-poke authors.  All rights reserved.
//
// garmin-mcp-poke is licensed under the Apache License Version 2.0.
//
//

// Package health exposes daily wellness data as MCP tools: steps,
// calories, heart rate, stress, sleep, body battery, SpO2, respiration,
// hydration and weekly aggregates. Heavyweight time-series endpoints have
// compact *_summary companions curated for LLM context windows.
package health

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"
	mcp "trpc.group/trpc-go/trpc-mcp-go"

	"github.com/theol0403/garmin-mcp-poke/internal/argext"
	"github.com/theol0403/garmin-mcp-poke/internal/curate"
	"github.com/theol0403/garmin-mcp-poke/internal/garmin"
)

// ToolSet registers the health and wellness tools.
type ToolSet struct {
	client *garmin.Client
}

// NewToolSet creates the health toolset around an authenticated client.
func NewToolSet(client *garmin.Client) *ToolSet {
	return &ToolSet{client: client}
}

// Register adds every health and wellness tool to the MCP server.
func (t *ToolSet) Register(s *mcp.Server) {
	dateTool := func(name, desc string) *mcp.Tool {
		return mcp.NewTool(name,
			mcp.WithDescription(desc),
			mcp.WithString("date", mcp.Description("Date in YYYY-MM-DD format"), mcp.Required()),
		)
	}
	rangeTool := func(name, desc string) *mcp.Tool {
		return mcp.NewTool(name,
			mcp.WithDescription(desc),
			mcp.WithString("start_date", mcp.Description("Start date in YYYY-MM-DD format"), mcp.Required()),
			mcp.WithString("end_date", mcp.Description("End date in YYYY-MM-DD format"), mcp.Required()),
		)
	}
	weeklyTool := func(name, desc string) *mcp.Tool {
		return mcp.NewTool(name,
			mcp.WithDescription(desc),
			mcp.WithString("end_date", mcp.Description("End date in YYYY-MM-DD format"), mcp.Required()),
			mcp.WithNumber("weeks", mcp.Description("Number of weeks to fetch (default 4, max 52)"), mcp.Default(4.0)),
		)
	}

	s.RegisterTool(dateTool("get_stats",
		"Get daily activity stats with curated essential metrics: steps, calories, heart rate, stress, body battery, and sleep"), t.getStats)
	s.RegisterTool(dateTool("get_user_summary",
		"Get raw user summary data for a date"), t.getUserSummary)
	s.RegisterTool(mcp.NewTool("get_body_composition",
		mcp.WithDescription("Get body composition data for a single date or date range"),
		mcp.WithString("start_date", mcp.Description("Date in YYYY-MM-DD format or start date if end_date provided"), mcp.Required()),
		mcp.WithString("end_date", mcp.Description("Optional end date in YYYY-MM-DD format for date range")),
	), t.getBodyComposition)
	s.RegisterTool(dateTool("get_stats_and_body",
		"Get stats and body composition data"), t.getStatsAndBody)
	s.RegisterTool(dateTool("get_steps_data",
		"Get detailed steps data with 15-minute intervals. For a compact summary, use get_stats()"), t.getStepsData)
	s.RegisterTool(rangeTool("get_daily_steps",
		"Get steps data for a date range"), t.getDailySteps)
	s.RegisterTool(dateTool("get_training_readiness",
		"Get training readiness score and contributing factors"), t.getTrainingReadiness)
	s.RegisterTool(rangeTool("get_body_battery",
		"Get body battery data with events"), t.getBodyBattery)
	s.RegisterTool(dateTool("get_body_battery_events",
		"Get body battery events data"), t.getBodyBatteryEvents)
	s.RegisterTool(rangeTool("get_blood_pressure",
		"Get blood pressure data"), t.getBloodPressure)
	s.RegisterTool(dateTool("get_floors",
		"Get floors climbed data"), t.getFloors)
	s.RegisterTool(dateTool("get_rhr_day",
		"Get resting heart rate data"), t.getRHRDay)
	s.RegisterTool(dateTool("get_heart_rates",
		"Get full heart rate time-series data. For a compact summary, use get_heart_rates_summary()"), t.getHeartRates)
	s.RegisterTool(dateTool("get_heart_rates_summary",
		"Get heart rate summary with essential metrics (lightweight version)"), t.getHeartRatesSummary)
	s.RegisterTool(dateTool("get_hydration_data",
		"Get hydration data"), t.getHydrationData)
	s.RegisterTool(dateTool("get_sleep_data",
		"Get full sleep data with all details. For a compact summary, use get_sleep_summary()"), t.getSleepData)
	s.RegisterTool(dateTool("get_sleep_summary",
		"Get sleep summary with only essential metrics (lightweight version)"), t.getSleepSummary)
	s.RegisterTool(dateTool("get_stress_data",
		"Get full stress time-series data. For a compact summary, use get_stress_summary()"), t.getStressData)
	s.RegisterTool(dateTool("get_stress_summary",
		"Get stress summary with essential metrics (lightweight version)"), t.getStressSummary)
	s.RegisterTool(dateTool("get_respiration_data",
		"Get full respiration time-series data. For a compact summary, use get_respiration_summary()"), t.getRespirationData)
	s.RegisterTool(dateTool("get_respiration_summary",
		"Get respiration summary with essential metrics (lightweight version)"), t.getRespirationSummary)
	s.RegisterTool(dateTool("get_spo2_data",
		"Get SpO2 (blood oxygen) data"), t.getSpO2Data)
	s.RegisterTool(dateTool("get_all_day_stress",
		"Get all-day stress data"), t.getAllDayStress)
	s.RegisterTool(dateTool("get_all_day_events",
		"Get daily wellness events data"), t.getAllDayEvents)
	s.RegisterTool(weeklyTool("get_weekly_steps",
		"Get weekly step data aggregates ending at end_date"), t.getWeeklySteps)
	s.RegisterTool(weeklyTool("get_weekly_stress",
		"Get weekly stress data aggregates ending at end_date"), t.getWeeklyStress)
	s.RegisterTool(weeklyTool("get_weekly_intensity_minutes",
		"Get weekly intensity minutes (moderate and vigorous) ending at end_date"), t.getWeeklyIntensityMinutes)
	s.RegisterTool(dateTool("get_morning_training_readiness",
		"Get morning training readiness score based on overnight recovery metrics"), t.getMorningTrainingReadiness)
}

// rawForDate serves the endpoints whose payload is returned unmodified.
func rawForDate(ctx context.Context, req *mcp.CallToolRequest, what string,
	fetch func(context.Context, string) ([]byte, error)) (*mcp.CallToolResult, error) {
	date, err := argext.Require(req.Params.Arguments, "date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	raw, err := fetch(ctx, date)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving %s: %v", what, err)), nil
	}
	if emptyPayload(raw) {
		return mcp.NewTextResult(fmt.Sprintf("No %s found for %s", what, date)), nil
	}
	return mcp.NewTextResult(curate.JSON(gjson.ParseBytes(raw).Value())), nil
}

func emptyPayload(raw []byte) bool {
	switch string(raw) {
	case "", "null", "[]", "{}":
		return true
	}
	return false
}

func (t *ToolSet) getUserSummary(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return rawForDate(ctx, req, "user summary", func(ctx context.Context, date string) ([]byte, error) {
		return t.client.UserSummary(ctx, date)
	})
}

func (t *ToolSet) getStepsData(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return rawForDate(ctx, req, "steps data", func(ctx context.Context, date string) ([]byte, error) {
		return t.client.StepsData(ctx, date)
	})
}

func (t *ToolSet) getBodyBatteryEvents(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return rawForDate(ctx, req, "body battery events", func(ctx context.Context, date string) ([]byte, error) {
		return t.client.BodyBatteryEvents(ctx, date)
	})
}

func (t *ToolSet) getFloors(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return rawForDate(ctx, req, "floors data", func(ctx context.Context, date string) ([]byte, error) {
		return t.client.Floors(ctx, date)
	})
}

func (t *ToolSet) getRHRDay(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return rawForDate(ctx, req, "resting heart rate data", func(ctx context.Context, date string) ([]byte, error) {
		return t.client.RestingHeartRate(ctx, date)
	})
}

func (t *ToolSet) getHeartRates(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return rawForDate(ctx, req, "heart rate data", func(ctx context.Context, date string) ([]byte, error) {
		return t.client.HeartRates(ctx, date)
	})
}

func (t *ToolSet) getHydrationData(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return rawForDate(ctx, req, "hydration data", func(ctx context.Context, date string) ([]byte, error) {
		return t.client.Hydration(ctx, date)
	})
}

func (t *ToolSet) getSleepData(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return rawForDate(ctx, req, "sleep data", func(ctx context.Context, date string) ([]byte, error) {
		return t.client.SleepData(ctx, date)
	})
}

func (t *ToolSet) getStressData(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return rawForDate(ctx, req, "stress data", func(ctx context.Context, date string) ([]byte, error) {
		return t.client.StressData(ctx, date)
	})
}

func (t *ToolSet) getRespirationData(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return rawForDate(ctx, req, "respiration data", func(ctx context.Context, date string) ([]byte, error) {
		return t.client.RespirationData(ctx, date)
	})
}

func (t *ToolSet) getAllDayStress(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return rawForDate(ctx, req, "all-day stress data", func(ctx context.Context, date string) ([]byte, error) {
		return t.client.StressData(ctx, date)
	})
}

func (t *ToolSet) getAllDayEvents(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return rawForDate(ctx, req, "daily wellness events", func(ctx context.Context, date string) ([]byte, error) {
		return t.client.AllDayEvents(ctx, date)
	})
}

func (t *ToolSet) getBloodPressure(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	startDate, err := argext.Require(args, "start_date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	endDate, err := argext.Require(args, "end_date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	raw, err := t.client.BloodPressure(ctx, startDate, endDate)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving blood pressure data: %v", err)), nil
	}
	if emptyPayload(raw) {
		return mcp.NewTextResult(fmt.Sprintf("No blood pressure data found between %s and %s", startDate, endDate)), nil
	}
	return mcp.NewTextResult(curate.JSON(gjson.ParseBytes(raw).Value())), nil
}

func (t *ToolSet) getDailySteps(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	startDate, err := argext.Require(args, "start_date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	endDate, err := argext.Require(args, "end_date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	raw, err := t.client.DailySteps(ctx, startDate, endDate)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving daily steps data: %v", err)), nil
	}
	if emptyPayload(raw) {
		return mcp.NewTextResult(fmt.Sprintf("No daily steps data found between %s and %s", startDate, endDate)), nil
	}
	return mcp.NewTextResult(curate.JSON(gjson.ParseBytes(raw).Value())), nil
}

func (t *ToolSet) getBodyComposition(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	startDate, err := argext.Require(args, "start_date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	endDate := argext.String(args, "end_date", "")

	rangeEnd := endDate
	if rangeEnd == "" {
		rangeEnd = startDate
	}
	raw, err := t.client.BodyComposition(ctx, startDate, rangeEnd)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving body composition data: %v", err)), nil
	}
	if emptyPayload(raw) {
		if endDate != "" {
			return mcp.NewTextResult(fmt.Sprintf("No body composition data found between %s and %s", startDate, endDate)), nil
		}
		return mcp.NewTextResult(fmt.Sprintf("No body composition data found for %s", startDate)), nil
	}
	return mcp.NewTextResult(curate.JSON(gjson.ParseBytes(raw).Value())), nil
}

func (t *ToolSet) getStatsAndBody(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := argext.Require(req.Params.Arguments, "date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	stats, err := t.client.UserSummary(ctx, date)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving stats and body composition data: %v", err)), nil
	}
	body, err := t.client.BodyComposition(ctx, date, date)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving stats and body composition data: %v", err)), nil
	}
	if emptyPayload(stats) && emptyPayload(body) {
		return mcp.NewTextResult(fmt.Sprintf("No stats and body composition data found for %s", date)), nil
	}

	// Merge the daily stats with the body composition averages, the way
	// the Connect dashboard presents them.
	merged := map[string]any{}
	if m, ok := gjson.ParseBytes(stats).Value().(map[string]any); ok {
		for k, v := range m {
			merged[k] = v
		}
	}
	if m, ok := gjson.GetBytes(body, "totalAverage").Value().(map[string]any); ok {
		for k, v := range m {
			merged[k] = v
		}
	}
	return mcp.NewTextResult(curate.JSON(merged)), nil
}
