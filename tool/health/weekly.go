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
	"sort"
	"time"

	"github.com/tidwall/gjson"
	mcp "trpc.group/trpc-go/trpc-mcp-go"

	"github.com/theol0403/garmin-mcp-poke/internal/argext"
	"github.com/theol0403/garmin-mcp-poke/internal/curate"
)

const maxWeeks = 52

func weeklyArgs(args map[string]any) (endDate string, weeks int, err error) {
	endDate, err = argext.Require(args, "end_date")
	if err != nil {
		return "", 0, err
	}
	weeks = curate.Clamp(argext.Int(args, "weeks", 4), 1, maxWeeks)
	return endDate, weeks, nil
}

// sortWeeksDesc orders weekly entries most recent first.
func sortWeeksDesc(entries []map[string]any) {
	sort.Slice(entries, func(i, j int) bool {
		a, _ := entries[i]["week_start"].(string)
		b, _ := entries[j]["week_start"].(string)
		return a > b
	})
}

func weeklyReport(endDate string, weeks int, entries []map[string]any) string {
	sortWeeksDesc(entries)
	return curate.JSON(map[string]any{
		"end_date":        endDate,
		"weeks_requested": weeks,
		"weeks_returned":  len(entries),
		"weekly_data":     entries,
	})
}

func (t *ToolSet) getWeeklySteps(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	endDate, weeks, err := weeklyArgs(req.Params.Arguments)
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	raw, err := t.client.WeeklySteps(ctx, endDate, weeks)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving weekly steps: %v", err)), nil
	}
	values := gjson.ParseBytes(raw).Get("values").Array()
	if len(values) == 0 {
		return mcp.NewTextResult(fmt.Sprintf("No weekly step data found ending %s", endDate)), nil
	}

	entries := make([]map[string]any, 0, len(values))
	for _, week := range values {
		entries = append(entries, curate.Compact(map[string]any{
			"week_start":              week.Get("calendarDate").Value(),
			"total_steps":             week.Get("totalSteps").Value(),
			"average_steps":           week.Get("averageSteps").Value(),
			"total_distance_meters":   week.Get("totalDistance").Value(),
			"average_distance_meters": week.Get("averageDistance").Value(),
			"days_with_data":          week.Get("wellnessDataDaysCount").Value(),
		}))
	}
	return mcp.NewTextResult(weeklyReport(endDate, weeks, entries)), nil
}

func (t *ToolSet) getWeeklyStress(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	endDate, weeks, err := weeklyArgs(req.Params.Arguments)
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	raw, err := t.client.WeeklyStress(ctx, endDate, weeks)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving weekly stress: %v", err)), nil
	}
	values := gjson.ParseBytes(raw).Get("values").Array()
	if len(values) == 0 {
		return mcp.NewTextResult(fmt.Sprintf("No weekly stress data found ending %s", endDate)), nil
	}

	entries := make([]map[string]any, 0, len(values))
	for _, week := range values {
		entries = append(entries, curate.Compact(map[string]any{
			"week_start":   week.Get("calendarDate").Value(),
			"stress_value": week.Get("value").Value(),
		}))
	}
	return mcp.NewTextResult(weeklyReport(endDate, weeks, entries)), nil
}

func (t *ToolSet) getWeeklyIntensityMinutes(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	endDate, weeks, err := weeklyArgs(req.Params.Arguments)
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Invalid end_date %q: expected YYYY-MM-DD", endDate)), nil
	}
	start := end.AddDate(0, 0, -(weeks*7 - 1))

	raw, err := t.client.DailyIntensityMinutes(ctx, start.Format("2006-01-02"), endDate)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving weekly intensity minutes: %v", err)), nil
	}
	values := gjson.ParseBytes(raw).Array()
	if len(values) == 0 {
		return mcp.NewTextResult(fmt.Sprintf("No weekly intensity minutes found ending %s", endDate)), nil
	}

	entries := make([]map[string]any, 0, len(values))
	for _, week := range values {
		moderate := week.Get("moderateValue").Float()
		vigorous := week.Get("vigorousValue").Float()
		entries = append(entries, curate.Compact(map[string]any{
			"week_start":       week.Get("calendarDate").Value(),
			"weekly_goal":      week.Get("weeklyGoal").Value(),
			"moderate_minutes": week.Get("moderateValue").Value(),
			"vigorous_minutes": week.Get("vigorousValue").Value(),
			"total_minutes":    moderate + vigorous,
		}))
	}
	return mcp.NewTextResult(weeklyReport(endDate, weeks, entries)), nil
}
