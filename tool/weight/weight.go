//
// Copyright (C) 2025 garmin-mcp-poke authors.  All rights reserved.
//
// garmin-mcp-poke is licensed under the Apache License Version 2.0.
//
//

// Package weight exposes weigh-in query, creation and deletion tools.
package weight

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tidwall/gjson"
	mcp "trpc.group/trpc-go/trpc-mcp-go"

	"github.com/theol0403/garmin-mcp-poke/internal/argext"
	"github.com/theol0403/garmin-mcp-poke/internal/curate"
	"github.com/theol0403/garmin-mcp-poke/internal/garmin"
)

// ToolSet groups the weight tools around a shared client.
type ToolSet struct {
	client *garmin.Client

	// now is swapped in tests for deterministic timestamps.
	now func() time.Time
}

// NewToolSet creates the weight toolset around an authenticated client.
func NewToolSet(client *garmin.Client) *ToolSet {
	return &ToolSet{client: client, now: time.Now}
}

// Register adds every weight tool to the MCP server.
func (t *ToolSet) Register(s *mcp.Server) {
	s.RegisterTool(mcp.NewTool("get_weigh_ins",
		mcp.WithDescription("Get weight measurements between specified dates"),
		mcp.WithString("start_date", mcp.Description("Start date in YYYY-MM-DD format"), mcp.Required()),
		mcp.WithString("end_date", mcp.Description("End date in YYYY-MM-DD format"), mcp.Required()),
	), t.getWeighIns)
	s.RegisterTool(mcp.NewTool("get_daily_weigh_ins",
		mcp.WithDescription("Get weight measurements for a specific date"),
		mcp.WithString("date", mcp.Description("Date in YYYY-MM-DD format"), mcp.Required()),
	), t.getDailyWeighIns)
	s.RegisterTool(mcp.NewTool("delete_weigh_ins",
		mcp.WithDescription("Delete weight measurements for a specific date"),
		mcp.WithString("date", mcp.Description("Date in YYYY-MM-DD format"), mcp.Required()),
		mcp.WithBoolean("delete_all",
			mcp.Description("Whether to delete all measurements for the day"),
			mcp.Default(true)),
	), t.deleteWeighIns)
	s.RegisterTool(mcp.NewTool("add_weigh_in",
		mcp.WithDescription("Add a new weight measurement"),
		mcp.WithNumber("weight", mcp.Description("Weight value"), mcp.Required()),
		mcp.WithString("unit_key",
			mcp.Description("Unit of weight"),
			mcp.Default("kg"),
			mcp.Enum("kg", "lb")),
	), t.addWeighIn)
	s.RegisterTool(mcp.NewTool("add_weigh_in_with_timestamps",
		mcp.WithDescription("Add a new weight measurement with specific timestamps"),
		mcp.WithNumber("weight", mcp.Description("Weight value"), mcp.Required()),
		mcp.WithString("unit_key",
			mcp.Description("Unit of weight"),
			mcp.Default("kg"),
			mcp.Enum("kg", "lb")),
		mcp.WithString("date_timestamp", mcp.Description("Local timestamp in format YYYY-MM-DDThh:mm:ss")),
		mcp.WithString("gmt_timestamp", mcp.Description("GMT timestamp in format YYYY-MM-DDThh:mm:ss")),
	), t.addWeighInWithTimestamps)
}

// curateMeasurement shapes a single weight metric entry. withDate adds
// the calendar date for range listings.
func curateMeasurement(w gjson.Result, withDate bool) map[string]any {
	measurement := map[string]any{
		"weight_grams":       w.Get("weight").Value(),
		"bmi":                w.Get("bmi").Value(),
		"body_fat_percent":   w.Get("bodyFat").Value(),
		"body_water_percent": w.Get("bodyWater").Value(),
		"bone_mass_grams":    w.Get("boneMass").Value(),
		"muscle_mass_grams":  w.Get("muscleMass").Value(),
		"source_type":        w.Get("sourceType").Value(),
		"timestamp_gmt":      w.Get("timestampGMT").Value(),
	}
	if withDate {
		measurement["date"] = w.Get("calendarDate").Value()
	}
	if weight := w.Get("weight"); weight.Float() != 0 {
		measurement["weight_kg"] = curate.Round(weight.Float()/1000, 2)
	}
	return curate.Compact(measurement)
}

func (t *ToolSet) getWeighIns(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	startDate, err := argext.Require(args, "start_date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	endDate, err := argext.Require(args, "end_date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	raw, err := t.client.WeighIns(ctx, startDate, endDate)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving weight measurements: %v", err)), nil
	}
	data := gjson.ParseBytes(raw)
	dailySummaries := data.Get("dailyWeightSummaries").Array()
	if len(dailySummaries) == 0 {
		return mcp.NewTextResult(fmt.Sprintf("No weight measurements found between %s and %s.", startDate, endDate)), nil
	}

	var measurements []map[string]any
	for _, day := range dailySummaries {
		for _, w := range day.Get("allWeightMetrics").Array() {
			measurements = append(measurements, curateMeasurement(w, true))
		}
	}
	sort.SliceStable(measurements, func(i, j int) bool {
		a, _ := measurements[i]["date"].(string)
		b, _ := measurements[j]["date"].(string)
		return a > b
	})

	curated := map[string]any{
		"date_range":        map[string]any{"start": startDate, "end": endDate},
		"measurement_count": len(measurements),
		"days_with_data":    len(dailySummaries),
		"measurements":      measurements,
	}
	if avg := data.Get("totalAverage.weight"); avg.Float() != 0 {
		curated["average_weight_grams"] = avg.Value()
		curated["average_weight_kg"] = curate.Round(avg.Float()/1000, 2)
	}
	return mcp.NewTextResult(curate.JSON(curated)), nil
}

func (t *ToolSet) getDailyWeighIns(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := argext.Require(req.Params.Arguments, "date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	raw, err := t.client.DailyWeighIns(ctx, date)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving daily weight measurements: %v", err)), nil
	}
	data := gjson.ParseBytes(raw)
	weightList := data.Get("dateWeightList").Array()
	if len(weightList) == 0 {
		return mcp.NewTextResult(fmt.Sprintf("No weight measurements found for %s.", date)), nil
	}

	measurements := make([]map[string]any, 0, len(weightList))
	for _, w := range weightList {
		measurements = append(measurements, curateMeasurement(w, false))
	}

	curated := map[string]any{
		"date":              date,
		"measurement_count": len(measurements),
		"measurements":      measurements,
	}
	if avg := data.Get("totalAverage.weight"); avg.Float() != 0 {
		curated["average_weight_grams"] = avg.Value()
		curated["average_weight_kg"] = curate.Round(avg.Float()/1000, 2)
	}
	return mcp.NewTextResult(curate.JSON(curated)), nil
}

func (t *ToolSet) deleteWeighIns(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	date, err := argext.Require(args, "date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	deleteAll := argext.Bool(args, "delete_all", true)

	raw, err := t.client.DailyWeighIns(ctx, date)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error deleting weight measurements: %v", err)), nil
	}
	weightList := gjson.GetBytes(raw, "dateWeightList").Array()

	deleted := 0
	for _, w := range weightList {
		samplePk := w.Get("samplePk")
		if !samplePk.Exists() {
			continue
		}
		if err := t.client.DeleteWeighIn(ctx, date, samplePk.Int()); err != nil {
			return mcp.NewErrorResult(fmt.Sprintf("Error deleting weight measurements: %v", err)), nil
		}
		deleted++
		if !deleteAll {
			break
		}
	}
	return mcp.NewTextResult(curate.JSON(map[string]any{
		"status":        "success",
		"date":          date,
		"deleted_count": deleted,
		"message":       fmt.Sprintf("Weight measurements deleted for %s", date),
	})), nil
}

func (t *ToolSet) addWeighIn(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	weight := argext.FloatPtr(args, "weight")
	if weight == nil {
		return mcp.NewErrorResult(`missing required argument "weight"`), nil
	}
	unitKey := argext.String(args, "unit_key", "kg")

	now := t.now()
	payload := map[string]any{
		"dateTimestamp": now.Format("2006-01-02T15:04:05.000"),
		"gmtTimestamp":  now.UTC().Format("2006-01-02T15:04:05.000"),
		"unitKey":       unitKey,
		"sourceType":    "MANUAL",
		"value":         *weight,
	}
	if _, err := t.client.AddWeighIn(ctx, payload); err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error adding weight measurement: %v", err)), nil
	}
	return mcp.NewTextResult(curate.JSON(map[string]any{
		"status":  "success",
		"weight":  *weight,
		"unit":    unitKey,
		"message": "Weight measurement added successfully",
	})), nil
}

func (t *ToolSet) addWeighInWithTimestamps(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	weight := argext.FloatPtr(args, "weight")
	if weight == nil {
		return mcp.NewErrorResult(`missing required argument "weight"`), nil
	}
	unitKey := argext.String(args, "unit_key", "kg")
	dateTimestamp := argext.String(args, "date_timestamp", "")
	gmtTimestamp := argext.String(args, "gmt_timestamp", "")
	if dateTimestamp == "" || gmtTimestamp == "" {
		now := t.now()
		dateTimestamp = now.Format("2006-01-02T15:04:05")
		gmtTimestamp = now.UTC().Format("2006-01-02T15:04:05")
	}

	payload := map[string]any{
		"dateTimestamp": dateTimestamp,
		"gmtTimestamp":  gmtTimestamp,
		"unitKey":       unitKey,
		"sourceType":    "MANUAL",
		"value":         *weight,
	}
	if _, err := t.client.AddWeighIn(ctx, payload); err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error adding weight measurement with timestamps: %v", err)), nil
	}
	return mcp.NewTextResult(curate.JSON(map[string]any{
		"status":          "success",
		"weight":          *weight,
		"unit":            unitKey,
		"timestamp_local": dateTimestamp,
		"timestamp_gmt":   gmtTimestamp,
		"message":         "Weight measurement added successfully",
	})), nil
}
