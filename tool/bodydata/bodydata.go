//
// Copyright (C) 2025 garmin-mcp-poke authors.  All rights reserved.
//
// garmin-mcp-poke is licensed under the Apache License Version 2.0.
//
//

// Package bodydata exposes tools that write body composition, blood
// pressure and hydration entries back to Garmin Connect.
package bodydata

import (
	"context"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	mcp "trpc.group/trpc-go/trpc-mcp-go"

	"github.com/theol0403/garmin-mcp-poke/internal/argext"
	"github.com/theol0403/garmin-mcp-poke/internal/curate"
	"github.com/theol0403/garmin-mcp-poke/internal/garmin"
)

// ToolSet groups the body data tools around a shared client.
type ToolSet struct {
	client *garmin.Client

	now func() time.Time
}

// NewToolSet creates the body data toolset around an authenticated client.
func NewToolSet(client *garmin.Client) *ToolSet {
	return &ToolSet{client: client, now: time.Now}
}

// Register adds every body data tool to the MCP server.
func (t *ToolSet) Register(s *mcp.Server) {
	s.RegisterTool(mcp.NewTool("add_body_composition",
		mcp.WithDescription("Add body composition data"),
		mcp.WithString("date", mcp.Description("Date in YYYY-MM-DD format"), mcp.Required()),
		mcp.WithNumber("weight", mcp.Description("Weight in kg"), mcp.Required()),
		mcp.WithNumber("percent_fat", mcp.Description("Body fat percentage")),
		mcp.WithNumber("percent_hydration", mcp.Description("Hydration percentage")),
		mcp.WithNumber("visceral_fat_mass", mcp.Description("Visceral fat mass")),
		mcp.WithNumber("bone_mass", mcp.Description("Bone mass")),
		mcp.WithNumber("muscle_mass", mcp.Description("Muscle mass")),
		mcp.WithNumber("basal_met", mcp.Description("Basal metabolic rate")),
		mcp.WithNumber("active_met", mcp.Description("Active metabolic rate")),
		mcp.WithNumber("physique_rating", mcp.Description("Physique rating")),
		mcp.WithNumber("metabolic_age", mcp.Description("Metabolic age")),
		mcp.WithNumber("visceral_fat_rating", mcp.Description("Visceral fat rating")),
		mcp.WithNumber("bmi", mcp.Description("Body Mass Index")),
	), t.addBodyComposition)
	s.RegisterTool(mcp.NewTool("set_blood_pressure",
		mcp.WithDescription("Set blood pressure values"),
		mcp.WithNumber("systolic", mcp.Description("Systolic pressure (top number)"), mcp.Required()),
		mcp.WithNumber("diastolic", mcp.Description("Diastolic pressure (bottom number)"), mcp.Required()),
		mcp.WithNumber("pulse", mcp.Description("Pulse rate"), mcp.Required()),
		mcp.WithString("notes", mcp.Description("Optional notes")),
	), t.setBloodPressure)
	s.RegisterTool(mcp.NewTool("add_hydration_data",
		mcp.WithDescription("Add hydration data"),
		mcp.WithNumber("value_in_ml", mcp.Description("Amount of liquid in milliliters"), mcp.Required()),
		mcp.WithString("cdate", mcp.Description("Date in YYYY-MM-DD format"), mcp.Required()),
		mcp.WithString("timestamp", mcp.Description("Timestamp in YYYY-MM-DDThh:mm:ss.sss format"), mcp.Required()),
	), t.addHydration)
}

func (t *ToolSet) addBodyComposition(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	date, err := argext.Require(args, "date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	weight := argext.FloatPtr(args, "weight")
	if weight == nil {
		return mcp.NewErrorResult(`missing required argument "weight"`), nil
	}

	payload := map[string]any{
		"dateTimestamp": date + "T12:00:00.000",
		"gmtTimestamp":  date + "T12:00:00.000",
		"unitKey":       "kg",
		"sourceType":    "MANUAL",
		"value":         *weight,
	}
	optional := map[string]string{
		"percent_fat":         "bodyFat",
		"percent_hydration":   "bodyWater",
		"visceral_fat_mass":   "visceralFatMass",
		"bone_mass":           "boneMass",
		"muscle_mass":         "muscleMass",
		"basal_met":           "basalMet",
		"active_met":          "activeMet",
		"physique_rating":     "physiqueRating",
		"metabolic_age":       "metabolicAge",
		"visceral_fat_rating": "visceralFatRating",
		"bmi":                 "bmi",
	}
	for arg, field := range optional {
		if v := argext.FloatPtr(args, arg); v != nil {
			payload[field] = *v
		}
	}

	raw, err := t.client.AddBodyComposition(ctx, payload)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error adding body composition data: %v", err)), nil
	}
	if len(raw) == 0 {
		return mcp.NewTextResult(curate.JSON(map[string]any{
			"status":  "success",
			"date":    date,
			"message": "Body composition data added successfully",
		})), nil
	}
	return mcp.NewTextResult(curate.JSON(gjson.ParseBytes(raw).Value())), nil
}

func (t *ToolSet) setBloodPressure(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	systolic := argext.FloatPtr(args, "systolic")
	diastolic := argext.FloatPtr(args, "diastolic")
	pulse := argext.FloatPtr(args, "pulse")
	if systolic == nil || diastolic == nil || pulse == nil {
		return mcp.NewErrorResult(`missing required arguments: "systolic", "diastolic" and "pulse"`), nil
	}

	now := t.now()
	payload := map[string]any{
		"measurementTimestampLocal": now.Format("2006-01-02T15:04:05.000"),
		"measurementTimestampGMT":   now.UTC().Format("2006-01-02T15:04:05.000"),
		"systolic":                  int(*systolic),
		"diastolic":                 int(*diastolic),
		"pulse":                     int(*pulse),
		"sourceType":                "MANUAL",
	}
	if notes := argext.String(args, "notes", ""); notes != "" {
		payload["notes"] = notes
	}

	raw, err := t.client.SetBloodPressure(ctx, payload)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error setting blood pressure values: %v", err)), nil
	}
	if len(raw) == 0 {
		return mcp.NewTextResult(curate.JSON(map[string]any{
			"status":    "success",
			"systolic":  int(*systolic),
			"diastolic": int(*diastolic),
			"pulse":     int(*pulse),
			"message":   "Blood pressure recorded successfully",
		})), nil
	}
	return mcp.NewTextResult(curate.JSON(gjson.ParseBytes(raw).Value())), nil
}

func (t *ToolSet) addHydration(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	value := argext.FloatPtr(args, "value_in_ml")
	if value == nil {
		return mcp.NewErrorResult(`missing required argument "value_in_ml"`), nil
	}
	cdate, err := argext.Require(args, "cdate")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	timestamp, err := argext.Require(args, "timestamp")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}

	payload := map[string]any{
		"calendarDate":   cdate,
		"timestampLocal": timestamp,
		"valueInML":      *value,
	}
	raw, err := t.client.AddHydration(ctx, payload)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error adding hydration data: %v", err)), nil
	}
	if len(raw) == 0 {
		return mcp.NewTextResult(curate.JSON(map[string]any{
			"status":      "success",
			"date":        cdate,
			"value_in_ml": *value,
			"message":     "Hydration data added successfully",
		})), nil
	}
	return mcp.NewTextResult(curate.JSON(gjson.ParseBytes(raw).Value())), nil
}
