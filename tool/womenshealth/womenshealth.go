//
// Copyright (C) 2025 garmin-mcp-poke authors.  All rights reserved.
//
// garmin-mcp-poke is licensed under the Apache License Version 2.0.
//
//

// Package womenshealth exposes pregnancy and menstrual cycle tools.
package womenshealth

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"
	mcp "trpc.group/trpc-go/trpc-mcp-go"

	"github.com/theol0403/garmin-mcp-poke/internal/argext"
	"github.com/theol0403/garmin-mcp-poke/internal/curate"
	"github.com/theol0403/garmin-mcp-poke/internal/garmin"
)

// ToolSet groups the women's health tools around a shared client.
type ToolSet struct {
	client *garmin.Client
}

// NewToolSet creates the women's health toolset around an authenticated
// client.
func NewToolSet(client *garmin.Client) *ToolSet {
	return &ToolSet{client: client}
}

// Register adds every women's health tool to the MCP server.
func (t *ToolSet) Register(s *mcp.Server) {
	s.RegisterTool(mcp.NewTool("get_pregnancy_summary",
		mcp.WithDescription("Get pregnancy summary data"),
	), t.getPregnancySummary)
	s.RegisterTool(mcp.NewTool("get_menstrual_data_for_date",
		mcp.WithDescription("Get menstrual data for a specific date"),
		mcp.WithString("date", mcp.Description("Date in YYYY-MM-DD format"), mcp.Required()),
	), t.getMenstrualDataForDate)
	s.RegisterTool(mcp.NewTool("get_menstrual_calendar_data",
		mcp.WithDescription("Get menstrual calendar data between specified dates"),
		mcp.WithString("start_date", mcp.Description("Start date in YYYY-MM-DD format"), mcp.Required()),
		mcp.WithString("end_date", mcp.Description("End date in YYYY-MM-DD format"), mcp.Required()),
	), t.getMenstrualCalendar)
}

func empty(raw []byte) bool {
	switch string(raw) {
	case "", "null", "{}", "[]":
		return true
	}
	return false
}

func (t *ToolSet) getPregnancySummary(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := t.client.PregnancySummary(ctx)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving pregnancy summary: %v", err)), nil
	}
	if empty(raw) {
		return mcp.NewTextResult("No pregnancy summary data found."), nil
	}
	return mcp.NewTextResult(curate.JSON(gjson.ParseBytes(raw).Value())), nil
}

func (t *ToolSet) getMenstrualDataForDate(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := argext.Require(req.Params.Arguments, "date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	raw, err := t.client.MenstrualDataForDate(ctx, date)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving menstrual data: %v", err)), nil
	}
	if empty(raw) {
		return mcp.NewTextResult(fmt.Sprintf("No menstrual data found for %s.", date)), nil
	}
	return mcp.NewTextResult(curate.JSON(gjson.ParseBytes(raw).Value())), nil
}

func (t *ToolSet) getMenstrualCalendar(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	startDate, err := argext.Require(args, "start_date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	endDate, err := argext.Require(args, "end_date")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	raw, err := t.client.MenstrualCalendar(ctx, startDate, endDate)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving menstrual calendar data: %v", err)), nil
	}
	if empty(raw) {
		return mcp.NewTextResult(fmt.Sprintf("No menstrual calendar data found between %s and %s.", startDate, endDate)), nil
	}
	return mcp.NewTextResult(curate.JSON(gjson.ParseBytes(raw).Value())), nil
}
