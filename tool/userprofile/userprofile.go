//
// Copyright (C) 2025 garmin-mcp-poke authors.  All rights reserved.
//
// garmin-mcp-poke is licensed under the Apache License Version 2.0.
//
//

// Package userprofile exposes profile and account settings tools.
package userprofile

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"
	mcp "trpc.group/trpc-go/trpc-mcp-go"

	"github.com/theol0403/garmin-mcp-poke/internal/curate"
	"github.com/theol0403/garmin-mcp-poke/internal/garmin"
)

// ToolSet groups the profile tools around a shared client.
type ToolSet struct {
	client *garmin.Client
}

// NewToolSet creates the profile toolset around an authenticated client.
func NewToolSet(client *garmin.Client) *ToolSet {
	return &ToolSet{client: client}
}

// Register adds every profile tool to the MCP server.
func (t *ToolSet) Register(s *mcp.Server) {
	s.RegisterTool(mcp.NewTool("get_full_name",
		mcp.WithDescription("Get user's full name from profile"),
	), t.getFullName)
	s.RegisterTool(mcp.NewTool("get_unit_system",
		mcp.WithDescription("Get user's preferred unit system from profile"),
	), t.getUnitSystem)
	s.RegisterTool(mcp.NewTool("get_user_profile",
		mcp.WithDescription("Get user profile information"),
	), t.getUserProfile)
	s.RegisterTool(mcp.NewTool("get_userprofile_settings",
		mcp.WithDescription("Get user profile settings"),
	), t.getUserProfileSettings)
}

func (t *ToolSet) getFullName(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := t.client.SocialProfile(ctx)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving user's full name: %v", err)), nil
	}
	return mcp.NewTextResult(curate.JSON(map[string]any{
		"full_name": gjson.GetBytes(raw, "fullName").Value(),
	})), nil
}

func (t *ToolSet) getUnitSystem(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := t.client.UserSettings(ctx)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving unit system: %v", err)), nil
	}
	return mcp.NewTextResult(curate.JSON(map[string]any{
		"unit_system": gjson.GetBytes(raw, "userData.measurementSystem").Value(),
	})), nil
}

func (t *ToolSet) getUserProfile(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := t.client.SocialProfile(ctx)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving user profile: %v", err)), nil
	}
	profile := gjson.ParseBytes(raw)
	if !profile.Exists() || len(profile.Map()) == 0 {
		return mcp.NewTextResult("No user profile information found."), nil
	}
	return mcp.NewTextResult(curate.JSON(profile.Value())), nil
}

func (t *ToolSet) getUserProfileSettings(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := t.client.UserSettings(ctx)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving user profile settings: %v", err)), nil
	}
	settings := gjson.ParseBytes(raw)
	if !settings.Exists() || len(settings.Map()) == 0 {
		return mcp.NewTextResult("No user profile settings found."), nil
	}
	return mcp.NewTextResult(curate.JSON(settings.Value())), nil
}
