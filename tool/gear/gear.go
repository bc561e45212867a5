//
// Copyright (C) 2025 garmin-mcp-poke authors.  All rights reserved.
//
// garmin-mcp-poke is licensed under the Apache License Version 2.0.
//
//

// Package gear exposes gear inventory and activity association tools.
package gear

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	mcp "trpc.group/trpc-go/trpc-mcp-go"

	"github.com/theol0403/garmin-mcp-poke/internal/argext"
	"github.com/theol0403/garmin-mcp-poke/internal/curate"
	"github.com/theol0403/garmin-mcp-poke/internal/garmin"
)

// Activity type mapping for gear defaults, extrapolated from real data
// and possibly incomplete.
var activityTypes = map[int64]string{
	1: "Running",
	2: "Cycling",
	3: "Swimming",
	4: "Fitness",
	5: "Walking",
	6: "Hiking",
	7: "Strength",
	8: "Other",
}

// ToolSet groups the gear tools around a shared client.
type ToolSet struct {
	client *garmin.Client
}

// NewToolSet creates the gear toolset around an authenticated client.
func NewToolSet(client *garmin.Client) *ToolSet {
	return &ToolSet{client: client}
}

// Register adds every gear tool to the MCP server.
func (t *ToolSet) Register(s *mcp.Server) {
	s.RegisterTool(mcp.NewTool("get_gear",
		mcp.WithDescription("Get all gear registered with the user account, including usage statistics and default activity associations"),
		mcp.WithBoolean("include_stats",
			mcp.Description("Include usage statistics for each gear item (default true). Set to false for faster response with large gear collections"),
			mcp.Default(true)),
	), t.getGear)
	s.RegisterTool(mcp.NewTool("add_gear_to_activity",
		mcp.WithDescription("Associate a specific piece of gear (like shoes, bike, etc.) with an activity"),
		mcp.WithString("activity_id", mcp.Description("ID of the activity"), mcp.Required()),
		mcp.WithString("gear_uuid", mcp.Description("UUID of the gear to add (get from get_gear)"), mcp.Required()),
	), t.addGearToActivity)
	s.RegisterTool(mcp.NewTool("remove_gear_from_activity",
		mcp.WithDescription("Remove a gear association from an activity"),
		mcp.WithString("activity_id", mcp.Description("ID of the activity"), mcp.Required()),
		mcp.WithString("gear_uuid", mcp.Description("UUID of the gear to remove"), mcp.Required()),
	), t.removeGearFromActivity)
}

func (t *ToolSet) getGear(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	includeStats := argext.Bool(req.Params.Arguments, "include_stats", true)

	lastUsed, err := t.client.DeviceLastUsed(ctx)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving gear: %v", err)), nil
	}
	profileNumber := gjson.GetBytes(lastUsed, "userProfileNumber")
	if !profileNumber.Exists() {
		return mcp.NewTextResult("Could not retrieve user profile. Please ensure you have a synced device."), nil
	}

	rawGear, err := t.client.Gear(ctx, profileNumber.Int())
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving gear: %v", err)), nil
	}
	gearList := gjson.ParseBytes(rawGear).Array()
	if len(gearList) == 0 {
		return mcp.NewTextResult("No gear found."), nil
	}

	// Map gear UUIDs to the activity types they are default for.
	defaultsByUUID := map[string][]string{}
	if rawDefaults, err := t.client.GearDefaults(ctx, profileNumber.Int()); err == nil {
		for _, d := range gjson.ParseBytes(rawDefaults).Array() {
			uuid := d.Get("uuid").String()
			pk := d.Get("activityTypePk").Int()
			name, ok := activityTypes[pk]
			if !ok {
				name = fmt.Sprintf("activity_%d", pk)
			}
			defaultsByUUID[uuid] = append(defaultsByUUID[uuid], name)
		}
	}

	curated := make([]map[string]any, 0, len(gearList))
	nameByUUID := map[string]any{}
	var activeCount, retiredCount int
	for _, g := range gearList {
		uuid := g.Get("uuid").String()
		status := strings.ToLower(g.Get("gearStatusName").String())
		switch status {
		case "active":
			activeCount++
		case "retired":
			retiredCount++
		}

		item := map[string]any{
			"uuid":       uuid,
			"name":       g.Get("displayName").Value(),
			"full_name":  g.Get("customMakeModel").Value(),
			"type":       g.Get("gearTypeName").Value(),
			"status":     status,
			"date_begin": curate.ISODate(g.Get("dateBegin").String()),
			"date_end":   curate.ISODate(g.Get("dateEnd").String()),
		}
		nameByUUID[uuid] = item["name"]

		if maxMeters := g.Get("maximumMeters").Float(); maxMeters > 0 {
			item["max_distance_km"] = curate.Round(maxMeters/1000, 1)
		}
		if defaults, ok := defaultsByUUID[uuid]; ok {
			item["is_default_for"] = defaults
		}
		if includeStats {
			// Stats may be unavailable for some gear; skip quietly.
			if stats, err := t.client.GearStats(ctx, uuid); err == nil && len(stats) > 0 {
				parsed := gjson.ParseBytes(stats)
				item["stats"] = map[string]any{
					"total_activities":  parsed.Get("totalActivities").Value(),
					"total_distance_km": curate.Round(parsed.Get("totalDistance").Float()/1000, 1),
				}
			}
		}
		curated = append(curated, curate.Compact(item))
	}

	// Newest first within each status group, active gear ahead of retired.
	sort.SliceStable(curated, func(i, j int) bool {
		a, _ := curated[i]["date_begin"].(string)
		b, _ := curated[j]["date_begin"].(string)
		return a > b
	})
	sort.SliceStable(curated, func(i, j int) bool {
		return curated[i]["status"] == "active" && curated[j]["status"] != "active"
	})

	defaultsSummary := map[string]any{}
	for uuid, activities := range defaultsByUUID {
		for _, activity := range activities {
			defaultsSummary[activity] = nameByUUID[uuid]
		}
	}

	return mcp.NewTextResult(curate.JSON(map[string]any{
		"gear_count":    len(curated),
		"active_count":  activeCount,
		"retired_count": retiredCount,
		"defaults":      defaultsSummary,
		"gear":          curated,
	})), nil
}

func (t *ToolSet) addGearToActivity(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	activityID, err := argext.ID(args, "activity_id")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	gearUUID, err := argext.Require(args, "gear_uuid")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	if _, err := t.client.LinkGear(ctx, gearUUID, activityID); err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error adding gear to activity: %v", err)), nil
	}
	return mcp.NewTextResult(curate.JSON(map[string]any{
		"success":     true,
		"activity_id": activityID,
		"gear_uuid":   gearUUID,
		"message":     "Gear successfully added to activity",
	})), nil
}

func (t *ToolSet) removeGearFromActivity(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	activityID, err := argext.ID(args, "activity_id")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	gearUUID, err := argext.Require(args, "gear_uuid")
	if err != nil {
		return mcp.NewErrorResult(err.Error()), nil
	}
	if _, err := t.client.UnlinkGear(ctx, gearUUID, activityID); err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error removing gear from activity: %v", err)), nil
	}
	return mcp.NewTextResult(curate.JSON(map[string]any{
		"success":     true,
		"activity_id": activityID,
		"gear_uuid":   gearUUID,
		"message":     "Gear successfully removed from activity",
	})), nil
}
