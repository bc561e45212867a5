//
// Copyright (C) 2025 garmin-mcp-poke authors.  All rights reserved.
//
// garmin-mcp-poke is licensed under the Apache License Version 2.0.
//
//

// Package challenge exposes goal, badge, challenge, personal record and
// race prediction tools.
package challenge

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

// The ID mappings below are estimated from real payloads and may not be
// exhaustive.
var badgeCategories = map[int64]string{
	1: "Activity",
	2: "Running",
	3: "Cycling",
	4: "Challenge",
	5: "Steps",
	9: "Diving",
}

var badgeDifficulties = map[int64]string{
	1: "Easy",
	2: "Medium",
	3: "Hard",
}

// badgeUnits maps badgeUnitId to how progress and target values render.
var badgeUnits = map[int64]string{
	1: "distance",
	2: "elevation",
	3: "count",
	5: "count",
	7: "time",
}

var challengeCategories = map[int64]string{
	1: "Running",
	2: "Cycling",
	3: "Fitness",
	4: "Steps",
	5: "Walking",
	6: "Yoga/Mindfulness",
	9: "Multi-Activity",
}

var challengeStatuses = map[int64]string{
	1: "Not Started",
	2: "In Progress",
	3: "Completed",
	4: "Ended",
}

var adhocActivityTypes = map[int64]string{
	1: "Running",
	2: "Cycling",
	3: "Swimming",
	4: "Steps",
	5: "Walking",
}

type prType struct {
	name      string
	valueKind string
}

var prTypes = map[int64]prType{
	1:  {"Fastest 1K", "time"},
	2:  {"Fastest Mile", "time"},
	3:  {"Fastest 5K", "time"},
	4:  {"Fastest 10K", "time"},
	5:  {"Fastest Half Marathon", "time"},
	6:  {"Fastest Marathon", "time"},
	7:  {"Longest Run", "distance"},
	8:  {"Longest Ride", "distance"},
	9:  {"Most Elevation Gain Cycling", "elevation"},
	10: {"Fastest 100K Cycling", "time"},
	11: {"Fastest 40K Cycling", "time"},
	12: {"Most Steps Day", "count"},
	13: {"Most Steps Week", "count"},
	14: {"Most Steps Month", "count"},
	15: {"Longest Daily Goal Streak", "days"},
	16: {"Longest Weekly Goal Streak", "days"},
	17: {"Longest Pool Swim", "distance"},
	18: {"Fastest 100m Pool Swim", "time"},
	19: {"Fastest 400m Pool Swim", "time"},
	20: {"Fastest 500m Pool Swim", "time"},
	21: {"Fastest 800m Pool Swim", "time"},
	22: {"Fastest 1500m Pool Swim", "time"},
	23: {"Fastest 1 Mile Pool Swim", "time"},
}

// formatValue renders a numeric value per its kind: elapsed time,
// distance, elevation, plain count or day streak.
func formatValue(value float64, kind string) string {
	switch kind {
	case "time":
		return curate.Duration(value)
	case "distance":
		return curate.Distance(value)
	case "elevation":
		return fmt.Sprintf("%.0f m", value)
	case "count":
		return curate.Comma(int64(value))
	case "days":
		return fmt.Sprintf("%d days", int64(value))
	default:
		return fmt.Sprintf("%v", value)
	}
}

func formatBadgeValue(value float64, unitID int64) string {
	kind, ok := badgeUnits[unitID]
	if !ok {
		return fmt.Sprintf("%v", value)
	}
	return formatValue(value, kind)
}

func mapName(m map[int64]string, id int64, fallback string) string {
	if name, ok := m[id]; ok {
		return name
	}
	return fmt.Sprintf("%s_%d", fallback, id)
}

// curateBadgeChallenge shapes a badge challenge payload into the compact
// form shared by the three badge challenge listings.
func curateBadgeChallenge(challenge gjson.Result) map[string]any {
	curated := map[string]any{
		"name":       challenge.Get("badgeChallengeName").Value(),
		"uuid":       challenge.Get("uuid").Value(),
		"category":   mapName(challengeCategories, challenge.Get("challengeCategoryId").Int(), "category"),
		"status":     mapName(challengeStatuses, challenge.Get("badgeChallengeStatusId").Int(), "status"),
		"points":     challenge.Get("badgePoints").Value(),
		"start_date": curate.ISODate(challenge.Get("startDate").String()),
		"end_date":   curate.ISODate(challenge.Get("endDate").String()),
		"joined":     challenge.Get("userJoined").Bool(),
	}
	if target := challenge.Get("badgeTargetValue"); target.Exists() && target.Float() > 0 {
		unitID := challenge.Get("badgeUnitId").Int()
		progress := challenge.Get("badgeProgressValue").Float()
		curated["progress"] = formatBadgeValue(progress, unitID)
		curated["target"] = formatBadgeValue(target.Float(), unitID)
		curated["progress_percent"] = curate.ProgressPercent(progress, target.Float())
	}
	if earned := challenge.Get("badgeEarnedDate"); earned.String() != "" {
		curated["earned_date"] = curate.ISODate(earned.String())
	}
	return curate.Compact(curated)
}

func sortByKey(entries []map[string]any, key string, desc bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, _ := entries[i][key].(string)
		b, _ := entries[j][key].(string)
		if desc {
			return a > b
		}
		return a < b
	})
}

// ToolSet groups the challenge and badge tools around a shared client.
type ToolSet struct {
	client *garmin.Client
}

// NewToolSet creates the challenge toolset around an authenticated client.
func NewToolSet(client *garmin.Client) *ToolSet {
	return &ToolSet{client: client}
}

// Register adds every challenge, badge and record tool to the MCP server.
func (t *ToolSet) Register(s *mcp.Server) {
	pageTool := func(name, desc string, firstIndex float64) *mcp.Tool {
		return mcp.NewTool(name,
			mcp.WithDescription(desc),
			mcp.WithNumber("start",
				mcp.Description(fmt.Sprintf("Starting index for pagination (starts at %d)", int(firstIndex))),
				mcp.Default(firstIndex)),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of challenges to return (default 20, max 100)"),
				mcp.Default(20.0)),
		)
	}

	s.RegisterTool(mcp.NewTool("get_goals",
		mcp.WithDescription("Get Garmin Connect goals (active, future, or past)"),
		mcp.WithString("goal_type",
			mcp.Description("Type of goals to retrieve"),
			mcp.Default("active"),
			mcp.Enum("active", "future", "past")),
	), t.getGoals)
	s.RegisterTool(mcp.NewTool("get_personal_record",
		mcp.WithDescription("Get personal records for user"),
	), t.getPersonalRecords)
	s.RegisterTool(mcp.NewTool("get_earned_badges",
		mcp.WithDescription("Get earned badges for user"),
	), t.getEarnedBadges)
	s.RegisterTool(pageTool("get_adhoc_challenges",
		"Get user-created social/group challenges (e.g. step competitions with friends)", 0),
		t.getAdhocChallenges)
	s.RegisterTool(pageTool("get_available_badge_challenges",
		"Get official Garmin badge challenges available to join", 1),
		t.getAvailableBadgeChallenges)
	s.RegisterTool(pageTool("get_badge_challenges",
		"Get all badge challenges the user has joined (completed and in-progress)", 1),
		t.getBadgeChallenges)
	s.RegisterTool(pageTool("get_non_completed_badge_challenges",
		"Get badge challenges currently in progress (not yet completed)", 1),
		t.getNonCompletedBadgeChallenges)
	s.RegisterTool(mcp.NewTool("get_race_predictions",
		mcp.WithDescription("Get predicted 5K, 10K, half marathon and marathon times based on current fitness level"),
	), t.getRacePredictions)
	s.RegisterTool(pageTool("get_inprogress_virtual_challenges",
		"Get in-progress virtual challenges/expeditions", 0),
		t.getInProgressVirtualChallenges)
}

func pageArgs(args map[string]any, defaultStart int) (start, limit int) {
	start = argext.Int(args, "start", defaultStart)
	limit = argext.Int(args, "limit", 20)
	if limit > 100 {
		limit = 100
	}
	return start, limit
}

func (t *ToolSet) getGoals(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	goalType := argext.String(req.Params.Arguments, "goal_type", "active")
	raw, err := t.client.Goals(ctx, goalType, 0, 1000)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving %s goals: %v", goalType, err)), nil
	}
	goals := gjson.ParseBytes(raw)
	if len(goals.Array()) == 0 {
		return mcp.NewTextResult(fmt.Sprintf("No %s goals found.", goalType)), nil
	}
	return mcp.NewTextResult(curate.JSON(goals.Value())), nil
}

func (t *ToolSet) getPersonalRecords(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := t.client.PersonalRecords(ctx)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving personal records: %v", err)), nil
	}
	records := gjson.ParseBytes(raw).Array()
	if len(records) == 0 {
		return mcp.NewTextResult("No personal records found."), nil
	}

	curated := make([]map[string]any, 0, len(records))
	for _, record := range records {
		typeID := record.Get("typeId").Int()
		info, known := prTypes[typeID]
		if !known {
			info = prType{fmt.Sprintf("Unknown Record (typeId=%d)", typeID), "unknown"}
		}
		entry := map[string]any{
			"record_type": info.name,
			"type_id":     typeID,
			"raw_value":   record.Get("value").Value(),
		}
		if value := record.Get("value"); value.Exists() {
			entry["value"] = formatValue(value.Float(), info.valueKind)
		}
		if date := curate.DateFromMillis(record.Get("prStartTimeGMT").Int()); date != "" {
			entry["date"] = date
		}
		if activityID := record.Get("activityId"); activityID.Int() != 0 {
			entry["activity_id"] = activityID.Value()
		}
		curated = append(curated, curate.Compact(entry))
	}
	sort.SliceStable(curated, func(i, j int) bool {
		a, _ := curated[i]["type_id"].(int64)
		b, _ := curated[j]["type_id"].(int64)
		return a < b
	})
	return mcp.NewTextResult(curate.JSON(curated)), nil
}

func (t *ToolSet) getEarnedBadges(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := t.client.EarnedBadges(ctx)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving earned badges: %v", err)), nil
	}
	badges := gjson.ParseBytes(raw).Array()
	if len(badges) == 0 {
		return mcp.NewTextResult("No earned badges found."), nil
	}

	curated := make([]map[string]any, 0, len(badges))
	for _, badge := range badges {
		unitID := badge.Get("badgeUnitId").Int()
		entry := map[string]any{
			"name":       badge.Get("badgeName").Value(),
			"category":   mapName(badgeCategories, badge.Get("badgeCategoryId").Int(), "category"),
			"difficulty": mapName(badgeDifficulties, badge.Get("badgeDifficultyId").Int(), "level"),
			"points":     badge.Get("badgePoints").Value(),
		}
		if earned := curate.ISODate(badge.Get("badgeEarnedDate").String()); earned != "" {
			entry["earned_date"] = earned
		}
		progress := badge.Get("badgeProgressValue")
		target := badge.Get("badgeTargetValue")
		if progress.Exists() && target.Exists() {
			entry["progress"] = formatBadgeValue(progress.Float(), unitID)
			entry["target"] = formatBadgeValue(target.Float(), unitID)
		}
		startDate := curate.ISODate(badge.Get("badgeStartDate").String())
		endDate := curate.ISODate(badge.Get("badgeEndDate").String())
		if startDate != "" && endDate != "" {
			entry["challenge_period"] = fmt.Sprintf("%s to %s", startDate, endDate)
		}
		if badge.Get("badgeAssocType").String() == "activityId" && badge.Get("badgeAssocDataId").Exists() {
			entry["activity_id"] = badge.Get("badgeAssocDataId").Value()
		}
		if series := badge.Get("badgeSeriesId"); series.Int() != 0 {
			entry["series_id"] = series.Value()
		}
		curated = append(curated, curate.Compact(entry))
	}
	sortByKey(curated, "earned_date", true)

	return mcp.NewTextResult(curate.JSON(map[string]any{
		"total_badges": len(curated),
		"badges":       curated,
	})), nil
}

func (t *ToolSet) getAdhocChallenges(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, limit := pageArgs(req.Params.Arguments, 0)
	raw, err := t.client.AdhocChallenges(ctx, start, limit)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving adhoc challenges: %v", err)), nil
	}
	challenges := gjson.ParseBytes(raw).Array()
	if len(challenges) == 0 {
		return mcp.NewTextResult("No adhoc challenges found."), nil
	}

	curated := make([]map[string]any, 0, len(challenges))
	for _, challenge := range challenges {
		curated = append(curated, curate.Compact(map[string]any{
			"name":          challenge.Get("adHocChallengeName").Value(),
			"description":   challenge.Get("adHocChallengeDesc").Value(),
			"uuid":          challenge.Get("uuid").Value(),
			"activity_type": mapName(adhocActivityTypes, challenge.Get("socialChallengeActivityTypeId").Int(), "type"),
			"status":        mapName(challengeStatuses, challenge.Get("socialChallengeStatusId").Int(), "status"),
			"start_date":    curate.ISODate(challenge.Get("startDate").String()),
			"end_date":      curate.ISODate(challenge.Get("endDate").String()),
			"your_ranking":  challenge.Get("userRanking").Value(),
			"player_count":  challenge.Get("playerCount").Value(),
		}))
	}
	sortByKey(curated, "start_date", true)

	return mcp.NewTextResult(curate.JSON(map[string]any{
		"total":      len(curated),
		"challenges": curated,
	})), nil
}

func (t *ToolSet) getAvailableBadgeChallenges(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, limit := pageArgs(req.Params.Arguments, 1)
	raw, err := t.client.AvailableBadgeChallenges(ctx, start, limit)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving available badge challenges: %v", err)), nil
	}
	challenges := gjson.ParseBytes(raw).Array()
	if len(challenges) == 0 {
		return mcp.NewTextResult("No available badge challenges found."), nil
	}

	curated := make([]map[string]any, 0, len(challenges))
	for _, challenge := range challenges {
		entry := curateBadgeChallenge(challenge)
		entry["joinable"] = true
		if joinable := challenge.Get("joinable"); joinable.Exists() {
			entry["joinable"] = joinable.Bool()
		}
		curated = append(curated, entry)
	}
	sortByKey(curated, "start_date", false)

	return mcp.NewTextResult(curate.JSON(map[string]any{
		"total":      len(curated),
		"challenges": curated,
	})), nil
}

func (t *ToolSet) getBadgeChallenges(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, limit := pageArgs(req.Params.Arguments, 1)
	raw, err := t.client.BadgeChallenges(ctx, start, limit)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving badge challenges: %v", err)), nil
	}
	challenges := gjson.ParseBytes(raw).Array()
	if len(challenges) == 0 {
		return mcp.NewTextResult("No badge challenges found."), nil
	}

	curated := make([]map[string]any, 0, len(challenges))
	for _, challenge := range challenges {
		curated = append(curated, curateBadgeChallenge(challenge))
	}
	sortByKey(curated, "start_date", true)

	return mcp.NewTextResult(curate.JSON(map[string]any{
		"total":      len(curated),
		"challenges": curated,
	})), nil
}

func (t *ToolSet) getNonCompletedBadgeChallenges(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, limit := pageArgs(req.Params.Arguments, 1)
	raw, err := t.client.NonCompletedBadgeChallenges(ctx, start, limit)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving in-progress badge challenges: %v", err)), nil
	}
	challenges := gjson.ParseBytes(raw).Array()
	if len(challenges) == 0 {
		return mcp.NewTextResult("No in-progress badge challenges found."), nil
	}

	curated := make([]map[string]any, 0, len(challenges))
	for _, challenge := range challenges {
		curated = append(curated, curateBadgeChallenge(challenge))
	}
	// Ending soonest first.
	sortByKey(curated, "end_date", false)

	return mcp.NewTextResult(curate.JSON(map[string]any{
		"total":      len(curated),
		"challenges": curated,
	})), nil
}

func (t *ToolSet) getRacePredictions(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := t.client.RacePredictions(ctx)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving race predictions: %v", err)), nil
	}
	res := gjson.ParseBytes(raw)
	if res.IsArray() {
		list := res.Array()
		if len(list) == 0 {
			return mcp.NewTextResult("No race predictions found."), nil
		}
		res = list[0]
	}
	if !res.Exists() || len(res.Map()) == 0 {
		return mcp.NewTextResult("No race predictions found."), nil
	}

	prediction := func(key string) map[string]any {
		seconds := res.Get(key)
		out := map[string]any{"time_seconds": seconds.Value()}
		if seconds.Exists() {
			out["time"] = curate.Duration(seconds.Float())
		}
		return curate.Compact(out)
	}
	curated := map[string]any{
		"prediction_date": res.Get("calendarDate").Value(),
		"predictions": map[string]any{
			"5K":            prediction("time5K"),
			"10K":           prediction("time10K"),
			"half_marathon": prediction("timeHalfMarathon"),
			"marathon":      prediction("timeMarathon"),
		},
	}
	return mcp.NewTextResult(curate.JSON(curate.Compact(curated))), nil
}

func (t *ToolSet) getInProgressVirtualChallenges(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, limit := pageArgs(req.Params.Arguments, 0)
	raw, err := t.client.InProgressVirtualChallenges(ctx, start, limit)
	if err != nil {
		return mcp.NewErrorResult(fmt.Sprintf("Error retrieving in-progress virtual challenges: %v", err)), nil
	}
	res := gjson.ParseBytes(raw)

	var challenges []gjson.Result
	switch {
	case res.IsArray():
		challenges = res.Array()
	case res.IsObject() && res.Get("challenges").IsArray():
		challenges = res.Get("challenges").Array()
	case res.IsObject() && len(res.Map()) > 0:
		challenges = []gjson.Result{res}
	}
	if len(challenges) == 0 {
		return mcp.NewTextResult("No in-progress virtual challenges found."), nil
	}

	curated := make([]map[string]any, 0, len(challenges))
	for _, challenge := range challenges {
		name := challenge.Get("name")
		if !name.Exists() {
			name = challenge.Get("challengeName")
		}
		entry := map[string]any{
			"name":       name.Value(),
			"uuid":       challenge.Get("uuid").Value(),
			"start_date": curate.ISODate(challenge.Get("startDate").String()),
			"end_date":   curate.ISODate(challenge.Get("endDate").String()),
		}
		progress := challenge.Get("progress")
		if !progress.Exists() {
			progress = challenge.Get("progressValue")
		}
		target := challenge.Get("target")
		if !target.Exists() {
			target = challenge.Get("targetValue")
		}
		if progress.Exists() && target.Exists() {
			entry["progress_meters"] = progress.Value()
			entry["target_meters"] = target.Value()
			entry["progress_km"] = fmt.Sprintf("%.2f km", progress.Float()/1000)
			entry["target_km"] = fmt.Sprintf("%.2f km", target.Float()/1000)
			entry["progress_percent"] = curate.ProgressPercent(progress.Float(), target.Float())
		}
		curated = append(curated, curate.Compact(entry))
	}

	return mcp.NewTextResult(curate.JSON(map[string]any{
		"total":      len(curated),
		"challenges": curated,
	})), nil
}
