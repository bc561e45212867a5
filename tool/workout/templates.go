//
// Copyright (C) 2025 garmin-mcp-poke authors.  All rights reserved.
//
// garmin-mcp-poke is licensed under the Apache License Version 2.0.
//
//

package workout

import (
	"context"

	mcp "trpc.group/trpc-go/trpc-mcp-go"

	"github.com/theol0403/garmin-mcp-poke/internal/curate"
)

// Workout template resources: valid workout JSON structures clients can
// read and adapt for upload_workout.

func step(order int, typeID int64, typeKey, desc string, condID int64, condKey string, condValue float64, extra map[string]any) map[string]any {
	s := map[string]any{
		"type":              "ExecutableStepDTO",
		"stepOrder":         order,
		"stepType":          map[string]any{"stepTypeId": typeID, "stepTypeKey": typeKey},
		"description":       desc,
		"endCondition":      map[string]any{"conditionTypeId": condID, "conditionTypeKey": condKey},
		"endConditionValue": condValue,
		"targetType":        map[string]any{"workoutTargetTypeId": 1, "workoutTargetTypeKey": "no.target"},
	}
	for k, v := range extra {
		s[k] = v
	}
	return s
}

func repeatGroup(order, iterations int, steps ...map[string]any) map[string]any {
	return map[string]any{
		"type":               "RepeatGroupDTO",
		"stepOrder":          order,
		"numberOfIterations": iterations,
		"workoutSteps":       steps,
	}
}

func template(name, desc string, sportID int64, sportKey string, steps ...map[string]any) map[string]any {
	sport := map[string]any{"sportTypeId": sportID, "sportTypeKey": sportKey}
	return map[string]any{
		"workoutName": name,
		"description": desc,
		"sportType":   sport,
		"workoutSegments": []map[string]any{{
			"segmentOrder": 1,
			"sportType":    sport,
			"workoutSteps": steps,
		}},
	}
}

var simpleRunTemplate = template(
	"Simple Run", "Basic run workout: warmup, run, cooldown", 1, "running",
	step(1, 1, "warmup", "Warmup 5 min", 2, "time", 300, nil),
	step(2, 3, "interval", "Run 20 min", 2, "time", 1200, nil),
	step(3, 2, "cooldown", "Cooldown 5 min", 2, "time", 300, nil),
)

var intervalRunningTemplate = template(
	"Interval Run", "Interval workout with repeat groups: warmup, 6x(400m fast + 2min recovery), cooldown", 1, "running",
	step(1, 1, "warmup", "Warmup 10 min", 2, "time", 600, nil),
	repeatGroup(2, 6,
		step(1, 3, "interval", "Fast 400m", 3, "distance", 400, nil),
		step(2, 4, "recovery", "Recovery 2 min", 2, "time", 120, nil),
	),
	step(3, 2, "cooldown", "Cooldown 10 min", 2, "time", 600, nil),
)

var tempoRunTemplate = template(
	"Tempo Run", "Tempo workout: warmup, 20min at tempo pace (HR zone 4), cooldown", 1, "running",
	step(1, 1, "warmup", "Warmup 10 min", 2, "time", 600, nil),
	step(2, 3, "interval", "Tempo 20 min - HR Zone 4", 2, "time", 1200, map[string]any{
		"targetType": map[string]any{"workoutTargetTypeId": 4, "workoutTargetTypeKey": "heart.rate.zone"},
		"zoneNumber": 4,
	}),
	step(3, 2, "cooldown", "Cooldown 10 min", 2, "time", 600, nil),
)

var strengthCircuitTemplate = template(
	"Strength Circuit", "Strength training circuit: warmup, 3x circuit (work + rest), cooldown", 4, "strength_training",
	step(1, 1, "warmup", "Warmup 5 min", 2, "time", 300, nil),
	repeatGroup(2, 3,
		step(1, 3, "interval", "Circuit work 10 min", 2, "time", 600, nil),
		step(2, 4, "recovery", "Rest 2 min", 2, "time", 120, nil),
	),
	step(3, 2, "cooldown", "Cooldown stretch 5 min", 2, "time", 300, nil),
)

// structureReference documents valid values for step types, conditions,
// targets and sports in workout definitions.
var structureReference = map[string]any{
	"description": "Reference guide for Garmin workout JSON structure",
	"step_types": map[string]any{
		"ExecutableStepDTO": "Regular workout step (warmup, interval, cooldown, recovery, rest)",
		"RepeatGroupDTO":    "Repeat group containing nested steps with numberOfIterations",
	},
	"stepType_values": map[string]any{
		"1": map[string]any{"stepTypeKey": "warmup", "description": "Warmup phase"},
		"2": map[string]any{"stepTypeKey": "cooldown", "description": "Cooldown phase"},
		"3": map[string]any{"stepTypeKey": "interval", "description": "Work/effort interval"},
		"4": map[string]any{"stepTypeKey": "recovery", "description": "Recovery between intervals"},
		"5": map[string]any{"stepTypeKey": "rest", "description": "Complete rest"},
	},
	"endCondition_values": map[string]any{
		"1": map[string]any{"conditionTypeKey": "lap.button", "description": "Manual lap press"},
		"2": map[string]any{"conditionTypeKey": "time", "description": "Duration in seconds"},
		"3": map[string]any{"conditionTypeKey": "distance", "description": "Distance in meters"},
	},
	"targetType_values": map[string]any{
		"1": map[string]any{"workoutTargetTypeKey": "no.target", "description": "No specific target"},
		"4": map[string]any{"workoutTargetTypeKey": "heart.rate.zone", "description": "Heart rate zone (use zoneNumber 1-5)"},
		"6": map[string]any{"workoutTargetTypeKey": "pace.zone", "description": "Pace zone (use zoneNumber)"},
	},
	"sportType_values": map[string]any{
		"1":  map[string]any{"sportTypeKey": "running"},
		"2":  map[string]any{"sportTypeKey": "cycling"},
		"4":  map[string]any{"sportTypeKey": "strength_training"},
		"5":  map[string]any{"sportTypeKey": "cardio"},
		"11": map[string]any{"sportTypeKey": "walking"},
	},
}

func registerTemplates(s *mcp.Server) {
	register := func(uri, name, desc string, content map[string]any) {
		s.RegisterResource(&mcp.Resource{
			URI:         uri,
			Name:        name,
			Description: desc,
			MimeType:    "application/json",
		}, func(ctx context.Context, req *mcp.ReadResourceRequest) (mcp.ResourceContents, error) {
			return mcp.TextResourceContents{
				URI:      uri,
				MIMEType: "application/json",
				Text:     curate.JSON(content),
			}, nil
		})
	}

	register("workout://templates/simple-run", "simple-run-template",
		"Simple run workout template (warmup, run, cooldown). Modify the endConditionValue to adjust durations",
		simpleRunTemplate)
	register("workout://templates/interval-running", "interval-running-template",
		"Interval running workout template demonstrating RepeatGroupDTO: 6x400m intervals with 2min recovery",
		intervalRunningTemplate)
	register("workout://templates/tempo-run", "tempo-run-template",
		"Tempo run workout template targeting heart rate zone 4 for a 20min block",
		tempoRunTemplate)
	register("workout://templates/strength-circuit", "strength-circuit-template",
		"Strength training circuit template: 3 rounds of 10min work + 2min rest",
		strengthCircuitTemplate)
	register("workout://reference/structure", "workout-structure-reference",
		"Reference guide documenting valid step types, conditions, targets and sports for workout definitions",
		structureReference)
}
