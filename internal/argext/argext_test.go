//
// Copyright (C) 2025 garmin-mcp-poke authors.  All rights reserved.
//
// garmin-mcp-poke is licensed under the Apache License Version 2.0.
//
//

package argext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	args := map[string]any{
		"date":  "2025-06-01",
		"blank": "   ",
		"num":   float64(7),
	}
	assert.Equal(t, "2025-06-01", String(args, "date", "def"))
	assert.Equal(t, "def", String(args, "missing", "def"))
	assert.Equal(t, "def", String(args, "blank", "def"))
	assert.Equal(t, "def", String(args, "num", "def"))
}

func TestInt(t *testing.T) {
	args := map[string]any{
		"weeks":  float64(4), // JSON numbers decode as float64
		"limit":  "20",
		"broken": "soon",
	}
	assert.Equal(t, 4, Int(args, "weeks", 1))
	assert.Equal(t, 20, Int(args, "limit", 1))
	assert.Equal(t, 1, Int(args, "broken", 1))
	assert.Equal(t, 1, Int(args, "missing", 1))
}

func TestFloat(t *testing.T) {
	args := map[string]any{
		"weight": float64(72.5),
		"str":    "63.2",
	}
	assert.Equal(t, 72.5, Float(args, "weight", 0))
	assert.Equal(t, 63.2, Float(args, "str", 0))
	assert.Equal(t, 9.9, Float(args, "missing", 9.9))
}

func TestBool(t *testing.T) {
	args := map[string]any{
		"details": true,
		"str":     "false",
		"junk":    "maybe",
	}
	assert.True(t, Bool(args, "details", false))
	assert.False(t, Bool(args, "str", true))
	assert.True(t, Bool(args, "junk", true))
	assert.False(t, Bool(args, "missing", false))
}

func TestFloatPtr(t *testing.T) {
	args := map[string]any{
		"percent_fat": float64(18.2),
		"bmi":         "22.1",
	}
	fat := FloatPtr(args, "percent_fat")
	require.NotNil(t, fat)
	assert.Equal(t, 18.2, *fat)

	bmi := FloatPtr(args, "bmi")
	require.NotNil(t, bmi)
	assert.Equal(t, 22.1, *bmi)

	assert.Nil(t, FloatPtr(args, "missing"))
}

func TestID(t *testing.T) {
	args := map[string]any{
		"activity_id": float64(1234567890),
		"uuid":        "ab12cd34-ef56",
		"blank":       "",
		"bad":         true,
	}

	id, err := ID(args, "activity_id")
	require.NoError(t, err)
	assert.Equal(t, "1234567890", id)

	id, err = ID(args, "uuid")
	require.NoError(t, err)
	assert.Equal(t, "ab12cd34-ef56", id)

	_, err = ID(args, "blank")
	assert.Error(t, err)
	_, err = ID(args, "missing")
	assert.Error(t, err)
	_, err = ID(args, "bad")
	assert.Error(t, err)
}

func TestRequire(t *testing.T) {
	args := map[string]any{"date": "2025-06-01"}

	date, err := Require(args, "date")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", date)

	_, err = Require(args, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestMap(t *testing.T) {
	args := map[string]any{
		"workout_data": map[string]any{"workoutName": "Tempo"},
		"not_object":   "x",
	}
	assert.Equal(t, map[string]any{"workoutName": "Tempo"}, Map(args, "workout_data"))
	assert.Nil(t, Map(args, "not_object"))
	assert.Nil(t, Map(args, "missing"))
}
