//
// Copyright (C) 2025 garmin-mcp-poke authors.  All rights reserved.
//
// garmin-mcp-poke is licensed under the Apache License Version 2.0.
//
//

// Package argext extracts typed values from MCP tool call arguments.
// JSON numbers decode as float64 and optional arguments may be absent, so
// every accessor takes a default.
package argext

import (
	"fmt"
	"strconv"
	"strings"
)

// String returns the string argument at key, or def when absent or empty.
func String(args map[string]any, key, def string) string {
	v, ok := args[key]
	if !ok || v == nil {
		return def
	}
	s, ok := v.(string)
	if !ok {
		return def
	}
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// Int returns the integer argument at key, accepting JSON numbers and
// numeric strings, or def when absent or malformed.
func Int(args map[string]any, key string, def int) int {
	v, ok := args[key]
	if !ok || v == nil {
		return def
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
	}
	return def
}

// Float returns the float argument at key, or def when absent or malformed.
func Float(args map[string]any, key string, def float64) float64 {
	v, ok := args[key]
	if !ok || v == nil {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f
		}
	}
	return def
}

// Bool returns the boolean argument at key, accepting booleans and the
// strings true/false, or def when absent or malformed.
func Bool(args map[string]any, key string, def bool) bool {
	v, ok := args[key]
	if !ok || v == nil {
		return def
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(b)); err == nil {
			return parsed
		}
	}
	return def
}

// FloatPtr returns a pointer to the float argument at key, or nil when the
// argument is absent. Used for optional write fields that must be omitted
// rather than zeroed.
func FloatPtr(args map[string]any, key string) *float64 {
	v, ok := args[key]
	if !ok || v == nil {
		return nil
	}
	switch n := v.(type) {
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return &f
		}
	}
	return nil
}

// ID returns the argument at key rendered as a string, accepting both
// strings and JSON numbers. Identifiers arrive either way depending on the
// caller.
func ID(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return "", fmt.Errorf("missing required argument %q", key)
	}
	switch n := v.(type) {
	case string:
		if strings.TrimSpace(n) == "" {
			return "", fmt.Errorf("missing required argument %q", key)
		}
		return n, nil
	case float64:
		return strconv.FormatInt(int64(n), 10), nil
	case int:
		return strconv.Itoa(n), nil
	case int64:
		return strconv.FormatInt(n, 10), nil
	}
	return "", fmt.Errorf("argument %q must be a string or number", key)
}

// Require returns the string argument at key or an error naming the
// missing argument.
func Require(args map[string]any, key string) (string, error) {
	s := String(args, key, "")
	if s == "" {
		return "", fmt.Errorf("missing required argument %q", key)
	}
	return s, nil
}

// Map returns the object argument at key, or nil when absent.
func Map(args map[string]any, key string) map[string]any {
	v, ok := args[key]
	if !ok {
		return nil
	}
	m, _ := v.(map[string]any)
	return m
}
