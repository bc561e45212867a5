//
// Copyright (C) 2025 garmin-mcp-poke authors.  All rights reserved.
//
// garmin-mcp-poke is licensed under the Apache License Version 2.0.
//
//

// Package curate shapes verbose Garmin API payloads into compact,
// readable summaries: nil-stripped maps, rounded numbers and the
// formatting conventions shared by the tool packages.
package curate

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// Compact returns m without nil-valued keys. Nested maps and slices are
// left alone; use DeepCompact for recursive stripping.
func Compact(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if v == nil {
			continue
		}
		out[k] = v
	}
	return out
}

// DeepCompact strips nil values recursively through maps and slices.
func DeepCompact(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, elem := range t {
			if elem == nil {
				continue
			}
			out[k] = DeepCompact(elem)
		}
		return out
	case []any:
		out := make([]any, 0, len(t))
		for _, elem := range t {
			if elem == nil {
				continue
			}
			out = append(out, DeepCompact(elem))
		}
		return out
	default:
		return v
	}
}

// JSON renders v as indented JSON. Marshal failures surface in the output
// text rather than as an error; curated values are always marshalable in
// practice.
func JSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("marshal error: %v", err)
	}
	return string(data)
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}

// Duration formats a second count as h:mm:ss, or m:ss under an hour.
func Duration(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Distance formats a meter count, switching to kilometers at 1000 m.
func Distance(meters float64) string {
	if meters >= 1000 {
		return fmt.Sprintf("%.2f km", meters/1000)
	}
	return fmt.Sprintf("%.0f m", meters)
}

// DateFromMillis converts a Unix millisecond timestamp to YYYY-MM-DD (UTC).
func DateFromMillis(ms int64) string {
	if ms <= 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format("2006-01-02")
}

// TimestampFromMillis converts a Unix millisecond timestamp to a
// YYYY-MM-DD HH:MM:SS string (UTC).
func TimestampFromMillis(ms int64) string {
	if ms <= 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format("2006-01-02 15:04:05")
}

// ISODate trims an ISO 8601 timestamp down to its date part.
func ISODate(ts string) string {
	if i := strings.IndexByte(ts, 'T'); i >= 0 {
		return ts[:i]
	}
	return ts
}

// Clock formats minutes-from-midnight as HH:MM.
func Clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ProgressPercent formats progress against a target as a percentage
// string, capped at 100%.
func ProgressPercent(progress, target float64) string {
	if target <= 0 {
		return "0.0%"
	}
	pct := progress / target * 100
	if pct > 100 {
		pct = 100
	}
	return fmt.Sprintf("%.1f%%", pct)
}

// Comma renders an integer with thousands separators.
func Comma(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// Clamp bounds v to the inclusive range [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
