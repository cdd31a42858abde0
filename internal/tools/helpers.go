package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// strParam extracts a string parameter, "" when absent or wrongly typed.
func strParam(params map[string]any, key string) string {
	s, _ := params[key].(string)
	return s
}

// requireStr extracts a required string parameter.
func requireStr(params map[string]any, key string) (string, error) {
	s := strParam(params, key)
	if s == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return s, nil
}

// numParam extracts a numeric parameter. JSON numbers arrive as float64.
func numParam(params map[string]any, key string) (float64, bool) {
	switch v := params[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

// requireNum extracts a required numeric parameter.
func requireNum(params map[string]any, key string) (float64, error) {
	n, ok := numParam(params, key)
	if !ok {
		return 0, fmt.Errorf("%s is required and must be a number", key)
	}
	return n, nil
}

// timeLayouts are the timestamp forms the model is instructed to produce.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// requireTime extracts a required timestamp parameter.
func requireTime(params map[string]any, key string) (time.Time, error) {
	s := strParam(params, key)
	if s == "" {
		return time.Time{}, fmt.Errorf("%s is required", key)
	}
	return parseTime(s, key)
}

// optionalTime extracts an optional timestamp parameter; nil when absent.
func optionalTime(params map[string]any, key string) (*time.Time, error) {
	s := strParam(params, key)
	if s == "" {
		return nil, nil
	}
	t, err := parseTime(s, key)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseTime(s, key string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%s %q is not a recognised timestamp", key, s)
}

// dollarsToCents converts a dollar amount to integer cents.
func dollarsToCents(dollars float64) int64 {
	return int64(math.Round(dollars * 100))
}

// centsToDollars converts integer cents back to dollars for display.
func centsToDollars(cents int64) float64 {
	return float64(cents) / 100
}

// jsonResult serialises a tool result payload for the transcript.
func jsonResult(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialise result: %w", err)
	}
	return string(data), nil
}

// oneOf validates an enum parameter value.
func oneOf(value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%q is not one of the allowed values %v", value, allowed)
}
