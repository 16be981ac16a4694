// ABOUTME: Helpers for decoding loosely typed tool arguments
// ABOUTME: Accepts JSON numbers as float64, ints, or numeric strings
package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseArguments decodes a JSON object of tool arguments. Blank input is an empty object.
func ParseArguments(raw string) (map[string]any, error) {
	args := map[string]any{}
	if strings.TrimSpace(raw) == "" {
		return args, nil
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("invalid tool arguments: %w", err)
	}
	return args, nil
}

// StringArg returns a trimmed string argument and whether it was present and non-empty
func StringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// IntArg returns an optional integer argument. Absent or null yields nil.
func IntArg(args map[string]any, key string) (*int, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return nil, nil
	}

	var n int
	switch x := v.(type) {
	case float64:
		if x != math.Trunc(x) {
			return nil, fmt.Errorf("%s must be an integer, got %v", key, x)
		}
		n = int(x)
	case int:
		n = x
	case int64:
		n = int(x)
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer, got %v", key, x)
		}
		n = int(i)
	case string:
		if strings.TrimSpace(x) == "" {
			return nil, nil
		}
		i, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer, got %q", key, x)
		}
		n = i
	default:
		return nil, fmt.Errorf("%s must be an integer, got %T", key, v)
	}
	return &n, nil
}
