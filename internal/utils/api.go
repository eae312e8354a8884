package utils

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// ParseIntParam retrieves an int from the URL query parameters.
// An absent value returns def. A value that is not an integer or falls outside
// [minValue, maxValue] returns def and records a field error under key.
func ParseIntParam(params url.Values, key string, def, minValue, maxValue int, fieldErrors map[string][]string) (int, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := strings.TrimSpace(params.Get(key))
	if val == "" {
		return def, fieldErrors
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
		return def, fieldErrors
	}
	if n < minValue || n > maxValue {
		fieldErrors[key] = append(fieldErrors[key],
			fmt.Sprintf("Field %q must be between %d and %d.", key, minValue, maxValue))
		return def, fieldErrors
	}
	return n, fieldErrors
}

// ParseFloatParam retrieves a float64 value from the provided URL query parameters.
// If the key is not present it returns def; an invalid or non-finite value returns def
// and updates the fieldErrors map.
func ParseFloatParam(params url.Values, key string, def float64, fieldErrors map[string][]string) (float64, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := strings.TrimSpace(params.Get(key))
	if val == "" {
		return def, fieldErrors
	}

	f, err := strconv.ParseFloat(val, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
		return def, fieldErrors
	}
	return f, fieldErrors
}

// ParseBoolParam reads checkbox style toggles: "1", "true", "on" and "yes" are true.
func ParseBoolParam(params url.Values, key string) bool {
	switch strings.ToLower(strings.TrimSpace(params.Get(key))) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
