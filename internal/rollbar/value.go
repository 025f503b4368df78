package rollbar

import (
	"fmt"
	"math"
)

// sanitizeValue normalizes one caller-provided value into the JSON-safe payload form.
// Scalars collapse to bool, int64, float64, and string; containers are rebuilt
// with every element normalized.
// Params: value arbitrary caller value.
// Returns: normalized value or error for unsupported or non-finite content.
func sanitizeValue(value any) (any, error) {
	switch typed := value.(type) {
	case nil:
		return nil, nil
	case bool:
		return typed, nil
	case string:
		return typed, nil
	case []byte:
		return string(typed), nil
	case int:
		return int64(typed), nil
	case int8:
		return int64(typed), nil
	case int16:
		return int64(typed), nil
	case int32:
		return int64(typed), nil
	case int64:
		return typed, nil
	case uint:
		return sanitizeUint(uint64(typed))
	case uint8:
		return int64(typed), nil
	case uint16:
		return int64(typed), nil
	case uint32:
		return int64(typed), nil
	case uint64:
		return sanitizeUint(typed)
	case float32:
		return sanitizeFloat(float64(typed))
	case float64:
		return sanitizeFloat(typed)
	case []any:
		return sanitizeSlice(typed)
	case map[string]any:
		return sanitizeMap(typed)
	default:
		return nil, fmt.Errorf("unsupported value type %T", value)
	}
}

// sanitizeUint guards the unsigned to signed integer conversion.
// Params: value unsigned integer.
// Returns: int64 value or overflow error.
func sanitizeUint(value uint64) (any, error) {
	if value > math.MaxInt64 {
		return nil, fmt.Errorf("uint64 value %d overflows payload integer range", value)
	}
	return int64(value), nil
}

// sanitizeFloat rejects non-finite floats that JSON cannot carry.
// Params: value float value.
// Returns: the value or error for NaN and infinities.
func sanitizeFloat(value float64) (any, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, fmt.Errorf("non-finite float value %v", value)
	}
	return value, nil
}

// sanitizeMap normalizes every value of a string-keyed map into a new map.
// Params: values caller map, may be nil.
// Returns: normalized map (nil for nil input) or first error with the offending key.
func sanitizeMap(values map[string]any) (map[string]any, error) {
	if values == nil {
		return nil, nil
	}

	sanitized := make(map[string]any, len(values))
	for key, value := range values {
		normalized, err := sanitizeValue(value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		sanitized[key] = normalized
	}
	return sanitized, nil
}

// sanitizeSlice normalizes every element of a list value into a new slice.
// Params: values caller list.
// Returns: normalized slice or first error with the offending index.
func sanitizeSlice(values []any) ([]any, error) {
	sanitized := make([]any, len(values))
	for i, value := range values {
		normalized, err := sanitizeValue(value)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		sanitized[i] = normalized
	}
	return sanitized, nil
}
