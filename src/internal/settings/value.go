package settings

import (
	"fmt"
	"reflect"
)

// Canonicalize converts a configuration value into the one canonical mutable
// representation the engine compares on: map[string]interface{} for objects,
// []interface{} for arrays, scalars unchanged. Legacy yaml map keys are
// stringified so the same document always canonicalizes identically.
func Canonicalize(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = Canonicalize(val)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[fmt.Sprintf("%v", k)] = Canonicalize(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = Canonicalize(val)
		}
		return out
	default:
		return v
	}
}

// DeepClone returns a copy sharing no mutable state with the input.
func DeepClone(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = DeepClone(val)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[interface{}]interface{}, len(t))
		for k, val := range t {
			out[k] = DeepClone(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = DeepClone(val)
		}
		return out
	default:
		return v
	}
}

// StructuralEqual compares two canonicalized values. Absent fields stay
// absent: a partially-specified object is compared exactly as stored, never
// with defaults filled in first.
func StructuralEqual(a, b interface{}) bool {
	return reflect.DeepEqual(a, b)
}
