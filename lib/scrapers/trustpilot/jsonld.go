package trustpilot

import (
	"encoding/json"
)

// Value is one node of a parsed JSON-LD document. Exactly one of the
// three fields is meaningful: Object for maps, Array for lists, Scalar
// for everything else (string, number, bool, null).
type Value struct {
	Object map[string]Value
	Array  []Value
	Scalar any
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '{' {
		return json.Unmarshal(data, &v.Object)
	}
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, &v.Array)
	}
	return json.Unmarshal(data, &v.Scalar)
}

// FindKey walks the value depth-first and returns the first value found
// under the given object key, at any nesting depth.
func (v Value) FindKey(key string) (Value, bool) {
	if v.Object != nil {
		if found, ok := v.Object[key]; ok {
			return found, true
		}
		for _, child := range v.Object {
			if found, ok := child.FindKey(key); ok {
				return found, true
			}
		}
		return Value{}, false
	}
	for _, child := range v.Array {
		if found, ok := child.FindKey(key); ok {
			return found, true
		}
	}
	return Value{}, false
}
