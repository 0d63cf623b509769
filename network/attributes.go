package network

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Attributes keeps source attribute values as raw JSON so they are served back unchanged.
type Attributes map[string]json.RawMessage

func (a Attributes) Clone() Attributes {
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Keys returns attribute names in ascending order.
func (a Attributes) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Value decodes a single attribute into a plain Go value.
func (a Attributes) Value(key string) (interface{}, bool) {
	raw, ok := a[key]
	if !ok || len(raw) == 0 {
		return nil, false
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}
	return v, true
}

// String returns a string attribute. Numbers are formatted back to text.
func (a Attributes) String(key string) (string, bool) {
	v, ok := a.Value(key)
	if !ok {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		return "", false
	}
}

// Float returns a finite numeric attribute. Numeric strings are accepted.
func (a Attributes) Float(key string) (float64, bool) {
	v, ok := a.Value(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Map decodes every attribute. Undecodable values become nil.
func (a Attributes) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(a))
	for k := range a {
		if v, ok := a.Value(k); ok {
			out[k] = v
		} else {
			out[k] = nil
		}
	}
	return out
}

func firstString(a Attributes, keys ...string) string {
	for _, k := range keys {
		if s, ok := a.String(k); ok && s != "" {
			return s
		}
	}
	return ""
}
