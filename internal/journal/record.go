// Package journal models the couple's journal records as the export pipeline
// sees them: loosely typed objects grouped into a fixed, ordered set of
// categories, each carrying one effective timestamp.
package journal

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Record is one domain object exactly as the store returned it. It is kept
// as a plain JSON object so the structured export stays lossless.
type Record map[string]any

// Has reports whether the field exists and carries a usable value.
// Nil values and blank strings count as absent.
func (r Record) Has(name string) bool {
	v, ok := r[name]
	if !ok || v == nil {
		return false
	}
	if s, isString := v.(string); isString {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// Text returns the field as a string. Only string values qualify.
func (r Record) Text(name string) (string, bool) {
	if !r.Has(name) {
		return "", false
	}
	s, ok := r[name].(string)
	return s, ok
}

// Key returns a scalar field as a string suitable for a row key. Numbers are
// formatted without exponent or trailing zeros, so 3 and 3.0 both give "3".
func (r Record) Key(name string) (string, bool) {
	if !r.Has(name) {
		return "", false
	}
	switch v := r[name].(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case json.Number:
		return v.String(), true
	default:
		return "", false
	}
}

// Number returns the field as float64. Numeric strings are accepted because
// some clients store amounts as text.
func (r Record) Number(name string) (float64, bool) {
	if !r.Has(name) {
		return 0, false
	}
	switch v := r[name].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Bool returns the field as a bool.
func (r Record) Bool(name string) (bool, bool) {
	if !r.Has(name) {
		return false, false
	}
	b, ok := r[name].(bool)
	return b, ok
}
