package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record is a loosely typed server object prior to conversion into a typed entity.
type Record map[string]any

// Lookup returns the first present, non-nil value among keys.
func (r Record) Lookup(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// String returns the value at the first present key as a string.
//
// Numbers are formatted without exponent so ids like 12 come back as "12".
func (r Record) String(keys ...string) string {
	v, ok := r.Lookup(keys...)
	if !ok {
		return ""
	}

	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// Int returns the value at the first present key as an int, or 0.
func (r Record) Int(keys ...string) int {
	v, ok := r.Lookup(keys...)
	if !ok {
		return 0
	}

	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case int64:
		return int(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i)
		}
		if f, err := t.Float64(); err == nil {
			return int(f)
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return i
		}
	}
	return 0
}

// Float returns the value at the first present key as a float64, or 0.
func (r Record) Float(keys ...string) float64 {
	v, ok := r.Lookup(keys...)
	if !ok {
		return 0
	}

	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case json.Number:
		f, _ := t.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f
	}
	return 0
}

// Bool returns the value at the first present key as a bool.
//
// Accepts JSON booleans, 0/1 numbers and "true"/"false"/"1"/"0" strings.
func (r Record) Bool(keys ...string) bool {
	v, ok := r.Lookup(keys...)
	if !ok {
		return false
	}

	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case json.Number:
		return t.String() != "0"
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(t))
		return b
	}
	return false
}
