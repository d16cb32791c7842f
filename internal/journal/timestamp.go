package journal

import (
	"strings"
	"time"
)

const (
	fieldCreatedAt = "createdAt"
	fieldDate      = "date"
)

// kindTimeField lists the kinds whose effective timestamp lives under a
// field of their own.
var kindTimeField = map[Kind]string{
	KindFootprint:   "visitedAt",
	KindCountdown:   "targetDate",
	KindTimeCapsule: "openDate",
	KindAnniversary: "date",
}

// TimeFields returns the field names tried, in order, when resolving the
// effective timestamp of a record of the given kind.
func TimeFields(kind Kind) []string {
	fields := []string{fieldCreatedAt}
	if f, ok := kindTimeField[kind]; ok && f != fieldDate {
		fields = append(fields, f)
	}
	return append(fields, fieldDate)
}

// EffectiveTime resolves the record's timestamp. Zone-less strings are read
// as wall-clock time in loc. The second result is false when no candidate
// field holds a parseable time.
func EffectiveTime(kind Kind, r Record, loc *time.Location) (time.Time, bool) {
	for _, f := range TimeFields(kind) {
		if !r.Has(f) {
			continue
		}
		if t, ok := ParseTime(r[f], loc); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
}

// ParseTime converts a stored timestamp value into time.Time.
//
// Supported values: time.Time, epoch milliseconds (any JSON number) and the
// string layouts above.
func ParseTime(v any, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	switch value := v.(type) {
	case time.Time:
		return value.In(loc), !value.IsZero()
	case *time.Time:
		if value == nil {
			return time.Time{}, false
		}
		return value.In(loc), !value.IsZero()
	case float64:
		return time.UnixMilli(int64(value)).In(loc), true
	case int64:
		return time.UnixMilli(value).In(loc), true
	case int:
		return time.UnixMilli(int64(value)).In(loc), true
	case string:
		return parseTimeString(strings.TrimSpace(value), loc)
	}
	return time.Time{}, false
}

func parseTimeString(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.In(loc), true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
