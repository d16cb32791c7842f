package journal

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/couplespace/internal/common"
)

// TimeWindow is an inclusive [Start, End] range. Start's location is the
// calendar used to read zone-less timestamps.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// YearWindow covers the calendar year in loc, from Jan 1 00:00:00 to the last
// instant of Dec 31.
func YearWindow(year int, loc *time.Location) TimeWindow {
	if loc == nil {
		loc = time.Local
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return TimeWindow{Start: start, End: start.AddDate(1, 0, 0).Add(-time.Nanosecond)}
}

// MonthWindow covers one calendar month in loc.
func MonthWindow(year, month int, loc *time.Location) (TimeWindow, error) {
	if month < 1 || month > 12 {
		return TimeWindow{}, fmt.Errorf("month %d: %w", month, common.ErrInvalidWindow)
	}
	if loc == nil {
		loc = time.Local
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	return TimeWindow{Start: start, End: start.AddDate(0, 1, 0).Add(-time.Nanosecond)}, nil
}

// Contains reports whether t lies within the window, both ends included.
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Location returns the calendar location of the window.
func (w TimeWindow) Location() *time.Location {
	if w.Start.IsZero() {
		return time.Local
	}
	return w.Start.Location()
}

// Filter keeps the records whose effective timestamp falls inside w, in
// input order. A nil input (source not loaded yet) yields an empty result.
// Records without a resolvable timestamp are dropped.
func Filter(kind Kind, records []Record, w TimeWindow) []Record {
	out := make([]Record, 0, len(records))
	loc := w.Location()
	for _, r := range records {
		t, ok := EffectiveTime(kind, r, loc)
		if !ok {
			continue
		}
		if w.Contains(t) {
			out = append(out, r)
		}
	}
	return out
}
