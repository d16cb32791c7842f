package export

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/couplespace/internal/journal"
)

// TimeLayout is the narrative timestamp pattern (YYYY-MM-DD HH:mm:ss).
const TimeLayout = "2006-01-02 15:04:05"

const (
	titleRunes    = 30
	titleEllipsis = "..."
	currencyGlyph = "¥"
)

// item is what a projection sees of one record.
type item struct {
	kind    journal.Kind
	rec     journal.Record
	title   string
	heading int // heading level of the item block
	loc     *time.Location
	lb      labels
}

// projection is one row of the narrative table: the field it reads, when it
// applies and how it is written.
type projection struct {
	field   string
	present func(it item) bool
	format  func(it item) string
}

// projections is evaluated top to bottom for every record. The order is part
// of the narrative format.
var projections = []projection{
	{
		field:   "content",
		present: func(it item) bool { return it.rec.Has("content") },
		format:  func(it item) string { return strings.TrimSpace(plain(it.rec["content"])) },
	},
	{
		field:   "description",
		present: func(it item) bool { return it.rec.Has("description") },
		format: func(it item) string {
			return labeled(it.lb.description, strings.TrimSpace(plain(it.rec["description"])))
		},
	},
	{
		field: "title",
		present: func(it item) bool {
			t, ok := it.rec.Text("title")
			return ok && !strings.Contains(it.title, strings.TrimSpace(t))
		},
		format: func(it item) string {
			t, _ := it.rec.Text("title")
			return heading(it.heading+1, strings.TrimSpace(t))
		},
	},
	{
		field: "amount",
		present: func(it item) bool {
			_, ok := it.rec.Number("amount")
			return ok
		},
		format: func(it item) string {
			n, _ := it.rec.Number("amount")
			kind, _ := it.rec.Text("type")
			return labeled(it.lb.amount, SignedAmount(n, kind))
		},
	},
	{
		field:   "address",
		present: func(it item) bool { return it.rec.Has("address") || it.rec.Has("location") },
		format: func(it item) string {
			if it.rec.Has("address") {
				return labeled(it.lb.location, plain(it.rec["address"]))
			}
			return labeled(it.lb.location, plain(it.rec["location"]))
		},
	},
	{
		field:   "mood",
		present: func(it item) bool { return it.rec.Has("mood") },
		format:  func(it item) string { return labeled(it.lb.mood, plain(it.rec["mood"])) },
	},
	{
		field:   "priority",
		present: func(it item) bool { return it.rec.Has("priority") },
		format: func(it item) string {
			return labeled(it.lb.priority, it.lb.translate(plain(it.rec["priority"])))
		},
	},
	{
		field: "status",
		present: func(it item) bool {
			return it.rec.Has("status") || it.rec.Has("completed") || it.rec.Has("isCompleted")
		},
		format: func(it item) string {
			if it.rec.Has("status") {
				return labeled(it.lb.status, it.lb.translate(plain(it.rec["status"])))
			}
			done, ok := it.rec.Bool("completed")
			if !ok {
				done, _ = it.rec.Bool("isCompleted")
			}
			if done {
				return labeled(it.lb.status, it.lb.done)
			}
			return labeled(it.lb.status, it.lb.notDone)
		},
	},
	{
		field: "createdAt",
		present: func(it item) bool {
			_, ok := journal.EffectiveTime(it.kind, it.rec, it.loc)
			return ok
		},
		format: func(it item) string {
			t, _ := journal.EffectiveTime(it.kind, it.rec, it.loc)
			return labeled(it.lb.time, t.Format(TimeLayout))
		},
	},
}

// Title derives the block title of a record: the explicit title, else the
// first 30 characters of the content, else the untitled label.
func Title(r journal.Record, untitled string) string {
	if t, ok := r.Text("title"); ok {
		return strings.TrimSpace(t)
	}
	if r.Has("content") {
		content := strings.Join(strings.Fields(plain(r["content"])), " ")
		runes := []rune(content)
		if len(runes) > titleRunes {
			return string(runes[:titleRunes]) + titleEllipsis
		}
		if content != "" {
			return content
		}
	}
	return untitled
}

// SignedAmount renders n with the currency glyph, positive for income and
// negative for anything else.
func SignedAmount(n float64, entryType string) string {
	sign := "-"
	if entryType == "income" {
		sign = "+"
	}
	return sign + currencyGlyph + strconv.FormatFloat(math.Abs(n), 'f', -1, 64)
}

func labeled(label, value string) string {
	return "**" + label + "**: " + value
}

func heading(level int, text string) string {
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + text
}

// plain flattens a field value into one line of text.
func plain(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	case map[string]any:
		for _, key := range []string{"name", "address", "label", "title"} {
			if s, ok := value[key].(string); ok && s != "" {
				return s
			}
		}
	case []any:
		parts := make([]string, 0, len(value))
		for _, p := range value {
			parts = append(parts, plain(p))
		}
		return strings.Join(parts, ", ")
	}
	if b, err := json.Marshal(v); err == nil {
		return string(b)
	}
	return fmt.Sprint(v)
}
