package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/couplespace/internal/common"
	"github.com/dmitrijs2005/couplespace/internal/journal"
)

const blockSeparator = "---"

// RenderedSection is one category rendered in both forms.
type RenderedSection struct {
	Category       journal.Category
	StructuredText string
	NarrativeText  string
	ItemCount      int
}

// Renderer turns a category's records into its structured (JSON) and
// narrative (Markdown) forms.
type Renderer struct {
	Location *time.Location
	Locale   Locale
	// HeadingLevel is the Markdown level of the category heading; item
	// blocks sit one level below. Zero means 1.
	HeadingLevel int
}

// NewRenderer returns a Renderer with top-level headings.
func NewRenderer(loc *time.Location, locale Locale) *Renderer {
	return &Renderer{Location: loc, Locale: locale, HeadingLevel: 1}
}

// Render produces the section for items. An empty slice still yields a
// section, with ItemCount 0.
func (r *Renderer) Render(cat journal.Category, items []journal.Record) (RenderedSection, error) {
	if items == nil {
		items = []journal.Record{}
	}

	structured, err := indentJSON(items)
	if err != nil {
		return RenderedSection{}, fmt.Errorf("render %s: %w: %v", cat.Kind, common.ErrSerializationFailure, err)
	}

	return RenderedSection{
		Category:       cat,
		StructuredText: string(structured),
		NarrativeText:  r.narrative(cat, items),
		ItemCount:      len(items),
	}, nil
}

// indentJSON is json.MarshalIndent with two spaces and without HTML
// escaping, so "<3 & love" stays readable in the exported files.
func indentJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func (r *Renderer) narrative(cat journal.Category, items []journal.Record) string {
	lb := labelsFor(r.Locale)
	level := r.HeadingLevel
	if level < 1 {
		level = 1
	}
	loc := r.Location
	if loc == nil {
		loc = time.Local
	}

	var b strings.Builder
	b.WriteString(heading(level, cat.DisplayName))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf(lb.count, len(items)))
	b.WriteString("\n\n")

	for i, rec := range items {
		it := item{
			kind:    cat.Kind,
			rec:     rec,
			title:   Title(rec, lb.untitled),
			heading: level + 1,
			loc:     loc,
			lb:      lb,
		}
		b.WriteString(heading(it.heading, fmt.Sprintf("%d. %s", i+1, it.title)))
		b.WriteString("\n\n")
		for _, p := range projections {
			if !p.present(it) {
				continue
			}
			b.WriteString(p.format(it))
			b.WriteString("\n\n")
		}
		b.WriteString(blockSeparator)
		b.WriteString("\n\n")
	}

	return b.String()
}
