package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/couplespace/internal/common"
	"github.com/dmitrijs2005/couplespace/internal/journal"
)

// FlatDocument is a whole-database JSON export read back into memory.
type FlatDocument struct {
	Records    map[journal.Kind][]journal.Record
	ExportDate time.Time
}

// Total returns the number of records over all kinds.
func (d FlatDocument) Total() int {
	n := 0
	for _, recs := range d.Records {
		n += len(recs)
	}
	return n
}

// ParseFlat reads a document produced by AssembleFlat with FormatJSON.
// Keys other than category field keys and "exportDate" are rejected with
// common.ErrUnknownCategoryKind.
func ParseFlat(data []byte) (FlatDocument, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(data), &raw); err != nil {
		return FlatDocument{}, fmt.Errorf("parse flat export: %w: %v", common.ErrSerializationFailure, err)
	}

	doc := FlatDocument{Records: make(map[journal.Kind][]journal.Record, len(raw))}
	for key, value := range raw {
		if key == "exportDate" {
			var s string
			if err := json.Unmarshal(value, &s); err == nil {
				doc.ExportDate, _ = time.Parse(time.RFC3339Nano, s)
			}
			continue
		}

		cat, ok := journal.CategoryByFieldKey(key)
		if !ok {
			return FlatDocument{}, fmt.Errorf("key %q: %w", key, common.ErrUnknownCategoryKind)
		}

		var recs []journal.Record
		if err := json.Unmarshal(value, &recs); err != nil {
			return FlatDocument{}, fmt.Errorf("parse %s: %w: %v", key, common.ErrSerializationFailure, err)
		}
		doc.Records[cat.Kind] = recs
	}
	return doc, nil
}
