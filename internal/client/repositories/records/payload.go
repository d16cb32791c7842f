package records

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/couplespace/internal/common"
	"github.com/dmitrijs2005/couplespace/internal/journal"
	"github.com/google/uuid"
)

// prepare derives the row key from the record id and encodes the payload.
// An absent id is replaced by a UUID on a copy; a present id is stored as is.
func prepare(rec journal.Record) (string, []byte, error) {
	id, ok := rec.Key("id")
	if !ok && rec.Has("id") {
		return "", nil, fmt.Errorf("encode record: %w: id %v is not a scalar", common.ErrSerializationFailure, rec["id"])
	}
	out := rec
	if !ok {
		id = uuid.NewString()
		out = make(journal.Record, len(rec)+1)
		for k, v := range rec {
			out[k] = v
		}
		out["id"] = id
	}

	payload, err := json.Marshal(out)
	if err != nil {
		return "", nil, fmt.Errorf("encode record: %w: %v", common.ErrSerializationFailure, err)
	}
	return id, payload, nil
}

func decode(payload []byte) (journal.Record, error) {
	var rec journal.Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w: %v", common.ErrSerializationFailure, err)
	}
	return rec, nil
}
