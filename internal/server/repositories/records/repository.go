package records

import (
	"context"

	"github.com/dmitrijs2005/couplespace/internal/journal"
)

// Repository is the server-side journal store. Records are JSON objects
// partitioned by owner (couple space) and kind.
type Repository interface {
	// Upsert writes recs under kind, replacing rows that share an id with
	// the same owner. It returns the ids written.
	Upsert(ctx context.Context, owner, kind string, recs []journal.Record) ([]string, error)

	Fetch(ctx context.Context, owner string, kind journal.Kind) ([]journal.Record, error)
	Kinds(ctx context.Context, owner string) ([]string, error)
}
