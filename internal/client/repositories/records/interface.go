package records

import (
	"context"

	"github.com/dmitrijs2005/couplespace/internal/journal"
)

// Repository stores journal records as opaque JSON objects.
type Repository interface {
	// Insert appends recs under kind and returns the ids written. A record
	// with a string "id" keeps it; others get a fresh UUID.
	Insert(ctx context.Context, owner, kind string, recs []journal.Record) ([]string, error)

	// Fetch returns the records of one kind in insertion order.
	Fetch(ctx context.Context, owner string, kind journal.Kind) ([]journal.Record, error)

	// Kinds lists the distinct kinds stored for owner.
	Kinds(ctx context.Context, owner string) ([]string, error)

	// Count returns how many records owner has.
	Count(ctx context.Context, owner string) (int, error)

	// DeleteOwner removes every record of owner.
	DeleteOwner(ctx context.Context, owner string) (int64, error)
}
