// Package metadata keeps settings of the local journal database, such as the
// couple space the journal belongs to.
package metadata

import (
	"context"
)

// Well-known keys.
const (
	KeyOwner    = "owner"
	KeyImported = "last_import"
)

type Repository interface {
	// Get returns the value of key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	All(ctx context.Context) (map[string]string, error)
}
