// Package source is the record source adapter of the export pipeline: a
// uniform per-kind accessor in front of whatever store holds the journal.
package source

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dmitrijs2005/couplespace/internal/journal"
	"golang.org/x/sync/errgroup"
)

// Source fetches the records of one kind for an owner (a couple space).
// A nil slice means the data is not loaded yet; the pipeline treats it as
// empty.
type Source interface {
	Fetch(ctx context.Context, owner string, kind journal.Kind) ([]journal.Record, error)
}

// Lister is implemented by sources that can report which kinds they hold,
// including kinds the pipeline does not know.
type Lister interface {
	Kinds(ctx context.Context, owner string) ([]string, error)
}

// Collection maps a kind name to its records.
type Collection map[string][]journal.Record

// Names returns the kind names of c sorted alphabetically.
func (c Collection) Names() []string {
	names := make([]string, 0, len(c))
	for k := range c {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Collect fetches every known kind, plus whatever extra kinds a Lister
// reports, concurrently. The first fetch error cancels the rest.
func Collect(ctx context.Context, src Source, owner string) (Collection, error) {
	kinds := make([]string, 0, len(journal.Kinds()))
	seen := map[string]bool{}
	for _, k := range journal.Kinds() {
		kinds = append(kinds, string(k))
		seen[string(k)] = true
	}

	if l, ok := src.(Lister); ok {
		extra, err := l.Kinds(ctx, owner)
		if err != nil {
			return nil, fmt.Errorf("list kinds: %w", err)
		}
		for _, k := range extra {
			if !seen[k] {
				kinds = append(kinds, k)
				seen[k] = true
			}
		}
	}

	var mu sync.Mutex
	out := make(Collection, len(kinds))

	g, gctx := errgroup.WithContext(ctx)
	for _, k := range kinds {
		g.Go(func() error {
			recs, err := src.Fetch(gctx, owner, journal.Kind(k))
			if err != nil {
				return fmt.Errorf("fetch %s: %w", k, err)
			}
			mu.Lock()
			out[k] = recs
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
