// Package importer restores a flat JSON export into the server store.
package importer

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/couplespace/internal/dbx"
	"github.com/dmitrijs2005/couplespace/internal/export"
	"github.com/dmitrijs2005/couplespace/internal/journal"
	"github.com/dmitrijs2005/couplespace/internal/logging"
	"github.com/dmitrijs2005/couplespace/internal/server/repositories/repomanager"
)

type Importer struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	logger logging.Logger
}

func New(db *sql.DB, rm repomanager.RepositoryManager, l logging.Logger) *Importer {
	return &Importer{db: db, repos: rm, logger: l.With("module", "importer")}
}

// Import upserts every record of doc under owner in one transaction and
// returns how many were written. Nothing is written when any record fails.
func (i *Importer) Import(ctx context.Context, owner string, doc export.FlatDocument) (int, error) {
	total := 0
	err := dbx.WithTx(ctx, i.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := i.repos.Records(tx)
		for _, c := range journal.Categories() {
			recs := doc.Records[c.Kind]
			if len(recs) == 0 {
				continue
			}
			ids, err := repo.Upsert(ctx, owner, string(c.Kind), recs)
			if err != nil {
				return fmt.Errorf("import %s: %w", c.FieldKey, err)
			}
			total += len(ids)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	i.logger.Info(ctx, "records imported", "owner", owner, "count", total)
	return total, nil
}
