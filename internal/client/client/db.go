package client

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/couplespace/internal/client/migrations"
	"github.com/dmitrijs2005/couplespace/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/couplespace/internal/client/repositories/records"
	"github.com/dmitrijs2005/couplespace/internal/dbx"
	"github.com/dmitrijs2005/couplespace/internal/export"
	"github.com/dmitrijs2005/couplespace/internal/journal"
	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Journal is the local SQLite journal of the CLI.
type Journal struct {
	DB       *sql.DB
	Records  *records.SQLiteRepository
	Metadata metadata.Repository
	now      func() time.Time
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// OpenJournal opens (creating if needed) the journal at dsn and migrates it.
func OpenJournal(ctx context.Context, dsn string) (*Journal, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// one writer; also keeps ":memory:" databases on a single connection
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Journal{
		DB:       db,
		Records:  records.NewSQLiteRepository(db),
		Metadata: metadata.NewSQLiteRepository(db),
		now:      time.Now,
	}, nil
}

func (j *Journal) Close() error {
	return j.DB.Close()
}

// Owner returns the couple space this journal belongs to, assigning a fresh
// one on first use.
func (j *Journal) Owner(ctx context.Context) (string, error) {
	owner, ok, err := j.Metadata.Get(ctx, metadata.KeyOwner)
	if err != nil {
		return "", err
	}
	if ok && owner != "" {
		return owner, nil
	}

	owner = uuid.NewString()
	if err := j.Metadata.Set(ctx, metadata.KeyOwner, owner); err != nil {
		return "", err
	}
	return owner, nil
}

// Import loads a flat export into the journal in one transaction. With
// replace set, the owner's existing records are removed first; otherwise a
// record whose id is already present fails the whole import.
func (j *Journal) Import(ctx context.Context, owner string, doc export.FlatDocument, replace bool) (int, error) {
	total := 0
	err := dbx.WithTx(ctx, j.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := records.NewSQLiteRepository(tx)
		if replace {
			if _, err := repo.DeleteOwner(ctx, owner); err != nil {
				return err
			}
		}
		for _, c := range journal.Categories() {
			recs := doc.Records[c.Kind]
			if len(recs) == 0 {
				continue
			}
			ids, err := repo.Insert(ctx, owner, string(c.Kind), recs)
			if err != nil {
				return fmt.Errorf("import %s: %w", c.FieldKey, err)
			}
			total += len(ids)
		}
		return metadata.NewSQLiteRepository(tx).Set(ctx, metadata.KeyImported, j.now().UTC().Format(time.RFC3339))
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}
