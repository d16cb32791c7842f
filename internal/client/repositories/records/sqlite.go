package records

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/couplespace/internal/dbx"
	"github.com/dmitrijs2005/couplespace/internal/journal"
)

// SQLiteRepository implements Repository over a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, owner, kind string, recs []journal.Record) ([]string, error) {
	query := `INSERT INTO records (id, owner_id, kind, payload) VALUES (?, ?, ?, ?)`

	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		id, payload, err := prepare(rec)
		if err != nil {
			return nil, err
		}
		if _, err := r.db.ExecContext(ctx, query, id, owner, kind, string(payload)); err != nil {
			return nil, fmt.Errorf("failed to insert record %s: %w", id, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *SQLiteRepository) Fetch(ctx context.Context, owner string, kind journal.Kind) ([]journal.Record, error) {
	query := `SELECT payload FROM records WHERE owner_id = ? AND kind = ? ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, owner, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	var result []journal.Record
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		rec, err := decode([]byte(payload))
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Kinds(ctx context.Context, owner string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT kind FROM records WHERE owner_id = ? ORDER BY kind`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list kinds: %w", err)
	}
	defer rows.Close()

	var kinds []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return kinds, nil
}

func (r *SQLiteRepository) Count(ctx context.Context, owner string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records WHERE owner_id = ?`, owner).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) DeleteOwner(ctx context.Context, owner string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE owner_id = ?`, owner)
	if err != nil {
		return 0, fmt.Errorf("failed to delete records: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
