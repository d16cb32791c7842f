// Package records provides the PostgreSQL-backed journal store the export
// server reads from.
package records

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/couplespace/internal/common"
	"github.com/dmitrijs2005/couplespace/internal/dbx"
	"github.com/dmitrijs2005/couplespace/internal/journal"
	"github.com/google/uuid"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert inserts or replaces records by id. A row owned by another space is
// never touched: the conflicting record is reported as ErrorConflict.
func (r *PostgresRepository) Upsert(ctx context.Context, owner, kind string, recs []journal.Record) ([]string, error) {
	query := `
		INSERT INTO records (id, owner_id, kind, payload)
		VALUES ($1, $2, $3, $4::jsonb)
		ON CONFLICT (id)
		DO UPDATE SET
			kind = EXCLUDED.kind,
			payload = EXCLUDED.payload
			WHERE records.owner_id = EXCLUDED.owner_id;
	`
	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		id, payload, err := encode(rec)
		if err != nil {
			return nil, err
		}
		res, err := r.db.ExecContext(ctx, query, id, owner, kind, string(payload))
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("rows affected error: %w", err)
		}
		if n == 0 {
			return nil, fmt.Errorf("record %s: %w", id, common.ErrorConflict)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Fetch returns one kind of records for owner in insertion order.
func (r *PostgresRepository) Fetch(ctx context.Context, owner string, kind journal.Kind) ([]journal.Record, error) {
	query := `SELECT payload FROM records WHERE owner_id=$1 AND kind=$2 ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, owner, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	var result []journal.Record
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var rec journal.Record
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, fmt.Errorf("decode record: %w: %v", common.ErrSerializationFailure, err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Kinds lists the distinct kinds stored for owner.
func (r *PostgresRepository) Kinds(ctx context.Context, owner string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT kind FROM records WHERE owner_id=$1 ORDER BY kind`, owner)
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

func encode(rec journal.Record) (string, []byte, error) {
	id, ok := rec.Key("id")
	if !ok && rec.Has("id") {
		return "", nil, fmt.Errorf("encode record: %w: id %v is not a scalar", common.ErrSerializationFailure, rec["id"])
	}
	if !ok {
		id = uuid.NewString()
		cp := make(journal.Record, len(rec)+1)
		for k, v := range rec {
			cp[k] = v
		}
		cp["id"] = id
		rec = cp
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return "", nil, fmt.Errorf("encode record: %w: %v", common.ErrSerializationFailure, err)
	}
	return id, payload, nil
}
