// Package records is the local journal store of the CLI: one SQLite table
// of JSON payloads keyed by owner (couple space) and kind.
//
// SQLiteRepository implements source.Source and source.Lister, so the export
// pipeline can read straight from it:
//
//	repo := records.NewSQLiteRepository(db)
//	coll, err := source.Collect(ctx, repo, owner)
package records
