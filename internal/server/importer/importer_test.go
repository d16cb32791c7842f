package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/couplespace/internal/common"
	"github.com/dmitrijs2005/couplespace/internal/export"
	"github.com/dmitrijs2005/couplespace/internal/journal"
	"github.com/dmitrijs2005/couplespace/internal/logging"
	"github.com/dmitrijs2005/couplespace/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const upsert = `INSERT INTO records`

func newImporter(t *testing.T) (*Importer, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db, repomanager.NewPostgresRepositoryManager(), logging.NewNopLogger()), mock
}

func TestImport_CommitsInCategoryOrder(t *testing.T) {
	imp, mock := newImporter(t)

	doc := export.FlatDocument{Records: map[journal.Kind][]journal.Record{
		journal.KindLedger: {{"id": "l1", "amount": 500}},
		journal.KindDiary:  {{"id": "d1"}, {"id": "d2"}},
	}}

	mock.ExpectBegin()
	mock.ExpectExec(upsert).WithArgs("d1", "space-1", "diary", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(upsert).WithArgs("d2", "space-1", "diary", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(upsert).WithArgs("l1", "space-1", "ledger", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := imp.Import(context.Background(), "space-1", doc)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImport_RollsBackOnConflict(t *testing.T) {
	imp, mock := newImporter(t)

	doc := export.FlatDocument{Records: map[journal.Kind][]journal.Record{
		journal.KindDiary: {{"id": "d1"}},
	}}

	mock.ExpectBegin()
	mock.ExpectExec(upsert).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	n, err := imp.Import(context.Background(), "space-1", doc)
	assert.ErrorIs(t, err, common.ErrorConflict)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImport_BeginError(t *testing.T) {
	imp, mock := newImporter(t)
	mock.ExpectBegin().WillReturnError(errors.New("down"))

	_, err := imp.Import(context.Background(), "space-1", export.FlatDocument{})
	assert.ErrorContains(t, err, "begin tx")
}

func TestImport_EmptyDocument(t *testing.T) {
	imp, mock := newImporter(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	n, err := imp.Import(context.Background(), "space-1", export.FlatDocument{})
	require.NoError(t, err)
	assert.Zero(t, n)
}
