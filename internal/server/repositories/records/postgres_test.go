package records

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/couplespace/internal/common"
	"github.com/dmitrijs2005/couplespace/internal/journal"
	"github.com/dmitrijs2005/couplespace/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Repository    = (*PostgresRepository)(nil)
	_ source.Source = (*PostgresRepository)(nil)
	_ source.Lister = (*PostgresRepository)(nil)
)

const upsertQuery = `INSERT INTO records .* ON CONFLICT \(id\) DO UPDATE SET .* WHERE records\.owner_id = EXCLUDED\.owner_id;`

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestUpsert_KeepsIDAndEncodesPayload(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(upsertQuery).
		WithArgs("d1", "space-1", "diary", `{"id":"d1","title":"海边"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ids, err := repo.Upsert(context.Background(), "space-1", "diary", []journal.Record{{"id": "d1", "title": "海边"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"d1"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_AssignsMissingID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(upsertQuery).
		WithArgs(sqlmock.AnyArg(), "space-1", "ledger", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	in := journal.Record{"amount": 12.5}
	ids, err := repo.Upsert(context.Background(), "space-1", "ledger", []journal.Record{in})
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Len(t, ids[0], 36)
	assert.NotContains(t, in, "id")
}

func TestUpsert_NumericIDKeptInPayload(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(upsertQuery).
		WithArgs("3", "space-1", "diary", `{"content":"hi","id":3}`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ids, err := repo.Upsert(context.Background(), "space-1", "diary", []journal.Record{{"id": 3.0, "content": "hi"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_OtherOwnerConflict(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(upsertQuery).
		WithArgs("d1", "space-2", "diary", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Upsert(context.Background(), "space-2", "diary", []journal.Record{{"id": "d1"}})
	assert.ErrorIs(t, err, common.ErrorConflict)
}

func TestUpsert_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(upsertQuery).WillReturnError(errors.New("boom"))

	_, err := repo.Upsert(context.Background(), "space-1", "diary", []journal.Record{{"id": "d1"}})
	assert.ErrorContains(t, err, "db error")
}

func TestUpsert_UnencodableRecord(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	_, err := repo.Upsert(context.Background(), "space-1", "diary", []journal.Record{{"id": "d1", "bad": make(chan int)}})
	assert.ErrorIs(t, err, common.ErrSerializationFailure)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetch_DecodesInOrder(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"payload"}).
		AddRow([]byte(`{"id":"a","title":"first"}`)).
		AddRow([]byte(`{"id":"b","title":"second"}`))
	mock.ExpectQuery(`SELECT payload FROM records WHERE owner_id=\$1 AND kind=\$2 ORDER BY seq`).
		WithArgs("space-1", "diary").
		WillReturnRows(rows)

	got, err := repo.Fetch(context.Background(), "space-1", journal.KindDiary)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0]["title"])
	assert.Equal(t, "second", got[1]["title"])
}

func TestFetch_Errors(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT payload FROM records`).WillReturnError(errors.New("boom"))
	_, err := repo.Fetch(context.Background(), "space-1", journal.KindDiary)
	assert.ErrorContains(t, err, "failed to select records")

	mock.ExpectQuery(`SELECT payload FROM records`).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow([]byte(`not json`)))
	_, err = repo.Fetch(context.Background(), "space-1", journal.KindDiary)
	assert.ErrorIs(t, err, common.ErrSerializationFailure)

	mock.ExpectQuery(`SELECT payload FROM records`).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).
			AddRow([]byte(`{}`)).
			RowError(0, errors.New("row boom")))
	_, err = repo.Fetch(context.Background(), "space-1", journal.KindDiary)
	assert.ErrorContains(t, err, "row boom")
}

func TestKinds(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT DISTINCT kind FROM records WHERE owner_id=\$1 ORDER BY kind`).
		WithArgs("space-1").
		WillReturnRows(sqlmock.NewRows([]string{"kind"}).AddRow("diary").AddRow("poll"))

	got, err := repo.Kinds(context.Background(), "space-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"diary", "poll"}, got)

	mock.ExpectQuery(`SELECT DISTINCT kind`).WillReturnError(errors.New("boom"))
	_, err = repo.Kinds(context.Background(), "space-1")
	assert.ErrorContains(t, err, "failed to list kinds")
}
