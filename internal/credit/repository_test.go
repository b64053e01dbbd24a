package credit

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() {
		sqlxDB.Close()
	}

	return repo, mock, closer
}

func creditRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "parent_id", "amount_cents", "remaining_cents", "source",
		"source_session_id", "description", "created_at",
	}).AddRow(1, 7, int64(12000), int64(12000), SourceCancellation, 42, "Credit for cancelled session #42", now)
}

func TestCreateCredit(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	sessionID := 42
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO credits")).
		WithArgs(7, int64(12000), SourceCancellation, sessionID, "Credit for cancelled session #42").
		WillReturnRows(creditRows(time.Now()))

	c, err := repo.Create(context.Background(), 7, 12000, SourceCancellation, &sessionID, "Credit for cancelled session #42")
	require.NoError(t, err)
	require.Equal(t, 1, c.ID)
	// A fresh credit is fully unspent.
	require.Equal(t, c.AmountCents, c.RemainingCents)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBalance(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(remaining_cents), 0)")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(15000)))

	balance, err := repo.Balance(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, int64(15000), balance)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByParent(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM credits")).
		WithArgs(7).
		WillReturnRows(creditRows(time.Now()))

	credits, err := repo.ListByParent(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, credits, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}
