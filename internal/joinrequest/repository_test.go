package joinrequest

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/gyaan-ai/levelup-sub000/internal/session"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
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

func requestRows(status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "session_id", "parent_id", "youth_athlete_id", "status", "message",
		"responded_by", "responded_at", "created_at",
	}).AddRow(1, 11, 8, 9, status, nil, nil, nil, time.Now())
}

func TestSubmitDuplicate(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO join_requests")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "join_requests_pending_idx"})

	_, err := repo.Submit(context.Background(), &JoinRequest{SessionID: 11, ParentID: 8, YouthAthleteID: 9})
	require.ErrorIs(t, err, ErrDuplicateRequest)
}

func TestApproveSeatsParticipant(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM join_requests")).
		WithArgs(1).
		WillReturnRows(requestRows(StatusPending))
	mock.ExpectQuery(regexp.QuoteMeta("FROM sessions")).
		WithArgs(11).
		WillReturnRows(sqlmock.NewRows([]string{"status", "max_participants", "current_participants"}).
			AddRow("scheduled", 2, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO participants")).
		WithArgs(11, 9, 8, int64(6000)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("current_participants + 1")).
		WithArgs(11).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("SET status = 'approved'")).
		WithArgs(1, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Approve(context.Background(), 1, 7, 6000)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveLosesSeatRace(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM join_requests")).
		WithArgs(1).
		WillReturnRows(requestRows(StatusPending))
	mock.ExpectQuery(regexp.QuoteMeta("FROM sessions")).
		WithArgs(11).
		WillReturnRows(sqlmock.NewRows([]string{"status", "max_participants", "current_participants"}).
			AddRow("scheduled", 2, 2))
	mock.ExpectRollback()

	err := repo.Approve(context.Background(), 1, 7, 6000)
	require.ErrorIs(t, err, session.ErrSessionFull)
}

func TestApproveResolvedRequest(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM join_requests")).
		WithArgs(1).
		WillReturnRows(requestRows(StatusDeclined))
	mock.ExpectRollback()

	err := repo.Approve(context.Background(), 1, 7, 6000)
	require.ErrorIs(t, err, ErrAlreadyResolved)
}

func TestApproveCancelledSession(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM join_requests")).
		WithArgs(1).
		WillReturnRows(requestRows(StatusPending))
	mock.ExpectQuery(regexp.QuoteMeta("FROM sessions")).
		WithArgs(11).
		WillReturnRows(sqlmock.NewRows([]string{"status", "max_participants", "current_participants"}).
			AddRow("cancelled", 2, 1))
	mock.ExpectRollback()

	err := repo.Approve(context.Background(), 1, 7, 6000)
	require.ErrorIs(t, err, session.ErrSessionNotOpen)
}

func TestDeclineGuarded(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("SET status = 'declined'")).
		WithArgs(1, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Decline(context.Background(), 1, 7))

	// Second decline affects zero rows; the request still exists.
	mock.ExpectExec(regexp.QuoteMeta("SET status = 'declined'")).
		WithArgs(1, 7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM join_requests")).
		WithArgs(1).
		WillReturnRows(requestRows(StatusDeclined))

	require.ErrorIs(t, repo.Decline(context.Background(), 1, 7), ErrAlreadyResolved)
}
