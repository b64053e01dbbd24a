package joinrequest

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gyaan-ai/levelup-sub000/internal/session"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrNotFound         = errors.New("join request not found")
	ErrAlreadyResolved  = errors.New("join request has already been resolved")
	ErrDuplicateRequest = errors.New("a pending request for this athlete already exists")
)

const joinRequestColumns = `
	id, session_id, parent_id, youth_athlete_id, status, message,
	responded_by, responded_at, created_at
`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Submit(ctx context.Context, req *JoinRequest) (*JoinRequest, error) {
	var created JoinRequest
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO join_requests (session_id, parent_id, youth_athlete_id, status, message)
		VALUES ($1, $2, $3, 'pending', $4)
		RETURNING`+joinRequestColumns,
		req.SessionID, req.ParentID, req.YouthAthleteID, req.Message,
	).StructScan(&created)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateRequest
		}
		return nil, err
	}
	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*JoinRequest, error) {
	var req JoinRequest
	err := r.db.GetContext(ctx, &req, `SELECT`+joinRequestColumns+`FROM join_requests WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *repository) ListBySession(ctx context.Context, sessionID int) ([]JoinRequest, error) {
	var requests []JoinRequest
	err := r.db.SelectContext(ctx, &requests, `
		SELECT`+joinRequestColumns+`
		FROM join_requests
		WHERE session_id = $1
		ORDER BY created_at
	`, sessionID)
	return requests, err
}

func (r *repository) ListByParent(ctx context.Context, parentID int) ([]JoinRequest, error) {
	var requests []JoinRequest
	err := r.db.SelectContext(ctx, &requests, `
		SELECT`+joinRequestColumns+`
		FROM join_requests
		WHERE parent_id = $1
		ORDER BY created_at DESC
	`, parentID)
	return requests, err
}

func (r *repository) Approve(ctx context.Context, id, responderID int, amountCents int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var req JoinRequest
	err = tx.QueryRowxContext(ctx, `
		SELECT`+joinRequestColumns+`
		FROM join_requests
		WHERE id = $1
		FOR UPDATE
	`, id).StructScan(&req)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if req.Status != StatusPending {
		return ErrAlreadyResolved
	}

	// The session lock serializes concurrent approvals; the capacity check
	// below decides the winner for the last seat.
	var status string
	var maxParticipants, currentParticipants int
	err = tx.QueryRowxContext(ctx, `
		SELECT status, max_participants, current_participants
		FROM sessions
		WHERE id = $1
		FOR UPDATE
	`, req.SessionID).Scan(&status, &maxParticipants, &currentParticipants)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session.ErrNotFound
		}
		return err
	}

	if !session.IsActive(status) {
		return session.ErrSessionNotOpen
	}
	if currentParticipants >= maxParticipants {
		return session.ErrSessionFull
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO participants (session_id, youth_athlete_id, parent_id, amount_cents, paid)
		VALUES ($1, $2, $3, $4, FALSE)
	`, req.SessionID, req.YouthAthleteID, req.ParentID, amountCents)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE sessions
		SET current_participants = current_participants + 1, updated_at = NOW()
		WHERE id = $1
	`, req.SessionID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE join_requests
		SET status = 'approved', responded_by = $2, responded_at = NOW()
		WHERE id = $1
	`, id, responderID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) Decline(ctx context.Context, id, responderID int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE join_requests
		SET status = 'declined', responded_by = $2, responded_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`, id, responderID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrAlreadyResolved
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
