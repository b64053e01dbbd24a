package session

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrNotFound          = errors.New("session not found")
	ErrAlreadyCancelled  = errors.New("session already cancelled")
	ErrNotCancellable    = errors.New("session is not cancellable in its current state")
	ErrNotReschedulable  = errors.New("session is not reschedulable in its current state")
	ErrNotScheduled      = errors.New("session is not scheduled")
	ErrNotPendingPayment = errors.New("session is not awaiting payment")
	ErrSessionFull       = errors.New("session is full")
	ErrSessionNotOpen    = errors.New("session is not open for joining")
	ErrCodeTaken         = errors.New("invite code already in use")
)

const sessionColumns = `
	id, org_id, parent_id, coach_id, facility_id, mode, status,
	scheduled_at, duration_minutes, max_participants, current_participants,
	total_cents, athlete_payout_cents, org_fee_cents, stripe_fee_cents,
	price_per_seat_cents, partner_invite_code,
	cancelled_at, cancelled_by, cancellation_reason, credit_id,
	created_at, updated_at
`

const participantColumns = `
	id, session_id, youth_athlete_id, parent_id, amount_cents, paid, created_at
`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateWithParticipants(ctx context.Context, s *Session, participants []Participant) (*Session, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var created Session
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO sessions (
			org_id, parent_id, coach_id, facility_id, mode, status,
			scheduled_at, duration_minutes, max_participants, current_participants,
			total_cents, athlete_payout_cents, org_fee_cents, stripe_fee_cents,
			price_per_seat_cents, partner_invite_code
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING`+sessionColumns,
		s.OrgID, s.ParentID, s.CoachID, s.FacilityID, s.Mode, s.Status,
		s.ScheduledAt, s.DurationMinutes, s.MaxParticipants, len(participants),
		s.TotalCents, s.AthletePayoutCents, s.OrgFeeCents, s.StripeFeeCents,
		s.PricePerSeatCents, s.PartnerInviteCode,
	).StructScan(&created)
	if err != nil {
		if isUniqueViolation(err, "sessions_org_invite_code_idx") {
			return nil, ErrCodeTaken
		}
		return nil, err
	}

	for _, p := range participants {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO participants (session_id, youth_athlete_id, parent_id, amount_cents, paid)
			VALUES ($1, $2, $3, $4, $5)
		`, created.ID, p.YouthAthleteID, p.ParentID, p.AmountCents, p.Paid)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Session, error) {
	var s Session
	err := r.db.GetContext(ctx, &s, `SELECT`+sessionColumns+`FROM sessions WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *repository) GetByInviteCode(ctx context.Context, orgID int, code string) (*Session, error) {
	var s Session
	err := r.db.GetContext(ctx, &s, `
		SELECT`+sessionColumns+`
		FROM sessions
		WHERE org_id = $1 AND partner_invite_code = $2
	`, orgID, NormalizeInviteCode(code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *repository) ListByParent(ctx context.Context, parentID int) ([]Session, error) {
	var sessions []Session
	err := r.db.SelectContext(ctx, &sessions, `
		SELECT`+sessionColumns+`
		FROM sessions
		WHERE parent_id = $1
		   OR id IN (SELECT session_id FROM participants WHERE parent_id = $1)
		ORDER BY scheduled_at DESC
	`, parentID)
	return sessions, err
}

func (r *repository) ListByCoach(ctx context.Context, coachID int) ([]Session, error) {
	var sessions []Session
	err := r.db.SelectContext(ctx, &sessions, `
		SELECT`+sessionColumns+`
		FROM sessions
		WHERE coach_id = $1
		ORDER BY scheduled_at DESC
	`, coachID)
	return sessions, err
}

func (r *repository) ListOpenPartner(ctx context.Context, orgID int) ([]Session, error) {
	var sessions []Session
	err := r.db.SelectContext(ctx, &sessions, `
		SELECT`+sessionColumns+`
		FROM sessions
		WHERE org_id = $1
		  AND mode = 'partner_open'
		  AND status IN ('pending_payment', 'scheduled')
		  AND current_participants < max_participants
		  AND scheduled_at > NOW()
		ORDER BY scheduled_at
	`, orgID)
	return sessions, err
}

func (r *repository) Cancel(ctx context.Context, id, actorID int, reason string) (string, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRowxContext(ctx,
		`SELECT status FROM sessions WHERE id = $1 FOR UPDATE`, id,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}

	if status == StatusCancelled {
		return "", ErrAlreadyCancelled
	}
	if !IsActive(status) {
		return "", ErrNotCancellable
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE sessions
		SET status = 'cancelled',
		    cancelled_at = NOW(),
		    cancelled_by = $2,
		    cancellation_reason = $3,
		    updated_at = NOW()
		WHERE id = $1
	`, id, actorID, reason)
	if err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}

	return status, nil
}

func (r *repository) LinkCredit(ctx context.Context, sessionID, creditID int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET credit_id = $2, updated_at = NOW() WHERE id = $1
	`, sessionID, creditID)
	return err
}

func (r *repository) UpdateSchedule(ctx context.Context, id int, scheduledAt time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE sessions
		SET scheduled_at = $2, updated_at = NOW()
		WHERE id = $1 AND status IN ('pending_payment', 'scheduled')
	`, id, scheduledAt)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotReschedulable
	}

	return nil
}

func (r *repository) MarkCompleted(ctx context.Context, id int) error {
	return r.setFromScheduled(ctx, id, StatusCompleted)
}

func (r *repository) MarkNoShow(ctx context.Context, id int) error {
	return r.setFromScheduled(ctx, id, StatusNoShow)
}

func (r *repository) setFromScheduled(ctx context.Context, id int, newStatus string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE sessions
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'scheduled'
	`, id, newStatus)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotScheduled
	}

	return nil
}

// ConfirmPayment serializes checkout completion against cancellation: the
// guarded update only succeeds while the session is still awaiting payment,
// so a confirmation landing after a cancel is rejected instead of reviving
// the session.
func (r *repository) ConfirmPayment(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE sessions
		SET status = 'scheduled', updated_at = NOW()
		WHERE id = $1 AND status = 'pending_payment'
	`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotPendingPayment
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE participants SET paid = TRUE WHERE session_id = $1
	`, id)
	return err
}

func (r *repository) AddParticipant(ctx context.Context, sessionID int, p Participant) (*Participant, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var s Session
	err = tx.QueryRowxContext(ctx, `
		SELECT status, max_participants, current_participants
		FROM sessions
		WHERE id = $1
		FOR UPDATE
	`, sessionID).Scan(&s.Status, &s.MaxParticipants, &s.CurrentParticipants)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !IsActive(s.Status) {
		return nil, ErrSessionNotOpen
	}
	if s.CurrentParticipants >= s.MaxParticipants {
		return nil, ErrSessionFull
	}

	var created Participant
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO participants (session_id, youth_athlete_id, parent_id, amount_cents, paid)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING`+participantColumns,
		sessionID, p.YouthAthleteID, p.ParentID, p.AmountCents, p.Paid,
	).StructScan(&created)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE sessions
		SET current_participants = current_participants + 1, updated_at = NOW()
		WHERE id = $1
	`, sessionID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetParticipants(ctx context.Context, sessionID int) ([]Participant, error) {
	var participants []Participant
	err := r.db.SelectContext(ctx, &participants, `
		SELECT`+participantColumns+`
		FROM participants
		WHERE session_id = $1
		ORDER BY created_at
	`, sessionID)
	return participants, err
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && (constraint == "" || pqErr.Constraint == constraint)
	}
	return false
}
