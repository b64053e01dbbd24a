package session

import (
	"context"
	"time"
)

type Repository interface {
	// CreateWithParticipants inserts the session and its initial participant
	// rows as one transaction; a failure anywhere rolls everything back.
	// Returns ErrCodeTaken when the session's invite code collides with an
	// existing one in the same org.
	CreateWithParticipants(ctx context.Context, s *Session, participants []Participant) (*Session, error)

	GetByID(ctx context.Context, id int) (*Session, error)
	GetByInviteCode(ctx context.Context, orgID int, code string) (*Session, error)
	ListByParent(ctx context.Context, parentID int) ([]Session, error)
	ListByCoach(ctx context.Context, coachID int) ([]Session, error)
	ListOpenPartner(ctx context.Context, orgID int) ([]Session, error)

	// Cancel locks the session row, re-checks that it is still cancellable
	// and flips it to cancelled. Returns the status the session had before
	// the flip so the caller can apply the credit policy against it.
	Cancel(ctx context.Context, id, actorID int, reason string) (string, error)

	LinkCredit(ctx context.Context, sessionID, creditID int) error
	UpdateSchedule(ctx context.Context, id int, scheduledAt time.Time) error
	MarkCompleted(ctx context.Context, id int) error
	MarkNoShow(ctx context.Context, id int) error
	ConfirmPayment(ctx context.Context, id int) error

	// AddParticipant locks the session row, re-checks capacity and status,
	// inserts the participant and increments the counter in one
	// transaction. This is the only way a seat is ever filled after
	// creation.
	AddParticipant(ctx context.Context, sessionID int, p Participant) (*Participant, error)

	GetParticipants(ctx context.Context, sessionID int) ([]Participant, error)
}
