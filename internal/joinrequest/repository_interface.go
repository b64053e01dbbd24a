package joinrequest

import "context"

// Repository persists join requests for open partner sessions.
//
// Approve runs as a single transaction: it locks the session row, re-checks
// that the session is still active with a free seat, inserts the participant,
// bumps the seat counter and flips the request out of pending. Concurrent
// approvals for the last seat therefore resolve to exactly one winner; the
// loser gets session.ErrSessionFull.
type Repository interface {
	Submit(ctx context.Context, req *JoinRequest) (*JoinRequest, error)
	GetByID(ctx context.Context, id int) (*JoinRequest, error)
	ListBySession(ctx context.Context, sessionID int) ([]JoinRequest, error)
	ListByParent(ctx context.Context, parentID int) ([]JoinRequest, error)
	Approve(ctx context.Context, id, responderID int, amountCents int64) error
	Decline(ctx context.Context, id, responderID int) error
}
