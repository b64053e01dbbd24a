package credit

import "time"

// Credit sources. Coach- and admin-initiated cancellations are tracked
// separately from parent self-cancellations for reporting.
const (
	SourceCancellation      = "cancellation"
	SourceCoachCancellation = "coach_cancellation"
	SourceAdminGrant        = "admin_grant"
)

// Credit is a non-expiring redeemable balance granted to a parent.
// Immutable after creation except for RemainingCents, which future
// redemptions decrement.
type Credit struct {
	ID              int       `db:"id" json:"id"`
	ParentID        int       `db:"parent_id" json:"parent_id"`
	AmountCents     int64     `db:"amount_cents" json:"amount_cents"`
	RemainingCents  int64     `db:"remaining_cents" json:"remaining_cents"`
	Source          string    `db:"source" json:"source"`
	SourceSessionID *int      `db:"source_session_id" json:"source_session_id,omitempty"`
	Description     string    `db:"description" json:"description"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

type GrantCreditRequest struct {
	ParentID    int    `json:"parent_id" binding:"required"`
	AmountCents int64  `json:"amount_cents" binding:"required,gt=0"`
	Description string `json:"description" binding:"required"`
}

type BalanceResponse struct {
	ParentID     int   `json:"parent_id"`
	BalanceCents int64 `json:"balance_cents"`
}
