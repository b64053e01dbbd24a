package payment

import "time"

// Payment statuses. An orphaned payment is one whose confirmation arrived
// after the session had already been cancelled; it is flagged for a manual
// refund rather than reviving the session.
const (
	StatusPending  = "pending"
	StatusPaid     = "paid"
	StatusOrphaned = "orphaned"
)

type Payment struct {
	ID          int       `db:"id" json:"id"`
	SessionID   int       `db:"session_id" json:"session_id"`
	CheckoutID  string    `db:"checkout_id" json:"checkout_id"`
	AmountCents int64     `db:"amount_cents" json:"amount_cents"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type ConfirmWebhookRequest struct {
	SessionID  int    `json:"session_id" binding:"required"`
	CheckoutID string `json:"checkout_id"`
}
