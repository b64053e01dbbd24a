package session

import "time"

// Scheduling modes. Private and sibling sessions are filled at booking
// time; partner modes leave a second seat for another family.
const (
	ModePrivate       = "private"
	ModeSibling       = "sibling"
	ModePartnerInvite = "partner_invite"
	ModePartnerOpen   = "partner_open"
)

// Session statuses. Cancelled, completed and no_show are terminal.
const (
	StatusPendingPayment = "pending_payment"
	StatusScheduled      = "scheduled"
	StatusCompleted      = "completed"
	StatusNoShow         = "no_show"
	StatusCancelled      = "cancelled"
)

// SessionDurationMinutes is fixed for every booking.
const SessionDurationMinutes = 60

func IsTerminal(status string) bool {
	return status == StatusCancelled || status == StatusCompleted || status == StatusNoShow
}

// IsActive reports whether the session still admits participant or
// scheduling mutations.
func IsActive(status string) bool {
	return status == StatusPendingPayment || status == StatusScheduled
}

func SeatsForMode(mode string) int {
	if mode == ModePrivate {
		return 1
	}
	return 2
}

func ValidMode(mode string) bool {
	switch mode {
	case ModePrivate, ModeSibling, ModePartnerInvite, ModePartnerOpen:
		return true
	}
	return false
}

type Session struct {
	ID                  int        `db:"id" json:"id"`
	OrgID               int        `db:"org_id" json:"org_id"`
	ParentID            int        `db:"parent_id" json:"parent_id"`
	CoachID             int        `db:"coach_id" json:"coach_id"`
	FacilityID          int        `db:"facility_id" json:"facility_id"`
	Mode                string     `db:"mode" json:"mode"`
	Status              string     `db:"status" json:"status"`
	ScheduledAt         time.Time  `db:"scheduled_at" json:"scheduled_at"`
	DurationMinutes     int        `db:"duration_minutes" json:"duration_minutes"`
	MaxParticipants     int        `db:"max_participants" json:"max_participants"`
	CurrentParticipants int        `db:"current_participants" json:"current_participants"`
	TotalCents          int64      `db:"total_cents" json:"total_cents"`
	AthletePayoutCents  int64      `db:"athlete_payout_cents" json:"athlete_payout_cents"`
	OrgFeeCents         int64      `db:"org_fee_cents" json:"org_fee_cents"`
	StripeFeeCents      int64      `db:"stripe_fee_cents" json:"stripe_fee_cents"`
	PricePerSeatCents   int64      `db:"price_per_seat_cents" json:"price_per_seat_cents"`
	PartnerInviteCode   *string    `db:"partner_invite_code" json:"partner_invite_code,omitempty"`
	CancelledAt         *time.Time `db:"cancelled_at" json:"cancelled_at,omitempty"`
	CancelledBy         *int       `db:"cancelled_by" json:"cancelled_by,omitempty"`
	CancellationReason  *string    `db:"cancellation_reason" json:"cancellation_reason,omitempty"`
	CreditID            *int       `db:"credit_id" json:"credit_id,omitempty"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// Participant is one youth athlete's seat in a session. Participants are
// only ever removed by cancelling the whole session.
type Participant struct {
	ID             int       `db:"id" json:"id"`
	SessionID      int       `db:"session_id" json:"session_id"`
	YouthAthleteID int       `db:"youth_athlete_id" json:"youth_athlete_id"`
	ParentID       int       `db:"parent_id" json:"parent_id"`
	AmountCents    int64     `db:"amount_cents" json:"amount_cents"`
	Paid           bool      `db:"paid" json:"paid"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type Pricing struct {
	TotalCents         int64 `json:"total_cents" binding:"required,gt=0"`
	AthletePayoutCents int64 `json:"athlete_payout_cents" binding:"gte=0"`
	OrgFeeCents        int64 `json:"org_fee_cents" binding:"gte=0"`
	StripeFeeCents     int64 `json:"stripe_fee_cents" binding:"gte=0"`
}

type CreateSessionRequest struct {
	CoachID         int       `json:"coach_id" binding:"required"`
	FacilityID      *int      `json:"facility_id,omitempty"`
	Mode            string    `json:"mode" binding:"required"`
	ScheduledAt     time.Time `json:"scheduled_at" binding:"required"`
	YouthAthleteIDs []int     `json:"youth_athlete_ids" binding:"required,min=1"`
	Pricing         Pricing   `json:"pricing" binding:"required"`
}

type CreateSessionResponse struct {
	SessionID   int     `json:"session_id"`
	Mode        string  `json:"mode"`
	InviteCode  *string `json:"invite_code,omitempty"`
	CheckoutURL *string `json:"checkout_url,omitempty"`
}

type CancelSessionRequest struct {
	Reason string `json:"reason"`
}

type CancelSessionResponse struct {
	CreditIssued      bool   `json:"credit_issued"`
	CreditAmountCents int64  `json:"credit_amount_cents"`
	Message           string `json:"message"`
}

type RescheduleRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
}

type JoinByCodeRequest struct {
	YouthAthleteID int `json:"youth_athlete_id" binding:"required"`
}
