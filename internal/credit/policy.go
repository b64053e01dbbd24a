package credit

import (
	"fmt"
	"time"

	"github.com/gyaan-ai/levelup-sub000/internal/auth"
)

// Parents get a credit only when they cancel a paid session with at least
// this much notice.
const ParentCancellationNotice = 24 * time.Hour

// Decision is the outcome of the cancellation credit policy. Issuance is
// all-or-nothing: the amount is always the session's full price.
type Decision struct {
	Issue       bool
	AmountCents int64
	Source      string
	Reason      string
}

// Decide computes whether a cancellation grants the owning parent a credit.
// Pure function of (status, actor role/ownership, time to session); the
// caller supplies now so the policy table is testable without a clock.
//
// Host-side cancellations (coach, admin) always credit the family in full.
// A parent cancelling their own session is credited only when the session
// was already paid (scheduled) and at least 24 hours out.
func Decide(status string, scheduledAt time.Time, totalCents int64, actor auth.Actor, ownerParentID int, now time.Time) Decision {
	if actor.IsAdmin() || actor.IsCoach() {
		source := SourceCoachCancellation
		if actor.IsAdmin() {
			source = SourceAdminGrant
		}
		return Decision{
			Issue:       true,
			AmountCents: totalCents,
			Source:      source,
			Reason:      "cancelled by " + actor.Role,
		}
	}

	if actor.ID != ownerParentID {
		return Decision{Reason: "actor is not the owning parent"}
	}

	if status != "scheduled" {
		return Decision{Reason: "session was never paid"}
	}

	notice := scheduledAt.Sub(now)
	if notice < ParentCancellationNotice {
		return Decision{Reason: fmt.Sprintf("less than %v notice", ParentCancellationNotice)}
	}

	return Decision{
		Issue:       true,
		AmountCents: totalCents,
		Source:      SourceCancellation,
		Reason:      "parent cancelled with sufficient notice",
	}
}
