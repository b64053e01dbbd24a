package credit

import (
	"testing"
	"time"

	"github.com/gyaan-ai/levelup-sub000/internal/auth"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	ownerID := 7

	parent := auth.Actor{ID: ownerID, OrgID: 1, Role: auth.RoleParent}
	otherParent := auth.Actor{ID: 99, OrgID: 1, Role: auth.RoleParent}
	coach := auth.Actor{ID: 20, OrgID: 1, Role: auth.RoleAthlete}
	admin := auth.Actor{ID: 30, OrgID: 1, Role: auth.RoleAdmin}

	tests := []struct {
		name        string
		status      string
		scheduledAt time.Time
		actor       auth.Actor
		wantIssue   bool
		wantSource  string
	}{
		{
			name:        "parent cancels scheduled session with 48h notice",
			status:      "scheduled",
			scheduledAt: now.Add(48 * time.Hour),
			actor:       parent,
			wantIssue:   true,
			wantSource:  SourceCancellation,
		},
		{
			name:        "parent cancels scheduled session with exactly 24h notice",
			status:      "scheduled",
			scheduledAt: now.Add(24 * time.Hour),
			actor:       parent,
			wantIssue:   true,
			wantSource:  SourceCancellation,
		},
		{
			name:        "parent cancels scheduled session with 2h notice",
			status:      "scheduled",
			scheduledAt: now.Add(2 * time.Hour),
			actor:       parent,
			wantIssue:   false,
		},
		{
			name:        "parent cancels unpaid session",
			status:      "pending_payment",
			scheduledAt: now.Add(48 * time.Hour),
			actor:       parent,
			wantIssue:   false,
		},
		{
			name:        "coach cancels with short notice",
			status:      "scheduled",
			scheduledAt: now.Add(1 * time.Hour),
			actor:       coach,
			wantIssue:   true,
			wantSource:  SourceCoachCancellation,
		},
		{
			name:        "coach cancels unpaid session",
			status:      "pending_payment",
			scheduledAt: now.Add(1 * time.Hour),
			actor:       coach,
			wantIssue:   true,
			wantSource:  SourceCoachCancellation,
		},
		{
			name:        "admin cancels with short notice",
			status:      "scheduled",
			scheduledAt: now.Add(1 * time.Hour),
			actor:       admin,
			wantIssue:   true,
			wantSource:  SourceAdminGrant,
		},
		{
			name:        "non-owning parent gets nothing",
			status:      "scheduled",
			scheduledAt: now.Add(48 * time.Hour),
			actor:       otherParent,
			wantIssue:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.status, tt.scheduledAt, 12000, tt.actor, ownerID, now)

			assert.Equal(t, tt.wantIssue, d.Issue)
			if tt.wantIssue {
				assert.Equal(t, int64(12000), d.AmountCents)
				assert.Equal(t, tt.wantSource, d.Source)
			} else {
				assert.Zero(t, d.AmountCents)
			}
			assert.NotEmpty(t, d.Reason)
		})
	}
}

func TestDecideAlwaysFullAmount(t *testing.T) {
	now := time.Now()
	coach := auth.Actor{ID: 20, OrgID: 1, Role: auth.RoleAthlete}

	d := Decide("scheduled", now.Add(time.Minute), 9999, coach, 1, now)
	assert.True(t, d.Issue)
	assert.Equal(t, int64(9999), d.AmountCents)
}
