package joinrequest

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDeclined = "declined"
)

type JoinRequest struct {
	ID             int        `db:"id" json:"id"`
	SessionID      int        `db:"session_id" json:"session_id"`
	ParentID       int        `db:"parent_id" json:"parent_id"`
	YouthAthleteID int        `db:"youth_athlete_id" json:"youth_athlete_id"`
	Status         string     `db:"status" json:"status"`
	Message        *string    `db:"message" json:"message,omitempty"`
	RespondedBy    *int       `db:"responded_by" json:"responded_by,omitempty"`
	RespondedAt    *time.Time `db:"responded_at" json:"responded_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

type SubmitRequest struct {
	YouthAthleteID int     `json:"youth_athlete_id" binding:"required"`
	Message        *string `json:"message"`
}
