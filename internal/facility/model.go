package facility

import "time"

type Facility struct {
	ID        int       `db:"id" json:"id"`
	OrgID     int       `db:"org_id" json:"org_id"`
	Name      string    `db:"name" json:"name"`
	Location  string    `db:"location" json:"location"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CreateFacilityRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location" binding:"required"`
}
