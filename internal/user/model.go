package user

import "time"

type User struct {
	ID                int       `db:"id" json:"id"`
	OrgID             int       `db:"org_id" json:"org_id"`
	Name              string    `db:"name" json:"name"`
	Email             string    `db:"email" json:"email"`
	PasswordHash      string    `db:"password_hash" json:"-"`
	Role              string    `db:"role" json:"role"`
	DefaultFacilityID *int      `db:"default_facility_id" json:"default_facility_id,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// YouthAthlete is a child of a parent account. Youth athletes never log in;
// they exist so sessions can name who is actually training.
type YouthAthlete struct {
	ID        int       `db:"id" json:"id"`
	ParentID  int       `db:"parent_id" json:"parent_id"`
	Name      string    `db:"name" json:"name"`
	BirthYear int       `db:"birth_year" json:"birth_year"`
	Sport     string    `db:"sport" json:"sport"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	OrgID    int    `json:"org_id" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

type AddYouthAthleteRequest struct {
	Name      string `json:"name" binding:"required,min=2,max=100"`
	BirthYear int    `json:"birth_year" binding:"required,gte=1990"`
	Sport     string `json:"sport" binding:"required"`
}
