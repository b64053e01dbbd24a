package user

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	return repo, mock, func() { db.Close() }
}

func userColumns() []string {
	return []string{"id", "org_id", "name", "email", "password_hash", "role", "default_facility_id", "created_at"}
}

func TestCreateUser(t *testing.T) {
	repo, mock, closer := setupMock(t)
	defer closer()

	rows := sqlmock.NewRows(userColumns()).
		AddRow(1, 1, "Pat Parent", "pat@example.com", "hash", "parent", nil, time.Now())

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(1, "Pat Parent", "pat@example.com", "hash", "parent").
		WillReturnRows(rows)

	u, err := repo.Create(context.Background(), 1, "Pat Parent", "pat@example.com", "hash", "parent")

	assert.NoError(t, err)
	assert.Equal(t, 1, u.ID)
	assert.Equal(t, "parent", u.Role)
	assert.Nil(t, u.DefaultFacilityID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmail(t *testing.T) {
	repo, mock, closer := setupMock(t)
	defer closer()

	rows := sqlmock.NewRows(userColumns()).
		AddRow(1, 1, "Pat Parent", "pat@example.com", "hash", "parent", nil, time.Now())

	mock.ExpectQuery(`SELECT (.+) FROM users`).
		WithArgs("pat@example.com").
		WillReturnRows(rows)

	u, err := repo.FindByEmail(context.Background(), "pat@example.com")

	assert.NoError(t, err)
	assert.Equal(t, "pat@example.com", u.Email)
}

func TestFindByEmailNotFound(t *testing.T) {
	repo, mock, closer := setupMock(t)
	defer closer()

	mock.ExpectQuery(`SELECT (.+) FROM users`).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	u, err := repo.FindByEmail(context.Background(), "nobody@example.com")

	assert.Error(t, err)
	assert.Nil(t, u)
}

func TestEmailExists(t *testing.T) {
	repo, mock, closer := setupMock(t)
	defer closer()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("pat@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.EmailExists(context.Background(), "pat@example.com")

	assert.NoError(t, err)
	assert.True(t, exists)
}

func TestAddYouthAthlete(t *testing.T) {
	repo, mock, closer := setupMock(t)
	defer closer()

	rows := sqlmock.NewRows([]string{"id", "parent_id", "name", "birth_year", "sport", "created_at"}).
		AddRow(5, 1, "Sam", 2014, "soccer", time.Now())

	mock.ExpectQuery(`INSERT INTO youth_athletes`).
		WithArgs(1, "Sam", 2014, "soccer").
		WillReturnRows(rows)

	ya, err := repo.AddYouthAthlete(context.Background(), 1, "Sam", 2014, "soccer")

	assert.NoError(t, err)
	assert.Equal(t, 5, ya.ID)
	assert.Equal(t, 1, ya.ParentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListYouthAthletes(t *testing.T) {
	repo, mock, closer := setupMock(t)
	defer closer()

	rows := sqlmock.NewRows([]string{"id", "parent_id", "name", "birth_year", "sport", "created_at"}).
		AddRow(5, 1, "Sam", 2014, "soccer", time.Now()).
		AddRow(6, 1, "Alex", 2012, "basketball", time.Now())

	mock.ExpectQuery(`SELECT (.+) FROM youth_athletes`).
		WithArgs(1).
		WillReturnRows(rows)

	athletes, err := repo.ListYouthAthletes(context.Background(), 1)

	assert.NoError(t, err)
	assert.Len(t, athletes, 2)
	assert.Equal(t, "Sam", athletes[0].Name)
}
