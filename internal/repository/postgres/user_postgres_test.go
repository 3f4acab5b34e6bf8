package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsportal/internal/model"
	"docsportal/internal/repository"
)

var userCols = []string{
	"id", "username", "email", "password_hash", "first_name", "last_name",
	"department", "job_title", "phone_number", "role", "is_active", "email_confirmed",
	"created_at", "updated_at", "last_login_at",
}

func TestUserPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	u := &model.User{
		ID:           "user-1",
		Username:     "alice",
		Email:        "alice@x.io",
		PasswordHash: "hash",
		FirstName:    "Alice",
		LastName:     "Smith",
		Department:   "IT",
		Role:         model.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	t.Run("success", func(t *testing.T) {
		rows := sqlmock.NewRows(userCols).AddRow(u.ID, u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName,
			"IT", nil, nil, "User", true, false, now, now, nil)

		mock.ExpectQuery("INSERT INTO users").WillReturnRows(rows)

		got, err := repo.Create(ctx, u)

		require.NoError(t, err)
		assert.Equal(t, "alice@x.io", got.Email)
		assert.Equal(t, model.RoleUser, got.Role)
		assert.Equal(t, "IT", got.Department)
		assert.Nil(t, got.LastLoginAt)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO users").WillReturnError(&pgconn.PgError{Code: "23505"})

		got, err := repo.Create(ctx, u)

		assert.ErrorIs(t, err, repository.ErrDuplicate)
		assert.Nil(t, got)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_FindActiveByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(userCols).AddRow("user-1", "alice", "alice@x.io", "hash", "Alice", "Smith",
			nil, nil, nil, "Manager", true, true, now, now, now)

		mock.ExpectQuery("SELECT (.+) FROM users WHERE email = \\$1 AND is_active").
			WithArgs("alice@x.io").
			WillReturnRows(rows)

		got, err := repo.FindActiveByEmail(ctx, "alice@x.io")

		require.NoError(t, err)
		assert.Equal(t, model.RoleManager, got.Role)
		require.NotNil(t, got.LastLoginAt)
		assert.True(t, got.LastLoginAt.Equal(now))
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE email = \\$1").
			WithArgs("bob@x.io").
			WillReturnError(sql.ErrNoRows)

		got, err := repo.FindActiveByEmail(ctx, "bob@x.io")

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, got)
	})

	t.Run("unknown role in row", func(t *testing.T) {
		rows := sqlmock.NewRows(userCols).AddRow("user-1", "alice", "alice@x.io", "hash", "Alice", "Smith",
			nil, nil, nil, "Root", true, true, now, now, nil)

		mock.ExpectQuery("SELECT (.+) FROM users WHERE email").WillReturnRows(rows)

		_, err := repo.FindActiveByEmail(ctx, "alice@x.io")
		assert.ErrorIs(t, err, model.ErrUnknownRole)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_ExistsByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("alice@x.io").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.ExistsByEmail(context.Background(), "alice@x.io")

	assert.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_Updates(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("profile", func(t *testing.T) {
		mock.ExpectExec("UPDATE users\\s+SET first_name").
			WithArgs("user-1", "Al", "Smith", sql.NullString{}, sql.NullString{String: "Dev", Valid: true}, now).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateProfile(ctx, &model.User{ID: "user-1", FirstName: "Al", LastName: "Smith", JobTitle: "Dev", UpdatedAt: now})
		assert.NoError(t, err)
	})

	t.Run("password for missing user", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET password_hash").
			WithArgs("ghost", "h", now).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdatePassword(ctx, "ghost", "h", now)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("last login", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET last_login_at").
			WithArgs("user-1", now).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.TouchLastLogin(ctx, "user-1", now))
	})

	t.Run("driver error", func(t *testing.T) {
		boom := errors.New("boom")
		mock.ExpectExec("UPDATE users SET last_login_at").WillReturnError(boom)

		assert.ErrorIs(t, repo.TouchLastLogin(ctx, "user-1", now), boom)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
