package postgres

import (
	"context"
	"database/sql"
	"time"

	"docsportal/internal/database"
	"docsportal/internal/model"
	"docsportal/internal/repository"
)

const userColumns = `id, username, email, password_hash, first_name, last_name,
		department, job_title, phone_number, role, is_active, email_confirmed,
		created_at, updated_at, last_login_at`

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db database.DBTX
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db database.DBTX) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var (
		u                      model.User
		dept, job, phone, role sql.NullString
		lastLogin              sql.NullTime
	)
	if err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&dept,
		&job,
		&phone,
		&role,
		&u.IsActive,
		&u.EmailConfirmed,
		&u.CreatedAt,
		&u.UpdatedAt,
		&lastLogin,
	); err != nil {
		return nil, mapError(err)
	}
	u.Department = dept.String
	u.JobTitle = job.String
	u.PhoneNumber = phone.String
	parsed, err := model.ParseRole(role.String)
	if err != nil {
		return nil, err
	}
	u.Role = parsed
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLoginAt = &t
	}
	return &u, nil
}

// Create inserts a new user row and returns the stored record.
func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		INSERT INTO users (id, username, email, password_hash, first_name, last_name,
			department, job_title, phone_number, role, is_active, email_confirmed,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + userColumns
	row := r.db.QueryRowContext(ctx, q,
		u.ID,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		nullString(u.Department),
		nullString(u.JobTitle),
		nullString(u.PhoneNumber),
		string(u.Role),
		u.IsActive,
		u.EmailConfirmed,
		u.CreatedAt,
		u.UpdatedAt,
	)
	return scanUser(row)
}

// FindActiveByID fetches an enabled user by id.
func (r *UserPostgres) FindActiveByID(ctx context.Context, id string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND is_active`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

// FindActiveByEmail fetches an enabled user by email.
func (r *UserPostgres) FindActiveByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND is_active`
	return scanUser(r.db.QueryRowContext(ctx, q, email))
}

func (r *UserPostgres) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *UserPostgres) UpdateProfile(ctx context.Context, u *model.User) error {
	const q = `
		UPDATE users
		SET first_name = $2, last_name = $3, department = $4, job_title = $5, updated_at = $6
		WHERE id = $1 AND is_active
	`
	res, err := r.db.ExecContext(ctx, q,
		u.ID,
		u.FirstName,
		u.LastName,
		nullString(u.Department),
		nullString(u.JobTitle),
		u.UpdatedAt,
	)
	return affectedOne(res, err)
}

func (r *UserPostgres) UpdatePassword(ctx context.Context, id, hash string, at time.Time) error {
	const q = `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1 AND is_active`
	res, err := r.db.ExecContext(ctx, q, id, hash, at)
	return affectedOne(res, err)
}

func (r *UserPostgres) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	const q = `UPDATE users SET last_login_at = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, at)
	return affectedOne(res, err)
}

// affectedOne turns a zero-row write into ErrNotFound.
func affectedOne(res sql.Result, err error) error {
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
