package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"docsportal/internal/auth"
	"docsportal/internal/config"
	"docsportal/internal/model"
	"docsportal/internal/repository"
)

var tracer = otel.Tracer("docsportal/internal/service")

// bcrypt ignores input past 72 bytes, so longer passwords are rejected up front.
const (
	minPasswordLen = 6
	maxPasswordLen = 72
)

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Department      string `json:"department"`
	JobTitle        string `json:"jobTitle"`
}

// Validate checks field formats and that both passwords match.
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Required, validation.Length(1, 255), is.EmailFormat),
		validation.Field(&r.Password, validation.Required, validation.Length(minPasswordLen, maxPasswordLen)),
		validation.Field(&r.ConfirmPassword, validation.Required, validation.In(r.Password).Error("passwords do not match")),
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Department, validation.Length(0, 50)),
		validation.Field(&r.JobTitle, validation.Length(0, 100)),
	)
}

// ProfileUpdate holds the user-editable profile fields.
type ProfileUpdate struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Department string `json:"department"`
	JobTitle   string `json:"jobTitle"`
}

func (p ProfileUpdate) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&p.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&p.Department, validation.Length(0, 50)),
		validation.Field(&p.JobTitle, validation.Length(0, 100)),
	)
}

// ChangePasswordRequest replaces the caller's password after verifying the current one.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (c ChangePasswordRequest) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.CurrentPassword, validation.Required),
		validation.Field(&c.NewPassword, validation.Required, validation.Length(minPasswordLen, maxPasswordLen)),
		validation.Field(&c.ConfirmPassword, validation.Required, validation.In(c.NewPassword).Error("passwords do not match")),
	)
}

// AuthResult is returned by every operation that starts or extends a session.
type AuthResult struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
	Expiration   time.Time   `json:"expiration"`
	User         *model.User `json:"user"`
}

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// AuthService defines account and session use cases.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest, userAgent string) (*AuthResult, error)
	Login(ctx context.Context, email, password, userAgent string) (*AuthResult, error)

	// Refresh rotates refreshToken; the presented token is unusable afterwards.
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)

	// Logout drops the caller's session for refreshToken. Unknown tokens are ignored.
	Logout(ctx context.Context, userID, refreshToken string) error

	Profile(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, p ProfileUpdate) (*model.User, error)
	ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error

	// SeedAdmin creates the configured administrator when no account uses its email.
	SeedAdmin(ctx context.Context, seed config.SeedConfig) error
}

type authService struct {
	store  repository.Store
	tokens *auth.Issuer
	hasher PasswordHasher
	log    *zap.Logger
	now    func() time.Time

	dummyOnce sync.Once
	dummy     string
}

// dummyHash is a hash of a random value, verified against when the email is unknown.
func (s *authService) dummyHash() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash(uuid.NewString())
		if err != nil {
			s.log.Warn("dummy_hash_failed", zap.Error(err))
			return
		}
		s.dummy = h
	})
	return s.dummy
}

// NewAuthService constructs a new AuthService.
func NewAuthService(store repository.Store, tokens *auth.Issuer, hasher PasswordHasher, log *zap.Logger) AuthService {
	return &authService{
		store:  store,
		tokens: tokens,
		hasher: hasher,
		log:    log,
		now:    time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, req RegisterRequest, userAgent string) (*AuthResult, error) {
	ctx, span := tracer.Start(ctx, "AuthService.Register")
	defer span.End()

	req.Email = normalizeEmail(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	exists, err := s.store.Users().ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	u := &model.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Department:   strings.TrimSpace(req.Department),
		JobTitle:     strings.TrimSpace(req.JobTitle),
		Role:         model.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var res *AuthResult
	err = s.store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		stored, err := tx.Users().Create(ctx, u)
		if err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrUserExists
			}
			return err
		}
		res, err = s.startSession(ctx, tx, stored, userAgent)
		return err
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("user.id", u.ID))
	s.log.Info("user_registered", zap.String("user_id", u.ID))
	return res, nil
}

func (s *authService) Login(ctx context.Context, email, password, userAgent string) (*AuthResult, error) {
	ctx, span := tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.store.Users().FindActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Spend the same bcrypt work as a wrong password.
			s.hasher.Verify(password, s.dummyHash())
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	var res *AuthResult
	err = s.store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		now := s.now().UTC()
		if err := tx.Users().TouchLastLogin(ctx, u.ID, now); err != nil {
			return err
		}
		u.LastLoginAt = &now
		res, err = s.startSession(ctx, tx, u, userAgent)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("user_login", zap.String("user_id", u.ID))
	return res, nil
}

// startSession stores a new refresh session for u and signs an access token.
func (s *authService) startSession(ctx context.Context, store repository.Store, u *model.User, userAgent string) (*AuthResult, error) {
	refresh, err := auth.NewRefreshToken()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	sess := &model.RefreshSession{
		ID:            uuid.New().String(),
		UserID:        u.ID,
		TokenHash:     auth.HashRefreshToken(refresh),
		UserAgent:     truncate(userAgent, 255),
		ExpiresAt:     now.Add(s.tokens.RefreshTTL()),
		CreatedAt:     now,
		LastRotatedAt: now,
	}
	if err := store.Sessions().Create(ctx, sess); err != nil {
		return nil, err
	}

	return s.pair(u, refresh)
}

func (s *authService) pair(u *model.User, refresh string) (*AuthResult, error) {
	token, exp, err := s.tokens.IssueAccessToken(u)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, RefreshToken: refresh, Expiration: exp, User: u}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	ctx, span := tracer.Start(ctx, "AuthService.Refresh")
	defer span.End()

	if strings.TrimSpace(refreshToken) == "" {
		return nil, fmt.Errorf("%w: refresh token is required", ErrValidation)
	}

	next, err := auth.NewRefreshToken()
	if err != nil {
		return nil, err
	}

	var res *AuthResult
	err = s.store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		now := s.now().UTC()
		userID, err := tx.Sessions().Rotate(ctx,
			auth.HashRefreshToken(refreshToken),
			auth.HashRefreshToken(next),
			now.Add(s.tokens.RefreshTTL()),
			now,
		)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrInvalidToken
			}
			return err
		}

		u, err := tx.Users().FindActiveByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrInvalidToken
			}
			return err
		}
		res, err = s.pair(u, next)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *authService) Logout(ctx context.Context, userID, refreshToken string) error {
	ctx, span := tracer.Start(ctx, "AuthService.Logout")
	defer span.End()

	if refreshToken == "" {
		return nil
	}
	if err := s.store.Sessions().Delete(ctx, userID, auth.HashRefreshToken(refreshToken)); err != nil {
		return err
	}
	s.log.Info("user_logout", zap.String("user_id", userID))
	return nil
}

func (s *authService) Profile(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.store.Users().FindActiveByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID string, p ProfileUpdate) (*model.User, error) {
	ctx, span := tracer.Start(ctx, "AuthService.UpdateProfile")
	defer span.End()

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var out *model.User
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		u, err := tx.Users().FindActiveByID(ctx, userID)
		if err != nil {
			return err
		}
		u.FirstName = strings.TrimSpace(p.FirstName)
		u.LastName = strings.TrimSpace(p.LastName)
		u.Department = strings.TrimSpace(p.Department)
		u.JobTitle = strings.TrimSpace(p.JobTitle)
		u.UpdatedAt = s.now().UTC()
		if err := tx.Users().UpdateProfile(ctx, u); err != nil {
			return err
		}
		out = u
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return out, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error {
	ctx, span := tracer.Start(ctx, "AuthService.ChangePassword")
	defer span.End()

	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	u, err := s.store.Users().FindActiveByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !s.hasher.Verify(req.CurrentPassword, u.PasswordHash) {
		return ErrIncorrectPassword
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.store.Users().UpdatePassword(ctx, userID, hash, s.now().UTC()); err != nil {
		return err
	}

	s.log.Info("password_changed", zap.String("user_id", userID))
	return nil
}

func (s *authService) SeedAdmin(ctx context.Context, seed config.SeedConfig) error {
	email := normalizeEmail(seed.AdminEmail)
	if email == "" || seed.AdminPassword == "" {
		s.log.Info("admin_seed_skipped")
		return nil
	}

	exists, err := s.store.Users().ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check admin account: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := s.hasher.Hash(seed.AdminPassword)
	if err != nil {
		return err
	}

	username := seed.AdminUsername
	if username == "" {
		username = "admin"
	}
	now := s.now().UTC()
	_, err = s.store.Users().Create(ctx, &model.User{
		ID:             uuid.New().String(),
		Username:       username,
		Email:          email,
		PasswordHash:   hash,
		FirstName:      "System",
		LastName:       "Administrator",
		Department:     "IT",
		JobTitle:       "System Administrator",
		Role:           model.RoleAdmin,
		IsActive:       true,
		EmailConfirmed: true,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return fmt.Errorf("create admin account: %w", err)
	}

	s.log.Info("admin_seeded", zap.String("email", email))
	return nil
}

// truncate caps s at n bytes without splitting a rune. Invalid UTF-8 is replaced first;
// text columns reject it.
func truncate(s string, n int) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
