package auth

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsportal/internal/config"
	"docsportal/internal/model"
)

func newTestIssuer(now time.Time) *Issuer {
	iss := NewIssuer(config.JWTConfig{
		Secret:     "super-secret",
		Issuer:     "docsportal",
		Audience:   "docsportal-client",
		AccessTTL:  time.Hour,
		RefreshTTL: 7 * 24 * time.Hour,
	})
	iss.now = func() time.Time { return now }
	return iss
}

func testUser() *model.User {
	return &model.User{
		ID:         "user-123",
		Username:   "alice",
		Email:      "alice@x.com",
		FirstName:  "Alice",
		LastName:   "Smith",
		Department: "Legal",
		Role:       model.RoleUser,
	}
}

func TestIssueAndParse_Success(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 500, time.UTC)
	iss := newTestIssuer(now)

	tok, exp, err := iss.IssueAccessToken(testUser())
	require.NoError(t, err)
	assert.Equal(t, now.Truncate(time.Second).Add(time.Hour), exp)

	claims, err := iss.ParseAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID())
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@x.com", claims.Email)
	assert.Equal(t, model.RoleUser, claims.Role)
	assert.Equal(t, "Alice Smith", claims.FullName)
	assert.Equal(t, "Legal", claims.Department)
	assert.Equal(t, time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestParseAccessToken_Expired(t *testing.T) {
	issuedAt := time.Now().Add(-2 * time.Hour)
	tok, _, err := newTestIssuer(issuedAt).IssueAccessToken(testUser())
	require.NoError(t, err)

	_, err = newTestIssuer(time.Now()).ParseAccessToken(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	now := time.Now()
	tok, _, err := newTestIssuer(now).IssueAccessToken(testUser())
	require.NoError(t, err)

	other := newTestIssuer(now)
	other.secret = []byte("wrong-secret")
	_, err = other.ParseAccessToken(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseAccessToken_WrongAudience(t *testing.T) {
	now := time.Now()
	tok, _, err := newTestIssuer(now).IssueAccessToken(testUser())
	require.NoError(t, err)

	other := newTestIssuer(now)
	other.audience = "someone-else"
	_, err = other.ParseAccessToken(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseAccessToken_RejectsOtherAlgorithms(t *testing.T) {
	now := time.Now()
	iss := newTestIssuer(now)

	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "user-123",
		Issuer:    iss.issuer,
		Audience:  jwt.ClaimStrings{iss.audience},
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(iss.secret)
	require.NoError(t, err)

	_, err = iss.ParseAccessToken(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseAccessToken_Malformed(t *testing.T) {
	_, err := newTestIssuer(time.Now()).ParseAccessToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestNewRefreshToken(t *testing.T) {
	a, err := NewRefreshToken()
	require.NoError(t, err)
	b, err := NewRefreshToken()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)

	raw, err := base64.StdEncoding.DecodeString(a)
	require.NoError(t, err)
	assert.Len(t, raw, 64)
}

func TestHashRefreshToken(t *testing.T) {
	h := HashRefreshToken("token")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashRefreshToken("token"))
	assert.NotEqual(t, h, HashRefreshToken("token2"))
}
