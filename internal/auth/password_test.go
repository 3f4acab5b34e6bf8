package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswords_HashAndVerify(t *testing.T) {
	p := NewPasswords(bcrypt.MinCost)

	hash, err := p.Hash("Secret1!")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret1!", hash)

	assert.True(t, p.Verify("Secret1!", hash))
	assert.False(t, p.Verify("secret1!", hash))
	assert.False(t, p.Verify("Secret1!", "not-a-hash"))
}

func TestNewPasswords_DefaultCost(t *testing.T) {
	assert.Equal(t, DefaultPasswordCost, NewPasswords(0).cost)
	assert.Equal(t, DefaultPasswordCost, NewPasswords(99).cost)
	assert.Equal(t, bcrypt.MinCost, NewPasswords(bcrypt.MinCost).cost)
}

func TestPasswords_DefaultCostIsEncoded(t *testing.T) {
	if testing.Short() {
		t.Skip("bcrypt cost 12 is slow")
	}
	hash, err := NewPasswords(DefaultPasswordCost).Hash("Secret1!")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 12, cost)
}

func TestPasswords_TooLong(t *testing.T) {
	_, err := NewPasswords(bcrypt.MinCost).Hash(strings.Repeat("a", 73))
	assert.Error(t, err)
}
