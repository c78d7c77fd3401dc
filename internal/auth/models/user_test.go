package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "kyc/pkg/domain"
	dErrors "kyc/pkg/domain-errors"
)

func TestNewUser(t *testing.T) {
	now := time.Now()

	u, err := NewUser(id.NewUserID(), " Ada ", "Lovelace", " Ada@Example.COM ", "hash", now)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, "Ada", u.Name)
	assert.False(t, u.Active)

	_, err = NewUser(id.NewUserID(), "", "", "not-an-email", "hash", now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = NewUser(id.NewUserID(), "", "", "a@b.sk", "", now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword("short"))
	assert.NoError(t, ValidatePassword("long enough"))
	assert.Error(t, ValidatePassword(strings.Repeat("x", 73)))
}

func TestResetTokenExpiry(t *testing.T) {
	created := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tok := &ResetToken{CreatedAt: created}

	assert.False(t, tok.IsExpired(time.Hour, created.Add(59*time.Minute)))
	assert.True(t, tok.IsExpired(time.Hour, created.Add(time.Hour)))
	assert.False(t, tok.IsUsed())
}
