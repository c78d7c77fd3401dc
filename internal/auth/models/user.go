// Package models holds the operator accounts that sign in to the KYC back
// office and their password-reset tokens.
package models

import (
	"strings"
	"time"
	"unicode/utf8"

	id "kyc/pkg/domain"
	dErrors "kyc/pkg/domain-errors"
	"kyc/pkg/email"
)

const MinPasswordLength = 8

// User is a back-office operator. Only active users can log in.
type User struct {
	ID           id.UserID
	Name         string
	Surname      string
	Email        string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser validates the identity fields and returns an inactive user. The
// email is stored in canonical lower-case form.
func NewUser(userID id.UserID, name, surname, address, passwordHash string, now time.Time) (*User, error) {
	canonical, err := email.Normalize(address)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid email")
	}
	if passwordHash == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "password hash is required")
	}
	return &User{
		ID:           userID,
		Name:         strings.TrimSpace(name),
		Surname:      strings.TrimSpace(surname),
		Email:        canonical,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (u *User) Activate(now time.Time) {
	u.Active = true
	u.UpdatedAt = now
}

func (u *User) Deactivate(now time.Time) {
	u.Active = false
	u.UpdatedAt = now
}

func (u *User) SetPasswordHash(hash string, now time.Time) {
	u.PasswordHash = hash
	u.UpdatedAt = now
}

// ValidatePassword enforces the password policy on a plain-text password.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return dErrors.New(dErrors.CodeValidation, "password must be at least 8 characters long")
	}
	if len(password) > 72 {
		return dErrors.New(dErrors.CodeValidation, "password must be at most 72 bytes long")
	}
	return nil
}

// ResetToken is a single-use password-reset token.
type ResetToken struct {
	Token     id.ResetTokenID
	UserID    id.UserID
	CreatedAt time.Time
	UsedAt    *time.Time
}

func NewResetToken(userID id.UserID, now time.Time) *ResetToken {
	return &ResetToken{Token: id.NewResetTokenID(), UserID: userID, CreatedAt: now}
}

func (t *ResetToken) IsUsed() bool { return t.UsedAt != nil }

// IsExpired reports whether the token is older than ttl at now.
func (t *ResetToken) IsExpired(ttl time.Duration, now time.Time) bool {
	return !now.Before(t.CreatedAt.Add(ttl))
}
