// Package email holds helpers for operator email addresses.
package email

import (
	"errors"
	"net/mail"
	"strings"
	"unicode"
)

var ErrInvalid = errors.New("invalid email address")

// Normalize trims and lower-cases address and checks it is a bare
// addr-spec, without a display name.
func Normalize(address string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(address))
	parsed, err := mail.ParseAddress(trimmed)
	if err != nil || parsed.Address != trimmed || parsed.Name != "" {
		return "", ErrInvalid
	}
	return trimmed, nil
}

// DeriveNameFromEmail guesses a name and surname from the local part of an
// address, e.g. "jan.novak@x.sk" gives "Jan", "Novak".
func DeriveNameFromEmail(email string) (string, string) {
	localPart := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		localPart = email[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})

	if len(parts) == 0 {
		return "Admin", "Admin"
	}

	first := capitalize(parts[0])
	last := "Admin"
	if len(parts) > 1 {
		last = capitalize(parts[len(parts)-1])
	}

	return first, last
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
