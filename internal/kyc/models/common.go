package models

import (
	"strings"

	dErrors "kyc/pkg/domain-errors"
)

// Language selects the email template variant.
type Language string

const (
	LanguageSlovak  Language = "sk"
	LanguageEnglish Language = "en"
)

// ParseLanguage accepts a supported language code; empty means Slovak.
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case "", LanguageSlovak:
		return LanguageSlovak, nil
	case LanguageEnglish:
		return LanguageEnglish, nil
	default:
		return "", dErrors.Newf(dErrors.CodeValidation, "unsupported language %q", s)
	}
}

const (
	DefaultPageLimit = 100
	MaxPageLimit     = 1000
)

// Page is an offset window over a list.
type Page struct {
	Skip  int
	Limit int
}

// Normalize clamps the window to sane bounds.
func (p Page) Normalize() Page {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// Window applies the page to n items, returning slice bounds.
func (p Page) Window(n int) (int, int) {
	p = p.Normalize()
	start := min(p.Skip, n)
	end := min(start+p.Limit, n)
	return start, end
}
