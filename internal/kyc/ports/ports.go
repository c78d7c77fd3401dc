// Package ports declares the external collaborators the KYC workflow
// depends on. Implementations live under internal/evidence and
// internal/notify; tests use the gomock doubles in ports/mocks.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"kyc/internal/kyc/models"
)

// FaceMatcher compares a reference photo with a submitted one. Photos are
// base64-encoded images.
type FaceMatcher interface {
	Match(ctx context.Context, reference, submitted string) (bool, error)
}

// RegistryPerson is a statutory-body member listed in the business register.
type RegistryPerson struct {
	Name    string
	Surname string
}

// RegistryLookup returns the persons the public business register lists for
// a company id number, in register order.
type RegistryLookup interface {
	LookupPersons(ctx context.Context, idNumber string) ([]RegistryPerson, error)
}

// Enricher fetches the authoritative company profile for an id number.
type Enricher interface {
	Lookup(ctx context.Context, idNumber string) (*models.CompanyProfile, error)
}

// Template names a notification template; the language suffix is appended by
// the notifier.
type Template string

const (
	TemplateVerification          Template = "verification"
	TemplateVerificationConfirmed Template = "verification_confirmed"
	TemplatePasswordReset         Template = "password_reset"
)

// Email is one outbound templated message.
type Email struct {
	Template Template
	Language models.Language
	To       string
	Params   map[string]string
}

// Notifier delivers templated email.
type Notifier interface {
	Send(ctx context.Context, email Email) error
}
