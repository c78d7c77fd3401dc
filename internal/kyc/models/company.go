package models

import (
	"strings"
	"time"
	"unicode/utf8"

	id "kyc/pkg/domain"
	dErrors "kyc/pkg/domain-errors"
)

// Company is the aggregate the verification workflow runs on.
//
// Invariants:
//   - IDNumber is non-empty, unique across companies and at most 16 characters
//   - Name is non-empty
//   - Status is always one of the five workflow states and only changes
//     through ApplyTransition
//
// Persons, beneficiaries and the mailing address reference the company by ID;
// the company holds no pointers to them.
type Company struct {
	ID         id.CompanyID `json:"id"`
	Name       string       `json:"name"`
	IDNumber   string       `json:"id_number"`
	DIC        string       `json:"dic"`
	Registry   string       `json:"registry"`
	Statute    string       `json:"statute"`
	Status     Status       `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
	EnrichedAt *time.Time   `json:"finstat_at,omitempty"`
}

func NewCompany(companyID id.CompanyID, name, idNumber, dic, registry, statute string, now time.Time) (*Company, error) {
	name = strings.TrimSpace(name)
	idNumber = strings.TrimSpace(idNumber)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "company name cannot be empty")
	}
	if idNumber == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "company id number cannot be empty")
	}
	if utf8.RuneCountInString(idNumber) > 16 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "company id number must be 16 characters or less")
	}
	return &Company{
		ID:        companyID,
		Name:      name,
		IDNumber:  idNumber,
		DIC:       strings.TrimSpace(dic),
		Registry:  strings.TrimSpace(registry),
		Statute:   strings.TrimSpace(statute),
		Status:    StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ApplyTransition moves the company to t.To. Call only with a Transition
// produced by Next for this company's current status.
func (c *Company) ApplyTransition(t Transition, now time.Time) {
	if !t.Changed() {
		return
	}
	c.Status = t.To
	c.UpdatedAt = now
}

// CompanyUpdate carries operator edits to descriptive fields. Nil fields are
// left untouched. Status and IDNumber are not editable.
type CompanyUpdate struct {
	Name     *string
	DIC      *string
	Registry *string
	Statute  *string
}

func (c *Company) ApplyUpdate(u CompanyUpdate, now time.Time) error {
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return dErrors.New(dErrors.CodeInvariantViolation, "company name cannot be empty")
		}
		c.Name = name
	}
	if u.DIC != nil {
		c.DIC = strings.TrimSpace(*u.DIC)
	}
	if u.Registry != nil {
		c.Registry = strings.TrimSpace(*u.Registry)
	}
	if u.Statute != nil {
		c.Statute = strings.TrimSpace(*u.Statute)
	}
	c.UpdatedAt = now
	return nil
}

// ApplyProfile overwrites the fields the enrichment registry is authoritative
// for and stamps EnrichedAt.
func (c *Company) ApplyProfile(p CompanyProfile, now time.Time) {
	if name := strings.TrimSpace(p.Name); name != "" {
		c.Name = name
	}
	if dic := strings.TrimSpace(p.DIC); dic != "" {
		c.DIC = dic
	}
	c.UpdatedAt = now
	c.EnrichedAt = &now
}

// CompanyProfile is the record returned by the company-data enrichment
// registry.
type CompanyProfile struct {
	IDNumber      string  `json:"ico"`
	DIC           string  `json:"dic"`
	VATID         string  `json:"ic_dph"`
	Name          string  `json:"name"`
	Street        string  `json:"street"`
	StreetNumber  string  `json:"street_number"`
	Zip           string  `json:"zip"`
	City          string  `json:"city"`
	District      string  `json:"district"`
	Region        string  `json:"region"`
	Country       string  `json:"country"`
	Activity      string  `json:"activity"`
	Created       string  `json:"created"`
	Cancelled     string  `json:"cancelled"`
	URL           string  `json:"url"`
	Revenue       float64 `json:"revenue"`
	RevenueActual float64 `json:"revenue_actual"`
}

// Address returns the profile's mailing address, or nil when it has none.
func (p CompanyProfile) Address() *AddressInput {
	a := AddressInput{City: p.City, Street: p.Street, Number: p.StreetNumber, Zip: p.Zip}
	if a.IsEmpty() {
		return nil
	}
	return &a
}

// EligibleCompany is the projection returned to a person before submission.
type EligibleCompany struct {
	Name     string `json:"name"`
	IDNumber string `json:"id_number"`
}

// ValidateEnrichmentIDNumber enforces the registry's id-number shape.
func ValidateEnrichmentIDNumber(idNumber string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(idNumber))
	if n < 6 || n > 8 {
		return dErrors.New(dErrors.CodeValidation, "id number must be 6 to 8 characters long")
	}
	return nil
}
