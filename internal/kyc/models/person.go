package models

import (
	"net/mail"
	"strings"
	"time"

	id "kyc/pkg/domain"
	dErrors "kyc/pkg/domain-errors"
)

// Person is a natural person linked to at most one company.
//
// Invariants:
//   - a person with DeletedAt set is invisible to every query and to the
//     workflow state machine
//   - VerifiedAt is set at most once
type Person struct {
	ID                id.PersonID  `json:"id"`
	CompanyID         id.CompanyID `json:"company_id"`
	Email             string       `json:"email"`
	Name              string       `json:"name"`
	Surname           string       `json:"surname"`
	Country           string       `json:"country"`
	IDNumber          string       `json:"id_number"`
	DocumentType      string       `json:"document_type"`
	DocumentNumber    string       `json:"document_number"`
	DocumentFront     string       `json:"document_front,omitempty"`
	DocumentBack      string       `json:"document_back,omitempty"`
	VerificationPhoto string       `json:"verification_photo,omitempty"`
	RequestedAt       *time.Time   `json:"requested_at,omitempty"`
	VerifiedAt        *time.Time   `json:"verified_at,omitempty"`
	DeletedAt         *time.Time   `json:"-"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// PersonInput is the operator-supplied data for a new person.
type PersonInput struct {
	Email    string
	Name     string
	Surname  string
	Country  string
	IDNumber string
	Address  *AddressInput
}

func NewPerson(personID id.PersonID, companyID id.CompanyID, in PersonInput, now time.Time) (*Person, error) {
	email := strings.TrimSpace(in.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, "person email is not a valid address")
		}
	}
	name := strings.TrimSpace(in.Name)
	surname := strings.TrimSpace(in.Surname)
	if name == "" && surname == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "person needs a name or surname")
	}
	return &Person{
		ID:        personID,
		CompanyID: companyID,
		Email:     email,
		Name:      name,
		Surname:   surname,
		Country:   strings.TrimSpace(in.Country),
		IDNumber:  strings.TrimSpace(in.IDNumber),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (p *Person) IsVerified() bool { return p.VerifiedAt != nil }
func (p *Person) IsDeleted() bool  { return p.DeletedAt != nil }
func (p *Person) HasCompany() bool { return !p.CompanyID.IsNil() }

// CanRequestVerification rejects a verification email to a verified person.
func (p *Person) CanRequestVerification() error {
	if p.IsVerified() {
		return dErrors.New(dErrors.CodeConflict, "person is already verified")
	}
	if strings.TrimSpace(p.Email) == "" {
		return dErrors.New(dErrors.CodeValidation, "person has no email address")
	}
	return nil
}

// ApplyVerificationRequested stamps the time the verification email went out.
func (p *Person) ApplyVerificationRequested(now time.Time) {
	p.RequestedAt = &now
	p.UpdatedAt = now
}

// CanVerify rejects a second verification of the same person.
func (p *Person) CanVerify() error {
	if p.IsVerified() {
		return dErrors.New(dErrors.CodeConflict, "person is already verified")
	}
	return nil
}

// VerificationProfile is the identity data a person submits with their
// verification photo.
type VerificationProfile struct {
	Name           string
	Surname        string
	Country        string
	IDNumber       string
	DocumentType   string
	DocumentNumber string
	DocumentFront  string
	DocumentBack   string
	Photo          string
	Address        *AddressInput
}

// ApplyVerification overwrites the profile fields and stamps VerifiedAt. Call
// CanVerify first.
func (p *Person) ApplyVerification(v VerificationProfile, now time.Time) {
	p.Name = strings.TrimSpace(v.Name)
	p.Surname = strings.TrimSpace(v.Surname)
	p.Country = strings.TrimSpace(v.Country)
	p.IDNumber = strings.TrimSpace(v.IDNumber)
	p.DocumentType = strings.TrimSpace(v.DocumentType)
	p.DocumentNumber = strings.TrimSpace(v.DocumentNumber)
	p.DocumentFront = v.DocumentFront
	p.DocumentBack = v.DocumentBack
	p.VerificationPhoto = v.Photo
	p.VerifiedAt = &now
	p.UpdatedAt = now
}

// PersonUpdate carries operator edits to contact fields. Nil fields are left
// untouched.
type PersonUpdate struct {
	Email   *string
	Name    *string
	Surname *string
}

func (p *Person) ApplyUpdate(u PersonUpdate, now time.Time) error {
	if u.Email != nil {
		email := strings.TrimSpace(*u.Email)
		if email != "" {
			if _, err := mail.ParseAddress(email); err != nil {
				return dErrors.New(dErrors.CodeInvariantViolation, "person email is not a valid address")
			}
		}
		p.Email = email
	}
	if u.Name != nil {
		p.Name = strings.TrimSpace(*u.Name)
	}
	if u.Surname != nil {
		p.Surname = strings.TrimSpace(*u.Surname)
	}
	p.UpdatedAt = now
	return nil
}

// ApplyDeletion soft-deletes the person.
func (p *Person) ApplyDeletion(now time.Time) {
	p.DeletedAt = &now
	p.UpdatedAt = now
}

// FullName joins name and surname for email greetings.
func (p *Person) FullName() string {
	return strings.TrimSpace(p.Name + " " + p.Surname)
}

// PersonFacts computes the state-machine facts over a company's live persons.
// Deleted persons are skipped even if a caller passes them in.
func PersonFacts(persons []*Person, liveBeneficiaries int) Facts {
	f := Facts{LiveBeneficiaries: liveBeneficiaries}
	for _, p := range persons {
		if p.IsDeleted() {
			continue
		}
		f.LivePersons++
		if !p.IsVerified() {
			f.UnverifiedPersons++
		}
	}
	return f
}
