package models

import (
	"strings"
	"time"

	id "kyc/pkg/domain"
	dErrors "kyc/pkg/domain-errors"
)

// Address belongs to a company or a person, never both. It is removed with
// its owner.
type Address struct {
	ID        id.AddressID `json:"id"`
	CompanyID id.CompanyID `json:"company_id"`
	PersonID  id.PersonID  `json:"person_id"`
	City      string       `json:"city"`
	Street    string       `json:"street"`
	Number    string       `json:"number"`
	Zip       string       `json:"zip"`
	CreatedAt time.Time    `json:"created_at"`
}

// AddressInput is address data supplied with a company, person or
// verification submission.
type AddressInput struct {
	City   string
	Street string
	Number string
	Zip    string
}

func (a AddressInput) IsEmpty() bool {
	return strings.TrimSpace(a.City+a.Street+a.Number+a.Zip) == ""
}

func NewCompanyAddress(addressID id.AddressID, companyID id.CompanyID, in AddressInput, now time.Time) (*Address, error) {
	if companyID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "address owner is required")
	}
	return newAddress(addressID, in, now, func(a *Address) { a.CompanyID = companyID })
}

func NewPersonAddress(addressID id.AddressID, personID id.PersonID, in AddressInput, now time.Time) (*Address, error) {
	if personID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "address owner is required")
	}
	return newAddress(addressID, in, now, func(a *Address) { a.PersonID = personID })
}

func newAddress(addressID id.AddressID, in AddressInput, now time.Time, owner func(*Address)) (*Address, error) {
	if in.IsEmpty() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "address cannot be empty")
	}
	a := &Address{
		ID:        addressID,
		City:      strings.TrimSpace(in.City),
		Street:    strings.TrimSpace(in.Street),
		Number:    strings.TrimSpace(in.Number),
		Zip:       strings.TrimSpace(in.Zip),
		CreatedAt: now,
	}
	owner(a)
	return a, nil
}
