package models

import (
	"strings"
	"time"

	id "kyc/pkg/domain"
	dErrors "kyc/pkg/domain-errors"
)

// Beneficiary is a beneficial owner recorded against a company for AML.
// (CompanyID, Name, Surname) is unique among live beneficiaries.
type Beneficiary struct {
	ID        id.BeneficiaryID `json:"id"`
	CompanyID id.CompanyID     `json:"company_id"`
	Name      string           `json:"name"`
	Surname   string           `json:"surname"`
	CreatedAt time.Time        `json:"created_at"`
	DeletedAt *time.Time       `json:"-"`
}

func NewBeneficiary(beneficiaryID id.BeneficiaryID, companyID id.CompanyID, name, surname string, now time.Time) (*Beneficiary, error) {
	name = strings.TrimSpace(name)
	surname = strings.TrimSpace(surname)
	if name == "" || surname == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "beneficiary name and surname are required")
	}
	if companyID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "beneficiary must belong to a company")
	}
	return &Beneficiary{
		ID:        beneficiaryID,
		CompanyID: companyID,
		Name:      name,
		Surname:   surname,
		CreatedAt: now,
	}, nil
}

func (b *Beneficiary) IsDeleted() bool { return b.DeletedAt != nil }

func (b *Beneficiary) ApplyDeletion(now time.Time) {
	b.DeletedAt = &now
}
