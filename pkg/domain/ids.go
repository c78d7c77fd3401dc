// Package domain holds the typed identifiers shared across modules.
//
// Every aggregate gets its own ID type over uuid.UUID so a PersonID can never
// be passed where a CompanyID is expected.
package domain

import (
	"github.com/google/uuid"

	dErrors "kyc/pkg/domain-errors"
)

type (
	CompanyID     uuid.UUID
	PersonID      uuid.UUID
	BeneficiaryID uuid.UUID
	AddressID     uuid.UUID
	UserID        uuid.UUID
	ResetTokenID  uuid.UUID
)

func NewCompanyID() CompanyID         { return CompanyID(uuid.New()) }
func NewPersonID() PersonID           { return PersonID(uuid.New()) }
func NewBeneficiaryID() BeneficiaryID { return BeneficiaryID(uuid.New()) }
func NewAddressID() AddressID         { return AddressID(uuid.New()) }
func NewUserID() UserID               { return UserID(uuid.New()) }
func NewResetTokenID() ResetTokenID   { return ResetTokenID(uuid.New()) }

// parseUUID enforces the trust-boundary rule for all ID types: the input must
// be a well-formed, non-nil UUID.
func parseUUID(kind, s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" cannot be nil")
	}
	return u, nil
}

func ParseCompanyID(s string) (CompanyID, error) {
	u, err := parseUUID("company id", s)
	return CompanyID(u), err
}

func ParsePersonID(s string) (PersonID, error) {
	u, err := parseUUID("person id", s)
	return PersonID(u), err
}

func ParseBeneficiaryID(s string) (BeneficiaryID, error) {
	u, err := parseUUID("beneficiary id", s)
	return BeneficiaryID(u), err
}

func ParseAddressID(s string) (AddressID, error) {
	u, err := parseUUID("address id", s)
	return AddressID(u), err
}

func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID("user id", s)
	return UserID(u), err
}

func ParseResetTokenID(s string) (ResetTokenID, error) {
	u, err := parseUUID("reset token", s)
	return ResetTokenID(u), err
}

func (id CompanyID) String() string { return uuid.UUID(id).String() }
func (id CompanyID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id CompanyID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}
func (id *CompanyID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id PersonID) String() string { return uuid.UUID(id).String() }
func (id PersonID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id PersonID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}
func (id *PersonID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id BeneficiaryID) String() string { return uuid.UUID(id).String() }
func (id BeneficiaryID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id BeneficiaryID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}
func (id *BeneficiaryID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id AddressID) String() string { return uuid.UUID(id).String() }
func (id AddressID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id AddressID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}
func (id *AddressID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id UserID) String() string { return uuid.UUID(id).String() }
func (id UserID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id UserID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}
func (id *UserID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id ResetTokenID) String() string { return uuid.UUID(id).String() }
func (id ResetTokenID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id ResetTokenID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}
func (id *ResetTokenID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}
