package handler

import (
	"strings"
	"unicode/utf8"

	"kyc/internal/kyc/models"
	id "kyc/pkg/domain"
	dErrors "kyc/pkg/domain-errors"
)

type AddressRequest struct {
	City   string `json:"city"`
	Street string `json:"street"`
	Number string `json:"number"`
	Zip    string `json:"zip"`
}

func (a *AddressRequest) normalize() {
	if a == nil {
		return
	}
	a.City = strings.TrimSpace(a.City)
	a.Street = strings.TrimSpace(a.Street)
	a.Number = strings.TrimSpace(a.Number)
	a.Zip = strings.TrimSpace(a.Zip)
}

// input returns nil for a missing or blank address.
func (a *AddressRequest) input() *models.AddressInput {
	if a == nil {
		return nil
	}
	in := models.AddressInput{City: a.City, Street: a.Street, Number: a.Number, Zip: a.Zip}
	if in.IsEmpty() {
		return nil
	}
	return &in
}

type CreateCompanyRequest struct {
	Name     string          `json:"name"`
	IDNumber string          `json:"id_number"`
	DIC      string          `json:"dic"`
	Registry string          `json:"registry"`
	Statute  string          `json:"statute"`
	Address  *AddressRequest `json:"address,omitempty"`
}

func (r *CreateCompanyRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.IDNumber = strings.TrimSpace(r.IDNumber)
	r.DIC = strings.TrimSpace(r.DIC)
	r.Registry = strings.TrimSpace(r.Registry)
	r.Statute = strings.TrimSpace(r.Statute)
	r.Address.normalize()
}

func (r *CreateCompanyRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if r.IDNumber == "" {
		return dErrors.New(dErrors.CodeValidation, "id_number is required")
	}
	if utf8.RuneCountInString(r.IDNumber) > 16 {
		return dErrors.New(dErrors.CodeValidation, "id_number must be 16 characters or less")
	}
	return nil
}

type UpdateCompanyRequest struct {
	Name     *string `json:"name"`
	DIC      *string `json:"dic"`
	Registry *string `json:"registry"`
	Statute  *string `json:"statute"`
}

func (r *UpdateCompanyRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "name cannot be empty")
	}
	return nil
}

func (r *UpdateCompanyRequest) update() models.CompanyUpdate {
	return models.CompanyUpdate{Name: r.Name, DIC: r.DIC, Registry: r.Registry, Statute: r.Statute}
}

type CreatePersonRequest struct {
	CompanyID string          `json:"company_id"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	Surname   string          `json:"surname"`
	Country   string          `json:"country"`
	IDNumber  string          `json:"id_number"`
	Address   *AddressRequest `json:"address,omitempty"`
}

func (r *CreatePersonRequest) Normalize() {
	r.CompanyID = strings.TrimSpace(r.CompanyID)
	r.Email = strings.TrimSpace(r.Email)
	r.Name = strings.TrimSpace(r.Name)
	r.Surname = strings.TrimSpace(r.Surname)
	r.Country = strings.TrimSpace(r.Country)
	r.IDNumber = strings.TrimSpace(r.IDNumber)
	r.Address.normalize()
}

func (r *CreatePersonRequest) Validate() error {
	if r.Name == "" && r.Surname == "" {
		return dErrors.New(dErrors.CodeValidation, "name or surname is required")
	}
	if r.CompanyID != "" {
		if _, err := id.ParseCompanyID(r.CompanyID); err != nil {
			return dErrors.New(dErrors.CodeValidation, "company_id is not a valid id")
		}
	}
	return nil
}

func (r *CreatePersonRequest) input() models.PersonInput {
	return models.PersonInput{
		Email:    r.Email,
		Name:     r.Name,
		Surname:  r.Surname,
		Country:  r.Country,
		IDNumber: r.IDNumber,
		Address:  r.Address.input(),
	}
}

type UpdatePersonRequest struct {
	Email   *string `json:"email"`
	Name    *string `json:"name"`
	Surname *string `json:"surname"`
}

func (r *UpdatePersonRequest) update() models.PersonUpdate {
	return models.PersonUpdate{Email: r.Email, Name: r.Name, Surname: r.Surname}
}

type CreateBeneficiaryRequest struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
}

func (r *CreateBeneficiaryRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Surname = strings.TrimSpace(r.Surname)
}

func (r *CreateBeneficiaryRequest) Validate() error {
	if r.Name == "" || r.Surname == "" {
		return dErrors.New(dErrors.CodeValidation, "name and surname are required")
	}
	return nil
}

type VerificationEmailRequest struct {
	Language string `json:"language"`
}

func (r *VerificationEmailRequest) Validate() error {
	_, err := models.ParseLanguage(r.Language)
	return err
}

type BulkVerificationEmailRequest struct {
	PersonIDs []string `json:"person_ids"`
	Language  string   `json:"language"`
}

func (r *BulkVerificationEmailRequest) Validate() error {
	if len(r.PersonIDs) == 0 {
		return dErrors.New(dErrors.CodeValidation, "person_ids is required")
	}
	if _, err := models.ParseLanguage(r.Language); err != nil {
		return err
	}
	for _, raw := range r.PersonIDs {
		if _, err := id.ParsePersonID(raw); err != nil {
			return dErrors.New(dErrors.CodeValidation, "person_ids contains an invalid id")
		}
	}
	return nil
}

func (r *BulkVerificationEmailRequest) personIDs() []id.PersonID {
	out := make([]id.PersonID, 0, len(r.PersonIDs))
	for _, raw := range r.PersonIDs {
		personID, _ := id.ParsePersonID(raw)
		out = append(out, personID)
	}
	return out
}

type SubmitVerificationRequest struct {
	Name           string          `json:"name"`
	Surname        string          `json:"surname"`
	Country        string          `json:"country"`
	IDNumber       string          `json:"id_number"`
	DocumentType   string          `json:"document_type"`
	DocumentNumber string          `json:"document_number"`
	DocumentFront  string          `json:"document_front"`
	DocumentBack   string          `json:"document_back"`
	Photo          string          `json:"photo"`
	Language       string          `json:"language"`
	Address        *AddressRequest `json:"address,omitempty"`
}

func (r *SubmitVerificationRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Surname = strings.TrimSpace(r.Surname)
	r.Country = strings.TrimSpace(r.Country)
	r.IDNumber = strings.TrimSpace(r.IDNumber)
	r.DocumentType = strings.TrimSpace(r.DocumentType)
	r.DocumentNumber = strings.TrimSpace(r.DocumentNumber)
	r.Photo = strings.TrimSpace(r.Photo)
	r.Address.normalize()
}

func (r *SubmitVerificationRequest) Validate() error {
	if r.Photo == "" {
		return dErrors.New(dErrors.CodeValidation, "photo is required")
	}
	if _, err := models.ParseLanguage(r.Language); err != nil {
		return err
	}
	return nil
}

func (r *SubmitVerificationRequest) profile() models.VerificationProfile {
	return models.VerificationProfile{
		Name:           r.Name,
		Surname:        r.Surname,
		Country:        r.Country,
		IDNumber:       r.IDNumber,
		DocumentType:   r.DocumentType,
		DocumentNumber: r.DocumentNumber,
		DocumentFront:  r.DocumentFront,
		DocumentBack:   r.DocumentBack,
		Photo:          r.Photo,
		Address:        r.Address.input(),
	}
}

type FaceMatchRequest struct {
	ReferencePhoto string `json:"reference_photo"`
	SubmittedPhoto string `json:"submitted_photo"`
}

func (r *FaceMatchRequest) Validate() error {
	if r.ReferencePhoto == "" || r.SubmittedPhoto == "" {
		return dErrors.New(dErrors.CodeValidation, "reference_photo and submitted_photo are required")
	}
	return nil
}
