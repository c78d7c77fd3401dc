package handler

import (
	"time"

	"kyc/internal/kyc/models"
)

type CompanyResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	IDNumber   string     `json:"id_number"`
	DIC        string     `json:"dic"`
	Registry   string     `json:"registry"`
	Statute    string     `json:"statute"`
	Status     int        `json:"status"`
	StatusName string     `json:"status_name"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	EnrichedAt *time.Time `json:"finstat_at,omitempty"`
}

func toCompanyResponse(c *models.Company) CompanyResponse {
	return CompanyResponse{
		ID:         c.ID.String(),
		Name:       c.Name,
		IDNumber:   c.IDNumber,
		DIC:        c.DIC,
		Registry:   c.Registry,
		Statute:    c.Statute,
		Status:     int(c.Status),
		StatusName: c.Status.String(),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
		EnrichedAt: c.EnrichedAt,
	}
}

func toCompanyResponses(cs []*models.Company) []CompanyResponse {
	out := make([]CompanyResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, toCompanyResponse(c))
	}
	return out
}

// PersonResponse omits the submitted document images; they are only
// returned through the dedicated person detail.
type PersonResponse struct {
	ID             string     `json:"id"`
	CompanyID      string     `json:"company_id,omitempty"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Surname        string     `json:"surname"`
	Country        string     `json:"country"`
	IDNumber       string     `json:"id_number"`
	DocumentType   string     `json:"document_type"`
	DocumentNumber string     `json:"document_number"`
	RequestedAt    *time.Time `json:"requested_at,omitempty"`
	VerifiedAt     *time.Time `json:"verified_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type PersonDetailResponse struct {
	PersonResponse
	DocumentFront     string `json:"document_front,omitempty"`
	DocumentBack      string `json:"document_back,omitempty"`
	VerificationPhoto string `json:"verification_photo,omitempty"`
}

func toPersonResponse(p *models.Person) PersonResponse {
	r := PersonResponse{
		ID:             p.ID.String(),
		Email:          p.Email,
		Name:           p.Name,
		Surname:        p.Surname,
		Country:        p.Country,
		IDNumber:       p.IDNumber,
		DocumentType:   p.DocumentType,
		DocumentNumber: p.DocumentNumber,
		RequestedAt:    p.RequestedAt,
		VerifiedAt:     p.VerifiedAt,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.HasCompany() {
		r.CompanyID = p.CompanyID.String()
	}
	return r
}

func toPersonDetailResponse(p *models.Person) PersonDetailResponse {
	return PersonDetailResponse{
		PersonResponse:    toPersonResponse(p),
		DocumentFront:     p.DocumentFront,
		DocumentBack:      p.DocumentBack,
		VerificationPhoto: p.VerificationPhoto,
	}
}

func toPersonResponses(ps []*models.Person) []PersonResponse {
	out := make([]PersonResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, toPersonResponse(p))
	}
	return out
}

type BeneficiaryResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	CreatedAt time.Time `json:"created_at"`
}

func toBeneficiaryResponse(b *models.Beneficiary) BeneficiaryResponse {
	return BeneficiaryResponse{
		ID:        b.ID.String(),
		CompanyID: b.CompanyID.String(),
		Name:      b.Name,
		Surname:   b.Surname,
		CreatedAt: b.CreatedAt,
	}
}

type AddressResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id,omitempty"`
	PersonID  string    `json:"person_id,omitempty"`
	City      string    `json:"city"`
	Street    string    `json:"street"`
	Number    string    `json:"number"`
	Zip       string    `json:"zip"`
	CreatedAt time.Time `json:"created_at"`
}

func toAddressResponse(a *models.Address) AddressResponse {
	r := AddressResponse{
		ID:        a.ID.String(),
		City:      a.City,
		Street:    a.Street,
		Number:    a.Number,
		Zip:       a.Zip,
		CreatedAt: a.CreatedAt,
	}
	if !a.CompanyID.IsNil() {
		r.CompanyID = a.CompanyID.String()
	}
	if !a.PersonID.IsNil() {
		r.PersonID = a.PersonID.String()
	}
	return r
}

func toAddressResponses(as []*models.Address) []AddressResponse {
	out := make([]AddressResponse, 0, len(as))
	for _, a := range as {
		out = append(out, toAddressResponse(a))
	}
	return out
}

type BulkVerificationResponse struct {
	Requested int `json:"requested"`
}

type FaceMatchResponse struct {
	Verified bool `json:"verified"`
}
