// Package handler exposes the KYC workflow over HTTP. Operator routes sit
// behind bearer authentication; the verification routes a person reaches
// through the emailed link are public and keyed by the person id.
package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kyc/internal/kyc/models"
	"kyc/internal/kyc/service"
	id "kyc/pkg/domain"
	dErrors "kyc/pkg/domain-errors"
	"kyc/pkg/platform/httputil"
	"kyc/pkg/requestcontext"
)

// Service is the workflow surface the handlers call.
type Service interface {
	CreateCompany(ctx context.Context, in service.CreateCompanyInput) (*models.Company, error)
	GetCompany(ctx context.Context, companyID id.CompanyID) (*models.Company, error)
	ListCompanies(ctx context.Context, page models.Page) ([]*models.Company, error)
	UpdateCompany(ctx context.Context, companyID id.CompanyID, u models.CompanyUpdate) (*models.Company, error)
	Search(ctx context.Context, q string) ([]*models.Company, error)
	LookupCompanyProfile(ctx context.Context, idNumber string) (*models.CompanyProfile, error)
	EnrichCompany(ctx context.Context, companyID id.CompanyID) (*models.Company, error)
	RequestAML(ctx context.Context, companyID id.CompanyID) (*models.Company, error)

	CreateBeneficiary(ctx context.Context, companyID id.CompanyID, name, surname string) (*models.Beneficiary, error)
	DeleteBeneficiary(ctx context.Context, beneficiaryID id.BeneficiaryID) error
	GetBeneficiary(ctx context.Context, beneficiaryID id.BeneficiaryID) (*models.Beneficiary, error)
	ListBeneficiaries(ctx context.Context, companyID id.CompanyID) ([]*models.Beneficiary, error)

	CreatePerson(ctx context.Context, companyID id.CompanyID, in models.PersonInput) (*models.Person, error)
	GetPerson(ctx context.Context, personID id.PersonID) (*models.Person, error)
	ListPersons(ctx context.Context, page models.Page) ([]*models.Person, error)
	ListPersonsByCompany(ctx context.Context, companyID id.CompanyID) ([]*models.Person, error)
	UpdatePerson(ctx context.Context, personID id.PersonID, u models.PersonUpdate) (*models.Person, error)
	DeletePerson(ctx context.Context, personID id.PersonID) error

	GetAddress(ctx context.Context, addressID id.AddressID) (*models.Address, error)
	ListAddressesByCompany(ctx context.Context, companyID id.CompanyID) ([]*models.Address, error)
	ListAddressesByPerson(ctx context.Context, personID id.PersonID) ([]*models.Address, error)

	RequestVerificationEmail(ctx context.Context, personID id.PersonID, language string) error
	RequestVerificationEmailBulk(ctx context.Context, companyID id.CompanyID, personIDs []id.PersonID, language string) (int, error)
	SubmitVerification(ctx context.Context, personID id.PersonID, in service.SubmitVerificationInput) (*models.Person, error)
	CheckEligibility(ctx context.Context, personID id.PersonID) ([]models.EligibleCompany, error)
	VerifyFaceMatch(ctx context.Context, personID id.PersonID, reference, submitted string) (bool, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
	public  []func(http.Handler) http.Handler
}

type Option func(*Handler)

// WithPublicMiddleware wraps the unauthenticated routes, typically with a
// rate limit.
func WithPublicMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.public = append(h.public, mw...)
	}
}

func New(svc Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{service: svc, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the public verification routes on r and every operator
// route behind requireAuth.
func (h *Handler) Register(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Route("/verification/{personID}", func(r chi.Router) {
		r.Use(h.public...)
		r.Get("/eligibility", h.handleCheckEligibility)
		r.Post("/", h.handleSubmitVerification)
		r.Post("/face-match", h.handleFaceMatch)
	})

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Route("/companies", func(r chi.Router) {
			r.Get("/", h.handleListCompanies)
			r.Post("/", h.handleCreateCompany)
			r.Get("/search", h.handleSearch)
			r.Get("/profile/{idNumber}", h.handleLookupProfile)

			r.Route("/{companyID}", func(r chi.Router) {
				r.Get("/", h.handleGetCompany)
				r.Patch("/", h.handleUpdateCompany)
				r.Post("/aml", h.handleRequestAML)
				r.Post("/enrich", h.handleEnrichCompany)
				r.Get("/persons", h.handleListCompanyPersons)
				r.Post("/persons", h.handleCreateCompanyPerson)
				r.Post("/verification-emails", h.handleBulkVerificationEmail)
				r.Get("/beneficiaries", h.handleListBeneficiaries)
				r.Post("/beneficiaries", h.handleCreateBeneficiary)
				r.Get("/addresses", h.handleListCompanyAddresses)
			})
		})

		r.Route("/beneficiaries/{beneficiaryID}", func(r chi.Router) {
			r.Get("/", h.handleGetBeneficiary)
			r.Delete("/", h.handleDeleteBeneficiary)
		})

		r.Route("/persons", func(r chi.Router) {
			r.Get("/", h.handleListPersons)
			r.Post("/", h.handleCreatePerson)
			r.Route("/{personID}", func(r chi.Router) {
				r.Get("/", h.handleGetPerson)
				r.Patch("/", h.handleUpdatePerson)
				r.Delete("/", h.handleDeletePerson)
				r.Post("/verification-email", h.handleVerificationEmail)
				r.Get("/addresses", h.handleListPersonAddresses)
			})
		})

		r.Get("/addresses/{addressID}", h.handleGetAddress)
	})
}

func companyIDParam(r *http.Request) (id.CompanyID, error) {
	return id.ParseCompanyID(chi.URLParam(r, "companyID"))
}

func personIDParam(r *http.Request) (id.PersonID, error) {
	return id.ParsePersonID(chi.URLParam(r, "personID"))
}

func pageParam(r *http.Request) (models.Page, error) {
	skip, limit, err := httputil.ParsePage(r)
	if err != nil {
		return models.Page{}, err
	}
	return models.Page{Skip: skip, Limit: limit}, nil
}

// decode reads a request DTO; on failure the error response is already written.
func decode[T any](h *Handler, w http.ResponseWriter, r *http.Request) (*T, bool) {
	ctx := r.Context()
	return httputil.DecodeAndPrepare[T](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	level := slog.LevelWarn
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, op+" failed",
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
