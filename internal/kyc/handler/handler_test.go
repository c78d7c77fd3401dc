package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"kyc/internal/kyc/handler/mocks"
	"kyc/internal/kyc/models"
	"kyc/internal/kyc/service"
	"kyc/internal/platform/middleware"
	id "kyc/pkg/domain"
	dErrors "kyc/pkg/domain-errors"
	"kyc/pkg/testutil"
)

type allowAll struct{}

func (allowAll) ValidateToken(_ context.Context, token string) (id.UserID, error) {
	if token == "" || token == "bad" {
		return id.UserID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	return id.NewUserID(), nil
}

type KYCHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
	now     time.Time
}

func TestKYCHandlerSuite(t *testing.T) {
	suite.Run(t, new(KYCHandlerSuite))
}

func (s *KYCHandlerSuite) SetupTest() {
	s.service = mocks.NewMockService(gomock.NewController(s.T()))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = chi.NewRouter()
	New(s.service, logger).Register(s.router, middleware.RequireAuth(allowAll{}, logger))
	s.now = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
}

func (s *KYCHandlerSuite) do(req *http.Request) *httptest.ResponseRecorder {
	return testutil.DoRequest(s.router, testutil.WithBearer(req, "ok"))
}

func (s *KYCHandlerSuite) company(status models.Status) *models.Company {
	return &models.Company{ID: id.NewCompanyID(), Name: "Acme", IDNumber: "12345678", Status: status, CreatedAt: s.now, UpdatedAt: s.now}
}

func (s *KYCHandlerSuite) TestOperatorRoutesRequireToken() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/companies"))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
}

func (s *KYCHandlerSuite) TestCreateCompany() {
	c := s.company(models.StatusNew)
	s.service.EXPECT().CreateCompany(gomock.Any(), service.CreateCompanyInput{
		Name:     "Acme",
		IDNumber: "12345678",
		Address:  &models.AddressInput{City: "Bratislava", Street: "Hlavná", Number: "1", Zip: "81101"},
	}).Return(c, nil)

	res := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/companies", CreateCompanyRequest{
		Name:     " Acme ",
		IDNumber: "12345678",
		Address:  &AddressRequest{City: "Bratislava", Street: "Hlavná", Number: "1", Zip: "81101"},
	}))

	testutil.AssertStatus(s.T(), res, http.StatusCreated)
	body := testutil.UnmarshalResponse[CompanyResponse](s.T(), res)
	s.Equal(c.ID.String(), body.ID)
	s.Equal(1, body.Status)
	s.Equal("new", body.StatusName)
}

func (s *KYCHandlerSuite) TestCreateCompanyValidation() {
	res := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/companies", CreateCompanyRequest{Name: "Acme"}))
	testutil.AssertStatusAndError(s.T(), res, http.StatusBadRequest, "validation_error")

	res = s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/companies", CreateCompanyRequest{
		Name: "Acme", IDNumber: "12345678901234567",
	}))
	testutil.AssertStatusAndError(s.T(), res, http.StatusBadRequest, "validation_error")
}

func (s *KYCHandlerSuite) TestCreateCompanyConflict() {
	s.service.EXPECT().CreateCompany(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeConflict, "company already exists"))
	res := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/companies", CreateCompanyRequest{Name: "Acme", IDNumber: "1"}))
	testutil.AssertStatusAndError(s.T(), res, http.StatusConflict, "conflict")
}

func (s *KYCHandlerSuite) TestListAndSearchCompanies() {
	s.service.EXPECT().ListCompanies(gomock.Any(), models.Page{Skip: 0, Limit: 20}).
		Return([]*models.Company{s.company(models.StatusNew)}, nil)
	res := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/companies?limit=20"))
	testutil.AssertStatusOK(s.T(), res)
	s.Len(*testutil.UnmarshalResponse[[]CompanyResponse](s.T(), res), 1)

	res = s.do(testutil.NewRequest(s.T(), http.MethodGet, "/companies?limit=x"))
	testutil.AssertStatus(s.T(), res, http.StatusBadRequest)

	s.service.EXPECT().Search(gomock.Any(), "novak").Return(nil, nil)
	res = s.do(testutil.NewRequest(s.T(), http.MethodGet, "/companies/search?q=novak"))
	testutil.AssertStatusOK(s.T(), res)
	s.JSONEq("[]", res.Body.String())

	res = s.do(testutil.NewRequest(s.T(), http.MethodGet, "/companies/search?q=+"))
	testutil.AssertStatusAndError(s.T(), res, http.StatusBadRequest, "validation_error")
}

func (s *KYCHandlerSuite) TestGetCompany() {
	c := s.company(models.StatusAMLCleared)
	s.service.EXPECT().GetCompany(gomock.Any(), c.ID).Return(c, nil)
	res := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/companies/"+c.ID.String()))
	testutil.AssertStatusOK(s.T(), res)
	testutil.AssertJSONContains(s.T(), res, "status_name", "aml_cleared")

	res = s.do(testutil.NewRequest(s.T(), http.MethodGet, "/companies/not-a-uuid"))
	testutil.AssertStatus(s.T(), res, http.StatusBadRequest)

	missing := id.NewCompanyID()
	s.service.EXPECT().GetCompany(gomock.Any(), missing).Return(nil, dErrors.New(dErrors.CodeNotFound, "company not found"))
	res = s.do(testutil.NewRequest(s.T(), http.MethodGet, "/companies/"+missing.String()))
	testutil.AssertStatusAndError(s.T(), res, http.StatusNotFound, "not_found")
}

func (s *KYCHandlerSuite) TestUpdateCompany() {
	c := s.company(models.StatusNew)
	name := "Acme Holding"
	s.service.EXPECT().UpdateCompany(gomock.Any(), c.ID, models.CompanyUpdate{Name: &name}).Return(c, nil)
	res := s.do(testutil.NewJSONRequest(s.T(), http.MethodPatch, "/companies/"+c.ID.String(), map[string]string{"name": name}))
	testutil.AssertStatusOK(s.T(), res)

	res = s.do(testutil.NewJSONRequest(s.T(), http.MethodPatch, "/companies/"+c.ID.String(), map[string]string{"name": "  "}))
	testutil.AssertStatusAndError(s.T(), res, http.StatusBadRequest, "validation_error")
}

func (s *KYCHandlerSuite) TestRequestAML() {
	c := s.company(models.StatusBeneficiaryAdded)
	s.service.EXPECT().RequestAML(gomock.Any(), c.ID).
		Return(nil, dErrors.New(dErrors.CodePreconditionFailed, "company has no beneficiaries"))
	res := s.do(testutil.NewRequest(s.T(), http.MethodPost, "/companies/"+c.ID.String()+"/aml"))
	testutil.AssertStatusAndError(s.T(), res, http.StatusUnprocessableEntity, "precondition_failed")

	cleared := s.company(models.StatusAMLCleared)
	s.service.EXPECT().RequestAML(gomock.Any(), cleared.ID).Return(cleared, nil)
	res = s.do(testutil.NewRequest(s.T(), http.MethodPost, "/companies/"+cleared.ID.String()+"/aml"))
	testutil.AssertStatusOK(s.T(), res)
	testutil.AssertJSONContains(s.T(), res, "status", float64(3))
}

func (s *KYCHandlerSuite) TestEnrichmentRoutes() {
	s.service.EXPECT().LookupCompanyProfile(gomock.Any(), "12345678").
		Return(&models.CompanyProfile{IDNumber: "12345678", Name: "Acme"}, nil)
	res := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/companies/profile/12345678"))
	testutil.AssertStatusOK(s.T(), res)
	testutil.AssertJSONContains(s.T(), res, "name", "Acme")

	c := s.company(models.StatusNew)
	s.service.EXPECT().EnrichCompany(gomock.Any(), c.ID).
		Return(nil, dErrors.New(dErrors.CodeExternalService, "company data registry unavailable"))
	res = s.do(testutil.NewRequest(s.T(), http.MethodPost, "/companies/"+c.ID.String()+"/enrich"))
	testutil.AssertStatusAndError(s.T(), res, http.StatusBadGateway, "external_service_error")
}

func (s *KYCHandlerSuite) TestBeneficiaries() {
	c := s.company(models.StatusNew)
	b := &models.Beneficiary{ID: id.NewBeneficiaryID(), CompanyID: c.ID, Name: "Eva", Surname: "Mala", CreatedAt: s.now}

	s.service.EXPECT().CreateBeneficiary(gomock.Any(), c.ID, "Eva", "Mala").Return(b, nil)
	res := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/companies/"+c.ID.String()+"/beneficiaries",
		CreateBeneficiaryRequest{Name: " Eva", Surname: "Mala "}))
	testutil.AssertStatus(s.T(), res, http.StatusCreated)

	res = s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/companies/"+c.ID.String()+"/beneficiaries",
		CreateBeneficiaryRequest{Name: "Eva"}))
	testutil.AssertStatusAndError(s.T(), res, http.StatusBadRequest, "validation_error")

	s.service.EXPECT().ListBeneficiaries(gomock.Any(), c.ID).Return([]*models.Beneficiary{b}, nil)
	res = s.do(testutil.NewRequest(s.T(), http.MethodGet, "/companies/"+c.ID.String()+"/beneficiaries"))
	testutil.AssertStatusOK(s.T(), res)

	s.service.EXPECT().DeleteBeneficiary(gomock.Any(), b.ID).Return(nil)
	res = s.do(testutil.NewRequest(s.T(), http.MethodDelete, "/beneficiaries/"+b.ID.String()))
	testutil.AssertStatus(s.T(), res, http.StatusNoContent)
}

func (s *KYCHandlerSuite) TestCreatePersons() {
	c := s.company(models.StatusNew)
	p := &models.Person{ID: id.NewPersonID(), CompanyID: c.ID, Name: "Jan", Surname: "Novak"}

	s.service.EXPECT().CreatePerson(gomock.Any(), c.ID, models.PersonInput{Name: "Jan", Surname: "Novak", Email: "jan@example.com"}).
		Return(p, nil)
	res := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/companies/"+c.ID.String()+"/persons",
		CreatePersonRequest{Name: "Jan", Surname: "Novak", Email: "jan@example.com"}))
	testutil.AssertStatus(s.T(), res, http.StatusCreated)
	testutil.AssertJSONContains(s.T(), res, "company_id", c.ID.String())

	unlinked := &models.Person{ID: id.NewPersonID(), Name: "Eva"}
	s.service.EXPECT().CreatePerson(gomock.Any(), id.CompanyID{}, models.PersonInput{Name: "Eva"}).Return(unlinked, nil)
	res = s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/persons", CreatePersonRequest{Name: "Eva"}))
	testutil.AssertStatus(s.T(), res, http.StatusCreated)
	s.NotContains(res.Body.String(), "company_id")

	res = s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/persons", CreatePersonRequest{CompanyID: "nope", Name: "Eva"}))
	testutil.AssertStatusAndError(s.T(), res, http.StatusBadRequest, "validation_error")
}

func (s *KYCHandlerSuite) TestPersonDetailIncludesDocuments() {
	p := &models.Person{ID: id.NewPersonID(), Name: "Jan", VerificationPhoto: "cGhvdG8="}
	s.service.EXPECT().GetPerson(gomock.Any(), p.ID).Return(p, nil)
	res := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/persons/"+p.ID.String()))
	testutil.AssertStatusOK(s.T(), res)
	testutil.AssertJSONContains(s.T(), res, "verification_photo", "cGhvdG8=")

	s.service.EXPECT().ListPersons(gomock.Any(), models.Page{}).Return([]*models.Person{p}, nil)
	res = s.do(testutil.NewRequest(s.T(), http.MethodGet, "/persons"))
	testutil.AssertStatusOK(s.T(), res)
	s.NotContains(res.Body.String(), "verification_photo")
}

func (s *KYCHandlerSuite) TestVerificationEmails() {
	personID := id.NewPersonID()
	s.service.EXPECT().RequestVerificationEmail(gomock.Any(), personID, "en").Return(nil)
	res := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/persons/"+personID.String()+"/verification-email",
		VerificationEmailRequest{Language: "en"}))
	testutil.AssertStatus(s.T(), res, http.StatusAccepted)

	res = s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/persons/"+personID.String()+"/verification-email",
		VerificationEmailRequest{Language: "de"}))
	testutil.AssertStatusAndError(s.T(), res, http.StatusBadRequest, "validation_error")

	s.service.EXPECT().RequestVerificationEmail(gomock.Any(), personID, "").
		Return(dErrors.New(dErrors.CodeConflict, "person is already verified"))
	res = s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/persons/"+personID.String()+"/verification-email",
		VerificationEmailRequest{}))
	testutil.AssertStatusAndError(s.T(), res, http.StatusConflict, "conflict")

	c := s.company(models.StatusAMLCleared)
	other := id.NewPersonID()
	s.service.EXPECT().RequestVerificationEmailBulk(gomock.Any(), c.ID, []id.PersonID{personID, other}, "sk").Return(1, nil)
	res = s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/companies/"+c.ID.String()+"/verification-emails",
		BulkVerificationEmailRequest{PersonIDs: []string{personID.String(), other.String()}, Language: "sk"}))
	testutil.AssertStatus(s.T(), res, http.StatusAccepted)
	testutil.AssertJSONContains(s.T(), res, "requested", float64(1))
}

func (s *KYCHandlerSuite) TestPublicVerificationRoutes() {
	personID := id.NewPersonID()

	s.Run("eligibility needs no token", func() {
		s.service.EXPECT().CheckEligibility(gomock.Any(), personID).
			Return([]models.EligibleCompany{{Name: "Acme", IDNumber: "12345678"}}, nil)
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/verification/"+personID.String()+"/eligibility"))
		testutil.AssertStatusOK(s.T(), rr)
		s.Contains(rr.Body.String(), `"id_number":"12345678"`)
	})
	s.Run("already verified", func() {
		s.service.EXPECT().CheckEligibility(gomock.Any(), personID).
			Return(nil, dErrors.New(dErrors.CodeAlreadyVerified, "person is already verified"))
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/verification/"+personID.String()+"/eligibility"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "already_verified")
	})
	s.Run("no company", func() {
		s.service.EXPECT().CheckEligibility(gomock.Any(), personID).
			Return(nil, dErrors.New(dErrors.CodeNoCompany, "person has no company"))
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/verification/"+personID.String()+"/eligibility"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "no_company")
	})
	s.Run("submit", func() {
		s.service.EXPECT().SubmitVerification(gomock.Any(), personID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ id.PersonID, in service.SubmitVerificationInput) (*models.Person, error) {
				s.Equal("cGhvdG8=", in.Profile.Photo)
				s.Equal("Jan", in.Profile.Name)
				s.Equal("en", in.Language)
				return &models.Person{ID: personID, VerifiedAt: &s.now}, nil
			})
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/verification/"+personID.String(),
			SubmitVerificationRequest{Name: "Jan", Photo: "cGhvdG8=", Language: "en"}))
		testutil.AssertStatusOK(s.T(), rr)
	})
	s.Run("submit without photo", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/verification/"+personID.String(),
			SubmitVerificationRequest{Name: "Jan"}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})
	s.Run("face match collaborator failure", func() {
		s.service.EXPECT().VerifyFaceMatch(gomock.Any(), personID, "ref", "sub").
			Return(false, dErrors.New(dErrors.CodeExternalService, "face match failed"))
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/verification/"+personID.String()+"/face-match",
			FaceMatchRequest{ReferencePhoto: "ref", SubmittedPhoto: "sub"}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadGateway, "external_service_error")
	})
	s.Run("face match verdict", func() {
		s.service.EXPECT().VerifyFaceMatch(gomock.Any(), personID, "ref", "sub").Return(true, nil)
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/verification/"+personID.String()+"/face-match",
			FaceMatchRequest{ReferencePhoto: "ref", SubmittedPhoto: "sub"}))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "verified", true)
	})
}

func (s *KYCHandlerSuite) TestAddresses() {
	c := s.company(models.StatusNew)
	a := &models.Address{ID: id.NewAddressID(), CompanyID: c.ID, City: "Bratislava"}
	s.service.EXPECT().ListAddressesByCompany(gomock.Any(), c.ID).Return([]*models.Address{a}, nil)
	res := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/companies/"+c.ID.String()+"/addresses"))
	testutil.AssertStatusOK(s.T(), res)
	s.NotContains(res.Body.String(), "person_id")

	s.service.EXPECT().GetAddress(gomock.Any(), a.ID).Return(a, nil)
	res = s.do(testutil.NewRequest(s.T(), http.MethodGet, "/addresses/"+a.ID.String()))
	testutil.AssertStatusOK(s.T(), res)
	testutil.AssertJSONContains(s.T(), res, "city", "Bratislava")
}

func TestPublicMiddlewareWrapsVerificationRoutesOnly(t *testing.T) {
	svc := mocks.NewMockService(gomock.NewController(t))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	blocked := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
	}
	router := chi.NewRouter()
	New(svc, logger, WithPublicMiddleware(blocked)).Register(router, middleware.RequireAuth(allowAll{}, logger))

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/verification/"+id.NewPersonID().String()+"/eligibility"))
	testutil.AssertStatus(t, rr, http.StatusTooManyRequests)

	svc.EXPECT().ListCompanies(gomock.Any(), models.Page{}).Return(nil, nil)
	req := testutil.NewRequest(t, http.MethodGet, "/companies")
	testutil.AssertStatusOK(t, testutil.DoRequest(router, testutil.WithBearer(req, "ok")))
}
