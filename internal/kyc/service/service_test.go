package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"kyc/internal/kyc/metrics"
	"kyc/internal/kyc/models"
	"kyc/internal/kyc/ports"
	"kyc/internal/kyc/ports/mocks"
	"kyc/internal/kyc/store/address"
	"kyc/internal/kyc/store/beneficiary"
	"kyc/internal/kyc/store/company"
	"kyc/internal/kyc/store/person"
	id "kyc/pkg/domain"
	dErrors "kyc/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite
	ctx      context.Context
	ctrl     *gomock.Controller
	notifier *mocks.MockNotifier
	stores   Stores
	service  *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.notifier = mocks.NewMockNotifier(s.ctrl)
	s.stores = Stores{
		Companies:     company.NewInMemory(),
		Persons:       person.NewInMemory(),
		Beneficiaries: beneficiary.NewInMemory(),
		Addresses:     address.NewInMemory(),
	}
	s.service = s.newService(WithNotifier(s.notifier))
}

func (s *ServiceSuite) newService(opts ...Option) *Service {
	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(metrics.New(nil)),
	}
	return New(s.stores, append(base, opts...)...)
}

func (s *ServiceSuite) allowEmails() {
	s.notifier.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

var idCounter int

func (s *ServiceSuite) createCompany(name string) *models.Company {
	idCounter++
	c, err := s.service.CreateCompany(s.ctx, CreateCompanyInput{Name: name, IDNumber: fmt.Sprintf("%08d", idCounter)})
	s.Require().NoError(err)
	return c
}

func (s *ServiceSuite) createPerson(companyID id.CompanyID, email string) *models.Person {
	p, err := s.service.CreatePerson(s.ctx, companyID, models.PersonInput{Email: email, Name: "Jana", Surname: email})
	s.Require().NoError(err)
	return p
}

func (s *ServiceSuite) status(companyID id.CompanyID) models.Status {
	c, err := s.service.GetCompany(s.ctx, companyID)
	s.Require().NoError(err)
	return c.Status
}

func (s *ServiceSuite) submit(personID id.PersonID) error {
	_, err := s.service.SubmitVerification(s.ctx, personID, SubmitVerificationInput{
		Profile: models.VerificationProfile{Name: "Jana", Surname: "Kovac", Photo: "cGhvdG8="},
	})
	return err
}

// companyAt drives a fresh company to VERIFICATION_REQUESTED with the given
// number of unverified persons.
func (s *ServiceSuite) companyAt4(persons int) (*models.Company, []*models.Person) {
	c := s.createCompany("Acme")
	_, err := s.service.CreateBeneficiary(s.ctx, c.ID, "Ben", "Owner")
	s.Require().NoError(err)
	_, err = s.service.RequestAML(s.ctx, c.ID)
	s.Require().NoError(err)

	var out []*models.Person
	for i := 0; i < persons; i++ {
		out = append(out, s.createPerson(c.ID, fmt.Sprintf("p%d@example.com", i)))
	}
	s.Require().NoError(s.service.RequestVerificationEmail(s.ctx, out[0].ID, "sk"))
	s.Require().Equal(models.StatusVerificationRequested, s.status(c.ID))
	return c, out
}

func (s *ServiceSuite) TestScenario() {
	s.allowEmails()

	c, err := s.service.CreateCompany(s.ctx, CreateCompanyInput{Name: "Acme Corp", IDNumber: "12345678"})
	s.Require().NoError(err)
	s.Equal(models.StatusNew, s.status(c.ID))

	_, err = s.service.CreateBeneficiary(s.ctx, c.ID, "A", "B")
	s.Require().NoError(err)
	s.Equal(models.StatusBeneficiaryAdded, s.status(c.ID))

	_, err = s.service.RequestAML(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusAMLCleared, s.status(c.ID))

	p := s.createPerson(c.ID, "only@example.com")
	s.Require().NoError(s.service.RequestVerificationEmail(s.ctx, p.ID, "en"))
	s.Equal(models.StatusVerificationRequested, s.status(c.ID))

	s.Require().NoError(s.submit(p.ID))
	s.Equal(models.StatusFullyVerified, s.status(c.ID))
}

func (s *ServiceSuite) TestCreateCompany() {
	s.Run("duplicate id number is a conflict", func() {
		_, err := s.service.CreateCompany(s.ctx, CreateCompanyInput{Name: "One", IDNumber: "11111111"})
		s.Require().NoError(err)
		_, err = s.service.CreateCompany(s.ctx, CreateCompanyInput{Name: "Two", IDNumber: "11111111"})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("missing name is a validation error", func() {
		_, err := s.service.CreateCompany(s.ctx, CreateCompanyInput{IDNumber: "22222222"})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("stores the supplied address", func() {
		c, err := s.service.CreateCompany(s.ctx, CreateCompanyInput{
			Name:     "Addressed",
			IDNumber: "33333333",
			Address:  &models.AddressInput{City: "Kosice", Street: "Main", Number: "2", Zip: "04001"},
		})
		s.Require().NoError(err)
		addresses, err := s.service.ListAddressesByCompany(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Require().Len(addresses, 1)
		s.Equal("Kosice", addresses[0].City)
	})
}

func (s *ServiceSuite) TestRegistryAutoPopulation() {
	registry := mocks.NewMockRegistryLookup(s.ctrl)
	svc := s.newService(WithRegistryLookup(registry))

	s.Run("adds listed persons once", func() {
		registry.EXPECT().LookupPersons(gomock.Any(), "44444444").Return([]ports.RegistryPerson{
			{Name: "Jan", Surname: "Novak"},
			{Name: "Jan ", Surname: "Novak"},
			{Name: "Eva", Surname: "Mala"},
		}, nil)

		c, err := svc.CreateCompany(s.ctx, CreateCompanyInput{Name: "Listed", IDNumber: "44444444"})
		s.Require().NoError(err)

		persons, err := svc.ListPersonsByCompany(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Len(persons, 2)
		s.Equal(models.StatusNew, s.status(c.ID))
	})

	s.Run("lookup failure does not fail creation", func() {
		registry.EXPECT().LookupPersons(gomock.Any(), "55555555").Return(nil, errors.New("register down"))

		c, err := svc.CreateCompany(s.ctx, CreateCompanyInput{Name: "Unlisted", IDNumber: "55555555"})
		s.Require().NoError(err)
		persons, err := svc.ListPersonsByCompany(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Empty(persons)
	})
}

func (s *ServiceSuite) TestBeneficiaries() {
	s.Run("second beneficiary keeps status 2", func() {
		c := s.createCompany("Acme")
		_, err := s.service.CreateBeneficiary(s.ctx, c.ID, "A", "One")
		s.Require().NoError(err)
		_, err = s.service.CreateBeneficiary(s.ctx, c.ID, "B", "Two")
		s.Require().NoError(err)
		s.Equal(models.StatusBeneficiaryAdded, s.status(c.ID))
	})

	s.Run("duplicate live beneficiary is a conflict", func() {
		c := s.createCompany("Acme")
		_, err := s.service.CreateBeneficiary(s.ctx, c.ID, "A", "One")
		s.Require().NoError(err)
		_, err = s.service.CreateBeneficiary(s.ctx, c.ID, "A", "One")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("unknown company", func() {
		_, err := s.service.CreateBeneficiary(s.ctx, id.NewCompanyID(), "A", "One")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("deleting one of two keeps status", func() {
		c := s.createCompany("Acme")
		first, err := s.service.CreateBeneficiary(s.ctx, c.ID, "A", "One")
		s.Require().NoError(err)
		_, err = s.service.CreateBeneficiary(s.ctx, c.ID, "B", "Two")
		s.Require().NoError(err)

		s.Require().NoError(s.service.DeleteBeneficiary(s.ctx, first.ID))
		s.Equal(models.StatusBeneficiaryAdded, s.status(c.ID))

		err = s.service.DeleteBeneficiary(s.ctx, first.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestDeletingLastBeneficiaryResetsFromAnyStatus() {
	s.allowEmails()

	c, persons := s.companyAt4(2)
	s.Require().NoError(s.submit(persons[0].ID))
	s.Require().NoError(s.submit(persons[1].ID))
	s.Require().Equal(models.StatusFullyVerified, s.status(c.ID))

	beneficiaries, err := s.service.ListBeneficiaries(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Require().Len(beneficiaries, 1)

	s.Require().NoError(s.service.DeleteBeneficiary(s.ctx, beneficiaries[0].ID))
	s.Equal(models.StatusNew, s.status(c.ID))
}

func (s *ServiceSuite) TestRequestAML() {
	s.Run("no beneficiaries", func() {
		c := s.createCompany("Acme")
		_, err := s.service.RequestAML(s.ctx, c.ID)
		s.True(dErrors.HasCode(err, dErrors.CodePreconditionFailed))
		s.Equal(models.StatusNew, s.status(c.ID))
	})

	s.Run("repeat request is a no-op", func() {
		c := s.createCompany("Acme")
		_, err := s.service.CreateBeneficiary(s.ctx, c.ID, "A", "B")
		s.Require().NoError(err)
		_, err = s.service.RequestAML(s.ctx, c.ID)
		s.Require().NoError(err)

		again, err := s.service.RequestAML(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusAMLCleared, again.Status)
	})

	s.Run("unknown company", func() {
		_, err := s.service.RequestAML(s.ctx, id.NewCompanyID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestVerification() {
	s.allowEmails()

	s.Run("status waits for the last unverified person", func() {
		c, persons := s.companyAt4(2)
		s.Require().NoError(s.submit(persons[0].ID))
		s.Equal(models.StatusVerificationRequested, s.status(c.ID))
		s.Require().NoError(s.submit(persons[1].ID))
		s.Equal(models.StatusFullyVerified, s.status(c.ID))
	})

	s.Run("re-verification is a conflict at any status", func() {
		c, persons := s.companyAt4(1)
		s.Require().NoError(s.submit(persons[0].ID))
		s.Require().Equal(models.StatusFullyVerified, s.status(c.ID))

		err := s.submit(persons[0].ID)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Equal(models.StatusFullyVerified, s.status(c.ID))
	})

	s.Run("new person reopens a fully verified company", func() {
		c, persons := s.companyAt4(1)
		s.Require().NoError(s.submit(persons[0].ID))
		s.Require().Equal(models.StatusFullyVerified, s.status(c.ID))

		s.createPerson(c.ID, "late@example.com")
		s.Equal(models.StatusVerificationRequested, s.status(c.ID))
	})

	s.Run("deleted persons do not block completion", func() {
		c, persons := s.companyAt4(2)
		s.Require().NoError(s.service.DeletePerson(s.ctx, persons[1].ID))
		s.Require().NoError(s.submit(persons[0].ID))
		s.Equal(models.StatusFullyVerified, s.status(c.ID))

		_, err := s.service.GetPerson(s.ctx, persons[1].ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("submission replaces the person address", func() {
		_, persons := s.companyAt4(1)
		_, err := s.service.SubmitVerification(s.ctx, persons[0].ID, SubmitVerificationInput{
			Profile: models.VerificationProfile{
				Name:    "Jana",
				Surname: "Kovac",
				Photo:   "cGhvdG8=",
				Address: &models.AddressInput{City: "Zilina", Street: "Nova", Number: "5", Zip: "01001"},
			},
		})
		s.Require().NoError(err)
		addresses, err := s.service.ListAddressesByPerson(s.ctx, persons[0].ID)
		s.Require().NoError(err)
		s.Require().Len(addresses, 1)
		s.Equal("Zilina", addresses[0].City)
	})

	s.Run("unknown person", func() {
		err := s.submit(id.NewPersonID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

type flakyCompanies struct {
	CompanyStore
	failUpdates bool
}

func (f *flakyCompanies) Update(ctx context.Context, c *models.Company) error {
	if f.failUpdates {
		return errors.New("company write failed")
	}
	return f.CompanyStore.Update(ctx, c)
}

func (s *ServiceSuite) TestFailedPromotionLeavesPersonUnverified() {
	s.allowEmails()
	c, persons := s.companyAt4(1)

	flaky := &flakyCompanies{CompanyStore: s.stores.Companies, failUpdates: true}
	s.stores.Companies = flaky
	s.service = s.newService(WithNotifier(s.notifier))

	err := s.submit(persons[0].ID)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	p, err := s.service.GetPerson(s.ctx, persons[0].ID)
	s.Require().NoError(err)
	s.False(p.IsVerified())
	s.Equal(models.StatusVerificationRequested, s.status(c.ID))

	flaky.failUpdates = false
	s.Require().NoError(s.submit(persons[0].ID))
	s.Equal(models.StatusFullyVerified, s.status(c.ID))

	cleared := s.createCompany("Beta")
	_, err = s.service.CreateBeneficiary(s.ctx, cleared.ID, "Ben", "Owner")
	s.Require().NoError(err)
	_, err = s.service.RequestAML(s.ctx, cleared.ID)
	s.Require().NoError(err)
	invited := s.createPerson(cleared.ID, "invited@example.com")

	flaky.failUpdates = true
	err = s.service.RequestVerificationEmail(s.ctx, invited.ID, "sk")
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	p, err = s.service.GetPerson(s.ctx, invited.ID)
	s.Require().NoError(err)
	s.Nil(p.RequestedAt)
	s.Equal(models.StatusAMLCleared, s.status(cleared.ID))
}

func (s *ServiceSuite) TestRequestVerificationEmail() {
	s.Run("sends the verification template", func() {
		c := s.createCompany("Acme")
		p := s.createPerson(c.ID, "jana@example.com")

		s.notifier.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e ports.Email) error {
			s.Equal(ports.TemplateVerification, e.Template)
			s.Equal(models.LanguageEnglish, e.Language)
			s.Equal("jana@example.com", e.To)
			s.Equal(p.ID.String(), e.Params["person_id"])
			return nil
		})
		s.Require().NoError(s.service.RequestVerificationEmail(s.ctx, p.ID, "en"))

		stored, err := s.service.GetPerson(s.ctx, p.ID)
		s.Require().NoError(err)
		s.NotNil(stored.RequestedAt)
		s.Equal(models.StatusNew, s.status(c.ID), "only AML_CLEARED advances")
	})

	s.Run("unsupported language changes nothing", func() {
		c := s.createCompany("Acme")
		p := s.createPerson(c.ID, "jana@example.com")

		err := s.service.RequestVerificationEmail(s.ctx, p.ID, "de")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		stored, err := s.service.GetPerson(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Nil(stored.RequestedAt)
	})

	s.Run("notifier failure does not fail the request", func() {
		c := s.createCompany("Acme")
		p := s.createPerson(c.ID, "jana@example.com")
		s.notifier.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("smtp down"))
		s.NoError(s.service.RequestVerificationEmail(s.ctx, p.ID, "sk"))
	})

	s.Run("verified person is a conflict", func() {
		s.allowEmails()
		_, persons := s.companyAt4(1)
		s.Require().NoError(s.submit(persons[0].ID))
		err := s.service.RequestVerificationEmail(s.ctx, persons[0].ID, "sk")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("unknown person", func() {
		err := s.service.RequestVerificationEmail(s.ctx, id.NewPersonID(), "sk")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestRequestVerificationEmailBulk() {
	s.allowEmails()
	c := s.createCompany("Acme")
	_, err := s.service.CreateBeneficiary(s.ctx, c.ID, "A", "B")
	s.Require().NoError(err)
	_, err = s.service.RequestAML(s.ctx, c.ID)
	s.Require().NoError(err)

	withEmail := s.createPerson(c.ID, "a@example.com")
	noEmail, err := s.service.CreatePerson(s.ctx, c.ID, models.PersonInput{Name: "No", Surname: "Mail"})
	s.Require().NoError(err)
	other := s.createPerson(s.createCompany("Other").ID, "o@example.com")

	s.Run("subset with failures is partial success", func() {
		n, err := s.service.RequestVerificationEmailBulk(s.ctx, c.ID,
			[]id.PersonID{withEmail.ID, noEmail.ID, other.ID, id.NewPersonID()}, "sk")
		s.Require().NoError(err)
		s.Equal(1, n)
		s.Equal(models.StatusVerificationRequested, s.status(c.ID))
	})

	s.Run("all unverified persons", func() {
		n, err := s.service.RequestVerificationEmailBulk(s.ctx, c.ID, nil, "sk")
		s.Require().NoError(err)
		s.Equal(1, n, "the person without email is skipped")
	})

	s.Run("unknown company", func() {
		_, err := s.service.RequestVerificationEmailBulk(s.ctx, id.NewCompanyID(), nil, "sk")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestCheckEligibility() {
	s.allowEmails()

	s.Run("linked person", func() {
		c := s.createCompany("Acme")
		p := s.createPerson(c.ID, "a@example.com")
		eligible, err := s.service.CheckEligibility(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Equal([]models.EligibleCompany{{Name: "Acme", IDNumber: c.IDNumber}}, eligible)
	})

	s.Run("unlinked person", func() {
		p := s.createPerson(id.CompanyID{}, "free@example.com")
		_, err := s.service.CheckEligibility(s.ctx, p.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNoCompany))
	})

	s.Run("verified person", func() {
		_, persons := s.companyAt4(1)
		s.Require().NoError(s.submit(persons[0].ID))
		_, err := s.service.CheckEligibility(s.ctx, persons[0].ID)
		s.True(dErrors.HasCode(err, dErrors.CodeAlreadyVerified))
	})

	s.Run("unknown person", func() {
		_, err := s.service.CheckEligibility(s.ctx, id.NewPersonID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestVerifyFaceMatch() {
	matcher := mocks.NewMockFaceMatcher(s.ctrl)
	svc := s.newService(WithFaceMatcher(matcher))
	c := s.createCompany("Acme")
	p := s.createPerson(c.ID, "a@example.com")

	s.Run("returns the collaborator verdict", func() {
		matcher.EXPECT().Match(gomock.Any(), "ref", "sub").Return(true, nil)
		ok, err := svc.VerifyFaceMatch(s.ctx, p.ID, "ref", "sub")
		s.Require().NoError(err)
		s.True(ok)
	})

	s.Run("collaborator failure is an external service error", func() {
		matcher.EXPECT().Match(gomock.Any(), "ref", "sub").Return(false, errors.New("timeout"))
		_, err := svc.VerifyFaceMatch(s.ctx, p.ID, "ref", "sub")
		s.True(dErrors.HasCode(err, dErrors.CodeExternalService))
	})

	s.Run("unknown person is not matched", func() {
		_, err := svc.VerifyFaceMatch(s.ctx, id.NewPersonID(), "ref", "sub")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestSearch() {
	acme := s.createCompany("Acme Corp")
	_, err := s.service.CreateBeneficiary(s.ctx, acme.ID, "Acme", "Holder")
	s.Require().NoError(err)

	other := s.createCompany("Other")
	_, err = s.service.CreatePerson(s.ctx, other.ID, models.PersonInput{Name: "Jana", Surname: "Acmeova"})
	s.Require().NoError(err)

	s.createCompany("Unrelated")

	found, err := s.service.Search(s.ctx, "acme")
	s.Require().NoError(err)
	s.Require().Len(found, 2)
	s.Equal("Acme Corp", found[0].Name)
	s.Equal("Other", found[1].Name)

	_, err = s.service.Search(s.ctx, "  ")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestEnrichment() {
	enricher := mocks.NewMockEnricher(s.ctrl)
	svc := s.newService(WithEnricher(enricher))

	s.Run("lookup validates id number length", func() {
		_, err := svc.LookupCompanyProfile(s.ctx, "12345")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		_, err = svc.LookupCompanyProfile(s.ctx, "123456789")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("enrich overwrites name and address", func() {
		c, err := svc.CreateCompany(s.ctx, CreateCompanyInput{
			Name:     "old name",
			IDNumber: "35757442",
			Address:  &models.AddressInput{City: "Old"},
		})
		s.Require().NoError(err)
		enricher.EXPECT().Lookup(gomock.Any(), "35757442").Return(&models.CompanyProfile{
			IDNumber: "35757442",
			Name:     "New Name s.r.o.",
			DIC:      "2020202020",
			City:     "Bratislava",
			Street:   "Hlavna",
		}, nil)

		enriched, err := svc.EnrichCompany(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Equal("New Name s.r.o.", enriched.Name)
		s.Equal("2020202020", enriched.DIC)
		s.NotNil(enriched.EnrichedAt)

		addresses, err := svc.ListAddressesByCompany(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Require().Len(addresses, 1)
		s.Equal("Bratislava", addresses[0].City)
	})

	s.Run("collaborator failure is an external service error", func() {
		enricher.EXPECT().Lookup(gomock.Any(), "36000000").Return(nil, errors.New("502"))
		_, err := svc.LookupCompanyProfile(s.ctx, "36000000")
		s.True(dErrors.HasCode(err, dErrors.CodeExternalService))
	})
}

func (s *ServiceSuite) TestPersonsAndCompaniesCRUD() {
	c := s.createCompany("Acme")
	p := s.createPerson(c.ID, "a@example.com")

	name := "Renamed"
	updated, err := s.service.UpdateCompany(s.ctx, c.ID, models.CompanyUpdate{Name: &name})
	s.Require().NoError(err)
	s.Equal("Renamed", updated.Name)

	empty := ""
	_, err = s.service.UpdateCompany(s.ctx, c.ID, models.CompanyUpdate{Name: &empty})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	email := "new@example.com"
	person, err := s.service.UpdatePerson(s.ctx, p.ID, models.PersonUpdate{Email: &email})
	s.Require().NoError(err)
	s.Equal(email, person.Email)

	companies, err := s.service.ListCompanies(s.ctx, models.Page{})
	s.Require().NoError(err)
	s.Len(companies, 1)

	s.Require().NoError(s.service.DeletePerson(s.ctx, p.ID))
	persons, err := s.service.ListPersons(s.ctx, models.Page{})
	s.Require().NoError(err)
	s.Empty(persons)
}

// TestConcurrentVerificationsPromoteOnce verifies every person of a company
// in parallel. Without per-company serialization two final verifications can
// each see the other as unverified and the company never reaches 5.
func (s *ServiceSuite) TestConcurrentVerificationsPromoteOnce() {
	s.allowEmails()
	for round := 0; round < 20; round++ {
		c, persons := s.companyAt4(8)

		var wg sync.WaitGroup
		errs := make(chan error, len(persons))
		for _, p := range persons {
			wg.Add(1)
			go func(personID id.PersonID) {
				defer wg.Done()
				errs <- s.submit(personID)
			}(p.ID)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			s.Require().NoError(err)
		}
		s.Require().Equal(models.StatusFullyVerified, s.status(c.ID), "round %d", round)
	}
}

func (s *ServiceSuite) TestStatusAlwaysInRange() {
	s.allowEmails()
	c, persons := s.companyAt4(3)
	ops := []func(){
		func() { _ = s.submit(persons[0].ID) },
		func() { s.createPerson(c.ID, "x@example.com") },
		func() { _, _ = s.service.RequestAML(s.ctx, c.ID) },
		func() { _ = s.submit(persons[1].ID) },
		func() { _ = s.submit(persons[2].ID) },
	}
	for _, op := range ops {
		op()
		st := s.status(c.ID)
		s.True(st.IsValid(), "status %d", st)
	}
}

func (s *ServiceSuite) TestCancelledContextIsTimeout() {
	c := s.createCompany("Acme")
	ctx, cancel := context.WithTimeout(s.ctx, time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	_, err := s.service.CreateBeneficiary(ctx, c.ID, "A", "B")
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
}
