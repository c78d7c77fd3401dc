//go:build integration

package person_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"kyc/internal/kyc/models"
	"kyc/internal/kyc/store/company"
	"kyc/internal/kyc/store/person"
	id "kyc/pkg/domain"
	"kyc/pkg/platform/sentinel"
	"kyc/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres  *containers.PostgresContainer
	store     *person.PostgresStore
	companies *company.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = person.NewPostgres(s.postgres.DB)
	s.companies = company.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "address", "beneficiary", "person", "company"))
}

func (s *PostgresStoreSuite) seedCompany(name string) id.CompanyID {
	c, err := models.NewCompany(id.NewCompanyID(), name, id.NewCompanyID().String()[:8], "", "", "", time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.companies.Create(context.Background(), c))
	return c.ID
}

func (s *PostgresStoreSuite) seedPerson(companyID id.CompanyID, surname string) *models.Person {
	p, err := models.NewPerson(id.NewPersonID(), companyID, models.PersonInput{
		Email:   surname + "@example.com",
		Name:    "Jana",
		Surname: surname,
	}, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(context.Background(), p))
	return p
}

func (s *PostgresStoreSuite) TestDeletedPersonsLeaveTheVerificationScan() {
	ctx := context.Background()
	companyID := s.seedCompany("Acme")
	kept := s.seedPerson(companyID, "Kovac")
	gone := s.seedPerson(companyID, "Novak")

	gone.ApplyDeletion(time.Now())
	s.Require().NoError(s.store.Update(ctx, gone))
	s.ErrorIs(s.store.Update(ctx, gone), sentinel.ErrNotFound)
	_, err := s.store.FindByID(ctx, gone.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	kept.ApplyVerification(models.VerificationProfile{Name: "Jana", Surname: "Kovac", Photo: "cGhvdG8="}, time.Now())
	s.Require().NoError(s.store.Update(ctx, kept))

	live, err := s.store.ListByCompany(ctx, companyID)
	s.Require().NoError(err)
	s.Require().Len(live, 1)
	s.Equal(kept.ID, live[0].ID)
	s.NotNil(live[0].VerifiedAt)
	s.Equal("cGhvdG8=", live[0].VerificationPhoto)

	facts := models.PersonFacts(live, 1)
	s.Equal(1, facts.LivePersons)
	s.Equal(0, facts.UnverifiedPersons)
}

func (s *PostgresStoreSuite) TestSearchSkipsDeletedAndUnlinkedPersons() {
	ctx := context.Background()
	acme := s.seedCompany("Acme")
	beta := s.seedPerson(s.seedCompany("Beta"), "Hidden")
	s.seedPerson(acme, "Kovac")
	s.seedPerson(acme, "kovacova")
	s.seedPerson(id.CompanyID{}, "Kovacik")

	beta.ApplyDeletion(time.Now())
	s.Require().NoError(s.store.Update(ctx, beta))

	ids, err := s.store.SearchCompanyIDs(ctx, "KOVAC")
	s.Require().NoError(err)
	s.Equal([]id.CompanyID{acme}, ids)

	ids, err = s.store.SearchCompanyIDs(ctx, "hidden")
	s.Require().NoError(err)
	s.Empty(ids)
}

func (s *PostgresStoreSuite) TestUnlinkedPersonAndUnknownCompany() {
	ctx := context.Background()
	unlinked := s.seedPerson(id.CompanyID{}, "Solo")

	found, err := s.store.FindByID(ctx, unlinked.ID)
	s.Require().NoError(err)
	s.True(found.CompanyID.IsNil())

	orphan, err := models.NewPerson(id.NewPersonID(), id.NewCompanyID(), models.PersonInput{Name: "A", Surname: "B"}, time.Now())
	s.Require().NoError(err)
	s.ErrorIs(s.store.Create(ctx, orphan), sentinel.ErrNotFound)
}
