//go:build integration

package address_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"kyc/internal/kyc/models"
	"kyc/internal/kyc/store/address"
	"kyc/internal/kyc/store/company"
	"kyc/internal/kyc/store/person"
	id "kyc/pkg/domain"
	"kyc/pkg/platform/sentinel"
	"kyc/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres  *containers.PostgresContainer
	store     *address.PostgresStore
	companies *company.PostgresStore
	persons   *person.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = address.NewPostgres(s.postgres.DB)
	s.companies = company.NewPostgres(s.postgres.DB)
	s.persons = person.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "address", "beneficiary", "person", "company"))
}

func (s *PostgresStoreSuite) seed() (id.CompanyID, id.PersonID) {
	ctx := context.Background()
	c, err := models.NewCompany(id.NewCompanyID(), "Acme", "12345678", "", "", "", time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.companies.Create(ctx, c))
	p, err := models.NewPerson(id.NewPersonID(), c.ID, models.PersonInput{Name: "Jana", Surname: "Kovac"}, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.persons.Create(ctx, p))
	return c.ID, p.ID
}

func (s *PostgresStoreSuite) TestOwnersKeepTheirOwnAddresses() {
	ctx := context.Background()
	companyID, personID := s.seed()

	hq, err := models.NewCompanyAddress(id.NewAddressID(), companyID, models.AddressInput{City: "Bratislava", Street: "Hlavna", Number: "1", Zip: "81101"}, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(ctx, hq))
	home, err := models.NewPersonAddress(id.NewAddressID(), personID, models.AddressInput{City: "Zilina", Zip: "01001"}, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(ctx, home))

	byCompany, err := s.store.ListByCompany(ctx, companyID)
	s.Require().NoError(err)
	s.Require().Len(byCompany, 1)
	s.Equal("Bratislava", byCompany[0].City)
	s.True(byCompany[0].PersonID.IsNil())

	found, err := s.store.FindByID(ctx, home.ID)
	s.Require().NoError(err)
	s.Equal(personID, found.PersonID)
	s.True(found.CompanyID.IsNil())

	s.Require().NoError(s.store.DeleteByPerson(ctx, personID))
	byPerson, err := s.store.ListByPerson(ctx, personID)
	s.Require().NoError(err)
	s.Empty(byPerson)

	byCompany, err = s.store.ListByCompany(ctx, companyID)
	s.Require().NoError(err)
	s.Len(byCompany, 1)
}

func (s *PostgresStoreSuite) TestUnknownOwner() {
	ctx := context.Background()
	a, err := models.NewPersonAddress(id.NewAddressID(), id.NewPersonID(), models.AddressInput{City: "Kosice"}, time.Now())
	s.Require().NoError(err)
	s.ErrorIs(s.store.Create(ctx, a), sentinel.ErrNotFound)

	_, err = s.store.FindByID(ctx, id.NewAddressID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}
