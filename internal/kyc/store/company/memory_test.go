package company

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"kyc/internal/kyc/models"
	id "kyc/pkg/domain"
	"kyc/pkg/platform/sentinel"
)

type CompanyStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
	now   time.Time
}

func (s *CompanyStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestCompanyStoreSuite(t *testing.T) {
	suite.Run(t, new(CompanyStoreSuite))
}

func (s *CompanyStoreSuite) newCompany(name, idNumber string) *models.Company {
	s.now = s.now.Add(time.Second)
	c, err := models.NewCompany(id.NewCompanyID(), name, idNumber, "", "", "", s.now)
	s.Require().NoError(err)
	return c
}

func (s *CompanyStoreSuite) TestCreateAndFind() {
	s.Run("finds by id and id number", func() {
		c := s.newCompany("Acme", "12345678")
		s.Require().NoError(s.store.Create(s.ctx, c))

		found, err := s.store.FindByID(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Equal("Acme", found.Name)
		s.Equal(models.StatusNew, found.Status)

		byNumber, err := s.store.FindByIDNumber(s.ctx, "12345678")
		s.Require().NoError(err)
		s.Equal(c.ID, byNumber.ID)
	})

	s.Run("duplicate id number is rejected", func() {
		s.Require().NoError(s.store.Create(s.ctx, s.newCompany("One", "999")))
		err := s.store.Create(s.ctx, s.newCompany("Two", "999"))
		s.ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("unknown id", func() {
		_, err := s.store.FindByID(s.ctx, id.NewCompanyID())
		s.ErrorIs(err, sentinel.ErrNotFound)
		_, err = s.store.FindForUpdate(s.ctx, id.NewCompanyID())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *CompanyStoreSuite) TestReturnedRecordsAreCopies() {
	c := s.newCompany("Acme", "111")
	s.Require().NoError(s.store.Create(s.ctx, c))

	found, err := s.store.FindByID(s.ctx, c.ID)
	s.Require().NoError(err)
	found.Name = "mutated"

	again, err := s.store.FindByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal("Acme", again.Name)
}

func (s *CompanyStoreSuite) TestUpdate() {
	c := s.newCompany("Acme", "111")
	s.Require().NoError(s.store.Create(s.ctx, c))

	c.Status = models.StatusBeneficiaryAdded
	s.Require().NoError(s.store.Update(s.ctx, c))

	found, err := s.store.FindByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusBeneficiaryAdded, found.Status)

	missing := s.newCompany("Ghost", "222")
	s.ErrorIs(s.store.Update(s.ctx, missing), sentinel.ErrNotFound)
}

func (s *CompanyStoreSuite) TestListPaging() {
	for _, n := range []string{"a", "b", "c"} {
		s.Require().NoError(s.store.Create(s.ctx, s.newCompany(n, n)))
	}

	page, err := s.store.List(s.ctx, models.Page{Skip: 1, Limit: 1})
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Equal("b", page[0].Name)

	past, err := s.store.List(s.ctx, models.Page{Skip: 10, Limit: 5})
	s.Require().NoError(err)
	s.Empty(past)
}

func (s *CompanyStoreSuite) TestSearchAndFindByIDs() {
	zeta := s.newCompany("Zeta s.r.o.", "36111111")
	alpha := s.newCompany("Alpha a.s.", "36222222")
	other := s.newCompany("Other", "50000000")
	for _, c := range []*models.Company{zeta, alpha, other} {
		s.Require().NoError(s.store.Create(s.ctx, c))
	}

	found, err := s.store.Search(s.ctx, "3622")
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal(alpha.ID, found[0].ID)

	found, err = s.store.Search(s.ctx, "S.R.O")
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal(zeta.ID, found[0].ID)

	byIDs, err := s.store.FindByIDs(s.ctx, []id.CompanyID{zeta.ID, alpha.ID, id.NewCompanyID()})
	s.Require().NoError(err)
	s.Require().Len(byIDs, 2)
	s.Equal("Alpha a.s.", byIDs[0].Name)
	s.Equal("Zeta s.r.o.", byIDs[1].Name)
}
