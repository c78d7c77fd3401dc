package company

import (
	"context"
	"sort"
	"sync"

	"kyc/internal/kyc/models"
	id "kyc/pkg/domain"
	"kyc/pkg/platform/sentinel"
	pstrings "kyc/pkg/platform/strings"
)

// InMemory keeps companies in a map guarded by a RWMutex. Records are copied
// on the way in and out so callers cannot mutate stored state.
type InMemory struct {
	mu         sync.RWMutex
	companies  map[id.CompanyID]*models.Company
	byIDNumber map[string]id.CompanyID
}

func NewInMemory() *InMemory {
	return &InMemory{
		companies:  make(map[id.CompanyID]*models.Company),
		byIDNumber: make(map[string]id.CompanyID),
	}
}

// Create stores c, rejecting a second company with the same id number.
func (s *InMemory) Create(_ context.Context, c *models.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byIDNumber[c.IDNumber]; taken {
		return sentinel.ErrAlreadyUsed
	}
	cp := *c
	s.companies[c.ID] = &cp
	s.byIDNumber[c.IDNumber] = c.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, companyID id.CompanyID) (*models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.companies[companyID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

// FindForUpdate is FindByID; callers hold the per-company transaction lock.
func (s *InMemory) FindForUpdate(ctx context.Context, companyID id.CompanyID) (*models.Company, error) {
	return s.FindByID(ctx, companyID)
}

func (s *InMemory) FindByIDNumber(_ context.Context, idNumber string) (*models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	companyID, ok := s.byIDNumber[idNumber]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *s.companies[companyID]
	return &cp, nil
}

// FindByIDs returns the companies that exist among ids, ordered by name.
func (s *InMemory) FindByIDs(_ context.Context, ids []id.CompanyID) ([]*models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Company, 0, len(ids))
	for _, companyID := range ids {
		if c, ok := s.companies[companyID]; ok {
			cp := *c
			out = append(out, &cp)
		}
	}
	sortByName(out)
	return out, nil
}

func (s *InMemory) List(_ context.Context, page models.Page) ([]*models.Company, error) {
	s.mu.RLock()
	all := make([]*models.Company, 0, len(s.companies))
	for _, c := range s.companies {
		cp := *c
		all = append(all, &cp)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID.String() < all[j].ID.String()
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	start, end := page.Window(len(all))
	return all[start:end], nil
}

func (s *InMemory) Update(_ context.Context, c *models.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.companies[c.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *c
	s.companies[c.ID] = &cp
	return nil
}

// Search matches q against id number, name and tax id, ignoring case.
func (s *InMemory) Search(_ context.Context, q string) ([]*models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Company
	for _, c := range s.companies {
		if pstrings.ContainsFold(c.IDNumber, q) || pstrings.ContainsFold(c.Name, q) || pstrings.ContainsFold(c.DIC, q) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sortByName(out)
	return out, nil
}

func sortByName(companies []*models.Company) {
	sort.Slice(companies, func(i, j int) bool {
		if companies[i].Name == companies[j].Name {
			return companies[i].ID.String() < companies[j].ID.String()
		}
		return companies[i].Name < companies[j].Name
	})
}
