package person

import (
	"context"
	"sort"
	"sync"

	"kyc/internal/kyc/models"
	id "kyc/pkg/domain"
	"kyc/pkg/platform/sentinel"
	pstrings "kyc/pkg/platform/strings"
)

// InMemory stores persons in a map. Soft-deleted persons stay in the map but
// are invisible to every read.
type InMemory struct {
	mu      sync.RWMutex
	persons map[id.PersonID]*models.Person
}

func NewInMemory() *InMemory {
	return &InMemory{persons: make(map[id.PersonID]*models.Person)}
}

func (s *InMemory) Create(_ context.Context, p *models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.persons[p.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, personID id.PersonID) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.persons[personID]
	if !ok || p.IsDeleted() {
		return nil, sentinel.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *InMemory) List(_ context.Context, page models.Page) ([]*models.Person, error) {
	all := s.filter(func(*models.Person) bool { return true })
	start, end := page.Window(len(all))
	return all[start:end], nil
}

// ListByCompany returns the live persons of a company, oldest first.
func (s *InMemory) ListByCompany(_ context.Context, companyID id.CompanyID) ([]*models.Person, error) {
	return s.filter(func(p *models.Person) bool { return p.CompanyID == companyID }), nil
}

func (s *InMemory) Update(_ context.Context, p *models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.persons[p.ID]
	if !ok || existing.IsDeleted() {
		return sentinel.ErrNotFound
	}
	cp := *p
	s.persons[p.ID] = &cp
	return nil
}

// SearchCompanyIDs returns the companies of live persons whose id number,
// email, name or surname contains q.
func (s *InMemory) SearchCompanyIDs(_ context.Context, q string) ([]id.CompanyID, error) {
	matches := s.filter(func(p *models.Person) bool {
		return p.HasCompany() && (pstrings.ContainsFold(p.IDNumber, q) ||
			pstrings.ContainsFold(p.Email, q) ||
			pstrings.ContainsFold(p.Name, q) ||
			pstrings.ContainsFold(p.Surname, q))
	})
	ids := make([]id.CompanyID, 0, len(matches))
	for _, p := range matches {
		ids = append(ids, p.CompanyID)
	}
	return pstrings.DedupeBy(ids, func(c id.CompanyID) id.CompanyID { return c }), nil
}

func (s *InMemory) filter(keep func(*models.Person) bool) []*models.Person {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Person, 0)
	for _, p := range s.persons {
		if p.IsDeleted() || !keep(p) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
