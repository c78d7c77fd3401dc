package address

import (
	"context"
	"sort"
	"sync"

	"kyc/internal/kyc/models"
	id "kyc/pkg/domain"
	"kyc/pkg/platform/sentinel"
)

type InMemory struct {
	mu        sync.RWMutex
	addresses map[id.AddressID]*models.Address
}

func NewInMemory() *InMemory {
	return &InMemory{addresses: make(map[id.AddressID]*models.Address)}
}

func (s *InMemory) Create(_ context.Context, a *models.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *a
	s.addresses[a.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, addressID id.AddressID) (*models.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.addresses[addressID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *InMemory) ListByCompany(_ context.Context, companyID id.CompanyID) ([]*models.Address, error) {
	return s.filter(func(a *models.Address) bool { return a.CompanyID == companyID }), nil
}

func (s *InMemory) ListByPerson(_ context.Context, personID id.PersonID) ([]*models.Address, error) {
	return s.filter(func(a *models.Address) bool { return a.PersonID == personID }), nil
}

func (s *InMemory) DeleteByCompany(_ context.Context, companyID id.CompanyID) error {
	s.remove(func(a *models.Address) bool { return a.CompanyID == companyID })
	return nil
}

func (s *InMemory) DeleteByPerson(_ context.Context, personID id.PersonID) error {
	s.remove(func(a *models.Address) bool { return a.PersonID == personID })
	return nil
}

func (s *InMemory) remove(match func(*models.Address) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, a := range s.addresses {
		if match(a) {
			delete(s.addresses, key)
		}
	}
}

func (s *InMemory) filter(keep func(*models.Address) bool) []*models.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Address, 0)
	for _, a := range s.addresses {
		if keep(a) {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
