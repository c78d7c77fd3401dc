package beneficiary

import (
	"context"
	"sort"
	"sync"

	"kyc/internal/kyc/models"
	id "kyc/pkg/domain"
	"kyc/pkg/platform/sentinel"
	pstrings "kyc/pkg/platform/strings"
)

type InMemory struct {
	mu            sync.RWMutex
	beneficiaries map[id.BeneficiaryID]*models.Beneficiary
}

func NewInMemory() *InMemory {
	return &InMemory{beneficiaries: make(map[id.BeneficiaryID]*models.Beneficiary)}
}

// Create stores b unless a live beneficiary with the same name and surname
// already exists for the company.
func (s *InMemory) Create(_ context.Context, b *models.Beneficiary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.beneficiaries {
		if existing.IsDeleted() || existing.CompanyID != b.CompanyID {
			continue
		}
		if existing.Name == b.Name && existing.Surname == b.Surname {
			return sentinel.ErrAlreadyUsed
		}
	}
	cp := *b
	s.beneficiaries[b.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, beneficiaryID id.BeneficiaryID) (*models.Beneficiary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.beneficiaries[beneficiaryID]
	if !ok || b.IsDeleted() {
		return nil, sentinel.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *InMemory) ListByCompany(_ context.Context, companyID id.CompanyID) ([]*models.Beneficiary, error) {
	return s.filter(func(b *models.Beneficiary) bool { return b.CompanyID == companyID }), nil
}

// Update persists b; it is used to record the soft delete.
func (s *InMemory) Update(_ context.Context, b *models.Beneficiary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.beneficiaries[b.ID]
	if !ok || existing.IsDeleted() {
		return sentinel.ErrNotFound
	}
	cp := *b
	s.beneficiaries[b.ID] = &cp
	return nil
}

func (s *InMemory) SearchCompanyIDs(_ context.Context, q string) ([]id.CompanyID, error) {
	matches := s.filter(func(b *models.Beneficiary) bool {
		return pstrings.ContainsFold(b.Name, q) || pstrings.ContainsFold(b.Surname, q)
	})
	ids := make([]id.CompanyID, 0, len(matches))
	for _, b := range matches {
		ids = append(ids, b.CompanyID)
	}
	return pstrings.DedupeBy(ids, func(c id.CompanyID) id.CompanyID { return c }), nil
}

func (s *InMemory) filter(keep func(*models.Beneficiary) bool) []*models.Beneficiary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Beneficiary, 0)
	for _, b := range s.beneficiaries {
		if b.IsDeleted() || !keep(b) {
			continue
		}
		cp := *b
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
