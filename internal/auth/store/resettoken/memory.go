package resettoken

import (
	"context"
	"sync"
	"time"

	"kyc/internal/auth/models"
	id "kyc/pkg/domain"
	"kyc/pkg/platform/sentinel"
)

type InMemory struct {
	mu     sync.Mutex
	tokens map[id.ResetTokenID]*models.ResetToken
}

func NewInMemory() *InMemory {
	return &InMemory{tokens: make(map[id.ResetTokenID]*models.ResetToken)}
}

func (s *InMemory) Create(_ context.Context, t *models.ResetToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.tokens[t.Token] = &cp
	return nil
}

func (s *InMemory) FindByToken(_ context.Context, token id.ResetTokenID) (*models.ResetToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[token]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

// MarkUsed stamps the token as consumed. A token that is already used
// returns sentinel.ErrAlreadyUsed, so only one caller can consume it.
func (s *InMemory) MarkUsed(_ context.Context, token id.ResetTokenID, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[token]
	if !ok {
		return sentinel.ErrNotFound
	}
	if t.IsUsed() {
		return sentinel.ErrAlreadyUsed
	}
	t.UsedAt = &now
	return nil
}
