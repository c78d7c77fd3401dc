// Package cache memoizes company-profile lookups by id number.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"kyc/internal/kyc/models"
	"kyc/internal/kyc/ports"
)

const keyPrefix = "kyc:profile:"

// Store is a TTL-bound profile cache. Get reports a miss with ok=false.
type Store interface {
	Get(ctx context.Context, idNumber string) (profile *models.CompanyProfile, ok bool, err error)
	Set(ctx context.Context, idNumber string, profile *models.CompanyProfile) error
}

// RedisStore keeps profiles as JSON values that expire after ttl.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, idNumber string) (*models.CompanyProfile, bool, error) {
	raw, err := s.client.Get(ctx, keyPrefix+idNumber).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get profile: %w", err)
	}
	var p models.CompanyProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false, fmt.Errorf("decode cached profile: %w", err)
	}
	return &p, true, nil
}

func (s *RedisStore) Set(ctx context.Context, idNumber string, profile *models.CompanyProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+idNumber, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set profile: %w", err)
	}
	return nil
}

// LocalStore is the in-process fallback used when Redis is not configured.
type LocalStore struct {
	c *gocache.Cache
}

func NewLocalStore(ttl time.Duration) *LocalStore {
	return &LocalStore{c: gocache.New(ttl, 2*ttl)}
}

func (s *LocalStore) Get(_ context.Context, idNumber string) (*models.CompanyProfile, bool, error) {
	v, ok := s.c.Get(idNumber)
	if !ok {
		return nil, false, nil
	}
	p := v.(models.CompanyProfile)
	return &p, true, nil
}

func (s *LocalStore) Set(_ context.Context, idNumber string, profile *models.CompanyProfile) error {
	s.c.SetDefault(idNumber, *profile)
	return nil
}

// Enricher serves lookups from the store and falls through to next on a
// miss. Cache failures are logged and never fail the lookup.
type Enricher struct {
	next   ports.Enricher
	store  Store
	logger *slog.Logger
}

func NewEnricher(next ports.Enricher, store Store, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{next: next, store: store, logger: logger}
}

func (e *Enricher) Lookup(ctx context.Context, idNumber string) (*models.CompanyProfile, error) {
	p, ok, err := e.store.Get(ctx, idNumber)
	switch {
	case err != nil:
		e.logger.WarnContext(ctx, "profile cache read failed", "id_number", idNumber, "error", err)
	case ok:
		return p, nil
	}

	p, err = e.next.Lookup(ctx, idNumber)
	if err != nil {
		return nil, err
	}
	if err := e.store.Set(ctx, idNumber, p); err != nil {
		e.logger.WarnContext(ctx, "profile cache write failed", "id_number", idNumber, "error", err)
	}
	return p, nil
}
