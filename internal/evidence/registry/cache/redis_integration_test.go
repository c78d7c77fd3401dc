//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"kyc/internal/evidence/registry/cache"
	"kyc/internal/kyc/models"
	"kyc/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *cache.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = cache.NewRedisStore(s.redis.Client, time.Minute)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	profile := &models.CompanyProfile{IDNumber: "12345678", Name: "Acme", City: "Bratislava", Revenue: 10.5}

	s.Require().NoError(s.store.Set(ctx, profile.IDNumber, profile))

	found, ok, err := s.store.Get(ctx, profile.IDNumber)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Equal(*profile, *found)

	ttl, err := s.redis.Client.TTL(ctx, "kyc:profile:12345678").Result()
	s.Require().NoError(err)
	s.Positive(ttl)
}

func (s *RedisStoreSuite) TestMiss() {
	_, ok, err := s.store.Get(context.Background(), "00000000")
	s.Require().NoError(err)
	s.False(ok)
}
