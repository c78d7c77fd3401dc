// Package guard puts a circuit breaker in front of each external
// collaborator. While a collaborator is failing, calls fail fast with a
// provider outage instead of waiting out the client timeout.
package guard

import (
	"context"
	"log/slog"

	"kyc/internal/evidence/providers"
	"kyc/internal/kyc/models"
	"kyc/internal/kyc/ports"
	"kyc/pkg/platform/circuit"
)

type Guard struct {
	breaker *circuit.Breaker
	logger  *slog.Logger
}

func New(breaker *circuit.Breaker, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{breaker: breaker, logger: logger}
}

// Do runs fn unless the circuit is open. Only retryable provider failures
// count against the circuit; a not-found or bad-data answer means the
// collaborator is up.
func (g *Guard) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if !g.breaker.Allow() {
		return providers.NewProviderError(providers.ErrorProviderOutage, g.breaker.Name(), "circuit open", nil)
	}
	err := fn(ctx)
	if err != nil && providers.IsRetryable(err) {
		if _, change := g.breaker.RecordFailure(); change.Opened {
			g.logger.WarnContext(ctx, "collaborator circuit opened",
				"collaborator", g.breaker.Name(),
				"error", err,
			)
		}
		return err
	}
	if _, change := g.breaker.RecordSuccess(); change.Closed {
		g.logger.InfoContext(ctx, "collaborator circuit closed", "collaborator", g.breaker.Name())
	}
	return err
}

type FaceMatcher struct {
	next  ports.FaceMatcher
	guard *Guard
}

func NewFaceMatcher(next ports.FaceMatcher, guard *Guard) *FaceMatcher {
	return &FaceMatcher{next: next, guard: guard}
}

func (f *FaceMatcher) Match(ctx context.Context, reference, submitted string) (verified bool, err error) {
	err = f.guard.Do(ctx, func(ctx context.Context) error {
		verified, err = f.next.Match(ctx, reference, submitted)
		return err
	})
	return verified, err
}

type RegistryLookup struct {
	next  ports.RegistryLookup
	guard *Guard
}

func NewRegistryLookup(next ports.RegistryLookup, guard *Guard) *RegistryLookup {
	return &RegistryLookup{next: next, guard: guard}
}

func (r *RegistryLookup) LookupPersons(ctx context.Context, idNumber string) (persons []ports.RegistryPerson, err error) {
	err = r.guard.Do(ctx, func(ctx context.Context) error {
		persons, err = r.next.LookupPersons(ctx, idNumber)
		return err
	})
	return persons, err
}

type Enricher struct {
	next  ports.Enricher
	guard *Guard
}

func NewEnricher(next ports.Enricher, guard *Guard) *Enricher {
	return &Enricher{next: next, guard: guard}
}

func (e *Enricher) Lookup(ctx context.Context, idNumber string) (profile *models.CompanyProfile, err error) {
	err = e.guard.Do(ctx, func(ctx context.Context) error {
		profile, err = e.next.Lookup(ctx, idNumber)
		return err
	})
	return profile, err
}
