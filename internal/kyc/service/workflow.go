package service

import (
	"context"
	"errors"

	"kyc/internal/audit"
	"kyc/internal/kyc/models"
	id "kyc/pkg/domain"
	dErrors "kyc/pkg/domain-errors"
	"kyc/pkg/platform/sentinel"
	"kyc/pkg/requestcontext"
)

// transitions collects the status changes committed by one operation so they
// can be published once the transaction is done.
type transitions struct {
	companyID id.CompanyID
	applied   []models.Transition
}

func (t *transitions) add(tr models.Transition) {
	if tr.Changed() {
		t.applied = append(t.applied, tr)
	}
}

// lockCompany loads the company and takes its lock for the rest of the
// transaction.
func (s *Service) lockCompany(ctx context.Context, companyID id.CompanyID) (*models.Company, error) {
	c, err := s.companies.FindForUpdate(ctx, companyID)
	if err != nil {
		return nil, translate(err, "company")
	}
	return c, nil
}

// facts re-reads the live persons and beneficiaries of a company. Call it
// under the company lock after the triggering write.
func (s *Service) facts(ctx context.Context, companyID id.CompanyID) (models.Facts, error) {
	beneficiaries, err := s.beneficiaries.ListByCompany(ctx, companyID)
	if err != nil {
		return models.Facts{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list beneficiaries")
	}
	persons, err := s.persons.ListByCompany(ctx, companyID)
	if err != nil {
		return models.Facts{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list persons")
	}
	return models.PersonFacts(persons, len(beneficiaries)), nil
}

// advance evaluates ev for the locked company c and persists the new status.
// models.ErrAlreadyDone is passed through for the caller to decide.
func (s *Service) advance(ctx context.Context, c *models.Company, ev models.Event, out *transitions) error {
	f, err := s.facts(ctx, c.ID)
	if err != nil {
		return err
	}
	t, err := models.Next(c.Status, ev, f)
	if err != nil {
		return err
	}
	if !t.Changed() {
		return nil
	}
	c.ApplyTransition(t, requestcontext.Now(ctx))
	if err := s.companies.Update(ctx, c); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update company status")
	}
	out.add(t)
	return nil
}

// publish reports committed transitions to the log, metrics and audit sinks.
func (s *Service) publish(ctx context.Context, committed *transitions) {
	for _, t := range committed.applied {
		s.metrics.IncTransition(int(t.From), int(t.To))
		if s.auditPublisher == nil {
			s.logger.InfoContext(ctx, "company status changed",
				"log_type", "audit",
				"company_id", committed.companyID,
				"from", int(t.From),
				"to", int(t.To),
				"event", string(t.Event),
			)
			continue
		}
		err := s.auditPublisher.Emit(ctx, audit.Event{
			CompanyID: committed.companyID,
			From:      int(t.From),
			To:        int(t.To),
			Event:     string(t.Event),
			ActorID:   actorID(ctx),
			RequestID: requestcontext.RequestID(ctx),
			Timestamp: requestcontext.Now(ctx),
		})
		if err != nil {
			s.logger.WarnContext(ctx, "failed to publish audit event",
				"company_id", committed.companyID,
				"event", string(t.Event),
				"error", err,
			)
		}
	}
}

func actorID(ctx context.Context) string {
	if userID := requestcontext.UserID(ctx); !userID.IsNil() {
		return userID.String()
	}
	return ""
}

// translate maps store sentinels onto the error taxonomy. Errors that already
// carry a code pass through unchanged.
func translate(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, entity+" not found")
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.New(dErrors.CodeConflict, entity+" already exists")
	}
	if _, ok := dErrors.As(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to access "+entity)
}

// asValidation reports model invariant violations on caller input as
// validation errors.
func asValidation(err error) error {
	if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
		return dErrors.New(dErrors.CodeValidation, err.Error())
	}
	return err
}
