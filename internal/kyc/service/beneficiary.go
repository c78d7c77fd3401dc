package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"kyc/internal/kyc/models"
	id "kyc/pkg/domain"
	dErrors "kyc/pkg/domain-errors"
	"kyc/pkg/platform/sentinel"
	"kyc/pkg/requestcontext"
)

// CreateBeneficiary records a beneficial owner and moves a NEW company to
// BENEFICIARY_ADDED.
func (s *Service) CreateBeneficiary(ctx context.Context, companyID id.CompanyID, name, surname string) (_ *models.Beneficiary, err error) {
	ctx, done := s.observe(ctx, "create_beneficiary",
		trace.WithAttributes(attribute.String("company_id", companyID.String())))
	defer func() { done(err) }()

	b, err := models.NewBeneficiary(id.NewBeneficiaryID(), companyID, name, surname, requestcontext.Now(ctx))
	if err != nil {
		return nil, asValidation(err)
	}

	committed := &transitions{companyID: companyID}
	err = s.tx.RunInTx(ctx, companyID, func(ctx context.Context) error {
		c, err := s.lockCompany(ctx, companyID)
		if err != nil {
			return err
		}
		if err := s.beneficiaries.Create(ctx, b); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return dErrors.New(dErrors.CodeConflict, "beneficiary with this name already exists for the company")
			}
			return translate(err, "beneficiary")
		}
		return s.advance(ctx, c, models.EventBeneficiaryCreated, committed)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, committed)
	return b, nil
}

// DeleteBeneficiary soft-deletes a beneficiary. Removing the company's last
// live beneficiary resets the company to NEW whatever its status.
func (s *Service) DeleteBeneficiary(ctx context.Context, beneficiaryID id.BeneficiaryID) (err error) {
	ctx, done := s.observe(ctx, "delete_beneficiary")
	defer func() { done(err) }()

	b, err := s.beneficiaries.FindByID(ctx, beneficiaryID)
	if err != nil {
		return translate(err, "beneficiary")
	}

	committed := &transitions{companyID: b.CompanyID}
	err = s.tx.RunInTx(ctx, b.CompanyID, func(ctx context.Context) error {
		c, err := s.lockCompany(ctx, b.CompanyID)
		if err != nil {
			return err
		}
		// re-read under the lock; a concurrent delete wins
		live, err := s.beneficiaries.FindByID(ctx, beneficiaryID)
		if err != nil {
			return translate(err, "beneficiary")
		}
		live.ApplyDeletion(requestcontext.Now(ctx))
		if err := s.beneficiaries.Update(ctx, live); err != nil {
			return translate(err, "beneficiary")
		}
		return s.advance(ctx, c, models.EventBeneficiaryDeleted, committed)
	})
	if err != nil {
		return err
	}
	s.publish(ctx, committed)
	return nil
}

// RequestAML records the manual AML clearance. A company already past the
// AML stage is left as it is and the call succeeds.
func (s *Service) RequestAML(ctx context.Context, companyID id.CompanyID) (_ *models.Company, err error) {
	ctx, done := s.observe(ctx, "request_aml",
		trace.WithAttributes(attribute.String("company_id", companyID.String())))
	defer func() { done(err) }()

	var result *models.Company
	committed := &transitions{companyID: companyID}
	err = s.tx.RunInTx(ctx, companyID, func(ctx context.Context) error {
		c, err := s.lockCompany(ctx, companyID)
		if err != nil {
			return err
		}
		result = c
		err = s.advance(ctx, c, models.EventAMLRequested, committed)
		if errors.Is(err, models.ErrAlreadyDone) {
			s.logger.InfoContext(ctx, "AML already cleared", "company_id", companyID, "status", int(c.Status))
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, committed)
	return result, nil
}

func (s *Service) GetBeneficiary(ctx context.Context, beneficiaryID id.BeneficiaryID) (*models.Beneficiary, error) {
	b, err := s.beneficiaries.FindByID(ctx, beneficiaryID)
	if err != nil {
		return nil, translate(err, "beneficiary")
	}
	return b, nil
}

// ListBeneficiaries returns the live beneficiaries of an existing company.
func (s *Service) ListBeneficiaries(ctx context.Context, companyID id.CompanyID) ([]*models.Beneficiary, error) {
	if _, err := s.GetCompany(ctx, companyID); err != nil {
		return nil, err
	}
	beneficiaries, err := s.beneficiaries.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list beneficiaries")
	}
	return beneficiaries, nil
}
