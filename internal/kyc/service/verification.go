package service

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"kyc/internal/kyc/models"
	"kyc/internal/kyc/ports"
	id "kyc/pkg/domain"
	dErrors "kyc/pkg/domain-errors"
	"kyc/pkg/requestcontext"
)

// RequestVerificationEmail stamps requested_at on the person, moves an
// AML_CLEARED company to VERIFICATION_REQUESTED and sends the verification
// email after commit.
func (s *Service) RequestVerificationEmail(ctx context.Context, personID id.PersonID, language string) (err error) {
	ctx, done := s.observe(ctx, "request_verification_email",
		trace.WithAttributes(attribute.String("person_id", personID.String())))
	defer func() { done(err) }()

	lang, err := models.ParseLanguage(language)
	if err != nil {
		return err
	}
	return s.requestVerification(ctx, personID, id.CompanyID{}, lang)
}

// RequestVerificationEmailBulk requests verification for the given persons of
// a company, or for all its unverified persons when personIDs is empty. Each
// person is handled on its own; failures are logged and skipped. It returns
// the number of emails requested.
func (s *Service) RequestVerificationEmailBulk(ctx context.Context, companyID id.CompanyID, personIDs []id.PersonID, language string) (_ int, err error) {
	ctx, done := s.observe(ctx, "request_verification_email_bulk",
		trace.WithAttributes(attribute.String("company_id", companyID.String())))
	defer func() { done(err) }()

	lang, err := models.ParseLanguage(language)
	if err != nil {
		return 0, err
	}
	if _, err := s.GetCompany(ctx, companyID); err != nil {
		return 0, err
	}

	targets := personIDs
	if len(targets) == 0 {
		persons, err := s.persons.ListByCompany(ctx, companyID)
		if err != nil {
			return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list persons")
		}
		for _, p := range persons {
			if !p.IsVerified() {
				targets = append(targets, p.ID)
			}
		}
	}

	requested := 0
	for _, personID := range targets {
		if err := s.requestVerification(ctx, personID, companyID, lang); err != nil {
			s.logger.WarnContext(ctx, "verification email skipped",
				"company_id", companyID,
				"person_id", personID,
				"error", err,
			)
			continue
		}
		requested++
	}
	return requested, nil
}

// requestVerification handles one person. A non-nil expectCompany rejects
// persons of any other company.
func (s *Service) requestVerification(ctx context.Context, personID id.PersonID, expectCompany id.CompanyID, lang models.Language) error {
	var recipient *models.Person
	committed := &transitions{}
	err := s.withPersonTx(ctx, personID, func(ctx context.Context, p *models.Person, c *models.Company) error {
		if !expectCompany.IsNil() && p.CompanyID != expectCompany {
			return dErrors.New(dErrors.CodeNotFound, "person not found in company")
		}
		if err := p.CanRequestVerification(); err != nil {
			return err
		}
		prev := *p
		p.ApplyVerificationRequested(requestcontext.Now(ctx))
		if err := s.persons.Update(ctx, p); err != nil {
			return translate(err, "person")
		}
		onRollback(ctx, func(ctx context.Context) error {
			return s.persons.Update(ctx, &prev)
		})
		recipient = p
		if c == nil {
			return nil
		}
		committed.companyID = c.ID
		return s.advance(ctx, c, models.EventVerificationRequested, committed)
	})
	if err != nil {
		s.metrics.IncVerificationEmail("failed")
		return err
	}
	s.publish(ctx, committed)

	s.sendEmail(ctx, ports.Email{
		Template: ports.TemplateVerification,
		Language: lang,
		To:       recipient.Email,
		Params: map[string]string{
			"name":      recipient.FullName(),
			"person_id": recipient.ID.String(),
		},
	})
	s.metrics.IncVerificationEmail("sent")
	return nil
}

// SubmitVerificationInput is what a person submits to complete verification.
type SubmitVerificationInput struct {
	Profile  models.VerificationProfile
	Language string
}

// SubmitVerification records the person's identity data, stamps verified_at
// and promotes a VERIFICATION_REQUESTED company to FULLY_VERIFIED once no
// live person is left unverified. A confirmation email follows commit.
func (s *Service) SubmitVerification(ctx context.Context, personID id.PersonID, in SubmitVerificationInput) (_ *models.Person, err error) {
	ctx, done := s.observe(ctx, "submit_verification",
		trace.WithAttributes(attribute.String("person_id", personID.String())))
	defer func() { done(err) }()

	lang, err := models.ParseLanguage(in.Language)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Profile.Photo) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "verification photo is required")
	}

	var verified *models.Person
	committed := &transitions{}
	err = s.withPersonTx(ctx, personID, func(ctx context.Context, p *models.Person, c *models.Company) error {
		if err := p.CanVerify(); err != nil {
			return err
		}
		now := requestcontext.Now(ctx)
		var addr *models.Address
		if a := in.Profile.Address; a != nil && !a.IsEmpty() {
			var err error
			if addr, err = models.NewPersonAddress(id.NewAddressID(), p.ID, *a, now); err != nil {
				return asValidation(err)
			}
		}

		prev := *p
		p.ApplyVerification(in.Profile, now)
		if err := s.persons.Update(ctx, p); err != nil {
			return translate(err, "person")
		}
		onRollback(ctx, func(ctx context.Context) error {
			return s.persons.Update(ctx, &prev)
		})
		if addr != nil {
			if err := s.addresses.DeleteByPerson(ctx, p.ID); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to replace person address")
			}
			if err := s.addresses.Create(ctx, addr); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to replace person address")
			}
		}
		verified = p
		if c == nil {
			return nil
		}
		committed.companyID = c.ID
		return s.advance(ctx, c, models.EventPersonVerified, committed)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, committed)
	s.logger.InfoContext(ctx, "person verified",
		"log_type", "audit",
		"person_id", personID,
		"company_id", verified.CompanyID,
	)

	if verified.Email != "" {
		s.sendEmail(ctx, ports.Email{
			Template: ports.TemplateVerificationConfirmed,
			Language: lang,
			To:       verified.Email,
			Params:   map[string]string{"name": verified.FullName()},
		})
	}
	return verified, nil
}

// CheckEligibility tells a person, before submission, which companies they
// would be verifying for.
func (s *Service) CheckEligibility(ctx context.Context, personID id.PersonID) ([]models.EligibleCompany, error) {
	p, err := s.GetPerson(ctx, personID)
	if err != nil {
		return nil, err
	}
	if p.IsVerified() {
		return nil, dErrors.New(dErrors.CodeAlreadyVerified, "person is already verified")
	}
	c, err := s.personCompany(ctx, p)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, dErrors.New(dErrors.CodeNoCompany, "person is not linked to any company")
	}
	return []models.EligibleCompany{{Name: c.Name, IDNumber: c.IDNumber}}, nil
}

// VerifyFaceMatch compares the reference photo with the submitted one for a
// live person. Collaborator failures are not retried.
func (s *Service) VerifyFaceMatch(ctx context.Context, personID id.PersonID, reference, submitted string) (_ bool, err error) {
	ctx, done := s.observe(ctx, "verify_face_match",
		trace.WithAttributes(attribute.String("person_id", personID.String())))
	defer func() { done(err) }()

	if _, err := s.GetPerson(ctx, personID); err != nil {
		return false, err
	}
	if reference == "" || submitted == "" {
		return false, dErrors.New(dErrors.CodeValidation, "both photos are required")
	}
	if s.faceMatcher == nil {
		return false, dErrors.New(dErrors.CodeExternalService, "face match is not configured")
	}

	var verified bool
	err = s.callExternal(ctx, "facematch", func(ctx context.Context) error {
		var err error
		verified, err = s.faceMatcher.Match(ctx, reference, submitted)
		return err
	})
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeExternalService, "face match failed")
	}
	return verified, nil
}

// sendEmail hands a message to the background dispatcher. Delivery failures
// are logged by the dispatcher and never reach the caller.
func (s *Service) sendEmail(ctx context.Context, email ports.Email) {
	if s.notifier == nil {
		s.logger.DebugContext(ctx, "notifier not configured, email dropped", "template", string(email.Template))
		return
	}
	s.dispatcher.Submit(ctx, "email_"+string(email.Template), func(ctx context.Context) error {
		return s.callExternal(ctx, "notifier", func(ctx context.Context) error {
			return s.notifier.Send(ctx, email)
		})
	})
}
