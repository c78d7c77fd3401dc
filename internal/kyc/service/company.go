package service

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"kyc/internal/kyc/models"
	id "kyc/pkg/domain"
	dErrors "kyc/pkg/domain-errors"
	"kyc/pkg/platform/sentinel"
	pstrings "kyc/pkg/platform/strings"
	"kyc/pkg/requestcontext"
)

// CreateCompanyInput is the operator-supplied data for a new company.
type CreateCompanyInput struct {
	Name     string
	IDNumber string
	DIC      string
	Registry string
	Statute  string
	Address  *models.AddressInput
}

// CreateCompany registers a company at status NEW with its optional mailing
// address. Persons listed for it in the business register are added in the
// background once the company is committed.
func (s *Service) CreateCompany(ctx context.Context, in CreateCompanyInput) (_ *models.Company, err error) {
	ctx, done := s.observe(ctx, "create_company")
	defer func() { done(err) }()

	now := requestcontext.Now(ctx)
	c, err := models.NewCompany(id.NewCompanyID(), in.Name, in.IDNumber, in.DIC, in.Registry, in.Statute, now)
	if err != nil {
		return nil, asValidation(err)
	}
	var addr *models.Address
	if in.Address != nil && !in.Address.IsEmpty() {
		if addr, err = models.NewCompanyAddress(id.NewAddressID(), c.ID, *in.Address, now); err != nil {
			return nil, asValidation(err)
		}
	}

	if _, err := s.companies.FindByIDNumber(ctx, c.IDNumber); err == nil {
		return nil, dErrors.New(dErrors.CodeConflict, "company id number is already registered")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up company")
	}

	err = s.tx.RunInTx(ctx, c.ID, func(ctx context.Context) error {
		if err := s.companies.Create(ctx, c); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return dErrors.New(dErrors.CodeConflict, "company id number is already registered")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create company")
		}
		if addr != nil {
			if err := s.addresses.Create(ctx, addr); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create company address")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncCompanyCreated()
	s.logger.InfoContext(ctx, "company created",
		"log_type", "audit",
		"company_id", c.ID,
		"id_number", c.IDNumber,
	)

	if s.registry != nil {
		companyID, idNumber := c.ID, c.IDNumber
		s.dispatcher.Submit(ctx, "registry_autopopulate", func(ctx context.Context) error {
			return s.populateFromRegistry(ctx, companyID, idNumber)
		})
	}
	return c, nil
}

// populateFromRegistry adds the persons the business register lists for the
// company. Candidates already present by name are skipped.
func (s *Service) populateFromRegistry(ctx context.Context, companyID id.CompanyID, idNumber string) error {
	var candidates []registryCandidate
	err := s.callExternal(ctx, "registry", func(ctx context.Context) error {
		found, err := s.registry.LookupPersons(ctx, idNumber)
		for _, p := range found {
			candidates = append(candidates, registryCandidate{
				name:    strings.Join(strings.Fields(p.Name), " "),
				surname: strings.Join(strings.Fields(p.Surname), " "),
			})
		}
		return err
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeExternalService, "registry lookup failed")
	}

	candidates = pstrings.DedupeBy(candidates, func(c registryCandidate) string {
		return strings.ToLower(c.name + "\x00" + c.surname)
	})
	existing, err := s.persons.ListByCompany(ctx, companyID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list persons")
	}
	known := make(map[string]bool, len(existing))
	for _, p := range existing {
		known[strings.ToLower(p.Name+"\x00"+p.Surname)] = true
	}

	added := 0
	for _, c := range candidates {
		if (c.name == "" && c.surname == "") || known[strings.ToLower(c.name+"\x00"+c.surname)] {
			continue
		}
		if _, err := s.CreatePerson(ctx, companyID, models.PersonInput{Name: c.name, Surname: c.surname}); err != nil {
			s.logger.WarnContext(ctx, "registry person not added",
				"company_id", companyID,
				"error", err,
			)
			continue
		}
		added++
	}
	s.logger.InfoContext(ctx, "registry auto-population finished",
		"company_id", companyID,
		"candidates", len(candidates),
		"added", added,
	)
	return nil
}

type registryCandidate struct {
	name    string
	surname string
}

func (s *Service) GetCompany(ctx context.Context, companyID id.CompanyID) (*models.Company, error) {
	c, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		return nil, translate(err, "company")
	}
	return c, nil
}

func (s *Service) ListCompanies(ctx context.Context, page models.Page) ([]*models.Company, error) {
	companies, err := s.companies.List(ctx, page.Normalize())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list companies")
	}
	return companies, nil
}

// UpdateCompany edits descriptive fields. Status is never changed here.
func (s *Service) UpdateCompany(ctx context.Context, companyID id.CompanyID, u models.CompanyUpdate) (*models.Company, error) {
	var updated *models.Company
	err := s.tx.RunInTx(ctx, companyID, func(ctx context.Context) error {
		c, err := s.lockCompany(ctx, companyID)
		if err != nil {
			return err
		}
		if err := c.ApplyUpdate(u, requestcontext.Now(ctx)); err != nil {
			return asValidation(err)
		}
		if err := s.companies.Update(ctx, c); err != nil {
			return translate(err, "company")
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Search returns the companies matching q on their own fields, on a live
// person or on a live beneficiary, each company once, ordered by name.
func (s *Service) Search(ctx context.Context, q string) (_ []*models.Company, err error) {
	ctx, done := s.observe(ctx, "search")
	defer func() { done(err) }()

	q = strings.TrimSpace(q)
	if q == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "search query is required")
	}

	var byCompany, byPerson, byBeneficiary []id.CompanyID
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		companies, err := s.companies.Search(gctx, q)
		for _, c := range companies {
			byCompany = append(byCompany, c.ID)
		}
		return err
	})
	g.Go(func() error {
		var err error
		byPerson, err = s.persons.SearchCompanyIDs(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		byBeneficiary, err = s.beneficiaries.SearchCompanyIDs(gctx, q)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "search failed")
	}

	all := make([]id.CompanyID, 0, len(byCompany)+len(byPerson)+len(byBeneficiary))
	all = append(all, byCompany...)
	all = append(all, byPerson...)
	all = append(all, byBeneficiary...)
	ids := pstrings.DedupeBy(all, func(c id.CompanyID) id.CompanyID { return c })
	if len(ids) == 0 {
		return []*models.Company{}, nil
	}

	companies, err := s.companies.FindByIDs(ctx, ids)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load companies")
	}
	return companies, nil
}

// LookupCompanyProfile fetches the enrichment registry's profile for an id
// number without touching stored companies.
func (s *Service) LookupCompanyProfile(ctx context.Context, idNumber string) (_ *models.CompanyProfile, err error) {
	ctx, done := s.observe(ctx, "lookup_company_profile")
	defer func() { done(err) }()

	idNumber = strings.TrimSpace(idNumber)
	if err := models.ValidateEnrichmentIDNumber(idNumber); err != nil {
		return nil, err
	}
	return s.lookupProfile(ctx, idNumber)
}

func (s *Service) lookupProfile(ctx context.Context, idNumber string) (*models.CompanyProfile, error) {
	if s.enricher == nil {
		return nil, dErrors.New(dErrors.CodeExternalService, "company enrichment is not configured")
	}
	var profile *models.CompanyProfile
	err := s.callExternal(ctx, "enrichment", func(ctx context.Context) error {
		var err error
		profile, err = s.enricher.Lookup(ctx, idNumber)
		return err
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeExternalService, "company enrichment lookup failed")
	}
	return profile, nil
}

// EnrichCompany overwrites the company's name, tax id and mailing address
// with the enrichment registry's profile.
func (s *Service) EnrichCompany(ctx context.Context, companyID id.CompanyID) (_ *models.Company, err error) {
	ctx, done := s.observe(ctx, "enrich_company",
		trace.WithAttributes(attribute.String("company_id", companyID.String())))
	defer func() { done(err) }()

	current, err := s.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if err := models.ValidateEnrichmentIDNumber(current.IDNumber); err != nil {
		return nil, err
	}
	profile, err := s.lookupProfile(ctx, current.IDNumber)
	if err != nil {
		return nil, err
	}

	var enriched *models.Company
	err = s.tx.RunInTx(ctx, companyID, func(ctx context.Context) error {
		c, err := s.lockCompany(ctx, companyID)
		if err != nil {
			return err
		}
		now := requestcontext.Now(ctx)
		var addr *models.Address
		if in := profile.Address(); in != nil {
			if addr, err = models.NewCompanyAddress(id.NewAddressID(), c.ID, *in, now); err != nil {
				return err
			}
		}
		c.ApplyProfile(*profile, now)
		if err := s.companies.Update(ctx, c); err != nil {
			return translate(err, "company")
		}
		if addr != nil {
			if err := s.addresses.DeleteByCompany(ctx, c.ID); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to replace company address")
			}
			if err := s.addresses.Create(ctx, addr); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to replace company address")
			}
		}
		enriched = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "company enriched", "company_id", companyID)
	return enriched, nil
}
