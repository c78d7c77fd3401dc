package service

import (
	"context"
	"errors"

	"kyc/internal/kyc/models"
	id "kyc/pkg/domain"
	dErrors "kyc/pkg/domain-errors"
	"kyc/pkg/platform/sentinel"
	"kyc/pkg/requestcontext"
)

// CreatePerson adds a person, optionally linked to a company. Adding a person
// to a FULLY_VERIFIED company reopens it at VERIFICATION_REQUESTED.
func (s *Service) CreatePerson(ctx context.Context, companyID id.CompanyID, in models.PersonInput) (_ *models.Person, err error) {
	ctx, done := s.observe(ctx, "create_person")
	defer func() { done(err) }()

	now := requestcontext.Now(ctx)
	p, err := models.NewPerson(id.NewPersonID(), companyID, in, now)
	if err != nil {
		return nil, asValidation(err)
	}
	var addr *models.Address
	if in.Address != nil && !in.Address.IsEmpty() {
		if addr, err = models.NewPersonAddress(id.NewAddressID(), p.ID, *in.Address, now); err != nil {
			return nil, asValidation(err)
		}
	}

	committed := &transitions{companyID: companyID}
	err = s.tx.RunInTx(ctx, companyID, func(ctx context.Context) error {
		var c *models.Company
		if p.HasCompany() {
			locked, err := s.lockCompany(ctx, companyID)
			if err != nil {
				return err
			}
			c = locked
		}
		if err := s.persons.Create(ctx, p); err != nil {
			return translate(err, "person")
		}
		if addr != nil {
			if err := s.addresses.Create(ctx, addr); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create person address")
			}
		}
		if c == nil {
			return nil
		}
		return s.advance(ctx, c, models.EventPersonAdded, committed)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, committed)
	return p, nil
}

func (s *Service) GetPerson(ctx context.Context, personID id.PersonID) (*models.Person, error) {
	p, err := s.persons.FindByID(ctx, personID)
	if err != nil {
		return nil, translate(err, "person")
	}
	return p, nil
}

func (s *Service) ListPersons(ctx context.Context, page models.Page) ([]*models.Person, error) {
	persons, err := s.persons.List(ctx, page.Normalize())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list persons")
	}
	return persons, nil
}

func (s *Service) ListPersonsByCompany(ctx context.Context, companyID id.CompanyID) ([]*models.Person, error) {
	if _, err := s.GetCompany(ctx, companyID); err != nil {
		return nil, err
	}
	persons, err := s.persons.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list persons")
	}
	return persons, nil
}

// UpdatePerson edits contact fields of a live person.
func (s *Service) UpdatePerson(ctx context.Context, personID id.PersonID, u models.PersonUpdate) (*models.Person, error) {
	var updated *models.Person
	err := s.withPersonTx(ctx, personID, func(ctx context.Context, p *models.Person, _ *models.Company) error {
		if err := p.ApplyUpdate(u, requestcontext.Now(ctx)); err != nil {
			return asValidation(err)
		}
		if p.Name == "" && p.Surname == "" {
			return dErrors.New(dErrors.CodeValidation, "person needs a name or surname")
		}
		if err := s.persons.Update(ctx, p); err != nil {
			return translate(err, "person")
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeletePerson soft-deletes a person and removes their addresses. The
// company status is not re-evaluated.
func (s *Service) DeletePerson(ctx context.Context, personID id.PersonID) error {
	return s.withPersonTx(ctx, personID, func(ctx context.Context, p *models.Person, _ *models.Company) error {
		p.ApplyDeletion(requestcontext.Now(ctx))
		if err := s.persons.Update(ctx, p); err != nil {
			return translate(err, "person")
		}
		if err := s.addresses.DeleteByPerson(ctx, p.ID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete person addresses")
		}
		return nil
	})
}

// withPersonTx runs fn on a freshly read person inside the transaction of the
// person's company. The company, when there is one, is locked first and
// passed to fn; it is nil for an unlinked person.
func (s *Service) withPersonTx(ctx context.Context, personID id.PersonID, fn func(ctx context.Context, p *models.Person, c *models.Company) error) error {
	p, err := s.GetPerson(ctx, personID)
	if err != nil {
		return err
	}
	return s.tx.RunInTx(ctx, p.CompanyID, func(ctx context.Context) error {
		var c *models.Company
		if p.HasCompany() {
			locked, err := s.lockCompany(ctx, p.CompanyID)
			if err != nil {
				return err
			}
			c = locked
		}
		live, err := s.persons.FindByID(ctx, personID)
		if err != nil {
			return translate(err, "person")
		}
		return fn(ctx, live, c)
	})
}

func (s *Service) GetAddress(ctx context.Context, addressID id.AddressID) (*models.Address, error) {
	a, err := s.addresses.FindByID(ctx, addressID)
	if err != nil {
		return nil, translate(err, "address")
	}
	return a, nil
}

func (s *Service) ListAddressesByCompany(ctx context.Context, companyID id.CompanyID) ([]*models.Address, error) {
	if _, err := s.GetCompany(ctx, companyID); err != nil {
		return nil, err
	}
	addresses, err := s.addresses.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list addresses")
	}
	return addresses, nil
}

func (s *Service) ListAddressesByPerson(ctx context.Context, personID id.PersonID) ([]*models.Address, error) {
	if _, err := s.GetPerson(ctx, personID); err != nil {
		return nil, err
	}
	addresses, err := s.addresses.ListByPerson(ctx, personID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list addresses")
	}
	return addresses, nil
}

// personCompany returns the company of a person, or nil for an unlinked
// person or one whose company no longer exists.
func (s *Service) personCompany(ctx context.Context, p *models.Person) (*models.Company, error) {
	if !p.HasCompany() {
		return nil, nil
	}
	c, err := s.companies.FindByID(ctx, p.CompanyID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load company")
	}
	return c, nil
}
