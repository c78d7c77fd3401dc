package address

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"kyc/internal/kyc/models"
	"kyc/internal/platform/postgres"
	id "kyc/pkg/domain"
	"kyc/pkg/platform/sentinel"
	txcontext "kyc/pkg/platform/tx"
)

// PostgresStore persists addresses. Owner rows cascade their deletion here
// through ON DELETE CASCADE.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectColumns = `id, company_id, person_id, city, street, number, zip, created_at`

func (s *PostgresStore) Create(ctx context.Context, a *models.Address) error {
	query := `
		INSERT INTO address (id, company_id, person_id, city, street, number, zip, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(a.ID), nullable(uuid.UUID(a.CompanyID)), nullable(uuid.UUID(a.PersonID)),
		a.City, a.Street, a.Number, a.Zip, a.CreatedAt,
	)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("insert address: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, addressID id.AddressID) (*models.Address, error) {
	query := `SELECT ` + selectColumns + ` FROM address WHERE id = $1`
	a, err := scanAddress(txcontext.Conn(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(addressID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find address: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) ListByCompany(ctx context.Context, companyID id.CompanyID) ([]*models.Address, error) {
	query := `SELECT ` + selectColumns + ` FROM address WHERE company_id = $1 ORDER BY created_at, id`
	return s.findMany(ctx, query, uuid.UUID(companyID))
}

func (s *PostgresStore) ListByPerson(ctx context.Context, personID id.PersonID) ([]*models.Address, error) {
	query := `SELECT ` + selectColumns + ` FROM address WHERE person_id = $1 ORDER BY created_at, id`
	return s.findMany(ctx, query, uuid.UUID(personID))
}

func (s *PostgresStore) DeleteByCompany(ctx context.Context, companyID id.CompanyID) error {
	if _, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, `DELETE FROM address WHERE company_id = $1`, uuid.UUID(companyID)); err != nil {
		return fmt.Errorf("delete company addresses: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteByPerson(ctx context.Context, personID id.PersonID) error {
	if _, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, `DELETE FROM address WHERE person_id = $1`, uuid.UUID(personID)); err != nil {
		return fmt.Errorf("delete person addresses: %w", err)
	}
	return nil
}

func (s *PostgresStore) findMany(ctx context.Context, query string, args ...any) ([]*models.Address, error) {
	rows, err := txcontext.Conn(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query addresses: %w", err)
	}
	defer rows.Close()

	out := []*models.Address{}
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate addresses: %w", err)
	}
	return out, nil
}

func nullable(u uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: u, Valid: u != uuid.Nil}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAddress(row rowScanner) (*models.Address, error) {
	var (
		a                   models.Address
		rawID               uuid.UUID
		companyID, personID uuid.NullUUID
	)
	if err := row.Scan(&rawID, &companyID, &personID, &a.City, &a.Street, &a.Number, &a.Zip, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.ID = id.AddressID(rawID)
	if companyID.Valid {
		a.CompanyID = id.CompanyID(companyID.UUID)
	}
	if personID.Valid {
		a.PersonID = id.PersonID(personID.UUID)
	}
	return &a, nil
}
