package person

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"kyc/internal/kyc/models"
	"kyc/internal/platform/postgres"
	id "kyc/pkg/domain"
	"kyc/pkg/platform/sentinel"
	txcontext "kyc/pkg/platform/tx"
)

// PostgresStore persists persons in the person table. Every read filters on
// deleted_at IS NULL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectColumns = `
	id, company_id, email, name, surname, country, id_number, document_type, document_number,
	document_front, document_back, verification_photo, requested_at, verified_at, deleted_at,
	created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, p *models.Person) error {
	query := `
		INSERT INTO person (
			id, company_id, email, name, surname, country, id_number, document_type, document_number,
			document_front, document_back, verification_photo, requested_at, verified_at, deleted_at,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(p.ID), companyParam(p.CompanyID), p.Email, p.Name, p.Surname, p.Country, p.IDNumber,
		p.DocumentType, p.DocumentNumber, p.DocumentFront, p.DocumentBack, p.VerificationPhoto,
		p.RequestedAt, p.VerifiedAt, p.DeletedAt, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("insert person: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, personID id.PersonID) (*models.Person, error) {
	query := `SELECT ` + selectColumns + ` FROM person WHERE id = $1 AND deleted_at IS NULL`
	p, err := scanPerson(txcontext.Conn(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(personID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find person: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) List(ctx context.Context, page models.Page) ([]*models.Person, error) {
	page = page.Normalize()
	query := `SELECT ` + selectColumns + ` FROM person WHERE deleted_at IS NULL ORDER BY created_at, id OFFSET $1 LIMIT $2`
	return s.findMany(ctx, query, page.Skip, page.Limit)
}

func (s *PostgresStore) ListByCompany(ctx context.Context, companyID id.CompanyID) ([]*models.Person, error) {
	query := `SELECT ` + selectColumns + ` FROM person WHERE company_id = $1 AND deleted_at IS NULL ORDER BY created_at, id`
	return s.findMany(ctx, query, uuid.UUID(companyID))
}

func (s *PostgresStore) Update(ctx context.Context, p *models.Person) error {
	query := `
		UPDATE person SET
			email = $2, name = $3, surname = $4, country = $5, id_number = $6, document_type = $7,
			document_number = $8, document_front = $9, document_back = $10, verification_photo = $11,
			requested_at = $12, verified_at = $13, deleted_at = $14, updated_at = $15
		WHERE id = $1 AND deleted_at IS NULL
	`
	res, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(p.ID), p.Email, p.Name, p.Surname, p.Country, p.IDNumber, p.DocumentType,
		p.DocumentNumber, p.DocumentFront, p.DocumentBack, p.VerificationPhoto,
		p.RequestedAt, p.VerifiedAt, p.DeletedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update person rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) SearchCompanyIDs(ctx context.Context, q string) ([]id.CompanyID, error) {
	query := `
		SELECT DISTINCT company_id FROM person
		WHERE deleted_at IS NULL AND company_id IS NOT NULL
		  AND (id_number ILIKE $1 OR email ILIKE $1 OR name ILIKE $1 OR surname ILIKE $1)
	`
	rows, err := txcontext.Conn(ctx, s.db).QueryContext(ctx, query, postgres.ContainsPattern(q))
	if err != nil {
		return nil, fmt.Errorf("search persons: %w", err)
	}
	defer rows.Close()

	var ids []id.CompanyID
	for rows.Next() {
		var raw uuid.UUID
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan person company: %w", err)
		}
		ids = append(ids, id.CompanyID(raw))
	}
	return ids, rows.Err()
}

func (s *PostgresStore) findMany(ctx context.Context, query string, args ...any) ([]*models.Person, error) {
	rows, err := txcontext.Conn(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query persons: %w", err)
	}
	defer rows.Close()

	out := []*models.Person{}
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate persons: %w", err)
	}
	return out, nil
}

func companyParam(companyID id.CompanyID) uuid.NullUUID {
	if companyID.IsNil() {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(companyID), Valid: true}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerson(row rowScanner) (*models.Person, error) {
	var (
		p                              models.Person
		rawID                          uuid.UUID
		companyID                      uuid.NullUUID
		requestedAt, verifiedAt, delAt sql.NullTime
	)
	err := row.Scan(
		&rawID, &companyID, &p.Email, &p.Name, &p.Surname, &p.Country, &p.IDNumber,
		&p.DocumentType, &p.DocumentNumber, &p.DocumentFront, &p.DocumentBack, &p.VerificationPhoto,
		&requestedAt, &verifiedAt, &delAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.ID = id.PersonID(rawID)
	if companyID.Valid {
		p.CompanyID = id.CompanyID(companyID.UUID)
	}
	p.RequestedAt = timePtr(requestedAt)
	p.VerifiedAt = timePtr(verifiedAt)
	p.DeletedAt = timePtr(delAt)
	return &p, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
