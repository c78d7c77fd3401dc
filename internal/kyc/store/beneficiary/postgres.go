package beneficiary

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

// PostgresStore persists beneficiaries. Live-row uniqueness of
// (company_id, name, surname) is enforced by a partial unique index.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectColumns = `id, company_id, name, surname, created_at, deleted_at`

func (s *PostgresStore) Create(ctx context.Context, b *models.Beneficiary) error {
	query := `
		INSERT INTO beneficiary (id, company_id, name, surname, created_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(b.ID), uuid.UUID(b.CompanyID), b.Name, b.Surname, b.CreatedAt, b.DeletedAt,
	)
	if err != nil {
		switch {
		case postgres.IsUniqueViolation(err):
			return sentinel.ErrAlreadyUsed
		case postgres.IsForeignKeyViolation(err):
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("insert beneficiary: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, beneficiaryID id.BeneficiaryID) (*models.Beneficiary, error) {
	query := `SELECT ` + selectColumns + ` FROM beneficiary WHERE id = $1 AND deleted_at IS NULL`
	b, err := scanBeneficiary(txcontext.Conn(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(beneficiaryID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find beneficiary: %w", err)
	}
	return b, nil
}

func (s *PostgresStore) ListByCompany(ctx context.Context, companyID id.CompanyID) ([]*models.Beneficiary, error) {
	query := `SELECT ` + selectColumns + ` FROM beneficiary WHERE company_id = $1 AND deleted_at IS NULL ORDER BY created_at, id`
	rows, err := txcontext.Conn(ctx, s.db).QueryContext(ctx, query, uuid.UUID(companyID))
	if err != nil {
		return nil, fmt.Errorf("list beneficiaries: %w", err)
	}
	defer rows.Close()

	out := []*models.Beneficiary{}
	for rows.Next() {
		b, err := scanBeneficiary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan beneficiary: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate beneficiaries: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Update(ctx context.Context, b *models.Beneficiary) error {
	query := `UPDATE beneficiary SET name = $2, surname = $3, deleted_at = $4 WHERE id = $1 AND deleted_at IS NULL`
	res, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, query, uuid.UUID(b.ID), b.Name, b.Surname, b.DeletedAt)
	if err != nil {
		return fmt.Errorf("update beneficiary: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update beneficiary rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) SearchCompanyIDs(ctx context.Context, q string) ([]id.CompanyID, error) {
	query := `
		SELECT DISTINCT company_id FROM beneficiary
		WHERE deleted_at IS NULL AND (name ILIKE $1 OR surname ILIKE $1)
	`
	rows, err := txcontext.Conn(ctx, s.db).QueryContext(ctx, query, postgres.ContainsPattern(q))
	if err != nil {
		return nil, fmt.Errorf("search beneficiaries: %w", err)
	}
	defer rows.Close()

	var ids []id.CompanyID
	for rows.Next() {
		var raw uuid.UUID
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan beneficiary company: %w", err)
		}
		ids = append(ids, id.CompanyID(raw))
	}
	return ids, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBeneficiary(row rowScanner) (*models.Beneficiary, error) {
	var (
		b                models.Beneficiary
		rawID, companyID uuid.UUID
		deletedAt        sql.NullTime
	)
	if err := row.Scan(&rawID, &companyID, &b.Name, &b.Surname, &b.CreatedAt, &deletedAt); err != nil {
		return nil, err
	}
	b.ID = id.BeneficiaryID(rawID)
	b.CompanyID = id.CompanyID(companyID)
	if deletedAt.Valid {
		t := deletedAt.Time
		b.DeletedAt = &t
	}
	return &b, nil
}
