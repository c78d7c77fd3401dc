package company

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"kyc/internal/kyc/models"
	"kyc/internal/platform/postgres"
	id "kyc/pkg/domain"
	"kyc/pkg/platform/sentinel"
	txcontext "kyc/pkg/platform/tx"
)

// PostgresStore persists companies in the company table. Calls join the
// transaction carried by ctx when there is one.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// status is nullable for rows that predate the status column.
const selectColumns = `id, name, id_number, dic, registry, statute, COALESCE(status, 1), created_at, updated_at, finstat_at`

func (s *PostgresStore) Create(ctx context.Context, c *models.Company) error {
	query := `
		INSERT INTO company (id, name, id_number, dic, registry, statute, status, created_at, updated_at, finstat_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(c.ID), c.Name, c.IDNumber, c.DIC, c.Registry, c.Statute,
		int(c.Status), c.CreatedAt, c.UpdatedAt, c.EnrichedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, companyID id.CompanyID) (*models.Company, error) {
	query := `SELECT ` + selectColumns + ` FROM company WHERE id = $1`
	return s.findOne(ctx, query, uuid.UUID(companyID))
}

// FindForUpdate loads the company and takes its row lock for the rest of the
// enclosing transaction. Status-mutating operations serialize on this lock.
func (s *PostgresStore) FindForUpdate(ctx context.Context, companyID id.CompanyID) (*models.Company, error) {
	if _, ok := txcontext.From(ctx); !ok {
		return nil, errors.New("find company for update: no transaction in context")
	}
	query := `SELECT ` + selectColumns + ` FROM company WHERE id = $1 FOR UPDATE`
	return s.findOne(ctx, query, uuid.UUID(companyID))
}

func (s *PostgresStore) FindByIDNumber(ctx context.Context, idNumber string) (*models.Company, error) {
	query := `SELECT ` + selectColumns + ` FROM company WHERE id_number = $1`
	return s.findOne(ctx, query, idNumber)
}

func (s *PostgresStore) FindByIDs(ctx context.Context, ids []id.CompanyID) ([]*models.Company, error) {
	if len(ids) == 0 {
		return []*models.Company{}, nil
	}
	raw := make([]string, len(ids))
	for i, companyID := range ids {
		raw[i] = companyID.String()
	}
	query := `SELECT ` + selectColumns + ` FROM company WHERE id = ANY($1::uuid[]) ORDER BY name, id`
	return s.findMany(ctx, query, pq.Array(raw))
}

func (s *PostgresStore) List(ctx context.Context, page models.Page) ([]*models.Company, error) {
	page = page.Normalize()
	query := `SELECT ` + selectColumns + ` FROM company ORDER BY created_at, id OFFSET $1 LIMIT $2`
	return s.findMany(ctx, query, page.Skip, page.Limit)
}

func (s *PostgresStore) Update(ctx context.Context, c *models.Company) error {
	query := `
		UPDATE company
		SET name = $2, dic = $3, registry = $4, statute = $5, status = $6, updated_at = $7, finstat_at = $8
		WHERE id = $1
	`
	res, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(c.ID), c.Name, c.DIC, c.Registry, c.Statute, int(c.Status), c.UpdatedAt, c.EnrichedAt,
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update company rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Search(ctx context.Context, q string) ([]*models.Company, error) {
	query := `
		SELECT ` + selectColumns + ` FROM company
		WHERE id_number ILIKE $1 OR name ILIKE $1 OR dic ILIKE $1
		ORDER BY name, id
	`
	return s.findMany(ctx, query, postgres.ContainsPattern(q))
}

func (s *PostgresStore) findOne(ctx context.Context, query string, args ...any) (*models.Company, error) {
	c, err := scanCompany(txcontext.Conn(ctx, s.db).QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find company: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) findMany(ctx context.Context, query string, args ...any) ([]*models.Company, error) {
	rows, err := txcontext.Conn(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query companies: %w", err)
	}
	defer rows.Close()

	out := []*models.Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate companies: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (*models.Company, error) {
	var (
		c          models.Company
		rawID      uuid.UUID
		status     int
		enrichedAt sql.NullTime
	)
	if err := row.Scan(&rawID, &c.Name, &c.IDNumber, &c.DIC, &c.Registry, &c.Statute, &status, &c.CreatedAt, &c.UpdatedAt, &enrichedAt); err != nil {
		return nil, err
	}
	c.ID = id.CompanyID(rawID)
	c.Status = models.Status(status)
	if enrichedAt.Valid {
		t := enrichedAt.Time
		c.EnrichedAt = &t
	}
	return &c, nil
}
