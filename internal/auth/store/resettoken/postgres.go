package resettoken

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"kyc/internal/auth/models"
	"kyc/internal/platform/postgres"
	id "kyc/pkg/domain"
	"kyc/pkg/platform/sentinel"
	txcontext "kyc/pkg/platform/tx"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, t *models.ResetToken) error {
	query := `INSERT INTO reset_token (token, user_id, created_at, used_at) VALUES ($1, $2, $3, $4)`
	_, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(t.Token), uuid.UUID(t.UserID), t.CreatedAt, t.UsedAt)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("insert reset token: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByToken(ctx context.Context, token id.ResetTokenID) (*models.ResetToken, error) {
	query := `SELECT token, user_id, created_at, used_at FROM reset_token WHERE token = $1`
	var (
		t              models.ResetToken
		tokenID, owner uuid.UUID
		usedAt         sql.NullTime
	)
	err := txcontext.Conn(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(token)).
		Scan(&tokenID, &owner, &t.CreatedAt, &usedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find reset token: %w", err)
	}
	t.Token = id.ResetTokenID(tokenID)
	t.UserID = id.UserID(owner)
	if usedAt.Valid {
		t.UsedAt = &usedAt.Time
	}
	return &t, nil
}

// MarkUsed consumes the token with a conditional update; of two concurrent
// callers only one sees a row change.
func (s *PostgresStore) MarkUsed(ctx context.Context, token id.ResetTokenID, now time.Time) error {
	conn := txcontext.Conn(ctx, s.db)
	res, err := conn.ExecContext(ctx,
		`UPDATE reset_token SET used_at = $2 WHERE token = $1 AND used_at IS NULL`, uuid.UUID(token), now)
	if err != nil {
		return fmt.Errorf("mark reset token used: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark reset token used: %w", err)
	}
	if n == 1 {
		return nil
	}
	if _, err := s.FindByToken(ctx, token); err != nil {
		return err
	}
	return sentinel.ErrAlreadyUsed
}
