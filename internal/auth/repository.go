package auth

import (
	"context"
	"database/sql"
	"sync"

	"github.com/pkg/errors"
	"github.com/sebuszqo/FinanceTracker/internal/apperrors"
)

var ErrTwoFactorNotRegistered = apperrors.NewValidationError("Two-factor authentication has not been registered")

// SecretRepository stores the TOTP secret of each user.
type SecretRepository interface {
	SaveTwoFactorSecret(ctx context.Context, userID, secret string) error
	GetTwoFactorSecret(ctx context.Context, userID string) (string, error)
	DeleteTwoFactorSecret(ctx context.Context, userID string) error
}

func upstream(op string, err error) error {
	return apperrors.NewUpstreamError(op, errors.Wrap(err, "postgres"))
}

type secretRepository struct {
	db *sql.DB
}

func NewSecretRepository(db *sql.DB) SecretRepository {
	return &secretRepository{
		db: db,
	}
}

func (r *secretRepository) SaveTwoFactorSecret(ctx context.Context, userID, secret string) error {
	query := `
        INSERT INTO user_two_factor_secrets (user_id, encrypted_secret, created_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (user_id) DO UPDATE
        SET encrypted_secret = EXCLUDED.encrypted_secret,
            created_at = NOW()
    `
	if _, err := r.db.ExecContext(ctx, query, userID, secret); err != nil {
		return upstream("save two factor secret", err)
	}
	return nil
}

func (r *secretRepository) GetTwoFactorSecret(ctx context.Context, userID string) (string, error) {
	var secret string
	err := r.db.QueryRowContext(ctx,
		`SELECT encrypted_secret FROM user_two_factor_secrets WHERE user_id = $1`, userID).Scan(&secret)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrTwoFactorNotRegistered
		}
		return "", upstream("get two factor secret", err)
	}
	return secret, nil
}

func (r *secretRepository) DeleteTwoFactorSecret(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_two_factor_secrets WHERE user_id = $1`, userID); err != nil {
		return upstream("delete two factor secret", err)
	}
	return nil
}

type MemorySecretRepository struct {
	mu      sync.RWMutex
	secrets map[string]string
}

func NewMemorySecretRepository() *MemorySecretRepository {
	return &MemorySecretRepository{secrets: make(map[string]string)}
}

func (m *MemorySecretRepository) SaveTwoFactorSecret(_ context.Context, userID, secret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secrets[userID] = secret
	return nil
}

func (m *MemorySecretRepository) GetTwoFactorSecret(_ context.Context, userID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	secret, ok := m.secrets[userID]
	if !ok {
		return "", ErrTwoFactorNotRegistered
	}
	return secret, nil
}

func (m *MemorySecretRepository) DeleteTwoFactorSecret(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.secrets, userID)
	return nil
}
