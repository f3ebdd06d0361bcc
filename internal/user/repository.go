package user

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/sebuszqo/FinanceTracker/internal/apperrors"
)

const uniqueViolation = "23505"

var (
	ErrUserNotFound  = apperrors.NewNotFoundError("User not found")
	ErrDuplicateUser = apperrors.NewConflictError("Duplicate field value entered")
)

type Repository interface {
	createUser(ctx context.Context, user *User) error
	getUserByEmail(ctx context.Context, email string) (*User, error)
	getUserByID(ctx context.Context, id string) (*User, error)
	userExistsByUsernameOrEmail(ctx context.Context, username, email string) (*User, error)
	setTwoFactorEnabled(ctx context.Context, userID string, enabled bool) error
}

func upstream(op string, err error) error {
	return apperrors.NewUpstreamError(op, errors.Wrap(err, "postgres"))
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) Repository {
	return &userRepository{
		db: db,
	}
}

const userColumns = "id, username, email, password_hash, two_factor_enabled, created_at, updated_at"

func (r *userRepository) createUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, two_factor_enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, user.ID, user.Username, user.Email, user.PasswordHash, user.TwoFactorEnabled).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateUser
		}
		return upstream("create user", err)
	}
	return nil
}

func (r *userRepository) scanOne(ctx context.Context, op, query string, args ...interface{}) (*User, error) {
	var user User
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.TwoFactorEnabled, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, upstream(op, err)
	}
	return &user, nil
}

func (r *userRepository) getUserByEmail(ctx context.Context, email string) (*User, error) {
	return r.scanOne(ctx, "get user by email",
		"SELECT "+userColumns+" FROM users WHERE LOWER(email) = LOWER($1)", email)
}

func (r *userRepository) getUserByID(ctx context.Context, id string) (*User, error) {
	return r.scanOne(ctx, "get user by id",
		"SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

// userExistsByUsernameOrEmail prefers the email match when both exist.
func (r *userRepository) userExistsByUsernameOrEmail(ctx context.Context, username, email string) (*User, error) {
	return r.scanOne(ctx, "check user exists",
		"SELECT "+userColumns+` FROM users
		WHERE username = $1 OR LOWER(email) = LOWER($2)
		ORDER BY (LOWER(email) = LOWER($2)) DESC
		LIMIT 1`, username, email)
}

func (r *userRepository) setTwoFactorEnabled(ctx context.Context, userID string, enabled bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET two_factor_enabled = $1, updated_at = NOW() WHERE id = $2`, enabled, userID)
	if err != nil {
		return upstream("update two factor flag", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return upstream("update two factor flag", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// MemoryRepository keeps users in process memory for the "memory" data
// backend and tests. Emails are stored lowercased by the service.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]User
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users: make(map[string]User),
		now:   time.Now,
	}
}

func (m *MemoryRepository) createUser(ctx context.Context, user *User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return ErrDuplicateUser
		}
	}
	now := m.now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	m.users[user.ID] = *user
	return nil
}

func (m *MemoryRepository) find(ctx context.Context, match func(User) bool) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var found *User
	for _, user := range m.users {
		if !match(user) {
			continue
		}
		u := user
		found = &u
		break
	}
	if found == nil {
		return nil, ErrUserNotFound
	}
	return found, nil
}

func (m *MemoryRepository) getUserByEmail(ctx context.Context, email string) (*User, error) {
	return m.find(ctx, func(u User) bool { return u.Email == email })
}

func (m *MemoryRepository) getUserByID(ctx context.Context, id string) (*User, error) {
	return m.find(ctx, func(u User) bool { return u.ID == id })
}

func (m *MemoryRepository) userExistsByUsernameOrEmail(ctx context.Context, username, email string) (*User, error) {
	if user, err := m.getUserByEmail(ctx, email); err == nil {
		return user, nil
	}
	return m.find(ctx, func(u User) bool { return u.Username == username })
}

func (m *MemoryRepository) setTwoFactorEnabled(ctx context.Context, userID string, enabled bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.TwoFactorEnabled = enabled
	user.UpdatedAt = m.now().UTC()
	m.users[userID] = user
	return nil
}
