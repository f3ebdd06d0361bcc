package user

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/sebuszqo/FinanceTracker/internal/apperrors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestService() (Service, *MemoryRepository) {
	repo := NewMemoryRepository()
	return NewUserService(repo, testLogger()), repo
}

func TestRegister_Success(t *testing.T) {
	service, _ := newTestService()

	user, err := service.Register(context.Background(), "  alice ", "Alice@Example.com", "secret1")
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.False(t, user.CreatedAt.IsZero())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")))

	found, err := service.GetUserByEmail(context.Background(), "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}

func TestRegister_CollectsEveryValidationError(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Register(context.Background(), "", "not-an-email", "123")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationErrors(err))
	assert.Equal(t, []string{
		"Please add a username",
		"Please add a valid email",
		"Password must be at least 6 characters",
	}, apperrors.Details(err))
}

func TestRegister_UsernameTooLong(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Register(context.Background(), strings.Repeat("a", 51), "", "")
	assert.Equal(t, []string{
		"Username cannot be more than 50 characters",
		"Please add an email",
		"Please add a password",
	}, apperrors.Details(err))
}

func TestRegister_Duplicates(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	_, err := service.Register(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	_, err = service.Register(ctx, "someone", "ALICE@example.com", "secret1")
	assert.Equal(t, ErrEmailAlreadyExists, err)
	assert.True(t, apperrors.IsConflictError(err))

	_, err = service.Register(ctx, "alice", "other@example.com", "secret1")
	assert.Equal(t, ErrUsernameAlreadyExists, err)
}

func TestGetUserByID_UnknownOrMalformed(t *testing.T) {
	service, _ := newTestService()

	_, err := service.GetUserByID(context.Background(), "not-a-uuid")
	assert.Equal(t, ErrUserNotFound, err)

	_, err = service.GetUserByID(context.Background(), "6f1c3c5e-2b1a-4c57-9d3e-1b2a3c4d5e6f")
	assert.Equal(t, ErrUserNotFound, err)
}

func TestSetTwoFactorEnabled(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	user, err := service.Register(ctx, "bob", "bob@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, service.SetTwoFactorEnabled(ctx, user.ID, true))
	found, err := service.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, found.TwoFactorEnabled)

	assert.Equal(t, ErrUserNotFound, service.SetTwoFactorEnabled(ctx, "6f1c3c5e-2b1a-4c57-9d3e-1b2a3c4d5e6f", true))
}
