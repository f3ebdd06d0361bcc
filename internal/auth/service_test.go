package auth

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/sebuszqo/FinanceTracker/internal/apperrors"
	"github.com/sebuszqo/FinanceTracker/internal/user"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	service     Service
	userService user.Service
	secrets     *MemorySecretRepository
	jwtManager  *JWTManager
	user        *user.User
}

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := testLogger()
	userService := user.NewUserService(user.NewMemoryRepository(), log)
	secrets := NewMemorySecretRepository()
	jwtManager := NewJWTManager("test-secret", time.Hour)

	registered, err := userService.Register(context.Background(), "alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	return &fixture{
		service:     NewAuthService(secrets, userService, jwtManager, Authenticator{}, log),
		userService: userService,
		secrets:     secrets,
		jwtManager:  jwtManager,
		user:        registered,
	}
}

// enableTwoFactor registers and confirms TOTP, returning the secret.
func (f *fixture) enableTwoFactor(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	_, err := f.service.RegisterTwoFactor(ctx, f.user.ID)
	require.NoError(t, err)
	secret, err := f.secrets.GetTwoFactorSecret(ctx, f.user.ID)
	require.NoError(t, err)
	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, f.service.VerifyTwoFactorCode(ctx, f.user.ID, code))
	return secret
}

func TestLogin_Success(t *testing.T) {
	f := newFixture(t)

	loggedIn, token, err := f.service.Login(context.Background(), "ALICE@example.com", "secret1", "")
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, loggedIn.ID)

	userID, err := f.jwtManager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, userID)
}

func TestLogin_Failures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.service.Login(ctx, "", "secret1", "")
	assert.Equal(t, ErrMissingCredentials, err)

	_, _, err = f.service.Login(ctx, "nobody@example.com", "secret1", "")
	assert.Equal(t, ErrInvalidCredentials, err)

	_, _, err = f.service.Login(ctx, "alice@example.com", "wrong-password", "")
	assert.Equal(t, ErrInvalidCredentials, err)
	assert.True(t, apperrors.IsAuthError(err))
}

func TestLogin_TwoFactor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	secret := f.enableTwoFactor(t)

	_, _, err := f.service.Login(ctx, "alice@example.com", "secret1", "")
	assert.Equal(t, ErrTwoFactorCodeRequired, err)

	_, _, err = f.service.Login(ctx, "alice@example.com", "secret1", "000000x")
	assert.Equal(t, ErrInvalidCredentials, err)

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	_, token, err := f.service.Login(ctx, "alice@example.com", "secret1", code)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestTwoFactorLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.service.VerifyTwoFactorCode(ctx, f.user.ID, "123456")
	assert.Equal(t, ErrTwoFactorNotRegistered, err)

	otpURI, err := f.service.RegisterTwoFactor(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Contains(t, otpURI, "otpauth://totp/FinanceTracker")

	err = f.service.VerifyTwoFactorCode(ctx, f.user.ID, "000000x")
	assert.Equal(t, ErrInvalid2FACode, err)

	secret, err := f.secrets.GetTwoFactorSecret(ctx, f.user.ID)
	require.NoError(t, err)
	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, f.service.VerifyTwoFactorCode(ctx, f.user.ID, code))

	me, err := f.service.Me(ctx, f.user.ID)
	require.NoError(t, err)
	assert.True(t, me.TwoFactorEnabled)

	_, err = f.service.RegisterTwoFactor(ctx, f.user.ID)
	assert.Equal(t, ErrUser2FAAlreadyEnabled, err)

	require.NoError(t, f.service.DisableTwoFactor(ctx, f.user.ID, code))
	me, err = f.service.Me(ctx, f.user.ID)
	require.NoError(t, err)
	assert.False(t, me.TwoFactorEnabled)

	_, err = f.secrets.GetTwoFactorSecret(ctx, f.user.ID)
	assert.Equal(t, ErrTwoFactorNotRegistered, err)

	assert.Equal(t, ErrUser2FANotEnabled, f.service.DisableTwoFactor(ctx, f.user.ID, code))
}

func TestVerifyToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	token, err := f.jwtManager.GenerateAccessJWT(f.user.ID)
	require.NoError(t, err)
	userID, err := f.service.VerifyToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, userID)

	_, err = f.service.VerifyToken(ctx, "not-a-token")
	assert.Equal(t, ErrNotAuthorized, err)

	ghost, err := f.jwtManager.GenerateAccessJWT("6f1c3c5e-2b1a-4c57-9d3e-1b2a3c4d5e6f")
	require.NoError(t, err)
	_, err = f.service.VerifyToken(ctx, ghost)
	assert.Equal(t, ErrNotAuthorized, err)
}
