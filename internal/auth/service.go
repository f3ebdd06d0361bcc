package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sebuszqo/FinanceTracker/internal/apperrors"
	"github.com/sebuszqo/FinanceTracker/internal/user"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMissingCredentials     = apperrors.NewValidationError("Please provide an email and password")
	ErrInvalidCredentials     = apperrors.NewAuthError("Invalid credentials")
	ErrTwoFactorCodeRequired  = apperrors.NewAuthError("Two-factor authentication code required")
	ErrNotAuthorized          = apperrors.NewAuthError(NotAuthorizedMessage)
	ErrUser2FAAlreadyEnabled  = apperrors.NewConflictError("Two-factor authentication is already enabled")
	ErrUser2FANotEnabled      = apperrors.NewValidationError("Two-factor authentication is not enabled")
	ErrInvalid2FACode         = apperrors.NewValidationError("Invalid two-factor code")
	ErrTwoFactorCodeMandatory = apperrors.NewValidationError("Two-factor code is required")
)

type Service interface {
	Login(ctx context.Context, email, password, code string) (*user.User, string, error)
	VerifyToken(ctx context.Context, token string) (string, error)
	Me(ctx context.Context, userID string) (*user.User, error)
	RegisterTwoFactor(ctx context.Context, userID string) (string, error)
	VerifyTwoFactorCode(ctx context.Context, userID, code string) error
	DisableTwoFactor(ctx context.Context, userID, code string) error
	JWTAccessTokenMiddleware() func(http.Handler) http.Handler
}

type service struct {
	secrets       SecretRepository
	userService   user.Service
	jwtManager    JWTManagerInterface
	authenticator TwoFactorAuthenticator
	log           logrus.FieldLogger
}

func NewAuthService(secrets SecretRepository, userService user.Service, jwtManager JWTManagerInterface, authenticator TwoFactorAuthenticator, log logrus.FieldLogger) Service {
	return &service{
		secrets:       secrets,
		userService:   userService,
		jwtManager:    jwtManager,
		authenticator: authenticator,
		log:           log,
	}
}

func doPasswordsMatch(hashedPassword, currPassword string) bool {
	err := bcrypt.CompareHashAndPassword(
		[]byte(hashedPassword), []byte(currPassword))
	return err == nil
}

// Login checks the credentials and, when the account has TOTP enabled, the
// second factor. An unknown email and a wrong password fail the same way.
func (s *service) Login(ctx context.Context, email, password, code string) (*user.User, string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, "", ErrMissingCredentials
	}

	existingUser, err := s.userService.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !doPasswordsMatch(existingUser.PasswordHash, password) {
		s.log.WithField("user_id", existingUser.ID).Warn("login with wrong password")
		return nil, "", ErrInvalidCredentials
	}

	if existingUser.TwoFactorEnabled {
		if code == "" {
			return nil, "", ErrTwoFactorCodeRequired
		}
		secret, err := s.secrets.GetTwoFactorSecret(ctx, existingUser.ID)
		if err != nil {
			return nil, "", err
		}
		if !s.authenticator.VerifyCode(secret, code) {
			s.log.WithField("user_id", existingUser.ID).Warn("login with wrong two-factor code")
			return nil, "", ErrInvalidCredentials
		}
	}

	token, err := s.jwtManager.GenerateAccessJWT(existingUser.ID)
	if err != nil {
		return nil, "", apperrors.NewUpstreamError("sign access token", err)
	}
	return existingUser, token, nil
}

// VerifyToken resolves a bearer token to the ID of an existing user.
func (s *service) VerifyToken(ctx context.Context, token string) (string, error) {
	userID, err := s.jwtManager.ValidateAccessToken(token)
	if err != nil {
		return "", ErrNotAuthorized
	}

	if _, err := s.userService.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return "", ErrNotAuthorized
		}
		return "", err
	}
	return userID, nil
}

func (s *service) Me(ctx context.Context, userID string) (*user.User, error) {
	return s.userService.GetUserByID(ctx, userID)
}

// RegisterTwoFactor creates a fresh TOTP secret. It only takes effect once a
// code generated from it is confirmed with VerifyTwoFactorCode.
func (s *service) RegisterTwoFactor(ctx context.Context, userID string) (string, error) {
	existingUser, err := s.userService.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if existingUser.TwoFactorEnabled {
		return "", ErrUser2FAAlreadyEnabled
	}

	otpURI, secret, err := s.authenticator.GenerateSecret(existingUser.Email)
	if err != nil {
		return "", apperrors.NewUpstreamError("generate totp secret", err)
	}
	if err := s.secrets.SaveTwoFactorSecret(ctx, userID, secret); err != nil {
		return "", err
	}
	return otpURI, nil
}

func (s *service) VerifyTwoFactorCode(ctx context.Context, userID, code string) error {
	if code == "" {
		return ErrTwoFactorCodeMandatory
	}
	existingUser, err := s.userService.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if existingUser.TwoFactorEnabled {
		return ErrUser2FAAlreadyEnabled
	}

	secret, err := s.secrets.GetTwoFactorSecret(ctx, userID)
	if err != nil {
		return err
	}
	if !s.authenticator.VerifyCode(secret, code) {
		return ErrInvalid2FACode
	}

	if err := s.userService.SetTwoFactorEnabled(ctx, userID, true); err != nil {
		return err
	}
	s.log.WithField("user_id", userID).Info("two-factor authentication enabled")
	return nil
}

func (s *service) DisableTwoFactor(ctx context.Context, userID, code string) error {
	if code == "" {
		return ErrTwoFactorCodeMandatory
	}
	existingUser, err := s.userService.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !existingUser.TwoFactorEnabled {
		return ErrUser2FANotEnabled
	}

	secret, err := s.secrets.GetTwoFactorSecret(ctx, userID)
	if err != nil {
		return err
	}
	if !s.authenticator.VerifyCode(secret, code) {
		return ErrInvalid2FACode
	}

	if err := s.userService.SetTwoFactorEnabled(ctx, userID, false); err != nil {
		return err
	}
	if err := s.secrets.DeleteTwoFactorSecret(ctx, userID); err != nil {
		return err
	}
	s.log.WithField("user_id", userID).Info("two-factor authentication disabled")
	return nil
}
