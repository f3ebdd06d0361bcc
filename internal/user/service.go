package user

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/badoux/checkmail"
	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceTracker/internal/apperrors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxUsernameLength = 50
	minPasswordLength = 6
	bcryptCost        = 12
)

var (
	ErrEmailAlreadyExists    = apperrors.NewConflictError("User already exists with this email")
	ErrUsernameAlreadyExists = apperrors.NewConflictError("Username is already taken")
)

type User struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	TwoFactorEnabled bool      `json:"twoFactorEnabled"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Public is the identity block returned next to a freshly issued token.
type Public struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (u *User) Public() Public {
	return Public{ID: u.ID, Username: u.Username, Email: u.Email}
}

type Service interface {
	Register(ctx context.Context, username, email, password string) (*User, error)
	GetUserByID(ctx context.Context, userID string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	SetTwoFactorEnabled(ctx context.Context, userID string, enabled bool) error
}

type service struct {
	repo Repository
	log  logrus.FieldLogger
}

func NewUserService(repo Repository, log logrus.FieldLogger) Service {
	return &service{
		repo: repo,
		log:  log,
	}
}

func hashPassword(password string) (string, error) {
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(hashedPasswordBytes), err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateRegistration reports every failing field, in field order.
func validateRegistration(username, email, password string) error {
	validationErrors := &apperrors.ValidationErrors{}

	switch {
	case username == "":
		validationErrors.Add(apperrors.NewValidationError("Please add a username"))
	case utf8.RuneCountInString(username) > maxUsernameLength:
		validationErrors.Add(apperrors.NewValidationError("Username cannot be more than 50 characters"))
	}

	switch {
	case email == "":
		validationErrors.Add(apperrors.NewValidationError("Please add an email"))
	case checkmail.ValidateFormat(email) != nil:
		validationErrors.Add(apperrors.NewValidationError("Please add a valid email"))
	}

	switch {
	case password == "":
		validationErrors.Add(apperrors.NewValidationError("Please add a password"))
	case utf8.RuneCountInString(password) < minPasswordLength:
		validationErrors.Add(apperrors.NewValidationError("Password must be at least 6 characters"))
	}

	return validationErrors.ErrOrNil()
}

func (s *service) Register(ctx context.Context, username, email, password string) (*User, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)

	if err := validateRegistration(username, email, password); err != nil {
		return nil, err
	}

	existingUser, err := s.repo.userExistsByUsernameOrEmail(ctx, username, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if existingUser != nil {
		if existingUser.Email == email {
			return nil, ErrEmailAlreadyExists
		}
		return nil, ErrUsernameAlreadyExists
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, apperrors.NewUpstreamError("hash password", err)
	}

	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}
	if err := s.repo.createUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.WithField("user_id", user.ID).Info("user registered")
	return user, nil
}

func (s *service) GetUserByID(ctx context.Context, userID string) (*User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrUserNotFound
	}
	return s.repo.getUserByID(ctx, userID)
}

func (s *service) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.getUserByEmail(ctx, normalizeEmail(email))
}

func (s *service) SetTwoFactorEnabled(ctx context.Context, userID string, enabled bool) error {
	return s.repo.setTwoFactorEnabled(ctx, userID, enabled)
}
