package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceTracker/internal/apperrors"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

func IsValidTransactionType(t string) bool {
	return t == string(TypeIncome) || t == string(TypeExpense)
}

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusCancelled TransactionStatus = "cancelled"
)

func IsValidTransactionStatus(s string) bool {
	switch TransactionStatus(s) {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

const (
	maxDescriptionLength = 200
	maxCategoryLength    = 100
)

// amountLimit is the exclusive upper bound of the NUMERIC(14, 2) amount column.
var amountLimit = decimal.New(1, 12)

type TransactionRepository interface {
	Save(ctx context.Context, transaction *Transaction) error
	Count(ctx context.Context, predicate Predicate) (int, error)
	Find(ctx context.Context, predicate Predicate, sort SortKey, page Page) ([]Transaction, error)
	// Stream calls fn for every matching transaction in sort order and stops at the first error.
	Stream(ctx context.Context, predicate Predicate, sort SortKey, fn func(Transaction) error) error
	MonthlyTotals(ctx context.Context, predicate Predicate) ([]MonthlyTotal, error)
	CategoryTotals(ctx context.Context, predicate Predicate) ([]CategoryTotal, error)
	Totals(ctx context.Context, predicate Predicate) (Totals, error)
}

type Transaction struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user"`
	Description string            `json:"description"`
	Amount      decimal.Decimal   `json:"amount"`
	Type        TransactionType   `json:"type"`
	Category    string            `json:"category"`
	Date        time.Time         `json:"date"`
	Status      TransactionStatus `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// TransactionInput carries the client supplied fields of a new transaction.
// Amount is a pointer so a missing amount can be told apart from zero.
type TransactionInput struct {
	Description string           `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Type        string           `json:"type"`
	Category    string           `json:"category"`
	Date        string           `json:"date"`
	Status      string           `json:"status"`
}

// NewTransaction validates input and builds a transaction owned by userID.
// All failing fields are reported together.
func NewTransaction(userID string, input TransactionInput, now time.Time) (*Transaction, error) {
	if userID == "" {
		return nil, ErrMissingOwner
	}

	t := &Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Description: strings.TrimSpace(input.Description),
		Type:        TransactionType(input.Type),
		Category:    strings.TrimSpace(input.Category),
		Date:        now.UTC(),
		Status:      StatusCompleted,
	}
	if input.Status != "" {
		t.Status = TransactionStatus(input.Status)
	}

	validationErrors := &apperrors.ValidationErrors{}
	if input.Amount == nil {
		validationErrors.Add(apperrors.NewValidationError("Amount is required"))
	} else {
		t.Amount = input.Amount.Round(2)
	}
	if input.Date != "" {
		date, err := ParseDate(input.Date)
		if err != nil {
			validationErrors.Add(apperrors.NewValidationError("Date must be a valid date"))
		} else {
			t.Date = date
		}
	}

	if err := t.validate(validationErrors); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Transaction) Validate() error {
	return t.validate(&apperrors.ValidationErrors{})
}

func (t *Transaction) validate(validationErrors *apperrors.ValidationErrors) error {
	descriptionLength := utf8.RuneCountInString(t.Description)
	if descriptionLength == 0 {
		validationErrors.Add(apperrors.NewValidationError("Description is required"))
	} else if descriptionLength > maxDescriptionLength {
		validationErrors.Add(apperrors.NewValidationError(fmt.Sprintf("Description cannot be more than %d characters", maxDescriptionLength)))
	}
	if t.Amount.IsNegative() {
		validationErrors.Add(apperrors.NewValidationError("Amount must be a non-negative number"))
	} else if t.Amount.GreaterThanOrEqual(amountLimit) {
		validationErrors.Add(apperrors.NewValidationError("Amount must be less than " + amountLimit.String()))
	}
	if !IsValidTransactionType(string(t.Type)) {
		validationErrors.Add(apperrors.NewValidationError("Type must be 'income' or 'expense'"))
	}
	categoryLength := utf8.RuneCountInString(t.Category)
	if categoryLength == 0 {
		validationErrors.Add(apperrors.NewValidationError("Category is required"))
	} else if categoryLength > maxCategoryLength {
		validationErrors.Add(apperrors.NewValidationError(fmt.Sprintf("Category cannot be more than %d characters", maxCategoryLength)))
	}
	if !IsValidTransactionStatus(string(t.Status)) {
		validationErrors.Add(apperrors.NewValidationError("Status must be 'pending', 'completed' or 'cancelled'"))
	}
	return validationErrors.ErrOrNil()
}
