package domain

import (
	"strings"
	"time"

	"github.com/sebuszqo/FinanceTracker/internal/apperrors"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// ErrMissingOwner is returned when an operation has no authenticated owner.
var ErrMissingOwner = apperrors.NewAuthError("Not authorized to access this route")

// FilterParams are the raw, optional listing filters as they arrive on the wire.
type FilterParams struct {
	Category  string
	Type      string
	Status    string
	StartDate string
	EndDate   string
	AmountMin string
	AmountMax string
	Search    string
}

// Predicate selects the transactions of exactly one owner. Empty strings and
// nil pointers leave the field unconstrained.
type Predicate struct {
	OwnerID   string
	Category  string
	Type      string
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
	AmountMin *decimal.Decimal
	AmountMax *decimal.Decimal
	Search    string
}

// BuildPredicate turns listing parameters into a predicate scoped to ownerID.
// Malformed dates or amounts are rejected, every one of them reported.
func BuildPredicate(ownerID string, params FilterParams) (Predicate, error) {
	if ownerID == "" {
		return Predicate{}, ErrMissingOwner
	}

	p := Predicate{
		OwnerID:  ownerID,
		Category: params.Category,
		Type:     params.Type,
		Status:   params.Status,
		Search:   strings.TrimSpace(params.Search),
	}

	validationErrors := &apperrors.ValidationErrors{}
	p.StartDate, p.EndDate = parseDateRange(params.StartDate, params.EndDate, validationErrors)

	if params.AmountMin != "" {
		amount, err := decimal.NewFromString(strings.TrimSpace(params.AmountMin))
		if err != nil {
			validationErrors.Add(apperrors.NewValidationError("amountMin must be a number"))
		} else {
			p.AmountMin = &amount
		}
	}
	if params.AmountMax != "" {
		amount, err := decimal.NewFromString(strings.TrimSpace(params.AmountMax))
		if err != nil {
			validationErrors.Add(apperrors.NewValidationError("amountMax must be a number"))
		} else {
			p.AmountMax = &amount
		}
	}

	if err := validationErrors.ErrOrNil(); err != nil {
		return Predicate{}, err
	}
	return p, nil
}

// BuildDateRangePredicate is the analytics predicate: owner plus an optional
// date range, nothing else.
func BuildDateRangePredicate(ownerID, startDate, endDate string) (Predicate, error) {
	if ownerID == "" {
		return Predicate{}, ErrMissingOwner
	}

	validationErrors := &apperrors.ValidationErrors{}
	p := Predicate{OwnerID: ownerID}
	p.StartDate, p.EndDate = parseDateRange(startDate, endDate, validationErrors)
	if err := validationErrors.ErrOrNil(); err != nil {
		return Predicate{}, err
	}
	return p, nil
}

func parseDateRange(startDate, endDate string, validationErrors *apperrors.ValidationErrors) (*time.Time, *time.Time) {
	var start, end *time.Time
	if startDate != "" {
		date, err := ParseDate(startDate)
		if err != nil {
			validationErrors.Add(apperrors.NewValidationError("startDate must be a valid date"))
		} else {
			start = &date
		}
	}
	if endDate != "" {
		date, err := ParseDate(endDate)
		if err != nil {
			validationErrors.Add(apperrors.NewValidationError("endDate must be a valid date"))
		} else {
			// a bare day means the whole day
			if isDateOnly(endDate) {
				date = date.Add(24*time.Hour - time.Nanosecond)
			}
			end = &date
		}
	}
	return start, end
}

// ParseDate accepts YYYY-MM-DD or RFC 3339 and returns the instant in UTC.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if isDateOnly(value) {
		return time.Parse(dateLayout, value)
	}
	date, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, err
	}
	return date.UTC(), nil
}

func isDateOnly(value string) bool {
	return len(strings.TrimSpace(value)) == len(dateLayout)
}

// Matches reports whether t satisfies every constraint of p.
func (p Predicate) Matches(t Transaction) bool {
	if t.UserID != p.OwnerID {
		return false
	}
	if p.Category != "" && t.Category != p.Category {
		return false
	}
	if p.Type != "" && string(t.Type) != p.Type {
		return false
	}
	if p.Status != "" && string(t.Status) != p.Status {
		return false
	}
	if p.StartDate != nil && t.Date.Before(*p.StartDate) {
		return false
	}
	if p.EndDate != nil && t.Date.After(*p.EndDate) {
		return false
	}
	if p.AmountMin != nil && t.Amount.LessThan(*p.AmountMin) {
		return false
	}
	if p.AmountMax != nil && t.Amount.GreaterThan(*p.AmountMax) {
		return false
	}
	if p.Search != "" {
		search := strings.ToLower(p.Search)
		if !strings.Contains(strings.ToLower(t.Description), search) &&
			!strings.Contains(strings.ToLower(t.Category), search) {
			return false
		}
	}
	return true
}
