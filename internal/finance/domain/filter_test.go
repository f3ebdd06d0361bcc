package domain

import (
	"testing"
	"time"

	"github.com/sebuszqo/FinanceTracker/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPredicate_EmptyParamsOnlyScopeOwner(t *testing.T) {
	p, err := BuildPredicate("user-1", FilterParams{})
	require.NoError(t, err)

	assert.Equal(t, Predicate{OwnerID: "user-1"}, p)
}

func TestBuildPredicate_MissingOwner(t *testing.T) {
	_, err := BuildPredicate("", FilterParams{Category: "Food"})
	assert.ErrorIs(t, err, ErrMissingOwner)
	assert.True(t, apperrors.IsAuthError(err))
}

func TestBuildPredicate_AllFilters(t *testing.T) {
	p, err := BuildPredicate("user-1", FilterParams{
		Category:  "Food",
		Type:      "expense",
		Status:    "pending",
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
		AmountMin: "10",
		AmountMax: "99.50",
		Search:    "  coffee ",
	})
	require.NoError(t, err)

	assert.Equal(t, "user-1", p.OwnerID)
	assert.Equal(t, "Food", p.Category)
	assert.Equal(t, "expense", p.Type)
	assert.Equal(t, "pending", p.Status)
	assert.Equal(t, "coffee", p.Search)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *p.StartDate)
	assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.UTC), *p.EndDate)
	assert.True(t, p.AmountMin.Equal(decimal.NewFromInt(10)))
	assert.True(t, p.AmountMax.Equal(decimal.RequireFromString("99.5")))
}

func TestBuildPredicate_UnknownTypePassesThrough(t *testing.T) {
	p, err := BuildPredicate("user-1", FilterParams{Type: "transfer"})
	require.NoError(t, err)
	assert.Equal(t, "transfer", p.Type)

	assert.False(t, p.Matches(Transaction{UserID: "user-1", Type: TypeIncome}))
}

func TestBuildPredicate_RFC3339EndDateIsExact(t *testing.T) {
	p, err := BuildPredicate("user-1", FilterParams{EndDate: "2024-03-10T12:00:00+02:00"})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC), *p.EndDate)
	assert.Nil(t, p.StartDate)
}

func TestBuildPredicate_RejectsMalformedInput(t *testing.T) {
	_, err := BuildPredicate("user-1", FilterParams{
		StartDate: "yesterday",
		AmountMin: "abc",
		AmountMax: "1e",
	})
	require.Error(t, err)

	assert.Equal(t, []string{
		"startDate must be a valid date",
		"amountMin must be a number",
		"amountMax must be a number",
	}, apperrors.Details(err))
}

func TestBuildDateRangePredicate_IgnoresNothingButDates(t *testing.T) {
	p, err := BuildDateRangePredicate("user-1", "2024-02-01", "")
	require.NoError(t, err)

	assert.Equal(t, "user-1", p.OwnerID)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), *p.StartDate)
	assert.Nil(t, p.EndDate)
	assert.Empty(t, p.Category)

	_, err = BuildDateRangePredicate("user-1", "", "31/01/2024")
	assert.True(t, apperrors.IsValidationErrors(err))
}

func TestPredicate_Matches(t *testing.T) {
	tx := Transaction{
		ID:          "a",
		UserID:      "user-1",
		Description: "Morning Coffee",
		Amount:      decimal.RequireFromString("4.50"),
		Type:        TypeExpense,
		Category:    "Food",
		Date:        time.Date(2024, 1, 20, 8, 0, 0, 0, time.UTC),
		Status:      StatusCompleted,
	}
	start := time.Date(2024, 1, 20, 8, 0, 0, 0, time.UTC)
	min := decimal.RequireFromString("4.50")
	max := decimal.RequireFromString("4.49")

	tests := []struct {
		name string
		p    Predicate
		want bool
	}{
		{"owner only", Predicate{OwnerID: "user-1"}, true},
		{"other owner", Predicate{OwnerID: "user-2"}, false},
		{"search description case insensitive", Predicate{OwnerID: "user-1", Search: "COFFEE"}, true},
		{"search category", Predicate{OwnerID: "user-1", Search: "foo"}, true},
		{"search is literal", Predicate{OwnerID: "user-1", Search: "Mor.*"}, false},
		{"inclusive start", Predicate{OwnerID: "user-1", StartDate: &start}, true},
		{"inclusive min", Predicate{OwnerID: "user-1", AmountMin: &min}, true},
		{"above max", Predicate{OwnerID: "user-1", AmountMax: &max}, false},
		{"status mismatch", Predicate{OwnerID: "user-1", Status: "pending"}, false},
		{"category mismatch", Predicate{OwnerID: "user-1", Category: "food"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.Matches(tx))
		})
	}
}
