package application

import (
	"math"
	"testing"

	"github.com/sebuszqo/FinanceTracker/internal/finance/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expense(category, amount string) domain.CategoryTotal {
	value := decimal.RequireFromString(amount)
	return domain.CategoryTotal{Category: category, TotalAmount: value, TotalExpense: value}
}

func names(slices []Slice) []string {
	out := make([]string, len(slices))
	for i, slice := range slices {
		out[i] = slice.Name
	}
	return out
}

func TestReduceForChart_ThresholdBoundary(t *testing.T) {
	breakdown := []domain.CategoryTotal{
		expense("Tiny", "10"),
		expense("Rent", "500"),
		expense("Small", "19"),
		expense("Food", "300"),
	}

	slices := ReduceForChart(breakdown, decimal.NewFromInt(1000), DefaultSliceThreshold)

	require.Len(t, slices, 3)
	assert.Equal(t, []string{"Rent", "Food", "Other"}, names(slices))
	assert.True(t, slices[2].Value.Equal(decimal.NewFromInt(29)))
	assert.InDelta(t, 0.029, slices[2].Percent, 1e-9)
	assert.InDelta(t, 0.5, slices[0].Percent, 1e-9)
}

func TestReduceForChart_ExactThresholdIsSignificant(t *testing.T) {
	slices := ReduceForChart([]domain.CategoryTotal{
		expense("Main", "98"),
		expense("Edge", "2"),
	}, decimal.NewFromInt(100), 0.02)

	assert.Equal(t, []string{"Main", "Edge"}, names(slices))
}

func TestReduceForChart_OtherBelowHalfThresholdIsDropped(t *testing.T) {
	slices := ReduceForChart([]domain.CategoryTotal{
		expense("Main", "995"),
		expense("Crumbs", "5"),
	}, decimal.NewFromInt(1000), 0.02)

	assert.Equal(t, []string{"Main"}, names(slices))
}

func TestReduceForChart_OnlySmallCategoriesStillShowOther(t *testing.T) {
	slices := ReduceForChart([]domain.CategoryTotal{
		expense("A", "1"),
		expense("B", "1"),
	}, decimal.NewFromInt(1000), 0.02)

	require.Len(t, slices, 1)
	assert.Equal(t, "Other", slices[0].Name)
	assert.True(t, slices[0].Value.Equal(decimal.NewFromInt(2)))
}

func TestReduceForChart_ZeroTotalExpense(t *testing.T) {
	slices := ReduceForChart([]domain.CategoryTotal{expense("Food", "0")}, decimal.Zero, 0.02)

	assert.NotNil(t, slices)
	assert.Empty(t, slices)
}

func TestReduceForChart_SkipsIncomeOnlyCategories(t *testing.T) {
	salary := domain.CategoryTotal{Category: "Salary", TotalAmount: decimal.NewFromInt(5000), TotalIncome: decimal.NewFromInt(5000)}

	slices := ReduceForChart([]domain.CategoryTotal{salary, expense("Food", "50")}, decimal.NewFromInt(50), 0.02)

	assert.Equal(t, []string{"Food"}, names(slices))
}

func TestReduceForChart_Deterministic(t *testing.T) {
	breakdown := []domain.CategoryTotal{expense("B", "40"), expense("A", "40"), expense("C", "20")}

	first := ReduceForChart(breakdown, decimal.NewFromInt(100), 0.02)
	second := ReduceForChart(breakdown, decimal.NewFromInt(100), 0.02)

	assert.Equal(t, []string{"A", "B", "C"}, names(first))
	assert.Equal(t, names(first), names(second))
}

func TestReduceForChart_OutOfRangeThresholdUsesDefault(t *testing.T) {
	breakdown := []domain.CategoryTotal{
		expense("Rent", "900"),
		expense("Food", "90"),
		expense("Gum", "5"),
	}
	want := ReduceForChart(breakdown, decimal.NewFromInt(995), DefaultSliceThreshold)

	for _, threshold := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 0, -0.3, 1, 5} {
		var got []Slice
		require.NotPanics(t, func() {
			got = ReduceForChart(breakdown, decimal.NewFromInt(995), threshold)
		})
		assert.Equal(t, names(want), names(got), "threshold %v", threshold)
	}
	assert.Equal(t, []string{"Rent", "Food"}, names(want))
}
