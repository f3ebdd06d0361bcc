package application

import (
	"sort"

	"github.com/sebuszqo/FinanceTracker/internal/finance/domain"
	"github.com/shopspring/decimal"
)

const (
	DefaultSliceThreshold = 0.02
	otherSliceName        = "Other"
)

// Slice is one wedge of the expense chart.
type Slice struct {
	Name    string          `json:"name"`
	Value   decimal.Decimal `json:"value"`
	Percent float64         `json:"percent"`
}

// ReduceForChart keeps every category whose share of totalExpense reaches
// threshold and folds the rest into an "Other" slice. "Other" is only shown
// when nothing else qualifies or its own share reaches half the threshold.
// The result is ordered by value, largest first. A threshold outside (0, 1)
// falls back to DefaultSliceThreshold.
func ReduceForChart(breakdown []domain.CategoryTotal, totalExpense decimal.Decimal, threshold float64) []Slice {
	slices := []Slice{}
	if !totalExpense.IsPositive() {
		return slices
	}
	if !(threshold > 0 && threshold < 1) {
		threshold = DefaultSliceThreshold
	}

	limit := decimal.NewFromFloat(threshold)
	otherAmount := decimal.Zero
	for _, category := range breakdown {
		if !category.TotalExpense.IsPositive() {
			continue
		}
		share := category.TotalExpense.Div(totalExpense)
		if share.GreaterThanOrEqual(limit) {
			slices = append(slices, Slice{
				Name:    category.Category,
				Value:   category.TotalExpense,
				Percent: share.InexactFloat64(),
			})
		} else {
			otherAmount = otherAmount.Add(category.TotalExpense)
		}
	}

	if otherAmount.IsPositive() {
		otherShare := otherAmount.Div(totalExpense)
		if len(slices) == 0 || otherShare.GreaterThanOrEqual(limit.Div(decimal.NewFromInt(2))) {
			slices = append(slices, Slice{
				Name:    otherSliceName,
				Value:   otherAmount,
				Percent: otherShare.InexactFloat64(),
			})
		}
	}

	sort.SliceStable(slices, func(i, j int) bool {
		if c := slices[i].Value.Cmp(slices[j].Value); c != 0 {
			return c > 0
		}
		return slices[i].Name < slices[j].Name
	})
	return slices
}
