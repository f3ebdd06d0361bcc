package domain

import "github.com/shopspring/decimal"

type MonthlyTotal struct {
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
}

type CategoryTotal struct {
	Category     string          `json:"category"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
}

type Totals struct {
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	NetProfit    decimal.Decimal `json:"netProfit"`
}

func NewTotals(income, expense decimal.Decimal) Totals {
	return Totals{TotalIncome: income, TotalExpense: expense, NetProfit: income.Sub(expense)}
}

type Summary struct {
	MonthlySummary    []MonthlyTotal  `json:"monthlySummary"`
	CategoryBreakdown []CategoryTotal `json:"categoryBreakdown"`
	SummaryMetrics    Totals          `json:"summaryMetrics"`
}
