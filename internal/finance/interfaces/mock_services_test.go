package interfaces

import (
	"context"
	"errors"
	"io"

	"github.com/sebuszqo/FinanceTracker/internal/finance/application"
	"github.com/sebuszqo/FinanceTracker/internal/finance/domain"
)

type MockCategoryService struct {
	categories []string
	shouldFail bool
	gotType    string
}

func (m *MockCategoryService) GetCategories(_ context.Context, _ string, transactionType string) ([]string, error) {
	m.gotType = transactionType
	if m.shouldFail {
		return nil, errors.New("service error")
	}
	return m.categories, nil
}

// MockTransactionService records the arguments it was called with and
// returns canned results.
type MockTransactionService struct {
	page      *application.TransactionPage
	created   *domain.Transaction
	summary   *domain.Summary
	slices    []application.Slice
	csv       string
	err       error
	exportErr error

	gotOwner     string
	gotQuery     application.ListQuery
	gotInput     domain.TransactionInput
	gotStart     string
	gotEnd       string
	gotThreshold float64
	gotFilters   domain.FilterParams
	gotColumns   string
}

func (m *MockTransactionService) ListTransactions(_ context.Context, ownerID string, query application.ListQuery) (*application.TransactionPage, error) {
	m.gotOwner, m.gotQuery = ownerID, query
	return m.page, m.err
}

func (m *MockTransactionService) CreateTransaction(_ context.Context, ownerID string, input domain.TransactionInput) (*domain.Transaction, error) {
	m.gotOwner, m.gotInput = ownerID, input
	return m.created, m.err
}

func (m *MockTransactionService) GetSummary(_ context.Context, ownerID, startDate, endDate string) (*domain.Summary, error) {
	m.gotOwner, m.gotStart, m.gotEnd = ownerID, startDate, endDate
	return m.summary, m.err
}

func (m *MockTransactionService) GetExpenseSlices(_ context.Context, ownerID, startDate, endDate string, threshold float64) ([]application.Slice, error) {
	m.gotOwner, m.gotStart, m.gotEnd, m.gotThreshold = ownerID, startDate, endDate, threshold
	return m.slices, m.err
}

func (m *MockTransactionService) ExportCSV(_ context.Context, ownerID string, filters domain.FilterParams, columns string, w io.Writer) error {
	m.gotOwner, m.gotFilters, m.gotColumns = ownerID, filters, columns
	if m.err != nil {
		return m.err
	}
	if _, err := io.WriteString(w, m.csv); err != nil {
		return err
	}
	return m.exportErr
}
