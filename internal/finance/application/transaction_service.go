package application

import (
	"context"
	"time"

	"github.com/sebuszqo/FinanceTracker/internal/finance/domain"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ListQuery groups the listing parameters of one request.
type ListQuery struct {
	Filters domain.FilterParams
	SortBy  string
	Order   string
	Page    int
	Limit   int
}

// TransactionPage is one page of a listing together with its window.
type TransactionPage struct {
	Transactions []domain.Transaction
	TotalResults int
	Page         domain.Page
}

type TransactionService struct {
	repo domain.TransactionRepository
	log  logrus.FieldLogger
	now  func() time.Time
}

func NewTransactionService(repo domain.TransactionRepository, log logrus.FieldLogger) *TransactionService {
	return &TransactionService{repo: repo, log: log, now: time.Now}
}

// ListTransactions returns one page of the owner's transactions matching query.
// The count and the page itself are fetched concurrently; either failure fails the call.
func (s *TransactionService) ListTransactions(ctx context.Context, ownerID string, query ListQuery) (*TransactionPage, error) {
	predicate, err := domain.BuildPredicate(ownerID, query.Filters)
	if err != nil {
		return nil, err
	}
	sortKey, err := domain.ResolveSort(query.SortBy, query.Order)
	if err != nil {
		return nil, err
	}
	page := domain.NewPage(query.Page, query.Limit)

	var (
		total        int
		transactions []domain.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, predicate)
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = s.repo.Find(gctx, predicate, sortKey, page)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if transactions == nil {
		transactions = []domain.Transaction{}
	}
	return &TransactionPage{
		Transactions: transactions,
		TotalResults: total,
		Page:         page.WithTotal(total),
	}, nil
}

func (s *TransactionService) CreateTransaction(ctx context.Context, ownerID string, input domain.TransactionInput) (*domain.Transaction, error) {
	transaction, err := domain.NewTransaction(ownerID, input, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, transaction); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id":        ownerID,
		"transaction_id": transaction.ID,
		"type":           transaction.Type,
	}).Debug("transaction created")
	return transaction, nil
}

// GetSummary computes the monthly trend, category breakdown and totals of the
// owner's transactions in the optional date range. The three views run
// concurrently and no partial result is returned when one of them fails.
func (s *TransactionService) GetSummary(ctx context.Context, ownerID, startDate, endDate string) (*domain.Summary, error) {
	predicate, err := domain.BuildDateRangePredicate(ownerID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	summary := &domain.Summary{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		monthly, err := s.repo.MonthlyTotals(gctx, predicate)
		summary.MonthlySummary = monthly
		return err
	})
	g.Go(func() error {
		breakdown, err := s.repo.CategoryTotals(gctx, predicate)
		summary.CategoryBreakdown = breakdown
		return err
	})
	g.Go(func() error {
		totals, err := s.repo.Totals(gctx, predicate)
		summary.SummaryMetrics = totals
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if summary.MonthlySummary == nil {
		summary.MonthlySummary = []domain.MonthlyTotal{}
	}
	if summary.CategoryBreakdown == nil {
		summary.CategoryBreakdown = []domain.CategoryTotal{}
	}
	return summary, nil
}

// GetExpenseSlices summarises the date range and reduces its category
// breakdown into chart slices.
func (s *TransactionService) GetExpenseSlices(ctx context.Context, ownerID, startDate, endDate string, threshold float64) ([]Slice, error) {
	summary, err := s.GetSummary(ctx, ownerID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	return ReduceForChart(summary.CategoryBreakdown, summary.SummaryMetrics.TotalExpense, threshold), nil
}
