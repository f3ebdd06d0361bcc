package infrastructure

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sebuszqo/FinanceTracker/internal/finance/domain"
	"github.com/shopspring/decimal"
)

// MemoryRepository keeps transactions in process memory. It backs the
// "memory" data backend and the service tests.
type MemoryRepository struct {
	mu           sync.RWMutex
	transactions []domain.Transaction
	now          func() time.Time
}

func NewMemoryRepository(transactions ...domain.Transaction) *MemoryRepository {
	return &MemoryRepository{
		transactions: append([]domain.Transaction(nil), transactions...),
		now:          time.Now,
	}
}

func (m *MemoryRepository) Save(ctx context.Context, transaction *domain.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	transaction.CreatedAt = now
	transaction.UpdatedAt = now
	m.transactions = append(m.transactions, *transaction)
	return nil
}

// matching returns a copy of the matching transactions, sorted when sortKey is set.
func (m *MemoryRepository) matching(predicate domain.Predicate, sortKey *domain.SortKey) []domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []domain.Transaction
	for _, transaction := range m.transactions {
		if predicate.Matches(transaction) {
			matched = append(matched, transaction)
		}
	}
	if sortKey != nil {
		sort.Slice(matched, func(i, j int) bool {
			return sortKey.Less(matched[i], matched[j])
		})
	}
	return matched
}

func (m *MemoryRepository) Count(ctx context.Context, predicate domain.Predicate) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(m.matching(predicate, nil)), nil
}

func (m *MemoryRepository) Find(ctx context.Context, predicate domain.Predicate, sortKey domain.SortKey, page domain.Page) ([]domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matched := m.matching(predicate, &sortKey)
	if page.Offset >= len(matched) {
		return []domain.Transaction{}, nil
	}
	end := page.Offset + page.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[page.Offset:end], nil
}

func (m *MemoryRepository) Stream(ctx context.Context, predicate domain.Predicate, sortKey domain.SortKey, fn func(domain.Transaction) error) error {
	for _, transaction := range m.matching(predicate, &sortKey) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(transaction); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryRepository) MonthlyTotals(ctx context.Context, predicate domain.Predicate) ([]domain.MonthlyTotal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	type month struct{ year, month int }
	groups := map[month]*domain.MonthlyTotal{}
	for _, transaction := range m.matching(predicate, nil) {
		date := transaction.Date.UTC()
		key := month{date.Year(), int(date.Month())}
		group, ok := groups[key]
		if !ok {
			group = &domain.MonthlyTotal{Year: key.year, Month: key.month}
			groups[key] = group
		}
		switch transaction.Type {
		case domain.TypeIncome:
			group.TotalIncome = group.TotalIncome.Add(transaction.Amount)
		case domain.TypeExpense:
			group.TotalExpense = group.TotalExpense.Add(transaction.Amount)
		}
	}

	totals := make([]domain.MonthlyTotal, 0, len(groups))
	for _, group := range groups {
		totals = append(totals, *group)
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Year != totals[j].Year {
			return totals[i].Year < totals[j].Year
		}
		return totals[i].Month < totals[j].Month
	})
	return totals, nil
}

func (m *MemoryRepository) CategoryTotals(ctx context.Context, predicate domain.Predicate) ([]domain.CategoryTotal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	groups := map[string]*domain.CategoryTotal{}
	for _, transaction := range m.matching(predicate, nil) {
		group, ok := groups[transaction.Category]
		if !ok {
			group = &domain.CategoryTotal{Category: transaction.Category}
			groups[transaction.Category] = group
		}
		group.TotalAmount = group.TotalAmount.Add(transaction.Amount)
		switch transaction.Type {
		case domain.TypeIncome:
			group.TotalIncome = group.TotalIncome.Add(transaction.Amount)
		case domain.TypeExpense:
			group.TotalExpense = group.TotalExpense.Add(transaction.Amount)
		}
	}

	totals := make([]domain.CategoryTotal, 0, len(groups))
	for _, group := range groups {
		totals = append(totals, *group)
	}
	sort.Slice(totals, func(i, j int) bool {
		if c := totals[i].TotalAmount.Cmp(totals[j].TotalAmount); c != 0 {
			return c > 0
		}
		return totals[i].Category < totals[j].Category
	})
	return totals, nil
}

func (m *MemoryRepository) Totals(ctx context.Context, predicate domain.Predicate) (domain.Totals, error) {
	if err := ctx.Err(); err != nil {
		return domain.Totals{}, err
	}
	income, expense := decimal.Zero, decimal.Zero
	for _, transaction := range m.matching(predicate, nil) {
		switch transaction.Type {
		case domain.TypeIncome:
			income = income.Add(transaction.Amount)
		case domain.TypeExpense:
			expense = expense.Add(transaction.Amount)
		}
	}
	return domain.NewTotals(income, expense), nil
}

func (m *MemoryRepository) FindCategories(ctx context.Context, ownerID, transactionType string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	categories := []string{}
	for _, transaction := range m.matching(domain.Predicate{OwnerID: ownerID, Type: transactionType}, nil) {
		if _, ok := seen[transaction.Category]; ok {
			continue
		}
		seen[transaction.Category] = struct{}{}
		categories = append(categories, transaction.Category)
	}
	sort.Strings(categories)
	return categories, nil
}
