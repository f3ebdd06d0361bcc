package infrastructure

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sebuszqo/FinanceTracker/internal/apperrors"
	"github.com/sebuszqo/FinanceTracker/internal/finance/domain"
	"github.com/shopspring/decimal"
)

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func upstream(op string, err error) error {
	return apperrors.NewUpstreamError(op, errors.Wrap(err, "postgres"))
}

func (r *TransactionRepository) Save(ctx context.Context, transaction *domain.Transaction) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO transactions (id, user_id, description, amount, type, category, date, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
        RETURNING created_at, updated_at`,
		transaction.ID, transaction.UserID, transaction.Description, transaction.Amount,
		transaction.Type, transaction.Category, transaction.Date, transaction.Status,
	).Scan(&transaction.CreatedAt, &transaction.UpdatedAt)
	if err != nil {
		return upstream("save transaction", err)
	}
	transaction.CreatedAt = transaction.CreatedAt.UTC()
	transaction.UpdatedAt = transaction.UpdatedAt.UTC()
	return nil
}

func (r *TransactionRepository) Count(ctx context.Context, predicate domain.Predicate) (int, error) {
	where, args := whereClause(predicate)

	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions "+where, args...).Scan(&count)
	if err != nil {
		return 0, upstream("count transactions", err)
	}
	return count, nil
}

func (r *TransactionRepository) Find(ctx context.Context, predicate domain.Predicate, sort domain.SortKey, page domain.Page) ([]domain.Transaction, error) {
	where, args := whereClause(predicate)
	args = append(args, page.Limit, page.Offset)
	query := fmt.Sprintf("SELECT %s FROM transactions %s %s LIMIT $%d OFFSET $%d",
		transactionColumns, where, orderByClause(sort), len(args)-1, len(args))

	transactions := []domain.Transaction{}
	err := r.query(ctx, query, args, func(transaction domain.Transaction) error {
		transactions = append(transactions, transaction)
		return nil
	})
	if err != nil {
		return nil, upstream("find transactions", err)
	}
	return transactions, nil
}

func (r *TransactionRepository) Stream(ctx context.Context, predicate domain.Predicate, sort domain.SortKey, fn func(domain.Transaction) error) error {
	where, args := whereClause(predicate)
	query := fmt.Sprintf("SELECT %s FROM transactions %s %s", transactionColumns, where, orderByClause(sort))

	var callbackErr error
	err := r.query(ctx, query, args, func(transaction domain.Transaction) error {
		callbackErr = fn(transaction)
		return callbackErr
	})
	if err != nil && callbackErr == nil {
		return upstream("stream transactions", err)
	}
	return err
}

func (r *TransactionRepository) query(ctx context.Context, query string, args []interface{}, fn func(domain.Transaction) error) error {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var transaction domain.Transaction
		if err := rows.Scan(&transaction.ID, &transaction.UserID, &transaction.Description, &transaction.Amount,
			&transaction.Type, &transaction.Category, &transaction.Date, &transaction.Status,
			&transaction.CreatedAt, &transaction.UpdatedAt); err != nil {
			return err
		}
		transaction.Date = transaction.Date.UTC()
		transaction.CreatedAt = transaction.CreatedAt.UTC()
		transaction.UpdatedAt = transaction.UpdatedAt.UTC()
		if err := fn(transaction); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *TransactionRepository) MonthlyTotals(ctx context.Context, predicate domain.Predicate) ([]domain.MonthlyTotal, error) {
	where, args := whereClause(predicate)
	query := `SELECT EXTRACT(YEAR FROM date AT TIME ZONE 'UTC')::int AS year,
            EXTRACT(MONTH FROM date AT TIME ZONE 'UTC')::int AS month,
            COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0) AS total_income,
            COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0) AS total_expense
        FROM transactions ` + where + `
        GROUP BY 1, 2
        ORDER BY 1, 2`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, upstream("aggregate monthly totals", err)
	}
	defer rows.Close()

	totals := []domain.MonthlyTotal{}
	for rows.Next() {
		var total domain.MonthlyTotal
		if err := rows.Scan(&total.Year, &total.Month, &total.TotalIncome, &total.TotalExpense); err != nil {
			return nil, upstream("aggregate monthly totals", err)
		}
		totals = append(totals, total)
	}
	if err := rows.Err(); err != nil {
		return nil, upstream("aggregate monthly totals", err)
	}
	return totals, nil
}

func (r *TransactionRepository) CategoryTotals(ctx context.Context, predicate domain.Predicate) ([]domain.CategoryTotal, error) {
	where, args := whereClause(predicate)
	query := `SELECT category,
            SUM(amount) AS total_amount,
            COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0) AS total_income,
            COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0) AS total_expense
        FROM transactions ` + where + `
        GROUP BY category
        ORDER BY total_amount DESC, category ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, upstream("aggregate category totals", err)
	}
	defer rows.Close()

	totals := []domain.CategoryTotal{}
	for rows.Next() {
		var total domain.CategoryTotal
		if err := rows.Scan(&total.Category, &total.TotalAmount, &total.TotalIncome, &total.TotalExpense); err != nil {
			return nil, upstream("aggregate category totals", err)
		}
		totals = append(totals, total)
	}
	if err := rows.Err(); err != nil {
		return nil, upstream("aggregate category totals", err)
	}
	return totals, nil
}

func (r *TransactionRepository) Totals(ctx context.Context, predicate domain.Predicate) (domain.Totals, error) {
	where, args := whereClause(predicate)
	query := `SELECT COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
            COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
        FROM transactions ` + where

	var income, expense decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&income, &expense); err != nil {
		return domain.Totals{}, upstream("aggregate totals", err)
	}
	return domain.NewTotals(income, expense), nil
}
