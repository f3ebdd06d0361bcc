package domain

import "context"

// CategoryRepository lists the categories an owner has used so far.
type CategoryRepository interface {
	// FindCategories returns distinct category names in ascending order.
	// An empty transactionType matches both income and expense.
	FindCategories(ctx context.Context, ownerID, transactionType string) ([]string, error)
}
