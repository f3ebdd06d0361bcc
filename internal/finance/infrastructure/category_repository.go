package infrastructure

import (
	"context"
	"database/sql"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// FindCategories lists the owner's distinct categories in byte order, matching
// the in-memory store regardless of the database collation.
func (r *CategoryRepository) FindCategories(ctx context.Context, ownerID, transactionType string) ([]string, error) {
	query := "SELECT category FROM transactions WHERE user_id = $1"
	args := []interface{}{ownerID}

	if transactionType != "" {
		query += " AND type = $2"
		args = append(args, transactionType)
	}
	query += ` GROUP BY category ORDER BY category COLLATE "C"`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, upstream("find categories", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, upstream("find categories", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, upstream("find categories", err)
	}
	return categories, nil
}
