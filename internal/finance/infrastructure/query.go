package infrastructure

import (
	"fmt"
	"strings"

	"github.com/sebuszqo/FinanceTracker/internal/finance/domain"
)

const transactionColumns = "id, user_id, description, amount, type, category, date, status, created_at, updated_at"

// sortColumns maps the public sort fields onto table columns. Only these
// identifiers are ever written into ORDER BY.
var sortColumns = map[domain.SortField]string{
	domain.SortByDescription: "description",
	domain.SortByAmount:      "amount",
	domain.SortByType:        "type",
	domain.SortByCategory:    "category",
	domain.SortByDate:        "date",
	domain.SortByStatus:      "status",
	domain.SortByCreatedAt:   "created_at",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// whereClause renders p as a parameterised WHERE clause. The owner condition
// is always first and always present.
func whereClause(p domain.Predicate) (string, []interface{}) {
	conditions := []string{"user_id = $1"}
	args := []interface{}{p.OwnerID}

	add := func(condition string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if p.Category != "" {
		add("category = $%d", p.Category)
	}
	if p.Type != "" {
		add("type = $%d", p.Type)
	}
	if p.Status != "" {
		add("status = $%d", p.Status)
	}
	if p.StartDate != nil {
		add("date >= $%d", *p.StartDate)
	}
	if p.EndDate != nil {
		add("date <= $%d", *p.EndDate)
	}
	if p.AmountMin != nil {
		add("amount >= $%d", *p.AmountMin)
	}
	if p.AmountMax != nil {
		add("amount <= $%d", *p.AmountMax)
	}
	if p.Search != "" {
		args = append(args, "%"+likeEscaper.Replace(p.Search)+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(`(description ILIKE $%d ESCAPE '\' OR category ILIKE $%d ESCAPE '\')`, n, n))
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

func orderByClause(key domain.SortKey) string {
	column, ok := sortColumns[key.Field]
	if !ok {
		column = sortColumns[domain.SortByDate]
	}
	direction := "DESC"
	if key.Direction == domain.Ascending {
		direction = "ASC"
	}
	return fmt.Sprintf("ORDER BY %s %s, id ASC", column, direction)
}
