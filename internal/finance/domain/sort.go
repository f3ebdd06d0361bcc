package domain

import (
	"fmt"
	"strings"

	"github.com/sebuszqo/FinanceTracker/internal/apperrors"
)

type SortField string

const (
	SortByDescription SortField = "description"
	SortByAmount      SortField = "amount"
	SortByType        SortField = "type"
	SortByCategory    SortField = "category"
	SortByDate        SortField = "date"
	SortByStatus      SortField = "status"
	SortByCreatedAt   SortField = "createdAt"
)

var sortFields = []SortField{
	SortByDescription,
	SortByAmount,
	SortByType,
	SortByCategory,
	SortByDate,
	SortByStatus,
	SortByCreatedAt,
}

type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// SortKey orders transactions by one field. Ties are always broken by id
// ascending so paging is stable.
type SortKey struct {
	Field     SortField
	Direction SortDirection
}

// ExportSort is the fixed ordering of CSV exports.
var ExportSort = SortKey{Field: SortByDate, Direction: Descending}

// ResolveSort validates sortBy against the known fields. An empty sortBy means
// date; any order other than "asc" means descending.
func ResolveSort(sortBy, order string) (SortKey, error) {
	key := SortKey{Field: SortByDate, Direction: Descending}
	if order == string(Ascending) {
		key.Direction = Ascending
	}
	if sortBy == "" {
		return key, nil
	}
	for _, field := range sortFields {
		if string(field) == sortBy {
			key.Field = field
			return key, nil
		}
	}
	return SortKey{}, apperrors.NewValidationError(fmt.Sprintf("Invalid sortBy field '%s'", sortBy))
}

// Less reports whether a sorts before b under k.
func (k SortKey) Less(a, b Transaction) bool {
	c := compareField(k.Field, a, b)
	if c == 0 {
		return a.ID < b.ID
	}
	if k.Direction == Ascending {
		return c < 0
	}
	return c > 0
}

func compareField(field SortField, a, b Transaction) int {
	switch field {
	case SortByDescription:
		return strings.Compare(a.Description, b.Description)
	case SortByAmount:
		return a.Amount.Cmp(b.Amount)
	case SortByType:
		return strings.Compare(string(a.Type), string(b.Type))
	case SortByCategory:
		return strings.Compare(a.Category, b.Category)
	case SortByStatus:
		return strings.Compare(string(a.Status), string(b.Status))
	case SortByCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	default:
		return a.Date.Compare(b.Date)
	}
}
