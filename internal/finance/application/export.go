package application

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sebuszqo/FinanceTracker/internal/apperrors"
	"github.com/sebuszqo/FinanceTracker/internal/finance/domain"
)

// DefaultExportColumns is the column set used when the caller names none.
var DefaultExportColumns = []string{"id", "description", "amount", "type", "category", "date", "status", "createdAt"}

var exportFields = map[string]func(domain.Transaction) string{
	"id":          func(t domain.Transaction) string { return t.ID },
	"_id":         func(t domain.Transaction) string { return t.ID },
	"user":        func(t domain.Transaction) string { return t.UserID },
	"description": func(t domain.Transaction) string { return t.Description },
	"amount":      func(t domain.Transaction) string { return t.Amount.String() },
	"type":        func(t domain.Transaction) string { return string(t.Type) },
	"category":    func(t domain.Transaction) string { return t.Category },
	"date":        func(t domain.Transaction) string { return formatTimestamp(t.Date) },
	"status":      func(t domain.Transaction) string { return string(t.Status) },
	"createdAt":   func(t domain.Transaction) string { return formatTimestamp(t.CreatedAt) },
	"updatedAt":   func(t domain.Transaction) string { return formatTimestamp(t.UpdatedAt) },
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// ParseExportColumns splits a comma separated column list. Blank input yields
// the default columns; unknown names are rejected.
func ParseExportColumns(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return DefaultExportColumns, nil
	}

	var columns []string
	validationErrors := &apperrors.ValidationErrors{}
	for _, column := range strings.Split(raw, ",") {
		column = strings.TrimSpace(column)
		if column == "" {
			continue
		}
		if _, ok := exportFields[column]; !ok {
			validationErrors.Add(apperrors.NewValidationError(fmt.Sprintf("Unknown export column '%s'", column)))
			continue
		}
		columns = append(columns, column)
	}
	if err := validationErrors.ErrOrNil(); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return DefaultExportColumns, nil
	}
	return columns, nil
}

// ExportFileName is the suggested attachment name for an export made at now.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("transactions_export_%s.csv", now.UTC().Format("2006-01-02"))
}

// ExportCSV writes every transaction of the owner matching filters to w as
// RFC 4180 CSV, newest first. Rows are streamed from the store one by one.
// Parameters are validated before anything is written.
func (s *TransactionService) ExportCSV(ctx context.Context, ownerID string, filters domain.FilterParams, rawColumns string, w io.Writer) error {
	predicate, err := domain.BuildPredicate(ownerID, filters)
	if err != nil {
		return err
	}
	columns, err := ParseExportColumns(rawColumns)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		return err
	}

	rows := 0
	record := make([]string, len(columns))
	err = s.repo.Stream(ctx, predicate, domain.ExportSort, func(transaction domain.Transaction) error {
		for i, column := range columns {
			record[i] = exportFields[column](transaction)
		}
		rows++
		return writer.Write(record)
	})
	if err != nil {
		return err
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	s.log.WithField("user_id", ownerID).WithField("rows", rows).Debug("transactions exported")
	return nil
}
