package interfaces

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/sebuszqo/FinanceTracker/internal/finance/domain"
)

func filterParams(r *http.Request) domain.FilterParams {
	q := r.URL.Query()
	return domain.FilterParams{
		Category:  q.Get("category"),
		Type:      q.Get("type"),
		Status:    q.Get("status"),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
		AmountMin: q.Get("amountMin"),
		AmountMax: q.Get("amountMax"),
		Search:    q.Get("search"),
	}
}

// atoiOrZero parses page and limit values; anything unparsable becomes zero,
// which the paginator replaces with its default.
func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// csvResponseWriter sends the CSV headers on the first write, so a request
// that fails before any output can still be answered with a JSON error.
type csvResponseWriter struct {
	w        http.ResponseWriter
	filename string
	started  bool
}

func (c *csvResponseWriter) Write(p []byte) (int, error) {
	if !c.started {
		c.started = true
		header := c.w.Header()
		header.Set("Content-Type", "text/csv; charset=utf-8")
		header.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, c.filename))
		c.w.WriteHeader(http.StatusOK)
	}
	return c.w.Write(p)
}
