package interfaces

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/sebuszqo/FinanceTracker/internal/apperrors"
	"github.com/sebuszqo/FinanceTracker/internal/auth"
	"github.com/sebuszqo/FinanceTracker/internal/finance/application"
	"github.com/sebuszqo/FinanceTracker/internal/finance/domain"
	"github.com/sirupsen/logrus"
)

type TransactionServiceInterface interface {
	ListTransactions(ctx context.Context, ownerID string, query application.ListQuery) (*application.TransactionPage, error)
	CreateTransaction(ctx context.Context, ownerID string, input domain.TransactionInput) (*domain.Transaction, error)
	GetSummary(ctx context.Context, ownerID, startDate, endDate string) (*domain.Summary, error)
	GetExpenseSlices(ctx context.Context, ownerID, startDate, endDate string, threshold float64) ([]application.Slice, error)
	ExportCSV(ctx context.Context, ownerID string, filters domain.FilterParams, columns string, w io.Writer) error
}

type TransactionHandler struct {
	service      TransactionServiceInterface
	log          logrus.FieldLogger
	now          func() time.Time
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewTransactionHandler(
	service TransactionServiceInterface,
	logger logrus.FieldLogger,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *TransactionHandler {
	if service == nil {
		log.Fatal("Service must not be nil")
		return nil
	}
	if respondJSON == nil {
		log.Fatal("RespondJSON function must not be nil")
		return nil
	}
	if respondError == nil {
		log.Fatal("RespondError function must not be nil")
		return nil
	}
	return &TransactionHandler{
		service:      service,
		log:          logger,
		now:          time.Now,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

type listResponse struct {
	Success      bool                 `json:"success"`
	Count        int                  `json:"count"`
	TotalResults int                  `json:"totalResults"`
	TotalPages   int                  `json:"totalPages"`
	CurrentPage  int                  `json:"currentPage"`
	Pagination   paginationLinks      `json:"pagination"`
	Data         []domain.Transaction `json:"data"`
}

type paginationLinks struct {
	Next *domain.PageDescriptor `json:"next,omitempty"`
	Prev *domain.PageDescriptor `json:"prev,omitempty"`
}

func (h *TransactionHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, auth.NotAuthorizedMessage)
		return
	}

	q := r.URL.Query()
	result, err := h.service.ListTransactions(r.Context(), userID, application.ListQuery{
		Filters: filterParams(r),
		SortBy:  q.Get("sortBy"),
		Order:   q.Get("order"),
		Page:    atoiOrZero(q.Get("page")),
		Limit:   atoiOrZero(q.Get("limit")),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, listResponse{
		Success:      true,
		Count:        len(result.Transactions),
		TotalResults: result.TotalResults,
		TotalPages:   result.Page.TotalPages,
		CurrentPage:  result.Page.Number,
		Pagination: paginationLinks{
			Next: result.Page.Next(),
			Prev: result.Page.Prev(),
		},
		Data: result.Transactions,
	})
}

func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, auth.NotAuthorizedMessage)
		return
	}

	var input domain.TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	transaction, err := h.service.CreateTransaction(r.Context(), userID, input)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    transaction,
	})
}

func (h *TransactionHandler) GetTransactionSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, auth.NotAuthorizedMessage)
		return
	}

	q := r.URL.Query()
	summary, err := h.service.GetSummary(r.Context(), userID, q.Get("startDate"), q.Get("endDate"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    summary,
	})
}

func (h *TransactionHandler) GetExpenseSlices(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, auth.NotAuthorizedMessage)
		return
	}

	q := r.URL.Query()
	threshold := application.DefaultSliceThreshold
	if raw := q.Get("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || !(parsed > 0 && parsed < 1) {
			h.respondError(w, http.StatusBadRequest, "threshold must be a number between 0 and 1")
			return
		}
		threshold = parsed
	}

	slices, err := h.service.GetExpenseSlices(r.Context(), userID, q.Get("startDate"), q.Get("endDate"), threshold)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    slices,
	})
}

func (h *TransactionHandler) ExportTransactionsCSV(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, auth.NotAuthorizedMessage)
		return
	}

	out := &csvResponseWriter{w: w, filename: application.ExportFileName(h.now())}
	err := h.service.ExportCSV(r.Context(), userID, filterParams(r), r.URL.Query().Get("columns"), out)
	if err == nil {
		return
	}
	if !out.started {
		h.fail(w, r, err)
		return
	}
	// headers are gone, the client sees a truncated file
	h.log.WithError(err).WithField("user_id", userID).Error("csv export aborted mid-stream")
}

// fail answers with the status and message of err's kind. Server side
// failures are logged with their cause, which never reaches the client.
func (h *TransactionHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.StatusCode(err)
	if status == http.StatusInternalServerError {
		h.log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
	}
	h.respondError(w, status, apperrors.Message(err), apperrors.Details(err))
}
