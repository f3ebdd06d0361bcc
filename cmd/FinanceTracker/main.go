package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/sebuszqo/FinanceTracker/internal/auth"
	"github.com/sebuszqo/FinanceTracker/internal/config"
	"github.com/sebuszqo/FinanceTracker/internal/finance/application"
	"github.com/sebuszqo/FinanceTracker/internal/finance/domain"
	"github.com/sebuszqo/FinanceTracker/internal/finance/infrastructure"
	"github.com/sebuszqo/FinanceTracker/internal/finance/interfaces"
	"github.com/sebuszqo/FinanceTracker/internal/logger"
	"github.com/sebuszqo/FinanceTracker/internal/user"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const readyTimeout = 3 * time.Second

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string, errors ...[]string) {
	payload := map[string]interface{}{
		"success": false,
		"message": message,
	}
	if len(errors) > 0 && len(errors[0]) > 0 {
		payload["errors"] = errors[0]
	}
	respondJSON(w, status, payload)
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	respondError(w, http.StatusNotFound, "Path not found")
}

// HealthChecker reports the state of the backing store.
type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

// stores bundles the persistence of one data backend.
type stores struct {
	transactions domain.TransactionRepository
	categories   domain.CategoryRepository
	users        user.Repository
	secrets      auth.SecretRepository
	health       HealthChecker
}

func memoryStores() stores {
	transactions := infrastructure.NewMemoryRepository()
	return stores{
		transactions: transactions,
		categories:   transactions,
		users:        user.NewMemoryRepository(),
		secrets:      auth.NewMemorySecretRepository(),
	}
}

type Server struct {
	router             *http.ServeMux
	log                logrus.FieldLogger
	health             HealthChecker
	authHandler        *auth.Handler
	userHandler        *user.Handler
	authService        auth.Service
	transactionHandler *interfaces.TransactionHandler
	categoryHandler    *interfaces.CategoryHandler
}

func NewServer(cfg *config.Config, log logrus.FieldLogger, st stores) *Server {
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	userService := user.NewUserService(st.users, log.WithField("component", "user"))
	authService := auth.NewAuthService(st.secrets, userService, jwtManager, auth.Authenticator{}, log.WithField("component", "auth"))

	transactionService := application.NewTransactionService(st.transactions, log.WithField("component", "transactions"))
	categoryService := application.NewCategoryService(st.categories)

	s := &Server{
		router:             http.NewServeMux(),
		log:                log,
		health:             st.health,
		authService:        authService,
		authHandler:        auth.NewHandler(authService, log, respondJSON, respondError),
		userHandler:        user.NewHandler(userService, jwtManager, log, respondJSON, respondError),
		transactionHandler: interfaces.NewTransactionHandler(transactionService, log, respondJSON, respondError),
		categoryHandler:    interfaces.NewCategoryHandler(categoryService, respondJSON, respondError),
	}
	s.RegisterRoutes()
	return s
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"status":   "ready",
			"database": map[string]string{"status": "memory"},
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()
	stats := s.health.Health(ctx)
	if stats["status"] != "up" {
		s.log.WithField("error", stats["error"]).Warn("readiness check failed")
		respondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":   "unavailable",
			"database": map[string]string{"status": stats["status"]},
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ready",
		"database": stats,
	})
}

func (s *Server) RegisterRoutes() {
	protect := s.authService.JWTAccessTokenMiddleware()
	router := s.router

	// Public routes
	router.Handle("POST /api/auth/register", http.HandlerFunc(s.userHandler.HandleRegister))
	router.Handle("POST /api/auth/login", http.HandlerFunc(s.authHandler.HandleLogin))
	router.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))

	// Protected routes (using JWT Access Token Middleware)
	router.Handle("GET /api/auth/me", protect(http.HandlerFunc(s.authHandler.HandleMe)))
	router.Handle("POST /api/auth/2fa/register", protect(http.HandlerFunc(s.authHandler.HandleRegisterTwoFactor)))
	router.Handle("POST /api/auth/2fa/verify", protect(http.HandlerFunc(s.authHandler.HandleVerifyTwoFactorCode)))
	router.Handle("DELETE /api/auth/2fa", protect(http.HandlerFunc(s.authHandler.HandleDisableTwoFactor)))

	router.Handle("GET /api/transactions", protect(http.HandlerFunc(s.transactionHandler.GetTransactions)))
	router.Handle("POST /api/transactions", protect(http.HandlerFunc(s.transactionHandler.CreateTransaction)))
	router.Handle("GET /api/transactions/summary", protect(http.HandlerFunc(s.transactionHandler.GetTransactionSummary)))
	router.Handle("GET /api/transactions/summary/expense-slices", protect(http.HandlerFunc(s.transactionHandler.GetExpenseSlices)))
	router.Handle("GET /api/transactions/export-csv", protect(http.HandlerFunc(s.transactionHandler.ExportTransactionsCSV)))
	router.Handle("GET /api/transactions/categories", protect(http.HandlerFunc(s.categoryHandler.GetCategories)))

	router.Handle("/", http.HandlerFunc(notFoundHandler))
}

// Handler is the router wrapped with request logging.
func (s *Server) Handler() http.Handler {
	return logger.Middleware(s.log)(s.router)
}

func main() {
	decimal.MarshalJSONWithoutQuotes = true

	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
