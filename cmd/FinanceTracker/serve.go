package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	database "github.com/sebuszqo/FinanceTracker/db"
	"github.com/sebuszqo/FinanceTracker/internal/auth"
	"github.com/sebuszqo/FinanceTracker/internal/config"
	"github.com/sebuszqo/FinanceTracker/internal/finance/infrastructure"
	"github.com/sebuszqo/FinanceTracker/internal/user"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("port", "", "port to listen on")
	serveCmd.Flags().String("backend", "", "data backend (postgres, memory)")
	viper.BindPFlag("PORT", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("DATA_BACKEND", serveCmd.Flags().Lookup("backend"))
}

// openStores connects the configured backend. The returned cleanup closes
// whatever was opened.
func openStores(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (stores, func(), error) {
	if cfg.DataBackend == config.BackendMemory {
		log.Warn("using in-memory storage, data is lost on restart")
		return memoryStores(), func() {}, nil
	}

	if cfg.MigrateOnStart {
		if err := database.RunMigrations(cfg.DBConnectionString); err != nil {
			return stores{}, nil, err
		}
		log.Info("database migrations applied")
	}

	dbService, err := database.NewDBService(ctx, cfg.DBConnectionString, database.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	}, log)
	if err != nil {
		return stores{}, nil, err
	}

	st := stores{
		transactions: infrastructure.NewTransactionRepository(dbService.DB),
		categories:   infrastructure.NewCategoryRepository(dbService.DB),
		users:        user.NewUserRepository(dbService.DB),
		secrets:      auth.NewSecretRepository(dbService.DB),
		health:       dbService,
	}
	cleanup := func() {
		if err := dbService.Close(); err != nil {
			log.WithError(err).Error("could not close database")
		}
	}
	return st, cleanup, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, cleanup, err := openStores(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Error("could not initialize storage")
		return err
	}
	defer cleanup()

	server := NewServer(cfg, log, st)
	httpServer := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"port": cfg.Port, "backend": cfg.DataBackend}).Info("server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Error("server failed")
			return err
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
		return err
	}
	return nil
}
