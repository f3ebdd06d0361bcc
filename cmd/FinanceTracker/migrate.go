package main

import (
	"errors"
	"fmt"

	database "github.com/sebuszqo/FinanceTracker/db"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var migrateSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		connStr, err := migrationConnString()
		if err != nil {
			return err
		}
		if err := database.RunMigrations(connStr); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back applied migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if migrateSteps < 1 {
			return fmt.Errorf("invalid --steps %d: must be at least 1", migrateSteps)
		}
		connStr, err := migrationConnString()
		if err != nil {
			return err
		}
		if err := database.RollbackMigrations(connStr, migrateSteps); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", migrateSteps)
		return nil
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the applied schema version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		connStr, err := migrationConnString()
		if err != nil {
			return err
		}
		version, dirty, err := database.MigrationVersion(connStr)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
		return nil
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&migrateSteps, "steps", 1, "number of migrations to roll back")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
}

func migrationConnString() (string, error) {
	connStr := viper.GetString("DB_CONNECTION_STRING")
	if connStr == "" {
		return "", errors.New("DB_CONNECTION_STRING is required")
	}
	return connStr, nil
}
