// Package cmd wires the survey engine, store, and HTTP service into the
// lexisurvey command-line tool.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "lexisurvey",
	Short: "Adaptive vocabulary-size survey service",
	Long:  "LexiSurvey — estimates a learner's vocabulary size from a short adaptive sequence of word-recognition questions.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Missing .env is fine; explicit env always wins.
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LEXI_DB env var)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(authorCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then LEXI_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore connects to the configured database. LEXI_DB_DRIVER selects
// postgres (LEXI_DB carries the DSN); the default is SQLite on disk.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	driver := os.Getenv("LEXI_DB_DRIVER")
	if driver == "" {
		driver = store.DriverSQLite
	}

	if driver == store.DriverPostgres {
		dsn := os.Getenv("LEXI_DB")
		if dsn == "" {
			return nil, fmt.Errorf("LEXI_DB must carry the postgres DSN when LEXI_DB_DRIVER=postgres")
		}
		return store.Open(driver, dsn)
	}

	path, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	return store.Open(store.DriverSQLite, path)
}
