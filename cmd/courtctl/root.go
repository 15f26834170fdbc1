package main

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/jamietsang/courtlog/config"
	"github.com/jamietsang/courtlog/db"
)

var rootCmd = &cobra.Command{
	Use:   "courtctl",
	Short: "Tournament results maintenance tool",
	Long: `Manage the tournament results database from the command line:
run schema migrations, load sample data and inspect the same player
and tournament aggregates the API serves.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(statsCmd)
}

// openDatabase loads configuration and opens the database connection
// every subcommand works against.
func openDatabase() (*sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	conn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return conn, nil
}
