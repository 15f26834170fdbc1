package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jamietsang/courtlog/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	conn, err := openDatabase()
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := db.EnsureSchema(cmd.Context(), conn); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
	return nil
}
