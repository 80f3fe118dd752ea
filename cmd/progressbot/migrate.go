package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yukikurage/progress-bot/internal/database"
)

func migrateCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the tables of a relational store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := database.Dialector(app.cfg); err != nil {
				return fmt.Errorf("migrate needs STORE_DRIVER mysql, postgres or sqlite: %w", err)
			}
			if err := database.Connect(app.cfg); err != nil {
				return err
			}
			defer database.Close()

			if err := database.Migrate(database.GetDB()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
			return nil
		},
	}
}
