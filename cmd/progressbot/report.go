package main

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/yukikurage/progress-bot/internal/services"
)

func reportCmd(app *cli) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Send the daily report to every user who receives it",
		Long:  `Builds the daily report from the current store and delivers it. Meant to be run by an external scheduler such as cron.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := openStore(cmd.Context(), app.cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := closeStore(); err != nil {
					log.Printf("Failed to close store: %v", err)
				}
			}()

			reports := services.NewReportService(store, newSender(app.cfg))
			if dryRun {
				messages, err := reports.Daily(cmd.Context(), time.Now())
				if err != nil {
					return err
				}
				for _, m := range messages {
					fmt.Fprintf(cmd.OutOrStdout(), "--- %s\n%s\n", m.UserID, m.Text)
				}
				return nil
			}

			sent, err := reports.SendDaily(cmd.Context(), time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sent %d report(s)\n", sent)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the reports instead of sending them")
	return cmd
}
