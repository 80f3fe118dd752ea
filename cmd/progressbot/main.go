package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yukikurage/progress-bot/internal/config"
)

// cli carries the flags shared by every subcommand and the configuration they resolve to.
type cli struct {
	configPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	app := &cli{}

	root := &cobra.Command{
		Use:   "progressbot",
		Short: "Chat bot that tracks progress on projects and tasks",
		Long: `progressbot interprets free-form chat messages about projects and tasks,
stages progress changes for explicit confirmation and sends a daily report.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.loadConfig()
		},
	}
	root.PersistentFlags().StringVarP(&app.configPath, "config", "c", "", "config file (yaml, json or toml); environment variables take precedence")

	root.AddCommand(serveCmd(app))
	root.AddCommand(reportCmd(app))
	root.AddCommand(migrateCmd(app))
	root.AddCommand(listCmd(app))
	root.AddCommand(hashPasswordCmd())
	return root
}

func (app *cli) loadConfig() error {
	if app.configPath == "" {
		app.cfg = config.Load()
		return nil
	}
	cfg, err := config.LoadFile(app.configPath)
	if err != nil {
		return err
	}
	app.cfg = cfg
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
