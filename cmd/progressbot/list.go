package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/yukikurage/progress-bot/internal/dto"
	"github.com/yukikurage/progress-bot/internal/models"
	"github.com/yukikurage/progress-bot/internal/services"
	"gopkg.in/yaml.v3"
)

func listCmd(app *cli) *cobra.Command {
	var (
		kind   string
		output string
		all    bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects or tasks in the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			entityKind := models.EntityKind(kind)
			if entityKind != models.KindProject && entityKind != models.KindTask {
				return fmt.Errorf("--kind must be project or task, got %q", kind)
			}

			store, closeStore, err := openStore(cmd.Context(), app.cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := closeStore(); err != nil {
					log.Printf("Failed to close store: %v", err)
				}
			}()

			entities, err := services.NewEntityService(store).List(cmd.Context(), entityKind)
			if err != nil {
				return err
			}
			if !all {
				active := entities[:0]
				for _, e := range entities {
					if !e.IsCompleted() {
						active = append(active, e)
					}
				}
				entities = active
			}
			return renderEntities(cmd.OutOrStdout(), entities, output)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", string(models.KindProject), "project or task")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "table, json or yaml")
	cmd.Flags().BoolVar(&all, "all", false, "include completed items")
	return cmd
}

func renderEntities(w io.Writer, entities []models.Entity, format string) error {
	items := make([]dto.EntityDTO, len(entities))
	for i, e := range entities {
		items[i] = dto.ToEntityDTO(e)
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(items)
	case "table", "":
		tw := table.NewWriter()
		tw.SetOutputMirror(w)
		tw.AppendHeader(table.Row{"ID", "Name", "Owner", "Status", "Progress", "Deadline", "Project"})
		for _, e := range entities {
			deadline := ""
			if e.Deadline != nil {
				deadline = e.Deadline.Format("2006-01-02")
			}
			project := ""
			if e.ProjectID != nil {
				project = *e.ProjectID
			}
			tw.AppendRow(table.Row{e.ID, e.Name, e.OwnerID, e.Status, services.FormatProgress(e), deadline, project})
		}
		tw.Render()
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
