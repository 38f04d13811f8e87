package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewHistoryCmd groups listing, undo, clear and export of the operation
// ledger.
func NewHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and manage the operation history",
	}
	cmd.AddCommand(newHistoryListCmd(app))
	cmd.AddCommand(newHistoryUndoCmd(app))
	cmd.AddCommand(newHistoryClearCmd(app))
	cmd.AddCommand(newHistoryExportCmd(app))
	return cmd
}

func newHistoryListCmd(app *App) *cobra.Command {
	var kind string
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded operations, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			records := app.Engine.History().Records()
			if kind != "" {
				filtered := records[:0]
				for _, rec := range records {
					if string(rec.Kind) == kind {
						filtered = append(filtered, rec)
					}
				}
				records = filtered
			}
			if limit > 0 && len(records) > limit {
				records = records[len(records)-limit:]
			}
			if len(records) == 0 {
				fmt.Println("No operations recorded.")
				return nil
			}
			for _, rec := range records {
				backup := "-"
				if rec.BackupRef != "" {
					backup = rec.BackupRef
				}
				fmt.Printf("%s  %-7s %-40s backup=%s\n",
					rec.Timestamp.Format("2006-01-02 15:04:05"), rec.Kind, rec.Path, backup)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "Only show operations of this kind (create, modify, remove)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Show only the most recent N operations")
	return cmd
}

func newHistoryUndoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Reverse the most recent operation",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Engine.UndoLast()
			if err != nil {
				return err
			}
			fmt.Printf("Undid %s of %s (%s)\n", res.Kind, res.Path, res.Action)
			return nil
		},
	}
}

func newHistoryClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop all recorded operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cleared := app.Engine.History().Clear()
			fmt.Printf("Cleared %d operations.\n", cleared)
			return nil
		},
	}
}

func newHistoryExportCmd(app *App) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the history as JSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			records := app.Engine.History().Records()

			var data []byte
			var err error
			switch format {
			case "json":
				data, err = json.MarshalIndent(records, "", "  ")
			case "yaml":
				data, err = yaml.Marshal(records)
			default:
				return fmt.Errorf("unknown format %q, expected json or yaml", format)
			}
			if err != nil {
				return err
			}

			if output == "" {
				fmt.Println(string(data))
				return nil
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			fmt.Printf("Exported %d operations to %s\n", len(records), output)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Export format (json or yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}
