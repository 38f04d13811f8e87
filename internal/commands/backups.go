package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewBackupsCmd groups backup inspection and pruning.
func NewBackupsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backups",
		Short: "Inspect and prune backup snapshots",
	}
	cmd.AddCommand(newBackupsListCmd(app))
	cmd.AddCommand(newBackupsPruneCmd(app))
	return cmd
}

func newBackupsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List backup snapshots, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			backups, err := app.Engine.Backups().List()
			if err != nil {
				return err
			}
			if len(backups) == 0 {
				fmt.Println("No backups found.")
				return nil
			}
			for _, b := range backups {
				fmt.Printf("%s  %-40s %6d bytes  %s\n",
					b.Timestamp.Format("2006-01-02 15:04:05"), b.SourcePath, b.Size, b.ID)
			}
			return nil
		},
	}
}

func newBackupsPruneCmd(app *App) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete backups older than the given number of days",
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 0 {
				return fmt.Errorf("days must be non-negative")
			}
			removed, err := app.Engine.Backups().Prune(time.Now().AddDate(0, 0, -days))
			if err != nil {
				return err
			}
			fmt.Printf("Removed %d backups older than %d days.\n", removed, days)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "Age threshold in days")
	return cmd
}
