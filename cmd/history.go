package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/xa0627-sys/momoshop-watch/config"
	"github.com/xa0627-sys/momoshop-watch/storage"
)

var (
	historyLimit       int
	historyPruneBefore time.Duration
	historyID          int64
)

type loadGetter interface {
	GetLoad(id int64) (storage.LoadRun, error)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List journaled load attempts, most recent first.",
	Long: `List the load attempts recorded in the SQLite load journal (journal.path).

With --prune-older-than, journal entries older than the given age are deleted first.
With --id, only the given load is shown.`,
	Example: `
  # Show the last 20 loads
  momoshop-watch history

  # Drop entries older than 30 days, then show everything
  momoshop-watch history --prune-older-than 720h --limit 0

  # Show load 12 with its per-source counts
  momoshop-watch history --id 12
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyLimit < 0 {
			return fmt.Errorf("--limit must be >= 0")
		}
		if historyPruneBefore < 0 {
			return fmt.Errorf("--prune-older-than must not be negative")
		}
		if cmd.Flags().Changed("id") && historyID <= 0 {
			return fmt.Errorf("--id must be > 0")
		}

		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		store, err := storage.OpenSQLite(cfg.Journal.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		if historyPruneBefore > 0 {
			deleted, err := store.DeleteLoadsBefore(time.Now().Add(-historyPruneBefore))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d journal entries.\n", deleted)
		}

		if historyID > 0 {
			return showLoad(cmd.OutOrStdout(), store, historyID)
		}

		runs, err := store.ListLoads(historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No loads recorded.")
			return nil
		}

		writeHistoryTable(cmd.OutOrStdout(), runs)
		return nil
	},
}

func writeHistoryTable(w io.Writer, runs []storage.LoadRun) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tDURATION\tSTATUS\tPRODUCTS\tCATEGORIES\tMESSAGE")
	for _, run := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t%s\n",
			run.ID,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond),
			run.Status,
			run.Products,
			run.Categories,
			run.Message,
		)
		for _, source := range run.Sources {
			fmt.Fprintf(tw, "\t  %s\t\t\t%d\t\t%d listing rows, %d detail rows, %d mapped\n",
				source.Source,
				source.Retained,
				source.ListRows,
				source.DetailRows,
				source.Mapped,
			)
		}
	}
	_ = tw.Flush()
}

func showLoad(w io.Writer, journal loadGetter, id int64) error {
	run, err := journal.GetLoad(id)
	if err != nil {
		return err
	}
	writeHistoryTable(w, []storage.LoadRun{run})
	return nil
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of loads to list (0 = all)")
	historyCmd.Flags().DurationVar(&historyPruneBefore, "prune-older-than", 0, "Delete journal entries older than this age before listing, e.g. 720h")
	historyCmd.Flags().Int64Var(&historyID, "id", 0, "Show a single load by ID")
}
