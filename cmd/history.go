package cmd

import (
	"fmt"

	"foldersync/internal/model"
	"foldersync/internal/repository"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	historyN      int
	historyFailed bool
	historySource string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View past mirror runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo := repository.NewRunRepository()

		var (
			runs []model.Run
			err  error
		)
		switch {
		case historyFailed:
			runs, err = repo.GetFailed()
		case historySource != "":
			runs, err = repo.GetBySource(historySource, historyN)
		default:
			runs, err = repo.GetRecent(historyN)
		}
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("no history yet")
			return nil
		}

		for _, r := range runs {
			status := "✓"
			if r.Status == model.StatusFailed {
				status = "✗"
			}

			fmt.Printf("%s [%s] %s -> %s  -%d +%d (%s)\n",
				status,
				r.StartedAt.Format("2006-01-02 15:04:05"),
				r.Source,
				r.Replica,
				r.Deleted,
				r.Copied,
				humanize.Bytes(uint64(r.Bytes)),
			)
			if r.ErrMsg != "" {
				fmt.Printf("    %s\n", r.ErrMsg)
			}
		}

		stats, err := repo.GetStats()
		if err != nil {
			return err
		}
		fmt.Printf("\n%d runs, %d succeeded, %d failed\n", stats.Total, stats.Success, stats.Failed)

		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyN, "n", 20, "number of runs to show")
	historyCmd.Flags().BoolVar(&historyFailed, "failed", false, "only show failed runs")
	historyCmd.Flags().StringVar(&historySource, "source", "", "only show runs of this source folder")
	rootCmd.AddCommand(historyCmd)
}
