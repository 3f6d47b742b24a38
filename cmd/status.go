package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"foldersync/internal/model"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "View the schedule of a running foldersync",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := http.Get(daemonURL("/status"))
		if err != nil {
			return fmt.Errorf("foldersync not running: %w", err)
		}

		defer func(Body io.ReadCloser) {
			_ = Body.Close()
		}(resp.Body)

		var result struct {
			Entries []model.EntrySnapshot `json:"entries"`
		}

		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("failed to decode status response: %w", err)
		}

		if len(result.Entries) == 0 {
			fmt.Println("no scheduled pairs")
			return nil
		}

		fmt.Printf("%-4s %-8s %-30s %-30s %-12s %-6s %s\n",
			"ID", "STATE", "SOURCE", "REPLICA", "EVERY", "RUNS", "NEXT")

		for _, e := range result.Entries {
			lastRun := "-"
			if e.LastRun != nil {
				lastRun = humanize.Time(*e.LastRun)
			}

			fmt.Printf("%-4d %-8s %-30s %-30s %-12s %-6d %s\n",
				e.ID, e.State, e.Source, e.Replica,
				fmt.Sprintf("%d %s", e.Interval, e.Unit), e.Runs,
				humanize.Time(e.NextDue))
			fmt.Printf("     last run: %s\n", lastRun)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
