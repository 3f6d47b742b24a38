package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop a running foldersync",
	RunE: func(cmd *cobra.Command, args []string) error {
		return requestStop(daemonURL("/stop"), cmd.OutOrStdout())
	},
}

// requestStop asks the driver at url to stop and prints the state it reports.
func requestStop(url string, out io.Writer) error {
	resp, err := http.Post(url, "application/json", nil)
	if err != nil {
		return fmt.Errorf("foldersync not running: %w", err)
	}

	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	var result struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode stop response (%s): %w", resp.Status, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stop rejected: %s %s", resp.Status, result.Error)
	}

	_, _ = fmt.Fprintln(out, result.Status)
	return nil
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
