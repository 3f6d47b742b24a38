package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"foldersync/internal/daemon"
	"foldersync/internal/logger"
	"foldersync/internal/repository"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Set up folder pairs interactively and keep them mirrored",
	RunE: func(cmd *cobra.Command, args []string) error {
		defer logger.Sync()

		d := daemon.NewDriver(cfg, afero.NewOsFs(), clockwork.NewRealClock(),
			cmd.InOrStdin(), cmd.OutOrStdout(), repository.NewRunRepository())

		if err := d.Collect(cmd.Context()); err != nil {
			return err
		}

		// Interrupts only become a clean shutdown once the prompts are done.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return d.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
