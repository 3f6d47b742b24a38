package cmd

import (
	"foldersync/internal/daemon"
	"foldersync/internal/logger"
	"foldersync/internal/model"
	"foldersync/internal/repository"
	"foldersync/internal/validate"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var syncLogs string

var syncCmd = &cobra.Command{
	Use:   "sync [source] [replica]",
	Short: "Mirror a folder into an existing replica folder once",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		defer logger.Sync()
		fs := afero.NewOsFs()

		src, err := validate.SourceFolder(fs, args[0])
		if err != nil {
			return err
		}

		dst, err := validate.ExistingReplica(fs, src, args[1])
		if err != nil {
			return err
		}

		logs, err := validate.LogDestination(fs, src, dst, syncLogs)
		if err != nil {
			return err
		}

		logger.Log.Info("starting one-off mirror",
			zap.String("src", src),
			zap.String("dst", dst))

		d := daemon.NewDriver(cfg, fs, clockwork.NewRealClock(),
			cmd.InOrStdin(), cmd.OutOrStdout(), repository.NewRunRepository())

		return d.Mirror(cmd.Context(), model.PathConfig{
			SourcePath:  src,
			ReplicaPath: dst,
			LogPath:     logs,
		})
	},
}

func init() {
	syncCmd.Flags().StringVar(&syncLogs, "logs", ".", "directory to write the log file to")
	rootCmd.AddCommand(syncCmd)
}
