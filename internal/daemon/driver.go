package daemon

import (
	"context"
	"fmt"
	"io"
	"time"

	"foldersync/internal/config"
	"foldersync/internal/logger"
	"foldersync/internal/mirror"
	"foldersync/internal/model"
	"foldersync/internal/prompt"
	"foldersync/internal/repository"
	"foldersync/internal/scheduler"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Driver collects pairs from the operator, mirrors each once, and then keeps
// them in sync on their schedules.
type Driver struct {
	cfg       *config.Config
	clock     clockwork.Clock
	prompter  *prompt.Prompter
	mirror    *mirror.Mirror
	scheduler *scheduler.Scheduler
	runRepo   *repository.RunRepository
}

// NewDriver wires a driver. runRepo may be nil to skip run history.
func NewDriver(cfg *config.Config, fs afero.Fs, clock clockwork.Clock, in io.Reader, out io.Writer, runRepo *repository.RunRepository) *Driver {
	return &Driver{
		cfg:      cfg,
		clock:    clock,
		prompter: prompt.New(fs, in, out),
		mirror: mirror.New(fs, clock, out, mirror.Options{
			IgnoreList: cfg.IgnoreList,
			AppendLog:  cfg.LogMode == config.LogModeAppend,
		}),
		scheduler: scheduler.New(clock, cfg.PollInterval),
		runRepo:   runRepo,
	}
}

func (d *Driver) Scheduler() *scheduler.Scheduler {
	return d.scheduler
}

// Collect asks for pairs until the operator declines to add another one.
func (d *Driver) Collect(ctx context.Context) error {
	for {
		pair, err := d.prompter.PathConfig()
		if err != nil {
			return err
		}

		if err := d.AddPair(ctx, pair); err != nil {
			return err
		}

		another, err := d.prompter.Another()
		if err != nil {
			return err
		}
		if !another {
			return nil
		}
	}
}

// AddPair mirrors pair once and schedules it.
func (d *Driver) AddPair(ctx context.Context, pair model.PathConfig) error {
	if err := d.Mirror(ctx, pair); err != nil {
		return err
	}

	_, err := d.scheduler.Register(scheduler.Job{
		Pair:   pair,
		Action: scheduler.ActionFunc(d.Mirror),
	})
	return err
}

// Mirror runs one mirror of pair and records it in the run history.
func (d *Driver) Mirror(_ context.Context, pair model.PathConfig) error {
	startedAt := d.clock.Now()
	res, err := d.mirror.Run(pair)
	d.record(pair, startedAt, res, err)

	if err != nil {
		logger.Log.Error("mirror failed",
			zap.String("src", pair.SourcePath),
			zap.String("dst", pair.ReplicaPath),
			zap.Error(err))
		return fmt.Errorf("mirror %s: %w", pair.SourcePath, err)
	}

	return nil
}

func (d *Driver) record(pair model.PathConfig, startedAt time.Time, res mirror.Result, runErr error) {
	if d.runRepo == nil {
		return
	}

	run := model.Run{
		Source:     pair.SourcePath,
		Replica:    pair.ReplicaPath,
		Status:     model.StatusSuccess,
		Deleted:    len(res.Deleted),
		Copied:     len(res.Copied),
		Bytes:      res.Bytes,
		StartedAt:  startedAt,
		FinishedAt: d.clock.Now(),
	}
	if runErr != nil {
		run.Status = model.StatusFailed
		run.ErrMsg = runErr.Error()
	}

	if err := d.runRepo.Save(&run); err != nil {
		logger.Log.Warn("failed to save run history",
			zap.String("src", pair.SourcePath),
			zap.Error(err))
	}
}

// Run keeps every registered pair in sync until ctx is cancelled, a stop is
// requested through the status API, or a mirror fails.
func (d *Driver) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return d.scheduler.Run(ctx)
	})

	if d.cfg.DaemonPort > 0 {
		srv := NewServer(d.scheduler, d.runRepo, d.cfg.DaemonPort)

		g.Go(func() error {
			return srv.Serve(ctx)
		})

		g.Go(func() error {
			select {
			case <-srv.StopCh():
				logger.Log.Info("stop requested via API")
				cancel()
			case <-ctx.Done():
			}
			return nil
		})
	}

	logger.Log.Info("foldersync started",
		zap.Int("pairs", d.scheduler.Len()),
		zap.Duration("poll_interval", d.cfg.PollInterval))

	return g.Wait()
}
