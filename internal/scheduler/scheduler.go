package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"foldersync/internal/logger"
	"foldersync/internal/model"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

type State int

const (
	Pending State = iota
	Due
	Fired
)

func (s State) String() string {
	switch s {
	case Pending:
		return "PENDING"
	case Due:
		return "DUE"
	case Fired:
		return "FIRED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type Action interface {
	Run(ctx context.Context, pair model.PathConfig) error
}

type ActionFunc func(ctx context.Context, pair model.PathConfig) error

func (f ActionFunc) Run(ctx context.Context, pair model.PathConfig) error {
	return f(ctx, pair)
}

// Job binds a pair to the action run for it.
type Job struct {
	Pair   model.PathConfig
	Action Action
}

type Entry struct {
	ID         int
	Job        Job
	Recurrence Recurrence
	NextDue    time.Time
	State      State
	Runs       int
	LastRun    time.Time
}

// Scheduler fires registered jobs at their due times. All jobs run on the
// goroutine calling RunPending or Run, in registration order.
type Scheduler struct {
	mu      sync.RWMutex
	clock   clockwork.Clock
	poll    time.Duration
	entries []*Entry
}

func New(clock clockwork.Clock, poll time.Duration) *Scheduler {
	return &Scheduler{
		clock: clock,
		poll:  poll,
	}
}

// Register adds job and returns its entry ID. The first firing is one
// interval after registration.
func (s *Scheduler) Register(job Job) (int, error) {
	if job.Pair.Interval <= 0 {
		return 0, fmt.Errorf("interval must be positive, got %d", job.Pair.Interval)
	}
	unit, err := model.ParseUnit(string(job.Pair.Unit))
	if err != nil {
		return 0, err
	}
	if limit := unit.MaxInterval(); job.Pair.Interval > limit {
		return 0, fmt.Errorf("interval %d exceeds %d %ss", job.Pair.Interval, limit, unit)
	}

	now := s.clock.Now()
	rec := NewRecurrence(job.Pair.Interval, job.Pair.Unit, now)

	s.mu.Lock()
	defer s.mu.Unlock()

	e := &Entry{
		ID:         len(s.entries) + 1,
		Job:        job,
		Recurrence: rec,
		NextDue:    rec.Next(now, now),
		State:      Pending,
	}
	s.entries = append(s.entries, e)

	logger.Log.Info("job registered",
		zap.Int("id", e.ID),
		zap.String("src", job.Pair.SourcePath),
		zap.String("dst", job.Pair.ReplicaPath),
		zap.Time("next_due", e.NextDue))

	return e.ID, nil
}

// RunPending is one tick: every entry whose due time has passed fires once.
// The first action error stops the tick and is returned.
func (s *Scheduler) RunPending(ctx context.Context) error {
	s.mu.RLock()
	entries := make([]*Entry, len(s.entries))
	copy(entries, s.entries)
	s.mu.RUnlock()

	for _, e := range entries {
		now := s.clock.Now()

		s.mu.Lock()
		due := !now.Before(e.NextDue)
		if due {
			e.State = Due
		}
		s.mu.Unlock()

		if !due {
			continue
		}

		logger.Log.Debug("job due",
			zap.Int("id", e.ID),
			zap.Time("due", e.NextDue))

		if err := e.Job.Action.Run(ctx, e.Job.Pair); err != nil {
			return fmt.Errorf("job %d (%s): %w", e.ID, e.Job.Pair.SourcePath, err)
		}

		s.mu.Lock()
		e.State = Fired
		e.Runs++
		e.LastRun = now
		e.NextDue = e.Recurrence.Next(e.NextDue, now)
		e.State = Pending
		next := e.NextDue
		s.mu.Unlock()

		logger.Log.Debug("job rescheduled",
			zap.Int("id", e.ID),
			zap.Time("next_due", next))
	}

	return nil
}

// Run ticks every poll interval until ctx is cancelled or a job fails.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if err := s.RunPending(ctx); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-s.clock.After(s.poll):
		}
	}
}

func (s *Scheduler) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Scheduler) Snapshots() []model.EntrySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snaps := make([]model.EntrySnapshot, 0, len(s.entries))
	for _, e := range s.entries {
		snap := model.EntrySnapshot{
			ID:       e.ID,
			Source:   e.Job.Pair.SourcePath,
			Replica:  e.Job.Pair.ReplicaPath,
			Interval: e.Job.Pair.Interval,
			Unit:     e.Job.Pair.Unit,
			State:    e.State.String(),
			NextDue:  e.NextDue,
			Runs:     e.Runs,
		}
		if !e.LastRun.IsZero() {
			lastRun := e.LastRun
			snap.LastRun = &lastRun
		}
		snaps = append(snaps, snap)
	}

	return snaps
}
