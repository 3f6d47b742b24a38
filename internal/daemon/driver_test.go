package daemon

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"foldersync/internal/config"
	"foldersync/internal/db"
	"foldersync/internal/mirror"
	"foldersync/internal/model"
	"foldersync/internal/repository"
	"foldersync/internal/validate"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var startTime = time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	cfg := config.Default
	cfg.DaemonPort = 0
	return &cfg
}

func newFs(t *testing.T) afero.Fs {
	fs := afero.NewMemMapFs()
	for _, dir := range []string{"/photos", "/docs", "/backup/docs", "/logs"} {
		require.NoError(t, fs.MkdirAll(dir, 0755))
	}
	require.NoError(t, afero.WriteFile(fs, "/photos/cat.jpg", []byte("meow"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/docs/cv.pdf", []byte("pdf"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/backup/docs/old.pdf", []byte("old"), 0644))
	return fs
}

func initDB(t *testing.T) *repository.RunRepository {
	require.NoError(t, db.Init(filepath.Join(t.TempDir(), "test.db")))
	t.Cleanup(func() { _ = db.Close() })
	return repository.NewRunRepository()
}

func TestCollect(t *testing.T) {
	fs := newFs(t)
	clock := clockwork.NewFakeClockAt(startTime)
	runRepo := initDB(t)

	in := strings.NewReader(strings.Join([]string{
		"/photos", "y", "/backup/photos", "/logs", "minute", "10", "y",
		"/docs", "n", "/backup/docs", "/logs", "hour", "1", "n",
	}, "\n") + "\n")
	var out bytes.Buffer

	d := NewDriver(testConfig(), fs, clock, in, &out, runRepo)
	require.NoError(t, d.Collect(context.Background()))

	// Both pairs are mirrored right away.
	data, err := afero.ReadFile(fs, "/backup/photos/cat.jpg")
	require.NoError(t, err)
	assert.Equal(t, "meow", string(data))

	exists, err := afero.Exists(fs, "/backup/docs/old.pdf")
	require.NoError(t, err)
	assert.False(t, exists)

	for _, log := range []string{"/logs/photos_LogFile.log", "/logs/docs_LogFile.log"} {
		exists, err := afero.Exists(fs, log)
		require.NoError(t, err)
		assert.True(t, exists, log)
	}

	snaps := d.Scheduler().Snapshots()
	require.Len(t, snaps, 2)
	assert.Equal(t, "/photos", snaps[0].Source)
	assert.Equal(t, startTime.Add(10*time.Minute), snaps[0].NextDue)
	assert.Equal(t, "/docs", snaps[1].Source)
	assert.Equal(t, startTime.Add(time.Hour), snaps[1].NextDue)

	// A new source file shows up in the replica on the next firing.
	require.NoError(t, afero.WriteFile(fs, "/photos/dog.jpg", []byte("woof"), 0644))
	clock.Advance(10 * time.Minute)
	require.NoError(t, d.Scheduler().RunPending(context.Background()))

	data, err = afero.ReadFile(fs, "/backup/photos/dog.jpg")
	require.NoError(t, err)
	assert.Equal(t, "woof", string(data))

	stats, err := runRepo.GetStats()
	require.NoError(t, err)
	assert.Equal(t, repository.Stats{Total: 3, Success: 3}, stats)
}

func TestCollectBadInterval(t *testing.T) {
	in := strings.NewReader("/photos\nn\n/backup/docs\n/logs\nday\nsoon\n")
	d := NewDriver(testConfig(), newFs(t), clockwork.NewFakeClockAt(startTime), in, &bytes.Buffer{}, nil)

	err := d.Collect(context.Background())
	assert.ErrorIs(t, err, validate.ErrInvalidInterval)
	assert.Equal(t, 0, d.Scheduler().Len())
}

func TestAddPairMirrorFailure(t *testing.T) {
	fs := newFs(t)
	require.NoError(t, fs.Mkdir("/photos/raw", 0755))
	runRepo := initDB(t)

	d := NewDriver(testConfig(), fs, clockwork.NewFakeClockAt(startTime), strings.NewReader(""), &bytes.Buffer{}, runRepo)
	err := d.AddPair(context.Background(), model.PathConfig{
		SourcePath:  "/photos",
		ReplicaPath: "/backup/docs",
		LogPath:     "/logs",
		Interval:    1,
		Unit:        model.UnitDay,
	})
	assert.ErrorIs(t, err, mirror.ErrUnsupportedEntry)
	assert.Equal(t, 0, d.Scheduler().Len())

	failed, err := runRepo.GetFailed()
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Contains(t, failed[0].ErrMsg, "/photos/raw")
}

func TestRunStopsOnCancel(t *testing.T) {
	d := NewDriver(testConfig(), newFs(t), clockwork.NewFakeClockAt(startTime), strings.NewReader(""), &bytes.Buffer{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- d.Run(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("driver did not stop")
	}
}
