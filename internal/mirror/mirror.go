package mirror

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"foldersync/internal/logger"
	"foldersync/internal/model"
	"foldersync/internal/pipeline"
	"foldersync/internal/util"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ErrUnsupportedEntry is returned when the source or the replica holds
// anything other than regular files.
var ErrUnsupportedEntry = errors.New("unsupported directory entry")

type Options struct {
	// IgnoreList holds filepath.Match patterns of source entries to leave out.
	IgnoreList []string
	// AppendLog keeps earlier runs in the pair log instead of truncating it.
	AppendLog bool
}

type Result struct {
	Deleted    []string
	Copied     []string
	Bytes      int64
	StartedAt  time.Time
	FinishedAt time.Time
}

// Mirror makes a replica's top-level files match a source's top-level files.
type Mirror struct {
	fs    afero.Fs
	clock clockwork.Clock
	out   io.Writer
	opts  Options
}

func New(fs afero.Fs, clock clockwork.Clock, out io.Writer, opts Options) *Mirror {
	if out == nil {
		out = io.Discard
	}

	return &Mirror{
		fs:    fs,
		clock: clock,
		out:   out,
		opts:  opts,
	}
}

// Run purges every entry of the replica and copies every entry of the source
// into it. The first filesystem error aborts the run; nothing already removed
// or copied is rolled back.
func (m *Mirror) Run(pair model.PathConfig) (Result, error) {
	srcName, repName := pair.SourceName(), pair.ReplicaName()

	srcEntries, err := m.listFiles(pair.SourcePath, m.opts.IgnoreList)
	if err != nil {
		return Result{}, err
	}

	repEntries, err := m.listFiles(pair.ReplicaPath, nil)
	if err != nil {
		return Result{}, err
	}

	plog, err := openPairLog(m.fs, pair.LogFile(), m.opts.AppendLog, m.clock)
	if err != nil {
		return Result{}, err
	}

	defer func(plog *pairLog) {
		_ = plog.Close()
	}(plog)

	res := Result{StartedAt: m.clock.Now()}
	m.info(plog, fmt.Sprintf("Started Folder Synchronization of Source %q and Replica %q", srcName, repName))

	for _, entry := range repEntries {
		path := filepath.Join(pair.ReplicaPath, entry.Name())
		if err := m.fs.Remove(path); err != nil {
			return res, fmt.Errorf("failed to remove %s: %w", path, err)
		}

		m.debug(plog, fmt.Sprintf("Deleted file %q from replica folder %q", entry.Name(), repName))
		res.Deleted = append(res.Deleted, entry.Name())
	}

	for _, entry := range srcEntries {
		m.debug(plog, fmt.Sprintf("Copying file %q from %q to %q", entry.Name(), srcName, repName))

		src := filepath.Join(pair.SourcePath, entry.Name())
		dst := filepath.Join(pair.ReplicaPath, entry.Name())
		n, err := util.CopyFile(m.fs, src, dst)
		if err != nil {
			return res, fmt.Errorf("failed to copy %s: %w", src, err)
		}

		res.Copied = append(res.Copied, entry.Name())
		res.Bytes += n
	}

	m.info(plog, fmt.Sprintf("Finished synchronizing folders %q and %q", srcName, repName))
	res.FinishedAt = m.clock.Now()

	logger.Log.Info("mirror finished",
		zap.String("src", pair.SourcePath),
		zap.String("dst", pair.ReplicaPath),
		zap.Int("deleted", len(res.Deleted)),
		zap.Int("copied", len(res.Copied)),
		zap.Int64("bytes", res.Bytes))

	return res, nil
}

// listFiles returns the entries of dir sorted by name, minus those matching
// ignoreList. Anything left that is not a regular file is an error.
func (m *Mirror) listFiles(dir string, ignoreList []string) ([]os.FileInfo, error) {
	entries, err := afero.ReadDir(m.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	entries = pipeline.Filter(entries, ignoreList)

	for _, entry := range entries {
		if !entry.Mode().IsRegular() {
			return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedEntry,
				filepath.Join(dir, entry.Name()), entry.Mode().Type())
		}
	}

	return entries, nil
}

func (m *Mirror) info(plog *pairLog, msg string) {
	plog.log.Info(msg)
	_, _ = fmt.Fprintln(m.out, msg)
}

func (m *Mirror) debug(plog *pairLog, msg string) {
	plog.log.Debug(msg)
	_, _ = fmt.Fprintln(m.out, msg)
	logger.Log.Debug(msg)
}
