// Package validate checks operator input for a mirror pair. Every validator is
// a pure function of the filesystem and the input; retrying is up to the caller.
package validate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"foldersync/internal/model"
	"foldersync/internal/util"

	"github.com/spf13/afero"
)

var (
	ErrNotExist        = errors.New("path does not exist")
	ErrExists          = errors.New("path already exists")
	ErrNotDirectory    = errors.New("path is not a directory")
	ErrSamePath        = errors.New("source and replica must differ")
	ErrNested          = errors.New("source and replica must not be nested in each other")
	ErrLogInsidePair   = errors.New("log destination must not be the source or replica folder")
	ErrInvalidChoice   = errors.New("invalid choice")
	ErrInvalidUnit     = errors.New("invalid interval unit")
	ErrInvalidInterval = errors.New("invalid interval")
)

func clean(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", ErrNotExist
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}

	return abs, nil
}

// Directory checks that path names an existing directory and returns it as an
// absolute path.
func Directory(fs afero.Fs, path string) (string, error) {
	abs, err := clean(path)
	if err != nil {
		return "", err
	}

	isDir, err := util.IsDir(fs, abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotExist, abs)
		}
		return "", fmt.Errorf("failed to stat %s: %w", abs, err)
	}

	if !isDir {
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, abs)
	}

	return abs, nil
}

func SourceFolder(fs afero.Fs, path string) (string, error) {
	return Directory(fs, path)
}

// NewReplica checks that path is free and then creates it as an empty
// directory.
func NewReplica(fs afero.Fs, source, path string) (string, error) {
	abs, err := clean(path)
	if err != nil {
		return "", err
	}

	exists, err := afero.Exists(fs, abs)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", abs, err)
	}
	if exists {
		return "", fmt.Errorf("%w: %s", ErrExists, abs)
	}

	if err := Distinct(source, abs); err != nil {
		return "", err
	}

	if err := fs.MkdirAll(abs, 0755); err != nil {
		return "", fmt.Errorf("failed to create replica dir: %w", err)
	}

	return abs, nil
}

func ExistingReplica(fs afero.Fs, source, path string) (string, error) {
	abs, err := Directory(fs, path)
	if err != nil {
		return "", err
	}

	if err := Distinct(source, abs); err != nil {
		return "", err
	}

	return abs, nil
}

// Distinct rejects a replica equal to the source or nested in either
// direction. Both paths must be absolute.
func Distinct(source, replica string) error {
	if source == replica {
		return ErrSamePath
	}

	if within(source, replica) || within(replica, source) {
		return ErrNested
	}

	return nil
}

func within(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}

	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// LogDestination requires an existing directory that is neither the source
// nor the replica, since the pair log would otherwise be mirrored or purged.
func LogDestination(fs afero.Fs, source, replica, path string) (string, error) {
	abs, err := Directory(fs, path)
	if err != nil {
		return "", err
	}

	if abs == source || abs == replica {
		return "", ErrLogInsidePair
	}

	return abs, nil
}

// YesNo accepts "y" or "n" in any case.
func YesNo(answer string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y":
		return true, nil
	case "n":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidChoice, answer)
	}
}

func Unit(answer string) (model.IntervalUnit, error) {
	u, err := model.ParseUnit(answer)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidUnit, answer)
	}

	return u, nil
}

// Interval parses a positive count of unit. Counts too large to express as a
// duration are rejected.
func Interval(answer string, unit model.IntervalUnit) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidInterval, err)
	}

	if n <= 0 {
		return 0, fmt.Errorf("%w: %d is not positive", ErrInvalidInterval, n)
	}

	if limit := unit.MaxInterval(); n > limit {
		return 0, fmt.Errorf("%w: %d exceeds %d %ss", ErrInvalidInterval, n, limit, unit)
	}

	return n, nil
}
