package util

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
)

const tmpSuffix = ".foldersync.tmp"

// AtomicWrite writes r to dst through a temporary sibling file and returns the
// number of bytes written.
func AtomicWrite(fs afero.Fs, dst string, r io.Reader, perm os.FileMode) (int64, error) {
	tmp := dst + tmpSuffix
	f, err := fs.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}

	n, err := io.Copy(f, r)
	if err != nil {
		_ = f.Close()
		_ = fs.Remove(tmp)
		return 0, fmt.Errorf("failed to write: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = fs.Remove(tmp)
		return 0, fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := fs.Chmod(tmp, perm); err != nil {
		_ = fs.Remove(tmp)
		return 0, fmt.Errorf("failed to set mode: %w", err)
	}

	if err := fs.Rename(tmp, dst); err != nil {
		_ = fs.Remove(tmp)
		return 0, fmt.Errorf("failed to rename: %w", err)
	}

	return n, nil
}

// CopyFile copies the regular file src to dst, keeping its permission bits.
func CopyFile(fs afero.Fs, src, dst string) (int64, error) {
	f, err := fs.Open(src)
	if err != nil {
		return 0, fmt.Errorf("failed to open src: %w", err)
	}

	defer func(f afero.File) {
		_ = f.Close()
	}(f)

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat src: %w", err)
	}

	return AtomicWrite(fs, dst, f, info.Mode().Perm())
}

func IsDir(fs afero.Fs, path string) (bool, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return false, err
	}

	return info.IsDir(), nil
}
