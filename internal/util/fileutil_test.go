package util

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/dst", 0755))
	require.NoError(t, afero.WriteFile(fs, "/src.txt", []byte("hello"), 0600))
	require.NoError(t, afero.WriteFile(fs, "/dst/src.txt", []byte("previous contents"), 0644))

	n, err := CopyFile(fs, "/src.txt", "/dst/src.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	data, err := afero.ReadFile(fs, "/dst/src.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	info, err := fs.Stat("/dst/src.txt")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	exists, err := afero.Exists(fs, "/dst/src.txt"+tmpSuffix)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCopyFileMissingSource(t *testing.T) {
	_, err := CopyFile(afero.NewMemMapFs(), "/nope", "/dst")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestAtomicWriteCleansUp(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := AtomicWrite(fs, "/out.txt", failingReader{}, 0644)
	assert.ErrorContains(t, err, "disk on fire")

	exists, err := afero.Exists(fs, "/out.txt"+tmpSuffix)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = AtomicWrite(fs, "/out.txt", strings.NewReader("ok"), 0644)
	assert.NoError(t, err)
}

func TestIsDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/dir", 0755))
	require.NoError(t, afero.WriteFile(fs, "/file", nil, 0644))

	isDir, err := IsDir(fs, "/dir")
	assert.NoError(t, err)
	assert.True(t, isDir)

	isDir, err = IsDir(fs, "/file")
	assert.NoError(t, err)
	assert.False(t, isDir)

	_, err = IsDir(fs, "/missing")
	assert.Error(t, err)
}
