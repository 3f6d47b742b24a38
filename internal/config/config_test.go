package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := load(viper.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, Default.DaemonPort, cfg.DaemonPort)
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.Equal(t, filepath.Join(dir, "foldersync.db"), cfg.DBPath)
	assert.Equal(t, LogModeTruncate, cfg.LogMode)
	assert.Empty(t, cfg.IgnoreList)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	contents := `
daemon_port: 0
poll_interval: 250ms
db_path: /tmp/runs.db
log_mode: append
ignore_list:
  - .DS_Store
  - "*.tmp"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(contents), 0644))

	cfg, err := load(viper.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, &Config{
		DaemonPort:   0,
		PollInterval: 250 * time.Millisecond,
		DBPath:       "/tmp/runs.db",
		LogMode:      LogModeAppend,
		IgnoreList:   []string{".DS_Store", "*.tmp"},
	}, cfg)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("FOLDERSYNC_DAEMON_PORT", "9999")

	cfg, err := load(viper.New(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.DaemonPort)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		expError string
	}{
		{
			name:     "BadLogMode",
			contents: "log_mode: rotate\n",
			expError: `log_mode must be "truncate" or "append", got "rotate"`,
		},
		{
			name:     "NegativePoll",
			contents: "poll_interval: -1s\n",
			expError: "poll_interval must be positive, got -1s",
		},
		{
			name:     "BadPattern",
			contents: "ignore_list: [\"[\"]\n",
			expError: `invalid ignore pattern "[": syntax error in pattern`,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(test.contents), 0644))

			_, err := load(viper.New(), dir)
			assert.EqualError(t, err, test.expError)
		})
	}
}
