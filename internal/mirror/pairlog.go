package mirror

import (
	"fmt"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TimeLayout is the timestamp layout of pair log lines (DD-MM-YYYY HH:MM:SS).
const TimeLayout = "02-01-2006 15:04:05"

type pairLog struct {
	log  *zap.Logger
	file afero.File
}

func openPairLog(fs afero.Fs, path string, appendMode bool, clock clockwork.Clock) (*pairLog, error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if appendMode {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}

	f, err := fs.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "ts",
		MessageKey:       "msg",
		EncodeTime:       zapcore.TimeEncoderOfLayout(TimeLayout),
		ConsoleSeparator: " - ",
		LineEnding:       zapcore.DefaultLineEnding,
	})
	core := zapcore.NewCore(enc, zapcore.AddSync(f), zapcore.DebugLevel)

	return &pairLog{
		log:  zap.New(core, zap.WithClock(zapClock{clock})),
		file: f,
	}, nil
}

func (l *pairLog) Close() error {
	_ = l.log.Sync()
	return l.file.Close()
}

// zapClock lets the pair log stamp lines with the mirror's clock.
type zapClock struct {
	c clockwork.Clock
}

func (z zapClock) Now() time.Time {
	return z.c.Now()
}

func (z zapClock) NewTicker(d time.Duration) *time.Ticker {
	return time.NewTicker(d)
}
