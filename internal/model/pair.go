package model

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"
)

type IntervalUnit string

const (
	UnitMinute IntervalUnit = "minute"
	UnitHour   IntervalUnit = "hour"
	UnitDay    IntervalUnit = "day"
)

func ParseUnit(s string) (IntervalUnit, error) {
	u := IntervalUnit(strings.ToLower(strings.TrimSpace(s)))
	switch u {
	case UnitMinute, UnitHour, UnitDay:
		return u, nil
	default:
		return "", fmt.Errorf("unknown interval unit %q", s)
	}
}

// Duration is the length of one unit. A day counts as 24 hours.
func (u IntervalUnit) Duration() time.Duration {
	switch u {
	case UnitMinute:
		return time.Minute
	case UnitHour:
		return time.Hour
	case UnitDay:
		return 24 * time.Hour
	default:
		return 0
	}
}

// MaxInterval is the largest interval whose total length still fits in a
// time.Duration.
func (u IntervalUnit) MaxInterval() int {
	d := u.Duration()
	if d == 0 {
		return 0
	}

	return int(math.MaxInt64 / int64(d))
}

// PathConfig is one source/replica pair with its log destination and schedule.
// It is built once and passed around by value.
type PathConfig struct {
	SourcePath  string       `json:"source"`
	ReplicaPath string       `json:"replica"`
	LogPath     string       `json:"log_path"`
	Interval    int          `json:"interval"`
	Unit        IntervalUnit `json:"unit"`
}

func (p PathConfig) SourceName() string {
	return filepath.Base(p.SourcePath)
}

func (p PathConfig) ReplicaName() string {
	return filepath.Base(p.ReplicaPath)
}

// LogFile is the pair's log file, named after the source folder.
func (p PathConfig) LogFile() string {
	return filepath.Join(p.LogPath, p.SourceName()+"_LogFile.log")
}

func (p PathConfig) String() string {
	return fmt.Sprintf("%s -> %s every %d %s(s)", p.SourcePath, p.ReplicaPath, p.Interval, p.Unit)
}
