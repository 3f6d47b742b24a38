package model

import (
	"time"

	"gorm.io/gorm"
)

type RunStatus string

const (
	StatusSuccess RunStatus = "SUCCESS"
	StatusFailed  RunStatus = "FAILED"
)

// Run is one persisted mirror invocation.
type Run struct {
	gorm.Model
	Source     string    `gorm:"not null;index"`
	Replica    string    `gorm:"not null"`
	Status     RunStatus `gorm:"not null"`
	Deleted    int
	Copied     int
	Bytes      int64
	ErrMsg     string
	StartedAt  time.Time `gorm:"not null"`
	FinishedAt time.Time
}
