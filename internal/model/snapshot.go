package model

import "time"

type EntrySnapshot struct {
	ID       int          `json:"id"`
	Source   string       `json:"source"`
	Replica  string       `json:"replica"`
	Interval int          `json:"interval"`
	Unit     IntervalUnit `json:"unit"`
	State    string       `json:"state"`
	NextDue  time.Time    `json:"next_due"`
	Runs     int          `json:"runs"`
	LastRun  *time.Time   `json:"last_run"`
}
