package scheduler

import (
	"time"

	"foldersync/internal/model"
)

type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

func timeOfDay(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

// Recurrence is an interval in a coarse unit. Daily recurrences keep the time
// of day they were registered at.
type Recurrence struct {
	Interval int
	Unit     model.IntervalUnit
	At       TimeOfDay
}

func NewRecurrence(interval int, unit model.IntervalUnit, registered time.Time) Recurrence {
	return Recurrence{
		Interval: interval,
		Unit:     unit,
		At:       timeOfDay(registered),
	}
}

// Next returns the due time following a firing. fired is the clock reading
// when the entry was found due, before its action ran. due is the due time
// that fired; only daily recurrences look at it.
func (r Recurrence) Next(due, fired time.Time) time.Time {
	switch r.Unit {
	case model.UnitHour:
		return fired.Add(time.Duration(r.Interval) * time.Hour)
	case model.UnitDay:
		next := r.pinned(due, r.Interval)
		for !next.After(fired) {
			next = r.pinned(next, r.Interval)
		}
		return next
	default:
		return fired.Add(time.Duration(r.Interval) * time.Minute)
	}
}

func (r Recurrence) pinned(from time.Time, days int) time.Time {
	return time.Date(from.Year(), from.Month(), from.Day()+days,
		r.At.Hour, r.At.Minute, r.At.Second, 0, from.Location())
}
