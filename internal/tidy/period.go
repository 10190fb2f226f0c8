package tidy

import "time"

// PeriodKind selects how a reporting interval is derived.
type PeriodKind string

const (
	PeriodDay    PeriodKind = "day"
	PeriodWeek   PeriodKind = "week"
	PeriodMonth  PeriodKind = "month"
	PeriodCustom PeriodKind = "custom"
)

// Period is a half-open reporting interval [Start, End).
type Period struct {
	Kind  PeriodKind
	Start time.Time
	End   time.Time
}

// PeriodEnding derives the trailing interval of the given kind that includes
// now's calendar day: day is the current day, week the trailing 7 days and
// month the trailing 30.
func PeriodEnding(kind PeriodKind, now time.Time) Period {
	end := StartOfDay(now).AddDate(0, 0, 1)
	var start time.Time
	switch kind {
	case PeriodDay:
		start = end.AddDate(0, 0, -1)
	case PeriodWeek:
		start = end.AddDate(0, 0, -7)
	case PeriodMonth:
		start = end.AddDate(0, 0, -30)
	default:
		start = end.AddDate(0, 0, -1)
	}
	return Period{Kind: kind, Start: start, End: end}
}

// CustomPeriod builds an explicit interval.
func CustomPeriod(start, end time.Time) Period {
	return Period{Kind: PeriodCustom, Start: start, End: end}
}

// Previous re-derives the prior equal-length interval: for a day period the
// previous calendar day, for a week the 7 days before the trailing 7, for a
// month the 30 before the trailing 30, and for custom the immediately
// preceding interval of equal duration.
func (p Period) Previous() Period {
	length := p.End.Sub(p.Start)
	return Period{Kind: p.Kind, Start: p.Start.Add(-length), End: p.Start}
}

// Days returns the inclusive day-span of the period, never less than 1.
func (p Period) Days() int {
	days := int(p.End.Sub(p.Start).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return days
}

// Contains reports whether t falls inside the interval.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}
