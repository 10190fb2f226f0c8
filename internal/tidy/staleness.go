package tidy

import "time"

// StalenessLevel is a bucketed age classification of a file based on
// last-access recency.
type StalenessLevel string

const (
	StalenessFresh   StalenessLevel = "fresh"
	StalenessRecent  StalenessLevel = "recent"
	StalenessAging   StalenessLevel = "aging"
	StalenessStale   StalenessLevel = "stale"
	StalenessDormant StalenessLevel = "dormant"
)

// StalenessClassifier maps a file's age since last access to a level.
// The thresholds are a collaborator concern; DefaultStalenessClassifier
// provides the standard bands.
type StalenessClassifier func(age time.Duration) StalenessLevel

// DefaultStalenessClassifier buckets by weeks-to-months bands.
func DefaultStalenessClassifier(age time.Duration) StalenessLevel {
	days := age.Hours() / 24
	switch {
	case days < 7:
		return StalenessFresh
	case days < 30:
		return StalenessRecent
	case days < 90:
		return StalenessAging
	case days < 180:
		return StalenessStale
	default:
		return StalenessDormant
	}
}

// stalenessWindowDays is the size of the staleness calendar.
const stalenessWindowDays = 365

// DayStaleness is one calendar day's staleness tallies.
type DayStaleness struct {
	Day        time.Time
	FileCounts map[StalenessLevel]int
	ByteCounts map[StalenessLevel]int64
}

// BuildStalenessCalendar produces exactly 365 day entries ending at the
// reference date, regardless of data sparsity. Each file whose last-accessed
// day falls inside the window is counted on that day, keyed by the staleness
// level of its age at the reference time.
func BuildStalenessCalendar(files []FileRecord, reference time.Time, classify StalenessClassifier) []DayStaleness {
	if classify == nil {
		classify = DefaultStalenessClassifier
	}

	refDay := StartOfDay(reference)
	windowStart := refDay.AddDate(0, 0, -(stalenessWindowDays - 1))

	calendar := make([]DayStaleness, stalenessWindowDays)
	for i := range calendar {
		calendar[i] = DayStaleness{
			Day:        windowStart.AddDate(0, 0, i),
			FileCounts: make(map[StalenessLevel]int),
			ByteCounts: make(map[StalenessLevel]int64),
		}
	}

	for i := range files {
		f := &files[i]
		day := StartOfDay(f.AccessedAt)
		if day.Before(windowStart) || day.After(refDay) {
			continue
		}
		// Both times are local midnights; rounding absorbs DST-shortened days.
		idx := int(day.Sub(windowStart).Round(24*time.Hour) / (24 * time.Hour))
		if idx < 0 || idx >= stalenessWindowDays {
			continue
		}
		level := classify(reference.Sub(f.AccessedAt))
		calendar[idx].FileCounts[level]++
		calendar[idx].ByteCounts[level] += f.Size
	}

	return calendar
}
