package tidy

import (
	"context"
	"fmt"
	"time"
)

// TimeSavedConfig holds the three independently configured per-file time
// constants used to estimate time saved by organization work.
type TimeSavedConfig struct {
	SecondsPerFileOrganized    int
	SecondsPerFileBulkOrganize int
	SecondsPerFileRuleApplied  int
}

// UsageStatistics aggregates activity-log records into per-period counters.
type UsageStatistics struct {
	Period Period

	FilesOrganized int
	FilesMoved     int
	AutoOrganized  int
	PatternApplied int

	// Bulk and rule events accumulate affected-file counts rather than event
	// counts: one event may represent many files.
	BulkOperations     int
	BulkFilesProcessed int
	RulesTriggered     int
	RuleFilesMatched   int

	TimeSaved      time.Duration
	AvgFilesPerDay float64
}

// UsageStatsEngine aggregates activity records into usage statistics.
type UsageStatsEngine struct {
	store  Store
	gate   FeatureGate
	cfg    TimeSavedConfig
	logger Logger
}

func NewUsageStatsEngine(store Store, gate FeatureGate, cfg TimeSavedConfig, logger Logger) *UsageStatsEngine {
	return &UsageStatsEngine{store: store, gate: gate, cfg: cfg, logger: logger}
}

// UsageStatistics filters activity records to the period and aggregates them.
// Returns zeroed statistics when the analytics gate is off.
func (e *UsageStatsEngine) UsageStatistics(ctx context.Context, period Period) (UsageStatistics, error) {
	stats := UsageStatistics{Period: period}
	if !e.gate.Enabled(FeatureAnalyticsAndInsights) {
		e.logger.Debug("analytics disabled, returning empty usage statistics")
		return stats, nil
	}

	activities, err := e.store.ListActivity(ctx, period.Start, period.End)
	if err != nil {
		return stats, fmt.Errorf("fetching activity: %w", err)
	}

	for i := range activities {
		a := &activities[i]
		switch a.Type {
		case ActivityFileOrganized:
			stats.FilesOrganized++
		case ActivityFileMoved:
			stats.FilesMoved++
		case ActivityAutoOrganized:
			stats.AutoOrganized++
		case ActivityPatternApplied:
			stats.PatternApplied++
		case ActivityBulkOrganized:
			stats.BulkOperations++
			stats.BulkFilesProcessed += a.AffectedCount()
		case ActivityRuleApplied:
			stats.RulesTriggered++
			stats.RuleFilesMatched += a.AffectedCount()
		}
	}

	saved := stats.FilesOrganized*e.cfg.SecondsPerFileOrganized +
		stats.BulkFilesProcessed*e.cfg.SecondsPerFileBulkOrganize +
		stats.RuleFilesMatched*e.cfg.SecondsPerFileRuleApplied
	stats.TimeSaved = time.Duration(saved) * time.Second

	stats.AvgFilesPerDay = float64(stats.FilesOrganized) / float64(period.Days())

	return stats, nil
}
