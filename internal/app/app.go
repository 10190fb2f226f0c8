package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tidy-go/internal/config"
	"tidy-go/internal/fs"
	"tidy-go/internal/scan"
	"tidy-go/internal/store"
	"tidy-go/internal/tidy"
	"tidy-go/internal/watch"
)

// configGate adapts the feature flags in config to the tidy.FeatureGate
// interface.
type configGate struct {
	features config.FeaturesConfig
}

func (g configGate) Enabled(f tidy.Feature) bool {
	switch f {
	case tidy.FeatureAnalyticsAndInsights:
		return g.features.AnalyticsAndInsights
	case tidy.FeatureStorageTrends:
		return g.features.StorageTrends
	case tidy.FeatureOptimizationRecommendations:
		return g.features.OptimizationRecommendations
	}
	return false
}

// TidyApp is the application layer between the CLI and the aggregation
// engines. It constructs all dependencies from config, exposes high-level
// operations, and manages the database lifecycle on Close.
//
// The store container is shared; every operation checks out its own handle
// for its duration, so operations never share a connection.
type TidyApp struct {
	cfg       *config.Config
	container *store.Container
	gate      tidy.FeatureGate
	filter    *tidy.EligibilityFilter
	scanner   *scan.Scanner
	clock     tidy.Clock
	idgen     tidy.IDGenerator
	logger    tidy.Logger
	logFile   *os.File
}

// NewTidyApp creates a fully wired TidyApp from the given config.
// operation identifies the CLI command being run (e.g. "Scan", "Report").
// The caller must call Close when done.
func NewTidyApp(cfg *config.Config, operation string) (*TidyApp, error) {
	container, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := container.Migrate(); err != nil {
		container.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	// Migrate silently no-ops on a database whose schema is newer than this
	// binary; the status check turns that into a hard error.
	if err := container.CheckMigrations(); err != nil {
		container.Close()
		return nil, fmt.Errorf("database schema out of date: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	slogger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		container.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}
	logger.Info("starting operation", "operation", operation)

	clock := tidy.RealClock{}
	idgen := tidy.UUIDGenerator{}
	filter := tidy.NewEligibilityFilter(fs.DirValidator{}, cfg.Automation.RuleConfidenceFloor, logger)

	destinations := make(map[tidy.FileCategory]string, len(cfg.Destinations))
	for name, path := range cfg.Destinations {
		destinations[tidy.FileCategory(name)] = path
	}
	scanner := scan.NewScanner(clock, idgen, logger,
		time.Duration(cfg.Scan.TimeoutSeconds)*time.Second, destinations)

	return &TidyApp{
		cfg:       cfg,
		container: container,
		gate:      configGate{features: cfg.Features},
		filter:    filter,
		scanner:   scanner,
		clock:     clock,
		idgen:     idgen,
		logger:    logger,
		logFile:   logFile,
	}, nil
}

// usageEngine builds a UsageStatsEngine bound to the given handle.
func (a *TidyApp) usageEngine(h tidy.Store) *tidy.UsageStatsEngine {
	return tidy.NewUsageStatsEngine(h, a.gate, tidy.TimeSavedConfig{
		SecondsPerFileOrganized:    a.cfg.Usage.SecondsPerFileOrganized,
		SecondsPerFileBulkOrganize: a.cfg.Usage.SecondsPerFileBulkOrganize,
		SecondsPerFileRuleApplied:  a.cfg.Usage.SecondsPerFileRuleApplied,
	}, a.logger)
}

// ScanResult is what the Scan operation reports back to the CLI.
type ScanResult struct {
	Summary tidy.ScanSummary
	// ErrorSummary describes per-file failures that did not abort the scan.
	ErrorSummary string
}

// Scan walks the configured folders, persists discovered records and returns
// the per-status summary. A timed-out scan is a hard error; per-file read
// failures are reported in the result but do not fail the operation.
func (a *TidyApp) Scan(ctx context.Context) (*ScanResult, error) {
	outcome := a.scanner.Scan(a.cfg.Folders)
	if err := outcome.Err(); err != nil {
		return nil, err
	}

	h, err := a.container.OpenHandle(ctx)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	for i := range outcome.Files {
		if err := h.UpsertFile(ctx, &outcome.Files[i]); err != nil {
			return nil, fmt.Errorf("persisting %s: %w", outcome.Files[i].Path, err)
		}
	}

	// Summarize over the full tracked set, not just this walk's files, so
	// the counts reflect records whose files have since been organized.
	all, err := h.ListFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}

	return &ScanResult{
		Summary:      tidy.SummarizeScan(all, a.clock.Now()),
		ErrorSummary: outcome.ErrorSummary,
	}, nil
}

// OrganizeResult reports what an organize run did.
type OrganizeResult struct {
	Moved   int
	Skipped int
	// Failed lists files whose move failed; they stay in their prior status.
	Failed []string
}

// Organize moves eligible files to their proposed destinations. When auto is
// true only files passing the automation eligibility policy move and each
// move is logged as automated; otherwise every pending or ready file with a
// usable destination moves and the run is logged as one bulk operation.
func (a *TidyApp) Organize(ctx context.Context, auto bool) (*OrganizeResult, error) {
	h, err := a.container.OpenHandle(ctx)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	files, err := h.ListFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}

	pass := a.filter.NewPass()
	result := &OrganizeResult{}

	for i := range files {
		f := &files[i]
		if f.Status != tidy.StatusPending && f.Status != tidy.StatusReady {
			continue
		}
		if auto {
			if !pass.Eligible(f, a.cfg.Automation.ConfidenceThreshold) {
				result.Skipped++
				continue
			}
		} else if f.Destination == nil || !pass.DestinationUsable(f.Destination) {
			result.Skipped++
			continue
		}

		if err := a.moveFile(f); err != nil {
			a.logger.Warn("move failed", "path", f.Path, "error", err)
			result.Failed = append(result.Failed, f.Path)
			continue
		}
		if err := h.UpdateFileStatus(ctx, f.ID, tidy.StatusCompleted); err != nil {
			return nil, fmt.Errorf("updating status for %s: %w", f.Path, err)
		}
		result.Moved++

		if auto {
			act := &tidy.ActivityRecord{
				ID:        a.idgen.New(),
				Type:      tidy.ActivityAutoOrganized,
				Timestamp: a.clock.Now(),
				RuleID:    f.RuleID,
			}
			if f.RuleID != "" {
				act.Type = tidy.ActivityRuleApplied
			}
			if err := h.AppendActivity(ctx, act); err != nil {
				return nil, fmt.Errorf("logging activity: %w", err)
			}
		}
	}

	if !auto && result.Moved > 0 {
		affected := result.Moved
		act := &tidy.ActivityRecord{
			ID:            a.idgen.New(),
			Type:          tidy.ActivityBulkOrganized,
			Timestamp:     a.clock.Now(),
			AffectedFiles: &affected,
		}
		if err := h.AppendActivity(ctx, act); err != nil {
			return nil, fmt.Errorf("logging activity: %w", err)
		}
	}

	a.logger.Info("organize finished",
		"auto", auto, "moved", result.Moved, "skipped", result.Skipped, "failed", len(result.Failed))
	return result, nil
}

// moveFile relocates a file to its destination. Trash destinations land in a
// trash directory under the base dir rather than being deleted outright.
func (a *TidyApp) moveFile(f *tidy.FileRecord) error {
	var targetDir string
	switch f.Destination.Kind {
	case tidy.DestinationTrash:
		targetDir = filepath.Join(a.cfg.BaseDir, "trash")
	default:
		targetDir = f.Destination.Path
	}
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}
	target := filepath.Join(targetDir, f.Name)
	if err := os.Rename(f.Path, target); err != nil {
		return fmt.Errorf("moving file: %w", err)
	}
	return nil
}

// Snapshot records today's storage snapshot if none exists yet and prunes
// snapshots past the retention window.
func (a *TidyApp) Snapshot(ctx context.Context) error {
	h, err := a.container.OpenHandle(ctx)
	if err != nil {
		return err
	}
	defer h.Close()

	recorder := tidy.NewSnapshotRecorder(h, a.clock, a.idgen, a.logger, a.cfg.Retention.SnapshotDays)
	return recorder.RecordDailySnapshotIfNeeded(ctx)
}

// TrendResult bundles the trend series with the derived cleanup impact.
type TrendResult struct {
	Points []tidy.StorageTrendPoint
	Impact tidy.CleanupImpact
}

// Trend returns the storage trend over the trailing number of days.
func (a *TidyApp) Trend(ctx context.Context, days int) (*TrendResult, error) {
	h, err := a.container.OpenHandle(ctx)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	engine := tidy.NewTrendEngine(h, a.gate, a.logger)
	now := a.clock.Now()
	from := tidy.StartOfDay(now).AddDate(0, 0, -days)

	points, err := engine.StorageTrend(ctx, from, now)
	if err != nil {
		return nil, err
	}
	impact, err := engine.CleanupImpact(ctx, from, now)
	if err != nil {
		return nil, err
	}
	return &TrendResult{Points: points, Impact: impact}, nil
}

// Usage returns usage statistics for the trailing period of the given kind.
func (a *TidyApp) Usage(ctx context.Context, kind tidy.PeriodKind) (tidy.UsageStatistics, error) {
	h, err := a.container.OpenHandle(ctx)
	if err != nil {
		return tidy.UsageStatistics{}, err
	}
	defer h.Close()

	return a.usageEngine(h).UsageStatistics(ctx, tidy.PeriodEnding(kind, a.clock.Now()))
}

// Health computes the composite storage health score.
func (a *TidyApp) Health(ctx context.Context) (*tidy.StorageHealthScore, error) {
	h, err := a.container.OpenHandle(ctx)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	weights := tidy.HealthWeights{
		Capacity:     a.cfg.Health.CapacityWeight,
		Unorganized:  a.cfg.Health.UnorganizedWeight,
		RuleCoverage: a.cfg.Health.RuleCoverageWeight,
		GrowthTrend:  a.cfg.Health.GrowthTrendWeight,
	}
	scorer := tidy.NewHealthScorer(h, a.gate, fs.StatfsProber{}, a.usageEngine(h),
		tidy.FactorRecommender{}, a.clock, a.logger, weights, a.cfg.BaseDir)
	return scorer.Score(ctx)
}

// Report builds the full productivity report for the trailing period of the
// given kind.
func (a *TidyApp) Report(ctx context.Context, kind tidy.PeriodKind) (*tidy.ProductivityReport, error) {
	h, err := a.container.OpenHandle(ctx)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	trends := tidy.NewTrendEngine(h, a.gate, a.logger)
	insights := tidy.NewInsightHeuristics(tidy.DefaultInsightThresholds(), a.cfg.DownloadsDir, a.logger)
	builder := tidy.NewReportBuilder(h, a.gate, a.usageEngine(h), trends, insights,
		a.clock, a.logger, a.cfg.Insights.LargeFileBytes, tidy.DefaultStalenessClassifier)
	return builder.ProductivityReport(ctx, tidy.PeriodEnding(kind, a.clock.Now()))
}

// Watch blocks, rescanning and snapshotting after each debounced burst of
// filesystem activity in the configured folders.
func (a *TidyApp) Watch(ctx context.Context) error {
	debounce := time.Duration(a.cfg.Watch.DebounceSeconds) * time.Second
	w := watch.NewWatcher(a.cfg.Folders, debounce, a.logger)
	return w.Run(ctx, func() {
		if _, err := a.Scan(ctx); err != nil {
			a.logger.Error("rescan failed", "error", err)
			return
		}
		if err := a.Snapshot(ctx); err != nil {
			a.logger.Error("snapshot failed", "error", err)
		}
	})
}

// Close releases the database and the log file.
func (a *TidyApp) Close() error {
	var firstErr error
	if a.container != nil {
		if err := a.container.Close(); err != nil {
			firstErr = err
		}
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
