package tidy

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// AutomationDay buckets one local calendar day's activity into manual versus
// automated file counts.
type AutomationDay struct {
	Day       time.Time
	Manual    int
	Automated int
}

// PeriodComparison holds the prior equal-length interval's metrics. The
// organization score reuses the current snapshot of file statuses because
// status history is not retained; the comparison is inherently approximate.
type PeriodComparison struct {
	Period              Period
	SpaceReclaimedBytes int64
	TimeSaved           time.Duration
	OrganizationScore   float64
}

// ProductivityReport composes metrics, the automation-efficiency timeline, a
// storage treemap, a 365-day staleness calendar and smart insights into one
// report for the presentation layer.
type ProductivityReport struct {
	Period              Period
	SpaceReclaimedBytes int64
	TimeSaved           time.Duration
	OrganizationScore   float64
	Usage               UsageStatistics
	Previous            *PeriodComparison
	AutomationTimeline  []AutomationDay
	Treemap             *TreemapNode
	StalenessCalendar   []DayStaleness
	Insights            []SmartInsight
}

// ReportBuilder orchestrates the aggregation engines into a single report.
type ReportBuilder struct {
	store              Store
	gate               FeatureGate
	usage              *UsageStatsEngine
	trends             *TrendEngine
	insights           *InsightHeuristics
	clock              Clock
	logger             Logger
	largeFileThreshold int64
	classify           StalenessClassifier
}

func NewReportBuilder(store Store, gate FeatureGate, usage *UsageStatsEngine, trends *TrendEngine,
	insights *InsightHeuristics, clock Clock, logger Logger, largeFileThreshold int64, classify StalenessClassifier) *ReportBuilder {
	return &ReportBuilder{
		store:              store,
		gate:               gate,
		usage:              usage,
		trends:             trends,
		insights:           insights,
		clock:              clock,
		logger:             logger,
		largeFileThreshold: largeFileThreshold,
		classify:           classify,
	}
}

// ProductivityReport builds the full report for the period. Unlike the
// lower-level aggregations, this entry point fails outright when the
// analytics gate is off.
func (b *ReportBuilder) ProductivityReport(ctx context.Context, period Period) (*ProductivityReport, error) {
	if !b.gate.Enabled(FeatureAnalyticsAndInsights) {
		return nil, &FeatureDisabledError{Feature: FeatureAnalyticsAndInsights}
	}

	now := b.clock.Now()

	files, err := b.store.ListFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}

	usage, err := b.usage.UsageStatistics(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("computing usage statistics: %w", err)
	}

	// CleanupImpact takes an inclusive range; period.End is the next
	// period's first midnight and must stay out of this one.
	impact, err := b.trends.CleanupImpact(ctx, period.Start, period.End.Add(-time.Nanosecond))
	if err != nil {
		return nil, fmt.Errorf("computing cleanup impact: %w", err)
	}

	activities, err := b.store.ListActivity(ctx, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("fetching activity: %w", err)
	}

	report := &ProductivityReport{
		Period:              period,
		SpaceReclaimedBytes: impact.TotalFreedBytes,
		TimeSaved:           usage.TimeSaved,
		OrganizationScore:   OrganizationScore(files),
		Usage:               usage,
		AutomationTimeline:  BuildAutomationTimeline(activities),
		Treemap:             BuildTreemap(files, b.largeFileThreshold),
		StalenessCalendar:   BuildStalenessCalendar(files, now, b.classify),
		Insights:            b.insights.SmartInsights(files, usage, now),
	}

	prev, err := b.previousComparison(ctx, period, files)
	if err != nil {
		return nil, err
	}
	report.Previous = prev

	b.logger.Debug("productivity report built",
		"period", string(period.Kind), "insights", len(report.Insights))
	return report, nil
}

// previousComparison re-derives the prior equal-length interval and repeats
// the usage and cleanup aggregation against it.
func (b *ReportBuilder) previousComparison(ctx context.Context, period Period, files []FileRecord) (*PeriodComparison, error) {
	prev := period.Previous()

	prevUsage, err := b.usage.UsageStatistics(ctx, prev)
	if err != nil {
		return nil, fmt.Errorf("computing previous usage statistics: %w", err)
	}

	prevImpact, err := b.trends.CleanupImpact(ctx, prev.Start, prev.End.Add(-time.Nanosecond))
	if err != nil {
		return nil, fmt.Errorf("computing previous cleanup impact: %w", err)
	}

	return &PeriodComparison{
		Period:              prev,
		SpaceReclaimedBytes: prevImpact.TotalFreedBytes,
		TimeSaved:           prevUsage.TimeSaved,
		// Status history is not retained, so this reuses the current
		// statuses.
		OrganizationScore: OrganizationScore(files),
	}, nil
}

// BuildAutomationTimeline buckets activity records by local calendar day into
// manual versus automated counts, weighted by affected-file count, sorted by
// day ascending.
func BuildAutomationTimeline(activities []ActivityRecord) []AutomationDay {
	byDay := make(map[time.Time]*AutomationDay)
	for i := range activities {
		a := &activities[i]
		day := StartOfDay(a.Timestamp)
		bucket, ok := byDay[day]
		if !ok {
			bucket = &AutomationDay{Day: day}
			byDay[day] = bucket
		}
		if a.IsAutomated() {
			bucket.Automated += a.AffectedCount()
		} else {
			bucket.Manual += a.AffectedCount()
		}
	}

	timeline := make([]AutomationDay, 0, len(byDay))
	for _, bucket := range byDay {
		timeline = append(timeline, *bucket)
	}
	sort.Slice(timeline, func(i, j int) bool { return timeline[i].Day.Before(timeline[j].Day) })
	return timeline
}
