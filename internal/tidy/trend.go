package tidy

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// TrendEngine turns a sequence of snapshots into per-day delta trend points
// and derived cleanup-impact statistics.
type TrendEngine struct {
	store  Store
	gate   FeatureGate
	logger Logger
}

func NewTrendEngine(store Store, gate FeatureGate, logger Logger) *TrendEngine {
	return &TrendEngine{store: store, gate: gate, logger: logger}
}

// StorageTrend produces one trend point per snapshot in [from, to] inclusive,
// sorted ascending by day. Each point's delta is the snapshot's stored delta
// when present, otherwise current minus previous total; the first point falls
// back to 0 when it has no stored delta. Returns empty when the storage
// trends gate is off: dashboards degrade gracefully rather than erroring.
func (e *TrendEngine) StorageTrend(ctx context.Context, from, to time.Time) ([]StorageTrendPoint, error) {
	if !e.gate.Enabled(FeatureStorageTrends) {
		e.logger.Debug("storage trends disabled, returning empty trend")
		return nil, nil
	}

	snaps, err := e.store.SnapshotsInRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetching snapshots: %w", err)
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Day.Before(snaps[j].Day) })

	points := make([]StorageTrendPoint, 0, len(snaps))
	for i := range snaps {
		s := &snaps[i]
		var delta int64
		switch {
		case s.DeltaBytes != nil:
			delta = *s.DeltaBytes
		case i > 0:
			delta = s.TotalBytes - snaps[i-1].TotalBytes
		}
		points = append(points, StorageTrendPoint{
			Day:        s.Day,
			TotalBytes: s.TotalBytes,
			DeltaBytes: delta,
		})
	}
	return points, nil
}

// CleanupImpact derives how much space cleanups freed across [from, to]:
// the sum of all negative deltas' magnitudes, an average per integer week
// (floor 1 to avoid division by zero), and the largest single freed amount.
func (e *TrendEngine) CleanupImpact(ctx context.Context, from, to time.Time) (CleanupImpact, error) {
	points, err := e.StorageTrend(ctx, from, to)
	if err != nil {
		return CleanupImpact{}, err
	}

	var impact CleanupImpact
	for _, p := range points {
		if p.DeltaBytes >= 0 {
			continue
		}
		freed := -p.DeltaBytes
		impact.TotalFreedBytes += freed
		if freed > impact.LargestFreedBytes {
			impact.LargestFreedBytes = freed
		}
	}

	weeks := int64(to.Sub(from).Hours() / (24 * 7))
	if weeks < 1 {
		weeks = 1
	}
	impact.AvgFreedPerWeek = impact.TotalFreedBytes / weeks

	return impact, nil
}
