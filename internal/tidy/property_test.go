package tidy_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"tidy-go/internal/testutil"
	"tidy-go/internal/tidy"
)

// genStatus generates one of the four organization statuses.
func genStatus() gopter.Gen {
	return gen.OneConstOf(tidy.StatusPending, tidy.StatusReady, tidy.StatusCompleted, tidy.StatusSkipped)
}

// genFiles generates a slice of file records with random statuses and sizes.
func genFiles() gopter.Gen {
	record := gopter.CombineGens(
		genStatus(),
		gen.Int64Range(0, 1<<30),
	).Map(func(vals []interface{}) tidy.FileRecord {
		return tidy.FileRecord{
			Status: vals[0].(tidy.OrgStatus),
			Size:   vals[1].(int64),
		}
	})
	return gen.SliceOf(record)
}

// TestSummarizeScan_CountsPartitionTotal checks that for any set of file
// records, the per-status counts always sum to the total number of records.
func TestSummarizeScan_CountsPartitionTotal(t *testing.T) {
	now := testutil.FixedClock().Now()
	properties := gopter.NewProperties(nil)

	properties.Property("status counts sum to total", prop.ForAll(
		func(files []tidy.FileRecord) bool {
			s := tidy.SummarizeScan(files, now)
			return s.Total() == len(files)
		},
		genFiles(),
	))

	properties.TestingRun(t)
}

// TestOrganizationScore_Bounded checks that the organization score stays in
// [0,100] for any file set and is exactly 100 for the empty set.
func TestOrganizationScore_Bounded(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("score is within [0,100]", prop.ForAll(
		func(files []tidy.FileRecord) bool {
			score := tidy.OrganizationScore(files)
			return score >= 0 && score <= 100
		},
		genFiles(),
	))

	properties.Property("analytics partition completed vs unorganized", prop.ForAll(
		func(files []tidy.FileRecord) bool {
			a := tidy.ComputeStorageAnalytics(files)
			return a.CompletedCount+a.UnorganizedCount == a.FileCount && a.FileCount == len(files)
		},
		genFiles(),
	))

	properties.TestingRun(t)
}

// TestStorageTrend_DeltaRelation checks that for any ascending sequence of
// snapshot totals without stored deltas, each point's delta equals the
// difference from the previous point and the first point's delta is zero.
func TestStorageTrend_DeltaRelation(t *testing.T) {
	properties := gopter.NewProperties(nil)
	ctx := context.Background()

	properties.Property("recomputed deltas match total differences", prop.ForAll(
		func(totals []int64) bool {
			store := testutil.NewMemStore()
			base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			for i, total := range totals {
				store.AddSnapshots(tidy.StorageSnapshot{
					ID:         fmt.Sprintf("s%d", i),
					Day:        base.AddDate(0, 0, i),
					TotalBytes: total,
				})
			}

			points, err := newTrendEngine(store).StorageTrend(ctx, base, base.AddDate(0, 0, len(totals)))
			if err != nil || len(points) != len(totals) {
				return false
			}
			for i, p := range points {
				want := int64(0)
				if i > 0 {
					want = totals[i] - totals[i-1]
				}
				if p.DeltaBytes != want {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Int64Range(0, 1<<40)),
	))

	properties.Property("all non-negative deltas free nothing", prop.ForAll(
		func(deltas []int64) bool {
			store := testutil.NewMemStore()
			base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			for i, d := range deltas {
				store.AddSnapshots(tidy.StorageSnapshot{
					ID:         fmt.Sprintf("s%d", i),
					Day:        base.AddDate(0, 0, i),
					TotalBytes: 1000,
					DeltaBytes: deltaPtr(d),
				})
			}
			impact, err := newTrendEngine(store).CleanupImpact(ctx, base, base.AddDate(0, 0, len(deltas)))
			return err == nil && impact.TotalFreedBytes == 0 && impact.LargestFreedBytes == 0
		},
		gen.SliceOf(gen.Int64Range(0, 1<<40)),
	))

	properties.TestingRun(t)
}

// TestHealthScore_Clamped checks that the composite score stays in [0,100]
// for any mix of files, activity and snapshots.
func TestHealthScore_Clamped(t *testing.T) {
	properties := gopter.NewProperties(nil)
	ctx := context.Background()
	now := testutil.FixedClock().Now()

	genActivity := gopter.CombineGens(
		gen.OneConstOf(tidy.ActivityFileOrganized, tidy.ActivityBulkOrganized, tidy.ActivityRuleApplied),
		gen.IntRange(1, 50),
	).Map(func(vals []interface{}) tidy.ActivityRecord {
		n := vals[1].(int)
		return tidy.ActivityRecord{
			Type:          vals[0].(tidy.ActivityType),
			Timestamp:     now,
			AffectedFiles: &n,
		}
	})

	properties.Property("score stays within [0,100]", prop.ForAll(
		func(files []tidy.FileRecord, activities []tidy.ActivityRecord, deltas []int64, total int64) bool {
			store := testutil.NewMemStore()
			store.AddFiles(files...)
			store.AddActivity(activities...)
			day := tidy.StartOfDay(now)
			for i, d := range deltas {
				store.AddSnapshots(tidy.StorageSnapshot{
					ID:         fmt.Sprintf("s%d", i),
					Day:        day.AddDate(0, 0, -i-1),
					TotalBytes: 1000,
					DeltaBytes: deltaPtr(d),
				})
			}

			scorer := newScorer(store, tidy.AllFeaturesGate{}, testutil.StubProber{Total: total, OK: total > 0})
			score, err := scorer.Score(ctx)
			return err == nil && score.Score >= 0 && score.Score <= 100
		},
		genFiles(),
		gen.SliceOf(genActivity),
		gen.SliceOfN(20, gen.Int64Range(-1<<35, 1<<35)),
		gen.Int64Range(0, 1<<41),
	))

	properties.TestingRun(t)
}

// TestStalenessCalendar_AlwaysFullWindow checks the calendar always has
// exactly 365 entries regardless of input.
func TestStalenessCalendar_AlwaysFullWindow(t *testing.T) {
	properties := gopter.NewProperties(nil)
	now := testutil.FixedClock().Now()

	genAccessed := gen.IntRange(-500, 10).Map(func(daysAgo int) tidy.FileRecord {
		return tidy.FileRecord{AccessedAt: now.AddDate(0, 0, daysAgo)}
	})

	properties.Property("exactly 365 entries", prop.ForAll(
		func(files []tidy.FileRecord) bool {
			cal := tidy.BuildStalenessCalendar(files, now, nil)
			if len(cal) != 365 {
				return false
			}
			counted := 0
			for _, d := range cal {
				for _, n := range d.FileCounts {
					counted += n
				}
			}
			return counted <= len(files)
		},
		gen.SliceOf(genAccessed),
	))

	properties.TestingRun(t)
}
