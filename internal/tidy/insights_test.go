package tidy_test

import (
	"fmt"
	"testing"
	"time"

	"tidy-go/internal/testutil"
	"tidy-go/internal/tidy"
)

func newHeuristics(downloadsDir string) *tidy.InsightHeuristics {
	return tidy.NewInsightHeuristics(tidy.DefaultInsightThresholds(), downloadsDir, tidy.NewNopLogger())
}

func staleScreenshots(n int, now time.Time) []tidy.FileRecord {
	files := make([]tidy.FileRecord, n)
	for i := range files {
		files[i] = tidy.FileRecord{
			ID:         fmt.Sprintf("shot-%d", i),
			Name:       fmt.Sprintf("Screenshot %d.png", i),
			Category:   tidy.CategoryScreenshots,
			AccessedAt: now.AddDate(0, 0, -31),
		}
	}
	return files
}

func findInsight(insights []tidy.SmartInsight, id string) *tidy.SmartInsight {
	for i := range insights {
		if insights[i].ID == id {
			return &insights[i]
		}
	}
	return nil
}

func TestInsightHeuristics_SmartInsights(t *testing.T) {
	now := testutil.FixedClock().Now()

	t.Run("no data yields no insights", func(t *testing.T) {
		got := newHeuristics("/dl").SmartInsights(nil, tidy.UsageStatistics{}, now)
		if len(got) != 0 {
			t.Errorf("insights = %v, want none", got)
		}
	})

	t.Run("screenshot buildup needs ten stale screenshots", func(t *testing.T) {
		h := newHeuristics("/dl")

		if got := h.SmartInsights(staleScreenshots(9, now), tidy.UsageStatistics{}, now); findInsight(got, "screenshot-buildup") != nil {
			t.Error("insight emitted for 9 screenshots, want none")
		}

		got := h.SmartInsights(staleScreenshots(10, now), tidy.UsageStatistics{}, now)
		in := findInsight(got, "screenshot-buildup")
		if in == nil {
			t.Fatal("insight missing for 10 stale screenshots")
		}
		if in.Priority != tidy.PriorityMedium {
			t.Errorf("priority = %d, want medium", in.Priority)
		}
	})

	t.Run("recently opened screenshots do not count", func(t *testing.T) {
		files := staleScreenshots(10, now)
		for i := range files {
			files[i].AccessedAt = now.AddDate(0, 0, -1)
		}
		got := newHeuristics("/dl").SmartInsights(files, tidy.UsageStatistics{}, now)
		if findInsight(got, "screenshot-buildup") != nil {
			t.Error("insight emitted for recently opened screenshots, want none")
		}
	})

	t.Run("downloads overflow requires strictly more than a gibibyte", func(t *testing.T) {
		h := newHeuristics("/Users/t/Downloads")

		atLimit := []tidy.FileRecord{
			{ID: "f1", Path: "/Users/t/Downloads/a.zip", Size: 1 << 30},
		}
		if got := h.SmartInsights(atLimit, tidy.UsageStatistics{}, now); findInsight(got, "downloads-overflow") != nil {
			t.Error("insight emitted at exactly the threshold, want none")
		}

		over := []tidy.FileRecord{
			{ID: "f1", Path: "/Users/t/Downloads/a.zip", Size: 1 << 30},
			{ID: "f2", Path: "/Users/t/Downloads/b.iso", Size: 1},
			{ID: "f3", Path: "/Users/t/elsewhere/c.iso", Size: 1 << 40}, // not in Downloads
		}
		got := h.SmartInsights(over, tidy.UsageStatistics{}, now)
		in := findInsight(got, "downloads-overflow")
		if in == nil {
			t.Fatal("insight missing above the threshold")
		}
		if in.Priority != tidy.PriorityHigh {
			t.Errorf("priority = %d, want high", in.Priority)
		}
	})

	t.Run("high automation rate earns a celebration", func(t *testing.T) {
		usage := tidy.UsageStatistics{AutoOrganized: 14, FilesOrganized: 2}
		got := newHeuristics("/dl").SmartInsights(nil, usage, now)
		in := findInsight(got, "automation-streak")
		if in == nil {
			t.Fatal("automation-streak missing at 87% automated")
		}
		if in.Priority != tidy.PriorityLow {
			t.Errorf("priority = %d, want low", in.Priority)
		}
	})

	t.Run("high rate with few automated actions stays quiet", func(t *testing.T) {
		usage := tidy.UsageStatistics{AutoOrganized: 5, FilesOrganized: 1}
		got := newHeuristics("/dl").SmartInsights(nil, usage, now)
		if findInsight(got, "automation-streak") != nil {
			t.Error("insight emitted below the minimum sample size, want none")
		}
	})

	t.Run("low automation rate suggests rules", func(t *testing.T) {
		usage := tidy.UsageStatistics{FilesOrganized: 15, FilesMoved: 10, AutoOrganized: 2}
		got := newHeuristics("/dl").SmartInsights(nil, usage, now)
		in := findInsight(got, "automation-opportunity")
		if in == nil {
			t.Fatal("automation-opportunity missing at 7% automated over 25 manual actions")
		}
		if in.Priority != tidy.PriorityMedium {
			t.Errorf("priority = %d, want medium", in.Priority)
		}
	})

	t.Run("digital dust needs fifty untouched files", func(t *testing.T) {
		files := make([]tidy.FileRecord, 50)
		for i := range files {
			files[i] = tidy.FileRecord{
				ID:         fmt.Sprintf("f%d", i),
				AccessedAt: now.AddDate(0, 0, -200),
			}
		}
		got := newHeuristics("/dl").SmartInsights(files, tidy.UsageStatistics{}, now)
		if findInsight(got, "digital-dust") == nil {
			t.Fatal("digital-dust missing for 50 dormant files")
		}

		got = newHeuristics("/dl").SmartInsights(files[:49], tidy.UsageStatistics{}, now)
		if findInsight(got, "digital-dust") != nil {
			t.Error("insight emitted for 49 dormant files, want none")
		}
	})

	t.Run("sorted by priority with stable emission order on ties", func(t *testing.T) {
		// Trigger screenshots (medium), downloads (high) and dust (medium).
		files := staleScreenshots(10, now)
		files = append(files, tidy.FileRecord{
			ID: "dl", Path: "/dl/huge.iso", Size: 2 << 30,
		})
		for i := 0; i < 50; i++ {
			files = append(files, tidy.FileRecord{
				ID:         fmt.Sprintf("dust-%d", i),
				AccessedAt: now.AddDate(0, 0, -200),
			})
		}

		got := newHeuristics("/dl").SmartInsights(files, tidy.UsageStatistics{}, now)
		var ids []string
		for _, in := range got {
			ids = append(ids, in.ID)
		}
		want := []string{"downloads-overflow", "screenshot-buildup", "digital-dust"}
		if len(ids) != len(want) {
			t.Fatalf("insight ids = %v, want %v", ids, want)
		}
		for i := range want {
			if ids[i] != want[i] {
				t.Errorf("insight %d = %s, want %s", i, ids[i], want[i])
			}
		}
	})
}

func TestFactorRecommender(t *testing.T) {
	t.Run("recommends only for weak factors", func(t *testing.T) {
		score := &tidy.StorageHealthScore{
			Factors: []tidy.HealthFactor{
				{Type: tidy.FactorCapacity, RawScore: 0.9},
				{Type: tidy.FactorUnorganized, RawScore: 0.2},
			},
		}
		recs := tidy.FactorRecommender{}.Recommendations(score, tidy.StorageAnalytics{UnorganizedCount: 7})
		if len(recs) != 1 {
			t.Fatalf("recommendation count = %d, want 1", len(recs))
		}
	})

	t.Run("no weak factors yields no recommendations", func(t *testing.T) {
		score := &tidy.StorageHealthScore{
			Factors: []tidy.HealthFactor{{Type: tidy.FactorCapacity, RawScore: 1}},
		}
		if recs := (tidy.FactorRecommender{}).Recommendations(score, tidy.StorageAnalytics{}); len(recs) != 0 {
			t.Errorf("recommendations = %v, want none", recs)
		}
	})
}
