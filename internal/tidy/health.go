package tidy

import (
	"context"
	"fmt"
	"math"
)

// CapacityProber reports total filesystem byte capacity for a path.
// ok is false when capacity cannot be determined; that absence is treated as
// "no capacity penalty", not as an error.
type CapacityProber interface {
	TotalBytes(path string) (total int64, ok bool)
}

// RecommendationProvider turns a computed score into actionable suggestions.
type RecommendationProvider interface {
	Recommendations(score *StorageHealthScore, analytics StorageAnalytics) []string
}

// HealthFactorType tags one weighted contributor to the composite score.
type HealthFactorType string

const (
	FactorCapacity     HealthFactorType = "capacity"
	FactorUnorganized  HealthFactorType = "unorganized"
	FactorRuleCoverage HealthFactorType = "ruleCoverage"
	FactorGrowthTrend  HealthFactorType = "growthTrend"
)

// HealthFactor is one weighted contributor to the composite score. Impact is
// the signed point effect on the score; factors only subtract from the
// ceiling of 100, so Impact is never positive.
type HealthFactor struct {
	Type        HealthFactorType
	Description string
	RawScore    float64
	Weight      float64
	Impact      int
}

// StorageHealthScore is the composite 0-100 health metric. It is derived
// fresh on every request and never persisted.
type StorageHealthScore struct {
	Score           int
	Factors         []HealthFactor
	Recommendations []string
}

// HealthWeights configures how much each factor contributes.
type HealthWeights struct {
	Capacity     float64
	Unorganized  float64
	RuleCoverage float64
	GrowthTrend  float64
}

// DefaultHealthWeights sum to 1.0 so a fully failing set of factors can zero
// the score.
func DefaultHealthWeights() HealthWeights {
	return HealthWeights{
		Capacity:     0.3,
		Unorganized:  0.3,
		RuleCoverage: 0.2,
		GrowthTrend:  0.2,
	}
}

// growthWindowDays is the trailing window of snapshots consulted for the
// growth-trend factor.
const growthWindowDays = 30

// HealthScorer combines current storage analytics, trend data and usage
// stats into a weighted composite health score with explainable factors.
type HealthScorer struct {
	store       Store
	gate        FeatureGate
	prober      CapacityProber
	usage       *UsageStatsEngine
	recommender RecommendationProvider
	clock       Clock
	logger      Logger
	weights     HealthWeights
	rootPath    string
}

func NewHealthScorer(store Store, gate FeatureGate, prober CapacityProber, usage *UsageStatsEngine,
	recommender RecommendationProvider, clock Clock, logger Logger, weights HealthWeights, rootPath string) *HealthScorer {
	return &HealthScorer{
		store:       store,
		gate:        gate,
		prober:      prober,
		usage:       usage,
		recommender: recommender,
		clock:       clock,
		logger:      logger,
		weights:     weights,
		rootPath:    rootPath,
	}
}

// Score computes the composite health score. Each factor's penalty is
// floor((1-raw) * weight * 100) points; the score is 100 minus the summed
// penalties, clamped to [0,100].
func (h *HealthScorer) Score(ctx context.Context) (*StorageHealthScore, error) {
	now := h.clock.Now()

	files, err := h.store.ListFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	analytics := ComputeStorageAnalytics(files)

	usage, err := h.usage.UsageStatistics(ctx, PeriodEnding(PeriodWeek, now))
	if err != nil {
		return nil, fmt.Errorf("fetching usage statistics: %w", err)
	}

	snaps, err := h.store.SnapshotsInRange(ctx, StartOfDay(now).AddDate(0, 0, -growthWindowDays), now)
	if err != nil {
		return nil, fmt.Errorf("fetching snapshots: %w", err)
	}

	factors := []HealthFactor{
		h.capacityFactor(analytics),
		h.unorganizedFactor(analytics),
		h.ruleCoverageFactor(usage),
		h.growthFactor(snaps, analytics),
	}

	total := 100
	for _, f := range factors {
		total += f.Impact
	}
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}

	score := &StorageHealthScore{
		Score:   total,
		Factors: factors,
	}

	if h.gate.Enabled(FeatureOptimizationRecommendations) && h.recommender != nil {
		score.Recommendations = h.recommender.Recommendations(score, analytics)
	}

	h.logger.Debug("health score computed", "score", score.Score)
	return score, nil
}

// penalty converts a raw factor score into signed impact points. With raw
// above 1 the impact goes positive, boosting the score; the rule-coverage
// ratio is deliberately left unclamped, so that can happen.
func penalty(raw, weight float64) int {
	return -int(math.Floor((1 - raw) * weight * 100))
}

func (h *HealthScorer) capacityFactor(a StorageAnalytics) HealthFactor {
	raw := 1.0
	if total, ok := h.prober.TotalBytes(h.rootPath); ok && total > 0 {
		raw = clamp01(1 - float64(a.TotalBytes)/float64(total))
	}
	return HealthFactor{
		Type:        FactorCapacity,
		Description: "Free disk capacity headroom",
		RawScore:    raw,
		Weight:      h.weights.Capacity,
		Impact:      penalty(raw, h.weights.Capacity),
	}
}

func (h *HealthScorer) unorganizedFactor(a StorageAnalytics) HealthFactor {
	raw := 1.0
	if a.FileCount > 0 {
		raw = 1 - float64(a.UnorganizedCount)/float64(a.FileCount)
	}
	return HealthFactor{
		Type:        FactorUnorganized,
		Description: "Share of files already organized",
		RawScore:    raw,
		Weight:      h.weights.Unorganized,
		Impact:      penalty(raw, h.weights.Unorganized),
	}
}

func (h *HealthScorer) ruleCoverageFactor(usage UsageStatistics) HealthFactor {
	ops := usage.FilesOrganized + usage.BulkOperations
	raw := 1.0
	if ops > 0 {
		// Not clamped: rule events can overcount relative to manual organize
		// events and push the ratio above 1.
		raw = float64(usage.RulesTriggered) / float64(ops)
	}
	return HealthFactor{
		Type:        FactorRuleCoverage,
		Description: "Organization work covered by rules",
		RawScore:    raw,
		Weight:      h.weights.RuleCoverage,
		Impact:      penalty(raw, h.weights.RuleCoverage),
	}
}

func (h *HealthScorer) growthFactor(snaps []StorageSnapshot, a StorageAnalytics) HealthFactor {
	var sum int64
	count := 0
	for i := range snaps {
		if snaps[i].DeltaBytes != nil {
			sum += *snaps[i].DeltaBytes
			count++
		}
	}

	raw := 1.0
	if count > 0 {
		mean := float64(sum) / float64(count)
		if mean > 0 {
			// Sustained growth is penalized proportionally to the current
			// footprint.
			footprint := a.TotalBytes
			if footprint < 1 {
				footprint = 1
			}
			ratio := mean / float64(footprint)
			if ratio > 1 {
				ratio = 1
			}
			raw = clamp01(1 - ratio)
		}
	}
	return HealthFactor{
		Type:        FactorGrowthTrend,
		Description: "Storage growth over the last month",
		RawScore:    raw,
		Weight:      h.weights.GrowthTrend,
		Impact:      penalty(raw, h.weights.GrowthTrend),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
