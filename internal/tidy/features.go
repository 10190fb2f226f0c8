package tidy

import "fmt"

// Feature names a gated capability.
type Feature string

const (
	FeatureAnalyticsAndInsights        Feature = "analyticsAndInsights"
	FeatureStorageTrends               Feature = "storageTrends"
	FeatureOptimizationRecommendations Feature = "optimizationRecommendations"
)

// FeatureGate answers whether a named capability is enabled.
type FeatureGate interface {
	Enabled(f Feature) bool
}

// FeatureDisabledError is returned by report-generation entry points when a
// required feature gate is off. Lower-level aggregations degrade to empty
// results instead of returning this.
type FeatureDisabledError struct {
	Feature Feature
}

func (e *FeatureDisabledError) Error() string {
	return fmt.Sprintf("feature %q is disabled", e.Feature)
}

// AllFeaturesGate enables everything. Useful for tests and defaults.
type AllFeaturesGate struct{}

func (AllFeaturesGate) Enabled(Feature) bool { return true }
