package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for tidy.
type Config struct {
	BaseDir string `toml:"base_dir"`
	LogDir  string `toml:"log_dir"`

	// Folders are the scan roots.
	Folders      []string `toml:"folders"`
	DownloadsDir string   `toml:"downloads_dir"`

	// Destinations maps a file category name to its target folder.
	Destinations map[string]string `toml:"destinations"`

	Database   DatabaseConfig   `toml:"database"`
	Scan       ScanConfig       `toml:"scan"`
	Automation AutomationConfig `toml:"automation"`
	Retention  RetentionConfig  `toml:"retention"`
	Health     HealthConfig     `toml:"health"`
	Usage      UsageConfig      `toml:"usage"`
	Insights   InsightsConfig   `toml:"insights"`
	Features   FeaturesConfig   `toml:"features"`
	Watch      WatchConfig      `toml:"watch"`
}

// DatabaseConfig locates the metadata database.
type DatabaseConfig struct {
	Path string `toml:"path"` // file path, or ":memory:"
}

// ScanConfig bounds the scanning collaborator.
type ScanConfig struct {
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// AutomationConfig holds the eligibility thresholds. The rule floor is
// deliberately lower than the main threshold: rule matches are trusted more
// than raw predictions.
type AutomationConfig struct {
	ConfidenceThreshold float64 `toml:"confidence_threshold"`
	RuleConfidenceFloor float64 `toml:"rule_confidence_floor"`
}

// RetentionConfig controls snapshot pruning.
type RetentionConfig struct {
	SnapshotDays int `toml:"snapshot_days"`
}

// HealthConfig holds the health factor weights.
type HealthConfig struct {
	CapacityWeight     float64 `toml:"capacity_weight"`
	UnorganizedWeight  float64 `toml:"unorganized_weight"`
	RuleCoverageWeight float64 `toml:"rule_coverage_weight"`
	GrowthTrendWeight  float64 `toml:"growth_trend_weight"`
}

// UsageConfig holds the per-file time-saved constants, in seconds.
type UsageConfig struct {
	SecondsPerFileOrganized    int `toml:"seconds_per_file_organized"`
	SecondsPerFileBulkOrganize int `toml:"seconds_per_file_bulk_organize"`
	SecondsPerFileRuleApplied  int `toml:"seconds_per_file_rule_applied"`
}

// InsightsConfig tunes the report heuristics.
type InsightsConfig struct {
	LargeFileBytes int64 `toml:"large_file_bytes"`
}

// FeaturesConfig gates optional capabilities.
type FeaturesConfig struct {
	AnalyticsAndInsights        bool `toml:"analytics_and_insights"`
	StorageTrends               bool `toml:"storage_trends"`
	OptimizationRecommendations bool `toml:"optimization_recommendations"`
}

// WatchConfig tunes watch mode.
type WatchConfig struct {
	DebounceSeconds int `toml:"debounce_seconds"`
}

// NewConfig creates a Config with default values rooted at baseDir.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Database: DatabaseConfig{
			Path: filepath.Join(baseDir, "tidy.db"),
		},
		Scan: ScanConfig{
			TimeoutSeconds: 120,
		},
		Automation: AutomationConfig{
			ConfidenceThreshold: 0.8,
			RuleConfidenceFloor: 0.5,
		},
		Retention: RetentionConfig{
			SnapshotDays: 365,
		},
		Health: HealthConfig{
			CapacityWeight:     0.3,
			UnorganizedWeight:  0.3,
			RuleCoverageWeight: 0.2,
			GrowthTrendWeight:  0.2,
		},
		Usage: UsageConfig{
			SecondsPerFileOrganized:    5,
			SecondsPerFileBulkOrganize: 2,
			SecondsPerFileRuleApplied:  3,
		},
		Insights: InsightsConfig{
			LargeFileBytes: 100 << 20, // 100 MiB
		},
		Features: FeaturesConfig{
			AnalyticsAndInsights:        true,
			StorageTrends:               true,
			OptimizationRecommendations: true,
		},
		Watch: WatchConfig{
			DebounceSeconds: 5,
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
// This is an internal helper and should not be exported.
func writeToFile(path string, cfg *Config) error {
	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
