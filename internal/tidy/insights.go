package tidy

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// InsightPriority orders smart insights for display.
type InsightPriority int

const (
	PriorityLow InsightPriority = iota + 1
	PriorityMedium
	PriorityHigh
)

// SmartInsight is one human-readable actionable suggestion.
type SmartInsight struct {
	ID       string
	Title    string
	Detail   string
	Priority InsightPriority
}

// InsightThresholds configures the heuristic checks.
type InsightThresholds struct {
	// ScreenshotMinCount triggers the screenshot-buildup insight.
	ScreenshotMinCount int
	// ScreenshotStaleAfter is how long since last access a screenshot counts
	// as stale.
	ScreenshotStaleAfter time.Duration
	// DownloadsMinBytes triggers the Downloads-folder insight.
	DownloadsMinBytes int64
	// Automation rate bounds and their minimum sample sizes.
	AutomationHighRate    float64
	AutomationHighMinOps  int
	AutomationLowRate     float64
	AutomationLowMinOps   int
	// Digital dust: files untouched for DustAfter.
	DustMinCount int
	DustAfter    time.Duration
}

// DefaultInsightThresholds matches the documented heuristics: ten stale
// screenshots, a gigabyte of downloads, 70%/30% automation bounds, fifty
// files untouched for six months.
func DefaultInsightThresholds() InsightThresholds {
	return InsightThresholds{
		ScreenshotMinCount:   10,
		ScreenshotStaleAfter: 30 * 24 * time.Hour,
		DownloadsMinBytes:    1 << 30,
		AutomationHighRate:   0.7,
		AutomationHighMinOps: 10,
		AutomationLowRate:    0.3,
		AutomationLowMinOps:  20,
		DustMinCount:         50,
		DustAfter:            180 * 24 * time.Hour,
	}
}

// InsightHeuristics generates actionable suggestions from aggregates.
type InsightHeuristics struct {
	thresholds   InsightThresholds
	downloadsDir string
	logger       Logger
}

func NewInsightHeuristics(thresholds InsightThresholds, downloadsDir string, logger Logger) *InsightHeuristics {
	return &InsightHeuristics{thresholds: thresholds, downloadsDir: downloadsDir, logger: logger}
}

// SmartInsights runs the independent heuristic checks and returns their
// emissions sorted by priority descending. Ties keep emission order:
// screenshots, downloads, automation, digital dust.
func (h *InsightHeuristics) SmartInsights(files []FileRecord, usage UsageStatistics, now time.Time) []SmartInsight {
	var insights []SmartInsight

	if in := h.screenshotBuildup(files, now); in != nil {
		insights = append(insights, *in)
	}
	if in := h.downloadsFolder(files); in != nil {
		insights = append(insights, *in)
	}
	if in := h.automationRate(usage); in != nil {
		insights = append(insights, *in)
	}
	if in := h.digitalDust(files, now); in != nil {
		insights = append(insights, *in)
	}

	sort.SliceStable(insights, func(i, j int) bool { return insights[i].Priority > insights[j].Priority })
	return insights
}

func (h *InsightHeuristics) screenshotBuildup(files []FileRecord, now time.Time) *SmartInsight {
	count := 0
	for i := range files {
		f := &files[i]
		if f.Category == CategoryScreenshots && now.Sub(f.AccessedAt) >= h.thresholds.ScreenshotStaleAfter {
			count++
		}
	}
	if count < h.thresholds.ScreenshotMinCount {
		return nil
	}
	return &SmartInsight{
		ID:       "screenshot-buildup",
		Title:    "Screenshots are piling up",
		Detail:   fmt.Sprintf("%d screenshots haven't been opened in a while. Archive or delete them to reclaim space.", count),
		Priority: PriorityMedium,
	}
}

func (h *InsightHeuristics) downloadsFolder(files []FileRecord) *SmartInsight {
	if h.downloadsDir == "" {
		return nil
	}
	prefix := strings.TrimSuffix(h.downloadsDir, "/") + "/"
	var total int64
	for i := range files {
		if strings.HasPrefix(files[i].Path, prefix) {
			total += files[i].Size
		}
	}
	if total <= h.thresholds.DownloadsMinBytes {
		return nil
	}
	return &SmartInsight{
		ID:       "downloads-overflow",
		Title:    "Downloads folder is getting heavy",
		Detail:   fmt.Sprintf("Your Downloads folder holds %s. A cleanup pass would free significant space.", humanize.IBytes(uint64(total))),
		Priority: PriorityHigh,
	}
}

func (h *InsightHeuristics) automationRate(usage UsageStatistics) *SmartInsight {
	automated := usage.AutoOrganized + usage.RuleFilesMatched + usage.PatternApplied
	manual := usage.FilesOrganized + usage.FilesMoved + usage.BulkFilesProcessed
	total := automated + manual
	if total == 0 {
		return nil
	}
	rate := float64(automated) / float64(total)

	if rate >= h.thresholds.AutomationHighRate && automated >= h.thresholds.AutomationHighMinOps {
		return &SmartInsight{
			ID:       "automation-streak",
			Title:    "Automation is doing the heavy lifting",
			Detail:   fmt.Sprintf("%.0f%% of recent organization ran without you. Nice setup.", rate*100),
			Priority: PriorityLow,
		}
	}
	if rate < h.thresholds.AutomationLowRate && manual >= h.thresholds.AutomationLowMinOps {
		return &SmartInsight{
			ID:       "automation-opportunity",
			Title:    "You're organizing a lot by hand",
			Detail:   fmt.Sprintf("Only %.0f%% of recent organization was automated. Rules could take over the repetitive moves.", rate*100),
			Priority: PriorityMedium,
		}
	}
	return nil
}

func (h *InsightHeuristics) digitalDust(files []FileRecord, now time.Time) *SmartInsight {
	count := 0
	for i := range files {
		if now.Sub(files[i].AccessedAt) >= h.thresholds.DustAfter {
			count++
		}
	}
	if count < h.thresholds.DustMinCount {
		return nil
	}
	return &SmartInsight{
		ID:       "digital-dust",
		Title:    "Digital dust is settling",
		Detail:   fmt.Sprintf("%d files haven't been touched in six months or more. Consider archiving them.", count),
		Priority: PriorityMedium,
	}
}

// FactorRecommender derives recommendations from weak health factors.
type FactorRecommender struct{}

// Recommendations suggests one action per factor whose raw score dropped
// below half.
func (FactorRecommender) Recommendations(score *StorageHealthScore, analytics StorageAnalytics) []string {
	var recs []string
	for _, f := range score.Factors {
		if f.RawScore >= 0.5 {
			continue
		}
		switch f.Type {
		case FactorCapacity:
			recs = append(recs, "Disk is filling up: review large files in the treemap and clear what you no longer need.")
		case FactorUnorganized:
			recs = append(recs, fmt.Sprintf("%d files are waiting to be organized: run an organize pass or enable automation.", analytics.UnorganizedCount))
		case FactorRuleCoverage:
			recs = append(recs, "Few moves are covered by rules: add rules for your most common destinations.")
		case FactorGrowthTrend:
			recs = append(recs, "Storage has grown steadily this month: schedule a cleanup before it compounds.")
		}
	}
	return recs
}
