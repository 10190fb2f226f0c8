package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tidy-go/internal/app"
	"tidy-go/internal/config"
	"tidy-go/internal/tidy"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates a TidyApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Scan", "Report").
func newApp(operation string) (*app.TidyApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewTidyApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// periodKind parses the --period flag.
func periodKind(cmd *cobra.Command) (tidy.PeriodKind, error) {
	p, _ := cmd.Flags().GetString("period")
	switch p {
	case "day":
		return tidy.PeriodDay, nil
	case "week":
		return tidy.PeriodWeek, nil
	case "month":
		return tidy.PeriodMonth, nil
	}
	return "", fmt.Errorf("invalid period %q (want day, week or month)", p)
}

var rootCmd = &cobra.Command{
	Use:   "tidy",
	Short: "File organization and storage analytics",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:  %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:   %s\n", cfg.LogDir)
		fmt.Printf("Database:  %s\n", cfg.Database.Path)
		fmt.Printf("Folders:   %v\n", cfg.Folders)
		fmt.Printf("Downloads: %s\n", cfg.DownloadsDir)
		return nil
	},
}

// scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan configured folders",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Scan")
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.Scan(cmd.Context())
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}

		s := result.Summary
		fmt.Printf("Scanned %d file(s): %d pending, %d ready, %d completed, %d skipped\n",
			s.Total(), s.Pending, s.Ready, s.Completed, s.Skipped)
		if s.Pending > 0 {
			fmt.Printf("Oldest pending file: %d day(s) old\n", s.OldestPendingAgeDays)
		}
		if result.ErrorSummary != "" {
			fmt.Printf("Warnings: %s\n", result.ErrorSummary)
		}
		return nil
	},
}

// organize command
var organizeCmd = &cobra.Command{
	Use:   "organize",
	Short: "Move files to their destinations",
	RunE: func(cmd *cobra.Command, args []string) error {
		auto, _ := cmd.Flags().GetBool("auto")

		a, err := newApp("Organize")
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.Organize(cmd.Context(), auto)
		if err != nil {
			return fmt.Errorf("organize failed: %w", err)
		}

		fmt.Printf("Moved %d file(s), skipped %d\n", result.Moved, result.Skipped)
		for _, path := range result.Failed {
			fmt.Printf("failed: %s\n", path)
		}
		return nil
	},
}

// snapshot command
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Record today's storage snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Snapshot")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Snapshot(cmd.Context()); err != nil {
			return fmt.Errorf("snapshot failed: %w", err)
		}
		fmt.Println("Snapshot recorded.")
		return nil
	},
}

// trend command
var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "View storage trend",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")

		a, err := newApp("Trend")
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.Trend(cmd.Context(), days)
		if err != nil {
			return err
		}

		if len(result.Points) == 0 {
			fmt.Println("No trend data recorded.")
			return nil
		}

		for _, p := range result.Points {
			sign := ""
			if p.DeltaBytes > 0 {
				sign = "+"
			}
			fmt.Printf("%s  %10s  %s%s\n",
				p.Day.Format("2006-01-02"),
				humanize.IBytes(uint64(p.TotalBytes)),
				sign, formatDelta(p.DeltaBytes),
			)
		}
		fmt.Printf("\nSpace reclaimed: %s (avg %s/week, largest drop %s)\n",
			humanize.IBytes(uint64(result.Impact.TotalFreedBytes)),
			humanize.IBytes(uint64(result.Impact.AvgFreedPerWeek)),
			humanize.IBytes(uint64(result.Impact.LargestFreedBytes)))
		return nil
	},
}

func formatDelta(delta int64) string {
	if delta < 0 {
		return "-" + humanize.IBytes(uint64(-delta))
	}
	return humanize.IBytes(uint64(delta))
}

// usage command
var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "View usage statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := periodKind(cmd)
		if err != nil {
			return err
		}

		a, err := newApp("UsageStatistics")
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.Usage(cmd.Context(), kind)
		if err != nil {
			return err
		}

		fmt.Printf("Usage for %s to %s:\n\n",
			stats.Period.Start.Format("2006-01-02"),
			stats.Period.End.AddDate(0, 0, -1).Format("2006-01-02"))
		fmt.Printf("Files organized:   %d\n", stats.FilesOrganized)
		fmt.Printf("Files moved:       %d\n", stats.FilesMoved)
		fmt.Printf("Auto-organized:    %d\n", stats.AutoOrganized)
		fmt.Printf("Bulk operations:   %d (%d files)\n", stats.BulkOperations, stats.BulkFilesProcessed)
		fmt.Printf("Rules triggered:   %d (%d files)\n", stats.RulesTriggered, stats.RuleFilesMatched)
		fmt.Printf("Time saved:        %s\n", stats.TimeSaved.Truncate(time.Second))
		fmt.Printf("Avg files per day: %.1f\n", stats.AvgFilesPerDay)
		return nil
	},
}

// health command
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "View storage health score",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("HealthScore")
		if err != nil {
			return err
		}
		defer a.Close()

		score, err := a.Health(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Storage health: %d/100\n\n", score.Score)
		for _, f := range score.Factors {
			fmt.Printf("%-14s %+4d  %s\n", f.Type, f.Impact, f.Description)
		}
		if len(score.Recommendations) > 0 {
			fmt.Println()
			for _, r := range score.Recommendations {
				fmt.Printf("- %s\n", r)
			}
		}
		return nil
	},
}

// report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "View productivity report",
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := periodKind(cmd)
		if err != nil {
			return err
		}

		a, err := newApp("ProductivityReport")
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.Report(cmd.Context(), kind)
		if err != nil {
			return err
		}

		printReport(os.Stdout, report)
		return nil
	},
}

func printReport(w io.Writer, r *tidy.ProductivityReport) {
	fmt.Fprintf(w, "Productivity report, %s to %s\n\n",
		r.Period.Start.Format("2006-01-02"),
		r.Period.End.AddDate(0, 0, -1).Format("2006-01-02"))

	fmt.Fprintf(w, "Files organized:    %d\n", r.Usage.FilesOrganized)
	fmt.Fprintf(w, "Time saved:         %s\n", r.Usage.TimeSaved.Truncate(time.Second))
	fmt.Fprintf(w, "Space reclaimed:    %s\n", humanize.IBytes(uint64(r.SpaceReclaimedBytes)))
	fmt.Fprintf(w, "Organization score: %.0f%%\n", r.OrganizationScore)

	if r.Previous != nil {
		fmt.Fprintf(w, "\nPrevious period:\n")
		fmt.Fprintf(w, "Space reclaimed:    %s\n", humanize.IBytes(uint64(r.Previous.SpaceReclaimedBytes)))
		fmt.Fprintf(w, "Time saved:         %s\n", r.Previous.TimeSaved.Truncate(time.Second))
		fmt.Fprintf(w, "Organization score: %.0f%%\n", r.Previous.OrganizationScore)
	}

	if r.Treemap != nil && len(r.Treemap.Children) > 0 {
		fmt.Fprintf(w, "\nStorage by category (%s total):\n", humanize.IBytes(uint64(r.Treemap.Bytes)))
		for _, cat := range r.Treemap.Children {
			fmt.Fprintf(w, "%-14s %10s\n", cat.Label, humanize.IBytes(uint64(cat.Bytes)))
			for _, child := range cat.Children {
				fmt.Fprintf(w, "    %-24s %10s\n", child.Label, humanize.IBytes(uint64(child.Bytes)))
			}
		}
	}

	if len(r.AutomationTimeline) > 0 {
		fmt.Fprintf(w, "\nAutomation timeline:\n")
		for _, d := range r.AutomationTimeline {
			fmt.Fprintf(w, "%s  automated %3d  manual %3d\n",
				d.Day.Format("2006-01-02"), d.Automated, d.Manual)
		}
	}

	if len(r.Insights) > 0 {
		fmt.Fprintf(w, "\nInsights:\n")
		for _, in := range r.Insights {
			fmt.Fprintf(w, "[%s] %s\n    %s\n", priorityLabel(in.Priority), in.Title, in.Detail)
		}
	}

	// The full staleness calendar is a wall of text; only show it when piped
	// to a file or another program.
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintf(w, "\nStaleness calendar:\n")
		for _, d := range r.StalenessCalendar {
			if len(d.FileCounts) == 0 {
				continue
			}
			fmt.Fprintf(w, "%s  %v\n", d.Day.Format("2006-01-02"), d.FileCounts)
		}
	}
}

func priorityLabel(p tidy.InsightPriority) string {
	switch p {
	case tidy.PriorityHigh:
		return "high"
	case tidy.PriorityMedium:
		return "medium"
	default:
		return "low"
	}
}

// watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch folders and rescan on changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Watch")
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Println("Watching for changes. Press Ctrl-C to stop.")
		if err := a.Watch(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(organizeCmd)
	organizeCmd.Flags().Bool("auto", false, "Only move files passing the automation eligibility checks")
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(trendCmd)
	trendCmd.Flags().IntP("days", "n", 30, "Number of trailing days to include")
	rootCmd.AddCommand(usageCmd)
	usageCmd.Flags().StringP("period", "p", "week", "Reporting period: day, week or month")
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringP("period", "p", "week", "Reporting period: day, week or month")
	rootCmd.AddCommand(watchCmd)
}
