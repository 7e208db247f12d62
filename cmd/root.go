package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagDate   string
	flagConfig string
	flagForce  bool
)

var rootCmd = &cobra.Command{
	Use:   "paperdaily",
	Short: "Daily arXiv robotics paper digest",
	Long: `paperdaily fetches one day of arXiv paper metadata, scores each paper's
relevance to the configured topics with an LLM, stores the annotated set as a
dated JSON file, and renders a static HTML page plus an index over all dates.

Scheduling is external (cron or CI); each invocation processes a single date.`,
	RunE: runPipeline,
}

func init() {
	rootCmd.Flags().StringVar(&flagDate, "date", "", "base date YYYY-MM-DD (default: today; target is base minus lag_days)")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.Flags().BoolVar(&flagForce, "force", false, "refetch and rescore even if the dataset for the date exists")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(statsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("paperdaily %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

// parseDate parses a YYYY-MM-DD argument into a UTC midnight timestamp.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t.UTC(), nil
}

// targetDate resolves the date the pipeline processes: the base date minus
// the configured lag. arXiv announces submissions with a delay, so fetching
// the current day would come back empty.
func targetDate(base time.Time, lagDays int) time.Time {
	base = base.UTC()
	day := time.Date(base.Year(), base.Month(), base.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -lagDays)
}
