package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Robotics-paper-daily/Robotics-paper-daily.github.io/internal/config"
	"github.com/Robotics-paper-daily/Robotics-paper-daily.github.io/internal/dataset"
	"github.com/Robotics-paper-daily/Robotics-paper-daily.github.io/internal/render"
)

var renderCmd = &cobra.Command{
	Use:   "render [date]",
	Short: "Regenerate HTML pages from stored datasets",
	Long: `Re-render the page for one date (or every stored date when no argument is
given) from the existing dataset files, then rebuild the index page and
reports.json. Does no network calls.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		store, err := dataset.Open(cfg.DataDir())
		if err != nil {
			return fmt.Errorf("opening dataset store: %w", err)
		}
		r, err := render.New(cfg.HTMLDir(), cfg.SiteTitle())
		if err != nil {
			return err
		}

		dates, err := store.Dates()
		if err != nil {
			return err
		}

		targets := dates
		if len(args) == 1 {
			date, err := parseDate(args[0])
			if err != nil {
				return err
			}
			if !store.Exists(date) {
				return fmt.Errorf("no dataset for %s", args[0])
			}
			targets = append(targets[:0:0], date)
		}

		for _, date := range targets {
			ds, err := store.Read(date)
			if err != nil {
				return err
			}
			if err := r.RenderDay(ds); err != nil {
				return err
			}
		}
		if err := r.RenderIndex(dates); err != nil {
			return err
		}
		if err := r.WriteReports(dates); err != nil {
			return err
		}

		fmt.Printf("Rendered %d page(s), index has %d date(s).\n", len(targets), len(dates))
		return nil
	},
}
