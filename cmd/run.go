package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Robotics-paper-daily/Robotics-paper-daily.github.io/internal/arxiv"
	"github.com/Robotics-paper-daily/Robotics-paper-daily.github.io/internal/config"
	"github.com/Robotics-paper-daily/Robotics-paper-daily.github.io/internal/dataset"
	"github.com/Robotics-paper-daily/Robotics-paper-daily.github.io/internal/filter"
	"github.com/Robotics-paper-daily/Robotics-paper-daily.github.io/internal/keyword"
	"github.com/Robotics-paper-daily/Robotics-paper-daily.github.io/internal/render"
)

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	base := time.Now().UTC()
	if flagDate != "" {
		base, err = parseDate(flagDate)
		if err != nil {
			return err
		}
	}
	target := targetDate(base, cfg.LagDays())

	if earliest, ok := cfg.Earliest(); ok && target.Before(earliest) {
		fmt.Printf("Target date %s is before earliest_date %s; nothing to do.\n",
			target.Format("2006-01-02"), earliest.Format("2006-01-02"))
		return nil
	}

	store, err := dataset.Open(cfg.DataDir())
	if err != nil {
		return fmt.Errorf("opening dataset store: %w", err)
	}

	day := target.Format("2006-01-02")
	warned := 0

	if store.Exists(target) && !flagForce {
		fmt.Printf("Dataset for %s exists; skipping fetch and scoring (use --force to redo).\n", day)
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		fmt.Printf("Fetching %s papers for %s...\n", strings.Join(cfg.Categories, ", "), day)
		result := arxiv.FetchAll(ctx, arxiv.NewClient(), cfg.Categories, target)
		for _, e := range result.Errors {
			fmt.Printf("  %s %v\n", warnStyle.Render("[warn]"), e)
			warned++
		}
		if result.AllFailed(len(cfg.Categories)) {
			return fmt.Errorf("fetching papers for %s: all categories failed", day)
		}
		fmt.Printf("Fetched %d papers (deduplicated).\n", len(result.Papers))

		var records []dataset.Record
		if cfg.AIEnabled() {
			scorer, err := filter.New(cfg.AI, cfg.AIKey(), cfg.TopicPhrase())
			if err != nil {
				return fmt.Errorf("configuring scorer: %w", err)
			}
			fmt.Printf("Scoring %d papers...\n", len(result.Papers))
			scored := filter.ScoreAll(ctx, scorer, result.Papers, cfg.TranslateTo())
			for _, e := range scored.Errors {
				fmt.Printf("  %s %v\n", warnStyle.Render("[warn]"), e)
				warned++
			}
			records = scored.Records
		} else {
			fmt.Printf("  %s no API key set (PAPERDAILY_AI_KEY); using keyword scoring\n", warnStyle.Render("[warn]"))
			warned++
			records = keyword.ScoreAll(ctx, result.Papers, cfg.Topics, cfg.Threshold())
		}

		if err := store.Write(dataset.New(target, records)); err != nil {
			return fmt.Errorf("writing dataset for %s: %w", day, err)
		}
	}

	ds, err := store.Read(target)
	if err != nil {
		return err
	}

	r, err := render.New(cfg.HTMLDir(), cfg.SiteTitle())
	if err != nil {
		return err
	}
	if err := r.RenderDay(ds); err != nil {
		return err
	}

	dates, err := store.Dates()
	if err != nil {
		return err
	}
	if err := r.RenderIndex(dates); err != nil {
		return err
	}
	if err := r.WriteReports(dates); err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("%s: %d papers, %d relevant, %d unscored",
		day, len(ds.Records), len(ds.Relevant()), len(ds.Unscored()))))
	if warned > 0 {
		fmt.Println(dimStyle.Render(fmt.Sprintf("%d warning(s) above", warned)))
	}
	return nil
}
