package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Robotics-paper-daily/Robotics-paper-daily.github.io/internal/config"
	"github.com/Robotics-paper-daily/Robotics-paper-daily.github.io/internal/dataset"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show stored dataset statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		store, err := dataset.Open(cfg.DataDir())
		if err != nil {
			return fmt.Errorf("opening dataset store: %w", err)
		}

		dates, err := store.Dates()
		if err != nil {
			return err
		}
		if len(dates) == 0 {
			fmt.Println("No datasets stored yet.")
			return nil
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("%-12s %8s %9s %9s", "date", "papers", "relevant", "unscored")))
		totalPapers, totalRelevant := 0, 0
		for _, date := range dates {
			ds, err := store.Read(date)
			if err != nil {
				return err
			}
			fmt.Printf("%-12s %8d %9d %9d\n",
				date.Format("2006-01-02"), len(ds.Records), len(ds.Relevant()), len(ds.Unscored()))
			totalPapers += len(ds.Records)
			totalRelevant += len(ds.Relevant())
		}
		fmt.Println(dimStyle.Render(fmt.Sprintf("%d date(s), %d papers, %d relevant", len(dates), totalPapers, totalRelevant)))
		return nil
	},
}
