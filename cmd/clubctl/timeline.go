package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Dosada05/club-system/models"
	"github.com/spf13/cobra"
)

func timelineCmd() *cobra.Command {
	var (
		courtID int
		from    string
		hours   int
	)

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Show a court's bookings and open matches for a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			if from != "" {
				parsed, err := time.Parse(time.RFC3339, from)
				if err != nil {
					return fmt.Errorf("invalid --from, want RFC3339: %w", err)
				}
				start = parsed
			}
			window := models.Interval{Start: start, End: start.Add(time.Duration(hours) * time.Hour)}

			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			blocks, err := a.availability.CourtTimeline(cmd.Context(), courtID, window)
			if err != nil {
				return err
			}

			if outputJSON {
				return json.NewEncoder(os.Stdout).Encode(blocks)
			}
			for _, block := range blocks {
				iv := block.BlockInterval()
				switch b := block.(type) {
				case models.ReservedBlock:
					fmt.Printf("%s - %s  reserved  %s\n",
						iv.Start.Format("15:04"), iv.End.Format("15:04"), b.OwnerRef)
				case models.OpenMatchBlock:
					fmt.Printf("%s - %s  open match  %d/%d joined  level %.1f-%.1f  %s\n",
						iv.Start.Format("15:04"), iv.End.Format("15:04"),
						b.Joined, b.Capacity, b.LevelMin, b.LevelMax, b.Status)
				}
			}
			if len(blocks) == 0 {
				fmt.Println("court is free for the whole window")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&courtID, "court", 0, "court id")
	cmd.Flags().StringVar(&from, "from", "", "window start in RFC3339 (default now)")
	cmd.Flags().IntVar(&hours, "hours", 12, "window length in hours")
	_ = cmd.MarkFlagRequired("court")
	return cmd
}
