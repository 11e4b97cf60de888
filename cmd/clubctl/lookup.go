package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func courtsCmd() *cobra.Command {
	var clubID int

	cmd := &cobra.Command{
		Use:   "courts",
		Short: "List a club's courts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			courts, err := a.courts.ListByClub(cmd.Context(), nil, clubID)
			if err != nil {
				return err
			}

			if outputJSON {
				return json.NewEncoder(os.Stdout).Encode(courts)
			}
			for _, court := range courts {
				surface := "outdoor"
				if court.Indoor {
					surface = "indoor"
				}
				fmt.Printf("%3d  %-20s %s\n", court.ID, court.Name, surface)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&clubID, "club", 0, "club id")
	_ = cmd.MarkFlagRequired("club")
	return cmd
}

func ratingsCmd() *cobra.Command {
	var players string

	cmd := &cobra.Command{
		Use:   "ratings",
		Short: "Show current ratings for a set of players",
		RunE: func(cmd *cobra.Command, args []string) error {
			playerIDs := strings.Split(players, ",")
			for i := range playerIDs {
				playerIDs[i] = strings.TrimSpace(playerIDs[i])
			}

			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			ratings, err := a.ratings.ListByPlayerIDs(cmd.Context(), nil, playerIDs)
			if err != nil {
				return err
			}

			if outputJSON {
				return json.NewEncoder(os.Stdout).Encode(ratings)
			}
			for _, rating := range ratings {
				fmt.Printf("%-24s %5d  (%d games)\n", rating.PlayerID, rating.Rating, rating.GamesPlayed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&players, "players", "", "comma-separated player ids")
	_ = cmd.MarkFlagRequired("players")
	return cmd
}
