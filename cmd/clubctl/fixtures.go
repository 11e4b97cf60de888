package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Dosada05/club-system/models"
	"github.com/spf13/cobra"
)

func fixturesCmd() *cobra.Command {
	var competitionID int

	cmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Regenerate the round-robin schedule for a competition",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			generated, err := a.competitions.GenerateFixtures(cmd.Context(), models.RoleAdmin, competitionID)
			if err != nil {
				return err
			}

			if outputJSON {
				return json.NewEncoder(os.Stdout).Encode(generated)
			}
			for _, fixture := range generated {
				fmt.Printf("round %d: team %d vs team %d\n", fixture.Round, fixture.Team1ID, fixture.Team2ID)
			}
			fmt.Printf("%d fixtures generated\n", len(generated))
			return nil
		},
	}

	cmd.Flags().IntVar(&competitionID, "competition", 0, "competition id")
	_ = cmd.MarkFlagRequired("competition")
	return cmd
}

func standingsCmd() *cobra.Command {
	var competitionID int

	cmd := &cobra.Command{
		Use:   "standings",
		Short: "Print the competition table",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			teams, err := a.competitions.Standings(cmd.Context(), competitionID)
			if err != nil {
				return err
			}

			if outputJSON {
				return json.NewEncoder(os.Stdout).Encode(teams)
			}
			for rank, team := range teams {
				fmt.Printf("%2d. team %d  pts %d  played %d  won %d  lost %d  sets %d-%d\n",
					rank+1, team.ID, team.Stats.Points, team.Stats.Played,
					team.Stats.Won, team.Stats.Lost, team.Stats.SetsFor, team.Stats.SetsAgainst)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&competitionID, "competition", 0, "competition id")
	_ = cmd.MarkFlagRequired("competition")
	return cmd
}

func exportCmd() *cobra.Command {
	var competitionID int

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Upload the competition schedule as a JSON snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			location, err := a.competitions.ExportSchedule(cmd.Context(), competitionID)
			if err != nil {
				return err
			}
			fmt.Println(location)
			return nil
		},
	}

	cmd.Flags().IntVar(&competitionID, "competition", 0, "competition id")
	_ = cmd.MarkFlagRequired("competition")
	return cmd
}
