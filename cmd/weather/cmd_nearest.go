package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/swiss-weather-today/internal/domain"
)

type nearestOutput struct {
	Place    domain.Place             `json:"place"`
	Stations []domain.StationDistance `json:"stations"`
}

func newNearestCmd(a *app) *cobra.Command {
	var plz string
	var east, north float64

	cmd := &cobra.Command{
		Use:   "nearest",
		Short: "Rank stations by distance from a postal code or LV95 position",
		Example: `  weather nearest --plz 8001
  weather nearest --east 2600000 --north 1200000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				place  domain.Place
				ranked []domain.StationDistance
				err    error
			)
			switch {
			case plz != "":
				place, ranked, err = a.service.FindNearestToPostalCode(cmd.Context(), plz)
			case cmd.Flags().Changed("east") && cmd.Flags().Changed("north"):
				place, err = domain.NewPlace("-", "LV95 position", east, north)
				if err != nil {
					return err
				}
				ranked, err = a.service.FindNearestStations(cmd.Context(), place)
			default:
				return errors.New("either --plz or both --east and --north are required")
			}
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), nearestOutput{Place: place, Stations: ranked})
		},
	}
	cmd.Flags().StringVar(&plz, "plz", "", "four-digit Swiss postal code")
	cmd.Flags().Float64Var(&east, "east", 0, "LV95 easting in metres")
	cmd.Flags().Float64Var(&north, "north", 0, "LV95 northing in metres")
	cmd.MarkFlagsMutuallyExclusive("plz", "east")
	cmd.MarkFlagsMutuallyExclusive("plz", "north")
	return cmd
}
