package main

import (
	"github.com/spf13/cobra"

	"github.com/couchcryptid/swiss-weather-today/internal/domain"
)

func newPlacesCmd(a *app) *cobra.Command {
	var query string
	var limit int

	cmd := &cobra.Command{
		Use:     "places",
		Short:   "List or search the swisstopo place directory",
		Example: "  weather places --query 80\n  weather places --query zür",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				places []domain.Place
				err    error
			)
			if query != "" {
				places, err = a.service.SearchPlaces(cmd.Context(), query)
			} else {
				places, err = a.service.LoadPlaces(cmd.Context())
			}
			if err != nil {
				return err
			}
			if limit > 0 && len(places) > limit {
				places = places[:limit]
			}
			if places == nil {
				places = []domain.Place{}
			}
			return writeJSON(cmd.OutOrStdout(), places)
		},
	}
	cmd.Flags().StringVar(&query, "query", "", "postal-code prefix (digits) or place-name prefix")
	cmd.Flags().IntVar(&limit, "limit", 0, "print at most this many places (0 = all)")
	return cmd
}
