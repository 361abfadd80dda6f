package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/swiss-weather-today/internal/adapter/meteoswiss"
	"github.com/couchcryptid/swiss-weather-today/internal/civilday"
	"github.com/couchcryptid/swiss-weather-today/internal/domain"
	"github.com/couchcryptid/swiss-weather-today/internal/tabular"
)

type checkOutput struct {
	File     string `json:"file"`
	Kind     string `json:"kind"`
	Station  string `json:"station"`
	Readings int    `json:"readings"`
	Today    int    `json:"today"`
	First    string `json:"first,omitempty"`
	Last     string `json:"last,omitempty"`
}

func newCheckCmd(a *app) *cobra.Command {
	var kind, station string

	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Validate a downloaded feed file against the column contract",
		Long: `check decodes a local ten-minute or hourly feed file, verifies the
required columns and station identity, and maps every row into a reading.
It exits non-zero on the first problem.`,
		Example: "  weather check --kind hourly --station GOE ogd-smn_goe_h_now.csv",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k := domain.ReadingKind(kind)
			if k != domain.KindTenMinute && k != domain.KindHourly {
				return fmt.Errorf("--kind must be %s or %s", domain.KindTenMinute, domain.KindHourly)
			}

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read feed file: %w", err)
			}
			text, err := tabular.DecodeText(raw)
			if err != nil {
				return err
			}
			readings, err := meteoswiss.ParseFeed(text, k, station)
			if err != nil {
				return err
			}

			out := checkOutput{
				File:     args[0],
				Kind:     kind,
				Station:  station,
				Readings: len(readings),
				Today:    len(civilday.FilterToday(a.calendar, readings, a.clock.Now())),
			}
			if len(readings) > 0 {
				first, last := readings[0].Timestamp(), readings[0].Timestamp()
				for _, r := range readings[1:] {
					if r.Timestamp().Before(first) {
						first = r.Timestamp()
					}
					if last.Before(r.Timestamp()) {
						last = r.Timestamp()
					}
				}
				out.First, out.Last = first.String(), last.String()
			}
			a.logger.Info("feed file is valid", "file", args[0], "readings", out.Readings)
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", string(domain.KindTenMinute), "feed kind: ten-minute or hourly")
	cmd.Flags().StringVar(&station, "station", "GOE", "expected station abbreviation")
	return cmd
}
