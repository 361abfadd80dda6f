package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/swiss-weather-today/internal/domain"
)

type todayOutput struct {
	Station   string           `json:"station"`
	Reference string           `json:"reference"`
	Window    windowOutput     `json:"window"`
	Current   *domain.Reading  `json:"current"`
	Hourly    []domain.Reading `json:"hourly"`
	Published bool             `json:"published"`
}

type windowOutput struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func newTodayCmd(a *app) *cobra.Command {
	var stationFlag string
	var publish bool

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Print today's latest ten-minute reading and hourly series",
		Example: `  weather today
  weather today --station ber
  weather today --station goe:GOE --publish`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			station := a.service.DefaultStation()
			if stationFlag != "" {
				var err error
				if station, err = parseStationFlag(stationFlag); err != nil {
					return err
				}
			}

			var (
				weather domain.TodayWeather
				err     error
			)
			if publish {
				weather, err = a.service.PublishTodayWeather(cmd.Context(), station)
			} else {
				weather, err = a.service.LoadTodayWeather(cmd.Context(), station)
			}
			if err != nil {
				return err
			}

			ref := weather.Reference
			w := a.calendar.Window(ref)
			hourly := weather.Hourly
			if hourly == nil {
				hourly = []domain.Reading{}
			}
			return writeJSON(cmd.OutOrStdout(), todayOutput{
				Station:   station.Abbreviation(),
				Reference: ref.UTC().Format(isoMillis),
				Window:    windowOutput{Start: w.Start.Format(isoMillis), End: w.End.Format(isoMillis)},
				Current:   weather.Current,
				Hourly:    hourly,
				Published: publish,
			})
		},
	}
	cmd.Flags().StringVar(&stationFlag, "station", "", "station as token:ABBR or ABBR (default from DEFAULT_STATION_*)")
	cmd.Flags().BoolVar(&publish, "publish", false, "publish the snapshot to Kafka (requires KAFKA_BROKERS)")
	return cmd
}

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// parseStationFlag accepts "goe:GOE" or a bare abbreviation, whose token is
// its lower-case form.
func parseStationFlag(s string) (domain.Station, error) {
	token, abbr, found := strings.Cut(s, ":")
	if !found {
		abbr = token
		token = strings.ToLower(strings.TrimSpace(token))
	}
	st, err := domain.NewStation(token, abbr)
	if err != nil {
		return domain.Station{}, fmt.Errorf("--station %q: %w", s, err)
	}
	return st, nil
}
