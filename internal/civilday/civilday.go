// Package civilday computes the UTC bounds of "today" as observed in a civil
// timezone, so that feeds stamped in UTC can be cut at local midnight.
package civilday

import (
	"fmt"
	"time"

	// Embedded zoneinfo keeps Europe/Zurich resolvable on hosts without tzdata.
	_ "time/tzdata"
)

// DefaultZone is the timezone MeteoSwiss users think of as "today".
const DefaultZone = "Europe/Zurich"

const lastMillisecond = 999 * time.Millisecond

// Window is an inclusive [Start, End] range of UTC instants.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies in the window, both bounds inclusive.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Calendar resolves civil days in one location.
type Calendar struct {
	loc *time.Location
}

// New returns a Calendar for loc.
func New(loc *time.Location) *Calendar {
	return &Calendar{loc: loc}
}

// Load returns a Calendar for the named IANA zone.
func Load(name string) (*Calendar, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return New(loc), nil
}

// Zurich is the calendar for DefaultZone.
func Zurich() *Calendar {
	loc, err := time.LoadLocation(DefaultZone)
	if err != nil {
		// time/tzdata is linked in, so this only fails on a broken build.
		panic(err)
	}
	return New(loc)
}

// Location returns the calendar's timezone.
func (c *Calendar) Location() *time.Location { return c.loc }

// Window returns local 00:00:00.000 through 23:59:59.999 of ref's local date,
// as UTC instants. The UTC offset is looked up for each bound separately, so
// days on which daylight saving starts or ends come out 23 or 25 hours long.
func (c *Calendar) Window(ref time.Time) Window {
	local := ref.In(c.loc)
	y, m, d := local.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, c.loc)
	end := time.Date(y, m, d, 23, 59, 59, int(lastMillisecond), c.loc)
	return Window{Start: start.UTC(), End: end.UTC()}
}

// TodayStart is Window(ref).Start.
func (c *Calendar) TodayStart(ref time.Time) time.Time { return c.Window(ref).Start }

// TodayEnd is Window(ref).End.
func (c *Calendar) TodayEnd(ref time.Time) time.Time { return c.Window(ref).End }

// IsToday reports whether instant falls on the same civil day as ref.
func (c *Calendar) IsToday(instant, ref time.Time) bool {
	return c.Window(ref).Contains(instant)
}

// Instanter is anything stamped with a UTC instant.
type Instanter interface {
	Instant() time.Time
}

// FilterToday keeps the items whose instant lies in ref's civil day, in
// input order.
func FilterToday[T Instanter](c *Calendar, items []T, ref time.Time) []T {
	w := c.Window(ref)
	out := make([]T, 0, len(items))
	for _, it := range items {
		if w.Contains(it.Instant()) {
			out = append(out, it)
		}
	}
	return out
}

// ZurichTodayStart returns the UTC instant of local midnight in Zurich on
// ref's Zurich date.
func ZurichTodayStart(ref time.Time) time.Time { return Zurich().TodayStart(ref) }

// ZurichTodayEnd returns the last millisecond of ref's Zurich date, in UTC.
func ZurichTodayEnd(ref time.Time) time.Time { return Zurich().TodayEnd(ref) }
