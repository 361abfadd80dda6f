package civilday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339Nano, s)
	require.NoError(t, err)
	return v
}

type stamped struct {
	at   time.Time
	name string
}

func (s stamped) Instant() time.Time { return s.at }

func TestWindow_Winter(t *testing.T) {
	cal := Zurich()
	ref := mustParse(t, "2026-01-11T14:00:00Z")

	assert.Equal(t, "2026-01-10T23:00:00.000Z", cal.TodayStart(ref).Format(isoMillis))
	assert.Equal(t, "2026-01-11T22:59:59.999Z", cal.TodayEnd(ref).Format(isoMillis))
}

func TestWindow_Summer(t *testing.T) {
	cal := Zurich()
	ref := mustParse(t, "2026-07-15T14:00:00Z")

	assert.Equal(t, "2026-07-14T22:00:00.000Z", cal.TodayStart(ref).Format(isoMillis))
	assert.Equal(t, "2026-07-15T21:59:59.999Z", cal.TodayEnd(ref).Format(isoMillis))
}

func TestWindow_DaylightSavingTransitions(t *testing.T) {
	cal := Zurich()

	// 29 March 2026: clocks go forward at 02:00, the day has 23 hours.
	spring := cal.Window(mustParse(t, "2026-03-29T12:00:00Z"))
	assert.Equal(t, "2026-03-28T23:00:00.000Z", spring.Start.Format(isoMillis))
	assert.Equal(t, "2026-03-29T21:59:59.999Z", spring.End.Format(isoMillis))

	// 25 October 2026: clocks go back at 03:00, the day has 25 hours.
	autumn := cal.Window(mustParse(t, "2026-10-25T12:00:00Z"))
	assert.Equal(t, "2026-10-24T22:00:00.000Z", autumn.Start.Format(isoMillis))
	assert.Equal(t, "2026-10-25T22:59:59.999Z", autumn.End.Format(isoMillis))
}

func TestWindow_ReferenceNearMidnight(t *testing.T) {
	cal := Zurich()

	// 23:30 UTC on 10 January is already 00:30 on 11 January in Zurich.
	w := cal.Window(mustParse(t, "2026-01-10T23:30:00Z"))
	assert.Equal(t, "2026-01-10T23:00:00.000Z", w.Start.Format(isoMillis))
}

func TestIsToday(t *testing.T) {
	cal := Zurich()
	ref := mustParse(t, "2026-01-11T14:00:00Z")

	tests := []struct {
		name    string
		instant string
		want    bool
	}{
		{"morning", "2026-01-11T10:00:00Z", true},
		{"yesterday", "2026-01-10T10:00:00Z", false},
		{"start bound", "2026-01-10T23:00:00Z", true},
		{"just before start", "2026-01-10T22:59:59.999Z", false},
		{"end bound", "2026-01-11T22:59:59.999Z", true},
		{"just before local midnight", "2026-01-11T22:59:00Z", true},
		{"just after local midnight", "2026-01-11T23:01:00Z", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cal.IsToday(mustParse(t, tt.instant), ref))
		})
	}
}

func TestFilterToday(t *testing.T) {
	cal := Zurich()
	ref := mustParse(t, "2026-01-11T14:00:00Z")

	items := []stamped{
		{mustParse(t, "2026-01-11T13:20:00Z"), "today"},
		{mustParse(t, "2026-01-10T13:20:00Z"), "yesterday"},
		{mustParse(t, "2026-01-11T09:00:00Z"), "today early"},
		{mustParse(t, "2026-01-12T09:00:00Z"), "tomorrow"},
	}

	got := FilterToday(cal, items, ref)
	require.Len(t, got, 2)
	assert.Equal(t, "today", got[0].name)
	assert.Equal(t, "today early", got[1].name)

	w := cal.Window(ref)
	for _, it := range got {
		assert.True(t, w.Contains(it.Instant()))
	}

	assert.Equal(t, got, FilterToday(cal, got, ref), "filtering twice changes nothing")
}

func TestFilterToday_NoneMatch(t *testing.T) {
	cal := Zurich()
	items := []stamped{{mustParse(t, "2026-01-11T13:20:00Z"), "a"}}

	assert.Empty(t, FilterToday(cal, items, mustParse(t, "2026-01-12T14:00:00Z")))
}

func TestLoad(t *testing.T) {
	cal, err := Load("UTC")
	require.NoError(t, err)
	w := cal.Window(mustParse(t, "2026-01-11T14:00:00Z"))
	assert.Equal(t, "2026-01-11T00:00:00.000Z", w.Start.Format(isoMillis))

	_, err = Load("Mars/Olympus_Mons")
	require.Error(t, err)
}

func TestZurichHelpers(t *testing.T) {
	ref := mustParse(t, "2026-01-11T14:00:00Z")
	assert.Equal(t, Zurich().TodayStart(ref), ZurichTodayStart(ref))
	assert.Equal(t, Zurich().TodayEnd(ref), ZurichTodayEnd(ref))
}
