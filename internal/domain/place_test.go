package domain

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlace(t *testing.T) {
	p, err := NewPlace(" 8001 ", " Zürich ", 2683000, 1247000)
	require.NoError(t, err)
	assert.Equal(t, Place{PostalCode: "8001", Name: "Zürich", East: 2683000, North: 1247000}, p)
}

func TestNewPlace_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		plz     string
		place   string
		e, n    float64
		message string
	}{
		{"missing plz", "", "Bern", 1, 2, "PLZ4"},
		{"missing name", "3000", "", 1, 2, "Ortschaftsname"},
		{"NaN east", "3000", "Bern", math.NaN(), 2, "E must"},
		{"Inf north", "3000", "Bern", 1, math.Inf(-1), "N must"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPlace(tt.plz, tt.place, tt.e, tt.n)
			require.Error(t, err)
			assert.True(t, IsKind(err, KindInvalidValue))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestSearchPlaces(t *testing.T) {
	places := []Place{
		{PostalCode: "8001", Name: "Zürich"},
		{PostalCode: "8002", Name: "Zürich"},
		{PostalCode: "8001", Name: "Zürich"},
		{PostalCode: "3000", Name: "Bern"},
		{PostalCode: "3097", Name: "Liebefeld"},
		{PostalCode: "8400", Name: "Winterthur"},
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"", nil},
		{"   ", nil},
		{"80", []string{"8001 Zürich", "8002 Zürich"}},
		{"zür", []string{"8001 Zürich", "8002 Zürich"}},
		{"  BERN ", []string{"3000 Bern"}},
		{"3", []string{"3000 Bern", "3097 Liebefeld"}},
		{"genf", nil},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.query), func(t *testing.T) {
			var got []string
			for _, p := range SearchPlaces(places, tt.query) {
				got = append(got, p.PostalCode+" "+p.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
