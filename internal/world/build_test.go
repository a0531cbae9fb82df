package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"addrindex/internal/addrline"
)

func strp(s string) *string { return &s }

func completeRecord(country, city, postcode, street, hn string) addrline.Record {
	return addrline.Record{
		Country:     strp(country),
		City:        strp(city),
		Postcode:    strp(postcode),
		Street:      street,
		Housenumber: hn,
	}
}

func TestBuildMinimal(t *testing.T) {
	records := []addrline.Record{
		completeRecord("DE", "Berlin", "10115", "Chausseestraße", "42"),
		completeRecord("DE", "Berlin", "10115", "Chausseestraße", "43a"),
		completeRecord("DE", "Munich", "80331", "Marienplatz", "8"),
	}

	w, stats, err := Build(records, BuildOptions{})
	assert.NoError(t, err)
	assert.Equal(t, 3, stats.Complete)
	assert.Equal(t, 0, stats.Incomplete)
	assert.Len(t, w.Countries, 1)

	de := w.Countries[0]
	assert.Equal(t, "DE", de.Code)
	assert.Len(t, de.Cities, 2)
	assert.Equal(t, "Berlin", de.Cities[0].Name)
	assert.Equal(t, "Munich", de.Cities[1].Name)

	berlin := de.Cities[0]
	assert.Len(t, berlin.Areas, 1)
	assert.Equal(t, "10115", berlin.Areas[0].Code)
	assert.Len(t, berlin.Areas[0].Streets, 1)
	assert.Len(t, berlin.Areas[0].Streets[0].Housenumbers, 2)
}

func TestBuildWithoutAutofixDropsIncomplete(t *testing.T) {
	records := []addrline.Record{
		completeRecord("DE", "Berlin", "10115", "Chausseestraße", "42"),
		{City: strp("Berlin"), Street: "Torstraße", Housenumber: "1"},
	}

	w, stats, err := Build(records, BuildOptions{})
	assert.NoError(t, err)
	assert.Equal(t, 1, stats.Incomplete)
	assert.Equal(t, 1, stats.Unfixable)
	assert.Equal(t, 0, stats.Fixed)
	assert.Len(t, w.Countries, 1)
	assert.Len(t, w.Countries[0].Cities[0].Areas[0].Streets, 1)
}

func TestBuildAutofixResolvesCountryFromCity(t *testing.T) {
	// "Am Bahnhof" and "10a" are chosen to sort *before* the already-
	// complete record's street and house number ("Chausseestraße",
	// "43a"): if autofix's resolved records were ever inserted against
	// stale indices from a first interning pass that didn't include
	// them, the insertion shifts every already-interned entry down one
	// slot and the complete record would render the wrong strings.
	records := []addrline.Record{
		completeRecord("DE", "Berlin", "10115", "Chausseestraße", "43a"),
		{City: strp("Berlin"), Postcode: strp("10115"), Street: "Am Bahnhof", Housenumber: "10a"},
	}

	w, stats, err := Build(records, BuildOptions{Autofix: true})
	assert.NoError(t, err)
	assert.Equal(t, 1, stats.Fixed)
	assert.Equal(t, 0, stats.Unfixable)

	berlin := w.Countries[0].Cities[0]
	assert.Len(t, berlin.Areas[0].Streets, 2)

	for _, street := range berlin.Areas[0].Streets {
		name := w.StreetName(street.ID)
		require.Len(t, street.Housenumbers, 1)
		rendered := street.Housenumbers[0].Render(w.Housenumbers)
		switch name {
		case "Chausseestraße":
			assert.Equal(t, "43a", rendered)
		case "Am Bahnhof":
			assert.Equal(t, "10a", rendered)
		default:
			t.Fatalf("unexpected street %q", name)
		}
	}
}

func TestBuildAutofixAmbiguousStaysUnfixable(t *testing.T) {
	records := []addrline.Record{
		completeRecord("DE", "Springfield", "10115", "Main St", "1"),
		completeRecord("US", "Springfield", "62701", "Main St", "2"),
		{City: strp("Springfield"), Street: "Oak St", Housenumber: "3"},
	}

	w, stats, err := Build(records, BuildOptions{Autofix: true})
	assert.NoError(t, err)
	assert.Equal(t, 0, stats.Fixed)
	assert.Equal(t, 1, stats.Unfixable)
	assert.Len(t, w.Countries, 2)
}
