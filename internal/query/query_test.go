package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"addrindex/internal/addrline"
	"addrindex/internal/world"
)

func strp(s string) *string { return &s }

func buildFixture(t *testing.T) *world.World {
	t.Helper()
	records := []addrline.Record{
		{Country: strp("DE"), City: strp("Berlin"), Postcode: strp("10115"), Street: "Invalidenstr.", Housenumber: "117"},
		{Country: strp("DE"), City: strp("Berlin"), Postcode: strp("10115"), Street: "Invalidenstr.", Housenumber: "118"},
		{Country: strp("DE"), City: strp("Berlin"), Postcode: strp("10115"), Street: "Invalidenstr.", Housenumber: "117a"},
		{Country: strp("DE"), City: strp("Berlin"), Postcode: strp("10115"), Street: "Königstraße", Housenumber: "1"},
		{Country: strp("DE"), City: strp("Munich"), Postcode: strp("80331"), Street: "Marienplatz", Housenumber: "1"},
	}
	w, _, err := world.Build(records, world.BuildOptions{})
	require.NoError(t, err)
	return w
}

func TestListCitiesCaseInsensitiveCountryAndPrefix(t *testing.T) {
	e := New(buildFixture(t))

	results, err := e.ListCities("de", "", -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Berlin", "Munich"}, results)

	results, err = e.ListCities("DE", "mun", -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Munich"}, results)
}

func TestListCitiesUnknownCountry(t *testing.T) {
	e := New(buildFixture(t))
	_, err := e.ListCities("XX", "", -1)
	require.Error(t, err)
	assert.Equal(t, "Country not found", err.Error())
}

func TestListStreetsUnknownChainNamesFullRemainder(t *testing.T) {
	e := New(buildFixture(t))
	_, err := e.ListStreets("XX", "Nowhere", "00000", "", -1)
	require.Error(t, err)
	assert.Equal(t, "Country/city/zip not found", err.Error())
}

func TestListStreetsUnknownZipNamesFromZip(t *testing.T) {
	e := New(buildFixture(t))
	_, err := e.ListStreets("DE", "Berlin", "99999", "", -1)
	require.Error(t, err)
	assert.Equal(t, "Zip not found", err.Error())
}

func TestListStreetsCaseInsensitivePrefix(t *testing.T) {
	e := New(buildFixture(t))
	results, err := e.ListStreets("DE", "berlin", "10115", "kÖN", -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Königstraße"}, results)
}

func TestListHousenumbersMaxItemsZero(t *testing.T) {
	e := New(buildFixture(t))
	results, err := e.ListHousenumbers("DE", "Berlin", "10115", "Invalidenstr.", "", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{}, results)
}

func TestListHousenumbersCaseInsensitiveStreet(t *testing.T) {
	e := New(buildFixture(t))
	results, err := e.ListHousenumbers("DE", "Berlin", "10115", "invalidenstr.", "", -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"117", "117a", "118"}, results)
}

func TestListHousenumbersUnknownStreet(t *testing.T) {
	e := New(buildFixture(t))
	_, err := e.ListHousenumbers("DE", "Berlin", "10115", "Nonexistent Ave", "", -1)
	require.Error(t, err)
	assert.Equal(t, "Street not found", err.Error())
}

func TestListHousenumbersSortedOrder(t *testing.T) {
	e := New(buildFixture(t))
	results, err := e.ListHousenumbers("DE", "Berlin", "10115", "Invalidenstr.", "", -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"117", "117a", "118"}, results)
}

func TestPrefixMonotonicity(t *testing.T) {
	e := New(buildFixture(t))
	all, err := e.ListHousenumbers("DE", "Berlin", "10115", "Invalidenstr.", "", -1)
	require.NoError(t, err)
	narrowed, err := e.ListHousenumbers("DE", "Berlin", "10115", "Invalidenstr.", "117", -1)
	require.NoError(t, err)
	for _, v := range narrowed {
		assert.Contains(t, all, v)
	}
}
