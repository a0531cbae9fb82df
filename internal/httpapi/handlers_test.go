package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"addrindex/internal/addrline"
	"addrindex/internal/query"
	"addrindex/internal/world"
)

func strp(s string) *string { return &s }

func testServer(t *testing.T) *Server {
	t.Helper()
	records := []addrline.Record{
		{Country: strp("DE"), City: strp("Berlin"), Postcode: strp("10115"), Street: "Invalidenstr.", Housenumber: "117"},
		{Country: strp("DE"), City: strp("Berlin"), Postcode: strp("10115"), Street: "Invalidenstr.", Housenumber: "118"},
	}
	w, _, err := world.Build(records, world.BuildOptions{})
	require.NoError(t, err)
	return New(query.New(w))
}

func TestHandleCitiesSuccess(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/cities?country_code=DE", nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"Berlin"}, body)
}

func TestHandleStreetsNotFound(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/streets?country_code=XX&city_name=Nowhere&zip=00000", nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Country/city/zip not found", rec.Body.String())
}

func TestHandleHousenumbersMaxItemsHeader(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/housenumbers?country_code=DE&city_name=Berlin&zip=10115&street=Invalidenstr.", nil)
	req.Header.Set("max-items", "1")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body, 1)
}

func TestHandleHousenumbersMalformedMaxItemsIsUnbounded(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/housenumbers?country_code=DE&city_name=Berlin&zip=10115&street=Invalidenstr.", nil)
	req.Header.Set("max-items", "not-a-number")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body, 2)
}

func TestHandleHealth(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
