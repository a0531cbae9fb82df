// Package query implements the read-only prefix-completion engine
// served over a loaded world.World.
package query

import (
	"fmt"
	"strings"

	"addrindex/internal/world"
)

// NotFoundError reports that a lookup path bottomed out before reaching
// the level being listed. Chain names every segment this endpoint
// depends on, in order; Failed is the index within Chain of the first
// segment that did not resolve.
type NotFoundError struct {
	Chain  []string
	Failed int
}

func (e *NotFoundError) Error() string {
	remaining := append([]string(nil), e.Chain[e.Failed:]...)
	remaining[0] = strings.ToUpper(remaining[0][:1]) + remaining[0][1:]
	return fmt.Sprintf("%s not found", strings.Join(remaining, "/"))
}

var (
	citiesChain       = []string{"country"}
	zipsChain         = []string{"country", "city"}
	streetsChain      = []string{"country", "city", "zip"}
	housenumbersChain = []string{"country", "city", "zip", "street"}
)

// Engine answers prefix-completion queries against one immutable World.
// It holds no other state and is safe to share across goroutines.
type Engine struct {
	w *world.World
}

// New wraps w for querying.
func New(w *world.World) *Engine {
	return &Engine{w: w}
}

// applyLimit returns at most maxItems entries of results. A negative
// maxItems means unbounded. The result is never nil, so callers that
// serialize it to JSON always emit [] rather than null.
func applyLimit(results []string, maxItems int) []string {
	if results == nil {
		results = []string{}
	}
	if maxItems < 0 || maxItems >= len(results) {
		return results
	}
	return results[:maxItems]
}

// ListCities lists city names within countryCode matching prefix.
func (e *Engine) ListCities(countryCode, prefix string, maxItems int) ([]string, error) {
	country, ok := e.w.FindCountry(countryCode)
	if !ok {
		return nil, &NotFoundError{Chain: citiesChain, Failed: 0}
	}
	var out []string
	for _, city := range country.Cities {
		if world.HasPrefixFold(city.Name, prefix) {
			out = append(out, city.Name)
		}
	}
	return applyLimit(out, maxItems), nil
}

// ListZips lists postal-area codes within countryCode/city matching
// prefix.
func (e *Engine) ListZips(countryCode, cityName, prefix string, maxItems int) ([]string, error) {
	country, ok := e.w.FindCountry(countryCode)
	if !ok {
		return nil, &NotFoundError{Chain: zipsChain, Failed: 0}
	}
	city, ok := country.FindCity(cityName)
	if !ok {
		return nil, &NotFoundError{Chain: zipsChain, Failed: 1}
	}
	var out []string
	for _, area := range city.Areas {
		if world.HasPrefixFold(area.Code, prefix) {
			out = append(out, area.Code)
		}
	}
	return applyLimit(out, maxItems), nil
}

// ListStreets lists street names within countryCode/city/zip matching
// prefix.
func (e *Engine) ListStreets(countryCode, cityName, zip, prefix string, maxItems int) ([]string, error) {
	country, ok := e.w.FindCountry(countryCode)
	if !ok {
		return nil, &NotFoundError{Chain: streetsChain, Failed: 0}
	}
	city, ok := country.FindCity(cityName)
	if !ok {
		return nil, &NotFoundError{Chain: streetsChain, Failed: 1}
	}
	area, ok := city.FindArea(zip)
	if !ok {
		return nil, &NotFoundError{Chain: streetsChain, Failed: 2}
	}
	var out []string
	for _, street := range area.Streets {
		name := e.w.StreetName(street.ID)
		if world.HasPrefixFold(name, prefix) {
			out = append(out, name)
		}
	}
	return applyLimit(out, maxItems), nil
}

// ListHousenumbers lists rendered house numbers within
// countryCode/city/zip/street matching prefix.
func (e *Engine) ListHousenumbers(countryCode, cityName, zip, streetName, prefix string, maxItems int) ([]string, error) {
	country, ok := e.w.FindCountry(countryCode)
	if !ok {
		return nil, &NotFoundError{Chain: housenumbersChain, Failed: 0}
	}
	city, ok := country.FindCity(cityName)
	if !ok {
		return nil, &NotFoundError{Chain: housenumbersChain, Failed: 1}
	}
	area, ok := city.FindArea(zip)
	if !ok {
		return nil, &NotFoundError{Chain: housenumbersChain, Failed: 2}
	}
	var street *world.Street
	for i := range area.Streets {
		if world.EqualFold(e.w.StreetName(area.Streets[i].ID), streetName) {
			street = &area.Streets[i]
			break
		}
	}
	if street == nil {
		return nil, &NotFoundError{Chain: housenumbersChain, Failed: 3}
	}
	var out []string
	for _, hn := range street.Housenumbers {
		rendered := hn.Render(e.w.Housenumbers)
		if world.HasPrefixFold(rendered, prefix) {
			out = append(out, rendered)
		}
	}
	return applyLimit(out, maxItems), nil
}
