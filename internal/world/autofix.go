package world

import (
	"github.com/rs/zerolog/log"

	"addrindex/internal/addrline"
)

// findCountryByCityZip looks for a unique country that has a city
// named cityName, optionally narrowed to one holding the given
// postcode. Ambiguous or absent matches both resolve to ("", false);
// the ambiguous case is logged at debug level, not reported as an
// error.
func findCountryByCityZip(w *World, cityName string, zip *string) (string, bool) {
	var candidates []string
	for i := range w.Countries {
		country := &w.Countries[i]
		city := country.findCity(cityName)
		if city == nil {
			continue
		}
		if zip != nil && city.findArea(*zip) == nil {
			continue
		}
		candidates = append(candidates, country.Code)
	}
	switch len(candidates) {
	case 0:
		return "", false
	case 1:
		return candidates[0], true
	default:
		log.Debug().Str("city", cityName).Int("candidates", len(candidates)).
			Msg("ambiguous country resolution for city/zip")
		return "", false
	}
}

// findCityByCountryZip looks for a unique city holding the given
// postcode, optionally narrowed to one country.
func findCityByCountryZip(w *World, countryCode *string, zip string) (string, bool) {
	var candidates []string
	for i := range w.Countries {
		country := &w.Countries[i]
		if countryCode != nil && country.Code != *countryCode {
			continue
		}
		for j := range country.Cities {
			city := &country.Cities[j]
			if city.findArea(zip) != nil {
				candidates = append(candidates, city.Name)
			}
		}
	}
	switch len(candidates) {
	case 0:
		return "", false
	case 1:
		return candidates[0], true
	default:
		log.Debug().Str("zip", zip).Int("candidates", len(candidates)).
			Msg("ambiguous city resolution for country/zip")
		return "", false
	}
}

// Autofix resolves records missing country and/or city against the
// already-built World, re-deriving a missing field from whichever of
// the other two is present. A resolved field is re-queued so a record
// missing both country and city can still resolve in two steps: first
// city from postcode alone, then country from the now-known city and
// postcode. A record missing postcode alone, or missing a field with no
// sibling to anchor a lookup on, has no resolution strategy and is
// dropped. Returns the records that became fully resolved (ready for
// insertion) and those that remain unfixable.
func Autofix(w *World, incomplete []addrline.Record) (fixed []addrline.Record, unfixable []addrline.Record) {
	stack := append([]addrline.Record(nil), incomplete...)
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch {
		case r.Country != nil && r.City != nil && r.Postcode != nil:
			fixed = append(fixed, r)

		case r.Country == nil && r.City != nil:
			if code, ok := findCountryByCityZip(w, *r.City, r.Postcode); ok {
				r.Country = &code
				stack = append(stack, r)
			} else {
				unfixable = append(unfixable, r)
			}

		case r.City == nil && r.Postcode != nil:
			if name, ok := findCityByCountryZip(w, r.Country, *r.Postcode); ok {
				r.City = &name
				stack = append(stack, r)
			} else {
				unfixable = append(unfixable, r)
			}

		default:
			// Postcode missing with country and city both present (or
			// any other unreachable combination): no resolution
			// strategy exists, so the record is dropped silently.
			unfixable = append(unfixable, r)
		}
	}
	return fixed, unfixable
}
