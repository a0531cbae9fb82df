// Package osmextract implements the PBF Address Extractor: a two-pass
// OSM-PBF reader that emits one address record per address-bearing
// node, way, or relation, resolving indirect geometry along the way.
package osmextract

import "github.com/paulmach/osm"

// incompleteAddress is the tag-derived payload of an address-bearing
// entity before its coordinate is known. Street and Housenumber are
// always present; the other three fields are carried through unchanged
// for the builder to normalize and, optionally, autofix.
type incompleteAddress struct {
	Country     *string
	City        *string
	Postcode    *string
	Street      string
	Housenumber string
}

// addressFromTags extracts an incompleteAddress from a tag set, or nil
// if the entity is not address-bearing (missing street or
// housenumber).
func addressFromTags(tags osm.Tags) *incompleteAddress {
	if !tags.HasTag("addr:street") || !tags.HasTag("addr:housenumber") {
		return nil
	}
	a := &incompleteAddress{
		Street:      tags.Find("addr:street"),
		Housenumber: tags.Find("addr:housenumber"),
	}
	if tags.HasTag("addr:country") {
		v := tags.Find("addr:country")
		a.Country = &v
	}
	if tags.HasTag("addr:city") {
		v := tags.Find("addr:city")
		a.City = &v
	}
	if tags.HasTag("addr:postcode") {
		v := tags.Find("addr:postcode")
		a.Postcode = &v
	}
	return a
}
