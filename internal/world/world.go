package world

import "strings"

// Street holds every house number recorded under one street name within
// a PostalArea.
type Street struct {
	ID           uint32
	Housenumbers []Housenumber
}

// PostalArea groups streets sharing one postcode within a City.
type PostalArea struct {
	Code    string
	Streets []Street
}

// City groups postal areas sharing one name within a Country.
type City struct {
	Name  string
	Areas []PostalArea
}

// Country groups cities sharing one ISO-3166 alpha-2 code.
type Country struct {
	Code   string
	Cities []City
}

// World is the compacted, hierarchical address index. Streets and
// Housenumbers are the root interning tables; Countries is the nested,
// sorted container tree. Post-build it is never mutated again and is
// safe to share across concurrently-serving goroutines.
type World struct {
	Streets      *SortedTable[string]
	Housenumbers *SortedTable[string]
	Countries    []Country
}

// asciiLower lowercases ASCII letters only, leaving everything else
// untouched. This is the case-folding rule the index uses for
// parent-segment lookup and ordering; non-ASCII letters are left exactly
// as written, so e.g. "Ä" and "ä" are distinct keys. Prefix matching
// (HasPrefixFold) folds with strings.ToLower instead.
func asciiLower(s string) string {
	b := []byte(s)
	changed := false
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
			changed = true
		}
	}
	if !changed {
		return s
	}
	return string(b)
}

func asciiEqualFold(a, b string) bool {
	return asciiLower(a) == asciiLower(b)
}

func asciiHasPrefixFold(s, prefix string) bool {
	return strings.HasPrefix(asciiLower(s), asciiLower(prefix))
}

// HasPrefixFold reports whether s starts with prefix once both are
// lowercased with strings.ToLower, so non-ASCII letters fold too: the
// prefix "kÖN" matches "Königstraße". Parent-segment lookups and
// ordering keep the ASCII-only fold.
func HasPrefixFold(s, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(s), strings.ToLower(prefix))
}

// EqualFold reports whether a and b are equal under the same ASCII
// case-insensitive comparison used for every parent-segment lookup.
func EqualFold(a, b string) bool {
	return asciiEqualFold(a, b)
}

// foldLess orders by ASCII-folded key, breaking ties by the exact
// (non-folded) string so two spellings that fold to the same key still
// have a well-defined, stable order.
func foldLess(a, b string) bool {
	la, lb := asciiLower(a), asciiLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}

// newWorld constructs an empty World around already-interned root
// tables.
func newWorld(streets, housenumbers *SortedTable[string]) *World {
	return &World{Streets: streets, Housenumbers: housenumbers}
}

// findCountry looks up a country container by code, case-insensitively
// — the same fold applied at query time, so two differently-cased
// spellings of one country collapse into a single container.
func (w *World) findCountry(code string) *Country {
	for i := range w.Countries {
		if asciiEqualFold(w.Countries[i].Code, code) {
			return &w.Countries[i]
		}
	}
	return nil
}

func (c *City) findArea(code string) *PostalArea {
	for i := range c.Areas {
		if asciiEqualFold(c.Areas[i].Code, code) {
			return &c.Areas[i]
		}
	}
	return nil
}

func (co *Country) findCity(name string) *City {
	for i := range co.Cities {
		if asciiEqualFold(co.Cities[i].Name, name) {
			return &co.Cities[i]
		}
	}
	return nil
}

func (a *PostalArea) findStreet(id uint32) *Street {
	for i := range a.Streets {
		if a.Streets[i].ID == id {
			return &a.Streets[i]
		}
	}
	return nil
}

// insert places one (country, city, postcode, street, housenumber)
// tuple into the tree, creating any missing intermediate container.
// Duplicate house numbers at the leaf are coalesced by a set-insert.
func (w *World) insert(countryCode, cityName, postcode string, streetID uint32, hn Housenumber) {
	country := w.findCountry(countryCode)
	if country == nil {
		w.Countries = append(w.Countries, Country{Code: countryCode})
		country = &w.Countries[len(w.Countries)-1]
	}

	city := country.findCity(cityName)
	if city == nil {
		country.Cities = append(country.Cities, City{Name: cityName})
		city = &country.Cities[len(country.Cities)-1]
	}

	area := city.findArea(postcode)
	if area == nil {
		city.Areas = append(city.Areas, PostalArea{Code: postcode})
		area = &city.Areas[len(city.Areas)-1]
	}

	street := area.findStreet(streetID)
	if street == nil {
		area.Streets = append(area.Streets, Street{ID: streetID})
		street = &area.Streets[len(area.Streets)-1]
	}

	for _, existing := range street.Housenumbers {
		if existing == hn {
			return
		}
	}
	street.Housenumbers = append(street.Housenumbers, hn)
}

// sortAll rewrites every level of the tree in its canonical order:
// countries by code, cities by name, postal areas by code, streets by
// street-id, house numbers by rendered lexicographic form.
func (w *World) sortAll() {
	sortSlice(w.Countries, func(a, b Country) bool { return foldLess(a.Code, b.Code) })
	for ci := range w.Countries {
		country := &w.Countries[ci]
		sortSlice(country.Cities, func(a, b City) bool { return foldLess(a.Name, b.Name) })
		for cj := range country.Cities {
			city := &country.Cities[cj]
			sortSlice(city.Areas, func(a, b PostalArea) bool { return foldLess(a.Code, b.Code) })
			for aj := range city.Areas {
				area := &city.Areas[aj]
				sortByUint(area.Streets, func(s Street) uint32 { return s.ID })
				for sj := range area.Streets {
					street := &area.Streets[sj]
					w.sortHousenumbers(street.Housenumbers)
				}
			}
		}
	}
}

// FindCountry looks up a country by code, case-insensitively.
func (w *World) FindCountry(code string) (*Country, bool) {
	c := w.findCountry(code)
	return c, c != nil
}

// FindCity looks up a city within co by name, case-insensitively.
func (co *Country) FindCity(name string) (*City, bool) {
	c := co.findCity(name)
	return c, c != nil
}

// FindArea looks up a postal area within c by code, case-insensitively.
func (c *City) FindArea(code string) (*PostalArea, bool) {
	a := c.findArea(code)
	return a, a != nil
}

// StreetName renders a street's interned name against the root table.
func (w *World) StreetName(id uint32) string {
	return w.Streets.At(int(id))
}

func (w *World) sortHousenumbers(hns []Housenumber) {
	sortSlice(hns, func(a, b Housenumber) bool {
		return foldLess(a.Render(w.Housenumbers), b.Render(w.Housenumbers))
	})
}
