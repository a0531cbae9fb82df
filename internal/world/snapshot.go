package world

import (
	"fmt"
	"io"

	"github.com/ugorji/go/codec"
)

// snapshotVersion is bumped whenever the on-disk layout changes in a
// way that isn't forward compatible. Load rejects any other value
// with a corrupt-snapshot error instead of attempting to decode it.
const snapshotVersion = 1

// The shadow types below mirror World's public shape with every field
// exported, since SortedTable and Housenumber keep their backing
// fields private. Binc only sees these.

type sHousenumber struct {
	Clean   uint16 `codec:"clean"`
	Index   uint32 `codec:"index"`
	IsClean bool   `codec:"is_clean"`
}

type sStreet struct {
	ID           uint32         `codec:"id"`
	Housenumbers []sHousenumber `codec:"housenumbers"`
}

type sPostalArea struct {
	Code    string    `codec:"code"`
	Streets []sStreet `codec:"streets"`
}

type sCity struct {
	Name  string        `codec:"name"`
	Areas []sPostalArea `codec:"areas"`
}

type sCountry struct {
	Code   string  `codec:"code"`
	Cities []sCity `codec:"cities"`
}

type sWorld struct {
	Streets      []string   `codec:"streets"`
	Housenumbers []string   `codec:"housenumbers"`
	Countries    []sCountry `codec:"countries"`
}

func toShadowHousenumber(h Housenumber) sHousenumber {
	return sHousenumber{Clean: h.clean, Index: h.index, IsClean: h.isClean}
}

func fromShadowHousenumber(s sHousenumber) Housenumber {
	return Housenumber{clean: s.Clean, index: s.Index, isClean: s.IsClean}
}

func toShadowWorld(w *World) sWorld {
	out := sWorld{
		Streets:      append([]string(nil), w.Streets.Items()...),
		Housenumbers: append([]string(nil), w.Housenumbers.Items()...),
	}
	for _, country := range w.Countries {
		sc := sCountry{Code: country.Code}
		for _, city := range country.Cities {
			sci := sCity{Name: city.Name}
			for _, area := range city.Areas {
				sa := sPostalArea{Code: area.Code}
				for _, street := range area.Streets {
					ss := sStreet{ID: street.ID}
					for _, hn := range street.Housenumbers {
						ss.Housenumbers = append(ss.Housenumbers, toShadowHousenumber(hn))
					}
					sa.Streets = append(sa.Streets, ss)
				}
				sci.Areas = append(sci.Areas, sa)
			}
			sc.Cities = append(sc.Cities, sci)
		}
		out.Countries = append(out.Countries, sc)
	}
	return out
}

func stringLess(a, b string) bool { return a < b }

func fromShadowWorld(s sWorld) *World {
	w := newWorld(
		NewSortedTable(s.Streets, stringLess),
		NewSortedTable(s.Housenumbers, stringLess),
	)
	for _, sc := range s.Countries {
		country := Country{Code: sc.Code}
		for _, sci := range sc.Cities {
			city := City{Name: sci.Name}
			for _, sa := range sci.Areas {
				area := PostalArea{Code: sa.Code}
				for _, ss := range sa.Streets {
					street := Street{ID: ss.ID}
					for _, sh := range ss.Housenumbers {
						street.Housenumbers = append(street.Housenumbers, fromShadowHousenumber(sh))
					}
					area.Streets = append(area.Streets, street)
				}
				city.Areas = append(city.Areas, area)
			}
			country.Cities = append(country.Cities, city)
		}
		w.Countries = append(w.Countries, country)
	}
	return w
}

// Serialize writes a versioned Binc-encoded snapshot of w to out.
func Serialize(out io.Writer, w *World) error {
	if _, err := out.Write([]byte{snapshotVersion}); err != nil {
		return fmt.Errorf("write snapshot header: %w", err)
	}
	enc := codec.NewEncoder(out, new(codec.BincHandle))
	if err := enc.Encode(toShadowWorld(w)); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// Deserialize reads a snapshot produced by Serialize and rebuilds the
// World, validating the sort/dedup invariants along the way. A version
// mismatch or an invariant violation is reported as a corrupt-snapshot
// error rather than a partially-usable World.
func Deserialize(in io.Reader) (*World, error) {
	var header [1]byte
	if _, err := io.ReadFull(in, header[:]); err != nil {
		return nil, fmt.Errorf("snapshot corrupt: missing header: %w", err)
	}
	if header[0] != snapshotVersion {
		return nil, fmt.Errorf("snapshot corrupt: unsupported version %d", header[0])
	}

	var shadow sWorld
	dec := codec.NewDecoder(in, new(codec.BincHandle))
	if err := dec.Decode(&shadow); err != nil {
		return nil, fmt.Errorf("snapshot corrupt: decode: %w", err)
	}
	for _, table := range [][]string{shadow.Streets, shadow.Housenumbers} {
		for i := 1; i < len(table); i++ {
			if table[i-1] >= table[i] {
				return nil, fmt.Errorf("snapshot corrupt: root table not sorted or deduplicated")
			}
		}
	}

	w := fromShadowWorld(shadow)
	if err := validate(w); err != nil {
		return nil, fmt.Errorf("snapshot corrupt: %w", err)
	}
	return w, nil
}

// validate checks that every level of the tree is in strictly
// ascending order with no duplicate keys, and that every street ID and
// house-number index lies inside its root table: the shape Build always
// produces and that Deserialize must not silently accept a violation
// of.
func validate(w *World) error {
	if !strictlyAscending(w.Countries, func(c Country) string { return c.Code }) {
		return fmt.Errorf("countries not sorted or deduplicated")
	}
	for _, country := range w.Countries {
		if !strictlyAscending(country.Cities, func(c City) string { return c.Name }) {
			return fmt.Errorf("cities not sorted or deduplicated in country %q", country.Code)
		}
		for _, city := range country.Cities {
			if !strictlyAscending(city.Areas, func(a PostalArea) string { return a.Code }) {
				return fmt.Errorf("postal areas not sorted or deduplicated in city %q", city.Name)
			}
			for _, area := range city.Areas {
				if !strictlyAscendingUint(area.Streets, func(s Street) uint32 { return s.ID }) {
					return fmt.Errorf("streets not sorted or deduplicated in postal area %q", area.Code)
				}
				for _, street := range area.Streets {
					if int(street.ID) >= w.Streets.Len() {
						return fmt.Errorf("street index %d out of range in postal area %q", street.ID, area.Code)
					}
					for _, hn := range street.Housenumbers {
						if !hn.IsClean() && int(hn.Index()) >= w.Housenumbers.Len() {
							return fmt.Errorf("housenumber index %d out of range on street index %d", hn.Index(), street.ID)
						}
					}
					if !strictlyAscending(street.Housenumbers, func(h Housenumber) string { return h.Render(w.Housenumbers) }) {
						return fmt.Errorf("housenumbers not sorted or deduplicated on street index %d", street.ID)
					}
				}
			}
		}
	}
	return nil
}

func strictlyAscending[T any](s []T, key func(T) string) bool {
	for i := 1; i < len(s); i++ {
		if !foldLess(key(s[i-1]), key(s[i])) {
			return false
		}
	}
	return true
}

func strictlyAscendingUint[T any](s []T, key func(T) uint32) bool {
	for i := 1; i < len(s); i++ {
		if key(s[i-1]) >= key(s[i]) {
			return false
		}
	}
	return true
}
