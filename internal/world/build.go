package world

import (
	"fmt"

	"addrindex/internal/addrline"
)

// BuildOptions controls the compaction stage.
type BuildOptions struct {
	// Autofix enables the resolver pass for records missing country
	// and/or city. Off by default: an incomplete record is simply
	// dropped.
	Autofix bool
	// Progress, when non-nil, is called after each major phase with a
	// human-readable status line.
	Progress func(string)
}

func (o BuildOptions) report(msg string) {
	if o.Progress != nil {
		o.Progress(msg)
	}
}

// Stats summarizes one Build invocation for the compress command's
// final report.
type Stats struct {
	Complete     int
	Incomplete   int
	Fixed        int
	Unfixable    int
	Streets      int
	Housenumbers int
}

// Build compacts a stream of address records into a World. Records are
// split up front into complete ones (all five fields present) and
// incomplete ones. When autofix is enabled, incomplete records are
// resolved against a scratch catalog built from the complete records
// alone; the scratch catalog is discarded once resolution is done. The
// root interning tables are then built exactly once, over the full
// resolved record set (complete plus whatever autofix rescued), and a
// single insertion pass inserts every record against those final
// tables — so no Street.ID or Housenumber.index is ever computed
// against a table that later gets rebuilt out from under it.
func Build(records []addrline.Record, opts BuildOptions) (*World, Stats, error) {
	var complete, incomplete []addrline.Record
	for _, r := range records {
		r.Country = normalizeCountryField(r.Country)
		if r.Country != nil && r.City != nil && r.Postcode != nil {
			complete = append(complete, r)
		} else {
			incomplete = append(incomplete, r)
		}
	}

	stats := Stats{Complete: len(complete), Incomplete: len(incomplete)}

	var fixed, unfixable []addrline.Record
	if opts.Autofix {
		opts.report(fmt.Sprintf("autofixing %d incomplete records", len(incomplete)))

		scratchStreets, scratchHousenumbers := internTables(complete)
		scratch := newWorld(scratchStreets, scratchHousenumbers)
		for _, r := range complete {
			if err := insertComplete(scratch, r); err != nil {
				return nil, stats, err
			}
		}
		fixed, unfixable = Autofix(scratch, incomplete)
	} else {
		unfixable = incomplete
	}
	stats.Fixed = len(fixed)
	stats.Unfixable = len(unfixable)

	all := make([]addrline.Record, 0, len(complete)+len(fixed))
	all = append(all, complete...)
	all = append(all, fixed...)

	streets, housenumbers := internTables(all)
	w := newWorld(streets, housenumbers)
	for _, r := range all {
		if err := insertComplete(w, r); err != nil {
			return nil, stats, err
		}
	}

	w.sortAll()
	stats.Streets = w.Streets.Len()
	stats.Housenumbers = w.Housenumbers.Len()
	opts.report("build complete")
	return w, stats, nil
}

func normalizeCountryField(c *string) *string {
	if c == nil {
		return nil
	}
	normalized := NormalizeCountryCode(*c)
	return &normalized
}

// internTables builds the root streets/house-numbers tables from a set
// of records: every street name is interned, but a house number is
// interned only when it is not a CleanInt candidate.
func internTables(records []addrline.Record) (*SortedTable[string], *SortedTable[string]) {
	var streetNames, hnNames []string
	for _, r := range records {
		streetNames = append(streetNames, r.Street)
		if _, ok := IsCleanDecimal(r.Housenumber); !ok {
			hnNames = append(hnNames, r.Housenumber)
		}
	}
	return NewSortedTable(streetNames, stringLess), NewSortedTable(hnNames, stringLess)
}

// insertComplete resolves a fully-populated record's street and house
// number against the root tables and inserts it into the hierarchy.
func insertComplete(w *World, r addrline.Record) error {
	streetID, ok := w.Streets.IndexOf(r.Street)
	if !ok {
		return fmt.Errorf("street %q missing from interned table", r.Street)
	}

	var hn Housenumber
	if clean, ok := IsCleanDecimal(r.Housenumber); ok {
		hn = CleanHousenumber(clean)
	} else {
		idx, ok := w.Housenumbers.IndexOf(r.Housenumber)
		if !ok {
			return fmt.Errorf("housenumber %q missing from interned table", r.Housenumber)
		}
		hn = IndexedHousenumber(uint32(idx))
	}

	w.insert(*r.Country, *r.City, *r.Postcode, uint32(streetID), hn)
	return nil
}
