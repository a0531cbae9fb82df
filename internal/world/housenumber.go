package world

import "strconv"

// Housenumber is a tagged variant: a clean decimal house number is
// stored inline as a uint16, everything else is an index into the root
// housenumbers table.
type Housenumber struct {
	clean   uint16
	index   uint32
	isClean bool
}

// CleanHousenumber constructs the CleanInt(n) variant.
func CleanHousenumber(n uint16) Housenumber {
	return Housenumber{clean: n, isClean: true}
}

// IndexedHousenumber constructs the Index(i) variant.
func IndexedHousenumber(i uint32) Housenumber {
	return Housenumber{index: i, isClean: false}
}

// IsClean reports whether this is the CleanInt variant.
func (h Housenumber) IsClean() bool { return h.isClean }

// CleanValue returns the backing uint16 for a CleanInt variant. Only
// meaningful when IsClean() is true.
func (h Housenumber) CleanValue() uint16 { return h.clean }

// Index returns the backing root-table index for an Index variant. Only
// meaningful when IsClean() is false.
func (h Housenumber) Index() uint32 { return h.index }

// Render produces the string form of a house number given the root
// housenumbers table it may index into.
func (h Housenumber) Render(root *SortedTable[string]) string {
	if h.isClean {
		return strconv.FormatUint(uint64(h.clean), 10)
	}
	return root.At(int(h.index))
}

// IsCleanDecimal reports whether s is the canonical decimal rendering of
// a uint16: no leading zero (except the literal "0"), no sign, no
// suffix, and round-trips exactly. "01" is not clean (leading zero),
// "0" is clean, "65535" is clean, "65536" is not (overflow), "12a" is
// not (suffix).
func IsCleanDecimal(s string) (uint16, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, false
	}
	if strconv.FormatUint(n, 10) != s {
		return 0, false
	}
	return uint16(n), true
}
