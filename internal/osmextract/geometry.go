package osmextract

// coord is a resolved decimicrodegree position.
type coord struct {
	Long int32
	Lat  int32
}

// avgCoords computes the arithmetic mean of a set of coordinates,
// truncating toward zero in each dimension independently. Accumulates
// in 64 bits to avoid overflow; ok is false if points is empty.
func avgCoords(points []coord) (coord, bool) {
	if len(points) == 0 {
		return coord{}, false
	}
	var sumLong, sumLat int64
	for _, p := range points {
		sumLong += int64(p.Long)
		sumLat += int64(p.Lat)
	}
	n := int64(len(points))
	return coord{
		Long: int32(sumLong / n),
		Lat:  int32(sumLat / n),
	}, true
}
