package osmextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvgCoordsEmpty(t *testing.T) {
	_, ok := avgCoords(nil)
	assert.False(t, ok)
}

func TestAvgCoordsTruncates(t *testing.T) {
	c, ok := avgCoords([]coord{{Long: 10, Lat: 10}, {Long: 11, Lat: 11}})
	assert.True(t, ok)
	// (10+11)/2 == 10 with Go's truncating integer division.
	assert.Equal(t, int32(10), c.Long)
	assert.Equal(t, int32(10), c.Lat)
}

func TestAvgCoordsSingle(t *testing.T) {
	c, ok := avgCoords([]coord{{Long: 42, Lat: -42}})
	assert.True(t, ok)
	assert.Equal(t, int32(42), c.Long)
	assert.Equal(t, int32(-42), c.Lat)
}
