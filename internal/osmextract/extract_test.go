package osmextract

import (
	"context"
	"testing"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
)

func TestResolveWaysAveragesNodes(t *testing.T) {
	ways := []*incompleteWay{
		{id: 1, addr: &incompleteAddress{Street: "Main St", Housenumber: "1"}, nodeIDs: []int64{10, 11}},
	}
	nodeCoords := map[int64]coord{
		10: {Long: 100, Lat: 200},
		11: {Long: 200, Lat: 400},
	}

	result, broken, err := resolveWays(context.Background(), ways, nodeCoords)
	assert.NoError(t, err)
	assert.Empty(t, broken)
	assert.Equal(t, coord{Long: 150, Lat: 300}, result[osm.WayID(1)])
}

func TestResolveWaysReportsMissingNode(t *testing.T) {
	ways := []*incompleteWay{
		{id: 1, addr: &incompleteAddress{Street: "Main St", Housenumber: "1"}, nodeIDs: []int64{10, 99}},
	}
	nodeCoords := map[int64]coord{10: {Long: 1, Lat: 1}}

	result, broken, err := resolveWays(context.Background(), ways, nodeCoords)
	assert.NoError(t, err)
	assert.Empty(t, result)
	assert.Len(t, broken, 1)
	assert.Equal(t, int64(99), broken[0].firstMissing)
}

func TestResolveRelationsChainsThroughWaysAndNodes(t *testing.T) {
	relations := []*incompleteRelation{
		{id: 1, addr: &incompleteAddress{Street: "Plaza", Housenumber: "1"}, nodeRefs: []int64{10}, wayRefs: []int64{5}},
	}
	nodeCoords := map[int64]coord{10: {Long: 100, Lat: 100}}
	wayCoords := map[osm.WayID]coord{5: {Long: 300, Lat: 300}}

	resolved, err := resolveRelations(relations, nodeCoords, wayCoords)
	assert.NoError(t, err)
	assert.Len(t, resolved, 1)
	assert.Equal(t, coord{Long: 200, Lat: 200}, resolved[0].pos)
}

func TestResolveRelationsDetectsCycle(t *testing.T) {
	relations := []*incompleteRelation{
		{id: 1, addr: &incompleteAddress{Street: "A", Housenumber: "1"}, relationRefs: []int64{2}},
		{id: 2, addr: &incompleteAddress{Street: "B", Housenumber: "2"}, relationRefs: []int64{1}},
	}

	_, err := resolveRelations(relations, nil, nil)
	assert.Error(t, err)
}

func TestAddressFromTagsRequiresStreetAndHousenumber(t *testing.T) {
	assert.Nil(t, addressFromTags(osm.Tags{{Key: "addr:street", Value: "Main St"}}))
	assert.Nil(t, addressFromTags(osm.Tags{{Key: "addr:housenumber", Value: "1"}}))

	addr := addressFromTags(osm.Tags{
		{Key: "addr:street", Value: "Main St"},
		{Key: "addr:housenumber", Value: "1"},
		{Key: "addr:city", Value: "Berlin"},
	})
	assert.NotNil(t, addr)
	assert.Equal(t, "Main St", addr.Street)
	assert.NotNil(t, addr.City)
	assert.Equal(t, "Berlin", *addr.City)
	assert.Nil(t, addr.Country)
}

func TestDedupInt64(t *testing.T) {
	assert.Equal(t, []int64{1, 2, 3}, dedupInt64([]int64{1, 1, 2, 3, 3}))
}
