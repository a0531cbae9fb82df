package osmextract

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"addrindex/internal/addrline"
)

// maxRelationPasses bounds how many times the extractor re-attempts
// resolving relations whose members are other not-yet-resolved
// relations. A relation still unresolved after this many passes fails
// the extraction rather than being looped on forever.
const maxRelationPasses = 8

// Options controls one extraction run.
type Options struct {
	Logger          zerolog.Logger
	ProgressEvery   int // report every N entities scanned; 0 disables interval logging beyond the VerboseReaderManager
}

type incompleteWay struct {
	addr    *incompleteAddress
	id      osm.WayID
	nodeIDs []int64
}

type incompleteRelation struct {
	addr         *incompleteAddress
	id           osm.RelationID
	nodeRefs     []int64
	wayRefs      []int64
	relationRefs []int64
}

// Extract reads the OSM-PBF file at path and calls emit once per
// address-bearing entity, in no particular order. Pass 1 collects node
// addresses directly and buffers way/relation addresses; pass 2
// resolves way coordinates from a second sweep of node records;
// subsequent bounded passes resolve relations whose members are
// themselves other relations.
func Extract(ctx context.Context, path string, opts Options, emit func(addrline.Record) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open pbf file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat pbf file: %w", err)
	}

	verbose := NewVerboseReader(f, info.Size())
	manager := NewVerboseReaderManager(verbose, opts.Logger)
	manager.Start()
	defer manager.Stop()

	nThreads := runtime.GOMAXPROCS(0)

	ways, relations, neededNodeIDs, err := pass1(ctx, verbose, nThreads, opts.ProgressEvery, opts.Logger, emit)
	if err != nil {
		return fmt.Errorf("extract pass 1: %w", err)
	}
	opts.Logger.Info().Int("address_ways", len(ways)).Int("address_relations", len(relations)).
		Msg("pass 1 complete")

	if _, err := verbose.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind pbf file: %w", err)
	}

	nodeCoords, err := pass2(ctx, verbose, nThreads, neededNodeIDs)
	if err != nil {
		return fmt.Errorf("extract pass 2: %w", err)
	}

	wayCoords, brokenWays, err := resolveWays(ctx, ways, nodeCoords)
	if err != nil {
		return fmt.Errorf("resolve ways: %w", err)
	}
	if len(brokenWays) > 0 {
		w := brokenWays[0]
		return fmt.Errorf("reference broken: way %d missing node %d", w.id, w.firstMissing)
	}

	resolved, err := resolveRelations(relations, nodeCoords, wayCoords)
	if err != nil {
		return fmt.Errorf("resolve relations: %w", err)
	}

	for _, w := range ways {
		c, ok := wayCoords[w.id]
		if !ok {
			continue
		}
		if err := emitAddress(w.addr, c, emit); err != nil {
			return err
		}
	}
	for _, r := range resolved {
		if err := emitAddress(r.addr, r.pos, emit); err != nil {
			return err
		}
	}

	return nil
}

func emitAddress(addr *incompleteAddress, c coord, emit func(addrline.Record) error) error {
	return emit(addrline.Record{
		Country:     addr.Country,
		City:        addr.City,
		Postcode:    addr.Postcode,
		Street:      addr.Street,
		Housenumber: addr.Housenumber,
		Long:        c.Long,
		Lat:         c.Lat,
	})
}

// pass1 scans the whole file once. Address-bearing nodes are emitted
// immediately; address-bearing ways and relations are buffered. Returns
// the set of node IDs that pass 2 must collect coordinates for (every
// node a buffered way or relation references directly).
func pass1(ctx context.Context, r *VerboseReader, nThreads, progressEvery int, logger zerolog.Logger, emit func(addrline.Record) error) ([]*incompleteWay, []*incompleteRelation, map[int64]struct{}, error) {
	scanner := osmpbf.New(ctx, r, nThreads)
	defer scanner.Close()

	var ways []*incompleteWay
	var relations []*incompleteRelation
	needed := make(map[int64]struct{})
	entities := 0

	for scanner.Scan() {
		entities++
		if progressEvery > 0 && entities%progressEvery == 0 {
			logger.Info().Int("entities", entities).Int("address_ways", len(ways)).
				Int("address_relations", len(relations)).Msg("pass 1 progress")
		}
		switch obj := scanner.Object().(type) {
		case *osm.Node:
			addr := addressFromTags(obj.Tags)
			if addr == nil {
				continue
			}
			if err := emitAddress(addr, coord{Long: int32(obj.Lon * 1e7), Lat: int32(obj.Lat * 1e7)}, emit); err != nil {
				return nil, nil, nil, err
			}
		case *osm.Way:
			addr := addressFromTags(obj.Tags)
			if addr == nil {
				continue
			}
			ids := make([]int64, 0, len(obj.Nodes))
			for _, n := range obj.Nodes {
				ids = append(ids, int64(n.ID))
			}
			sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
			ids = dedupInt64(ids)
			for _, id := range ids {
				needed[id] = struct{}{}
			}
			ways = append(ways, &incompleteWay{addr: addr, id: obj.ID, nodeIDs: ids})
		case *osm.Relation:
			addr := addressFromTags(obj.Tags)
			if addr == nil {
				continue
			}
			rel := &incompleteRelation{addr: addr, id: obj.ID}
			for _, m := range obj.Members {
				switch m.Type {
				case osm.TypeNode:
					rel.nodeRefs = append(rel.nodeRefs, m.Ref)
					needed[m.Ref] = struct{}{}
				case osm.TypeWay:
					rel.wayRefs = append(rel.wayRefs, m.Ref)
				case osm.TypeRelation:
					rel.relationRefs = append(rel.relationRefs, m.Ref)
				}
			}
			relations = append(relations, rel)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("scan pbf: %w", err)
	}
	return ways, relations, needed, nil
}

// pass2 rewinds and collects the coordinate of every node in needed.
func pass2(ctx context.Context, r *VerboseReader, nThreads int, needed map[int64]struct{}) (map[int64]coord, error) {
	scanner := osmpbf.New(ctx, r, nThreads)
	defer scanner.Close()

	coords := make(map[int64]coord, len(needed))
	for scanner.Scan() {
		node, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		id := int64(node.ID)
		if _, want := needed[id]; !want {
			continue
		}
		coords[id] = coord{Long: int32(node.Lon * 1e7), Lat: int32(node.Lat * 1e7)}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan pbf: %w", err)
	}
	return coords, nil
}

type brokenWay struct {
	id           osm.WayID
	firstMissing int64
}

// resolveWays computes each way's position as the truncating mean of
// its nodes' coordinates, fanning the averaging step out across
// goroutines since it is an embarrassingly parallel CPU-bound map over
// an already-collected coordinate table.
func resolveWays(ctx context.Context, ways []*incompleteWay, nodeCoords map[int64]coord) (map[osm.WayID]coord, []brokenWay, error) {
	result := make(map[osm.WayID]coord, len(ways))
	var broken []brokenWay

	type outcome struct {
		id   osm.WayID
		pos  coord
		ok   bool
		miss int64
	}
	outcomes := make([]outcome, len(ways))

	g, _ := errgroup.WithContext(ctx)
	for i, w := range ways {
		i, w := i, w
		g.Go(func() error {
			points := make([]coord, 0, len(w.nodeIDs))
			var missing int64 = -1
			for _, id := range w.nodeIDs {
				c, ok := nodeCoords[id]
				if !ok {
					if missing == -1 || id < missing {
						missing = id
					}
					continue
				}
				points = append(points, c)
			}
			if missing != -1 {
				outcomes[i] = outcome{id: w.id, ok: false, miss: missing}
				return nil
			}
			pos, ok := avgCoords(points)
			outcomes[i] = outcome{id: w.id, pos: pos, ok: ok}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	for _, o := range outcomes {
		if !o.ok {
			broken = append(broken, brokenWay{id: o.id, firstMissing: o.miss})
			continue
		}
		result[o.id] = o.pos
	}
	return result, broken, nil
}

type resolvedRelation struct {
	addr *incompleteAddress
	pos  coord
}

// resolveRelations iteratively resolves relation positions from
// already-known node and way coordinates, re-attempting relations whose
// members are other relations across up to maxRelationPasses rounds.
// Only address-bearing ways and relations have known coordinates, so a
// relation whose member is a way or relation without address tags, or a
// node absent from the file, never resolves. A relation still
// unresolved after the bound (for that reason or a reference cycle)
// fails the extraction.
func resolveRelations(relations []*incompleteRelation, nodeCoords map[int64]coord, wayCoords map[osm.WayID]coord) ([]resolvedRelation, error) {
	relCoords := make(map[osm.RelationID]coord)
	pending := relations

	for pass := 0; pass < maxRelationPasses && len(pending) > 0; pass++ {
		var next []*incompleteRelation
		for _, rel := range pending {
			pos, ok := resolveOneRelation(rel, nodeCoords, wayCoords, relCoords)
			if !ok {
				next = append(next, rel)
				continue
			}
			relCoords[rel.id] = pos
		}
		pending = next
	}

	if len(pending) > 0 {
		ids := make([]int64, len(pending))
		for i, r := range pending {
			ids[i] = int64(r.id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		return nil, fmt.Errorf("cyclic or unresolved relation reference: relation %d did not resolve after %d passes", ids[0], maxRelationPasses)
	}

	out := make([]resolvedRelation, 0, len(relations))
	for _, rel := range relations {
		out = append(out, resolvedRelation{addr: rel.addr, pos: relCoords[rel.id]})
	}
	return out, nil
}

func resolveOneRelation(rel *incompleteRelation, nodeCoords map[int64]coord, wayCoords map[osm.WayID]coord, relCoords map[osm.RelationID]coord) (coord, bool) {
	var points []coord
	for _, id := range rel.nodeRefs {
		c, ok := nodeCoords[id]
		if !ok {
			return coord{}, false
		}
		points = append(points, c)
	}
	for _, id := range rel.wayRefs {
		c, ok := wayCoords[osm.WayID(id)]
		if !ok {
			return coord{}, false
		}
		points = append(points, c)
	}
	for _, id := range rel.relationRefs {
		c, ok := relCoords[osm.RelationID(id)]
		if !ok {
			return coord{}, false
		}
		points = append(points, c)
	}
	return avgCoords(points)
}

func dedupInt64(sorted []int64) []int64 {
	out := sorted[:0]
	for i, v := range sorted {
		if i == 0 || sorted[i-1] != v {
			out = append(out, v)
		}
	}
	return out
}
