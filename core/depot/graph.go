// Package depot models the depot's bay-adjacency topology and prices
// relocation moves as shortest paths over it. All edges carry unit cost: one
// hop is one yard movement.
package depot

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/kochimetro/induction/core/model"
)

// Graph is an immutable unit-cost adjacency graph over bay, track and exit
// nodes. Queries are pure and safe for concurrent use.
type Graph struct {
	g     *simple.UndirectedGraph
	ids   map[string]int64
	names map[int64]string
}

// NewGraph builds a graph from an adjacency map. Edges are undirected even
// when the input lists them in one direction only.
func NewGraph(connections map[string][]string) *Graph {
	g := &Graph{
		g:     simple.NewUndirectedGraph(),
		ids:   make(map[string]int64),
		names: make(map[int64]string),
	}
	for node, neighbors := range connections {
		from := g.node(node)
		for _, n := range neighbors {
			to := g.node(n)
			if from == to {
				continue
			}
			g.g.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
		}
	}
	return g
}

func (g *Graph) node(name string) int64 {
	if id, ok := g.ids[name]; ok {
		return id
	}
	id := int64(len(g.ids))
	g.ids[name] = id
	g.names[id] = name
	g.g.AddNode(simple.Node(id))
	return id
}

// Has reports whether the node exists in the layout.
func (g *Graph) Has(name string) bool {
	_, ok := g.ids[name]
	return ok
}

// ShortestPath returns the hop count and node sequence between two bays.
// ok is false when either node is unknown or no route exists.
func (g *Graph) ShortestPath(from, to string) (int, []string, bool) {
	fromID, okFrom := g.ids[from]
	toID, okTo := g.ids[to]
	if !okFrom || !okTo {
		return 0, nil, false
	}
	if fromID == toID {
		return 0, []string{from}, true
	}
	shortest := path.DijkstraFrom(simple.Node(fromID), g.g)
	nodes, weight := shortest.To(toID)
	if math.IsInf(weight, 1) || len(nodes) == 0 {
		return 0, nil, false
	}
	route := make([]string, len(nodes))
	for i, n := range nodes {
		route[i] = g.names[n.ID()]
	}
	return int(weight), route, true
}

// DistanceToNearestExit returns the hop count from a track to the closest
// exit point. Unknown or unreachable tracks report ok=false.
func (g *Graph) DistanceToNearestExit(from string, exits []string) (int, bool) {
	best := math.MaxInt
	for _, exit := range exits {
		if hops, _, ok := g.ShortestPath(from, exit); ok && hops < best {
			best = hops
		}
	}
	if best == math.MaxInt {
		return 0, false
	}
	return best, true
}

// TracksByExitDistance orders stabling tracks by ascending distance to the
// nearest exit. Ties keep the declaration order; unreachable tracks sort
// last.
func (g *Graph) TracksByExitDistance(tracks []model.StablingTrack, exits []string) []model.StablingTrack {
	type ranked struct {
		track model.StablingTrack
		dist  int
		idx   int
	}
	rankedTracks := make([]ranked, len(tracks))
	for i, t := range tracks {
		dist, ok := g.DistanceToNearestExit(t.ID, exits)
		if !ok {
			dist = math.MaxInt
		}
		rankedTracks[i] = ranked{track: t, dist: dist, idx: i}
	}
	sort.SliceStable(rankedTracks, func(i, j int) bool {
		if rankedTracks[i].dist != rankedTracks[j].dist {
			return rankedTracks[i].dist < rankedTracks[j].dist
		}
		return rankedTracks[i].idx < rankedTracks[j].idx
	})
	out := make([]model.StablingTrack, len(rankedTracks))
	for i, r := range rankedTracks {
		out[i] = r.track
	}
	return out
}
