package depot

import (
	"reflect"
	"testing"

	"github.com/kochimetro/induction/core/model"
)

// testLayout is a small yard: two stabling tracks, one maintenance bay, one
// exit, plus a disconnected island track.
//
//	PT1 - PT2 - EXIT1
//	 |
//	MB1        PT9 (isolated)
func testLayout() map[string][]string {
	return map[string][]string{
		"PT1":   {"PT2", "MB1"},
		"PT2":   {"EXIT1"},
		"PT9":   {},
		"EXIT1": {},
	}
}

func TestShortestPathFollowsFewestHops(t *testing.T) {
	g := NewGraph(testLayout())
	hops, route, ok := g.ShortestPath("MB1", "EXIT1")
	if !ok {
		t.Fatal("expected a route from MB1 to EXIT1")
	}
	if hops != 3 {
		t.Fatalf("expected 3 hops, got %d", hops)
	}
	want := []string{"MB1", "PT1", "PT2", "EXIT1"}
	if !reflect.DeepEqual(route, want) {
		t.Fatalf("expected route %v, got %v", want, route)
	}
}

func TestShortestPathSameNode(t *testing.T) {
	g := NewGraph(testLayout())
	hops, route, ok := g.ShortestPath("PT1", "PT1")
	if !ok || hops != 0 {
		t.Fatalf("expected zero-hop route, got ok=%v hops=%d", ok, hops)
	}
	if !reflect.DeepEqual(route, []string{"PT1"}) {
		t.Fatalf("unexpected route %v", route)
	}
}

func TestShortestPathUnknownAndUnreachable(t *testing.T) {
	g := NewGraph(testLayout())
	if _, _, ok := g.ShortestPath("PT1", "PT77"); ok {
		t.Fatal("unknown node must not yield a route")
	}
	if _, _, ok := g.ShortestPath("PT1", "PT9"); ok {
		t.Fatal("isolated node must not yield a route")
	}
}

func TestEdgesAreUndirected(t *testing.T) {
	g := NewGraph(testLayout())
	forward, _, _ := g.ShortestPath("PT1", "EXIT1")
	backward, _, okBack := g.ShortestPath("EXIT1", "PT1")
	if !okBack || forward != backward {
		t.Fatalf("expected symmetric distances, got %d and %d (ok=%v)", forward, backward, okBack)
	}
}

func TestDistanceToNearestExit(t *testing.T) {
	connections := map[string][]string{
		"PT1":   {"EXIT1"},
		"PT2":   {"PT1"},
		"EXIT2": {"PT2"},
	}
	g := NewGraph(connections)
	dist, ok := g.DistanceToNearestExit("PT2", []string{"EXIT1", "EXIT2"})
	if !ok || dist != 1 {
		t.Fatalf("expected nearest exit at 1 hop, got %d (ok=%v)", dist, ok)
	}
	if _, ok := g.DistanceToNearestExit("PT99", []string{"EXIT1"}); ok {
		t.Fatal("unknown track must report no exit distance")
	}
}

func TestTracksByExitDistanceOrdersStably(t *testing.T) {
	connections := map[string][]string{
		"PT1": {"EXIT1"},
		"PT2": {"PT1"},
		"PT3": {"EXIT1"},
		"PT9": {},
	}
	g := NewGraph(connections)
	tracks := []model.StablingTrack{
		{ID: "PT2", Capacity: 2},
		{ID: "PT3", Capacity: 2},
		{ID: "PT9", Capacity: 2},
		{ID: "PT1", Capacity: 2},
	}
	ordered := g.TracksByExitDistance(tracks, []string{"EXIT1"})
	got := make([]string, len(ordered))
	for i, tr := range ordered {
		got[i] = tr.ID
	}
	// PT3 and PT1 tie at 1 hop and keep input order; PT9 is unreachable and
	// sorts last.
	want := []string{"PT3", "PT1", "PT2", "PT9"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected order %v, got %v", want, got)
	}
}
