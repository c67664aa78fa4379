package world

import "testing"

func TestCacheScanBoxPrefilter(t *testing.T) {
	c := NewThreatCache()
	c.Rebuild([]*Agent{
		{ID: "near", Pos: Vec3{X: 3, Y: 4}},
		{ID: "edge", Pos: Vec3{X: 10, Y: 0}},
		{ID: "far", Pos: Vec3{X: 11, Y: 0}},
		{ID: "diag", Pos: Vec3{X: 9, Y: 9}},
	})

	var seen []string
	c.Scan(Vec3{}, 10, func(e *CacheEntry) { seen = append(seen, e.ID) })

	want := map[string]bool{"near": true, "edge": true, "diag": true}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v", seen)
	}
	for _, id := range seen {
		if !want[id] {
			t.Fatalf("unexpected entry %q in scan", id)
		}
	}
}

func TestCacheScanVisitsInSnapshotOrder(t *testing.T) {
	c := NewThreatCache()
	c.Rebuild([]*Agent{
		{ID: "a", Pos: Vec3{X: 1}},
		{ID: "b", Pos: Vec3{X: 2}},
		{ID: "c", Pos: Vec3{X: 3}},
	})
	var seen []string
	c.Scan(Vec3{}, 5, func(e *CacheEntry) { seen = append(seen, e.ID) })
	if len(seen) != 3 || seen[0] != "a" || seen[1] != "b" || seen[2] != "c" {
		t.Fatalf("scan order = %v, want [a b c]", seen)
	}
}

func TestCacheResolveStaleEntry(t *testing.T) {
	c := NewThreatCache()
	a := &Agent{ID: "gone", Pos: Vec3{X: 1}}
	c.Rebuild([]*Agent{a})
	if c.Resolve("gone") != a {
		t.Fatalf("live agent should resolve")
	}

	// Agent removed; the next rebuild drops it and lookups miss.
	c.Rebuild(nil)
	if c.Resolve("gone") != nil {
		t.Fatalf("stale id should resolve to nil")
	}
	if c.Len() != 0 {
		t.Fatalf("len = %d after empty rebuild", c.Len())
	}
}

func TestCacheAgentsAtCell(t *testing.T) {
	c := NewThreatCache()
	c.Rebuild([]*Agent{
		{ID: "in", Pos: Vec3{X: 5.4, Y: 5.9}},
		{ID: "out", Pos: Vec3{X: 6.1, Y: 5.2}},
	})
	got := c.AgentsAtCell(GridPos{X: 5, Y: 5})
	if len(got) != 1 || got[0].ID != "in" {
		t.Fatalf("AgentsAtCell = %v", got)
	}
}

func TestCacheAgentsAtCellNegativeCoords(t *testing.T) {
	c := NewThreatCache()
	c.Rebuild([]*Agent{
		{ID: "neg", Pos: Vec3{X: -0.5, Y: -0.5}},
		{ID: "origin", Pos: Vec3{X: 0.5, Y: 0.5}},
	})

	// Floor semantics: -0.5 lives in cell -1, not cell 0.
	got := c.AgentsAtCell(GridPos{X: -1, Y: -1})
	if len(got) != 1 || got[0].ID != "neg" {
		t.Fatalf("AgentsAtCell(-1,-1) = %v", got)
	}
	if got := c.AgentsAtCell(GridPos{X: 0, Y: 0}); len(got) != 1 || got[0].ID != "origin" {
		t.Fatalf("AgentsAtCell(0,0) = %v", got)
	}
}

func TestCacheSnapshotDoesNotTrackMoves(t *testing.T) {
	c := NewThreatCache()
	a := &Agent{ID: "m", Pos: Vec3{X: 1, Y: 1}}
	c.Rebuild([]*Agent{a})

	a.Pos = Vec3{X: 50, Y: 50}

	hit := false
	c.Scan(Vec3{X: 1, Y: 1}, 2, func(e *CacheEntry) { hit = e.ID == "m" })
	if !hit {
		t.Fatalf("snapshot should still hold the pre-move position")
	}
}
