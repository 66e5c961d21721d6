package drag

import (
	"testing"
)

// testConfig pins the pixel-scale tuning of [DefaultConfig] so the edge
// math in the tests is easy to follow.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.EdgeRatio = 0.25
	cfg.MinEdge = 20
	cfg.MaxEdge = 48
	return cfg
}

// canvasFixture models a canvas with one container C (two children x, y)
// and a loose text item t, all above the root zone.
//
//	y=0   ┌ root zone (0,0 800x600) ──────────────┐
//	y=100 │ ┌ C item (20,100 400x120) ──────────┐ │
//	      │ │  x item (40,110 360x40)           │ │
//	      │ │  y item (40,150 360x40)           │ │
//	      │ │  C zone (30,105 380x110)          │ │
//	y=300 │  t item (20,300 400x40)               │
//	      └──────────────────────────────────────┘
func canvasFixture() *Registry {
	return NewRegistry([]Region{
		{ID: "root-zone", Kind: RegionRootZone, OwnerID: RootOwner, Depth: 0,
			Rect: Rect{Top: 0, Left: 0, Width: 800, Height: 600}},
		{ID: "item:C", Kind: RegionItem, OwnerID: "C", Depth: 1, ParentID: "",
			Rect: Rect{Top: 100, Left: 20, Width: 400, Height: 120}},
		{ID: "zone:C", Kind: RegionContainerZone, OwnerID: "C", Depth: 1, ParentID: "",
			Rect: Rect{Top: 105, Left: 30, Width: 380, Height: 110}},
		{ID: "item:x", Kind: RegionItem, OwnerID: "x", Depth: 2, ParentID: "C",
			Rect: Rect{Top: 110, Left: 40, Width: 360, Height: 40}},
		{ID: "item:y", Kind: RegionItem, OwnerID: "y", Depth: 2, ParentID: "C",
			Rect: Rect{Top: 150, Left: 40, Width: 360, Height: 40}},
		{ID: "item:t", Kind: RegionItem, OwnerID: "t", Depth: 1, ParentID: "",
			Rect: Rect{Top: 300, Left: 20, Width: 400, Height: 40}},
	})
}

func noExclusions() ActiveDrag {
	return ActiveDrag{ID: "drag", Excluded: map[string]bool{"drag": true}}
}

func TestResolveEmptyContainerInside(t *testing.T) {
	// Scenario A: empty container exposes only its zone; a pointer inside
	// resolves to "inside".
	reg := NewRegistry([]Region{
		{ID: "root-zone", Kind: RegionRootZone, OwnerID: RootOwner,
			Rect: Rect{Top: 0, Left: 0, Width: 800, Height: 600}},
		{ID: "zone:C", Kind: RegionContainerZone, OwnerID: "C", Depth: 1,
			Rect: Rect{Top: 100, Left: 20, Width: 400, Height: 80}},
	})

	c := Resolve(reg, noExclusions(), Point{X: 200, Y: 140}, false, testConfig())
	if c == nil {
		t.Fatal("no candidate")
	}
	if c.Region.OwnerID != "C" || c.Position != Inside {
		t.Errorf("got %s/%s, want C/inside", c.Region.OwnerID, c.Position)
	}
}

func TestResolveContainerEdgeZones(t *testing.T) {
	// Scenario B geometry: C's item is 120 tall, so the edge height is
	// clamp(120*0.25, 20, 48) = 30. The container-only registry keeps the
	// child items out of the way.
	reg := NewRegistry([]Region{
		{ID: "item:C", Kind: RegionItem, OwnerID: "C", Depth: 1,
			Rect: Rect{Top: 100, Left: 20, Width: 400, Height: 120}},
		{ID: "zone:C", Kind: RegionContainerZone, OwnerID: "C", Depth: 1,
			Rect: Rect{Top: 100, Left: 20, Width: 400, Height: 120}},
	})

	tests := []struct {
		name string
		y    float64
		want Position
	}{
		{"top 20 percent is before", 124, Before}, // 20% into 120 = y 124 < 130
		{"just inside top edge", 129, Before},
		{"center is inside", 160, Inside},
		{"just above bottom edge", 189, Inside},
		{"bottom edge is after", 191, After},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Resolve(reg, noExclusions(), Point{X: 200, Y: tt.y}, false, testConfig())
			if c == nil {
				t.Fatal("no candidate")
			}
			if c.Region.OwnerID != "C" || c.Position != tt.want {
				t.Errorf("y=%v: got %s/%s, want C/%s", tt.y, c.Region.OwnerID, c.Position, tt.want)
			}
		})
	}
}

func TestResolveExcludesDraggedSubtree(t *testing.T) {
	// Scenario C: dragging C over its own child x must not resolve to x
	// or to C itself; it falls through to the root zone.
	reg := canvasFixture()
	active := ActiveDrag{ID: "C", Excluded: map[string]bool{"C": true, "x": true, "y": true}}

	c := Resolve(reg, active, Point{X: 200, Y: 130}, false, testConfig())
	if c == nil {
		t.Fatal("no candidate")
	}
	if c.Region.OwnerID == "C" || c.Region.OwnerID == "x" || c.Region.OwnerID == "y" {
		t.Fatalf("resolved to excluded region %s", c.Region.OwnerID)
	}
	if c.Region.Kind != RegionRootZone {
		t.Errorf("got %s, want root zone", c.Region.ID)
	}
}

func TestResolvePlainItemBeatsContainer(t *testing.T) {
	reg := canvasFixture()

	// Pointer over x (which lies inside C's rect too): x wins.
	c := Resolve(reg, noExclusions(), Point{X: 200, Y: 120}, false, testConfig())
	if c.Region.OwnerID != "x" {
		t.Fatalf("got %s, want x", c.Region.OwnerID)
	}
	if c.Position != Before {
		t.Errorf("y=120 is above x's midline, got %s", c.Position)
	}

	// Below x's midline (130) flips to after.
	c = Resolve(reg, noExclusions(), Point{X: 200, Y: 135}, false, testConfig())
	if c.Region.OwnerID != "x" || c.Position != After {
		t.Errorf("got %s/%s, want x/after", c.Region.OwnerID, c.Position)
	}
}

func TestResolveForceNest(t *testing.T) {
	reg := canvasFixture()

	// Without the modifier the pointer over x resolves to x. With it, the
	// container under the pointer wins with "inside", bypassing zoning.
	ptr := Point{X: 200, Y: 120}
	if c := Resolve(reg, noExclusions(), ptr, false, testConfig()); c.Region.OwnerID != "x" {
		t.Fatalf("precondition: got %s, want x", c.Region.OwnerID)
	}
	c := Resolve(reg, noExclusions(), ptr, true, testConfig())
	if c.Region.OwnerID != "C" || c.Position != Inside {
		t.Errorf("forceNest: got %s/%s, want C/inside", c.Region.OwnerID, c.Position)
	}
}

func TestResolveRootZoneFallback(t *testing.T) {
	reg := canvasFixture()

	c := Resolve(reg, noExclusions(), Point{X: 600, Y: 500}, false, testConfig())
	if c == nil {
		t.Fatal("no candidate")
	}
	if c.Region.Kind != RegionRootZone || c.Position != Inside {
		t.Errorf("got %s/%s, want root zone inside", c.Region.ID, c.Position)
	}
	if c.Target().TargetID != RootOwner {
		t.Errorf("TargetID = %s", c.Target().TargetID)
	}
}

func TestResolveNearestWhenOutsideEverything(t *testing.T) {
	// No root zone: a pointer outside every rect still resolves to the
	// nearest region.
	reg := NewRegistry([]Region{
		{ID: "item:a", Kind: RegionItem, OwnerID: "a",
			Rect: Rect{Top: 0, Left: 0, Width: 100, Height: 40}},
		{ID: "item:b", Kind: RegionItem, OwnerID: "b",
			Rect: Rect{Top: 200, Left: 0, Width: 100, Height: 40}},
	})

	c := Resolve(reg, noExclusions(), Point{X: 50, Y: 190}, false, testConfig())
	if c == nil {
		t.Fatal("no candidate")
	}
	if c.Region.OwnerID != "b" {
		t.Errorf("got %s, want b (nearest)", c.Region.OwnerID)
	}
}

func TestResolveDegenerateRectNeverMatches(t *testing.T) {
	reg := NewRegistry([]Region{
		{ID: "item:zero", Kind: RegionItem, OwnerID: "zero",
			Rect: Rect{Top: 0, Left: 0, Width: 0, Height: 40}},
	})
	if c := Resolve(reg, noExclusions(), Point{X: 0, Y: 10}, false, testConfig()); c != nil {
		t.Errorf("degenerate rect resolved to %s", c.Region.ID)
	}
}

func TestResolveEmptyRegistry(t *testing.T) {
	if c := Resolve(NewRegistry(nil), noExclusions(), Point{}, false, testConfig()); c != nil {
		t.Errorf("empty registry resolved to %s", c.Region.ID)
	}
}

// Resolver determinism: same snapshot, same pointer, same answer.
func TestResolveDeterministic(t *testing.T) {
	reg := canvasFixture()
	points := []Point{{200, 120}, {200, 160}, {600, 500}, {200, 104}, {430, 130}}
	for _, p := range points {
		first := Resolve(reg, noExclusions(), p, false, testConfig())
		for i := 0; i < 5; i++ {
			again := Resolve(reg, noExclusions(), p, false, testConfig())
			if (first == nil) != (again == nil) {
				t.Fatalf("pointer %v: nilness changed", p)
			}
			if first != nil && (first.Region.ID != again.Region.ID || first.Position != again.Position) {
				t.Fatalf("pointer %v: %s/%s then %s/%s", p,
					first.Region.ID, first.Position, again.Region.ID, again.Position)
			}
		}
	}
}

func TestEdgeHeightClamp(t *testing.T) {
	cfg := testConfig()
	tests := []struct {
		height float64
		want   float64
	}{
		{120, 30}, // ratio wins
		{40, 20},  // min clamp, then half-height cap
		{400, 48}, // max clamp
		{30, 15},  // half-height cap beats min
	}
	for _, tt := range tests {
		if got := cfg.edgeHeight(tt.height); got != tt.want {
			t.Errorf("edgeHeight(%v) = %v, want %v", tt.height, got, tt.want)
		}
	}
}
