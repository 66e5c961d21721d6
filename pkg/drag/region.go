package drag

import "math"

// Point is a pointer position in the same coordinate space as the region
// rectangles (screen cells for the TUI, pixels for other hosts).
type Point struct {
	X float64
	Y float64
}

// Rect is an axis-aligned rectangle. A rect with non-positive width or
// height is degenerate and never matches a pointer.
type Rect struct {
	Top    float64
	Left   float64
	Width  float64
	Height float64
}

// Contains reports whether p lies inside the rectangle. The top and left
// edges are inclusive, the bottom and right edges exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X < r.Left+r.Width &&
		p.Y >= r.Top && p.Y < r.Top+r.Height
}

// Empty reports whether the rectangle is degenerate.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Center returns the rectangle's midpoint.
func (r Rect) Center() Point {
	return Point{X: r.Left + r.Width/2, Y: r.Top + r.Height/2}
}

// Distance returns the Euclidean distance from p to the nearest point of
// the rectangle; zero when p is inside.
func (r Rect) Distance(p Point) float64 {
	dx := math.Max(math.Max(r.Left-p.X, 0), p.X-(r.Left+r.Width))
	dy := math.Max(math.Max(r.Top-p.Y, 0), p.Y-(r.Top+r.Height))
	return math.Hypot(dx, dy)
}

// CenterDistance returns the Euclidean distance from p to the rectangle's
// center.
func (r Rect) CenterDistance(p Point) float64 {
	c := r.Center()
	return math.Hypot(p.X-c.X, p.Y-c.Y)
}

// RegionKind classifies what a droppable region is for.
type RegionKind int

const (
	// RegionItem is the rectangle of one rendered node, used to reorder
	// that node among its siblings (and, for containers, to nest into it
	// through the center zone).
	RegionItem RegionKind = iota
	// RegionContainerZone is the interior drop area of a container, used
	// to place something inside it. Empty containers expose only this.
	RegionContainerZone
	// RegionRootZone is the canvas background, used to append at the root.
	RegionRootZone
)

// RootOwner is the OwnerID of the root zone region.
const RootOwner = "root"

// Region is one droppable area as measured by the hosting UI for the
// current frame. Regions are rebuilt from the live widget tree every frame
// and never persisted.
type Region struct {
	ID       string
	Kind     RegionKind
	OwnerID  string // node ID this region belongs to, or RootOwner
	Depth    int    // nesting depth of the owner (root zone is 0)
	Rect     Rect
	ParentID string // owner's parent node ID, empty at the root
}

// Registry is a per-frame snapshot of every mounted region. It is read-only
// once built; the engine never holds one across frames.
type Registry struct {
	regions     []Region
	byID        map[string]int
	zoneByOwner map[string]int
}

// NewRegistry builds a snapshot from the measured regions. Order is
// preserved; callers typically append regions in render order.
func NewRegistry(regions []Region) *Registry {
	r := &Registry{
		regions:     regions,
		byID:        make(map[string]int, len(regions)),
		zoneByOwner: make(map[string]int),
	}
	for i, reg := range regions {
		r.byID[reg.ID] = i
		if reg.Kind == RegionContainerZone {
			r.zoneByOwner[reg.OwnerID] = i
		}
	}
	return r
}

// Regions returns the snapshot's regions in insertion order. The returned
// slice must not be modified.
func (r *Registry) Regions() []Region { return r.regions }

// Get returns the region with the given ID.
func (r *Registry) Get(id string) (Region, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Region{}, false
	}
	return r.regions[i], true
}

// Len returns the number of regions in the snapshot.
func (r *Registry) Len() int { return len(r.regions) }

// ownerIsContainer reports whether the owner of an item region also mounts
// a container zone, which is how the resolver tells container items from
// plain items without consulting the tree.
func (r *Registry) ownerIsContainer(ownerID string) bool {
	_, ok := r.zoneByOwner[ownerID]
	return ok
}
