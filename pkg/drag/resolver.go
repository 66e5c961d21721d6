package drag

import (
	"sort"

	"github.com/formdeck/formdeck/pkg/tree"
)

// Position says where a drop lands relative to its target node.
type Position string

const (
	Before Position = "before"
	After  Position = "after"
	Inside Position = "inside"
)

// DropTarget is the resolved placement intent: drop relative to the node
// named by TargetID. Inside is only produced for containers (and the root
// zone, whose TargetID is [RootOwner]).
type DropTarget struct {
	TargetID string
	Position Position
	ParentID string // TargetID's parent, for before/after placements
}

// ActiveDrag describes the node being dragged for the duration of one
// gesture.
type ActiveDrag struct {
	// ID is the dragged node's ID, empty for a palette drag that has no
	// node in the tree yet.
	ID string

	// Kind is the widget kind, used to construct the node for palette
	// drags.
	Kind tree.Kind

	// Excluded holds the IDs of the dragged node and all its descendants
	// in the current tree. Regions owned by these nodes never resolve,
	// which keeps a container from being dropped into its own subtree and
	// avoids geometric false positives while the subtree is visually
	// reparented mid-gesture.
	Excluded map[string]bool
}

// Candidate is the resolver's raw output: the winning region, the derived
// position, and the geometry the stabilizer needs to apply hysteresis.
type Candidate struct {
	Region    Region
	Position  Position
	Pointer   Point
	EdgePx    float64
	Container bool // the region belongs to a container node
}

// Target converts the candidate into its DropTarget.
func (c *Candidate) Target() DropTarget {
	return DropTarget{
		TargetID: c.Region.OwnerID,
		Position: c.Position,
		ParentID: c.Region.ParentID,
	}
}

// Resolve picks the single region a drop at ptr would land in, or nil when
// the registry holds no eligible region at all.
//
// Priority, after excluding the dragged subtree's own regions and any
// degenerate rectangles:
//
//  1. With forceNest set, the deepest container item under the pointer
//     resolves to "inside" immediately, bypassing edge zoning.
//  2. Plain item regions beat container regions: they give the most
//     precise insertion point. Before/after splits at the item's vertical
//     midpoint.
//  3. Container items split into before / inside / after by the edge
//     height from cfg.
//  4. A container zone with no item hit (an empty container's interior)
//     resolves to "inside".
//  5. The root zone catches everything else.
//
// Ties break by greater depth, then smaller pointer-to-center distance,
// then region ID, so the result is deterministic for a given snapshot.
func Resolve(reg *Registry, active ActiveDrag, ptr Point, forceNest bool, cfg Config) *Candidate {
	eligible := make([]Region, 0, reg.Len())
	for _, r := range reg.Regions() {
		if r.Rect.Empty() || active.Excluded[r.OwnerID] {
			continue
		}
		eligible = append(eligible, r)
	}
	if len(eligible) == 0 {
		return nil
	}

	hits := make([]Region, 0, 4)
	for _, r := range eligible {
		if r.Rect.Contains(ptr) {
			hits = append(hits, r)
		}
	}
	if len(hits) == 0 {
		// Nothing under the pointer: fall back to the nearest rectangle,
		// then nearest center. Always resolves to something.
		hits = append(hits, nearest(eligible, ptr))
	}
	sortRegions(hits, ptr)

	var (
		plainItems     []Region
		containerItems []Region
		zones          []Region
		rootZone       *Region
	)
	for _, r := range hits {
		r := r
		switch r.Kind {
		case RegionItem:
			if reg.ownerIsContainer(r.OwnerID) {
				containerItems = append(containerItems, r)
			} else {
				plainItems = append(plainItems, r)
			}
		case RegionContainerZone:
			zones = append(zones, r)
		case RegionRootZone:
			rootZone = &r
		}
	}

	if forceNest && len(containerItems) > 0 {
		r := containerItems[0]
		return &Candidate{Region: r, Position: Inside, Pointer: ptr, EdgePx: cfg.edgeHeight(r.Rect.Height), Container: true}
	}

	if len(plainItems) > 0 {
		r := plainItems[0]
		pos := Before
		if ptr.Y >= r.Rect.Center().Y {
			pos = After
		}
		return &Candidate{Region: r, Position: pos, Pointer: ptr, EdgePx: cfg.edgeHeight(r.Rect.Height)}
	}

	if len(containerItems) > 0 {
		r := containerItems[0]
		edge := cfg.edgeHeight(r.Rect.Height)
		pos := Inside
		switch {
		case ptr.Y < r.Rect.Top+edge:
			pos = Before
		case ptr.Y >= r.Rect.Top+r.Rect.Height-edge:
			pos = After
		}
		return &Candidate{Region: r, Position: pos, Pointer: ptr, EdgePx: edge, Container: true}
	}

	if len(zones) > 0 {
		r := zones[0]
		return &Candidate{Region: r, Position: Inside, Pointer: ptr, EdgePx: cfg.edgeHeight(r.Rect.Height), Container: true}
	}

	if rootZone != nil {
		r := *rootZone
		return &Candidate{Region: r, Position: Inside, Pointer: ptr, EdgePx: cfg.edgeHeight(r.Rect.Height), Container: true}
	}
	return nil
}

// nearest returns the region closest to ptr: smallest edge distance first,
// then smallest center distance, then the usual depth/ID tie-break.
func nearest(regions []Region, ptr Point) Region {
	best := regions[0]
	for _, r := range regions[1:] {
		if closerTo(ptr, r, best) {
			best = r
		}
	}
	return best
}

func closerTo(ptr Point, a, b Region) bool {
	da, db := a.Rect.Distance(ptr), b.Rect.Distance(ptr)
	if da != db {
		return da < db
	}
	ca, cb := a.Rect.CenterDistance(ptr), b.Rect.CenterDistance(ptr)
	if ca != cb {
		return ca < cb
	}
	if a.Depth != b.Depth {
		return a.Depth > b.Depth
	}
	return a.ID < b.ID
}

// sortRegions orders hit regions by depth (deepest first), then by center
// distance, then by ID for a stable final order.
func sortRegions(regions []Region, ptr Point) {
	sort.SliceStable(regions, func(i, j int) bool {
		a, b := regions[i], regions[j]
		if a.Depth != b.Depth {
			return a.Depth > b.Depth
		}
		ca, cb := a.Rect.CenterDistance(ptr), b.Rect.CenterDistance(ptr)
		if ca != cb {
			return ca < cb
		}
		return a.ID < b.ID
	})
}
