package drag

import (
	"time"

	"github.com/formdeck/formdeck/pkg/tree"
)

// Session owns all state of one drag gesture, from drag start to drop or
// cancellation. It never outlives the gesture: the hosting UI creates one
// on pointer-down and discards it afterwards.
//
// A session only reads the tree - to snapshot the dragged subtree's IDs for
// exclusion - until [Session.Drop], which produces the replacement tree.
// All methods run synchronously on the host's event loop; the session is
// not safe for concurrent use.
type Session struct {
	cfg    Config
	active ActiveDrag
	stab   *Stabilizer
	live   bool
}

// NewSession creates an idle session with the given tuning.
func NewSession(cfg Config) *Session {
	return &Session{cfg: cfg, stab: NewStabilizer(cfg)}
}

// StartNode begins dragging an existing node. The exclusion set is
// snapshotted from the tree now; the tree does not change mid-gesture.
func (s *Session) StartNode(t tree.Tree, id string) {
	s.stab.Reset()
	s.active = ActiveDrag{ID: id, Excluded: t.SubtreeIDs(id)}
	s.live = true
}

// StartPalette begins dragging a new widget of the given kind out of the
// palette. No node exists in the tree yet, so nothing is excluded.
func (s *Session) StartPalette(kind tree.Kind) {
	s.stab.Reset()
	s.active = ActiveDrag{Kind: kind, Excluded: map[string]bool{}}
	s.live = true
}

// Dragging reports whether a gesture is in progress.
func (s *Session) Dragging() bool { return s.live }

// Active returns the drag descriptor for the current gesture.
func (s *Session) Active() ActiveDrag { return s.active }

// Update processes one pointer-move event against a fresh region snapshot
// and returns the committed drop target for visual feedback (nil when
// nothing is targeted). forceNest is the modifier that skips edge zoning
// and nests into the container under the pointer.
func (s *Session) Update(reg *Registry, ptr Point, forceNest bool, now time.Time) *DropTarget {
	if !s.live {
		return nil
	}
	raw := Resolve(reg, s.active, ptr, forceNest, s.cfg)
	target, _ := s.stab.Offer(raw, reg, now)
	return target
}

// Tick advances the stabilizer's commit delay without a pointer event, so a
// motionless pointer still commits its pending target. Returns the
// committed target.
func (s *Session) Tick(now time.Time) *DropTarget {
	if !s.live {
		return nil
	}
	target, _ := s.stab.Tick(now)
	return target
}

// Target returns the currently committed drop target without advancing any
// state.
func (s *Session) Target() *DropTarget {
	if !s.live {
		return nil
	}
	return s.stab.Current()
}

// Drop completes the gesture: the freshest resolved target (at release the
// pointer's position is definitive, so a still-pending candidate counts) is
// translated into a tree mutation. The session goes idle either way. With
// no target at all the drop is abandoned and the tree returned unchanged.
func (s *Session) Drop(t tree.Tree, now time.Time) Result {
	if !s.live {
		return Result{Tree: t}
	}
	target := s.stab.Latest()
	active := s.active
	s.Cancel()
	if target == nil {
		return Result{Tree: t}
	}
	return Apply(t, *target, active)
}

// Cancel abandons the gesture, discarding the drag state and any pending
// stabilizer commit. No tree mutation occurs.
func (s *Session) Cancel() {
	s.stab.Reset()
	s.active = ActiveDrag{}
	s.live = false
}
