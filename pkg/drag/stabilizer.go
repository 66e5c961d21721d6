package drag

import "time"

// Stabilizer suppresses drop-target oscillation. It owns two pieces of
// per-gesture state: the committed target shown to the user, and at most
// one pending candidate waiting out the commit delay.
//
// Two mechanisms keep the committed target steady:
//
//   - Hysteresis: when the raw candidate stays on the committed region but
//     flips position (before/inside/after), the split is recomputed with
//     bands widened by the hysteresis width around the committed state. The
//     pointer must travel further to leave a state than it needed to enter
//     it, so jitter on a boundary cannot toggle the target.
//
//   - Commit delay: every other change is held as pending until it survives
//     unchanged for cfg.CommitDelay. A new raw candidate replaces the
//     pending one and restarts the clock, so rapid motion never commits;
//     only a momentary pause does. The single exception is entering a
//     container zone, which commits immediately - it is the strongest
//     nesting signal and delaying it reads as lag.
//
// A Stabilizer is not safe for concurrent use; it belongs to exactly one
// [Session].
type Stabilizer struct {
	cfg Config

	current *Candidate
	pending *Candidate
	due     time.Time
}

// NewStabilizer creates a stabilizer with the given tuning.
func NewStabilizer(cfg Config) *Stabilizer {
	return &Stabilizer{cfg: cfg}
}

// Current returns the committed drop target, or nil when there is none.
func (s *Stabilizer) Current() *DropTarget {
	if s.current == nil {
		return nil
	}
	t := s.current.Target()
	return &t
}

// Latest returns the freshest resolved target - the pending candidate if
// one is waiting, otherwise the committed one. Drag end uses this: at
// release the pointer position is the user's final word and the commit
// delay no longer serves a purpose.
func (s *Stabilizer) Latest() *DropTarget {
	if s.pending != nil {
		t := s.pending.Target()
		return &t
	}
	return s.Current()
}

// Reset discards all state, cancelling any pending commit.
func (s *Stabilizer) Reset() {
	s.current, s.pending = nil, nil
	s.due = time.Time{}
}

// Offer feeds one raw resolver result into the stabilizer and returns the
// committed target afterwards, plus whether it changed in this call.
//
// The registry snapshot is consulted to detect stale state: if the
// committed region no longer exists (the node was deleted by a concurrent
// edit), the target is cleared rather than left dangling.
func (s *Stabilizer) Offer(raw *Candidate, reg *Registry, now time.Time) (*DropTarget, bool) {
	// A dropped stale target counts as a change even when the raw
	// candidate does not commit in the same call.
	stale := false
	if s.current != nil {
		if _, ok := reg.Get(s.current.Region.ID); !ok {
			s.Reset()
			if raw == nil {
				return nil, true
			}
			stale = true
			// Fall through: the raw candidate may re-establish a target.
		}
	}

	if raw == nil {
		changed := s.current != nil
		s.Reset()
		return nil, changed
	}

	if s.current != nil && raw.Region.ID == s.current.Region.ID {
		if raw.Position == s.current.Position {
			// Same target, nothing to do; drop any pending change.
			s.pending = nil
			return s.Current(), false
		}
		if s.withHysteresis(raw) == s.current.Position {
			// Inside the widened band: the flip does not stick.
			s.pending = nil
			return s.Current(), false
		}
	}

	// Entering a container zone commits immediately.
	if raw.Region.Kind == RegionContainerZone && !s.sameAs(raw) {
		s.commit(raw)
		return s.Current(), true
	}

	if s.pending != nil && samePlacement(s.pending, raw) {
		if !now.Before(s.due) {
			s.commit(raw)
			return s.Current(), true
		}
		return s.Current(), stale
	}

	// New pending candidate: cancel-and-reschedule.
	s.pending = raw
	s.due = now.Add(s.cfg.CommitDelay)
	return s.Current(), stale
}

// Tick commits the pending candidate once its deadline has passed. The
// hosting loop calls this between pointer events so a motionless pointer
// still commits. Returns the committed target and whether it changed.
func (s *Stabilizer) Tick(now time.Time) (*DropTarget, bool) {
	if s.pending == nil || now.Before(s.due) {
		return s.Current(), false
	}
	s.commit(s.pending)
	return s.Current(), true
}

func (s *Stabilizer) commit(c *Candidate) {
	s.current = c
	s.pending = nil
	s.due = time.Time{}
}

func (s *Stabilizer) sameAs(raw *Candidate) bool {
	return s.current != nil && samePlacement(s.current, raw)
}

func samePlacement(a, b *Candidate) bool {
	return a.Region.ID == b.Region.ID && a.Position == b.Position
}

// withHysteresis recomputes the raw candidate's position with the decision
// boundaries widened around the committed position. Container items use the
// three-way before/inside/after split; plain items the two-way midpoint
// split. The widened band is derived from the candidate's edge height.
func (s *Stabilizer) withHysteresis(raw *Candidate) Position {
	rect := raw.Region.Rect
	relY := raw.Pointer.Y - rect.Top
	h := s.cfg.hysteresis(raw.EdgePx)
	prev := s.current.Position

	if raw.Container && raw.Region.Kind == RegionItem {
		top := raw.EdgePx
		bottom := rect.Height - raw.EdgePx
		switch prev {
		case Before:
			top += h
		case After:
			bottom -= h
		case Inside:
			top -= h
			bottom += h
		}
		switch {
		case relY < top:
			return Before
		case relY >= bottom:
			return After
		default:
			return Inside
		}
	}

	mid := rect.Height / 2
	switch prev {
	case Before:
		mid += h
	case After:
		mid -= h
	}
	if relY < mid {
		return Before
	}
	return After
}
