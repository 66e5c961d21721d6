// Package drag resolves where a drag gesture would land and applies the
// result to a component tree.
//
// The package is the placement engine behind the formdeck canvas. It has no
// dependency on any UI runtime: the hosting layer measures its widgets and
// hands the engine a fresh [Registry] snapshot of droppable regions on every
// pointer move, together with the pointer position. The engine answers with
// a stabilized [DropTarget] for visual feedback, and turns that target into
// a single pkg/tree call when the gesture completes.
//
// # Pipeline
//
//	pointer move -> Registry snapshot -> Resolve -> Stabilizer -> DropTarget
//	drag end     -> Apply (Insert or Move on the tree)
//
// [Resolve] is a pure function: given the same snapshot and pointer it
// always returns the same candidate. The [Stabilizer] adds the temporal
// behavior - hysteresis bands around zone boundaries and a short commit
// delay - so the highlighted target does not flicker under pointer jitter.
// [Session] ties the pieces together for one gesture and owns all per-drag
// state; nothing in this package keeps module-level state, so independent
// sessions (or tests) never interfere.
//
// # Time
//
// The stabilizer's commit delay is modelled as an explicit deadline checked
// against a caller-supplied time.Time rather than a background timer. The
// hosting event loop passes its current time into [Session.Update] and
// [Session.Tick]; tests pass fabricated instants. At most one pending
// commit exists per session, and it is cancelled by any change of raw
// candidate, by drag end, and by cancellation.
//
// # Tunables
//
// Edge-zone sizing, hysteresis width and the commit delay are fields of
// [Config]. [DefaultConfig] returns the values the builder UI uses.
package drag
