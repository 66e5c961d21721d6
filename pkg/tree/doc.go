// Package tree implements the component tree that formdeck documents are
// built from, together with the four structural operations every other
// subsystem is written against.
//
// A document body is an ordered sequence of [Node] values ([Tree]). Nodes of
// a container [Kind] own an ordered child list; all other kinds are leaves.
// Node IDs are unique across the whole tree, not just within a sibling list.
//
// # Operations
//
// All mutations go through four pure functions:
//
//   - [Insert]: place a new node at a [Location]
//   - [RemoveByIDs]: delete nodes (and their subtrees) wherever they occur
//   - [Move]: relocate an existing node, with rollback on invalid targets
//   - [UpdateProps]: shallow-merge a property patch into one node
//
// Each function leaves its input untouched and returns a new tree value plus
// a structured description of the change. The description carries enough
// information (pre-removal locations, previous property maps) for callers to
// build undo records without re-querying the tree. Structural sharing is
// used aggressively: only nodes on the path to the edit are copied.
//
// # Failure semantics
//
// Ordinary failures (unknown IDs, non-container parents, destinations inside
// the moved subtree) are signalled through the result value - a sentinel
// index of -1, a nil Moved field, an unchanged tree - never through panics
// or error returns. A bad call is a no-op, which keeps a live drag gesture
// from crashing on a single stale frame.
//
// # Concurrency
//
// Trees are plain values. Because no function mutates its input, a tree may
// be read from any number of goroutines while a replacement is computed;
// publishing the new value is the caller's concern.
package tree
