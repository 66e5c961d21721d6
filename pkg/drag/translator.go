package drag

import "github.com/formdeck/formdeck/pkg/tree"

// Result describes the tree mutation a completed drag produced. Exactly one
// of Inserted/Moved is set on success; OK is false when the drop was
// refused and Tree is then the unchanged input.
type Result struct {
	Tree     tree.Tree
	Inserted *tree.Node      // the node created for a palette drop
	At       tree.Location   // where a palette drop landed
	Moved    *tree.MovedNode // set for moves of existing nodes
	OK       bool
}

// PlacementFor converts a drop target into the concrete tree location an
// insert should use, evaluated against the current tree. Returns false when
// the target node no longer exists (a concurrent edit removed it) or names
// an illegal placement, such as "inside" a leaf.
func PlacementFor(t tree.Tree, target DropTarget) (tree.Location, bool) {
	if target.TargetID == RootOwner {
		// The root zone always appends at the end of the root sequence.
		return tree.Location{ParentID: tree.Root, Index: len(t)}, true
	}

	switch target.Position {
	case Inside:
		n, ok := t.Find(target.TargetID)
		if !ok || !n.Kind.IsContainer() {
			return tree.Location{}, false
		}
		return tree.Location{ParentID: target.TargetID, Index: len(n.Children)}, true
	case Before, After:
		loc, ok := t.LocationOf(target.TargetID)
		if !ok {
			return tree.Location{}, false
		}
		if target.Position == After {
			loc.Index++
		}
		return loc, true
	}
	return tree.Location{}, false
}

// Apply translates the stabilized drop target into a single pkg/tree call
// and executes it: an Insert of a freshly built node for palette drags, a
// Move for existing nodes. Invalid drops - vanished targets, a node dropped
// into its own subtree - degrade to a no-op with OK false; they never
// panic, and the tree algebra's own acyclicity rollback backs up the early
// check here.
func Apply(t tree.Tree, target DropTarget, active ActiveDrag) Result {
	loc, ok := PlacementFor(t, target)
	if !ok {
		return Result{Tree: t}
	}

	if active.ID == "" {
		node := tree.New(active.Kind)
		ins := tree.Insert(t, node, loc)
		if ins.Index < 0 {
			return Result{Tree: t}
		}
		return Result{
			Tree:     ins.Tree,
			Inserted: node,
			At:       tree.Location{ParentID: loc.ParentID, Index: ins.Index},
			OK:       true,
		}
	}

	// Dropping a node onto itself or into its own subtree is refused up
	// front so the UI can react without waiting for the rollback.
	if active.Excluded[target.TargetID] || active.Excluded[loc.ParentID] {
		return Result{Tree: t}
	}

	// Move interprets the destination after removal: when source and
	// destination share a parent and the source sits above the slot, the
	// removal shifts every lower sibling up by one.
	if from, ok := t.LocationOf(active.ID); ok {
		if from.ParentID == loc.ParentID && from.Index < loc.Index {
			loc.Index--
		}
	}

	mv := tree.Move(t, active.ID, loc)
	if mv.Moved == nil {
		return Result{Tree: t}
	}
	return Result{Tree: mv.Tree, Moved: mv.Moved, OK: true}
}
