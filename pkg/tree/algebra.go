package tree

import "slices"

// InsertResult describes the outcome of an [Insert] call.
type InsertResult struct {
	Tree  Tree
	Index int // position the node landed at, or -1 if the insert failed
}

// RemovedNode pairs a removed node with its pre-removal location, so the
// removal can be undone by re-inserting at the same spot.
type RemovedNode struct {
	Node *Node
	Loc  Location
}

// RemoveResult describes the outcome of a [RemoveByIDs] call.
type RemoveResult struct {
	Tree    Tree
	Removed []RemovedNode
}

// MovedNode describes one relocated node.
type MovedNode struct {
	Node *Node
	From Location
	To   Location
}

// MoveResult describes the outcome of a [Move] call. Moved is nil when the
// target did not exist or the destination was invalid; in both cases Tree
// is the unchanged input.
type MoveResult struct {
	Tree  Tree
	Moved *MovedNode
}

// PatchResult describes the outcome of an [UpdateProps] call. Prev and Next
// are nil when the target node did not exist.
type PatchResult struct {
	Tree Tree
	Prev map[string]any
	Next map[string]any
}

// Insert places node at loc and returns the new tree along with the index
// the node actually landed at. loc.Index is clamped into [0, len] of the
// destination list.
//
// The call fails - returning the input tree and Index -1 - when loc names a
// parent that is missing or not a container, or when any ID in the inserted
// subtree already exists in the tree. Failure is a no-op, never a panic.
func Insert(t Tree, node *Node, loc Location) InsertResult {
	if node == nil {
		return InsertResult{Tree: t, Index: -1}
	}
	if collides(t, node) {
		return InsertResult{Tree: t, Index: -1}
	}
	if loc.ParentID == Root {
		idx := clampIndex(loc.Index, len(t))
		return InsertResult{Tree: insertSlice(t, idx, node), Index: idx}
	}
	list, idx := insertUnder(t, node, loc)
	if idx < 0 {
		return InsertResult{Tree: t, Index: -1}
	}
	return InsertResult{Tree: list, Index: idx}
}

// RemoveByIDs deletes every node whose ID is in ids, wherever it occurs,
// and returns the new tree plus the removed nodes with their pre-removal
// locations (indices as they were before any sibling shifted).
//
// Removing a container removes its whole subtree. Descendants of a removed
// container are only reported separately when their ID is also in ids;
// their recorded location is the position they held inside the removed
// parent.
func RemoveByIDs(t Tree, ids ...string) RemoveResult {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	var removed []RemovedNode
	newTree := removeFrom(t, Root, set, &removed, false)
	if len(removed) == 0 {
		return RemoveResult{Tree: t}
	}
	return RemoveResult{Tree: newTree, Removed: removed}
}

// Move relocates the node with the given ID to the destination location,
// interpreted against the tree after the node has been removed. It is
// remove-then-insert under the hood, so a destination inside the moved
// subtree (or the node itself) makes the insert fail; Move then rolls back
// and returns the original tree with Moved nil. The same applies when the
// ID does not exist.
func Move(t Tree, id string, to Location) MoveResult {
	rem := RemoveByIDs(t, id)
	if len(rem.Removed) == 0 {
		return MoveResult{Tree: t}
	}
	taken := rem.Removed[0]
	ins := Insert(rem.Tree, taken.Node, to)
	if ins.Index < 0 {
		return MoveResult{Tree: t}
	}
	return MoveResult{
		Tree: ins.Tree,
		Moved: &MovedNode{
			Node: taken.Node,
			From: taken.Loc,
			To:   Location{ParentID: to.ParentID, Index: ins.Index},
		},
	}
}

// UpdateProps shallow-merges patch into the properties of the node with the
// given ID. The previous and resulting property maps are returned so the
// caller can build an undo record without re-querying the tree. An unknown
// ID leaves the tree unchanged and returns nil maps.
func UpdateProps(t Tree, id string, patch map[string]any) PatchResult {
	newList, prev, next := patchIn(t, id, patch)
	if next == nil {
		return PatchResult{Tree: t}
	}
	return PatchResult{Tree: newList, Prev: prev, Next: next}
}

// ReplaceProps swaps the node's property map wholesale instead of merging.
// [UpdateProps] can only add or overwrite keys; undo needs to restore the
// exact previous map, including the absence of keys a patch introduced.
// Same failure semantics as UpdateProps.
func ReplaceProps(t Tree, id string, props map[string]any) PatchResult {
	newList, prev := replaceIn(t, id, props)
	if newList == nil {
		return PatchResult{Tree: t}
	}
	return PatchResult{Tree: newList, Prev: prev, Next: props}
}

// -----------------------------------------------------------------------------
// internals
// -----------------------------------------------------------------------------

func clampIndex(i, length int) int {
	if i < 0 {
		return 0
	}
	if i > length {
		return length
	}
	return i
}

// collides reports whether any ID in the subtree rooted at node already
// exists in t. Keeps the global-uniqueness invariant even for subtree
// re-inserts.
func collides(t Tree, node *Node) bool {
	sub := make(map[string]bool)
	collectIDs(node, sub)
	hit := false
	t.Walk(func(n *Node, _ Location) bool {
		if sub[n.ID] {
			hit = true
			return false
		}
		return true
	})
	return hit
}

func insertSlice(list []*Node, idx int, node *Node) []*Node {
	out := make([]*Node, 0, len(list)+1)
	out = append(out, list[:idx]...)
	out = append(out, node)
	out = append(out, list[idx:]...)
	return out
}

// insertUnder path-copies down to loc.ParentID and splices node into its
// children. Returns (nil, -1) when the parent is missing or not a container.
func insertUnder(list []*Node, node *Node, loc Location) ([]*Node, int) {
	for i, n := range list {
		if n.ID == loc.ParentID {
			if !n.Kind.IsContainer() {
				return nil, -1
			}
			idx := clampIndex(loc.Index, len(n.Children))
			cp := *n
			cp.Children = insertSlice(n.Children, idx, node)
			out := slices.Clone(list)
			out[i] = &cp
			return out, idx
		}
		if len(n.Children) > 0 {
			if kids, idx := insertUnder(n.Children, node, loc); idx >= 0 {
				cp := *n
				cp.Children = kids
				out := slices.Clone(list)
				out[i] = &cp
				return out, idx
			}
		}
	}
	return nil, -1
}

// removeFrom rebuilds list without the nodes in set. inRemoved marks that
// the whole list lives inside an already-removed subtree, in which case
// matches are reported but nothing is rebuilt.
func removeFrom(list []*Node, parentID string, set map[string]bool, removed *[]RemovedNode, inRemoved bool) []*Node {
	if inRemoved {
		for i, n := range list {
			if set[n.ID] {
				*removed = append(*removed, RemovedNode{Node: n, Loc: Location{ParentID: parentID, Index: i}})
			}
			removeFrom(n.Children, n.ID, set, removed, true)
		}
		return nil
	}

	out := make([]*Node, 0, len(list))
	changed := false
	for i, n := range list {
		if set[n.ID] {
			*removed = append(*removed, RemovedNode{Node: n, Loc: Location{ParentID: parentID, Index: i}})
			removeFrom(n.Children, n.ID, set, removed, true)
			changed = true
			continue
		}
		if len(n.Children) > 0 {
			before := len(*removed)
			kids := removeFrom(n.Children, n.ID, set, removed, false)
			if len(*removed) != before {
				cp := *n
				cp.Children = kids
				out = append(out, &cp)
				changed = true
				continue
			}
		}
		out = append(out, n)
	}
	if !changed {
		return list
	}
	return out
}

func replaceIn(list []*Node, id string, props map[string]any) ([]*Node, map[string]any) {
	for i, n := range list {
		if n.ID == id {
			cp := *n
			cp.Props = props
			out := slices.Clone(list)
			out[i] = &cp
			return out, n.Props
		}
		if len(n.Children) > 0 {
			if kids, prev := replaceIn(n.Children, id, props); kids != nil {
				cp := *n
				cp.Children = kids
				out := slices.Clone(list)
				out[i] = &cp
				return out, prev
			}
		}
	}
	return nil, nil
}

func patchIn(list []*Node, id string, patch map[string]any) ([]*Node, map[string]any, map[string]any) {
	for i, n := range list {
		if n.ID == id {
			prev := n.Props
			next := make(map[string]any, len(prev)+len(patch))
			for k, v := range prev {
				next[k] = v
			}
			for k, v := range patch {
				next[k] = v
			}
			cp := *n
			cp.Props = next
			out := slices.Clone(list)
			out[i] = &cp
			return out, prev, next
		}
		if len(n.Children) > 0 {
			if kids, prev, next := patchIn(n.Children, id, patch); next != nil {
				cp := *n
				cp.Children = kids
				out := slices.Clone(list)
				out[i] = &cp
				return out, prev, next
			}
		}
	}
	return nil, nil, nil
}
