// Package history provides the undo/redo stack for document edits.
//
// Every structural edit in formdeck goes through pkg/tree, whose operations
// return a description of what changed alongside the new tree. This package
// turns those descriptions into reversible [Change] values and manages the
// two stacks. It never inspects trees itself; undoing and redoing are just
// further pkg/tree calls.
package history

import (
	"fmt"

	"github.com/formdeck/formdeck/pkg/tree"
)

// Change is one reversible edit.
type Change interface {
	// Undo applies the inverse edit and returns the resulting tree.
	Undo(t tree.Tree) tree.Tree
	// Redo re-applies the edit and returns the resulting tree.
	Redo(t tree.Tree) tree.Tree
	// Label is a short human-readable description for the UI.
	Label() string
}

// DefaultLimit is the number of undo steps kept when none is specified.
const DefaultLimit = 100

// Stack holds the undo and redo histories for one document.
// Pushing a new change clears the redo side, matching editor convention.
type Stack struct {
	undo  []Change
	redo  []Change
	limit int
}

// NewStack creates a stack keeping at most limit undo steps; limit <= 0
// means [DefaultLimit].
func NewStack(limit int) *Stack {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Stack{limit: limit}
}

// Push records an applied change and clears the redo stack. Oldest entries
// fall off once the limit is reached.
func (s *Stack) Push(c Change) {
	if c == nil {
		return
	}
	s.undo = append(s.undo, c)
	if len(s.undo) > s.limit {
		s.undo = s.undo[1:]
	}
	s.redo = s.redo[:0]
}

// Undo reverts the most recent change. Returns the input tree and false
// when there is nothing to undo.
func (s *Stack) Undo(t tree.Tree) (tree.Tree, bool) {
	if len(s.undo) == 0 {
		return t, false
	}
	c := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, c)
	return c.Undo(t), true
}

// Redo re-applies the most recently undone change. Returns the input tree
// and false when there is nothing to redo.
func (s *Stack) Redo(t tree.Tree) (tree.Tree, bool) {
	if len(s.redo) == 0 {
		return t, false
	}
	c := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, c)
	return c.Redo(t), true
}

// CanUndo reports whether an undo step is available.
func (s *Stack) CanUndo() bool { return len(s.undo) > 0 }

// CanRedo reports whether a redo step is available.
func (s *Stack) CanRedo() bool { return len(s.redo) > 0 }

// PeekLabel returns the label of the next undo step, or "".
func (s *Stack) PeekLabel() string {
	if len(s.undo) == 0 {
		return ""
	}
	return s.undo[len(s.undo)-1].Label()
}

// -----------------------------------------------------------------------------
// Change constructors
// -----------------------------------------------------------------------------

// Inserted records an insert of node at the given location.
func Inserted(node *tree.Node, at tree.Location) Change {
	return insertChange{node: node, at: at}
}

// Removed records a removal, as reported by [tree.RemoveByIDs].
func Removed(removed []tree.RemovedNode) Change {
	return removeChange{removed: removed}
}

// Moved records a relocation, as reported by [tree.Move].
func Moved(mv tree.MovedNode) Change {
	return moveChange{id: mv.Node.ID, from: mv.From, to: mv.To}
}

// PropsChanged records a property edit, as reported by [tree.UpdateProps].
func PropsChanged(id string, prev, next map[string]any) Change {
	return propsChange{id: id, prev: prev, next: next}
}

type insertChange struct {
	node *tree.Node
	at   tree.Location
}

func (c insertChange) Undo(t tree.Tree) tree.Tree { return tree.RemoveByIDs(t, c.node.ID).Tree }
func (c insertChange) Redo(t tree.Tree) tree.Tree { return tree.Insert(t, c.node, c.at).Tree }
func (c insertChange) Label() string              { return fmt.Sprintf("insert %s", c.node.Kind) }

type removeChange struct {
	removed []tree.RemovedNode
}

func (c removeChange) Undo(t tree.Tree) tree.Tree {
	// Records are in walk order, so parents and lower sibling indices come
	// first and each re-insert lands at its recorded slot. Entries nested
	// inside an already-restored subtree collide on ID and no-op.
	for _, r := range c.removed {
		t = tree.Insert(t, r.Node, r.Loc).Tree
	}
	return t
}

func (c removeChange) Redo(t tree.Tree) tree.Tree {
	ids := make([]string, len(c.removed))
	for i, r := range c.removed {
		ids[i] = r.Node.ID
	}
	return tree.RemoveByIDs(t, ids...).Tree
}

func (c removeChange) Label() string { return fmt.Sprintf("delete %d node(s)", len(c.removed)) }

type moveChange struct {
	id   string
	from tree.Location
	to   tree.Location
}

func (c moveChange) Undo(t tree.Tree) tree.Tree { return tree.Move(t, c.id, c.from).Tree }
func (c moveChange) Redo(t tree.Tree) tree.Tree { return tree.Move(t, c.id, c.to).Tree }
func (c moveChange) Label() string              { return "move" }

type propsChange struct {
	id   string
	prev map[string]any
	next map[string]any
}

func (c propsChange) Undo(t tree.Tree) tree.Tree { return tree.ReplaceProps(t, c.id, c.prev).Tree }
func (c propsChange) Redo(t tree.Tree) tree.Tree { return tree.ReplaceProps(t, c.id, c.next).Tree }
func (c propsChange) Label() string              { return "edit properties" }
