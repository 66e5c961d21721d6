package tree

import (
	"github.com/google/uuid"
)

// Kind identifies the widget type of a node. Container kinds may own
// children; every other kind is a leaf.
type Kind string

// Widget kinds available in the palette.
const (
	// Leaf widgets.
	KindText     Kind = "text"
	KindInput    Kind = "input"
	KindTextarea Kind = "textarea"
	KindSelect   Kind = "select"
	KindCheckbox Kind = "checkbox"
	KindButton   Kind = "button"

	// Container widgets.
	KindForm  Kind = "form"
	KindGroup Kind = "group"
	KindRow   Kind = "row"
)

// IsContainer reports whether nodes of this kind may carry children.
func (k Kind) IsContainer() bool {
	switch k {
	case KindForm, KindGroup, KindRow:
		return true
	}
	return false
}

// Node is a single widget in the component tree.
//
// Children is nil for leaf kinds and may be nil or empty for a container
// with no children; the two must be treated identically. Nodes reachable
// from a Tree must be treated as immutable - use [Insert], [RemoveByIDs],
// [Move] and [UpdateProps] to derive changed trees.
type Node struct {
	ID       string         `json:"id" bson:"id"`
	Kind     Kind           `json:"kind" bson:"kind"`
	Props    map[string]any `json:"props,omitempty" bson:"props,omitempty"`
	Children []*Node        `json:"children,omitempty" bson:"children,omitempty"`
}

// Tree is the ordered root sequence of a document.
type Tree []*Node

// New creates a node of the given kind with a fresh unique ID and the
// kind's default properties.
func New(kind Kind) *Node {
	return &Node{
		ID:    uuid.NewString(),
		Kind:  kind,
		Props: defaultProps(kind),
	}
}

func defaultProps(kind Kind) map[string]any {
	switch kind {
	case KindText:
		return map[string]any{"text": "Text"}
	case KindInput:
		return map[string]any{"label": "Input", "placeholder": ""}
	case KindTextarea:
		return map[string]any{"label": "Textarea", "rows": 3}
	case KindSelect:
		return map[string]any{"label": "Select", "options": []any{}}
	case KindCheckbox:
		return map[string]any{"label": "Checkbox", "checked": false}
	case KindButton:
		return map[string]any{"label": "Button"}
	case KindForm:
		return map[string]any{"title": "Form"}
	case KindGroup:
		return map[string]any{"label": "Group"}
	case KindRow:
		return map[string]any{}
	}
	return map[string]any{}
}

// Location addresses a position in the tree: the index-th slot of the named
// parent's child list. An empty ParentID addresses the root sequence.
type Location struct {
	ParentID string `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	Index    int    `json:"index" bson:"index"`
}

// Root is the ParentID value addressing the root sequence.
const Root = ""

// Find returns the node with the given ID, searching the whole tree.
func (t Tree) Find(id string) (*Node, bool) {
	var found *Node
	t.Walk(func(n *Node, _ Location) bool {
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found, found != nil
}

// LocationOf returns the current location of the node with the given ID.
// The second return value is false if the ID is not in the tree.
func (t Tree) LocationOf(id string) (Location, bool) {
	var loc Location
	ok := false
	t.Walk(func(n *Node, l Location) bool {
		if n.ID == id {
			loc, ok = l, true
			return false
		}
		return true
	})
	return loc, ok
}

// Walk visits every node in document order (depth-first, siblings in
// order), passing each node and its location. The visit function returns
// false to stop the walk early.
func (t Tree) Walk(visit func(n *Node, loc Location) bool) {
	walkList(t, Root, visit)
}

func walkList(list []*Node, parentID string, visit func(*Node, Location) bool) bool {
	for i, n := range list {
		if !visit(n, Location{ParentID: parentID, Index: i}) {
			return false
		}
		if len(n.Children) > 0 {
			if !walkList(n.Children, n.ID, visit) {
				return false
			}
		}
	}
	return true
}

// Count returns the total number of nodes in the tree, containers and
// leaves alike.
func (t Tree) Count() int {
	total := 0
	t.Walk(func(*Node, Location) bool { total++; return true })
	return total
}

// SubtreeIDs returns the IDs of the node with the given ID and all of its
// descendants. Returns an empty set if the ID is not in the tree. The drag
// engine uses this to exclude a dragged container's own subtree from drop
// resolution.
func (t Tree) SubtreeIDs(id string) map[string]bool {
	ids := make(map[string]bool)
	n, ok := t.Find(id)
	if !ok {
		return ids
	}
	collectIDs(n, ids)
	return ids
}

func collectIDs(n *Node, ids map[string]bool) {
	ids[n.ID] = true
	for _, c := range n.Children {
		collectIDs(c, ids)
	}
}

// IsDescendant reports whether id names the ancestor itself or any node
// inside the ancestor's subtree.
func (t Tree) IsDescendant(ancestorID, id string) bool {
	return t.SubtreeIDs(ancestorID)[id]
}

func subtreeSize(n *Node) int {
	total := 1
	for _, c := range n.Children {
		total += subtreeSize(c)
	}
	return total
}
