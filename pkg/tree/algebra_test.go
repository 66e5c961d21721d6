package tree

import (
	"reflect"
	"testing"
)

// buildFixture returns:
//
//	root: [c-1(group)[btn-1(button), in-1(input)], txt-1(text)]
func buildFixture() Tree {
	return Tree{
		{ID: "c-1", Kind: KindGroup, Children: []*Node{
			{ID: "btn-1", Kind: KindButton, Props: map[string]any{"label": "Go"}},
			{ID: "in-1", Kind: KindInput},
		}},
		{ID: "txt-1", Kind: KindText},
	}
}

func ids(list []*Node) []string {
	out := make([]string, len(list))
	for i, n := range list {
		out[i] = n.ID
	}
	return out
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name      string
		node      *Node
		loc       Location
		wantIndex int
		wantRoot  []string
	}{
		{
			name:      "root front",
			node:      &Node{ID: "new-1", Kind: KindText},
			loc:       Location{ParentID: Root, Index: 0},
			wantIndex: 0,
			wantRoot:  []string{"new-1", "c-1", "txt-1"},
		},
		{
			name:      "root index clamped high",
			node:      &Node{ID: "new-2", Kind: KindText},
			loc:       Location{ParentID: Root, Index: 99},
			wantIndex: 2,
			wantRoot:  []string{"c-1", "txt-1", "new-2"},
		},
		{
			name:      "negative index clamped to zero",
			node:      &Node{ID: "new-3", Kind: KindText},
			loc:       Location{ParentID: Root, Index: -4},
			wantIndex: 0,
			wantRoot:  []string{"new-3", "c-1", "txt-1"},
		},
		{
			name:      "inside container",
			node:      &Node{ID: "new-4", Kind: KindCheckbox},
			loc:       Location{ParentID: "c-1", Index: 1},
			wantIndex: 1,
			wantRoot:  []string{"c-1", "txt-1"},
		},
		{
			name:      "missing parent fails",
			node:      &Node{ID: "new-5", Kind: KindText},
			loc:       Location{ParentID: "nope", Index: 0},
			wantIndex: -1,
			wantRoot:  []string{"c-1", "txt-1"},
		},
		{
			name:      "leaf parent fails",
			node:      &Node{ID: "new-6", Kind: KindText},
			loc:       Location{ParentID: "txt-1", Index: 0},
			wantIndex: -1,
			wantRoot:  []string{"c-1", "txt-1"},
		},
		{
			name:      "duplicate id fails",
			node:      &Node{ID: "btn-1", Kind: KindButton},
			loc:       Location{ParentID: Root, Index: 0},
			wantIndex: -1,
			wantRoot:  []string{"c-1", "txt-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := buildFixture()
			res := Insert(orig, tt.node, tt.loc)
			if res.Index != tt.wantIndex {
				t.Fatalf("Index = %d, want %d", res.Index, tt.wantIndex)
			}
			if got := ids(res.Tree); !reflect.DeepEqual(got, tt.wantRoot) {
				t.Errorf("root order = %v, want %v", got, tt.wantRoot)
			}
			// Input must be untouched.
			if got := ids(orig); !reflect.DeepEqual(got, []string{"c-1", "txt-1"}) {
				t.Errorf("input tree mutated: %v", got)
			}
			if tt.wantIndex >= 0 && tt.loc.ParentID == "c-1" {
				parent, _ := res.Tree.Find("c-1")
				if parent.Children[tt.wantIndex].ID != tt.node.ID {
					t.Errorf("node not at child index %d", tt.wantIndex)
				}
			}
		})
	}
}

func TestInsertDoesNotMutateParentChildren(t *testing.T) {
	orig := buildFixture()
	before := ids(orig[0].Children)

	Insert(orig, &Node{ID: "x", Kind: KindText}, Location{ParentID: "c-1", Index: 0})

	if got := ids(orig[0].Children); !reflect.DeepEqual(got, before) {
		t.Errorf("original child list mutated: %v, want %v", got, before)
	}
}

func TestRemoveByIDs(t *testing.T) {
	t.Run("leaf", func(t *testing.T) {
		orig := buildFixture()
		res := RemoveByIDs(orig, "btn-1")
		if len(res.Removed) != 1 {
			t.Fatalf("Removed = %d entries, want 1", len(res.Removed))
		}
		r := res.Removed[0]
		if r.Node.ID != "btn-1" || r.Loc.ParentID != "c-1" || r.Loc.Index != 0 {
			t.Errorf("removed record = %+v", r)
		}
		if parent, _ := res.Tree.Find("c-1"); len(parent.Children) != 1 {
			t.Errorf("c-1 children = %v", ids(parent.Children))
		}
	})

	t.Run("container removes subtree", func(t *testing.T) {
		orig := buildFixture()
		res := RemoveByIDs(orig, "c-1")
		if len(res.Removed) != 1 {
			t.Fatalf("descendants must not be reported separately: %d", len(res.Removed))
		}
		if res.Tree.Count() != 1 {
			t.Errorf("Count = %d, want 1", res.Tree.Count())
		}
	})

	t.Run("container and nested id both in set", func(t *testing.T) {
		orig := buildFixture()
		res := RemoveByIDs(orig, "c-1", "in-1")
		if len(res.Removed) != 2 {
			t.Fatalf("Removed = %d entries, want 2", len(res.Removed))
		}
		// Nested record keeps its position inside the removed parent.
		var nested RemovedNode
		for _, r := range res.Removed {
			if r.Node.ID == "in-1" {
				nested = r
			}
		}
		if nested.Loc.ParentID != "c-1" || nested.Loc.Index != 1 {
			t.Errorf("nested location = %+v", nested.Loc)
		}
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		orig := buildFixture()
		res := RemoveByIDs(orig, "ghost")
		if len(res.Removed) != 0 || res.Tree.Count() != orig.Count() {
			t.Errorf("expected no-op, removed %d", len(res.Removed))
		}
	})
}

// Conservation of count: nodes removed plus nodes remaining equals nodes
// before, for any id set.
func TestRemoveConservesCount(t *testing.T) {
	sets := [][]string{
		{"btn-1"},
		{"c-1"},
		{"btn-1", "txt-1"},
		{"c-1", "txt-1"},
		{"ghost"},
		nil,
	}
	for _, set := range sets {
		orig := buildFixture()
		total := orig.Count()
		res := RemoveByIDs(orig, set...)

		removedCount := 0
		seen := map[string]bool{}
		for _, r := range res.Removed {
			if seen[r.Node.ID] {
				continue
			}
			// Nested reports are already part of an outer subtree.
			inOuter := false
			for _, o := range res.Removed {
				if o.Node.ID != r.Node.ID && (Tree{o.Node}).IsDescendant(o.Node.ID, r.Node.ID) {
					inOuter = true
					break
				}
			}
			if !inOuter {
				removedCount += subtreeSize(r.Node)
			}
			seen[r.Node.ID] = true
		}
		if got := res.Tree.Count() + removedCount; got != total {
			t.Errorf("set %v: remaining %d + removed %d = %d, want %d",
				set, res.Tree.Count(), removedCount, got, total)
		}
	}
}

// Round-trip: removing a node and re-inserting it at its recorded location
// reproduces an isomorphic tree.
func TestRemoveInsertRoundTrip(t *testing.T) {
	for _, id := range []string{"btn-1", "in-1", "c-1", "txt-1"} {
		orig := buildFixture()
		rem := RemoveByIDs(orig, id)
		if len(rem.Removed) != 1 {
			t.Fatalf("remove %s: %d records", id, len(rem.Removed))
		}
		r := rem.Removed[0]
		ins := Insert(rem.Tree, r.Node, r.Loc)
		if ins.Index < 0 {
			t.Fatalf("re-insert of %s failed", id)
		}
		if !isomorphic(orig, ins.Tree) {
			t.Errorf("round-trip of %s not isomorphic", id)
		}
	}
}

func isomorphic(a, b Tree) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Kind != b[i].Kind {
			return false
		}
		if !isomorphic(a[i].Children, b[i].Children) {
			return false
		}
	}
	return true
}

func TestMove(t *testing.T) {
	// Scenario: btn-1 lives inside c-1; moving it to the root front must
	// take it out of c-1 and put it at root index 0.
	orig := buildFixture()
	res := Move(orig, "btn-1", Location{ParentID: Root, Index: 0})
	if res.Moved == nil {
		t.Fatal("Moved is nil")
	}
	if got := ids(res.Tree); !reflect.DeepEqual(got, []string{"btn-1", "c-1", "txt-1"}) {
		t.Errorf("root order = %v", got)
	}
	parent, _ := res.Tree.Find("c-1")
	for _, c := range parent.Children {
		if c.ID == "btn-1" {
			t.Error("btn-1 still inside c-1")
		}
	}
	if res.Moved.From.ParentID != "c-1" || res.Moved.From.Index != 0 {
		t.Errorf("From = %+v", res.Moved.From)
	}
	if res.Moved.To.ParentID != Root || res.Moved.To.Index != 0 {
		t.Errorf("To = %+v", res.Moved.To)
	}
}

// Acyclicity: moving a container into itself or any of its descendants must
// leave the tree unchanged.
func TestMoveRejectsCycles(t *testing.T) {
	deep := Tree{
		{ID: "a", Kind: KindGroup, Children: []*Node{
			{ID: "b", Kind: KindGroup, Children: []*Node{
				{ID: "c", Kind: KindButton},
			}},
		}},
		{ID: "d", Kind: KindText},
	}

	for _, dest := range []string{"a", "b"} {
		res := Move(deep, "a", Location{ParentID: dest, Index: 0})
		if res.Moved != nil {
			t.Errorf("move a into %s: expected rollback", dest)
		}
		if !isomorphic(res.Tree, deep) {
			t.Errorf("move a into %s: tree changed", dest)
		}
	}

	// A leaf destination is equally invalid.
	if res := Move(deep, "a", Location{ParentID: "d", Index: 0}); res.Moved != nil {
		t.Error("move into leaf: expected rollback")
	}

	// Unknown target id.
	if res := Move(deep, "ghost", Location{ParentID: Root, Index: 0}); res.Moved != nil {
		t.Error("move of unknown id: expected no-op")
	}
}

func TestMoveReorderWithinParent(t *testing.T) {
	three := Tree{
		{ID: "g", Kind: KindGroup, Children: []*Node{
			{ID: "x", Kind: KindText},
			{ID: "y", Kind: KindText},
			{ID: "z", Kind: KindText},
		}},
	}
	// Destination index is post-removal: moving x behind y lands at index 1.
	res := Move(three, "x", Location{ParentID: "g", Index: 1})
	g, _ := res.Tree.Find("g")
	if got := ids(g.Children); !reflect.DeepEqual(got, []string{"y", "x", "z"}) {
		t.Errorf("order = %v, want [y x z]", got)
	}
}

func TestUpdateProps(t *testing.T) {
	orig := buildFixture()
	res := UpdateProps(orig, "btn-1", map[string]any{"label": "Send", "primary": true})
	if res.Prev == nil || res.Next == nil {
		t.Fatal("expected prev/next maps")
	}
	if res.Prev["label"] != "Go" {
		t.Errorf("Prev label = %v", res.Prev["label"])
	}
	if res.Next["label"] != "Send" || res.Next["primary"] != true {
		t.Errorf("Next = %v", res.Next)
	}
	// Original node untouched.
	n, _ := orig.Find("btn-1")
	if n.Props["label"] != "Go" {
		t.Errorf("input mutated: %v", n.Props)
	}

	if res := UpdateProps(orig, "ghost", map[string]any{"a": 1}); res.Prev != nil || res.Next != nil {
		t.Error("unknown id: expected nil maps")
	}
}

func TestReplaceProps(t *testing.T) {
	orig := buildFixture()
	res := UpdateProps(orig, "btn-1", map[string]any{"primary": true})

	back := ReplaceProps(res.Tree, "btn-1", res.Prev)
	n, _ := back.Tree.Find("btn-1")
	if _, ok := n.Props["primary"]; ok {
		t.Error("replace kept a key absent from the new map")
	}
	if n.Props["label"] != "Go" {
		t.Errorf("Props = %v", n.Props)
	}

	if res := ReplaceProps(orig, "ghost", map[string]any{"a": 1}); res.Prev != nil {
		t.Error("unknown id: expected nil Prev")
	}
}

func TestNewNode(t *testing.T) {
	a, b := New(KindButton), New(KindButton)
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("ids not unique: %q %q", a.ID, b.ID)
	}
	if a.Kind != KindButton || a.Props["label"] != "Button" {
		t.Errorf("defaults = %+v", a)
	}
	if New(KindGroup).Children != nil {
		t.Error("new container should start without a child list")
	}
}

func TestKindIsContainer(t *testing.T) {
	for _, k := range []Kind{KindForm, KindGroup, KindRow} {
		if !k.IsContainer() {
			t.Errorf("%s should be a container", k)
		}
	}
	for _, k := range []Kind{KindText, KindInput, KindButton, KindSelect, KindCheckbox, KindTextarea} {
		if k.IsContainer() {
			t.Errorf("%s should be a leaf", k)
		}
	}
}
