package cli

import (
	"testing"
	"time"

	"github.com/formdeck/formdeck/pkg/drag"
	"github.com/formdeck/formdeck/pkg/tree"
)

func timeAt(ms int) time.Time {
	return time.Unix(0, int64(ms)*int64(time.Millisecond))
}

func testBody() tree.Tree {
	grp := tree.New(tree.KindGroup)
	grp.ID = "grp"
	a := tree.New(tree.KindInput)
	a.ID = "a"
	b := tree.New(tree.KindButton)
	b.ID = "b"
	grp.Children = []*tree.Node{a}
	return tree.Tree{grp, b}
}

func TestBuildLayoutRows(t *testing.T) {
	rows, _ := buildLayout(testBody(), 60, 20)

	// grp, a, grp's zone row, b
	if len(rows) != 4 {
		t.Fatalf("len(rows) = %d, want 4", len(rows))
	}

	if rows[0].id != "grp" || !rows[0].container {
		t.Errorf("rows[0] = %+v, want container grp", rows[0])
	}
	if rows[1].id != "a" || rows[1].depth != 2 {
		t.Errorf("rows[1] = %+v, want a at depth 2", rows[1])
	}
	if rows[2].id != "grp" || !rows[2].zone {
		t.Errorf("rows[2] = %+v, want grp zone row", rows[2])
	}
	if rows[3].id != "b" || rows[3].zone {
		t.Errorf("rows[3] = %+v, want item b", rows[3])
	}
}

func TestBuildLayoutRegions(t *testing.T) {
	_, reg := buildLayout(testBody(), 60, 20)

	item, ok := reg.Get("item:grp")
	if !ok {
		t.Fatal("missing region item:grp")
	}
	// The item region spans grp's header row and its children, but not the
	// zone row.
	if item.Rect.Top != 0 || item.Rect.Height != 2 {
		t.Errorf("item:grp rect = %+v, want top 0 height 2", item.Rect)
	}

	zone, ok := reg.Get("zone:grp")
	if !ok {
		t.Fatal("missing region zone:grp")
	}
	if zone.Rect.Top != 1 || zone.Rect.Height != 2 {
		t.Errorf("zone:grp rect = %+v, want top 1 height 2", zone.Rect)
	}
	if zone.OwnerID != "grp" || zone.Kind != drag.RegionContainerZone {
		t.Errorf("zone:grp = %+v, want container zone owned by grp", zone)
	}

	root, ok := reg.Get("root")
	if !ok {
		t.Fatal("missing root region")
	}
	if root.OwnerID != drag.RootOwner {
		t.Errorf("root owner = %q, want %q", root.OwnerID, drag.RootOwner)
	}
	if root.Rect.Height < 4 {
		t.Errorf("root height = %v, should cover all rows", root.Rect.Height)
	}
}

func TestBuildLayoutEmpty(t *testing.T) {
	rows, reg := buildLayout(tree.Tree{}, 60, 20)

	if len(rows) != 0 {
		t.Errorf("len(rows) = %d, want 0", len(rows))
	}
	// Only the root zone remains, so every drop appends at the root.
	if reg.Len() != 1 {
		t.Errorf("reg.Len() = %d, want 1", reg.Len())
	}
}

func TestPaletteDropInsertsNode(t *testing.T) {
	body := testBody()
	rows, reg := buildLayout(body, 60, 20)
	if len(rows) == 0 {
		t.Fatal("empty layout")
	}

	sess := drag.NewSession(drag.Config{
		EdgeRatio: 0.25, MinEdge: 1, MaxEdge: 2,
		HysteresisRatio: 0.5, CommitDelay: 0,
	})
	sess.StartPalette(tree.KindText)

	// Point at the center of the zone row inside grp.
	ptr := drag.Point{X: 5.5, Y: 2.5}
	sess.Update(reg, ptr, false, timeAt(0))
	res := sess.Drop(body, timeAt(1))

	if !res.OK || res.Inserted == nil {
		t.Fatalf("Drop() = %+v, want inserted node", res)
	}
	if res.At.ParentID != "grp" {
		t.Errorf("inserted under %q, want grp", res.At.ParentID)
	}
	if res.Tree.Count() != body.Count()+1 {
		t.Errorf("Count() = %d, want %d", res.Tree.Count(), body.Count()+1)
	}
}
