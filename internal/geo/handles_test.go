package geo

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestSupplementaryPointsPolygon(t *testing.T) {
	f, _ := New("p", square(0, 0), nil)
	handles := SupplementaryPoints(f.Internal("simple_select", false), HandleOptions{})

	if len(handles) != 4 {
		t.Fatalf("SupplementaryPoints() len = %d, want 4", len(handles))
	}
	want := []string{"0.0", "0.1", "0.2", "0.3"}
	for i, h := range handles {
		if DisplayMeta(h) != MetaVertex {
			t.Errorf("handle %d meta = %q", i, DisplayMeta(h))
		}
		if DisplayParent(h) != "p" {
			t.Errorf("handle %d parent = %q", i, DisplayParent(h))
		}
		if got := h.Properties[PropCoordPath]; got != want[i] {
			t.Errorf("handle %d coord_path = %v, want %s", i, got, want[i])
		}
	}
}

func TestSupplementaryPointsMidpoints(t *testing.T) {
	f, _ := New("l", orb.LineString{{0, 0}, {2, 0}, {2, 2}}, nil)
	handles := SupplementaryPoints(f.Internal("direct_select", false), HandleOptions{
		Midpoints:     true,
		SelectedPaths: []string{"1"},
	})

	var vertices, midpoints int
	for _, h := range handles {
		switch DisplayMeta(h) {
		case MetaVertex:
			vertices++
			if h.Properties[PropCoordPath] == "1" && h.Properties[PropActive] != ActiveTrue {
				t.Error("selected vertex should be active")
			}
		case MetaMidpoint:
			midpoints++
		}
	}
	if vertices != 3 || midpoints != 2 {
		t.Errorf("vertices = %d, midpoints = %d, want 3 and 2", vertices, midpoints)
	}

	pt, _ := DisplayPoint(handles[1])
	if DisplayMeta(handles[1]) != MetaMidpoint || pt != (orb.Point{1, 0}) {
		t.Errorf("first midpoint = %v at %v", DisplayMeta(handles[1]), pt)
	}
}

func TestSupplementaryPointsMultiPolygonPaths(t *testing.T) {
	f, _ := New("m", orb.MultiPolygon{square(0, 0), square(3, 3)}, nil)
	handles := SupplementaryPoints(f.Internal("simple_select", false), HandleOptions{})
	if len(handles) != 8 {
		t.Fatalf("SupplementaryPoints() len = %d, want 8", len(handles))
	}
	if got := handles[4].Properties[PropCoordPath]; got != "1.0.0" {
		t.Errorf("coord_path = %v, want 1.0.0", got)
	}
}
