package geo

import (
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// HandleOptions controls SupplementaryPoints.
type HandleOptions struct {
	// Midpoints adds a midpoint handle between consecutive vertices.
	Midpoints bool

	// SelectedPaths are vertex paths rendered as active.
	SelectedPaths []string
}

// SupplementaryPoints generates the vertex and midpoint handles of a
// display feature. Handles carry the parent id and the coordinate path of
// the vertex they stand for; a midpoint carries the path at which a new
// vertex would be inserted.
func SupplementaryPoints(gf *geojson.Feature, opts HandleOptions) []*geojson.Feature {
	if gf == nil || gf.Geometry == nil {
		return nil
	}
	h := handleBuilder{
		parent:   DisplayID(gf),
		opts:     opts,
		selected: make(map[string]bool, len(opts.SelectedPaths)),
	}
	for _, p := range opts.SelectedPaths {
		h.selected[p] = true
	}
	h.geometry(gf.Geometry, "")
	return h.out
}

type handleBuilder struct {
	parent   string
	opts     HandleOptions
	selected map[string]bool
	out      []*geojson.Feature
}

func joinPath(base string, i int) string {
	if base == "" {
		return strconv.Itoa(i)
	}
	return base + "." + strconv.Itoa(i)
}

func (h *handleBuilder) geometry(g orb.Geometry, base string) {
	switch g := g.(type) {
	case orb.Point:
		h.out = append(h.out, h.vertex(g, base))
	case orb.LineString:
		h.line(g, base)
	case orb.Polygon:
		for i, ring := range g {
			h.line(ring, joinPath(base, i))
		}
	case orb.MultiPoint:
		for i, p := range g {
			h.geometry(p, joinPath(base, i))
		}
	case orb.MultiLineString:
		for i, ls := range g {
			h.geometry(ls, joinPath(base, i))
		}
	case orb.MultiPolygon:
		for i, p := range g {
			h.geometry(p, joinPath(base, i))
		}
	}
}

// line emits handles for a line or ring. A closing coordinate equal to
// the first one gets a midpoint but no vertex of its own.
func (h *handleBuilder) line(pts []orb.Point, base string) {
	var last *geojson.Feature
	var lastPt orb.Point
	for i, pt := range pts {
		path := joinPath(base, i)
		v := h.vertex(pt, path)
		if h.opts.Midpoints && last != nil {
			h.out = append(h.out, h.midpoint(lastPt, pt, path))
		}
		last, lastPt = v, pt
		if i == 0 || pt != pts[0] {
			h.out = append(h.out, v)
		}
	}
}

func (h *handleBuilder) vertex(pt orb.Point, path string) *geojson.Feature {
	return NewVertex(h.parent, pt, path, h.selected[path])
}

// NewVertex builds a single vertex handle.
func NewVertex(parent string, pt orb.Point, path string, selected bool) *geojson.Feature {
	f := geojson.NewFeature(pt)
	f.Properties[PropMeta] = MetaVertex
	f.Properties[PropParent] = parent
	f.Properties[PropCoordPath] = path
	if selected {
		f.Properties[PropActive] = ActiveTrue
	} else {
		f.Properties[PropActive] = ActiveFalse
	}
	return f
}

func (h *handleBuilder) midpoint(a, b orb.Point, path string) *geojson.Feature {
	mid := orb.Point{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2}
	f := geojson.NewFeature(mid)
	f.Properties[PropMeta] = MetaMidpoint
	f.Properties[PropParent] = h.parent
	f.Properties[PropCoordPath] = path
	f.Properties["lng"] = mid[0]
	f.Properties["lat"] = mid[1]
	return f
}
