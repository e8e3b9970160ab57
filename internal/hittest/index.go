// Package hittest answers "which rendered features are under this pixel or
// inside this rectangle" over the display list of the last render pass.
package hittest

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/dshills/geodraw/internal/input/mouse"
)

// Projector converts map coordinates into screen pixels.
type Projector interface {
	Project(lngLat orb.Point) mouse.Position
}

// Index holds the display features of one render pass.
type Index struct {
	proj     Projector
	features []*geojson.Feature

	clickBuffer float64
	touchBuffer float64
}

// New creates an empty index. The buffers are the half-widths, in pixels,
// of the square searched around a click or a touch.
func New(proj Projector, clickBuffer, touchBuffer float64) *Index {
	return &Index{proj: proj, clickBuffer: clickBuffer, touchBuffer: touchBuffer}
}

// SetBuffers replaces the click and touch buffers.
func (ix *Index) SetBuffers(clickBuffer, touchBuffer float64) {
	ix.clickBuffer = clickBuffer
	ix.touchBuffer = touchBuffer
}

// Reset empties the index before a render pass.
func (ix *Index) Reset() {
	ix.features = ix.features[:0]
}

// Add records one display feature. It has the signature of a render emit
// callback.
func (ix *Index) Add(gf *geojson.Feature) {
	ix.features = append(ix.features, gf)
}

// Len returns the number of indexed display features.
func (ix *Index) Len() int {
	return len(ix.features)
}

// Features returns the indexed display list.
func (ix *Index) Features() []*geojson.Feature {
	return ix.features
}

// FeaturesAt returns the display features hit by a point query (a square of
// half-width buffer around point) or a box query (the rectangle spanned by
// box). Exactly one of point or box should be set. Results are ordered
// points first, then lines, then polygons from smallest to largest, so
// handles win over the feature they belong to.
func (ix *Index) FeaturesAt(point *mouse.Position, box *[2]mouse.Position, buffer float64) []*geojson.Feature {
	var query orb.Bound
	var center orb.Point
	switch {
	case point != nil:
		center = orb.Point{point.X, point.Y}
		query = orb.Bound{
			Min: orb.Point{point.X - buffer, point.Y - buffer},
			Max: orb.Point{point.X + buffer, point.Y + buffer},
		}
	case box != nil:
		query = orb.Bound{Min: orb.Point{box[0].X, box[0].Y}, Max: orb.Point{box[0].X, box[0].Y}}
		query = query.Extend(orb.Point{box[1].X, box[1].Y})
	default:
		return nil
	}

	var hits []hit
	for _, gf := range ix.features {
		if gf == nil || gf.Geometry == nil {
			continue
		}
		screen := ix.project(gf.Geometry)
		if !screen.Bound().Intersects(query) {
			continue
		}
		if point != nil && !touches(screen, center, buffer) {
			continue
		}
		hits = append(hits, hit{feature: gf, rank: rank(gf.Geometry), area: math.Abs(planar.Area(screen))})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].rank != hits[j].rank {
			return hits[i].rank < hits[j].rank
		}
		if hits[i].rank == rankPolygon {
			return hits[i].area < hits[j].area
		}
		return false
	})
	out := make([]*geojson.Feature, len(hits))
	for i, h := range hits {
		out[i] = h.feature
	}
	return out
}

// TargetAt returns the topmost display feature at pos, or nil.
func (ix *Index) TargetAt(pos mouse.Position, touch bool) *geojson.Feature {
	buffer := ix.clickBuffer
	if touch {
		buffer = ix.touchBuffer
	}
	if hits := ix.FeaturesAt(&pos, nil, buffer); len(hits) > 0 {
		return hits[0]
	}
	return nil
}

type hit struct {
	feature *geojson.Feature
	rank    int
	area    float64
}

const (
	rankPoint = iota
	rankLine
	rankPolygon
)

func rank(g orb.Geometry) int {
	switch g.(type) {
	case orb.Point, orb.MultiPoint:
		return rankPoint
	case orb.LineString, orb.MultiLineString:
		return rankLine
	default:
		return rankPolygon
	}
}

// touches reports whether a screen geometry lies within buffer of p, or
// contains p for polygons.
func touches(g orb.Geometry, p orb.Point, buffer float64) bool {
	switch g := g.(type) {
	case orb.Polygon:
		if planar.PolygonContains(g, p) {
			return true
		}
	case orb.MultiPolygon:
		if planar.MultiPolygonContains(g, p) {
			return true
		}
	}
	return planar.DistanceFrom(g, p) <= buffer
}

func (ix *Index) project(g orb.Geometry) orb.Geometry {
	pt := func(p orb.Point) orb.Point {
		s := ix.proj.Project(p)
		return orb.Point{s.X, s.Y}
	}
	line := func(ps []orb.Point) []orb.Point {
		out := make([]orb.Point, len(ps))
		for i, p := range ps {
			out[i] = pt(p)
		}
		return out
	}
	poly := func(p orb.Polygon) orb.Polygon {
		out := make(orb.Polygon, len(p))
		for i, r := range p {
			out[i] = orb.Ring(line(r))
		}
		return out
	}

	switch g := g.(type) {
	case orb.Point:
		return pt(g)
	case orb.MultiPoint:
		return orb.MultiPoint(line(g))
	case orb.LineString:
		return orb.LineString(line(g))
	case orb.MultiLineString:
		out := make(orb.MultiLineString, len(g))
		for i, ls := range g {
			out[i] = orb.LineString(line(ls))
		}
		return out
	case orb.Polygon:
		return poly(g)
	case orb.MultiPolygon:
		out := make(orb.MultiPolygon, len(g))
		for i, p := range g {
			out[i] = poly(p)
		}
		return out
	}
	return g
}
