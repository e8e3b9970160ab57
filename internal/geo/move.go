package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// Movement limits in degrees. Features may be pushed up to the poles but
// their inner edge stays inside the rendered latitude band.
const (
	latMin         = -90.0
	latRenderedMin = -85.0
	latMax         = 90.0
	latRenderedMax = 85.0
	lngMin         = -270.0
	lngMax         = 270.0
)

// Move translates every vertex by delta (lng, lat).
func (f *Feature) Move(delta orb.Point) {
	if p, ok := f.geom.(orb.Point); ok {
		f.geom = orb.Point{p[0] + delta[0], p[1] + delta[1]}
		return
	}
	eachPoint(f.geom, func(p *orb.Point) {
		p[0] += delta[0]
		p[1] += delta[1]
	})
}

// MoveCoordinates translates only the vertices at the given paths.
func (f *Feature) MoveCoordinates(paths []CoordPath, delta orb.Point) {
	for _, path := range paths {
		pt, err := f.CoordinateAt(path)
		if err != nil {
			continue
		}
		_ = f.UpdateCoordinate(path, orb.Point{pt[0] + delta[0], pt[1] + delta[1]})
	}
}

// MoveFeatures applies a constrained delta to every feature.
func MoveFeatures(features []*Feature, delta orb.Point) {
	bounds := make([]orb.Bound, len(features))
	for i, f := range features {
		bounds[i] = f.Bound()
	}
	d := ConstrainDelta(bounds, delta)
	for _, f := range features {
		f.Move(d)
	}
}

// ConstrainDelta limits a move so that no feature leaves the valid
// latitude range, and wraps longitude moves that would leave [-270, 270].
func ConstrainDelta(bounds []orb.Bound, delta orb.Point) orb.Point {
	northInner, southInner := latMin, latMax
	northOuter, southOuter := latMin, latMax
	west, east := lngMax, lngMin

	for _, b := range bounds {
		south, north := b.Min[1], b.Max[1]
		if south > northInner {
			northInner = south
		}
		if north < southInner {
			southInner = north
		}
		if north > northOuter {
			northOuter = north
		}
		if south < southOuter {
			southOuter = south
		}
		if b.Min[0] < west {
			west = b.Min[0]
		}
		if b.Max[0] > east {
			east = b.Max[0]
		}
	}

	d := delta
	if northInner+d[1] > latRenderedMax {
		d[1] = latRenderedMax - northInner
	}
	if northOuter+d[1] > latMax {
		d[1] = latMax - northOuter
	}
	if southInner+d[1] < latRenderedMin {
		d[1] = latRenderedMin - southInner
	}
	if southOuter+d[1] < latMin {
		d[1] = latMin - southOuter
	}
	if west+d[0] <= lngMin {
		d[0] += math.Ceil(math.Abs(d[0])/360) * 360
	}
	if east+d[0] >= lngMax {
		d[0] -= math.Ceil(math.Abs(d[0])/360) * 360
	}
	return d
}

// eachPoint visits every vertex in place.
func eachPoint(g orb.Geometry, fn func(*orb.Point)) {
	switch g := g.(type) {
	case orb.LineString:
		for i := range g {
			fn(&g[i])
		}
	case orb.MultiPoint:
		for i := range g {
			fn(&g[i])
		}
	case orb.Polygon:
		for _, ring := range g {
			for i := range ring {
				fn(&ring[i])
			}
		}
	case orb.MultiLineString:
		for _, ls := range g {
			for i := range ls {
				fn(&ls[i])
			}
		}
	case orb.MultiPolygon:
		for _, p := range g {
			for _, ring := range p {
				for i := range ring {
					fn(&ring[i])
				}
			}
		}
	}
}
