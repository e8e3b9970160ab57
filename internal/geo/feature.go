package geo

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Property keys recorded by combine and uncombine.
const (
	PropOriginCombine   = "originCombineFeatureId"
	PropOriginUncombine = "originUncombineFeatureId"
)

// Feature is a single editable geometry with properties.
// The id and kind never change after construction.
type Feature struct {
	id         string
	kind       Kind
	geom       orb.Geometry
	selectable bool

	// Properties holds the user properties of the feature.
	Properties map[string]any
}

// New creates a feature from an orb geometry.
// Polygon rings may be given closed or open.
func New(id string, g orb.Geometry, props map[string]any) (*Feature, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	kind := KindOf(g)
	if kind == KindUnknown {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedGeometry, g)
	}
	if props == nil {
		props = make(map[string]any)
	}
	return &Feature{
		id:         id,
		kind:       kind,
		geom:       openRings(orb.Clone(g)),
		selectable: true,
		Properties: props,
	}, nil
}

// ID returns the feature id.
func (f *Feature) ID() string {
	return f.id
}

// Kind returns the geometry kind.
func (f *Feature) Kind() Kind {
	return f.kind
}

// IsMultiPart reports whether the feature wraps same-typed sub-geometries.
func (f *Feature) IsMultiPart() bool {
	return f.kind.IsMulti()
}

// IsSelectable reports whether select modes may pick this feature.
func (f *Feature) IsSelectable() bool {
	return f.selectable
}

// SetSelectable toggles selectability.
func (f *Feature) SetSelectable(selectable bool) {
	f.selectable = selectable
}

// Geometry returns a deep copy of the geometry with polygon rings closed.
func (f *Feature) Geometry() orb.Geometry {
	return closeRings(orb.Clone(f.geom))
}

// SetGeometry replaces the geometry. The kind must not change.
func (f *Feature) SetGeometry(g orb.Geometry) error {
	if KindOf(g) != f.kind {
		return fmt.Errorf("%w: have %s, got %s", ErrKindMismatch, f.kind, KindOf(g))
	}
	f.geom = openRings(orb.Clone(g))
	return nil
}

// Bound returns the bounding box of the geometry.
func (f *Feature) Bound() orb.Bound {
	return f.geom.Bound()
}

// IsValid reports whether the geometry has enough vertices to be kept.
func (f *Feature) IsValid() bool {
	return validGeometry(f.geom)
}

func validGeometry(g orb.Geometry) bool {
	switch g := g.(type) {
	case orb.Point:
		return true
	case orb.LineString:
		return len(g) > 1
	case orb.Polygon:
		if len(g) == 0 {
			return false
		}
		for _, ring := range g {
			if len(ring) < 3 {
				return false
			}
		}
		return true
	case orb.MultiPoint:
		return len(g) > 0
	case orb.MultiLineString:
		if len(g) == 0 {
			return false
		}
		for _, ls := range g {
			if !validGeometry(ls) {
				return false
			}
		}
		return true
	case orb.MultiPolygon:
		if len(g) == 0 {
			return false
		}
		for _, p := range g {
			if !validGeometry(p) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Clone returns an independent copy of the feature.
func (f *Feature) Clone() *Feature {
	return &Feature{
		id:         f.id,
		kind:       f.kind,
		geom:       orb.Clone(f.geom),
		selectable: f.selectable,
		Properties: copyProperties(f.Properties),
	}
}

// Parts splits a Multi feature into one feature per sub-geometry. Each part
// gets a fresh id from newID and a copy of the parent properties.
// Single-part features return nil.
func (f *Feature) Parts(newID func() string) []*Feature {
	var geoms []orb.Geometry
	switch g := f.Geometry().(type) {
	case orb.MultiPoint:
		for _, p := range g {
			geoms = append(geoms, p)
		}
	case orb.MultiLineString:
		for _, ls := range g {
			geoms = append(geoms, ls)
		}
	case orb.MultiPolygon:
		for _, p := range g {
			geoms = append(geoms, p)
		}
	default:
		return nil
	}

	parts := make([]*Feature, 0, len(geoms))
	for _, g := range geoms {
		part, err := New(newID(), g, copyProperties(f.Properties))
		if err != nil {
			continue
		}
		parts = append(parts, part)
	}
	return parts
}

// CombineGeometries concatenates the coordinate blocks of same-base-kind
// geometries, in order, into a single Multi geometry. It returns false when
// the inputs do not share a base kind.
func CombineGeometries(geoms []orb.Geometry) (orb.Geometry, bool) {
	if len(geoms) == 0 {
		return nil, false
	}
	base := KindOf(geoms[0]).Base()
	for _, g := range geoms {
		if KindOf(g).Base() != base {
			return nil, false
		}
	}

	switch base {
	case KindPoint:
		var out orb.MultiPoint
		for _, g := range geoms {
			switch g := g.(type) {
			case orb.Point:
				out = append(out, g)
			case orb.MultiPoint:
				out = append(out, g...)
			}
		}
		return out, true
	case KindLineString:
		var out orb.MultiLineString
		for _, g := range geoms {
			switch g := g.(type) {
			case orb.LineString:
				out = append(out, g)
			case orb.MultiLineString:
				out = append(out, g...)
			}
		}
		return out, true
	case KindPolygon:
		var out orb.MultiPolygon
		for _, g := range geoms {
			switch g := g.(type) {
			case orb.Polygon:
				out = append(out, g)
			case orb.MultiPolygon:
				out = append(out, g...)
			}
		}
		return out, true
	default:
		return nil, false
	}
}

func copyProperties(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = v
	}
	return out
}

// openRings drops the closing coordinate of every polygon ring.
func openRings(g orb.Geometry) orb.Geometry {
	switch g := g.(type) {
	case orb.Polygon:
		for i, ring := range g {
			g[i] = openRing(ring)
		}
		return g
	case orb.MultiPolygon:
		for i := range g {
			g[i] = openRings(g[i]).(orb.Polygon)
		}
		return g
	default:
		return g
	}
}

func openRing(r orb.Ring) orb.Ring {
	if len(r) > 1 && r[0] == r[len(r)-1] {
		return r[:len(r)-1]
	}
	return r
}

// closeRings appends the first coordinate to every open polygon ring.
func closeRings(g orb.Geometry) orb.Geometry {
	switch g := g.(type) {
	case orb.Polygon:
		for i, ring := range g {
			if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
				g[i] = append(ring, ring[0])
			}
		}
		return g
	case orb.MultiPolygon:
		for i := range g {
			g[i] = closeRings(g[i]).(orb.Polygon)
		}
		return g
	default:
		return g
	}
}
