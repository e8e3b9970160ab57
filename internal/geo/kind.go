package geo

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Kind is the closed set of geometry types a Feature can hold.
type Kind uint8

const (
	// KindUnknown is the zero value and never belongs to a live feature.
	KindUnknown Kind = iota
	KindPoint
	KindLineString
	KindPolygon
	KindMultiPoint
	KindMultiLineString
	KindMultiPolygon
)

// String returns the GeoJSON type name.
func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "Point"
	case KindLineString:
		return "LineString"
	case KindPolygon:
		return "Polygon"
	case KindMultiPoint:
		return "MultiPoint"
	case KindMultiLineString:
		return "MultiLineString"
	case KindMultiPolygon:
		return "MultiPolygon"
	default:
		return "Unknown"
	}
}

// ParseKind parses a GeoJSON geometry type name.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "Point":
		return KindPoint, nil
	case "LineString":
		return KindLineString, nil
	case "Polygon":
		return KindPolygon, nil
	case "MultiPoint":
		return KindMultiPoint, nil
	case "MultiLineString":
		return KindMultiLineString, nil
	case "MultiPolygon":
		return KindMultiPolygon, nil
	default:
		return KindUnknown, fmt.Errorf("%w: %s", ErrUnsupportedGeometry, s)
	}
}

// KindOf returns the kind of an orb geometry.
func KindOf(g orb.Geometry) Kind {
	if g == nil {
		return KindUnknown
	}
	switch g.(type) {
	case orb.Point, orb.LineString, orb.Polygon,
		orb.MultiPoint, orb.MultiLineString, orb.MultiPolygon:
		k, _ := ParseKind(g.GeoJSONType())
		return k
	default:
		return KindUnknown
	}
}

// IsMulti reports whether the kind is one of the Multi variants.
func (k Kind) IsMulti() bool {
	return k == KindMultiPoint || k == KindMultiLineString || k == KindMultiPolygon
}

// Base strips the Multi prefix: MultiPolygon -> Polygon.
func (k Kind) Base() Kind {
	switch k {
	case KindMultiPoint:
		return KindPoint
	case KindMultiLineString:
		return KindLineString
	case KindMultiPolygon:
		return KindPolygon
	default:
		return k
	}
}

// Multi adds the Multi prefix: Polygon -> MultiPolygon.
func (k Kind) Multi() Kind {
	switch k {
	case KindPoint:
		return KindMultiPoint
	case KindLineString:
		return KindMultiLineString
	case KindPolygon:
		return KindMultiPolygon
	default:
		return k
	}
}
