// Package geo provides the feature model used by the drawing core.
//
// A Feature is a single geometry (Point, LineString, Polygon or one of the
// Multi variants) with an immutable id, an immutable kind and a mutable
// property map. Geometry is held as github.com/paulmach/orb values.
// Polygon rings are kept open internally (the closing coordinate is
// dropped) so that vertex paths address every editable vertex exactly once;
// Geometry and ToGeoJSON re-close them.
//
// # Coordinate Paths
//
// Vertices are addressed with dotted index paths:
//
//	LineString, MultiPoint   "i"
//	Polygon, MultiLineString "ring.i" / "part.i"
//	MultiPolygon             "part.ring.i"
//
// # Display Features
//
// Internal returns the GeoJSON form handed to the rendering collaborator,
// tagged with meta properties (id, meta, meta:type, active, mode).
// SupplementaryPoints derives the synthetic vertex and midpoint handles
// for an active feature.
package geo
