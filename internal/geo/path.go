package geo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// CoordPath addresses a vertex inside a geometry, outermost index first.
type CoordPath []int

// ParsePath parses a dotted path such as "0.2.5". The empty string is the
// empty path, which addresses a Point.
func ParsePath(s string) (CoordPath, error) {
	if s == "" {
		return CoordPath{}, nil
	}
	parts := strings.Split(s, ".")
	path := make(CoordPath, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCoordPath, s)
		}
		path[i] = n
	}
	return path, nil
}

// String returns the dotted form.
func (p CoordPath) String() string {
	parts := make([]string, len(p))
	for i, n := range p {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// Parent returns the path without its last index.
func (p CoordPath) Parent() CoordPath {
	if len(p) == 0 {
		return p
	}
	return p[:len(p)-1]
}

// Last returns the last index, or 0 for the empty path.
func (p CoordPath) Last() int {
	if len(p) == 0 {
		return 0
	}
	return p[len(p)-1]
}

// locate resolves a path to the point list that contains the vertex, the
// vertex index in that list, and a setter that writes a modified list back.
func (f *Feature) locate(path CoordPath) ([]orb.Point, int, func([]orb.Point), error) {
	bad := fmt.Errorf("%w: %s on %s", ErrInvalidCoordPath, path, f.kind)

	switch g := f.geom.(type) {
	case orb.Point:
		if len(path) > 1 || path.Last() != 0 {
			return nil, 0, nil, bad
		}
		return []orb.Point{g}, 0, func(pts []orb.Point) {
			if len(pts) > 0 {
				f.geom = pts[0]
			}
		}, nil

	case orb.LineString:
		if len(path) != 1 {
			return nil, 0, nil, bad
		}
		return g, path[0], func(pts []orb.Point) { f.geom = orb.LineString(pts) }, nil

	case orb.MultiPoint:
		if len(path) != 1 {
			return nil, 0, nil, bad
		}
		return g, path[0], func(pts []orb.Point) { f.geom = orb.MultiPoint(pts) }, nil

	case orb.Polygon:
		if len(path) != 2 || path[0] >= len(g) {
			return nil, 0, nil, bad
		}
		ring := path[0]
		return g[ring], path[1], func(pts []orb.Point) { g[ring] = orb.Ring(pts) }, nil

	case orb.MultiLineString:
		if len(path) != 2 || path[0] >= len(g) {
			return nil, 0, nil, bad
		}
		part := path[0]
		return g[part], path[1], func(pts []orb.Point) { g[part] = orb.LineString(pts) }, nil

	case orb.MultiPolygon:
		if len(path) != 3 || path[0] >= len(g) || path[1] >= len(g[path[0]]) {
			return nil, 0, nil, bad
		}
		part, ring := path[0], path[1]
		return g[part][ring], path[2], func(pts []orb.Point) { g[part][ring] = orb.Ring(pts) }, nil
	}
	return nil, 0, nil, bad
}

// CoordinateAt returns the vertex addressed by path.
func (f *Feature) CoordinateAt(path CoordPath) (orb.Point, error) {
	pts, idx, _, err := f.locate(path)
	if err != nil {
		return orb.Point{}, err
	}
	if idx >= len(pts) {
		return orb.Point{}, fmt.Errorf("%w: %s", ErrInvalidCoordPath, path)
	}
	return pts[idx], nil
}

// UpdateCoordinate moves the vertex addressed by path to pt.
func (f *Feature) UpdateCoordinate(path CoordPath, pt orb.Point) error {
	pts, idx, set, err := f.locate(path)
	if err != nil {
		return err
	}
	if idx >= len(pts) {
		return fmt.Errorf("%w: %s", ErrInvalidCoordPath, path)
	}
	pts[idx] = pt
	set(pts)
	return nil
}

// AddCoordinate inserts pt so that it ends up at path. The last index may
// equal the current length to append.
func (f *Feature) AddCoordinate(path CoordPath, pt orb.Point) error {
	if f.kind == KindPoint {
		return fmt.Errorf("%w: cannot add a vertex to a Point", ErrInvalidCoordPath)
	}
	pts, idx, set, err := f.locate(path)
	if err != nil {
		return err
	}
	if idx > len(pts) {
		return fmt.Errorf("%w: %s", ErrInvalidCoordPath, path)
	}
	out := make([]orb.Point, 0, len(pts)+1)
	out = append(out, pts[:idx]...)
	out = append(out, pt)
	out = append(out, pts[idx:]...)
	set(out)
	return nil
}

// RemoveCoordinate deletes the vertex at path. Polygon rings that drop
// below three vertices are removed, as are emptied parts of Multi features.
func (f *Feature) RemoveCoordinate(path CoordPath) error {
	if f.kind == KindPoint {
		return fmt.Errorf("%w: cannot remove the vertex of a Point", ErrInvalidCoordPath)
	}
	pts, idx, set, err := f.locate(path)
	if err != nil {
		return err
	}
	if idx >= len(pts) {
		return fmt.Errorf("%w: %s", ErrInvalidCoordPath, path)
	}
	out := make([]orb.Point, 0, len(pts)-1)
	out = append(out, pts[:idx]...)
	out = append(out, pts[idx+1:]...)
	set(out)
	f.prune()
	return nil
}

// prune removes rings and parts that can no longer stand on their own.
func (f *Feature) prune() {
	switch g := f.geom.(type) {
	case orb.Polygon:
		f.geom = pruneRings(g)
	case orb.MultiLineString:
		out := g[:0]
		for _, ls := range g {
			if len(ls) > 0 {
				out = append(out, ls)
			}
		}
		f.geom = out
	case orb.MultiPolygon:
		out := g[:0]
		for _, p := range g {
			p = pruneRings(p)
			if len(p) > 0 {
				out = append(out, p)
			}
		}
		f.geom = out
	}
}

func pruneRings(p orb.Polygon) orb.Polygon {
	out := p[:0]
	for _, ring := range p {
		if len(ring) >= 3 {
			out = append(out, ring)
		}
	}
	return out
}

// VertexPaths returns the path of every editable vertex in order.
func (f *Feature) VertexPaths() []CoordPath {
	var paths []CoordPath
	switch g := f.geom.(type) {
	case orb.Point:
		paths = append(paths, CoordPath{})
	case orb.LineString:
		for i := range g {
			paths = append(paths, CoordPath{i})
		}
	case orb.MultiPoint:
		for i := range g {
			paths = append(paths, CoordPath{i})
		}
	case orb.Polygon:
		for r, ring := range g {
			for i := range ring {
				paths = append(paths, CoordPath{r, i})
			}
		}
	case orb.MultiLineString:
		for p, ls := range g {
			for i := range ls {
				paths = append(paths, CoordPath{p, i})
			}
		}
	case orb.MultiPolygon:
		for p, poly := range g {
			for r, ring := range poly {
				for i := range ring {
					paths = append(paths, CoordPath{p, r, i})
				}
			}
		}
	}
	return paths
}
