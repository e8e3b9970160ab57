package geo

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/tidwall/gjson"
)

// Display property keys read by the rendering collaborator.
const (
	PropID        = "id"
	PropMeta      = "meta"
	PropMetaType  = "meta:type"
	PropActive    = "active"
	PropMode      = "mode"
	PropParent    = "parent"
	PropCoordPath = "coord_path"
)

// Meta values tagging display features.
const (
	MetaFeature  = "feature"
	MetaVertex   = "vertex"
	MetaMidpoint = "midpoint"
)

// Active values for PropActive.
const (
	ActiveTrue  = "true"
	ActiveFalse = "false"
)

// userPrefix marks user properties copied onto display features.
const userPrefix = "user_"

// ToGeoJSON returns the feature as a GeoJSON Feature carrying its own
// properties. The result shares nothing with the feature.
func (f *Feature) ToGeoJSON() *geojson.Feature {
	gf := geojson.NewFeature(f.Geometry())
	gf.ID = f.id
	gf.Properties = geojson.Properties(copyProperties(f.Properties))
	return gf
}

// Internal returns the display form of the feature: the geometry plus the
// meta properties used by modes and the rendering collaborator. User
// properties are copied with a user_ prefix when withUserProps is set.
func (f *Feature) Internal(mode string, withUserProps bool) *geojson.Feature {
	gf := geojson.NewFeature(f.Geometry())
	gf.Properties[PropID] = f.id
	gf.Properties[PropMeta] = MetaFeature
	gf.Properties[PropMetaType] = f.kind.String()
	gf.Properties[PropActive] = ActiveFalse
	gf.Properties[PropMode] = mode
	if withUserProps {
		for k, v := range f.Properties {
			gf.Properties[userPrefix+k] = v
		}
	}
	return gf
}

// FromGeoJSON builds a feature from a GeoJSON feature. A missing id is
// filled from newID; numeric ids are converted to strings.
func FromGeoJSON(gf *geojson.Feature, newID func() string) (*Feature, error) {
	if gf == nil || gf.Geometry == nil {
		return nil, fmt.Errorf("%w: feature has no geometry", ErrInvalidGeometry)
	}
	id := idString(gf.ID)
	if id == "" {
		id = newID()
	}
	f, err := New(id, gf.Geometry, copyProperties(gf.Properties))
	if err != nil {
		return nil, err
	}
	if !f.IsValid() {
		return nil, fmt.Errorf("%w: %s %s", ErrInvalidGeometry, f.kind, id)
	}
	return f, nil
}

func idString(id any) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// ParseFeatures validates raw GeoJSON and returns its features. A
// FeatureCollection, a single Feature or a bare geometry are accepted.
func ParseFeatures(raw []byte) ([]*geojson.Feature, error) {
	if err := Validate(raw); err != nil {
		return nil, err
	}

	switch gjson.GetBytes(raw, "type").String() {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidGeoJSON, err)
		}
		return fc.Features, nil
	case "Feature":
		f, err := geojson.UnmarshalFeature(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidGeoJSON, err)
		}
		return []*geojson.Feature{f}, nil
	default:
		g, err := geojson.UnmarshalGeometry(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidGeoJSON, err)
		}
		return []*geojson.Feature{geojson.NewFeature(g.Geometry())}, nil
	}
}

// DisplayID returns the feature id carried by a display feature.
func DisplayID(gf *geojson.Feature) string {
	if gf == nil {
		return ""
	}
	s, _ := gf.Properties[PropID].(string)
	return s
}

// DisplayMeta returns the meta tag of a display feature.
func DisplayMeta(gf *geojson.Feature) string {
	if gf == nil {
		return ""
	}
	s, _ := gf.Properties[PropMeta].(string)
	return s
}

// DisplayParent returns the parent feature id of a handle.
func DisplayParent(gf *geojson.Feature) string {
	if gf == nil {
		return ""
	}
	s, _ := gf.Properties[PropParent].(string)
	return s
}

// DisplayCoordPath returns the coordinate path carried by a handle.
func DisplayCoordPath(gf *geojson.Feature) (CoordPath, error) {
	if gf == nil {
		return nil, ErrInvalidCoordPath
	}
	s, _ := gf.Properties[PropCoordPath].(string)
	return ParsePath(s)
}

// DisplayPoint returns the location of a point display feature.
func DisplayPoint(gf *geojson.Feature) (orb.Point, bool) {
	if gf == nil {
		return orb.Point{}, false
	}
	p, ok := gf.Geometry.(orb.Point)
	return p, ok
}
