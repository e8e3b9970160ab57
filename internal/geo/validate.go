package geo

import (
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// geojsonSchema accepts a FeatureCollection, a Feature or a bare geometry
// of one of the six editable types.
const geojsonSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "definitions": {
    "position": {
      "type": "array",
      "minItems": 2,
      "items": {"type": "number"}
    },
    "geometry": {
      "type": "object",
      "required": ["type", "coordinates"],
      "properties": {
        "type": {
          "enum": ["Point", "LineString", "Polygon", "MultiPoint", "MultiLineString", "MultiPolygon"]
        },
        "coordinates": {"type": "array"}
      }
    },
    "feature": {
      "type": "object",
      "required": ["type", "geometry"],
      "properties": {
        "type": {"const": "Feature"},
        "id": {"type": ["string", "number"]},
        "geometry": {"$ref": "#/definitions/geometry"},
        "properties": {"type": ["object", "null"]}
      }
    },
    "collection": {
      "type": "object",
      "required": ["type", "features"],
      "properties": {
        "type": {"const": "FeatureCollection"},
        "features": {"type": "array", "items": {"$ref": "#/definitions/feature"}}
      }
    }
  },
  "oneOf": [
    {"$ref": "#/definitions/collection"},
    {"$ref": "#/definitions/feature"},
    {"$ref": "#/definitions/geometry"}
  ]
}`

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(geojsonSchema))
	})
	return schema, schemaErr
}

// Validate checks raw GeoJSON against the accepted document shapes.
func Validate(raw []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compiling geojson schema: %w", err)
	}
	result, err := s.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return &ValidationError{Problems: []string{err.Error()}}
	}
	if result.Valid() {
		return nil
	}
	verr := &ValidationError{}
	for _, re := range result.Errors() {
		verr.Problems = append(verr.Problems, re.String())
	}
	return verr
}
