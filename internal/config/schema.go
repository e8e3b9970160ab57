package config

import (
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// optionsSchema types the merged layer map before it is decoded. Unknown
// keys are allowed so that newer files still load.
const optionsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "box_select":          {"type": "boolean"},
    "click_buffer":        {"type": "number"},
    "touch_buffer":        {"type": "number"},
    "touch_enabled":       {"type": "boolean"},
    "key_bindings":        {"type": "boolean"},
    "default_mode":        {"type": "string", "minLength": 1},
    "suppress_api_events": {"type": "boolean"},
    "user_properties":     {"type": "boolean"},
    "log": {
      "type": "object",
      "properties": {"level": {"type": "string"}}
    },
    "metrics": {
      "type": "object",
      "properties": {"addr": {"type": "string"}}
    },
    "viewport": {
      "type": "object",
      "properties": {
        "center_lng": {"type": "number", "minimum": -180, "maximum": 180},
        "center_lat": {"type": "number", "minimum": -90, "maximum": 90},
        "scale":      {"type": "number"}
      }
    },
    "plugins": {
      "type": "object",
      "properties": {
        "modes": {
          "type": ["object", "null"],
          "additionalProperties": {"type": "string"}
        }
      }
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

// checkSchema reports every type error in a merged layer map.
func checkSchema(m map[string]any) error {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(optionsSchema))
	})
	if schemaErr != nil {
		return fmt.Errorf("compiling options schema: %w", schemaErr)
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(m))
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
