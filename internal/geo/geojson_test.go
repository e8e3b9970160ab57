package geo

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
)

func TestParseFeaturesCollection(t *testing.T) {
	raw := []byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","id":"a","properties":{"name":"x"},"geometry":{"type":"Point","coordinates":[1,2]}},
		{"type":"Feature","id":7,"properties":null,"geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]}}
	]}`)
	features, err := ParseFeatures(raw)
	if err != nil {
		t.Fatalf("ParseFeatures() error = %v", err)
	}
	if len(features) != 2 {
		t.Fatalf("ParseFeatures() len = %d, want 2", len(features))
	}

	f, err := FromGeoJSON(features[1], func() string { return "generated" })
	if err != nil {
		t.Fatalf("FromGeoJSON() error = %v", err)
	}
	if f.ID() != "7" {
		t.Errorf("ID() = %q, want 7", f.ID())
	}
}

func TestParseFeaturesBareGeometry(t *testing.T) {
	features, err := ParseFeatures([]byte(`{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`))
	if err != nil {
		t.Fatalf("ParseFeatures() error = %v", err)
	}
	f, err := FromGeoJSON(features[0], func() string { return "gen" })
	if err != nil {
		t.Fatalf("FromGeoJSON() error = %v", err)
	}
	if f.ID() != "gen" || f.Kind() != KindPolygon {
		t.Errorf("FromGeoJSON() = %s %s", f.ID(), f.Kind())
	}
}

func TestParseFeaturesRejectsUnknownType(t *testing.T) {
	_, err := ParseFeatures([]byte(`{"type":"Feature","geometry":{"type":"Circle","coordinates":[0,0]}}`))
	if !errors.Is(err, ErrInvalidGeoJSON) {
		t.Errorf("ParseFeatures() error = %v, want ErrInvalidGeoJSON", err)
	}
}

func TestFromGeoJSONRejectsInvalidGeometry(t *testing.T) {
	features, err := ParseFeatures([]byte(`{"type":"LineString","coordinates":[[0,0]]}`))
	if err != nil {
		t.Fatalf("ParseFeatures() error = %v", err)
	}
	if _, err := FromGeoJSON(features[0], func() string { return "x" }); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("FromGeoJSON() error = %v, want ErrInvalidGeometry", err)
	}
}

func TestInternalProperties(t *testing.T) {
	f, _ := New("a", orb.Point{0, 0}, map[string]any{"color": "red"})
	gf := f.Internal("simple_select", true)
	checks := map[string]any{
		PropID:       "a",
		PropMeta:     MetaFeature,
		PropMetaType: "Point",
		PropActive:   ActiveFalse,
		PropMode:     "simple_select",
		"user_color": "red",
	}
	for k, want := range checks {
		if got := gf.Properties[k]; got != want {
			t.Errorf("Properties[%q] = %v, want %v", k, got, want)
		}
	}
}

func TestToGeoJSONIsDetached(t *testing.T) {
	f, _ := New("a", orb.Point{0, 0}, map[string]any{"k": 1})
	gf := f.ToGeoJSON()
	gf.Properties["k"] = 2
	if f.Properties["k"] != 1 {
		t.Error("ToGeoJSON() shares properties with the feature")
	}
	if gf.ID != "a" {
		t.Errorf("ID = %v, want a", gf.ID)
	}
}
