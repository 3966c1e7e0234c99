package models

import "encoding/json"

// Geometry payload for one record's lap path, GeoJSON-shaped. The backend
// generates these from GPS channels; payloads for partially recovered logs
// can be incomplete, so every field is optional.
type GeoFeatureCollection struct {
	Type     string
	Features []GeoFeature
}

type GeoFeature struct {
	Type       string
	Geometry   *GeoGeometry
	Properties map[string]any
}

type GeoGeometry struct {
	Type        string
	Coordinates json.RawMessage
}

// Empty reports whether there is nothing to render.
func (fc GeoFeatureCollection) Empty() bool {
	return len(fc.Features) == 0
}
