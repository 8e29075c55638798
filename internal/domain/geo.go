package domain

import (
	"encoding/json"
	"fmt"
)

// GeoPoint is a WGS84 coordinate. On the wire it is a two-element
// [longitude, latitude] array; a GeoJSON Point object is also accepted.
type GeoPoint struct {
	Lon float64
	Lat float64
}

func (p GeoPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.Lon, p.Lat})
}

func (p *GeoPoint) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err == nil {
		if len(pair) != 2 {
			return fmt.Errorf("geo point: want 2 coordinates, got %d", len(pair))
		}
		p.Lon, p.Lat = pair[0], pair[1]
		return nil
	}

	var obj struct {
		Type        string    `json:"type"`
		Coordinates []float64 `json:"coordinates"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("geo point: %w", err)
	}
	if obj.Type != "Point" || len(obj.Coordinates) != 2 {
		return fmt.Errorf("geo point: unsupported geometry %q", obj.Type)
	}
	p.Lon, p.Lat = obj.Coordinates[0], obj.Coordinates[1]
	return nil
}

// Valid reports whether the point lies within WGS84 bounds.
func (p GeoPoint) Valid() bool {
	return p.Lon >= -180 && p.Lon <= 180 && p.Lat >= -90 && p.Lat <= 90
}
