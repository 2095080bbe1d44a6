package types

import "fmt"

// GeoPoint is a plain lat/lng reading reported from the field. It is stored as
// JSON; no PostGIS geometry is involved because the engine only keeps the last
// reported position, it never queries by distance.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate rejects coordinates outside the WGS84 envelope.
func (g GeoPoint) Validate() error {
	if g.Lat < -90 || g.Lat > 90 {
		return fmt.Errorf("latitude %f out of range", g.Lat)
	}
	if g.Lng < -180 || g.Lng > 180 {
		return fmt.Errorf("longitude %f out of range", g.Lng)
	}
	return nil
}
