package response_models

import "tripplanner/internal/models/trip_models"

type Bounds struct {
	MinLat float64 `json:"minLat"`
	MinLng float64 `json:"minLng"`
	MaxLat float64 `json:"maxLat"`
	MaxLng float64 `json:"maxLng"`
}

// MapView is what the map renderer reads: points to draw and the viewport enclosing
// the resolved ones. Bounds is nil when nothing is resolved.
type MapView struct {
	TripID     string                      `json:"tripId"`
	Points     []trip_models.LocationPoint `json:"points"`
	Unresolved []string                    `json:"unresolved"`
	Bounds     *Bounds                     `json:"bounds,omitempty"`
}
