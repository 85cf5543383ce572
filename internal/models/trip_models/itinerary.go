package trip_models

// ItineraryParams is everything the model needs to lay out a route.
type ItineraryParams struct {
	Data     PlannerData
	Selected []AttractionCandidate
	UserNote string
}

// RawItineraryResponse is the decoded, fully defaulted model output.
type RawItineraryResponse struct {
	Title        string   `json:"title"`
	Period       string   `json:"period"`
	PrimaryColor string   `json:"primaryColor"`
	Destination  string   `json:"destination"`
	Days         []RawDay `json:"days"`
}

type RawDay struct {
	Day    int        `json:"day"`
	Points []RawPoint `json:"points"`
}

// RawPoint keeps Coordinates nil when the model omitted them or sent garbage.
type RawPoint struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Category    string       `json:"category"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Tips        []string     `json:"tips"`
	Phone       string       `json:"phone,omitempty"`
	Mapcode     string       `json:"mapcode,omitempty"`
	Description string       `json:"description,omitempty"`
}

// DaySummary is a per-day overview of a synthesized route.
type DaySummary struct {
	Day        int     `json:"day"`
	Date       string  `json:"date"`
	Stops      int     `json:"stops"`
	DistanceKm float64 `json:"distanceKm"`
}
