package trip_models

import (
	"github.com/paulmach/orb"

	"tripplanner/pkg/utils"
)

type Category string

const (
	CategorySightseeing Category = "sightseeing"
	CategoryFood        Category = "food"
	CategoryStay        Category = "stay"
	CategoryLogistics   Category = "logistics"
)

// ParseCategory maps free-form model output onto a known category, defaulting to sightseeing.
func ParseCategory(s string) Category {
	switch Category(s) {
	case CategoryFood, CategoryStay, CategoryLogistics:
		return Category(s)
	}
	return CategorySightseeing
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Unresolved is stored for places whose position is not known yet.
var Unresolved = Coordinates{}

func (c Coordinates) IsUnresolved() bool {
	return c.Lat == 0 && c.Lng == 0
}

// Valid reports whether c is a resolved, in-range position.
func (c Coordinates) Valid() bool {
	if c.IsUnresolved() {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

func (c Coordinates) Point() orb.Point {
	return orb.Point{c.Lng, c.Lat}
}

type LocationPoint struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Category    Category    `json:"category"`
	Day         int         `json:"day"`
	Coordinates Coordinates `json:"coordinates"`
	Tips        []string    `json:"tips"`
	Phone       string      `json:"phone,omitempty"`
	Mapcode     string      `json:"mapcode,omitempty"`
	Description string      `json:"description,omitempty"`
}

type Accommodation struct {
	Name        string      `json:"name"`
	StartDate   string      `json:"startDate"`
	EndDate     string      `json:"endDate"`
	Area        string      `json:"area,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
}

type TripMetadata struct {
	Destination    string          `json:"destination"`
	Title          string          `json:"title"`
	Period         string          `json:"period"`
	StartDate      string          `json:"startDate"`
	EndDate        string          `json:"endDate"`
	Accommodations []Accommodation `json:"accommodations"`
	PrimaryColor   string          `json:"primaryColor"`
}

type SpeechPhrase struct {
	ID          string `json:"id"`
	Original    string `json:"original"`
	Translation string `json:"translation"`
	Language    string `json:"language,omitempty"`
}

type CustomFile struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	MimeType      string `json:"type"`
	URL           string `json:"url"`
	LinkedPointID string `json:"linkedPointId,omitempty"`
	CreatedAt     int64  `json:"createdAt"`
}

type TripPlan struct {
	ID           string          `json:"id"`
	Metadata     TripMetadata    `json:"metadata"`
	Points       []LocationPoint `json:"points"`
	SpeechData   []SpeechPhrase  `json:"speechData"`
	DefaultFiles []CustomFile    `json:"defaultFiles"`
	CustomFiles  []CustomFile    `json:"customFiles"`
}

// DayCount is the inclusive length of the trip's date range.
func (t *TripPlan) DayCount() int {
	return utils.TripDayCount(t.Metadata.StartDate, t.Metadata.EndDate)
}

type Review struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

// TripSubState is the per-destination mutable state that lives beside a trip.
type TripSubState struct {
	CompletedItems map[string]bool   `json:"completedItems"`
	UserReviews    map[string]Review `json:"userReviews"`
	UserLogs       map[string]string `json:"userLogs"`
	CustomFiles    []CustomFile      `json:"customFiles"`
}

func NewTripSubState() TripSubState {
	return TripSubState{
		CompletedItems: map[string]bool{},
		UserReviews:    map[string]Review{},
		UserLogs:       map[string]string{},
		CustomFiles:    []CustomFile{},
	}
}
