package trip_models

import "strings"

// Step is a wizard position. Step 3 was retired, and 7.5 sits between selection and generation.
type Step float64

const (
	StepIntro          Step = 0
	StepDestination    Step = 1
	StepOutbound       Step = 2
	StepCompanion      Step = 4
	StepLocalTransport Step = 5
	StepPace           Step = 6
	StepAttractions    Step = 7
	StepAccommodation  Step = 7.5
	StepGenerating     Step = 8
	StepPreview        Step = 9
)

type TravelMode string

const (
	TravelModePlane TravelMode = "plane"
	TravelModeShip  TravelMode = "ship"
	TravelModeTrain TravelMode = "train"
	TravelModeCar   TravelMode = "car"
)

func (m TravelMode) Valid() bool {
	switch m {
	case TravelModePlane, TravelModeShip, TravelModeTrain, TravelModeCar:
		return true
	}
	return false
}

type Companion string

const (
	CompanionAlone   Companion = "alone"
	CompanionCouple  Companion = "couple"
	CompanionFriends Companion = "friends"
	CompanionFamily  Companion = "family"
)

func (c Companion) Valid() bool {
	switch c {
	case CompanionAlone, CompanionCouple, CompanionFriends, CompanionFamily:
		return true
	}
	return false
}

type LocalTransport string

const (
	LocalTransportRental LocalTransport = "rental"
	LocalTransportBus    LocalTransport = "bus"
	LocalTransportTaxi   LocalTransport = "taxi"
	LocalTransportOther  LocalTransport = "other"
)

func (t LocalTransport) Valid() bool {
	switch t {
	case LocalTransportRental, LocalTransportBus, LocalTransportTaxi, LocalTransportOther:
		return true
	}
	return false
}

type Pace string

const (
	PaceRelaxed  Pace = "relaxed"
	PaceStandard Pace = "standard"
	PaceTight    Pace = "tight"
)

func (p Pace) Valid() bool {
	switch p {
	case PaceRelaxed, PaceStandard, PaceTight:
		return true
	}
	return false
}

// StopsPerDay is the density range the model is asked to respect for a pace.
func (p Pace) StopsPerDay() (lo, hi int) {
	switch p {
	case PaceRelaxed:
		return 2, 3
	case PaceTight:
		return 6, 7
	default:
		return 4, 5
	}
}

// PlannerData holds every field the wizard collects.
type PlannerData struct {
	Destination      string          `json:"destination"`
	StartDate        string          `json:"startDate"`
	EndDate          string          `json:"endDate"`
	TravelMode       TravelMode      `json:"travelMode"`
	DeparturePoint   string          `json:"departurePoint"`
	EntryPoint       string          `json:"entryPoint"`
	TicketAutoFilled bool            `json:"ticketAutoFilled"`
	Companion        Companion       `json:"companion"`
	LocalTransport   LocalTransport  `json:"localTransport"`
	Pace             Pace            `json:"pace"`
	Accommodations   []Accommodation `json:"accommodations"`
	UserNote         string          `json:"userNote"`
}

// HasRequiredContent reports whether any required wizard field was filled in.
func (d PlannerData) HasRequiredContent() bool {
	for _, v := range []string{
		d.Destination, d.StartDate, d.EndDate,
		string(d.TravelMode), d.DeparturePoint, d.EntryPoint,
		string(d.Companion), string(d.LocalTransport), string(d.Pace),
	} {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

type DraftRecord struct {
	Step        Step                  `json:"step"`
	Data        PlannerData           `json:"data"`
	SelectedIDs []string              `json:"selectedIds"`
	Attractions []AttractionCandidate `json:"attractions"`
}

type AttractionCandidate struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Category    Category    `json:"category"`
	Desc        string      `json:"desc"`
	LongDesc    string      `json:"longDesc"`
	Rating      float64     `json:"rating"`
	ReviewCount int         `json:"reviewCount"`
	PriceLevel  string      `json:"priceLevel"`
	Attractions []string    `json:"attractions"`
	Tips        []string    `json:"tips"`
	Coordinates Coordinates `json:"coordinates"`
	Link        string      `json:"link"`
}

type HotelCandidate struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Area        string      `json:"area"`
	Desc        string      `json:"desc"`
	Rating      float64     `json:"rating"`
	PriceLevel  string      `json:"priceLevel"`
	Tips        []string    `json:"tips"`
	Coordinates Coordinates `json:"coordinates"`
	Link        string      `json:"link"`
}

// CacheEntry timestamps are epoch milliseconds.
type CacheEntry[T any] struct {
	Timestamp int64 `json:"timestamp"`
	Data      T     `json:"data"`
}
