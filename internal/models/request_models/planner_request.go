package request_models

import "tripplanner/internal/models/trip_models"

// UpdatePlannerDataRequest is a partial update; nil fields are left unchanged.
type UpdatePlannerDataRequest struct {
	Destination      *string `json:"destination"`
	StartDate        *string `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate          *string `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
	TravelMode       *string `json:"travelMode" binding:"omitempty,oneof=plane ship train car"`
	DeparturePoint   *string `json:"departurePoint"`
	EntryPoint       *string `json:"entryPoint"`
	TicketAutoFilled *bool   `json:"ticketAutoFilled"`
	Companion        *string `json:"companion" binding:"omitempty,oneof=alone couple friends family"`
	LocalTransport   *string `json:"localTransport" binding:"omitempty,oneof=rental bus taxi other"`
	Pace             *string `json:"pace" binding:"omitempty,oneof=relaxed standard tight"`
	UserNote         *string `json:"userNote"`
}

func (r UpdatePlannerDataRequest) Apply(d *trip_models.PlannerData) {
	if r.Destination != nil {
		d.Destination = *r.Destination
	}
	if r.StartDate != nil {
		d.StartDate = *r.StartDate
	}
	if r.EndDate != nil {
		d.EndDate = *r.EndDate
	}
	if r.TravelMode != nil {
		d.TravelMode = trip_models.TravelMode(*r.TravelMode)
	}
	if r.DeparturePoint != nil {
		d.DeparturePoint = *r.DeparturePoint
	}
	if r.EntryPoint != nil {
		d.EntryPoint = *r.EntryPoint
	}
	if r.TicketAutoFilled != nil {
		d.TicketAutoFilled = *r.TicketAutoFilled
	}
	if r.Companion != nil {
		d.Companion = trip_models.Companion(*r.Companion)
	}
	if r.LocalTransport != nil {
		d.LocalTransport = trip_models.LocalTransport(*r.LocalTransport)
	}
	if r.Pace != nil {
		d.Pace = trip_models.Pace(*r.Pace)
	}
	if r.UserNote != nil {
		d.UserNote = *r.UserNote
	}
}

type ManualAttractionRequest struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category"`
}

type AccommodationRequest struct {
	Name      string  `json:"name" binding:"required"`
	StartDate string  `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate   string  `json:"endDate" binding:"required,datetime=2006-01-02"`
	Area      string  `json:"area"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
}

func (r AccommodationRequest) ToModel() trip_models.Accommodation {
	return trip_models.Accommodation{
		Name:        r.Name,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Area:        r.Area,
		Coordinates: trip_models.Coordinates{Lat: r.Lat, Lng: r.Lng},
	}
}

type UserNoteRequest struct {
	Note string `json:"note"`
}
