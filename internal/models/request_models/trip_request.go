package request_models

import "tripplanner/internal/models/trip_models"

type SetActiveTripRequest struct {
	TripID string `json:"tripId" binding:"required"`
}

type PointRequest struct {
	ID          string   `json:"id"`
	Name        string   `json:"name" binding:"required"`
	Category    string   `json:"category"`
	Day         int      `json:"day" binding:"required,min=1"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Tips        []string `json:"tips"`
	Phone       string   `json:"phone"`
	Mapcode     string   `json:"mapcode"`
	Description string   `json:"description"`
}

func (r PointRequest) ToModel() trip_models.LocationPoint {
	return trip_models.LocationPoint{
		ID:          r.ID,
		Name:        r.Name,
		Category:    trip_models.ParseCategory(r.Category),
		Day:         r.Day,
		Coordinates: trip_models.Coordinates{Lat: r.Lat, Lng: r.Lng},
		Tips:        r.Tips,
		Phone:       r.Phone,
		Mapcode:     r.Mapcode,
		Description: r.Description,
	}
}

// EditPointRequest is a partial update; nil fields are left unchanged.
type EditPointRequest struct {
	Name        *string   `json:"name"`
	Category    *string   `json:"category"`
	Day         *int      `json:"day" binding:"omitempty,min=1"`
	Lat         *float64  `json:"lat"`
	Lng         *float64  `json:"lng"`
	Tips        *[]string `json:"tips"`
	Phone       *string   `json:"phone"`
	Mapcode     *string   `json:"mapcode"`
	Description *string   `json:"description"`
}

func (r EditPointRequest) Apply(p *trip_models.LocationPoint) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Category != nil {
		p.Category = trip_models.ParseCategory(*r.Category)
	}
	if r.Day != nil {
		p.Day = *r.Day
	}
	if r.Lat != nil {
		p.Coordinates.Lat = *r.Lat
	}
	if r.Lng != nil {
		p.Coordinates.Lng = *r.Lng
	}
	if r.Tips != nil {
		p.Tips = *r.Tips
	}
	if r.Phone != nil {
		p.Phone = *r.Phone
	}
	if r.Mapcode != nil {
		p.Mapcode = *r.Mapcode
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
}

type ReorderPointsRequest struct {
	Points []PointRequest `json:"points" binding:"dive"`
}

func (r ReorderPointsRequest) ToModels() []trip_models.LocationPoint {
	out := make([]trip_models.LocationPoint, 0, len(r.Points))
	for _, p := range r.Points {
		out = append(out, p.ToModel())
	}
	return out
}

type ReviewRequest struct {
	Rating int    `json:"rating" binding:"min=0,max=5"`
	Text   string `json:"text"`
}

type LogRequest struct {
	Text string `json:"text"`
}

type AttachFileRequest struct {
	Name          string `json:"name" binding:"required"`
	MimeType      string `json:"type"`
	URL           string `json:"url" binding:"omitempty,url"`
	LinkedPointID string `json:"linkedPointId"`
}

func (r AttachFileRequest) ToModel() trip_models.CustomFile {
	return trip_models.CustomFile{
		Name:          r.Name,
		MimeType:      r.MimeType,
		URL:           r.URL,
		LinkedPointID: r.LinkedPointID,
	}
}
