package response_models

import "tripplanner/internal/models/trip_models"

// PlannerState is a snapshot of the wizard for the UI.
type PlannerState struct {
	Open        bool                              `json:"open"`
	Step        trip_models.Step                  `json:"step"`
	Data        trip_models.PlannerData           `json:"data"`
	SelectedIDs []string                          `json:"selectedIds"`
	Attractions []trip_models.AttractionCandidate `json:"attractions"`
	Hotels      []trip_models.HotelCandidate      `json:"hotels"`
	Preview     *trip_models.TripPlan             `json:"preview,omitempty"`
	Days        []trip_models.DaySummary          `json:"days,omitempty"`
	Generating  bool                              `json:"generating"`
	CanAdvance  bool                              `json:"canAdvance"`
	Error       string                            `json:"error,omitempty"`
}
