package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tripplanner/internal/models/request_models"
	"tripplanner/internal/models/trip_models"
	"tripplanner/internal/services"
	"tripplanner/pkg/utils"
)

type PlannerController struct {
	drafts        services.DraftControllerInterface
	confirmations *ConfirmationController
}

func NewPlannerController(session *services.PlannerSession, confirmations *ConfirmationController) *PlannerController {
	return &PlannerController{
		drafts:        session.Drafts,
		confirmations: confirmations,
	}
}

// GetState godoc
// @Summary Current wizard state
// @Tags Planner
// @Produce json
// @Success 200 {object} response_models.PlannerState
// @Router /planner [get]
func (p *PlannerController) GetState(c *gin.Context) {
	utils.RespondSuccess(c, p.drafts.State(), "")
}

// Open godoc
// @Summary Open the wizard, restoring a saved draft when there is one
// @Tags Planner
// @Router /planner/open [post]
func (p *PlannerController) Open(c *gin.Context) {
	utils.RespondSuccess(c, p.drafts.Open(c.Request.Context()), "Planner opened")
}

// NewTrip godoc
// @Summary Discard any draft and start over
// @Tags Planner
// @Router /planner/new [post]
func (p *PlannerController) NewTrip(c *gin.Context) {
	utils.RespondSuccess(c, p.drafts.NewTrip(c.Request.Context()), "New trip started")
}

func (p *PlannerController) Start(c *gin.Context) {
	p.respondAfter(c, p.drafts.Start(c.Request.Context()), "Planner started")
}

func (p *PlannerController) Cancel(c *gin.Context) {
	p.respondAfter(c, p.drafts.Cancel(c.Request.Context()), "Planner cancelled")
}

// UpdateData godoc
// @Summary Update wizard fields
// @Tags Planner
// @Accept json
// @Param request body request_models.UpdatePlannerDataRequest true "Fields to change"
// @Router /planner/data [patch]
func (p *PlannerController) UpdateData(c *gin.Context) {
	var req request_models.UpdatePlannerDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid planner data: "+err.Error())
		return
	}
	p.respondAfter(c, p.drafts.Edit(c.Request.Context(), req.Apply), "Planner updated")
}

// Next godoc
// @Summary Advance the wizard
// @Description Leaving the accommodation step starts itinerary generation and answers 202; poll GET /planner.
// @Tags Planner
// @Router /planner/next [post]
func (p *PlannerController) Next(c *gin.Context) {
	task, err := p.drafts.Next(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	if task != nil {
		c.JSON(http.StatusAccepted, utils.APIResponse{
			Status:  "success",
			Code:    http.StatusAccepted,
			Message: "Generating itinerary",
			TraceID: c.GetString("trace_id"),
			Data:    p.drafts.State(),
		})
		return
	}
	utils.RespondSuccess(c, p.drafts.State(), "")
}

func (p *PlannerController) Back(c *gin.Context) {
	p.respondAfter(c, p.drafts.Back(c.Request.Context()), "")
}

func (p *PlannerController) SaveAndExit(c *gin.Context) {
	p.respondAfter(c, p.drafts.SaveAndExit(c.Request.Context()), "Draft saved")
}

// ListAttractions godoc
// @Summary Attraction candidates, optionally filtered by category
// @Tags Planner
// @Param category query string false "sightseeing|food|stay|logistics"
// @Router /planner/attractions [get]
func (p *PlannerController) ListAttractions(c *gin.Context) {
	category := trip_models.Category(c.Query("category"))
	utils.RespondSuccess(c, p.drafts.FilterAttractions(category), "")
}

func (p *PlannerController) ToggleAttraction(c *gin.Context) {
	selected, err := p.drafts.ToggleSelection(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"id": c.Param("id"), "selected": selected}, "")
}

func (p *PlannerController) AddManualAttraction(c *gin.Context) {
	var req request_models.ManualAttractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Place name is required")
		return
	}

	candidate, err := p.drafts.AddManualAttraction(c.Request.Context(), req.Name, trip_models.Category(req.Category))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, candidate, "Place added")
}

func (p *PlannerController) RefreshAttractions(c *gin.Context) {
	p.respondAfter(c, p.drafts.RefreshAttractions(c.Request.Context()), "Recommendations refreshed")
}

func (p *PlannerController) SuggestHotels(c *gin.Context) {
	hotels, err := p.drafts.SuggestHotels(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, hotels, "")
}

func (p *PlannerController) AddAccommodation(c *gin.Context) {
	var req request_models.AccommodationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Name and a YYYY-MM-DD date range are required")
		return
	}
	p.respondAfter(c, p.drafts.AddAccommodation(c.Request.Context(), req.ToModel()), "Accommodation added")
}

func (p *PlannerController) RemoveAccommodation(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid accommodation index")
		return
	}

	req, err := p.drafts.RequestRemoveAccommodation(index)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	p.confirmations.issue(c, req)
}

func (p *PlannerController) SetUserNote(c *gin.Context) {
	var req request_models.UserNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid note")
		return
	}
	p.respondAfter(c, p.drafts.SetUserNote(c.Request.Context(), req.Note), "Note saved")
}

// Publish godoc
// @Summary Publish the previewed itinerary as a new trip
// @Tags Planner
// @Success 200 {object} trip_models.TripPlan
// @Failure 409 {object} utils.APIResponse
// @Router /planner/publish [post]
func (p *PlannerController) Publish(c *gin.Context) {
	plan, err := p.drafts.Publish(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, plan, "Trip published")
}

func (p *PlannerController) EditPlaces(c *gin.Context) {
	p.respondAfter(c, p.drafts.EditPlaces(c.Request.Context()), "")
}

func (p *PlannerController) Close(c *gin.Context) {
	p.drafts.Close()
	utils.RespondSuccess(c, p.drafts.State(), "Planner closed")
}

func (p *PlannerController) respondAfter(c *gin.Context, err error, message string) {
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, p.drafts.State(), message)
}
