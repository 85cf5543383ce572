package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"tripplanner/internal/models/request_models"
	"tripplanner/internal/models/trip_models"
	"tripplanner/internal/services"
	"tripplanner/pkg/utils"
)

type TripsController struct {
	trips         services.TripStateManagerInterface
	calendar      services.CalendarServiceInterface
	confirmations *ConfirmationController
}

func NewTripsController(session *services.PlannerSession, confirmations *ConfirmationController) *TripsController {
	return &TripsController{
		trips:         session.Trips,
		calendar:      session.Calendar,
		confirmations: confirmations,
	}
}

// ListTrips godoc
// @Summary Saved trips, newest first
// @Tags Trips
// @Produce json
// @Success 200 {array} trip_models.TripPlan
// @Router /trips [get]
func (t *TripsController) ListTrips(c *gin.Context) {
	utils.RespondSuccess(c, t.trips.ListTrips(), "")
}

// DeleteTrip godoc
// @Summary Request deletion of a trip
// @Description Answers with a confirmation token; POST /confirmations/{token} performs the delete.
// @Tags Trips
// @Param id path string true "Trip ID"
// @Success 200 {object} response_models.ConfirmationResponse
// @Router /trips/{id} [delete]
func (t *TripsController) DeleteTrip(c *gin.Context) {
	req, err := t.trips.RequestDeleteTrip(c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	t.confirmations.issue(c, req)
}

// ExportCalendar godoc
// @Summary Download a trip as an iCalendar file
// @Tags Trips
// @Produce text/calendar
// @Param id path string true "Trip ID"
// @Router /trips/{id}/calendar.ics [get]
func (t *TripsController) ExportCalendar(c *gin.Context) {
	id := c.Param("id")
	trip, ok := lo.Find(t.trips.ListTrips(), func(p trip_models.TripPlan) bool { return p.ID == id })
	if !ok {
		utils.HandleServiceError(c, fmt.Errorf("%w: %s", utils.ErrTripNotFound, id))
		return
	}

	doc, err := t.calendar.ExportTrip(trip)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="trip-%s.ics"`, id))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(doc))
}

func (t *TripsController) GetActiveTrip(c *gin.Context) {
	trip, ok := t.trips.ActiveTrip()
	if !ok {
		utils.HandleServiceError(c, utils.ErrNoActiveTrip)
		return
	}
	utils.RespondSuccess(c, gin.H{
		"trip":     trip,
		"subState": t.trips.SubState(),
		"days":     services.SummarizeDays(trip),
	}, "")
}

func (t *TripsController) SetActiveTrip(c *gin.Context) {
	var req request_models.SetActiveTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "tripId is required")
		return
	}
	if err := t.trips.SetActiveTrip(c.Request.Context(), req.TripID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	t.GetActiveTrip(c)
}

// GetMap godoc
// @Summary Points and viewport of the active trip for the map renderer
// @Tags Trips
// @Success 200 {object} response_models.MapView
// @Router /active-trip/map [get]
func (t *TripsController) GetMap(c *gin.Context) {
	utils.RespondSuccess(c, t.trips.MapView(), "")
}

func (t *TripsController) GetDayPoints(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}
	utils.RespondSuccess(c, t.trips.PointsForDay(day), "")
}

func (t *TripsController) AddPoint(c *gin.Context) {
	var req request_models.PointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Point name and day are required")
		return
	}

	point, err := t.trips.AddPoint(c.Request.Context(), req.ToModel())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, point, "Point added")
}

func (t *TripsController) EditPoint(c *gin.Context) {
	var req request_models.EditPointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid point update: "+err.Error())
		return
	}

	point, err := t.trips.EditPoint(c.Request.Context(), c.Param("pointId"), req.Apply)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, point, "Point updated")
}

func (t *TripsController) DeletePoint(c *gin.Context) {
	req, err := t.trips.RequestDeletePoint(c.Param("pointId"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	t.confirmations.issue(c, req)
}

// ReorderDay godoc
// @Summary Replace the visiting order of one day
// @Tags Trips
// @Param day path int true "Trip day (1-based)"
// @Param request body request_models.ReorderPointsRequest true "Points in their new order"
// @Router /active-trip/days/{day}/order [put]
func (t *TripsController) ReorderDay(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}
	var req request_models.ReorderPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid point order: "+err.Error())
		return
	}

	if err := t.trips.ReorderPoints(c.Request.Context(), day, req.ToModels()); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, t.trips.PointsForDay(day), "Order saved")
}

func (t *TripsController) DeleteAccommodation(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid accommodation index")
		return
	}

	req, err := t.trips.RequestDeleteAccommodation(index)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	t.confirmations.issue(c, req)
}

func (t *TripsController) ToggleChecklist(c *gin.Context) {
	done, err := t.trips.ToggleChecklist(c.Request.Context(), c.Param("pointId"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"pointId": c.Param("pointId"), "completed": done}, "")
}

func (t *TripsController) SetReview(c *gin.Context) {
	var req request_models.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Rating must be between 0 and 5")
		return
	}

	review := trip_models.Review{Rating: req.Rating, Text: req.Text}
	if err := t.trips.SetReview(c.Request.Context(), c.Param("pointId"), review); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, review, "Review saved")
}

func (t *TripsController) SetLog(c *gin.Context) {
	var req request_models.LogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid log")
		return
	}
	if err := t.trips.SetLog(c.Request.Context(), c.Param("pointId"), req.Text); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Log saved")
}

func (t *TripsController) AttachFile(c *gin.Context) {
	var req request_models.AttachFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "File name is required")
		return
	}

	file, err := t.trips.AttachFile(c.Request.Context(), req.ToModel())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, file, "File attached")
}

func (t *TripsController) DetachFile(c *gin.Context) {
	if err := t.trips.DetachFile(c.Request.Context(), c.Param("fileId")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "File removed")
}

func dayParam(c *gin.Context) (int, bool) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil || day < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid day")
		return 0, false
	}
	return day, true
}
