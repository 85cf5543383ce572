package controllers

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.Engine,
	planner *PlannerController,
	trips *TripsController,
	confirmations *ConfirmationController) {

	plannerGroup := r.Group("/planner")
	plannerGroup.GET("", planner.GetState)
	plannerGroup.POST("/open", planner.Open)
	plannerGroup.POST("/new", planner.NewTrip)
	plannerGroup.POST("/start", planner.Start)
	plannerGroup.POST("/cancel", planner.Cancel)
	plannerGroup.PATCH("/data", planner.UpdateData)
	plannerGroup.PUT("/note", planner.SetUserNote)
	plannerGroup.POST("/next", planner.Next)
	plannerGroup.POST("/back", planner.Back)
	plannerGroup.POST("/save-exit", planner.SaveAndExit)
	plannerGroup.GET("/attractions", planner.ListAttractions)
	plannerGroup.POST("/attractions", planner.AddManualAttraction)
	plannerGroup.POST("/attractions/refresh", planner.RefreshAttractions)
	plannerGroup.POST("/attractions/:id/toggle", planner.ToggleAttraction)
	plannerGroup.GET("/hotels", planner.SuggestHotels)
	plannerGroup.POST("/accommodations", planner.AddAccommodation)
	plannerGroup.DELETE("/accommodations/:index", planner.RemoveAccommodation)
	plannerGroup.POST("/publish", planner.Publish)
	plannerGroup.POST("/edit-places", planner.EditPlaces)
	plannerGroup.POST("/close", planner.Close)

	tripsGroup := r.Group("/trips")
	tripsGroup.GET("", trips.ListTrips)
	tripsGroup.DELETE("/:id", trips.DeleteTrip)
	tripsGroup.GET("/:id/calendar.ics", trips.ExportCalendar)

	activeGroup := r.Group("/active-trip")
	activeGroup.GET("", trips.GetActiveTrip)
	activeGroup.PUT("", trips.SetActiveTrip)
	activeGroup.GET("/map", trips.GetMap)
	activeGroup.GET("/days/:day/points", trips.GetDayPoints)
	activeGroup.PUT("/days/:day/order", trips.ReorderDay)
	activeGroup.POST("/points", trips.AddPoint)
	activeGroup.PATCH("/points/:pointId", trips.EditPoint)
	activeGroup.DELETE("/points/:pointId", trips.DeletePoint)
	activeGroup.DELETE("/accommodations/:index", trips.DeleteAccommodation)
	activeGroup.POST("/checklist/:pointId/toggle", trips.ToggleChecklist)
	activeGroup.PUT("/reviews/:pointId", trips.SetReview)
	activeGroup.PUT("/logs/:pointId", trips.SetLog)
	activeGroup.POST("/files", trips.AttachFile)
	activeGroup.DELETE("/files/:fileId", trips.DetachFile)

	confirmGroup := r.Group("/confirmations")
	confirmGroup.POST("/:token", confirmations.Confirm)
	confirmGroup.DELETE("/:token", confirmations.Dismiss)
}
