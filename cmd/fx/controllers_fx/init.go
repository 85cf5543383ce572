package controllers_fx

import (
	"go.uber.org/fx"

	"tripplanner/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewConfirmationController),
	fx.Provide(controllers.NewPlannerController),
	fx.Provide(controllers.NewTripsController))
