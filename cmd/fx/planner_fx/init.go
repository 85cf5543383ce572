package planner_fx

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"tripplanner/internal/repositories"
	"tripplanner/internal/services"
)

var Module = fx.Provide(
	provideRecommendationCache,
	provideTripStateManager,
	provideDraftController,
	provideCalendarService,
	services.NewPlannerSession)

func provideRecommendationCache(store *repositories.PersistentStore, log zerolog.Logger) services.RecommendationCacheInterface {
	return services.NewRecommendationCache(store, log)
}

func provideTripStateManager(store *repositories.PersistentStore, log zerolog.Logger) services.TripStateManagerInterface {
	return services.NewTripStateManager(store, log)
}

func provideDraftController(
	store *repositories.PersistentStore,
	cache services.RecommendationCacheInterface,
	ai services.GenerativeClientInterface,
	synth services.ItinerarySynthesizerInterface,
	trips services.TripStateManagerInterface,
	log zerolog.Logger,
) services.DraftControllerInterface {
	return services.NewDraftController(store, cache, ai, synth, trips, log)
}

func provideCalendarService() services.CalendarServiceInterface {
	return services.NewCalendarService()
}
