package services

import (
	"context"

	"github.com/rs/zerolog"

	"tripplanner/internal/repositories"
)

// PlannerSession owns the single draft and the active trip of one user.
type PlannerSession struct {
	Drafts   DraftControllerInterface
	Trips    TripStateManagerInterface
	Calendar CalendarServiceInterface
	cache    RecommendationCacheInterface
	log      zerolog.Logger
}

func NewPlannerSession(
	drafts DraftControllerInterface,
	trips TripStateManagerInterface,
	calendar CalendarServiceInterface,
	cache RecommendationCacheInterface,
	log zerolog.Logger,
) *PlannerSession {
	return &PlannerSession{
		Drafts:   drafts,
		Trips:    trips,
		Calendar: calendar,
		cache:    cache,
		log:      log.With().Str("component", "planner_session").Logger(),
	}
}

// Start sweeps expired recommendations once and loads the saved trips.
// There is no periodic sweep after this.
func (s *PlannerSession) Start(ctx context.Context) {
	attractions := s.cache.SweepExpired(ctx, repositories.AttractionCacheKey)
	hotels := s.cache.SweepExpired(ctx, repositories.HotelCacheKey)
	s.Trips.Load(ctx)
	s.log.Info().Int("attractions_evicted", attractions).Int("hotels_evicted", hotels).Msg("planner session started")
}

// Stop abandons any in-flight generation.
func (s *PlannerSession) Stop() {
	s.Drafts.Close()
}
