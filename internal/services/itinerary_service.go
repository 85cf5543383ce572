package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geo"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"tripplanner/internal/models/trip_models"
	"tripplanner/pkg/utils"
)

const defaultPrimaryColor = "#2563eb"

type ItinerarySynthesizerInterface interface {
	Synthesize(ctx context.Context, data trip_models.PlannerData, selected []trip_models.AttractionCandidate, userNote string) (*trip_models.TripPlan, error)
}

type ItinerarySynthesizer struct {
	ai    GenerativeClientInterface
	newID func() string
	log   zerolog.Logger
}

func NewItinerarySynthesizer(ai GenerativeClientInterface, log zerolog.Logger) *ItinerarySynthesizer {
	return &ItinerarySynthesizer{
		ai:    ai,
		newID: func() string { return uuid.New().String() },
		log:   log.With().Str("component", "itinerary_synthesizer").Logger(),
	}
}

// Synthesize asks the model for a route and reconciles it into a new TripPlan.
// Any model or parse failure is returned as-is; no partial plan is produced.
func (s *ItinerarySynthesizer) Synthesize(
	ctx context.Context,
	data trip_models.PlannerData,
	selected []trip_models.AttractionCandidate,
	userNote string,
) (*trip_models.TripPlan, error) {
	resp, err := s.ai.SynthesizeItinerary(ctx, trip_models.ItineraryParams{
		Data:     data,
		Selected: selected,
		UserNote: userNote,
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize itinerary: %w", err)
	}

	points := flattenDays(resp.Days)
	points = reconcileCoordinates(points, selected)
	points = s.assignIDs(points)

	plan := &trip_models.TripPlan{
		ID:           s.newID(),
		Metadata:     mergeMetadata(data, resp),
		Points:       points,
		SpeechData:   []trip_models.SpeechPhrase{},
		DefaultFiles: []trip_models.CustomFile{},
		CustomFiles:  []trip_models.CustomFile{},
	}

	// Days past the date span are kept; the trip tolerates them until the user edits.
	if span := plan.DayCount(); span > 0 {
		outside := lo.CountBy(points, func(p trip_models.LocationPoint) bool { return p.Day > span })
		if outside > 0 {
			s.log.Warn().Int("points", outside).Int("span", span).Msg("model placed points beyond the trip dates")
		}
		if empty := emptyDays(points, span); len(empty) > 0 {
			s.log.Warn().Ints("days", empty).Msg("model left days without stops")
		}
	}

	s.log.Info().
		Str("trip_id", plan.ID).
		Str("destination", plan.Metadata.Destination).
		Int("days", len(resp.Days)).
		Int("points", len(points)).
		Msg("itinerary synthesized")
	return plan, nil
}

// flattenDays turns the day-keyed response into one list, stamping each point with its day.
func flattenDays(days []trip_models.RawDay) []trip_models.LocationPoint {
	return lo.FlatMap(days, func(d trip_models.RawDay, _ int) []trip_models.LocationPoint {
		day := d.Day
		if day < 1 {
			day = 1
		}
		return lo.Map(d.Points, func(p trip_models.RawPoint, _ int) trip_models.LocationPoint {
			coords := trip_models.Unresolved
			if p.Coordinates != nil {
				coords = *p.Coordinates
			}
			tips := p.Tips
			if tips == nil {
				tips = []string{}
			}
			return trip_models.LocationPoint{
				ID:          p.ID,
				Name:        p.Name,
				Category:    trip_models.ParseCategory(p.Category),
				Day:         day,
				Coordinates: coords,
				Tips:        tips,
				Phone:       p.Phone,
				Mapcode:     p.Mapcode,
				Description: p.Description,
			}
		})
	})
}

// reconcileCoordinates prefers positions of already-known places over the model's.
func reconcileCoordinates(points []trip_models.LocationPoint, known []trip_models.AttractionCandidate) []trip_models.LocationPoint {
	byID := lo.KeyBy(known, func(a trip_models.AttractionCandidate) string { return a.ID })
	byName := lo.KeyBy(known, func(a trip_models.AttractionCandidate) string { return normalizeName(a.Name) })

	for i := range points {
		p := &points[i]
		match, ok := byID[p.ID]
		if !ok || p.ID == "" {
			match, ok = byName[normalizeName(p.Name)]
		}
		if !ok {
			continue
		}
		if match.Coordinates.Valid() {
			p.Coordinates = match.Coordinates
		}
		if p.ID == "" {
			p.ID = match.ID
		}
		if len(p.Tips) == 0 && len(match.Tips) > 0 {
			p.Tips = append([]string{}, match.Tips...)
		}
		if p.Description == "" {
			p.Description = match.Desc
		}
	}
	return points
}

// assignIDs fills missing ids and re-keys duplicates so per-point state never collides.
func (s *ItinerarySynthesizer) assignIDs(points []trip_models.LocationPoint) []trip_models.LocationPoint {
	seen := make(map[string]bool, len(points))
	for i := range points {
		if points[i].ID == "" || seen[points[i].ID] {
			points[i].ID = s.newID()
		}
		seen[points[i].ID] = true
	}
	return points
}

// mergeMetadata lets planner input win over model suggestions for destination, dates and stays.
func mergeMetadata(data trip_models.PlannerData, resp *trip_models.RawItineraryResponse) trip_models.TripMetadata {
	title := resp.Title
	if title == "" {
		title = data.Destination + " trip"
	}
	period := resp.Period
	if period == "" {
		period = data.StartDate + " ~ " + data.EndDate
	}
	color := resp.PrimaryColor
	if !strings.HasPrefix(color, "#") {
		color = defaultPrimaryColor
	}

	accommodations := append([]trip_models.Accommodation{}, data.Accommodations...)

	return trip_models.TripMetadata{
		Destination:    data.Destination,
		Title:          title,
		Period:         period,
		StartDate:      data.StartDate,
		EndDate:        data.EndDate,
		Accommodations: accommodations,
		PrimaryColor:   color,
	}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func emptyDays(points []trip_models.LocationPoint, span int) []int {
	counts := lo.CountValuesBy(points, func(p trip_models.LocationPoint) int { return p.Day })
	var out []int
	for d := 1; d <= span; d++ {
		if counts[d] == 0 {
			out = append(out, d)
		}
	}
	return out
}

// SummarizeDays reports stops and straight-line distance per trip day, in visiting order.
func SummarizeDays(plan trip_models.TripPlan) []trip_models.DaySummary {
	span := plan.DayCount()
	maxDay := lo.Max(lo.Map(plan.Points, func(p trip_models.LocationPoint, _ int) int { return p.Day }))
	if maxDay > span {
		span = maxDay
	}

	out := make([]trip_models.DaySummary, 0, span)
	for d := 1; d <= span; d++ {
		stops := lo.Filter(plan.Points, func(p trip_models.LocationPoint, _ int) bool { return p.Day == d })
		resolved := lo.Filter(stops, func(p trip_models.LocationPoint, _ int) bool { return p.Coordinates.Valid() })

		meters := 0.0
		for i := 1; i < len(resolved); i++ {
			meters += geo.Distance(resolved[i-1].Coordinates.Point(), resolved[i].Coordinates.Point())
		}

		date := ""
		if t, err := utils.DayDate(plan.Metadata.StartDate, d); err == nil {
			date = t.Format(utils.DateLayout)
		}
		out = append(out, trip_models.DaySummary{
			Day:        d,
			Date:       date,
			Stops:      len(stops),
			DistanceKm: math.Round(meters/100) / 10,
		})
	}
	return out
}
