package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripplanner/internal/models/trip_models"
	"tripplanner/pkg/utils"
)

func TestGenerativeClientWithoutKeyMakesNoCall(t *testing.T) {
	ctx := context.Background()
	client := NewGenerativeClient(nil, 0, zerolog.Nop())

	_, err := client.FetchAttractions(ctx, "Okinawa", trip_models.CompanionFamily)
	assert.ErrorIs(t, err, utils.ErrNoAPIKey)
	_, err = client.FetchHotels(ctx, "Okinawa", trip_models.CompanionFamily)
	assert.ErrorIs(t, err, utils.ErrNoAPIKey)
	_, err = client.SynthesizeItinerary(ctx, trip_models.ItineraryParams{})
	assert.ErrorIs(t, err, utils.ErrNoAPIKey)
}

func TestGenerativeClientFailures(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		gen  *scriptedGenerator
		want error
	}{
		{name: "transport error", gen: &scriptedGenerator{err: errors.New("connection reset")}, want: utils.ErrNetworkFailure},
		{name: "blank text", gen: &scriptedGenerator{attractions: "  \n"}, want: utils.ErrEmptyResponse},
		{name: "no json", gen: &scriptedGenerator{attractions: "I cannot help with that."}, want: utils.ErrParseFailure},
		{name: "object without list", gen: &scriptedGenerator{attractions: `{"note":"none"}`}, want: utils.ErrParseFailure},
		{name: "no named places", gen: &scriptedGenerator{attractions: `[{"id":"x"},{"name":""}]`}, want: utils.ErrEmptyResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewGenerativeClient(tt.gen, 0, zerolog.Nop())
			got, err := client.FetchAttractions(ctx, "Okinawa", trip_models.CompanionAlone)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, got)
		})
	}
}

func TestFetchAttractionsDefaultsUntrustedFields(t *testing.T) {
	gen := &scriptedGenerator{attractions: "```json\n" + `[
		{"name":"Shuri Castle","category":"castle","rating":"4.5","reviewCount":"120","coordinates":{"lat":"26.217","lng":127.7195},"tips":"Buy tickets online"},
		{"id":"kokusai","name":"Kokusai Street","category":"food","lat":26.2155,"lon":127.6877,"highlights":["souvenirs"]},
		{"id":"far","name":"Nowhere","coordinates":{"lat":123,"lng":500}}
	]` + "\n```"}
	client := NewGenerativeClient(gen, 0, zerolog.Nop())

	got, err := client.FetchAttractions(context.Background(), "Okinawa", trip_models.CompanionCouple)
	require.NoError(t, err)
	require.Len(t, got, 3)

	shuri := got[0]
	assert.NotEmpty(t, shuri.ID)
	assert.Equal(t, trip_models.CategorySightseeing, shuri.Category)
	assert.InDelta(t, 4.5, shuri.Rating, 1e-9)
	assert.Equal(t, 120, shuri.ReviewCount)
	assert.Equal(t, []string{"Buy tickets online"}, shuri.Tips)
	assert.InDelta(t, 26.217, shuri.Coordinates.Lat, 1e-9)
	assert.Empty(t, shuri.Link)
	assert.NotNil(t, shuri.Attractions)

	kokusai := got[1]
	assert.Equal(t, "kokusai", kokusai.ID)
	assert.Equal(t, trip_models.CategoryFood, kokusai.Category)
	assert.InDelta(t, 127.6877, kokusai.Coordinates.Lng, 1e-9)
	assert.Equal(t, []string{"souvenirs"}, kokusai.Attractions)
	assert.Zero(t, kokusai.Rating)

	assert.True(t, got[2].Coordinates.IsUnresolved(), "out-of-range coordinates become the unresolved sentinel")

	prompt := gen.lastPrompt()
	assert.Contains(t, prompt, "Okinawa")
	assert.Contains(t, prompt, "a couple")
	assert.Contains(t, prompt, "ONLY a JSON array")
}

func TestFetchHotelsAcceptsWrappedList(t *testing.T) {
	client := NewGenerativeClient(&scriptedGenerator{hotels: hotelsJSON}, 0, zerolog.Nop())

	got, err := client.FetchHotels(context.Background(), "Okinawa", trip_models.CompanionFamily)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Hotel Collective", got[0].Name)
	assert.Equal(t, "Naha", got[0].Area)
	assert.NotEmpty(t, got[0].ID)
	assert.Equal(t, "halekulani", got[1].ID)
	assert.True(t, got[1].Coordinates.IsUnresolved())
}

func TestSynthesizeItineraryPrompt(t *testing.T) {
	gen := &scriptedGenerator{itinerary: okinawaItineraryJSON}
	client := NewGenerativeClient(gen, 0, zerolog.Nop())

	var data trip_models.PlannerData
	okinawaData(&data)
	data.Pace = trip_models.PaceTight
	data.Accommodations = []trip_models.Accommodation{{Name: "Hotel Collective", StartDate: "2026-02-01", EndDate: "2026-02-03"}}

	resp, err := client.SynthesizeItinerary(context.Background(), trip_models.ItineraryParams{
		Data: data,
		Selected: []trip_models.AttractionCandidate{
			{ID: "churaumi", Name: "Churaumi Aquarium", Category: trip_models.CategorySightseeing, Coordinates: trip_models.Coordinates{Lat: 26.69, Lng: 127.87}},
		},
		UserNote: "No early mornings, kids nap after lunch",
	})
	require.NoError(t, err)
	assert.Len(t, resp.Days, 3)
	assert.Equal(t, "Okinawa Island, Japan", resp.Destination)

	prompt := gen.lastPrompt()
	for _, want := range []string{
		"3-day travel itinerary",
		"a family with children",
		"HIGHEST PRIORITY",
		"No early mornings, kids nap after lunch",
		"Day 1 = 2026-02-01",
		"Day 3 = 2026-02-03",
		"6-7 stops per day",
		"Hotel Collective (2026-02-01 to 2026-02-03)",
		"ID:churaumi",
		"Cover EVERY day from 1 to 3",
		"ONLY a JSON object",
	} {
		assert.Contains(t, prompt, want)
	}
}

func TestDecodeItineraryShapes(t *testing.T) {
	t.Run("bare day array without day numbers", func(t *testing.T) {
		resp, err := decodeItinerary(`[{"places":[{"name":"A"}]},{"activities":[{"name":"B"},{"name":"C"}]}]`)
		require.NoError(t, err)
		require.Len(t, resp.Days, 2)
		assert.Equal(t, 1, resp.Days[0].Day)
		assert.Equal(t, 2, resp.Days[1].Day)
		assert.Len(t, resp.Days[1].Points, 2)
		assert.Nil(t, resp.Days[0].Points[0].Coordinates)
	})

	t.Run("object without days", func(t *testing.T) {
		_, err := decodeItinerary(`{"title":"x"}`)
		assert.ErrorIs(t, err, utils.ErrParseFailure)
	})
}
