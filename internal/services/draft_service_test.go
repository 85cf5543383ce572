package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripplanner/internal/models/trip_models"
	"tripplanner/internal/repositories"
	"tripplanner/pkg/utils"
)

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestWizardValidationGates(t *testing.T) {
	ctx := context.Background()
	h := newPlannerHarness(t, nil, newOkinawaGenerator())

	state := h.drafts.Open(ctx)
	assert.True(t, state.Open)
	assert.Equal(t, trip_models.StepIntro, state.Step)
	require.NoError(t, h.drafts.Start(ctx))
	assert.ErrorIs(t, h.drafts.Start(ctx), utils.ErrInvalidTransition)

	_, err := h.drafts.Next(ctx)
	assert.ErrorIs(t, err, utils.ErrValidationFailure, "destination missing")

	require.NoError(t, h.drafts.Edit(ctx, func(d *trip_models.PlannerData) {
		d.Destination = "  Okinawa  "
		d.StartDate = "2026-02-03"
		d.EndDate = "2026-02-01"
	}))
	assert.Equal(t, "Okinawa", h.drafts.State().Data.Destination)
	assert.False(t, h.drafts.CanAdvance(), "end before start")

	require.NoError(t, h.drafts.Edit(ctx, func(d *trip_models.PlannerData) { d.StartDate, d.EndDate = "2026-02-01", "2026-02-03" }))
	_, err = h.drafts.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, trip_models.StepOutbound, h.drafts.State().Step)

	require.NoError(t, h.drafts.Edit(ctx, func(d *trip_models.PlannerData) {
		d.TravelMode = trip_models.TravelModePlane
		d.DeparturePoint = "Incheon"
	}))
	assert.False(t, h.drafts.CanAdvance(), "plane needs an entry point")

	require.NoError(t, h.drafts.Edit(ctx, func(d *trip_models.PlannerData) { d.TicketAutoFilled = true }))
	assert.True(t, h.drafts.CanAdvance(), "a scanned ticket stands in for the entry point")

	require.NoError(t, h.drafts.Edit(ctx, func(d *trip_models.PlannerData) {
		d.TicketAutoFilled = false
		d.TravelMode = trip_models.TravelModeCar
	}))
	assert.True(t, h.drafts.CanAdvance(), "driving needs no entry point")

	_, err = h.drafts.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, trip_models.StepCompanion, h.drafts.State().Step, "step 3 is skipped")

	gates := []struct {
		step trip_models.Step
		fill func(*trip_models.PlannerData)
	}{
		{trip_models.StepCompanion, func(d *trip_models.PlannerData) { d.Companion = trip_models.CompanionFamily }},
		{trip_models.StepLocalTransport, func(d *trip_models.PlannerData) { d.LocalTransport = trip_models.LocalTransportRental }},
		{trip_models.StepPace, func(d *trip_models.PlannerData) { d.Pace = trip_models.PaceRelaxed }},
	}
	for _, g := range gates {
		require.Equal(t, g.step, h.drafts.State().Step)
		_, err := h.drafts.Next(ctx)
		assert.ErrorIs(t, err, utils.ErrValidationFailure, "step %v", g.step)
		require.NoError(t, h.drafts.Edit(ctx, g.fill))
		_, err = h.drafts.Next(ctx)
		require.NoError(t, err)
	}

	state = h.drafts.State()
	assert.Equal(t, trip_models.StepAttractions, state.Step)
	assert.Len(t, state.Attractions, 6, "leaving pace fetches places")
	assert.False(t, state.CanAdvance, "nothing selected yet")

	_, err = h.drafts.ToggleSelection(ctx, "shurijo")
	require.NoError(t, err)
	assert.True(t, h.drafts.CanAdvance())
}

func TestWizardBackMap(t *testing.T) {
	ctx := context.Background()
	h := newPlannerHarness(t, nil, newOkinawaGenerator())
	h.advanceTo(t, trip_models.StepAccommodation)

	var visited []trip_models.Step
	for h.drafts.Back(ctx) == nil {
		visited = append(visited, h.drafts.State().Step)
	}
	assert.Equal(t, []trip_models.Step{
		trip_models.StepAttractions,
		trip_models.StepPace,
		trip_models.StepLocalTransport,
		trip_models.StepCompanion,
		trip_models.StepOutbound,
		trip_models.StepDestination,
		trip_models.StepIntro,
	}, visited)
	assert.ErrorIs(t, h.drafts.Back(ctx), utils.ErrInvalidTransition)
}

func TestDraftIsNotPersistedWithoutContent(t *testing.T) {
	ctx := context.Background()
	h := newPlannerHarness(t, nil, newOkinawaGenerator())

	h.drafts.Open(ctx)
	require.NoError(t, h.drafts.Start(ctx))
	var record trip_models.DraftRecord
	assert.False(t, h.store.Get(ctx, repositories.DraftKey, &record))

	require.NoError(t, h.drafts.Edit(ctx, func(d *trip_models.PlannerData) { d.Destination = "Okinawa" }))
	require.True(t, h.store.Get(ctx, repositories.DraftKey, &record))
	assert.Equal(t, "Okinawa", record.Data.Destination)

	require.NoError(t, h.drafts.Cancel(ctx))
	assert.True(t, h.store.Get(ctx, repositories.DraftKey, &record), "a draft with content survives cancel")
	assert.False(t, h.drafts.State().Open)

	h.drafts.Open(ctx)
	require.NoError(t, h.drafts.Edit(ctx, func(d *trip_models.PlannerData) { d.Destination = "" }))
	require.NoError(t, h.drafts.Cancel(ctx))
	assert.False(t, h.store.Get(ctx, repositories.DraftKey, &record), "an emptied draft is discarded")

	assert.ErrorIs(t, h.drafts.Cancel(ctx), utils.ErrInvalidTransition)
}

func TestSaveAndExitRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()
	h := newPlannerHarness(t, store, newOkinawaGenerator())
	h.advanceTo(t, trip_models.StepAttractions)

	for _, id := range []string{"kouri", "churaumi"} {
		_, err := h.drafts.ToggleSelection(ctx, id)
		require.NoError(t, err)
	}
	require.NoError(t, h.drafts.SaveAndExit(ctx))
	assert.False(t, h.drafts.State().Open)

	again := newPlannerHarness(t, store, newOkinawaGenerator())
	state := again.drafts.Open(ctx)
	assert.Equal(t, trip_models.StepAttractions, state.Step)
	assert.Equal(t, "Okinawa", state.Data.Destination)
	assert.Equal(t, trip_models.PaceStandard, state.Data.Pace)
	assert.Equal(t, []string{"kouri", "churaumi"}, state.SelectedIDs)
	assert.Len(t, state.Attractions, 6)
	assert.Zero(t, again.gen.calls("worth visiting"), "restored candidates need no fetch")

	reopened := again.drafts.Open(ctx)
	assert.Equal(t, state.Step, reopened.Step, "opening an open wizard keeps its state")
}

func TestSaveAndExitNotAllowedOutsideEditableSteps(t *testing.T) {
	ctx := context.Background()
	gen := newOkinawaGenerator()
	h := newPlannerHarness(t, nil, gen)

	h.drafts.Open(ctx)
	assert.ErrorIs(t, h.drafts.SaveAndExit(ctx), utils.ErrInvalidTransition)

	h.advanceTo(t, trip_models.StepAccommodation)
	task, err := h.drafts.Next(ctx)
	require.NoError(t, err)
	_, err = task.Wait(waitCtx(t))
	require.NoError(t, err)
	require.Equal(t, trip_models.StepPreview, h.drafts.State().Step)
	assert.ErrorIs(t, h.drafts.SaveAndExit(ctx), utils.ErrInvalidTransition)

	h.drafts.Close()
	assert.ErrorIs(t, h.drafts.SaveAndExit(ctx), utils.ErrInvalidTransition, "closed wizard")
}

func TestRestoreNormalizesStep(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name  string
		saved trip_models.Step
		want  trip_models.Step
	}{
		{"preview resumes at accommodation", trip_models.StepPreview, trip_models.StepAccommodation},
		{"generating resumes at accommodation", trip_models.StepGenerating, trip_models.StepAccommodation},
		{"retired step restarts", 3, trip_models.StepIntro},
		{"regular step kept", trip_models.StepPace, trip_models.StepPace},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, _ := newTestStore()
			data := trip_models.PlannerData{}
			okinawaData(&data)
			require.True(t, store.Set(ctx, repositories.DraftKey, trip_models.DraftRecord{Step: tc.saved, Data: data}))

			h := newPlannerHarness(t, store, newOkinawaGenerator())
			state := h.drafts.Open(ctx)
			assert.Equal(t, tc.want, state.Step)
			assert.NotNil(t, state.SelectedIDs)
			assert.NotNil(t, state.Data.Accommodations)
		})
	}
}

func TestNewTripDiscardsDraft(t *testing.T) {
	ctx := context.Background()
	h := newPlannerHarness(t, nil, newOkinawaGenerator())
	h.advanceTo(t, trip_models.StepCompanion)

	state := h.drafts.NewTrip(ctx)
	assert.True(t, state.Open)
	assert.Equal(t, trip_models.StepIntro, state.Step)
	assert.Empty(t, state.Data.Destination)

	var record trip_models.DraftRecord
	assert.False(t, h.store.Get(ctx, repositories.DraftKey, &record))
}

func TestDestinationChangeDropsCandidates(t *testing.T) {
	ctx := context.Background()
	h := newPlannerHarness(t, nil, newOkinawaGenerator())
	h.advanceTo(t, trip_models.StepAttractions)
	_, err := h.drafts.ToggleSelection(ctx, "kouri")
	require.NoError(t, err)

	require.NoError(t, h.drafts.Edit(ctx, func(d *trip_models.PlannerData) { d.Destination = "OKINAWA " }))
	assert.Len(t, h.drafts.State().SelectedIDs, 1, "same destination after normalization")

	require.NoError(t, h.drafts.Edit(ctx, func(d *trip_models.PlannerData) { d.Destination = "Kyoto" }))
	state := h.drafts.State()
	assert.Empty(t, state.SelectedIDs)
	assert.Empty(t, state.Attractions)
}

func TestAttractionFetchFailureAndRefresh(t *testing.T) {
	ctx := context.Background()
	gen := newOkinawaGenerator()
	h := newPlannerHarness(t, nil, gen)
	h.advanceTo(t, trip_models.StepPace)

	gen.err = assert.AnError
	_, err := h.drafts.Next(ctx)
	assert.ErrorIs(t, err, utils.ErrNetworkFailure)
	state := h.drafts.State()
	assert.Equal(t, trip_models.StepAttractions, state.Step, "step advances even when the fetch fails")
	assert.Empty(t, state.Attractions)
	assert.NotEmpty(t, state.Error)

	gen.err = nil
	require.NoError(t, h.drafts.RefreshAttractions(ctx))
	state = h.drafts.State()
	assert.Len(t, state.Attractions, 6)
	assert.Empty(t, state.Error)
}

func TestAttractionsServedFromCache(t *testing.T) {
	gen := newOkinawaGenerator()
	h := newPlannerHarness(t, nil, gen)
	h.advanceTo(t, trip_models.StepAttractions)
	require.Equal(t, 1, gen.calls("worth visiting"))

	h.drafts.NewTrip(context.Background())
	h.advanceTo(t, trip_models.StepAttractions)
	assert.Equal(t, 1, gen.calls("worth visiting"))
	assert.Len(t, h.drafts.State().Attractions, 6)

	require.NoError(t, h.drafts.RefreshAttractions(context.Background()))
	assert.Equal(t, 2, gen.calls("worth visiting"), "refresh bypasses the cache")
}

func TestManualAttractionsAndFilter(t *testing.T) {
	ctx := context.Background()
	h := newPlannerHarness(t, nil, newOkinawaGenerator())
	h.advanceTo(t, trip_models.StepAttractions)

	_, err := h.drafts.AddManualAttraction(ctx, "   ", trip_models.CategoryFood)
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	manual, err := h.drafts.AddManualAttraction(ctx, "Secret Beach", trip_models.CategoryFood)
	require.NoError(t, err)
	assert.True(t, manual.Coordinates.IsUnresolved())
	assert.Contains(t, h.drafts.State().SelectedIDs, manual.ID)

	food := h.drafts.FilterAttractions(trip_models.CategoryFood)
	assert.ElementsMatch(t, []string{"kokusai", "makishi", manual.ID}, pointIDsOf(food))
	assert.Len(t, h.drafts.FilterAttractions(""), 7)

	_, err = h.drafts.ToggleSelection(ctx, "churaumi")
	require.NoError(t, err)
	require.NoError(t, h.drafts.RefreshAttractions(ctx))
	state := h.drafts.State()
	assert.Len(t, state.Attractions, 7, "selected manual place survives refresh")
	assert.Equal(t, []string{manual.ID, "churaumi"}, state.SelectedIDs)

	selected, err := h.drafts.ToggleSelection(ctx, manual.ID)
	require.NoError(t, err)
	assert.False(t, selected)
	require.NoError(t, h.drafts.RefreshAttractions(ctx))
	assert.Len(t, h.drafts.State().Attractions, 6, "unselected manual place is dropped")

	_, err = h.drafts.ToggleSelection(ctx, "nowhere")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func pointIDsOf(candidates []trip_models.AttractionCandidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.ID
	}
	return out
}

func TestAccommodationStep(t *testing.T) {
	ctx := context.Background()
	gen := newOkinawaGenerator()
	h := newPlannerHarness(t, nil, gen)

	h.advanceTo(t, trip_models.StepAttractions)
	_, err := h.drafts.SuggestHotels(ctx)
	assert.ErrorIs(t, err, utils.ErrInvalidTransition)

	_, err = h.drafts.ToggleSelection(ctx, "kouri")
	require.NoError(t, err)
	_, err = h.drafts.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, trip_models.StepAccommodation, h.drafts.State().Step)

	hotels, err := h.drafts.SuggestHotels(ctx)
	require.NoError(t, err)
	require.Len(t, hotels, 2)
	_, err = h.drafts.SuggestHotels(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls("places to stay"))
	assert.Len(t, h.drafts.State().Hotels, 2)

	err = h.drafts.AddAccommodation(ctx, trip_models.Accommodation{Name: "Hotel Collective", StartDate: "2026-02-03", EndDate: "2026-02-01"})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
	err = h.drafts.AddAccommodation(ctx, trip_models.Accommodation{StartDate: "2026-02-01", EndDate: "2026-02-02"})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	require.NoError(t, h.drafts.AddAccommodation(ctx, trip_models.Accommodation{Name: "Hotel Collective", StartDate: "2026-02-01", EndDate: "2026-02-02"}))
	require.NoError(t, h.drafts.AddAccommodation(ctx, trip_models.Accommodation{Name: "Halekulani Okinawa", StartDate: "2026-02-02", EndDate: "2026-02-03"}))

	req, err := h.drafts.RequestRemoveAccommodation(0)
	require.NoError(t, err)
	assert.Contains(t, req.Message, "Hotel Collective")
	assert.Len(t, h.drafts.State().Data.Accommodations, 2)

	require.NoError(t, req.Confirm(ctx))
	accs := h.drafts.State().Data.Accommodations
	require.Len(t, accs, 1)
	assert.Equal(t, "Halekulani Okinawa", accs[0].Name)
	assert.ErrorIs(t, req.Confirm(ctx), utils.ErrNotFound)

	_, err = h.drafts.RequestRemoveAccommodation(3)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestRemoveAccommodationLockedDuringGeneration(t *testing.T) {
	ctx := context.Background()
	gen := newOkinawaGenerator()
	h := newPlannerHarness(t, nil, gen)
	h.advanceTo(t, trip_models.StepAccommodation)
	require.NoError(t, h.drafts.AddAccommodation(ctx, trip_models.Accommodation{Name: "Hotel Collective", StartDate: "2026-02-01", EndDate: "2026-02-02"}))

	req, err := h.drafts.RequestRemoveAccommodation(0)
	require.NoError(t, err)

	release := make(chan struct{})
	gen.block = release
	task, err := h.drafts.Next(ctx)
	require.NoError(t, err)

	assert.ErrorIs(t, req.Confirm(ctx), utils.ErrInvalidTransition)
	assert.Len(t, h.drafts.State().Data.Accommodations, 1)

	close(release)
	plan, err := task.Wait(waitCtx(t))
	require.NoError(t, err)
	assert.Len(t, plan.Metadata.Accommodations, 1)

	assert.ErrorIs(t, req.Confirm(ctx), utils.ErrInvalidTransition, "still locked on the preview")
}

func TestLateResultOfAbandonedRunIsNotReturned(t *testing.T) {
	ctx := context.Background()
	gen := newOkinawaGenerator()
	release := make(chan struct{})
	gen.block, gen.deaf = release, true
	h := newPlannerHarness(t, nil, gen)
	h.advanceTo(t, trip_models.StepAccommodation)

	task, err := h.drafts.Next(ctx)
	require.NoError(t, err)
	require.NoError(t, h.drafts.Back(ctx))
	close(release)

	plan, err := task.Wait(waitCtx(t))
	assert.ErrorIs(t, err, utils.ErrGenerationDiscarded)
	assert.Nil(t, plan)

	state := h.drafts.State()
	assert.Equal(t, trip_models.StepAccommodation, state.Step)
	assert.Nil(t, state.Preview)
}

func TestGenerationSuccessAndEditPlaces(t *testing.T) {
	ctx := context.Background()
	h := newPlannerHarness(t, nil, newOkinawaGenerator())
	h.advanceTo(t, trip_models.StepAccommodation)

	task, err := h.drafts.Next(ctx)
	require.NoError(t, err)
	require.NotNil(t, task)
	plan, err := task.Wait(waitCtx(t))
	require.NoError(t, err)
	require.NotNil(t, plan)

	state := h.drafts.State()
	assert.Equal(t, trip_models.StepPreview, state.Step)
	assert.False(t, state.Generating)
	require.NotNil(t, state.Preview)
	assert.Equal(t, plan.ID, state.Preview.ID)
	assert.Len(t, state.Days, 3)

	assert.ErrorIs(t, h.drafts.Edit(ctx, func(d *trip_models.PlannerData) { d.Pace = trip_models.PaceTight }), utils.ErrInvalidTransition)

	require.NoError(t, h.drafts.EditPlaces(ctx))
	state = h.drafts.State()
	assert.Equal(t, trip_models.StepAttractions, state.Step)
	assert.Nil(t, state.Preview)
	assert.Len(t, state.SelectedIDs, 5)
}

func TestGenerationFailureReturnsToAccommodation(t *testing.T) {
	ctx := context.Background()
	gen := newOkinawaGenerator()
	gen.itinerary = "I could not plan that trip."
	h := newPlannerHarness(t, nil, gen)
	h.advanceTo(t, trip_models.StepAccommodation)

	task, err := h.drafts.Next(ctx)
	require.NoError(t, err)
	_, err = task.Wait(waitCtx(t))
	assert.ErrorIs(t, err, utils.ErrParseFailure)

	state := h.drafts.State()
	assert.Equal(t, trip_models.StepAccommodation, state.Step)
	assert.NotEmpty(t, state.Error)
	assert.Nil(t, state.Preview)
	assert.Len(t, state.SelectedIDs, 5, "selections survive a failed run")
}

func TestAbandonedGenerationIsDiscarded(t *testing.T) {
	abandon := map[string]func(*testing.T, *plannerHarness){
		"back":     func(t *testing.T, h *plannerHarness) { require.NoError(t, h.drafts.Back(context.Background())) },
		"close":    func(_ *testing.T, h *plannerHarness) { h.drafts.Close() },
		"new trip": func(_ *testing.T, h *plannerHarness) { h.drafts.NewTrip(context.Background()) },
	}
	for name, leave := range abandon {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			gen := newOkinawaGenerator()
			gen.block = make(chan struct{})
			h := newPlannerHarness(t, nil, gen)
			h.advanceTo(t, trip_models.StepAccommodation)

			task, err := h.drafts.Next(ctx)
			require.NoError(t, err)
			state := h.drafts.State()
			assert.Equal(t, trip_models.StepGenerating, state.Step)
			assert.True(t, state.Generating)
			assert.ErrorIs(t, h.drafts.Edit(ctx, func(d *trip_models.PlannerData) { d.Pace = trip_models.PaceTight }), utils.ErrInvalidTransition)

			before := h.drafts.State()
			leave(t, h)
			plan, err := task.Wait(waitCtx(t))
			assert.ErrorIs(t, err, utils.ErrGenerationDiscarded, "blocked call ends when the run is abandoned")
			assert.Nil(t, plan)

			after := h.drafts.State()
			assert.Nil(t, after.Preview)
			assert.NotEqual(t, trip_models.StepPreview, after.Step)
			assert.NotEqual(t, before.Step, after.Step)
			assert.Empty(t, h.trips.ListTrips())
		})
	}
}

func TestOkinawaTripEndToEnd(t *testing.T) {
	ctx := context.Background()
	gen := newOkinawaGenerator()
	h := newPlannerHarness(t, nil, gen)
	h.advanceTo(t, trip_models.StepAccommodation)

	require.NoError(t, h.drafts.SetUserNote(ctx, "kids love aquariums"))
	require.Empty(t, h.drafts.State().Data.Accommodations)

	release := make(chan struct{})
	gen.block = release
	task, err := h.drafts.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, trip_models.StepGenerating, h.drafts.State().Step)
	close(release)
	_, err = task.Wait(waitCtx(t))
	require.NoError(t, err)
	assert.Equal(t, trip_models.StepPreview, h.drafts.State().Step)

	prompt := gen.lastPrompt()
	assert.NotContains(t, prompt, "Already booked stays")
	assert.Contains(t, prompt, "kids love aquariums")
	assert.Contains(t, prompt, "ID:churaumi")

	plan, err := h.drafts.Publish(ctx)
	require.NoError(t, err)
	assert.False(t, h.drafts.State().Open)

	assert.Equal(t, "Okinawa", plan.Metadata.Destination)
	assert.Equal(t, "2026-02-01", plan.Metadata.StartDate)
	assert.Equal(t, "2026-02-03", plan.Metadata.EndDate)
	assert.Len(t, plan.Metadata.Accommodations, 0)

	for day := 1; day <= 3; day++ {
		assert.NotEmpty(t, h.trips.PointsForDay(day), "day %d", day)
	}

	byID := map[string]trip_models.LocationPoint{}
	for _, p := range plan.Points {
		byID[p.ID] = p
	}
	assert.Equal(t, trip_models.Coordinates{Lat: 26.2155, Lng: 127.6877}, byID["kokusai"].Coordinates)
	assert.Equal(t, trip_models.Coordinates{Lat: 26.6942, Lng: 127.8779}, byID["churaumi"].Coordinates)
	assert.Equal(t, []string{"Go early"}, byID["churaumi"].Tips)
	assert.True(t, byID["makishi"].Coordinates.IsUnresolved())

	var record trip_models.DraftRecord
	assert.False(t, h.store.Get(ctx, repositories.DraftKey, &record))

	trips := h.trips.ListTrips()
	require.Len(t, trips, 1)
	assert.Equal(t, plan.ID, trips[0].ID)

	reloaded := NewTripStateManager(h.store, zerolog.Nop())
	reloaded.Load(ctx)
	active, ok := reloaded.ActiveTrip()
	require.True(t, ok)
	assert.Equal(t, plan.ID, active.ID)
	assert.Len(t, active.Points, len(plan.Points))
}
