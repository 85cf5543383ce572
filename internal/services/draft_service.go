package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"tripplanner/internal/models/response_models"
	"tripplanner/internal/models/trip_models"
	"tripplanner/internal/repositories"
	"tripplanner/pkg/utils"
)

type DraftControllerInterface interface {
	Open(ctx context.Context) response_models.PlannerState
	NewTrip(ctx context.Context) response_models.PlannerState
	Start(ctx context.Context) error
	Cancel(ctx context.Context) error
	Edit(ctx context.Context, edit func(*trip_models.PlannerData)) error
	CanAdvance() bool
	Next(ctx context.Context) (*GenerationTask, error)
	Back(ctx context.Context) error
	SaveAndExit(ctx context.Context) error

	ToggleSelection(ctx context.Context, attractionID string) (bool, error)
	AddManualAttraction(ctx context.Context, name string, category trip_models.Category) (trip_models.AttractionCandidate, error)
	FilterAttractions(category trip_models.Category) []trip_models.AttractionCandidate
	RefreshAttractions(ctx context.Context) error

	SuggestHotels(ctx context.Context) ([]trip_models.HotelCandidate, error)
	AddAccommodation(ctx context.Context, acc trip_models.Accommodation) error
	RequestRemoveAccommodation(index int) (*ConfirmRequest, error)
	SetUserNote(ctx context.Context, note string) error

	Publish(ctx context.Context) (trip_models.TripPlan, error)
	EditPlaces(ctx context.Context) error
	Close()
	State() response_models.PlannerState
}

// GenerationTask is the handle of an in-flight itinerary synthesis.
type GenerationTask struct {
	done   chan struct{}
	cancel context.CancelFunc
	plan   *trip_models.TripPlan
	err    error
}

// Wait blocks until the synthesis finished and its result was applied or discarded.
func (t *GenerationTask) Wait(ctx context.Context) (*trip_models.TripPlan, error) {
	select {
	case <-t.done:
		return t.plan, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (t *GenerationTask) Cancel() { t.cancel() }

var nextSteps = map[trip_models.Step]trip_models.Step{
	trip_models.StepIntro:          trip_models.StepDestination,
	trip_models.StepDestination:    trip_models.StepOutbound,
	trip_models.StepOutbound:       trip_models.StepCompanion,
	trip_models.StepCompanion:      trip_models.StepLocalTransport,
	trip_models.StepLocalTransport: trip_models.StepPace,
	trip_models.StepPace:           trip_models.StepAttractions,
	trip_models.StepAttractions:    trip_models.StepAccommodation,
	trip_models.StepAccommodation:  trip_models.StepGenerating,
}

var backSteps = map[trip_models.Step]trip_models.Step{
	trip_models.StepDestination:    trip_models.StepIntro,
	trip_models.StepOutbound:       trip_models.StepDestination,
	trip_models.StepCompanion:      trip_models.StepOutbound,
	trip_models.StepLocalTransport: trip_models.StepCompanion,
	trip_models.StepPace:           trip_models.StepLocalTransport,
	trip_models.StepAttractions:    trip_models.StepPace,
	trip_models.StepAccommodation:  trip_models.StepAttractions,
	trip_models.StepGenerating:     trip_models.StepAccommodation,
}

type DraftController struct {
	mu    sync.Mutex
	store *repositories.PersistentStore
	cache RecommendationCacheInterface
	ai    GenerativeClientInterface
	synth ItinerarySynthesizerInterface
	trips TripStateManagerInterface
	log   zerolog.Logger
	newID func() string

	open        bool
	step        trip_models.Step
	data        trip_models.PlannerData
	selected    []string
	attractions []trip_models.AttractionCandidate
	hotels      []trip_models.HotelCandidate
	preview     *trip_models.TripPlan
	lastErr     string

	// seq changes whenever an in-flight generation must no longer write back.
	seq  uint64
	task *GenerationTask
}

func NewDraftController(
	store *repositories.PersistentStore,
	cache RecommendationCacheInterface,
	ai GenerativeClientInterface,
	synth ItinerarySynthesizerInterface,
	trips TripStateManagerInterface,
	log zerolog.Logger,
) *DraftController {
	c := &DraftController{
		store: store,
		cache: cache,
		ai:    ai,
		synth: synth,
		trips: trips,
		log:   log.With().Str("component", "draft_controller").Logger(),
		newID: func() string { return uuid.New().String() },
	}
	c.resetLocked()
	return c
}

func (c *DraftController) resetLocked() {
	c.step = trip_models.StepIntro
	c.data = trip_models.PlannerData{Accommodations: []trip_models.Accommodation{}}
	c.selected = []string{}
	c.attractions = []trip_models.AttractionCandidate{}
	c.hotels = []trip_models.HotelCandidate{}
	c.preview = nil
	c.lastErr = ""
}

// abandonLocked invalidates any running generation so its result is dropped.
func (c *DraftController) abandonLocked() {
	c.seq++
	if c.task != nil {
		c.task.Cancel()
		c.task = nil
	}
}

// Open restores the persisted draft, or starts at the intro when there is none.
// Calling it on an open wizard just returns the current state.
func (c *DraftController) Open(ctx context.Context) response_models.PlannerState {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.open {
		return c.stateLocked()
	}

	c.resetLocked()
	var record trip_models.DraftRecord
	if c.store.Get(ctx, repositories.DraftKey, &record) {
		c.restoreLocked(record)
		c.log.Info().Float64("step", float64(c.step)).Str("destination", c.data.Destination).Msg("draft restored")
	}
	c.open = true
	return c.stateLocked()
}

func (c *DraftController) restoreLocked(record trip_models.DraftRecord) {
	step := record.Step
	// The preview plan is not persisted, so a draft saved while generating or
	// previewing resumes at the accommodation step.
	if step == trip_models.StepGenerating || step == trip_models.StepPreview {
		step = trip_models.StepAccommodation
	}
	if _, known := nextSteps[step]; !known {
		step = trip_models.StepIntro
	}

	c.step = step
	c.data = record.Data
	if c.data.Accommodations == nil {
		c.data.Accommodations = []trip_models.Accommodation{}
	}
	c.selected = slices.Clone(record.SelectedIDs)
	if c.selected == nil {
		c.selected = []string{}
	}
	c.attractions = slices.Clone(record.Attractions)
	if c.attractions == nil {
		c.attractions = []trip_models.AttractionCandidate{}
	}
}

// NewTrip discards any existing draft and opens a fresh wizard.
func (c *DraftController) NewTrip(ctx context.Context) response_models.PlannerState {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.abandonLocked()
	c.store.Remove(ctx, repositories.DraftKey)
	c.resetLocked()
	c.open = true
	return c.stateLocked()
}

func (c *DraftController) requireOpenLocked() error {
	if !c.open {
		return fmt.Errorf("%w: wizard is closed", utils.ErrInvalidTransition)
	}
	return nil
}

func (c *DraftController) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireOpenLocked(); err != nil {
		return err
	}
	if c.step != trip_models.StepIntro {
		return fmt.Errorf("%w: start is only available on the intro", utils.ErrInvalidTransition)
	}
	c.step = trip_models.StepDestination
	c.mirrorLocked(ctx)
	return nil
}

// Cancel closes the wizard. A draft without any entered content is discarded.
func (c *DraftController) Cancel(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireOpenLocked(); err != nil {
		return err
	}

	c.abandonLocked()
	if !c.data.HasRequiredContent() {
		c.store.Remove(ctx, repositories.DraftKey)
	}
	c.resetLocked()
	c.open = false
	return nil
}

// Edit applies a field change. A destination change drops candidates fetched for the old one.
func (c *DraftController) Edit(ctx context.Context, edit func(*trip_models.PlannerData)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireEditableLocked(); err != nil {
		return err
	}

	before := NormalizeCacheKey(c.data.Destination)
	next := c.data
	next.Accommodations = slices.Clone(c.data.Accommodations)
	edit(&next)
	if next.Accommodations == nil {
		next.Accommodations = []trip_models.Accommodation{}
	}
	next.Destination = strings.TrimSpace(next.Destination)
	c.data = next

	if NormalizeCacheKey(c.data.Destination) != before {
		c.selected = []string{}
		c.attractions = []trip_models.AttractionCandidate{}
		c.hotels = []trip_models.HotelCandidate{}
	}
	c.mirrorLocked(ctx)
	return nil
}

func (c *DraftController) requireEditableLocked() error {
	if err := c.requireOpenLocked(); err != nil {
		return err
	}
	if c.step == trip_models.StepGenerating || c.step == trip_models.StepPreview {
		return fmt.Errorf("%w: planner data is locked while generating or previewing", utils.ErrInvalidTransition)
	}
	return nil
}

func (c *DraftController) requireStepLocked(step trip_models.Step) error {
	if err := c.requireOpenLocked(); err != nil {
		return err
	}
	if c.step != step {
		return fmt.Errorf("%w: expected step %v, at %v", utils.ErrInvalidTransition, step, c.step)
	}
	return nil
}

func (c *DraftController) CanAdvance() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open && c.validateLocked() == nil
}

// validateLocked checks the gate of the current step.
func (c *DraftController) validateLocked() error {
	d := c.data
	switch c.step {
	case trip_models.StepIntro, trip_models.StepAccommodation:
		return nil
	case trip_models.StepDestination:
		if strings.TrimSpace(d.Destination) == "" {
			return fmt.Errorf("%w: destination is required", utils.ErrValidationFailure)
		}
		start, err := utils.ParseTripDate(d.StartDate)
		if err != nil {
			return fmt.Errorf("%w: start date is required", utils.ErrValidationFailure)
		}
		end, err := utils.ParseTripDate(d.EndDate)
		if err != nil {
			return fmt.Errorf("%w: end date is required", utils.ErrValidationFailure)
		}
		if end.Before(start) {
			return fmt.Errorf("%w: end date precedes start date", utils.ErrValidationFailure)
		}
	case trip_models.StepOutbound:
		if !d.TravelMode.Valid() {
			return fmt.Errorf("%w: travel mode is required", utils.ErrValidationFailure)
		}
		if strings.TrimSpace(d.DeparturePoint) == "" {
			return fmt.Errorf("%w: departure point is required", utils.ErrValidationFailure)
		}
		if d.TravelMode != trip_models.TravelModeCar && strings.TrimSpace(d.EntryPoint) == "" && !d.TicketAutoFilled {
			return fmt.Errorf("%w: entry point is required", utils.ErrValidationFailure)
		}
	case trip_models.StepCompanion:
		if !d.Companion.Valid() {
			return fmt.Errorf("%w: companion is required", utils.ErrValidationFailure)
		}
	case trip_models.StepLocalTransport:
		if !d.LocalTransport.Valid() {
			return fmt.Errorf("%w: local transport is required", utils.ErrValidationFailure)
		}
	case trip_models.StepPace:
		if !d.Pace.Valid() {
			return fmt.Errorf("%w: pace is required", utils.ErrValidationFailure)
		}
	case trip_models.StepAttractions:
		if len(c.selected) == 0 {
			return fmt.Errorf("%w: select at least one place", utils.ErrValidationFailure)
		}
	default:
		return fmt.Errorf("%w: no next from step %v", utils.ErrInvalidTransition, c.step)
	}
	return nil
}

// Next validates the current step and advances. Leaving the accommodation step
// starts itinerary synthesis and returns its task; every other step returns nil.
func (c *DraftController) Next(ctx context.Context) (*GenerationTask, error) {
	c.mu.Lock()
	if err := c.requireOpenLocked(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if err := c.validateLocked(); err != nil {
		c.mu.Unlock()
		return nil, err
	}

	from := c.step
	c.step = nextSteps[from]
	c.lastErr = ""
	c.mirrorLocked(ctx)

	switch from {
	case trip_models.StepPace:
		needFetch := len(c.attractions) == 0
		c.mu.Unlock()
		if needFetch {
			return nil, c.loadAttractions(ctx, false)
		}
		return nil, nil
	case trip_models.StepAccommodation:
		task := c.startGenerationLocked(ctx)
		c.mu.Unlock()
		return task, nil
	}
	c.mu.Unlock()
	return nil, nil
}

func (c *DraftController) Back(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireOpenLocked(); err != nil {
		return err
	}

	prev, ok := backSteps[c.step]
	if !ok {
		return fmt.Errorf("%w: no back from step %v", utils.ErrInvalidTransition, c.step)
	}
	if c.step == trip_models.StepGenerating {
		c.abandonLocked()
	}
	c.step = prev
	c.lastErr = ""
	c.mirrorLocked(ctx)
	return nil
}

// SaveAndExit writes the current record verbatim and closes the wizard.
func (c *DraftController) SaveAndExit(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireOpenLocked(); err != nil {
		return err
	}
	switch c.step {
	case trip_models.StepIntro, trip_models.StepGenerating, trip_models.StepPreview:
		return fmt.Errorf("%w: save and exit is not available at step %v", utils.ErrInvalidTransition, c.step)
	}

	c.store.Set(ctx, repositories.DraftKey, c.recordLocked())
	c.log.Info().Float64("step", float64(c.step)).Msg("draft saved")
	c.resetLocked()
	c.open = false
	return nil
}

func (c *DraftController) recordLocked() trip_models.DraftRecord {
	return trip_models.DraftRecord{
		Step:        c.step,
		Data:        c.data,
		SelectedIDs: slices.Clone(c.selected),
		Attractions: slices.Clone(c.attractions),
	}
}

// mirrorLocked keeps the persisted draft in step with memory once anything was entered.
func (c *DraftController) mirrorLocked(ctx context.Context) {
	if !c.data.HasRequiredContent() {
		return
	}
	c.store.Set(ctx, repositories.DraftKey, c.recordLocked())
}

// ToggleSelection flips whether a candidate is selected and returns the new value.
func (c *DraftController) ToggleSelection(ctx context.Context, attractionID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireStepLocked(trip_models.StepAttractions); err != nil {
		return false, err
	}
	if !lo.ContainsBy(c.attractions, func(a trip_models.AttractionCandidate) bool { return a.ID == attractionID }) {
		return false, fmt.Errorf("%w: attraction %s", utils.ErrNotFound, attractionID)
	}

	selected := !slices.Contains(c.selected, attractionID)
	if selected {
		c.selected = append(c.selected, attractionID)
	} else {
		c.selected = lo.Without(c.selected, attractionID)
	}
	c.mirrorLocked(ctx)
	return selected, nil
}

// AddManualAttraction enters a user-named place without the model. Its position
// stays unresolved and it is selected right away.
func (c *DraftController) AddManualAttraction(ctx context.Context, name string, category trip_models.Category) (trip_models.AttractionCandidate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return trip_models.AttractionCandidate{}, fmt.Errorf("%w: place name is required", utils.ErrInvalidInput)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireStepLocked(trip_models.StepAttractions); err != nil {
		return trip_models.AttractionCandidate{}, err
	}

	candidate := trip_models.AttractionCandidate{
		ID:          c.newID(),
		Name:        name,
		Category:    trip_models.ParseCategory(string(category)),
		Attractions: []string{},
		Tips:        []string{},
		Coordinates: trip_models.Unresolved,
	}
	c.attractions = append(c.attractions, candidate)
	c.selected = append(c.selected, candidate.ID)
	c.mirrorLocked(ctx)
	return candidate, nil
}

// FilterAttractions narrows the candidate list for display; an empty category keeps all.
func (c *DraftController) FilterAttractions(category trip_models.Category) []trip_models.AttractionCandidate {
	c.mu.Lock()
	defer c.mu.Unlock()
	if category == "" || category == "all" {
		return slices.Clone(c.attractions)
	}
	return lo.Filter(c.attractions, func(a trip_models.AttractionCandidate, _ int) bool { return a.Category == category })
}

// RefreshAttractions re-asks the model, bypassing the cache. Selections of
// candidates that survive by id are kept, and candidates entered by hand stay.
func (c *DraftController) RefreshAttractions(ctx context.Context) error {
	c.mu.Lock()
	if err := c.requireStepLocked(trip_models.StepAttractions); err != nil {
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()
	return c.loadAttractions(ctx, true)
}

// loadAttractions runs without the lock held; the result is dropped when the
// destination changed meanwhile.
func (c *DraftController) loadAttractions(ctx context.Context, bypassCache bool) error {
	c.mu.Lock()
	destination := c.data.Destination
	companion := c.data.Companion
	c.mu.Unlock()

	var fetched []trip_models.AttractionCandidate
	if bypassCache || !c.cache.Lookup(ctx, repositories.AttractionCacheKey, destination, &fetched) || len(fetched) == 0 {
		var err error
		fetched, err = c.ai.FetchAttractions(ctx, destination, companion)
		if err != nil {
			c.mu.Lock()
			c.lastErr = err.Error()
			c.mu.Unlock()
			c.log.Warn().Err(err).Str("destination", destination).Msg("attraction fetch failed")
			return err
		}
		c.cache.Store(ctx, repositories.AttractionCacheKey, destination, fetched)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if NormalizeCacheKey(c.data.Destination) != NormalizeCacheKey(destination) {
		c.log.Debug().Str("destination", destination).Msg("stale attraction result dropped")
		return nil
	}

	fetchedIDs := lo.SliceToMap(fetched, func(a trip_models.AttractionCandidate) (string, bool) { return a.ID, true })
	manual := lo.Filter(c.attractions, func(a trip_models.AttractionCandidate, _ int) bool {
		return !fetchedIDs[a.ID] && a.Coordinates.IsUnresolved() && slices.Contains(c.selected, a.ID)
	})
	c.attractions = append(slices.Clone(fetched), manual...)
	known := lo.SliceToMap(c.attractions, func(a trip_models.AttractionCandidate) (string, bool) { return a.ID, true })
	c.selected = lo.Filter(c.selected, func(id string, _ int) bool { return known[id] })
	c.lastErr = ""
	c.mirrorLocked(ctx)
	return nil
}

func (c *DraftController) SuggestHotels(ctx context.Context) ([]trip_models.HotelCandidate, error) {
	c.mu.Lock()
	if err := c.requireStepLocked(trip_models.StepAccommodation); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	destination := c.data.Destination
	companion := c.data.Companion
	c.mu.Unlock()

	var hotels []trip_models.HotelCandidate
	if !c.cache.Lookup(ctx, repositories.HotelCacheKey, destination, &hotels) || len(hotels) == 0 {
		var err error
		hotels, err = c.ai.FetchHotels(ctx, destination, companion)
		if err != nil {
			c.log.Warn().Err(err).Str("destination", destination).Msg("hotel fetch failed")
			return nil, err
		}
		c.cache.Store(ctx, repositories.HotelCacheKey, destination, hotels)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if NormalizeCacheKey(c.data.Destination) == NormalizeCacheKey(destination) {
		c.hotels = slices.Clone(hotels)
	}
	return hotels, nil
}

func (c *DraftController) AddAccommodation(ctx context.Context, acc trip_models.Accommodation) error {
	acc.Name = strings.TrimSpace(acc.Name)
	if acc.Name == "" {
		return fmt.Errorf("%w: accommodation name is required", utils.ErrInvalidInput)
	}
	if utils.TripDayCount(acc.StartDate, acc.EndDate) == 0 {
		return fmt.Errorf("%w: accommodation needs a valid date range", utils.ErrInvalidInput)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireStepLocked(trip_models.StepAccommodation); err != nil {
		return err
	}

	c.data.Accommodations = append(slices.Clone(c.data.Accommodations), acc)
	c.mirrorLocked(ctx)
	return nil
}

func (c *DraftController) RequestRemoveAccommodation(index int) (*ConfirmRequest, error) {
	c.mu.Lock()
	if err := c.requireStepLocked(trip_models.StepAccommodation); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if index < 0 || index >= len(c.data.Accommodations) {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: accommodation %d", utils.ErrNotFound, index)
	}
	target := c.data.Accommodations[index]
	c.mu.Unlock()

	return &ConfirmRequest{
		Title:   "Remove accommodation",
		Message: fmt.Sprintf("Remove %q (%s ~ %s)?", target.Name, target.StartDate, target.EndDate),
		Confirm: func(ctx context.Context) error {
			c.mu.Lock()
			defer c.mu.Unlock()
			if err := c.requireEditableLocked(); err != nil {
				return err
			}
			idx := slices.IndexFunc(c.data.Accommodations, func(a trip_models.Accommodation) bool { return a == target })
			if idx < 0 {
				return fmt.Errorf("%w: accommodation %q", utils.ErrNotFound, target.Name)
			}
			c.data.Accommodations = slices.Delete(slices.Clone(c.data.Accommodations), idx, idx+1)
			c.mirrorLocked(ctx)
			return nil
		},
	}, nil
}

func (c *DraftController) SetUserNote(ctx context.Context, note string) error {
	return c.Edit(ctx, func(d *trip_models.PlannerData) { d.UserNote = note })
}

// startGenerationLocked launches synthesis detached from the caller's cancellation;
// only Back, Close, Cancel and NewTrip stop it.
func (c *DraftController) startGenerationLocked(ctx context.Context) *GenerationTask {
	c.abandonLocked()
	seq := c.seq

	data := c.data
	data.Accommodations = slices.Clone(c.data.Accommodations)
	byID := lo.KeyBy(c.attractions, func(a trip_models.AttractionCandidate) string { return a.ID })
	selected := lo.FilterMap(c.selected, func(id string, _ int) (trip_models.AttractionCandidate, bool) {
		a, ok := byID[id]
		return a, ok
	})

	taskCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	task := &GenerationTask{done: make(chan struct{}), cancel: cancel}
	c.task = task

	go func() {
		defer close(task.done)
		defer cancel()

		plan, err := c.synth.Synthesize(taskCtx, data, selected, data.UserNote)
		if !c.finishGeneration(taskCtx, seq, plan, err) {
			plan, err = nil, utils.ErrGenerationDiscarded
		}
		task.plan, task.err = plan, err
	}()

	c.log.Info().Str("destination", data.Destination).Int("selected", len(selected)).Msg("itinerary generation started")
	return task
}

// finishGeneration applies a synthesis result and reports whether it was applied.
func (c *DraftController) finishGeneration(ctx context.Context, seq uint64, plan *trip_models.TripPlan, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq || !c.open || c.step != trip_models.StepGenerating {
		c.log.Info().Msg("generation result discarded, wizard moved on")
		return false
	}
	c.task = nil

	if err != nil {
		c.step = trip_models.StepAccommodation
		c.lastErr = err.Error()
		c.log.Warn().Err(err).Msg("itinerary generation failed")
		c.mirrorLocked(ctx)
		return true
	}

	c.preview = plan
	c.step = trip_models.StepPreview
	c.lastErr = ""
	c.mirrorLocked(ctx)
	return true
}

// Publish hands the previewed plan to the trip manager and resets the wizard.
func (c *DraftController) Publish(ctx context.Context) (trip_models.TripPlan, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireStepLocked(trip_models.StepPreview); err != nil {
		return trip_models.TripPlan{}, err
	}
	if c.preview == nil {
		return trip_models.TripPlan{}, fmt.Errorf("%w: nothing to publish", utils.ErrInvalidTransition)
	}

	plan := *c.preview
	if err := c.trips.PublishTrip(ctx, plan); err != nil {
		return trip_models.TripPlan{}, err
	}
	c.store.Remove(ctx, repositories.DraftKey)
	c.resetLocked()
	c.open = false
	return plan, nil
}

// EditPlaces drops the preview and returns to attraction selection.
func (c *DraftController) EditPlaces(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireStepLocked(trip_models.StepPreview); err != nil {
		return err
	}
	c.preview = nil
	c.step = trip_models.StepAttractions
	c.mirrorLocked(ctx)
	return nil
}

// Close leaves the wizard without touching the persisted draft.
func (c *DraftController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.abandonLocked()
	c.resetLocked()
	c.open = false
}

func (c *DraftController) State() response_models.PlannerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *DraftController) stateLocked() response_models.PlannerState {
	state := response_models.PlannerState{
		Open:        c.open,
		Step:        c.step,
		Data:        c.data,
		SelectedIDs: slices.Clone(c.selected),
		Attractions: slices.Clone(c.attractions),
		Hotels:      slices.Clone(c.hotels),
		Generating:  c.step == trip_models.StepGenerating,
		CanAdvance:  c.open && c.validateLocked() == nil,
		Error:       c.lastErr,
	}
	state.Data.Accommodations = slices.Clone(c.data.Accommodations)
	if c.preview != nil {
		preview := cloneTrip(*c.preview)
		state.Preview = &preview
		state.Days = SummarizeDays(preview)
	}
	return state
}
