package services

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"tripplanner/internal/models/response_models"
	"tripplanner/internal/models/trip_models"
	"tripplanner/internal/repositories"
	"tripplanner/pkg/utils"
)

// ConfirmRequest defers a destructive mutation until the user confirms it.
type ConfirmRequest struct {
	Title   string
	Message string
	Confirm func(ctx context.Context) error
}

type TripStateManagerInterface interface {
	Load(ctx context.Context)
	ListTrips() []trip_models.TripPlan
	ActiveTrip() (trip_models.TripPlan, bool)
	SetActiveTrip(ctx context.Context, tripID string) error
	PublishTrip(ctx context.Context, plan trip_models.TripPlan) error
	RequestDeleteTrip(tripID string) (*ConfirmRequest, error)

	AddPoint(ctx context.Context, point trip_models.LocationPoint) (trip_models.LocationPoint, error)
	RequestDeletePoint(pointID string) (*ConfirmRequest, error)
	ReorderPoints(ctx context.Context, day int, ordered []trip_models.LocationPoint) error
	EditPoint(ctx context.Context, pointID string, edit func(*trip_models.LocationPoint)) (trip_models.LocationPoint, error)
	PointsForDay(day int) []trip_models.LocationPoint
	RequestDeleteAccommodation(index int) (*ConfirmRequest, error)

	ToggleChecklist(ctx context.Context, pointID string) (bool, error)
	SetReview(ctx context.Context, pointID string, review trip_models.Review) error
	SetLog(ctx context.Context, pointID, text string) error
	AttachFile(ctx context.Context, file trip_models.CustomFile) (trip_models.CustomFile, error)
	DetachFile(ctx context.Context, fileID string) error
	SubState() trip_models.TripSubState

	MapView() response_models.MapView
}

type TripStateManager struct {
	mu     sync.Mutex
	store  *repositories.PersistentStore
	log    zerolog.Logger
	now    func() int64
	newID  func() string
	trips  []trip_models.TripPlan
	active *trip_models.TripPlan
	sub    trip_models.TripSubState
}

func NewTripStateManager(store *repositories.PersistentStore, log zerolog.Logger) *TripStateManager {
	return &TripStateManager{
		store: store,
		log:   log.With().Str("component", "trip_state").Logger(),
		now:   utils.NowUnixMillis,
		newID: func() string { return uuid.New().String() },
		trips: []trip_models.TripPlan{},
		sub:   trip_models.NewTripSubState(),
	}
}

// Load reads the trip list and activates the most recent trip, if any.
func (m *TripStateManager) Load(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var trips []trip_models.TripPlan
	if !m.store.Get(ctx, repositories.TripsKey, &trips) {
		trips = []trip_models.TripPlan{}
	}
	m.trips = trips
	m.active = nil
	m.sub = trip_models.NewTripSubState()
	if len(m.trips) > 0 {
		m.activateLocked(ctx, m.trips[0])
	}
	m.log.Info().Int("trips", len(m.trips)).Msg("trips loaded")
}

func (m *TripStateManager) ListTrips() []trip_models.TripPlan {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.trips)
}

func (m *TripStateManager) ActiveTrip() (trip_models.TripPlan, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return trip_models.TripPlan{}, false
	}
	return cloneTrip(*m.active), true
}

func (m *TripStateManager) SetActiveTrip(ctx context.Context, tripID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	trip, ok := lo.Find(m.trips, func(t trip_models.TripPlan) bool { return t.ID == tripID })
	if !ok {
		return fmt.Errorf("%w: %s", utils.ErrTripNotFound, tripID)
	}
	m.activateLocked(ctx, trip)
	return nil
}

// activateLocked swaps in trip and all of its per-destination slices at once.
// In-memory state of the previous trip is dropped; it was persisted on every change.
func (m *TripStateManager) activateLocked(ctx context.Context, trip trip_models.TripPlan) {
	dest := trip.Metadata.Destination
	next := cloneTrip(trip)
	sub := trip_models.NewTripSubState()

	var points []trip_models.LocationPoint
	if m.store.Get(ctx, repositories.SliceKey(repositories.SlicePointsOrder, dest), &points) && ownsPoints(trip, points) {
		next.Points = points
	}
	loadMap(ctx, m.store, repositories.SliceKey(repositories.SliceChecklist, dest), &sub.CompletedItems)
	loadMap(ctx, m.store, repositories.SliceKey(repositories.SliceReviews, dest), &sub.UserReviews)
	loadMap(ctx, m.store, repositories.SliceKey(repositories.SliceLogs, dest), &sub.UserLogs)

	var files []trip_models.CustomFile
	if m.store.Get(ctx, repositories.SliceKey(repositories.SliceFiles, dest), &files) && files != nil {
		sub.CustomFiles = files
	} else {
		sub.CustomFiles = slices.Clone(trip.CustomFiles)
	}
	if sub.CustomFiles == nil {
		sub.CustomFiles = []trip_models.CustomFile{}
	}
	next.CustomFiles = sub.CustomFiles

	m.active = &next
	m.sub = sub
	m.log.Debug().Str("trip_id", trip.ID).Str("destination", dest).Msg("active trip changed")
}

// ownsPoints reports whether a stored points slice was written for trip.
// Trips sharing a destination share the slice key, so a slice holding
// another trip's ids must not replace trip's own points.
func ownsPoints(trip trip_models.TripPlan, points []trip_models.LocationPoint) bool {
	if len(points) == 0 {
		return false
	}
	own := lo.SliceToMap(trip.Points, func(p trip_models.LocationPoint) (string, bool) { return p.ID, true })
	return lo.EveryBy(points, func(p trip_models.LocationPoint) bool { return own[p.ID] })
}

func loadMap[V any](ctx context.Context, store *repositories.PersistentStore, key string, dst *map[string]V) {
	loaded := map[string]V{}
	if store.Get(ctx, key, &loaded) && loaded != nil {
		*dst = loaded
	}
}

// PublishTrip prepends plan, persists the list, clears the draft and activates plan.
func (m *TripStateManager) PublishTrip(ctx context.Context, plan trip_models.TripPlan) error {
	if plan.ID == "" || plan.Metadata.Destination == "" {
		return fmt.Errorf("%w: plan needs an id and a destination", utils.ErrInvalidInput)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.trips = append([]trip_models.TripPlan{cloneTrip(plan)}, m.trips...)
	m.store.Set(ctx, repositories.TripsKey, m.trips)
	m.store.Set(ctx, repositories.SliceKey(repositories.SlicePointsOrder, plan.Metadata.Destination), plan.Points)
	m.store.Remove(ctx, repositories.DraftKey)
	m.activateLocked(ctx, plan)

	m.log.Info().Str("trip_id", plan.ID).Str("destination", plan.Metadata.Destination).Msg("trip published")
	return nil
}

func (m *TripStateManager) RequestDeleteTrip(tripID string) (*ConfirmRequest, error) {
	m.mu.Lock()
	trip, ok := lo.Find(m.trips, func(t trip_models.TripPlan) bool { return t.ID == tripID })
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", utils.ErrTripNotFound, tripID)
	}

	return &ConfirmRequest{
		Title:   "Delete trip",
		Message: fmt.Sprintf("Delete %q? This cannot be undone.", trip.Metadata.Title),
		Confirm: func(ctx context.Context) error {
			m.mu.Lock()
			defer m.mu.Unlock()

			before := len(m.trips)
			m.trips = lo.Reject(m.trips, func(t trip_models.TripPlan, _ int) bool { return t.ID == tripID })
			if len(m.trips) == before {
				return fmt.Errorf("%w: %s", utils.ErrTripNotFound, tripID)
			}
			m.store.Set(ctx, repositories.TripsKey, m.trips)

			if m.active != nil && m.active.ID == tripID {
				m.active = nil
				m.sub = trip_models.NewTripSubState()
				if len(m.trips) > 0 {
					m.activateLocked(ctx, m.trips[0])
				}
			}
			return nil
		},
	}, nil
}

// writeBackLocked persists the active trip's points and mirrors it into the trip list.
func (m *TripStateManager) writeBackLocked(ctx context.Context) {
	dest := m.active.Metadata.Destination
	m.store.Set(ctx, repositories.SliceKey(repositories.SlicePointsOrder, dest), m.active.Points)

	for i := range m.trips {
		if m.trips[i].ID == m.active.ID {
			m.trips[i] = cloneTrip(*m.active)
			break
		}
	}
	m.store.Set(ctx, repositories.TripsKey, m.trips)
}

func (m *TripStateManager) requireActiveLocked() error {
	if m.active == nil {
		return utils.ErrNoActiveTrip
	}
	return nil
}

func (m *TripStateManager) pointIndexLocked(pointID string) int {
	return slices.IndexFunc(m.active.Points, func(p trip_models.LocationPoint) bool { return p.ID == pointID })
}

func (m *TripStateManager) AddPoint(ctx context.Context, point trip_models.LocationPoint) (trip_models.LocationPoint, error) {
	if point.Name == "" {
		return trip_models.LocationPoint{}, fmt.Errorf("%w: point name is required", utils.ErrInvalidInput)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireActiveLocked(); err != nil {
		return trip_models.LocationPoint{}, err
	}

	if point.ID == "" || m.pointIndexLocked(point.ID) >= 0 {
		point.ID = m.newID()
	}
	if point.Day < 1 {
		point.Day = 1
	}
	point.Category = trip_models.ParseCategory(string(point.Category))
	if point.Tips == nil {
		point.Tips = []string{}
	}

	m.active.Points = append(m.active.Points, point)
	m.writeBackLocked(ctx)
	return point, nil
}

func (m *TripStateManager) RequestDeletePoint(pointID string) (*ConfirmRequest, error) {
	m.mu.Lock()
	if err := m.requireActiveLocked(); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	idx := m.pointIndexLocked(pointID)
	var name string
	if idx >= 0 {
		name = m.active.Points[idx].Name
	}
	m.mu.Unlock()
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", utils.ErrPointNotFound, pointID)
	}

	return &ConfirmRequest{
		Title:   "Delete place",
		Message: fmt.Sprintf("Remove %q from this trip?", name),
		Confirm: func(ctx context.Context) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			if err := m.requireActiveLocked(); err != nil {
				return err
			}
			idx := m.pointIndexLocked(pointID)
			if idx < 0 {
				return fmt.Errorf("%w: %s", utils.ErrPointNotFound, pointID)
			}
			m.active.Points = slices.Delete(m.active.Points, idx, idx+1)
			m.writeBackLocked(ctx)
			return nil
		},
	}, nil
}

// ReorderPoints replaces the points of day with ordered; other days are untouched.
// ordered must hold every current point of day and may pull in points from other
// days. Unknown ids are rejected; removal goes through RequestDeletePoint.
func (m *TripStateManager) ReorderPoints(ctx context.Context, day int, ordered []trip_models.LocationPoint) error {
	if day < 1 {
		return fmt.Errorf("%w: day must be at least 1", utils.ErrInvalidInput)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireActiveLocked(); err != nil {
		return err
	}

	current := lo.SliceToMap(m.active.Points, func(p trip_models.LocationPoint) (string, int) { return p.ID, p.Day })
	incoming := make(map[string]bool, len(ordered))
	reordered := make([]trip_models.LocationPoint, 0, len(ordered))
	for _, p := range ordered {
		if _, ok := current[p.ID]; !ok {
			return fmt.Errorf("%w: %s", utils.ErrPointNotFound, p.ID)
		}
		if incoming[p.ID] {
			continue
		}
		incoming[p.ID] = true
		p.Day = day
		if p.Tips == nil {
			p.Tips = []string{}
		}
		reordered = append(reordered, p)
	}
	for id, d := range current {
		if d == day && !incoming[id] {
			return fmt.Errorf("%w: reorder must keep point %s of day %d", utils.ErrInvalidInput, id, day)
		}
	}

	kept := lo.Filter(m.active.Points, func(p trip_models.LocationPoint, _ int) bool {
		return p.Day != day && !incoming[p.ID]
	})
	m.active.Points = append(kept, reordered...)
	m.writeBackLocked(ctx)
	return nil
}

func (m *TripStateManager) EditPoint(ctx context.Context, pointID string, edit func(*trip_models.LocationPoint)) (trip_models.LocationPoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireActiveLocked(); err != nil {
		return trip_models.LocationPoint{}, err
	}

	idx := m.pointIndexLocked(pointID)
	if idx < 0 {
		return trip_models.LocationPoint{}, fmt.Errorf("%w: %s", utils.ErrPointNotFound, pointID)
	}

	edited := m.active.Points[idx]
	edited.Tips = slices.Clone(edited.Tips)
	edit(&edited)
	edited.ID = pointID
	if edited.Day < 1 {
		return trip_models.LocationPoint{}, fmt.Errorf("%w: day must be at least 1", utils.ErrInvalidInput)
	}
	edited.Category = trip_models.ParseCategory(string(edited.Category))
	if edited.Tips == nil {
		edited.Tips = []string{}
	}

	m.active.Points[idx] = edited
	m.writeBackLocked(ctx)
	return edited, nil
}

// PointsForDay returns the active trip's points of one day in stored order.
func (m *TripStateManager) PointsForDay(day int) []trip_models.LocationPoint {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return []trip_models.LocationPoint{}
	}
	return lo.Filter(m.active.Points, func(p trip_models.LocationPoint, _ int) bool { return p.Day == day })
}

func (m *TripStateManager) RequestDeleteAccommodation(index int) (*ConfirmRequest, error) {
	m.mu.Lock()
	if err := m.requireActiveLocked(); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	accs := m.active.Metadata.Accommodations
	if index < 0 || index >= len(accs) {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: accommodation %d", utils.ErrNotFound, index)
	}
	target := accs[index]
	m.mu.Unlock()

	return &ConfirmRequest{
		Title:   "Delete accommodation",
		Message: fmt.Sprintf("Remove %q (%s ~ %s)?", target.Name, target.StartDate, target.EndDate),
		Confirm: func(ctx context.Context) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			if err := m.requireActiveLocked(); err != nil {
				return err
			}
			accs := m.active.Metadata.Accommodations
			idx := slices.IndexFunc(accs, func(a trip_models.Accommodation) bool { return a == target })
			if idx < 0 {
				return fmt.Errorf("%w: accommodation %q", utils.ErrNotFound, target.Name)
			}
			m.active.Metadata.Accommodations = slices.Delete(slices.Clone(accs), idx, idx+1)
			m.writeBackLocked(ctx)
			return nil
		},
	}, nil
}

func (m *TripStateManager) subKey(slice string) string {
	return repositories.SliceKey(slice, m.active.Metadata.Destination)
}

func (m *TripStateManager) requirePointLocked(pointID string) error {
	if err := m.requireActiveLocked(); err != nil {
		return err
	}
	if m.pointIndexLocked(pointID) < 0 {
		return fmt.Errorf("%w: %s", utils.ErrPointNotFound, pointID)
	}
	return nil
}

// ToggleChecklist flips the completed flag of a point and returns the new value.
func (m *TripStateManager) ToggleChecklist(ctx context.Context, pointID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requirePointLocked(pointID); err != nil {
		return false, err
	}

	done := !m.sub.CompletedItems[pointID]
	if done {
		m.sub.CompletedItems[pointID] = true
	} else {
		delete(m.sub.CompletedItems, pointID)
	}
	m.store.Set(ctx, m.subKey(repositories.SliceChecklist), m.sub.CompletedItems)
	return done, nil
}

func (m *TripStateManager) SetReview(ctx context.Context, pointID string, review trip_models.Review) error {
	if review.Rating < 0 || review.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 0 and 5", utils.ErrInvalidInput)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requirePointLocked(pointID); err != nil {
		return err
	}

	m.sub.UserReviews[pointID] = review
	m.store.Set(ctx, m.subKey(repositories.SliceReviews), m.sub.UserReviews)
	return nil
}

// SetLog stores a free-text note for a point; empty text clears it.
func (m *TripStateManager) SetLog(ctx context.Context, pointID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requirePointLocked(pointID); err != nil {
		return err
	}

	if text == "" {
		delete(m.sub.UserLogs, pointID)
	} else {
		m.sub.UserLogs[pointID] = text
	}
	m.store.Set(ctx, m.subKey(repositories.SliceLogs), m.sub.UserLogs)
	return nil
}

func (m *TripStateManager) AttachFile(ctx context.Context, file trip_models.CustomFile) (trip_models.CustomFile, error) {
	if file.Name == "" {
		return trip_models.CustomFile{}, fmt.Errorf("%w: file name is required", utils.ErrInvalidInput)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireActiveLocked(); err != nil {
		return trip_models.CustomFile{}, err
	}
	if file.LinkedPointID != "" && m.pointIndexLocked(file.LinkedPointID) < 0 {
		return trip_models.CustomFile{}, fmt.Errorf("%w: %s", utils.ErrPointNotFound, file.LinkedPointID)
	}

	if file.ID == "" {
		file.ID = m.newID()
	}
	if file.CreatedAt == 0 {
		file.CreatedAt = m.now()
	}

	m.sub.CustomFiles = append(m.sub.CustomFiles, file)
	m.active.CustomFiles = m.sub.CustomFiles
	m.store.Set(ctx, m.subKey(repositories.SliceFiles), m.sub.CustomFiles)
	return file, nil
}

func (m *TripStateManager) DetachFile(ctx context.Context, fileID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireActiveLocked(); err != nil {
		return err
	}

	idx := slices.IndexFunc(m.sub.CustomFiles, func(f trip_models.CustomFile) bool { return f.ID == fileID })
	if idx < 0 {
		return fmt.Errorf("%w: %s", utils.ErrFileNotFound, fileID)
	}

	m.sub.CustomFiles = slices.Delete(slices.Clone(m.sub.CustomFiles), idx, idx+1)
	m.active.CustomFiles = m.sub.CustomFiles
	m.store.Set(ctx, m.subKey(repositories.SliceFiles), m.sub.CustomFiles)
	return nil
}

// SubState returns a copy of the active destination's checklist, reviews, logs and files.
func (m *TripStateManager) SubState() trip_models.TripSubState {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := trip_models.NewTripSubState()
	for k, v := range m.sub.CompletedItems {
		out.CompletedItems[k] = v
	}
	for k, v := range m.sub.UserReviews {
		out.UserReviews[k] = v
	}
	for k, v := range m.sub.UserLogs {
		out.UserLogs[k] = v
	}
	out.CustomFiles = append(out.CustomFiles, m.sub.CustomFiles...)
	return out
}

func (m *TripStateManager) MapView() response_models.MapView {
	m.mu.Lock()
	defer m.mu.Unlock()

	view := response_models.MapView{
		Points:     []trip_models.LocationPoint{},
		Unresolved: []string{},
	}
	if m.active == nil {
		return view
	}

	view.TripID = m.active.ID
	view.Points = slices.Clone(m.active.Points)

	var resolved orb.MultiPoint
	for _, p := range m.active.Points {
		if p.Coordinates.Valid() {
			resolved = append(resolved, p.Coordinates.Point())
		} else {
			view.Unresolved = append(view.Unresolved, p.ID)
		}
	}
	if len(resolved) > 0 {
		b := resolved.Bound()
		view.Bounds = &response_models.Bounds{
			MinLat: b.Min.Lat(),
			MinLng: b.Min.Lon(),
			MaxLat: b.Max.Lat(),
			MaxLng: b.Max.Lon(),
		}
	}
	return view
}

func cloneTrip(t trip_models.TripPlan) trip_models.TripPlan {
	t.Points = slices.Clone(t.Points)
	t.Metadata.Accommodations = slices.Clone(t.Metadata.Accommodations)
	t.SpeechData = slices.Clone(t.SpeechData)
	t.DefaultFiles = slices.Clone(t.DefaultFiles)
	t.CustomFiles = slices.Clone(t.CustomFiles)
	return t
}
