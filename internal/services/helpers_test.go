package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"tripplanner/internal/models/trip_models"
	"tripplanner/internal/repositories"
	mem "tripplanner/pkg/memcache"
)

const attractionsJSON = "```json\n" + `[
 {"id":"churaumi","name":"Churaumi Aquarium","category":"sightseeing","desc":"Whale sharks","rating":4.7,"reviewCount":"5300","coordinates":{"lat":26.6942,"lng":127.8779},"tips":["Go early"]},
 {"id":"shurijo","name":"Shuri Castle","category":"sightseeing","coordinates":{"lat":26.2170,"lng":127.7195}},
 {"id":"kokusai","name":"Kokusai Street","category":"food","coordinates":{"lat":26.2155,"lng":127.6877}},
 {"id":"manza","name":"Cape Manzamo","category":"sightseeing","coordinates":{"lat":26.5047,"lng":127.8506}},
 {"id":"kouri","name":"Kouri Bridge","category":"sightseeing","coordinates":{"lat":26.6960,"lng":128.0250}},
 {"id":"makishi","name":"Makishi Public Market","category":"food","coordinates":{"lat":26.2144,"lng":127.6890}}
]` + "\n```"

const hotelsJSON = `Sure! {"hotels":[
 {"name":"Hotel Collective","area":"Naha","rating":4.4,"coordinates":{"lat":26.2150,"lng":127.6840}},
 {"id":"halekulani","name":"Halekulani Okinawa","area":"Onna","priceLevel":"$$$"}
]}`

// okinawaItineraryJSON uses the selected ids with drifted coordinates and a
// destination spelling that must not replace the planner's.
const okinawaItineraryJSON = `{"title":"Okinawa Family Escape","period":"Feb 1-3","primaryColor":"#0ea5e9","destination":"Okinawa Island, Japan",
"days":[
 {"day":1,"points":[
   {"id":"kokusai","name":"Kokusai Street","category":"food","coordinates":{"lat":9,"lng":9}},
   {"id":"makishi","name":"Makishi Public Market","category":"food"},
   {"name":"Naha Airport","category":"logistics","coordinates":{"lat":26.2060,"lng":127.6460}}
 ]},
 {"day":2,"points":[
   {"id":"churaumi","name":"Churaumi Aquarium","coordinates":{"lat":1,"lng":1}},
   {"id":"kouri","name":"Kouri Bridge"},
   {"name":"Bise Fukugi Tree Road","category":"sightseeing","coordinates":{"lat":26.7050,"lng":127.8800}}
 ]},
 {"day":3,"points":[
   {"id":"manza","name":"Cape Manzamo"},
   {"name":"American Village","category":"food","coordinates":{"lat":26.3160,"lng":127.7570}}
 ]}
]}`

// scriptedGenerator answers by prompt kind and records every prompt.
type scriptedGenerator struct {
	mu          sync.Mutex
	attractions string
	hotels      string
	itinerary   string
	err         error
	prompts     []string
	block       chan struct{}
	// deaf keeps a blocked call waiting on block even after its context ends.
	deaf bool
}

func (g *scriptedGenerator) Name() string { return "scripted" }

func (g *scriptedGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	block, deaf := g.block, g.deaf
	g.mu.Unlock()

	if block != nil && deaf && strings.Contains(prompt, "travel itinerary") {
		<-block
	} else if block != nil && strings.Contains(prompt, "travel itinerary") {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if g.err != nil {
		return "", g.err
	}

	switch {
	case strings.Contains(prompt, "travel itinerary"):
		return g.itinerary, nil
	case strings.Contains(prompt, "worth visiting"):
		return g.attractions, nil
	case strings.Contains(prompt, "places to stay"):
		return g.hotels, nil
	}
	return "", errors.New("unexpected prompt")
}

func (g *scriptedGenerator) calls(kind string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, p := range g.prompts {
		if strings.Contains(p, kind) {
			n++
		}
	}
	return n
}

func (g *scriptedGenerator) lastPrompt() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.prompts) == 0 {
		return ""
	}
	return g.prompts[len(g.prompts)-1]
}

func newOkinawaGenerator() *scriptedGenerator {
	return &scriptedGenerator{
		attractions: attractionsJSON,
		hotels:      hotelsJSON,
		itinerary:   okinawaItineraryJSON,
	}
}

func newTestStore() (*repositories.PersistentStore, *mem.MemoryStore) {
	backend := mem.NewMemoryStore(0)
	return repositories.NewPersistentStore(backend, zerolog.Nop()), backend
}

type plannerHarness struct {
	store  *repositories.PersistentStore
	gen    *scriptedGenerator
	cache  *RecommendationCache
	trips  *TripStateManager
	drafts *DraftController
}

func newPlannerHarness(t *testing.T, store *repositories.PersistentStore, gen *scriptedGenerator) *plannerHarness {
	t.Helper()
	if store == nil {
		store, _ = newTestStore()
	}
	log := zerolog.Nop()
	ai := NewGenerativeClient(gen, 5*time.Second, log)
	cache := NewRecommendationCache(store, log)
	trips := NewTripStateManager(store, log)
	drafts := NewDraftController(store, cache, ai, NewItinerarySynthesizer(ai, log), trips, log)
	t.Cleanup(drafts.Close)
	return &plannerHarness{store: store, gen: gen, cache: cache, trips: trips, drafts: drafts}
}

func okinawaData(d *trip_models.PlannerData) {
	d.Destination = "Okinawa"
	d.StartDate = "2026-02-01"
	d.EndDate = "2026-02-03"
	d.TravelMode = trip_models.TravelModePlane
	d.DeparturePoint = "Incheon"
	d.EntryPoint = "Naha"
	d.Companion = trip_models.CompanionFamily
	d.LocalTransport = trip_models.LocalTransportRental
	d.Pace = trip_models.PaceStandard
}

// advanceTo fills every field and walks the wizard until it sits at step, which
// must not be past the accommodation step.
func (h *plannerHarness) advanceTo(t *testing.T, step trip_models.Step) {
	t.Helper()
	ctx := context.Background()
	h.drafts.Open(ctx)
	require.NoError(t, h.drafts.Edit(ctx, okinawaData))
	for h.drafts.State().Step != step {
		_, err := h.drafts.Next(ctx)
		require.NoError(t, err, "advancing from %v", h.drafts.State().Step)
		if h.drafts.State().Step == trip_models.StepAttractions && step != trip_models.StepAttractions {
			for _, id := range []string{"churaumi", "shurijo", "kokusai", "manza", "kouri"} {
				_, err := h.drafts.ToggleSelection(ctx, id)
				require.NoError(t, err)
			}
		}
	}
}
