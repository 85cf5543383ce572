package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tripplanner/internal/models/trip_models"
	"tripplanner/pkg/utils"
)

type GenerativeClientInterface interface {
	FetchAttractions(ctx context.Context, destination string, companion trip_models.Companion) ([]trip_models.AttractionCandidate, error)
	FetchHotels(ctx context.Context, destination string, companion trip_models.Companion) ([]trip_models.HotelCandidate, error)
	SynthesizeItinerary(ctx context.Context, params trip_models.ItineraryParams) (*trip_models.RawItineraryResponse, error)
}

type GenerativeClient struct {
	gen     utils.TextGeneratorInterface
	timeout time.Duration
	log     zerolog.Logger
}

// NewGenerativeClient accepts a nil generator; every call then fails with ErrNoAPIKey.
func NewGenerativeClient(gen utils.TextGeneratorInterface, timeout time.Duration, log zerolog.Logger) *GenerativeClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &GenerativeClient{
		gen:     gen,
		timeout: timeout,
		log:     log.With().Str("component", "generative_client").Logger(),
	}
}

// complete sends prompt and returns the first JSON fragment of the reply.
func (g *GenerativeClient) complete(ctx context.Context, op, prompt string) (string, error) {
	if g.gen == nil {
		return "", utils.ErrNoAPIKey
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	text, err := g.gen.GenerateText(ctx, prompt)
	if err != nil {
		g.log.Warn().Err(err).Str("op", op).Str("model", g.gen.Name()).Msg("model call failed")
		return "", fmt.Errorf("%w: %s: %v", utils.ErrNetworkFailure, op, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s", utils.ErrEmptyResponse, op)
	}

	fragment, err := utils.ExtractJSON(text)
	if err != nil {
		g.log.Warn().Str("op", op).Int("chars", len(text)).Msg("no json in model response")
		return "", fmt.Errorf("%s: %w", op, err)
	}

	g.log.Debug().
		Str("op", op).
		Str("model", g.gen.Name()).
		Dur("latency", time.Since(start)).
		Int("chars", len(fragment)).
		Msg("model call complete")
	return fragment, nil
}

func (g *GenerativeClient) FetchAttractions(ctx context.Context, destination string, companion trip_models.Companion) ([]trip_models.AttractionCandidate, error) {
	fragment, err := g.complete(ctx, "attractions", buildAttractionPrompt(destination, companion))
	if err != nil {
		return nil, err
	}
	out, err := decodeAttractions(fragment)
	if err != nil {
		return nil, fmt.Errorf("attractions: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: attractions: no usable places", utils.ErrEmptyResponse)
	}
	return out, nil
}

func (g *GenerativeClient) FetchHotels(ctx context.Context, destination string, companion trip_models.Companion) ([]trip_models.HotelCandidate, error) {
	fragment, err := g.complete(ctx, "hotels", buildHotelPrompt(destination, companion))
	if err != nil {
		return nil, err
	}
	out, err := decodeHotels(fragment)
	if err != nil {
		return nil, fmt.Errorf("hotels: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: hotels: no usable stays", utils.ErrEmptyResponse)
	}
	return out, nil
}

func (g *GenerativeClient) SynthesizeItinerary(ctx context.Context, params trip_models.ItineraryParams) (*trip_models.RawItineraryResponse, error) {
	fragment, err := g.complete(ctx, "itinerary", buildItineraryPrompt(params))
	if err != nil {
		return nil, err
	}
	resp, err := decodeItinerary(fragment)
	if err != nil {
		return nil, fmt.Errorf("itinerary: %w", err)
	}
	return resp, nil
}
