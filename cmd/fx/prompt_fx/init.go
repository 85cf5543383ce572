package prompt_fx

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"tripplanner/internal/config"
	"tripplanner/internal/services"
	"tripplanner/pkg/utils"
)

var Module = fx.Provide(
	ProvideTextGenerator,
	ProvideGenerativeClient,
	ProvideItinerarySynthesizer)

// ProvideTextGenerator builds the client of the configured provider. Without an
// API key it returns a nil generator; AI operations then report a missing key.
func ProvideTextGenerator(lc fx.Lifecycle, cfg *config.Config, log zerolog.Logger) (utils.TextGeneratorInterface, error) {
	if cfg.APIKey() == "" {
		log.Warn().Str("provider", cfg.AIProvider).Msg("no AI API key configured, recommendations and generation are disabled")
		return nil, nil
	}

	switch cfg.AIProvider {
	case config.ProviderOpenAI:
		log.Info().Str("model", cfg.OpenAIModel).Msg("Initializing openai text client")
		return utils.NewOpenAITextClient(cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	case config.ProviderGemini:
		log.Info().Str("model", cfg.GeminiModel).Msg("Initializing gemini text client")
		client, err := utils.NewGeminiTextClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return client.Close()
			},
		})
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s. Use 'openai' or 'gemini'", cfg.AIProvider)
	}
}

func ProvideGenerativeClient(gen utils.TextGeneratorInterface, cfg *config.Config, log zerolog.Logger) services.GenerativeClientInterface {
	return services.NewGenerativeClient(gen, cfg.AITimeout, log)
}

func ProvideItinerarySynthesizer(ai services.GenerativeClientInterface, log zerolog.Logger) services.ItinerarySynthesizerInterface {
	return services.NewItinerarySynthesizer(ai, log)
}
