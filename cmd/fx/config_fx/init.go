package config_fx

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"tripplanner/internal/config"
	"tripplanner/internal/logger"
)

var Module = fx.Provide(config.New, provideLogger)

func provideLogger(cfg *config.Config) zerolog.Logger {
	return logger.New("tripplanner", cfg.LogLevel)
}
