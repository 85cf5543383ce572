package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"tripplanner/cmd/fx/config_fx"
	"tripplanner/cmd/fx/controllers_fx"
	"tripplanner/cmd/fx/db_fx"
	"tripplanner/cmd/fx/memcache_fx"
	"tripplanner/cmd/fx/planner_fx"
	"tripplanner/cmd/fx/prompt_fx"
	"tripplanner/internal/api/controllers"
	"tripplanner/internal/config"
	"tripplanner/internal/services"
	"tripplanner/pkg/middleware"
)

func main() {
	app := fx.New(
		config_fx.Module,
		db_fx.Module,
		memcache_fx.Module,
		prompt_fx.Module,
		planner_fx.Module,
		controllers_fx.Module,

		fx.Invoke(StartSession),
		fx.Invoke(StartServer),
		fx.Provide(ProvideRouter),
	)

	app.Run()
}

// StartSession sweeps stale recommendations and loads saved trips before serving.
func StartSession(lc fx.Lifecycle, session *services.PlannerSession) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			session.Start(ctx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			session.Stop()
			return nil
		},
	})
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg *config.Config, log zerolog.Logger) {
	server := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info().Str("addr", server.Addr).Msg("Starting HTTP server")
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal().Err(err).Msg("Failed to start server")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Stopping HTTP server")
			return server.Shutdown(ctx)
		},
	})
}

func ProvideRouter(
	cfg *config.Config,
	log zerolog.Logger,
	plannerController *controllers.PlannerController,
	tripsController *controllers.TripsController,
	confirmationController *controllers.ConfirmationController) *gin.Engine {

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware(log))
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	controllers.RegisterRoutes(r, plannerController, tripsController, confirmationController)

	return r
}
