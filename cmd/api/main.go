package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/domain"
	"server/internal/http/handlers"
	httpapi "server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/middleware"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	// Event sinks: always log, journal to Postgres when configured.
	sinks := domain.MultiSink{infra.NewEventLogger(logger)}

	var journal handlers.Journal
	if cfg.DatabaseURL != "" {
		ctx := context.Background()
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer pool.Close()

		j := repo.NewEventJournal(pool, logger)
		if err := j.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to ensure journal schema")
		}
		sinks = append(sinks, j.Sink())
		journal = j
	} else {
		logger.Warn().Msg("DATABASE_URL not set; event journal disabled")
	}

	// Platform state: one ledger, one user registry, one fundraiser factory.
	ledger := domain.NewLedger(nil)
	users := domain.NewUserRegistry(ledger, domain.Identity(cfg.AdminIdentity), sinks)
	fundraisers := domain.NewFundraiserRegistry(users, sinks, func(beneficiary domain.Identity, amount int64) {
		logger.Info().Str("beneficiary", string(beneficiary)).Int64("amount", amount).Msg("funds released")
	})

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open geoip database")
	}
	if resolver != nil {
		defer resolver.Close()
	}
	var lookup middleware.CountryLookup
	if resolver != nil {
		lookup = resolver.CountryCode
	}

	app := handlers.NewApp(users, fundraisers, journal, logger)
	router := httpapi.NewRouter(app, httpapi.Options{
		JWTSecret:       cfg.JWTSecret,
		AllowedOrigins:  cfg.AllowedOrigins,
		DefaultLocale:   cfg.DefaultLocale,
		RateLimitPerMin: cfg.RateLimitPerMin,
		CountryLookup:   lookup,
		Logger:          middleware.Logger(logger),
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
