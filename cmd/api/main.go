package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"server/internal/adapter/repo"
	"server/internal/audio"
	"server/internal/generation"
	"server/internal/http/handlers"
	httpapi "server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/metrics"
	"server/internal/middleware"
	"server/internal/providers/speech"
	"server/internal/providers/translate"
	"server/internal/storage"
)

func main() {
	// Load .env (optional)
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	rdb, err := infra.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}
	if rdb != nil {
		defer rdb.Close()
	}

	countryResolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open geoip database")
	}
	var countryLookup middleware.CountryLookup
	if countryResolver != nil {
		countryLookup = countryResolver.CountryCode
	}

	store, err := storage.NewFileStore(cfg.StorageDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize audio storage")
	}

	synth, err := buildSynthesizer(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build synthesizer")
	}

	translator := buildTranslator(cfg)
	if translator == nil {
		logger.Warn().Msg("no translation provider configured, Cantonese conversion disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	users := repo.NewUserRepository(dbpool)
	podcasts := repo.NewPodcastRepository(dbpool)

	coordinator, err := generation.NewCoordinator(generation.Options{
		Config: generation.Config{
			MaxTextChars:            cfg.MaxTextChars,
			MaxAudioSeconds:         cfg.MaxAudioSeconds,
			EstimatedSecondsPerChar: cfg.EstimatedSecondsPerChar,
			SynthesisTimeout:        cfg.SynthesisTimeout,
			AudioBaseURL:            cfg.StorageBaseURL,
		},
		Users:      users,
		Podcasts:   podcasts,
		Gate:       generation.NewGate(int64(cfg.MaxConcurrentGenerations), cfg.GateAcquireTimeout),
		Translator: translator,
		Synth:      synth,
		Inspector:  audio.NewMP3Inspector(),
		Store:      store,
		Metrics:    metrics.NewGenerationMetrics(registry),
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build generation coordinator")
	}

	app := handlers.NewApp(coordinator, podcasts, store, logger)

	router := httpapi.NewRouter(app, httpapi.Options{
		JWTSecret:       cfg.JWTSecret,
		AllowedOrigins:  []string{"http://localhost:3000", "http://localhost:5173"},
		CountryLookup:   countryLookup,
		Redis:           rdb,
		RateLimitPerMin: cfg.RateLimitPerMin,
		StaticDir:       store.BasePath(),
		Registry:        registry,
		Logger:          logger,
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

func buildSynthesizer(cfg *infra.Config) (speech.Synthesizer, error) {
	if cfg.TTSEngine == "google" {
		return speech.NewGoogleSynthesizer(speech.GoogleOptions{
			APIKey:     cfg.GoogleTTSAPIKey,
			HTTPClient: &http.Client{Timeout: cfg.SynthesisTimeout},
		})
	}
	return speech.NewHTTPSynthesizer(speech.HTTPEngineOptions{
		BaseURL:    cfg.TTSEngineURL,
		HTTPClient: &http.Client{Timeout: cfg.SynthesisTimeout},
	})
}

// buildTranslator chains the configured providers; OpenAI is consulted first.
func buildTranslator(cfg *infra.Config) translate.Translator {
	client := &http.Client{Timeout: 60 * time.Second}
	var providers []translate.Translator
	if cfg.OpenAIAPIKey != "" {
		if t, err := translate.NewOpenAITranslator(translate.OpenAIOptions{
			APIKey:     cfg.OpenAIAPIKey,
			Model:      cfg.OpenAIModel,
			BaseURL:    cfg.OpenAIBaseURL,
			HTTPClient: client,
		}); err == nil {
			providers = append(providers, t)
		}
	}
	if cfg.GeminiAPIKey != "" {
		if t, err := translate.NewGeminiTranslator(translate.GeminiOptions{
			APIKey:     cfg.GeminiAPIKey,
			Model:      cfg.GeminiModel,
			BaseURL:    cfg.GeminiBaseURL,
			HTTPClient: client,
		}); err == nil {
			providers = append(providers, t)
		}
	}
	if len(providers) == 0 {
		return nil
	}
	return translate.NewChain(providers...)
}
