package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"server/internal/http/handlers"
	"server/internal/middleware"
)

// Options carries the router's cross-cutting dependencies.
type Options struct {
	JWTSecret       string
	AllowedOrigins  []string
	CountryLookup   middleware.CountryLookup
	Redis           *redis.Client
	RateLimitPerMin int
	StaticDir       string
	Registry        *prometheus.Registry
	Logger          zerolog.Logger
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.AllowedOrigins),
		middleware.I18N("en", opts.CountryLookup),
	)
	if opts.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(opts.Redis, opts.RateLimitPerMin))
	}

	r.Get("/v1/healthz", app.Health)

	if opts.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
	}

	if opts.StaticDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir)))
		r.Get("/static/*", fs.ServeHTTP)
	}

	// Voice discovery is public; everything else under /api needs a token.
	r.Get("/api/tts/languages", app.Languages)
	r.Get("/api/tts/voices/{language}", app.Voices)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(opts.JWTSecret))
		r.Post("/api/tts/generate", app.Generate)
		r.Get("/api/podcasts/history", app.History)
		r.Delete("/api/podcasts/history/{id}", app.DeletePodcast)
		r.Get("/api/user/quota", app.Quota)
	})

	return r
}
