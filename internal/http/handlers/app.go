package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/generation"
)

// App bundles the dependencies shared by the HTTP handlers.
type App struct {
	Coordinator *generation.Coordinator
	Podcasts    domain.PodcastRepository
	Store       generation.ArtifactStore
	Validate    *validator.Validate
	Log         zerolog.Logger
}

func NewApp(coordinator *generation.Coordinator, podcasts domain.PodcastRepository, store generation.ArtifactStore, log zerolog.Logger) *App {
	return &App{
		Coordinator: coordinator,
		Podcasts:    podcasts,
		Store:       store,
		Validate:    validator.New(validator.WithRequiredStructEnabled()),
		Log:         log,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"error":   http.StatusText(status),
		"code":    code,
		"message": message,
	})
}

// fail maps a workflow error to its HTTP status and writes the error body.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	var qe *domain.QuotaExceededError

	switch {
	case errors.As(err, &ve):
		a.error(w, http.StatusBadRequest, "bad_request", ve.Error())
	case errors.As(err, &qe):
		a.error(w, http.StatusTooManyRequests, "quota_exceeded", qe.Error())
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrUnverified):
		a.error(w, http.StatusForbidden, "unverified", "account email is not verified")
	case errors.Is(err, domain.ErrSynthesisTimeout):
		a.error(w, http.StatusRequestTimeout, "synthesis_timeout", "speech synthesis timed out")
	case errors.Is(err, domain.ErrBusy):
		a.error(w, http.StatusServiceUnavailable, "busy", "too many generations in progress, try again later")
	default:
		a.Log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}
