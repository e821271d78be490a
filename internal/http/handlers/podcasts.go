package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
	"server/internal/generation"
	"server/internal/middleware"
)

// defaultVoice is used when the client omits a voice selection.
const defaultVoice = "young-lady"

type generateRequest struct {
	Text         string   `json:"text" validate:"required"`
	Voice        string   `json:"voice"`
	Emotion      string   `json:"emotion"`
	Speed        float64  `json:"speed" validate:"omitempty,gte=0.25,lte=4"`
	Language     string   `json:"language" validate:"omitempty,oneof=cantonese mandarin english"`
	IsTranslated bool     `json:"isTranslated"`
	Title        string   `json:"title" validate:"omitempty,max=200"`
	Description  string   `json:"description" validate:"omitempty,max=2000"`
	Tags         []string `json:"tags" validate:"omitempty,max=20,dive,max=50"`
	IsPublic     bool     `json:"isPublic"`
}

type generateResponse struct {
	ID                   int64  `json:"id"`
	AudioURL             string `json:"audioUrl"`
	Title                string `json:"title"`
	Duration             string `json:"duration"`
	Message              string `json:"message"`
	RemainingGenerations int    `json:"remainingGenerations"`
}

type podcastItem struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Voice       string   `json:"voice"`
	Emotion     string   `json:"emotion"`
	Speed       float64  `json:"speed"`
	AudioURL    string   `json:"audioUrl"`
	Duration    string   `json:"duration"`
	FileSize    int64    `json:"fileSize"`
	Tags        []string `json:"tags"`
	IsPublic    bool     `json:"isPublic"`
	Language    string   `json:"language"`
	CreatedAt   string   `json:"createdAt"`
}

// Generate runs the full text-to-podcast workflow for the authenticated user.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	email := middleware.EmailFromContext(r.Context())
	if email == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := a.Validate.Struct(req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", validationDetail(err))
		return
	}
	if req.Voice == "" {
		req.Voice = defaultVoice
	}

	result, err := a.Coordinator.Generate(r.Context(), generation.Request{
		Text:         req.Text,
		Voice:        req.Voice,
		Emotion:      req.Emotion,
		Speed:        req.Speed,
		Language:     domain.Language(req.Language),
		UserEmail:    email,
		IsTranslated: req.IsTranslated,
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Tags:         req.Tags,
		IsPublic:     req.IsPublic,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}

	locale := middleware.LocaleFromContext(r.Context())
	a.json(w, http.StatusOK, generateResponse{
		ID:                   result.Record.ID,
		AudioURL:             result.Record.AudioURL,
		Title:                result.Record.Title,
		Duration:             result.Record.Duration,
		Message:              message(locale, "generated"),
		RemainingGenerations: result.Remaining,
	})
}

// History lists the authenticated user's podcasts, newest first.
func (a *App) History(w http.ResponseWriter, r *http.Request) {
	email := middleware.EmailFromContext(r.Context())
	if email == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	records, err := a.Podcasts.ListByOwner(r.Context(), email, limit)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	items := make([]podcastItem, 0, len(records))
	for _, rec := range records {
		items = append(items, toPodcastItem(rec))
	}
	a.json(w, http.StatusOK, map[string]any{"podcasts": items})
}

// DeletePodcast removes a podcast the user owns along with its audio file.
func (a *App) DeletePodcast(w http.ResponseWriter, r *http.Request) {
	email := middleware.EmailFromContext(r.Context())
	if email == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid podcast id")
		return
	}

	record, err := a.Podcasts.GetByID(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if record.OwnerEmail != email {
		// Hide other users' podcasts rather than acknowledging them.
		a.error(w, http.StatusNotFound, "not_found", "resource not found")
		return
	}

	if err := a.Podcasts.Delete(r.Context(), id, email); err != nil {
		a.fail(w, r, err)
		return
	}

	if key := artifactKey(record.AudioURL); key != "" && a.Store != nil {
		if err := a.Store.Remove(context.WithoutCancel(r.Context()), key); err != nil {
			a.Log.Warn().Err(err).Int64("podcast_id", id).Msg("delete audio artifact")
		}
	}

	locale := middleware.LocaleFromContext(r.Context())
	a.json(w, http.StatusOK, map[string]string{"message": message(locale, "deleted")})
}

func toPodcastItem(rec domain.PodcastRecord) podcastItem {
	return podcastItem{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		Voice:       rec.Voice,
		Emotion:     rec.Emotion,
		Speed:       rec.Speed,
		AudioURL:    rec.AudioURL,
		Duration:    rec.Duration,
		FileSize:    rec.FileSize,
		Tags:        rec.Tags,
		IsPublic:    rec.IsPublic,
		Language:    string(rec.Language),
		CreatedAt:   rec.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// artifactKey extracts the storage key from an audio URL. Audio URLs end
// with "<prefix>/podcasts/<file>.mp3".
func artifactKey(audioURL string) string {
	idx := strings.Index(audioURL, "podcasts/")
	if idx < 0 {
		return ""
	}
	return audioURL[idx:]
}

func validationDetail(err error) string {
	return "invalid request: " + err.Error()
}
