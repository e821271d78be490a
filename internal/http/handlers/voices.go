package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
)

// Voices lists the catalog entries for a language.
func (a *App) Voices(w http.ResponseWriter, r *http.Request) {
	language := domain.Language(chi.URLParam(r, "language"))
	if !language.Valid() {
		a.error(w, http.StatusBadRequest, "bad_request", "unsupported language")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"language": language,
		"voices":   a.Coordinator.Catalog().Voices(language),
	})
}

// Languages lists the synthesis languages the catalog supports.
func (a *App) Languages(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"languages": a.Coordinator.Catalog().Languages(),
	})
}
