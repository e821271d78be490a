package handlers

import (
	"net/http"
	"time"

	"server/internal/middleware"
)

// Quota reports the authenticated user's monthly generation usage, applying
// the same month rollover the generation path uses.
func (a *App) Quota(w http.ResponseWriter, r *http.Request) {
	email := middleware.EmailFromContext(r.Context())
	if email == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	stats, err := a.Coordinator.Quota().Remaining(r.Context(), email, time.Now())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, stats)
}
