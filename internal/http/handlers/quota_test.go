package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"server/internal/generation"
)

func TestQuotaReportsUsage(t *testing.T) {
	users := newFakeUsers(verifiedUser("user@example.com"))
	podcasts := newFakePodcasts(users)
	app := newTestApp(users, podcasts, newFakeStore())
	router := newTestRouter(app)

	req := authedRequest(t, http.MethodPost, "/api/tts/generate", "user@example.com", map[string]any{"text": "内容。"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("seed generate: status %d", rec.Code)
	}

	req = authedRequest(t, http.MethodGet, "/api/user/quota", "user@example.com", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var stats generation.QuotaStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if stats.Count != 1 || stats.Limit != 10 || stats.Remaining != 9 || stats.Unlimited {
		t.Fatalf("stats = %+v, want count 1 of 10", stats)
	}
}

func TestQuotaRequiresAuth(t *testing.T) {
	users := newFakeUsers(verifiedUser("user@example.com"))
	podcasts := newFakePodcasts(users)
	app := newTestApp(users, podcasts, newFakeStore())
	router := newTestRouter(app)

	req := authedRequest(t, http.MethodGet, "/api/user/quota", "", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
