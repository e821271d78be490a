package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestVoicesListsCantoneseCatalog(t *testing.T) {
	users := newFakeUsers(verifiedUser("user@example.com"))
	podcasts := newFakePodcasts(users)
	app := newTestApp(users, podcasts, newFakeStore())
	router := newTestRouter(app)

	req := httptest.NewRequest(http.MethodGet, "/api/tts/voices/cantonese", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		Language string `json:"language"`
		Voices   []struct {
			Key string `json:"key"`
		} `json:"voices"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Language != "cantonese" {
		t.Fatalf("language = %q", body.Language)
	}
	if len(body.Voices) != 3 {
		t.Fatalf("got %d voices, want 3", len(body.Voices))
	}
}

func TestVoicesRejectsUnknownLanguage(t *testing.T) {
	users := newFakeUsers(verifiedUser("user@example.com"))
	podcasts := newFakePodcasts(users)
	app := newTestApp(users, podcasts, newFakeStore())
	router := newTestRouter(app)

	req := httptest.NewRequest(http.MethodGet, "/api/tts/voices/klingon", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestLanguagesListsAllSupported(t *testing.T) {
	users := newFakeUsers(verifiedUser("user@example.com"))
	podcasts := newFakePodcasts(users)
	app := newTestApp(users, podcasts, newFakeStore())
	router := newTestRouter(app)

	req := httptest.NewRequest(http.MethodGet, "/api/tts/languages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		Languages []string `json:"languages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Languages) != 3 {
		t.Fatalf("got %d languages, want 3", len(body.Languages))
	}
}
