package providers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"animal-reels-bot/internal/logging"
)

func newTestLogger(t *testing.T) *logging.Logger {
	t.Helper()
	log, err := logging.New(filepath.Join(t.TempDir(), "errors.log"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { log.Close() })
	return log
}

const pixabayFixture = `{
  "total": 3,
  "hits": [
    {"id": 101, "duration": 15, "videos": {"large": {"url": "https://cdn/101-large.mp4"}, "medium": {"url": "https://cdn/101-med.mp4"}}},
    {"id": 102, "duration": 9, "videos": {"large": {"url": ""}, "medium": {"url": "https://cdn/102-med.mp4"}}},
    {"id": 103, "duration": 30, "videos": {}}
  ]
}`

func TestPixabaySearchVideos(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("key") != "k" || q.Get("q") != "dog" || q.Get("per_page") != "20" {
			t.Errorf("unexpected query: %v", q)
		}
		io.WriteString(w, pixabayFixture)
	}))
	defer server.Close()

	p := NewPixabay("k", server.Client(), newTestLogger(t))
	p.baseURL = server.URL

	candidates, err := p.SearchVideos(context.Background(), "dog", 20)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates (no download URL for 103), got %d", len(candidates))
	}
	if candidates[0].ID != "101" || candidates[0].URL != "https://cdn/101-large.mp4" {
		t.Fatalf("candidate 0: %+v", candidates[0])
	}
	// Large URL missing falls back to medium.
	if candidates[1].ID != "102" || candidates[1].URL != "https://cdn/102-med.mp4" {
		t.Fatalf("candidate 1: %+v", candidates[1])
	}
	if candidates[0].DurationS != 15 {
		t.Fatalf("duration: %v", candidates[0].DurationS)
	}
	if candidates[0].Topic != "dog" {
		t.Fatalf("topic: %q", candidates[0].Topic)
	}
}

func TestPixabaySearchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := NewPixabay("k", server.Client(), newTestLogger(t))
	p.baseURL = server.URL
	if _, err := p.SearchVideos(context.Background(), "dog", 20); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}
