package providers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

const freesoundFixture = `{
  "count": 2,
  "results": [
    {"id": 9, "name": "forest morning", "duration": 31.5, "previews": {"preview-hq-mp3": "https://cdn/9-hq.mp3", "preview-lq-mp3": "https://cdn/9-lq.mp3"}},
    {"id": 10, "name": "river", "duration": 12, "previews": {"preview-lq-mp3": "https://cdn/10-lq.mp3"}}
  ]
}`

func TestFreesoundSearchSounds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("token") != "tok" || q.Get("query") != "nature" {
			t.Errorf("unexpected query: %v", q)
		}
		if q.Get("filter") != `license:"Creative Commons 0"` {
			t.Errorf("license filter: %q", q.Get("filter"))
		}
		io.WriteString(w, freesoundFixture)
	}))
	defer server.Close()

	f := NewFreesound("tok", server.Client(), newTestLogger(t))
	f.baseURL = server.URL

	candidates, err := f.SearchSounds(context.Background(), "nature", `license:"Creative Commons 0"`)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates got %d", len(candidates))
	}
	if candidates[0].PreviewURL != "https://cdn/9-hq.mp3" {
		t.Fatalf("hq preview preferred, got %q", candidates[0].PreviewURL)
	}
	// No HQ preview falls back to LQ.
	if candidates[1].PreviewURL != "https://cdn/10-lq.mp3" {
		t.Fatalf("lq fallback, got %q", candidates[1].PreviewURL)
	}
	if candidates[0].DurationS != 31.5 {
		t.Fatalf("duration: %v", candidates[0].DurationS)
	}
}

func TestFreesoundSearchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	f := NewFreesound("tok", server.Client(), newTestLogger(t))
	f.baseURL = server.URL
	if _, err := f.SearchSounds(context.Background(), "nature", ""); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestDownloadToTemp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "media-bytes")
	}))
	defer server.Close()

	path, err := DownloadToTemp(context.Background(), server.Client(), server.URL, "clip-1", ".mp4")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	defer os.Remove(path)

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "media-bytes" {
		t.Fatalf("unexpected payload: %q", b)
	}
}

func TestDownloadToTempHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	if _, err := DownloadToTemp(context.Background(), server.Client(), server.URL, "clip-1", ".mp4"); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestDownloadToTempEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	if _, err := DownloadToTemp(context.Background(), server.Client(), server.URL, "clip-1", ".mp4"); err == nil {
		t.Fatal("expected error on empty body")
	}
}
