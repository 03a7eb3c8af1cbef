package ai

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"animal-reels-bot/internal"
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

func TestParseTriple(t *testing.T) {
	meta, err := ParseTriple("Wild Dogs | Watch this pack at sunrise. | #dogs #wildlife #reels")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if meta.Title != "Wild Dogs" {
		t.Fatalf("title: %q", meta.Title)
	}
	if meta.Caption != "Watch this pack at sunrise." {
		t.Fatalf("caption: %q", meta.Caption)
	}
	if len(meta.Hashtags) != 3 || meta.Hashtags[0] != "#dogs" {
		t.Fatalf("hashtags: %v", meta.Hashtags)
	}
}

func TestParseTripleExtraPipes(t *testing.T) {
	// Extra segments fold into the hashtag tail rather than failing.
	meta, err := ParseTriple("A | B | #one | #two")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(meta.Hashtags) != 2 {
		t.Fatalf("hashtags: %v", meta.Hashtags)
	}
}

func TestParseTripleMalformed(t *testing.T) {
	for _, text := range []string{"", "just some prose", "title | caption"} {
		if _, err := ParseTriple(text); err == nil {
			t.Fatalf("expected error for %q", text)
		}
	}
}

func TestGenerateWithoutKeyUsesFallback(t *testing.T) {
	g := NewGenerator(internal.Config{}, newTestLogger(t))
	meta := g.Generate(context.Background(), "dog")

	want := Fallback()
	if meta.Title != want.Title || meta.Caption != want.Caption {
		t.Fatalf("expected fallback triple, got %+v", meta)
	}
	if len(meta.Hashtags) != len(want.Hashtags) {
		t.Fatalf("expected fallback hashtags, got %v", meta.Hashtags)
	}
}

func TestFallbackUsesCaptionPools(t *testing.T) {
	dir := t.TempDir()
	titlesPath := filepath.Join(dir, "titles.json")
	captionsPath := filepath.Join(dir, "captions.json")
	if err := os.WriteFile(titlesPath, []byte(`["Pool Title"]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(captionsPath, []byte(`["Pool caption."]`), 0o644); err != nil {
		t.Fatal(err)
	}

	g := NewGenerator(internal.Config{TitlesPath: titlesPath, CaptionsPath: captionsPath}, newTestLogger(t))
	meta := g.Generate(context.Background(), "dog")

	if meta.Title != "Pool Title" || meta.Caption != "Pool caption." {
		t.Fatalf("expected pool-sourced fallback, got %+v", meta)
	}
	if len(meta.Hashtags) != len(Fallback().Hashtags) {
		t.Fatalf("hashtags must stay the fixed list, got %v", meta.Hashtags)
	}
}

func TestFallbackCorruptPoolDegradesToFixed(t *testing.T) {
	dir := t.TempDir()
	titlesPath := filepath.Join(dir, "titles.json")
	if err := os.WriteFile(titlesPath, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	g := NewGenerator(internal.Config{TitlesPath: titlesPath}, newTestLogger(t))
	meta := g.Generate(context.Background(), "dog")

	if meta.Title != Fallback().Title {
		t.Fatalf("expected fixed fallback title, got %q", meta.Title)
	}
}
