package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	"google.golang.org/genai"

	"animal-reels-bot/internal"
	"animal-reels-bot/internal/logging"
	"animal-reels-bot/internal/model"
)

const geminiModel = "gemini-2.0-flash-exp"

// Fallback triple used whenever generation fails for any reason. These
// values are observable default behaviour, not placeholders.
var fallbackMetadata = model.Metadata{
	Title:   "Amazing Animal Moments",
	Caption: "Nature never stops surprising us.",
	Hashtags: []string{
		"#animals", "#wildlife", "#nature",
		"#animalvideos", "#naturelovers",
		"#animalworld", "#earthlife", "#reels",
	},
}

// Generator produces the title/caption/hashtags triple for a reel. It never
// fails the caller: any error in the client, the call, or the response shape
// degrades to the fallback triple, sourced from the caption pool files when
// those are present and from the fixed constants otherwise.
type Generator struct {
	apiKey   string
	titles   []string
	captions []string
	log      *logging.Logger
}

func NewGenerator(cfg internal.Config, log *logging.Logger) *Generator {
	g := &Generator{
		apiKey:   cfg.GeminiAPIKey,
		titles:   loadPool(cfg.TitlesPath),
		captions: loadPool(cfg.CaptionsPath),
		log:      log,
	}
	if len(g.titles) > 0 || len(g.captions) > 0 {
		log.Infof("ai: caption pools loaded (%d titles, %d captions)", len(g.titles), len(g.captions))
	}
	return g
}

// loadPool reads a JSON string-array pool file. Any problem (missing file,
// bad JSON) yields an empty pool; the fixed fallback covers that case.
func loadPool(path string) []string {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var entries []string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}
	return lo.Filter(entries, func(s string, _ int) bool {
		return strings.TrimSpace(s) != ""
	})
}

// fallback returns the triple used when generation fails: a random pick from
// each caption pool, or the fixed value where the pool is empty. Hashtags are
// always the fixed list.
func (g *Generator) fallback() model.Metadata {
	meta := fallbackMetadata
	if len(g.titles) > 0 {
		meta.Title = lo.Sample(g.titles)
	}
	if len(g.captions) > 0 {
		meta.Caption = lo.Sample(g.captions)
	}
	return meta
}

// Generate returns metadata for a reel about the given topic. The returned
// value is always usable; failures are logged and substituted.
func (g *Generator) Generate(ctx context.Context, topic string) model.Metadata {
	if g.apiKey == "" {
		g.log.Infof("ai: no api key, using fallback metadata")
		return g.fallback()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		g.log.Warnf("ai: genai client: %v, using fallback", err)
		return g.fallback()
	}

	prompt := fmt.Sprintf(
		"You write captions for short vertical animal videos. "+
			"For a reel about %q, respond with exactly one line in the form "+
			"title | caption | hashtags. "+
			"Title under 60 characters, caption one sentence, hashtags "+
			"space-separated and starting with #. No other text.",
		topic,
	)

	resp, err := client.Models.GenerateContent(ctx, geminiModel, []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}, nil)
	if err != nil {
		g.log.Warnf("ai: generate content: %v, using fallback", err)
		return g.fallback()
	}

	meta, err := ParseTriple(resp.Text())
	if err != nil {
		g.log.Warnf("ai: %v, using fallback", err)
		return g.fallback()
	}
	return meta
}

// Fallback returns the fixed fallback triple.
func Fallback() model.Metadata {
	return fallbackMetadata
}

// ParseTriple parses a pipe-delimited "title | caption | hashtags" line.
// Segments are positional; fewer than three is a malformed response.
func ParseTriple(text string) (model.Metadata, error) {
	parts := strings.Split(text, "|")
	if len(parts) < 3 {
		return model.Metadata{}, fmt.Errorf("malformed response: want 3 pipe-delimited segments, got %d", len(parts))
	}

	title := strings.TrimSpace(parts[0])
	caption := strings.TrimSpace(parts[1])
	hashtags := strings.Fields(strings.TrimSpace(strings.Join(parts[2:], " ")))
	if title == "" || caption == "" {
		return model.Metadata{}, fmt.Errorf("malformed response: empty title or caption")
	}

	return model.Metadata{Title: title, Caption: caption, Hashtags: hashtags}, nil
}
