package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"animal-reels-bot/internal/logging"
	"animal-reels-bot/internal/model"
)

const freesoundBaseURL = "https://freesound.org/apiv2/search/text/"

// Freesound queries the audio provider's text search. The preview URL in
// each candidate is the HQ MP3 preview, which is what gets downloaded.
type Freesound struct {
	token   string
	client  *http.Client
	baseURL string
	log     *logging.Logger
}

func NewFreesound(token string, client *http.Client, log *logging.Logger) *Freesound {
	return &Freesound{token: token, client: client, baseURL: freesoundBaseURL, log: log}
}

// SearchSounds fetches one page of candidates for the query, filtered
// server-side when licenseFilter is non-empty (e.g. `license:"Creative Commons 0"`).
func (f *Freesound) SearchSounds(ctx context.Context, query, licenseFilter string) ([]model.AudioCandidate, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("token", f.token)
	q.Set("fields", "id,name,previews,duration")
	if licenseFilter != "" {
		q.Set("filter", licenseFilter)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("freesound search %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("freesound search %q: http %d", query, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var candidates []model.AudioCandidate
	for _, res := range gjson.GetBytes(data, "results").Array() {
		preview := res.Get(`previews.preview-hq-mp3`).String()
		if preview == "" {
			preview = res.Get(`previews.preview-lq-mp3`).String()
		}
		if preview == "" {
			continue
		}
		candidates = append(candidates, model.AudioCandidate{
			ID:         res.Get("id").String(),
			Name:       res.Get("name").String(),
			PreviewURL: preview,
			DurationS:  res.Get("duration").Float(),
		})
	}
	f.log.Infof("freesound: query %q returned %d candidates", query, len(candidates))
	return candidates, nil
}
