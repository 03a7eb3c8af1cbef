package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"

	"animal-reels-bot/internal/logging"
	"animal-reels-bot/internal/model"
)

const pixabayBaseURL = "https://pixabay.com/api/videos/"

// Pixabay queries the stock-footage provider. Candidates come back in the
// provider's ranking order; the selector relies on that order.
type Pixabay struct {
	apiKey  string
	client  *http.Client
	baseURL string
	log     *logging.Logger
}

func NewPixabay(apiKey string, client *http.Client, log *logging.Logger) *Pixabay {
	return &Pixabay{apiKey: apiKey, client: client, baseURL: pixabayBaseURL, log: log}
}

func (p *Pixabay) SearchVideos(ctx context.Context, topic string, perPage int) ([]model.ClipCandidate, error) {
	q := url.Values{}
	q.Set("key", p.apiKey)
	q.Set("q", topic)
	q.Set("per_page", strconv.Itoa(perPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pixabay search %q: %w", topic, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pixabay search %q: http %d", topic, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var candidates []model.ClipCandidate
	for _, hit := range gjson.GetBytes(data, "hits").Array() {
		dl := hit.Get("videos.large.url").String()
		if dl == "" {
			dl = hit.Get("videos.medium.url").String()
		}
		if dl == "" {
			continue
		}
		candidates = append(candidates, model.ClipCandidate{
			ID:        hit.Get("id").String(),
			Topic:     topic,
			URL:       dl,
			DurationS: hit.Get("duration").Float(),
		})
	}
	p.log.Infof("pixabay: topic %q returned %d candidates", topic, len(candidates))
	return candidates, nil
}
