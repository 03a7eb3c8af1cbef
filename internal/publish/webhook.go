package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"animal-reels-bot/internal/model"
)

// WebhookSink posts the link plus metadata as JSON to an arbitrary endpoint.
type WebhookSink struct {
	url    string
	client *http.Client
}

func NewWebhookSink(url string, client *http.Client) *WebhookSink {
	return &WebhookSink{url: url, client: client}
}

func (w *WebhookSink) Name() string { return "webhook" }

type webhookPayload struct {
	RunID    string   `json:"run_id"`
	VideoURL string   `json:"video_url"`
	Title    string   `json:"title"`
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags"`
}

func (w *WebhookSink) Deliver(ctx context.Context, reel *model.Reel) error {
	payload := webhookPayload{
		RunID:    reel.RunID,
		VideoURL: reel.VideoURL,
		Title:    reel.Metadata.Title,
		Caption:  reel.Metadata.CaptionText(),
		Hashtags: reel.Metadata.Hashtags,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook post: http %d", resp.StatusCode)
	}
	return nil
}
