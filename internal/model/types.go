package model

import (
	"strings"
	"time"
)

// ClipCandidate is a provider-returned description of a downloadable stock
// clip, prior to download. ID is the provider-assigned identifier used for
// deduplication.
type ClipCandidate struct {
	ID        string  `json:"id"`
	Topic     string  `json:"topic"`
	URL       string  `json:"url"`
	DurationS float64 `json:"duration_s,omitempty"`
}

// AudioCandidate describes an ambient audio track. PreviewURL points at the
// provider's HQ MP3 preview, which is what the pipeline actually downloads.
type AudioCandidate struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	PreviewURL string  `json:"preview_url"`
	DurationS  float64 `json:"duration_s,omitempty"`
}

// Metadata is the caption triple attached to a published reel.
type Metadata struct {
	Title    string   `json:"title"`
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags"`
}

// CaptionText renders the outgoing caption text: title, blank line, caption,
// blank line, space-joined hashtags.
func (m Metadata) CaptionText() string {
	text := m.Title + "\n\n" + m.Caption
	if len(m.Hashtags) > 0 {
		text += "\n\n" + strings.Join(m.Hashtags, " ")
	}
	return text
}

// Reel is the manifest of one completed pipeline run.
type Reel struct {
	RunID     string    `json:"run_id"`
	ClipID    string    `json:"clip_id"`
	Topic     string    `json:"topic"`
	AudioID   string    `json:"audio_id"`
	Metadata  Metadata  `json:"metadata"`
	VideoURL  string    `json:"video_url"`
	VideoKey  string    `json:"video_key,omitempty"` // s3 key when archived
	DurationS float64   `json:"duration_s"`
	CreatedAt time.Time `json:"created_at"`
}
