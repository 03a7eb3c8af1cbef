package selector

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"animal-reels-bot/internal"
	"animal-reels-bot/internal/logging"
	"animal-reels-bot/internal/model"
)

// AudioProvider is the ambient-audio search contract.
type AudioProvider interface {
	SearchSounds(ctx context.Context, query, licenseFilter string) ([]model.AudioCandidate, error)
}

// Audio picks one ambient track per run. Every run may reuse audio; there is
// no ledger and no fallback track, provider failures propagate.
type Audio struct {
	cfg      internal.Config
	provider AudioProvider
	download Downloader
	log      *logging.Logger
}

func NewAudio(cfg internal.Config, provider AudioProvider, download Downloader, log *logging.Logger) *Audio {
	return &Audio{cfg: cfg, provider: provider, download: download, log: log}
}

func (a *Audio) Select(ctx context.Context) (*model.AudioCandidate, string, error) {
	candidates, err := a.provider.SearchSounds(ctx, a.cfg.AudioQuery, a.cfg.AudioLicense)
	if err != nil {
		return nil, "", err
	}
	candidates = lo.Filter(candidates, func(c model.AudioCandidate, _ int) bool {
		return c.PreviewURL != ""
	})
	if len(candidates) == 0 {
		return nil, "", fmt.Errorf("no audio candidates for query %q", a.cfg.AudioQuery)
	}

	cand := lo.Sample(candidates)
	path, err := a.download(ctx, cand.PreviewURL, "audio-"+cand.ID, ".mp3")
	if err != nil {
		return nil, "", fmt.Errorf("download audio %s: %w", cand.ID, err)
	}
	a.log.Infof("audio: selected track %s (%s)", cand.ID, cand.Name)
	return &cand, path, nil
}
