package selector

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"animal-reels-bot/internal"
	"animal-reels-bot/internal/ledger"
	"animal-reels-bot/internal/logging"
	"animal-reels-bot/internal/model"
)

// ErrExhausted means every topic was searched and no unused candidate was
// found. Terminal for the run; never retried.
var ErrExhausted = errors.New("no unused clip candidates across all topics")

// ClipProvider is the stock-footage search contract.
type ClipProvider interface {
	SearchVideos(ctx context.Context, topic string, perPage int) ([]model.ClipCandidate, error)
}

// Downloader fetches a media URL into a temp file and returns its path.
type Downloader func(ctx context.Context, mediaURL, prefix, ext string) (string, error)

// Clips picks one stock clip per run. In ledger mode it scans shuffled
// topics for the first candidate not yet in the usage ledger; in random
// mode it picks uniformly from the first page of a fixed topic.
type Clips struct {
	cfg      internal.Config
	provider ClipProvider
	ledger   ledger.Store
	download Downloader
	log      *logging.Logger
}

func NewClips(cfg internal.Config, provider ClipProvider, store ledger.Store, download Downloader, log *logging.Logger) *Clips {
	return &Clips{cfg: cfg, provider: provider, ledger: store, download: download, log: log}
}

// Select returns the chosen candidate and the local path of its downloaded
// payload. The ledger is updated only after the download succeeds, so a
// failed download never burns an identifier.
func (c *Clips) Select(ctx context.Context) (*model.ClipCandidate, string, error) {
	if c.cfg.DedupMode == internal.DedupModeRandom {
		return c.selectRandom(ctx)
	}
	return c.selectUnused(ctx)
}

func (c *Clips) selectUnused(ctx context.Context) (*model.ClipCandidate, string, error) {
	used, err := c.ledger.Load(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("load ledger: %w", err)
	}

	for _, topic := range lo.Shuffle(append([]string(nil), c.cfg.Topics...)) {
		candidates, err := c.provider.SearchVideos(ctx, topic, c.cfg.PerPage)
		if err != nil {
			return nil, "", err
		}

		// Provider-returned order is the ranking; take the first unused hit.
		for i := range candidates {
			cand := candidates[i]
			if used[cand.ID] {
				continue
			}
			path, err := c.fetch(ctx, &cand)
			if err != nil {
				return nil, "", err
			}
			if err := c.ledger.Record(ctx, cand.ID); err != nil {
				return nil, "", fmt.Errorf("record clip %s: %w", cand.ID, err)
			}
			c.log.Infof("clips: selected unused clip %s (topic %q)", cand.ID, topic)
			return &cand, path, nil
		}
		c.log.Infof("clips: topic %q exhausted, trying next", topic)
	}
	return nil, "", ErrExhausted
}

func (c *Clips) selectRandom(ctx context.Context) (*model.ClipCandidate, string, error) {
	candidates, err := c.provider.SearchVideos(ctx, c.cfg.FixedTopic, c.cfg.PerPage)
	if err != nil {
		return nil, "", err
	}
	if len(candidates) == 0 {
		return nil, "", ErrExhausted
	}
	cand := lo.Sample(candidates)
	path, err := c.fetch(ctx, &cand)
	if err != nil {
		return nil, "", err
	}
	c.log.Infof("clips: selected random clip %s (topic %q)", cand.ID, c.cfg.FixedTopic)
	return &cand, path, nil
}

func (c *Clips) fetch(ctx context.Context, cand *model.ClipCandidate) (string, error) {
	path, err := c.download(ctx, cand.URL, "clip-"+cand.ID, ".mp4")
	if err != nil {
		return "", fmt.Errorf("download clip %s: %w", cand.ID, err)
	}
	return path, nil
}
