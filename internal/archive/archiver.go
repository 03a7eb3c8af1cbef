package archive

import (
	"context"
	"fmt"

	"animal-reels-bot/internal"
	"animal-reels-bot/internal/logging"
	"animal-reels-bot/internal/model"
)

// Archiver keeps a copy of each published reel plus its run manifest in the
// bucket. Archiving is best effort: it runs after publishing and its
// failures never fail the run.
type Archiver struct {
	cfg    internal.Config
	client Client
	log    *logging.Logger
}

func NewArchiver(cfg internal.Config, client Client, log *logging.Logger) *Archiver {
	return &Archiver{cfg: cfg, client: client, log: log}
}

// Archive uploads the reel video and writes the manifest, returning the
// reel's bucket key.
func (a *Archiver) Archive(ctx context.Context, reel *model.Reel, videoPath string) (string, error) {
	videoKey := a.cfg.ReelsPrefix + reel.RunID + ".mp4"
	if err := a.client.PutFile(ctx, videoKey, videoPath, "video/mp4"); err != nil {
		return "", fmt.Errorf("archive reel %s: %w", videoKey, err)
	}
	a.log.Infof("archive: uploaded reel to %s", videoKey)

	reel.VideoKey = videoKey
	manifestKey := a.cfg.RunsPrefix + reel.RunID + ".json"
	if err := a.client.WriteJSON(ctx, manifestKey, reel); err != nil {
		return videoKey, fmt.Errorf("archive manifest %s: %w", manifestKey, err)
	}
	a.log.Infof("archive: wrote manifest %s", manifestKey)
	return videoKey, nil
}
