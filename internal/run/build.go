package run

import (
	"context"
	"net/http"

	"animal-reels-bot/internal"
	"animal-reels-bot/internal/ai"
	"animal-reels-bot/internal/archive"
	"animal-reels-bot/internal/assembly"
	"animal-reels-bot/internal/ledger"
	"animal-reels-bot/internal/logging"
	"animal-reels-bot/internal/providers"
	"animal-reels-bot/internal/publish"
	"animal-reels-bot/internal/selector"
)

// Build wires a Runner from the configuration: real providers, the file
// ledger (or the bucket ledger when S3 is configured), ffmpeg assembly,
// Catbox upload, and every sink the environment has credentials for.
func Build(cfg internal.Config, log *logging.Logger) (*Runner, error) {
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	download := func(ctx context.Context, mediaURL, prefix, ext string) (string, error) {
		return providers.DownloadToTemp(ctx, httpClient, mediaURL, prefix, ext)
	}

	var store ledger.Store = ledger.NewFileStore(cfg.LedgerPath)
	var arc *archive.Archiver
	if cfg.S3Enabled() {
		s3c, err := archive.New(cfg)
		if err != nil {
			return nil, err
		}
		store = ledger.NewS3Store(s3c, cfg.LedgerS3Key)
		arc = archive.NewArchiver(cfg, s3c, log)
		log.Infof("build: S3 backend enabled (bucket=%s)", cfg.S3Bucket)
	}

	clips := selector.NewClips(cfg, providers.NewPixabay(cfg.PixabayAPIKey, httpClient, log), store, download, log)
	audio := selector.NewAudio(cfg, providers.NewFreesound(cfg.FreesoundAPIKey, httpClient, log), download, log)

	var sinks []publish.Sink
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tg, err := publish.NewTelegramSink(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, tg)
	}
	if cfg.WebhookURL != "" {
		sinks = append(sinks, publish.NewWebhookSink(cfg.WebhookURL, httpClient))
	}

	var arcDep archiver
	if arc != nil {
		arcDep = arc
	}

	return NewRunner(
		cfg,
		clips,
		audio,
		ai.NewGenerator(cfg, log),
		assembly.NewPipeline(cfg, log),
		publish.NewCatboxUploader(httpClient, log),
		publish.NewFanout(sinks, cfg.WaitForSinks, log),
		arcDep,
		log,
	), nil
}
