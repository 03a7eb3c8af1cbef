package run

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"animal-reels-bot/internal"
	"animal-reels-bot/internal/logging"
	"animal-reels-bot/internal/model"
)

type clipSelector interface {
	Select(ctx context.Context) (*model.ClipCandidate, string, error)
}

type audioSelector interface {
	Select(ctx context.Context) (*model.AudioCandidate, string, error)
}

type metadataGenerator interface {
	Generate(ctx context.Context, topic string) model.Metadata
}

type assembler interface {
	Assemble(ctx context.Context, videoPath, audioPath, outputPath string) (float64, error)
}

type uploader interface {
	Upload(ctx context.Context, filePath string) (string, error)
}

type dispatcher interface {
	Dispatch(ctx context.Context, reel *model.Reel) map[string]error
}

type archiver interface {
	Archive(ctx context.Context, reel *model.Reel, videoPath string) (string, error)
}

// Runner executes one full pipeline run: select clip and audio in parallel,
// then assemble with metadata generation alongside, upload, and fan out to
// sinks. Any stage error except metadata generation aborts the run.
type Runner struct {
	cfg      internal.Config
	clips    clipSelector
	audio    audioSelector
	metadata metadataGenerator
	assemble assembler
	upload   uploader
	dispatch dispatcher
	archive  archiver // nil when S3 is not configured
	log      *logging.Logger
}

func NewRunner(
	cfg internal.Config,
	clips clipSelector,
	audio audioSelector,
	metadata metadataGenerator,
	assemble assembler,
	upload uploader,
	dispatch dispatcher,
	archive archiver,
	log *logging.Logger,
) *Runner {
	return &Runner{
		cfg:      cfg,
		clips:    clips,
		audio:    audio,
		metadata: metadata,
		assemble: assemble,
		upload:   upload,
		dispatch: dispatch,
		archive:  archive,
		log:      log,
	}
}

func (r *Runner) Run(ctx context.Context) (*model.Reel, error) {
	runID := uuid.NewString()
	r.log.Infof("run %s: starting", runID)

	var (
		clip      *model.ClipCandidate
		clipPath  string
		audio     *model.AudioCandidate
		audioPath string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		clip, clipPath, err = r.clips.Select(gctx)
		if err != nil {
			return fmt.Errorf("clip selection: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		audio, audioPath, err = r.audio.Select(gctx)
		if err != nil {
			return fmt.Errorf("audio selection: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		cleanup(clipPath, audioPath)
		return nil, err
	}
	defer cleanup(clipPath, audioPath)

	// Metadata generation never fails the run and only needs to be joined
	// before publishing, so it overlaps with assembly. Prompting with the
	// selected clip's topic keeps the caption about what is on screen.
	metaCh := make(chan model.Metadata, 1)
	go func() {
		metaCh <- r.metadata.Generate(ctx, clip.Topic)
	}()

	duration, err := r.assemble.Assemble(ctx, clipPath, audioPath, r.cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("assembly: %w", err)
	}

	link, err := r.upload.Upload(ctx, r.cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}

	reel := &model.Reel{
		RunID:     runID,
		ClipID:    clip.ID,
		Topic:     clip.Topic,
		AudioID:   audio.ID,
		Metadata:  <-metaCh,
		VideoURL:  link,
		DurationS: duration,
		CreatedAt: time.Now(),
	}

	if r.archive != nil {
		if _, err := r.archive.Archive(ctx, reel, r.cfg.OutputPath); err != nil {
			r.log.Warnf("run %s: archive failed: %v", runID, err)
		}
	}

	r.dispatch.Dispatch(ctx, reel)
	r.log.Infof("run %s: complete (clip=%s audio=%s url=%s)", runID, clip.ID, audio.ID, link)
	return reel, nil
}

func cleanup(paths ...string) {
	for _, p := range paths {
		if p != "" {
			os.Remove(p)
		}
	}
}
