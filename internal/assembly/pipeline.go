package assembly

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"time"

	"github.com/mowshon/moviego"

	"animal-reels-bot/internal"
	"animal-reels-bot/internal/logging"
)

// ffmpegSem limits the number of concurrent ffmpeg processes to 1 to avoid
// "pthread_create() failed: Resource temporarily unavailable" under load.
var ffmpegSem = make(chan struct{}, 1)

// scaleCrop fills a vertical 9:16 frame: scale up to cover, then center-crop.
const scaleCrop = "scale=1080:1920:force_original_aspect_ratio=increase,crop=1080:1920"

// Pipeline trims the clip to the target duration, loops the audio to cover
// it, and muxes both into one file with a fixed libx264/aac profile. Any
// failure is fatal to the run; no partial output is valid.
type Pipeline struct {
	cfg internal.Config
	log *logging.Logger
}

func NewPipeline(cfg internal.Config, log *logging.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, log: log}
}

// TargetDuration resolves the configured duration policy for a source video
// of length videoLen seconds.
func TargetDuration(policy internal.DurationPolicy, capSeconds, floorSeconds, videoLen float64) float64 {
	if policy == internal.DurationPolicyFull {
		return videoLen
	}
	return math.Max(floorSeconds, math.Min(capSeconds, videoLen))
}

// LoopCount returns how many copies of an audio track of length audioLen are
// needed to cover target seconds before trimming.
func LoopCount(audioLen, target float64) int {
	if audioLen <= 0 {
		return 1
	}
	if audioLen >= target {
		return 1
	}
	return int(math.Ceil(target / audioLen))
}

// Assemble muxes videoPath+audioPath into outputPath and returns the target
// duration of the produced reel.
func (p *Pipeline) Assemble(ctx context.Context, videoPath, audioPath, outputPath string) (float64, error) {
	if _, err := os.Stat(videoPath); err != nil {
		return 0, fmt.Errorf("video file not found: %s (%w)", videoPath, err)
	}
	if _, err := os.Stat(audioPath); err != nil {
		return 0, fmt.Errorf("audio file not found: %s (%w)", audioPath, err)
	}

	// Pre-flight load catches containers ffprobe reports on but ffmpeg
	// cannot decode.
	if _, err := safeLoadVideo(videoPath); err != nil {
		return 0, fmt.Errorf("unreadable video %s: %w", videoPath, err)
	}

	videoLen, err := p.probeDuration(ctx, videoPath)
	if err != nil {
		return 0, fmt.Errorf("probe video: %w", err)
	}
	if videoLen <= 0 {
		return 0, fmt.Errorf("zero-duration video: %s", videoPath)
	}
	audioLen, err := p.probeDuration(ctx, audioPath)
	if err != nil {
		return 0, fmt.Errorf("probe audio: %w", err)
	}
	if audioLen <= 0 {
		return 0, fmt.Errorf("zero-duration audio: %s", audioPath)
	}

	target := TargetDuration(p.cfg.DurationPolicy, p.cfg.CapSeconds, p.cfg.FloorSeconds, videoLen)
	loops := LoopCount(audioLen, target)
	p.log.Infof("assembly: video %.2fs, audio %.2fs, target %.2fs, audio loops %d",
		videoLen, audioLen, target, loops)

	if err := p.mux(ctx, videoPath, audioPath, outputPath, target, loops); err != nil {
		return 0, err
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return 0, fmt.Errorf("ffmpeg did not create output file: %s (%w)", outputPath, err)
	}
	if info.Size() == 0 {
		return 0, fmt.Errorf("ffmpeg produced empty output file: %s", outputPath)
	}
	p.log.Infof("assembly: wrote %s (%d bytes)", outputPath, info.Size())
	return target, nil
}

func (p *Pipeline) mux(ctx context.Context, videoPath, audioPath, outputPath string, target float64, loops int) error {
	// One ffmpeg process at a time.
	ffmpegSem <- struct{}{}
	defer func() { <-ffmpegSem }()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner",
		"-loglevel", "error",
		"-i", videoPath,
		"-stream_loop", fmt.Sprintf("%d", loops-1),
		"-i", audioPath,
		"-vf", scaleCrop,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c:v", "libx264",
		"-preset", "fast",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", "192k",
		"-r", "30",
		"-t", fmt.Sprintf("%.3f", target),
		"-y",
		outputPath,
	)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := stderr.String()
		if errMsg == "" {
			errMsg = err.Error()
		}
		return fmt.Errorf("ffmpeg error: %s", errMsg)
	}
	return nil
}

func (p *Pipeline) probeDuration(ctx context.Context, path string) (float64, error) {
	ctxProbe, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctxProbe, "ffprobe", "-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1", path)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	var duration float64
	if _, err := fmt.Sscanf(string(out), "%f", &duration); err != nil {
		return 0, fmt.Errorf("parse ffprobe output %q: %w", string(out), err)
	}
	return duration, nil
}

// safeLoadVideo wraps moviego.Load to catch panics from the library.
func safeLoadVideo(path string) (vid moviego.Video, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("moviego.Load panicked: %v", r)
		}
	}()
	vid, err = moviego.Load(path)
	return
}
