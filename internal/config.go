package internal

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// DedupMode controls how the clip selector treats previously used clips.
type DedupMode string

const (
	// DedupModeLedger skips every clip whose ID is already in the usage ledger.
	DedupModeLedger DedupMode = "ledger"
	// DedupModeRandom picks uniformly from the first page for a fixed topic,
	// with no ledger check.
	DedupModeRandom DedupMode = "random"
)

// DurationPolicy controls the target duration of the assembled reel.
type DurationPolicy string

const (
	// DurationPolicyCapFloor clamps the source video length into [FloorSeconds, CapSeconds].
	DurationPolicyCapFloor DurationPolicy = "capfloor"
	// DurationPolicyFull keeps the full source video length.
	DurationPolicyFull DurationPolicy = "full"
)

type Config struct {
	PixabayAPIKey   string
	FreesoundAPIKey string
	GeminiAPIKey    string

	TelegramToken  string
	TelegramChatID int64
	WebhookURL     string

	// Optional S3-compatible storage for reel archiving and a shared ledger.
	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string

	ReelsPrefix  string
	RunsPrefix   string
	LedgerS3Key  string
	LedgerPath   string
	OutputPath   string
	CronSchedule string // empty = one-shot run

	// Caption pool files used as the metadata fallback source. A missing or
	// unreadable pool degrades to the fixed fallback values.
	TitlesPath   string
	CaptionsPath string

	Topics       []string
	FixedTopic   string // used by DedupModeRandom
	AudioQuery   string
	AudioLicense string
	PerPage      int

	DedupMode      DedupMode
	DurationPolicy DurationPolicy
	CapSeconds     float64
	FloorSeconds   float64

	WaitForSinks bool
	HTTPTimeout  time.Duration
}

func LoadConfig() (Config, error) {
	cfg := Config{
		PixabayAPIKey:   os.Getenv("PIXABAY_API_KEY"),
		FreesoundAPIKey: os.Getenv("FREESOUND_API_KEY"),
		GeminiAPIKey:    firstNonEmpty(os.Getenv("GOOGLE_API_KEY"), os.Getenv("GEMINI_API_KEY")),
		TelegramToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		WebhookURL:      os.Getenv("WEBHOOK_URL"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    os.Getenv("S3_REGION"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3AccessKey: firstNonEmpty(os.Getenv("S3_ACCESS_KEY"), os.Getenv("S3_ACCESS_KEY_ID")),
		S3SecretKey: firstNonEmpty(os.Getenv("S3_SECRET_ACCESS_KEY"), os.Getenv("S3_SECRET_ACCESS_KEY_ID")),

		ReelsPrefix:  "reels/",
		RunsPrefix:   "runs/",
		LedgerS3Key:  "used_videos.json",
		LedgerPath:   "used_videos.json",
		OutputPath:   "final_reel.mp4",
		CronSchedule: os.Getenv("CRON_SCHEDULE"),

		TitlesPath:   "titles.json",
		CaptionsPath: "captions.json",

		Topics:       []string{"dog", "cat", "lion", "bird", "horse", "elephant"},
		FixedTopic:   "animals",
		AudioQuery:   "nature",
		AudioLicense: `license:"Creative Commons 0"`,
		PerPage:      20,

		DedupMode:      DedupModeLedger,
		DurationPolicy: DurationPolicyCapFloor,
		CapSeconds:     8,
		FloorSeconds:   7,

		WaitForSinks: true,
		HTTPTimeout:  60 * time.Second,
	}

	if v := os.Getenv("LEDGER_PATH"); v != "" {
		cfg.LedgerPath = v
	}
	if v := os.Getenv("OUTPUT_PATH"); v != "" {
		cfg.OutputPath = v
	}
	if v := os.Getenv("TITLES_PATH"); v != "" {
		cfg.TitlesPath = v
	}
	if v := os.Getenv("CAPTIONS_PATH"); v != "" {
		cfg.CaptionsPath = v
	}
	if v := os.Getenv("AUDIO_QUERY"); v != "" {
		cfg.AudioQuery = v
	}
	if v := os.Getenv("PER_PAGE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PerPage = n
		}
	}
	if v := os.Getenv("DEDUP_MODE"); v != "" {
		switch DedupMode(v) {
		case DedupModeLedger, DedupModeRandom:
			cfg.DedupMode = DedupMode(v)
		default:
			return cfg, errors.New("DEDUP_MODE must be 'ledger' or 'random'")
		}
	}
	if v := os.Getenv("DURATION_POLICY"); v != "" {
		switch DurationPolicy(v) {
		case DurationPolicyCapFloor, DurationPolicyFull:
			cfg.DurationPolicy = DurationPolicy(v)
		default:
			return cfg, errors.New("DURATION_POLICY must be 'capfloor' or 'full'")
		}
	}
	if v := os.Getenv("CAP_SECONDS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.CapSeconds = f
		}
	}
	if v := os.Getenv("FLOOR_SECONDS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.FloorSeconds = f
		}
	}
	if v := os.Getenv("WAIT_FOR_SINKS"); v != "" {
		cfg.WaitForSinks = v != "false" && v != "0"
	}
	if v := os.Getenv("HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HTTPTimeout = d
		}
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, errors.New("TELEGRAM_CHAT_ID must be an integer chat ID")
		}
		cfg.TelegramChatID = n
	}

	if cfg.PixabayAPIKey == "" {
		return cfg, errors.New("PIXABAY_API_KEY is required")
	}
	if cfg.FreesoundAPIKey == "" {
		return cfg, errors.New("FREESOUND_API_KEY is required")
	}
	if cfg.CapSeconds < cfg.FloorSeconds {
		return cfg, errors.New("CAP_SECONDS must be >= FLOOR_SECONDS")
	}
	return cfg, nil
}

// S3Enabled reports whether the optional S3 archive/ledger backend is configured.
func (c Config) S3Enabled() bool {
	return c.S3Endpoint != "" && c.S3Region != "" && c.S3Bucket != "" &&
		c.S3AccessKey != "" && c.S3SecretKey != ""
}

func firstNonEmpty(v ...string) string {
	for _, s := range v {
		if s != "" {
			return s
		}
	}
	return ""
}
