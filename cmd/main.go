package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"animal-reels-bot/internal"
	"animal-reels-bot/internal/logging"
	"animal-reels-bot/internal/run"
	"animal-reels-bot/internal/scheduler"
)

func main() {
	// Load .env file if it exists (try multiple paths)
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, path := range envPaths {
		_ = godotenv.Load(path)
	}

	log, err := logging.New("errors.log")
	if err != nil {
		panic(err)
	}
	defer log.Close()

	cfg, err := internal.LoadConfig()
	if err != nil {
		log.Errorf("config: %v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Stop on SIGINT/SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Infof("shutdown signal received")
		cancel()
	}()

	runner, err := run.Build(cfg, log)
	if err != nil {
		log.Errorf("build runner: %v", err)
		os.Exit(1)
	}

	if cfg.CronSchedule != "" {
		if err := scheduler.New(cfg.CronSchedule, runner, log).Run(ctx); err != nil {
			log.Errorf("scheduler: %v", err)
			os.Exit(1)
		}
		return
	}

	reel, err := runner.Run(ctx)
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
	log.Infof("published reel %s: %s", reel.RunID, reel.VideoURL)
}
