package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"animal-reels-bot/internal/logging"
	"animal-reels-bot/internal/model"
)

type runner interface {
	Run(ctx context.Context) (*model.Reel, error)
}

// Scheduler repeats pipeline runs on a cron schedule. A failed run is
// logged and the schedule keeps going; only context cancellation stops it.
type Scheduler struct {
	spec   string
	runner runner
	log    *logging.Logger
}

func New(spec string, r runner, log *logging.Logger) *Scheduler {
	return &Scheduler{spec: spec, runner: r, log: log}
}

// Run blocks until ctx is cancelled, then waits for any in-flight run.
// At most one run is in flight: a tick that fires while the previous run
// is still going is skipped, since runs share the output path and the
// ledger assumes a single writer.
func (s *Scheduler) Run(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{s.log})))
	_, err := c.AddFunc(s.spec, func() {
		reel, err := s.runner.Run(ctx)
		if err != nil {
			s.log.Errorf("scheduler: run failed: %v", err)
			return
		}
		s.log.Infof("scheduler: run %s published %s", reel.RunID, reel.VideoURL)
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.spec, err)
	}

	s.log.Infof("scheduler: started with schedule %q", s.spec)
	c.Start()
	<-ctx.Done()

	stopCtx := c.Stop()
	<-stopCtx.Done()
	s.log.Infof("scheduler: stopped")
	return nil
}

// cronLogger adapts logging.Logger to the cron.Logger interface so skipped
// ticks show up in the run log.
type cronLogger struct{ log *logging.Logger }

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Infof("scheduler: %s %v", msg, keysAndValues)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorf("scheduler: %s: %v %v", msg, err, keysAndValues)
}
