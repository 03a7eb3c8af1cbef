package publish

import (
	"context"
	"sync"

	"animal-reels-bot/internal/logging"
	"animal-reels-bot/internal/model"
)

// Sink is any delivery target for a published reel.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, reel *model.Reel) error
}

// Fanout dispatches a reel to every configured sink concurrently. Each sink
// is independent: one failing never blocks or rolls back another, and there
// is no cross-sink ordering.
type Fanout struct {
	sinks []Sink
	wait  bool
	log   *logging.Logger
}

// NewFanout builds a fan-out over sinks. When wait is false, Dispatch
// returns as soon as the goroutines are launched and the process may exit
// before delivery completes.
func NewFanout(sinks []Sink, wait bool, log *logging.Logger) *Fanout {
	return &Fanout{sinks: sinks, wait: wait, log: log}
}

// Dispatch sends the reel to every sink. With wait enabled it returns a
// per-sink error map (nil entries for successes); otherwise it returns nil
// immediately and failures are only logged.
func (f *Fanout) Dispatch(ctx context.Context, reel *model.Reel) map[string]error {
	if len(f.sinks) == 0 {
		f.log.Warnf("publish: no sinks configured")
		return nil
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results map[string]error
	)
	if f.wait {
		results = make(map[string]error, len(f.sinks))
	}

	for _, sink := range f.sinks {
		wg.Add(1)
		go func(s Sink) {
			defer wg.Done()
			err := s.Deliver(ctx, reel)
			if err != nil {
				f.log.Errorf("publish: sink %s failed: %v", s.Name(), err)
			} else {
				f.log.Infof("publish: sink %s delivered", s.Name())
			}
			if f.wait {
				mu.Lock()
				results[s.Name()] = err
				mu.Unlock()
			}
		}(sink)
	}

	if !f.wait {
		return nil
	}
	wg.Wait()
	return results
}
