package publish

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"

	"animal-reels-bot/internal/logging"
	"animal-reels-bot/internal/model"
)

func newTestLogger(t *testing.T) *logging.Logger {
	t.Helper()
	log, err := logging.New(filepath.Join(t.TempDir(), "errors.log"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { log.Close() })
	return log
}

type stubSink struct {
	name  string
	err   error
	calls int32
}

func (s *stubSink) Name() string { return s.name }

func (s *stubSink) Deliver(context.Context, *model.Reel) error {
	atomic.AddInt32(&s.calls, 1)
	return s.err
}

func TestFanoutDeliversToAllSinks(t *testing.T) {
	a := &stubSink{name: "a"}
	b := &stubSink{name: "b"}
	f := NewFanout([]Sink{a, b}, true, newTestLogger(t))

	results := f.Dispatch(context.Background(), &model.Reel{RunID: "r1"})
	if len(results) != 2 {
		t.Fatalf("expected 2 results got %v", results)
	}
	if results["a"] != nil || results["b"] != nil {
		t.Fatalf("unexpected errors: %v", results)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Fatalf("expected one call per sink got a=%d b=%d", a.calls, b.calls)
	}
}

func TestFanoutOneFailureDoesNotAffectOthers(t *testing.T) {
	failing := &stubSink{name: "telegram", err: errors.New("chat not found")}
	ok := &stubSink{name: "webhook"}
	f := NewFanout([]Sink{failing, ok}, true, newTestLogger(t))

	results := f.Dispatch(context.Background(), &model.Reel{RunID: "r1"})
	if results["telegram"] == nil {
		t.Fatal("expected telegram error")
	}
	if results["webhook"] != nil {
		t.Fatalf("webhook should succeed: %v", results["webhook"])
	}
	if ok.calls != 1 {
		t.Fatalf("webhook sink not called, calls=%d", ok.calls)
	}
}

func TestFanoutFireAndForget(t *testing.T) {
	s := &stubSink{name: "a"}
	f := NewFanout([]Sink{s}, false, newTestLogger(t))
	if results := f.Dispatch(context.Background(), &model.Reel{}); results != nil {
		t.Fatalf("expected nil results in fire-and-forget mode, got %v", results)
	}
}

func TestFanoutNoSinks(t *testing.T) {
	f := NewFanout(nil, true, newTestLogger(t))
	if results := f.Dispatch(context.Background(), &model.Reel{}); results != nil {
		t.Fatalf("expected nil results, got %v", results)
	}
}
