package scheduler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/me/rota/pkg/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeRunner counts rounds and fails when err is set.
type fakeRunner struct {
	calls atomic.Int32
	err   error
}

func (f *fakeRunner) RunRound(ctx context.Context) (*model.RoundRecord, error) {
	n := f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &model.RoundRecord{ID: "rnd_" + string(rune('0'+n)), Attempts: 1}, nil
}

func TestTick(t *testing.T) {
	r := &fakeRunner{}
	l := NewLoop(r, DefaultConfig(), testLogger())

	if err := l.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if got := r.calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestTick_Error(t *testing.T) {
	boom := errors.New("roster has no jobs")
	l := NewLoop(&fakeRunner{err: boom}, DefaultConfig(), testLogger())

	err := l.Tick(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
	if !strings.HasPrefix(err.Error(), "scheduled round: ") {
		t.Errorf("err = %q", err)
	}
}

func TestStart_TicksUntilStopped(t *testing.T) {
	r := &fakeRunner{}
	l := NewLoop(r, Config{Interval: 5 * time.Millisecond}, testLogger())

	errc := make(chan error, 1)
	go func() { errc <- l.Start(context.Background()) }()

	deadline := time.Now().Add(2 * time.Second)
	for r.calls.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatal("scheduler did not tick")
		}
		time.Sleep(time.Millisecond)
	}

	if err := l.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := <-errc; err != nil {
		t.Errorf("Start returned %v after Stop", err)
	}
	// A second Stop is harmless.
	l.Stop()
}

func TestStart_KeepsGoingAfterErrors(t *testing.T) {
	r := &fakeRunner{err: errors.New("no complete allocation after 3 attempts (2 idle)")}
	l := NewLoop(r, Config{Interval: 5 * time.Millisecond}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- l.Start(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for r.calls.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatal("scheduler stopped ticking after an error")
		}
		time.Sleep(time.Millisecond)
	}

	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Errorf("Start = %v, want context.Canceled", err)
	}
}

func TestStart_RejectsZeroInterval(t *testing.T) {
	l := NewLoop(&fakeRunner{}, Config{}, testLogger())
	if err := l.Start(context.Background()); err == nil {
		t.Fatal("expected error for zero interval")
	}
	// Stop must not block once Start has returned.
	l.Stop()
}
