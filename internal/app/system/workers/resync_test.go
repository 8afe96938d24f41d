package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeHydrator struct {
	calls atomic.Int32
	err   error
	block chan struct{}
}

func (f *fakeHydrator) Hydrate(ctx context.Context) error {
	f.calls.Add(1)
	if f.block != nil {
		<-f.block
	}
	return f.err
}

func TestNewResync_InvalidSchedule(t *testing.T) {
	if _, err := NewResync(&fakeHydrator{}, zap.NewNop(), "every now and then", time.Second); err == nil {
		t.Error("expected error for invalid schedule")
	}
}

func TestRunOnce_Hydrates(t *testing.T) {
	h := &fakeHydrator{}
	w, err := NewResync(h, zap.NewNop(), "@every 1h", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	w.RunOnce()
	if h.calls.Load() != 1 {
		t.Errorf("Hydrate calls = %d, want 1", h.calls.Load())
	}
}

func TestRunOnce_LogsFailure(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	h := &fakeHydrator{err: errors.New("mongo down")}
	w, err := NewResync(h, zap.New(core), "@every 1h", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	w.RunOnce()
	if logs.FilterMessage("content resync failed").Len() != 1 {
		t.Errorf("expected one failure log, got %v", logs.All())
	}
}

func TestRunOnce_SkipsOverlap(t *testing.T) {
	h := &fakeHydrator{block: make(chan struct{})}
	w, err := NewResync(h, zap.NewNop(), "@every 1h", time.Second)
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		w.RunOnce()
		close(done)
	}()
	deadline := time.Now().Add(time.Second)
	for h.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	w.RunOnce()
	close(h.block)
	<-done

	if h.calls.Load() != 1 {
		t.Errorf("Hydrate calls = %d, want 1 (overlap skipped)", h.calls.Load())
	}
}

func TestStartStop(t *testing.T) {
	w, err := NewResync(&fakeHydrator{}, zap.NewNop(), "@every 1h", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	w.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	w.Stop(ctx)
}
