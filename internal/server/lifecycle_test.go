package server

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

// blockingService runs until stopped and records both transitions.
type blockingService struct {
	started atomic.Bool
	stopped atomic.Bool
}

func (s *blockingService) Start() error {
	s.started.Store(true)
	for !s.stopped.Load() {
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}

func (s *blockingService) Stop() {
	s.stopped.Store(true)
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatal(msg)
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func TestLifecycleStartsAndStopsServices(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t))

	db := &blockingService{}
	listener := &blockingService{}
	lc.Add("postgres", db)
	lc.Add("telnet", listener)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- lc.Run(ctx) }()

	waitFor(t, func() bool { return db.started.Load() && listener.started.Load() },
		"services did not start in time")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("lifecycle did not shut down in time")
	}

	assert.True(t, db.stopped.Load())
	assert.True(t, listener.stopped.Load())
}

func TestLifecycleStopsOnServiceFailure(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t))

	healthy := &blockingService{}
	lc.Add("healthy", healthy)
	lc.Add("broken", &FuncService{
		StartFn: func() error { return errors.New("listen failed") },
		StopFn:  func() {},
	})

	done := make(chan error, 1)
	go func() { done <- lc.Run(context.Background()) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("lifecycle did not shut down after service failure")
	}
	assert.True(t, healthy.stopped.Load())
}

func TestFuncService(t *testing.T) {
	var started, stopped bool
	svc := &FuncService{
		StartFn: func() error { started = true; return nil },
		StopFn:  func() { stopped = true },
	}

	assert.NoError(t, svc.Start())
	assert.True(t, started)
	svc.Stop()
	assert.True(t, stopped)
}
