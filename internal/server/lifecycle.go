// Package server coordinates startup and graceful shutdown of the
// long-running pieces of the game server.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service is a long-running component managed by the Lifecycle.
type Service interface {
	// Start runs the service, blocking until it stops or fails.
	Start() error
	// Stop asks the service to shut down.
	Stop()
}

// FuncService adapts a pair of functions into a Service. Useful for
// wiring components that do not carry their own service type, such as
// a database pool health loop.
type FuncService struct {
	StartFn func() error
	StopFn  func()
}

func (f *FuncService) Start() error { return f.StartFn() }
func (f *FuncService) Stop()        { f.StopFn() }

type registration struct {
	name string
	svc  Service
}

// Lifecycle starts registered services concurrently and stops them in
// reverse registration order on SIGINT, SIGTERM, context cancellation,
// or the first service failure.
type Lifecycle struct {
	logger *zap.Logger

	mu       sync.Mutex
	services []registration
}

// NewLifecycle returns an empty Lifecycle.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{logger: logger}
}

// Add registers a named service. Registration order determines the
// reverse order used at shutdown.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (l *Lifecycle) Add(name string, svc Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services = append(l.services, registration{name: name, svc: svc})
}

// Run starts every registered service and blocks until something asks
// for shutdown, then stops the services and returns.
//
// Postcondition: All services have been stopped when Run returns.
func (l *Lifecycle) Run(ctx context.Context) error {
	bootedAt := time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	failures := make(chan error, len(l.services))
	for _, reg := range l.services {
		reg := reg
		go func() {
			l.logger.Info("starting service", zap.String("service", reg.name))
			startedAt := time.Now()
			if err := reg.svc.Start(); err != nil {
				l.logger.Error("service failed",
					zap.String("service", reg.name),
					zap.Error(err),
					zap.Duration("uptime", time.Since(startedAt)),
				)
				failures <- fmt.Errorf("service %s: %w", reg.name, err)
				cancel()
			}
		}()
	}

	l.logger.Info("all services started",
		zap.Int("count", len(l.services)),
		zap.Duration("startup", time.Since(bootedAt)),
	)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-signals:
		l.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-failures:
		l.logger.Error("service error, shutting down", zap.Error(err))
	case <-ctx.Done():
		l.logger.Info("context cancelled, shutting down")
	}

	l.stopAll()

	l.logger.Info("shutdown complete", zap.Duration("total_uptime", time.Since(bootedAt)))
	return nil
}

func (l *Lifecycle) stopAll() {
	begin := time.Now()
	for i := len(l.services) - 1; i >= 0; i-- {
		reg := l.services[i]
		stopAt := time.Now()
		l.logger.Info("stopping service", zap.String("service", reg.name))
		reg.svc.Stop()
		l.logger.Info("service stopped",
			zap.String("service", reg.name),
			zap.Duration("elapsed", time.Since(stopAt)),
		)
	}
	l.logger.Info("all services stopped", zap.Duration("shutdown_elapsed", time.Since(begin)))
}
