// Package server runs the table's long-lived services and shuts them down on
// a signal, a failure, or when any service finishes.
package server

import (
	"context"
	"fmt"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service is a component that runs until it is stopped or its work is done.
type Service interface {
	// Start blocks while the service runs. A nil return means it finished.
	Start() error
	// Stop ends the service. It may be called after Start has returned.
	Stop()
}

// FuncService adapts a start/stop function pair into the Service interface.
type FuncService struct {
	StartFn func() error
	StopFn  func()
}

// Start calls StartFn.
func (f *FuncService) Start() error { return f.StartFn() }

// Stop calls StopFn.
func (f *FuncService) Stop() { f.StopFn() }

// Lifecycle owns the binary's services. The first service to return from
// Start ends the run for all of them.
type Lifecycle struct {
	logger *zap.Logger

	mu       sync.Mutex
	services []namedService
}

type namedService struct {
	name    string
	service Service
}

// exit records why a service's Start returned.
type exit struct {
	name string
	err  error
}

// NewLifecycle creates an empty Lifecycle.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	if logger == nil {
		panic("server.NewLifecycle: logger must be non-nil")
	}
	return &Lifecycle{logger: logger}
}

// Add registers svc under name. Services are stopped in reverse order of
// registration, so dependencies should be added first.
func (l *Lifecycle) Add(name string, svc Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services = append(l.services, namedService{name: name, service: svc})
}

// Run starts every registered service and waits for SIGINT, SIGTERM, ctx
// ending, or the first service returning from Start.
//
// Postcondition: every service has been stopped. The error is the failure
// of the service that ended the run, or nil.
func (l *Lifecycle) Run(ctx context.Context) error {
	began := time.Now()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	l.mu.Lock()
	services := slices.Clone(l.services)
	l.mu.Unlock()

	exits := make(chan exit, len(services))
	for _, ns := range services {
		l.logger.Info("starting service", zap.String("service", ns.name))
		go func() {
			exits <- exit{name: ns.name, err: ns.service.Start()}
		}()
	}

	var runErr error
	select {
	case e := <-exits:
		if e.err != nil {
			runErr = fmt.Errorf("service %s: %w", e.name, e.err)
			l.logger.Error("service failed", zap.String("service", e.name), zap.Error(e.err))
		} else {
			l.logger.Info("service finished", zap.String("service", e.name))
		}
	case <-ctx.Done():
		l.logger.Info("shutdown requested", zap.Error(ctx.Err()))
	}

	l.stopAll(services)
	l.logger.Info("shutdown complete", zap.Duration("uptime", time.Since(began)))
	return runErr
}

func (l *Lifecycle) stopAll(services []namedService) {
	for _, ns := range slices.Backward(services) {
		began := time.Now()
		ns.service.Stop()
		l.logger.Info("service stopped",
			zap.String("service", ns.name),
			zap.Duration("elapsed", time.Since(began)),
		)
	}
}
