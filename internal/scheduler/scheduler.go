// Package scheduler runs the fixed-interval loops that drive the
// pipelines: detection ticks, killsteal checks, overlay refreshes.
package scheduler

import (
	"log/slog"
	"sync"
	"time"
)

// TickFunc runs once per interval with the tick time.
type TickFunc func(now time.Time)

// Loop invokes a TickFunc on a fixed interval until stopped.
type Loop struct {
	name     string
	interval time.Duration
	tick     TickFunc
	logger   *slog.Logger

	mu        sync.RWMutex
	isRunning bool
	stopChan  chan struct{}
}

// NewLoop creates a named loop. The tick function runs on the loop's
// own goroutine; it must not block for longer than the interval.
func NewLoop(name string, interval time.Duration, logger *slog.Logger, tick TickFunc) *Loop {
	return &Loop{
		name:     name,
		interval: interval,
		tick:     tick,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the loop is running.
func (l *Loop) IsRunning() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.isRunning
}

// Start launches the loop goroutine. Starting a running loop is a no-op.
func (l *Loop) Start() error {
	l.mu.Lock()
	if l.isRunning {
		l.mu.Unlock()
		return nil
	}
	l.isRunning = true
	l.stopChan = make(chan struct{})
	stop := l.stopChan
	l.mu.Unlock()

	go func() {
		defer func() {
			l.mu.Lock()
			l.isRunning = false
			l.mu.Unlock()
		}()

		l.logger.Debug("Starting loop", "loop", l.name, "interval", l.interval)

		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				l.logger.Debug("Loop stopped", "loop", l.name)
				return
			case now := <-ticker.C:
				l.tick(now)
			}
		}
	}()

	return nil
}

// Stop stops the loop. Stopping a stopped loop is a no-op.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.isRunning {
		close(l.stopChan)
		l.isRunning = false
	}
}
