// Package monitor writes a periodic status snapshot: active ward
// count, killsteal state, and process uptime. The snapshot lands in a
// status file next to the session exports and, when telemetry is up,
// in the performance bucket.
package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"

	"github.com/d2assist/d2assist/internal/logging"
	"github.com/d2assist/d2assist/internal/telemetry"
	"github.com/d2assist/d2assist/internal/ward"
)

// Toggleable reports whether the killsteal service is live.
type Toggleable interface {
	Enabled() bool
}

// Dependencies holds all dependencies for the monitor service.
type Dependencies struct {
	Store      *ward.Store
	Killsteal  Toggleable
	Telemetry  *telemetry.Manager
	LogManager *logging.SlogManager
	StatusDir  string
}

// Status is the snapshot written each interval.
type Status struct {
	Time             time.Time `json:"time"`
	UptimeSeconds    float64   `json:"uptimeSeconds"`
	ActiveWards      int       `json:"activeWards"`
	KillstealEnabled bool      `json:"killstealEnabled"`
}

// Service manages status monitoring.
type Service struct {
	deps      Dependencies
	startedAt time.Time
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
}

// NewService creates a new monitor service.
func NewService(deps Dependencies) *Service {
	return &Service{
		deps:     deps,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the status monitor is running.
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Snapshot builds the current status.
func (s *Service) Snapshot(now time.Time) Status {
	status := Status{
		Time:          now,
		UptimeSeconds: now.Sub(s.startedAt).Seconds(),
	}
	if s.deps.Store != nil {
		status.ActiveWards = s.deps.Store.Len()
	}
	if s.deps.Killsteal != nil {
		status.KillstealEnabled = s.deps.Killsteal.Enabled()
	}
	return status
}

// Start starts the status monitor goroutine.
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.startedAt = time.Now()
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		logger := s.deps.LogManager.Logger()
		logger.Debug("Starting status monitor goroutine")

		statusFile, err := os.Create(filepath.Join(s.deps.StatusDir, "status.json"))
		if err != nil {
			logger.Error("Error creating status file", "error", err)
		}
		defer statusFile.Close()

		for {
			select {
			case <-s.stopChan:
				return
			default:
				time.Sleep(1000 * time.Millisecond)

				status := s.Snapshot(time.Now())

				if statusFile != nil {
					data, err := json.MarshalIndent(status, "", "  ")
					if err != nil {
						data = []byte(fmt.Sprintf(`{"error": "%s"}`, err))
					}
					statusFile.Truncate(0)
					statusFile.Seek(0, 0)
					statusFile.Write(append(data, '\n'))
				}

				s.writePoint(status)
			}
		}
	}()

	return nil
}

// writePoint ships the status snapshot to the performance bucket.
func (s *Service) writePoint(status Status) {
	if s.deps.Telemetry == nil {
		return
	}

	point := influxdb2.NewPoint(
		"assist_status",
		nil,
		map[string]any{
			"active_wards":      status.ActiveWards,
			"killsteal_enabled": status.KillstealEnabled,
			"uptime_seconds":    status.UptimeSeconds,
		},
		status.Time,
	)
	if err := s.deps.Telemetry.WritePoint(context.Background(), telemetry.BucketPerformance, point); err != nil {
		s.deps.LogManager.Logger().Error("Error writing status point", "error", err)
	}
}

// Stop stops the status monitor.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		close(s.stopChan)
	}
}
