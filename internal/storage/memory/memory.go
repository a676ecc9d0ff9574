// Package memory stores session history in memory and exports it to a
// JSON file when the session ends.
package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/d2assist/d2assist/internal/config"
	"github.com/d2assist/d2assist/pkg/core"
)

// Backend stores session data in memory and exports to JSON.
type Backend struct {
	cfg     config.MemoryConfig
	session *core.Session

	detections []core.DetectionEvent
	expiries   []core.WardExpiry
	casts      []core.CastAttempt

	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend.
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{cfg: cfg}
}

// Init initializes the backend.
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources.
func (b *Backend) Close() error {
	return nil
}

// StartSession begins recording a new session, resetting any data from
// a previous one.
func (b *Backend) StartSession(session *core.Session) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.session = session
	b.detections = nil
	b.expiries = nil
	b.casts = nil
	b.lastExportPath = ""

	return nil
}

// EndSession finalizes and exports the session data.
func (b *Backend) EndSession(endTime time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session == nil {
		return fmt.Errorf("no session in progress")
	}
	b.session.EndTime = endTime

	return b.exportJSON()
}

// RecordDetection records a filtered ward detection.
func (b *Backend) RecordDetection(event *core.DetectionEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.detections = append(b.detections, *event)
	return nil
}

// RecordExpiry records a ward leaving the tracked set.
func (b *Backend) RecordExpiry(event *core.WardExpiry) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.expiries = append(b.expiries, *event)
	return nil
}

// RecordCastAttempt records a killsteal cast attempt.
func (b *Backend) RecordCastAttempt(event *core.CastAttempt) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.casts = append(b.casts, *event)
	return nil
}

// ExportedFilePath returns the path of the last exported session file,
// or empty if none was written yet.
func (b *Backend) ExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}
