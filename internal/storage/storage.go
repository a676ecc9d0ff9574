// Package storage defines the session history backend interface and
// its factory. Backends persist the events the dispatcher fans out:
// ward detections, ward expiries, and killsteal cast attempts.
package storage

import (
	"time"

	"github.com/d2assist/d2assist/pkg/core"
)

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Session management
	StartSession(session *core.Session) error
	EndSession(endTime time.Time) error

	// Event recording
	RecordDetection(event *core.DetectionEvent) error
	RecordExpiry(event *core.WardExpiry) error
	RecordCastAttempt(event *core.CastAttempt) error
}

// Exportable is an optional interface for storage backends that write
// a session artifact to disk when the session ends.
type Exportable interface {
	ExportedFilePath() string
}
