// Package handlers connects dispatcher events to the storage backend
// and the telemetry manager. The tracker and killsteal services only
// know the dispatcher; everything downstream of an event lives here.
package handlers

import (
	"context"
	"fmt"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/d2assist/d2assist/internal/dispatcher"
	"github.com/d2assist/d2assist/internal/logging"
	"github.com/d2assist/d2assist/internal/storage"
	"github.com/d2assist/d2assist/internal/telemetry"
	"github.com/d2assist/d2assist/pkg/core"
)

// Dispatcher commands the service handles.
const (
	CommandDetection = "ward:detection"
	CommandExpired   = "ward:expired"
	CommandCast      = "killsteal:cast"
	CommandSave      = "session:save"
)

// Dependencies holds all dependencies needed by handlers.
type Dependencies struct {
	Backend    storage.Backend
	Telemetry  *telemetry.Manager
	LogManager *logging.SlogManager
}

// Service routes dispatched events into storage and telemetry.
type Service struct {
	deps         Dependencies
	writeLogFunc func(component, data, level string)
}

// NewService creates a new handler service.
func NewService(deps Dependencies) *Service {
	s := &Service{
		deps: deps,
	}
	// Default writeLog function uses the logging manager
	s.writeLogFunc = func(component, data, level string) {
		if deps.LogManager != nil {
			deps.LogManager.WriteLog(component, data, level)
		}
	}
	return s
}

// Register attaches all event handlers to the dispatcher.
func (s *Service) Register(d *dispatcher.Dispatcher) {
	d.Register(CommandDetection, s.HandleDetection)
	d.Register(CommandExpired, s.HandleExpiry)
	d.Register(CommandCast, s.HandleCast)
	d.Register(CommandSave, s.HandleSave)
}

// HandleDetection persists a filtered ward detection and forwards it
// to telemetry.
func (s *Service) HandleDetection(e dispatcher.Event) (any, error) {
	event, ok := e.Data.(core.DetectionEvent)
	if !ok {
		return nil, fmt.Errorf("unexpected data type %T for %s", e.Data, e.Command)
	}

	if s.deps.Backend != nil {
		if err := s.deps.Backend.RecordDetection(&event); err != nil {
			s.writeLog(CommandDetection, fmt.Sprintf("Failed to record detection: %v", err), "ERROR")
		}
	}
	s.writePoint(telemetry.DetectionPoint(event))
	return nil, nil
}

// HandleExpiry persists a ward expiry and forwards it to telemetry.
func (s *Service) HandleExpiry(e dispatcher.Event) (any, error) {
	event, ok := e.Data.(core.WardExpiry)
	if !ok {
		return nil, fmt.Errorf("unexpected data type %T for %s", e.Data, e.Command)
	}

	if s.deps.Backend != nil {
		if err := s.deps.Backend.RecordExpiry(&event); err != nil {
			s.writeLog(CommandExpired, fmt.Sprintf("Failed to record expiry: %v", err), "ERROR")
		}
	}
	s.writePoint(telemetry.ExpiryPoint(event))
	return nil, nil
}

// HandleCast persists a killsteal cast attempt and forwards it to
// telemetry.
func (s *Service) HandleCast(e dispatcher.Event) (any, error) {
	event, ok := e.Data.(core.CastAttempt)
	if !ok {
		return nil, fmt.Errorf("unexpected data type %T for %s", e.Data, e.Command)
	}

	if s.deps.Backend != nil {
		if err := s.deps.Backend.RecordCastAttempt(&event); err != nil {
			s.writeLog(CommandCast, fmt.Sprintf("Failed to record cast attempt: %v", err), "ERROR")
		}
	}
	s.writePoint(telemetry.CastPoint(event))
	return nil, nil
}

// HandleSave ends the current session on the backend. Dispatched on
// shutdown; backends that export report the artifact path.
func (s *Service) HandleSave(e dispatcher.Event) (any, error) {
	if s.deps.Backend == nil {
		return nil, nil
	}

	if err := s.deps.Backend.EndSession(e.Time); err != nil {
		s.writeLog(CommandSave, fmt.Sprintf("Failed to end session: %v", err), "ERROR")
		return nil, err
	}

	if exportable, ok := s.deps.Backend.(storage.Exportable); ok {
		if path := exportable.ExportedFilePath(); path != "" {
			s.writeLog(CommandSave, fmt.Sprintf("Session exported to %s", path), "INFO")
			return path, nil
		}
	}
	return nil, nil
}

func (s *Service) writePoint(bucket string, point *influxdb2_write.Point) {
	if s.deps.Telemetry == nil {
		return
	}
	if err := s.deps.Telemetry.WritePoint(context.Background(), bucket, point); err != nil {
		s.writeLog("telemetry", fmt.Sprintf("Failed to write point: %v", err), "ERROR")
	}
}

func (s *Service) writeLog(component, data, level string) {
	s.writeLogFunc(component, data, level)
}
