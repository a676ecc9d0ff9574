// Package tracker runs the ward-tracking pipeline: capture a frame,
// detect, filter, and keep the store current.
package tracker

import (
	"errors"
	"log/slog"
	"time"

	"github.com/d2assist/d2assist/internal/capture"
	"github.com/d2assist/d2assist/internal/detect"
	"github.com/d2assist/d2assist/internal/dispatcher"
	"github.com/d2assist/d2assist/internal/region"
	"github.com/d2assist/d2assist/internal/util"
	"github.com/d2assist/d2assist/internal/ward"
	"github.com/d2assist/d2assist/pkg/core"
)

// Dependencies holds all dependencies for the tracker service.
type Dependencies struct {
	Source              capture.Source
	Detector            detect.Detector
	Store               *ward.Store
	Dispatcher          *dispatcher.Dispatcher
	Logger              *slog.Logger
	ConfidenceThreshold float64
}

// Service drives one detection pass per tick and serves store
// snapshots to the overlay.
type Service struct {
	deps Dependencies
}

// NewService creates the tracker service.
func NewService(deps Dependencies) *Service {
	return &Service{deps: deps}
}

// Tick runs one detection pass. A missing capture window or a detector
// failure skips the tick; nothing is mutated.
func (s *Service) Tick(now time.Time) {
	frame, err := s.deps.Source.Capture()
	if err != nil {
		if errors.Is(err, capture.ErrUnavailable) {
			s.deps.Logger.Debug("Capture window unavailable, skipping tick")
		} else {
			s.deps.Logger.Error("Capture failed", "error", err)
		}
		return
	}

	detections, err := s.deps.Detector.Detect(frame)
	if err != nil {
		s.deps.Logger.Error("Detector inference failed", "error", err)
		return
	}

	for _, d := range detections {
		s.apply(d, now)
	}
}

// apply pushes one raw detection through the confidence and label
// filters and into the store. Only detections strictly above the
// threshold pass.
func (s *Service) apply(d core.Detection, now time.Time) {
	confidence := util.Clamp01(d.Confidence)
	if confidence <= s.deps.ConfidenceThreshold {
		return
	}
	kind, ok := ward.ParseKind(d.Label)
	if !ok {
		return
	}

	reg := region.Classify(d.X, d.Y)
	tracked, duplicate := s.deps.Store.RecordDetection(kind, reg, confidence, d.X, d.Y, now)

	if duplicate {
		s.deps.Logger.Debug("Duplicate detection discarded",
			"kind", kind.String(), "region", reg)
		return
	}

	event := core.DetectionEvent{
		Kind:       kind.String(),
		Region:     reg,
		Confidence: confidence,
		X:          d.X,
		Y:          d.Y,
		Time:       now,
	}
	if tracked {
		event.ExpiresAt = now.Add(kind.Lifetime())
	}

	s.deps.Logger.Info("Detection recorded",
		"kind", kind.String(), "region", reg,
		"confidence", confidence, "tracked", tracked)

	if s.deps.Dispatcher != nil {
		if _, err := s.deps.Dispatcher.Dispatch(dispatcher.Event{
			Command: "ward:detection",
			Data:    event,
			Time:    now,
		}); err != nil {
			s.deps.Logger.Error("Error dispatching detection", "error", err)
		}
	}
}

// Snapshot sweeps expired wards, emits an expiry event for each, and
// returns the active set for rendering.
func (s *Service) Snapshot(now time.Time) []ward.Tracked {
	expired, active := s.deps.Store.SweepExpired(now)

	for _, w := range expired {
		s.deps.Logger.Info("Ward expired", "kind", w.Kind.String(), "region", w.Region)
		if s.deps.Dispatcher == nil {
			continue
		}
		if _, err := s.deps.Dispatcher.Dispatch(dispatcher.Event{
			Command: "ward:expired",
			Data: core.WardExpiry{
				Kind:      w.Kind.String(),
				Region:    w.Region,
				FirstSeen: w.FirstSeen,
				ExpiredAt: now,
			},
			Time: now,
		}); err != nil {
			s.deps.Logger.Error("Error dispatching expiry", "error", err)
		}
	}

	return active
}
