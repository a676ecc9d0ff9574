// Package capture abstracts the screen-grab source for the ward
// tracker. The real game window is not available in every environment,
// so the pipeline only depends on the Source interface and skips the
// tick when the target window is missing.
package capture

import (
	"errors"
	"image"
	"sync"
)

// ErrUnavailable signals that no target window is present. The
// detection loop treats this as "skip this tick", not a failure.
var ErrUnavailable = errors.New("capture target window unavailable")

// Frame is one screen snapshot with the capture region's pixel size.
type Frame struct {
	Img    image.Image
	Width  int
	Height int
}

// Source produces frames of the target window.
type Source interface {
	Capture() (Frame, error)
}

// SimulatedSource produces blank frames of a fixed size. It stands in
// for the game window in demo mode and in tests, and can be toggled
// unavailable to exercise the skip path.
type SimulatedSource struct {
	mu        sync.Mutex
	width     int
	height    int
	available bool
}

// NewSimulatedSource creates a source producing width x height frames.
func NewSimulatedSource(width, height int) *SimulatedSource {
	return &SimulatedSource{
		width:     width,
		height:    height,
		available: true,
	}
}

// SetAvailable toggles whether Capture succeeds.
func (s *SimulatedSource) SetAvailable(available bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.available = available
}

// Capture returns a blank frame, or ErrUnavailable when toggled off.
func (s *SimulatedSource) Capture() (Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.available {
		return Frame{}, ErrUnavailable
	}
	return Frame{
		Img:    image.NewRGBA(image.Rect(0, 0, s.width, s.height)),
		Width:  s.width,
		Height: s.height,
	}, nil
}
