// Package detect abstracts the object-detection model behind a narrow
// interface. Inference runs out-of-process in the real deployment; the
// scripted detector drives demo mode and tests.
package detect

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/d2assist/d2assist/internal/capture"
	"github.com/d2assist/d2assist/internal/queue"
	"github.com/d2assist/d2assist/pkg/core"
)

// Detector produces labeled detections for one frame. Coordinates are
// normalized bounding-box centers in [0,1].
type Detector interface {
	Detect(frame capture.Frame) ([]core.Detection, error)
}

// VerifyAssets checks that the model files exist. A missing asset
// aborts startup before any loop runs.
func VerifyAssets(paths ...string) error {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("detection model asset missing: %s: %w", path, err)
		}
	}
	return nil
}

// LoadClasses reads the model's class-name list, one label per line.
// Blank lines are skipped.
func LoadClasses(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening classes file: %w", err)
	}
	defer f.Close()

	var classes []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		classes = append(classes, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading classes file: %w", err)
	}
	return classes, nil
}

// ScriptedDetector replays queued detection batches, one batch per
// frame. An empty queue yields no detections.
type ScriptedDetector struct {
	batches *queue.Queue[[]core.Detection]
}

// NewScriptedDetector creates an empty scripted detector.
func NewScriptedDetector() *ScriptedDetector {
	return &ScriptedDetector{
		batches: queue.New[[]core.Detection](),
	}
}

// Push queues one batch of detections for a future frame.
func (d *ScriptedDetector) Push(batch []core.Detection) {
	d.batches.Push(batch)
}

// Detect returns the next queued batch.
func (d *ScriptedDetector) Detect(frame capture.Frame) ([]core.Detection, error) {
	if d.batches.Empty() {
		return nil, nil
	}
	return d.batches.Pop(), nil
}
