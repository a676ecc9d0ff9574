package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SessionExport is the root JSON structure written at session end.
type SessionExport struct {
	SessionID  string          `json:"sessionId"`
	Hero       string          `json:"hero"`
	StartTime  time.Time       `json:"startTime"`
	EndTime    time.Time       `json:"endTime"`
	Detections []DetectionJSON `json:"detections"`
	Expiries   []ExpiryJSON    `json:"expiries"`
	Casts      []CastJSON      `json:"casts"`
	Summary    map[string]int  `json:"summary"`
}

// DetectionJSON represents one filtered ward detection.
type DetectionJSON struct {
	Kind       string    `json:"kind"`
	Region     string    `json:"region"`
	Confidence float64   `json:"confidence"`
	X          float64   `json:"x"`
	Y          float64   `json:"y"`
	Time       time.Time `json:"time"`
	ExpiresAt  time.Time `json:"expiresAt,omitzero"`
}

// ExpiryJSON represents one ward leaving the tracked set.
type ExpiryJSON struct {
	Kind      string    `json:"kind"`
	Region    string    `json:"region"`
	FirstSeen time.Time `json:"firstSeen"`
	ExpiredAt time.Time `json:"expiredAt"`
}

// CastJSON represents one killsteal cast attempt.
type CastJSON struct {
	Hero            string    `json:"hero"`
	Ability         string    `json:"ability"`
	Target          string    `json:"target"`
	TargetHealth    float64   `json:"targetHealth"`
	EffectiveDamage float64   `json:"effectiveDamage"`
	ManaCost        float64   `json:"manaCost"`
	ManaAfter       float64   `json:"manaAfter"`
	Success         int       `json:"success"`
	Time            time.Time `json:"time"`
}

// exportJSON writes the session data to a JSON file, gzipped when
// configured.
func (b *Backend) exportJSON() error {
	export := b.buildExport()

	// Build filename
	hero := strings.ReplaceAll(b.session.Hero, " ", "_")
	hero = strings.ReplaceAll(hero, ":", "_")
	timestamp := b.session.StartTime.Format("20060102_150405")

	var filename string
	if b.cfg.CompressOutput {
		filename = fmt.Sprintf("%s_%s.json.gz", hero, timestamp)
	} else {
		filename = fmt.Sprintf("%s_%s.json", hero, timestamp)
	}

	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	// Ensure output directory exists
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Write file
	if b.cfg.CompressOutput {
		if err := b.writeGzipJSON(outputPath, export); err != nil {
			return err
		}
	} else {
		if err := b.writeJSON(outputPath, export); err != nil {
			return err
		}
	}

	b.lastExportPath = outputPath
	return nil
}

func (b *Backend) buildExport() SessionExport {
	export := SessionExport{
		SessionID:  b.session.ID,
		Hero:       b.session.Hero,
		StartTime:  b.session.StartTime,
		EndTime:    b.session.EndTime,
		Detections: make([]DetectionJSON, 0, len(b.detections)),
		Expiries:   make([]ExpiryJSON, 0, len(b.expiries)),
		Casts:      make([]CastJSON, 0, len(b.casts)),
	}

	for _, evt := range b.detections {
		export.Detections = append(export.Detections, DetectionJSON{
			Kind:       evt.Kind,
			Region:     evt.Region,
			Confidence: evt.Confidence,
			X:          evt.X,
			Y:          evt.Y,
			Time:       evt.Time,
			ExpiresAt:  evt.ExpiresAt,
		})
	}

	for _, evt := range b.expiries {
		export.Expiries = append(export.Expiries, ExpiryJSON{
			Kind:      evt.Kind,
			Region:    evt.Region,
			FirstSeen: evt.FirstSeen,
			ExpiredAt: evt.ExpiredAt,
		})
	}

	successfulCasts := 0
	for _, evt := range b.casts {
		export.Casts = append(export.Casts, CastJSON{
			Hero:            evt.Hero,
			Ability:         evt.Ability,
			Target:          evt.Target,
			TargetHealth:    evt.TargetHealth,
			EffectiveDamage: evt.EffectiveDamage,
			ManaCost:        evt.ManaCost,
			ManaAfter:       evt.ManaAfter,
			Success:         boolToInt(evt.Success),
			Time:            evt.Time,
		})
		if evt.Success {
			successfulCasts++
		}
	}

	export.Summary = map[string]int{
		"detections":      len(b.detections),
		"expiries":        len(b.expiries),
		"casts":           len(b.casts),
		"successfulCasts": successfulCasts,
	}

	return export
}

func (b *Backend) writeJSON(path string, data SessionExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	return encoder.Encode(data)
}

func (b *Backend) writeGzipJSON(path string, data SessionExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	defer gzWriter.Close()

	encoder := json.NewEncoder(gzWriter)
	return encoder.Encode(data)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
