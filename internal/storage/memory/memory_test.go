package memory

import (
	"compress/gzip"
	"encoding/json"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/d2assist/d2assist/internal/config"
	"github.com/d2assist/d2assist/pkg/core"
)

var sessionStart = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testSession() *core.Session {
	return &core.Session{
		ID:        "s-1",
		Hero:      "npc_dota_hero_lina",
		StartTime: sessionStart,
	}
}

func TestStartSession_ResetsCollections(t *testing.T) {
	b := New(config.MemoryConfig{})
	if err := b.StartSession(testSession()); err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	_ = b.RecordDetection(&core.DetectionEvent{Kind: "Observer Ward"})
	_ = b.RecordExpiry(&core.WardExpiry{Kind: "Observer Ward"})
	_ = b.RecordCastAttempt(&core.CastAttempt{Ability: "lina_laguna_blade"})

	if err := b.StartSession(testSession()); err != nil {
		t.Fatalf("second StartSession failed: %v", err)
	}
	if len(b.detections) != 0 || len(b.expiries) != 0 || len(b.casts) != 0 {
		t.Error("StartSession did not reset collections")
	}
}

func TestEndSession_WithoutStartFails(t *testing.T) {
	b := New(config.MemoryConfig{})
	if err := b.EndSession(sessionStart); err == nil {
		t.Error("expected error ending a session that never started")
	}
}

func TestBuildExport(t *testing.T) {
	b := New(config.MemoryConfig{})
	_ = b.StartSession(testSession())
	b.session.EndTime = sessionStart.Add(10 * time.Minute)

	_ = b.RecordDetection(&core.DetectionEvent{
		Kind:       "Observer Ward",
		Region:     "Top Lane (Radiant)",
		Confidence: 0.9,
		Time:       sessionStart,
		ExpiresAt:  sessionStart.Add(360 * time.Second),
	})
	_ = b.RecordExpiry(&core.WardExpiry{
		Kind:      "Observer Ward",
		Region:    "Top Lane (Radiant)",
		FirstSeen: sessionStart,
		ExpiredAt: sessionStart.Add(360 * time.Second),
	})
	_ = b.RecordCastAttempt(&core.CastAttempt{
		Hero: "npc_dota_hero_lina", Ability: "lina_laguna_blade",
		Target: "npc_dota_hero_sniper", Success: true, Time: sessionStart,
	})
	_ = b.RecordCastAttempt(&core.CastAttempt{
		Hero: "npc_dota_hero_lina", Ability: "lina_laguna_blade",
		Target: "npc_dota_hero_axe", Success: false, Time: sessionStart,
	})

	export := b.buildExport()

	if export.SessionID != "s-1" {
		t.Errorf("expected sessionId s-1, got %s", export.SessionID)
	}
	if export.Hero != "npc_dota_hero_lina" {
		t.Errorf("unexpected hero: %s", export.Hero)
	}
	if len(export.Detections) != 1 || export.Detections[0].Region != "Top Lane (Radiant)" {
		t.Errorf("unexpected detections: %+v", export.Detections)
	}
	if len(export.Expiries) != 1 {
		t.Errorf("expected 1 expiry, got %d", len(export.Expiries))
	}
	if len(export.Casts) != 2 {
		t.Fatalf("expected 2 casts, got %d", len(export.Casts))
	}
	if export.Casts[0].Success != 1 || export.Casts[1].Success != 0 {
		t.Error("success flags not converted to ints")
	}
	if export.Summary["successfulCasts"] != 1 {
		t.Errorf("expected 1 successful cast, got %d", export.Summary["successfulCasts"])
	}
}

func TestEndSession_ExportsPlainJSON(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir, CompressOutput: false})
	_ = b.StartSession(testSession())
	_ = b.RecordDetection(&core.DetectionEvent{Kind: "Sentry Ward", Region: "Mid Lane (Center)"})

	if err := b.EndSession(sessionStart.Add(time.Minute)); err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}

	path := b.ExportedFilePath()
	if !strings.HasSuffix(path, "npc_dota_hero_lina_20260301_120000.json") {
		t.Errorf("unexpected export path: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("export file missing: %v", err)
	}
	defer f.Close()

	var export SessionExport
	if err := json.NewDecoder(f).Decode(&export); err != nil {
		t.Fatalf("export not valid JSON: %v", err)
	}
	if len(export.Detections) != 1 || export.Detections[0].Kind != "Sentry Ward" {
		t.Errorf("unexpected export contents: %+v", export)
	}
	if !export.EndTime.Equal(sessionStart.Add(time.Minute)) {
		t.Errorf("end time not stamped: %v", export.EndTime)
	}
}

func TestEndSession_ExportsGzipJSON(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir, CompressOutput: true})
	_ = b.StartSession(testSession())

	if err := b.EndSession(sessionStart.Add(time.Minute)); err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}

	path := b.ExportedFilePath()
	if !strings.HasSuffix(path, ".json.gz") {
		t.Errorf("expected gzip suffix, got %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("export file missing: %v", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("export not gzipped: %v", err)
	}
	defer gz.Close()

	var export SessionExport
	if err := json.NewDecoder(gz).Decode(&export); err != nil {
		t.Fatalf("export not valid JSON: %v", err)
	}
	if export.SessionID != "s-1" {
		t.Errorf("unexpected session id: %s", export.SessionID)
	}
}

func TestRecord_ConcurrentWriters(t *testing.T) {
	b := New(config.MemoryConfig{})
	_ = b.StartSession(testSession())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = b.RecordDetection(&core.DetectionEvent{Kind: "Observer Ward"})
				_ = b.RecordCastAttempt(&core.CastAttempt{Ability: "lion_impale"})
			}
		}()
	}
	wg.Wait()

	if len(b.detections) != 1000 {
		t.Errorf("expected 1000 detections, got %d", len(b.detections))
	}
	if len(b.casts) != 1000 {
		t.Errorf("expected 1000 casts, got %d", len(b.casts))
	}
}
