package gormstorage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d2assist/d2assist/internal/database"
	"github.com/d2assist/d2assist/pkg/core"
)

var sessionStart = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// newTestBackend creates a Backend on a throwaway SQLite DB. A file
// per test keeps tests isolated; the shared in-memory DSN would leak
// rows between them.
func newTestBackend(t *testing.T) (*Backend, *gorm.DB) {
	t.Helper()

	db, err := database.GetSqliteDBStandalone(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)

	b := New(Dependencies{DB: db})
	require.NoError(t, b.Init())
	t.Cleanup(func() { _ = b.Close() })

	return b, db
}

func startTestSession(t *testing.T, b *Backend) {
	t.Helper()
	require.NoError(t, b.StartSession(&core.Session{
		ID:        "s-1",
		Hero:      "npc_dota_hero_lina",
		StartTime: sessionStart,
	}))
}

func TestStartSession_InsertsRow(t *testing.T) {
	b, db := newTestBackend(t)
	startTestSession(t, b)

	var row Session
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, "s-1", row.SessionID)
	assert.Equal(t, "npc_dota_hero_lina", row.Hero)
	assert.Nil(t, row.EndTime)
	assert.Equal(t, uint64(row.ID), b.sessionID.Load())
}

func TestRecordDetection_QueuesUntilFlush(t *testing.T) {
	b, db := newTestBackend(t)
	startTestSession(t, b)

	err := b.RecordDetection(&core.DetectionEvent{
		Kind:       "Observer Ward",
		Region:     "Top Lane (Radiant)",
		Confidence: 0.9,
		Time:       sessionStart,
		ExpiresAt:  sessionStart.Add(360 * time.Second),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, b.queues.Detections.Len())

	var count int64
	require.NoError(t, db.Model(&Detection{}).Count(&count).Error)
	assert.Zero(t, count, "rows stay queued until flush")

	b.flush()

	var row Detection
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, "Observer Ward", row.Kind)
	assert.Equal(t, "Top Lane (Radiant)", row.Region)
	require.NotNil(t, row.ExpiresAt)
	assert.NotEmpty(t, row.Payload)
	assert.Equal(t, 0, b.queues.Detections.Len())
}

func TestRecordDetection_SmokeHasNoExpiry(t *testing.T) {
	b, db := newTestBackend(t)
	startTestSession(t, b)

	require.NoError(t, b.RecordDetection(&core.DetectionEvent{
		Kind:   "Smoke of Deceit",
		Region: "Mid Lane (Center)",
		Time:   sessionStart,
	}))
	b.flush()

	var row Detection
	require.NoError(t, db.First(&row).Error)
	assert.Nil(t, row.ExpiresAt)
}

func TestRecordCastAttempt_RoundTrip(t *testing.T) {
	b, db := newTestBackend(t)
	startTestSession(t, b)

	require.NoError(t, b.RecordCastAttempt(&core.CastAttempt{
		Hero:            "npc_dota_hero_lina",
		Ability:         "lina_laguna_blade",
		Target:          "npc_dota_hero_sniper",
		TargetHealth:    209,
		EffectiveDamage: 210,
		ManaCost:        280,
		ManaAfter:       720,
		Success:         true,
		Time:            sessionStart,
	}))
	b.flush()

	var row CastAttempt
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, "lina_laguna_blade", row.Ability)
	assert.Equal(t, "npc_dota_hero_sniper", row.Target)
	assert.True(t, row.Success)
	assert.Equal(t, 720.0, row.ManaAfter)
}

func TestEndSession_FlushesAndStampsEndTime(t *testing.T) {
	b, db := newTestBackend(t)
	startTestSession(t, b)

	require.NoError(t, b.RecordExpiry(&core.WardExpiry{
		Kind:      "Observer Ward",
		Region:    "Top Lane (Radiant)",
		FirstSeen: sessionStart,
		ExpiredAt: sessionStart.Add(360 * time.Second),
	}))

	end := sessionStart.Add(10 * time.Minute)
	require.NoError(t, b.EndSession(end))

	var expiryCount int64
	require.NoError(t, db.Model(&Expiry{}).Count(&expiryCount).Error)
	assert.EqualValues(t, 1, expiryCount, "EndSession flushes queued rows")

	var row Session
	require.NoError(t, db.First(&row).Error)
	require.NotNil(t, row.EndTime)
	assert.Equal(t, end.Unix(), row.EndTime.Unix())
}

func TestEndSession_WithoutStartFails(t *testing.T) {
	b, _ := newTestBackend(t)
	assert.Error(t, b.EndSession(sessionStart))
}

func TestStartSession_RequiresInit(t *testing.T) {
	b := New(Dependencies{})
	assert.Error(t, b.StartSession(&core.Session{ID: "s-1"}))
}
