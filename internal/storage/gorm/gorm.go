// Package gormstorage implements the storage.Backend interface using
// GORM with internal queues and a background DB writer goroutine.
package gormstorage

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"gorm.io/gorm"

	"github.com/d2assist/d2assist/internal/database"
	"github.com/d2assist/d2assist/internal/logging"
	"github.com/d2assist/d2assist/internal/queue"
	"github.com/d2assist/d2assist/pkg/core"
)

// writeInterval is how often queued rows get flushed to the DB.
const writeInterval = 1 * time.Second

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB         *gorm.DB
	LogManager *logging.SlogManager
}

// queues holds all the write queues for batch DB insertion.
type queues struct {
	Detections   *queue.Queue[Detection]
	Expiries     *queue.Queue[Expiry]
	CastAttempts *queue.Queue[CastAttempt]
}

func newQueues() *queues {
	return &queues{
		Detections:   queue.New[Detection](),
		Expiries:     queue.New[Expiry](),
		CastAttempts: queue.New[CastAttempt](),
	}
}

// Backend implements storage.Backend using GORM with queue-based batch writes.
type Backend struct {
	deps      Dependencies
	queues    *queues
	sessionID atomic.Uint64
	stopChan  chan struct{}
	dbReady   bool
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	return &Backend{
		deps: deps,
	}
}

// Init migrates the schema and starts the DB writer goroutine.
// If no DB was injected via Dependencies, it creates its own postgres
// connection.
func (b *Backend) Init() error {
	b.queues = newQueues()
	b.stopChan = make(chan struct{})

	if b.deps.DB == nil {
		db, err := database.GetPostgresDBStandalone()
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to access sql interface: %w", err)
		}
		if err = sqlDB.Ping(); err != nil {
			return fmt.Errorf("failed to validate connection: %w", err)
		}
		sqlDB.SetMaxOpenConns(10)
		b.deps.DB = db
	}

	if err := b.deps.DB.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	b.dbReady = true

	go b.writeLoop()
	return nil
}

// Close stops the writer goroutine after a final flush.
func (b *Backend) Close() error {
	if b.stopChan != nil {
		close(b.stopChan)
		b.stopChan = nil
	}
	b.flush()
	return nil
}

// StartSession inserts the session row synchronously so event rows can
// reference it.
func (b *Backend) StartSession(session *core.Session) error {
	if !b.dbReady {
		return fmt.Errorf("backend not initialized")
	}

	row := Session{
		SessionID: session.ID,
		Hero:      session.Hero,
		StartTime: session.StartTime,
	}
	if err := b.deps.DB.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	b.sessionID.Store(uint64(row.ID))
	b.log("gorm:StartSession", fmt.Sprintf("Session %s started as row %d", session.ID, row.ID), "INFO")
	return nil
}

// EndSession flushes outstanding rows and stamps the session end time.
func (b *Backend) EndSession(endTime time.Time) error {
	id := b.sessionID.Load()
	if id == 0 {
		return fmt.Errorf("no session in progress")
	}

	b.flush()

	err := b.deps.DB.Model(&Session{}).
		Where("id = ?", id).
		Update("end_time", endTime).Error
	if err != nil {
		return fmt.Errorf("failed to stamp session end: %w", err)
	}
	return nil
}

// RecordDetection queues a filtered ward detection.
func (b *Backend) RecordDetection(event *core.DetectionEvent) error {
	row := Detection{
		SessionID:  uint(b.sessionID.Load()),
		Kind:       event.Kind,
		Region:     event.Region,
		Confidence: event.Confidence,
		Time:       event.Time,
		Payload:    marshalPayload(event),
	}
	if !event.ExpiresAt.IsZero() {
		expiresAt := event.ExpiresAt
		row.ExpiresAt = &expiresAt
	}

	b.queues.Detections.Push(row)
	return nil
}

// RecordExpiry queues a ward expiry.
func (b *Backend) RecordExpiry(event *core.WardExpiry) error {
	b.queues.Expiries.Push(Expiry{
		SessionID: uint(b.sessionID.Load()),
		Kind:      event.Kind,
		Region:    event.Region,
		FirstSeen: event.FirstSeen,
		ExpiredAt: event.ExpiredAt,
	})
	return nil
}

// RecordCastAttempt queues a killsteal cast attempt.
func (b *Backend) RecordCastAttempt(event *core.CastAttempt) error {
	b.queues.CastAttempts.Push(CastAttempt{
		SessionID:       uint(b.sessionID.Load()),
		Hero:            event.Hero,
		Ability:         event.Ability,
		Target:          event.Target,
		TargetHealth:    event.TargetHealth,
		EffectiveDamage: event.EffectiveDamage,
		ManaCost:        event.ManaCost,
		ManaAfter:       event.ManaAfter,
		Success:         event.Success,
		Time:            event.Time,
		Payload:         marshalPayload(event),
	})
	return nil
}

// writeLoop flushes the queues on an interval until Close.
func (b *Backend) writeLoop() {
	ticker := time.NewTicker(writeInterval)
	defer ticker.Stop()

	stop := b.stopChan
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			b.flush()
		}
	}
}

// flush drains every queue into the DB in batches.
func (b *Backend) flush() {
	if !b.dbReady {
		return
	}

	if rows := b.queues.Detections.GetAndEmpty(); len(rows) > 0 {
		if err := b.deps.DB.CreateInBatches(rows, 500).Error; err != nil {
			b.log("gorm:flush", fmt.Sprintf("Failed to write detections: %v", err), "ERROR")
		}
	}
	if rows := b.queues.Expiries.GetAndEmpty(); len(rows) > 0 {
		if err := b.deps.DB.CreateInBatches(rows, 500).Error; err != nil {
			b.log("gorm:flush", fmt.Sprintf("Failed to write expiries: %v", err), "ERROR")
		}
	}
	if rows := b.queues.CastAttempts.GetAndEmpty(); len(rows) > 0 {
		if err := b.deps.DB.CreateInBatches(rows, 500).Error; err != nil {
			b.log("gorm:flush", fmt.Sprintf("Failed to write cast attempts: %v", err), "ERROR")
		}
	}
}

func (b *Backend) log(component, msg, level string) {
	if b.deps.LogManager != nil {
		b.deps.LogManager.WriteLog(component, msg, level)
	}
}

// marshalPayload keeps the full event alongside the indexed columns.
func marshalPayload(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}
