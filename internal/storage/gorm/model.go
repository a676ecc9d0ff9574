package gormstorage

import (
	"time"

	"gorm.io/datatypes"
)

// Session is one run of the assistant.
type Session struct {
	ID        uint   `gorm:"primarykey"`
	SessionID string `gorm:"uniqueIndex"`
	Hero      string
	StartTime time.Time
	EndTime   *time.Time
}

// Detection is one filtered ward detection tied to a session.
type Detection struct {
	ID         uint `gorm:"primarykey"`
	SessionID  uint `gorm:"index"`
	Kind       string
	Region     string
	Confidence float64
	Time       time.Time
	ExpiresAt  *time.Time
	Payload    datatypes.JSON
}

// Expiry is one ward leaving the tracked set.
type Expiry struct {
	ID        uint `gorm:"primarykey"`
	SessionID uint `gorm:"index"`
	Kind      string
	Region    string
	FirstSeen time.Time
	ExpiredAt time.Time
}

// CastAttempt is one killsteal cast decision.
type CastAttempt struct {
	ID              uint `gorm:"primarykey"`
	SessionID       uint `gorm:"index"`
	Hero            string
	Ability         string
	Target          string
	TargetHealth    float64
	EffectiveDamage float64
	ManaCost        float64
	ManaAfter       float64
	Success         bool
	Time            time.Time
	Payload         datatypes.JSON
}

// Models returns every model this backend migrates.
func Models() []any {
	return []any{
		&Session{},
		&Detection{},
		&Expiry{},
		&CastAttempt{},
	}
}
