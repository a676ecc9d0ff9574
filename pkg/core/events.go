// Package core holds the plain domain types shared between the ward
// tracker and killsteal pipelines and their storage/telemetry sinks.
// These carry no persistence or transport concerns; backends convert
// them into whatever shape they need.
package core

import "time"

// Detection is a single raw detector output for one frame.
// X and Y are the normalized center of the bounding box in [0,1].
type Detection struct {
	Label      string
	Confidence float64
	X          float64
	Y          float64
}

// DetectionEvent is a detection that passed the confidence and
// tracked-kind filters and was classified into a map region.
// ExpiresAt is zero for kinds with no lifetime (e.g. smoke).
type DetectionEvent struct {
	Kind       string
	Region     string
	Confidence float64
	X          float64
	Y          float64
	Time       time.Time
	ExpiresAt  time.Time
	Duplicate  bool
}

// WardExpiry records a tracked ward leaving the store during a sweep.
type WardExpiry struct {
	Kind      string
	Region    string
	FirstSeen time.Time
	ExpiredAt time.Time
}

// CastAttempt records one killsteal cast decision, issued or not
// actually landed. Success reflects only the actuator boundary.
type CastAttempt struct {
	Hero            string
	Ability         string
	Target          string
	TargetHealth    float64
	EffectiveDamage float64
	ManaCost        float64
	ManaAfter       float64
	Success         bool
	Time            time.Time
}

// Session identifies one run of the process for history exports.
type Session struct {
	ID        string
	Hero      string
	StartTime time.Time
	EndTime   time.Time
}
