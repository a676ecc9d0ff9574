// Package ward tracks placed wards and their remaining lifetimes.
package ward

import (
	"strings"
	"time"
)

// Kind is a tracked item category.
type Kind int

const (
	KindUnknown Kind = iota
	KindObserver
	KindSentry
	KindSmoke
)

// Lifetime returns the nominal duration a placed item stays active.
// Zero means the item is an instantaneous event and never enters the
// store.
func (k Kind) Lifetime() time.Duration {
	switch k {
	case KindObserver:
		return 360 * time.Second
	case KindSentry:
		return 420 * time.Second
	default:
		return 0
	}
}

func (k Kind) String() string {
	switch k {
	case KindObserver:
		return "Observer Ward"
	case KindSentry:
		return "Sentry Ward"
	case KindSmoke:
		return "Smoke of Deceit"
	default:
		return "Unknown"
	}
}

// ParseKind maps a detector class label to a Kind. Labels come from the
// model's class list, so both "observer_ward" and "Observer Ward"
// spellings are accepted.
func ParseKind(label string) (Kind, bool) {
	switch strings.ToLower(strings.ReplaceAll(label, "_", " ")) {
	case "observer ward", "observer":
		return KindObserver, true
	case "sentry ward", "sentry":
		return KindSentry, true
	case "smoke of deceit", "smoke":
		return KindSmoke, true
	default:
		return KindUnknown, false
	}
}
