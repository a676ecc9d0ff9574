package killsteal

import (
	"time"

	"github.com/d2assist/d2assist/internal/gamestate"
)

// Decision is one selected cast: the ability, its target and the
// derived numbers the pipeline records.
type Decision struct {
	Ability         *Ability
	Target          gamestate.Enemy
	EffectiveDamage float64
	ManaAfter       float64
}

// Selector applies the per-tick cast rule. It owns the cooldown
// bookkeeping: the global cooldown stamp and each ability's last cast.
type Selector struct {
	abilities      []*Ability
	globalCooldown time.Duration

	lastGlobalCast time.Time
}

// NewSelector creates a selector over the hero's abilities in their
// fixed configured order.
func NewSelector(abilities []*Ability, globalCooldown time.Duration) *Selector {
	return &Selector{
		abilities:      abilities,
		globalCooldown: globalCooldown,
	}
}

// Abilities returns the selector's ability list.
func (s *Selector) Abilities() []*Ability {
	return s.abilities
}

// Evaluate runs one tick of the cast rule and returns the decision, or
// nil when no cast happens. On a decision the mana deduction and the
// cooldown stamps are already applied; a later actuator failure does
// not undo them.
//
// Enemies are taken in source order and abilities in configured order;
// the first qualifying pair wins. At most one cast per tick.
func (s *Selector) Evaluate(snap gamestate.Snapshot, now time.Time) *Decision {
	if !s.lastGlobalCast.IsZero() && now.Sub(s.lastGlobalCast) < s.globalCooldown {
		return nil
	}
	if snap.Hero.Channeling || snap.Hero.Invisible {
		return nil
	}

	for _, enemy := range snap.Enemies {
		if !enemy.Alive() {
			continue
		}
		for _, ability := range s.abilities {
			if snap.Hero.Mana < ability.ManaCost {
				continue
			}
			if !ability.Ready(now) {
				continue
			}
			effective := ability.EffectiveDamage(enemy.MagicResistance)
			if enemy.Health >= effective {
				continue
			}

			ability.lastCast = now
			s.lastGlobalCast = now
			return &Decision{
				Ability:         ability,
				Target:          enemy,
				EffectiveDamage: effective,
				ManaAfter:       snap.Hero.Mana - ability.ManaCost,
			}
		}
	}
	return nil
}

// LastGlobalCast returns the global cooldown stamp, zero if no cast
// has been issued.
func (s *Selector) LastGlobalCast() time.Time {
	return s.lastGlobalCast
}
