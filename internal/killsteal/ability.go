// Package killsteal evaluates simulated game state each tick and fires
// a finishing ability at the first enemy whose health falls under the
// ability's effective damage.
package killsteal

import (
	"time"

	"github.com/d2assist/d2assist/internal/config"
)

// Ability is one castable spell with its cooldown bookkeeping. The
// damage and mana values come from configuration, not live game data.
type Ability struct {
	Name     string
	Key      string
	Damage   float64
	ManaCost float64
	Cooldown time.Duration

	lastCast time.Time
}

// Ready reports whether the ability's own cooldown has elapsed. The
// elapsed time must strictly exceed the cooldown; at the exact boundary
// instant the ability is still cooling down.
func (a *Ability) Ready(now time.Time) bool {
	if a.lastCast.IsZero() {
		return true
	}
	return now.Sub(a.lastCast) > a.Cooldown
}

// EffectiveDamage applies the target's magic resistance.
func (a *Ability) EffectiveDamage(magicResistance float64) float64 {
	return a.Damage * (1 - magicResistance)
}

// LastCast returns when the ability last fired, zero if never.
func (a *Ability) LastCast() time.Time {
	return a.lastCast
}

// AbilitiesFromConfig builds the ability list in configured order.
// Cooldowns in the config are seconds.
func AbilitiesFromConfig(configs []config.AbilityConfig) []*Ability {
	abilities := make([]*Ability, 0, len(configs))
	for _, c := range configs {
		abilities = append(abilities, &Ability{
			Name:     c.Name,
			Key:      c.Key,
			Damage:   c.Damage,
			ManaCost: c.ManaCost,
			Cooldown: time.Duration(c.Cooldown * float64(time.Second)),
		})
	}
	return abilities
}
