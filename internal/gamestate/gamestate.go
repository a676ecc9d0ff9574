// Package gamestate provides the poll source for the killsteal
// evaluator. The shipped implementation is a simulation: real game-state
// introspection is out of scope, so the evaluator only depends on the
// Source interface.
package gamestate

import (
	"fmt"
	"sync"
)

// Hero is the controlled hero's state at one poll.
type Hero struct {
	Name       string
	Mana       float64
	Channeling bool
	Invisible  bool
}

// Enemy is one opposing hero's state at one poll.
// MagicResistance is a fraction in [0,1).
type Enemy struct {
	Name            string
	Health          float64
	MagicResistance float64
}

// Alive reports whether the enemy can still be targeted.
func (e Enemy) Alive() bool {
	return e.Health > 0
}

// Snapshot is one complete poll result. Enemy order is the source
// order; the evaluator never re-sorts it.
type Snapshot struct {
	Hero    Hero
	Enemies []Enemy
}

// Source produces a fresh snapshot each poll tick.
type Source interface {
	Poll() (Snapshot, error)
}

// Mutator is implemented by sources that accept cast feedback, so the
// simulation advances when the evaluator fires.
type Mutator interface {
	ApplyCast(target string, damage, manaCost float64) error
}

// Simulated is a mutable in-memory game state.
type Simulated struct {
	mu      sync.Mutex
	hero    Hero
	enemies []Enemy
}

// NewSimulated creates a simulation preloaded with the demo fixture:
// a full-mana hero facing three enemies at descending health.
func NewSimulated(heroName string) *Simulated {
	return &Simulated{
		hero: Hero{Name: heroName, Mana: 1000},
		enemies: []Enemy{
			{Name: "npc_dota_hero_axe", Health: 500, MagicResistance: 0.25},
			{Name: "npc_dota_hero_sniper", Health: 200, MagicResistance: 0.3},
			{Name: "npc_dota_hero_crystal_maiden", Health: 100, MagicResistance: 0.2},
		},
	}
}

// Poll returns a deep copy of the current state.
func (s *Simulated) Poll() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	enemies := make([]Enemy, len(s.enemies))
	copy(enemies, s.enemies)
	return Snapshot{Hero: s.hero, Enemies: enemies}, nil
}

// SetHero replaces the hero state.
func (s *Simulated) SetHero(h Hero) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hero = h
}

// SetEnemies replaces the enemy list. Order is preserved.
func (s *Simulated) SetEnemies(enemies []Enemy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enemies = make([]Enemy, len(enemies))
	copy(s.enemies, enemies)
}

// ApplyCast deducts the mana cost and applies effective damage to the
// named enemy.
func (s *Simulated) ApplyCast(target string, damage, manaCost float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hero.Mana -= manaCost
	if s.hero.Mana < 0 {
		s.hero.Mana = 0
	}

	for i := range s.enemies {
		if s.enemies[i].Name != target {
			continue
		}
		effective := damage * (1 - s.enemies[i].MagicResistance)
		s.enemies[i].Health -= effective
		if s.enemies[i].Health < 0 {
			s.enemies[i].Health = 0
		}
		return nil
	}
	return fmt.Errorf("unknown cast target: %s", target)
}
