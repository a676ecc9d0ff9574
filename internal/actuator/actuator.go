// Package actuator performs cast commands out-of-band. Success or
// failure is all the pipeline learns; there is no richer result.
package actuator

import (
	"fmt"
	"io"
	"sync"
)

// Actuator accepts one cast command and performs it.
type Actuator interface {
	Cast(hero, ability, target string) error
}

// Console writes console commands to the game's command sink, one per
// cast, e.g. "dota_execute npc_dota_hero_lina lina_laguna_blade
// npc_dota_hero_sniper".
type Console struct {
	mu     sync.Mutex
	w      io.Writer
	prefix string
}

// NewConsole creates a console actuator with the configured command
// prefix.
func NewConsole(w io.Writer, prefix string) *Console {
	return &Console{w: w, prefix: prefix}
}

// Cast emits the console command for the ability against the target.
func (c *Console) Cast(hero, ability, target string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := fmt.Fprintf(c.w, "%s %s %s %s\n", c.prefix, hero, ability, target)
	if err != nil {
		return fmt.Errorf("error issuing console command: %w", err)
	}
	return nil
}

// Recorded is one cast received by the Recording actuator.
type Recorded struct {
	Hero    string
	Ability string
	Target  string
}

// Recording captures casts for tests and demo mode, optionally failing
// every call to exercise the failure path.
type Recording struct {
	mu    sync.Mutex
	casts []Recorded
	fail  error
}

// NewRecording creates an actuator that records every cast.
func NewRecording() *Recording {
	return &Recording{}
}

// FailWith makes every subsequent Cast return err. Pass nil to restore
// success.
func (r *Recording) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail = err
}

// Cast records the command.
func (r *Recording) Cast(hero, ability, target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.casts = append(r.casts, Recorded{Hero: hero, Ability: ability, Target: target})
	return r.fail
}

// Casts returns a copy of everything recorded so far.
func (r *Recording) Casts() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Recorded, len(r.casts))
	copy(out, r.casts)
	return out
}
