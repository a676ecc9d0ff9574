package killsteal

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/d2assist/d2assist/internal/actuator"
	"github.com/d2assist/d2assist/internal/dispatcher"
	"github.com/d2assist/d2assist/internal/gamestate"
	"github.com/d2assist/d2assist/pkg/core"
)

// Dependencies holds all dependencies for the evaluator service.
type Dependencies struct {
	Hero       string
	Source     gamestate.Source
	Actuator   actuator.Actuator
	Selector   *Selector
	Dispatcher *dispatcher.Dispatcher
	Logger     *slog.Logger
}

// Service runs the killsteal check each tick. The enabled flag is the
// only cross-goroutine state: the hotkey handler flips it, the tick
// re-checks it every pass.
type Service struct {
	deps    Dependencies
	enabled atomic.Bool
}

// NewService creates the evaluator service, enabled by default.
func NewService(deps Dependencies) *Service {
	s := &Service{deps: deps}
	s.enabled.Store(true)
	return s
}

// Enabled returns whether evaluation runs.
func (s *Service) Enabled() bool {
	return s.enabled.Load()
}

// Toggle flips the enabled flag and returns the new value.
func (s *Service) Toggle() bool {
	for {
		old := s.enabled.Load()
		if s.enabled.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Tick runs one evaluation pass: poll, select, cast. A poll failure
// skips the tick without mutating anything.
func (s *Service) Tick(now time.Time) {
	if !s.enabled.Load() {
		return
	}

	snap, err := s.deps.Source.Poll()
	if err != nil {
		s.deps.Logger.Debug("Game state unavailable, skipping tick", "error", err)
		return
	}

	decision := s.deps.Selector.Evaluate(snap, now)
	if decision == nil {
		return
	}

	castErr := s.deps.Actuator.Cast(s.deps.Hero, decision.Ability.Name, decision.Target.Name)
	if castErr != nil {
		// Cooldown stamps and mana stay spent even when the actuator
		// fails. See the cast attempt record for the failure.
		s.deps.Logger.Error("Cast failed at actuator",
			"ability", decision.Ability.Name,
			"target", decision.Target.Name,
			"error", castErr)
	} else {
		s.deps.Logger.Info("Cast issued",
			"ability", decision.Ability.Name,
			"target", decision.Target.Name,
			"targetHealth", decision.Target.Health,
			"effectiveDamage", decision.EffectiveDamage,
			"manaAfter", decision.ManaAfter)
	}

	if mut, ok := s.deps.Source.(gamestate.Mutator); ok {
		if err := mut.ApplyCast(decision.Target.Name, decision.Ability.Damage, decision.Ability.ManaCost); err != nil {
			s.deps.Logger.Error("Error applying cast to simulation", "error", err)
		}
	}

	attempt := core.CastAttempt{
		Hero:            s.deps.Hero,
		Ability:         decision.Ability.Name,
		Target:          decision.Target.Name,
		TargetHealth:    decision.Target.Health,
		EffectiveDamage: decision.EffectiveDamage,
		ManaCost:        decision.Ability.ManaCost,
		ManaAfter:       decision.ManaAfter,
		Success:         castErr == nil,
		Time:            now,
	}
	if s.deps.Dispatcher != nil {
		if _, err := s.deps.Dispatcher.Dispatch(dispatcher.Event{
			Command: "killsteal:cast",
			Data:    attempt,
			Time:    now,
		}); err != nil {
			s.deps.Logger.Error("Error dispatching cast attempt", "error", err)
		}
	}
}
