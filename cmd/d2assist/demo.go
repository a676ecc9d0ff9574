package main

import (
	"math/rand"
	"time"

	"github.com/d2assist/d2assist/internal/detect"
	"github.com/d2assist/d2assist/internal/gamestate"
	"github.com/d2assist/d2assist/pkg/core"
)

// demoScript cycles through plausible detections so the overlay has
// something to show without a game running.
var demoScript = [][]core.Detection{
	{{Label: "observer_ward", Confidence: 0.91, X: 0.12, Y: 0.10}},
	{{Label: "sentry_ward", Confidence: 0.84, X: 0.50, Y: 0.48}},
	{
		{Label: "observer_ward", Confidence: 0.88, X: 0.80, Y: 0.82},
		{Label: "smoke_of_deceit", Confidence: 0.76, X: 0.45, Y: 0.55},
	},
	{{Label: "observer_ward", Confidence: 0.42, X: 0.30, Y: 0.30}}, // below threshold
	{{Label: "sentry_ward", Confidence: 0.93, X: 0.05, Y: 0.90}},
}

// startDemoFeeder pushes scripted detections and steadily wears the
// simulated enemies down so the killsteal path fires. The returned
// function stops the feeder.
func startDemoFeeder(detector *detect.ScriptedDetector, game *gamestate.Simulated) func() {
	stopChan := make(chan struct{})

	go func() {
		detectTicker := time.NewTicker(3 * time.Second)
		defer detectTicker.Stop()
		damageTicker := time.NewTicker(2 * time.Second)
		defer damageTicker.Stop()

		step := 0
		for {
			select {
			case <-stopChan:
				return
			case <-detectTicker.C:
				detector.Push(demoScript[step%len(demoScript)])
				step++
			case <-damageTicker.C:
				wearDownEnemies(game)
			}
		}
	}()

	return func() { close(stopChan) }
}

// wearDownEnemies chips 40-120 health off every living enemy.
func wearDownEnemies(game *gamestate.Simulated) {
	snap, err := game.Poll()
	if err != nil {
		return
	}

	enemies := snap.Enemies
	for i := range enemies {
		if !enemies[i].Alive() {
			continue
		}
		enemies[i].Health -= 40 + rand.Float64()*80
		if enemies[i].Health < 0 {
			enemies[i].Health = 0
		}
	}
	game.SetEnemies(enemies)
}
