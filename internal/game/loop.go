package game

import (
	"log"
	"time"
)

// Broadcaster is the transport the loop pushes frames through. The ws
// package implements it; the interface keeps this package free of any
// transport dependency.
type Broadcaster interface {
	BroadcastToSession(sessionID string, message interface{})
}

// Run drives the session's fixed-timestep loop until game over or quit.
// One goroutine per session; it is the sole mutator of the table.
//
// Pacing: each iteration sleeps out whatever is left of the tick budget. An
// overrunning frame is simply late — the loop never runs extra ticks to
// catch up, so a slow frame delays the game rather than skipping physics.
//
// onExit always runs, on every exit path, so the manager's teardown
// (DB finalize, Redis cleanup) is guaranteed.
func (s *Session) Run(b Broadcaster, onExit func(*Session)) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[GAME] session %s loop panic: %v", s.ID, r)
			s.finish(StatusCancelled)
		}
		onExit(s)
	}()

	tickBudget := time.Second / time.Duration(s.table.FPS)
	flourishTicks := GameOverFlourishSeconds * s.table.FPS

	for {
		started := time.Now()

		select {
		case <-s.quit:
			s.finish(StatusCancelled)
			return
		default:
		}

		frame := s.Step(s.drainInputs())

		if b != nil {
			b.BroadcastToSession(s.ID, map[string]interface{}{
				"type":  "frame",
				"frame": frame,
			})
		}

		if frame.GameOver {
			// Keep animating the banner for a few seconds, then finish.
			if flourishTicks == GameOverFlourishSeconds*s.table.FPS && b != nil {
				b.BroadcastToSession(s.ID, map[string]interface{}{
					"type":            "game_over",
					"score":           frame.Score,
					"balls_remaining": frame.BallsRemaining,
				})
			}
			flourishTicks--
			if flourishTicks <= 0 {
				s.finish(StatusCompleted)
				return
			}
		}

		if elapsed := time.Since(started); elapsed < tickBudget {
			time.Sleep(tickBudget - elapsed)
		}
	}
}
