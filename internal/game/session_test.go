package game

import (
	"testing"
	"time"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	player := &SessionPlayer{ID: "p_test", Username: "tester", PlayerToken: "pt"}
	s, err := NewSession("pin_test", "tok_test", player, DefaultFPS, 42, 10*time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewSessionStartsWaiting(t *testing.T) {
	s := newTestSession(t)
	if s.Status != StatusWaiting {
		t.Errorf("fresh session status: got %s", s.Status)
	}
	if s.Table() == nil {
		t.Fatal("session should own a table")
	}
}

func TestNewSessionRejectsBadFPS(t *testing.T) {
	player := &SessionPlayer{ID: "p", Username: "u"}
	if _, err := NewSession("id", "tok", player, 0, 1, time.Minute); err == nil {
		t.Error("fps 0 should be rejected")
	}
}

func TestSessionStartTransitionsOnce(t *testing.T) {
	s := newTestSession(t)

	if err := s.Start(); err != nil {
		t.Fatalf("first start failed: %v", err)
	}
	if s.Status != StatusInProgress || s.StartedAt == nil {
		t.Errorf("started session: status=%s startedAt=%v", s.Status, s.StartedAt)
	}
	if err := s.Start(); err == nil {
		t.Error("second start should fail")
	}
}

func TestStepAdvancesTickAndAppliesInput(t *testing.T) {
	s := newTestSession(t)

	frame := s.Step([]InputEvent{{Type: "button", Which: ButtonLeft, Pressed: true}})
	if frame.Tick != 1 {
		t.Errorf("first step tick: got %d", frame.Tick)
	}
	if !s.Table().Flippers[0].Pressed {
		t.Error("button event should press the left flipper")
	}

	frame = s.Step([]InputEvent{{Type: "button", Which: ButtonLeft, Pressed: false}})
	if frame.Tick != 2 {
		t.Errorf("second step tick: got %d", frame.Tick)
	}
	if s.Table().Flippers[0].Pressed {
		t.Error("release event should clear the flipper")
	}
}

func TestStepQuitEventClosesQuitChannel(t *testing.T) {
	s := newTestSession(t)
	s.Step([]InputEvent{{Type: "quit"}})

	select {
	case <-s.quit:
	default:
		t.Error("quit input should close the quit channel")
	}
}

func TestQueueInputDrainsInOrder(t *testing.T) {
	s := newTestSession(t)
	s.QueueInput(InputEvent{Type: "button", Which: ButtonLeft, Pressed: true})
	s.QueueInput(InputEvent{Type: "button", Which: ButtonRight, Pressed: true})

	events := s.drainInputs()
	if len(events) != 2 {
		t.Fatalf("drained %d events, want 2", len(events))
	}
	if events[0].Which != ButtonLeft || events[1].Which != ButtonRight {
		t.Error("events drained out of order")
	}
	if got := s.drainInputs(); len(got) != 0 {
		t.Errorf("second drain should be empty, got %d", len(got))
	}
}

func TestQueueInputDropsWhenFull(t *testing.T) {
	s := newTestSession(t)
	for i := 0; i < 200; i++ {
		s.QueueInput(InputEvent{Type: "button", Which: ButtonLeft, Pressed: true})
	}
	if got := len(s.drainInputs()); got != cap(s.inputs) {
		t.Errorf("queue should cap at %d events, drained %d", cap(s.inputs), got)
	}
}

func TestRequestQuitIsIdempotent(t *testing.T) {
	s := newTestSession(t)
	s.RequestQuit("first")
	s.RequestQuit("second") // must not panic on a closed channel

	select {
	case <-s.quit:
	default:
		t.Error("quit channel should be closed")
	}
}

func TestFinishFirstTerminalStatusWins(t *testing.T) {
	s := newTestSession(t)
	s.finish(StatusCancelled)
	s.finish(StatusCompleted)

	if s.Status != StatusCancelled {
		t.Errorf("terminal status overwritten: got %s", s.Status)
	}
	if s.CompletedAt == nil {
		t.Error("finish should stamp CompletedAt")
	}
}

func TestSnapshotReflectsTableState(t *testing.T) {
	s := newTestSession(t)
	for i := 0; i < ServeCountdownSeconds*DefaultFPS+1; i++ {
		s.Step(nil)
	}
	s.Table().Score = 12
	s.Table().Multiball = 5

	snap := s.Snapshot()
	if snap["score"] != 12 {
		t.Errorf("snapshot score: got %v", snap["score"])
	}
	if snap["multiball_in"] != MultiballScore-5 {
		t.Errorf("snapshot multiball_in: got %v", snap["multiball_in"])
	}
	if snap["balls_remaining"] != BallsPerGame {
		t.Errorf("snapshot lives: got %v", snap["balls_remaining"])
	}
	if snap["token"] != "tok_test" {
		t.Errorf("snapshot token: got %v", snap["token"])
	}
}

func TestSetPlayerConnectedTracksDisconnectTime(t *testing.T) {
	s := newTestSession(t)

	s.SetPlayerConnected(true)
	if !s.Player.Connected || s.Player.DisconnectedAt != nil {
		t.Error("connected player should have no disconnect timestamp")
	}

	s.SetPlayerConnected(false)
	if s.Player.Connected || s.Player.DisconnectedAt == nil {
		t.Error("disconnected player should carry a disconnect timestamp")
	}
}

func TestSessionRunFinishesAfterGameOver(t *testing.T) {
	player := &SessionPlayer{ID: "p_run", Username: "runner", PlayerToken: "pt"}
	// High FPS keeps the wall-clock time of the flourish short.
	s, err := NewSession("pin_run", "tok_run", player, 1000, 42, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	// End the game immediately: no lives, ball in the gutter.
	s.table.BallsRemaining = 1
	s.table.serveTicks = 1

	done := make(chan *Session, 1)
	go s.Run(nil, func(sess *Session) { done <- sess })

	// Let the serve land, then force the ball into the drain.
	time.Sleep(50 * time.Millisecond)
	s.mu.Lock()
	if len(s.table.Balls) > 0 {
		s.table.Balls[0].Pos = NewVec2(0.5, 0.005)
		s.table.Balls[0].Vel = NewVec2(0, 0)
	}
	s.mu.Unlock()

	select {
	case sess := <-done:
		if sess.Status != StatusCompleted {
			t.Errorf("run should finish completed, got %s", sess.Status)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("run did not finish after game over")
	}
}

func TestSessionRunStopsOnQuit(t *testing.T) {
	s := newTestSession(t)
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	done := make(chan *Session, 1)
	go s.Run(nil, func(sess *Session) { done <- sess })

	s.RequestQuit("test")

	select {
	case sess := <-done:
		if sess.Status != StatusCancelled {
			t.Errorf("quit run should finish cancelled, got %s", sess.Status)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop on quit")
	}
}
