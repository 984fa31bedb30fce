package duel

import (
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/tui-dandelions/internal/core"
)

// stubGame is a scripted Game for exercising the match loop: it ends after a
// fixed number of steps and reports canned scores.
type stubGame struct {
	mu     sync.Mutex
	steps  int
	inputs []core.MultiInputFrame

	overAt int // 0 means the game never ends on its own
	winner PlayerID
	score1 int
	score2 int
}

func (g *stubGame) Reset(cfg core.RuntimeConfig) {}

func (g *stubGame) StepMulti(input core.MultiInputFrame) core.StepResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.steps++
	g.inputs = append(g.inputs, input)
	return core.StepResult{State: core.GameState{GameOver: g.finished()}}
}

func (g *stubGame) finished() bool {
	return g.overAt > 0 && g.steps >= g.overAt
}

func (g *stubGame) IsGameOver() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.finished()
}

func (g *stubGame) Snapshot() GameSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return stubSnapshot{Step: g.steps}
}

func (g *stubGame) Winner() PlayerID { return g.winner }
func (g *stubGame) Score1() int      { return g.score1 }
func (g *stubGame) Score2() int      { return g.score2 }

// sawAction reports whether any recorded frame had the action set for a player.
func (g *stubGame) sawAction(p PlayerID, a core.Action) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, in := range g.inputs {
		if in.Player(p).Has(a) {
			return true
		}
	}
	return false
}

func (g *stubGame) input(i int) core.MultiInputFrame {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inputs[i]
}

type stubSnapshot struct{ Step int }

func (stubSnapshot) IsGameSnapshot() {}

func newTestMatch(game Game) (*Match, *ChannelSession, *ChannelSession) {
	s1 := NewChannelSession("host", 64)
	s2 := NewChannelSession("joiner", 64)
	return NewMatch("m1", "ABCDEF", game, s1, s2, 60), s1, s2
}

func TestMatchMergesInputsWithinTick(t *testing.T) {
	game := &stubGame{}
	m, _, _ := newTestMatch(game)

	fire := core.NewInputFrame()
	fire.Set(core.ActionFire)
	fire.SetPointer(10, 5)
	aim := core.NewInputFrame()
	aim.Set(core.ActionLeft)
	aim.SetPointer(30, 7)
	right := core.NewInputFrame()
	right.Set(core.ActionRight)

	m.SendInput(Player1, fire)
	m.SendInput(Player1, aim)
	m.SendInput(Player2, right)
	m.runTick()

	in := game.input(0)
	p1 := in.Player1()
	if !p1.Has(core.ActionFire) || !p1.Has(core.ActionLeft) {
		t.Error("Frames within one tick should merge their actions")
	}
	if x, y, ok := p1.Pointer(); !ok || x != 30 || y != 7 {
		t.Errorf("The latest pointer should win, got (%d,%d,%v)", x, y, ok)
	}
	if !in.Player2().Has(core.ActionRight) {
		t.Error("Player 2's input should arrive untouched")
	}

	// Consumed inputs must not leak into the next tick
	m.runTick()
	in = game.input(1)
	if in.Player1().Has(core.ActionFire) || in.Player2().Has(core.ActionRight) {
		t.Error("Inputs should be cleared after each tick")
	}
}

func TestMatchBroadcastsSnapshots(t *testing.T) {
	game := &stubGame{}
	m, s1, s2 := newTestMatch(game)

	m.runTick()

	for _, s := range []*ChannelSession{s1, s2} {
		evt, ok := (<-s.Events()).(SnapshotEvent)
		if !ok {
			t.Fatalf("Session %s should receive a snapshot", s.ID())
		}
		if evt.MatchID != "m1" || evt.Tick != 1 {
			t.Errorf("Snapshot header = %s/%d", evt.MatchID, evt.Tick)
		}
		if snap, ok := evt.Snapshot.(stubSnapshot); !ok || snap.Step != 1 {
			t.Errorf("Snapshot payload = %v", evt.Snapshot)
		}
	}
}

func TestMatchReportsCompletion(t *testing.T) {
	game := &stubGame{overAt: 3, winner: Player2, score1: 10, score2: 20}
	m, _, _ := newTestMatch(game)

	for i := 0; i < 2; i++ {
		if _, done := m.runTick(); done {
			t.Fatalf("Match finished early on tick %d", i+1)
		}
	}
	result, done := m.runTick()
	if !done {
		t.Fatal("Match should finish on the third tick")
	}
	if result.Reason != MatchEndReasonCompleted {
		t.Errorf("Reason = %v", result.Reason)
	}
	if result.Winner != Player2 || result.Score1 != 10 || result.Score2 != 20 {
		t.Errorf("Result = %+v", result)
	}
	if result.Ticks != 3 {
		t.Errorf("Ticks = %d, expected 3", result.Ticks)
	}
}

func TestMatchRunCompletes(t *testing.T) {
	game := &stubGame{overAt: 5, winner: Player1}
	m, _, _ := newTestMatch(game)

	results := make(chan MatchResult, 1)
	go m.Run(func(r MatchResult) { results <- r })

	select {
	case r := <-results:
		if r.Reason != MatchEndReasonCompleted || r.Winner != Player1 {
			t.Errorf("Result = %+v", r)
		}
		if r.Ticks != 5 {
			t.Errorf("Ticks = %d, expected 5", r.Ticks)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Match loop never completed")
	}
}

// A dropped session forfeits: the survivor wins on the spot.
func TestMatchRunEndsOnDisconnect(t *testing.T) {
	game := &stubGame{score1: 7, score2: 3}
	m, s1, _ := newTestMatch(game)

	results := make(chan MatchResult, 1)
	go m.Run(func(r MatchResult) { results <- r })

	s1.Close()

	select {
	case r := <-results:
		if r.Reason != MatchEndReasonDisconnect {
			t.Errorf("Reason = %v", r.Reason)
		}
		if r.Winner != Player2 {
			t.Errorf("The surviving player should win, got %v", r.Winner)
		}
		if r.Score1 != 7 || r.Score2 != 3 {
			t.Errorf("Scores at disconnect = %d/%d", r.Score1, r.Score2)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Disconnect never ended the match")
	}
}

func TestMatchStopSkipsCallback(t *testing.T) {
	game := &stubGame{}
	m, _, _ := newTestMatch(game)

	results := make(chan MatchResult, 1)
	finished := make(chan struct{})
	go func() {
		m.Run(func(r MatchResult) { results <- r })
		close(finished)
	}()

	m.Stop()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop should end the match loop")
	}
	select {
	case r := <-results:
		t.Errorf("Stop must not produce a result, got %+v", r)
	default:
	}
}

func TestMatchSendInputNeverBlocks(t *testing.T) {
	game := &stubGame{}
	m, _, _ := newTestMatch(game)

	frame := core.NewInputFrame()
	frame.Set(core.ActionFire)
	for i := 0; i < 200; i++ {
		m.SendInput(Player1, frame)
	}

	m.runTick()
	if !game.input(0).Player1().Has(core.ActionFire) {
		t.Error("Buffered input should still reach the game")
	}
}
