package duel

import (
	"testing"
	"time"

	"github.com/vovakirdan/tui-dandelions/internal/core"
)

func testCoordinator(game *stubGame) (*Coordinator, *SessionRegistry) {
	cfg := CoordinatorConfig{
		LobbyTimeout:  2 * time.Minute,
		TickRate:      120,
		CleanupPeriod: time.Minute,
	}
	registry := NewSessionRegistry()
	factory := func(core.RuntimeConfig) (Game, error) { return game, nil }
	return NewCoordinator(cfg, factory, registry), registry
}

func nextEvent(t *testing.T, s *ChannelSession) SessionEvent {
	t.Helper()
	select {
	case evt := <-s.Events():
		return evt
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for a session event")
		return nil
	}
}

// waitForMatchEnded drains a session until the end-of-match event arrives,
// skipping the snapshot stream.
func waitForMatchEnded(t *testing.T, s *ChannelSession) MatchEndedEvent {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-s.Events():
			if end, ok := evt.(MatchEndedEvent); ok {
				return end
			}
		case <-deadline:
			t.Fatal("Timed out waiting for the match to end")
		}
	}
}

func createLobby(t *testing.T, c *Coordinator, host *ChannelSession) string {
	t.Helper()
	c.handleCreateLobby(CreateLobbyMsg{SessionID: host.ID()})
	evt, ok := nextEvent(t, host).(LobbyCreatedEvent)
	if !ok {
		t.Fatal("Host should receive the lobby code")
	}
	return evt.Code
}

func TestCoordinatorCreateLobby(t *testing.T) {
	c, registry := testCoordinator(&stubGame{})
	host := NewChannelSession("host", 64)
	registry.Register(host)

	code := createLobby(t, c, host)
	if len(code) != 6 {
		t.Errorf("Join code %q should be 6 characters", code)
	}
	if _, ok := c.GetLobby(code); !ok {
		t.Error("Created lobby should resolve by code")
	}

	// Hosting twice at once is refused
	c.handleCreateLobby(CreateLobbyMsg{SessionID: host.ID()})
	if evt, ok := nextEvent(t, host).(LobbyErrorEvent); !ok || evt.Message != "Already in a lobby" {
		t.Errorf("Second create should fail, got %v", evt)
	}
}

func TestCoordinatorJoinUnknownCode(t *testing.T) {
	c, registry := testCoordinator(&stubGame{})
	s := NewChannelSession("s1", 64)
	registry.Register(s)

	c.handleJoinLobby(JoinLobbyMsg{SessionID: s.ID(), Code: "NOSUCH"})
	if evt, ok := nextEvent(t, s).(LobbyErrorEvent); !ok || evt.Message != "Lobby not found" {
		t.Errorf("Expected a lobby-not-found error, got %v", evt)
	}
}

func TestCoordinatorHostCannotJoinWhileHosting(t *testing.T) {
	c, registry := testCoordinator(&stubGame{})
	host := NewChannelSession("host", 64)
	registry.Register(host)

	code := createLobby(t, c, host)
	c.handleJoinLobby(JoinLobbyMsg{SessionID: host.ID(), Code: code})
	if evt, ok := nextEvent(t, host).(LobbyErrorEvent); !ok || evt.Message != "Already in a lobby" {
		t.Errorf("A host joining anything should be refused, got %v", evt)
	}
}

func TestCoordinatorMatchFlow(t *testing.T) {
	game := &stubGame{overAt: 2, winner: Player2, score1: 15, score2: 30}
	c, registry := testCoordinator(game)
	host := NewChannelSession("host", 64)
	joiner := NewChannelSession("joiner", 64)
	registry.Register(host)
	registry.Register(joiner)

	code := createLobby(t, c, host)
	c.handleJoinLobby(JoinLobbyMsg{SessionID: joiner.ID(), Code: code})

	// Both sides learn who they are
	if evt, ok := nextEvent(t, host).(LobbyJoinedEvent); !ok || evt.Side != Player1 {
		t.Errorf("Host join event = %v", evt)
	}
	if evt, ok := nextEvent(t, joiner).(LobbyJoinedEvent); !ok || evt.Side != Player2 {
		t.Errorf("Joiner join event = %v", evt)
	}

	start, ok := nextEvent(t, host).(MatchStartedEvent)
	if !ok || start.Side != Player1 || start.Code != code {
		t.Fatalf("Host start event = %v", start)
	}
	if evt, ok := nextEvent(t, joiner).(MatchStartedEvent); !ok || evt.Side != Player2 {
		t.Fatalf("Joiner start event = %v", evt)
	}
	if start.MatchID == "" {
		t.Error("Match ID should be set")
	}

	// The lobby is consumed: latecomers find nothing
	if _, ok := c.GetLobby(code); ok {
		t.Error("A started lobby should be gone")
	}
	late := NewChannelSession("late", 64)
	registry.Register(late)
	c.handleJoinLobby(JoinLobbyMsg{SessionID: late.ID(), Code: code})
	if evt, ok := nextEvent(t, late).(LobbyErrorEvent); !ok || evt.Message != "Lobby not found" {
		t.Errorf("Latecomer should be refused, got %v", evt)
	}

	// The scripted game ends itself; both sides hear about it
	for _, s := range []*ChannelSession{host, joiner} {
		end := waitForMatchEnded(t, s)
		if end.Reason != MatchEndReasonCompleted {
			t.Errorf("End reason = %v", end.Reason)
		}
		if end.Winner != Player2 || end.Score1 != 15 || end.Score2 != 30 {
			t.Errorf("End event = %+v", end)
		}
	}
}

func TestCoordinatorFixedArena(t *testing.T) {
	var got core.RuntimeConfig
	registry := NewSessionRegistry()
	factory := func(cfg core.RuntimeConfig) (Game, error) {
		got = cfg
		return &stubGame{overAt: 1}, nil
	}
	c := NewCoordinator(CoordinatorConfig{LobbyTimeout: time.Minute, TickRate: 120, CleanupPeriod: time.Minute}, factory, registry)

	host := NewChannelSession("host", 64)
	joiner := NewChannelSession("joiner", 64)
	registry.Register(host)
	registry.Register(joiner)

	code := createLobby(t, c, host)
	c.handleJoinLobby(JoinLobbyMsg{SessionID: joiner.ID(), Code: code})
	waitForMatchEnded(t, host)

	// Both clients letterbox the same arena regardless of terminal size
	if got.ScreenW != 80 || got.ScreenH != 24 {
		t.Errorf("Arena = %dx%d, expected 80x24", got.ScreenW, got.ScreenH)
	}
	if got.TickRate != 120 {
		t.Errorf("Tick rate = %d, expected the coordinator's", got.TickRate)
	}
}

func TestCoordinatorDisconnectForfeits(t *testing.T) {
	game := &stubGame{score1: 40, score2: 10}
	c, registry := testCoordinator(game)
	host := NewChannelSession("host", 64)
	joiner := NewChannelSession("joiner", 64)
	registry.Register(host)
	registry.Register(joiner)

	code := createLobby(t, c, host)
	c.handleJoinLobby(JoinLobbyMsg{SessionID: joiner.ID(), Code: code})
	nextEvent(t, host)   // joined
	nextEvent(t, joiner) // joined
	nextEvent(t, host)   // started
	nextEvent(t, joiner) // started

	c.handleSessionDisconnected(SessionDisconnectedMsg{SessionID: joiner.ID()})

	end := waitForMatchEnded(t, host)
	if end.Reason != MatchEndReasonDisconnect {
		t.Errorf("End reason = %v", end.Reason)
	}
	if end.Winner != Player1 {
		t.Errorf("The remaining player should win, got %v", end.Winner)
	}
}

func TestCoordinatorCancelLobby(t *testing.T) {
	c, registry := testCoordinator(&stubGame{})
	host := NewChannelSession("host", 64)
	other := NewChannelSession("other", 64)
	registry.Register(host)
	registry.Register(other)

	code := createLobby(t, c, host)

	// Only the host can cancel
	c.handleCancelLobby(CancelLobbyMsg{SessionID: other.ID(), Code: code})
	if _, ok := c.GetLobby(code); !ok {
		t.Fatal("A stranger's cancel should be ignored")
	}

	c.handleCancelLobby(CancelLobbyMsg{SessionID: host.ID(), Code: code})
	if _, ok := c.GetLobby(code); ok {
		t.Error("The host's cancel should remove the lobby")
	}

	// The host is free to open a new one
	createLobby(t, c, host)
}

func TestCoordinatorHostLeaveDropsLobby(t *testing.T) {
	c, registry := testCoordinator(&stubGame{})
	host := NewChannelSession("host", 64)
	registry.Register(host)

	code := createLobby(t, c, host)
	c.handleLeaveLobby(LeaveLobbyMsg{SessionID: host.ID(), Code: code})
	if _, ok := c.GetLobby(code); ok {
		t.Error("The lobby should close when the host leaves")
	}
}

func TestCoordinatorExpiresStaleLobbies(t *testing.T) {
	c, registry := testCoordinator(&stubGame{})
	host := NewChannelSession("host", 64)
	registry.Register(host)

	code := createLobby(t, c, host)
	lobby, _ := c.GetLobby(code)
	lobby.CreatedAt = time.Now().Add(-3 * time.Minute)

	c.cleanupExpiredLobbies()

	if _, ok := c.GetLobby(code); ok {
		t.Error("A stale lobby should expire")
	}
	if evt, ok := nextEvent(t, host).(LobbyErrorEvent); !ok || evt.Message != "Lobby expired" {
		t.Errorf("Host should hear about the expiry, got %v", evt)
	}

	// Expiry frees the host to start over
	createLobby(t, c, host)
}

func TestCoordinatorInputRouting(t *testing.T) {
	game := &stubGame{}
	c, registry := testCoordinator(game)
	host := NewChannelSession("host", 64)
	joiner := NewChannelSession("joiner", 64)
	registry.Register(host)
	registry.Register(joiner)

	code := createLobby(t, c, host)
	c.handleJoinLobby(JoinLobbyMsg{SessionID: joiner.ID(), Code: code})
	nextEvent(t, host)
	nextEvent(t, joiner)
	start := nextEvent(t, host).(MatchStartedEvent)

	frame := core.NewInputFrame()
	frame.Set(core.ActionFire)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		c.handlePlayerInput(PlayerInputMsg{MatchID: start.MatchID, Player: Player2, Input: frame})
		if game.sawAction(Player2, core.ActionFire) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if !game.sawAction(Player2, core.ActionFire) {
		t.Error("Routed input never reached the game")
	}

	c.handleSessionDisconnected(SessionDisconnectedMsg{SessionID: host.ID()})
	waitForMatchEnded(t, joiner)

	// Input to a finished match is dropped quietly
	c.handlePlayerInput(PlayerInputMsg{MatchID: start.MatchID, Player: Player2, Input: frame})
}

func TestCoordinatorMessagePump(t *testing.T) {
	c, registry := testCoordinator(&stubGame{})
	host := NewChannelSession("host", 64)
	registry.Register(host)

	c.Start()
	defer c.Stop()

	c.Send(CreateLobbyMsg{SessionID: host.ID()})
	if _, ok := nextEvent(t, host).(LobbyCreatedEvent); !ok {
		t.Error("A message through the pump should create a lobby")
	}
}

func TestGenerateJoinCode(t *testing.T) {
	a := generateJoinCode()
	b := generateJoinCode()
	if len(a) != 6 || len(b) != 6 {
		t.Errorf("Codes %q/%q should be 6 characters", a, b)
	}
	if a == b {
		t.Errorf("Consecutive codes should differ, both %q", a)
	}
	for _, r := range a {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			t.Errorf("Code %q has an unexpected character %q", a, r)
		}
	}
}
