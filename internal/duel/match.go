package duel

import (
	"sync"
	"time"

	"github.com/vovakirdan/tui-dandelions/internal/core"
)

// Game is the interface the duel match loop drives. The dandelion duel
// implements it; tests use stubs.
type Game interface {
	// Reset initializes the game state.
	Reset(cfg core.RuntimeConfig)

	// StepMulti advances the game by one tick using input from both players.
	StepMulti(input core.MultiInputFrame) core.StepResult

	// Snapshot returns the current game state for network transmission.
	Snapshot() GameSnapshot

	// IsGameOver returns true if the duel has ended.
	IsGameOver() bool

	// Winner returns the winning player, or 0 on a draw or while running.
	Winner() PlayerID

	// Score1 returns Player 1's score.
	Score1() int

	// Score2 returns Player 2's score.
	Score2() int
}

// MatchResult contains the outcome of a completed duel.
type MatchResult struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  PlayerID // 0 on draw or disconnect without survivor
	Score1  int
	Score2  int
	Ticks   uint64
}

// Match is an active duel: the authoritative simulation plus both sessions.
type Match struct {
	id   MatchID
	code string
	game Game

	player1Session SessionHandle
	player2Session SessionHandle

	// Input handling
	inputMu    sync.Mutex
	lastInput1 core.InputFrame
	lastInput2 core.InputFrame
	inputChan  chan playerInput

	// Match state
	tick     uint64
	tickRate int
	done     chan struct{}
	doneOnce sync.Once

	// Disconnect handling
	disconnectChan chan SessionID
}

type playerInput struct {
	player PlayerID
	input  core.InputFrame
}

// NewMatch creates a new duel match.
func NewMatch(id MatchID, code string, game Game, p1Session, p2Session SessionHandle, tickRate int) *Match {
	return &Match{
		id:             id,
		code:           code,
		game:           game,
		player1Session: p1Session,
		player2Session: p2Session,
		lastInput1:     core.NewInputFrame(),
		lastInput2:     core.NewInputFrame(),
		inputChan:      make(chan playerInput, 64),
		tickRate:       tickRate,
		done:           make(chan struct{}),
		disconnectChan: make(chan SessionID, 2),
	}
}

// ID returns the match identifier.
func (m *Match) ID() MatchID {
	return m.id
}

// Code returns the join code this match was created from.
func (m *Match) Code() string {
	return m.code
}

// SendInput sends player input to the match.
// Non-blocking; a full buffer drops the input.
func (m *Match) SendInput(player PlayerID, input core.InputFrame) {
	select {
	case m.inputChan <- playerInput{player: player, input: input}:
	default:
	}
}

// PlayerDisconnected signals that a player has disconnected.
func (m *Match) PlayerDisconnected(sessionID SessionID) {
	select {
	case m.disconnectChan <- sessionID:
	default:
	}
}

// Run starts the authoritative match loop.
// The callback is called once when the match ends.
func (m *Match) Run(onComplete func(MatchResult)) {
	defer func() {
		m.doneOnce.Do(func() {
			close(m.done)
		})
	}()

	tickDuration := time.Second / time.Duration(m.tickRate)
	ticker := time.NewTicker(tickDuration)
	defer ticker.Stop()

	go m.monitorSessions()

	for {
		select {
		case <-ticker.C:
			result, done := m.runTick()
			if done {
				if onComplete != nil {
					onComplete(result)
				}
				return
			}

		case sessionID := <-m.disconnectChan:
			result := m.handleDisconnect(sessionID)
			if onComplete != nil {
				onComplete(result)
			}
			return

		case <-m.done:
			return
		}
	}
}

// Stop shuts down the match loop without a result callback.
func (m *Match) Stop() {
	m.doneOnce.Do(func() {
		close(m.done)
	})
}

func (m *Match) runTick() (MatchResult, bool) {
	m.drainInputs()

	m.inputMu.Lock()
	multiInput := core.NewMultiInputFrame()
	multiInput.SetPlayer(Player1, m.lastInput1.Clone())
	multiInput.SetPlayer(Player2, m.lastInput2.Clone())
	// Inputs are consumed by this tick
	m.lastInput1.Clear()
	m.lastInput2.Clear()
	m.inputMu.Unlock()

	m.game.StepMulti(multiInput)
	m.tick++

	snapshotEvent := SnapshotEvent{
		MatchID:  m.id,
		Tick:     m.tick,
		Snapshot: m.game.Snapshot(),
	}
	m.player1Session.Send(snapshotEvent)
	m.player2Session.Send(snapshotEvent)

	if m.game.IsGameOver() {
		return MatchResult{
			MatchID: m.id,
			Reason:  MatchEndReasonCompleted,
			Winner:  m.game.Winner(),
			Score1:  m.game.Score1(),
			Score2:  m.game.Score2(),
			Ticks:   m.tick,
		}, true
	}

	return MatchResult{}, false
}

func (m *Match) drainInputs() {
	m.inputMu.Lock()
	defer m.inputMu.Unlock()

	for {
		select {
		case pi := <-m.inputChan:
			// Merge frames received within one tick: OR the actions together
			// and keep the latest pointer position.
			dst := &m.lastInput1
			if pi.player == Player2 {
				dst = &m.lastInput2
			}
			for action, pressed := range pi.input.Actions {
				if pressed {
					dst.Set(action)
				}
			}
			if x, y, ok := pi.input.Pointer(); ok {
				dst.SetPointer(x, y)
			}
		default:
			return
		}
	}
}

func (m *Match) handleDisconnect(sessionID SessionID) MatchResult {
	winner := Player1
	if sessionID == m.player1Session.ID() {
		winner = Player2
	}

	return MatchResult{
		MatchID: m.id,
		Reason:  MatchEndReasonDisconnect,
		Winner:  winner,
		Score1:  m.game.Score1(),
		Score2:  m.game.Score2(),
		Ticks:   m.tick,
	}
}

// monitorSessions watches both session done channels and reports disconnects.
func (m *Match) monitorSessions() {
	select {
	case <-m.player1Session.Done():
		m.PlayerDisconnected(m.player1Session.ID())
	case <-m.player2Session.Done():
		m.PlayerDisconnected(m.player2Session.ID())
	case <-m.done:
	}
}
