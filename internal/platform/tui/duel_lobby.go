package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-dandelions/internal/core"
	"github.com/vovakirdan/tui-dandelions/internal/duel"
	"github.com/vovakirdan/tui-dandelions/internal/games/dandelion"
)

// LobbyState represents the current step of the duel matchmaking flow.
type LobbyState int

const (
	LobbyStateChooseMode    LobbyState = iota // Choose Host or Join
	LobbyStateHostWaiting                     // Hosting, waiting for joiner
	LobbyStateJoinEnterCode                   // Entering join code
	LobbyStateJoinWaiting                     // Waiting to connect to host
	LobbyStateStarted                         // Match is starting
)

// DuelLobbyModel handles the duel matchmaking flow inside a served session.
// Coordinator events are routed to it by the session model.
type DuelLobbyModel struct {
	state       LobbyState
	width       int
	height      int
	keyMapper   *KeyMapper
	sessionID   duel.SessionID
	coordinator *duel.Coordinator

	// Host state
	lobbyCode string

	// Join state
	joinCodeInput string
	joinError     string

	// Set when the coordinator starts the match
	matchID    duel.MatchID
	side       core.PlayerID
	opponentID duel.SessionID

	backToMenu bool
	quitting   bool
}

// NewDuelLobbyModel creates a new duel lobby model.
func NewDuelLobbyModel(sessionID duel.SessionID, coordinator *duel.Coordinator, width, height int) DuelLobbyModel {
	return DuelLobbyModel{
		state:       LobbyStateChooseMode,
		width:       width,
		height:      height,
		keyMapper:   NewKeyMapper(),
		sessionID:   sessionID,
		coordinator: coordinator,
	}
}

// Init initializes the lobby model.
func (m DuelLobbyModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m DuelLobbyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case duel.LobbyCreatedEvent:
		m.lobbyCode = msg.Code
		m.state = LobbyStateHostWaiting
		return m, nil
	case duel.LobbyJoinedEvent:
		m.side = msg.Side
		m.opponentID = msg.OpponentID
		return m, nil
	case duel.LobbyErrorEvent:
		m.joinError = msg.Message
		if m.state == LobbyStateJoinWaiting {
			m.state = LobbyStateJoinEnterCode
		}
		return m, nil
	case duel.LobbyPlayerLeftEvent:
		// Joiner backed out while we host: keep waiting for another one
		return m, nil
	case duel.MatchStartedEvent:
		m.matchID = msg.MatchID
		m.side = msg.Side
		m.state = LobbyStateStarted
		return m, nil
	}
	return m, nil
}

func (m DuelLobbyModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.leaveCurrentLobby()
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case LobbyStateChooseMode:
		return m.handleChooseModeKey(msg)
	case LobbyStateHostWaiting:
		return m.handleHostWaitingKey(msg)
	case LobbyStateJoinEnterCode:
		return m.handleJoinCodeKey(msg)
	case LobbyStateJoinWaiting:
		return m.handleJoinWaitingKey(msg)
	}

	return m, nil
}

// leaveCurrentLobby tells the coordinator to drop whatever lobby this
// session is part of. Safe to call in any state.
func (m *DuelLobbyModel) leaveCurrentLobby() {
	switch m.state {
	case LobbyStateHostWaiting:
		m.coordinator.Send(duel.CancelLobbyMsg{
			SessionID: m.sessionID,
			Code:      m.lobbyCode,
		})
	case LobbyStateJoinWaiting:
		m.coordinator.Send(duel.LeaveLobbyMsg{
			SessionID: m.sessionID,
			Code:      m.joinCodeInput,
		})
	}
}

func (m DuelLobbyModel) handleChooseModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "H", "1":
		m.coordinator.Send(duel.CreateLobbyMsg{
			SessionID: m.sessionID,
		})
		return m, nil
	case "j", "J", "2":
		m.state = LobbyStateJoinEnterCode
		m.joinCodeInput = ""
		m.joinError = ""
		return m, nil
	case "esc", "b":
		m.backToMenu = true
		return m, nil
	case "q":
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m DuelLobbyModel) handleHostWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		m.leaveCurrentLobby()
		m.backToMenu = true
		return m, nil
	case "q":
		m.leaveCurrentLobby()
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m DuelLobbyModel) handleJoinCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "esc", "b":
		m.backToMenu = true
		return m, nil
	case "enter":
		if m.joinCodeInput != "" {
			m.state = LobbyStateJoinWaiting
			m.joinError = ""
			m.coordinator.Send(duel.JoinLobbyMsg{
				SessionID: m.sessionID,
				Code:      m.joinCodeInput,
			})
			return m, nil
		}
	case "backspace":
		if m.joinCodeInput != "" {
			m.joinCodeInput = m.joinCodeInput[:len(m.joinCodeInput)-1]
		}
	default:
		// Accept alphanumeric input for the code
		if len(key) == 1 && len(m.joinCodeInput) < 6 {
			c := strings.ToUpper(key)
			if (c[0] >= 'A' && c[0] <= 'Z') || (c[0] >= '0' && c[0] <= '9') {
				m.joinCodeInput += c
			}
		}
	}

	return m, nil
}

func (m DuelLobbyModel) handleJoinWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		m.leaveCurrentLobby()
		m.state = LobbyStateJoinEnterCode
		return m, nil
	}

	return m, nil
}

// View renders the current state.
func (m DuelLobbyModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case LobbyStateChooseMode:
		return m.viewChooseMode()
	case LobbyStateHostWaiting:
		return m.viewHostWaiting()
	case LobbyStateJoinEnterCode:
		return m.viewJoinEnterCode()
	case LobbyStateJoinWaiting:
		return m.viewJoinWaiting()
	case LobbyStateStarted:
		return m.viewStarted()
	}

	return ""
}

func (m DuelLobbyModel) viewChooseMode() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("LAWN DUEL", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Race a rival to mow the same lawn.", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("[H] Host a duel", m.width))
	b.WriteString("\n")
	b.WriteString(centerText("[J] Join with a code", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

func (m DuelLobbyModel) viewHostWaiting() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("HOSTING DUEL", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Share this code with your rival:", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("[ %s ]", m.lobbyCode), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Waiting for a player to join...", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Esc: Cancel  |  Q: Quit", m.width))

	return b.String()
}

func (m DuelLobbyModel) viewJoinEnterCode() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("JOIN DUEL", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Enter the duel code:", m.width))
	b.WriteString("\n\n")

	// Display code input with cursor
	codeDisplay := m.joinCodeInput
	if len(codeDisplay) < 6 {
		codeDisplay += "_"
		codeDisplay += strings.Repeat(" ", 5-len(m.joinCodeInput))
	}
	b.WriteString(centerText(fmt.Sprintf("[ %s ]", codeDisplay), m.width))
	b.WriteString("\n")

	if m.joinError != "" {
		b.WriteString("\n")
		b.WriteString(centerText(fmt.Sprintf("Error: %s", m.joinError), m.width))
	}

	b.WriteString("\n\n")
	b.WriteString(centerText("Enter: Connect  |  Esc: Back", m.width))

	return b.String()
}

func (m DuelLobbyModel) viewJoinWaiting() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("CONNECTING", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("Joining duel: %s", m.joinCodeInput), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Please wait...", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Esc: Cancel", m.width))

	return b.String()
}

func (m DuelLobbyModel) viewStarted() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("DUEL STARTING", m.width))
	b.WriteString("\n\n")

	sideText := "Player 1 (cyan crosshair)"
	if m.side == core.Player2 {
		sideText = "Player 2 (cyan crosshair)"
	}
	b.WriteString(centerText(fmt.Sprintf("You are: %s", sideText), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("First to the target score wins. Mow!", m.width))

	return b.String()
}

// State returns the current lobby state.
func (m DuelLobbyModel) State() LobbyState {
	return m.state
}

// Started returns true once the coordinator has launched the match.
func (m DuelLobbyModel) Started() bool {
	return m.state == LobbyStateStarted
}

// BackToMenu returns true if user wants to go back to menu.
func (m DuelLobbyModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m DuelLobbyModel) IsQuitting() bool {
	return m.quitting
}

// MatchID returns the match ID once the match has started.
func (m DuelLobbyModel) MatchID() duel.MatchID {
	return m.matchID
}

// Side returns which player this session controls in the match.
func (m DuelLobbyModel) Side() core.PlayerID {
	return m.side
}

// DuelMatchModel renders an active duel from relayed snapshots and forwards
// the local player's input to the coordinator. It never simulates locally:
// the match goroutine is authoritative.
type DuelMatchModel struct {
	screen      *core.Screen
	coordinator *duel.Coordinator
	sessionID   duel.SessionID
	matchID     duel.MatchID
	side        core.PlayerID
	keyMapper   *KeyMapper
	width       int
	height      int

	snap     dandelion.DuelSnapshot
	haveSnap bool
	ended    *duel.MatchEndedEvent

	backToMenu bool
	quitting   bool
}

// NewDuelMatchModel creates a model for an active duel.
func NewDuelMatchModel(sessionID duel.SessionID, coordinator *duel.Coordinator, matchID duel.MatchID, side core.PlayerID, width, height int) DuelMatchModel {
	return DuelMatchModel{
		screen:      core.NewScreen(width, height),
		coordinator: coordinator,
		sessionID:   sessionID,
		matchID:     matchID,
		side:        side,
		keyMapper:   NewKeyMapper(),
		width:       width,
		height:      height,
	}
}

// Init initializes the match model.
func (m DuelMatchModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m DuelMatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var frame core.InputFrame
		m.keyMapper.MapMouseToFrame(msg, &frame)
		m.sendInput(frame)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case duel.SnapshotEvent:
		if msg.MatchID != m.matchID {
			return m, nil
		}
		if snap, ok := msg.Snapshot.(dandelion.DuelSnapshot); ok {
			m.snap = snap
			m.haveSnap = true
		}
		return m, nil

	case duel.MatchEndedEvent:
		if msg.MatchID != m.matchID {
			return m, nil
		}
		ended := msg
		m.ended = &ended
		return m, nil
	}

	return m, nil
}

func (m DuelMatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" || key == "q" {
		if m.ended == nil {
			m.coordinator.Send(duel.LeaveMatchMsg{
				SessionID: m.sessionID,
				MatchID:   m.matchID,
			})
		}
		m.quitting = true
		return m, tea.Quit
	}

	if key == "esc" || key == "b" {
		if m.ended == nil {
			// Forfeit: leaving a live match hands the win to the rival
			m.coordinator.Send(duel.LeaveMatchMsg{
				SessionID: m.sessionID,
				MatchID:   m.matchID,
			})
		}
		m.backToMenu = true
		return m, nil
	}

	if m.ended != nil {
		return m, nil
	}

	var frame core.InputFrame
	if m.keyMapper.MapKeyToFrame(msg, &frame) {
		return m, nil
	}
	m.sendInput(frame)

	return m, nil
}

// sendInput forwards a non-empty input frame to the coordinator.
func (m *DuelMatchModel) sendInput(frame core.InputFrame) {
	if len(frame.Actions) == 0 && !frame.PointerSet {
		return
	}
	m.coordinator.Send(duel.PlayerInputMsg{
		MatchID: m.matchID,
		Player:  m.side,
		Input:   frame,
	})
}

// View renders the latest snapshot, or the end screen after a non-scored end.
func (m DuelMatchModel) View() string {
	if m.quitting {
		return ""
	}

	if m.ended != nil && !(m.haveSnap && m.snap.GameOver) {
		return m.viewEnded()
	}

	if !m.haveSnap {
		var b strings.Builder
		b.WriteString("\n")
		b.WriteString(centerText("DUEL IN PROGRESS", m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText("Waiting for the first tick...", m.width))
		return b.String()
	}

	m.screen.Clear()
	dandelion.RenderDuelSnapshot(m.screen, m.snap, m.side)
	return RenderScreen(m.screen)
}

// viewEnded covers match ends that never produced a final game-over snapshot
// (disconnects, forfeits).
func (m DuelMatchModel) viewEnded() string {
	var b strings.Builder

	title := "DUEL OVER"
	detail := ""
	switch {
	case m.ended.Reason == duel.MatchEndReasonCompleted && m.ended.Winner == 0:
		detail = "It's a draw."
	case m.ended.Winner == m.side:
		detail = "You win! Your rival is gone."
	default:
		detail = "Your rival takes the lawn."
	}

	b.WriteString("\n")
	b.WriteString(centerText(title, m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(detail, m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("Final score: %d - %d", m.ended.Score1, m.ended.Score2), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Esc: Back to menu", m.width))

	return b.String()
}

// BackToMenu returns true if user wants to go back to menu.
func (m DuelMatchModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m DuelMatchModel) IsQuitting() bool {
	return m.quitting
}
