// Package tui provides terminal UI components including SSH server support via Wish.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-dandelions/internal/core"
	"github.com/vovakirdan/tui-dandelions/internal/duel"
	"github.com/vovakirdan/tui-dandelions/internal/games/dandelion"
	"github.com/vovakirdan/tui-dandelions/internal/registry"
	"github.com/vovakirdan/tui-dandelions/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.dandelions/host_key.
	HostKeyPath string

	// DBPath is the path to the scores database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.dandelions/scores.db",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer wraps a Wish SSH server serving the game over terminals.
// It owns the duel coordinator shared by all connected sessions.
type SSHServer struct {
	config      SSHServerConfig
	server      *ssh.Server
	store       *storage.Store
	logger      *log.Logger
	sessions    *duel.SessionRegistry
	coordinator *duel.Coordinator
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "dandelions-ssh",
	})

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		// Continue without storage
	}

	// Duel infrastructure shared by all sessions
	sessions := duel.NewSessionRegistry()
	coordinator := duel.NewCoordinator(
		duel.DefaultCoordinatorConfig(),
		func(cfg core.RuntimeConfig) (duel.Game, error) {
			d := dandelion.NewDuel()
			d.Reset(cfg)
			return d, nil
		},
		sessions,
	)
	if store != nil {
		coordinator.SetResultSaver(store)
	}

	srv := &SSHServer{
		config:      cfg,
		store:       store,
		logger:      logger,
		sessions:    sessions,
		coordinator: coordinator,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".dandelions", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Create Wish server options
	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	// Create the server
	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	// Create runtime config from PTY size
	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: 60,
		Seed:     time.Now().UnixNano(),
	}

	// Register a duel session handle; the coordinator delivers lobby and
	// match events through it.
	sessionID := duel.SessionID(fmt.Sprintf("%s-%d", sshSession.User(), time.Now().UnixNano()))
	chSession := duel.NewChannelSession(sessionID, 64)
	s.sessions.Register(chSession)

	// Tear the handle down when the connection drops, so live matches
	// resolve instead of hanging.
	go func() {
		<-sshSession.Context().Done()
		s.coordinator.Send(duel.SessionDisconnectedMsg{SessionID: sessionID})
		s.sessions.Unregister(sessionID)
		chSession.Close()
	}()

	model := NewSessionModel(s.store, cfg, sshSession.User(), chSession, s.coordinator)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)
	s.coordinator.Start()

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.coordinator.Stop()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// sessionScreen identifies which view a served session is on.
type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenLevelSelect
	screenGame
	screenScoreboard
	screenDuelLobby
	screenDuelMatch
)

// SessionModel manages the full session flow for one connected player:
// menu, level select, game runs, scoreboard, and duels.
type SessionModel struct {
	store       *storage.Store
	config      core.RuntimeConfig
	username    string
	sessionID   duel.SessionID
	session     *duel.ChannelSession
	coordinator *duel.Coordinator

	screen     sessionScreen
	menu       MenuModel
	levelMenu  LevelSelectModel
	scoreboard ScoreboardModel
	gameModel  *GameModel
	lobby      *DuelLobbyModel
	duelMatch  *DuelMatchModel

	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(store *storage.Store, cfg core.RuntimeConfig, username string, session *duel.ChannelSession, coordinator *duel.Coordinator) SessionModel {
	return SessionModel{
		store:       store,
		config:      cfg,
		username:    username,
		sessionID:   session.ID(),
		session:     session,
		coordinator: coordinator,
		screen:      screenMenu,
		menu:        NewMenuModel(store, cfg, true),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return tea.Batch(m.menu.Init(), m.waitForEvent())
}

// waitForEvent returns a command that waits for the next coordinator event.
// It re-arms itself through handleDuelEvent for the whole session lifetime.
func (m SessionModel) waitForEvent() tea.Cmd {
	if m.session == nil {
		return nil
	}
	events := m.session.Events()
	done := m.session.Done()
	return func() tea.Msg {
		select {
		case evt, ok := <-events:
			if !ok {
				return nil
			}
			return evt
		case <-done:
			return nil
		}
	}
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Track window size globally so every screen starts with the right one
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	// Coordinator events route to the duel screens regardless of input focus
	if evt, ok := msg.(duel.SessionEvent); ok {
		return m.handleDuelEvent(evt)
	}

	switch m.screen {
	case screenMenu:
		return m.updateMenu(msg)
	case screenLevelSelect:
		return m.updateLevelSelect(msg)
	case screenGame:
		return m.updateGame(msg)
	case screenScoreboard:
		return m.updateScoreboard(msg)
	case screenDuelLobby:
		return m.updateLobby(msg)
	case screenDuelMatch:
		return m.updateDuelMatch(msg)
	}

	return m, nil
}

// handleDuelEvent feeds a coordinator event to the active duel screen and
// re-arms the event pump.
func (m SessionModel) handleDuelEvent(evt duel.SessionEvent) (tea.Model, tea.Cmd) {
	switch m.screen {
	case screenDuelLobby:
		if m.lobby != nil {
			newLobby, _ := m.lobby.Update(evt)
			if lm, ok := newLobby.(DuelLobbyModel); ok {
				*m.lobby = lm
			}
			if m.lobby.Started() {
				match := NewDuelMatchModel(m.sessionID, m.coordinator, m.lobby.MatchID(), m.lobby.Side(), m.config.ScreenW, m.config.ScreenH)
				m.duelMatch = &match
				m.lobby = nil
				m.screen = screenDuelMatch
			}
		}
	case screenDuelMatch:
		if m.duelMatch != nil {
			newMatch, _ := m.duelMatch.Update(evt)
			if dm, ok := newMatch.(DuelMatchModel); ok {
				*m.duelMatch = dm
			}
		}
	default:
		// Stale events (e.g. a match that ended after we left) are dropped
	}

	return m, m.waitForEvent()
}

// toMenu recreates the menu screen; stats under the title refresh from storage.
func (m *SessionModel) toMenu() tea.Cmd {
	m.menu = NewMenuModel(m.store, m.config, true)
	m.screen = screenMenu
	m.gameModel = nil
	m.lobby = nil
	m.duelMatch = nil
	return m.menu.Init()
}

// updateMenu handles updates while on the main menu.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.menu.Choice() {
	case MenuChoicePlay:
		return m.startCampaign(m.menu.NextLevelID())

	case MenuChoiceLevelSelect:
		m.levelMenu = NewLevelSelectModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenLevelSelect
		return m, m.levelMenu.Init()

	case MenuChoiceEndless:
		return m.startGame("dandelion-endless")

	case MenuChoiceDuel:
		lobby := NewDuelLobbyModel(m.sessionID, m.coordinator, m.config.ScreenW, m.config.ScreenH)
		m.lobby = &lobby
		m.screen = screenDuelLobby
		return m, nil

	case MenuChoiceScoreboard:
		m.scoreboard = NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenScoreboard
		return m, nil

	case MenuChoiceQuit:
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// startCampaign configures the campaign game for the given level and runs it.
func (m SessionModel) startCampaign(levelID int) (tea.Model, tea.Cmd) {
	progress := LoadProgress(m.store, "dandelion")
	level := dandelion.LevelByID(levelID)
	if level == nil || !progress.Unlocked(level) {
		// Menus only offer unlocked levels, so this is a stale selection
		return m, m.toMenu()
	}

	dandelion.SetStartLevel(levelID)
	dandelion.SetUnlockedStars(progress.TotalStars())
	return m.startGame("dandelion")
}

// startGame creates and launches a registered game.
func (m SessionModel) startGame(gameID string) (tea.Model, tea.Cmd) {
	game, err := registry.Create(gameID)
	if err != nil {
		return m, m.toMenu()
	}

	cfg := m.config
	cfg.Seed = time.Now().UnixNano()

	gameModel := NewGameModel(game, m.store, cfg)
	m.gameModel = &gameModel
	m.screen = screenGame

	return m, m.gameModel.Init()
}

// updateLevelSelect handles updates while picking a level.
func (m SessionModel) updateLevelSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.levelMenu.Update(msg)
	if lm, ok := newModel.(LevelSelectModel); ok {
		m.levelMenu = lm
	}

	if m.levelMenu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.levelMenu.WantsBack() {
		return m, m.toMenu()
	}
	if id := m.levelMenu.Selected(); id > 0 {
		return m.startCampaign(id)
	}

	return m, cmd
}

// updateGame handles updates while a game runs.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.gameModel == nil {
		return m, m.toMenu()
	}

	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.gameModel = &gameModel
	}

	if m.gameModel.BackToMenu() {
		return m, m.toMenu()
	}
	if m.gameModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// updateScoreboard handles updates while viewing scores.
func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scoreboard.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scoreboard = sb
	}

	if m.scoreboard.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scoreboard.IsGoingBack() {
		return m, m.toMenu()
	}

	return m, cmd
}

// updateLobby handles updates while in the duel lobby.
func (m SessionModel) updateLobby(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.lobby == nil {
		return m, m.toMenu()
	}

	newModel, cmd := m.lobby.Update(msg)
	if lm, ok := newModel.(DuelLobbyModel); ok {
		*m.lobby = lm
	}

	if m.lobby.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.lobby.BackToMenu() {
		return m, m.toMenu()
	}

	return m, cmd
}

// updateDuelMatch handles updates while a duel runs.
func (m SessionModel) updateDuelMatch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.duelMatch == nil {
		return m, m.toMenu()
	}

	newModel, cmd := m.duelMatch.Update(msg)
	if dm, ok := newModel.(DuelMatchModel); ok {
		*m.duelMatch = dm
	}

	if m.duelMatch.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.duelMatch.BackToMenu() {
		return m, m.toMenu()
	}

	return m, cmd
}

// View renders the active screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenMenu:
		return m.menu.View()
	case screenLevelSelect:
		return m.levelMenu.View()
	case screenGame:
		if m.gameModel != nil {
			return m.gameModel.View()
		}
	case screenScoreboard:
		return m.scoreboard.View()
	case screenDuelLobby:
		if m.lobby != nil {
			return m.lobby.View()
		}
	case screenDuelMatch:
		if m.duelMatch != nil {
			return m.duelMatch.View()
		}
	}

	return ""
}
