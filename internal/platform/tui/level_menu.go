package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-dandelions/internal/core"
	"github.com/vovakirdan/tui-dandelions/internal/games/dandelion"
	"github.com/vovakirdan/tui-dandelions/internal/storage"
)

// LevelSelectModel lets the user pick a campaign level. Locked levels show
// their unlock requirement and cannot be started.
type LevelSelectModel struct {
	progress  dandelion.ProgressSet
	cursor    int
	width     int
	height    int
	keyMapper *KeyMapper
	selected  int    // Chosen level ID, 0 while still choosing
	notice    string // Shown when trying to start a locked level
	back      bool
	quitting  bool
}

// NewLevelSelectModel creates a level select model with progress from storage.
func NewLevelSelectModel(store *storage.Store, width, height int) LevelSelectModel {
	return LevelSelectModel{
		progress:  LoadProgress(store, "dandelion"),
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the model.
func (m LevelSelectModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m LevelSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m LevelSelectModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)

	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
			m.notice = ""
		}
	case MenuActionDown:
		if m.cursor < len(dandelion.Levels)-1 {
			m.cursor++
			m.notice = ""
		}
	case MenuActionSelect:
		level := &dandelion.Levels[m.cursor]
		if !m.progress.Unlocked(level) {
			m.notice = fmt.Sprintf("Locked: earn %d stars through level %d first",
				level.RequiredStars, level.RequiredLevel)
			return m, nil
		}
		m.selected = level.ID
		return m, tea.Quit
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the level list.
func (m LevelSelectModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("SELECT LEVEL", m.width))
	b.WriteString("\n")
	b.WriteString(centerText(fmt.Sprintf("Total stars: %d", m.progress.TotalStars()), m.width))
	b.WriteString("\n\n")

	for i := range dandelion.Levels {
		level := &dandelion.Levels[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		line := fmt.Sprintf("%s%2d. %-34s %s", cursor, level.ID, level.Name, m.levelStatus(level))
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(centerText(m.notice, m.width))
		b.WriteString("\n")
	}
	b.WriteString(centerText("Enter: Play  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

// levelStatus renders the right-hand column: stars and best score, or the
// unlock requirement for locked levels.
func (m LevelSelectModel) levelStatus(level *dandelion.LevelSpec) string {
	if !m.progress.Unlocked(level) {
		return fmt.Sprintf("locked (%d* through L%d)", level.RequiredStars, level.RequiredLevel)
	}

	p := m.progress.Get(level.ID)
	if !p.Completed {
		return fmt.Sprintf("[%s] target %d pts", starsCell(0), level.TargetPoints)
	}
	return fmt.Sprintf("[%s] best %d pts in %s", starsCell(p.BestStars), p.BestScore, fmtMenuTime(p.BestTimeSecs))
}

// starsCell renders 0-3 stars as a fixed three-rune cell.
func starsCell(n int) string {
	var b strings.Builder
	for i := 0; i < 3; i++ {
		if i < n {
			b.WriteByte('*')
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

// fmtMenuTime formats seconds as m:ss.
func fmtMenuTime(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// Selected returns the chosen level ID, 0 if none chosen.
func (m LevelSelectModel) Selected() int {
	return m.selected
}

// WantsBack returns true if user pressed back.
func (m LevelSelectModel) WantsBack() bool {
	return m.back
}

// IsQuitting returns true if user wants to quit.
func (m LevelSelectModel) IsQuitting() bool {
	return m.quitting
}

// LevelSelectResult is the outcome of the standalone level select screen.
type LevelSelectResult struct {
	LevelID int // 0 when the user backed out or quit
	Quit    bool
	Config  core.RuntimeConfig
}

// RunLevelSelect runs the level select screen standalone.
func RunLevelSelect(store *storage.Store, cfg core.RuntimeConfig) (LevelSelectResult, error) {
	model := NewLevelSelectModel(store, cfg.ScreenW, cfg.ScreenH)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return LevelSelectResult{Quit: true, Config: cfg}, err
	}

	m, ok := finalModel.(LevelSelectModel)
	if !ok {
		return LevelSelectResult{Quit: true, Config: cfg}, nil
	}

	return LevelSelectResult{
		LevelID: m.Selected(),
		Quit:    m.IsQuitting(),
		Config:  cfg,
	}, nil
}
