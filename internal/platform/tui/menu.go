package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-dandelions/internal/core"
	"github.com/vovakirdan/tui-dandelions/internal/games/dandelion"
	"github.com/vovakirdan/tui-dandelions/internal/storage"
)

// MenuChoice identifies what the user picked from the main menu.
type MenuChoice int

const (
	MenuChoiceNone MenuChoice = iota
	MenuChoicePlay
	MenuChoiceLevelSelect
	MenuChoiceEndless
	MenuChoiceDuel
	MenuChoiceScoreboard
	MenuChoiceQuit
)

// menuItem is one selectable row of the main menu.
type menuItem struct {
	Label  string
	Choice MenuChoice
}

// MenuModel is the Bubble Tea model for the main menu.
type MenuModel struct {
	items      []menuItem
	cursor     int
	width      int
	height     int
	store      *storage.Store
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	totalStars int
	nextLevel  *dandelion.LevelSpec
	bestScore  int
	quitting   bool
	choice     MenuChoice
}

// NewMenuModel creates the main menu. withDuel adds the Lawn Duel entry,
// which only the SSH-served sessions offer (a duel needs two connections).
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig, withDuel bool) MenuModel {
	items := []menuItem{
		{Label: "Play Campaign", Choice: MenuChoicePlay},
		{Label: "Level Select", Choice: MenuChoiceLevelSelect},
		{Label: "Endless Lawn", Choice: MenuChoiceEndless},
	}
	if withDuel {
		items = append(items, menuItem{Label: "Lawn Duel (online)", Choice: MenuChoiceDuel})
	}
	items = append(items,
		menuItem{Label: "High Scores", Choice: MenuChoiceScoreboard},
		menuItem{Label: "Quit", Choice: MenuChoiceQuit},
	)

	m := MenuModel{
		items:     items,
		cursor:    0,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		store:     store,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
	m.refreshStats()
	return m
}

// refreshStats reloads the progress summary shown under the title.
func (m *MenuModel) refreshStats() {
	m.totalStars = 0
	m.bestScore = 0
	m.nextLevel = dandelion.LevelByID(1)

	if m.store == nil {
		return
	}

	progress := LoadProgress(m.store, "dandelion")
	m.totalStars = progress.TotalStars()
	m.nextLevel = NextCampaignLevel(progress)

	if best, err := m.store.HighScore("dandelion-endless"); err == nil {
		m.bestScore = best
	}
}

// NextCampaignLevel picks the level Play Campaign starts: the first unlocked
// level not yet completed, or the last unlocked one when all are done.
func NextCampaignLevel(progress dandelion.ProgressSet) *dandelion.LevelSpec {
	var lastOpen *dandelion.LevelSpec
	for i := range dandelion.Levels {
		l := &dandelion.Levels[i]
		if !progress.Unlocked(l) {
			break
		}
		lastOpen = l
		if !progress.Get(l.ID).Completed {
			return l
		}
	}
	if lastOpen == nil {
		return dandelion.LevelByID(1)
	}
	return lastOpen
}

// NextLevelID returns the campaign level Play Campaign would launch.
func (m MenuModel) NextLevelID() int {
	if m.nextLevel == nil {
		return 1
	}
	return m.nextLevel.ID
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)

	switch action {
	case MenuActionQuit:
		m.quitting = true
		m.choice = MenuChoiceQuit
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		m.choice = m.items[m.cursor].Choice
		if m.choice == MenuChoiceQuit {
			m.quitting = true
		}
		return m, tea.Quit // Exit menu program; session flow reads Choice

	case MenuActionScoreboard:
		m.choice = MenuChoiceScoreboard
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("K I L L   A L L   D A N D E L I O N S", m.width))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("Stars: %d/%d", m.totalStars, 3*len(dandelion.Levels))
	if m.bestScore > 0 {
		stats += fmt.Sprintf("  |  Endless best: %d", m.bestScore)
	}
	b.WriteString(centerText(stats, m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		label := item.Label
		if item.Choice == MenuChoicePlay && m.nextLevel != nil {
			label = fmt.Sprintf("Play Campaign (L%d %s)", m.nextLevel.ID, m.nextLevel.Name)
		}

		b.WriteString(centerText(cursor+label, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// Choice returns what the user picked, MenuChoiceNone while still choosing.
func (m MenuModel) Choice() MenuChoice {
	return m.choice
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the standalone menu.
type MenuResult struct {
	Choice      MenuChoice
	NextLevelID int
	Config      core.RuntimeConfig
}

// RunMenu runs the menu standalone and returns the selection result.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig) (MenuResult, error) {
	model := NewMenuModel(store, cfg, false)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Choice: MenuChoiceQuit, Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Choice: MenuChoiceQuit, Config: cfg}, nil
	}

	result := MenuResult{
		Choice:      m.Choice(),
		NextLevelID: m.NextLevelID(),
		Config:      m.Config(),
	}
	if result.Choice == MenuChoiceNone {
		result.Choice = MenuChoiceQuit
	}

	return result, nil
}

// LoadProgress builds a campaign progress set from stored level results.
// Returns an empty set when the store is unavailable.
func LoadProgress(store *storage.Store, gameID string) dandelion.ProgressSet {
	progress := dandelion.ProgressSet{}
	if store == nil {
		return progress
	}

	entries, err := store.AllLevelProgress(gameID)
	if err != nil {
		return progress
	}
	for _, e := range entries {
		if e.Completed {
			progress.Record(e.LevelID, e.BestScore, e.BestTimeSecs, e.BestStars)
		}
	}
	return progress
}
