package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-dandelions/internal/core"
	"github.com/vovakirdan/tui-dandelions/internal/games/dandelion"
	"github.com/vovakirdan/tui-dandelions/internal/platform/tui"
	"github.com/vovakirdan/tui-dandelions/internal/registry"
	"github.com/vovakirdan/tui-dandelions/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the game with an interactive menu",
	Long: `Start Kill All Dandelions in interactive menu mode.

The menu offers the campaign (resuming at your next level), a level select
screen, endless mode, and the scoreboard. After a run ends you return to the
menu. Lawn Duels are only available on a served instance (dandelions serve),
since they need two connected players.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Tab          - Scoreboard
  Q            - Quit

Examples:
  dandelions menu
  dandelions menu --fps 30
  dandelions menu --db ./scores.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	if err := applyGameFlags(); err != nil {
		return err
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	cfg := terminalConfig()

	// Menu loop
	for {
		result, err := tui.RunMenu(store, cfg)
		if err != nil {
			return err
		}

		// Update config with any size changes
		cfg = result.Config

		switch result.Choice {
		case tui.MenuChoicePlay:
			if err := launchCampaign(store, &cfg, result.NextLevelID); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		case tui.MenuChoiceLevelSelect:
			sel, selErr := tui.RunLevelSelect(store, cfg)
			if selErr != nil {
				return selErr
			}
			cfg = sel.Config
			if sel.Quit {
				return nil
			}
			if sel.LevelID > 0 {
				if err := launchCampaign(store, &cfg, sel.LevelID); err != nil {
					fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				}
			}
			// LevelID 0 means back: loop to the menu

		case tui.MenuChoiceEndless:
			if err := launchGame(store, &cfg, "dandelion-endless"); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		case tui.MenuChoiceScoreboard:
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if !goBack {
				return nil
			}

		default:
			// Quit or closed menu
			return nil
		}
	}
}

// launchCampaign starts a campaign run at the given level after an unlock check.
func launchCampaign(store *storage.Store, cfg *core.RuntimeConfig, levelID int) error {
	progress := tui.LoadProgress(store, "dandelion")
	level := dandelion.LevelByID(levelID)
	if level == nil {
		return fmt.Errorf("unknown level %d", levelID)
	}
	if !progress.Unlocked(level) {
		return fmt.Errorf("level %d is locked: earn %d stars through level %d first",
			level.ID, level.RequiredStars, level.RequiredLevel)
	}

	dandelion.SetStartLevel(level.ID)
	dandelion.SetUnlockedStars(progress.TotalStars())
	return launchGame(store, cfg, "dandelion")
}

// launchGame creates and runs a registered game mode, reseeding each run.
func launchGame(store *storage.Store, cfg *core.RuntimeConfig, gameID string) error {
	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	cfg.Seed = time.Now().UnixNano()
	return tui.Run(game, store, *cfg)
}
