package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-dandelions/internal/games/dandelion"
	"github.com/vovakirdan/tui-dandelions/internal/platform/tui"
	"github.com/vovakirdan/tui-dandelions/internal/registry"
	"github.com/vovakirdan/tui-dandelions/internal/storage"
)

var (
	flagLevel   int
	flagEndless bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play Kill All Dandelions",
	Long: `Start the game directly: the campaign by default, endless mode with --endless.

Without --level the campaign resumes at the first unlocked level you have not
completed yet. Locked levels need stars from earlier levels first.

Controls:
  Mouse        - Move crosshair, left-click to strike
  WASD/Arrows  - Move crosshair
  Space/X      - Strike
  P            - Pause
  R            - Restart (after game over)
  Q/Ctrl+C     - Quit

Difficulty presets:
  easy   - Slower spawns, longer combo window
  normal - Default pacing
  hard   - Faster spawns, tighter combos
  fixed  - Endless difficulty stays at the config's initial level

Examples:
  dandelions play
  dandelions play --level 3
  dandelions play --endless
  dandelions play --endless --preset hard
  dandelions play --config ./my-lawn.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Campaign level to play (default: first incomplete)")
	playCmd.Flags().BoolVar(&flagEndless, "endless", false, "Play endless mode instead of the campaign")
}

func runPlay(_ *cobra.Command, _ []string) error {
	if flagEndless && flagLevel > 0 {
		return fmt.Errorf("--level and --endless are mutually exclusive")
	}

	if err := applyGameFlags(); err != nil {
		return err
	}

	cfg := terminalConfig()

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	gameID := "dandelion-endless"
	if !flagEndless {
		gameID = "dandelion"

		progress := tui.LoadProgress(store, "dandelion")
		level := dandelion.LevelByID(flagLevel)
		if flagLevel == 0 {
			level = tui.NextCampaignLevel(progress)
		}
		if level == nil {
			return fmt.Errorf("unknown level %d: the campaign has levels 1-%d", flagLevel, dandelion.LevelCount())
		}
		if !progress.Unlocked(level) {
			return fmt.Errorf("level %d is locked: earn %d stars through level %d first",
				level.ID, level.RequiredStars, level.RequiredLevel)
		}

		dandelion.SetStartLevel(level.ID)
		dandelion.SetUnlockedStars(progress.TotalStars())
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	if err := tui.Run(game, store, cfg); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
