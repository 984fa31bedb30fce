// dandelions is Kill All Dandelions: a lawn-defense arcade game for the terminal.
//
// Usage:
//
//	dandelions menu           - Interactive menu (campaign, endless, scoreboard)
//	dandelions play           - Jump straight into the campaign
//	dandelions play --endless - Endless mode
//	dandelions levels         - Campaign progress table
//	dandelions scores         - High score table
//	dandelions serve          - SSH server for remote play and Lawn Duels
//	dandelions list           - List registered game modes
//
// Global flags:
//
//	--fps <rate>      - Set tick rate (default: 60)
//	--seed <value>    - Set RNG seed for reproducible gameplay
//	--db <path>       - Set database path (default: ~/.dandelions/scores.db)
//	--config <path>   - Path to custom game config YAML
//	--preset <name>   - Difficulty preset: easy, normal, hard, fixed
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-dandelions/internal/config"
	"github.com/vovakirdan/tui-dandelions/internal/core"
	"github.com/vovakirdan/tui-dandelions/internal/games/dandelion"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
	flagConfig string
	flagPreset string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dandelions",
	Short: "Kill All Dandelions - defend your lawn in the terminal",
	Long: `Kill All Dandelions is a terminal arcade game: dandelions sprout on your
lawn and you click (or aim a crosshair) to destroy them before they take over.

Available commands:
  menu     - Interactive menu: campaign, endless mode, scoreboard
  play     - Play directly (campaign or endless)
  levels   - Show campaign progress: stars, best scores, locks
  scores   - View high scores
  serve    - Start SSH server for remote play and two-player Lawn Duels
  list     - Show registered game modes

Examples:
  dandelions menu
  dandelions play --level 3
  dandelions play --endless --preset hard
  dandelions serve --addr :2222
  dandelions scores --top 5`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.dandelions/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Difficulty preset: easy, normal, hard, fixed")

	// Add subcommands
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
}

// applyGameFlags validates and applies the global --config and --preset flags
// to the game package. An explicit config path that fails to load is fatal;
// the fallback chain inside the game handles everything else.
func applyGameFlags() error {
	if flagConfig != "" {
		if _, err := config.LoadDandelion(flagConfig); err != nil {
			return err
		}
	}
	if flagPreset != "" {
		switch config.DifficultyPreset(flagPreset) {
		case config.DifficultyEasy, config.DifficultyNormal, config.DifficultyHard, config.DifficultyFixed:
		default:
			return fmt.Errorf("unknown preset %q: use easy, normal, hard, or fixed", flagPreset)
		}
	}

	dandelion.SetConfigPath(flagConfig)
	dandelion.SetDifficultyPreset(config.DifficultyPreset(flagPreset))
	return nil
}

// terminalConfig builds a runtime config from the current terminal size
// and the global flags.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}
