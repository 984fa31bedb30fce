package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-dandelions/internal/registry"
	"github.com/vovakirdan/tui-dandelions/internal/storage"
)

var flagTop int

var scoresCmd = &cobra.Command{
	Use:   "scores [game-id]",
	Short: "Show high scores",
	Long: `Display the top scores for a game mode (default: the campaign).

Examples:
  dandelions scores
  dandelions scores dandelion-endless
  dandelions scores --top 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagTop, "top", 10, "Number of scores to show")
}

func runScores(_ *cobra.Command, args []string) error {
	gameID := "dandelion"
	if len(args) > 0 {
		gameID = args[0]
	}

	title, ok := registry.Title(gameID)
	if !ok {
		return fmt.Errorf("unknown game %q: run 'dandelions list' to see available modes", gameID)
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	// Get top scores
	scores, err := store.TopScores(gameID, flagTop)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	// Display scores
	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'dandelions play%s' to set the first high score!\n", playHint(gameID))
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")

	// Print scores
	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, dateStr)
	}

	// Show high score
	fmt.Println()
	highScore, err := store.HighScore(gameID)
	if err == nil {
		fmt.Printf("Best: %d\n", highScore)
	} else {
		fmt.Fprintf(os.Stderr, "Warning: could not read best score: %v\n", err)
	}
	return nil
}

// playHint returns the play flag matching a game ID, for the empty-table hint.
func playHint(gameID string) string {
	if gameID == "dandelion-endless" {
		return " --endless"
	}
	return ""
}
