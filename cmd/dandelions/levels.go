package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-dandelions/internal/games/dandelion"
	"github.com/vovakirdan/tui-dandelions/internal/platform/tui"
	"github.com/vovakirdan/tui-dandelions/internal/storage"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Show campaign progress",
	Long: `Display the campaign level table: star ratings, best scores and times,
and which levels are still locked.

Examples:
  dandelions levels
  dandelions levels --db ./scores.db`,
	Args: cobra.NoArgs,
	RunE: runLevels,
}

func runLevels(_ *cobra.Command, _ []string) error {
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

	progress := tui.LoadProgress(store, "dandelion")

	fmt.Println("Campaign Progress - Kill All Dandelions")
	fmt.Println()

	// Calculate the name column width
	nameWidth := 4 // "Name" header
	for _, l := range dandelion.Levels {
		if len(l.Name) > nameWidth {
			nameWidth = len(l.Name)
		}
	}

	fmt.Printf("  %-3s  %-*s  %-5s  %-8s  %-6s  %s\n", "Lvl", nameWidth, "Name", "Stars", "Best", "Time", "Status")
	fmt.Printf("  %-3s  %-*s  %-5s  %-8s  %-6s  %s\n", "---", nameWidth, strings.Repeat("-", 4), "-----", "----", "----", "------")

	for i := range dandelion.Levels {
		level := &dandelion.Levels[i]
		p := progress.Get(level.ID)

		stars := "---"
		best := "-"
		timeStr := "-"
		status := "unlocked"

		switch {
		case !progress.Unlocked(level):
			status = fmt.Sprintf("locked (%d* through L%d)", level.RequiredStars, level.RequiredLevel)
		case p.Completed:
			stars = strings.Repeat("*", p.BestStars) + strings.Repeat("-", 3-p.BestStars)
			best = fmt.Sprintf("%d", p.BestScore)
			timeStr = fmt.Sprintf("%d:%02d", p.BestTimeSecs/60, p.BestTimeSecs%60)
			status = "complete"
		}

		fmt.Printf("  %3d  %-*s  %-5s  %-8s  %-6s  %s\n", level.ID, nameWidth, level.Name, stars, best, timeStr, status)
	}

	fmt.Println()
	fmt.Printf("Total stars: %d/%d\n", progress.TotalStars(), 3*dandelion.LevelCount())
	return nil
}
