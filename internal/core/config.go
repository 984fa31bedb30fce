package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int  // Current score
	GameOver bool // Whether the game has ended
	Paused   bool // Whether the game is paused
}

// StepResult is returned by Game.Step() after each simulation tick.
// Contains the updated game state and any events that occurred.
type StepResult struct {
	State GameState
}

// LevelOutcome describes the result of a finished campaign level run.
// Games with campaign progression expose it through the LevelReporter
// interface so the platform can persist progress.
type LevelOutcome struct {
	LevelID   int
	Score     int
	TimeSecs  int
	Stars     int
	Completed bool
}

// LevelReporter is implemented by games that track campaign level progress.
// Ok is false while the current run has not finished yet.
type LevelReporter interface {
	LevelOutcome() (outcome LevelOutcome, ok bool)
}
