// Package config provides YAML-based game configuration loading and
// difficulty management for the dandelion game.
package config

// DandelionConfig contains all tunables for the dandelion game.
// Gameplay constants that define the game's identity (size tiers, radii,
// seed counts) live in the game package; this file holds pacing and balance.
type DandelionConfig struct {
	Lawn       LawnConfig       `yaml:"lawn"`
	Spawning   SpawnConfig      `yaml:"spawning"`
	Seeds      SeedConfig       `yaml:"seeds"`
	Powerups   PowerupConfig    `yaml:"powerups"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Cursor     CursorConfig     `yaml:"cursor"`
	Endless    EndlessConfig    `yaml:"endless"`
	Duel       DuelConfig       `yaml:"duel"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// LawnConfig defines the playable area layout.
type LawnConfig struct {
	HUDRows     int     `yaml:"hud_rows"`     // Rows reserved above the lawn
	StatusRows  int     `yaml:"status_rows"`  // Rows reserved below the lawn
	SpawnMargin float64 `yaml:"spawn_margin"` // Cells kept clear of the edges when spawning
	MinWidth    int     `yaml:"min_width"`    // Minimum playable terminal width
	MinHeight   int     `yaml:"min_height"`   // Minimum playable terminal height
}

// SpawnConfig defines dandelion spawn pacing.
type SpawnConfig struct {
	IntervalSecs        float64 `yaml:"interval_secs"`         // Base tiny-dandelion spawn period
	VarietyIntervalSecs float64 `yaml:"variety_interval_secs"` // Period of one-of-each-size waves
	MoverSpeed          float64 `yaml:"mover_speed"`           // Huge head drift speed, cells/sec
	MoverTurnSecs       float64 `yaml:"mover_turn_secs"`       // Seconds between direction changes
	UpgradeCooldownSecs float64 `yaml:"upgrade_cooldown_secs"` // Per-head cooldown after upgrading
	MaxUpgradesPerTick  int     `yaml:"max_upgrades_per_tick"` // Cap on upgrades resolved per tick
}

// SeedConfig defines seed orb behavior.
type SeedConfig struct {
	FlightSecs  float64 `yaml:"flight_secs"`  // Seed orb flight duration
	MinDistance float64 `yaml:"min_distance"` // Scatter distance range, cells
	MaxDistance float64 `yaml:"max_distance"`
}

// PowerupConfig defines power-up behavior and star-gated unlocks.
type PowerupConfig struct {
	IntervalSecs     float64 `yaml:"interval_secs"`      // Pickup spawn period
	MaxActive        int     `yaml:"max_active"`         // Pickups waiting on the lawn at once
	ClickRadius      float64 `yaml:"click_radius"`       // Cells within which a click consumes
	SpawnMargin      float64 `yaml:"spawn_margin"`       // Edge margin for pickup spawns
	RabbitLifeSecs   float64 `yaml:"rabbit_life_secs"`   // Rabbit lifetime
	RabbitSpeed      float64 `yaml:"rabbit_speed"`       // Cells/sec
	RabbitEatDist    float64 `yaml:"rabbit_eat_dist"`    // Contact distance, cells
	RabbitSplitAfter int     `yaml:"rabbit_split_after"` // Meals before a rabbit multiplies
	RabbitFallback   float64 `yaml:"rabbit_fallback"`    // Shared-target radius when all claimed
	FireRadius       float64 `yaml:"fire_radius"`        // Burn radius, cells
	FireLifeSecs     float64 `yaml:"fire_life_secs"`     // Fire lifetime
	FireDamageSecs   float64 `yaml:"fire_damage_secs"`   // Burn pass cadence
	MaxFireChain     int     `yaml:"max_fire_chain"`     // Chain fire generation cap
	ScytheSecs       float64 `yaml:"scythe_secs"`        // Slash effect duration
	ScytheReach      float64 `yaml:"scythe_reach"`       // Slash half-length, cells

	// Unlocks maps power-up names to the total stars required before the
	// pickup starts appearing on the lawn.
	Unlocks PowerupUnlocks `yaml:"unlocks"`
}

// PowerupUnlocks holds the accumulated-star cost of each power-up type.
type PowerupUnlocks struct {
	Bunny        int `yaml:"bunny"`
	Flamethrower int `yaml:"flamethrower"`
	Scythe       int `yaml:"scythe"`
}

// ScoringConfig defines the combo system.
type ScoringConfig struct {
	ComboWindowSecs float64 `yaml:"combo_window_secs"` // Kill-to-kill window keeping a combo alive
	ComboStepPct    int     `yaml:"combo_step_pct"`    // Bonus percent per combo level
	ComboMaxPct     int     `yaml:"combo_max_pct"`     // Bonus cap in percent
}

// CursorConfig defines the keyboard crosshair.
type CursorConfig struct {
	Speed float64 `yaml:"speed"` // Crosshair speed, cells/sec
}

// EndlessConfig defines endless-mode rules.
type EndlessConfig struct {
	OverrunCount     int `yaml:"overrun_count"`      // Live dandelions that end the run
	VarietyBaseScore int `yaml:"variety_base_score"` // First variety threshold; grows per wave
}

// DuelConfig defines two-player Lawn Duel rules.
type DuelConfig struct {
	TargetPoints  int `yaml:"target_points"`   // First to this score wins
	TimeLimitSecs int `yaml:"time_limit_secs"` // Higher score wins at the buzzer
}

// DifficultyConfig defines the difficulty progression system (endless mode).
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpawnMultiplier  float64 `yaml:"spawn_multiplier"`  // Spawn-rate multiplier at max difficulty
	HealthMultiplier float64 `yaml:"health_multiplier"` // Health multiplier at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
