package config

import (
	_ "embed"
)

//go:embed defaults/dandelion.yaml
var defaultDandelionYAML []byte

// DefaultDandelionConfig returns the default dandelion game configuration.
// Mirrors defaults/dandelion.yaml as a fallback if the embed fails to parse.
func DefaultDandelionConfig() DandelionConfig {
	return DandelionConfig{
		Lawn: LawnConfig{
			HUDRows:     2,
			StatusRows:  1,
			SpawnMargin: 3.0,
			MinWidth:    40,
			MinHeight:   16,
		},
		Spawning: SpawnConfig{
			IntervalSecs:        2.0,
			VarietyIntervalSecs: 10.0,
			MoverSpeed:          5.0,
			MoverTurnSecs:       2.0,
			UpgradeCooldownSecs: 1.0,
			MaxUpgradesPerTick:  10,
		},
		Seeds: SeedConfig{
			FlightSecs:  0.4,
			MinDistance: 5.0,
			MaxDistance: 15.0,
		},
		Powerups: PowerupConfig{
			IntervalSecs:     10.0,
			MaxActive:        3,
			ClickRadius:      3.0,
			SpawnMargin:      5.0,
			RabbitLifeSecs:   3.0,
			RabbitSpeed:      12.0,
			RabbitEatDist:    2.5,
			RabbitSplitAfter: 2,
			RabbitFallback:   20.0,
			FireRadius:       10.0,
			FireLifeSecs:     3.0,
			FireDamageSecs:   0.2,
			MaxFireChain:     5,
			ScytheSecs:       10.0,
			ScytheReach:      4.0,
			Unlocks: PowerupUnlocks{
				Bunny:        0,
				Flamethrower: 5,
				Scythe:       10,
			},
		},
		Scoring: ScoringConfig{
			ComboWindowSecs: 2.0,
			ComboStepPct:    10,
			ComboMaxPct:     200,
		},
		Cursor: CursorConfig{
			Speed: 30.0,
		},
		Endless: EndlessConfig{
			OverrunCount:     20,
			VarietyBaseScore: 500,
		},
		Duel: DuelConfig{
			TargetPoints:  1500,
			TimeLimitSecs: 180,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 10000,
			},
			Scaling: ScalingConfig{
				SpawnMultiplier:  3.0,
				HealthMultiplier: 4.0,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game ID.
// Used by the CLI to print a starting config for users to customize.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "dandelion", "dandelion-endless":
		return defaultDandelionYAML
	default:
		return nil
	}
}
