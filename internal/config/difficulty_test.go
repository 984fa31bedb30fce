package config

import (
	"math"
	"testing"
)

func testDifficultyConfig() DifficultyConfig {
	return DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.2,
		Progression:  ProgressionConfig{Type: "score", MaxAt: 1000},
		Scaling:      ScalingConfig{SpawnMultiplier: 3.0, HealthMultiplier: 4.0},
	}
}

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDifficultyLevelScoreProgression(t *testing.T) {
	d := NewDifficultyManager(testDifficultyConfig())

	cases := []struct {
		score int
		level float64
	}{
		{0, 0.2},
		{500, 0.6}, // halfway from 0.2 to 1.0
		{1000, 1.0},
		{5000, 1.0}, // past the ceiling
	}
	for _, c := range cases {
		if got := d.Level(c.score, 0); !almost(got, c.level) {
			t.Errorf("Level(score=%d) = %v, expected %v", c.score, got, c.level)
		}
	}
}

func TestDifficultyLevelTimeProgression(t *testing.T) {
	cfg := testDifficultyConfig()
	cfg.Progression.Type = "time"
	d := NewDifficultyManager(cfg)

	if got := d.Level(0, 500); !almost(got, 0.6) {
		t.Errorf("Level(ticks=500) = %v, expected 0.6", got)
	}
	// Score is ignored under time progression
	if got := d.Level(99999, 0); !almost(got, 0.2) {
		t.Errorf("Level should ignore score, got %v", got)
	}
}

func TestDifficultyDisabledHoldsInitialLevel(t *testing.T) {
	d := NewDifficultyManager(testDifficultyConfig())
	d.SetEnabled(false)

	if d.IsEnabled() {
		t.Error("Disabled manager should report inactive")
	}
	if got := d.Level(1000, 1000); !almost(got, 0.2) {
		t.Errorf("Disabled level = %v, expected the initial 0.2", got)
	}
}

func TestDifficultyNoneProgressionHoldsInitialLevel(t *testing.T) {
	cfg := testDifficultyConfig()
	cfg.Progression.Type = "none"
	d := NewDifficultyManager(cfg)

	if d.IsEnabled() {
		t.Error("A none progression should report inactive")
	}
	if got := d.Level(1000, 1000); !almost(got, 0.2) {
		t.Errorf("Level under none progression = %v", got)
	}
}

func TestDifficultyMultipliers(t *testing.T) {
	d := NewDifficultyManager(testDifficultyConfig())

	// Level 0.6: spawn 1 + 0.6*(3-1), health 1 + 0.6*(4-1)
	if got := d.SpawnMultiplier(500, 0); !almost(got, 2.2) {
		t.Errorf("SpawnMultiplier = %v, expected 2.2", got)
	}
	if got := d.HealthMultiplier(500, 0); !almost(got, 2.8) {
		t.Errorf("HealthMultiplier = %v, expected 2.8", got)
	}

	// At full difficulty the configured maxima are reached exactly
	if got := d.SpawnMultiplier(1000, 0); !almost(got, 3.0) {
		t.Errorf("Max spawn multiplier = %v", got)
	}
	if got := d.HealthMultiplier(1000, 0); !almost(got, 4.0) {
		t.Errorf("Max health multiplier = %v", got)
	}
}

func TestDifficultyMultiplierFloor(t *testing.T) {
	cfg := testDifficultyConfig()
	cfg.Scaling.SpawnMultiplier = 0.5 // Below 1 would shrink pressure; clamp instead
	d := NewDifficultyManager(cfg)

	if got := d.SpawnMultiplier(1000, 0); !almost(got, 1.0) {
		t.Errorf("A sub-1 maximum should clamp to 1.0, got %v", got)
	}
}

func TestDifficultySetInitialLevelClamps(t *testing.T) {
	d := NewDifficultyManager(testDifficultyConfig())

	d.SetInitialLevel(1.5)
	if got := d.Level(0, 0); !almost(got, 1.0) {
		t.Errorf("Initial level above 1 should clamp, got %v", got)
	}
	d.SetInitialLevel(-0.4)
	if got := d.Level(0, 0); !almost(got, 0.0) {
		t.Errorf("Initial level below 0 should clamp, got %v", got)
	}
}

func TestDifficultyZeroMaxAt(t *testing.T) {
	cfg := testDifficultyConfig()
	cfg.Progression.MaxAt = 0
	d := NewDifficultyManager(cfg)

	// A zero ceiling must not divide by zero; any score saturates
	if got := d.Level(10, 0); !almost(got, 1.0) {
		t.Errorf("Level with zero ceiling = %v", got)
	}
}
