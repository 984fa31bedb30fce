package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadDandelion loads the dandelion game configuration.
// Search order: customPath -> ~/.dandelions/configs/dandelion.yaml ->
// ./configs/dandelion.yaml -> embedded default.
// An explicit customPath that fails to load is a hard error; the fallback
// locations are tried silently.
func LoadDandelion(customPath string) (DandelionConfig, error) {
	var cfg DandelionConfig

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("dandelion.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/dandelion.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultDandelionYAML, &cfg); err != nil {
		return DefaultDandelionConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".dandelions", "configs", filename)
}

// ApplyDandelionPreset modifies the config based on a difficulty preset.
// Presets adjust pacing rather than dandelion stats so campaign levels keep
// their defined scaling.
func ApplyDandelionPreset(cfg *DandelionConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Spawning.IntervalSecs = 2.5
		cfg.Powerups.IntervalSecs = 8.0
		cfg.Scoring.ComboWindowSecs = 3.0
	case DifficultyHard:
		cfg.Spawning.IntervalSecs = 1.5
		cfg.Powerups.IntervalSecs = 12.0
		cfg.Scoring.ComboWindowSecs = 1.5
	}

	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}
}
