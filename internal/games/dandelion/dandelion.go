// Package dandelion implements the Kill All Dandelions lawn-defense game.
// Dandelions sprout on the lawn, seed more when destroyed, merge into bigger
// heads, and the player clears them by clicking before the lawn is overrun.
package dandelion

import "github.com/vovakirdan/tui-dandelions/internal/core"

// Size is a dandelion growth tier.
type Size int

const (
	SizeTiny Size = iota
	SizeSmall
	SizeMedium
	SizeLarge
	SizeHuge
)

// sizeCount is the number of growth tiers.
const sizeCount = 5

// String returns a human-readable tier name.
func (s Size) String() string {
	switch s {
	case SizeTiny:
		return "Tiny"
	case SizeSmall:
		return "Small"
	case SizeMedium:
		return "Medium"
	case SizeLarge:
		return "Large"
	case SizeHuge:
		return "Huge"
	default:
		return "Unknown"
	}
}

// Radius returns the collision radius in fixed-point horizontal cells.
func (s Size) Radius() Fixed {
	switch s {
	case SizeTiny:
		return 1200
	case SizeSmall:
		return 1700
	case SizeMedium:
		return 2200
	case SizeLarge:
		return 2800
	case SizeHuge:
		return 3600
	default:
		return 1200
	}
}

// MergeRadius returns the distance within which two same-size heads merge.
// Slightly larger than the collision radius so touching heads combine.
func (s Size) MergeRadius() Fixed {
	return s.Radius() * 12 / 10
}

// BaseHealth returns the unscaled hit points for this tier.
func (s Size) BaseHealth() int {
	return int(s) + 1
}

// SeedCount returns how many seed orbs a destroyed head of this tier releases.
func (s Size) SeedCount() int {
	return int(s) + 2
}

// Points returns the base score for destroying a head of this tier.
func (s Size) Points() int {
	switch s {
	case SizeTiny:
		return 10
	case SizeSmall:
		return 12
	case SizeMedium:
		return 15
	case SizeLarge:
		return 20
	case SizeHuge:
		return 30
	default:
		return 10
	}
}

// Color returns the display color for this tier.
func (s Size) Color() core.Color {
	switch s {
	case SizeTiny:
		return core.ColorBrightGreen
	case SizeSmall:
		return core.ColorBrightYellow
	case SizeMedium:
		return core.ColorYellow
	case SizeLarge:
		return core.ColorOrange
	case SizeHuge:
		return core.ColorBrightWhite
	default:
		return core.ColorGreen
	}
}

// Next returns the next tier up, or Huge if already at the top.
func (s Size) Next() Size {
	if s >= SizeHuge {
		return SizeHuge
	}
	return s + 1
}

// Dandelion is a single head on the lawn.
type Dandelion struct {
	X, Y      Fixed // Position (center)
	Size      Size
	Health    int
	MaxHealth int

	// Movement, only for huge heads spawned by variety waves or upgrades.
	Moving   bool
	VX, VY   Fixed // Velocity per tick
	TurnIn   int   // Ticks until a new random direction is rolled
	CooledIn int   // Ticks until this head may upgrade a neighbour again

	merged bool // Set during a merge pass so a head merges at most once per tick
}

// Damage applies hits to the head and reports whether it was destroyed.
func (d *Dandelion) Damage(hits int) bool {
	d.Health -= hits
	if d.Health < 0 {
		d.Health = 0
	}
	return d.Health == 0
}

// HealthColor returns the health bar color for the current damage level.
func (d *Dandelion) HealthColor() core.Color {
	if d.MaxHealth <= 0 {
		return core.ColorGreen
	}
	switch {
	case d.Health*4 >= d.MaxHealth*3: // >= 75%
		return core.ColorGreen
	case d.Health*4 >= d.MaxHealth: // >= 25%
		return core.ColorOrange
	default:
		return core.ColorRed
	}
}
