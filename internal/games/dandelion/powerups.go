package dandelion

import "github.com/vovakirdan/tui-dandelions/internal/core"

// PickupType identifies a power-up pickup on the lawn.
type PickupType int

const (
	PickupBunny PickupType = iota
	PickupFlamethrower
	PickupScythe
)

// Glyph returns the display rune for the pickup.
func (p PickupType) Glyph() rune {
	switch p {
	case PickupBunny:
		return 'B'
	case PickupFlamethrower:
		return 'F'
	case PickupScythe:
		return 'S'
	default:
		return '?'
	}
}

// String returns a human-readable pickup name.
func (p PickupType) String() string {
	switch p {
	case PickupBunny:
		return "Bunny"
	case PickupFlamethrower:
		return "Flamethrower"
	case PickupScythe:
		return "Scythe"
	default:
		return "Unknown"
	}
}

// Pickup is a consumable power-up waiting on the lawn.
type Pickup struct {
	Type   PickupType
	X, Y   Fixed
	Active bool
}

// EffectType identifies a timed player effect.
type EffectType int

const (
	// EffectScythe switches clicks to slashes while active.
	EffectScythe EffectType = iota
)

// Effect is an active timed effect.
type Effect struct {
	Type      EffectType
	UntilTick int
}

// Rabbit hunts dandelions and eats them whole.
type Rabbit struct {
	X, Y      Fixed
	Eaten     int
	TicksLeft int
}

// Fire burns dandelions within its radius and chains onto their positions.
type Fire struct {
	X, Y       Fixed
	Generation int
	TicksLeft  int
	DamageIn   int // Ticks until the next burn pass
}

// PowerUpConfig holds power-up tuning, pre-converted to ticks and fixed-point.
type PowerUpConfig struct {
	SpawnIntervalTicks int
	MaxActivePickups   int
	ClickRadius        Fixed
	SpawnMargin        Fixed

	RabbitLifetimeTicks  int
	RabbitSpeed          Fixed // Per tick
	RabbitEatDist        Fixed
	RabbitSplitAfter     int
	RabbitFallbackRadius Fixed

	FireRadius              Fixed
	FireLifetimeTicks       int
	FireDamageIntervalTicks int
	MaxFireGeneration       int

	ScytheDurationTicks int
	ScytheReach         Fixed

	// Unlocked lists the pickup types allowed to spawn this run,
	// derived from the player's accumulated stars.
	Unlocked []PickupType
}

// PowerUpManager owns pickups, rabbits, fires, and timed effects.
type PowerUpManager struct {
	Config  PowerUpConfig
	Pickups []*Pickup
	Rabbits []*Rabbit
	Fires   []*Fire
	Effects []*Effect

	spawnIn int
	rng     *SimpleRNG
}

// NewPowerUpManager creates a manager sharing the game's RNG stream.
func NewPowerUpManager(cfg PowerUpConfig, rng *SimpleRNG) *PowerUpManager {
	return &PowerUpManager{
		Config:  cfg,
		spawnIn: cfg.SpawnIntervalTicks,
		rng:     rng,
	}
}

// activePickups counts pickups still waiting to be consumed.
func (pm *PowerUpManager) activePickups() int {
	n := 0
	for _, p := range pm.Pickups {
		if p.Active {
			n++
		}
	}
	return n
}

// TrySpawn drops a new pickup when the spawn timer elapses.
// Locked types never spawn; the lawn holds a few pickups at most.
func (pm *PowerUpManager) TrySpawn(bounds core.Rect) {
	if len(pm.Config.Unlocked) == 0 {
		return
	}
	pm.spawnIn--
	if pm.spawnIn > 0 {
		return
	}
	pm.spawnIn = pm.Config.SpawnIntervalTicks

	if pm.Config.MaxActivePickups > 0 && pm.activePickups() >= pm.Config.MaxActivePickups {
		return
	}

	t := pm.Config.Unlocked[pm.rng.Intn(len(pm.Config.Unlocked))]
	minX := ToFixed(bounds.X) + pm.Config.SpawnMargin
	maxX := ToFixed(bounds.Right()-1) - pm.Config.SpawnMargin
	minY := ToFixed(bounds.Y) + pm.Config.SpawnMargin.Div(2)
	maxY := ToFixed(bounds.Bottom()-1) - pm.Config.SpawnMargin.Div(2)
	if maxX < minX {
		maxX = minX
	}
	if maxY < minY {
		maxY = minY
	}

	pm.Pickups = append(pm.Pickups, &Pickup{
		Type:   t,
		X:      pm.rng.FixedRange(minX, maxX),
		Y:      pm.rng.FixedRange(minY, maxY),
		Active: true,
	})
}

// TryConsume activates the first pickup within click range, if any.
// Returns the consumed pickup or nil.
func (pm *PowerUpManager) TryConsume(x, y Fixed, tick int) *Pickup {
	for _, p := range pm.Pickups {
		if !p.Active {
			continue
		}
		if !withinDist(x, y, p.X, p.Y, pm.Config.ClickRadius) {
			continue
		}
		p.Active = false
		pm.activate(p, tick)
		return p
	}
	return nil
}

// activate triggers a consumed pickup's effect.
func (pm *PowerUpManager) activate(p *Pickup, tick int) {
	switch p.Type {
	case PickupBunny:
		pm.spawnRabbitTrio(p.X, p.Y)
	case PickupFlamethrower:
		pm.Ignite(p.X, p.Y, 0)
	case PickupScythe:
		pm.AddEffect(EffectScythe, tick+pm.Config.ScytheDurationTicks)
	}
}

// spawnRabbitTrio releases three rabbits fanned 120 degrees apart.
func (pm *PowerUpManager) spawnRabbitTrio(x, y Fixed) {
	base := pm.rng.Intn(360)
	const offset = 2 * Scale
	for i := 0; i < 3; i++ {
		deg := base + i*120
		pm.Rabbits = append(pm.Rabbits, &Rabbit{
			X:         x + Fixed(int64(offset)*int64(FixedCos(deg))/Scale),
			Y:         y + Fixed(int64(offset)*int64(FixedSin(deg))/(2*Scale)),
			TicksLeft: pm.Config.RabbitLifetimeTicks,
		})
	}
}

// Ignite starts a fire at the given position.
func (pm *PowerUpManager) Ignite(x, y Fixed, generation int) {
	pm.Fires = append(pm.Fires, &Fire{
		X: x, Y: y,
		Generation: generation,
		TicksLeft:  pm.Config.FireLifetimeTicks,
		DamageIn:   1, // First burn pass on the next tick
	})
}

// UpdateRabbits drives rabbit hunting for one tick.
// Each live dandelion is claimed by at most one rabbit; a rabbit prefers
// close, large heads. onEat is called with the index of each eaten head.
func (pm *PowerUpManager) UpdateRabbits(field *Field, onEat func(idx int)) {
	alive := pm.Rabbits[:0]
	var spawned []*Rabbit
	claimed := make(map[int]bool)

	for _, r := range pm.Rabbits {
		r.TicksLeft--
		if r.TicksLeft <= 0 {
			continue
		}

		target := pm.pickTarget(field, r, claimed)
		if target >= 0 {
			claimed[target] = true
			d := field.Dandelions[target]
			if withinDist(r.X, r.Y, d.X, d.Y, pm.Config.RabbitEatDist) {
				onEat(target)
				// Re-claim bookkeeping: indices after target shift down.
				claimed = reindexClaims(claimed, target)
				r.Eaten++
				if r.Eaten >= pm.Config.RabbitSplitAfter {
					// A well-fed rabbit multiplies.
					spawned = append(spawned, pm.makeTrioAt(r.X, r.Y)...)
					continue
				}
			} else {
				pm.hopToward(r, d.X, d.Y)
			}
		}
		alive = append(alive, r)
	}

	pm.Rabbits = append(alive, spawned...)
}

// makeTrioAt builds three fresh rabbits at a position without appending.
func (pm *PowerUpManager) makeTrioAt(x, y Fixed) []*Rabbit {
	base := pm.rng.Intn(360)
	const offset = 2 * Scale
	trio := make([]*Rabbit, 0, 3)
	for i := 0; i < 3; i++ {
		deg := base + i*120
		trio = append(trio, &Rabbit{
			X:         x + Fixed(int64(offset)*int64(FixedCos(deg))/Scale),
			Y:         y + Fixed(int64(offset)*int64(FixedSin(deg))/(2*Scale)),
			TicksLeft: pm.Config.RabbitLifetimeTicks,
		})
	}
	return trio
}

// pickTarget chooses the most desirable unclaimed head for a rabbit:
// desirability is the tier bonus over distance, so near large heads win.
// Falls back to any head within the fallback radius when all are claimed.
func (pm *PowerUpManager) pickTarget(field *Field, r *Rabbit, claimed map[int]bool) int {
	best := -1
	var bestBonus, bestDist int64
	for i, d := range field.Dandelions {
		if claimed[i] {
			continue
		}
		dist := isqrt(distSq(r.X, r.Y, d.X, d.Y))
		bonus := sizeBonusPct(d.Size)
		if best < 0 || bonus*(bestDist+1) > bestBonus*(dist+1) {
			best = i
			bestBonus = bonus
			bestDist = dist
		}
	}
	if best >= 0 {
		return best
	}

	// All claimed: share a nearby target.
	for i, d := range field.Dandelions {
		if withinDist(r.X, r.Y, d.X, d.Y, pm.Config.RabbitFallbackRadius) {
			return i
		}
	}
	return -1
}

// hopToward moves a rabbit one tick toward a point.
func (pm *PowerUpManager) hopToward(r *Rabbit, tx, ty Fixed) {
	dist := isqrt(distSq(r.X, r.Y, tx, ty))
	if dist == 0 {
		return
	}
	step := int64(pm.Config.RabbitSpeed)
	if step > dist {
		step = dist
	}
	dx := int64(tx - r.X)
	dy := int64(ty-r.Y) * 2
	r.X += Fixed(dx * step / dist)
	r.Y += Fixed(dy * step / dist / 2)
}

// UpdateFires drives burn passes for one tick. Every head within a fire's
// radius is destroyed outright, and each destruction chains a new fire at
// the head's position one generation deeper, up to the generation cap.
// onKill is called with the index of each destroyed head.
func (pm *PowerUpManager) UpdateFires(field *Field, onKill func(idx int)) {
	alive := pm.Fires[:0]
	var chained []*Fire

	for _, f := range pm.Fires {
		f.TicksLeft--
		if f.TicksLeft <= 0 {
			continue
		}
		f.DamageIn--
		if f.DamageIn <= 0 {
			f.DamageIn = pm.Config.FireDamageIntervalTicks
			for {
				idx := -1
				for i, d := range field.Dandelions {
					if withinDist(f.X, f.Y, d.X, d.Y, pm.Config.FireRadius) {
						idx = i
						break
					}
				}
				if idx < 0 {
					break
				}
				d := field.Dandelions[idx]
				if f.Generation < pm.Config.MaxFireGeneration {
					chained = append(chained, &Fire{
						X: d.X, Y: d.Y,
						Generation: f.Generation + 1,
						TicksLeft:  pm.Config.FireLifetimeTicks,
						DamageIn:   1,
					})
				}
				onKill(idx)
			}
		}
		alive = append(alive, f)
	}

	pm.Fires = append(alive, chained...)
}

// AddEffect starts or extends a timed effect.
func (pm *PowerUpManager) AddEffect(t EffectType, untilTick int) {
	for _, e := range pm.Effects {
		if e.Type == t {
			if untilTick > e.UntilTick {
				e.UntilTick = untilTick
			}
			return
		}
	}
	pm.Effects = append(pm.Effects, &Effect{Type: t, UntilTick: untilTick})
}

// HasEffect reports whether an effect is active at the given tick.
func (pm *PowerUpManager) HasEffect(t EffectType, tick int) bool {
	for _, e := range pm.Effects {
		if e.Type == t && e.UntilTick > tick {
			return true
		}
	}
	return false
}

// EffectRemaining returns ticks left for an effect, or 0 if inactive.
func (pm *PowerUpManager) EffectRemaining(t EffectType, tick int) int {
	for _, e := range pm.Effects {
		if e.Type == t && e.UntilTick > tick {
			return e.UntilTick - tick
		}
	}
	return 0
}

// ExpireEffects drops effects whose time has passed.
func (pm *PowerUpManager) ExpireEffects(tick int) {
	active := pm.Effects[:0]
	for _, e := range pm.Effects {
		if e.UntilTick > tick {
			active = append(active, e)
		}
	}
	pm.Effects = active
}

// sizeBonusPct is the rabbit desirability bonus per tier, in percent.
func sizeBonusPct(s Size) int64 {
	switch s {
	case SizeTiny:
		return 100
	case SizeSmall:
		return 120
	case SizeMedium:
		return 150
	case SizeLarge:
		return 200
	case SizeHuge:
		return 300
	default:
		return 100
	}
}

// reindexClaims shifts claim indices after a removal at idx.
func reindexClaims(claims map[int]bool, idx int) map[int]bool {
	next := make(map[int]bool, len(claims))
	for i, v := range claims {
		switch {
		case i < idx:
			next[i] = v
		case i > idx:
			next[i-1] = v
		}
	}
	return next
}

// isqrt returns the integer square root of a non-negative value.
func isqrt(v int64) int64 {
	if v <= 0 {
		return 0
	}
	x := v
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + v/x) / 2
	}
	return x
}
