package dandelion

import (
	"math"

	"github.com/vovakirdan/tui-dandelions/internal/core"
)

// FieldParams are the per-run tunables for lawn simulation, already converted
// from config units (seconds, cells/sec) into ticks and per-tick fixed-point.
type FieldParams struct {
	SpawnMargin          Fixed   // Distance from lawn edges kept clear when spawning
	MoverSpeed           Fixed   // Huge head speed per tick
	MoverTurnTicks       int     // Ticks between random direction changes
	UpgradeCooldownTicks int     // Per-head cooldown after upgrading a neighbour
	MaxUpgradesPerTick   int     // Global cap on upgrades resolved in one tick
	SeedFlightTicks      int     // Seed orb flight duration
	SeedMinDist          Fixed   // Seed scatter distance range
	SeedMaxDist          Fixed
	HealthMult           float64 // Level health multiplier applied to base health
}

// SeedOrb is a seed in flight. When it lands it sprouts a tiny dandelion.
type SeedOrb struct {
	X, Y      Fixed
	TX, TY    Fixed // Landing position
	VX, VY    Fixed // Velocity per tick
	TicksLeft int
}

// MergeEvent records a merge for visual feedback.
type MergeEvent struct {
	X, Y Fixed
	Size Size // Resulting tier
}

// Field is the lawn: all live dandelions plus seeds in flight.
// All mutation happens through update passes called once per tick, in a fixed
// order, so simulation stays deterministic.
type Field struct {
	Params     FieldParams
	Bounds     core.Rect // Lawn area in cells
	Dandelions []*Dandelion
	Seeds      []*SeedOrb

	rng *SimpleRNG
}

// NewField creates an empty lawn over the given cell area.
func NewField(bounds core.Rect, params FieldParams, rng *SimpleRNG) *Field {
	return &Field{
		Params: params,
		Bounds: bounds,
		rng:    rng,
	}
}

// Count returns the number of live dandelions.
func (f *Field) Count() int {
	return len(f.Dandelions)
}

// healthFor computes scaled hit points for a tier.
func (f *Field) healthFor(s Size) int {
	h := int(math.Ceil(float64(s.BaseHealth()) * f.Params.HealthMult))
	if h < 1 {
		h = 1
	}
	return h
}

// randomSpot rolls a position inside the lawn honoring the spawn margin.
func (f *Field) randomSpot() (Fixed, Fixed) {
	minX := ToFixed(f.Bounds.X) + f.Params.SpawnMargin
	maxX := ToFixed(f.Bounds.Right()-1) - f.Params.SpawnMargin
	minY := ToFixed(f.Bounds.Y) + f.Params.SpawnMargin.Div(2)
	maxY := ToFixed(f.Bounds.Bottom()-1) - f.Params.SpawnMargin.Div(2)
	if maxX < minX {
		maxX = minX
	}
	if maxY < minY {
		maxY = minY
	}
	return f.rng.FixedRange(minX, maxX), f.rng.FixedRange(minY, maxY)
}

// SpawnRandom sprouts a head of the given tier at a random lawn position.
func (f *Field) SpawnRandom(s Size, moving bool) *Dandelion {
	x, y := f.randomSpot()
	return f.SpawnAt(s, x, y, moving)
}

// SpawnAt sprouts a head of the given tier at a fixed position.
func (f *Field) SpawnAt(s Size, x, y Fixed, moving bool) *Dandelion {
	h := f.healthFor(s)
	d := &Dandelion{
		X:         f.clampX(x, s),
		Y:         f.clampY(y, s),
		Size:      s,
		Health:    h,
		MaxHealth: h,
	}
	if moving {
		f.startMoving(d)
	}
	f.Dandelions = append(f.Dandelions, d)
	return d
}

// startMoving gives a head a random drift direction.
func (f *Field) startMoving(d *Dandelion) {
	d.Moving = true
	deg := f.rng.Intn(360)
	d.VX = Fixed(int64(f.Params.MoverSpeed) * int64(FixedCos(deg)) / Scale)
	d.VY = Fixed(int64(f.Params.MoverSpeed) * int64(FixedSin(deg)) / (2 * Scale))
	d.TurnIn = f.Params.MoverTurnTicks
}

func (f *Field) clampX(x Fixed, s Size) Fixed {
	min := ToFixed(f.Bounds.X) + s.Radius()
	max := ToFixed(f.Bounds.Right()-1) - s.Radius()
	if max < min {
		return min
	}
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}

func (f *Field) clampY(y Fixed, s Size) Fixed {
	min := ToFixed(f.Bounds.Y) + s.Radius().Div(2)
	max := ToFixed(f.Bounds.Bottom()-1) - s.Radius().Div(2)
	if max < min {
		return min
	}
	if y < min {
		return min
	}
	if y > max {
		return max
	}
	return y
}

// UpdateMovers advances drifting heads: random turns, movement, edge bounces.
func (f *Field) UpdateMovers() {
	for _, d := range f.Dandelions {
		if !d.Moving {
			continue
		}
		if d.CooledIn > 0 {
			d.CooledIn--
		}
		d.TurnIn--
		if d.TurnIn <= 0 {
			f.startMoving(d)
		}

		d.X += d.VX
		d.Y += d.VY

		// Bounce off lawn edges
		minX := ToFixed(f.Bounds.X) + d.Size.Radius()
		maxX := ToFixed(f.Bounds.Right()-1) - d.Size.Radius()
		minY := ToFixed(f.Bounds.Y) + d.Size.Radius().Div(2)
		maxY := ToFixed(f.Bounds.Bottom()-1) - d.Size.Radius().Div(2)
		if d.X < minX {
			d.X = minX
			d.VX = -d.VX
		} else if d.X > maxX {
			d.X = maxX
			d.VX = -d.VX
		}
		if d.Y < minY {
			d.Y = minY
			d.VY = -d.VY
		} else if d.Y > maxY {
			d.Y = maxY
			d.VY = -d.VY
		}
	}
}

// UpdateSeeds advances seed orbs and sprouts tiny heads where they land.
func (f *Field) UpdateSeeds() {
	alive := f.Seeds[:0]
	for _, s := range f.Seeds {
		s.TicksLeft--
		if s.TicksLeft <= 0 {
			f.SpawnAt(SizeTiny, s.TX, s.TY, false)
			continue
		}
		s.X += s.VX
		s.Y += s.VY
		alive = append(alive, s)
	}
	f.Seeds = alive
}

// scatterSeeds releases a destroyed head's seeds as flying orbs.
func (f *Field) scatterSeeds(d *Dandelion) {
	count := d.Size.SeedCount()
	for i := 0; i < count; i++ {
		deg := f.rng.Intn(360)
		dist := f.rng.FixedRange(f.Params.SeedMinDist, f.Params.SeedMaxDist)
		tx := d.X + Fixed(int64(dist)*int64(FixedCos(deg))/Scale)
		ty := d.Y + Fixed(int64(dist)*int64(FixedSin(deg))/(2*Scale))
		tx = f.clampX(tx, SizeTiny)
		ty = f.clampY(ty, SizeTiny)

		ticks := f.Params.SeedFlightTicks
		if ticks < 1 {
			ticks = 1
		}
		f.Seeds = append(f.Seeds, &SeedOrb{
			X: d.X, Y: d.Y,
			TX: tx, TY: ty,
			VX:        (tx - d.X).Div(ticks),
			VY:        (ty - d.Y).Div(ticks),
			TicksLeft: ticks,
		})
	}
}

// Kill destroys the head at index i, scattering its seeds.
// Returns the destroyed head for scoring.
func (f *Field) Kill(i int) *Dandelion {
	d := f.Dandelions[i]
	f.scatterSeeds(d)
	f.removeAt(i)
	return d
}

// Consume removes the head at index i without scattering seeds.
// Used when a rabbit eats a head whole.
func (f *Field) Consume(i int) *Dandelion {
	d := f.Dandelions[i]
	f.removeAt(i)
	return d
}

func (f *Field) removeAt(i int) {
	f.Dandelions = append(f.Dandelions[:i], f.Dandelions[i+1:]...)
}

// ClickTarget returns the index of the first head containing the point,
// or -1 when the click lands on bare lawn.
func (f *Field) ClickTarget(x, y Fixed) int {
	for i, d := range f.Dandelions {
		if withinDist(x, y, d.X, d.Y, d.Size.Radius()) {
			return i
		}
	}
	return -1
}

// SlashTargets returns the indices of all heads intersecting a diagonal
// slash of the given half-length through the point. Indices are ascending.
func (f *Field) SlashTargets(x, y, reach Fixed) []int {
	x1 := x - reach
	y1 := y - reach.Div(2)
	x2 := x + reach
	y2 := y + reach.Div(2)

	var hits []int
	for i, d := range f.Dandelions {
		r := int64(d.Size.Radius())
		if segmentDistSq(d.X, d.Y, x1, y1, x2, y2) <= r*r {
			hits = append(hits, i)
		}
	}
	return hits
}

// MergePass combines same-size head pairs that drifted within merge range.
// Each head participates in at most one merge per tick. The merged head
// appears at the pair midpoint one tier up, at full scaled health.
// Huge heads never merge further; a merged-to-Huge head stays stationary
// (only variety waves and upgrades produce movers).
func (f *Field) MergePass() []MergeEvent {
	for _, d := range f.Dandelions {
		d.merged = false
	}

	type pair struct {
		a, b *Dandelion
	}
	var pairs []pair
	n := len(f.Dandelions)
	for i := 0; i < n; i++ {
		a := f.Dandelions[i]
		if a.merged || a.Size == SizeHuge {
			continue
		}
		for j := i + 1; j < n; j++ {
			b := f.Dandelions[j]
			if b.merged || b.Size != a.Size {
				continue
			}
			if withinDist(a.X, a.Y, b.X, b.Y, a.Size.MergeRadius()) {
				a.merged = true
				b.merged = true
				pairs = append(pairs, pair{a: a, b: b})
				break
			}
		}
	}

	if len(pairs) == 0 {
		return nil
	}

	survivors := f.Dandelions[:0]
	for _, d := range f.Dandelions {
		if !d.merged {
			survivors = append(survivors, d)
		}
	}
	f.Dandelions = survivors

	events := make([]MergeEvent, 0, len(pairs))
	for _, p := range pairs {
		next := p.a.Size.Next()
		mx := (p.a.X + p.b.X).Div(2)
		my := (p.a.Y + p.b.Y).Div(2)
		f.SpawnAt(next, mx, my, false)
		events = append(events, MergeEvent{X: mx, Y: my, Size: next})
	}
	return events
}

// UpgradePass lets moving huge heads upgrade stationary neighbours they touch.
// A head upgraded to Huge starts drifting itself.
func (f *Field) UpgradePass() int {
	upgrades := 0
	for _, mover := range f.Dandelions {
		if !mover.Moving || mover.Size != SizeHuge || mover.CooledIn > 0 {
			continue
		}
		for _, target := range f.Dandelions {
			if target == mover || target.Moving || target.Size == SizeHuge {
				continue
			}
			reach := mover.Size.Radius() + target.Size.Radius()
			if !withinDist(mover.X, mover.Y, target.X, target.Y, reach) {
				continue
			}

			target.Size = target.Size.Next()
			h := f.healthFor(target.Size)
			target.Health = h
			target.MaxHealth = h
			if target.Size == SizeHuge {
				f.startMoving(target)
			}
			mover.CooledIn = f.Params.UpgradeCooldownTicks
			upgrades++
			break
		}
		if upgrades >= f.Params.MaxUpgradesPerTick {
			break
		}
	}
	return upgrades
}
