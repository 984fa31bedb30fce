package dandelion

import (
	"fmt"

	"github.com/vovakirdan/tui-dandelions/internal/config"
	"github.com/vovakirdan/tui-dandelions/internal/core"
	"github.com/vovakirdan/tui-dandelions/internal/duel"
)

// Duel is the two-player Lawn Duel: both players clear the same lawn with
// separate crosshairs and scores. First to the target score wins; when the
// clock runs out the higher score wins. Power-up pickups spawn in a shared
// pool and belong to whoever clicks them first.
type Duel struct {
	cfg     core.RuntimeConfig
	gameCfg config.DandelionConfig

	rng   *SimpleRNG
	field *Field
	lawn  core.Rect

	// Per-player power-up managers. The shared pickup pool lives in
	// pms[0]; a consumed pickup activates in the consumer's manager so
	// rabbits, fires, and the scythe effect credit the right player.
	pms [2]*PowerUpManager

	tickCount      int
	targetPoints   int
	timeLimitTicks int

	spawnIn              int
	spawnIntervalTicks   int
	varietyIn            int
	varietyIntervalTicks int
	wave                 int
	comboWindowTicks     int
	cursorStep           Fixed

	// Per-player state, indexed by player (0 = Player1, 1 = Player2)
	cursorX    [2]Fixed
	cursorY    [2]Fixed
	scores     [2]int
	combos     [2]int
	comboTicks [2]int

	gameOver bool
	winner   core.PlayerID
}

// NewDuel creates a new Lawn Duel game.
func NewDuel() *Duel {
	return &Duel{}
}

// Reset initializes the duel for a new match.
func (d *Duel) Reset(cfg core.RuntimeConfig) {
	d.cfg = cfg
	if d.cfg.TickRate <= 0 {
		d.cfg.TickRate = 60
	}

	loaded, err := config.LoadDandelion(configPath)
	if err != nil {
		loaded = config.DefaultDandelionConfig()
	}
	d.gameCfg = loaded

	d.lawn = core.NewRect(
		0,
		loaded.Lawn.HUDRows,
		cfg.ScreenW,
		core.Max(1, cfg.ScreenH-loaded.Lawn.HUDRows-loaded.Lawn.StatusRows),
	)

	d.rng = NewSimpleRNG(cfg.Seed)
	d.field = NewField(d.lawn, FieldParams{
		SpawnMargin:          FixedFromFloat(loaded.Lawn.SpawnMargin),
		MoverSpeed:           d.perTick(loaded.Spawning.MoverSpeed),
		MoverTurnTicks:       d.ticksFor(loaded.Spawning.MoverTurnSecs),
		UpgradeCooldownTicks: d.ticksFor(loaded.Spawning.UpgradeCooldownSecs),
		MaxUpgradesPerTick:   loaded.Spawning.MaxUpgradesPerTick,
		SeedFlightTicks:      d.ticksFor(loaded.Seeds.FlightSecs),
		SeedMinDist:          FixedFromFloat(loaded.Seeds.MinDistance),
		SeedMaxDist:          FixedFromFloat(loaded.Seeds.MaxDistance),
		HealthMult:           1.0,
	}, d.rng)

	pcfg := PowerUpConfig{
		SpawnIntervalTicks:      d.ticksFor(loaded.Powerups.IntervalSecs),
		MaxActivePickups:        loaded.Powerups.MaxActive,
		ClickRadius:             FixedFromFloat(loaded.Powerups.ClickRadius),
		SpawnMargin:             FixedFromFloat(loaded.Powerups.SpawnMargin),
		RabbitLifetimeTicks:     d.ticksFor(loaded.Powerups.RabbitLifeSecs),
		RabbitSpeed:             d.perTick(loaded.Powerups.RabbitSpeed),
		RabbitEatDist:           FixedFromFloat(loaded.Powerups.RabbitEatDist),
		RabbitSplitAfter:        loaded.Powerups.RabbitSplitAfter,
		RabbitFallbackRadius:    FixedFromFloat(loaded.Powerups.RabbitFallback),
		FireRadius:              FixedFromFloat(loaded.Powerups.FireRadius),
		FireLifetimeTicks:       d.ticksFor(loaded.Powerups.FireLifeSecs),
		FireDamageIntervalTicks: d.ticksFor(loaded.Powerups.FireDamageSecs),
		MaxFireGeneration:       loaded.Powerups.MaxFireChain,
		ScytheDurationTicks:     d.ticksFor(loaded.Powerups.ScytheSecs),
		ScytheReach:             FixedFromFloat(loaded.Powerups.ScytheReach),
		// Duels skip star gating: both players get the full kit.
		Unlocked: []PickupType{PickupBunny, PickupFlamethrower, PickupScythe},
	}
	for i := range d.pms {
		d.pms[i] = NewPowerUpManager(pcfg, d.rng)
	}

	d.targetPoints = loaded.Duel.TargetPoints
	d.timeLimitTicks = d.ticksFor(float64(loaded.Duel.TimeLimitSecs))
	d.spawnIntervalTicks = d.ticksFor(loaded.Spawning.IntervalSecs)
	d.varietyIntervalTicks = d.ticksFor(loaded.Spawning.VarietyIntervalSecs)
	d.comboWindowTicks = d.ticksFor(loaded.Scoring.ComboWindowSecs)
	d.cursorStep = d.perTick(loaded.Cursor.Speed)

	d.tickCount = 0
	d.spawnIn = d.spawnIntervalTicks
	d.varietyIn = d.varietyIntervalTicks
	d.wave = 0
	d.gameOver = false
	d.winner = 0

	// Players start on opposite halves of the lawn
	_, cy := d.lawn.Center()
	d.cursorX[0] = ToFixed(d.lawn.X + d.lawn.W/4)
	d.cursorX[1] = ToFixed(d.lawn.X + 3*d.lawn.W/4)
	d.cursorY[0] = ToFixed(cy)
	d.cursorY[1] = ToFixed(cy)
	for i := range d.scores {
		d.scores[i] = 0
		d.combos[i] = 0
		d.comboTicks[i] = 0
	}
}

func (d *Duel) ticksFor(secs float64) int {
	t := int(secs * float64(d.cfg.TickRate))
	if t < 1 {
		t = 1
	}
	return t
}

func (d *Duel) perTick(cellsPerSec float64) Fixed {
	if d.cfg.TickRate <= 0 {
		return 0
	}
	return FixedFromFloat(cellsPerSec / float64(d.cfg.TickRate))
}

// StepMulti advances the duel by one tick using both players' input.
// Player 1's strike resolves before Player 2's, so a contested head goes to
// the host on the exact same tick.
func (d *Duel) StepMulti(input core.MultiInputFrame) core.StepResult {
	if d.gameOver {
		return core.StepResult{State: d.state()}
	}

	d.tickCount++

	d.stepPlayer(0, input.Player1())
	d.stepPlayer(1, input.Player2())

	d.updateSpawning()
	d.field.UpdateSeeds()
	d.field.UpdateMovers()
	d.field.UpgradePass()
	d.field.MergePass()

	// Only pms[0] spawns; the pool is shared until somebody clicks.
	d.pms[0].TrySpawn(d.lawn)
	for p := range d.pms {
		d.pms[p].UpdateRabbits(d.field, func(idx int) { d.creditConsume(p, idx) })
		d.pms[p].UpdateFires(d.field, func(idx int) { d.creditConsume(p, idx) })
		d.pms[p].ExpireEffects(d.tickCount)
	}

	d.checkEndConditions()

	return core.StepResult{State: d.state()}
}

// stepPlayer applies one player's cursor movement and strike.
func (d *Duel) stepPlayer(p int, in core.InputFrame) {
	if d.comboTicks[p] > 0 {
		d.comboTicks[p]--
		if d.comboTicks[p] == 0 {
			d.combos[p] = 0
		}
	}

	if x, y, ok := in.Pointer(); ok {
		d.cursorX[p] = ToFixed(x)
		d.cursorY[p] = ToFixed(y)
	}
	if in.Has(core.ActionLeft) {
		d.cursorX[p] -= d.cursorStep
	}
	if in.Has(core.ActionRight) {
		d.cursorX[p] += d.cursorStep
	}
	if in.Has(core.ActionUp) {
		d.cursorY[p] -= d.cursorStep.Div(2)
	}
	if in.Has(core.ActionDown) {
		d.cursorY[p] += d.cursorStep.Div(2)
	}

	minX := ToFixed(d.lawn.X)
	maxX := ToFixed(d.lawn.Right() - 1)
	minY := ToFixed(d.lawn.Y)
	maxY := ToFixed(d.lawn.Bottom() - 1)
	if d.cursorX[p] < minX {
		d.cursorX[p] = minX
	}
	if d.cursorX[p] > maxX {
		d.cursorX[p] = maxX
	}
	if d.cursorY[p] < minY {
		d.cursorY[p] = minY
	}
	if d.cursorY[p] > maxY {
		d.cursorY[p] = maxY
	}

	if !in.Has(core.ActionFire) {
		return
	}
	if d.consumePickup(p) {
		return
	}
	if d.pms[p].HasEffect(EffectScythe, d.tickCount) {
		d.slashStrike(p)
		return
	}
	idx := d.field.ClickTarget(d.cursorX[p], d.cursorY[p])
	if idx < 0 {
		return
	}
	if d.field.Dandelions[idx].Damage(1) {
		dead := d.field.Kill(idx)
		d.addPoints(p, dead.Size)
	}
}

// consumePickup claims the first shared pickup under the player's cursor.
// The claim activates in the consumer's own manager, so its rabbits, fires,
// and scythe window score for that player alone.
func (d *Duel) consumePickup(p int) bool {
	for _, pk := range d.pms[0].Pickups {
		if !pk.Active {
			continue
		}
		if !withinDist(d.cursorX[p], d.cursorY[p], pk.X, pk.Y, d.pms[0].Config.ClickRadius) {
			continue
		}
		pk.Active = false
		d.pms[p].activate(pk, d.tickCount)
		return true
	}
	return false
}

// slashStrike hits every head along a diagonal through the player's
// crosshair while their scythe is up. Scythe kills seed the lawn like any
// other strike.
func (d *Duel) slashStrike(p int) {
	hits := d.field.SlashTargets(d.cursorX[p], d.cursorY[p], d.pms[p].Config.ScytheReach)
	// Kill back to front so earlier indices stay valid.
	for i := len(hits) - 1; i >= 0; i-- {
		idx := hits[i]
		if d.field.Dandelions[idx].Damage(1) {
			dead := d.field.Kill(idx)
			d.addPoints(p, dead.Size)
		}
	}
}

// creditConsume scores a head eaten or burned by one player's power-up.
// Consumed heads vanish without seeding.
func (d *Duel) creditConsume(p, idx int) {
	dead := d.field.Consume(idx)
	d.addPoints(p, dead.Size)
}

// addPoints scores a kill for one player with their combo bonus.
func (d *Duel) addPoints(p int, s Size) {
	base := s.Points()
	bonusPct := d.combos[p] * d.gameCfg.Scoring.ComboStepPct
	if bonusPct > d.gameCfg.Scoring.ComboMaxPct {
		bonusPct = d.gameCfg.Scoring.ComboMaxPct
	}
	d.scores[p] += base + base*bonusPct/100
	d.combos[p]++
	d.comboTicks[p] = d.comboWindowTicks
}

// updateSpawning drives the shared spawn timer and variety waves.
func (d *Duel) updateSpawning() {
	d.spawnIn--
	if d.spawnIn <= 0 {
		d.spawnIn = d.spawnIntervalTicks
		d.field.SpawnRandom(SizeTiny, false)
	}

	d.varietyIn--
	if d.varietyIn <= 0 {
		d.varietyIn = d.varietyIntervalTicks
		// Waves key off the combined score so the lawn pressure tracks the
		// pace of the match, not of either single player.
		combined := d.scores[0] + d.scores[1]
		if combined >= d.gameCfg.Endless.VarietyBaseScore*(d.wave+1) {
			for s := SizeTiny; s <= SizeHuge; s++ {
				d.field.SpawnRandom(s, s == SizeHuge)
			}
			d.wave++
		}
	}
}

// checkEndConditions resolves target-score and time-limit finishes.
func (d *Duel) checkEndConditions() {
	if d.scores[0] >= d.targetPoints || d.scores[1] >= d.targetPoints {
		d.gameOver = true
		d.winner = d.leader()
		return
	}
	if d.tickCount >= d.timeLimitTicks {
		d.gameOver = true
		d.winner = d.leader() // 0 on a tie: draw
	}
}

// leader returns the player currently ahead, or 0 on a tie.
func (d *Duel) leader() core.PlayerID {
	switch {
	case d.scores[0] > d.scores[1]:
		return core.Player1
	case d.scores[1] > d.scores[0]:
		return core.Player2
	default:
		return 0
	}
}

func (d *Duel) state() core.GameState {
	return core.GameState{
		Score:    d.scores[0],
		GameOver: d.gameOver,
	}
}

// IsGameOver returns true if the duel has ended.
func (d *Duel) IsGameOver() bool {
	return d.gameOver
}

// Winner returns the winning player, or 0 on a draw or while running.
func (d *Duel) Winner() core.PlayerID {
	if !d.gameOver {
		return 0
	}
	return d.winner
}

// Score1 returns Player 1's score.
func (d *Duel) Score1() int {
	return d.scores[0]
}

// Score2 returns Player 2's score.
func (d *Duel) Score2() int {
	return d.scores[1]
}

// remainingSecs returns whole seconds before the duel clock runs out.
func (d *Duel) remainingSecs() int {
	left := d.timeLimitTicks - d.tickCount
	if left < 0 {
		left = 0
	}
	return (left + d.cfg.TickRate - 1) / d.cfg.TickRate
}

// DuelSnapshot contains the complete duel state for network transmission.
// Uses primitive types only for stable serialization.
type DuelSnapshot struct {
	Tick          uint64
	Score1        int
	Score2        int
	Combo1        int
	Combo2        int
	Cursor1X      int
	Cursor1Y      int
	Cursor2X      int
	Cursor2Y      int
	TargetPoints  int
	TimeLeftSecs  int
	GameOver      bool
	Winner        int // 0=none/draw, 1=Player1, 2=Player2
	LawnX         int
	LawnY         int
	LawnW         int
	LawnH         int

	// Dandelion state (each head is 5 ints: X, Y, Size, Health, MaxHealth)
	DandelionCount int
	DandelionData  []int

	// Seed orb state (each orb is 2 ints: X, Y)
	SeedCount int
	SeedData  []int

	// Unclaimed pickups in the shared pool (each is 3 ints: X, Y, Type)
	PickupCount int
	PickupData  []int

	// Rabbits from claimed bunny pickups (each is 3 ints: X, Y, Owner)
	RabbitCount int
	RabbitData  []int

	// Fires from claimed flamethrowers (each is 3 ints: X, Y, Generation)
	FireCount int
	FireData  []int

	// Whole seconds left on each player's scythe, 0 when inactive
	Scythe1Secs int
	Scythe2Secs int
}

// IsGameSnapshot implements the GameSnapshot interface marker.
func (DuelSnapshot) IsGameSnapshot() {}

// Ensure DuelSnapshot implements duel.GameSnapshot
var _ duel.GameSnapshot = DuelSnapshot{}

// Snapshot returns the current duel state for transmission to both clients.
// Movement fields are omitted: clients render, they don't simulate.
func (d *Duel) Snapshot() duel.GameSnapshot {
	dandelionData := make([]int, len(d.field.Dandelions)*5)
	for i, head := range d.field.Dandelions {
		idx := i * 5
		dandelionData[idx] = int(head.X)
		dandelionData[idx+1] = int(head.Y)
		dandelionData[idx+2] = int(head.Size)
		dandelionData[idx+3] = head.Health
		dandelionData[idx+4] = head.MaxHealth
	}

	seedData := make([]int, len(d.field.Seeds)*2)
	for i, s := range d.field.Seeds {
		idx := i * 2
		seedData[idx] = int(s.X)
		seedData[idx+1] = int(s.Y)
	}

	pickupData := make([]int, 0, len(d.pms[0].Pickups)*3)
	for _, pk := range d.pms[0].Pickups {
		if !pk.Active {
			continue
		}
		pickupData = append(pickupData, int(pk.X), int(pk.Y), int(pk.Type))
	}

	var rabbitData, fireData []int
	for p, pm := range d.pms {
		for _, r := range pm.Rabbits {
			rabbitData = append(rabbitData, int(r.X), int(r.Y), p+1)
		}
		for _, f := range pm.Fires {
			fireData = append(fireData, int(f.X), int(f.Y), f.Generation)
		}
	}

	return DuelSnapshot{
		Tick:         uint64(d.tickCount), //#nosec G115 -- tick count is always positive
		Score1:       d.scores[0],
		Score2:       d.scores[1],
		Combo1:       d.combos[0],
		Combo2:       d.combos[1],
		Cursor1X:     int(d.cursorX[0]),
		Cursor1Y:     int(d.cursorY[0]),
		Cursor2X:     int(d.cursorX[1]),
		Cursor2Y:     int(d.cursorY[1]),
		TargetPoints: d.targetPoints,
		TimeLeftSecs: d.remainingSecs(),
		GameOver:     d.gameOver,
		Winner:       int(d.winner),
		LawnX:        d.lawn.X,
		LawnY:        d.lawn.Y,
		LawnW:        d.lawn.W,
		LawnH:        d.lawn.H,

		DandelionCount: len(d.field.Dandelions),
		DandelionData:  dandelionData,
		SeedCount:      len(d.field.Seeds),
		SeedData:       seedData,

		PickupCount: len(pickupData) / 3,
		PickupData:  pickupData,
		RabbitCount: len(rabbitData) / 3,
		RabbitData:  rabbitData,
		FireCount:   len(fireData) / 3,
		FireData:    fireData,
		Scythe1Secs: d.pms[0].EffectRemaining(EffectScythe, d.tickCount) / d.cfg.TickRate,
		Scythe2Secs: d.pms[1].EffectRemaining(EffectScythe, d.tickCount) / d.cfg.TickRate,
	}
}

// Ensure Duel satisfies the match loop's interface
var _ duel.Game = (*Duel)(nil)

// RenderDuelSnapshot draws a received duel snapshot from one side's point of
// view. Used by clients, which render the relayed state without simulating.
func RenderDuelSnapshot(dst *core.Screen, snap DuelSnapshot, side core.PlayerID) {
	dst.Clear()

	lawn := core.NewRect(snap.LawnX, snap.LawnY, snap.LawnW, snap.LawnH)

	// HUD: you vs opponent, clock in the middle
	youScore, oppScore := snap.Score1, snap.Score2
	youCombo, youScythe := snap.Combo1, snap.Scythe1Secs
	rivalScythe := snap.Scythe2Secs
	if side == core.Player2 {
		youScore, oppScore = snap.Score2, snap.Score1
		youCombo, youScythe = snap.Combo2, snap.Scythe2Secs
		rivalScythe = snap.Scythe1Secs
	}
	youText := fmt.Sprintf("You: %d/%d", youScore, snap.TargetPoints)
	dst.DrawTextColored(1, 0, youText, core.ColorBrightCyan)

	clock := fmt.Sprintf("%d:%02d", snap.TimeLeftSecs/60, snap.TimeLeftSecs%60)
	dst.DrawTextCentered(0, clock)

	oppText := fmt.Sprintf("Rival: %d/%d", oppScore, snap.TargetPoints)
	dst.DrawTextColored(dst.Width()-len(oppText)-1, 0, oppText, core.ColorBrightMagenta)

	for x := 0; x < dst.Width(); x++ {
		dst.Set(x, 1, glyphSep)
	}
	left := ""
	if youCombo > 0 {
		left = fmt.Sprintf(" Combo x%d ", youCombo)
	}
	if youScythe > 0 {
		left += fmt.Sprintf(" Scythe(%d) ", youScythe)
	}
	if left != "" {
		dst.DrawTextColored(1, 1, left, core.ColorBrightYellow)
	}

	// Seeds then heads, same draw order as the solo renderer
	for i := 0; i < snap.SeedCount; i++ {
		x := Fixed(snap.SeedData[i*2]).ToCellRounded()
		y := Fixed(snap.SeedData[i*2+1]).ToCellRounded()
		if lawn.Contains(x, y) {
			dst.SetCell(x, y, glyphSeed, core.ColorBrightWhite)
		}
	}

	for i := 0; i < snap.DandelionCount; i++ {
		idx := i * 5
		head := Dandelion{
			X:         Fixed(snap.DandelionData[idx]),
			Y:         Fixed(snap.DandelionData[idx+1]),
			Size:      Size(snap.DandelionData[idx+2]),
			Health:    snap.DandelionData[idx+3],
			MaxHealth: snap.DandelionData[idx+4],
		}
		renderSnapshotHead(dst, lawn, &head)
	}

	for i := 0; i < snap.FireCount; i++ {
		idx := i * 3
		x := Fixed(snap.FireData[idx]).ToCellRounded()
		y := Fixed(snap.FireData[idx+1]).ToCellRounded()
		if !lawn.Contains(x, y) {
			continue
		}
		color := core.ColorBrightRed
		if snap.FireData[idx+2] > 0 {
			color = core.ColorRed
		}
		dst.SetCell(x, y, glyphFire, color)
	}

	for i := 0; i < snap.RabbitCount; i++ {
		idx := i * 3
		x := Fixed(snap.RabbitData[idx]).ToCellRounded()
		y := Fixed(snap.RabbitData[idx+1]).ToCellRounded()
		if !lawn.Contains(x, y) {
			continue
		}
		// Your rabbits render bright, the rival's in their cursor color.
		color := core.ColorBrightWhite
		if core.PlayerID(snap.RabbitData[idx+2]) != side {
			color = core.ColorMagenta
		}
		dst.SetCell(x, y, glyphRabbit, color)
	}

	for i := 0; i < snap.PickupCount; i++ {
		idx := i * 3
		x := Fixed(snap.PickupData[idx]).ToCellRounded()
		y := Fixed(snap.PickupData[idx+1]).ToCellRounded()
		if !lawn.Contains(x, y) {
			continue
		}
		dst.SetCell(x, y, PickupType(snap.PickupData[idx+2]).Glyph(), core.ColorBrightCyan)
		if lawn.Contains(x-1, y) {
			dst.SetCell(x-1, y, '(', core.ColorCyan)
		}
		if lawn.Contains(x+1, y) {
			dst.SetCell(x+1, y, ')', core.ColorCyan)
		}
	}

	// Both crosshairs: yours bright, the rival's dimmer. A scythe swaps the
	// crosshair for its blade.
	youX, youY := snap.Cursor1X, snap.Cursor1Y
	rivalX, rivalY := snap.Cursor2X, snap.Cursor2Y
	if side == core.Player2 {
		youX, youY, rivalX, rivalY = rivalX, rivalY, youX, youY
	}
	rivalGlyph, youGlyph := glyphCursor, glyphCursor
	if rivalScythe > 0 {
		rivalGlyph = glyphScythe
	}
	if youScythe > 0 {
		youGlyph = glyphScythe
	}
	rx, ry := Fixed(rivalX).ToCellRounded(), Fixed(rivalY).ToCellRounded()
	if lawn.Contains(rx, ry) {
		dst.SetCell(rx, ry, rivalGlyph, core.ColorMagenta)
	}
	yx, yy := Fixed(youX).ToCellRounded(), Fixed(youY).ToCellRounded()
	if lawn.Contains(yx, yy) {
		dst.SetCell(yx, yy, youGlyph, core.ColorBrightCyan)
	}

	dst.DrawTextColored(1, dst.Height()-1, "[wasd/mouse] aim  [space/click] strike  [esc] forfeit", core.ColorGray)

	if snap.GameOver {
		renderDuelOutcome(dst, snap, side)
	}
}

// renderSnapshotHead draws one head from relayed data, health bar included.
func renderSnapshotHead(dst *core.Screen, lawn core.Rect, d *Dandelion) {
	cx := d.X.ToCellRounded()
	cy := d.Y.ToCellRounded()
	r := d.Size.Radius()
	xr := r.ToCellRounded() + 1
	yr := xr/2 + 1
	body := bodyRune(d.Size)
	color := d.Size.Color()

	for dy := -yr; dy <= yr; dy++ {
		y := cy + dy
		if y < lawn.Y || y >= lawn.Bottom() {
			continue
		}
		for dx := -xr; dx <= xr; dx++ {
			x := cx + dx
			if x < lawn.X || x >= lawn.Right() {
				continue
			}
			if withinDist(ToFixed(x), ToFixed(y), d.X, d.Y, r) {
				dst.SetCell(x, y, body, color)
			}
		}
	}

	if d.Size >= SizeMedium && lawn.Contains(cx, cy) {
		dst.SetCell(cx, cy, '@', color)
	}

	if d.Health < d.MaxHealth && d.MaxHealth > 0 {
		barY := cy - yr - 1
		if barY >= lawn.Y && barY < lawn.Bottom() {
			width := 2*xr + 1
			filled := d.Health * width / d.MaxHealth
			hc := d.HealthColor()
			for i := 0; i < width; i++ {
				x := cx - xr + i
				if x < lawn.X || x >= lawn.Right() {
					continue
				}
				if i < filled {
					dst.SetCell(x, barY, glyphBarFull, hc)
				} else {
					dst.SetCell(x, barY, glyphBarEmpty, core.ColorGray)
				}
			}
		}
	}
}

// renderDuelOutcome draws the end-of-duel banner.
func renderDuelOutcome(dst *core.Screen, snap DuelSnapshot, side core.PlayerID) {
	var title string
	switch {
	case snap.Winner == 0:
		title = "DRAW"
	case core.PlayerID(snap.Winner) == side:
		title = "YOU WIN!"
	default:
		title = "RIVAL WINS"
	}
	subtitle := fmt.Sprintf("%d - %d  |  Esc: back to menu", snap.Score1, snap.Score2)

	w := dst.Width()
	h := dst.Height()
	boxW := core.Max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))
	dst.DrawText(boxX+(boxW-len(title))/2, boxY+1, title)
	dst.DrawText(boxX+(boxW-len(subtitle))/2, boxY+3, subtitle)
}
