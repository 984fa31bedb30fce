package dandelion

import (
	"math"

	"github.com/vovakirdan/tui-dandelions/internal/config"
	"github.com/vovakirdan/tui-dandelions/internal/core"
	"github.com/vovakirdan/tui-dandelions/internal/registry"
)

// Game states
const (
	StatePlaying  = "playing"
	StatePaused   = "paused"
	StateComplete = "complete" // Campaign target reached
	StateFailed   = "failed"   // Time ran out or the lawn was overrun
)

// GameMode selects between the campaign and endless survival.
type GameMode int

const (
	ModeCampaign GameMode = iota
	ModeEndless
)

// Package-level knobs set by the CLI/menu before Reset.
var (
	configPath       string
	difficultyPreset config.DifficultyPreset
	startLevelID     = 1
	unlockedStars    int
)

// SetConfigPath sets a custom config file path for the next Reset.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset for the next Reset.
func SetDifficultyPreset(preset config.DifficultyPreset) {
	difficultyPreset = preset
}

// SetStartLevel selects the campaign level (1-based) for the next Reset.
func SetStartLevel(id int) {
	if LevelByID(id) != nil {
		startLevelID = id
	}
}

// SetUnlockedStars tells the game how many stars the player has accumulated,
// which gates power-up spawning.
func SetUnlockedStars(stars int) {
	if stars < 0 {
		stars = 0
	}
	unlockedStars = stars
}

// Flash is a short-lived visual marker (merge rings, slash trails, eats).
type Flash struct {
	X, Y      Fixed
	Rune      rune
	Color     core.Color
	TicksLeft int
}

// Game is the dandelion lawn-defense game.
type Game struct {
	mode    GameMode
	cfg     core.RuntimeConfig
	gameCfg config.DandelionConfig

	rng        *SimpleRNG
	field      *Field
	powerups   *PowerUpManager
	difficulty *config.DifficultyManager

	lawn core.Rect

	state        string
	tickCount    int
	elapsedTicks int // Unpaused ticks since the run started

	level    *LevelSpec // nil in endless mode
	levelIdx int        // 0-based index into Levels

	outcome      core.LevelOutcome
	outcomeReady bool

	score          int
	combo          int
	comboTicksLeft int

	cursorX, cursorY Fixed
	cursorStep       Fixed

	spawnIn   int
	varietyIn int
	wave      int // Endless variety waves fired

	// Derived tick/fixed values, converted once per Reset
	spawnIntervalTicks   int
	varietyIntervalTicks int
	comboWindowTicks     int
	timeLimitTicks       int

	flashes []*Flash

	screenTooSmall bool
}

// New creates a campaign game.
func New() *Game {
	return &Game{mode: ModeCampaign}
}

// NewEndless creates an endless survival game.
func NewEndless() *Game {
	return &Game{mode: ModeEndless}
}

// ID returns the registry identifier for this mode.
func (g *Game) ID() string {
	if g.mode == ModeEndless {
		return "dandelion-endless"
	}
	return "dandelion"
}

// Title returns the display name for this mode.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "Dandelions: Endless Lawn"
	}
	return "Kill All Dandelions"
}

// ticksFor converts a duration in seconds to simulation ticks.
func (g *Game) ticksFor(secs float64) int {
	t := int(math.Round(secs * float64(g.cfg.TickRate)))
	if t < 1 {
		t = 1
	}
	return t
}

// perTick converts a speed in cells/sec to fixed-point movement per tick.
func (g *Game) perTick(cellsPerSec float64) Fixed {
	if g.cfg.TickRate <= 0 {
		return 0
	}
	return Fixed(math.Round(cellsPerSec * Scale / float64(g.cfg.TickRate)))
}

// Reset initializes the game for a new run.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.cfg = cfg
	if g.cfg.TickRate <= 0 {
		g.cfg.TickRate = 60
	}

	loaded, err := config.LoadDandelion(configPath)
	if err != nil {
		loaded = config.DefaultDandelionConfig()
	}
	config.ApplyDandelionPreset(&loaded, difficultyPreset)
	g.gameCfg = loaded

	g.screenTooSmall = cfg.ScreenW < loaded.Lawn.MinWidth || cfg.ScreenH < loaded.Lawn.MinHeight

	g.lawn = core.NewRect(
		0,
		loaded.Lawn.HUDRows,
		cfg.ScreenW,
		core.Max(1, cfg.ScreenH-loaded.Lawn.HUDRows-loaded.Lawn.StatusRows),
	)

	g.rng = NewSimpleRNG(cfg.Seed)

	g.levelIdx = 0
	g.level = nil
	healthMult := 1.0
	spawnMult := 1.0
	if g.mode == ModeCampaign {
		spec := LevelByID(startLevelID)
		if spec == nil {
			spec = &Levels[0]
		}
		g.level = spec
		g.levelIdx = spec.ID - 1
		healthMult = spec.HealthMult
		spawnMult = spec.SpawnRateMult
		g.timeLimitTicks = g.ticksFor(float64(spec.OneStarSecs))
	} else {
		g.timeLimitTicks = 0
	}

	g.field = NewField(g.lawn, FieldParams{
		SpawnMargin:          FixedFromFloat(loaded.Lawn.SpawnMargin),
		MoverSpeed:           g.perTick(loaded.Spawning.MoverSpeed),
		MoverTurnTicks:       g.ticksFor(loaded.Spawning.MoverTurnSecs),
		UpgradeCooldownTicks: g.ticksFor(loaded.Spawning.UpgradeCooldownSecs),
		MaxUpgradesPerTick:   loaded.Spawning.MaxUpgradesPerTick,
		SeedFlightTicks:      g.ticksFor(loaded.Seeds.FlightSecs),
		SeedMinDist:          FixedFromFloat(loaded.Seeds.MinDistance),
		SeedMaxDist:          FixedFromFloat(loaded.Seeds.MaxDistance),
		HealthMult:           healthMult,
	}, g.rng)

	g.powerups = NewPowerUpManager(PowerUpConfig{
		SpawnIntervalTicks:      g.ticksFor(loaded.Powerups.IntervalSecs),
		MaxActivePickups:        loaded.Powerups.MaxActive,
		ClickRadius:             FixedFromFloat(loaded.Powerups.ClickRadius),
		SpawnMargin:             FixedFromFloat(loaded.Powerups.SpawnMargin),
		RabbitLifetimeTicks:     g.ticksFor(loaded.Powerups.RabbitLifeSecs),
		RabbitSpeed:             g.perTick(loaded.Powerups.RabbitSpeed),
		RabbitEatDist:           FixedFromFloat(loaded.Powerups.RabbitEatDist),
		RabbitSplitAfter:        loaded.Powerups.RabbitSplitAfter,
		RabbitFallbackRadius:    FixedFromFloat(loaded.Powerups.RabbitFallback),
		FireRadius:              FixedFromFloat(loaded.Powerups.FireRadius),
		FireLifetimeTicks:       g.ticksFor(loaded.Powerups.FireLifeSecs),
		FireDamageIntervalTicks: g.ticksFor(loaded.Powerups.FireDamageSecs),
		MaxFireGeneration:       loaded.Powerups.MaxFireChain,
		ScytheDurationTicks:     g.ticksFor(loaded.Powerups.ScytheSecs),
		ScytheReach:             FixedFromFloat(loaded.Powerups.ScytheReach),
		Unlocked:                unlockedTypes(loaded.Powerups.Unlocks, unlockedStars),
	}, g.rng)

	g.difficulty = config.NewDifficultyManager(loaded.Difficulty)
	if config.IsFixedPreset(difficultyPreset) {
		g.difficulty.SetEnabled(false)
	}

	g.spawnIntervalTicks = g.ticksFor(loaded.Spawning.IntervalSecs / spawnMult)
	g.varietyIntervalTicks = g.ticksFor(loaded.Spawning.VarietyIntervalSecs)
	g.comboWindowTicks = g.ticksFor(loaded.Scoring.ComboWindowSecs)
	g.cursorStep = g.perTick(loaded.Cursor.Speed)

	g.state = StatePlaying
	g.tickCount = 0
	g.elapsedTicks = 0
	g.score = 0
	g.combo = 0
	g.comboTicksLeft = 0
	g.spawnIn = g.spawnIntervalTicks
	g.varietyIn = g.varietyIntervalTicks
	g.wave = 0
	g.outcome = core.LevelOutcome{}
	g.outcomeReady = false
	g.flashes = nil

	cx, cy := g.lawn.Center()
	g.cursorX = ToFixed(cx)
	g.cursorY = ToFixed(cy)
}

// unlockedTypes filters pickup types by the player's accumulated stars.
func unlockedTypes(unlocks config.PowerupUnlocks, stars int) []PickupType {
	var types []PickupType
	if stars >= unlocks.Bunny {
		types = append(types, PickupBunny)
	}
	if stars >= unlocks.Flamethrower {
		types = append(types, PickupFlamethrower)
	}
	if stars >= unlocks.Scythe {
		types = append(types, PickupScythe)
	}
	return types
}

// Step advances the simulation by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tickCount++

	if in.Has(core.ActionRestart) && (g.state == StateComplete || g.state == StateFailed) {
		g.Reset(g.cfg)
		return g.result()
	}

	if in.Has(core.ActionPause) {
		switch g.state {
		case StatePlaying:
			g.state = StatePaused
		case StatePaused:
			g.state = StatePlaying
		}
	}

	if g.state != StatePlaying || g.screenTooSmall {
		return g.result()
	}

	g.elapsedTicks++
	g.decayCombo()
	g.moveCursor(in)

	if in.Has(core.ActionFire) {
		g.strike()
	}

	g.updateSpawning()
	g.field.UpdateSeeds()
	g.field.UpdateMovers()
	g.field.UpgradePass()
	for _, ev := range g.field.MergePass() {
		g.addFlash(ev.X, ev.Y, '*', core.ColorBrightYellow, g.ticksFor(0.5))
	}

	g.powerups.TrySpawn(g.lawn)
	g.powerups.UpdateRabbits(g.field, g.eatKill)
	g.powerups.UpdateFires(g.field, g.burnKill)
	g.powerups.ExpireEffects(g.tickCount)

	g.decayFlashes()
	g.checkEndConditions()

	return g.result()
}

// decayCombo drops the combo when the kill window lapses.
func (g *Game) decayCombo() {
	if g.comboTicksLeft > 0 {
		g.comboTicksLeft--
		if g.comboTicksLeft == 0 {
			g.combo = 0
		}
	}
}

// moveCursor applies keyboard crosshair movement and absolute pointer input.
func (g *Game) moveCursor(in core.InputFrame) {
	if x, y, ok := in.Pointer(); ok {
		g.cursorX = ToFixed(x)
		g.cursorY = ToFixed(y)
	}
	if in.Has(core.ActionLeft) {
		g.cursorX -= g.cursorStep
	}
	if in.Has(core.ActionRight) {
		g.cursorX += g.cursorStep
	}
	// Vertical movement halved so the crosshair feels isotropic on screen.
	if in.Has(core.ActionUp) {
		g.cursorY -= g.cursorStep.Div(2)
	}
	if in.Has(core.ActionDown) {
		g.cursorY += g.cursorStep.Div(2)
	}

	minX := ToFixed(g.lawn.X)
	maxX := ToFixed(g.lawn.Right() - 1)
	minY := ToFixed(g.lawn.Y)
	maxY := ToFixed(g.lawn.Bottom() - 1)
	if g.cursorX < minX {
		g.cursorX = minX
	}
	if g.cursorX > maxX {
		g.cursorX = maxX
	}
	if g.cursorY < minY {
		g.cursorY = minY
	}
	if g.cursorY > maxY {
		g.cursorY = maxY
	}
}

// strike resolves a click at the crosshair: consume a pickup if one is in
// range, otherwise hit dandelions (a slash while the scythe is active).
func (g *Game) strike() {
	if p := g.powerups.TryConsume(g.cursorX, g.cursorY, g.tickCount); p != nil {
		g.addFlash(p.X, p.Y, p.Type.Glyph(), core.ColorBrightCyan, g.ticksFor(0.4))
		return
	}

	if g.powerups.HasEffect(EffectScythe, g.tickCount) {
		g.slash()
		return
	}

	idx := g.field.ClickTarget(g.cursorX, g.cursorY)
	if idx < 0 {
		return
	}
	if g.field.Dandelions[idx].Damage(1) {
		g.strikeKill(idx)
	}
}

// slash hits every head along a diagonal through the crosshair.
func (g *Game) slash() {
	reach := g.powerups.Config.ScytheReach
	g.addFlash(g.cursorX, g.cursorY, '/', core.ColorBrightWhite, g.ticksFor(0.2))

	hits := g.field.SlashTargets(g.cursorX, g.cursorY, reach)
	// Kill back to front so earlier indices stay valid.
	for i := len(hits) - 1; i >= 0; i-- {
		idx := hits[i]
		if g.field.Dandelions[idx].Damage(1) {
			g.strikeKill(idx)
		}
	}
}

// strikeKill destroys a head by player action: it seeds the lawn.
func (g *Game) strikeKill(idx int) {
	d := g.field.Kill(idx)
	g.addPoints(d.Size)
}

// eatKill removes a head eaten whole by a rabbit: no seeds.
func (g *Game) eatKill(idx int) {
	d := g.field.Consume(idx)
	g.addFlash(d.X, d.Y, '~', core.ColorBrightWhite, g.ticksFor(0.3))
	g.addPoints(d.Size)
}

// burnKill removes a head burned to ash: no seeds.
func (g *Game) burnKill(idx int) {
	d := g.field.Consume(idx)
	g.addFlash(d.X, d.Y, '^', core.ColorBrightRed, g.ticksFor(0.3))
	g.addPoints(d.Size)
}

// addPoints scores a kill with the current combo bonus, then grows the combo.
func (g *Game) addPoints(s Size) {
	base := s.Points()
	bonusPct := g.combo * g.gameCfg.Scoring.ComboStepPct
	if bonusPct > g.gameCfg.Scoring.ComboMaxPct {
		bonusPct = g.gameCfg.Scoring.ComboMaxPct
	}
	g.score += base + base*bonusPct/100
	g.combo++
	g.comboTicksLeft = g.comboWindowTicks
}

// updateSpawning drives the base spawn timer and variety waves.
func (g *Game) updateSpawning() {
	interval := g.spawnIntervalTicks
	if g.mode == ModeEndless {
		mult := g.difficulty.SpawnMultiplier(g.score, g.elapsedTicks)
		interval = int(math.Round(float64(g.spawnIntervalTicks) / mult))
		if interval < 1 {
			interval = 1
		}
		g.field.Params.HealthMult = g.difficulty.HealthMultiplier(g.score, g.elapsedTicks)
	}

	g.spawnIn--
	if g.spawnIn <= 0 {
		g.spawnIn = interval
		g.field.SpawnRandom(SizeTiny, false)
	}

	g.varietyIn--
	if g.varietyIn <= 0 {
		g.varietyIn = g.varietyIntervalTicks
		if g.score >= g.varietyThreshold() {
			for s := SizeTiny; s <= SizeHuge; s++ {
				g.field.SpawnRandom(s, s == SizeHuge)
			}
			g.wave++
		}
	}
}

// varietyThreshold returns the score past which variety waves fire.
func (g *Game) varietyThreshold() int {
	if g.mode == ModeCampaign && g.level != nil {
		return g.level.DifficultyThreshold
	}
	// Endless thresholds climb with each wave so the pressure keeps pace.
	return g.gameCfg.Endless.VarietyBaseScore * (g.wave + 1)
}

// checkEndConditions resolves level completion, time out, and overrun.
func (g *Game) checkEndConditions() {
	if g.mode == ModeCampaign && g.level != nil {
		if g.score >= g.level.TargetPoints {
			secs := g.elapsedSecs()
			g.state = StateComplete
			g.outcome = core.LevelOutcome{
				LevelID:   g.level.ID,
				Score:     g.score,
				TimeSecs:  secs,
				Stars:     g.level.Stars(secs),
				Completed: true,
			}
			g.outcomeReady = true
			return
		}
		if g.timeLimitTicks > 0 && g.elapsedTicks > g.timeLimitTicks {
			g.state = StateFailed
			g.outcome = core.LevelOutcome{
				LevelID:  g.level.ID,
				Score:    g.score,
				TimeSecs: g.elapsedSecs(),
			}
			g.outcomeReady = true
			return
		}
		return
	}

	if g.gameCfg.Endless.OverrunCount > 0 && g.field.Count() >= g.gameCfg.Endless.OverrunCount {
		g.state = StateFailed
	}
}

// elapsedSecs returns whole seconds of unpaused play.
func (g *Game) elapsedSecs() int {
	return g.elapsedTicks / g.cfg.TickRate
}

// remainingSecs returns seconds left before the level time limit.
func (g *Game) remainingSecs() int {
	if g.timeLimitTicks <= 0 {
		return 0
	}
	left := g.timeLimitTicks - g.elapsedTicks
	if left < 0 {
		left = 0
	}
	return (left + g.cfg.TickRate - 1) / g.cfg.TickRate
}

// curbAppeal is the lawn tidiness meter shown in the HUD.
func (g *Game) curbAppeal() int {
	appeal := 100 - 5*g.field.Count()
	if appeal < 0 {
		appeal = 0
	}
	return appeal
}

func (g *Game) addFlash(x, y Fixed, r rune, c core.Color, ticks int) {
	g.flashes = append(g.flashes, &Flash{X: x, Y: y, Rune: r, Color: c, TicksLeft: ticks})
}

func (g *Game) decayFlashes() {
	alive := g.flashes[:0]
	for _, f := range g.flashes {
		f.TicksLeft--
		if f.TicksLeft > 0 {
			alive = append(alive, f)
		}
	}
	g.flashes = alive
}

func (g *Game) result() core.StepResult {
	return core.StepResult{State: g.State()}
}

// State returns the platform-facing game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.state == StateComplete || g.state == StateFailed,
		Paused:   g.state == StatePaused,
	}
}

// LevelOutcome implements core.LevelReporter for campaign progress saving.
func (g *Game) LevelOutcome() (core.LevelOutcome, bool) {
	return g.outcome, g.outcomeReady
}

func init() {
	registry.Register("dandelion", func() registry.Game { return New() })
	registry.Register("dandelion-endless", func() registry.Game { return NewEndless() })
}
