package dandelion

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-dandelions/internal/config"
	"github.com/vovakirdan/tui-dandelions/internal/core"
)

// resetKnobs restores the package-level launch knobs that persist between
// Resets, so tests don't leak state into each other. HOME is pointed at an
// empty directory to keep any user config out of the loader's search path.
func resetKnobs(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	configPath = ""
	difficultyPreset = ""
	startLevelID = 1
	unlockedStars = 0
}

// scriptFrame produces a deterministic pseudo-varied input for tick i.
func scriptFrame(i int) core.InputFrame {
	in := core.NewInputFrame()
	switch {
	case i%11 == 0:
		in.Set(core.ActionFire)
	case i%4 == 0:
		in.Set(core.ActionRight)
	case i%7 == 0:
		in.Set(core.ActionDown)
	case i%5 == 0:
		in.Set(core.ActionLeft)
	}
	return in
}

func TestGameReset(t *testing.T) {
	resetKnobs(t)
	g := New()
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 42}
	g.Reset(cfg)

	if g.state != StatePlaying {
		t.Errorf("Expected state %q after reset, got %q", StatePlaying, g.state)
	}
	if g.score != 0 {
		t.Errorf("Expected score 0 after reset, got %d", g.score)
	}
	if g.level == nil || g.level.ID != 1 {
		t.Errorf("Campaign should start at level 1, got %+v", g.level)
	}
	if g.field.Count() != 0 {
		t.Errorf("Lawn should start empty, got %d heads", g.field.Count())
	}
	if g.outcomeReady {
		t.Error("Outcome should not be ready after reset")
	}

	// Crosshair starts at the lawn center
	cx, cy := g.lawn.Center()
	if g.cursorX != ToFixed(cx) || g.cursorY != ToFixed(cy) {
		t.Errorf("Cursor at (%d, %d), expected lawn center (%d, %d)",
			g.cursorX, g.cursorY, ToFixed(cx), ToFixed(cy))
	}
}

func TestGameIDAndTitle(t *testing.T) {
	if id := New().ID(); id != "dandelion" {
		t.Errorf("Campaign ID = %q, expected dandelion", id)
	}
	if id := NewEndless().ID(); id != "dandelion-endless" {
		t.Errorf("Endless ID = %q, expected dandelion-endless", id)
	}
	if title := New().Title(); title != "Kill All Dandelions" {
		t.Errorf("Unexpected campaign title %q", title)
	}
}

func TestGameStrikeKillScoresAndSeeds(t *testing.T) {
	resetKnobs(t)
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 7})

	// Place a tiny head directly under the crosshair. Tiny heads die in
	// one hit and scatter two seeds.
	g.field.SpawnAt(SizeTiny, g.cursorX, g.cursorY, false)

	in := core.NewInputFrame()
	in.Set(core.ActionFire)
	g.Step(in)

	if g.score != SizeTiny.Points() {
		t.Errorf("Expected score %d after killing a tiny head, got %d", SizeTiny.Points(), g.score)
	}
	if g.combo != 1 {
		t.Errorf("Expected combo 1 after first kill, got %d", g.combo)
	}
	if g.field.Count() != 0 {
		t.Errorf("Head should be destroyed, %d remain", g.field.Count())
	}
	if len(g.field.Seeds) != SizeTiny.SeedCount() {
		t.Errorf("Expected %d seeds in flight, got %d", SizeTiny.SeedCount(), len(g.field.Seeds))
	}
}

func TestGameComboScoring(t *testing.T) {
	resetKnobs(t)
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 7})

	fire := core.NewInputFrame()
	fire.Set(core.ActionFire)

	g.field.SpawnAt(SizeTiny, g.cursorX, g.cursorY, false)
	g.Step(fire)

	g.field.SpawnAt(SizeTiny, g.cursorX, g.cursorY, false)
	g.Step(fire)

	// Second kill lands inside the combo window, earning the step bonus.
	base := SizeTiny.Points()
	bonus := base * g.gameCfg.Scoring.ComboStepPct / 100
	want := base + base + bonus
	if g.score != want {
		t.Errorf("Expected score %d after a 2-kill combo, got %d", want, g.score)
	}
	if g.combo != 2 {
		t.Errorf("Expected combo 2, got %d", g.combo)
	}
}

func TestGameComboDecay(t *testing.T) {
	resetKnobs(t)
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 7})

	fire := core.NewInputFrame()
	fire.Set(core.ActionFire)
	g.field.SpawnAt(SizeTiny, g.cursorX, g.cursorY, false)
	g.Step(fire)

	if g.combo != 1 {
		t.Fatalf("Expected combo 1 after kill, got %d", g.combo)
	}

	// Let the kill window lapse
	g.comboTicksLeft = 1
	g.Step(core.NewInputFrame())

	if g.combo != 0 {
		t.Errorf("Combo should reset when the window lapses, got %d", g.combo)
	}
}

func TestGamePauseFreezesSimulation(t *testing.T) {
	resetKnobs(t)
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 42})

	pause := core.NewInputFrame()
	pause.Set(core.ActionPause)
	g.Step(pause)

	if g.state != StatePaused {
		t.Fatalf("Expected state %q, got %q", StatePaused, g.state)
	}

	for i := 0; i < 10; i++ {
		g.Step(core.NewInputFrame())
	}
	if g.elapsedTicks != 0 {
		t.Errorf("Paused game should not advance, elapsed %d ticks", g.elapsedTicks)
	}

	// Unpausing resumes the simulation on the same tick
	g.Step(pause)
	if g.state != StatePlaying {
		t.Errorf("Expected state %q after unpause, got %q", StatePlaying, g.state)
	}
	if g.elapsedTicks != 1 {
		t.Errorf("Expected 1 elapsed tick after unpause, got %d", g.elapsedTicks)
	}
}

func TestGamePointerMovesCursor(t *testing.T) {
	resetKnobs(t)
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 42})

	in := core.NewInputFrame()
	in.SetPointer(10, 5)
	g.Step(in)

	if g.cursorX != ToFixed(10) || g.cursorY != ToFixed(5) {
		t.Errorf("Cursor at (%d, %d), expected (%d, %d)",
			g.cursorX, g.cursorY, ToFixed(10), ToFixed(5))
	}

	// Pointer positions outside the lawn clamp to its edges
	in = core.NewInputFrame()
	in.SetPointer(500, 0)
	g.Step(in)

	if g.cursorX != ToFixed(g.lawn.Right()-1) {
		t.Errorf("Cursor X should clamp to lawn edge, got %d", g.cursorX)
	}
	if g.cursorY != ToFixed(g.lawn.Y) {
		t.Errorf("Cursor Y should clamp to lawn top, got %d", g.cursorY)
	}
}

func TestGameCampaignComplete(t *testing.T) {
	resetKnobs(t)
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 42})

	g.score = g.level.TargetPoints - 1
	g.Step(core.NewInputFrame())
	if g.state != StatePlaying {
		t.Fatalf("One point short should not complete, state %q", g.state)
	}

	g.score = g.level.TargetPoints
	g.Step(core.NewInputFrame())

	if g.state != StateComplete {
		t.Fatalf("Expected state %q at target, got %q", StateComplete, g.state)
	}

	outcome, ready := g.LevelOutcome()
	if !ready {
		t.Fatal("Expected outcome to be ready after completion")
	}
	if !outcome.Completed {
		t.Error("Outcome should be marked completed")
	}
	if outcome.LevelID != 1 {
		t.Errorf("Outcome level = %d, expected 1", outcome.LevelID)
	}
	// Completing within seconds of the start earns all three stars
	if outcome.Stars != 3 {
		t.Errorf("Expected 3 stars for an instant clear, got %d", outcome.Stars)
	}

	// The finished game stays frozen
	before := g.elapsedTicks
	g.Step(core.NewInputFrame())
	if g.elapsedTicks != before {
		t.Error("Completed game should not keep simulating")
	}
}

func TestGameCampaignTimeout(t *testing.T) {
	resetKnobs(t)
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 42})

	g.elapsedTicks = g.timeLimitTicks
	g.Step(core.NewInputFrame())

	if g.state != StateFailed {
		t.Fatalf("Expected state %q past the time limit, got %q", StateFailed, g.state)
	}

	outcome, ready := g.LevelOutcome()
	if !ready {
		t.Fatal("Expected outcome to be ready after a timeout")
	}
	if outcome.Completed {
		t.Error("Timed-out run must not count as completed")
	}
	if outcome.Stars != 0 {
		t.Errorf("Timed-out run should earn 0 stars, got %d", outcome.Stars)
	}
}

func TestGameRestartAfterGameOver(t *testing.T) {
	resetKnobs(t)
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 42})

	g.elapsedTicks = g.timeLimitTicks
	g.Step(core.NewInputFrame())
	if g.state != StateFailed {
		t.Fatalf("Setup failed, state %q", g.state)
	}

	restart := core.NewInputFrame()
	restart.Set(core.ActionRestart)
	g.Step(restart)

	if g.state != StatePlaying {
		t.Errorf("Expected a fresh run after restart, state %q", g.state)
	}
	if g.score != 0 || g.elapsedTicks != 0 {
		t.Errorf("Restart should zero the run, score %d elapsed %d", g.score, g.elapsedTicks)
	}
	if _, ready := g.LevelOutcome(); ready {
		t.Error("Outcome should be cleared by restart")
	}
}

func TestGameVarietyWave(t *testing.T) {
	resetKnobs(t)
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 42})

	// Variety waves fire once the score passes the level threshold.
	g.score = g.level.DifficultyThreshold
	g.varietyIn = 1
	g.Step(core.NewInputFrame())

	// One head per size lands; the wave's own mover can upgrade a
	// neighbor into a size twin that merges on the landing tick.
	if n := g.field.Count(); n < sizeCount-1 || n > sizeCount {
		t.Errorf("Variety wave should spawn one head per size, got %d", n)
	}
	if g.wave != 1 {
		t.Errorf("Expected wave counter 1, got %d", g.wave)
	}
}

func TestGameVarietyWaveHeldBelowThreshold(t *testing.T) {
	resetKnobs(t)
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 42})

	g.score = g.level.DifficultyThreshold - 1
	g.varietyIn = 1
	g.Step(core.NewInputFrame())

	if g.field.Count() != 0 {
		t.Errorf("No wave should fire below the threshold, got %d heads", g.field.Count())
	}
	if g.wave != 0 {
		t.Errorf("Expected wave counter 0, got %d", g.wave)
	}
}

func TestGameEndlessOverrun(t *testing.T) {
	resetKnobs(t)
	g := NewEndless()
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 42})

	if g.timeLimitTicks != 0 {
		t.Errorf("Endless mode has no time limit, got %d ticks", g.timeLimitTicks)
	}

	// Fill the lawn to the overrun count, spaced out so nothing merges.
	for i := 0; i < g.gameCfg.Endless.OverrunCount; i++ {
		g.field.SpawnAt(SizeTiny, ToFixed(4+3*i), ToFixed(12), false)
	}
	g.Step(core.NewInputFrame())

	if g.state != StateFailed {
		t.Errorf("Overrun lawn should end the run, state %q", g.state)
	}

	// Endless runs never produce a campaign outcome
	if _, ready := g.LevelOutcome(); ready {
		t.Error("Endless mode should not report a level outcome")
	}
}

func TestGameScytheSlash(t *testing.T) {
	resetKnobs(t)
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 42})

	g.powerups.AddEffect(EffectScythe, g.tickCount+1000)

	// Two tiny heads along the slash diagonal through the crosshair
	g.field.SpawnAt(SizeTiny, g.cursorX, g.cursorY, false)
	g.field.SpawnAt(SizeTiny, g.cursorX+ToFixed(2), g.cursorY+ToFixed(1), false)

	fire := core.NewInputFrame()
	fire.Set(core.ActionFire)
	g.Step(fire)

	if g.field.Count() != 0 {
		t.Errorf("Slash should destroy both heads, %d remain", g.field.Count())
	}

	// Both kills score, with the second in the chain earning the combo bonus
	base := SizeTiny.Points()
	want := base + base + base*g.gameCfg.Scoring.ComboStepPct/100
	if g.score != want {
		t.Errorf("Expected score %d from slash, got %d", want, g.score)
	}
}

func TestGameScreenTooSmall(t *testing.T) {
	resetKnobs(t)
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 30, ScreenH: 10, TickRate: 60, Seed: 42})

	if !g.screenTooSmall {
		t.Fatal("30x10 should be below the minimum playable size")
	}

	for i := 0; i < 5; i++ {
		g.Step(core.NewInputFrame())
	}
	if g.elapsedTicks != 0 {
		t.Errorf("Simulation should be held while the screen is too small, elapsed %d", g.elapsedTicks)
	}

	screen := core.NewScreen(30, 10)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Window too small") {
		t.Error("Render should show the resize prompt")
	}
}

func TestGameDeterminism(t *testing.T) {
	resetKnobs(t)
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 12345}

	a := NewEndless()
	a.Reset(cfg)
	b := NewEndless()
	b.Reset(cfg)

	for i := 0; i < 600; i++ {
		in := scriptFrame(i)
		a.Step(in)
		b.Step(in)
	}

	snapA := a.Snapshot()
	snapB := b.Snapshot()
	if snapA.Hash() != snapB.Hash() {
		t.Errorf("Same seed and inputs should produce identical state: %d vs %d",
			snapA.Hash(), snapB.Hash())
	}
	if a.score != b.score {
		t.Errorf("Scores diverged: %d vs %d", a.score, b.score)
	}
}

func TestGameSeedChangesOutcome(t *testing.T) {
	resetKnobs(t)

	a := NewEndless()
	a.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1})
	b := NewEndless()
	b.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 2})

	// Let a few spawns land; different seeds place them differently.
	for i := 0; i < 400; i++ {
		a.Step(core.NewInputFrame())
		b.Step(core.NewInputFrame())
	}

	snapA := a.Snapshot()
	snapB := b.Snapshot()
	if snapA.Hash() == snapB.Hash() {
		t.Error("Different seeds should diverge within a few spawn cycles")
	}
}

func TestGameSnapshotRestore(t *testing.T) {
	resetKnobs(t)
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 999}

	a := NewEndless()
	a.Reset(cfg)
	for i := 0; i < 400; i++ {
		a.Step(scriptFrame(i))
	}
	snap := a.Snapshot()

	b := NewEndless()
	b.Reset(cfg)
	b.ApplySnapshot(snap)

	restored := b.Snapshot()
	if restored.Hash() != snap.Hash() {
		t.Fatalf("Restored state should match the snapshot: %d vs %d", restored.Hash(), snap.Hash())
	}

	// Both copies must evolve identically from the restore point.
	for i := 400; i < 600; i++ {
		in := scriptFrame(i)
		a.Step(in)
		b.Step(in)
	}
	finalA := a.Snapshot()
	finalB := b.Snapshot()
	if finalA.Hash() != finalB.Hash() {
		t.Errorf("Restored game diverged after %d ticks: %d vs %d",
			200, finalA.Hash(), finalB.Hash())
	}
}

func TestGameCurbAppeal(t *testing.T) {
	resetKnobs(t)
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 42})

	if got := g.curbAppeal(); got != 100 {
		t.Errorf("Empty lawn should have 100%% curb appeal, got %d", got)
	}

	for i := 0; i < 5; i++ {
		g.field.SpawnAt(SizeTiny, ToFixed(10+4*i), ToFixed(12), false)
	}
	if got := g.curbAppeal(); got != 75 {
		t.Errorf("Expected 75%% curb appeal with 5 heads, got %d", got)
	}

	for i := 0; i < 20; i++ {
		g.field.SpawnAt(SizeTiny, ToFixed(4+3*i), ToFixed(18), false)
	}
	if got := g.curbAppeal(); got != 0 {
		t.Errorf("Curb appeal should floor at 0, got %d", got)
	}
}

func TestUnlockedTypes(t *testing.T) {
	unlocks := config.PowerupUnlocks{Bunny: 0, Flamethrower: 5, Scythe: 10}

	tests := []struct {
		stars int
		want  int
	}{
		{0, 1},
		{3, 1},
		{5, 2},
		{9, 2},
		{10, 3},
		{99, 3},
	}
	for _, tc := range tests {
		got := unlockedTypes(unlocks, tc.stars)
		if len(got) != tc.want {
			t.Errorf("unlockedTypes with %d stars = %d types, expected %d", tc.stars, len(got), tc.want)
		}
	}

	// The bunny is always the first unlock
	if got := unlockedTypes(unlocks, 0); len(got) == 0 || got[0] != PickupBunny {
		t.Errorf("Expected the bunny at 0 stars, got %v", got)
	}
}

func TestGameRender(t *testing.T) {
	resetKnobs(t)
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 42})
	g.field.SpawnAt(SizeHuge, ToFixed(40), ToFixed(12), false)

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()

	if !strings.Contains(out, "Weed Rising") {
		t.Error("HUD should show the level name")
	}
	if !strings.Contains(out, "Score: 0/500") {
		t.Error("HUD should show score against the target")
	}
	if !strings.Contains(out, "Curb Appeal") {
		t.Error("HUD should show curb appeal")
	}
	if !strings.Contains(out, "+") {
		t.Error("Crosshair should be drawn")
	}
}

func TestGameRenderEndless(t *testing.T) {
	resetKnobs(t)
	g := NewEndless()
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 42})

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()

	if !strings.Contains(out, "Endless Lawn") {
		t.Error("Endless HUD should name the mode")
	}
	if strings.Contains(out, "/500") {
		t.Error("Endless HUD should not show a score target")
	}
}
