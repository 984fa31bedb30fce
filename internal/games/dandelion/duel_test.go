package dandelion

import (
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-dandelions/internal/core"
)

func newTestDuel(t *testing.T, seed int64) *Duel {
	resetKnobs(t)
	d := NewDuel()
	d.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: seed})
	return d
}

func duelFrame(p1, p2 core.InputFrame) core.MultiInputFrame {
	m := core.NewMultiInputFrame()
	m.SetPlayer(core.Player1, p1)
	m.SetPlayer(core.Player2, p2)
	return m
}

func TestDuelReset(t *testing.T) {
	d := newTestDuel(t, 1)

	if d.targetPoints != d.gameCfg.Duel.TargetPoints {
		t.Errorf("Target = %d, expected %d", d.targetPoints, d.gameCfg.Duel.TargetPoints)
	}
	if d.timeLimitTicks != d.gameCfg.Duel.TimeLimitSecs*60 {
		t.Errorf("Time limit = %d ticks, expected %d", d.timeLimitTicks, d.gameCfg.Duel.TimeLimitSecs*60)
	}
	if d.IsGameOver() {
		t.Error("Fresh duel should be running")
	}
	if d.Score1() != 0 || d.Score2() != 0 {
		t.Errorf("Fresh duel scores = %d/%d", d.Score1(), d.Score2())
	}
	if d.field.Count() != 0 {
		t.Errorf("Fresh lawn should be empty, got %d", d.field.Count())
	}

	// Players start centered on opposite halves of the lawn
	if d.cursorX[0] != ToFixed(d.lawn.X+d.lawn.W/4) {
		t.Errorf("Player 1 cursor X = %d", d.cursorX[0])
	}
	if d.cursorX[1] != ToFixed(d.lawn.X+3*d.lawn.W/4) {
		t.Errorf("Player 2 cursor X = %d", d.cursorX[1])
	}
	_, cy := d.lawn.Center()
	if d.cursorY[0] != ToFixed(cy) || d.cursorY[1] != ToFixed(cy) {
		t.Errorf("Cursors should start at lawn center row, got %d/%d", d.cursorY[0], d.cursorY[1])
	}
}

// A head struck by both players on the same tick goes to Player 1: the host's
// strike resolves first and the kill leaves nothing for the joiner.
func TestDuelContestedStrikeHostWins(t *testing.T) {
	d := newTestDuel(t, 1)
	d.field.SpawnAt(SizeTiny, ToFixed(40), ToFixed(12), false)

	strike := core.NewInputFrame()
	strike.SetPointer(40, 12)
	strike.Set(core.ActionFire)
	d.StepMulti(duelFrame(strike, strike.Clone()))

	if d.Score1() != SizeTiny.Points() {
		t.Errorf("Player 1 score = %d, expected %d", d.Score1(), SizeTiny.Points())
	}
	if d.Score2() != 0 {
		t.Errorf("Player 2 should score nothing on a contested head, got %d", d.Score2())
	}
	if d.field.Count() != 0 {
		t.Errorf("The head should be dead, %d remain", d.field.Count())
	}
	if d.combos[0] != 1 || d.combos[1] != 0 {
		t.Errorf("Combos = %d/%d, expected 1/0", d.combos[0], d.combos[1])
	}
}

func TestDuelIndependentScoring(t *testing.T) {
	d := newTestDuel(t, 1)
	d.field.SpawnAt(SizeTiny, ToFixed(20), ToFixed(12), false)
	d.field.SpawnAt(SizeTiny, ToFixed(60), ToFixed(12), false)

	p1 := core.NewInputFrame()
	p1.SetPointer(20, 12)
	p1.Set(core.ActionFire)
	p2 := core.NewInputFrame()
	p2.SetPointer(60, 12)
	p2.Set(core.ActionFire)
	d.StepMulti(duelFrame(p1, p2))

	if d.Score1() != SizeTiny.Points() || d.Score2() != SizeTiny.Points() {
		t.Errorf("Both strikes should land, scores = %d/%d", d.Score1(), d.Score2())
	}
	if d.field.Count() != 0 {
		t.Errorf("Both heads should be dead, %d remain", d.field.Count())
	}
}

func TestDuelTargetScoreEndsMatch(t *testing.T) {
	d := newTestDuel(t, 1)
	d.scores[0] = d.targetPoints

	res := d.StepMulti(duelFrame(core.NewInputFrame(), core.NewInputFrame()))

	if !d.IsGameOver() {
		t.Fatal("Reaching the target should end the duel")
	}
	if d.Winner() != core.Player1 {
		t.Errorf("Winner = %v, expected Player1", d.Winner())
	}
	if !res.State.GameOver {
		t.Error("Step result should report the finish")
	}

	// A finished duel freezes
	tick := d.tickCount
	d.StepMulti(duelFrame(core.NewInputFrame(), core.NewInputFrame()))
	if d.tickCount != tick {
		t.Error("Finished duel should not advance")
	}
}

func TestDuelTimeLimitDraw(t *testing.T) {
	d := newTestDuel(t, 1)
	d.tickCount = d.timeLimitTicks - 1

	d.StepMulti(duelFrame(core.NewInputFrame(), core.NewInputFrame()))

	if !d.IsGameOver() {
		t.Fatal("The clock running out should end the duel")
	}
	if d.Winner() != 0 {
		t.Errorf("Equal scores should draw, winner = %v", d.Winner())
	}
}

func TestDuelTimeLimitLeaderWins(t *testing.T) {
	d := newTestDuel(t, 1)
	d.tickCount = d.timeLimitTicks - 1
	d.scores[1] = 50

	d.StepMulti(duelFrame(core.NewInputFrame(), core.NewInputFrame()))

	if d.Winner() != core.Player2 {
		t.Errorf("The leader at the buzzer should win, got %v", d.Winner())
	}
}

func TestDuelVarietyWaveUsesCombinedScore(t *testing.T) {
	d := newTestDuel(t, 42)
	d.scores[0] = 300
	d.scores[1] = 250
	d.varietyIn = 1

	d.StepMulti(duelFrame(core.NewInputFrame(), core.NewInputFrame()))

	if d.wave != 1 {
		t.Errorf("Combined score past the base should fire a wave, wave = %d", d.wave)
	}
	// One head per size lands; the wave's own mover can upgrade a
	// neighbor into a size twin that merges on the landing tick.
	if n := d.field.Count(); n < sizeCount-1 || n > sizeCount {
		t.Errorf("Wave should spawn one head per size, got %d", n)
	}
}

func TestDuelSnapshotFields(t *testing.T) {
	d := newTestDuel(t, 1)
	d.field.SpawnAt(SizeSmall, ToFixed(10), ToFixed(5), false)
	d.scores[0] = 120
	d.scores[1] = 45

	snap, ok := d.Snapshot().(DuelSnapshot)
	if !ok {
		t.Fatal("Snapshot should be a DuelSnapshot")
	}

	if snap.Score1 != 120 || snap.Score2 != 45 {
		t.Errorf("Snapshot scores = %d/%d", snap.Score1, snap.Score2)
	}
	if snap.TargetPoints != d.targetPoints {
		t.Errorf("Snapshot target = %d", snap.TargetPoints)
	}
	if snap.TimeLeftSecs != d.gameCfg.Duel.TimeLimitSecs {
		t.Errorf("Snapshot clock = %d, expected the full limit", snap.TimeLeftSecs)
	}
	if snap.GameOver || snap.Winner != 0 {
		t.Errorf("Running duel snapshot flags: over=%v winner=%d", snap.GameOver, snap.Winner)
	}
	if snap.LawnX != 0 || snap.LawnY != 2 || snap.LawnW != 80 || snap.LawnH != 21 {
		t.Errorf("Snapshot lawn = (%d,%d,%d,%d)", snap.LawnX, snap.LawnY, snap.LawnW, snap.LawnH)
	}
	if snap.Cursor1X != int(d.cursorX[0]) || snap.Cursor2X != int(d.cursorX[1]) {
		t.Errorf("Snapshot cursors = %d/%d", snap.Cursor1X, snap.Cursor2X)
	}

	if snap.DandelionCount != 1 || len(snap.DandelionData) != 5 {
		t.Fatalf("Snapshot head data: count=%d len=%d", snap.DandelionCount, len(snap.DandelionData))
	}
	want := []int{int(ToFixed(10)), int(ToFixed(5)), int(SizeSmall), 2, 2}
	if !reflect.DeepEqual(snap.DandelionData, want) {
		t.Errorf("Head data = %v, expected %v", snap.DandelionData, want)
	}
	if snap.SeedCount != 0 || len(snap.SeedData) != 0 {
		t.Errorf("Fresh lawn snapshot should carry no seeds")
	}
}

func TestDuelDeterminism(t *testing.T) {
	a := newTestDuel(t, 777)
	b := newTestDuel(t, 777)

	for i := 0; i < 600; i++ {
		a.StepMulti(duelFrame(scriptFrame(i), scriptFrame(i+3)))
		b.StepMulti(duelFrame(scriptFrame(i), scriptFrame(i+3)))
	}

	if a.Score1() != b.Score1() || a.Score2() != b.Score2() {
		t.Errorf("Same seed and input should score the same: %d/%d vs %d/%d",
			a.Score1(), a.Score2(), b.Score1(), b.Score2())
	}
	if !reflect.DeepEqual(a.Snapshot(), b.Snapshot()) {
		t.Error("Same seed and input should produce identical snapshots")
	}
}

func TestDuelRenderSnapshotSides(t *testing.T) {
	d := newTestDuel(t, 1)
	d.scores[0] = 100
	snap := d.Snapshot().(DuelSnapshot)

	screen := core.NewScreen(80, 24)
	RenderDuelSnapshot(screen, snap, core.Player1)
	out := screen.String()
	if !strings.Contains(out, "You: 100/") {
		t.Error("Host view should show its own score first")
	}
	if !strings.Contains(out, "Rival: 0/") {
		t.Error("Host view should show the joiner as the rival")
	}

	RenderDuelSnapshot(screen, snap, core.Player2)
	out = screen.String()
	if !strings.Contains(out, "You: 0/") {
		t.Error("Joiner view should show its own score first")
	}
	if !strings.Contains(out, "Rival: 100/") {
		t.Error("Joiner view should show the host as the rival")
	}
}

func TestDuelRenderSnapshotDraw(t *testing.T) {
	d := newTestDuel(t, 1)
	snap := d.Snapshot().(DuelSnapshot)
	snap.GameOver = true
	snap.Winner = 0

	screen := core.NewScreen(80, 24)
	RenderDuelSnapshot(screen, snap, core.Player1)
	if !strings.Contains(screen.String(), "DRAW") {
		t.Error("A drawn duel should render the draw banner")
	}
}

func TestDuelPickupSpawnsInSharedPool(t *testing.T) {
	d := newTestDuel(t, 1)
	d.pms[0].spawnIn = 1

	d.StepMulti(duelFrame(core.NewInputFrame(), core.NewInputFrame()))

	if len(d.pms[0].Pickups) != 1 {
		t.Fatalf("Shared pool should hold the spawned pickup, got %d", len(d.pms[0].Pickups))
	}
	if len(d.pms[1].Pickups) != 0 {
		t.Errorf("Only the shared pool spawns, Player 2 pool has %d", len(d.pms[1].Pickups))
	}
	pk := d.pms[0].Pickups[0]
	if !pk.Active {
		t.Error("A fresh pickup should be waiting to be claimed")
	}
	if !d.lawn.Contains(pk.X.ToCellRounded(), pk.Y.ToCellRounded()) {
		t.Errorf("Pickup should land on the lawn, got (%d, %d)", pk.X.ToCellRounded(), pk.Y.ToCellRounded())
	}
}

// A pickup both players click on the same tick goes to Player 1, same as a
// contested head: the host's strike resolves first.
func TestDuelContestedPickupHostClaims(t *testing.T) {
	d := newTestDuel(t, 1)
	d.pms[0].Pickups = append(d.pms[0].Pickups, &Pickup{
		Type: PickupScythe, X: ToFixed(40), Y: ToFixed(12), Active: true,
	})

	strike := core.NewInputFrame()
	strike.SetPointer(40, 12)
	strike.Set(core.ActionFire)
	d.StepMulti(duelFrame(strike, strike.Clone()))

	if d.pms[0].Pickups[0].Active {
		t.Error("The contested pickup should be claimed")
	}
	if !d.pms[0].HasEffect(EffectScythe, d.tickCount) {
		t.Error("Player 1 should hold the scythe")
	}
	if d.pms[1].HasEffect(EffectScythe, d.tickCount) {
		t.Error("Player 2 should not get a scythe from the host's claim")
	}
	if d.Score1() != 0 || d.Score2() != 0 {
		t.Errorf("Claiming a pickup scores nothing, got %d/%d", d.Score1(), d.Score2())
	}
}

// Rabbits spawn close enough to their pickup to eat an adjacent head on the
// same tick, and the kill credits whoever claimed the bunny.
func TestDuelBunnyScoresForConsumer(t *testing.T) {
	d := newTestDuel(t, 1)
	d.pms[0].Pickups = append(d.pms[0].Pickups, &Pickup{
		Type: PickupBunny, X: ToFixed(60), Y: ToFixed(12), Active: true,
	})
	d.field.SpawnAt(SizeTiny, ToFixed(60), ToFixed(12), false)

	p2 := core.NewInputFrame()
	p2.SetPointer(60, 12)
	p2.Set(core.ActionFire)
	d.StepMulti(duelFrame(core.NewInputFrame(), p2))

	if d.Score2() != SizeTiny.Points() {
		t.Errorf("Player 2's rabbit kill should score, got %d", d.Score2())
	}
	if d.Score1() != 0 {
		t.Errorf("Player 1 should get nothing from a rival's rabbits, got %d", d.Score1())
	}
	if len(d.pms[1].Rabbits) != 3 {
		t.Errorf("The claimed bunny should release a trio, got %d", len(d.pms[1].Rabbits))
	}
	if len(d.pms[0].Rabbits) != 0 {
		t.Errorf("Player 1 claimed nothing, yet owns %d rabbits", len(d.pms[0].Rabbits))
	}
	if d.field.Count() != 0 {
		t.Errorf("The head should be eaten, %d remain", d.field.Count())
	}
	if len(d.field.Seeds) != 0 {
		t.Errorf("Eaten heads release no seeds, got %d", len(d.field.Seeds))
	}
}

// A flamethrower's first burn pass lands on the tick it is claimed, and the
// burn chains a deeper fire onto the destroyed head's position.
func TestDuelFlamethrowerScoresForConsumer(t *testing.T) {
	d := newTestDuel(t, 1)
	d.pms[0].Pickups = append(d.pms[0].Pickups, &Pickup{
		Type: PickupFlamethrower, X: ToFixed(20), Y: ToFixed(12), Active: true,
	})
	d.field.SpawnAt(SizeTiny, ToFixed(20), ToFixed(12), false)

	p1 := core.NewInputFrame()
	p1.SetPointer(20, 12)
	p1.Set(core.ActionFire)
	d.StepMulti(duelFrame(p1, core.NewInputFrame()))

	if d.Score1() != SizeTiny.Points() {
		t.Errorf("Player 1's burn kill should score, got %d", d.Score1())
	}
	if d.Score2() != 0 {
		t.Errorf("Player 2 should get nothing from a rival's fire, got %d", d.Score2())
	}
	if d.field.Count() != 0 {
		t.Errorf("The head should be ash, %d remain", d.field.Count())
	}
	if len(d.field.Seeds) != 0 {
		t.Errorf("Burned heads release no seeds, got %d", len(d.field.Seeds))
	}
	if len(d.pms[0].Fires) != 2 {
		t.Fatalf("The burn should chain one fire, pool has %d", len(d.pms[0].Fires))
	}
	if gen := d.pms[0].Fires[1].Generation; gen != 1 {
		t.Errorf("Chained fire generation = %d, expected 1", gen)
	}
}

// While one player's scythe is up their strikes slash through every head on
// the blade's diagonal; the other player keeps ordinary single-target clicks.
func TestDuelScytheIsPerPlayer(t *testing.T) {
	d := newTestDuel(t, 1)
	d.pms[0].AddEffect(EffectScythe, 600)
	d.field.SpawnAt(SizeTiny, ToFixed(40), ToFixed(12), false)
	d.field.SpawnAt(SizeTiny, ToFixed(42), ToFixed(13), false)

	p1 := core.NewInputFrame()
	p1.SetPointer(40, 12)
	p1.Set(core.ActionFire)
	d.StepMulti(duelFrame(p1, core.NewInputFrame()))

	// Both kills land in one slash: 10 base, then 10 with one combo step.
	if d.Score1() != 21 {
		t.Errorf("Slash score = %d, expected 21", d.Score1())
	}
	if d.field.Count() != 0 {
		t.Errorf("Both heads sit on the blade, %d remain", d.field.Count())
	}
	// Slash kills seed the lawn like ordinary strikes.
	if len(d.field.Seeds) != 2*SizeTiny.SeedCount() {
		t.Errorf("Seeds = %d, expected %d", len(d.field.Seeds), 2*SizeTiny.SeedCount())
	}
	if d.pms[1].HasEffect(EffectScythe, d.tickCount) {
		t.Error("Player 2 should not share Player 1's scythe")
	}
}

func TestDuelSnapshotCarriesPowerUps(t *testing.T) {
	d := newTestDuel(t, 1)
	d.pms[0].Pickups = append(d.pms[0].Pickups,
		&Pickup{Type: PickupScythe, X: ToFixed(30), Y: ToFixed(10), Active: true},
		&Pickup{Type: PickupBunny, X: ToFixed(50), Y: ToFixed(6), Active: false},
	)
	d.pms[0].Rabbits = append(d.pms[0].Rabbits, &Rabbit{X: ToFixed(12), Y: ToFixed(6), TicksLeft: 100})
	d.pms[1].Ignite(ToFixed(55), ToFixed(8), 1)
	d.pms[1].AddEffect(EffectScythe, d.tickCount+120)

	snap := d.Snapshot().(DuelSnapshot)

	if snap.PickupCount != 1 || len(snap.PickupData) != 3 {
		t.Fatalf("Only active pickups travel: count=%d len=%d", snap.PickupCount, len(snap.PickupData))
	}
	if snap.PickupData[2] != int(PickupScythe) {
		t.Errorf("Pickup type = %d, expected %d", snap.PickupData[2], int(PickupScythe))
	}
	if snap.RabbitCount != 1 || snap.RabbitData[2] != 1 {
		t.Errorf("Rabbit owner should be Player 1: count=%d data=%v", snap.RabbitCount, snap.RabbitData)
	}
	if snap.FireCount != 1 || snap.FireData[2] != 1 {
		t.Errorf("Fire generation should travel: count=%d data=%v", snap.FireCount, snap.FireData)
	}
	if snap.Scythe1Secs != 0 || snap.Scythe2Secs != 2 {
		t.Errorf("Scythe clocks = %d/%d, expected 0/2", snap.Scythe1Secs, snap.Scythe2Secs)
	}

	// The scythe badge belongs to its owner's view only.
	screen := core.NewScreen(80, 24)
	RenderDuelSnapshot(screen, snap, core.Player2)
	out := screen.String()
	if !strings.Contains(out, "Scythe(2)") {
		t.Error("The scythe holder's view should show the countdown")
	}
	if !strings.Contains(out, "(S)") {
		t.Error("The waiting pickup should render in the shared pool")
	}
	RenderDuelSnapshot(screen, snap, core.Player1)
	if strings.Contains(screen.String(), "Scythe(") {
		t.Error("The other player's view should not show a scythe countdown")
	}
}
