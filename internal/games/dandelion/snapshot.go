package dandelion

// Snapshot contains the complete game state for replay/save/duel relay.
// Uses primitive types only for stable serialization. Flashes are cosmetic
// and deliberately excluded.
type Snapshot struct {
	Tick         uint64
	ElapsedTicks int
	State        string
	Mode         int // 0=Campaign, 1=Endless
	LevelID      int // 0 in endless mode

	Score          int
	Combo          int
	ComboTicksLeft int

	CursorX int
	CursorY int

	SpawnIn        int
	VarietyIn      int
	Wave           int
	PowerupSpawnIn int

	// Dandelion state (each head is 10 ints:
	// X, Y, Size, Health, MaxHealth, Moving, VX, VY, TurnIn, CooledIn)
	DandelionCount int
	DandelionData  []int

	// Seed orb state (each orb is 7 ints: X, Y, TX, TY, VX, VY, TicksLeft)
	SeedCount int
	SeedData  []int

	// Pickup state (each pickup is 4 ints: Type, X, Y, Active)
	PickupCount int
	PickupData  []int

	// Rabbit state (each rabbit is 4 ints: X, Y, Eaten, TicksLeft)
	RabbitCount int
	RabbitData  []int

	// Fire state (each fire is 5 ints: X, Y, Generation, TicksLeft, DamageIn)
	FireCount int
	FireData  []int

	// Effect state (each effect is 2 ints: Type, UntilTick)
	EffectCount int
	EffectData  []int

	// Shared RNG stream state
	RNGState uint64
}

// Snapshot returns the current game state as a Snapshot.
func (g *Game) Snapshot() Snapshot {
	dandelionData := make([]int, len(g.field.Dandelions)*10)
	for i, d := range g.field.Dandelions {
		idx := i * 10
		dandelionData[idx] = int(d.X)
		dandelionData[idx+1] = int(d.Y)
		dandelionData[idx+2] = int(d.Size)
		dandelionData[idx+3] = d.Health
		dandelionData[idx+4] = d.MaxHealth
		if d.Moving {
			dandelionData[idx+5] = 1
		}
		dandelionData[idx+6] = int(d.VX)
		dandelionData[idx+7] = int(d.VY)
		dandelionData[idx+8] = d.TurnIn
		dandelionData[idx+9] = d.CooledIn
	}

	seedData := make([]int, len(g.field.Seeds)*7)
	for i, s := range g.field.Seeds {
		idx := i * 7
		seedData[idx] = int(s.X)
		seedData[idx+1] = int(s.Y)
		seedData[idx+2] = int(s.TX)
		seedData[idx+3] = int(s.TY)
		seedData[idx+4] = int(s.VX)
		seedData[idx+5] = int(s.VY)
		seedData[idx+6] = s.TicksLeft
	}

	pickupData := make([]int, len(g.powerups.Pickups)*4)
	for i, p := range g.powerups.Pickups {
		idx := i * 4
		pickupData[idx] = int(p.Type)
		pickupData[idx+1] = int(p.X)
		pickupData[idx+2] = int(p.Y)
		if p.Active {
			pickupData[idx+3] = 1
		}
	}

	rabbitData := make([]int, len(g.powerups.Rabbits)*4)
	for i, r := range g.powerups.Rabbits {
		idx := i * 4
		rabbitData[idx] = int(r.X)
		rabbitData[idx+1] = int(r.Y)
		rabbitData[idx+2] = r.Eaten
		rabbitData[idx+3] = r.TicksLeft
	}

	fireData := make([]int, len(g.powerups.Fires)*5)
	for i, f := range g.powerups.Fires {
		idx := i * 5
		fireData[idx] = int(f.X)
		fireData[idx+1] = int(f.Y)
		fireData[idx+2] = f.Generation
		fireData[idx+3] = f.TicksLeft
		fireData[idx+4] = f.DamageIn
	}

	effectData := make([]int, len(g.powerups.Effects)*2)
	for i, e := range g.powerups.Effects {
		idx := i * 2
		effectData[idx] = int(e.Type)
		effectData[idx+1] = e.UntilTick
	}

	levelID := 0
	if g.level != nil {
		levelID = g.level.ID
	}

	return Snapshot{
		Tick:         uint64(g.tickCount), //#nosec G115 -- tick count is always positive
		ElapsedTicks: g.elapsedTicks,
		State:        g.state,
		Mode:         int(g.mode),
		LevelID:      levelID,

		Score:          g.score,
		Combo:          g.combo,
		ComboTicksLeft: g.comboTicksLeft,

		CursorX: int(g.cursorX),
		CursorY: int(g.cursorY),

		SpawnIn:        g.spawnIn,
		VarietyIn:      g.varietyIn,
		Wave:           g.wave,
		PowerupSpawnIn: g.powerups.spawnIn,

		DandelionCount: len(g.field.Dandelions),
		DandelionData:  dandelionData,
		SeedCount:      len(g.field.Seeds),
		SeedData:       seedData,
		PickupCount:    len(g.powerups.Pickups),
		PickupData:     pickupData,
		RabbitCount:    len(g.powerups.Rabbits),
		RabbitData:     rabbitData,
		FireCount:      len(g.powerups.Fires),
		FireData:       fireData,
		EffectCount:    len(g.powerups.Effects),
		EffectData:     effectData,

		RNGState: g.rng.state,
	}
}

// ApplySnapshot restores game state from a snapshot.
func (g *Game) ApplySnapshot(snap Snapshot) {
	g.tickCount = int(snap.Tick) //#nosec G115 -- tick count fits in int
	g.elapsedTicks = snap.ElapsedTicks
	g.state = snap.State
	g.mode = GameMode(snap.Mode)
	g.level = LevelByID(snap.LevelID)
	if g.level != nil {
		g.levelIdx = g.level.ID - 1
	}

	g.score = snap.Score
	g.combo = snap.Combo
	g.comboTicksLeft = snap.ComboTicksLeft

	g.cursorX = Fixed(snap.CursorX)
	g.cursorY = Fixed(snap.CursorY)

	g.spawnIn = snap.SpawnIn
	g.varietyIn = snap.VarietyIn
	g.wave = snap.Wave
	g.powerups.spawnIn = snap.PowerupSpawnIn

	g.field.Dandelions = make([]*Dandelion, snap.DandelionCount)
	for i := 0; i < snap.DandelionCount; i++ {
		idx := i * 10
		if idx+9 < len(snap.DandelionData) {
			g.field.Dandelions[i] = &Dandelion{
				X:         Fixed(snap.DandelionData[idx]),
				Y:         Fixed(snap.DandelionData[idx+1]),
				Size:      Size(snap.DandelionData[idx+2]),
				Health:    snap.DandelionData[idx+3],
				MaxHealth: snap.DandelionData[idx+4],
				Moving:    snap.DandelionData[idx+5] == 1,
				VX:        Fixed(snap.DandelionData[idx+6]),
				VY:        Fixed(snap.DandelionData[idx+7]),
				TurnIn:    snap.DandelionData[idx+8],
				CooledIn:  snap.DandelionData[idx+9],
			}
		}
	}

	g.field.Seeds = make([]*SeedOrb, snap.SeedCount)
	for i := 0; i < snap.SeedCount; i++ {
		idx := i * 7
		if idx+6 < len(snap.SeedData) {
			g.field.Seeds[i] = &SeedOrb{
				X:         Fixed(snap.SeedData[idx]),
				Y:         Fixed(snap.SeedData[idx+1]),
				TX:        Fixed(snap.SeedData[idx+2]),
				TY:        Fixed(snap.SeedData[idx+3]),
				VX:        Fixed(snap.SeedData[idx+4]),
				VY:        Fixed(snap.SeedData[idx+5]),
				TicksLeft: snap.SeedData[idx+6],
			}
		}
	}

	g.powerups.Pickups = make([]*Pickup, snap.PickupCount)
	for i := 0; i < snap.PickupCount; i++ {
		idx := i * 4
		if idx+3 < len(snap.PickupData) {
			g.powerups.Pickups[i] = &Pickup{
				Type:   PickupType(snap.PickupData[idx]),
				X:      Fixed(snap.PickupData[idx+1]),
				Y:      Fixed(snap.PickupData[idx+2]),
				Active: snap.PickupData[idx+3] == 1,
			}
		}
	}

	g.powerups.Rabbits = make([]*Rabbit, snap.RabbitCount)
	for i := 0; i < snap.RabbitCount; i++ {
		idx := i * 4
		if idx+3 < len(snap.RabbitData) {
			g.powerups.Rabbits[i] = &Rabbit{
				X:         Fixed(snap.RabbitData[idx]),
				Y:         Fixed(snap.RabbitData[idx+1]),
				Eaten:     snap.RabbitData[idx+2],
				TicksLeft: snap.RabbitData[idx+3],
			}
		}
	}

	g.powerups.Fires = make([]*Fire, snap.FireCount)
	for i := 0; i < snap.FireCount; i++ {
		idx := i * 5
		if idx+4 < len(snap.FireData) {
			g.powerups.Fires[i] = &Fire{
				X:          Fixed(snap.FireData[idx]),
				Y:          Fixed(snap.FireData[idx+1]),
				Generation: snap.FireData[idx+2],
				TicksLeft:  snap.FireData[idx+3],
				DamageIn:   snap.FireData[idx+4],
			}
		}
	}

	g.powerups.Effects = make([]*Effect, snap.EffectCount)
	for i := 0; i < snap.EffectCount; i++ {
		idx := i * 2
		if idx+1 < len(snap.EffectData) {
			g.powerups.Effects[i] = &Effect{
				Type:      EffectType(snap.EffectData[idx]),
				UntilTick: snap.EffectData[idx+1],
			}
		}
	}

	g.rng.state = snap.RNGState
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := uint64(snap.Tick)
	h = h*31 + uint64(snap.ElapsedTicks)   //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Mode)           //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.LevelID)        //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Score)          //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Combo)          //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.ComboTicksLeft) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.CursorX)        //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.CursorY)        //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.SpawnIn)        //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.VarietyIn)      //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Wave)           //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.PowerupSpawnIn) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.DandelionCount) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.SeedCount)      //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.PickupCount)    //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.RabbitCount)    //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.FireCount)      //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.EffectCount)    //#nosec G115 -- hash computation

	for _, c := range snap.State {
		h = h*31 + uint64(c) //#nosec G115 -- hash computation
	}

	for _, v := range snap.DandelionData {
		h = h*31 + uint64(v) //#nosec G115 -- hash computation
	}

	for _, v := range snap.SeedData {
		h = h*31 + uint64(v) //#nosec G115 -- hash computation
	}

	for _, v := range snap.PickupData {
		h = h*31 + uint64(v) //#nosec G115 -- hash computation
	}

	for _, v := range snap.RabbitData {
		h = h*31 + uint64(v) //#nosec G115 -- hash computation
	}

	for _, v := range snap.FireData {
		h = h*31 + uint64(v) //#nosec G115 -- hash computation
	}

	for _, v := range snap.EffectData {
		h = h*31 + uint64(v) //#nosec G115 -- hash computation
	}

	h = h*31 + snap.RNGState

	return h
}
