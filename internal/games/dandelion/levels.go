package dandelion

// LevelSpec defines one campaign level: the score target, the completion-time
// bands that decide the star rating, how the lawn scales, and what unlocks it.
type LevelSpec struct {
	ID   int
	Name string

	TargetPoints int // Score required to complete the level

	// Completion-time bands in seconds. Finishing within ThreeStarSecs earns
	// three stars, and so on. OneStarSecs is also the level's time limit:
	// running past it without reaching the target fails the level.
	ThreeStarSecs int
	TwoStarSecs   int
	OneStarSecs   int

	HealthMult          float64 // Dandelion health scaling
	SpawnRateMult       float64 // Spawn frequency scaling
	DifficultyThreshold int     // Score at which variety waves start

	// Unlock rule: the level opens once the total stars earned on levels
	// 1..RequiredLevel reaches RequiredStars. RequiredLevel 0 means always open.
	RequiredLevel int
	RequiredStars int
}

// Levels is the 12-level campaign, in order.
var Levels = []LevelSpec{
	{ID: 1, Name: "Weed Rising", TargetPoints: 500, ThreeStarSecs: 60, TwoStarSecs: 90, OneStarSecs: 120, HealthMult: 1.0, SpawnRateMult: 1.0, DifficultyThreshold: 200, RequiredLevel: 0, RequiredStars: 0},
	{ID: 2, Name: "Golden Seed", TargetPoints: 800, ThreeStarSecs: 90, TwoStarSecs: 120, OneStarSecs: 180, HealthMult: 1.2, SpawnRateMult: 1.1, DifficultyThreshold: 300, RequiredLevel: 1, RequiredStars: 1},
	{ID: 3, Name: "Morning Spore", TargetPoints: 1200, ThreeStarSecs: 120, TwoStarSecs: 150, OneStarSecs: 240, HealthMult: 1.5, SpawnRateMult: 1.2, DifficultyThreshold: 400, RequiredLevel: 2, RequiredStars: 2},
	{ID: 4, Name: "Weedborn", TargetPoints: 1800, ThreeStarSecs: 150, TwoStarSecs: 180, OneStarSecs: 300, HealthMult: 1.8, SpawnRateMult: 1.3, DifficultyThreshold: 500, RequiredLevel: 3, RequiredStars: 4},
	{ID: 5, Name: "Weed of Ascension", TargetPoints: 2500, ThreeStarSecs: 180, TwoStarSecs: 240, OneStarSecs: 360, HealthMult: 2.2, SpawnRateMult: 1.4, DifficultyThreshold: 600, RequiredLevel: 4, RequiredStars: 6},
	{ID: 6, Name: "Hero of HOAges", TargetPoints: 3500, ThreeStarSecs: 210, TwoStarSecs: 270, OneStarSecs: 420, HealthMult: 2.5, SpawnRateMult: 1.5, DifficultyThreshold: 700, RequiredLevel: 5, RequiredStars: 8},
	{ID: 7, Name: "The Weed of the Many", TargetPoints: 5000, ThreeStarSecs: 240, TwoStarSecs: 300, OneStarSecs: 480, HealthMult: 3.0, SpawnRateMult: 1.6, DifficultyThreshold: 800, RequiredLevel: 6, RequiredStars: 10},
	{ID: 8, Name: "Dungeon Crawler Crabcrass", TargetPoints: 7500, ThreeStarSecs: 300, TwoStarSecs: 360, OneStarSecs: 600, HealthMult: 3.5, SpawnRateMult: 1.8, DifficultyThreshold: 900, RequiredLevel: 7, RequiredStars: 12},
	{ID: 9, Name: "Thatch of the Emerald Lawn", TargetPoints: 10000, ThreeStarSecs: 360, TwoStarSecs: 420, OneStarSecs: 720, HealthMult: 4.0, SpawnRateMult: 2.0, DifficultyThreshold: 1000, RequiredLevel: 8, RequiredStars: 15},
	{ID: 10, Name: "Moworrow and Moworrow and Moworrow", TargetPoints: 15000, ThreeStarSecs: 420, TwoStarSecs: 480, OneStarSecs: 840, HealthMult: 5.0, SpawnRateMult: 2.5, DifficultyThreshold: 1200, RequiredLevel: 9, RequiredStars: 18},
	{ID: 11, Name: "Weed are Legion", TargetPoints: 20000, ThreeStarSecs: 480, TwoStarSecs: 540, OneStarSecs: 960, HealthMult: 6.0, SpawnRateMult: 3.0, DifficultyThreshold: 1500, RequiredLevel: 10, RequiredStars: 20},
	{ID: 12, Name: "This is How You Lose the Weed War", TargetPoints: 30000, ThreeStarSecs: 600, TwoStarSecs: 720, OneStarSecs: 1200, HealthMult: 7.0, SpawnRateMult: 3.5, DifficultyThreshold: 2000, RequiredLevel: 11, RequiredStars: 25},
}

// LevelCount returns the number of campaign levels.
func LevelCount() int {
	return len(Levels)
}

// GetLevel returns the level at the given index (0-based).
// Returns nil if index is out of range.
func GetLevel(index int) *LevelSpec {
	if index < 0 || index >= len(Levels) {
		return nil
	}
	return &Levels[index]
}

// LevelByID returns the level with the given 1-based ID, or nil.
func LevelByID(id int) *LevelSpec {
	return GetLevel(id - 1)
}

// Stars maps a completion time to the star rating for this level.
func (l *LevelSpec) Stars(completionSecs int) int {
	switch {
	case completionSecs <= l.ThreeStarSecs:
		return 3
	case completionSecs <= l.TwoStarSecs:
		return 2
	case completionSecs <= l.OneStarSecs:
		return 1
	default:
		return 0
	}
}

// defaultBestTimeSecs is the placeholder best time before any completion.
const defaultBestTimeSecs = 999

// Progress is the persisted best result for one level.
type Progress struct {
	Completed    bool
	BestScore    int
	BestTimeSecs int
	BestStars    int
}

// NewProgress returns an empty progress record.
func NewProgress() Progress {
	return Progress{BestTimeSecs: defaultBestTimeSecs}
}

// ProgressSet maps level IDs to their best results.
type ProgressSet map[int]Progress

// Get returns the progress for a level, empty if never played.
func (ps ProgressSet) Get(levelID int) Progress {
	if p, ok := ps[levelID]; ok {
		return p
	}
	return NewProgress()
}

// Record folds a completed run into the set using keep-best semantics:
// a run replaces the best when its score is higher, or equal with a faster
// time. BestStars never decreases.
func (ps ProgressSet) Record(levelID, score, timeSecs, stars int) Progress {
	p := ps.Get(levelID)
	if !p.Completed || score > p.BestScore || (score == p.BestScore && timeSecs < p.BestTimeSecs) {
		p.BestScore = score
		p.BestTimeSecs = timeSecs
	}
	if stars > p.BestStars {
		p.BestStars = stars
	}
	p.Completed = true
	ps[levelID] = p
	return p
}

// TotalStars sums the best stars over all levels.
func (ps ProgressSet) TotalStars() int {
	total := 0
	for _, l := range Levels {
		total += ps.Get(l.ID).BestStars
	}
	return total
}

// StarsThrough sums the best stars over levels 1..lastID.
func (ps ProgressSet) StarsThrough(lastID int) int {
	total := 0
	for _, l := range Levels {
		if l.ID > lastID {
			break
		}
		total += ps.Get(l.ID).BestStars
	}
	return total
}

// Unlocked reports whether a level is playable under this progress.
func (ps ProgressSet) Unlocked(l *LevelSpec) bool {
	if l == nil {
		return false
	}
	if l.RequiredLevel == 0 {
		return true
	}
	return ps.StarsThrough(l.RequiredLevel) >= l.RequiredStars
}
