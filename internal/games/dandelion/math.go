package dandelion

import "math"

// Fixed-point scale factor: 1 cell = 1000 units.
// This allows for sub-cell precision while maintaining determinism.
const Scale = 1000

// Fixed represents a fixed-point integer (scaled by Scale).
type Fixed int

// ToFixed converts a cell coordinate to fixed-point.
func ToFixed(cell int) Fixed {
	return Fixed(cell * Scale)
}

// ToCell converts fixed-point to cell coordinate (truncated).
func (f Fixed) ToCell() int {
	return int(f) / Scale
}

// ToCellRounded converts fixed-point to nearest cell.
func (f Fixed) ToCellRounded() int {
	if f >= 0 {
		return int(f+Scale/2) / Scale
	}
	return int(f-Scale/2) / Scale
}

// Mul multiplies fixed-point by an integer.
func (f Fixed) Mul(n int) Fixed {
	return Fixed(int(f) * n)
}

// Div divides fixed-point by an integer.
func (f Fixed) Div(n int) Fixed {
	if n == 0 {
		return 0
	}
	return Fixed(int(f) / n)
}

// Abs returns absolute value.
func (f Fixed) Abs() Fixed {
	if f < 0 {
		return -f
	}
	return f
}

// FixedFromFloat converts a float cell measure (config values) to fixed-point.
func FixedFromFloat(v float64) Fixed {
	return Fixed(math.Round(v * Scale))
}

// Degree-indexed sine table in fixed-point, built once at init.
// Using a table keeps angle math identical across runs and platforms.
var sinTable [360]Fixed

func init() {
	for d := 0; d < 360; d++ {
		sinTable[d] = Fixed(math.Round(math.Sin(float64(d)*math.Pi/180) * Scale))
	}
}

// FixedSin returns sin(deg degrees) in fixed-point.
func FixedSin(deg int) Fixed {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return sinTable[deg]
}

// FixedCos returns cos(deg degrees) in fixed-point.
func FixedCos(deg int) Fixed {
	return FixedSin(deg + 90)
}

// distSq returns the squared distance between two fixed-point positions.
// Vertical distance is doubled to compensate for the roughly 2:1 aspect of
// terminal cells, so circles behave isotropically on screen.
func distSq(x1, y1, x2, y2 Fixed) int64 {
	dx := int64(x1 - x2)
	dy := int64(y1-y2) * 2
	return dx*dx + dy*dy
}

// withinDist reports whether two positions are within radius r of each other.
func withinDist(x1, y1, x2, y2, r Fixed) bool {
	rr := int64(r) * int64(r)
	return distSq(x1, y1, x2, y2) <= rr
}

// segmentDistSq returns the squared distance from point (px, py) to the
// segment (x1, y1)-(x2, y2), with the same vertical aspect weighting as
// distSq. Used for slash hit detection.
func segmentDistSq(px, py, x1, y1, x2, y2 Fixed) int64 {
	ax := int64(x1)
	ay := int64(y1) * 2
	bx := int64(x2)
	by := int64(y2) * 2
	cx := int64(px)
	cy := int64(py) * 2

	abx := bx - ax
	aby := by - ay
	acx := cx - ax
	acy := cy - ay

	lenSq := abx*abx + aby*aby
	if lenSq == 0 {
		return acx*acx + acy*acy
	}

	// Projection parameter scaled by lenSq to stay in integer math.
	t := acx*abx + acy*aby
	if t < 0 {
		t = 0
	} else if t > lenSq {
		t = lenSq
	}

	// Closest point = a + ab * t/lenSq
	closestX := ax + abx*t/lenSq
	closestY := ay + aby*t/lenSq
	dx := cx - closestX
	dy := cy - closestY
	return dx*dx + dy*dy
}

// SimpleRNG is a deterministic linear congruential generator.
// Using our own RNG keeps behavior reproducible regardless of Go version.
type SimpleRNG struct {
	state uint64
}

// NewSimpleRNG creates an RNG with the given seed.
func NewSimpleRNG(seed int64) *SimpleRNG {
	if seed == 0 {
		seed = 1
	}
	return &SimpleRNG{state: uint64(seed)} //#nosec G115 -- seed reinterpretation is intentional
}

// Next advances the generator and returns the raw state.
func (r *SimpleRNG) Next() uint64 {
	r.state = r.state*6364136223846793005 + 1442695040888963407
	return r.state
}

// Intn returns a value in [0, n).
func (r *SimpleRNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n)) //#nosec G115 -- modulo keeps result in range
}

// FixedRange returns a fixed-point value in [min, max].
func (r *SimpleRNG) FixedRange(min, max Fixed) Fixed {
	if max <= min {
		return min
	}
	span := int(max - min + 1)
	return min + Fixed(r.Intn(span))
}
