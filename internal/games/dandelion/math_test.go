package dandelion

import "testing"

func TestFixedConversions(t *testing.T) {
	if ToFixed(3) != 3000 {
		t.Errorf("ToFixed(3) = %d", ToFixed(3))
	}
	if Fixed(3999).ToCell() != 3 {
		t.Errorf("ToCell truncates, got %d", Fixed(3999).ToCell())
	}

	rounded := []struct {
		f    Fixed
		cell int
	}{
		{1499, 1},
		{1500, 2},
		{-1499, -1},
		{-1500, -2},
	}
	for _, c := range rounded {
		if got := c.f.ToCellRounded(); got != c.cell {
			t.Errorf("ToCellRounded(%d) = %d, expected %d", c.f, got, c.cell)
		}
	}

	if FixedFromFloat(2.5) != 2500 {
		t.Errorf("FixedFromFloat(2.5) = %d", FixedFromFloat(2.5))
	}
	if FixedFromFloat(-1.2) != -1200 {
		t.Errorf("FixedFromFloat(-1.2) = %d", FixedFromFloat(-1.2))
	}
}

func TestFixedArithmetic(t *testing.T) {
	if Fixed(1500).Mul(3) != 4500 {
		t.Error("Mul failed")
	}
	if Fixed(4500).Div(3) != 1500 {
		t.Error("Div failed")
	}
	if Fixed(4500).Div(0) != 0 {
		t.Error("Div by zero should yield zero")
	}
	if Fixed(-5).Abs() != 5 || Fixed(5).Abs() != 5 {
		t.Error("Abs failed")
	}
}

func TestFixedTrig(t *testing.T) {
	cases := []struct {
		deg  int
		sin  Fixed
	}{
		{0, 0},
		{30, 500},
		{90, 1000},
		{180, 0},
		{270, -1000},
		{-90, -1000}, // Wraps into the table
		{450, 1000},
	}
	for _, c := range cases {
		if got := FixedSin(c.deg); got != c.sin {
			t.Errorf("FixedSin(%d) = %d, expected %d", c.deg, got, c.sin)
		}
	}

	if FixedCos(0) != 1000 || FixedCos(90) != 0 || FixedCos(180) != -1000 {
		t.Errorf("Cosine quarter points = %d/%d/%d", FixedCos(0), FixedCos(90), FixedCos(180))
	}
}

// Vertical distance counts double so circles look round on 2:1 cells.
func TestDistSqAspect(t *testing.T) {
	horizontal := distSq(0, 0, 4000, 0)
	vertical := distSq(0, 0, 0, 2000)
	if horizontal != 16_000_000 {
		t.Errorf("4-cell horizontal distSq = %d", horizontal)
	}
	if vertical != horizontal {
		t.Errorf("2 cells down should equal 4 cells across, got %d", vertical)
	}

	if !withinDist(0, 0, 3000, 2000, 5000) {
		t.Error("The 3-4-5 boundary should be inside")
	}
	if withinDist(0, 0, 3000, 2001, 5000) {
		t.Error("Just past the boundary should be outside")
	}
}

func TestSegmentDistSq(t *testing.T) {
	// Perpendicular drop onto the middle of a horizontal segment
	if got := segmentDistSq(5000, 1000, 0, 0, 10000, 0); got != 4_000_000 {
		t.Errorf("Perpendicular distance = %d", got)
	}
	// Past the far endpoint: distance to the endpoint itself
	if got := segmentDistSq(12000, 0, 0, 0, 10000, 0); got != 4_000_000 {
		t.Errorf("Past-end distance = %d", got)
	}
	if got := segmentDistSq(-3000, 0, 0, 0, 10000, 0); got != 9_000_000 {
		t.Errorf("Before-start distance = %d", got)
	}
	// A zero-length segment degenerates to point distance
	if got := segmentDistSq(1000, 0, 5000, 0, 5000, 0); got != 16_000_000 {
		t.Errorf("Degenerate segment distance = %d", got)
	}
}

func TestSimpleRNGDeterminism(t *testing.T) {
	a := NewSimpleRNG(42)
	b := NewSimpleRNG(42)
	for i := 0; i < 100; i++ {
		if a.Next() != b.Next() {
			t.Fatalf("Sequences diverged at draw %d", i)
		}
	}

	// Seed zero is remapped so the generator never sticks at zero
	z := NewSimpleRNG(0)
	o := NewSimpleRNG(1)
	if z.Next() != o.Next() {
		t.Error("Seed 0 should behave like seed 1")
	}
}

func TestSimpleRNGRanges(t *testing.T) {
	r := NewSimpleRNG(7)
	for i := 0; i < 1000; i++ {
		if v := r.Intn(7); v < 0 || v >= 7 {
			t.Fatalf("Intn(7) = %d out of range", v)
		}
	}
	if r.Intn(0) != 0 || r.Intn(-5) != 0 {
		t.Error("Degenerate Intn bounds should yield 0")
	}

	for i := 0; i < 100; i++ {
		if v := r.FixedRange(2000, 3000); v < 2000 || v > 3000 {
			t.Fatalf("FixedRange = %d out of range", v)
		}
	}
	if r.FixedRange(5000, 5000) != 5000 {
		t.Error("An empty range should return its floor")
	}
	if r.FixedRange(5000, 4000) != 5000 {
		t.Error("An inverted range should return its floor")
	}
}
