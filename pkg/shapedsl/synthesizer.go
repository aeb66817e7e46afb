package shapedsl

import "strings"

// Example is one (point, expected membership) pair the caller provides.
type Example struct {
	X, Y   float64
	Inside bool
}

// Synthesizer implements synth.Synthesizer[Expr] for the shape DSL. It is
// constructed already bound to one call's examples, which fix both the
// correctness check and the probe set signatures are computed against.
type Synthesizer struct {
	examples []Example
	probe    []Point
}

// New binds a Synthesizer to examples. The probe set (§3) is the stacked
// vector of every example's point, in example order.
func New(examples []Example) *Synthesizer {
	probe := make([]Point, len(examples))
	for i, ex := range examples {
		probe[i] = Point{X: ex.X, Y: ex.Y}
	}
	return &Synthesizer{examples: examples, probe: probe}
}

func (s *Synthesizer) ExampleCount() int { return len(s.examples) }

// GenerateTerminals enumerates every valid Rectangle(bl,tr), Triangle(bl,tr),
// and Circle(c,r) with corners in [0,MaxCoord]^2 and r in [1,MaxCoord], in
// lexicographic order on the operand tuple.
func (s *Synthesizer) GenerateTerminals() []Expr {
	var coords []Coord
	for x := 0; x <= MaxCoord; x++ {
		for y := 0; y <= MaxCoord; y++ {
			coords = append(coords, Coord{X: x, Y: y})
		}
	}

	var terminals []Expr
	for _, bl := range coords {
		for _, tr := range coords {
			if bl.X < tr.X && bl.Y < tr.Y {
				rect, _ := NewRectangle(bl, tr)
				tri, _ := NewTriangle(bl, tr)
				terminals = append(terminals, rect, tri)
			}
		}
	}
	for _, c := range coords {
		for r := 1; r <= MaxCoord; r++ {
			circle, _ := NewCircle(c, r)
			terminals = append(terminals, circle)
		}
	}
	return terminals
}

// Grow emits, in order: the base set itself, Mirror(p) for each p in base,
// then Union(p,q), Intersection(p,q), Subtraction(p,q) for each ordered pair
// (p,q) in base x base. The result is structurally deduplicated (via Hash +
// Equal) before being returned, so only structurally identical nodes collapse
// here; e.g. Union(a,a) is kept alongside a, and it is the signature store
// that later drops it as observationally equivalent.
func (s *Synthesizer) Grow(base []Expr) []Expr {
	out := newExprSet()

	for _, p := range base {
		out.add(p)
	}
	for _, p := range base {
		out.add(Mirror{A: p})
	}
	for _, p1 := range base {
		for _, p2 := range base {
			out.add(Union{A: p1, B: p2})
			out.add(Intersection{A: p1, B: p2})
			out.add(Subtraction{A: p1, B: p2})
		}
	}

	return out.items
}

// IsCorrect batch-interprets the program over the vectorized example points
// and compares for exact equality with the expected booleans.
func (s *Synthesizer) IsCorrect(e Expr) bool {
	for _, ex := range s.examples {
		if e.Interpret(Point{X: ex.X, Y: ex.Y}) != ex.Inside {
			return false
		}
	}
	return true
}

// ComputeSignature is program.interpret(probe_xs, probe_ys) as a tuple of
// booleans, encoded as a comparable string. No shape operator has a failure
// path, so allBottom is always false.
func (s *Synthesizer) ComputeSignature(e Expr) (sig string, allBottom bool) {
	var b strings.Builder
	for _, p := range s.probe {
		if e.Interpret(p) {
			b.WriteByte('T')
		} else {
			b.WriteByte('F')
		}
	}
	return b.String(), false
}

// exprSet is a structural (Hash+Equal) dedup set that preserves first-seen
// insertion order, so Grow's output stays in the stable enumeration order
// the specification requires for reproducible results.
type exprSet struct {
	buckets map[uint64][]Expr
	items   []Expr
}

func newExprSet() *exprSet {
	return &exprSet{buckets: make(map[uint64][]Expr)}
}

func (set *exprSet) add(e Expr) {
	h := e.Hash()
	for _, existing := range set.buckets[h] {
		if existing.Equal(e) {
			return
		}
	}
	set.buckets[h] = append(set.buckets[h], e)
	set.items = append(set.items, e)
}
