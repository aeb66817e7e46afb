package synth

// Synthesizer is the capability set a DSL must provide for the generic driver
// to enumerate it. An implementation is constructed already bound to one
// call's examples (and therefore its probe set); the driver itself holds no
// DSL-specific state.
//
// ComputeSignature returns the expression's signature on the probe set
// (encoded as a comparable string) and whether every slot of that signature
// is the undefined marker ⊥ — such expressions are never kept, per §3 of the
// specification this engine implements.
type Synthesizer[E any] interface {
	ExampleCount() int
	GenerateTerminals() []E
	Grow(base []E) []E
	IsCorrect(e E) bool
	ComputeSignature(e E) (sig string, allBottom bool)
}

// ProgressFunc lets a caller observe enumeration progress without the engine
// depending on any rendering concern. phase is "terminals" or "grow"; count is
// the number of survivors produced in that phase.
type ProgressFunc func(phase string, iteration int, count int)

// PrePassFunc proposes a candidate directly to IsCorrect before the main
// bottom-up loop runs. It exists purely as the documented escape hatch for
// DSL-specific shortcuts (task-sniffing heuristics) that do not belong in the
// general Grow routine — the default is nil, meaning no pre-pass runs.
type PrePassFunc[E any] func() (E, bool)

// Options configures one Synthesize call.
type Options[E any] struct {
	// MaxIterations bounds the number of growth rounds. Defaults to 5 when
	// zero or negative.
	MaxIterations int

	// Accumulate selects the growth base at each round: false grows only
	// from the immediately preceding level's survivors (sufficient for the
	// shape DSL, where useful compositions combine operands of the current
	// depth); true grows from the union of every surviving level so far
	// (needed for compositional DSLs like strings, where a correct program
	// can compose a shallow fragment with a deep one).
	Accumulate bool

	Progress ProgressFunc
	PrePass  PrePassFunc[E]
}

// Synthesize runs the bottom-up enumerative search: generate terminals,
// dedupe via the signature store, test for correctness, grow, repeat.
//
// It returns the first correct expression in enumeration order — by
// construction of bottom-up enumeration this is also of minimum AST depth
// among all satisfying expressions, given the DSL's GenerateTerminals/Grow
// fix a stable enumeration order.
func Synthesize[E any](s Synthesizer[E], opts Options[E]) (E, error) {
	var zero E

	if s.ExampleCount() == 0 {
		return zero, ErrEmptyExamples
	}

	maxIterations := opts.MaxIterations
	if maxIterations <= 0 {
		maxIterations = 5
	}

	if opts.PrePass != nil {
		if candidate, ok := opts.PrePass(); ok && s.IsCorrect(candidate) {
			return candidate, nil
		}
	}

	st := newStore[E]()

	terminals := s.GenerateTerminals()
	survivors := filter(st, s, terminals)
	report(opts.Progress, "terminals", 0, len(survivors))

	if win, ok := firstCorrect(s, survivors); ok {
		return win, nil
	}

	accumulated := append([]E(nil), survivors...)
	base := survivors

	for iteration := 1; iteration <= maxIterations; iteration++ {
		growthBase := base
		if opts.Accumulate {
			growthBase = accumulated
		}

		grown := s.Grow(growthBase)
		level := filter(st, s, grown)
		report(opts.Progress, "grow", iteration, len(level))

		if len(level) == 0 {
			return zero, ErrExhaustedBudget
		}

		if win, ok := firstCorrect(s, level); ok {
			return win, nil
		}

		base = level
		if opts.Accumulate {
			accumulated = append(accumulated, level...)
		}
	}

	return zero, ErrExhaustedBudget
}

func firstCorrect[E any](s Synthesizer[E], candidates []E) (E, bool) {
	for _, c := range candidates {
		if s.IsCorrect(c) {
			return c, true
		}
	}
	var zero E
	return zero, false
}

func report(p ProgressFunc, phase string, iteration, count int) {
	if p != nil {
		p(phase, iteration, count)
	}
}
