package strdsl

import "strings"

// Example is one (input, expected output) pair the caller provides.
type Example struct {
	Input, Expected string
}

// fixedLiterals is the curated set of punctuation/digit literals always
// offered as terminals, independent of what appears in the examples.
var fixedLiterals = []string{
	" ", ".", ",", "-", "/", "_", ":", ";", "!", "?", "*", "#", "@", "$",
	"0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
	`\`, "v", "(", ")", ".00", "***",
}

// splitDelimiters is the fixed delimiter list grow composes Replace and
// SplitThenTake over; drawn from the punctuation subset of fixedLiterals
// that plausibly separates fields (path separators, whitespace, common
// punctuation) rather than the full curated literal set.
var splitDelimiters = []string{" ", ".", ",", "-", "/", "_", ":", ";", `\`}

// concatTerminals lists connector literals that Grow pairs with every
// terminal, on either side, before the full terminal x terminal Concatenate
// product. Each connector is itself a terminal, so these pairs are a subset
// of that product that Grow emits first.
var concatTerminals = []string{" ", "-", "_", "/", ":", "."}

// Synthesizer implements synth.Synthesizer[Expr] for the string DSL.
type Synthesizer struct {
	examples  []Example
	probe     []string
	terminals []Expr // cached first call to GenerateTerminals; reused by Grow.
}

// New binds a Synthesizer to examples. The probe set is the list of example
// inputs, in example order.
func New(examples []Example) *Synthesizer {
	probe := make([]string, len(examples))
	for i, ex := range examples {
		probe[i] = ex.Input
	}
	return &Synthesizer{examples: examples, probe: probe}
}

func (s *Synthesizer) ExampleCount() int { return len(s.examples) }

// GenerateTerminals always includes InputString, plus a deduplicated literal
// set: every rune appearing in any example input or expected output, and the
// fixed punctuation/digit set. The empty literal is excluded.
func (s *Synthesizer) GenerateTerminals() []Expr {
	if s.terminals != nil {
		return s.terminals
	}

	seen := make(map[string]bool)
	var literals []string

	addLiteral := func(v string) {
		if v == "" || seen[v] {
			return
		}
		seen[v] = true
		literals = append(literals, v)
	}

	for _, ex := range s.examples {
		for _, r := range ex.Input {
			addLiteral(string(r))
		}
		for _, r := range ex.Expected {
			addLiteral(string(r))
		}
	}
	for _, lit := range fixedLiterals {
		addLiteral(lit)
	}

	terminals := []Expr{InputString{}}
	for _, lit := range literals {
		terminals = append(terminals, StringLiteral{Value: lit})
	}

	s.terminals = terminals
	return terminals
}

// Grow applies every non-recursive-pair operator to each b in base, the
// delimiter-parameterized operators over (delimiter, b) pairs, and
// Concatenate over every ordered pair of terminals (connector pairs first).
// Concatenate never takes a grown expression as an operand. The
// task-sniffing heuristics present in the source this DSL was distilled from
// are deliberately not reproduced here; see the PrePassFunc extension point
// in pkg/synth for where such shortcuts belong.
func (s *Synthesizer) Grow(base []Expr) []Expr {
	out := newExprSet()

	for _, b := range base {
		out.add(ToUpper{A: b})
		out.add(ToLower{A: b})
		out.add(Strip{A: b})
		out.add(Capitalize{A: b})
		for _, n := range []int{2, 3} {
			rep, err := NewRepeat(b, n)
			if err == nil {
				out.add(rep)
			}
		}
		for _, r := range substringRanges() {
			out.add(Substring{A: b, Start: r[0], End: r[1]})
		}
		for _, d := range splitDelimiters {
			delim := StringLiteral{Value: d}
			out.add(Replace{A: b, Old: delim, New: StringLiteral{Value: ""}})
			out.add(Replace{A: b, Old: delim, New: StringLiteral{Value: "-"}})
			for _, idx := range []int{0, 1, -1} {
				out.add(SplitThenTake{A: b, Delim: delim, Index: idx})
			}
		}
	}

	terminals := s.GenerateTerminals()
	for _, a := range terminals {
		for _, d := range concatTerminals {
			out.add(Concatenate{A: a, B: StringLiteral{Value: d}})
			out.add(Concatenate{A: StringLiteral{Value: d}, B: a})
		}
	}
	for _, a := range terminals {
		for _, b := range terminals {
			out.add(Concatenate{A: a, B: b})
		}
	}

	return out.items
}

func substringRanges() [][2]int {
	return [][2]int{{0, 1}, {0, 3}, {1, 4}}
}

// IsCorrect batch-interprets the program over every example input and
// compares against the expected output; an interpretation failure (bottom)
// counts as incorrect.
func (s *Synthesizer) IsCorrect(e Expr) bool {
	for _, ex := range s.examples {
		got, ok := e.Interpret(ex.Input)
		if !ok || got != ex.Expected {
			return false
		}
	}
	return true
}

// ComputeSignature is program.interpret(probe) as a string vector, with '\x00'
// (an unprintable sentinel no legal output can collide with, since example
// strings come from text that has already round-tripped through Go string
// literals) marking a bottom slot. allBottom is true only when every probe
// position failed to interpret.
func (s *Synthesizer) ComputeSignature(e Expr) (sig string, allBottom bool) {
	var b strings.Builder
	bottomCount := 0
	for i, p := range s.probe {
		if i > 0 {
			b.WriteByte('\x1f') // unit separator, a safe field delimiter
		}
		out, ok := e.Interpret(p)
		if !ok {
			b.WriteByte('\x00')
			bottomCount++
			continue
		}
		b.WriteString(out)
	}
	return b.String(), bottomCount == len(s.probe) && len(s.probe) > 0
}

// exprSet is a structural (Hash+Equal) dedup set that preserves first-seen
// insertion order, mirroring pkg/shapedsl's Grow dedup strategy.
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
