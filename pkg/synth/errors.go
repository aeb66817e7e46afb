// Package synth implements the DSL-agnostic bottom-up enumerative synthesis
// engine: generate terminals, prune via observational-equivalence signatures,
// test for correctness, grow, and repeat until a solution is found or the
// iteration budget is exhausted.
package synth

import "errors"

// ErrEmptyExamples is returned when Synthesize is called with zero examples.
var ErrEmptyExamples = errors.New("synth: no examples provided")

// ErrExhaustedBudget is returned when no correct expression is found within
// MaxIterations growth rounds, or when a growth round produces no surviving
// candidates at all (saturation).
var ErrExhaustedBudget = errors.New("synth: exhausted iteration budget without a solution")
