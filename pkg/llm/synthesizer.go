package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/rfielding/progsynth/pkg/strdsl"
)

// ErrInvalidResponse means the hosted model's text did not parse into a
// valid strdsl.Expr.
var ErrInvalidResponse = errors.New("llm: response did not parse into a valid expression")

// ErrValidationFailed means a parsed expression failed IsCorrect against the
// caller's examples.
var ErrValidationFailed = errors.New("llm: parsed expression failed validation against examples")

// Synthesizer asks a hosted model for a candidate program directly,
// bypassing pkg/synth's enumeration entirely. It implements the external
// synthesizer capability set described for LLM-backed variants: only
// Synthesize is exposed, and failures are validated the same way an
// enumerated candidate would be.
type Synthesizer struct {
	client *Client
	logger *Logger
}

// NewSynthesizer binds a Synthesizer to a Client and an optional Logger (nil
// disables logging).
func NewSynthesizer(client *Client, logger *Logger) *Synthesizer {
	return &Synthesizer{client: client, logger: logger}
}

// Synthesize sends examples to the model, parses its response, and returns
// the result only if it satisfies every example.
func (s *Synthesizer) Synthesize(ctx context.Context, examples []strdsl.Example) (strdsl.Expr, error) {
	pairs := make([][2]string, len(examples))
	for i, ex := range examples {
		pairs[i] = [2]string{ex.Input, ex.Expected}
	}
	prompt := BuildPrompt(pairs)

	response, err := s.client.Chat(ctx, prompt)
	if err != nil {
		s.log(prompt, "", pairs, nil, err)
		return nil, fmt.Errorf("llm: chat request: %w", err)
	}

	expr, parseErr := ExtractExpr(response)
	if parseErr != nil {
		s.log(prompt, response, pairs, nil, fmt.Errorf("%w: %v", ErrInvalidResponse, parseErr))
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, parseErr)
	}

	synth := strdsl.New(examples)
	if !synth.IsCorrect(expr) {
		s.log(prompt, response, pairs, expr, ErrValidationFailed)
		return nil, ErrValidationFailed
	}

	s.log(prompt, response, pairs, expr, nil)
	return expr, nil
}

func (s *Synthesizer) log(prompt, response string, examples [][2]string, program fmt.Stringer, err error) {
	if s.logger == nil {
		return
	}
	rec := LogRecord{Prompt: prompt, Response: response, Examples: examples}
	if program != nil {
		rec.Program = program.String()
	}
	if err != nil {
		rec.Error = err.Error()
	}
	_ = s.logger.Append(rec)
}
