package synth

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// intSynth is a toy DSL used to exercise the generic driver in isolation from
// any real DSL: expressions are plain ints, terminals are {1,2,3}, Grow forms
// every pairwise sum, and correctness means "equals target".
type intSynth struct {
	target     int
	exampleCnt int
}

func (s *intSynth) ExampleCount() int { return s.exampleCnt }

func (s *intSynth) GenerateTerminals() []int { return []int{1, 2, 3} }

func (s *intSynth) Grow(base []int) []int {
	out := append([]int(nil), base...)
	for _, a := range base {
		for _, b := range base {
			out = append(out, a+b)
		}
	}
	return out
}

func (s *intSynth) IsCorrect(e int) bool { return e == s.target }

func (s *intSynth) ComputeSignature(e int) (string, bool) {
	return strconv.Itoa(e), false
}

func TestSynthesizeFindsTerminal(t *testing.T) {
	s := &intSynth{target: 2, exampleCnt: 1}
	got, err := Synthesize[int](s, Options[int]{})
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestSynthesizeGrows(t *testing.T) {
	// 3+3=6 is not reachable from terminals alone, requires one growth round.
	s := &intSynth{target: 6, exampleCnt: 1}
	got, err := Synthesize[int](s, Options[int]{MaxIterations: 2})
	require.NoError(t, err)
	assert.Equal(t, 6, got)
}

func TestSynthesizeEmptyExamples(t *testing.T) {
	s := &intSynth{target: 2, exampleCnt: 0}
	_, err := Synthesize[int](s, Options[int]{})
	assert.ErrorIs(t, err, ErrEmptyExamples)
}

func TestSynthesizeExhaustedBudget(t *testing.T) {
	s := &intSynth{target: 1000, exampleCnt: 1}
	_, err := Synthesize[int](s, Options[int]{MaxIterations: 2})
	assert.ErrorIs(t, err, ErrExhaustedBudget)
}

func TestSynthesizeDeterministic(t *testing.T) {
	s := &intSynth{target: 6, exampleCnt: 1}
	a, errA := Synthesize[int](s, Options[int]{MaxIterations: 2})
	b, errB := Synthesize[int](s, Options[int]{MaxIterations: 2})
	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.Equal(t, a, b)
}

func TestStoreDedupSoundnessAndCompleteness(t *testing.T) {
	st := newStore[int]()
	s := &intSynth{}

	// Two candidates with the same signature: only the first is kept.
	first := st.insert("sig", false, 10)
	second := st.insert("sig", false, 20)
	assert.True(t, first)
	assert.False(t, second)
	assert.Equal(t, 10, st.kept["sig"])

	// Distinct signatures are both kept (soundness: survivors have distinct sigs).
	third := st.insert("other", false, 30)
	assert.True(t, third)
	assert.Len(t, st.kept, 2)

	_ = s
}

func TestStoreRejectsBottom(t *testing.T) {
	st := newStore[int]()
	ok := st.insert("anything", true, 42)
	assert.False(t, ok)
	assert.Empty(t, st.kept)
}

func TestPrePassShortCircuits(t *testing.T) {
	s := &intSynth{target: 999, exampleCnt: 1}
	got, err := Synthesize[int](s, Options[int]{
		MaxIterations: 1,
		PrePass: func() (int, bool) {
			return 999, true
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 999, got)
}
