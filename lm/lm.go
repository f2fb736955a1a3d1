// Package lm defines the n-gram language-model adapter contract and the
// opaque per-LM context state it threads through cube pruning.
package lm

import "github.com/go-cfglm/cfglm/rule"

// ChartState is an opaque LM context capturing left-boundary words awaiting
// scoring and right-boundary words for future extension. Two states compare
// equal iff they produce identical continuation scores for any right
// context, so implementations must define Key as a faithful,
// collision-free summary of that behavior.
type ChartState interface {
	// Key returns a comparable value (suitable as a Go map key) identifying
	// this state for recombination purposes.
	Key() interface{}
}

// Adapter is the interface over a single language model required by cube
// pruning. CalcNontermScore computes the nonterminal-level LM score of a
// rule application from its children's states, producing a new state and
// an OOV count.
type Adapter interface {
	// CalcNontermScore scores targetWords (the rule's target factor
	// sequence for this LM's factor, with interleaved nonterminal markers)
	// given the LM states of the rule's children, in slot order. It
	// returns the log-probability contribution, the number of OOVs
	// encountered, and the new context state for the combined span.
	CalcNontermScore(targetWords rule.FactorSequence, childStates []ChartState) (logProb float64, oovCount int, newState ChartState)

	// Weight and OOVWeight scale the LM's log-probability and OOV-count
	// contributions into the total score.
	Weight() float64
	OOVWeight() float64

	// FeatureName and OOVFeatureName name the sparse features the LM's
	// contributions are recorded under on the edge.
	FeatureName() string
	OOVFeatureName() string

	// Factor identifies which of the rule's target factors this LM scores.
	Factor() int
}

// stubState is the trivial ChartState used by StubAdapter: every span has
// the same (empty) context, so every rule application recombines under it.
type stubState struct{}

func (stubState) Key() interface{} { return struct{}{} }

// StubAdapter is an Adapter that always returns a log-probability of 0 and
// zero OOVs, useful for exercising cube pruning without a real LM.
type StubAdapter struct {
	FactorIdx int
	W         float64
	OOVW      float64
	FName     string
	OOVFName  string
}

func (s *StubAdapter) CalcNontermScore(_ rule.FactorSequence, _ []ChartState) (float64, int, ChartState) {
	return 0, 0, stubState{}
}

func (s *StubAdapter) Weight() float64        { return s.W }
func (s *StubAdapter) OOVWeight() float64      { return s.OOVW }
func (s *StubAdapter) FeatureName() string     { return s.FName }
func (s *StubAdapter) OOVFeatureName() string  { return s.OOVFName }
func (s *StubAdapter) Factor() int             { return s.FactorIdx }
