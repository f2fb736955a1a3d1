// Package rule defines the Hiero translation rule representation, the sparse
// feature/weight vectors used to score it, and the rule-trie contract it is
// looked up through.
package rule

import (
	"strconv"

	"github.com/go-cfglm/cfglm/symbol"
)

// SparseVector is a sparse feature vector keyed by feature name, as used by
// both rule features and the per-LM feature contributions added during cube
// pruning.
type SparseVector map[string]float64

// Add returns the componentwise sum of v and o, favoring neither operand's
// backing map.
func (v SparseVector) Add(o SparseVector) SparseVector {
	out := make(SparseVector, len(v)+len(o))
	for k, val := range v {
		out[k] = val
	}
	for k, val := range o {
		out[k] += val
	}
	return out
}

// Weights is a sparse map from feature name to scalar weight.
type Weights map[string]float64

// Dot computes the weighted sum of v's features: a plain dot product, no
// bias term and no normalization, matching the original's
// weights_->GetCurrent() * rules[i]->GetFeatures().
func (w Weights) Dot(v SparseVector) float64 {
	total := 0.0
	for k, val := range v {
		total += w[k] * val
	}
	return total
}

// Symbol is one element of a rule-trie key: either a terminal source
// word-id or a nonterminal head label.
type Symbol struct {
	IsTerminal bool
	Word       symbol.WordID
	Label      symbol.HieroHeadLabels
}

// Terminal builds a trie-key symbol for a source word.
func Terminal(w symbol.WordID) Symbol {
	return Symbol{IsTerminal: true, Word: w}
}

// Nonterminal builds a trie-key symbol for a nonterminal head label.
func Nonterminal(l symbol.HieroHeadLabels) Symbol {
	return Symbol{IsTerminal: false, Label: l}
}

func (s Symbol) String() string {
	if s.IsTerminal {
		return "t" + strconv.Itoa(int(s.Word))
	}
	return s.Label.String()
}

// FactorWord is one position of a rule's target-side factor sequence: either
// a literal target word or a marker pointing at the rule's Nth nonterminal
// slot, interleaved in target order.
type FactorWord struct {
	IsNonterm bool
	Word      symbol.WordID
	SlotIndex int // valid when IsNonterm; 0-based index into the rule's nonterminal slots
}

// FactorSequence is one target factor's word/marker sequence for a rule.
type FactorSequence []FactorWord

// TranslationRule is an immutable Hiero-form SCFG rule: a source pattern,
// per-factor target sequences, a sparse feature vector, and its own head
// label. Rules are owned by the rule-table loader and referenced read-only
// by the parser.
type TranslationRule struct {
	ID          int
	HeadLabel   symbol.HieroHeadLabels
	SourceKey   []Symbol // the trie key this rule is stored under
	NumNonterms int      // number of nonterminal slots in SourceKey
	Features    SparseVector
	Target      []FactorSequence // one sequence per target factor
}

// RuleList is the set of rules sharing one trie key.
type RuleList []*TranslationRule

// TrieAgent is a cursor into the rule trie: an accumulated key prefix. It is
// a value type; extending it copies the prefix rather than mutating a
// shared cursor, since several extensions of the same prefix are tried side
// by side during a single span's rule-trie walk.
type TrieAgent struct {
	Prefix []Symbol
}

// Extend returns a new agent whose prefix is a.Prefix with s appended.
func (a TrieAgent) Extend(s Symbol) TrieAgent {
	next := make([]Symbol, len(a.Prefix)+1)
	copy(next, a.Prefix)
	next[len(a.Prefix)] = s
	return TrieAgent{Prefix: next}
}

// TrieQuery is the interface over the rule trie required by the parser. An
// implementation may use a MARISA-style succinct trie; behavior must be
// equivalent to these two queries plus rule lookup over the key set.
type TrieQuery interface {
	// PredictiveSearch reports whether any key in the trie extends the
	// agent's current prefix.
	PredictiveSearch(a TrieAgent) bool
	// Lookup reports whether the agent's prefix is itself a complete key,
	// returning the rule-list id to pass to RulesFor.
	Lookup(a TrieAgent) (ruleListID int, ok bool)
	// RulesFor returns the rules stored under a rule-list id returned by
	// Lookup.
	RulesFor(ruleListID int) RuleList
}

// SubstitutionPoint is one nonterminal slot consumed so far by a CfgPath:
// the child span it was matched against.
type SubstitutionPoint struct {
	ChildI, ChildJ int
}

// CfgPath is the active trie-walk state: the trie agent plus the
// substitution points and head labels of the nonterminals consumed so far,
// in consumption order.
type CfgPath struct {
	Agent  TrieAgent
	Spans  []SubstitutionPoint
	Labels []symbol.HieroHeadLabels
}

// RootPath is the empty path at the start of a span's rule-trie walk.
func RootPath() CfgPath {
	return CfgPath{}
}

// ExtendTerminal builds a new path consuming the single source word w.
func (p CfgPath) ExtendTerminal(w symbol.WordID) CfgPath {
	return CfgPath{
		Agent:  p.Agent.Extend(Terminal(w)),
		Spans:  p.Spans,
		Labels: p.Labels,
	}
}

// ExtendNonterminal builds a new path consuming a nonterminal spanning
// (childI, childJ) with the given head label.
func (p CfgPath) ExtendNonterminal(childI, childJ int, label symbol.HieroHeadLabels) CfgPath {
	spans := make([]SubstitutionPoint, len(p.Spans)+1)
	copy(spans, p.Spans)
	spans[len(p.Spans)] = SubstitutionPoint{ChildI: childI, ChildJ: childJ}

	labels := make([]symbol.HieroHeadLabels, len(p.Labels)+1)
	copy(labels, p.Labels)
	labels[len(p.Labels)] = label

	return CfgPath{
		Agent:  p.Agent.Extend(Nonterminal(label)),
		Spans:  spans,
		Labels: labels,
	}
}
