package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-cfglm/cfglm/chart"
	"github.com/go-cfglm/cfglm/hypergraph"
	"github.com/go-cfglm/cfglm/internal/triefixture"
	"github.com/go-cfglm/cfglm/rule"
	"github.com/go-cfglm/cfglm/symbol"
)

func mustBuild(t *testing.T, trie rule.TrieQuery, w rule.Weights, opts ...ParserOption) *Parser {
	t.Helper()
	b := &ParserBuilder{RuleTables: []rule.TrieQuery{trie}, Weights: w}
	p, err := b.Build(opts...)
	require.NoError(t, err)
	return p
}

// S1: a pure terminal (lexical) rule matches the whole one-word sentence.
func TestParseLexicalRule(t *testing.T) {
	trie := triefixture.New()
	root := symbol.Root(1)
	r := &rule.TranslationRule{ID: 1, HeadLabel: root, NumNonterms: 0, Features: rule.SparseVector{"f": 1.0}}
	trie.AddRule([]rule.Symbol{rule.Terminal(1)}, r)

	p := mustBuild(t, trie, rule.Weights{"f": 1.0})
	hg, err := p.Parse(symbol.Sentence{1})
	require.NoError(t, err)

	require.NotNil(t, hg.Root)
	assert.Len(t, hg.Root.Edges, 1)
	assert.Equal(t, 1, hg.Root.Edges[0].RuleID)
}

// S2: "[X,1] b -> ROOT" requires the nonterminal-first seed — X must be
// tried as the very first symbol of a path before any terminal has been
// consumed (DESIGN.md Open Question decision #4).
func TestParseNonterminalFirstRule(t *testing.T) {
	trie := triefixture.New()
	headX := symbol.HieroHeadLabelsFromWords([]symbol.WordID{10, 10})
	root := symbol.Root(1)

	lex := &rule.TranslationRule{ID: 1, HeadLabel: headX, NumNonterms: 0}
	trie.AddRule([]rule.Symbol{rule.Terminal(1)}, lex)

	nt := &rule.TranslationRule{ID: 2, HeadLabel: root, NumNonterms: 1}
	trie.AddRule([]rule.Symbol{rule.Nonterminal(headX), rule.Terminal(2)}, nt)

	p := mustBuild(t, trie, rule.Weights{})
	hg, err := p.Parse(symbol.Sentence{1, 2})
	require.NoError(t, err)

	require.NotNil(t, hg.Root)
	require.Len(t, hg.Root.Edges, 1)
	edge := hg.Root.Edges[0]
	require.Len(t, edge.Tails, 1)
	require.Len(t, edge.Tails[0].Edges, 1)
	assert.Equal(t, 1, edge.Tails[0].Edges[0].RuleID)
}

// S4: two distinct rules completing the same span under the same head
// label (and, with no LM configured, the same trivial state) recombine
// into a single node with two in-edges.
func TestParseRecombination(t *testing.T) {
	trie := triefixture.New()
	root := symbol.Root(1)

	r1 := &rule.TranslationRule{ID: 1, HeadLabel: root, NumNonterms: 0, Features: rule.SparseVector{"f": 1.0}}
	r2 := &rule.TranslationRule{ID: 2, HeadLabel: root, NumNonterms: 0, Features: rule.SparseVector{"f": 2.0}}
	trie.AddRule([]rule.Symbol{rule.Terminal(1)}, r1)
	trie.AddRule([]rule.Symbol{rule.Terminal(1)}, r2)

	p := mustBuild(t, trie, rule.Weights{"f": 1.0})
	hg, err := p.Parse(symbol.Sentence{1})
	require.NoError(t, err)

	require.NotNil(t, hg.Root)
	assert.Len(t, hg.Root.Edges, 2)
	assert.Len(t, hg.Nodes, 1)
}

// TestParseDeterministic exercises the determinism property across
// independent runs of the same fixture.
func TestParseDeterministic(t *testing.T) {
	trie := triefixture.New()
	root := symbol.Root(1)
	r := &rule.TranslationRule{ID: 1, HeadLabel: root, NumNonterms: 0}
	trie.AddRule([]rule.Symbol{rule.Terminal(7)}, r)

	p := mustBuild(t, trie, rule.Weights{})
	hg1, err := p.Parse(symbol.Sentence{7})
	require.NoError(t, err)
	hg2, err := p.Parse(symbol.Sentence{7})
	require.NoError(t, err)

	assert.Equal(t, len(hg1.Nodes), len(hg2.Nodes))
	assert.Equal(t, len(hg1.Edges), len(hg2.Edges))
}

// S3: a tie at the top of the queue is broken deterministically by tuple
// order, so a pop limit of 1 always keeps the same candidate.
func TestCubePruneTieBreaksDeterministically(t *testing.T) {
	n := 2
	col := &chart.Collection{
		Rules: rule.RuleList{
			{ID: 1, HeadLabel: symbol.Root(1)},
			{ID: 2, HeadLabel: symbol.Root(1)},
		},
		Spans:  [][]rule.SubstitutionPoint{{}, {}},
		Labels: [][]symbol.HieroHeadLabels{{}, {}},
	}
	cols := make([]*chart.Collection, n*n)
	for i := range cols {
		cols[i] = &chart.Collection{}
	}
	cols[idx(n, 0, 1)] = col

	chartTab := make([]*chart.ChartItem, n*n)
	chartTab[idx(n, 0, 1)] = chart.NewChartItem(0, 1)

	p := mustBuild(t, triefixture.New(), rule.Weights{}, WithPopLimit(1))
	hg := &hypergraph.Hypergraph{}
	p.cubePrune(n, 0, 1, cols, chartTab, hg)

	require.Len(t, hg.Edges, 1)
	assert.Equal(t, 1, hg.Edges[0].RuleID) // lexicographically smallest tuple, [0], wins the tie
}

// S5: a rule whose child-span label was never populated is dropped during
// seeding; no edge is added for it.
func TestCubePruneSkipsInfeasibleChild(t *testing.T) {
	n := 2
	present := symbol.HieroHeadLabelsFromWords([]symbol.WordID{1})
	missing := symbol.HieroHeadLabelsFromWords([]symbol.WordID{2})

	child := chart.NewChartItem(0, 0)
	hg := &hypergraph.Hypergraph{}
	child.AddStatefulNode(present, hg.NewNode(), nil, 0.0)
	child.FinalizeNodes()

	chartTab := make([]*chart.ChartItem, n*n)
	chartTab[idx(n, 0, 0)] = child
	chartTab[idx(n, 0, 1)] = chart.NewChartItem(0, 1)

	col := &chart.Collection{
		Rules:  rule.RuleList{{ID: 9, HeadLabel: symbol.Root(1), NumNonterms: 1}},
		Spans:  [][]rule.SubstitutionPoint{{{ChildI: 0, ChildJ: 0}}},
		Labels: [][]symbol.HieroHeadLabels{{missing}},
	}
	cols := make([]*chart.Collection, n*n)
	for i := range cols {
		cols[i] = &chart.Collection{}
	}
	cols[idx(n, 0, 1)] = col

	p := mustBuild(t, triefixture.New(), rule.Weights{})
	p.cubePrune(n, 0, 1, cols, chartTab, hg)

	assert.False(t, chartTab[idx(n, 0, 1)].HasLabel(symbol.Root(1)))
	assert.Empty(t, hg.Edges)
}

// S6: pop_limit bounds the number of edges cube pruning adds for a span,
// even when more feasible rules remain in the queue.
func TestCubePruneHonorsPopLimit(t *testing.T) {
	n := 1
	col := &chart.Collection{}
	for i := 0; i < 10; i++ {
		col.Rules = append(col.Rules, &rule.TranslationRule{ID: i, HeadLabel: symbol.Root(1), Features: rule.SparseVector{"f": float64(i)}})
		col.Spans = append(col.Spans, nil)
		col.Labels = append(col.Labels, nil)
	}
	cols := []*chart.Collection{col}
	chartTab := []*chart.ChartItem{chart.NewChartItem(0, 0)}

	p := mustBuild(t, triefixture.New(), rule.Weights{"f": 1.0}, WithPopLimit(3))
	hg := &hypergraph.Hypergraph{}
	p.cubePrune(n, 0, 0, cols, chartTab, hg)

	assert.Len(t, hg.Edges, 3)
}
