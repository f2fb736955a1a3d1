package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-cfglm/cfglm/symbol"
)

func TestWeightsDot(t *testing.T) {
	w := Weights{"a": 2.0, "b": 0.5}
	v := SparseVector{"a": 3.0, "c": 100.0} // "c" has no weight, contributes 0
	assert.Equal(t, 6.0, w.Dot(v))
}

func TestSparseVectorAddDoesNotMutateOperands(t *testing.T) {
	a := SparseVector{"x": 1.0}
	b := SparseVector{"x": 2.0, "y": 3.0}
	sum := a.Add(b)

	assert.Equal(t, 3.0, sum["x"])
	assert.Equal(t, 3.0, sum["y"])
	assert.Equal(t, 1.0, a["x"])
	assert.Equal(t, 2.0, b["x"])
}

func TestTrieAgentExtendCopiesPrefix(t *testing.T) {
	base := TrieAgent{Prefix: []Symbol{Terminal(1)}}
	extended := base.Extend(Terminal(2))

	require.Len(t, base.Prefix, 1)
	require.Len(t, extended.Prefix, 2)
	assert.Equal(t, symbol.WordID(1), base.Prefix[0].Word)
	assert.Equal(t, symbol.WordID(2), extended.Prefix[1].Word)
}

func TestCfgPathExtendNonterminalAccumulatesSpansAndLabels(t *testing.T) {
	label := symbol.Unk(1)
	p := RootPath().ExtendNonterminal(0, 2, label)

	require.Len(t, p.Spans, 1)
	assert.Equal(t, SubstitutionPoint{ChildI: 0, ChildJ: 2}, p.Spans[0])
	assert.Equal(t, label, p.Labels[0])

	p2 := p.ExtendTerminal(5)
	require.Len(t, p2.Spans, 1) // terminal extension leaves spans/labels untouched
	assert.Len(t, p2.Agent.Prefix, 2)
}

func TestSymbolString(t *testing.T) {
	assert.Equal(t, "t7", Terminal(7).String())
	nt := Nonterminal(symbol.Root(1))
	assert.Equal(t, symbol.Root(1).String(), nt.String())
}
