package decoder

import (
	"github.com/go-cfglm/cfglm/chart"
	"github.com/go-cfglm/cfglm/rule"
	"github.com/go-cfglm/cfglm/symbol"
)

// consume walks the rule trie forward from a partially-matched path. Its
// invariant: path is a partial rule match whose substitution points cover a
// prefix of source positions ending at j-1, and we are trying to extend it
// to cover through k. unary flags the case where path, if completed right here,
// would consist of a single substituted nonterminal spanning the entire
// target span — forbidden as a rule completion (prevents unary cycles).
//
// Two branches: advance by one terminal (if j == k, consuming sent[j]), or
// advance by one nonterminal (for every label already populated at the
// child span (j,k)).
func (p *Parser) consume(path rule.CfgPath, sent symbol.Sentence, n, i, j, k int, chartTab []*chart.ChartItem, cols []*chart.Collection) {
	unary := i == j

	if j == k {
		next := path.ExtendTerminal(sent[j])
		p.addToChart(next, sent, n, i, k, unary, chartTab, cols)
	}

	child := chartTab[idx(n, j, k)]
	for _, label := range child.Labels() {
		next := path.ExtendNonterminal(j, k, label)
		p.addToChart(next, sent, n, i, k, unary, chartTab, cols)
	}
}

// addToChart records path as a completed rule match ending at (i,k), unless
// unary forbids it, then fans out further extensions to the right.
func (p *Parser) addToChart(path rule.CfgPath, sent symbol.Sentence, n, i, k int, unary bool, chartTab []*chart.ChartItem, cols []*chart.Collection) {
	if !unary {
		if id, ok := p.trie.Lookup(path.Agent); ok {
			cols[idx(n, i, k)].AddRules(path, p.trie.RulesFor(id))
		}
	}
	if p.trie.PredictiveSearch(path.Agent) {
		for kp := k + 1; kp < n; kp++ {
			p.consume(path, sent, n, i, k+1, kp, chartTab, cols)
		}
	}
}

// seedNonterminalFirst tries every label populated at the just-finalized
// span (i,m) as the *first* symbol of a rule starting at i — the
// counterpart to the diagonal's terminal-first seed. Without this, rules
// whose source pattern opens with a nonterminal (e.g. "[X,1] b") could
// never be reached: nothing else in the forward phase tries a nonterminal
// as the very first symbol of a fresh path, since every other extension
// point is reached via a path that has already consumed at least one
// symbol. Must run only after chartTab[i][m] has been finalized.
func (p *Parser) seedNonterminalFirst(i, m int, sent symbol.Sentence, n int, chartTab []*chart.ChartItem, cols []*chart.Collection) {
	item := chartTab[idx(n, i, m)]
	for _, label := range item.Labels() {
		path := rule.RootPath().ExtendNonterminal(i, m, label)
		if p.trie.PredictiveSearch(path.Agent) {
			p.addToChart(path, sent, n, i, m, true, chartTab, cols)
		}
	}
}
