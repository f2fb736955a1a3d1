// Package decoder orchestrates the CKY+ chart parse: span enumeration,
// the rule-trie walk (consume/addToChart), and cube pruning, producing a
// translation forest.
package decoder

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/go-cfglm/cfglm/cfglmerr"
	"github.com/go-cfglm/cfglm/chart"
	"github.com/go-cfglm/cfglm/hypergraph"
	"github.com/go-cfglm/cfglm/lm"
	"github.com/go-cfglm/cfglm/rule"
	"github.com/go-cfglm/cfglm/symbol"
)

// Parser runs the CFG+LM chart parse for one sentence at a time. A Parser
// is single-threaded per input sentence; the trie, weights, and LM
// adapters it holds are read-only and may be shared across concurrently
// parsing Parsers.
type Parser struct {
	trie       rule.TrieQuery
	weights    rule.Weights
	lms        []lm.Adapter
	popLimit   int
	trgFactors int

	rootLabel  symbol.HieroHeadLabels
	unkLabel   symbol.HieroHeadLabels
	emptyLabel symbol.HieroHeadLabels

	logger *zap.SugaredLogger
}

// ParserOption configures a Parser during Build, mirroring vartan's
// driver.ParserOption (MakeAST/MakeCST) functional-option shape.
type ParserOption func(p *Parser) error

// WithPopLimit sets the maximum number of cube-pruning pops per span.
// Negative means unbounded (the default).
func WithPopLimit(n int) ParserOption {
	return func(p *Parser) error {
		p.popLimit = n
		return nil
	}
}

// WithTrgFactors sets the arity governing ROOT/UNK/EMPTY and every
// HieroHeadLabels tuple (default 1).
func WithTrgFactors(n int) ParserOption {
	return func(p *Parser) error {
		if n < 1 {
			return &cfglmerr.ConfigError{Cause: fmt.Errorf("trg_factors must be >= 1, got %d", n)}
		}
		p.trgFactors = n
		return nil
	}
}

// WithLM appends a language-model adapter to score nonterminal completions
// during cube pruning.
func WithLM(a lm.Adapter) ParserOption {
	return func(p *Parser) error {
		p.lms = append(p.lms, a)
		return nil
	}
}

// WithDebugLog enables development-mode zap tracing of span processing in
// Parse and of rules dropped during cubePrune seeding, standing in for the original's unconditional cerr
// prints, gated behind an explicit opt-in instead of always running.
func WithDebugLog() ParserOption {
	return func(p *Parser) error {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return &cfglmerr.ConfigError{Cause: err}
		}
		p.logger = logger.Sugar()
		return nil
	}
}

// ParserBuilder validates configuration and constructs a Parser,
// reporting configuration errors at construction rather than fatally deep
// in the parse loop, mirroring vartan's GrammarBuilder/ParsingTableBuilder
// pattern.
type ParserBuilder struct {
	// RuleTables must contain exactly one rule table. The original
	// implementation this decoder is modeled on only ever supported a
	// single translation model, and nothing here merges or chains
	// multiple tables, so more than one is rejected as a configuration
	// error rather than silently taking the first.
	RuleTables []rule.TrieQuery
	Weights    rule.Weights
}

// Build validates b's fields and opts, returning a ready-to-use Parser or
// a *cfglmerr.ConfigError.
func (b *ParserBuilder) Build(opts ...ParserOption) (*Parser, error) {
	if len(b.RuleTables) != 1 {
		return nil, &cfglmerr.ConfigError{Cause: fmt.Errorf("exactly one rule table is required, got %d", len(b.RuleTables))}
	}

	weights := b.Weights
	if weights == nil {
		weights = rule.Weights{}
	}

	p := &Parser{
		trie:       b.RuleTables[0],
		weights:    weights,
		popLimit:   -1,
		trgFactors: 1,
		logger:     zap.NewNop().Sugar(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	p.rootLabel = symbol.Root(p.trgFactors)
	p.unkLabel = symbol.Unk(p.trgFactors)
	p.emptyLabel = symbol.Empty(p.trgFactors)

	return p, nil
}

// RootLabel, UnkLabel, and EmptyLabel expose the distinguished labels this
// parser was configured with.
func (p *Parser) RootLabel() symbol.HieroHeadLabels  { return p.rootLabel }
func (p *Parser) UnkLabel() symbol.HieroHeadLabels   { return p.unkLabel }
func (p *Parser) EmptyLabel() symbol.HieroHeadLabels { return p.emptyLabel }

// Parse builds the translation forest for sent. The hypergraph's Root
// is set to the node registered under the full span with the ROOT label, if
// one was produced; callers needing a fallback (glue rules,
// pass-through) must supply one themselves — the core emits only what cube
// pruning produced.
func (p *Parser) Parse(sent symbol.Sentence) (hg *hypergraph.Hypergraph, err error) {
	n := sent.Len()
	chartTab := make([]*chart.ChartItem, n*n)
	cols := make([]*chart.Collection, n*n)
	for i := range cols {
		cols[i] = &chart.Collection{}
	}
	hg = &hypergraph.Hypergraph{}

	defer func() {
		if r := recover(); r != nil {
			if iv, ok := r.(*cfglmerr.InvariantViolation); ok {
				hg = nil
				err = iv
				return
			}
			panic(r)
		}
	}()

	for i := n - 1; i >= 0; i-- {
		p.logger.Debugw("processing diagonal", "i", i)
		chartTab[idx(n, i, i)] = chart.NewChartItem(i, i)

		path := rule.RootPath().ExtendTerminal(sent[i])
		p.addToChart(path, sent, n, i, i, false, chartTab, cols)
		p.cubePrune(n, i, i, cols, chartTab, hg)
		p.seedNonterminalFirst(i, i, sent, n, chartTab, cols)

		for j := i + 1; j < n; j++ {
			p.logger.Debugw("processing span", "i", i, "j", j)
			chartTab[idx(n, i, j)] = chart.NewChartItem(i, j)
			p.cubePrune(n, i, j, cols, chartTab, hg)
			p.seedNonterminalFirst(i, j, sent, n, chartTab, cols)
		}
	}

	if n > 0 {
		full := chartTab[idx(n, 0, n-1)]
		if full != nil && full.HasLabel(p.rootLabel) {
			hg.Root = full.GetStatefulNode(p.rootLabel, 0).Node
		}
	}

	return hg, nil
}

func idx(n, i, j int) int {
	return i*n + j
}
