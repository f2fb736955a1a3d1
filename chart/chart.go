// Package chart implements the per-span chart: ChartItem beams of stateful
// hypergraph nodes and the Collection buckets that feed cube pruning.
package chart

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-cfglm/cfglm/cfglmerr"
	"github.com/go-cfglm/cfglm/hypergraph"
	"github.com/go-cfglm/cfglm/lm"
	"github.com/go-cfglm/cfglm/rule"
	"github.com/go-cfglm/cfglm/symbol"
)

// NegInf is the sentinel log-score denoting infeasibility, equivalent to the
// original's -REAL_MAX.
var NegInf = math.Inf(-1)

// AddScore adds two log-space scores, short-circuiting to NegInf the moment
// either operand already is NegInf, so an infeasible contribution poisons
// the whole sum instead of silently combining with -Inf arithmetic.
func AddScore(a, b float64) float64 {
	if a == NegInf || b == NegInf {
		return NegInf
	}
	return a + b
}

// StatefulNode pairs a hypergraph node with its per-LM left/right context
// state tuple. The hypergraph node is owned by the Hypergraph; the state
// tuple belongs to the StatefulNode itself.
type StatefulNode struct {
	Node   *hypergraph.HyperNode
	States []lm.ChartState
	score  float64 // Viterbi score, fixed at creation (cube pruning only ever adds a node's first, best-scoring derivation)
}

// Score returns the node's Viterbi score.
func (s *StatefulNode) Score() float64 {
	return s.score
}

// ChartItem is the per-span beam: a mapping from head label to a
// score-sorted sequence of stateful nodes.
type ChartItem struct {
	span      cfglmerr.Span
	nodes     map[symbol.HieroHeadLabels][]*StatefulNode
	populated bool
}

// NewChartItem allocates the (empty, unpopulated) chart item for span
// (i, j).
func NewChartItem(i, j int) *ChartItem {
	return &ChartItem{
		span:  cfglmerr.Span{I: i, J: j},
		nodes: map[symbol.HieroHeadLabels][]*StatefulNode{},
	}
}

// AddStatefulNode registers a new node under label with the given LM state
// tuple and Viterbi score, returning the StatefulNode so the caller can
// index it in a recombination map. Must only be called before
// FinalizeNodes; no further mutation is allowed once the item is populated.
func (c *ChartItem) AddStatefulNode(label symbol.HieroHeadLabels, node *hypergraph.HyperNode, states []lm.ChartState, score float64) *StatefulNode {
	if c.populated {
		panic(&cfglmerr.InvariantViolation{Cause: fmt.Errorf("AddStatefulNode after FinalizeNodes"), Span: c.span})
	}
	sn := &StatefulNode{Node: node, States: states, score: score}
	c.nodes[label] = append(c.nodes[label], sn)
	return sn
}

// HasLabel reports whether the item has any nodes under label. Parse uses
// this to check for a ROOT node on the full span before fetching it with
// GetStatefulNode, which panics on an absent label.
func (c *ChartItem) HasLabel(label symbol.HieroHeadLabels) bool {
	_, ok := c.nodes[label]
	return ok
}

// Labels returns the set of head labels populated in this item, used by
// consume to enumerate nonterminal extensions across a split point.
func (c *ChartItem) Labels() []symbol.HieroHeadLabels {
	ls := make([]symbol.HieroHeadLabels, 0, len(c.nodes))
	for l := range c.nodes {
		ls = append(ls, l)
	}
	return ls
}

// GetHypScore returns the Viterbi score of the pos'th-best node under label,
// or NegInf if label has fewer than pos+1 nodes (including none at all), so
// a child contributing NegInf during seeding marks the whole rule
// infeasible rather than panicking. Must only be called after FinalizeNodes.
func (c *ChartItem) GetHypScore(label symbol.HieroHeadLabels, pos int) float64 {
	if !c.populated {
		panic(&cfglmerr.InvariantViolation{Cause: fmt.Errorf("GetHypScore before FinalizeNodes"), Span: c.span})
	}
	if pos < 0 {
		return NegInf
	}
	list := c.nodes[label]
	if pos >= len(list) {
		return NegInf
	}
	return list[pos].score
}

// HypScoreDiff returns GetHypScore(label, pos) - GetHypScore(label, pos-1),
// the marginal score of advancing from rank pos-1 to rank pos during cube
// pruning's neighbor expansion, or NegInf when either rank has no node
// (so pos 0 yields NegInf). It is always computed against the *child*
// span's ChartItem — the original source confused this with the outer
// span's id in places; this signature only ever sees the child's item in
// the first place, closing off that mistake structurally.
func (c *ChartItem) HypScoreDiff(label symbol.HieroHeadLabels, pos int) float64 {
	next := c.GetHypScore(label, pos)
	if next == NegInf {
		return NegInf
	}
	prev := c.GetHypScore(label, pos-1)
	if prev == NegInf {
		return NegInf
	}
	return next - prev
}

// GetStatefulNode returns the pos'th-best node under label. Unlike
// GetHypScore, an absent (label, pos) here is always a fatal invariant
// violation: by the time cube pruning reaches edge reconstruction, that
// slot's feasibility was already confirmed via GetHypScore during seeding
// or neighbor expansion.
func (c *ChartItem) GetStatefulNode(label symbol.HieroHeadLabels, pos int) *StatefulNode {
	if !c.populated {
		panic(&cfglmerr.InvariantViolation{Cause: fmt.Errorf("GetStatefulNode before FinalizeNodes"), Span: c.span})
	}
	list, ok := c.nodes[label]
	if !ok || pos < 0 || pos >= len(list) {
		panic(&cfglmerr.InvariantViolation{Cause: fmt.Errorf("no stateful node for label %v at rank %d", label, pos), Span: c.span})
	}
	return list[pos]
}

// FinalizeNodes sorts each label's node sequence by Viterbi score
// descending and marks the item populated; no further mutation is allowed
// afterward.
func (c *ChartItem) FinalizeNodes() {
	for _, list := range c.nodes {
		if len(list) > 1 {
			sort.SliceStable(list, func(i, j int) bool {
				return list[i].score > list[j].score
			})
		}
	}
	c.populated = true
}

// Populated reports whether FinalizeNodes has run.
func (c *ChartItem) Populated() bool {
	return c.populated
}

// Collection is a per-span bucket of completed rule matches awaiting cube
// pruning: parallel rules/spans/labels sequences. Mutated only during the
// forward (consume/addToChart) phase; read-only during cube pruning of its
// span.
type Collection struct {
	Rules  rule.RuleList
	Spans  [][]rule.SubstitutionPoint
	Labels [][]symbol.HieroHeadLabels
}

// AddRules records every rule in rules as completed at path's substitution
// points (original: CFGCollection::AddRules).
func (c *Collection) AddRules(path rule.CfgPath, rules rule.RuleList) {
	for _, r := range rules {
		c.Rules = append(c.Rules, r)
		c.Spans = append(c.Spans, path.Spans)
		c.Labels = append(c.Labels, path.Labels)
	}
}

// Len returns the number of completed rule matches recorded.
func (c *Collection) Len() int {
	return len(c.Rules)
}
