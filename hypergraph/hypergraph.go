// Package hypergraph defines the translation forest emitted by the parser:
// a hypergraph of HyperNodes and HyperEdges encoding rule applications.
package hypergraph

import "github.com/go-cfglm/cfglm/rule"

// HyperEdge encodes one rule application: the rule's features (plus any
// per-LM feature contributions added during cube pruning), its target data,
// and its tail nodes in rule-slot order.
type HyperEdge struct {
	Features  rule.SparseVector
	Target    []rule.FactorSequence
	Tails     []*HyperNode
	RuleID    int
	ViterbiLM float64 // sum over LMs of weighted log-prob plus weighted OOV count, folded into this edge's score
}

// HyperNode is one node of the forest: a set of alternative edges deriving
// it, each an equivalent-under-recombination way to produce this node's
// (head label, LM state).
type HyperNode struct {
	ID    int
	Edges []*HyperEdge
}

// AddEdge appends e as an alternative derivation of n.
func (n *HyperNode) AddEdge(e *HyperEdge) {
	n.Edges = append(n.Edges, e)
}

// Hypergraph accumulates the nodes and edges emitted by cube pruning across
// every span, and owns all of them.
type Hypergraph struct {
	Nodes []*HyperNode
	Edges []*HyperEdge
	Root  *HyperNode // set once the full-span root label is known, after the parse completes
}

// NewNode allocates, registers, and returns a fresh node owned by g.
func (g *Hypergraph) NewNode() *HyperNode {
	n := &HyperNode{ID: len(g.Nodes)}
	g.Nodes = append(g.Nodes, n)
	return n
}

// AddEdge registers e as belonging to the hypergraph. Every edge produced by
// cube pruning is always added here, whether or not it recombines into an
// existing node.
func (g *Hypergraph) AddEdge(e *HyperEdge) {
	g.Edges = append(g.Edges, e)
}
