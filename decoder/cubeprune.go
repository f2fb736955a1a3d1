package decoder

import (
	"container/heap"
	"fmt"
	"strings"

	"github.com/go-cfglm/cfglm/chart"
	"github.com/go-cfglm/cfglm/hypergraph"
	"github.com/go-cfglm/cfglm/lm"
	"github.com/go-cfglm/cfglm/rule"
	"github.com/go-cfglm/cfglm/symbol"
)

// cubeItem is one entry of the cube-pruning priority queue: a rule index
// into the span's Collection plus a rank tuple over its nonterminal slots.
// tuple[0] is the rule's index in the collection; tuple[1:] are, per slot,
// the rank of the child StatefulNode currently selected.
type cubeItem struct {
	score float64
	tuple []int
}

// cubeQueue is a max-heap on score, tie-broken by lexicographic order on
// tuple so that pop order is fully deterministic for equal-scoring items.
type cubeQueue []cubeItem

func (q cubeQueue) Len() int { return len(q) }

func (q cubeQueue) Less(a, b int) bool {
	if q[a].score != q[b].score {
		return q[a].score > q[b].score
	}
	return lexLess(q[a].tuple, q[b].tuple)
}

func (q cubeQueue) Swap(a, b int) { q[a], q[b] = q[b], q[a] }

func (q *cubeQueue) Push(x interface{}) {
	*q = append(*q, x.(cubeItem))
}

func (q *cubeQueue) Pop() interface{} {
	old := *q
	last := len(old) - 1
	item := old[last]
	*q = old[:last]
	return item
}

func lexLess(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func tupleKey(tuple []int) string {
	var b strings.Builder
	for _, v := range tuple {
		fmt.Fprintf(&b, "%d,", v)
	}
	return b.String()
}

// cubePrune runs cube pruning over the rules collected into cols[i][j],
// registering the resulting nodes into chartTab[i][j] and finalizing it.
// The queue orders candidates by rule-base + child-Viterbi score only;
// each LM's contribution is added once a candidate is popped, the point
// at which it actually determines an edge's final score.
func (p *Parser) cubePrune(n, i, j int, cols []*chart.Collection, chartTab []*chart.ChartItem, hg *hypergraph.Hypergraph) {
	col := cols[idx(n, i, j)]
	item := chartTab[idx(n, i, j)]

	q := &cubeQueue{}
	heap.Init(q)
	visited := map[string]bool{}

	for k := 0; k < col.Len(); k++ {
		r := col.Rules[k]
		spans := col.Spans[k]
		labels := col.Labels[k]

		score := p.weights.Dot(r.Features)
		feasible := score != chart.NegInf
		for s := 0; feasible && s < len(spans); s++ {
			child := chartTab[idx(n, spans[s].ChildI, spans[s].ChildJ)]
			score = chart.AddScore(score, child.GetHypScore(labels[s], 0))
			feasible = score != chart.NegInf
		}
		if !feasible {
			p.logger.Debugw("rule infeasible at seeding", "i", i, "j", j, "rule_id", r.ID)
			continue
		}

		tuple := make([]int, len(spans)+1)
		tuple[0] = k
		visited[tupleKey(tuple)] = true
		heap.Push(q, cubeItem{score: score, tuple: tuple})
	}

	recomb := map[string]*chart.StatefulNode{}
	popped := 0
	for q.Len() > 0 && (p.popLimit < 0 || popped < p.popLimit) {
		top := heap.Pop(q).(cubeItem)
		popped++

		ruleIdx := top.tuple[0]
		r := col.Rules[ruleIdx]
		spans := col.Spans[ruleIdx]
		labels := col.Labels[ruleIdx]

		tails := make([]*chart.StatefulNode, len(spans))
		for s := range spans {
			child := chartTab[idx(n, spans[s].ChildI, spans[s].ChildJ)]
			tails[s] = child.GetStatefulNode(labels[s], top.tuple[s+1])
		}

		edge, newStates, lmScore := p.buildEdge(r, tails)
		finalScore := top.score + lmScore

		key := recombKey(r.HeadLabel, newStates)
		if sn, ok := recomb[key]; ok {
			sn.Node.AddEdge(edge)
		} else {
			node := hg.NewNode()
			sn := item.AddStatefulNode(r.HeadLabel, node, newStates, finalScore)
			node.AddEdge(edge)
			recomb[key] = sn
		}
		hg.AddEdge(edge)

		for s := range spans {
			child := chartTab[idx(n, spans[s].ChildI, spans[s].ChildJ)]
			next := append([]int(nil), top.tuple...)
			next[s+1]++
			nk := tupleKey(next)
			if visited[nk] {
				continue
			}
			delta := child.HypScoreDiff(labels[s], next[s+1])
			if delta == chart.NegInf {
				continue
			}
			visited[nk] = true
			heap.Push(q, cubeItem{score: top.score + delta, tuple: next})
		}
	}

	item.FinalizeNodes()
}

// buildEdge assembles the HyperEdge for rule r applied over tails, folding
// in every configured LM's contribution.
func (p *Parser) buildEdge(r *rule.TranslationRule, tails []*chart.StatefulNode) (*hypergraph.HyperEdge, []lm.ChartState, float64) {
	edge := &hypergraph.HyperEdge{
		Features: r.Features,
		Target:   r.Target,
		RuleID:   r.ID,
	}
	for _, t := range tails {
		edge.Tails = append(edge.Tails, t.Node)
	}

	newStates := make([]lm.ChartState, len(p.lms))
	lmFeatures := rule.SparseVector{}
	total := 0.0

	for lmID, adapter := range p.lms {
		childStates := make([]lm.ChartState, len(tails))
		for s, t := range tails {
			childStates[s] = t.States[lmID]
		}

		factor := adapter.Factor()
		var words rule.FactorSequence
		if factor < len(r.Target) {
			words = r.Target[factor]
		}

		logProb, oov, newState := adapter.CalcNontermScore(words, childStates)
		newStates[lmID] = newState

		contribution := logProb*adapter.Weight() + float64(oov)*adapter.OOVWeight()
		total += contribution
		if logProb != 0 {
			lmFeatures[adapter.FeatureName()] += logProb
		}
		if oov != 0 {
			lmFeatures[adapter.OOVFeatureName()] += float64(oov)
		}
	}

	edge.Features = edge.Features.Add(lmFeatures)
	edge.ViterbiLM = total
	return edge, newStates, total
}

// recombKey identifies the (head label, LM states) equivalence class two
// edges recombine under.
func recombKey(label symbol.HieroHeadLabels, states []lm.ChartState) string {
	var b strings.Builder
	b.WriteString(label.String())
	for _, s := range states {
		fmt.Fprintf(&b, "|%v", s.Key())
	}
	return b.String()
}
