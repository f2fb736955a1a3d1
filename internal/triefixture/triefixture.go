// Package triefixture is a minimal in-memory rule.TrieQuery: a literal
// prefix tree over rule.Symbol keys. It exists only to exercise
// decoder.Parser end to end in tests and the CLI fixture loader — loading
// and parsing a real (e.g. MARISA-compiled) rule table is out of scope
// here, and no third-party succinct-trie binding appears anywhere in the
// example pack to adopt instead. Its node/child-walk shape follows the
// hand-rolled tree `grammar/lexical/dfa` builds and walks via a small
// cursor.
package triefixture

import "github.com/go-cfglm/cfglm/rule"

type node struct {
	children   map[rule.Symbol]*node
	ruleListID int
	hasRules   bool
}

func newNode() *node {
	return &node{children: map[rule.Symbol]*node{}}
}

// RuleTrie is a builder-populated, read-only rule.TrieQuery.
type RuleTrie struct {
	root      *node
	ruleLists []rule.RuleList
}

// New returns an empty RuleTrie ready for AddRule calls.
func New() *RuleTrie {
	return &RuleTrie{root: newNode()}
}

// AddRule inserts r under key, creating intermediate nodes as needed.
// Multiple rules sharing the same key accumulate into one RuleList, as
// RulesFor expects.
func (t *RuleTrie) AddRule(key []rule.Symbol, r *rule.TranslationRule) {
	n := t.root
	for _, s := range key {
		next, ok := n.children[s]
		if !ok {
			next = newNode()
			n.children[s] = next
		}
		n = next
	}
	if !n.hasRules {
		n.ruleListID = len(t.ruleLists)
		t.ruleLists = append(t.ruleLists, nil)
		n.hasRules = true
	}
	t.ruleLists[n.ruleListID] = append(t.ruleLists[n.ruleListID], r)
}

func (t *RuleTrie) walk(prefix []rule.Symbol) *node {
	n := t.root
	for _, s := range prefix {
		next, ok := n.children[s]
		if !ok {
			return nil
		}
		n = next
	}
	return n
}

// PredictiveSearch reports whether any inserted key extends a.Prefix. A
// node that is itself a complete key but has no children does not count —
// nothing in the trie goes further than a.Prefix from there.
func (t *RuleTrie) PredictiveSearch(a rule.TrieAgent) bool {
	n := t.walk(a.Prefix)
	return n != nil && len(n.children) > 0
}

// Lookup reports whether a.Prefix is itself a complete key.
func (t *RuleTrie) Lookup(a rule.TrieAgent) (int, bool) {
	n := t.walk(a.Prefix)
	if n == nil || !n.hasRules {
		return 0, false
	}
	return n.ruleListID, true
}

// RulesFor returns the rules stored under ruleListID.
func (t *RuleTrie) RulesFor(ruleListID int) rule.RuleList {
	return t.ruleLists[ruleListID]
}

var _ rule.TrieQuery = (*RuleTrie)(nil)
