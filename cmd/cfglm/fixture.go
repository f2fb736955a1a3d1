package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"

	"github.com/go-cfglm/cfglm/internal/triefixture"
	"github.com/go-cfglm/cfglm/rule"
	"github.com/go-cfglm/cfglm/symbol"
)

// fixtureFile is the on-disk JSON form of a rule table plus the sentence to
// parse against it, since loading a real (e.g. MARISA-compiled) rule table
// is out of scope here.
type fixtureFile struct {
	TrgFactors int                `json:"trg_factors"`
	Weights    map[string]float64 `json:"weights"`
	Rules      []fixtureRule      `json:"rules"`
	Sentence   []int              `json:"sentence"`
}

type fixtureSymbol struct {
	Terminal bool  `json:"terminal"`
	Word     int   `json:"word,omitempty"`
	Label    []int `json:"label,omitempty"`
}

type fixtureFactorWord struct {
	Nonterm   bool `json:"nonterm"`
	Word      int  `json:"word,omitempty"`
	SlotIndex int  `json:"slot,omitempty"`
}

type fixtureRule struct {
	ID          int                   `json:"id"`
	HeadLabel   []int                 `json:"head_label"`
	SourceKey   []fixtureSymbol       `json:"source_key"`
	NumNonterms int                   `json:"num_nonterms"`
	Features    map[string]float64    `json:"features"`
	Target      [][]fixtureFactorWord `json:"target"`
}

// loadedFixture is a fixture file converted into the types the decoder
// package and its Parser consume directly.
type loadedFixture struct {
	TrgFactors int
	Weights    rule.Weights
	Trie       *triefixture.RuleTrie
	Sentence   symbol.Sentence
	NumRules   int
}

func loadFixture(path string) (*loadedFixture, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open fixture %s: %w", path, err)
	}

	var f fixtureFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("cannot parse fixture %s: %w", path, err)
	}

	trgFactors := f.TrgFactors
	if trgFactors < 1 {
		trgFactors = 1
	}

	trie := triefixture.New()
	for _, fr := range f.Rules {
		key := make([]rule.Symbol, len(fr.SourceKey))
		for i, fs := range fr.SourceKey {
			if fs.Terminal {
				key[i] = rule.Terminal(symbol.WordID(fs.Word))
			} else {
				key[i] = rule.Nonterminal(toHeadLabel(fs.Label))
			}
		}

		target := make([]rule.FactorSequence, len(fr.Target))
		for i, factor := range fr.Target {
			seq := make(rule.FactorSequence, len(factor))
			for j, w := range factor {
				seq[j] = rule.FactorWord{
					IsNonterm: w.Nonterm,
					Word:      symbol.WordID(w.Word),
					SlotIndex: w.SlotIndex,
				}
			}
			target[i] = seq
		}

		r := &rule.TranslationRule{
			ID:          fr.ID,
			HeadLabel:   toHeadLabel(fr.HeadLabel),
			SourceKey:   key,
			NumNonterms: fr.NumNonterms,
			Features:    fr.Features,
			Target:      target,
		}
		trie.AddRule(key, r)
	}

	sent := make(symbol.Sentence, len(f.Sentence))
	for i, w := range f.Sentence {
		sent[i] = symbol.WordID(w)
	}

	return &loadedFixture{
		TrgFactors: trgFactors,
		Weights:    rule.Weights(f.Weights),
		Trie:       trie,
		Sentence:   sent,
		NumRules:   len(f.Rules),
	}, nil
}

func toHeadLabel(ws []int) symbol.HieroHeadLabels {
	ids := make([]symbol.WordID, len(ws))
	for i, w := range ws {
		ids[i] = symbol.WordID(w)
	}
	return symbol.HieroHeadLabelsFromWords(ids)
}
