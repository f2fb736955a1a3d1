package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-cfglm/cfglm/decoder"
	"github.com/go-cfglm/cfglm/rule"
)

var decodeFlags = struct {
	popLimit *int
	debug    *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "decode",
		Short:   "Parse a fixture's sentence and print a JSON summary of the resulting hypergraph",
		Example: `  cfglm decode fixture.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runDecode,
	}
	decodeFlags.popLimit = cmd.Flags().Int("pop-limit", -1, "cube-pruning pop limit per span (negative means unbounded)")
	decodeFlags.debug = cmd.Flags().Bool("debug", false, "enable debug tracing of the parse")
	rootCmd.AddCommand(cmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	f, err := loadFixture(args[0])
	if err != nil {
		return err
	}

	opts := []decoder.ParserOption{
		decoder.WithPopLimit(*decodeFlags.popLimit),
		decoder.WithTrgFactors(f.TrgFactors),
	}
	if *decodeFlags.debug {
		opts = append(opts, decoder.WithDebugLog())
	}

	b := &decoder.ParserBuilder{
		RuleTables: []rule.TrieQuery{f.Trie},
		Weights:    f.Weights,
	}
	p, err := b.Build(opts...)
	if err != nil {
		return err
	}

	hg, err := p.Parse(f.Sentence)
	if err != nil {
		return err
	}

	out := hypergraphSummary{
		NumNodes: len(hg.Nodes),
		NumEdges: len(hg.Edges),
		HasRoot:  hg.Root != nil,
	}
	if hg.Root != nil {
		out.RootID = hg.Root.ID
		out.RootEdges = len(hg.Root.Edges)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

type hypergraphSummary struct {
	NumNodes  int  `json:"num_nodes"`
	NumEdges  int  `json:"num_edges"`
	HasRoot   bool `json:"has_root"`
	RootID    int  `json:"root_id,omitempty"`
	RootEdges int  `json:"root_edges,omitempty"`
}
