package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdfgraph/rdf"
)

// MatchOptions holds the match command flags.
type MatchOptions struct {
	InputFormat string
	Subject     string
	Predicate   string
	Object      string
	Graph       string
	Limit       int
	Count       bool
	Explain     bool
}

// MatchResult is the JSON form of a match.
type MatchResult struct {
	Pattern string      `json:"pattern"`
	Count   int         `json:"count"`
	Quads   []string    `json:"quads,omitempty"`
	Plans   []GraphPlan `json:"plans,omitempty"`
}

// GraphPlan names the index a graph answers the pattern from.
type GraphPlan struct {
	Graph string `json:"graph,omitempty"`
	Index string `json:"index"`
}

// NewMatchCommand creates the match command.
func NewMatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MatchOptions{}

	cmd := &cobra.Command{
		Use:   "match <file>...",
		Short: "Print the quads matching a triple pattern",
		Long: `Load files into a dataset and print every quad matching the pattern,
as N-Quads. Terms use N-Triples syntax; an omitted term or a ?variable
matches anything.

  rdfq match data.nt --predicate '<http://xmlns.com/foaf/0.1/knows>'
  rdfq match data.nq --graph default --object '"Alice"@en'

--graph takes a graph name, "default" for the default graph, or nothing
for every graph.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(rootOpts, opts, cmd, args)
		},
	}

	cmd.Flags().StringVarP(&opts.InputFormat, "input-format", "i", "", "input format (ntriples|nquads|jsonld)")
	cmd.Flags().StringVarP(&opts.Subject, "subject", "s", "", "subject term")
	cmd.Flags().StringVarP(&opts.Predicate, "predicate", "p", "", "predicate IRI")
	cmd.Flags().StringVarP(&opts.Object, "object", "o", "", "object term")
	cmd.Flags().StringVarP(&opts.Graph, "graph", "g", "", `graph name, or "default"`)
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "stop after this many quads (0 for all)")
	cmd.Flags().BoolVar(&opts.Count, "count", false, "print only the number of matches")
	cmd.Flags().BoolVar(&opts.Explain, "explain", false, "report the index used per graph")

	return cmd
}

func runMatch(rootOpts *RootOptions, opts *MatchOptions, cmd *cobra.Command, paths []string) error {
	ds, err := loadDataset(cmd, rootOpts, paths, opts.InputFormat)
	if err != nil {
		return err
	}
	pattern, err := rdf.ParsePattern(ds.Interner(), opts.Subject, opts.Predicate, opts.Object)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid pattern", err)
	}
	gp, err := parseGraphPattern(ds.Interner(), opts.Graph)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid graph", err)
	}

	result := MatchResult{Pattern: pattern.String()}
	if opts.Explain {
		result.Plans = explain(ds, gp, pattern)
	}
	if opts.Count && opts.Limit <= 0 {
		result.Count = countMatches(ds, gp, pattern)
	} else {
		for q := range ds.Match(gp, pattern) {
			if opts.Limit > 0 && result.Count == opts.Limit {
				break
			}
			result.Count++
			if !opts.Count {
				result.Quads = append(result.Quads, q.String())
			}
		}
	}
	rootOpts.logger.Debug("match complete", "pattern", result.Pattern, "count", result.Count)

	formatter := rootOpts.formatter(cmd)
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	return writeMatchText(formatter, opts, result)
}

// writeMatchText prints plans as N-Quads comments so the output still
// parses as N-Quads.
func writeMatchText(formatter *OutputFormatter, opts *MatchOptions, result MatchResult) error {
	var b strings.Builder
	for _, plan := range result.Plans {
		graph := plan.Graph
		if graph == "" {
			graph = "(default)"
		}
		fmt.Fprintf(&b, "# %s %s\n", graph, plan.Index)
	}
	if opts.Count {
		fmt.Fprintf(&b, "%d\n", result.Count)
	}
	for _, q := range result.Quads {
		b.WriteString(q)
		b.WriteByte('\n')
	}
	_, err := fmt.Fprint(formatter.Writer, b.String())
	return err
}

func parseGraphPattern(in *rdf.Interner, raw string) (rdf.GraphPattern, error) {
	switch strings.TrimSpace(raw) {
	case "":
		return rdf.AnyGraph, nil
	case "default":
		return rdf.DefaultGraphOnly, nil
	}
	name, err := rdf.ParseTerm(in, raw)
	if err != nil {
		return rdf.GraphPattern{}, err
	}
	if !rdf.IsSubject(name) {
		return rdf.GraphPattern{}, fmt.Errorf("graph name must be an IRI or blank node")
	}
	return rdf.InGraph(name), nil
}

// graphsFor lists the graphs a graph pattern selects, default graph first.
func graphsFor(ds *rdf.Dataset, gp rdf.GraphPattern) []GraphEntry {
	var graphs []GraphEntry
	if gp.Matches(nil) {
		graphs = append(graphs, GraphEntry{Graph: ds.DefaultGraph()})
	}
	for name := range ds.GraphNames() {
		if gp.Matches(name) {
			g, _ := ds.Graph(name)
			graphs = append(graphs, GraphEntry{Name: name, Graph: g})
		}
	}
	return graphs
}

// GraphEntry pairs a graph with its name; the default graph has a nil name.
type GraphEntry struct {
	Name  rdf.Term
	Graph *rdf.Graph
}

func (e GraphEntry) label() string {
	if e.Name == nil {
		return ""
	}
	return e.Name.String()
}

func countMatches(ds *rdf.Dataset, gp rdf.GraphPattern, p rdf.Pattern) int {
	n := 0
	for _, e := range graphsFor(ds, gp) {
		n += e.Graph.Count(p)
	}
	return n
}

func explain(ds *rdf.Dataset, gp rdf.GraphPattern, p rdf.Pattern) []GraphPlan {
	var plans []GraphPlan
	for _, e := range graphsFor(ds, gp) {
		plans = append(plans, GraphPlan{Graph: e.label(), Index: e.Graph.Explain(p).String()})
	}
	return plans
}
