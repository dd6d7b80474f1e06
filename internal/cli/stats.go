package cli

import (
	"fmt"
	"iter"
	"strings"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdfgraph/rdf"
)

// StatsResult summarizes a loaded dataset.
type StatsResult struct {
	Quads       int          `json:"quads"`
	NamedGraphs int          `json:"named_graphs"`
	Subjects    int          `json:"subjects"`
	Predicates  int          `json:"predicates"`
	Objects     int          `json:"objects"`
	Terms       int          `json:"terms"`
	Graphs      []GraphStats `json:"graphs"`
}

// GraphStats is the size of one graph. The default graph has an empty name.
type GraphStats struct {
	Name    string `json:"name,omitempty"`
	Triples int    `json:"triples"`
}

func (r StatsResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "quads:        %d\n", r.Quads)
	fmt.Fprintf(&b, "named graphs: %d\n", r.NamedGraphs)
	fmt.Fprintf(&b, "subjects:     %d\n", r.Subjects)
	fmt.Fprintf(&b, "predicates:   %d\n", r.Predicates)
	fmt.Fprintf(&b, "objects:      %d\n", r.Objects)
	fmt.Fprintf(&b, "terms:        %d\n", r.Terms)
	for _, g := range r.Graphs {
		name := g.Name
		if name == "" {
			name = "(default)"
		}
		fmt.Fprintf(&b, "  %s %d\n", name, g.Triples)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	var inputFormat string

	cmd := &cobra.Command{
		Use:   "stats <file>...",
		Short: "Load files and report dataset statistics",
		Long: `Load one or more files into a single dataset and report its size:
quads, named graphs, distinct subjects, predicates and objects across all
graphs, and the number of distinct terms the dataset holds.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(rootOpts, cmd, args, inputFormat)
		},
	}
	cmd.Flags().StringVarP(&inputFormat, "input-format", "i", "", "input format (ntriples|nquads|jsonld)")

	return cmd
}

func runStats(opts *RootOptions, cmd *cobra.Command, paths []string, inputFormat string) error {
	ds, err := loadDataset(cmd, opts, paths, inputFormat)
	if err != nil {
		return err
	}
	return opts.formatter(cmd).Success(collectStats(ds))
}

func collectStats(ds *rdf.Dataset) StatsResult {
	union := ds.Union()
	result := StatsResult{
		Quads:       ds.Len(),
		NamedGraphs: ds.NamedGraphCount(),
		Subjects:    count(union.Subjects()),
		Predicates:  count(union.Predicates()),
		Objects:     count(union.Objects()),
		Terms:       countTerms(ds, union),
		Graphs:      []GraphStats{{Triples: ds.DefaultGraph().Len()}},
	}
	for name := range ds.GraphNames() {
		g, _ := ds.Graph(name)
		result.Graphs = append(result.Graphs, GraphStats{Name: name.String(), Triples: g.Len()})
	}
	return result
}

// countTerms counts the distinct terms held by ds: every subject,
// predicate and object, the datatype of each literal, and graph names.
// Interned terms are canonical, so pointer identity is term identity.
func countTerms(ds *rdf.Dataset, union *rdf.Graph) int {
	held := make(map[rdf.Term]struct{})
	for t := range union.Subjects() {
		held[t] = struct{}{}
	}
	for p := range union.Predicates() {
		held[p] = struct{}{}
	}
	for o := range union.Objects() {
		held[o] = struct{}{}
		if lit, ok := o.(*rdf.Literal); ok && lit.Datatype() != nil {
			held[lit.Datatype()] = struct{}{}
		}
	}
	for name := range ds.GraphNames() {
		held[name] = struct{}{}
	}
	return len(held)
}

func count[T any](seq iter.Seq[T]) int {
	n := 0
	for range seq {
		n++
	}
	return n
}
