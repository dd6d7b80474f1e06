package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdfgraph/rdf"
)

// ConvertOptions holds the convert command flags.
type ConvertOptions struct {
	InputFormat string
	To          string
	Output      string
	Sort        bool
	Context     string // JSON-LD context file
}

// ConvertResult is reported when output goes to a file.
type ConvertResult struct {
	Input      string `json:"input"`
	Output     string `json:"output"`
	Format     string `json:"format"`
	Statements int    `json:"statements"`
}

func (r ConvertResult) String() string {
	return fmt.Sprintf("wrote %d statements to %s (%s)", r.Statements, r.Output, r.Format)
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{}

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a file to another RDF format",
		Long: `Convert a file to N-Triples, N-Quads, Turtle or JSON-LD.

Statements are streamed unless --sort is given, in which case the input is
loaded first and written graph by graph in term order. Sorting gives the
most compact Turtle. Turtle prefixes come from the config file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(rootOpts, opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.InputFormat, "input-format", "i", "", "input format (ntriples|nquads|jsonld)")
	cmd.Flags().StringVarP(&opts.To, "to", "t", "", "output format (ntriples|nquads|turtle|jsonld)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.Sort, "sort", false, "load and sort before writing")
	cmd.Flags().StringVar(&opts.Context, "context", "", "JSON-LD context file to compact output with")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runConvert(rootOpts *RootOptions, opts *ConvertOptions, cmd *cobra.Command, path string) error {
	to, ok := rdf.ParseFormat(opts.To)
	if !ok || !to.CanEncode() {
		return NewExitError(ExitCommandError, fmt.Sprintf("cannot write %q output", opts.To))
	}
	encOpts := rootOpts.config.encodeOptions(cmd.Context())
	if opts.Context != "" {
		ctxDoc, err := readJSONLDContext(opts.Context)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid JSON-LD context", err)
		}
		encOpts = append(encOpts, rdf.OptJSONLDContext(ctxDoc))
	}

	var w io.Writer = cmd.OutOrStdout()
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			return WrapExitError(ExitCommandError, "cannot create output", err)
		}
		defer f.Close()
		w = f
	}
	enc, err := rdf.NewQuadEncoder(w, to, encOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot write output", err)
	}

	var n int
	if opts.Sort {
		n, err = convertSorted(rootOpts, opts, cmd, path, enc)
	} else {
		n, err = convertStream(rootOpts, opts, cmd, path, enc)
	}
	if err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return WrapExitError(ExitFailure, "write failed", err)
	}
	rootOpts.logger.Debug("convert complete", "input", path, "format", string(to), "statements", n)

	if opts.Output == "" {
		return nil
	}
	return rootOpts.formatter(cmd).Success(ConvertResult{
		Input:      path,
		Output:     opts.Output,
		Format:     string(to),
		Statements: n,
	})
}

func convertStream(rootOpts *RootOptions, opts *ConvertOptions, cmd *cobra.Command, path string, enc rdf.QuadSink) (int, error) {
	dec, closeInput, err := openDecoder(cmd, rootOpts, rdf.NewInterner(), path, opts.InputFormat)
	if err != nil {
		return 0, err
	}
	defer closeInput()

	n := 0
	for q, err := range rdf.Quads(dec) {
		if err != nil {
			return n, WrapExitError(ExitFailure, path, err)
		}
		if err := enc.Write(q); err != nil {
			return n, WrapExitError(ExitFailure, "write failed", err)
		}
		n++
	}
	return n, nil
}

func convertSorted(rootOpts *RootOptions, opts *ConvertOptions, cmd *cobra.Command, path string, enc rdf.QuadSink) (int, error) {
	ds, err := loadDataset(cmd, rootOpts, []string{path}, opts.InputFormat)
	if err != nil {
		return 0, err
	}
	n, err := rdf.WriteQuads(enc, sortedQuads(ds))
	if err != nil {
		return n, WrapExitError(ExitFailure, "write failed", err)
	}
	return n, nil
}

// sortedQuads yields the default graph, then each named graph in creation
// order, every graph in term order.
func sortedQuads(ds *rdf.Dataset) iter.Seq[rdf.Quad] {
	return func(yield func(rdf.Quad) bool) {
		for _, e := range graphsFor(ds, rdf.AnyGraph) {
			for _, t := range e.Graph.Sorted() {
				if !yield(t.ToQuadInGraph(e.Name)) {
					return
				}
			}
		}
	}
}

func readJSONLDContext(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
