package rdf

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"
)

// LoadOption configures Graph.Load, Dataset.Load and LoadGraphs.
type LoadOption func(*loadOptions)

type loadOptions struct {
	ctx          context.Context
	logger       *slog.Logger
	sharedBlanks bool
}

func newLoadOptions(opts []LoadOption) loadOptions {
	o := loadOptions{
		ctx:    context.Background(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLoadContext stops the load between statements once ctx is done.
func WithLoadContext(ctx context.Context) LoadOption {
	return func(o *loadOptions) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// WithLogger reports load progress and failures to logger.
func WithLogger(logger *slog.Logger) LoadOption {
	return func(o *loadOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSharedBlankNodes keeps blank node labels as they come from the
// source. By default every load gets its own blank node scope: a label
// read twice in one load is one node, but the same label in two loads is
// two distinct nodes.
func WithSharedBlankNodes() LoadOption {
	return func(o *loadOptions) { o.sharedBlanks = true }
}

// blankScope maps source labels to nodes local to one load.
type blankScope struct {
	in     *Interner
	shared bool
	labels map[string]*BlankNode
}

func newBlankScope(in *Interner, shared bool) *blankScope {
	return &blankScope{in: in, shared: shared, labels: make(map[string]*BlankNode)}
}

func (b *blankScope) term(t Term) Term {
	t = b.in.Adopt(t)
	bn, ok := t.(*BlankNode)
	if !ok || b.shared {
		return t
	}
	if mapped, ok := b.labels[bn.id]; ok {
		return mapped
	}
	mapped := b.in.FreshBlankNode()
	b.labels[bn.id] = mapped
	return mapped
}

func (b *blankScope) triple(t Triple) Triple {
	t.S = b.term(t.S)
	t.O = b.term(t.O)
	return t
}

// quad relabels q. A pinned graph name was chosen by the caller, not read
// from the source, so it keeps its identity.
func (b *blankScope) quad(q Quad, pinned bool) Quad {
	q.S = b.term(q.S)
	q.O = b.term(q.O)
	if q.G != nil && !pinned {
		q.G = b.term(q.G)
	}
	return q
}

// Load inserts every triple of src and returns how many were new. On
// failure it returns a *LoadError; triples inserted before the failure
// stay in the graph. src is not closed.
func (g *Graph) Load(src TripleSource, opts ...LoadOption) (int, error) {
	o := newLoadOptions(opts)
	scope := newBlankScope(g.in, o.sharedBlanks)
	read, inserted := 0, 0
	for {
		if err := o.ctx.Err(); err != nil {
			return inserted, o.fail(read, inserted, true, err)
		}
		t, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return inserted, o.fail(read, inserted, true, err)
		}
		read++
		if !t.Valid() {
			return inserted, o.fail(read, inserted, true, invalidStatement("graph", t.String()))
		}
		if g.Insert(scope.triple(t)) {
			inserted++
		}
	}
	o.logger.Debug("graph load complete", "read", read, "inserted", inserted)
	return inserted, nil
}

// Load inserts every quad of src and returns how many were new. Named
// graphs are created on demand. Errors are reported as for Graph.Load.
func (d *Dataset) Load(src QuadSource, opts ...LoadOption) (int, error) {
	return d.load(src, false, opts)
}

// LoadTriples inserts a triple stream into the graph named graph, or into
// the default graph when graph is nil. The graph is created even when src
// is empty, and a blank graph name is used as given.
func (d *Dataset) LoadTriples(src TripleSource, graph Term, opts ...LoadOption) (int, error) {
	graph = d.in.Adopt(graph)
	if graph != nil {
		if _, err := d.CreateGraph(graph); err != nil {
			return 0, &LoadError{Err: err}
		}
	}
	return d.load(TriplesInGraph(src, graph), true, opts)
}

func (d *Dataset) load(src QuadSource, pinnedGraph bool, opts []LoadOption) (int, error) {
	o := newLoadOptions(opts)
	scope := newBlankScope(d.in, o.sharedBlanks)
	read, inserted := 0, 0
	for {
		if err := o.ctx.Err(); err != nil {
			return inserted, o.fail(read, inserted, true, err)
		}
		q, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return inserted, o.fail(read, inserted, true, err)
		}
		read++
		if !q.Valid() {
			return inserted, o.fail(read, inserted, true, invalidStatement("dataset", q.String()))
		}
		if d.Insert(scope.quad(q, pinnedGraph)) {
			inserted++
		}
	}
	o.logger.Debug("dataset load complete", "read", read, "inserted", inserted, "graphs", len(d.names))
	return inserted, nil
}

func (o loadOptions) fail(read, inserted int, source bool, err error) error {
	o.logger.Warn("load stopped", "read", read, "inserted", inserted, "source", source, "error", err)
	return &LoadError{Read: read, Inserted: inserted, Source: source, Err: err}
}

type errInvalidStatement string

func (e errInvalidStatement) Error() string { return "invalid statement " + string(e) }

// invalidStatement reports a malformed statement handed over by a source.
func invalidStatement(target, stmt string) error {
	return &ParseError{Format: target, Statement: stmt, Offset: -1, Err: errInvalidStatement(stmt)}
}

// LoadGraphs loads each source into its own graph concurrently, running at
// most limit loads at a time (no limit when limit <= 0). Graphs use the
// default interner. The first failure cancels the remaining loads. Every
// source is closed.
func LoadGraphs(ctx context.Context, limit int, sources []TripleSource, opts ...LoadOption) ([]*Graph, error) {
	graphs := make([]*Graph, len(sources))
	eg, egctx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}
	loadOpts := append(slices.Clone(opts), WithLoadContext(egctx))
	for i, src := range sources {
		eg.Go(func() error {
			defer src.Close()
			g := NewGraph()
			if _, err := g.Load(src, loadOpts...); err != nil {
				return err
			}
			graphs[i] = g
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return graphs, nil
}
