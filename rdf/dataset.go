package rdf

import (
	"fmt"
	"iter"
	"slices"
)

// Dataset is a default graph plus any number of named graphs.
//
// Graph existence: a named graph exists from its first insert or an explicit
// CreateGraph until DeleteGraph is called. Removing its last quad leaves it
// in place, empty and addressable. The default graph always exists.
//
// Like Graph, a Dataset is single-writer and must not be modified while a
// sequence returned by Iter or Match is being consumed.
type Dataset struct {
	in    *Interner
	def   *Graph
	named map[Term]*Graph
	names []Term // creation order
}

// NewDataset creates a dataset with an empty default graph.
func NewDataset(opts ...GraphOption) *Dataset {
	def := NewGraph(opts...)
	return &Dataset{
		in:    def.in,
		def:   def,
		named: make(map[Term]*Graph),
	}
}

// Interner returns the interner the dataset canonicalizes terms with.
func (d *Dataset) Interner() *Interner { return d.in }

// DefaultGraph returns the default graph. Changes made through it are
// changes to the dataset.
func (d *Dataset) DefaultGraph() *Graph { return d.def }

// Graph returns the graph with the given name. A nil name returns the
// default graph.
func (d *Dataset) Graph(name Term) (*Graph, bool) {
	name = d.in.Adopt(name)
	if name == nil {
		return d.def, true
	}
	g, ok := d.named[name]
	return g, ok
}

// CreateGraph returns the named graph, creating it empty if needed.
// name must be an IRI or blank node; nil returns the default graph.
func (d *Dataset) CreateGraph(name Term) (*Graph, error) {
	name = d.in.Adopt(name)
	if name == nil {
		return d.def, nil
	}
	if !IsSubject(name) {
		return nil, fmt.Errorf("rdf: graph name must be an IRI or blank node, got %s", name.Kind())
	}
	return d.graphFor(name), nil
}

func (d *Dataset) graphFor(name Term) *Graph {
	if g, ok := d.named[name]; ok {
		return g
	}
	g := NewGraph(WithInterner(d.in))
	d.named[name] = g
	d.names = append(d.names, name)
	return g
}

// DeleteGraph drops a named graph and all its quads and reports whether it
// existed. The default graph cannot be deleted: DeleteGraph(nil) clears it
// and returns false.
func (d *Dataset) DeleteGraph(name Term) bool {
	name = d.in.Adopt(name)
	if name == nil {
		d.def.Clear()
		return false
	}
	if _, ok := d.named[name]; !ok {
		return false
	}
	delete(d.named, name)
	d.names = slices.DeleteFunc(d.names, func(n Term) bool { return n == name })
	return true
}

// GraphNames returns the named graph names in creation order, including
// graphs that are currently empty.
func (d *Dataset) GraphNames() iter.Seq[Term] {
	return func(yield func(Term) bool) {
		for _, name := range d.names {
			if !yield(name) {
				return
			}
		}
	}
}

// NamedGraphCount returns the number of named graphs.
func (d *Dataset) NamedGraphCount() int { return len(d.names) }

// Insert adds q, creating its named graph on demand, and reports whether
// the quad was new.
func (d *Dataset) Insert(q Quad) bool {
	if !q.Valid() {
		return false
	}
	g := d.def
	if q.G != nil {
		g = d.graphFor(d.in.Adopt(q.G))
	}
	return g.Insert(q.ToTriple())
}

// Remove deletes q and reports whether it was present. The graph itself is
// kept even when it becomes empty.
func (d *Dataset) Remove(q Quad) bool {
	g, ok := d.Graph(q.G)
	if !ok {
		return false
	}
	return g.Remove(q.ToTriple())
}

// Contains reports whether q is in the dataset.
func (d *Dataset) Contains(q Quad) bool {
	g, ok := d.Graph(q.G)
	if !ok {
		return false
	}
	return g.Contains(q.ToTriple())
}

// Len returns the number of quads across all graphs.
func (d *Dataset) Len() int {
	n := d.def.Len()
	for _, g := range d.named {
		n += g.Len()
	}
	return n
}

// Iter returns every quad: default graph first, then named graphs in
// creation order.
func (d *Dataset) Iter() iter.Seq[Quad] {
	return d.Match(AnyGraph, AnyTriple)
}

// Match returns the quads whose graph satisfies gp and whose triple
// satisfies p. A bound graph name that does not exist yields nothing.
func (d *Dataset) Match(gp GraphPattern, p Pattern) iter.Seq[Quad] {
	return func(yield func(Quad) bool) {
		if gp.bound {
			name := d.in.Adopt(gp.name)
			g, ok := d.Graph(name)
			if !ok {
				return
			}
			matchInto(g, name, p, yield)
			return
		}
		if !matchInto(d.def, nil, p, yield) {
			return
		}
		for _, name := range d.names {
			if !matchInto(d.named[name], name, p, yield) {
				return
			}
		}
	}
}

// matchInto streams g's matches as quads in graph name and reports whether
// the consumer wants more.
func matchInto(g *Graph, name Term, p Pattern, yield func(Quad) bool) bool {
	for t := range g.Match(p) {
		if !yield(t.ToQuadInGraph(name)) {
			return false
		}
	}
	return true
}

// RemoveMatching removes every quad matching gp and p and returns the count.
func (d *Dataset) RemoveMatching(gp GraphPattern, p Pattern) int {
	matched := slices.Collect(d.Match(gp, p))
	for _, q := range matched {
		d.Remove(q)
	}
	return len(matched)
}

// Union returns a new graph holding the triples of every graph in the
// dataset. Blank nodes with the same label in different graphs merge.
func (d *Dataset) Union() *Graph {
	u := NewGraph(WithInterner(d.in))
	u.Merge(d.def)
	for _, name := range d.names {
		u.Merge(d.named[name])
	}
	return u
}

// String summarizes the dataset for debugging.
func (d *Dataset) String() string {
	return fmt.Sprintf("Dataset(%d quads, %d named graphs)", d.Len(), len(d.names))
}
