package rdf

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// queryPlan is the access path chosen for one pattern.
type queryPlan struct {
	kind IndexKind
	ids  *roaring.Bitmap // candidate triple ids; nil means no candidates
}

func (q queryPlan) cardinality() uint64 {
	if q.ids == nil {
		return 0
	}
	return q.ids.GetCardinality()
}

// Match returns the triples matching p. The sequence is lazy and
// restartable: every range over it re-plans against the current graph
// state. An unsatisfiable pattern yields nothing.
func (g *Graph) Match(p Pattern) iter.Seq[Triple] {
	return func(yield func(Triple) bool) {
		p := p.adopt(g.in)
		plan := g.plan(p)
		switch plan.kind {
		case IndexNone:
			return
		case IndexSPO:
			t := Triple{S: p.S, P: p.P, O: p.O}
			if _, ok := g.ids[t]; ok {
				yield(t)
			}
			return
		}
		if plan.ids == nil {
			return
		}
		it := plan.ids.Iterator()
		for it.HasNext() {
			t := g.triples[it.Next()]
			if !p.Matches(t) {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// Count returns the number of triples matching p.
func (g *Graph) Count(p Pattern) int {
	p = p.adopt(g.in)
	plan := g.plan(p)
	switch plan.kind {
	case IndexNone:
		return 0
	case IndexScan, IndexS, IndexP, IndexO, IndexSP, IndexPO, IndexSO:
		if plan.exact(p) {
			return int(plan.cardinality())
		}
	}
	n := 0
	for range g.Match(p) {
		n++
	}
	return n
}

// exact reports whether every id of the plan satisfies p without filtering.
func (q queryPlan) exact(p Pattern) bool {
	s, pr, o := p.Bound()
	switch q.kind {
	case IndexScan:
		return !s && !pr && !o
	case IndexS:
		return s && !pr && !o
	case IndexP:
		return !s && pr && !o
	case IndexO:
		return !s && !pr && o
	case IndexSP:
		return s && pr && !o
	case IndexPO:
		return !s && pr && o
	case IndexSO:
		return s && !pr && o
	}
	return false
}

// Explain reports which access path Match would use for p right now.
func (g *Graph) Explain(p Pattern) IndexKind {
	return g.plan(p.adopt(g.in)).kind
}

// plan picks the smallest candidate posting list for the bound slots.
// Candidates are listed in tie-break order: predicate based paths first,
// since predicates usually have the fewest distinct values, then subject,
// then object. Residual bound slots are filtered during iteration.
func (g *Graph) plan(p Pattern) queryPlan {
	s, pr, o := p.Bound()
	switch {
	case !s && !pr && !o:
		return queryPlan{kind: IndexScan, ids: g.index.all}
	case s && pr && o:
		return queryPlan{kind: IndexSPO}
	}

	var candidates []queryPlan
	if pr && o {
		candidates = append(candidates, queryPlan{kind: IndexPO, ids: g.index.byPO[poKey{p.P, p.O}]})
	}
	if s && pr {
		candidates = append(candidates, queryPlan{kind: IndexSP, ids: g.index.bySP[spKey{p.S, p.P}]})
	}
	if pr {
		candidates = append(candidates, queryPlan{kind: IndexP, ids: g.index.byPredicate[p.P]})
	}
	if s {
		candidates = append(candidates, queryPlan{kind: IndexS, ids: g.index.bySubject[p.S]})
	}
	if o {
		candidates = append(candidates, queryPlan{kind: IndexO, ids: g.index.byObject[p.O]})
	}

	best := candidates[0]
	for _, c := range candidates {
		// A missing posting list proves the pattern unsatisfiable.
		if c.ids == nil {
			return queryPlan{kind: IndexNone}
		}
		if c.cardinality() < best.cardinality() {
			best = c
		}
	}

	if s && o && !pr {
		subjects := g.index.bySubject[p.S]
		objects := g.index.byObject[p.O]
		joined := roaring.And(subjects, objects)
		if joined.GetCardinality() < best.cardinality() {
			if joined.IsEmpty() {
				return queryPlan{kind: IndexNone}
			}
			return queryPlan{kind: IndexSO, ids: joined}
		}
	}
	return best
}
