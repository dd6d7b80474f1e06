package rdf

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// postings maps an index key to the ids of the triples containing it.
// Empty lists are dropped so the map never pins terms no triple uses.
type postings[K comparable] map[K]*roaring.Bitmap

func (p postings[K]) add(k K, id uint32) {
	bm, ok := p[k]
	if !ok {
		bm = roaring.New()
		p[k] = bm
	}
	bm.Add(id)
}

func (p postings[K]) remove(k K, id uint32) {
	bm, ok := p[k]
	if !ok {
		return
	}
	bm.Remove(id)
	if bm.IsEmpty() {
		delete(p, k)
	}
}

type spKey struct {
	s Term
	p *IRI
}

type poKey struct {
	p *IRI
	o Term
}

// IndexKind names the access path the matcher picked for a pattern.
type IndexKind uint8

const (
	// IndexNone means a bound term is absent from the graph, so nothing can match.
	IndexNone IndexKind = iota
	// IndexScan enumerates every triple.
	IndexScan
	// IndexSPO is a direct membership check for a fully bound pattern.
	IndexSPO
	// IndexS uses the subject index.
	IndexS
	// IndexP uses the predicate index.
	IndexP
	// IndexO uses the object index.
	IndexO
	// IndexSP uses the subject+predicate index.
	IndexSP
	// IndexPO uses the predicate+object index.
	IndexPO
	// IndexSO intersects the subject and object indexes.
	IndexSO
)

func (k IndexKind) String() string {
	switch k {
	case IndexNone:
		return "none"
	case IndexScan:
		return "scan"
	case IndexSPO:
		return "spo"
	case IndexS:
		return "s"
	case IndexP:
		return "p"
	case IndexO:
		return "o"
	case IndexSP:
		return "sp"
	case IndexPO:
		return "po"
	case IndexSO:
		return "so"
	default:
		return "unknown"
	}
}

// tripleIndex holds the derived access paths of a Graph.
type tripleIndex struct {
	all         *roaring.Bitmap
	bySubject   postings[Term]
	byPredicate postings[*IRI]
	byObject    postings[Term]
	bySP        postings[spKey]
	byPO        postings[poKey]
}

func newTripleIndex() tripleIndex {
	return tripleIndex{
		all:         roaring.New(),
		bySubject:   make(postings[Term]),
		byPredicate: make(postings[*IRI]),
		byObject:    make(postings[Term]),
		bySP:        make(postings[spKey]),
		byPO:        make(postings[poKey]),
	}
}

func (x *tripleIndex) add(t Triple, id uint32) {
	x.all.Add(id)
	x.bySubject.add(t.S, id)
	x.byPredicate.add(t.P, id)
	x.byObject.add(t.O, id)
	x.bySP.add(spKey{t.S, t.P}, id)
	x.byPO.add(poKey{t.P, t.O}, id)
}

func (x *tripleIndex) remove(t Triple, id uint32) {
	x.all.Remove(id)
	x.bySubject.remove(t.S, id)
	x.byPredicate.remove(t.P, id)
	x.byObject.remove(t.O, id)
	x.bySP.remove(spKey{t.S, t.P}, id)
	x.byPO.remove(poKey{t.P, t.O}, id)
}
