package rdf

import (
	"runtime"
	"strings"
	"sync"
	"weak"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

const internShards = 64

// Interner hash-conses RDF terms. Structurally equal raw values map to one
// shared *IRI, *BlankNode or *Literal for as long as anything else holds
// that term.
//
// The interner only keeps weak references. Once the last triple, index
// entry or caller drops a term it is collected, and a later request for
// the same value builds a fresh term. Interner methods are safe for
// concurrent use.
type Interner struct {
	iris     internTable[string, IRI]
	blanks   internTable[string, BlankNode]
	literals internTable[literalKey, Literal]
}

type literalKey struct {
	lexical  string
	datatype string
	lang     string
}

func hashLiteralKey(k literalKey) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(k.lexical)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(k.datatype)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(k.lang)
	return d.Sum64()
}

var defaultInterner = NewInterner()

// DefaultInterner returns the process-wide interner used by the package
// level constructors, decoders and graphs unless told otherwise.
func DefaultInterner() *Interner { return defaultInterner }

// NewInterner creates an isolated interner. Terms from different
// interners are never identical, so graphs adopt foreign terms on insert.
func NewInterner() *Interner {
	in := &Interner{}
	in.iris.hash = xxhash.Sum64String
	in.blanks.hash = xxhash.Sum64String
	in.literals.hash = hashLiteralKey
	return in
}

// IRI returns the interned IRI for value, validating it on first use.
func (in *Interner) IRI(value string) (*IRI, error) {
	if iri := in.iris.lookup(value); iri != nil {
		return iri, nil
	}
	if err := ValidateIRI(value); err != nil {
		return nil, &TermError{Kind: InvalidIRI, Value: value, Err: err}
	}
	return in.iri(value), nil
}

func (in *Interner) iri(value string) *IRI {
	return in.iris.get(value, func() *IRI {
		return &IRI{value: value, in: in}
	})
}

// BlankNode returns the interned blank node with the given label.
func (in *Interner) BlankNode(label string) (*BlankNode, error) {
	if b := in.blanks.lookup(label); b != nil {
		return b, nil
	}
	if err := validateBlankNodeLabel(label); err != nil {
		return nil, &TermError{Kind: InvalidBlankNode, Value: label, Err: err}
	}
	return in.blankNode(label), nil
}

func (in *Interner) blankNode(label string) *BlankNode {
	return in.blanks.get(label, func() *BlankNode {
		return &BlankNode{id: label, in: in}
	})
}

// FreshBlankNode returns a blank node with a new, globally unique label.
func (in *Interner) FreshBlankNode() *BlankNode {
	return in.blankNode(freshLabel())
}

func freshLabel() string {
	return "b" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Literal returns the interned literal for a lexical form, datatype IRI and
// language tag. An empty datatype defaults to xsd:string, or to
// rdf:langString when lang is set. The language tag is compared and stored
// in lowercase.
func (in *Interner) Literal(lexical, datatype, lang string) (*Literal, error) {
	if datatype == "" {
		datatype = XSDString
		if lang != "" {
			datatype = RDFLangString
		}
	}
	if lang != "" && datatype != RDFLangString {
		return nil, &TermError{Kind: LiteralLanguageMismatch, Value: lang}
	}
	if lang == "" && datatype == RDFLangString {
		return nil, &TermError{Kind: LiteralLanguageMismatch, Value: lexical}
	}

	key := literalKey{lexical: lexical, datatype: datatype, lang: canonicalLanguageTag(lang)}
	if lit := in.literals.lookup(key); lit != nil {
		return lit, nil
	}
	if lang != "" {
		if err := validateLanguageTag(lang); err != nil {
			return nil, &TermError{Kind: InvalidLanguageTag, Value: lang, Err: err}
		}
	}
	dt, err := in.IRI(datatype)
	if err != nil {
		return nil, err
	}
	return in.literal(key, dt), nil
}

func (in *Interner) literal(key literalKey, dt *IRI) *Literal {
	return in.literals.get(key, func() *Literal {
		return &Literal{lexical: key.lexical, datatype: dt, lang: key.lang, in: in}
	})
}

// TypedLiteral returns the interned literal with an already interned datatype.
func (in *Interner) TypedLiteral(lexical string, datatype *IRI) (*Literal, error) {
	if datatype == nil {
		return in.Literal(lexical, "", "")
	}
	return in.Literal(lexical, datatype.value, "")
}

// LangLiteral returns the interned rdf:langString literal.
func (in *Interner) LangLiteral(lexical, lang string) (*Literal, error) {
	if lang == "" {
		return nil, &TermError{Kind: LiteralLanguageMismatch, Value: lexical}
	}
	return in.Literal(lexical, RDFLangString, lang)
}

// Adopt returns the term from this interner that is equal to t. Terms that
// already belong to in are returned unchanged. A nil term stays nil.
func (in *Interner) Adopt(t Term) Term {
	if isNilTerm(t) {
		return nil
	}
	if t.owner() == in {
		return t
	}
	switch v := t.(type) {
	case *IRI:
		return in.iri(v.value)
	case *BlankNode:
		return in.blankNode(v.id)
	case *Literal:
		dt := in.iri(v.datatype.value)
		return in.literal(literalKey{lexical: v.lexical, datatype: dt.value, lang: v.lang}, dt)
	default:
		return t
	}
}

// Len returns the number of interned terms that are still alive.
func (in *Interner) Len() int {
	return in.iris.live() + in.blanks.live() + in.literals.live()
}

// internTable is a sharded map from a structural key to a weak pointer.
type internTable[K comparable, T any] struct {
	shards [internShards]internShard[K, T]
	hash   func(K) uint64
}

type internShard[K comparable, T any] struct {
	mu sync.Mutex
	m  map[K]weak.Pointer[T]
}

// staleSlot identifies the table entry a collected term was stored in.
type staleSlot[K comparable, T any] struct {
	key K
	wp  weak.Pointer[T]
}

func (t *internTable[K, T]) shard(k K) *internShard[K, T] {
	return &t.shards[t.hash(k)%internShards]
}

// lookup returns the live value for k or nil.
func (t *internTable[K, T]) lookup(k K) *T {
	s := t.shard(k)
	s.mu.Lock()
	defer s.mu.Unlock()
	if wp, ok := s.m[k]; ok {
		return wp.Value()
	}
	return nil
}

// get returns the live value for k, building and registering a new one when
// the slot is empty or its previous value was collected. Upgrading the weak
// pointer and replacing the slot happen under the shard lock, so a caller
// never sees a value that is being reclaimed.
func (t *internTable[K, T]) get(k K, build func() *T) *T {
	s := t.shard(k)
	s.mu.Lock()
	defer s.mu.Unlock()
	if wp, ok := s.m[k]; ok {
		if v := wp.Value(); v != nil {
			return v
		}
	}
	if s.m == nil {
		s.m = make(map[K]weak.Pointer[T])
	}
	v := build()
	wp := weak.Make(v)
	s.m[k] = wp
	runtime.AddCleanup(v, t.evict, staleSlot[K, T]{key: k, wp: wp})
	return v
}

// evict drops the slot for a collected value unless it was already
// replaced by a fresh one.
func (t *internTable[K, T]) evict(slot staleSlot[K, T]) {
	s := t.shard(slot.key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.m[slot.key]; ok && cur == slot.wp {
		delete(s.m, slot.key)
	}
}

func (t *internTable[K, T]) live() int {
	n := 0
	for i := range t.shards {
		s := &t.shards[i]
		s.mu.Lock()
		for _, wp := range s.m {
			if wp.Value() != nil {
				n++
			}
		}
		s.mu.Unlock()
	}
	return n
}

func (t *internTable[K, T]) slots() int {
	n := 0
	for i := range t.shards {
		s := &t.shards[i]
		s.mu.Lock()
		n += len(s.m)
		s.mu.Unlock()
	}
	return n
}

// Package level constructors over the default interner.

// NewIRI returns the interned IRI for value.
func NewIRI(value string) (*IRI, error) { return defaultInterner.IRI(value) }

// MustIRI is like NewIRI but panics on invalid input. Intended for
// vocabulary constants.
func MustIRI(value string) *IRI {
	iri, err := defaultInterner.IRI(value)
	if err != nil {
		panic(err)
	}
	return iri
}

// NewBlankNode returns the interned blank node with the given label.
func NewBlankNode(label string) (*BlankNode, error) { return defaultInterner.BlankNode(label) }

// NewLiteral returns the interned literal; see Interner.Literal.
func NewLiteral(lexical, datatype, lang string) (*Literal, error) {
	return defaultInterner.Literal(lexical, datatype, lang)
}

// NewTypedLiteral returns the interned literal with the given datatype.
func NewTypedLiteral(lexical string, datatype *IRI) (*Literal, error) {
	return defaultInterner.TypedLiteral(lexical, datatype)
}

// NewLangLiteral returns the interned language-tagged literal.
func NewLangLiteral(lexical, lang string) (*Literal, error) {
	return defaultInterner.LangLiteral(lexical, lang)
}

// MustLiteral is like NewLiteral but panics on invalid input.
func MustLiteral(lexical, datatype, lang string) *Literal {
	lit, err := defaultInterner.Literal(lexical, datatype, lang)
	if err != nil {
		panic(err)
	}
	return lit
}
