package graph

import "cmp"

// Builder accumulates records into a Graph in a single pass.
//
// Every record is applied with unconditional set insertions, so the result does not
// depend on record order and duplicate records have no effect.
type Builder[A, E cmp.Ordered] struct {
	g       *Graph[A, E]
	records int
}

// NewBuilder returns an empty Builder. Options are carried into the built Graph.
func NewBuilder[A, E cmp.Ordered](opts ...Option) *Builder[A, E] {
	return &Builder[A, E]{g: newGraph[A, E](applyOptions(opts))}
}

func newGraph[A, E cmp.Ordered](o options) *Graph[A, E] {
	return &Graph[A, E]{
		adjacency:    make(map[A]set[A]),
		links:        make(map[A]set[Link[A, E]]),
		participants: make(map[E]set[A]),
		opts:         o,
	}
}

// Add applies one record.
func (b *Builder[A, E]) Add(r Record[A, E]) {
	g := b.g
	b.records++

	adjA := ensure(g.adjacency, r.ActorA)
	adjB := ensure(g.adjacency, r.ActorB)
	adjA.add(r.ActorA)
	adjA.add(r.ActorB)
	adjB.add(r.ActorB)
	adjB.add(r.ActorA)

	ensure(g.links, r.ActorA).add(Link[A, E]{Event: r.Event, Actor: r.ActorB})
	ensure(g.links, r.ActorB).add(Link[A, E]{Event: r.Event, Actor: r.ActorA})

	members := ensure(g.participants, r.Event)
	members.add(r.ActorA)
	members.add(r.ActorB)
}

// AddAll applies records in order.
func (b *Builder[A, E]) AddAll(records []Record[A, E]) {
	for _, r := range records {
		b.Add(r)
	}
}

// Len returns the number of records applied since the last Build.
func (b *Builder[A, E]) Len() int {
	return b.records
}

// Build returns the accumulated Graph and resets the builder. Records added afterwards
// go into a fresh graph and never reach one already returned.
func (b *Builder[A, E]) Build() *Graph[A, E] {
	g := b.g
	b.g = newGraph[A, E](g.opts)
	b.records = 0
	return g
}

// Build constructs a Graph from records.
func Build[A, E cmp.Ordered](records []Record[A, E], opts ...Option) *Graph[A, E] {
	b := NewBuilder[A, E](opts...)
	b.AddAll(records)
	return b.Build()
}

func ensure[K comparable, V comparable](m map[K]set[V], k K) set[V] {
	s, ok := m[k]
	if !ok {
		s = make(set[V])
		m[k] = s
	}
	return s
}
