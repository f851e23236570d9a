package graph

import (
	"cmp"
	"maps"
	"runtime"
	"slices"
)

// Parallel expansion defaults.
const (
	// defaultParallelThreshold is the minimum frontier size expanded concurrently.
	// Smaller frontiers are expanded sequentially.
	defaultParallelThreshold = 32

	// maxParallelWorkers caps the number of goroutines per expansion regardless of CPU count.
	maxParallelWorkers = 8
)

// Record asserts that two actors shared one event.
type Record[A, E cmp.Ordered] struct {
	ActorA A
	ActorB A
	Event  E
}

// Link explains an adjacency: the neighbor Actor was met through Event.
type Link[A, E cmp.Ordered] struct {
	Event E
	Actor A
}

// Stats summarises the size of a graph.
type Stats struct {
	Actors    int
	Events    int
	Edges     int // unordered actor pairs, self excluded
	MaxDegree int
}

type set[T comparable] map[T]struct{}

func (s set[T]) add(v T) {
	s[v] = struct{}{}
}

func (s set[T]) has(v T) bool {
	_, ok := s[v]
	return ok
}

func sortedKeys[T cmp.Ordered](s set[T]) []T {
	return slices.Sorted(maps.Keys(s))
}

// Graph is the immutable co-occurrence graph produced by a Builder.
type Graph[A, E cmp.Ordered] struct {
	adjacency    map[A]set[A]
	links        map[A]set[Link[A, E]]
	participants map[E]set[A]
	opts         options
}

// Option configures how searches over a built graph expand their frontiers.
type Option func(*options)

type options struct {
	workers           int
	parallelThreshold int
}

func defaultOptions() options {
	return options{
		workers:           min(runtime.NumCPU(), maxParallelWorkers),
		parallelThreshold: defaultParallelThreshold,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithParallelism sets the number of goroutines used to expand wide frontiers.
// Values below 2 disable parallel expansion.
func WithParallelism(workers int) Option {
	return func(o *options) {
		if workers < 1 {
			workers = 1
		}
		o.workers = workers
	}
}

// WithParallelThreshold sets the frontier size above which expansion runs in parallel.
func WithParallelThreshold(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.parallelThreshold = n
		}
	}
}

// NumActors returns the number of distinct actors in the graph.
func (g *Graph[A, E]) NumActors() int {
	return len(g.adjacency)
}

// NumEvents returns the number of distinct events in the graph.
func (g *Graph[A, E]) NumEvents() int {
	return len(g.participants)
}

// HasActor reports whether the actor appears in any record.
func (g *Graph[A, E]) HasActor(a A) bool {
	_, ok := g.adjacency[a]
	return ok
}

// HasEvent reports whether the event appears in any record.
func (g *Graph[A, E]) HasEvent(e E) bool {
	_, ok := g.participants[e]
	return ok
}

// Actors returns every actor in ascending order.
func (g *Graph[A, E]) Actors() []A {
	return slices.Sorted(maps.Keys(g.adjacency))
}

// Events returns every event in ascending order.
func (g *Graph[A, E]) Events() []E {
	return slices.Sorted(maps.Keys(g.participants))
}

// Adjacent returns the adjacency set of a, self included, in ascending order.
// Unknown actors yield nil.
func (g *Graph[A, E]) Adjacent(a A) []A {
	adj, ok := g.adjacency[a]
	if !ok {
		return nil
	}
	return sortedKeys(adj)
}

// Neighbors returns the actors a shared an event with, self excluded, in ascending order.
func (g *Graph[A, E]) Neighbors(a A) []A {
	adj, ok := g.adjacency[a]
	if !ok {
		return nil
	}
	out := make([]A, 0, len(adj))
	for b := range adj {
		if b != a {
			out = append(out, b)
		}
	}
	slices.Sort(out)
	return out
}

// Degree returns the number of distinct co-actors of a.
func (g *Graph[A, E]) Degree(a A) int {
	adj := g.adjacency[a]
	if adj.has(a) {
		return len(adj) - 1
	}
	return len(adj)
}

// Links returns the (event, co-actor) pairs recorded for a, ordered by event then actor.
func (g *Graph[A, E]) Links(a A) []Link[A, E] {
	ls, ok := g.links[a]
	if !ok {
		return nil
	}
	out := make([]Link[A, E], 0, len(ls))
	for l := range ls {
		out = append(out, l)
	}
	slices.SortFunc(out, func(x, y Link[A, E]) int {
		if c := cmp.Compare(x.Event, y.Event); c != 0 {
			return c
		}
		return cmp.Compare(x.Actor, y.Actor)
	})
	return out
}

// Participants returns every actor appearing in event e, in ascending order.
func (g *Graph[A, E]) Participants(e E) []A {
	ps, ok := g.participants[e]
	if !ok {
		return nil
	}
	return sortedKeys(ps)
}

// ActedTogether reports whether two distinct actors shared at least one event.
func (g *Graph[A, E]) ActedTogether(a, b A) bool {
	if a == b {
		return false
	}
	return g.adjacency[a].has(b)
}

// Stats computes size figures for the graph.
func (g *Graph[A, E]) Stats() Stats {
	st := Stats{
		Actors: len(g.adjacency),
		Events: len(g.participants),
	}
	degrees := 0
	for a := range g.adjacency {
		d := g.Degree(a)
		degrees += d
		st.MaxDegree = max(st.MaxDegree, d)
	}
	st.Edges = degrees / 2
	return st
}
