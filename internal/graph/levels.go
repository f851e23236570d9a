package graph

import (
	"cmp"
	"fmt"
	"slices"
)

// Traversal is an incremental breadth-first expansion from one or more sources.
//
// Level 0 holds the sources; level i holds the actors at exact distance i from the
// nearest source. Levels are computed lazily and kept, so asking for level 5 after
// level 4 costs one expansion. A Traversal belongs to a single query and is not safe
// for concurrent use.
type Traversal[A, E cmp.Ordered] struct {
	g       *Graph[A, E]
	visited set[A]
	levels  [][]A // each level sorted ascending
	members []set[A]
	done    bool
}

// Traverse starts a traversal seeded with sources. Duplicate sources are merged.
func (g *Graph[A, E]) Traverse(sources ...A) *Traversal[A, E] {
	t := &Traversal[A, E]{
		g:       g,
		visited: make(set[A], len(sources)),
	}
	seeds := make(set[A], len(sources))
	for _, s := range sources {
		seeds.add(s)
		t.visited.add(s)
	}
	if len(seeds) == 0 {
		t.done = true
		return t
	}
	t.levels = append(t.levels, sortedKeys(seeds))
	t.members = append(t.members, seeds)
	return t
}

// Next computes one more level. It returns false once no unvisited actor is reachable;
// the empty level is not recorded.
func (t *Traversal[A, E]) Next() bool {
	if t.done {
		return false
	}
	// Each recorded level is non-empty and disjoint from the others, so the node count
	// bounds the number of levels.
	if len(t.levels) > t.g.NumActors() {
		t.done = true
		return false
	}

	frontier := t.levels[len(t.levels)-1]
	next := t.g.expand(frontier, t.visited)
	if len(next) == 0 {
		t.done = true
		return false
	}
	for a := range next {
		t.visited.add(a)
	}
	t.levels = append(t.levels, sortedKeys(next))
	t.members = append(t.members, next)
	return true
}

// has expands until level i exists and reports whether it does.
func (t *Traversal[A, E]) has(i int) bool {
	if i < 0 {
		return false
	}
	for len(t.levels) <= i {
		if !t.Next() {
			return false
		}
	}
	return true
}

// Level returns the actors at exact distance i, ascending. Levels beyond the
// reachable depth are empty.
func (t *Traversal[A, E]) Level(i int) []A {
	if !t.has(i) {
		return []A{}
	}
	return slices.Clone(t.levels[i])
}

// Contains reports whether a sits at exact distance i.
func (t *Traversal[A, E]) Contains(i int, a A) bool {
	if !t.has(i) {
		return false
	}
	return t.members[i].has(a)
}

// Depth returns the number of levels computed so far.
func (t *Traversal[A, E]) Depth() int {
	return len(t.levels)
}

// Exhausted reports whether every reachable level has been computed.
func (t *Traversal[A, E]) Exhausted() bool {
	return t.done
}

// backtrack rebuilds a path ending at target, which must sit on level d. At every step
// the smallest adjacent actor of the previous level is chosen.
func (t *Traversal[A, E]) backtrack(target A, d int) []A {
	path := make([]A, d+1)
	path[d] = target
	cur := target
	for i := d - 1; i >= 0; i-- {
		cur = t.smallestPredecessor(cur, i)
		path[i] = cur
	}
	return path
}

func (t *Traversal[A, E]) smallestPredecessor(a A, level int) A {
	adj := t.g.adjacency[a]
	members := t.members[level]

	var best A
	found := false
	consider := func(c A) {
		if !found || c < best {
			best = c
			found = true
		}
	}
	if len(adj) <= len(members) {
		for c := range adj {
			if members.has(c) {
				consider(c)
			}
		}
	} else {
		for c := range members {
			if adj.has(c) {
				consider(c)
			}
		}
	}
	return best
}

// LevelSet returns the actors at exact distance n from source, ascending.
func (g *Graph[A, E]) LevelSet(source A, n int) ([]A, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: distance %d is negative", ErrInvalidArgument, n)
	}
	if !g.HasActor(source) {
		return nil, fmt.Errorf("%w: %v", ErrUnknownActor, source)
	}
	if n > g.NumActors() {
		return []A{}, nil
	}
	return g.Traverse(source).Level(n), nil
}

// LevelSizes returns the size of every non-empty level from source. Index i holds the
// number of actors at distance i.
func (g *Graph[A, E]) LevelSizes(source A) ([]int, error) {
	if !g.HasActor(source) {
		return nil, fmt.Errorf("%w: %v", ErrUnknownActor, source)
	}
	t := g.Traverse(source)
	for t.Next() {
	}
	sizes := make([]int, t.Depth())
	for i, level := range t.levels {
		sizes[i] = len(level)
	}
	return sizes, nil
}
