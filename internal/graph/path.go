package graph

import (
	"fmt"
)

// ShortestPath returns a shortest actor path from source to target, both included.
//
// Levels are expanded from source until target appears on level d; the path is then
// rebuilt backwards choosing the smallest adjacent actor on each preceding level.
// found is false when target is unreachable. source == target yields [source].
func (g *Graph[A, E]) ShortestPath(source, target A) (path []A, found bool, err error) {
	if !g.HasActor(source) {
		return nil, false, fmt.Errorf("%w: source %v", ErrUnknownActor, source)
	}
	if !g.HasActor(target) {
		return nil, false, fmt.Errorf("%w: target %v", ErrUnknownActor, target)
	}
	if source == target {
		return []A{source}, true, nil
	}

	t := g.Traverse(source)
	for d := 1; t.has(d); d++ {
		if t.members[d].has(target) {
			return t.backtrack(target, d), true, nil
		}
	}
	return nil, false, nil
}

// ShortestPathToGoal returns a shortest path from source to the nearest actor accepted
// by goal. The source itself is tested first. When several actors on the nearest level
// qualify, the smallest is the destination.
func (g *Graph[A, E]) ShortestPathToGoal(source A, goal func(A) bool) (path []A, found bool, err error) {
	if goal == nil {
		return nil, false, fmt.Errorf("%w: goal predicate is nil", ErrInvalidArgument)
	}
	if !g.HasActor(source) {
		return nil, false, fmt.Errorf("%w: source %v", ErrUnknownActor, source)
	}

	t := g.Traverse(source)
	d, hit, ok := t.firstMatch(goal)
	if !ok {
		return nil, false, nil
	}
	return t.backtrack(hit, d), true, nil
}

// firstMatch expands level by level and returns the first level holding an actor
// accepted by goal, together with the smallest such actor.
func (t *Traversal[A, E]) firstMatch(goal func(A) bool) (level int, actor A, ok bool) {
	for d := 0; t.has(d); d++ {
		for _, a := range t.levels[d] {
			if goal(a) {
				return d, a, true
			}
		}
	}
	var zero A
	return -1, zero, false
}
