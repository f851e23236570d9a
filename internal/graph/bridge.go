package graph

// ConnectPath returns the shortest actor path starting at any participant of event1 and
// ending at any participant of event2.
//
// The result equals running ShortestPathToGoal from every participant of event1 and
// keeping the shortest path, ties going to the smallest starting actor. It is computed
// with three traversals instead of one per participant:
//
//  1. a traversal seeded with all of event1 finds the bridge length d;
//  2. a traversal seeded with all of event2, expanded to level d, marks which event1
//     participants sit exactly d away; the smallest of them starts the path;
//  3. a goal search from that actor rebuilds the path.
//
// An actor appearing in both events yields a single-actor path. found is false when
// either event is unknown or no participant of event2 is reachable.
func (g *Graph[A, E]) ConnectPath(event1, event2 E) (path []A, found bool, err error) {
	from, ok1 := g.participants[event1]
	to, ok2 := g.participants[event2]
	if !ok1 || !ok2 || len(from) == 0 || len(to) == 0 {
		return nil, false, nil
	}
	inEvent1 := func(a A) bool { return from.has(a) }
	inEvent2 := func(a A) bool { return to.has(a) }

	forward := g.Traverse(sortedKeys(from)...)
	d, _, ok := forward.firstMatch(inEvent2)
	if !ok {
		return nil, false, nil
	}

	// Distances are symmetric, so event1 participants on level d of the reverse
	// traversal are exactly those whose nearest event2 participant is d away.
	backward := g.Traverse(sortedKeys(to)...)
	if !backward.has(d) {
		return nil, false, nil
	}
	var start A
	startFound := false
	for _, a := range backward.levels[d] {
		if inEvent1(a) {
			start = a
			startFound = true
			break
		}
	}
	if !startFound {
		return nil, false, nil
	}

	return g.ShortestPathToGoal(start, inEvent2)
}
