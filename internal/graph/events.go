package graph

import "fmt"

// EventPath maps an actor path to the events linking each consecutive pair. The result
// has len(path)-1 entries. Where a pair shared several events the smallest is used.
func (g *Graph[A, E]) EventPath(path []A) ([]E, error) {
	for _, a := range path {
		if !g.HasActor(a) {
			return nil, fmt.Errorf("%w: %v", ErrUnknownActor, a)
		}
	}
	if len(path) < 2 {
		return []E{}, nil
	}

	events := make([]E, 0, len(path)-1)
	for i := 0; i+1 < len(path); i++ {
		a, b := path[i], path[i+1]
		e, ok := g.connectingEvent(a, b)
		if !ok {
			return nil, fmt.Errorf("%w: %v and %v share no event", ErrInvalidPath, a, b)
		}
		events = append(events, e)
	}
	return events, nil
}

func (g *Graph[A, E]) connectingEvent(a, b A) (E, bool) {
	var best E
	found := false
	for l := range g.links[a] {
		if l.Actor != b {
			continue
		}
		if !found || l.Event < best {
			best = l.Event
			found = true
		}
	}
	return best, found
}
