// Package graph builds an immutable co-occurrence graph of actors linked by shared
// events and answers unweighted distance and shortest-path queries over it.
//
// # Model
//
// A Graph is built once from a set of Records, each asserting that two actors shared one
// event. Three views are kept:
//   - adjacency: actor to the actors it shared an event with. Every actor is also a
//     member of its own neighbor set. Searches rely on this so that the source of a
//     traversal never needs special-casing; ActedTogether and Neighbors exclude self.
//   - links: actor to the (event, other actor) pairs explaining each adjacency. Every
//     record inserts one pair on each side, so links are symmetric.
//   - participants: event to every actor named in a record for that event.
//
// # Determinism
//
// Whenever a search has to pick one element out of several candidates (a predecessor
// while backtracking, a goal actor, a connecting event, a bridge source) it picks the
// smallest by the cmp.Ordered order of the identifier type. Repeated queries against
// the same graph return identical results.
//
// # Thread Safety
//
// A built Graph is never mutated. Any number of goroutines may query it concurrently.
// Builder is not safe for concurrent use.
package graph

import "errors"

// Sentinel errors for graph queries. "No path exists" is not an error; searches report
// it through their found return value.
var (
	// ErrUnknownActor is returned when a query names an actor absent from the graph.
	ErrUnknownActor = errors.New("unknown actor")

	// ErrInvalidArgument is returned for malformed arguments such as a negative distance
	// or a nil goal predicate.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidPath is returned by EventPath when two consecutive actors of the supplied
	// path never shared an event.
	ErrInvalidPath = errors.New("invalid path")
)
