package graph

import (
	"golang.org/x/sync/errgroup"
)

// expand returns every actor adjacent to the frontier that is not yet visited.
//
// Wide frontiers are split into one chunk per worker. Workers only read the graph and
// the visited set, collect candidates in local sets, and the sets are merged after
// Wait. The merged result equals the sequential one.
func (g *Graph[A, E]) expand(frontier []A, visited set[A]) set[A] {
	workers := min(g.opts.workers, len(frontier))
	if workers < 2 || len(frontier) <= g.opts.parallelThreshold {
		return g.expandChunk(frontier, visited)
	}
	return g.expandParallel(frontier, visited, workers)
}

func (g *Graph[A, E]) expandChunk(chunk []A, visited set[A]) set[A] {
	next := make(set[A])
	for _, p := range chunk {
		for q := range g.adjacency[p] {
			if !visited.has(q) {
				next.add(q)
			}
		}
	}
	return next
}

func (g *Graph[A, E]) expandParallel(frontier []A, visited set[A], workers int) set[A] {
	local := make([]set[A], workers)
	size := (len(frontier) + workers - 1) / workers

	var eg errgroup.Group
	eg.SetLimit(workers)
	for w := 0; w < workers; w++ {
		lo := w * size
		if lo >= len(frontier) {
			break
		}
		hi := min(lo+size, len(frontier))
		eg.Go(func() error {
			local[w] = g.expandChunk(frontier[lo:hi], visited)
			return nil
		})
	}
	// Workers never fail; Wait is only a barrier here.
	_ = eg.Wait()

	next := make(set[A])
	for _, s := range local {
		for a := range s {
			next.add(a)
		}
	}
	return next
}
