package domain

// PathNode represents an actor within a path.
type PathNode struct {
	ID    ActorID `json:"id"`
	Type  string  `json:"type"`
	Label string  `json:"label"`
}

// PathEdge represents the film linking two consecutive actors of a path.
type PathEdge struct {
	Type   string  `json:"type"`
	Source ActorID `json:"source"`
	Target ActorID `json:"target"`
	FilmID FilmID  `json:"filmId"`
	Label  string  `json:"label"`
}

// ActorPath encapsulates the actors and films connecting two endpoints.
// Found is false when no path exists; Nodes and Edges are then empty.
type ActorPath struct {
	Source ActorID    `json:"source"`
	Target ActorID    `json:"target"`
	Nodes  []PathNode `json:"nodes"`
	Edges  []PathEdge `json:"edges"`
	Hops   int        `json:"hops"`
	Found  bool       `json:"found"`
}

// BridgePath is the shortest actor chain linking two films.
type BridgePath struct {
	FromFilm FilmID    `json:"fromFilm"`
	ToFilm   FilmID    `json:"toFilm"`
	Path     ActorPath `json:"path"`
}

// Node and edge type labels.
const (
	NodeTypeActor   = "Actor"
	EdgeTypeActedIn = "ACTED_WITH"
)

// FilmPath lists the films walked along the shortest path between two actors.
type FilmPath struct {
	Source ActorID `json:"source"`
	Target ActorID `json:"target"`
	Films  []Film  `json:"films"`
	Found  bool    `json:"found"`
}

// DistanceHistogram counts actors per distance from a reference actor. Counts[0] is 1.
type DistanceHistogram struct {
	Source    ActorID `json:"source"`
	Counts    []int   `json:"counts"`
	Reachable int     `json:"reachable"`
}
