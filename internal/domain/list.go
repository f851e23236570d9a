package domain

import "time"

// ActorSummary is the lightweight actor view used by level and neighbor listings.
type ActorSummary struct {
	ID   ActorID `json:"id"`
	Name string  `json:"name,omitempty"`
}

// LevelResult lists the actors at an exact distance from a reference actor.
type LevelResult struct {
	Source   ActorID        `json:"source"`
	Distance int            `json:"distance"`
	Actors   []ActorSummary `json:"actors"`
	Total    int            `json:"total"`
}

// GraphSummary describes the currently loaded graph.
type GraphSummary struct {
	Actors      int       `json:"actors"`
	Films       int       `json:"films"`
	Edges       int       `json:"edges"`
	MaxDegree   int       `json:"maxDegree"`
	Credits     int       `json:"credits"`
	NamedActors int       `json:"namedActors"`
	NamedFilms  int       `json:"namedFilms"`
	Source      string    `json:"source"`
	LoadedAt    time.Time `json:"loadedAt"`
}
