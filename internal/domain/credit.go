package domain

// Credit records that two actors appeared together in a film. A film with a larger
// cast is described by several credits.
type Credit struct {
	ActorA ActorID `json:"actorA" msgpack:"a" yaml:"actor_a"`
	ActorB ActorID `json:"actorB" msgpack:"b" yaml:"actor_b"`
	Film   FilmID  `json:"film" msgpack:"f" yaml:"film"`
}

// Dataset bundles credits with the name tables describing them.
type Dataset struct {
	Credits []Credit `json:"credits" msgpack:"credits" yaml:"credits"`
	Actors  []Actor  `json:"actors,omitempty" msgpack:"actors,omitempty" yaml:"actors,omitempty"`
	Films   []Film   `json:"films,omitempty" msgpack:"films,omitempty" yaml:"films,omitempty"`
}
