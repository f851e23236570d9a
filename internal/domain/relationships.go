package domain

// CostarLink represents one film shared by two actors.
type CostarLink struct {
	ActorID   ActorID `json:"actorId"`
	ActorName string  `json:"actorName,omitempty"`
	FilmID    FilmID  `json:"filmId"`
	FilmTitle string  `json:"filmTitle,omitempty"`
}

// ActorRelationships lists everyone an actor worked with and through which film.
type ActorRelationships struct {
	ActorID ActorID      `json:"actorId"`
	Name    string       `json:"name,omitempty"`
	Links   []CostarLink `json:"links"`
}

// FilmCast lists the participants of a film.
type FilmCast struct {
	FilmID FilmID         `json:"filmId"`
	Title  string         `json:"title,omitempty"`
	Cast   []ActorSummary `json:"cast"`
}
