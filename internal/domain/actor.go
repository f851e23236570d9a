package domain

import (
	"strings"
)

// ActorID identifies a performer.
type ActorID int64

// FilmID identifies a film; every credit is attached to one.
type FilmID int64

// Actor is a named performer node.
type Actor struct {
	ID   ActorID `json:"id" msgpack:"id" yaml:"id"`
	Name string  `json:"name" msgpack:"name" yaml:"name"`
}

// Film is a named film node.
type Film struct {
	ID    FilmID `json:"id" msgpack:"id" yaml:"id"`
	Title string `json:"title" msgpack:"title" yaml:"title"`
}

// Directory resolves ids to display names and names back to ids.
//
// A Directory is built once and only read afterwards. Missing entries are not errors:
// callers fall back to the numeric id.
type Directory struct {
	actorNames map[ActorID]string
	filmTitles map[FilmID]string
	actorIDs   map[string]ActorID
	filmIDs    map[string]FilmID
}

// NewDirectory indexes the provided actors and films. Later duplicates of a name win.
func NewDirectory(actors []Actor, films []Film) *Directory {
	d := &Directory{
		actorNames: make(map[ActorID]string, len(actors)),
		filmTitles: make(map[FilmID]string, len(films)),
		actorIDs:   make(map[string]ActorID, len(actors)),
		filmIDs:    make(map[string]FilmID, len(films)),
	}
	for _, a := range actors {
		d.actorNames[a.ID] = a.Name
		d.actorIDs[normalizeName(a.Name)] = a.ID
	}
	for _, f := range films {
		d.filmTitles[f.ID] = f.Title
		d.filmIDs[normalizeName(f.Title)] = f.ID
	}
	return d
}

// ActorName returns the display name for id, or "" when unknown.
func (d *Directory) ActorName(id ActorID) string {
	if d == nil {
		return ""
	}
	return d.actorNames[id]
}

// FilmTitle returns the title for id, or "" when unknown.
func (d *Directory) FilmTitle(id FilmID) string {
	if d == nil {
		return ""
	}
	return d.filmTitles[id]
}

// ActorByName resolves a name case-insensitively.
func (d *Directory) ActorByName(name string) (ActorID, bool) {
	if d == nil {
		return 0, false
	}
	id, ok := d.actorIDs[normalizeName(name)]
	return id, ok
}

// FilmByTitle resolves a title case-insensitively.
func (d *Directory) FilmByTitle(title string) (FilmID, bool) {
	if d == nil {
		return 0, false
	}
	id, ok := d.filmIDs[normalizeName(title)]
	return id, ok
}

// Len returns the number of named actors and films.
func (d *Directory) Len() (actors, films int) {
	if d == nil {
		return 0, 0
	}
	return len(d.actorNames), len(d.filmTitles)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
