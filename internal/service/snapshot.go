package service

import (
	"strconv"
	"time"

	"github.com/vanshika/costar/internal/domain"
	"github.com/vanshika/costar/internal/graph"
)

// snapshot is one immutable generation of the loaded data. Reloads replace it whole.
type snapshot struct {
	graph    *CostarGraph
	names    *domain.Directory
	credits  int
	source   string
	loadedAt time.Time
}

func buildSnapshot(ds domain.Dataset, source string, opts []graph.Option, loadedAt time.Time) *snapshot {
	b := graph.NewBuilder[domain.ActorID, domain.FilmID](opts...)
	for _, c := range ds.Credits {
		b.Add(graph.Record[domain.ActorID, domain.FilmID]{ActorA: c.ActorA, ActorB: c.ActorB, Event: c.Film})
	}
	return &snapshot{
		graph:    b.Build(),
		names:    domain.NewDirectory(ds.Actors, ds.Films),
		credits:  len(ds.Credits),
		source:   source,
		loadedAt: loadedAt,
	}
}

func (s *snapshot) actorLabel(id domain.ActorID) string {
	if name := s.names.ActorName(id); name != "" {
		return name
	}
	return strconv.FormatInt(int64(id), 10)
}

func (s *snapshot) filmLabel(id domain.FilmID) string {
	if title := s.names.FilmTitle(id); title != "" {
		return title
	}
	return strconv.FormatInt(int64(id), 10)
}

func (s *snapshot) summary(id domain.ActorID) domain.ActorSummary {
	return domain.ActorSummary{ID: id, Name: s.names.ActorName(id)}
}

func (s *snapshot) summaries(ids []domain.ActorID) []domain.ActorSummary {
	out := make([]domain.ActorSummary, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.summary(id))
	}
	return out
}

func (s *snapshot) film(id domain.FilmID) domain.Film {
	return domain.Film{ID: id, Title: s.names.FilmTitle(id)}
}

// actorPath annotates an actor id path with the films linking each hop.
func (s *snapshot) actorPath(source, target domain.ActorID, ids []domain.ActorID, found bool) (domain.ActorPath, error) {
	out := domain.ActorPath{
		Source: source,
		Target: target,
		Nodes:  []domain.PathNode{},
		Edges:  []domain.PathEdge{},
		Found:  found,
	}
	if !found {
		return out, nil
	}

	films, err := s.graph.EventPath(ids)
	if err != nil {
		return domain.ActorPath{}, err
	}
	for _, id := range ids {
		out.Nodes = append(out.Nodes, domain.PathNode{ID: id, Type: domain.NodeTypeActor, Label: s.actorLabel(id)})
	}
	for i, f := range films {
		out.Edges = append(out.Edges, domain.PathEdge{
			Type:   domain.EdgeTypeActedIn,
			Source: ids[i],
			Target: ids[i+1],
			FilmID: f,
			Label:  s.filmLabel(f),
		})
	}
	out.Hops = len(ids) - 1
	out.Source = ids[0]
	out.Target = ids[len(ids)-1]
	return out, nil
}
