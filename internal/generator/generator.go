package generator

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/vanshika/costar/internal/domain"
)

const referenceActorName = "Kevin Bacon"

// Generator produces synthetic casts and the credits they imply.
type Generator struct {
	cfg           Config
	rand          *rand.Rand
	nameFragments nameFragments
	stars         []domain.ActorID
}

// New returns a configured Generator instance. Zero fields fall back to DefaultConfig.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.NumActors <= 0 {
		cfg.NumActors = def.NumActors
	}
	if cfg.NumFilms <= 0 {
		cfg.NumFilms = def.NumFilms
	}
	if cfg.MinCast < 2 {
		cfg.MinCast = def.MinCast
	}
	if cfg.MaxCast < cfg.MinCast {
		cfg.MaxCast = max(def.MaxCast, cfg.MinCast)
	}
	cfg.MaxCast = min(cfg.MaxCast, cfg.NumActors)
	cfg.MinCast = min(cfg.MinCast, cfg.MaxCast)
	if cfg.NumStars <= 0 {
		cfg.NumStars = def.NumStars
	}
	cfg.NumStars = min(cfg.NumStars, cfg.NumActors)
	if cfg.StarChance <= 0 {
		cfg.StarChance = def.StarChance
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}

	return &Generator{
		cfg:           cfg,
		rand:          rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		nameFragments: defaultNameFragments(),
	}
}

// Generate synthesises actors, films and credits. Every pair of cast members of a film
// gets one credit. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) (domain.Dataset, error) {
	actors := make([]domain.Actor, g.cfg.NumActors)
	usedNames := make(map[string]int, g.cfg.NumActors)
	for i := range actors {
		id := domain.ActorID(i + 1)
		name := g.randomFullName()
		if int64(id) == g.cfg.ReferenceActor {
			name = referenceActorName
		}
		actors[i] = domain.Actor{ID: id, Name: unique(usedNames, name)}
	}
	g.pickStars()

	films := make([]domain.Film, g.cfg.NumFilms)
	usedTitles := make(map[string]int, g.cfg.NumFilms)
	var credits []domain.Credit

	for i := range films {
		if err := ctx.Err(); err != nil {
			return domain.Dataset{}, err
		}

		film := domain.FilmID(i + 1)
		films[i] = domain.Film{ID: film, Title: unique(usedTitles, g.randomTitle())}

		cast := g.randomCast()
		for a := 0; a < len(cast); a++ {
			for b := a + 1; b < len(cast); b++ {
				credits = append(credits, domain.Credit{ActorA: cast[a], ActorB: cast[b], Film: film})
			}
		}
	}

	return domain.Dataset{Credits: credits, Actors: actors, Films: films}, nil
}

func (g *Generator) pickStars() {
	g.stars = g.stars[:0]
	seen := make(map[domain.ActorID]struct{}, g.cfg.NumStars)
	if ref := g.cfg.ReferenceActor; ref >= 1 && ref <= int64(g.cfg.NumActors) {
		g.stars = append(g.stars, domain.ActorID(ref))
		seen[domain.ActorID(ref)] = struct{}{}
	}
	for len(g.stars) < g.cfg.NumStars {
		id := g.randomActor()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		g.stars = append(g.stars, id)
	}
}

func (g *Generator) randomCast() []domain.ActorID {
	size := g.cfg.MinCast + g.rand.IntN(g.cfg.MaxCast-g.cfg.MinCast+1)
	cast := make([]domain.ActorID, 0, size)
	seen := make(map[domain.ActorID]struct{}, size)
	for len(cast) < size {
		var id domain.ActorID
		if g.rand.Float64() < g.cfg.StarChance {
			id = g.stars[g.rand.IntN(len(g.stars))]
		} else {
			id = g.randomActor()
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		cast = append(cast, id)
	}
	return cast
}

func (g *Generator) randomActor() domain.ActorID {
	return domain.ActorID(1 + g.rand.IntN(g.cfg.NumActors))
}

func (g *Generator) randomFullName() string {
	return fmt.Sprintf("%s %s", pick(g.rand, g.nameFragments.first), pick(g.rand, g.nameFragments.last))
}

func (g *Generator) randomTitle() string {
	if g.rand.IntN(4) == 0 {
		return fmt.Sprintf("%s of the %s", pick(g.rand, g.nameFragments.nouns), pick(g.rand, g.nameFragments.nouns))
	}
	return fmt.Sprintf("The %s %s", pick(g.rand, g.nameFragments.adjectives), pick(g.rand, g.nameFragments.nouns))
}

func pick(r *rand.Rand, options []string) string {
	return options[r.IntN(len(options))]
}

// unique suffixes repeated names with a sequel number so name lookups stay unambiguous.
func unique(used map[string]int, name string) string {
	n := used[name]
	used[name] = n + 1
	if n == 0 {
		return name
	}
	candidate := fmt.Sprintf("%s %d", name, n+1)
	if _, taken := used[candidate]; taken {
		return unique(used, candidate)
	}
	used[candidate] = 1
	return candidate
}

type nameFragments struct {
	first      []string
	last       []string
	adjectives []string
	nouns      []string
}

func defaultNameFragments() nameFragments {
	return nameFragments{
		first:      []string{"Jane", "John", "Alex", "Priya", "Liu", "Maria", "Omar", "Sofia", "Noah", "Emma", "Lucas", "Mia", "Ava", "Ethan", "Zara", "Iris", "Felix", "Nadia"},
		last:       []string{"Doe", "Smith", "Chen", "Patel", "Garcia", "Khan", "Kim", "Ivanov", "Nguyen", "Silva", "Brown", "Lee", "Moreau", "Okafor"},
		adjectives: []string{"Silent", "Crimson", "Last", "Hidden", "Broken", "Golden", "Midnight", "Distant", "Frozen", "Wild", "Lonely", "Electric"},
		nouns:      []string{"Harbor", "Frontier", "Garden", "Signal", "Empire", "River", "Witness", "Summer", "Machine", "Orchard", "Horizon", "Station"},
	}
}
