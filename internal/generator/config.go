package generator

// Config drives the synthetic credit generator.
type Config struct {
	NumActors int
	NumFilms  int
	MinCast   int
	MaxCast   int
	// NumStars actors form a pool that casts draw from with StarChance, producing the
	// hub actors that keep real co-star graphs shallow.
	NumStars   int
	StarChance float64
	// ReferenceActor, when within 1..NumActors, is always a star and is named after the
	// game's namesake.
	ReferenceActor int64
	Seed           uint64
}

// DefaultConfig returns settings producing a graph of a few thousand actors.
func DefaultConfig() Config {
	return Config{
		NumActors:      5000,
		NumFilms:       2000,
		MinCast:        2,
		MaxCast:        6,
		NumStars:       150,
		StarChance:     0.3,
		ReferenceActor: 4724,
		Seed:           42,
	}
}
