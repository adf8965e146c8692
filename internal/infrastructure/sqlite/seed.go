package sqlite

import (
	"context"
	"fmt"

	"github.com/zjrosen/dqs/internal/domain/people"
	"github.com/zjrosen/dqs/internal/log"
)

// seedPeople is the demo data set loaded by Seed.
var seedPeople = []struct {
	name   string
	gender people.Gender
}{
	{"Ada Lovelace", people.Female},
	{"Alan Turing", people.Male},
	{"Grace Hopper", people.Female},
	{"Edsger Dijkstra", people.Male},
	{"Barbara Liskov", people.Female},
	{"Donald Knuth", people.Male},
	{"Margaret Hamilton", people.Female},
	{"Ken Thompson", people.Male},
	{"Frances Allen", people.Female},
	{"Dennis Ritchie", people.Male},
	{"Radia Perlman", people.Female},
	{"John McCarthy", people.Male},
}

// SeedPeople returns fresh Person values for the demo data set.
func SeedPeople() ([]*people.Person, error) {
	out := make([]*people.Person, 0, len(seedPeople))
	for _, s := range seedPeople {
		p, err := people.New(s.name, s.gender)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Seed loads the demo data set unless the table already has rows. It returns
// the number of people inserted.
func Seed(ctx context.Context, repo *PersonRepository) (int, error) {
	n, err := repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Debug(log.CatDB, "Skipping seed, table not empty", "count", n)
		return 0, nil
	}

	ps, err := SeedPeople()
	if err != nil {
		return 0, fmt.Errorf("building seed data: %w", err)
	}
	if err := repo.SaveAll(ctx, ps); err != nil {
		return 0, err
	}
	return len(ps), nil
}
