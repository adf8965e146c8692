package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/dqs/internal/domain/people"
	"github.com/zjrosen/dqs/internal/infrastructure/sqlite"
)

// Builder accumulates people and inserts them in order, so ids follow the
// order of With calls starting at 1.
type Builder struct {
	t      *testing.T
	db     *sqlite.DB
	people []personData
}

// NewBuilder creates a builder for the given test database.
func NewBuilder(t *testing.T, db *sqlite.DB) *Builder {
	t.Helper()
	return &Builder{t: t, db: db}
}

// WithPerson adds a person with optional configuration.
func (b *Builder) WithPerson(name string, opts ...PersonOption) *Builder {
	p := defaultPerson(name)
	for _, opt := range opts {
		opt(&p)
	}
	b.people = append(b.people, p)
	return b
}

// Build inserts all accumulated people and returns them with ids set.
func (b *Builder) Build() []*people.Person {
	b.t.Helper()

	out := make([]*people.Person, len(b.people))
	for i, data := range b.people {
		out[i] = &people.Person{
			GUID:      data.guid,
			Name:      data.name,
			Gender:    data.gender,
			CreatedAt: data.createdAt,
		}
	}
	require.NoError(b.t, b.db.People().SaveAll(context.Background(), out))
	return out
}

// Connection exposes the database for assertions.
func (b *Builder) Connection() *sqlite.DB {
	return b.db
}
