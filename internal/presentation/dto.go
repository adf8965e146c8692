package presentation

import (
	"time"

	"github.com/zjrosen/dqs/internal/domain/people"
	"github.com/zjrosen/dqs/pkg/chain"
	"github.com/zjrosen/dqs/pkg/registry"
)

// SerializationDTO represents a registered serialization for listing.
type SerializationDTO struct {
	Name         string         `json:"name"`
	Description  string         `json:"description,omitempty"`
	Placeholders []string       `json:"placeholders"`
	Operations   []OperationDTO `json:"operations"`
}

// OperationDTO represents one recorded call, tokens as written.
type OperationDTO struct {
	Name   string       `json:"name"`
	Args   []any        `json:"args,omitempty"`
	Kwargs []KeywordDTO `json:"kwargs,omitempty"`
}

// KeywordDTO is a keyword argument; a list keeps recorded order in JSON.
type KeywordDTO struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// PersonDTO represents one person in a result set.
type PersonDTO struct {
	ID        int64     `json:"id"`
	GUID      string    `json:"guid"`
	Name      string    `json:"name"`
	Display   string    `json:"display"`
	Gender    string    `json:"gender"`
	CreatedAt time.Time `json:"created_at"`
}

// ResultDTO is the output of executing a serialization.
type ResultDTO struct {
	Serialization string      `json:"serialization,omitempty"`
	ExecutionID   string      `json:"execution_id"`
	SQL           string      `json:"sql,omitempty"`
	Cached        bool        `json:"cached"`
	Count         int         `json:"count"`
	People        []PersonDTO `json:"people"`
}

// FromOperation converts a recorded operation to a DTO.
func FromOperation(op chain.Operation) OperationDTO {
	kwargs := op.Kwargs()
	keys := make([]KeywordDTO, len(kwargs))
	for i, kw := range kwargs {
		keys[i] = KeywordDTO{Key: kw.Key, Value: kw.Value}
	}
	return OperationDTO{
		Name:   op.Name(),
		Args:   op.Args(),
		Kwargs: keys,
	}
}

// FromSerialization converts a serialization to a DTO.
func FromSerialization(s *registry.Serialization, description string) SerializationDTO {
	ops := s.Chain().Operations()
	dtos := make([]OperationDTO, len(ops))
	for i, op := range ops {
		dtos[i] = FromOperation(op)
	}
	return SerializationDTO{
		Name:         s.Name(),
		Description:  description,
		Placeholders: s.Placeholders(),
		Operations:   dtos,
	}
}

// FromRegistry converts every serialization in reg, sorted by name.
func FromRegistry(reg *registry.Registry, descriptions map[string]string) ([]SerializationDTO, error) {
	names := reg.Names()
	dtos := make([]SerializationDTO, 0, len(names))
	for _, name := range names {
		s, err := reg.Get(name)
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, FromSerialization(s, descriptions[name]))
	}
	return dtos, nil
}

// FromPerson converts a domain person to a DTO.
func FromPerson(p *people.Person) PersonDTO {
	return PersonDTO{
		ID:        p.ID,
		GUID:      p.GUID,
		Name:      p.Name,
		Display:   p.DisplayName(),
		Gender:    p.Gender.String(),
		CreatedAt: p.CreatedAt.UTC(),
	}
}

// FromPeople converts a slice of persons. The result is never nil.
func FromPeople(ps []*people.Person) []PersonDTO {
	dtos := make([]PersonDTO, len(ps))
	for i, p := range ps {
		dtos[i] = FromPerson(p)
	}
	return dtos
}
