package sqlite

import (
	"time"

	"github.com/zjrosen/dqs/internal/domain/people"
)

// personColumns is the list of columns to select for person queries.
const personColumns = `id, guid, name, gender, created_at`

// PersonModel represents the database row for the people table.
type PersonModel struct {
	ID        int64
	GUID      string
	Name      string
	Gender    int
	CreatedAt int64 // Unix timestamp
}

// scanPerson scans a row into a PersonModel.
func scanPerson(scanner interface{ Scan(...any) error }) (*PersonModel, error) {
	var model PersonModel
	err := scanner.Scan(&model.ID, &model.GUID, &model.Name, &model.Gender, &model.CreatedAt)
	return &model, err
}

// toPersonModel converts a domain Person to a PersonModel.
func toPersonModel(p *people.Person) *PersonModel {
	return &PersonModel{
		ID:        p.ID,
		GUID:      p.GUID,
		Name:      p.Name,
		Gender:    int(p.Gender),
		CreatedAt: p.CreatedAt.Unix(),
	}
}

// toDomain converts a PersonModel back to a domain Person.
func (m *PersonModel) toDomain() *people.Person {
	return &people.Person{
		ID:        m.ID,
		GUID:      m.GUID,
		Name:      m.Name,
		Gender:    people.Gender(m.Gender),
		CreatedAt: time.Unix(m.CreatedAt, 0),
	}
}
