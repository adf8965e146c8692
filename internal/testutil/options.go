package testutil

import (
	"time"

	"github.com/zjrosen/dqs/internal/domain/people"
)

// personData holds all data for a person to be inserted.
type personData struct {
	name      string
	gender    people.Gender
	guid      string
	createdAt time.Time
}

func defaultPerson(name string) personData {
	return personData{
		name:      name,
		gender:    people.Female,
		createdAt: time.Unix(1700000000, 0),
	}
}

// PersonOption configures a person added through the Builder.
type PersonOption func(*personData)

// Gender sets the person's gender.
func Gender(g people.Gender) PersonOption {
	return func(p *personData) { p.gender = g }
}

// Male is shorthand for Gender(people.Male).
func Male() PersonOption {
	return Gender(people.Male)
}

// GUID sets a fixed GUID.
func GUID(guid string) PersonOption {
	return func(p *personData) { p.guid = guid }
}

// CreatedAt sets the creation time.
func CreatedAt(t time.Time) PersonOption {
	return func(p *personData) { p.createdAt = t }
}
