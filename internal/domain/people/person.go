// Package people holds the Person entity that demo serializations query.
package people

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Domain errors
var (
	ErrEmptyName     = errors.New("person name cannot be empty")
	ErrNameTooLong   = errors.New("person name too long")
	ErrInvalidGender = errors.New("invalid gender")
	ErrNotFound      = errors.New("person not found")
)

// MaxNameLength bounds Person names.
const MaxNameLength = 150

// Gender is stored as a small integer.
type Gender int

const (
	Male   Gender = 1
	Female Gender = 2
)

func (g Gender) String() string {
	switch g {
	case Male:
		return "male"
	case Female:
		return "female"
	default:
		return "unknown"
	}
}

// Valid reports whether g is one of the known choices.
func (g Gender) Valid() bool {
	return g == Male || g == Female
}

// ParseGender accepts "male", "female" (any case) or their numeric codes.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return Male, nil
	case "female", "f":
		return Female, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err == nil && Gender(n).Valid() {
		return Gender(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidGender, s)
}

// Person is one row of the people table.
type Person struct {
	ID        int64
	GUID      string
	Name      string
	Gender    Gender
	CreatedAt time.Time
}

// New creates a validated Person with a fresh GUID.
func New(name string, gender Gender) (*Person, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if len([]rune(name)) > MaxNameLength {
		return nil, fmt.Errorf("%w: %d characters", ErrNameTooLong, len([]rune(name)))
	}
	if !gender.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGender, gender)
	}
	return &Person{
		GUID:      uuid.NewString(),
		Name:      name,
		Gender:    gender,
		CreatedAt: time.Now(),
	}, nil
}

// DisplayName truncates long names to 40 characters.
func (p *Person) DisplayName() string {
	const limit = 40
	runes := []rune(p.Name)
	if len(runes) > limit {
		return string(runes[:limit]) + " (...)"
	}
	return p.Name
}
