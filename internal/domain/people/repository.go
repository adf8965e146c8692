package people

import "context"

// Repository defines persistence for Person entities.
type Repository interface {
	// Save inserts a new person and sets its ID.
	Save(ctx context.Context, p *Person) error

	// FindByGUID returns ErrNotFound if no person matches.
	FindByGUID(ctx context.Context, guid string) (*Person, error)

	// Count returns the number of stored people.
	Count(ctx context.Context) (int, error)
}
