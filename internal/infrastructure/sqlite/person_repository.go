package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/zjrosen/dqs/internal/domain/people"
	"github.com/zjrosen/dqs/internal/log"
)

// PersonRepository implements people.Repository using SQLite.
type PersonRepository struct {
	db *sql.DB
}

func newPersonRepository(db *sql.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

// Ensure PersonRepository implements people.Repository.
var _ people.Repository = (*PersonRepository)(nil)

// Save inserts p and sets its ID. A missing GUID is generated.
func (r *PersonRepository) Save(ctx context.Context, p *people.Person) error {
	if p.GUID == "" {
		p.GUID = uuid.NewString()
	}
	model := toPersonModel(p)

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO people (guid, name, gender, created_at) VALUES (?, ?, ?, ?)`,
		model.GUID, model.Name, model.Gender, model.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert person: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	p.ID = id
	return nil
}

// SaveAll inserts every person in a single transaction.
func (r *PersonRepository) SaveAll(ctx context.Context, ps []*people.Person) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO people (guid, name, gender, created_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, p := range ps {
		if p.GUID == "" {
			p.GUID = uuid.NewString()
		}
		model := toPersonModel(p)
		result, err := stmt.ExecContext(ctx, model.GUID, model.Name, model.Gender, model.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert person %q: %w", p.Name, err)
		}
		if p.ID, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	log.Debug(log.CatDB, "Inserted people", "count", len(ps))
	return nil
}

// FindByGUID retrieves a person by GUID.
func (r *PersonRepository) FindByGUID(ctx context.Context, guid string) (*people.Person, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+personColumns+` FROM people WHERE guid = ?`, guid)
	model, err := scanPerson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", people.ErrNotFound, guid)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find person: %w", err)
	}
	return model.toDomain(), nil
}

// Count returns the number of stored people.
func (r *PersonRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM people`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count people: %w", err)
	}
	return n, nil
}
