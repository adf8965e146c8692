package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/zjrosen/dqs/internal/domain/people"
	"github.com/zjrosen/dqs/internal/log"
	"github.com/zjrosen/dqs/pkg/chain"
)

// ErrPositionalArgs is returned by filter and exclude, which take keyword
// lookups only.
var ErrPositionalArgs = errors.New("positional arguments not supported")

type condition struct {
	sql  string
	args []any
}

type orderTerm struct {
	column string
	desc   bool
}

// QuerySet is an immutable, lazily evaluated query over the people table.
// Every method returns a new QuerySet; nothing touches the database until
// Fetch or Count.
type QuerySet struct {
	db       *sql.DB
	where    []condition
	order    []orderTerm
	reversed bool
	distinct bool
	empty    bool
}

// NewQuerySet returns a QuerySet matching every person.
func NewQuerySet(db *sql.DB) QuerySet {
	return QuerySet{db: db}
}

// queryMethods dispatches chain operations to QuerySet methods.
var queryMethods = chain.Methods[QuerySet]{
	chain.OpFilter: func(qs QuerySet, call chain.Call) (QuerySet, error) {
		if len(call.Args) > 0 {
			return qs, fmt.Errorf("%w: filter", ErrPositionalArgs)
		}
		return qs.Filter(call.Kwargs...)
	},
	chain.OpExclude: func(qs QuerySet, call chain.Call) (QuerySet, error) {
		if len(call.Args) > 0 {
			return qs, fmt.Errorf("%w: exclude", ErrPositionalArgs)
		}
		return qs.Exclude(call.Kwargs...)
	},
	chain.OpOrderBy: func(qs QuerySet, call chain.Call) (QuerySet, error) {
		fields := make([]string, len(call.Args))
		for i, arg := range call.Args {
			s, ok := arg.(string)
			if !ok {
				return qs, fmt.Errorf("%w: order_by expects field names, got %T", ErrInvalidValue, arg)
			}
			fields[i] = s
		}
		return qs.OrderBy(fields...)
	},
	chain.OpAll:      func(qs QuerySet, _ chain.Call) (QuerySet, error) { return qs.All(), nil },
	chain.OpReverse:  func(qs QuerySet, _ chain.Call) (QuerySet, error) { return qs.Reverse(), nil },
	chain.OpNone:     func(qs QuerySet, _ chain.Call) (QuerySet, error) { return qs.None(), nil },
	chain.OpDistinct: func(qs QuerySet, _ chain.Call) (QuerySet, error) { return qs.Distinct(), nil },
}

// Target binds qs to the chain operations it supports: filter, exclude,
// order_by, all, reverse, none and distinct.
func (qs QuerySet) Target() chain.Target {
	return queryMethods.Bind(qs)
}

// FromTarget extracts the QuerySet produced by a replay.
func FromTarget(t chain.Target) (QuerySet, error) {
	return chain.ValueOf[QuerySet](t)
}

func (qs QuerySet) clone() QuerySet {
	next := qs
	next.where = append([]condition(nil), qs.where...)
	next.order = append([]orderTerm(nil), qs.order...)
	return next
}

// Filter keeps people matching every lookup.
func (qs QuerySet) Filter(kwargs ...chain.Kwarg) (QuerySet, error) {
	cond, err := conjunction(kwargs)
	if err != nil {
		return qs, err
	}
	next := qs.clone()
	if cond.sql != "" {
		next.where = append(next.where, cond)
	}
	return next, nil
}

// Exclude drops people matching every lookup.
func (qs QuerySet) Exclude(kwargs ...chain.Kwarg) (QuerySet, error) {
	cond, err := conjunction(kwargs)
	if err != nil {
		return qs, err
	}
	next := qs.clone()
	if cond.sql != "" {
		next.where = append(next.where, condition{sql: "NOT (" + cond.sql + ")", args: cond.args})
	}
	return next, nil
}

// OrderBy replaces the ordering. A leading "-" sorts descending. No fields
// restores the default ordering by id.
func (qs QuerySet) OrderBy(names ...string) (QuerySet, error) {
	terms := make([]orderTerm, 0, len(names))
	for _, f := range names {
		name, desc := strings.CutPrefix(f, "-")
		col, ok := fields[name]
		if !ok {
			return qs, fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
		terms = append(terms, orderTerm{column: col.name, desc: desc})
	}
	next := qs.clone()
	next.order = terms
	next.reversed = false
	return next, nil
}

// All returns a copy of qs.
func (qs QuerySet) All() QuerySet {
	return qs.clone()
}

// Reverse flips the current ordering.
func (qs QuerySet) Reverse() QuerySet {
	next := qs.clone()
	next.reversed = !qs.reversed
	return next
}

// None matches nothing.
func (qs QuerySet) None() QuerySet {
	next := qs.clone()
	next.empty = true
	return next
}

// Distinct removes duplicate rows.
func (qs QuerySet) Distinct() QuerySet {
	next := qs.clone()
	next.distinct = true
	return next
}

func conjunction(kwargs []chain.Kwarg) (condition, error) {
	var parts []string
	var args []any
	for _, kw := range kwargs {
		cond, err := buildCondition(kw.Key, kw.Value)
		if err != nil {
			return condition{}, err
		}
		parts = append(parts, cond.sql)
		args = append(args, cond.args...)
	}
	if len(parts) == 0 {
		return condition{}, nil
	}
	if len(parts) == 1 {
		return condition{sql: parts[0], args: args}, nil
	}
	return condition{sql: "(" + strings.Join(parts, " AND ") + ")", args: args}, nil
}

// SQL renders the SELECT statement and its arguments.
func (qs QuerySet) SQL() (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT ")
	if qs.distinct {
		b.WriteString("DISTINCT ")
	}
	b.WriteString(personColumns)
	b.WriteString(" FROM people")

	where, args := qs.whereClause()
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}

	b.WriteString(" ORDER BY ")
	b.WriteString(qs.orderClause())
	return b.String(), args
}

func (qs QuerySet) whereClause() (string, []any) {
	if qs.empty {
		return "0", nil
	}
	parts := make([]string, len(qs.where))
	var args []any
	for i, cond := range qs.where {
		parts[i] = cond.sql
		args = append(args, cond.args...)
	}
	return strings.Join(parts, " AND "), args
}

func (qs QuerySet) orderClause() string {
	terms := qs.order
	if len(terms) == 0 {
		terms = []orderTerm{{column: "id"}}
	}
	parts := make([]string, len(terms))
	for i, term := range terms {
		desc := term.desc != qs.reversed
		dir := "ASC"
		if desc {
			dir = "DESC"
		}
		parts[i] = term.column + " " + dir
	}
	return strings.Join(parts, ", ")
}

// Fetch runs the query.
func (qs QuerySet) Fetch(ctx context.Context) ([]*people.Person, error) {
	if qs.empty {
		return nil, nil
	}
	if qs.db == nil {
		return nil, fmt.Errorf("query set has no database")
	}

	query, args := qs.SQL()
	log.Debug(log.CatDB, "Fetching people", "sql", query, "args", args)

	rows, err := qs.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query people: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*people.Person
	for rows.Next() {
		model, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		result = append(result, model.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate people: %w", err)
	}
	return result, nil
}

// Count returns the number of matching people.
func (qs QuerySet) Count(ctx context.Context) (int, error) {
	if qs.empty {
		return 0, nil
	}
	if qs.db == nil {
		return 0, fmt.Errorf("query set has no database")
	}

	query, args := qs.SQL()
	var n int
	if err := qs.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM ("+query+")", args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count people: %w", err)
	}
	return n, nil
}
