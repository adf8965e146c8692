package sqlite

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/zjrosen/dqs/internal/domain/people"
)

// Lookup errors
var (
	ErrUnknownField      = errors.New("unknown field")
	ErrUnsupportedLookup = errors.New("unsupported lookup")
	ErrInvalidValue      = errors.New("invalid lookup value")
)

type columnKind int

const (
	kindString columnKind = iota
	kindInt
	kindGender
)

type column struct {
	name string
	kind columnKind
}

// fields maps queryable field names to SQL columns. Only listed fields are
// ever interpolated into SQL.
var fields = map[string]column{
	"id":     {name: "id", kind: kindInt},
	"pk":     {name: "id", kind: kindInt},
	"guid":   {name: "guid", kind: kindString},
	"name":   {name: "name", kind: kindString},
	"gender": {name: "gender", kind: kindGender},
}

var lookups = map[string]bool{
	"exact": true, "iexact": true,
	"contains": true, "icontains": true,
	"startswith": true, "istartswith": true,
	"in": true,
	"gt": true, "gte": true, "lt": true, "lte": true,
	"isnull": true,
}

// parseLookup splits "name__icontains" into its column and lookup. A key
// without a known lookup suffix is an exact match.
func parseLookup(key string) (column, string, error) {
	field, lookup := key, "exact"
	if i := strings.LastIndex(key, "__"); i > 0 && lookups[key[i+2:]] {
		field, lookup = key[:i], key[i+2:]
	}
	col, ok := fields[field]
	if !ok {
		return column{}, "", fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return col, lookup, nil
}

// buildCondition renders one keyword lookup as a SQL boolean expression.
func buildCondition(key string, value any) (condition, error) {
	col, lookup, err := parseLookup(key)
	if err != nil {
		return condition{}, err
	}

	switch lookup {
	case "isnull":
		isNull, err := toBool(value)
		if err != nil {
			return condition{}, fmt.Errorf("%w: %s: %v", ErrInvalidValue, key, err)
		}
		if isNull {
			return condition{sql: col.name + " IS NULL"}, nil
		}
		return condition{sql: col.name + " IS NOT NULL"}, nil

	case "in":
		items := toList(value)
		if len(items) == 0 {
			return condition{sql: "0"}, nil
		}
		marks := make([]string, len(items))
		args := make([]any, len(items))
		for i, item := range items {
			v, err := coerce(col, item)
			if err != nil {
				return condition{}, fmt.Errorf("%s: %w", key, err)
			}
			marks[i], args[i] = "?", v
		}
		return condition{sql: fmt.Sprintf("%s IN (%s)", col.name, strings.Join(marks, ", ")), args: args}, nil

	case "exact":
		if value == nil {
			return condition{sql: col.name + " IS NULL"}, nil
		}
	}

	v, err := coerce(col, value)
	if err != nil {
		return condition{}, fmt.Errorf("%s: %w", key, err)
	}

	switch lookup {
	case "exact":
		return condition{sql: col.name + " = ?", args: []any{v}}, nil
	case "gt":
		return condition{sql: col.name + " > ?", args: []any{v}}, nil
	case "gte":
		return condition{sql: col.name + " >= ?", args: []any{v}}, nil
	case "lt":
		return condition{sql: col.name + " < ?", args: []any{v}}, nil
	case "lte":
		return condition{sql: col.name + " <= ?", args: []any{v}}, nil
	}

	// Text lookups.
	if col.kind != kindString {
		return condition{}, fmt.Errorf("%w: %s on %s", ErrUnsupportedLookup, lookup, col.name)
	}
	s := v.(string)
	switch lookup {
	case "iexact":
		return condition{sql: fmt.Sprintf("LOWER(%s) = LOWER(?)", col.name), args: []any{s}}, nil
	case "contains":
		return condition{sql: fmt.Sprintf("instr(%s, ?) > 0", col.name), args: []any{s}}, nil
	case "startswith":
		return condition{sql: fmt.Sprintf("instr(%s, ?) = 1", col.name), args: []any{s}}, nil
	case "icontains":
		return condition{sql: fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, col.name), args: []any{"%" + escapeLike(strings.ToLower(s)) + "%"}}, nil
	case "istartswith":
		return condition{sql: fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, col.name), args: []any{escapeLike(strings.ToLower(s)) + "%"}}, nil
	}
	return condition{}, fmt.Errorf("%w: %s", ErrUnsupportedLookup, lookup)
}

// coerce converts a decoded parameter to the column's storage type. Values
// arriving from paths and requests are strings.
func coerce(col column, value any) (any, error) {
	switch col.kind {
	case kindString:
		switch v := value.(type) {
		case string:
			return v, nil
		case []string, []any, nil:
			return nil, fmt.Errorf("%w: %v for %s", ErrInvalidValue, value, col.name)
		default:
			return fmt.Sprint(v), nil
		}

	case kindInt:
		n, err := toInt(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v for %s", ErrInvalidValue, value, col.name)
		}
		return n, nil

	case kindGender:
		switch v := value.(type) {
		case people.Gender:
			if v.Valid() {
				return int(v), nil
			}
		case string:
			g, err := people.ParseGender(v)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
			}
			return int(g), nil
		default:
			if n, err := toInt(v); err == nil && people.Gender(n).Valid() {
				return int(n), nil
			}
		}
		return nil, fmt.Errorf("%w: %v for %s", ErrInvalidValue, value, col.name)
	}
	return nil, fmt.Errorf("%w: %v", ErrInvalidValue, value)
}

func toInt(value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("not an integer: %v", v)
		}
		if v >= math.MaxInt64 || v < math.MinInt64 {
			return 0, fmt.Errorf("integer out of range: %v", v)
		}
		return int64(v), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	}
	return 0, fmt.Errorf("not an integer: %T", value)
}

func toBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(v))
	}
	n, err := toInt(value)
	if err != nil {
		return false, err
	}
	return n != 0, nil
}

// toList normalizes the value of an "in" lookup. A single string is split on
// commas so path and request values can carry lists.
func toList(value any) []any {
	switch v := value.(type) {
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	case []int:
		out := make([]any, len(v))
		for i, n := range v {
			out[i] = n
		}
		return out
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		parts := strings.Split(v, ",")
		out := make([]any, len(parts))
		for i, p := range parts {
			out[i] = strings.TrimSpace(p)
		}
		return out
	case nil:
		return nil
	}
	return []any{value}
}

// escapeLike escapes LIKE wildcards with a backslash.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
