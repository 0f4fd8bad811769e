// Package query builds partial UPDATE statements from decoded JSON payloads.
//
// A Table describes an entity as an ordered list of fields. Each field maps a payload
// key to a storage column and follows one tri-state convention: a key that is absent
// leaves the column untouched, an explicit null clears a nullable column, and any other
// value is parsed according to the field kind and written.
package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrNoFieldsProvided is returned when a payload touches none of the table's fields.
var ErrNoFieldsProvided = errors.New("no fields provided for update")

// Kind is the storage type of a field
type Kind int

const (
	String Kind = iota
	Int
	Time
)

// Field maps a payload key to a storage column
type Field struct {
	Name     string
	Column   string
	Kind     Kind
	Nullable bool
	// Validate, when set, checks a parsed non-null value. Its error text becomes
	// the field error message.
	Validate func(value interface{}) error
}

// Table is an entity's update contract: its name, key column, the column touched on
// every update and the ordered list of updatable fields.
type Table struct {
	Name   string
	Key    string
	Touch  string
	Fields []Field
}

// Assignment is a single `column = value` pair of an UPDATE statement
type Assignment struct {
	Column string
	Value  interface{}
}

// FieldError reports an unusable value for a single payload field
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("campo '%s' %s", e.Field, e.Message)
}

// Assignments resolves payload against the table's fields, in field order.
func (t Table) Assignments(payload map[string]interface{}) ([]Assignment, error) {
	assignments := []Assignment{}

	for _, field := range t.Fields {
		raw, present := payload[field.Name]
		if !present {
			continue
		}

		value, err := field.resolve(raw)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, Assignment{Column: field.Column, Value: value})
	}

	if len(assignments) == 0 {
		return nil, ErrNoFieldsProvided
	}

	return assignments, nil
}

func (f Field) resolve(raw interface{}) (interface{}, error) {
	value, err := f.parse(raw)
	if err != nil || value == nil || f.Validate == nil {
		return value, err
	}
	if err := f.Validate(value); err != nil {
		return nil, &FieldError{Field: f.Name, Message: err.Error()}
	}
	return value, nil
}

func (f Field) parse(raw interface{}) (interface{}, error) {
	if raw == nil {
		if !f.Nullable {
			return nil, &FieldError{Field: f.Name, Message: "não pode ser nulo"}
		}
		return nil, nil
	}

	switch f.Kind {
	case String:
		s, ok := raw.(string)
		if !ok {
			return nil, &FieldError{Field: f.Name, Message: "deve ser um texto"}
		}
		if strings.TrimSpace(s) == "" {
			if f.Nullable {
				return nil, nil
			}
			return nil, &FieldError{Field: f.Name, Message: "não pode ser vazio"}
		}
		return s, nil

	case Int:
		n, ok := toInt64(raw)
		if !ok {
			return nil, &FieldError{Field: f.Name, Message: "deve ser um número inteiro"}
		}
		return n, nil

	case Time:
		s, ok := raw.(string)
		if !ok {
			return nil, &FieldError{Field: f.Name, Message: "deve ser uma data ISO-8601"}
		}
		if strings.TrimSpace(s) == "" && f.Nullable {
			return nil, nil
		}
		ts, err := ParseTime(s)
		if err != nil {
			return nil, &FieldError{Field: f.Name, Message: "deve ser uma data ISO-8601"}
		}
		return ts, nil
	}

	return nil, &FieldError{Field: f.Name, Message: "tem tipo desconhecido"}
}

func toInt64(raw interface{}) (int64, bool) {
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	}
	return 0, false
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime accepts the ISO-8601 shapes browsers send and returns the instant in UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO-8601 date %q", s)
}

// UpdateQueryBuilder renders the UPDATE statement for id with `?` placeholders. The
// touch column is always set to now, after the payload assignments.
func (t Table) UpdateQueryBuilder(assignments []Assignment, id int64, now time.Time) (string, []interface{}) {
	sets := make([]string, 0, len(assignments)+1)
	values := make([]interface{}, 0, len(assignments)+2)

	for _, a := range assignments {
		sets = append(sets, a.Column+" = ?")
		values = append(values, a.Value)
	}
	sets = append(sets, t.Touch+" = ?")
	values = append(values, now)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", t.Name, strings.Join(sets, ", "), t.Key)
	values = append(values, id)

	return query, values
}

// ToMap returns the assignments as a column map, including the touch column.
func (t Table) ToMap(assignments []Assignment, now time.Time) map[string]interface{} {
	updates := make(map[string]interface{}, len(assignments)+1)
	for _, a := range assignments {
		updates[a.Column] = a.Value
	}
	updates[t.Touch] = now
	return updates
}

// Placeholder is the bind-variable style of a SQL dialect
type Placeholder int

const (
	Question Placeholder = iota
	Dollar
)

// Rebind rewrites `?` placeholders into the given style. Question marks inside
// single-quoted literals are left alone.
func Rebind(style Placeholder, query string) string {
	if style == Question {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 10)

	n := 0
	inLiteral := false
	for _, r := range query {
		switch {
		case r == '\'':
			inLiteral = !inLiteral
			b.WriteRune(r)
		case r == '?' && !inLiteral:
			n++
			b.WriteString("$" + strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
