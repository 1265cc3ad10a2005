package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spec-kit/crm-access/pkg/util"
)

// DateTimeLayout is the strict input format for datetime filter values.
const DateTimeLayout = "02/01/2006-15h04"

// Kind declares how a schema field is typed for filtering and sorting.
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindFloat
	KindBool
	KindDateTime
)

// Field maps a filterable column name to its kind and accessor. The schema
// table replaces attribute introspection: filtering and sorting never look
// at a record except through Value.
type Field[T any] struct {
	Name  string
	Kind  Kind
	Value func(T) any
}

// Schema is the ordered list of filterable fields of an entity type.
type Schema[T any] []Field[T]

func (s Schema[T]) lookup(name string) (Field[T], bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field[T]{}, false
}

// Names returns the schema's field names in declaration order.
func (s Schema[T]) Names() []string {
	names := make([]string, 0, len(s))
	for _, f := range s {
		names = append(names, f.Name)
	}
	return names
}

// Apply filters and sorts records.
//
// With a field and a value, records match by the field's kind: substring
// (case-insensitive) for text, exact match after parsing for the rest. With
// only a value, a record matches when any compatible field matches; fields
// whose kind cannot parse the value are skipped. Naming a field sorts the
// result ascending by that field; otherwise insertion order is kept.
func Apply[T any](schema Schema[T], records []T, fieldName, value string) ([]T, error) {
	var field Field[T]
	hasField := false
	if fieldName != "" {
		var ok bool
		field, ok = schema.lookup(fieldName)
		if !ok {
			return nil, util.NewInvalidField(fmt.Sprintf("invalid field: %s", fieldName))
		}
		hasField = true
	}

	out := records
	if value != "" {
		if hasField {
			pred, err := predicate(field.Kind, field.Name, value)
			if err != nil {
				return nil, err
			}
			out = keep(out, func(rec T) bool { return pred(field.Value(rec)) })
		} else {
			preds := make([]func(T) bool, 0, len(schema))
			for _, f := range schema {
				f := f
				pred, err := predicate(f.Kind, f.Name, value)
				if err != nil {
					continue
				}
				preds = append(preds, func(rec T) bool { return pred(f.Value(rec)) })
			}
			out = keep(out, func(rec T) bool {
				for _, p := range preds {
					if p(rec) {
						return true
					}
				}
				return false
			})
		}
	} else {
		out = append([]T(nil), records...)
	}

	if hasField {
		sort.SliceStable(out, func(i, j int) bool {
			return less(field.Kind, field.Value(out[i]), field.Value(out[j]))
		})
	}
	return out, nil
}

func keep[T any](records []T, match func(T) bool) []T {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		if match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

func predicate(kind Kind, fieldName, value string) (func(any) bool, error) {
	switch kind {
	case KindText:
		needle := strings.ToLower(value)
		return func(v any) bool {
			s, ok := v.(string)
			return ok && strings.Contains(strings.ToLower(s), needle)
		}, nil
	case KindInt:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, util.NewInvalidFilter(fmt.Sprintf("invalid integer value for field %s", fieldName))
		}
		return func(v any) bool {
			i, ok := v.(int)
			return ok && i == n
		}, nil
	case KindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, util.NewInvalidFilter(fmt.Sprintf("invalid float value for field %s", fieldName))
		}
		return func(v any) bool {
			x, ok := v.(float64)
			return ok && x == f
		}, nil
	case KindBool:
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "false":
		default:
			return nil, util.NewInvalidFilter(fmt.Sprintf("invalid boolean value for field %s", fieldName))
		}
		b := strings.EqualFold(strings.TrimSpace(value), "true")
		return func(v any) bool {
			x, ok := v.(bool)
			return ok && x == b
		}, nil
	case KindDateTime:
		t, err := time.Parse(DateTimeLayout, strings.TrimSpace(value))
		if err != nil {
			return nil, util.NewInvalidFilter(fmt.Sprintf("invalid date format for %s, expected format: DD/MM/YYYY-HHhMM", fieldName))
		}
		return func(v any) bool {
			x, ok := v.(time.Time)
			return ok && x.Equal(t)
		}, nil
	}
	return nil, util.NewInvalidFilter(fmt.Sprintf("unsupported field type for filtering: %s", fieldName))
}

func less(kind Kind, a, b any) bool {
	switch kind {
	case KindText:
		x, _ := a.(string)
		y, _ := b.(string)
		return strings.ToLower(x) < strings.ToLower(y)
	case KindInt:
		x, _ := a.(int)
		y, _ := b.(int)
		return x < y
	case KindFloat:
		x, _ := a.(float64)
		y, _ := b.(float64)
		return x < y
	case KindBool:
		x, _ := a.(bool)
		y, _ := b.(bool)
		return !x && y
	case KindDateTime:
		x, _ := a.(time.Time)
		y, _ := b.(time.Time)
		return x.Before(y)
	}
	return false
}
