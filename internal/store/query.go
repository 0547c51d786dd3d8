package store

import (
	"fmt"
	"strings"
)

// Where appends an equality predicate.
func (q Query) Where(field string, value any) Query {
	q.Predicates = append(append([]Predicate(nil), q.Predicates...), Predicate{Field: field, Op: OpEqual, Value: value})
	return q
}

// WhereAny appends an array-contains-any predicate.
func (q Query) WhereAny(field string, values []string) Query {
	q.Predicates = append(append([]Predicate(nil), q.Predicates...), Predicate{Field: field, Op: OpArrayContainsAny, Value: values})
	return q
}

// Validate rejects predicate and ordering combinations the store cannot serve.
func (q Query) Validate() error {
	if q.Limit < 0 {
		return fmt.Errorf("%w: negative limit %d", ErrInvalidQuery, q.Limit)
	}

	if len(q.OrderBy) > 1 {
		return fmt.Errorf("%w: at most one order key is supported", ErrInvalidQuery)
	}

	for _, o := range q.OrderBy {
		if o.Field != FieldCreatedAt && o.Field != FieldTitle {
			return fmt.Errorf("%w: cannot order by %q", ErrInvalidQuery, o.Field)
		}
	}

	anyCount := 0
	for _, p := range q.Predicates {
		switch p.Op {
		case OpEqual:
			if err := validateEqual(p); err != nil {
				return err
			}
		case OpArrayContainsAny:
			anyCount++
			if anyCount > 1 {
				return fmt.Errorf("%w: only one array-contains-any predicate is allowed", ErrInvalidQuery)
			}
			if p.Field != FieldTags {
				return fmt.Errorf("%w: %q is not an array field", ErrInvalidQuery, p.Field)
			}
			values, ok := p.Value.([]string)
			if !ok {
				return fmt.Errorf("%w: array-contains-any on %q needs a string list", ErrInvalidQuery, p.Field)
			}
			if len(values) == 0 || len(values) > MaxAnyValues {
				return fmt.Errorf("%w: array-contains-any takes 1 to %d values, got %d", ErrInvalidQuery, MaxAnyValues, len(values))
			}
		default:
			return fmt.Errorf("%w: unsupported operator %q", ErrInvalidQuery, p.Op)
		}
	}

	return nil
}

func validateEqual(p Predicate) error {
	var ok bool
	switch p.Field {
	case FieldPublished, FieldFeatured:
		_, ok = p.Value.(bool)
	case FieldAuthorID:
		_, ok = p.Value.(string)
	default:
		return fmt.Errorf("%w: cannot filter on %q", ErrInvalidQuery, p.Field)
	}

	if !ok {
		return fmt.Errorf("%w: wrong value type %T for %q", ErrInvalidQuery, p.Value, p.Field)
	}

	return nil
}

// matches evaluates every predicate against b. The query must be valid.
func (q Query) matches(b Blog) bool {
	for _, p := range q.Predicates {
		switch p.Field {
		case FieldPublished:
			if b.IsPublished() != p.Value.(bool) {
				return false
			}
		case FieldFeatured:
			if b.Featured != p.Value.(bool) {
				return false
			}
		case FieldAuthorID:
			if b.Author.ID != p.Value.(string) {
				return false
			}
		case FieldTags:
			if !containsAny(b.Tags, p.Value.([]string)) {
				return false
			}
		}
	}

	return true
}

func containsAny(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func (q Query) order() Order {
	if len(q.OrderBy) == 0 {
		return Order{Field: FieldCreatedAt, Direction: Desc}
	}
	return q.OrderBy[0]
}

// compareCursors orders a before b (negative), after b (positive) or equal
// (zero) under o, breaking ties on ascending id.
func compareCursors(o Order, a, b *Cursor) int {
	c := 0
	switch o.Field {
	case FieldTitle:
		c = strings.Compare(a.title, b.title)
	default:
		c = a.createdAt.Compare(b.createdAt)
	}

	if o.Direction == Desc {
		c = -c
	}

	if c != 0 {
		return c
	}

	return strings.Compare(a.id, b.id)
}
