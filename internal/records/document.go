package records

import (
	"context"
	"errors"
	"strings"
)

var ErrNotFound = errors.New("record not found")

// Document is a stored record in its extended-JSON shape, e.g.
// {"_id": {"$oid": "..."}, "createdAt": {"$date": "..."}}.
type Document map[string]any

// ObjectID marks a filter value that must match a store-native object identifier.
type ObjectID string

// MatchKind selects how a Condition compares its field.
type MatchKind int

const (
	// MatchEquals matches when the field equals the value.
	MatchEquals MatchKind = iota
	// MatchContains matches when the field is an array holding the value.
	MatchContains
)

// Condition is a single field comparison.
type Condition struct {
	Field string
	Value any
	Kind  MatchKind
}

// Filter matches a document when any of its conditions match.
type Filter struct {
	AnyOf []Condition
}

// Eq builds a filter with a single equality condition.
func Eq(field string, value any) Filter {
	return Filter{AnyOf: []Condition{{Field: field, Value: value, Kind: MatchEquals}}}
}

// Or combines the conditions of several filters.
func Or(filters ...Filter) Filter {
	var out Filter
	for _, f := range filters {
		out.AnyOf = append(out.AnyOf, f.AnyOf...)
	}

	return out
}

// Contains builds a filter matching array fields that hold value.
func Contains(field string, value any) Filter {
	return Filter{AnyOf: []Condition{{Field: field, Value: value, Kind: MatchContains}}}
}

// Projection lists the dotted field paths a store may return.
type Projection []string

// Repository reads documents from a named collection.
type Repository interface {
	// FindOne returns the first document in collection matching filter,
	// restricted to the projected fields. Returns ErrNotFound if nothing matches.
	FindOne(ctx context.Context, collection string, filter Filter, projection Projection) (Document, error)
}

// Lookup resolves a dotted path such as "profileVideo.videoUrls.sd".
func (d Document) Lookup(path string) (any, bool) {
	var cur any = map[string]any(d)

	for _, part := range strings.Split(path, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}

		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}

	return cur, true
}

// Project copies only the projected paths into a new document.
// A nil projection returns a shallow copy of the whole document.
func (d Document) Project(projection Projection) Document {
	out := Document{}

	if projection == nil {
		for k, v := range d {
			out[k] = v
		}

		return out
	}

	for _, path := range projection {
		v, ok := d.Lookup(path)
		if !ok {
			continue
		}

		setPath(out, strings.Split(path, "."), v)
	}

	return out
}

func setPath(dst map[string]any, parts []string, v any) {
	if len(parts) == 1 {
		dst[parts[0]] = v

		return
	}

	child, ok := dst[parts[0]].(map[string]any)
	if !ok {
		child = map[string]any{}
		dst[parts[0]] = child
	}

	setPath(child, parts[1:], v)
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Document:
		return m, true
	default:
		return nil, false
	}
}
