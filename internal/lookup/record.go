package lookup

import (
	"strings"

	"github.com/serroba/user-lookup-go/internal/records"
)

// Record is a normalized lookup result with flat scalar fields.
type Record map[string]any

// ID returns the canonical identifier.
func (r Record) ID() string {
	s, _ := r[fieldID].(string)

	return s
}

// CreatedAt returns the creation timestamp as stored.
func (r Record) CreatedAt() string {
	s, _ := r[fieldCreatedAt].(string)

	return s
}

// normalize flattens wrapper objects such as {"$oid": "..."} and
// {"$date": "..."} into their scalar value. The input is not modified.
func normalize(doc records.Document) Record {
	out := make(Record, len(doc))
	for k, v := range doc {
		out[k] = flatten(v)
	}

	return out
}

func flatten(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if inner, ok := unwrap(t); ok {
			return flatten(inner)
		}

		out := make(map[string]any, len(t))
		for k, child := range t {
			out[k] = flatten(child)
		}

		return out
	case records.Document:
		return flatten(map[string]any(t))
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = flatten(child)
		}

		return out
	default:
		return v
	}
}

func unwrap(m map[string]any) (any, bool) {
	if len(m) != 1 {
		return nil, false
	}

	for k, v := range m {
		if strings.HasPrefix(k, "$") {
			return v, true
		}
	}

	return nil, false
}
