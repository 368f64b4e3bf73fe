package records

// Matches reports whether d satisfies any condition of the filter.
// An empty filter matches every document.
func (f Filter) Matches(d Document) bool {
	if len(f.AnyOf) == 0 {
		return true
	}

	for _, c := range f.AnyOf {
		if c.matches(d) {
			return true
		}
	}

	return false
}

func (c Condition) matches(d Document) bool {
	v, ok := d.Lookup(c.Field)
	if !ok {
		return false
	}

	switch c.Kind {
	case MatchContains:
		items, ok := v.([]any)
		if !ok {
			return false
		}

		for _, item := range items {
			if scalarEqual(item, c.Value) {
				return true
			}
		}

		return false
	default:
		return scalarEqual(v, c.Value)
	}
}

// scalarEqual compares a stored value with a filter value, unwrapping
// single-key "$" wrappers such as {"$oid": "..."}.
func scalarEqual(stored, want any) bool {
	if id, ok := want.(ObjectID); ok {
		m, isMap := asMap(stored)
		if !isMap {
			return false
		}

		oid, _ := m["$oid"].(string)

		return oid == string(id)
	}

	return stored == want
}
