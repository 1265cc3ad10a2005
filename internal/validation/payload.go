package validation

// Payload is the partial input of a create or edit command. A field absent
// from the payload (or present as nil / empty string) is not being updated
// and is skipped by validation entirely.
type Payload map[string]any

// Has reports whether the field carries a value to validate and apply.
func (p Payload) Has(field string) bool {
	v, ok := p[field]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr && s == "" {
		return false
	}
	return true
}

// String returns the field as a string when present and of string type.
func (p Payload) String(field string) (string, bool) {
	if !p.Has(field) {
		return "", false
	}
	s, ok := p[field].(string)
	return s, ok
}

// Int returns the field as an int when present and of integer type.
func (p Payload) Int(field string) (int, bool) {
	if !p.Has(field) {
		return 0, false
	}
	n, ok := p[field].(int)
	return n, ok
}

// Float returns the field as a float64; plain ints are widened.
func (p Payload) Float(field string) (float64, bool) {
	if !p.Has(field) {
		return 0, false
	}
	switch v := p[field].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// Bool returns the field as a bool when present and of boolean type.
func (p Payload) Bool(field string) (bool, bool) {
	if !p.Has(field) {
		return false, false
	}
	b, ok := p[field].(bool)
	return b, ok
}
