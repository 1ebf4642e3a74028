package model

import (
	"maps"
	"slices"
	"strings"
)

// PlaceholderName is displayed for records that are referenced but missing
const PlaceholderName = "!ERROR!"

// Entity is a person on the roster. Leaders (drivers) own a group and
// contribute its capacity; everyone else is assignable into a group.
type Entity struct {
	ID     string
	Name   string
	Leader bool

	// Size is the leader's capacity (e.g. seats). nil means unlimited.
	Size *int

	Notes string

	// Attributes are keyed by schema field key. Single-valued fields hold
	// one element.
	Attributes map[string][]string
}

// Placeholder returns a stand-in record for an ID that could not be found
func Placeholder(id string) Entity {
	return Entity{ID: id, Name: PlaceholderName}
}

// IsPlaceholder reports whether e was produced by Placeholder
func (e Entity) IsPlaceholder() bool {
	return e.Name == PlaceholderName && len(e.Attributes) == 0
}

// Values returns the entity's values for a field key, trimmed and without
// duplicates or blanks. The result is a fresh slice.
func (e Entity) Values(key string) []string {
	raw := e.Attributes[key]
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		v = strings.TrimSpace(v)
		if v == "" || slices.Contains(values, v) {
			continue
		}
		values = append(values, v)
	}
	return values
}

// Value returns the first value for a field key, or "" if there is none
func (e Entity) Value(key string) string {
	values := e.Values(key)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Equal compares two entities by value
func (e Entity) Equal(other Entity) bool {
	if e.ID != other.ID || e.Name != other.Name || e.Leader != other.Leader || e.Notes != other.Notes {
		return false
	}
	if !IntPtrEqual(e.Size, other.Size) {
		return false
	}
	return maps.EqualFunc(e.Attributes, other.Attributes, slices.Equal[[]string])
}

// Clone returns a deep copy so callers can edit without aliasing
func (e Entity) Clone() Entity {
	c := e
	if e.Size != nil {
		size := *e.Size
		c.Size = &size
	}
	if e.Attributes != nil {
		c.Attributes = make(map[string][]string, len(e.Attributes))
		for k, v := range e.Attributes {
			c.Attributes[k] = slices.Clone(v)
		}
	}
	return c
}

// Directory holds the stored copy of every known entity keyed by ID
type Directory map[string]Entity

// Lookup returns the entity for id, or a placeholder and false when missing
func (d Directory) Lookup(id string) (Entity, bool) {
	e, ok := d[id]
	if !ok {
		return Placeholder(id), false
	}
	return e, true
}

// Clone returns a shallow copy of the directory map
func (d Directory) Clone() Directory {
	return maps.Clone(d)
}

// IntPtr is a convenience for building capacities
func IntPtr(n int) *int {
	return &n
}

// IntPtrEqual compares two optional sizes or capacities by value
func IntPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
