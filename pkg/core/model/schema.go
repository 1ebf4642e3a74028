package model

// FieldType is the input type of a configurable attribute
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldNumber   FieldType = "number"
	FieldSelect   FieldType = "select"
	FieldCheckbox FieldType = "checkbox"
)

// IsValid returns true for the known field types
func (t FieldType) IsValid() bool {
	switch t {
	case FieldText, FieldNumber, FieldSelect, FieldCheckbox:
		return true
	}
	return false
}

// SizeSource says where a group's capacity comes from
type SizeSource string

const (
	// SizeFromLeader takes the capacity from the leader's Size
	SizeFromLeader SizeSource = "leader"
	// SizeFromGroup takes the capacity from an explicit per-group value
	SizeFromGroup SizeSource = "group"
)

// Field describes one attribute of an entity
type Field struct {
	Key     string
	Label   string
	Type    FieldType
	Multi   bool
	Options []string
}

// SizeCap configures whether groups have a capacity and where it comes from
type SizeCap struct {
	Enabled bool
	Source  SizeSource

	// Field is the attribute key holding the leader's size when Source is leader
	Field string

	// Default applies to groups with no explicit size when Source is group
	Default *int
}

// Schema is the field configuration the core consumes. It is never
// modified by the core.
type Schema struct {
	Fields []Field

	// IdentityField is the key whose value identifies an entity (e.g. email)
	IdentityField string

	// NameField is the key used for the display name
	NameField string

	// LeaderField is a checkbox key that marks an entity as a leader
	LeaderField string

	SizeCap SizeCap
}

// Field returns the field with the given key
func (s Schema) Field(key string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// CapacityFor resolves a group's capacity. groupSize is the explicit
// per-group value, if any.
func (s Schema) CapacityFor(leader *Entity, groupSize *int) *int {
	if !s.SizeCap.Enabled {
		return nil
	}

	switch s.SizeCap.Source {
	case SizeFromLeader:
		if leader == nil {
			return copyCapacity(s.SizeCap.Default)
		}
		return copyCapacity(leader.Size)
	default:
		if groupSize != nil {
			return copyCapacity(groupSize)
		}
		return copyCapacity(s.SizeCap.Default)
	}
}
