package constraints

import "github.com/jakechorley/carpool-organizer/pkg/core/model"

// Kind identifies the class of a violation
type Kind string

const (
	KindCapacityExceeded       Kind = "CAPACITY_EXCEEDED"
	KindNoOverlap              Kind = "NO_OVERLAP"
	KindClassificationMismatch Kind = "CLASSIFICATION_MISMATCH"
	KindAlreadyLeader          Kind = "ALREADY_LEADER"
	KindAlreadyMember          Kind = "ALREADY_MEMBER"
	KindMissingRecord          Kind = "MISSING_RECORD"
)

// Violation describes a single broken constraint. Violations are data:
// they are shown as warnings and never stop an assignment from happening.
type Violation struct {
	Kind Kind

	// GroupID is the group the violation was found in (may be empty)
	GroupID string

	// EntityID is the member or candidate at fault (empty for group-level violations)
	EntityID string

	// Message is the human-readable warning
	Message string
}

func (v Violation) String() string {
	return v.Message
}

// Messages returns the message of each violation in order
func Messages(violations []Violation) []string {
	messages := make([]string, len(violations))
	for i, v := range violations {
		messages[i] = v.Message
	}
	return messages
}

// Rule is a member-versus-leader compatibility check
type Rule interface {
	// Name returns a human-readable identifier for this rule
	Name() string

	// Kind returns the violation kind this rule produces
	Kind() Kind

	// Check returns a violation if member may not ride with leader, nil otherwise
	Check(member, leader model.Entity) *Violation
}
