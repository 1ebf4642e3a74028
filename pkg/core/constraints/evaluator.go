package constraints

import (
	"fmt"
	"strings"

	"github.com/jakechorley/carpool-organizer/pkg/core/model"
)

const defaultMemberNoun = "members"

// Evaluator decides whether members fit their groups and explains why not.
// It only reads the collections it is given.
type Evaluator struct {
	rules      []Rule
	memberNoun string
}

// NewEvaluator creates an evaluator applying rules to every member.
// memberNoun is used in capacity warnings (e.g. "passengers").
func NewEvaluator(memberNoun string, rules ...Rule) *Evaluator {
	if memberNoun == "" {
		memberNoun = defaultMemberNoun
	}
	return &Evaluator{
		rules:      rules,
		memberNoun: memberNoun,
	}
}

// Rules returns the configured rules
func (e *Evaluator) Rules() []Rule {
	return e.rules
}

// CheckCapacity returns a violation if adding batch more members would not
// fit. A batch of 1 is the ordinary single add. Pass batch 0 to check the
// group's current membership.
func (e *Evaluator) CheckCapacity(group model.Group, batch int) *Violation {
	return checkCapacity(group, batch, e.memberNoun)
}

// CheckCapacity is CheckCapacity on an evaluator with the default noun
func CheckCapacity(group model.Group, batch int) *Violation {
	return checkCapacity(group, batch, defaultMemberNoun)
}

func checkCapacity(group model.Group, batch int, noun string) *Violation {
	if group.Capacity == nil {
		return nil
	}

	if batch > 0 {
		if group.HasRoom(batch) {
			return nil
		}
		return &Violation{
			Kind:    KindCapacityExceeded,
			GroupID: group.ID,
			Message: fmt.Sprintf("NOT ENOUGH ROOM FOR %d %s (%d/%d)",
				batch, strings.ToUpper(noun), group.MemberCount(), *group.Capacity),
		}
	}

	if group.MemberCount() <= *group.Capacity {
		return nil
	}
	return &Violation{
		Kind:    KindCapacityExceeded,
		GroupID: group.ID,
		Message: fmt.Sprintf("TOO MANY %s (%d/%d)", strings.ToUpper(noun), group.MemberCount(), *group.Capacity),
	}
}

// CheckNotAlreadyLeaderElsewhere returns a violation if candidateID leads any group
func CheckNotAlreadyLeaderElsewhere(candidateID string, groups []model.Group) *Violation {
	if candidateID == "" {
		return nil
	}
	for _, g := range groups {
		if g.LeaderID() == candidateID {
			return &Violation{
				Kind:     KindAlreadyLeader,
				GroupID:  g.ID,
				EntityID: candidateID,
				Message:  fmt.Sprintf("%s already leads %s", candidateID, g.ID),
			}
		}
	}
	return nil
}

// CheckNotAlreadyMember returns a violation if candidateID is already in group
func CheckNotAlreadyMember(candidateID string, group model.Group) *Violation {
	if !group.HasMember(candidateID) {
		return nil
	}
	return &Violation{
		Kind:     KindAlreadyMember,
		GroupID:  group.ID,
		EntityID: candidateID,
		Message:  fmt.Sprintf("%s is already in %s", candidateID, group.ID),
	}
}

// CheckMember runs every rule for member against leader. Each violation
// kind is reported at most once.
func (e *Evaluator) CheckMember(member, leader model.Entity) []Violation {
	var violations []Violation
	seen := make(map[Kind]bool)

	for _, rule := range e.rules {
		if seen[rule.Kind()] {
			continue
		}
		if v := rule.Check(member, leader); v != nil {
			seen[rule.Kind()] = true
			violations = append(violations, *v)
		}
	}

	return violations
}

// ValidateGroup returns every warning for the group's current state: the
// capacity violation first, then per-member violations in member order.
// An empty result means the group is valid. It has no side effects.
func (e *Evaluator) ValidateGroup(group model.Group, directory model.Directory) []Violation {
	var violations []Violation

	if v := e.CheckCapacity(group, 0); v != nil {
		violations = append(violations, *v)
	}

	leader, hasLeader := e.resolveLeader(group, directory)
	if group.Leader != nil && !hasLeader {
		violations = append(violations, Violation{
			Kind:     KindMissingRecord,
			GroupID:  group.ID,
			EntityID: group.LeaderID(),
			Message:  fmt.Sprintf("%s leader %s not found", model.PlaceholderName, group.LeaderID()),
		})
	}

	for _, memberID := range group.Members() {
		member, ok := directory.Lookup(memberID)
		if !ok {
			violations = append(violations, Violation{
				Kind:     KindMissingRecord,
				GroupID:  group.ID,
				EntityID: memberID,
				Message:  fmt.Sprintf("%s member %s not found", model.PlaceholderName, memberID),
			})
			continue
		}

		// Nothing to compare against for leaderless groups or missing leaders
		if !hasLeader {
			continue
		}

		for _, v := range e.CheckMember(member, leader) {
			v.GroupID = group.ID
			violations = append(violations, v)
		}
	}

	return violations
}

// resolveLeader looks the leader up in the directory rather than trusting
// the copy stored on the group, so edits are compared immediately
func (e *Evaluator) resolveLeader(group model.Group, directory model.Directory) (model.Entity, bool) {
	if group.Leader == nil {
		return model.Entity{}, false
	}
	leader, ok := directory[group.LeaderID()]
	return leader, ok
}

// ValidateAll validates groups in order and returns the warnings of the
// invalid ones keyed by group ID
func (e *Evaluator) ValidateAll(groups []model.Group, directory model.Directory) map[string][]Violation {
	invalid := make(map[string][]Violation)
	for _, g := range groups {
		if violations := e.ValidateGroup(g, directory); len(violations) > 0 {
			invalid[g.ID] = violations
		}
	}
	return invalid
}

// Admit is the gate consulted before dropping candidates into target.
// It rejects leaders and existing members and checks the batch fits.
// Rule checks are left to ValidateGroup after the drop.
func (e *Evaluator) Admit(candidateIDs []string, target model.Group, groups []model.Group) []Violation {
	var violations []Violation
	incoming := 0

	for _, id := range candidateIDs {
		if v := CheckNotAlreadyLeaderElsewhere(id, groups); v != nil {
			violations = append(violations, *v)
			continue
		}
		if v := CheckNotAlreadyMember(id, target); v != nil {
			violations = append(violations, *v)
			continue
		}
		incoming++
	}

	if incoming == 0 {
		return violations
	}
	if v := e.CheckCapacity(target, incoming); v != nil {
		violations = append(violations, *v)
	}

	return violations
}
