package constraints

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jakechorley/carpool-organizer/pkg/core/model"
)

// OverlapRule requires the member's required-or-backup tags to share at
// least one value with the tags the leader offers.
//
// For rides the leader offers its own service times, the member requires
// theirs, and backup tags are times the member could also make.
type OverlapRule struct {
	LeaderKey   string
	RequiredKey string
	BackupKey   string

	// Label names the attribute in messages (e.g. "rides")
	Label string
}

func (r OverlapRule) Name() string {
	return "Overlap(" + r.LeaderKey + ")"
}

func (r OverlapRule) Kind() Kind {
	return KindNoOverlap
}

func (r OverlapRule) Check(member, leader model.Entity) *Violation {
	return CheckScheduleOverlap(member, leader, r)
}

// CheckScheduleOverlap compares the leader's offered tags against the union
// of the member's required and backup tags
func CheckScheduleOverlap(member, leader model.Entity, rule OverlapRule) *Violation {
	offered := leader.Values(rule.LeaderKey)

	wanted := member.Values(rule.RequiredKey)
	if rule.BackupKey != "" {
		wanted = append(wanted, member.Values(rule.BackupKey)...)
	}

	for _, tag := range wanted {
		if slices.Contains(offered, tag) {
			return nil
		}
	}

	label := rule.Label
	if label == "" {
		label = rule.RequiredKey
	}
	return &Violation{
		Kind:     KindNoOverlap,
		EntityID: member.ID,
		Message:  fmt.Sprintf("%s has no overlapping %s with %s", displayName(member), label, displayName(leader)),
	}
}

// ClassificationRule requires member and leader to share a classification
// (e.g. college) unless either side declares the sentinel value.
type ClassificationRule struct {
	Key string

	// Sentinel is the "any/other" value that matches everything
	Sentinel string

	// Label names the attribute in messages (e.g. "college")
	Label string
}

func (r ClassificationRule) Name() string {
	return "Classification(" + r.Key + ")"
}

func (r ClassificationRule) Kind() Kind {
	return KindClassificationMismatch
}

func (r ClassificationRule) Check(member, leader model.Entity) *Violation {
	return CheckClassificationCompatibility(member, leader, r)
}

// CheckClassificationCompatibility passes if either side is the sentinel or
// undeclared, and fails only when both declare different values
func CheckClassificationCompatibility(member, leader model.Entity, rule ClassificationRule) *Violation {
	memberValue := member.Value(rule.Key)
	leaderValue := leader.Value(rule.Key)

	if memberValue == "" || leaderValue == "" {
		return nil
	}
	if isSentinel(memberValue, rule.Sentinel) || isSentinel(leaderValue, rule.Sentinel) {
		return nil
	}
	if memberValue == leaderValue {
		return nil
	}

	label := rule.Label
	if label == "" {
		label = rule.Key
	}
	return &Violation{
		Kind:     KindClassificationMismatch,
		EntityID: member.ID,
		Message: fmt.Sprintf("%s is from a different %s than %s (%s vs %s)",
			displayName(member), label, displayName(leader), memberValue, leaderValue),
	}
}

func isSentinel(value, sentinel string) bool {
	return sentinel != "" && strings.EqualFold(value, sentinel)
}

func displayName(e model.Entity) string {
	if e.Name != "" {
		return e.Name
	}
	return e.ID
}
