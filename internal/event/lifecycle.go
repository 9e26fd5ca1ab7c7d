package event

import (
	"fmt"

	errors "github.com/frahmantamala/campus-ops/internal"
)

type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusSubmitted Status = "SUBMITTED"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusPublished Status = "PUBLISHED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusRejected, StatusPublished:
		return true
	}
	return false
}

// Terminal reports whether no action leaves s.
func (s Status) Terminal() bool {
	return len(AllowedActions(s)) == 0
}

type Action string

const (
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionPublish Action = "publish"
)

type transitionKey struct {
	from   Status
	action Action
}

var transitions = map[transitionKey]Status{
	{StatusDraft, ActionSubmit}:      StatusSubmitted,
	{StatusSubmitted, ActionApprove}: StatusApproved,
	{StatusSubmitted, ActionReject}:  StatusRejected,
	{StatusApproved, ActionPublish}:  StatusPublished,
}

var transitionErrors = map[Action]string{
	ActionSubmit:  "Only DRAFT events can be submitted.",
	ActionApprove: "Only SUBMITTED events can be reviewed.",
	ActionReject:  "Only SUBMITTED events can be reviewed.",
	ActionPublish: "Only APPROVED events can be published.",
}

// Transition is the one place event status changes are decided.
func Transition(from Status, action Action) (Status, error) {
	if to, ok := transitions[transitionKey{from, action}]; ok {
		return to, nil
	}
	if msg, ok := transitionErrors[action]; ok {
		return from, errors.NewInvalidTransitionError(msg)
	}
	return from, errors.NewValidationError(fmt.Sprintf("Unknown event action %q.", action), errors.ErrCodeValidationFailed)
}

// AllowedActions lists the actions valid from s, in table order.
func AllowedActions(s Status) []Action {
	var out []Action
	for _, a := range []Action{ActionSubmit, ActionApprove, ActionReject, ActionPublish} {
		if _, ok := transitions[transitionKey{s, a}]; ok {
			out = append(out, a)
		}
	}
	return out
}
