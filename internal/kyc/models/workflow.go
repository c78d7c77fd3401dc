package models

import (
	"errors"

	dErrors "kyc/pkg/domain-errors"
)

// Event is something that happened to a company's persons or beneficiaries
// and may move its status.
type Event string

const (
	EventBeneficiaryCreated    Event = "beneficiary_created"
	EventBeneficiaryDeleted    Event = "beneficiary_deleted"
	EventAMLRequested          Event = "aml_requested"
	EventVerificationRequested Event = "verification_requested"
	EventPersonVerified        Event = "person_verified"
	EventPersonAdded           Event = "person_added"
)

// ErrAlreadyDone is returned for a manual transition the company has already
// gone past. Callers treat it as a successful no-op.
var ErrAlreadyDone = errors.New("transition already applied")

// Facts are observations of the company's live (non-deleted) persons and
// beneficiaries. They must be read under the company lock, after the write
// that triggered the event.
type Facts struct {
	LiveBeneficiaries int
	LivePersons       int
	UnverifiedPersons int
}

// Transition is the outcome of evaluating one event.
type Transition struct {
	From  Status
	To    Status
	Event Event
}

// Changed reports whether the transition moves the company.
func (t Transition) Changed() bool {
	return t.From != t.To
}

// Next evaluates ev against the current status and facts. It never touches
// storage. An unchanged Transition with a nil error means the event does not
// apply at this stage.
//
//	1 --beneficiary created-------------------------> 2
//	2 --AML requested (>=1 live beneficiary)--------> 3
//	3 --verification email sent---------------------> 4
//	4 --person verified, no unverified persons left-> 5
//	5 --person added--------------------------------> 4
//	* --last live beneficiary deleted---------------> 1
func Next(from Status, ev Event, f Facts) (Transition, error) {
	t := Transition{From: from, To: from, Event: ev}
	if !from.IsValid() {
		return t, dErrors.Newf(dErrors.CodeInvariantViolation, "company status %d is outside the workflow", int(from))
	}

	switch ev {
	case EventBeneficiaryCreated:
		if from == StatusNew {
			t.To = StatusBeneficiaryAdded
		}

	case EventBeneficiaryDeleted:
		if f.LiveBeneficiaries == 0 {
			t.To = StatusNew
		}

	case EventAMLRequested:
		if f.LiveBeneficiaries == 0 {
			return t, dErrors.New(dErrors.CodePreconditionFailed, "company has no beneficiaries")
		}
		switch {
		case from == StatusBeneficiaryAdded:
			t.To = StatusAMLCleared
		case from > StatusBeneficiaryAdded:
			return t, ErrAlreadyDone
		default:
			return t, dErrors.New(dErrors.CodePreconditionFailed, "company has not reached the beneficiary stage")
		}

	case EventVerificationRequested:
		if from == StatusAMLCleared {
			t.To = StatusVerificationRequested
		}

	case EventPersonVerified:
		if from == StatusVerificationRequested && f.LivePersons > 0 && f.UnverifiedPersons == 0 {
			t.To = StatusFullyVerified
		}

	case EventPersonAdded:
		if from == StatusFullyVerified {
			t.To = StatusVerificationRequested
		}

	default:
		return t, dErrors.Newf(dErrors.CodeInvariantViolation, "unknown workflow event %q", ev)
	}
	return t, nil
}
