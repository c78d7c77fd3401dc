package models

import "fmt"

// Status is a company's position in the verification workflow. The integer
// codes are persisted and must not be renumbered.
type Status int

const (
	// StatusNew is the initial state: no beneficiary recorded yet.
	StatusNew Status = 1
	// StatusBeneficiaryAdded means at least one live beneficiary exists.
	StatusBeneficiaryAdded Status = 2
	// StatusAMLCleared means an operator completed the AML check.
	StatusAMLCleared Status = 3
	// StatusVerificationRequested means a verification email went to a person.
	StatusVerificationRequested Status = 4
	// StatusFullyVerified means every live person of the company is verified.
	StatusFullyVerified Status = 5
)

func (s Status) IsValid() bool {
	return s >= StatusNew && s <= StatusFullyVerified
}

func (s Status) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusBeneficiaryAdded:
		return "beneficiary_added"
	case StatusAMLCleared:
		return "aml_cleared"
	case StatusVerificationRequested:
		return "verification_requested"
	case StatusFullyVerified:
		return "fully_verified"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}
