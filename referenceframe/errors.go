package referenceframe

import (
	"github.com/pkg/errors"
)

// ErrNoChainInformation is used when there is no chain information to parse.
var ErrNoChainInformation = errors.New("no chain information")

// NewIncorrectDoFError returns an error indicating that the length of an input slice does not match the joint count
// of the chain.
func NewIncorrectDoFError(actual, expected int) error {
	return errors.Errorf("number of inputs does not match chain joint count, expected %d but got %d", expected, actual)
}

// NewChainTooShortError is returned when a chain has fewer joints than an operation needs.
func NewChainTooShortError(actual, required int) error {
	return errors.Errorf("chain has %d joints but at least %d are required", actual, required)
}

// NewJointOrderError is returned when joints are not supplied in base to wrist order.
func NewJointOrderError(previous, next JointID) error {
	return errors.Errorf("joint %q cannot follow joint %q, joints must be ordered from base to wrist", next, previous)
}

// NewDuplicateJointError is returned when the same joint appears twice in a chain.
func NewDuplicateJointError(id JointID) error {
	return errors.Errorf("joint %q appears more than once in the chain", id)
}

// NewJointMissingError is returned when a joint is not part of a chain.
func NewJointMissingError(id JointID) error {
	return errors.Errorf("joint %q is not part of the chain", id)
}

// NewUnknownJointError is returned when a name does not parse as a joint identifier.
func NewUnknownJointError(name string) error {
	return errors.Errorf("unknown joint %q, expected one of base, shoulder, elbow, wrist", name)
}

// NewUnknownAxisError is returned when a name does not parse as a principal axis.
func NewUnknownAxisError(name string) error {
	return errors.Errorf("unknown axis %q, expected one of x, y, z, -x, -y, -z", name)
}
