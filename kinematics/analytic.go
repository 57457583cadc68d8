package kinematics

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/armkin/referenceframe"
	"go.viam.com/armkin/utils"
)

var (
	// ErrUnreachable is returned when a target lies outside the annulus a two-link arm can reach.
	ErrUnreachable = errors.New("target is out of reach")
	// ErrInvalidLinkLength is returned when a link length is not a positive finite number.
	ErrInvalidLinkLength = errors.New("link lengths must be positive and finite")
)

// TwoLinkSolution holds the joint angles, in radians, of a two-link solve.
type TwoLinkSolution struct {
	Base     float64
	Shoulder float64
	Elbow    float64
}

// Inputs returns the solution as base, shoulder, elbow inputs.
func (s TwoLinkSolution) Inputs() []referenceframe.Input {
	return referenceframe.FloatsToInputs([]float64{s.Base, s.Shoulder, s.Elbow})
}

// EndEffector recomputes where the solution places the end effector using the planar forward trigonometry
// of the two links, lifted back out of the base yaw plane. It is a readout only.
func (s TwoLinkSolution) EndEffector(l1, l2 float64) r3.Vector {
	planarX := l1*math.Cos(s.Shoulder) + l2*math.Cos(s.Shoulder+s.Elbow)
	planarY := l1*math.Sin(s.Shoulder) + l2*math.Sin(s.Shoulder+s.Elbow)
	return r3.Vector{X: planarX * math.Cos(s.Base), Y: planarY, Z: planarX * math.Sin(s.Base)}
}

// SolveTwoLink computes, in closed form, the base yaw and the shoulder and elbow angles that place the tip of a
// two-link arm with link lengths l1 and l2 at target. Y is up; the base yaws so the arm's vertical plane
// contains the target, and the links then solve the planar triangle.
//
// Of the two elbow solutions only the non-negative one is returned. Targets farther than l1+l2 or closer than
// |l1-l2| return an error wrapping ErrUnreachable.
func SolveTwoLink(target r3.Vector, l1, l2 float64) (TwoLinkSolution, error) {
	if !(l1 > 0) || !(l2 > 0) || !utils.IsFinite(l1) || !utils.IsFinite(l2) {
		return TwoLinkSolution{}, errors.Wrapf(ErrInvalidLinkLength, "got %v and %v", l1, l2)
	}
	if !utils.IsFinite(target.X) || !utils.IsFinite(target.Y) || !utils.IsFinite(target.Z) {
		return TwoLinkSolution{}, errors.Errorf("target %v is not finite", target)
	}

	base := math.Atan2(target.Z, target.X)
	planarX := math.Hypot(target.X, target.Z)
	dist := math.Hypot(planarX, target.Y)

	// must precede the acos below, whose argument is only in range for reachable targets
	if dist > l1+l2 || dist < math.Abs(l1-l2) {
		return TwoLinkSolution{}, errors.Wrapf(ErrUnreachable,
			"distance %.4f is outside [%.4f, %.4f]", dist, math.Abs(l1-l2), l1+l2)
	}

	cosElbow := (dist*dist - l1*l1 - l2*l2) / (2 * l1 * l2)
	elbow := math.Acos(utils.Clamp(cosElbow, -1, 1))

	// beta is the interior angle at the shoulder between the first link and the line to the target. By the law of
	// sines it equals asin(l2*sin(elbow)/dist); the atan2 form stays on the right branch when the elbow folds
	// past a right angle and when dist is zero.
	alpha := math.Atan2(target.Y, planarX)
	beta := math.Atan2(l2*math.Sin(elbow), l1+l2*math.Cos(elbow))

	return TwoLinkSolution{Base: base, Shoulder: alpha - beta, Elbow: elbow}, nil
}

// ApplyTwoLink writes a two-link solution into a chain. A chain of three or more joints must start with base,
// shoulder and elbow; those are driven and any further joint (the wrist) keeps its angle. A two joint chain must
// be a planar shoulder and elbow and cannot take a base yaw.
func ApplyTwoLink(chain *referenceframe.Chain, sol TwoLinkSolution) error {
	if chain == nil {
		return errors.New("chain cannot be nil")
	}
	ids := []referenceframe.JointID{referenceframe.Base, referenceframe.Shoulder, referenceframe.Elbow}
	targets := []float64{sol.Base, sol.Shoulder, sol.Elbow}
	switch n := chain.Len(); {
	case n < 2:
		return referenceframe.NewChainTooShortError(n, 2)
	case n == 2:
		if !utils.Float64AlmostEqual(sol.Base, 0, 1e-9) {
			return errors.Errorf("a two joint chain cannot yaw its base to %.4f rad, use a chain with a base joint", sol.Base)
		}
		ids, targets = ids[1:], targets[1:]
	}

	for i, id := range ids {
		if _, err := chain.JointByID(id); err != nil {
			return errors.Wrap(err, "cannot apply two-link solution")
		}
		if got := chain.Joint(i).ID(); got != id {
			return errors.Errorf("cannot apply two-link solution: joint %d of chain %q is %q, expected %q", i, chain.Name(), got, id)
		}
	}

	angles := referenceframe.InputsToFloats(chain.Angles())
	copy(angles, targets)
	return chain.SetAngles(referenceframe.FloatsToInputs(angles))
}

// SolveTwoLinkChain solves for target with SolveTwoLink and, if reachable, applies the angles to chain.
// On error the chain is left untouched.
func SolveTwoLinkChain(chain *referenceframe.Chain, target r3.Vector, l1, l2 float64) (TwoLinkSolution, error) {
	sol, err := SolveTwoLink(target, l1, l2)
	if err != nil {
		return TwoLinkSolution{}, err
	}
	if err := ApplyTwoLink(chain, sol); err != nil {
		return TwoLinkSolution{}, err
	}
	return sol, nil
}
