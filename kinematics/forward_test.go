package kinematics

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/armkin/referenceframe"
	"go.viam.com/armkin/spatialmath"
)

const posEps = 1e-9

func setAngles(t *testing.T, chain *referenceframe.Chain, angles ...float64) {
	t.Helper()
	test.That(t, chain.SetAngles(referenceframe.FloatsToInputs(angles)), test.ShouldBeNil)
}

func TestEvaluateTwoLink(t *testing.T) {
	chain, err := referenceframe.NewTwoLinkChain(10, 11)
	test.That(t, err, test.ShouldBeNil)

	for _, tc := range []struct {
		name     string
		angles   []float64
		expected r3.Vector
	}{
		{"rest", []float64{0, 0, 0}, r3.Vector{X: 21}},
		{"shoulder up", []float64{0, math.Pi / 2, 0}, r3.Vector{Y: 21}},
		{"base yaw", []float64{math.Pi / 2, 0, 0}, r3.Vector{Z: 21}},
		{"elbow up", []float64{0, 0, math.Pi / 2}, r3.Vector{X: 10, Y: 11}},
		{"folded", []float64{0, 0, math.Pi}, r3.Vector{X: -1}},
		{"shoulder down", []float64{0, -math.Pi / 2, 0}, r3.Vector{Y: -21}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			setAngles(t, chain, tc.angles...)
			actual := Evaluate(chain)
			test.That(t, spatialmath.R3VectorAlmostEqual(actual, tc.expected, posEps), test.ShouldBeTrue)
		})
	}
}

func TestEvaluateDefaultArm(t *testing.T) {
	arm, err := referenceframe.NewDefaultArm(10, 11, 4)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(Evaluate(arm), r3.Vector{X: 25}, posEps), test.ShouldBeTrue)

	setAngles(t, arm, 0, 0, 0, math.Pi/2)
	test.That(t, spatialmath.R3VectorAlmostEqual(Evaluate(arm), r3.Vector{X: 21, Y: 4}, posEps), test.ShouldBeTrue)

	// a yawed base carries the whole planar arm with it
	setAngles(t, arm, math.Pi, 0, 0, math.Pi/2)
	test.That(t, spatialmath.R3VectorAlmostEqual(Evaluate(arm), r3.Vector{X: -21, Y: 4}, posEps), test.ShouldBeTrue)
}

func TestEvaluatePoses(t *testing.T) {
	arm, err := referenceframe.NewDefaultArm(10, 11, 4)
	test.That(t, err, test.ShouldBeNil)
	setAngles(t, arm, 0, math.Pi/2, 0, 0)

	poses := EvaluatePoses(arm)
	test.That(t, poses.Joints, test.ShouldHaveLength, 4)
	test.That(t, spatialmath.R3VectorAlmostEqual(poses.Joints[0].Point(), r3.Vector{}, posEps), test.ShouldBeTrue)
	test.That(t, spatialmath.R3VectorAlmostEqual(poses.Joints[2].Point(), r3.Vector{Y: 10}, posEps), test.ShouldBeTrue)
	test.That(t, spatialmath.R3VectorAlmostEqual(poses.Joints[3].Point(), r3.Vector{Y: 21}, posEps), test.ShouldBeTrue)
	test.That(t, spatialmath.R3VectorAlmostEqual(poses.EndEffector.Point(), r3.Vector{Y: 25}, posEps), test.ShouldBeTrue)

	// the elbow inherits the shoulder rotation, so its local +X now points up
	up := spatialmath.RotateVector(poses.Joints[2].Orientation(), r3.Vector{X: 1})
	test.That(t, spatialmath.R3VectorAlmostEqual(up, r3.Vector{Y: 1}, posEps), test.ShouldBeTrue)

	// evaluation reads the chain without moving it
	test.That(t, referenceframe.InputsToFloats(arm.Angles()), test.ShouldResemble, []float64{0, math.Pi / 2, 0, 0})
}

func TestEvaluateDegenerateChains(t *testing.T) {
	test.That(t, Evaluate(nil), test.ShouldResemble, r3.Vector{})

	empty, err := referenceframe.NewChain("empty", r3.Vector{X: 1}, nil, r3.Vector{Y: 2})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(Evaluate(empty), r3.Vector{X: 1, Y: 2}, posEps), test.ShouldBeTrue)
	test.That(t, EvaluatePoses(empty).Joints, test.ShouldBeEmpty)

	shifted, err := referenceframe.NewChain("shifted", r3.Vector{Y: 5}, []*referenceframe.Joint{
		referenceframe.NewJoint(referenceframe.Shoulder, referenceframe.AxisZ, r3.Vector{}),
	}, r3.Vector{X: 2})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(Evaluate(shifted), r3.Vector{X: 2, Y: 5}, posEps), test.ShouldBeTrue)
}

func TestEvaluateDeterministic(t *testing.T) {
	arm, err := referenceframe.NewDefaultArm(10, 11, 4)
	test.That(t, err, test.ShouldBeNil)
	setAngles(t, arm, 0.3, -0.7, 1.2, 0.4)
	first := Evaluate(arm)
	second := Evaluate(arm)
	test.That(t, first, test.ShouldResemble, second)
	test.That(t, first.Norm(), test.ShouldBeLessThanOrEqualTo, 25+posEps)
}
