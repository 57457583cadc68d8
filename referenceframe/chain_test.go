package referenceframe

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"
)

type fakeProvider struct {
	axis  Axis
	angle float64
	calls int
}

func (fp *fakeProvider) WorldPosition() r3.Vector {
	return r3.Vector{}
}

func (fp *fakeProvider) WorldRotation() quat.Number {
	return quat.Number{Real: 1}
}

func (fp *fakeProvider) SetLocalAngle(axis Axis, angle float64) {
	fp.axis = axis
	fp.angle = angle
	fp.calls++
}

func TestNewChainValidation(t *testing.T) {
	_, err := NewChain("bad", r3.Vector{}, []*Joint{
		NewJoint(Elbow, AxisZ, r3.Vector{}),
		NewJoint(Shoulder, AxisZ, r3.Vector{}),
	}, r3.Vector{})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "ordered from base to wrist")

	_, err = NewChain("dup", r3.Vector{}, []*Joint{
		NewJoint(Shoulder, AxisZ, r3.Vector{}),
		NewJoint(Shoulder, AxisZ, r3.Vector{}),
	}, r3.Vector{})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "more than once")

	_, err = NewChain("nil", r3.Vector{}, []*Joint{nil}, r3.Vector{})
	test.That(t, err, test.ShouldNotBeNil)

	empty, err := NewChain("empty", r3.Vector{X: 1}, nil, r3.Vector{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, empty.Len(), test.ShouldEqual, 0)
	test.That(t, empty.Angles(), test.ShouldBeEmpty)
}

func TestDefaultArm(t *testing.T) {
	arm, err := NewDefaultArm(10, 11, 4)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, arm.Len(), test.ShouldEqual, 4)
	for i, id := range AllJoints {
		test.That(t, arm.Joint(i).ID(), test.ShouldEqual, id)
	}
	test.That(t, arm.Joint(0).Axis(), test.ShouldEqual, AxisNegY)
	test.That(t, arm.Joint(2).Offset(), test.ShouldResemble, r3.Vector{X: 10})
	test.That(t, arm.EndEffector(), test.ShouldResemble, r3.Vector{X: 4})
}

func TestSetAngles(t *testing.T) {
	arm, err := NewDefaultArm(10, 11, 4)
	test.That(t, err, test.ShouldBeNil)

	err = arm.SetAngles(FloatsToInputs([]float64{0.1, 0.2}))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, NewIncorrectDoFError(2, 4).Error())

	err = arm.SetAngles(FloatsToInputs([]float64{0.1, 0.2, math.NaN(), 0.4}))
	test.That(t, err, test.ShouldNotBeNil)
	// a rejected update leaves every angle untouched
	test.That(t, InputsToFloats(arm.Angles()), test.ShouldResemble, []float64{0, 0, 0, 0})

	err = arm.SetAngles(FloatsToInputs([]float64{0.1, 0.2, 0.3, 0.4}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, InputsToFloats(arm.Angles()), test.ShouldResemble, []float64{0.1, 0.2, 0.3, 0.4})

	test.That(t, arm.SetAngle(Elbow, -1.5), test.ShouldBeNil)
	j, err := arm.JointByID(Elbow)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, j.Angle(), test.ShouldEqual, -1.5)

	twoLink, err := NewTwoLinkChain(10, 11)
	test.That(t, err, test.ShouldBeNil)
	err = twoLink.SetAngle(Wrist, 1)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "not part of the chain")
}

func TestBindProvider(t *testing.T) {
	arm, err := NewDefaultArm(10, 11, 4)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, arm.SetAngle(Shoulder, 0.5), test.ShouldBeNil)

	fp := &fakeProvider{}
	test.That(t, arm.Bind(Shoulder, fp), test.ShouldBeNil)
	test.That(t, fp.calls, test.ShouldEqual, 1)
	test.That(t, fp.axis, test.ShouldEqual, AxisZ)
	test.That(t, fp.angle, test.ShouldEqual, 0.5)

	test.That(t, arm.SetAngles(FloatsToInputs([]float64{0, 0.25, 0, 0})), test.ShouldBeNil)
	test.That(t, fp.calls, test.ShouldEqual, 2)
	test.That(t, fp.angle, test.ShouldEqual, 0.25)

	clone := arm.Clone()
	test.That(t, clone.Joint(1).Provider(), test.ShouldBeNil)
	test.That(t, clone.SetAngle(Shoulder, 1), test.ShouldBeNil)
	test.That(t, fp.angle, test.ShouldEqual, 0.25)
	test.That(t, arm.Joint(1).Angle(), test.ShouldEqual, 0.25)
}

func TestParseNames(t *testing.T) {
	id, err := ParseJointID(" Elbow ")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, id, test.ShouldEqual, Elbow)
	_, err = ParseJointID("knee")
	test.That(t, err, test.ShouldNotBeNil)

	axis, err := ParseAxis("-Y")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, axis, test.ShouldEqual, AxisNegY)
	test.That(t, axis.Vector(), test.ShouldResemble, r3.Vector{Y: -1})
	_, err = ParseAxis("w")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestChainString(t *testing.T) {
	arm, err := NewDefaultArm(10, 11, 4)
	test.That(t, err, test.ShouldBeNil)
	s := arm.String()
	test.That(t, s, test.ShouldContainSubstring, "shoulder")
	test.That(t, s, test.ShouldContainSubstring, "X:10.00, Y:0.00, Z:0.00")
}
