package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/dualquat"
	"gonum.org/v1/gonum/num/quat"
)

// Pose represents a 6dof pose, position and orientation, with respect to the origin.
// The Point() method returns the position in (x,y,z) and the Orientation() method returns the rotation
// as a unit quaternion.
type Pose interface {
	Point() r3.Vector
	Orientation() quat.Number
}

// NewZeroPose returns a pose at (0,0,0) with the identity orientation.
func NewZeroPose() Pose {
	return newDualQuaternion()
}

// NewPoseFromPoint takes in a cartesian (x,y,z) and stores it as a vector.
// It will have the same orientation as the frame it is in.
func NewPoseFromPoint(point r3.Vector) Pose {
	return newDualQuaternionFromPose(point, NewZeroOrientation())
}

// NewPoseFromOrientation takes in a rotation and returns a pose that only rotates.
func NewPoseFromOrientation(o quat.Number) Pose {
	return newDualQuaternionFromPose(r3.Vector{}, o)
}

// NewPose takes in a position and orientation and returns a Pose.
// The point is applied in the parent frame, followed by the rotation.
func NewPose(point r3.Vector, o quat.Number) Pose {
	return newDualQuaternionFromPose(point, o)
}

// Compose treats Poses as functions A(x) and B(x), and produces a new function C(x) = A(B(x)).
// It converts the poses to dual quaternions and multiplies them together, normalizes the transform and returns it.
// Order matters: A is the parent frame and B the child expressed in A.
func Compose(a, b Pose) Pose {
	result := &dualQuaternion{dualquat.Mul(dualQuaternionFromPose(a).Number, dualQuaternionFromPose(b).Number)}
	// Normalization
	if vecLen := quat.Abs(result.Real); vecLen != 1 {
		result.Real = quat.Scale(1/vecLen, result.Real)
	}
	return result
}

// PoseAlmostEqual will return a bool describing whether 2 poses are approximately the same.
func PoseAlmostEqual(a, b Pose) bool {
	return PoseAlmostEqualEps(a, b, 1e-6)
}

// PoseAlmostEqualEps will return a bool describing whether 2 poses are approximately the same with a given epsilon
// for the translation.
func PoseAlmostEqualEps(a, b Pose, epsilon float64) bool {
	return R3VectorAlmostEqual(a.Point(), b.Point(), epsilon) && OrientationAlmostEqual(a.Orientation(), b.Orientation())
}

// PoseToString returns a human readable representation of a pose.
func PoseToString(p Pose) string {
	pt := p.Point()
	aa := QuatToR4AA(p.Orientation())
	return fmt.Sprintf(
		"{X:%.2f Y:%.2f Z:%.2f Th:%.3f RX:%.3f RY:%.3f RZ:%.3f}",
		pt.X, pt.Y, pt.Z, aa.Theta, aa.RX, aa.RY, aa.RZ,
	)
}

// dualQuaternion defines functions to perform rigid transformations in 3D.
// If you find yourself importing gonum.org/v1/gonum/num/dualquat in some other package,
// you should probably be using these instead.
type dualQuaternion struct {
	dualquat.Number
}

// newDualQuaternion returns a pointer to a new dualQuaternion object whose Quaternion is an identity Quaternion.
// Since the real part of a dual quaternion should be a unit quaternion, not all zeroes, this should be used
// instead of &dualQuaternion{}.
func newDualQuaternion() *dualQuaternion {
	return &dualQuaternion{dualquat.Number{
		Real: quat.Number{Real: 1},
		Dual: quat.Number{},
	}}
}

// newDualQuaternionFromPose takes a translation and a rotation and produces the dual quaternion that first
// translates, then rotates.
func newDualQuaternionFromPose(point r3.Vector, o quat.Number) *dualQuaternion {
	q := &dualQuaternion{}
	q.Real = Normalize(o)
	q.SetTranslation(point)
	return q
}

// dualQuaternionFromPose converts any Pose to a dualQuaternion, avoiding the conversion when possible.
func dualQuaternionFromPose(p Pose) *dualQuaternion {
	if q, ok := p.(*dualQuaternion); ok {
		return q
	}
	return newDualQuaternionFromPose(p.Point(), p.Orientation())
}

// Point multiplies the dual quaternion by its own conjugate to give a dq where the real is the identity quat,
// and the dual is representative of real world translation.
func (q *dualQuaternion) Point() r3.Vector {
	tQuat := dualquat.Mul(q.Number, dualquat.Conj(q.Number)).Dual
	return r3.Vector{X: tQuat.Imag, Y: tQuat.Jmag, Z: tQuat.Kmag}
}

// Orientation returns the rotation quaternion.
func (q *dualQuaternion) Orientation() quat.Number {
	return q.Real
}

// SetTranslation correctly sets the translation quaternion against the rotation.
func (q *dualQuaternion) SetTranslation(pt r3.Vector) {
	q.Dual = quat.Number{Real: 0, Imag: pt.X / 2, Jmag: pt.Y / 2, Kmag: pt.Z / 2}
	q.rotate()
}

// rotate multiplies the dual part of the quaternion by the real part give the correct rotation.
func (q *dualQuaternion) rotate() {
	q.Dual = quat.Mul(q.Dual, q.Real)
}
