// Package referenceframe defines the kinematic chain of a serial arm: its joints, the axis each joint
// rotates about, and the fixed offsets between them. It holds state only; the math of evaluating and
// solving a chain lives in the kinematics package.
package referenceframe

import (
	"strings"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/armkin/spatialmath"
)

// JointID names a joint of the arm. Values are ordered from the base outwards.
type JointID int

// The joints of the arm, proximal to distal.
const (
	Base JointID = iota
	Shoulder
	Elbow
	Wrist
)

var jointNames = [...]string{"base", "shoulder", "elbow", "wrist"}

// AllJoints lists every joint of the full arm in chain order.
var AllJoints = []JointID{Base, Shoulder, Elbow, Wrist}

func (id JointID) String() string {
	if id < Base || id > Wrist {
		return "unknown"
	}
	return jointNames[id]
}

// ParseJointID converts a joint name to a JointID.
func ParseJointID(name string) (JointID, error) {
	for i, n := range jointNames {
		if strings.EqualFold(strings.TrimSpace(name), n) {
			return JointID(i), nil
		}
	}
	return 0, NewUnknownJointError(name)
}

// MarshalText implements encoding.TextMarshaler.
func (id JointID) MarshalText() ([]byte, error) {
	if id < Base || id > Wrist {
		return nil, NewUnknownJointError(id.String())
	}
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *JointID) UnmarshalText(text []byte) error {
	parsed, err := ParseJointID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Axis is one of the principal local axes, in either direction, that a revolute joint rotates about.
type Axis int

// Principal axes. The negated axes let a joint follow a left-handed angle convention about a principal
// direction, e.g. a Y-up base whose yaw matches atan2(z, x).
const (
	AxisX Axis = iota
	AxisY
	AxisZ
	AxisNegX
	AxisNegY
	AxisNegZ
)

var axisNames = [...]string{"x", "y", "z", "-x", "-y", "-z"}

func (a Axis) String() string {
	if a < AxisX || a > AxisNegZ {
		return "unknown"
	}
	return axisNames[a]
}

// Vector returns the unit vector of the axis.
func (a Axis) Vector() r3.Vector {
	switch a {
	case AxisX:
		return r3.Vector{X: 1}
	case AxisY:
		return r3.Vector{Y: 1}
	case AxisZ:
		return r3.Vector{Z: 1}
	case AxisNegX:
		return r3.Vector{X: -1}
	case AxisNegY:
		return r3.Vector{Y: -1}
	case AxisNegZ:
		return r3.Vector{Z: -1}
	default:
		return r3.Vector{}
	}
}

// Rotation returns the rotation of angle radians about the axis.
func (a Axis) Rotation(angle float64) quat.Number {
	return spatialmath.NewR4AAFromAxis(a.Vector(), angle).ToQuat()
}

// ParseAxis converts an axis name such as "z" or "-y" to an Axis.
func ParseAxis(name string) (Axis, error) {
	for i, n := range axisNames {
		if strings.EqualFold(strings.TrimSpace(name), n) {
			return Axis(i), nil
		}
	}
	return 0, NewUnknownAxisError(name)
}

// MarshalText implements encoding.TextMarshaler.
func (a Axis) MarshalText() ([]byte, error) {
	if a < AxisX || a > AxisNegZ {
		return nil, NewUnknownAxisError(a.String())
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Axis) UnmarshalText(text []byte) error {
	parsed, err := ParseAxis(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// TransformProvider is the capability a host display layer offers for one joint: where the joint currently
// sits in the world, and a way to drive its local angle. The engine only calls SetLocalAngle, on every angle
// change; WorldPosition and WorldRotation serve the host, which reads its own display transforms back through
// them and can check them against kinematics.EvaluatePoses. The engine never depends on a concrete graphics type.
type TransformProvider interface {
	WorldPosition() r3.Vector
	WorldRotation() quat.Number
	SetLocalAngle(axis Axis, angle float64)
}

// Joint is a single revolute joint of a chain.
type Joint struct {
	id       JointID
	axis     Axis
	offset   r3.Vector
	angle    float64
	provider TransformProvider
}

// NewJoint creates a joint rotating about axis. The offset is the translation from the parent joint's origin
// (or from the chain origin, for the first joint) to this joint's origin, expressed in the parent's frame.
func NewJoint(id JointID, axis Axis, offset r3.Vector) *Joint {
	return &Joint{id: id, axis: axis, offset: offset}
}

// ID returns the joint identifier.
func (j *Joint) ID() JointID {
	return j.id
}

// Axis returns the axis the joint rotates about.
func (j *Joint) Axis() Axis {
	return j.axis
}

// Offset returns the translation from the parent joint to this one.
func (j *Joint) Offset() r3.Vector {
	return j.offset
}

// Angle returns the current joint angle in radians.
func (j *Joint) Angle() float64 {
	return j.angle
}

// Provider returns the bound host transform, or nil.
func (j *Joint) Provider() TransformProvider {
	return j.provider
}

// LocalPose is the pose of this joint relative to its parent: the fixed offset followed by the rotation about
// the joint axis by the current angle.
func (j *Joint) LocalPose() spatialmath.Pose {
	return spatialmath.NewPose(j.offset, j.axis.Rotation(j.angle))
}

func (j *Joint) setAngle(angle float64) {
	j.angle = angle
	if j.provider != nil {
		j.provider.SetLocalAngle(j.axis, angle)
	}
}
