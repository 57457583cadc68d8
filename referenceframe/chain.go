package referenceframe

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"

	"go.viam.com/armkin/utils"
)

// Chain is an ordered sequence of joints from the fixed base to the end effector.
// The order is proximal to distal and never changes after construction. A Chain carries no lock; callers that
// trigger solves concurrently must serialize access to it.
type Chain struct {
	name   string
	origin r3.Vector
	joints []*Joint
	// endEffector is the offset of the end effector reference point from the last joint, in that joint's frame.
	endEffector r3.Vector
}

// NewChain constructs a chain. Joints must be listed base first, each with a distinct identifier. A chain with
// no joints is allowed; its end effector is the origin offset by endEffector.
func NewChain(name string, origin r3.Vector, joints []*Joint, endEffector r3.Vector) (*Chain, error) {
	seen := map[JointID]bool{}
	for i, j := range joints {
		if j == nil {
			return nil, errors.Errorf("joint %d of chain %q is nil", i, name)
		}
		if seen[j.id] {
			return nil, NewDuplicateJointError(j.id)
		}
		seen[j.id] = true
		if i > 0 && j.id < joints[i-1].id {
			return nil, NewJointOrderError(joints[i-1].id, j.id)
		}
	}
	return &Chain{
		name:        name,
		origin:      origin,
		joints:      append([]*Joint(nil), joints...),
		endEffector: endEffector,
	}, nil
}

// NewTwoLinkChain builds the base, shoulder and elbow of a planar two-link arm in a Y-up world. The base yaws
// about -Y so that a positive yaw follows atan2(z, x); the shoulder and elbow swing about Z. At rest the links
// lie along +X.
func NewTwoLinkChain(l1, l2 float64) (*Chain, error) {
	return NewChain("two-link", r3.Vector{}, []*Joint{
		NewJoint(Base, AxisNegY, r3.Vector{}),
		NewJoint(Shoulder, AxisZ, r3.Vector{}),
		NewJoint(Elbow, AxisZ, r3.Vector{X: l1}),
	}, r3.Vector{X: l2})
}

// NewDefaultArm builds the four joint arm: the two-link geometry plus a wrist at the end of the second link,
// carrying an end effector l3 further along.
func NewDefaultArm(l1, l2, l3 float64) (*Chain, error) {
	return NewChain("arm", r3.Vector{}, []*Joint{
		NewJoint(Base, AxisNegY, r3.Vector{}),
		NewJoint(Shoulder, AxisZ, r3.Vector{}),
		NewJoint(Elbow, AxisZ, r3.Vector{X: l1}),
		NewJoint(Wrist, AxisZ, r3.Vector{X: l2}),
	}, r3.Vector{X: l3})
}

// Name returns the name of the chain.
func (c *Chain) Name() string {
	return c.name
}

// Origin returns the world position the base is mounted at.
func (c *Chain) Origin() r3.Vector {
	return c.origin
}

// EndEffector returns the end effector offset from the last joint.
func (c *Chain) EndEffector() r3.Vector {
	return c.endEffector
}

// Len returns the number of joints in the chain.
func (c *Chain) Len() int {
	return len(c.joints)
}

// Joint returns the i'th joint counting from the base.
func (c *Chain) Joint(i int) *Joint {
	return c.joints[i]
}

// Joints returns the joints of the chain in base to end effector order. The slice is a copy; the joints are not.
func (c *Chain) Joints() []*Joint {
	return append([]*Joint(nil), c.joints...)
}

// JointByID returns the joint with the given identifier.
func (c *Chain) JointByID(id JointID) (*Joint, error) {
	for _, j := range c.joints {
		if j.id == id {
			return j, nil
		}
	}
	return nil, NewJointMissingError(id)
}

// Angles returns the current joint angles in chain order.
func (c *Chain) Angles() []Input {
	angles := make([]Input, len(c.joints))
	for i, j := range c.joints {
		angles[i] = Input{j.angle}
	}
	return angles
}

// SetAngles sets every joint angle at once. The number of inputs must match the number of joints.
func (c *Chain) SetAngles(inputs []Input) error {
	if len(inputs) != len(c.joints) {
		return NewIncorrectDoFError(len(inputs), len(c.joints))
	}
	for i, j := range c.joints {
		if !utils.IsFinite(inputs[i].Value) {
			return errors.Errorf("angle %v for joint %q is not finite", inputs[i].Value, j.id)
		}
	}
	for i, j := range c.joints {
		j.setAngle(inputs[i].Value)
	}
	return nil
}

// SetAngle sets the angle of a single joint, e.g. from a slider.
func (c *Chain) SetAngle(id JointID, radians float64) error {
	j, err := c.JointByID(id)
	if err != nil {
		return err
	}
	if !utils.IsFinite(radians) {
		return errors.Errorf("angle %v for joint %q is not finite", radians, id)
	}
	j.setAngle(radians)
	return nil
}

// Bind attaches a host transform to a joint. The joint's current angle is pushed to it immediately.
func (c *Chain) Bind(id JointID, provider TransformProvider) error {
	j, err := c.JointByID(id)
	if err != nil {
		return err
	}
	j.provider = provider
	if provider != nil {
		provider.SetLocalAngle(j.axis, j.angle)
	}
	return nil
}

// Clone returns a deep copy of the chain geometry and angles. Bound providers are not carried over.
func (c *Chain) Clone() *Chain {
	joints := make([]*Joint, len(c.joints))
	for i, j := range c.joints {
		joints[i] = &Joint{id: j.id, axis: j.axis, offset: j.offset, angle: j.angle}
	}
	return &Chain{name: c.name, origin: c.origin, joints: joints, endEffector: c.endEffector}
}

// String prints out a table of each joint in the chain, with columns of name, axis, offset and angle.
func (c *Chain) String() string {
	t := table.NewWriter()
	t.SetTitle(c.name)
	t.AppendHeader(table.Row{"#", "Joint", "Axis", "Offset", "Angle (deg)"})
	for i, j := range c.joints {
		t.AppendRow(table.Row{
			i,
			j.id.String(),
			j.axis.String(),
			fmt.Sprintf("X:%.2f, Y:%.2f, Z:%.2f", j.offset.X, j.offset.Y, j.offset.Z),
			fmt.Sprintf("%.2f", utils.RadToDeg(j.angle)),
		})
	}
	ee := c.endEffector
	t.AppendFooter(table.Row{"", "end effector", "", fmt.Sprintf("X:%.2f, Y:%.2f, Z:%.2f", ee.X, ee.Y, ee.Z), ""})
	return t.Render()
}
