package scene

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/armkin/referenceframe"
	"go.viam.com/armkin/utils"
)

// DefaultVisualScale is the display scale applied when none is configured.
const DefaultVisualScale = 1.

// Scene mirrors a chain as a tree of nodes: a root carrying the chain origin and the visual scale, one node
// per joint, and an end effector marker.
type Scene struct {
	root        *Node
	joints      map[referenceframe.JointID]*Node
	endEffector *Node
	scale       float64
}

// NewArmScene builds the nodes for chain and binds each to its joint, so that setting a chain angle moves the
// matching node. The visual scale only multiplies display positions; LogicalPosition divides it back out.
func NewArmScene(chain *referenceframe.Chain, visualScale float64) (*Scene, error) {
	if chain == nil {
		return nil, errors.New("chain cannot be nil")
	}
	if !(visualScale > 0) || !utils.IsFinite(visualScale) {
		return nil, errors.Errorf("visual scale must be positive, got %v", visualScale)
	}

	root := NewNode(chain.Name(), chain.Origin().Mul(visualScale))
	root.SetScale(visualScale)
	s := &Scene{
		root:   root,
		joints: make(map[referenceframe.JointID]*Node, chain.Len()),
		scale:  visualScale,
	}

	parent := root
	for _, joint := range chain.Joints() {
		node := NewNode(joint.ID().String(), joint.Offset())
		parent.Add(node)
		if err := chain.Bind(joint.ID(), node); err != nil {
			return nil, errors.Wrapf(err, "binding joint %q", joint.ID())
		}
		s.joints[joint.ID()] = node
		parent = node
	}
	s.endEffector = NewNode("end effector", chain.EndEffector())
	parent.Add(s.endEffector)
	return s, nil
}

// Root returns the root node of the scene.
func (s *Scene) Root() *Node {
	return s.root
}

// Joint returns the node bound to id.
func (s *Scene) Joint(id referenceframe.JointID) (*Node, error) {
	node, ok := s.joints[id]
	if !ok {
		return nil, referenceframe.NewJointMissingError(id)
	}
	return node, nil
}

// EndEffector returns the end effector marker node.
func (s *Scene) EndEffector() *Node {
	return s.endEffector
}

// Scale returns the visual scale of the scene.
func (s *Scene) Scale() float64 {
	return s.scale
}

// LogicalPosition returns the world position of node in chain units.
func (s *Scene) LogicalPosition(node *Node) r3.Vector {
	return node.WorldPosition().Mul(1 / s.scale)
}

// Walk visits every node depth first, parents before children.
func (s *Scene) Walk(fn func(node *Node, depth int)) {
	var walk func(*Node, int)
	walk = func(n *Node, depth int) {
		fn(n, depth)
		for _, c := range n.children {
			walk(c, depth+1)
		}
	}
	walk(s.root, 0)
}
