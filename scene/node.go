// Package scene is a small scene graph standing in for the display layer. Each joint of a chain is bound to a
// Node, which the chain drives through the referenceframe.TransformProvider capability.
package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/armkin/referenceframe"
)

// Node is a transform in the scene tree: a translation from its parent, a rotation and a uniform scale, in
// that order.
type Node struct {
	name     string
	parent   *Node
	children []*Node

	position mgl64.Vec3
	rotation mgl64.Quat
	scale    float64
}

var _ referenceframe.TransformProvider = (*Node)(nil)

// NewNode returns an unparented node at position with no rotation and unit scale.
func NewNode(name string, position r3.Vector) *Node {
	return &Node{
		name:     name,
		position: r3ToVec3(position),
		rotation: mgl64.QuatIdent(),
		scale:    1,
	}
}

// Name returns the node name.
func (n *Node) Name() string {
	return n.name
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the direct children of the node.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// Add reparents child under n.
func (n *Node) Add(child *Node) {
	if child.parent != nil {
		child.parent.remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

func (n *Node) remove(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

// SetScale sets the uniform scale applied to the node's children.
func (n *Node) SetScale(scale float64) {
	n.scale = scale
}

// LocalMatrix returns translate * rotate * scale.
func (n *Node) LocalMatrix() mgl64.Mat4 {
	return mgl64.Translate3D(n.position.X(), n.position.Y(), n.position.Z()).
		Mul4(n.rotation.Mat4()).
		Mul4(mgl64.Scale3D(n.scale, n.scale, n.scale))
}

// WorldMatrix returns the node's transform composed with every ancestor's.
func (n *Node) WorldMatrix() mgl64.Mat4 {
	if n.parent == nil {
		return n.LocalMatrix()
	}
	return n.parent.WorldMatrix().Mul4(n.LocalMatrix())
}

// WorldPosition returns the node's origin in world coordinates.
func (n *Node) WorldPosition() r3.Vector {
	p := n.WorldMatrix().Col(3)
	return r3.Vector{X: p.X(), Y: p.Y(), Z: p.Z()}
}

// WorldRotation returns the node's orientation in world coordinates. Scale does not enter it.
func (n *Node) WorldRotation() quat.Number {
	q := n.rotation
	for p := n.parent; p != nil; p = p.parent {
		q = p.rotation.Mul(q)
	}
	q = q.Normalize()
	return quat.Number{Real: q.W, Imag: q.V.X(), Jmag: q.V.Y(), Kmag: q.V.Z()}
}

// SetLocalAngle replaces the node's rotation with a rotation of angle radians about axis.
func (n *Node) SetLocalAngle(axis referenceframe.Axis, angle float64) {
	n.rotation = mgl64.QuatRotate(angle, r3ToVec3(axis.Vector()))
}

func r3ToVec3(v r3.Vector) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}
