// Package kinematics is the arm's math: forward kinematics of a chain, the closed form two-link inverse
// kinematics solve, and the iterative Jacobian-transpose solve toward an arbitrary target.
//
// All functions here are synchronous and keep no state between calls. A chain passed in is read, and for the
// solvers mutated, only for the duration of the call.
package kinematics

import (
	"github.com/golang/geo/r3"

	"go.viam.com/armkin/referenceframe"
	"go.viam.com/armkin/spatialmath"
)

// ChainPoses holds the world pose of every joint of a chain, in chain order, and of its end effector.
type ChainPoses struct {
	Joints      []spatialmath.Pose
	EndEffector spatialmath.Pose
}

// EvaluatePoses walks the chain from the base outwards, composing each joint's offset and rotation with the
// accumulated parent transform. It reads the angles currently held by the joints.
func EvaluatePoses(chain *referenceframe.Chain) ChainPoses {
	if chain == nil {
		return ChainPoses{EndEffector: spatialmath.NewZeroPose()}
	}
	composed := spatialmath.NewPoseFromPoint(chain.Origin())
	poses := make([]spatialmath.Pose, 0, chain.Len())
	for _, joint := range chain.Joints() {
		composed = spatialmath.Compose(composed, joint.LocalPose())
		poses = append(poses, composed)
	}
	return ChainPoses{
		Joints:      poses,
		EndEffector: spatialmath.Compose(composed, spatialmath.NewPoseFromPoint(chain.EndEffector())),
	}
}

// Evaluate returns the world position of the chain's end effector for the angles the joints currently hold.
// It always succeeds; a chain with no joints evaluates to its origin plus the end effector offset.
func Evaluate(chain *referenceframe.Chain) r3.Vector {
	return EvaluatePoses(chain).EndEffector.Point()
}

// worldAxis returns the joint's rotation axis expressed in the world frame, given the joint's world pose.
// A joint's own rotation is about this axis, so it is unchanged by the joint angle.
func worldAxis(joint *referenceframe.Joint, pose spatialmath.Pose) r3.Vector {
	return spatialmath.RotateVector(pose.Orientation(), joint.Axis().Vector())
}
