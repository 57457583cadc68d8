package kinematics

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/armkin/logging"
	"go.viam.com/armkin/referenceframe"
	"go.viam.com/armkin/utils"
)

const (
	defaultLearningRate  = 0.1
	defaultTolerance     = 0.1
	defaultMaxIterations = 10
)

// SolverOptions tunes the Jacobian-transpose solver.
type SolverOptions struct {
	// LearningRate scales each joint update, in radians per unit of (velocity . error).
	LearningRate float64 `json:"learning_rate"`
	// Tolerance is the end effector to target distance at which the solve stops.
	Tolerance float64 `json:"tolerance"`
	// MaxIterations bounds the solve. It is the only timeout; there is no wall-clock cancellation.
	MaxIterations int `json:"max_iterations"`
}

// NewDefaultSolverOptions returns the options used when none are configured.
func NewDefaultSolverOptions() SolverOptions {
	return SolverOptions{
		LearningRate:  defaultLearningRate,
		Tolerance:     defaultTolerance,
		MaxIterations: defaultMaxIterations,
	}
}

// Validate returns every problem with the options at once.
func (opts SolverOptions) Validate() error {
	var errAll error
	if !(opts.LearningRate > 0) || !utils.IsFinite(opts.LearningRate) {
		multierr.AppendInto(&errAll, errors.Errorf("learning rate must be positive, got %v", opts.LearningRate))
	}
	if !(opts.Tolerance > 0) || !utils.IsFinite(opts.Tolerance) {
		multierr.AppendInto(&errAll, errors.Errorf("tolerance must be positive, got %v", opts.Tolerance))
	}
	if opts.MaxIterations < 1 {
		multierr.AppendInto(&errAll, errors.Errorf("max iterations must be at least 1, got %d", opts.MaxIterations))
	}
	return errAll
}

// SolveResult reports how a Jacobian-transpose solve ended. The solved angles are in the chain itself.
type SolveResult struct {
	Iterations int
	// Distance is the final end effector to target distance.
	Distance  float64
	Converged bool
	// History holds the distance to target before each iteration, followed by the final distance.
	History []float64
}

// JacobianTransposeIK iteratively moves a chain's end effector toward a point target by stepping every joint
// but the last along the transpose of the positional Jacobian. It trades the convergence speed of a
// pseudo-inverse for having no matrix inversion to go singular.
type JacobianTransposeIK struct {
	opts   SolverOptions
	logger logging.Logger
}

// NewJacobianTransposeSolver creates a solver with the given options. A nil logger logs through the global one.
func NewJacobianTransposeSolver(logger logging.Logger, opts SolverOptions) (*JacobianTransposeIK, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid solver options")
	}
	if logger == nil {
		logger = logging.Global().Sublogger("ik")
	}
	return &JacobianTransposeIK{opts: opts, logger: logger}, nil
}

// Options returns the options the solver was created with.
func (ik *JacobianTransposeIK) Options() SolverOptions {
	return ik.opts
}

// Solve moves chain toward target in place. It stops once the end effector is within the tolerance or after
// MaxIterations updates, whichever comes first, and never fails for lack of convergence: the chain is left at
// the last pose reached and the result says whether it converged. An error is returned only for a chain with
// fewer than two joints.
func (ik *JacobianTransposeIK) Solve(chain *referenceframe.Chain, target r3.Vector) (*SolveResult, error) {
	if chain == nil {
		return nil, errors.New("chain cannot be nil")
	}
	if chain.Len() < 2 {
		return nil, referenceframe.NewChainTooShortError(chain.Len(), 2)
	}
	if !utils.IsFinite(target.X) || !utils.IsFinite(target.Y) || !utils.IsFinite(target.Z) {
		return nil, errors.Errorf("target %v is not finite", target)
	}

	angles := referenceframe.InputsToFloats(chain.Angles())
	result := &SolveResult{History: make([]float64, 0, ik.opts.MaxIterations+1)}
	gradient := mat.NewVecDense(chain.Len(), nil)

	for {
		// world positions are recomputed every pass since every joint moved in the last one
		poses := EvaluatePoses(chain)
		toTarget := target.Sub(poses.EndEffector.Point())
		result.Distance = toTarget.Norm()
		result.History = append(result.History, result.Distance)

		if result.Distance < ik.opts.Tolerance {
			result.Converged = true
			break
		}
		if result.Iterations >= ik.opts.MaxIterations {
			break
		}

		jac := jacobianFromPoses(chain, poses)
		gradient.MulVec(jac.T(), mat.NewVecDense(3, []float64{toTarget.X, toTarget.Y, toTarget.Z}))
		// the last joint has no lever arm of its own and is held fixed
		for i := 0; i < chain.Len()-1; i++ {
			angles[i] += ik.opts.LearningRate * gradient.AtVec(i)
		}
		if err := chain.SetAngles(referenceframe.FloatsToInputs(angles)); err != nil {
			return nil, errors.Wrap(err, "solver diverged")
		}
		result.Iterations++
	}

	ik.logger.Debugw("jacobian transpose solve finished",
		"chain", chain.Name(),
		"iterations", result.Iterations,
		"distance", result.Distance,
		"converged", result.Converged,
	)
	return result, nil
}

// Jacobian returns the 3xN positional Jacobian of the chain at its current angles. Column i is the linear
// velocity of the end effector per unit angular velocity of joint i. It returns nil for a chain with no joints.
func Jacobian(chain *referenceframe.Chain) *mat.Dense {
	if chain == nil || chain.Len() == 0 {
		return nil
	}
	return jacobianFromPoses(chain, EvaluatePoses(chain))
}

func jacobianFromPoses(chain *referenceframe.Chain, poses ChainPoses) *mat.Dense {
	ee := poses.EndEffector.Point()
	jac := mat.NewDense(3, chain.Len(), nil)
	for i, joint := range chain.Joints() {
		pose := poses.Joints[i]
		column := worldAxis(joint, pose).Cross(ee.Sub(pose.Point()))
		jac.SetCol(i, []float64{column.X, column.Y, column.Z})
	}
	return jac
}
