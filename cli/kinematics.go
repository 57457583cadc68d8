package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/armkin/config"
	"go.viam.com/armkin/kinematics"
	"go.viam.com/armkin/referenceframe"
	"go.viam.com/armkin/scene"
)

func chainFromContext(c *cli.Context) (*config.Config, *referenceframe.Chain, error) {
	cfg, err := configFromContext(c)
	if err != nil {
		return nil, nil, err
	}
	chain, err := cfg.BuildChain()
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot build chain")
	}
	return cfg, chain, nil
}

// targetFromContext reads --x, --y and --z. Every one must be given; a zero default would silently move the target.
func targetFromContext(c *cli.Context) (r3.Vector, error) {
	var errAll error
	for _, flag := range []string{flagX, flagY, flagZ} {
		if !c.IsSet(flag) {
			multierr.AppendInto(&errAll, errors.Errorf("missing required flag --%s", flag))
		}
	}
	if errAll != nil {
		return r3.Vector{}, errAll
	}
	return r3.Vector{X: c.Float64(flagX), Y: c.Float64(flagY), Z: c.Float64(flagZ)}, nil
}

// ForwardAction prints the world position of every joint and of the end effector.
func ForwardAction(c *cli.Context) error {
	_, chain, err := chainFromContext(c)
	if err != nil {
		return err
	}
	if err := applyAnglesFlag(c, chain); err != nil {
		return err
	}

	poses := kinematics.EvaluatePoses(chain)
	degrees := formatDegrees(chain.Angles())
	t := newTable(chain.Name(), table.Row{"Joint", "Angle (deg)", "World position"})
	for i, joint := range chain.Joints() {
		t.AppendRow(table.Row{joint.ID().String(), degrees[i], formatVector(poses.Joints[i].Point())})
	}
	t.AppendFooter(table.Row{"end effector", "", formatVector(poses.EndEffector.Point())})
	printf(c, "%s", t.Render())
	return nil
}

// TwoLinkAction runs the closed form solve. An unreachable target is reported, not returned as an error.
func TwoLinkAction(c *cli.Context) error {
	cfg, chain, err := chainFromContext(c)
	if err != nil {
		return err
	}
	target, err := targetFromContext(c)
	if err != nil {
		return err
	}
	l1, l2 := cfg.TwoLink.L1, cfg.TwoLink.L2
	if c.IsSet(flagL1) {
		l1 = c.Float64(flagL1)
	}
	if c.IsSet(flagL2) {
		l2 = c.Float64(flagL2)
	}

	sol, err := kinematics.SolveTwoLink(target, l1, l2)
	if errors.Is(err, kinematics.ErrUnreachable) {
		statusf(c, color.FgRed, "unreachable: %v", err)
		return nil
	}
	if err != nil {
		return err
	}

	t := newTable("two-link solution", table.Row{"Joint", "Angle (deg)"})
	for i, deg := range formatDegrees(sol.Inputs()) {
		t.AppendRow(table.Row{referenceframe.AllJoints[i].String(), deg})
	}
	t.AppendFooter(table.Row{"end effector", formatVector(sol.EndEffector(l1, l2))})
	printf(c, "%s", t.Render())

	// the chain may have a different geometry than l1 and l2; show where it really lands
	if err := kinematics.ApplyTwoLink(chain, sol); err != nil {
		statusf(c, color.FgYellow, "not applied to chain %q: %v", chain.Name(), err)
		return nil
	}
	printf(c, "chain %q end effector: %s", chain.Name(), formatVector(kinematics.Evaluate(chain)))
	return nil
}

// SolveAction runs the Jacobian-transpose solve from the configured (or given) starting angles.
func SolveAction(c *cli.Context) error {
	cfg, chain, err := chainFromContext(c)
	if err != nil {
		return err
	}
	logger, err := loggerFromContext(c)
	if err != nil {
		return err
	}
	target, err := targetFromContext(c)
	if err != nil {
		return err
	}
	if err := applyAnglesFlag(c, chain); err != nil {
		return err
	}

	attrs := map[string]interface{}{}
	for flag, key := range map[string]string{
		flagLearningRate:  "learning_rate",
		flagTolerance:     "tolerance",
		flagMaxIterations: "max_iterations",
	} {
		if c.IsSet(flag) {
			attrs[key] = c.Value(flag)
		}
	}
	opts, err := config.DecodeSolverAttributes(cfg.Solver, attrs)
	if err != nil {
		return err
	}
	solver, err := kinematics.NewJacobianTransposeSolver(logger.Sublogger("ik"), opts)
	if err != nil {
		return err
	}

	res, err := solver.Solve(chain, target)
	if err != nil {
		return err
	}

	t := newTable("jacobian transpose solve", table.Row{"Joint", "Angle (deg)"})
	for i, deg := range formatDegrees(chain.Angles()) {
		t.AppendRow(table.Row{chain.Joint(i).ID().String(), deg})
	}
	t.AppendFooter(table.Row{"end effector", formatVector(kinematics.Evaluate(chain))})
	printf(c, "%s", t.Render())

	if res.Converged {
		statusf(c, color.FgGreen, "converged after %d iterations, distance %.4f", res.Iterations, res.Distance)
	} else {
		statusf(c, color.FgYellow, "not converged after %d iterations, distance %.4f", res.Iterations, res.Distance)
	}
	return nil
}

// ChainAction prints the configured chain.
func ChainAction(c *cli.Context) error {
	_, chain, err := chainFromContext(c)
	if err != nil {
		return err
	}
	printf(c, "%s", chain.String())
	return nil
}

// SceneAction prints the scene tree of the chain, with display and logical positions.
func SceneAction(c *cli.Context) error {
	cfg, chain, err := chainFromContext(c)
	if err != nil {
		return err
	}
	scale := cfg.VisualScale
	if c.IsSet(flagScale) {
		scale = c.Float64(flagScale)
	}
	s, err := scene.NewArmScene(chain, scale)
	if err != nil {
		return err
	}
	// bound nodes follow the chain from here on
	if err := applyAnglesFlag(c, chain); err != nil {
		return err
	}

	t := newTable(fmt.Sprintf("scene (scale %g)", s.Scale()), table.Row{"Node", "Display position", "Logical position"})
	s.Walk(func(node *scene.Node, depth int) {
		t.AppendRow(table.Row{
			strings.Repeat("  ", depth) + node.Name(),
			formatVector(node.WorldPosition()),
			formatVector(s.LogicalPosition(node)),
		})
	})
	printf(c, "%s", t.Render())
	return nil
}

// SchemaAction prints the JSON schema of the config file.
func SchemaAction(c *cli.Context) error {
	out, err := json.MarshalIndent(config.Schema(), "", "  ")
	if err != nil {
		return err
	}
	printf(c, "%s", out)
	return nil
}
