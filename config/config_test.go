package config

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"go.uber.org/multierr"
	"go.viam.com/test"

	"go.viam.com/armkin/kinematics"
	"go.viam.com/armkin/logging"
	"go.viam.com/armkin/referenceframe"
	"go.viam.com/armkin/spatialmath"
	"go.viam.com/armkin/testutils"
	"go.viam.com/armkin/utils"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	test.That(t, cfg.Validate(), test.ShouldBeNil)
	test.That(t, cfg.Level(), test.ShouldEqual, logging.INFO)

	chain, err := cfg.BuildChain()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, chain.Len(), test.ShouldEqual, 4)
	ee := kinematics.Evaluate(chain)
	test.That(t, spatialmath.R3VectorAlmostEqual(ee, r3.Vector{X: 25}, 1e-9), test.ShouldBeTrue)
}

func TestRead(t *testing.T) {
	logger := logging.NewTestLogger(t)
	cfg, err := Read("testdata/armkin.json", logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.TwoLink, test.ShouldResemble, TwoLinkConfig{L1: 8, L2: 9})
	test.That(t, cfg.Solver, test.ShouldResemble, kinematics.SolverOptions{
		LearningRate:  0.05,
		Tolerance:     0.01,
		MaxIterations: 200,
	})
	test.That(t, cfg.VisualScale, test.ShouldEqual, 0.1)
	test.That(t, cfg.Level(), test.ShouldEqual, logging.DEBUG)
	test.That(t, cfg.ConfigFilePath, test.ShouldEqual, "testdata/armkin.json")

	chain, err := cfg.BuildChain()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(kinematics.Evaluate(chain), r3.Vector{X: 19}, 1e-9), test.ShouldBeTrue)
}

func TestReadChainFile(t *testing.T) {
	cfg, err := Read("testdata/chain_file.json", logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	// unset solver fields keep their defaults
	test.That(t, cfg.Solver.MaxIterations, test.ShouldEqual, 50)
	test.That(t, cfg.Solver.LearningRate, test.ShouldEqual, kinematics.NewDefaultSolverOptions().LearningRate)

	chain, err := cfg.BuildChain()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, chain.Name(), test.ShouldEqual, "armSim")
	shoulder, err := chain.JointByID(referenceframe.Shoulder)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, shoulder.Angle(), test.ShouldAlmostEqual, utils.DegToRad(30))
}

func TestChainFileRelativeToConfig(t *testing.T) {
	dir := t.TempDir()
	arm, err := referenceframe.NewDefaultArm(1, 2, 3)
	test.That(t, err, test.ShouldBeNil)
	testutils.WriteJSONFile(t, filepath.Join(dir, "chains"), "small.json", arm.ChainConfig())
	cfgPath := testutils.WriteFile(t, dir, "armkin.json", `{"chain_file": "chains/small.json"}`)

	cfg, err := Read(cfgPath, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	chain, err := cfg.BuildChain()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, chain.Name(), test.ShouldEqual, "arm")
	test.That(t, spatialmath.R3VectorAlmostEqual(kinematics.Evaluate(chain), r3.Vector{X: 6}, 1e-9), test.ShouldBeTrue)

	// a missing chain file surfaces when the chain is built
	cfgPath = testutils.WriteFile(t, dir, "broken.json", `{"chain_file": "chains/missing.json"}`)
	cfg, err = Read(cfgPath, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	_, err = cfg.BuildChain()
	test.That(t, err, test.ShouldNotBeNil)
}

func TestReadEnvSubstitution(t *testing.T) {
	t.Setenv("ARMKIN_TEST_L1", "12.5")
	cfg, err := Read("testdata/env.json", logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.TwoLink, test.ShouldResemble, TwoLinkConfig{L1: 12.5, L2: 11})
}

func TestReadErrors(t *testing.T) {
	_, err := Read("testdata/missing.json", logging.NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)

	_, err = Read("testdata/invalid.json", logging.NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)
	for _, substr := range []string{"l1", "l2", "learning rate", "max iterations", "visual_scale", "log_level"} {
		test.That(t, err.Error(), test.ShouldContainSubstring, substr)
	}

	_, err = FromReader("", strings.NewReader(`{"two_lnk": {}}`), nil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unknown field")
}

func TestValidateAggregates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TwoLink = TwoLinkConfig{L1: 0, L2: -2}
	cfg.VisualScale = -1
	err := cfg.Validate()
	test.That(t, multierr.Errors(err), test.ShouldHaveLength, 3)

	cfg = DefaultConfig()
	cfg.ChainFile = "arm.json"
	cfg.Chain = &referenceframe.ChainConfigJSON{Name: "inline"}
	err = cfg.Validate()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "only one of")
}

func TestInlineChain(t *testing.T) {
	in := `{"chain": {
		"name": "inline",
		"joints": [
			{"id": "shoulder", "axis": "z", "offset": {"x": 0, "y": 0, "z": 0}},
			{"id": "elbow", "axis": "z", "offset": {"x": 2, "y": 0, "z": 0}, "angle_degrees": 90}
		],
		"end_effector": {"x": 3, "y": 0, "z": 0}
	}}`
	cfg, err := FromReader("", strings.NewReader(in), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	chain, err := cfg.BuildChain()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, chain.Name(), test.ShouldEqual, "inline")
	test.That(t, spatialmath.R3VectorAlmostEqual(kinematics.Evaluate(chain), r3.Vector{X: 2, Y: 3}, 1e-9), test.ShouldBeTrue)

	bad := `{"chain": {"joints": [{"id": "elbow", "axis": "z"}, {"id": "shoulder", "axis": "z"}]}}`
	_, err = FromReader("", strings.NewReader(bad), nil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "chain")
}

func TestDecodeSolverAttributes(t *testing.T) {
	base := kinematics.NewDefaultSolverOptions()
	opts, err := DecodeSolverAttributes(base, map[string]interface{}{
		"learning_rate":  "0.02",
		"max_iterations": 500,
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, opts, test.ShouldResemble, kinematics.SolverOptions{
		LearningRate:  0.02,
		Tolerance:     base.Tolerance,
		MaxIterations: 500,
	})

	_, err = DecodeSolverAttributes(base, map[string]interface{}{"damping": 0.5})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "damping")

	opts, err = DecodeSolverAttributes(base, map[string]interface{}{"tolerance": -1})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, opts, test.ShouldResemble, base)

	opts, err = DecodeSolverAttributes(base, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, opts, test.ShouldResemble, base)
}

func TestSchema(t *testing.T) {
	out, err := json.Marshal(Schema())
	test.That(t, err, test.ShouldBeNil)
	for _, key := range []string{"two_link", "solver", "learning_rate", "visual_scale", "chain_file"} {
		test.That(t, string(out), test.ShouldContainSubstring, key)
	}
}
