// Package config defines the structures to configure the arm, its solvers and the tools built on them.
package config

import (
	"path/filepath"

	"github.com/go-viper/mapstructure/v2"
	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/armkin/kinematics"
	"go.viam.com/armkin/logging"
	"go.viam.com/armkin/referenceframe"
	"go.viam.com/armkin/scene"
	"go.viam.com/armkin/utils"
)

const (
	// DefaultL1 is the default length of the first link.
	DefaultL1 = 10.
	// DefaultL2 is the default length of the second link.
	DefaultL2 = 11.
	// DefaultEndEffectorLength is the default distance from the wrist to the end effector.
	DefaultEndEffectorLength = 4.
)

// TwoLinkConfig holds the link lengths of the two-link solve. They also size the default arm.
type TwoLinkConfig struct {
	L1 float64 `json:"l1"`
	L2 float64 `json:"l2"`
}

// Validate ensures both lengths are positive.
func (tl TwoLinkConfig) Validate(path string) error {
	var errAll error
	if !(tl.L1 > 0) || !utils.IsFinite(tl.L1) {
		multierr.AppendInto(&errAll, errors.Errorf("%s: l1 must be positive, got %v", path, tl.L1))
	}
	if !(tl.L2 > 0) || !utils.IsFinite(tl.L2) {
		multierr.AppendInto(&errAll, errors.Errorf("%s: l2 must be positive, got %v", path, tl.L2))
	}
	return errAll
}

// Config describes how to build and solve an arm.
type Config struct {
	// Chain is an inline chain definition. It takes precedence over ChainFile.
	Chain *referenceframe.ChainConfigJSON `json:"chain,omitempty"`
	// ChainFile is a path to a chain JSON file, relative to the config file.
	ChainFile         string                   `json:"chain_file,omitempty"`
	TwoLink           TwoLinkConfig            `json:"two_link"`
	EndEffectorLength float64                  `json:"end_effector_length"`
	Solver            kinematics.SolverOptions `json:"solver"`
	VisualScale       float64                  `json:"visual_scale"`
	LogLevel          string                   `json:"log_level,omitempty"`

	ConfigFilePath string `json:"-"`
}

// DefaultConfig returns the configuration of the stock arm.
func DefaultConfig() *Config {
	return &Config{
		TwoLink:           TwoLinkConfig{L1: DefaultL1, L2: DefaultL2},
		EndEffectorLength: DefaultEndEffectorLength,
		Solver:            kinematics.NewDefaultSolverOptions(),
		VisualScale:       scene.DefaultVisualScale,
		LogLevel:          "info",
	}
}

// Validate returns every problem with the config at once.
func (c *Config) Validate() error {
	var errAll error
	multierr.AppendInto(&errAll, c.TwoLink.Validate("two_link"))
	if !(c.EndEffectorLength >= 0) || !utils.IsFinite(c.EndEffectorLength) {
		multierr.AppendInto(&errAll, errors.Errorf("end_effector_length must not be negative, got %v", c.EndEffectorLength))
	}
	if err := c.Solver.Validate(); err != nil {
		multierr.AppendInto(&errAll, errors.Wrap(err, "solver"))
	}
	if !(c.VisualScale > 0) || !utils.IsFinite(c.VisualScale) {
		multierr.AppendInto(&errAll, errors.Errorf("visual_scale must be positive, got %v", c.VisualScale))
	}
	if c.LogLevel != "" {
		if _, err := logging.LevelFromString(c.LogLevel); err != nil {
			multierr.AppendInto(&errAll, errors.Wrap(err, "log_level"))
		}
	}
	if c.Chain != nil && c.ChainFile != "" {
		multierr.AppendInto(&errAll, errors.New("only one of chain and chain_file may be set"))
	}
	if c.Chain != nil {
		if _, err := c.Chain.ParseConfig(""); err != nil {
			multierr.AppendInto(&errAll, errors.Wrap(err, "chain"))
		}
	}
	return errAll
}

// Level returns the configured log level, defaulting to INFO.
func (c *Config) Level() logging.Level {
	level, err := logging.LevelFromString(c.LogLevel)
	if err != nil {
		return logging.INFO
	}
	return level
}

// BuildChain returns the configured chain: the inline chain if set, otherwise the chain file, otherwise the
// default four joint arm sized by TwoLink and EndEffectorLength.
func (c *Config) BuildChain() (*referenceframe.Chain, error) {
	switch {
	case c.Chain != nil:
		return c.Chain.ParseConfig("")
	case c.ChainFile != "":
		path := c.ChainFile
		if !filepath.IsAbs(path) && c.ConfigFilePath != "" {
			path = filepath.Join(filepath.Dir(c.ConfigFilePath), path)
		}
		return referenceframe.ParseChainJSONFile(path, "")
	default:
		return referenceframe.NewDefaultArm(c.TwoLink.L1, c.TwoLink.L2, c.EndEffectorLength)
	}
}

// DecodeSolverAttributes overlays loosely typed attributes, such as those gathered from command line flags,
// onto base. Keys use the json names of SolverOptions and unknown keys are rejected.
func DecodeSolverAttributes(base kinematics.SolverOptions, attrs map[string]interface{}) (kinematics.SolverOptions, error) {
	opts := base
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           &opts,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return base, err
	}
	if err := decoder.Decode(attrs); err != nil {
		return base, errors.Wrap(err, "failed to decode solver attributes")
	}
	if err := opts.Validate(); err != nil {
		return base, err
	}
	return opts, nil
}

// Schema returns the JSON schema of a config file.
func Schema() *jsonschema.Schema {
	return jsonschema.Reflect(&Config{})
}
