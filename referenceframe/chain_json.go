package referenceframe

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/armkin/utils"
)

// TranslationConfig is the JSON form of a translation.
type TranslationConfig struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// NewTranslationConfig creates a TranslationConfig from an r3.Vector.
func NewTranslationConfig(v r3.Vector) TranslationConfig {
	return TranslationConfig{X: v.X, Y: v.Y, Z: v.Z}
}

// ParseConfig converts a TranslationConfig into an r3.Vector.
func (tc TranslationConfig) ParseConfig() r3.Vector {
	return r3.Vector{X: tc.X, Y: tc.Y, Z: tc.Z}
}

// JointConfig is the JSON form of a joint. The id and axis are required.
type JointConfig struct {
	ID           *JointID          `json:"id"`
	Axis         *Axis             `json:"axis"`
	Offset       TranslationConfig `json:"offset"`
	AngleDegrees float64           `json:"angle_degrees,omitempty"`
}

// ChainConfigJSON represents all supported fields in a chain JSON file.
type ChainConfigJSON struct {
	Name        string            `json:"name"`
	Origin      TranslationConfig `json:"origin"`
	Joints      []JointConfig     `json:"joints"`
	EndEffector TranslationConfig `json:"end_effector"`
}

// UnmarshalChainJSON will parse the given JSON data into a chain. chainName sets the name of the chain and
// will use the name from the JSON if the string is empty.
func UnmarshalChainJSON(jsonData []byte, chainName string) (*Chain, error) {
	if len(jsonData) == 0 {
		return nil, ErrNoChainInformation
	}
	cfg := &ChainConfigJSON{}
	if err := json.Unmarshal(jsonData, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal json file")
	}
	return cfg.ParseConfig(chainName)
}

// ParseChainJSONFile will read a given file and then parse the contained JSON data.
func ParseChainJSONFile(filename, chainName string) (*Chain, error) {
	//nolint:gosec
	jsonData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read chain file %q", filepath.Clean(filename))
	}
	return UnmarshalChainJSON(jsonData, chainName)
}

// ParseConfig converts the ChainConfigJSON struct into a Chain with the name chainName.
func (cfg *ChainConfigJSON) ParseConfig(chainName string) (*Chain, error) {
	if chainName == "" {
		chainName = cfg.Name
	}
	joints := make([]*Joint, 0, len(cfg.Joints))
	angles := make([]float64, 0, len(cfg.Joints))
	var errAll error
	for i, jc := range cfg.Joints {
		if jc.ID == nil {
			multierr.AppendInto(&errAll, errors.Errorf("joint %d: missing id", i))
		}
		if jc.Axis == nil {
			multierr.AppendInto(&errAll, errors.Errorf("joint %d: missing axis", i))
		}
		if jc.ID == nil || jc.Axis == nil {
			continue
		}
		joints = append(joints, NewJoint(*jc.ID, *jc.Axis, jc.Offset.ParseConfig()))
		angles = append(angles, jc.AngleDegrees)
	}
	if errAll != nil {
		return nil, errAll
	}
	chain, err := NewChain(chainName, cfg.Origin.ParseConfig(), joints, cfg.EndEffector.ParseConfig())
	if err != nil {
		return nil, err
	}
	if err := chain.SetAngles(InputsFromDegrees(angles)); err != nil {
		return nil, err
	}
	return chain, nil
}

// ChainConfig returns the JSON form of the chain, including its current angles.
func (c *Chain) ChainConfig() *ChainConfigJSON {
	cfg := &ChainConfigJSON{
		Name:        c.name,
		Origin:      NewTranslationConfig(c.origin),
		Joints:      make([]JointConfig, 0, len(c.joints)),
		EndEffector: NewTranslationConfig(c.endEffector),
	}
	for _, j := range c.joints {
		id, axis := j.id, j.axis
		cfg.Joints = append(cfg.Joints, JointConfig{
			ID:           &id,
			Axis:         &axis,
			Offset:       NewTranslationConfig(j.offset),
			AngleDegrees: utils.RadToDeg(j.angle),
		})
	}
	return cfg
}

// MarshalJSON serializes a Chain.
func (c *Chain) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.ChainConfig())
}
