package referenceframe

import (
	"encoding/json"
	"testing"

	"github.com/golang/geo/r3"
	"go.uber.org/multierr"
	"go.viam.com/test"
)

func TestChainLoading(t *testing.T) {
	c, err := ParseChainJSONFile("testdata/arm.json", "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c.Name(), test.ShouldEqual, "armSim")
	test.That(t, c.Len(), test.ShouldEqual, 4)
	test.That(t, c.Joint(0).Axis(), test.ShouldEqual, AxisNegY)
	test.That(t, c.Joint(3).Offset(), test.ShouldResemble, r3.Vector{X: 11})
	test.That(t, c.EndEffector(), test.ShouldResemble, r3.Vector{X: 4})

	degrees := InputsToDegrees(c.Angles())
	test.That(t, degrees[1], test.ShouldAlmostEqual, 30.)
	test.That(t, degrees[2], test.ShouldAlmostEqual, -45.)

	c, err = ParseChainJSONFile("testdata/arm.json", "foo")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c.Name(), test.ShouldEqual, "foo")
}

func TestChainJSONRoundTrip(t *testing.T) {
	orig, err := NewDefaultArm(10, 11, 4)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, orig.SetAngles(FloatsToInputs([]float64{0.3, -0.2, 1.1, 0})), test.ShouldBeNil)

	data, err := json.Marshal(orig)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(data), test.ShouldContainSubstring, `"axis":"-y"`)
	test.That(t, string(data), test.ShouldContainSubstring, `"id":"wrist"`)

	parsed, err := UnmarshalChainJSON(data, "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, parsed.Name(), test.ShouldEqual, orig.Name())
	test.That(t, parsed.Len(), test.ShouldEqual, orig.Len())
	test.That(t, InputsL2Distance(parsed.Angles(), orig.Angles()), test.ShouldBeLessThan, 1e-9)
	for i := 0; i < orig.Len(); i++ {
		test.That(t, parsed.Joint(i).Axis(), test.ShouldEqual, orig.Joint(i).Axis())
		test.That(t, parsed.Joint(i).Offset(), test.ShouldResemble, orig.Joint(i).Offset())
	}
}

func TestChainJSONErrors(t *testing.T) {
	_, err := UnmarshalChainJSON(nil, "")
	test.That(t, err, test.ShouldEqual, ErrNoChainInformation)

	_, err = UnmarshalChainJSON([]byte(`{"joints":[{"id":"knee","axis":"z"}]}`), "")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unknown joint")

	_, err = UnmarshalChainJSON([]byte(`{"joints":[{"id":"elbow","axis":"z"},{"id":"base","axis":"-y"}]}`), "")
	test.That(t, err, test.ShouldNotBeNil)

	// id and axis have no usable zero value
	_, err = UnmarshalChainJSON([]byte(`{"joints":[{"offset":{"x":1}},{"id":"elbow"}]}`), "")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, multierr.Errors(err), test.ShouldHaveLength, 3)
	test.That(t, err.Error(), test.ShouldContainSubstring, "joint 0: missing id")
	test.That(t, err.Error(), test.ShouldContainSubstring, "joint 1: missing axis")

	_, err = ParseChainJSONFile("testdata/missing.json", "")
	test.That(t, err, test.ShouldNotBeNil)
}
