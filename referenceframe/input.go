package referenceframe

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"go.viam.com/armkin/utils"
)

// Input wraps the input to a joint of a chain: a revolute joint angle in radians.
type Input struct {
	Value float64
}

// FloatsToInputs wraps a slice of floats in Inputs.
func FloatsToInputs(floats []float64) []Input {
	inputs := make([]Input, len(floats))
	for i, f := range floats {
		inputs[i] = Input{f}
	}
	return inputs
}

// InputsToFloats unwraps Inputs to raw floats.
func InputsToFloats(inputs []Input) []float64 {
	floats := make([]float64, len(inputs))
	for i, f := range inputs {
		floats[i] = f.Value
	}
	return floats
}

// InputsFromDegrees converts the given slice of degrees, as a slider reports them, into radian Inputs.
func InputsFromDegrees(degrees []float64) []Input {
	inputs := make([]Input, len(degrees))
	for i, d := range degrees {
		inputs[i] = Input{utils.DegToRad(d)}
	}
	return inputs
}

// InputsToDegrees converts the given radian Inputs into a slice of degrees.
func InputsToDegrees(inputs []Input) []float64 {
	n := make([]float64, len(inputs))
	for i, a := range inputs {
		n[i] = utils.RadToDeg(a.Value)
	}
	return n
}

// InputsL2Distance returns the two-norm (the sqrt of the sum of the squares) between two Input sets.
func InputsL2Distance(from, to []Input) float64 {
	if len(from) != len(to) {
		return math.Inf(1)
	}
	diff := make([]float64, 0, len(from))
	for i, f := range from {
		diff = append(diff, f.Value-to[i].Value)
	}
	// 2 is the L value returning a standard L2 Normalization
	return floats.Norm(diff, 2)
}
