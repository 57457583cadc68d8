package utils

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestAngleConversions(t *testing.T) {
	test.That(t, DegToRad(180), test.ShouldAlmostEqual, math.Pi)
	test.That(t, DegToRad(-90), test.ShouldAlmostEqual, -math.Pi/2)
	test.That(t, RadToDeg(math.Pi/4), test.ShouldAlmostEqual, 45.)
	test.That(t, RadToDeg(DegToRad(37.5)), test.ShouldAlmostEqual, 37.5)
}

func TestFloat64AlmostEqual(t *testing.T) {
	test.That(t, Float64AlmostEqual(1, 1.0005, 1e-3), test.ShouldBeTrue)
	test.That(t, Float64AlmostEqual(1, 1.01, 1e-3), test.ShouldBeFalse)
}

func TestClamp(t *testing.T) {
	test.That(t, Clamp(1.0000001, -1, 1), test.ShouldEqual, 1.)
	test.That(t, Clamp(-3, -1, 1), test.ShouldEqual, -1.)
	test.That(t, Clamp(0.25, -1, 1), test.ShouldEqual, 0.25)
	test.That(t, Square(-3), test.ShouldEqual, 9.)
}

func TestIsFinite(t *testing.T) {
	test.That(t, IsFinite(3), test.ShouldBeTrue)
	test.That(t, IsFinite(math.NaN()), test.ShouldBeFalse)
	test.That(t, IsFinite(math.Inf(-1)), test.ShouldBeFalse)
}

func TestAssertType(t *testing.T) {
	v, err := AssertType[float64](2.5)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldEqual, 2.5)

	_, err = AssertType[string](2.5)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "expected string but got float64")
}
