package units

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/lumen-dev/lumen/vm"
	"github.com/stretchr/testify/assert"
)

// One raw step in logical units, with a little slack for float error.
const (
	hueTolerance     = 360.0/65536.0 + 1e-9
	percentTolerance = 100.0/65535.0 + 1e-9
)

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestLogicalRawKnownValues(t *testing.T) {
	raw := LogicalToRaw(Color{C0: 180, C1: 50, C2: 75, Kelvin: 3500})
	assert.Equal(t, 32768.0, raw.C0)
	assert.Equal(t, 32768.0, raw.C1)
	assert.Equal(t, 49151.0, raw.C2)
	assert.Equal(t, 3500.0, raw.Kelvin)

	assert.Equal(t, 0.0, LogicalToRaw(Color{C0: 360}).C0)
	assert.Equal(t, LogicalToRaw(Color{C0: 330}).C0, LogicalToRaw(Color{C0: -30}).C0)
}

func TestLogicalRawLogicalScenario(t *testing.T) {
	orig := Color{C0: 180, C1: 50, C2: 75, Kelvin: 3500}
	back := Convert(vm.RAW, vm.LOGICAL, Convert(vm.LOGICAL, vm.RAW, orig))
	assert.InDelta(t, 180, back.C0, hueTolerance)
	assert.InDelta(t, 50, back.C1, percentTolerance)
	assert.InDelta(t, 75, back.C2, percentTolerance)
	assert.Equal(t, 3500.0, back.Kelvin)
}

func TestLogicalToRGBPrimaries(t *testing.T) {
	red := LogicalToRGB(Color{C0: 0, C1: 100, C2: 100, Kelvin: 2700})
	assert.InDelta(t, 100, red.C0, 1e-9)
	assert.InDelta(t, 0, red.C1, 1e-9)
	assert.InDelta(t, 0, red.C2, 1e-9)
	assert.Equal(t, 2700.0, red.Kelvin)

	blue := RGBToLogical(Color{C0: 0, C1: 0, C2: 100})
	assert.InDelta(t, 240, blue.C0, 1e-9)
	assert.InDelta(t, 100, blue.C1, 1e-9)
	assert.InDelta(t, 100, blue.C2, 1e-9)
}

func TestConvertSameModeIsIdentity(t *testing.T) {
	c := Color{C0: 12.5, C1: 3, C2: 4, Kelvin: 5000}
	for m := vm.UnitMode(0); m < vm.UnitModeMax; m++ {
		assert.Equal(t, c, Convert(m, m, c))
	}
}

func TestConvertUnknownModePanics(t *testing.T) {
	assert.Panics(t, func() { Convert(vm.LOGICAL, vm.UnitModeMax, Color{}) })
}

func TestConvertTime(t *testing.T) {
	assert.Equal(t, 1500.0, ConvertTime(vm.LOGICAL, vm.RAW, 1.5))
	assert.Equal(t, 1.5, ConvertTime(vm.RAW, vm.RGB, 1500))
	assert.Equal(t, 2.0, ConvertTime(vm.LOGICAL, vm.RGB, 2))
	assert.Equal(t, 0.25, Seconds(vm.RAW, 250))
	assert.Equal(t, 0.25, Seconds(vm.LOGICAL, 0.25))
}

func TestUnitModeRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	// Saturation and brightness stay away from zero so hue survives RGB.
	logical := gopter.CombineGens(
		gen.Float64Range(0, 359.9),
		gen.Float64Range(5, 100),
		gen.Float64Range(5, 100),
		gen.Float64Range(1500, 9000),
	).Map(func(v []interface{}) Color {
		return Color{C0: v[0].(float64), C1: v[1].(float64), C2: v[2].(float64), Kelvin: math.Round(v[3].(float64))}
	})

	modes := []vm.UnitMode{vm.LOGICAL, vm.RAW, vm.RGB}
	for _, via := range modes {
		properties.Property("LOGICAL -> "+via.String()+" -> LOGICAL", prop.ForAll(
			func(c Color) bool {
				back := Convert(via, vm.LOGICAL, Convert(vm.LOGICAL, via, c))
				hueDiff := math.Abs(back.C0 - c.C0)
				hueDiff = math.Min(hueDiff, 360-hueDiff)
				return hueDiff <= hueTolerance+1e-6 &&
					near(back.C1, c.C1, percentTolerance+1e-6) &&
					near(back.C2, c.C2, percentTolerance+1e-6) &&
					back.Kelvin == c.Kelvin
			},
			logical,
		))
	}

	properties.Property("RAW time survives a round trip", prop.ForAll(
		func(ms int) bool {
			t := float64(ms)
			return ConvertTime(vm.LOGICAL, vm.RAW, ConvertTime(vm.RAW, vm.LOGICAL, t)) == t
		},
		gen.IntRange(0, 3600000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
