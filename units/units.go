// Package units converts color and time values between the machine's unit
// modes.
//
// LOGICAL uses degrees for hue, percentages for saturation and brightness,
// kelvin as-is and seconds for time. RAW is the device encoding: 16-bit
// integers for hue, saturation and brightness, and milliseconds for time.
// RGB replaces hue, saturation and brightness with red, green and blue
// percentages. Kelvin never changes.
package units

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/lumen-dev/lumen/vm"
)

const (
	rawHueSteps = 65536.0
	rawMax      = 65535.0
	maxDegrees  = 360.0
	maxPercent  = 100.0
	msPerSecond = 1000.0
)

// Color is a color tuple in some unit mode. The first three channels are
// hue/saturation/brightness or red/green/blue depending on the mode.
type Color struct {
	C0, C1, C2 float64
	Kelvin     float64
}

// Convert maps c from one unit mode to another.
func Convert(from, to vm.UnitMode, c Color) Color {
	if from == to {
		return c
	}
	switch from {
	case vm.LOGICAL:
		switch to {
		case vm.RAW:
			return LogicalToRaw(c)
		case vm.RGB:
			return LogicalToRGB(c)
		}
	case vm.RAW:
		switch to {
		case vm.LOGICAL:
			return RawToLogical(c)
		case vm.RGB:
			return RawToRGB(c)
		}
	case vm.RGB:
		switch to {
		case vm.LOGICAL:
			return RGBToLogical(c)
		case vm.RAW:
			return RGBToRaw(c)
		}
	}
	panic(fmt.Sprintf("No unit conversion from %s to %s", from, to))
}

func LogicalToRaw(c Color) Color {
	return Color{
		C0:     math.Mod(math.Round(normalizeHue(c.C0)/maxDegrees*rawHueSteps), rawHueSteps),
		C1:     math.Round(c.C1 / maxPercent * rawMax),
		C2:     math.Round(c.C2 / maxPercent * rawMax),
		Kelvin: math.Round(c.Kelvin),
	}
}

func RawToLogical(c Color) Color {
	return Color{
		C0:     c.C0 / rawHueSteps * maxDegrees,
		C1:     c.C1 / rawMax * maxPercent,
		C2:     c.C2 / rawMax * maxPercent,
		Kelvin: c.Kelvin,
	}
}

func LogicalToRGB(c Color) Color {
	rgb := colorful.Hsv(normalizeHue(c.C0), clampUnit(c.C1/maxPercent), clampUnit(c.C2/maxPercent))
	return Color{
		C0:     rgb.R * maxPercent,
		C1:     rgb.G * maxPercent,
		C2:     rgb.B * maxPercent,
		Kelvin: c.Kelvin,
	}
}

func RGBToLogical(c Color) Color {
	rgb := colorful.Color{
		R: clampUnit(c.C0 / maxPercent),
		G: clampUnit(c.C1 / maxPercent),
		B: clampUnit(c.C2 / maxPercent),
	}
	h, s, v := rgb.Hsv()
	return Color{
		C0:     h,
		C1:     s * maxPercent,
		C2:     v * maxPercent,
		Kelvin: c.Kelvin,
	}
}

func RawToRGB(c Color) Color {
	return LogicalToRGB(RawToLogical(c))
}

func RGBToRaw(c Color) Color {
	return LogicalToRaw(RGBToLogical(c))
}

// ConvertTime maps a duration between modes. Only RAW uses a different
// time unit, so LOGICAL and RGB share seconds.
func ConvertTime(from, to vm.UnitMode, t float64) float64 {
	if from == to {
		return t
	}
	if to == vm.RAW {
		return math.Round(t * msPerSecond)
	}
	if from == vm.RAW {
		return t / msPerSecond
	}
	return t
}

// Seconds reads a time value held in mode as seconds.
func Seconds(mode vm.UnitMode, t float64) float64 {
	if mode == vm.RAW {
		return t / msPerSecond
	}
	return t
}

func clampUnit(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

func normalizeHue(h float64) float64 {
	h = math.Mod(h, maxDegrees)
	if h < 0 {
		h += maxDegrees
	}
	return h
}
