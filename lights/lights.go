// Package lights defines the light-control collaborator the machine drives,
// plus an in-memory simulation of it.
package lights

import (
	"fmt"
	"time"
)

// Color is the device encoding of a color: 16-bit hue, saturation and
// brightness, and kelvin.
type Color struct {
	Hue        uint16
	Saturation uint16
	Brightness uint16
	Kelvin     uint16
}

func (c Color) String() string {
	return fmt.Sprintf("[%d %d %d %d]", c.Hue, c.Saturation, c.Brightness, c.Kelvin)
}

const (
	PowerOff uint16 = 0
	PowerOn  uint16 = 65535
)

type Light interface {
	Name() string
	Multizone() bool
	ZoneCount() int
	SetColor(c Color, d time.Duration) error
	SetPower(level uint16, d time.Duration) error
	GetColor() (Color, error)
	SetZoneColor(start, end int, c Color, d time.Duration) error
	GetColorZones(start, end int) ([]Color, error)
}

// LightSet resolves names to lights. Groups and locations resolve to the
// names of their member lights.
type LightSet interface {
	GetLight(name string) (Light, bool)
	GetGroup(name string) ([]string, bool)
	GetLocation(name string) ([]string, bool)
	LightNames() []string
	GroupNames() []string
	LocationNames() []string
}
