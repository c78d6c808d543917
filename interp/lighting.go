package interp

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/lumen-dev/lumen/lights"
	"github.com/lumen-dev/lumen/units"
	"github.com/lumen-dev/lumen/vm"
)

// wireColor converts the color registers to the integer form lights take.
func (m *Machine) wireColor() lights.Color {
	c := units.Convert(m.reg.UnitMode, vm.RAW, m.reg.Color())
	return lights.Color{
		Hue:        toUint16(c.C0),
		Saturation: toUint16(c.C1),
		Brightness: toUint16(c.C2),
		Kelvin:     toUint16(c.Kelvin),
	}
}

func (m *Machine) setColorFromWire(c lights.Color) {
	raw := units.Color{
		C0:     float64(c.Hue),
		C1:     float64(c.Saturation),
		C2:     float64(c.Brightness),
		Kelvin: float64(c.Kelvin),
	}
	m.reg.SetColor(units.Convert(vm.RAW, m.reg.UnitMode, raw))
}

func (m *Machine) transition() time.Duration {
	secs := units.Seconds(m.reg.UnitMode, m.reg.Duration)
	if secs <= 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

func toUint16(x float64) uint16 {
	x = math.Round(x)
	switch {
	case x < 0:
		return 0
	case x > math.MaxUint16:
		return math.MaxUint16
	}
	return uint16(x)
}

func (m *Machine) operand() (vm.Operand, bool) {
	o, ok := m.reg.Operand.(vm.OperandValue)
	return vm.Operand(o), ok
}

func (m *Machine) targetName() string {
	switch n := m.reg.Name.(type) {
	case vm.StrValue:
		return string(n)
	case vm.NoneValue:
		return ""
	}
	return m.reg.Name.String()
}

// targets resolves OPERAND and NAME to the lights an instruction addresses.
// Missing lights are logged and left out.
func (m *Machine) targets(what string) []lights.Light {
	op, ok := m.operand()
	if !ok {
		m.logger.Warn().Str("instruction", what).Msg("No operand set; skipping")
		return nil
	}
	name := m.targetName()
	var names []string
	switch op {
	case vm.ALL:
		names = m.lights.LightNames()
	case vm.LIGHT, vm.MZ_LIGHT:
		names = []string{name}
	case vm.GROUP:
		names, ok = m.lights.GetGroup(name)
		if !ok {
			m.logger.Warn().Str("instruction", what).Str("group", name).Msg("Unknown group; skipping")
			return nil
		}
	case vm.LOCATION:
		names, ok = m.lights.GetLocation(name)
		if !ok {
			m.logger.Warn().Str("instruction", what).Str("location", name).Msg("Unknown location; skipping")
			return nil
		}
	default:
		panic(fmt.Sprintf("Unknown operand %d", op))
	}
	var out []lights.Light
	for _, n := range names {
		l, ok := m.lights.GetLight(n)
		if !ok {
			m.logger.Warn().Str("instruction", what).Str("light", n).Msg("Unknown light; skipping")
			continue
		}
		out = append(out, l)
	}
	return out
}

// zones returns the inclusive zone range for a multi-zone light. None in
// FIRST_ZONE selects the whole light; None in LAST_ZONE selects the single
// zone FIRST_ZONE names.
func (m *Machine) zones(l lights.Light) (int, int) {
	first, ok := vm.AsNumber(m.reg.FirstZone)
	if !ok {
		return 0, l.ZoneCount() - 1
	}
	last, ok := vm.AsNumber(m.reg.LastZone)
	if !ok {
		last = first
	}
	return int(first), int(last)
}

func (m *Machine) color() error {
	op, _ := m.operand()
	c := m.wireColor()
	d := m.transition()
	for _, l := range m.targets("COLOR") {
		var err error
		if op == vm.MZ_LIGHT {
			if !l.Multizone() {
				m.logger.Warn().Str("light", l.Name()).Msg("COLOR: light is not multi-zone; skipping")
				continue
			}
			start, end := m.zones(l)
			m.logger.Trace().Str("light", l.Name()).Int("start", start).Int("end", end).Stringer("color", c).Msg("  COLOR zones")
			err = l.SetZoneColor(start, end, c, d)
		} else {
			m.logger.Trace().Str("light", l.Name()).Stringer("color", c).Dur("duration", d).Msg("  COLOR")
			err = l.SetColor(c, d)
		}
		if err != nil {
			m.logger.Warn().Err(err).Str("light", l.Name()).Msg("COLOR failed")
		}
	}
	return nil
}

func (m *Machine) power() error {
	level := lights.PowerOff
	if m.reg.Power {
		level = lights.PowerOn
	}
	d := m.transition()
	for _, l := range m.targets("POWER") {
		m.logger.Trace().Str("light", l.Name()).Uint16("level", level).Msg("  POWER")
		if err := l.SetPower(level, d); err != nil {
			m.logger.Warn().Err(err).Str("light", l.Name()).Msg("POWER failed")
		}
	}
	return nil
}

// getColor reads a single light back into the color registers.
func (m *Machine) getColor() error {
	op, ok := m.operand()
	if !ok || (op != vm.LIGHT && op != vm.MZ_LIGHT) {
		m.logger.Warn().Stringer("operand", m.reg.Operand).Msg("GET_COLOR needs a single light; skipping")
		return nil
	}
	name := m.targetName()
	l, found := m.lights.GetLight(name)
	if !found {
		m.logger.Warn().Str("light", name).Msg("GET_COLOR: unknown light; skipping")
		return nil
	}

	var c lights.Color
	if op == vm.MZ_LIGHT {
		if !l.Multizone() {
			m.logger.Warn().Str("light", name).Msg("GET_COLOR: light is not multi-zone; skipping")
			return nil
		}
		start, _ := m.zones(l)
		colors, err := l.GetColorZones(start, start)
		if err != nil || len(colors) == 0 {
			m.logger.Warn().Err(err).Str("light", name).Int("zone", start).Msg("GET_COLOR failed")
			return nil
		}
		c = colors[0]
	} else {
		var err error
		c, err = l.GetColor()
		if err != nil {
			m.logger.Warn().Err(err).Str("light", name).Msg("GET_COLOR failed")
			return nil
		}
	}
	m.setColorFromWire(c)
	m.logger.Trace().Str("light", name).Stringer("color", c).Msg("  GET_COLOR")
	return nil
}

// discoveryNames lists the names a discovery loop over op iterates, sorted.
func (m *Machine) discoveryNames(v vm.Value) ([]string, error) {
	o, ok := v.(vm.OperandValue)
	if !ok {
		return nil, fmt.Errorf("%w: discovery needs an operand, got %v", ErrBadParam, v)
	}
	switch vm.Operand(o) {
	case vm.ALL, vm.LIGHT, vm.MZ_LIGHT:
		names := m.lights.LightNames()
		if vm.Operand(o) == vm.MZ_LIGHT {
			names = slices.DeleteFunc(slices.Clone(names), func(n string) bool {
				l, ok := m.lights.GetLight(n)
				return !ok || !l.Multizone()
			})
		}
		return names, nil
	case vm.GROUP:
		return m.lights.GroupNames(), nil
	case vm.LOCATION:
		return m.lights.LocationNames(), nil
	}
	return nil, fmt.Errorf("%w: unknown operand %d", ErrBadParam, o)
}

// discover sets RESULT to the first name of a kind, or None if there is none.
func (m *Machine) discover(inst vm.Instruction) error {
	names, err := m.discoveryNames(inst.Param0)
	if err != nil {
		return err
	}
	m.reg.Result = vm.None
	if len(names) > 0 {
		m.reg.Result = vm.StrValue(names[0])
	}
	m.logger.Trace().Stringer("result", m.reg.Result).Msg("  DISC")
	return nil
}

// discoverNext sets RESULT to the first name sorting after the current one.
func (m *Machine) discoverNext(inst vm.Instruction) error {
	names, err := m.discoveryNames(inst.Param0)
	if err != nil {
		return err
	}
	cur, err := m.resolve(inst.Param1)
	if err != nil {
		return err
	}
	m.reg.Result = vm.None
	if s, ok := cur.(vm.StrValue); ok {
		i, found := slices.BinarySearch(names, string(s))
		if found {
			i++
		}
		if i < len(names) {
			m.reg.Result = vm.StrValue(names[i])
		}
	}
	m.logger.Trace().Stringer("current", cur).Stringer("result", m.reg.Result).Msg("  DNEXT")
	return nil
}

func (m *Machine) zoneLight(v vm.Value) (lights.Light, error) {
	src, err := m.resolve(v)
	if err != nil {
		return nil, err
	}
	name, ok := src.(vm.StrValue)
	if !ok {
		return nil, fmt.Errorf("%w: expected a light name, got %v", ErrBadParam, src)
	}
	l, ok := m.lights.GetLight(string(name))
	if !ok {
		m.logger.Warn().Str("light", string(name)).Msg("Zone discovery: unknown light")
		return nil, nil
	}
	return l, nil
}

// discoverZones sets RESULT to the first zone index of a multi-zone light.
func (m *Machine) discoverZones(inst vm.Instruction) error {
	l, err := m.zoneLight(inst.Param0)
	if err != nil {
		return err
	}
	m.reg.Result = vm.None
	if l != nil && l.Multizone() && l.ZoneCount() > 0 {
		m.reg.Result = vm.Number(0)
	}
	m.logger.Trace().Stringer("result", m.reg.Result).Msg("  DISCM")
	return nil
}

func (m *Machine) discoverNextZone(inst vm.Instruction) error {
	l, err := m.zoneLight(inst.Param0)
	if err != nil {
		return err
	}
	cur, err := m.resolve(inst.Param1)
	if err != nil {
		return err
	}
	m.reg.Result = vm.None
	if n, ok := vm.AsNumber(cur); ok && l != nil && l.Multizone() {
		if next := int(n) + 1; next < l.ZoneCount() {
			m.reg.Result = vm.Number(next)
		}
	}
	m.logger.Trace().Stringer("current", cur).Stringer("result", m.reg.Result).Msg("  DNEXTM")
	return nil
}
