package interp

import (
	"fmt"

	"github.com/lumen-dev/lumen/units"
	"github.com/lumen-dev/lumen/vm"
)

// Registers is the machine's register bank. The three color channels are
// hue/saturation/brightness or red/green/blue depending on UnitMode.
type Registers struct {
	Hue        float64
	Saturation float64
	Brightness float64
	Kelvin     float64
	Power      bool
	Duration   float64
	Time       vm.Value // Number or TimePattern
	Name       vm.Value
	Operand    vm.Value
	FirstZone  vm.Value
	LastZone   vm.Value
	PC         int
	Result     vm.Value
	UnitMode   vm.UnitMode
}

func NewRegisters() *Registers {
	r := &Registers{}
	r.Reset()
	return r
}

func (r *Registers) Reset() {
	*r = Registers{
		Time:      vm.Number(0),
		Name:      vm.None,
		Operand:   vm.None,
		FirstZone: vm.None,
		LastZone:  vm.None,
		Result:    vm.None,
		UnitMode:  vm.LOGICAL,
	}
}

func (r *Registers) Get(reg vm.Register) vm.Value {
	switch reg.Canonical() {
	case vm.HUE:
		return vm.Number(r.Hue)
	case vm.SATURATION:
		return vm.Number(r.Saturation)
	case vm.BRIGHTNESS:
		return vm.Number(r.Brightness)
	case vm.KELVIN:
		return vm.Number(r.Kelvin)
	case vm.POWER_REG:
		return vm.BoolValue(r.Power)
	case vm.DURATION:
		return vm.Number(r.Duration)
	case vm.TIME:
		return r.Time
	case vm.NAME:
		return r.Name
	case vm.OPERAND:
		return r.Operand
	case vm.FIRST_ZONE:
		return r.FirstZone
	case vm.LAST_ZONE:
		return r.LastZone
	case vm.PC:
		return vm.Number(r.PC)
	case vm.RESULT:
		return r.Result
	case vm.UNIT_MODE:
		return vm.UnitModeValue(r.UnitMode)
	}
	panic(fmt.Sprintf("Unknown register %d", reg))
}

// Set writes a register without any unit conversion.
func (r *Registers) Set(reg vm.Register, v vm.Value) error {
	switch reg.Canonical() {
	case vm.HUE:
		return setNumber(&r.Hue, reg, v)
	case vm.SATURATION:
		return setNumber(&r.Saturation, reg, v)
	case vm.BRIGHTNESS:
		return setNumber(&r.Brightness, reg, v)
	case vm.KELVIN:
		return setNumber(&r.Kelvin, reg, v)
	case vm.DURATION:
		return setNumber(&r.Duration, reg, v)
	case vm.POWER_REG:
		r.Power = v.AsBool()
	case vm.TIME:
		switch v.(type) {
		case vm.Number, vm.TimePattern, vm.NoneValue:
			r.Time = v
		default:
			return badRegisterValue(reg, v)
		}
	case vm.NAME:
		r.Name = v
	case vm.OPERAND:
		switch v.(type) {
		case vm.OperandValue, vm.NoneValue:
			r.Operand = v
		default:
			return badRegisterValue(reg, v)
		}
	case vm.FIRST_ZONE, vm.LAST_ZONE:
		switch v.(type) {
		case vm.Number, vm.NoneValue:
		default:
			return badRegisterValue(reg, v)
		}
		if reg == vm.FIRST_ZONE {
			r.FirstZone = v
		} else {
			r.LastZone = v
		}
	case vm.PC:
		n, ok := vm.AsNumber(v)
		if !ok {
			return badRegisterValue(reg, v)
		}
		r.PC = int(n)
	case vm.RESULT:
		r.Result = v
	case vm.UNIT_MODE:
		u, ok := v.(vm.UnitModeValue)
		if !ok {
			return badRegisterValue(reg, v)
		}
		r.UnitMode = vm.UnitMode(u)
	default:
		panic(fmt.Sprintf("Unknown register %d", reg))
	}
	return nil
}

func setNumber(dst *float64, reg vm.Register, v vm.Value) error {
	n, ok := vm.AsNumber(v)
	if !ok {
		return badRegisterValue(reg, v)
	}
	*dst = n
	return nil
}

func badRegisterValue(reg vm.Register, v vm.Value) error {
	return fmt.Errorf("%w: register %s can't hold %T %s", ErrBadParam, reg, v, v)
}

// Color returns the color registers in the current unit mode.
func (r *Registers) Color() units.Color {
	return units.Color{C0: r.Hue, C1: r.Saturation, C2: r.Brightness, Kelvin: r.Kelvin}
}

func (r *Registers) SetColor(c units.Color) {
	r.Hue, r.Saturation, r.Brightness, r.Kelvin = c.C0, c.C1, c.C2, c.Kelvin
}
