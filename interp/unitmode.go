package interp

import (
	"github.com/lumen-dev/lumen/units"
	"github.com/lumen-dev/lumen/vm"
)

// setUnitMode reinterprets the color registers in a new unit mode. DURATION
// and a numeric TIME change scale only when RAW is on one side.
func (m *Machine) setUnitMode(to vm.UnitMode) {
	from := m.reg.UnitMode
	if from == to {
		return
	}
	m.reg.SetColor(units.Convert(from, to, m.reg.Color()))
	if from == vm.RAW || to == vm.RAW {
		m.reg.Duration = units.ConvertTime(from, to, m.reg.Duration)
		if t, ok := m.reg.Time.(vm.Number); ok {
			m.reg.Time = vm.Number(units.ConvertTime(from, to, float64(t)))
		}
	}
	m.reg.UnitMode = to
	m.logger.Trace().Str("from", from.String()).Str("to", to.String()).Msg("  UNIT_MODE")
}
