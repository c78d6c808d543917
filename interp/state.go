package interp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lumen-dev/lumen/vm"
)

// FormatValue formats a vm.Value for display
func FormatValue(v vm.Value) string {
	switch val := v.(type) {
	case nil:
		return "<unset>"
	case vm.Number:
		return fmt.Sprintf("%g", float64(val))
	case vm.StrValue:
		return fmt.Sprintf("%q", string(val))
	case vm.TimePattern:
		return "~" + val.String()
	default:
		return v.String()
	}
}

// displayRegisters is the order registers are printed in.
var displayRegisters = []vm.Register{
	vm.HUE, vm.SATURATION, vm.BRIGHTNESS, vm.KELVIN,
	vm.POWER_REG, vm.DURATION, vm.TIME,
	vm.NAME, vm.OPERAND, vm.FIRST_ZONE, vm.LAST_ZONE,
	vm.PC, vm.RESULT, vm.UNIT_MODE,
}

// PrettyPrint renders the register bank, one register per line. The color
// channels are labelled red/green/blue in RGB mode.
func (r *Registers) PrettyPrint() string {
	var b strings.Builder
	for _, reg := range displayRegisters {
		label := reg
		if r.UnitMode == vm.RGB {
			switch reg {
			case vm.HUE:
				label = vm.RED
			case vm.SATURATION:
				label = vm.GREEN
			case vm.BRIGHTNESS:
				label = vm.BLUE
			}
		}
		fmt.Fprintf(&b, "  %-10s = %s\n", label, FormatValue(r.Get(reg)))
	}
	return b.String()
}

// PrettyPrint returns the registers, operand stack and variables in scope.
func (m *Machine) PrettyPrint() string {
	var result string
	result += "Registers:\n"
	result += m.reg.PrettyPrint()

	result += "Operand Stack:\n"
	if len(m.math.stack) == 0 {
		result += "  (empty)\n"
	}
	for i := len(m.math.stack) - 1; i >= 0; i-- {
		result += fmt.Sprintf("  [%d] %s\n", i, FormatValue(m.math.stack[i]))
	}

	result += fmt.Sprintf("Call Stack: depth %d\n", m.calls.Depth())
	if len(m.calls.constants) > 0 {
		result += "  Constants:\n"
		result += formatVars(m.calls.constants, "    ")
	}
	for i, f := range m.calls.frames {
		switch {
		case i == 0:
			result += "  Globals:\n"
		case f.IsLoop():
			result += fmt.Sprintf("  Frame %d (loop):\n", i)
		default:
			result += fmt.Sprintf("  Frame %d (return %d):\n", i, f.returnAddr)
		}
		if f.IsLoop() {
			for tok, v := range f.loopVars {
				result += fmt.Sprintf("    %s = %s\n", tok, FormatValue(v))
			}
			continue
		}
		if f.scope.Len() == 0 {
			result += "    (none)\n"
			continue
		}
		result += formatVars(f.scope.vars, "    ")
	}
	return result
}

func formatVars(vars map[string]vm.Value, indent string) string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var result string
	for _, k := range keys {
		result += fmt.Sprintf("%s%s = %s\n", indent, k, FormatValue(vars[k]))
	}
	return result
}
