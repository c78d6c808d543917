package interp

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/lumen-dev/lumen/vm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
)

// VMIO buffers values for output and renders the print instructions.
type VMIO struct {
	out     io.Writer
	unnamed []vm.Value
	reg     *Registers
	calls   *CallStack
}

func NewVMIO(out io.Writer, reg *Registers, calls *CallStack) *VMIO {
	return &VMIO{out: out, reg: reg, calls: calls}
}

func (o *VMIO) Reset() {
	o.unnamed = nil
}

// Pending returns the number of buffered values.
func (o *VMIO) Pending() int {
	return len(o.unnamed)
}

func (o *VMIO) Out(inst vm.Instruction) error {
	op, ok := inst.Param0.(vm.IoOpValue)
	if !ok {
		return fmt.Errorf("%w: OUT needs an io op, got %v", ErrBadParam, inst.Param0)
	}
	switch vm.IoOp(op) {
	case vm.IO_REGISTER:
		r, ok := inst.Param1.(vm.RegisterRef)
		if !ok {
			return fmt.Errorf("%w: OUT REGISTER needs a register, got %v", ErrBadParam, inst.Param1)
		}
		o.unnamed = append(o.unnamed, o.reg.Get(vm.Register(r)))
	case vm.IO_LITERAL:
		v, err := o.literal(inst.Param1)
		if err != nil {
			return err
		}
		o.unnamed = append(o.unnamed, v)
	case vm.IO_PRINT:
		trailer := ""
		if s, ok := inst.Param1.(vm.StrValue); ok {
			trailer = string(s)
		}
		o.print(trailer)
	case vm.IO_PRINTLN:
		o.print("\n")
	case vm.IO_PRINTF:
		format, ok := inst.Param1.(vm.StrValue)
		if !ok {
			return fmt.Errorf("%w: PRINTF needs a format string, got %v", ErrBadParam, inst.Param1)
		}
		_, err := io.WriteString(o.out, o.Sprintf(string(format)))
		o.unnamed = nil
		return err
	default:
		return fmt.Errorf("%w: unknown io op %d", ErrBadParam, op)
	}
	return nil
}

func (o *VMIO) literal(v vm.Value) (vm.Value, error) {
	switch x := v.(type) {
	case vm.RegisterRef:
		return o.reg.Get(vm.Register(x)), nil
	case vm.Symbol, vm.LoopVar:
		val, ok := o.calls.GetVariable(x)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnresolvedName, x)
		}
		return val, nil
	case nil:
		return nil, fmt.Errorf("%w: OUT LITERAL without a value", ErrBadParam)
	}
	return v, nil
}

func (o *VMIO) print(trailer string) {
	var b strings.Builder
	if len(o.unnamed) > 0 {
		b.WriteString(renderValue(o.unnamed[0]))
	}
	b.WriteString(trailer)
	io.WriteString(o.out, b.String())
	o.unnamed = nil
}

// Sprintf renders a format string against the buffered values. Fields are
// {} for the next buffered value, {n} for the n-th, and {name} for a
// register or variable, each optionally followed by :spec. {{ and }} are
// literal braces.
func (o *VMIO) Sprintf(format string) string {
	var b strings.Builder
	next := 0
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c == '}' {
			if i+1 < len(format) && format[i+1] == '}' {
				i++
			}
			b.WriteByte('}')
			continue
		}
		if c != '{' {
			b.WriteByte(c)
			continue
		}
		if i+1 < len(format) && format[i+1] == '{' {
			b.WriteByte('{')
			i++
			continue
		}
		end := strings.IndexByte(format[i:], '}')
		if end < 0 {
			b.WriteString(format[i:])
			break
		}
		field := format[i+1 : i+end]
		i += end

		name, spec, _ := strings.Cut(field, ":")
		var v vm.Value
		if name == "" {
			v = o.positional(next)
			next++
		} else if n, err := strconv.Atoi(name); err == nil {
			v = o.positional(n)
		} else {
			v = o.named(name)
		}
		if v == nil {
			b.WriteString("<" + field + "?>")
			continue
		}
		b.WriteString(formatField(v, spec))
	}
	return b.String()
}

func (o *VMIO) positional(n int) vm.Value {
	if n < 0 || n >= len(o.unnamed) {
		log.Warn().Int("index", n).Int("buffered", len(o.unnamed)).Msg("PRINTF: no value for positional field")
		return nil
	}
	return o.unnamed[n]
}

func (o *VMIO) named(name string) vm.Value {
	if r, ok := vm.ParseRegister(name); ok {
		return o.reg.Get(r)
	}
	if v, ok := o.calls.GetVariable(vm.Symbol(name)); ok {
		return v
	}
	log.Warn().Str("name", name).Msg("PRINTF: unknown field")
	return nil
}

func renderValue(v vm.Value) string {
	if n, ok := v.(vm.Number); ok {
		return cast.ToString(float64(n))
	}
	return v.String()
}

// formatField maps a field spec such as "d", ".2f" or "6" onto a fmt verb.
func formatField(v vm.Value, spec string) string {
	if spec == "" {
		return renderValue(v)
	}
	verb := spec[len(spec)-1]
	if !strings.ContainsRune("bdoxXeEfFgGs", rune(verb)) {
		return fmt.Sprintf("%"+spec+"s", renderValue(v))
	}
	n, isNum := vm.AsNumber(v)
	switch verb {
	case 'b', 'd', 'o', 'x', 'X':
		if isNum {
			return fmt.Sprintf("%"+spec, cast.ToInt64(math.Round(n)))
		}
	case 'e', 'E', 'f', 'F', 'g', 'G':
		if isNum {
			return fmt.Sprintf("%"+spec, n)
		}
	}
	return fmt.Sprintf("%"+spec[:len(spec)-1]+"s", renderValue(v))
}
