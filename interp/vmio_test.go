package interp

import (
	"bytes"
	"testing"

	"github.com/lumen-dev/lumen/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIO() (*VMIO, *Registers, *CallStack, *bytes.Buffer) {
	var out bytes.Buffer
	reg := NewRegisters()
	calls := NewCallStack()
	return NewVMIO(&out, reg, calls), reg, calls, &out
}

func outInst(op vm.IoOp, param vm.Value) vm.Instruction {
	return vm.NewInstruction(vm.OUT, vm.IoOpValue(op), param)
}

func TestPrintFirstBufferedValue(t *testing.T) {
	o, reg, _, buf := newTestIO()
	reg.Hue = 180
	reg.Kelvin = 2700

	require.NoError(t, o.Out(outInst(vm.IO_REGISTER, vm.RegisterRef(vm.HUE))))
	require.NoError(t, o.Out(outInst(vm.IO_REGISTER, vm.RegisterRef(vm.KELVIN))))
	assert.Equal(t, 2, o.Pending())
	require.NoError(t, o.Out(outInst(vm.IO_PRINT, vm.StrValue(" degrees\n"))))
	assert.Equal(t, "180 degrees\n", buf.String())
	assert.Equal(t, 0, o.Pending())

	// Values are captured when buffered, not when printed.
	buf.Reset()
	reg.Hue = 1.5
	require.NoError(t, o.Out(outInst(vm.IO_REGISTER, vm.RegisterRef(vm.HUE))))
	reg.Hue = 99
	require.NoError(t, o.Out(vm.NewInstruction(vm.OUT, vm.IoOpValue(vm.IO_PRINTLN))))
	assert.Equal(t, "1.5\n", buf.String())
}

func TestPrintLiteral(t *testing.T) {
	o, _, calls, buf := newTestIO()
	calls.PutVariable(vm.Symbol("who"), vm.StrValue("Desk"))

	require.NoError(t, o.Out(outInst(vm.IO_LITERAL, vm.Symbol("who"))))
	require.NoError(t, o.Out(outInst(vm.IO_PRINT, vm.StrValue("!"))))
	assert.Equal(t, "Desk!", buf.String())

	assert.ErrorIs(t, o.Out(outInst(vm.IO_LITERAL, vm.Symbol("nobody"))), ErrUnresolvedName)
	assert.ErrorIs(t, o.Out(outInst(vm.IO_REGISTER, vm.StrValue("hue"))), ErrBadParam)
	assert.ErrorIs(t, o.Out(vm.NewInstruction(vm.OUT, vm.Number(1))), ErrBadParam)
}

func TestPrintf(t *testing.T) {
	o, reg, calls, buf := newTestIO()
	reg.Hue = 120
	reg.Brightness = 33.333
	calls.PutVariable(vm.Symbol("room"), vm.StrValue("Office"))

	o.unnamed = []vm.Value{vm.Number(1), vm.StrValue("two"), vm.Number(3.14159)}
	require.NoError(t, o.Out(outInst(vm.IO_PRINTF,
		vm.StrValue("{} {} {0} {2:.1f} hue={hue:d} bri={brightness:.2f} in {room:8} {{x}}\n"))))
	assert.Equal(t, "1 two 1 3.1 hue=120 bri=33.33 in   Office {x}\n", buf.String())
	assert.Equal(t, 0, o.Pending())
}

func TestPrintfMissingFields(t *testing.T) {
	o, _, _, _ := newTestIO()
	assert.Equal(t, "a <?> <5?> <nope?>", o.Sprintf("a {} {5} {nope}"))
	assert.Equal(t, "open {", o.Sprintf("open {"))
}

func TestFormatField(t *testing.T) {
	assert.Equal(t, "0042", formatField(vm.Number(42), "04d"))
	assert.Equal(t, "ff", formatField(vm.Number(255), "x"))
	assert.Equal(t, "3", formatField(vm.Number(2.6), "d"))
	assert.Equal(t, "True", formatField(vm.BoolTrue, ""))
	assert.Equal(t, "  None", formatField(vm.None, "6"))
	assert.Equal(t, "abc", formatField(vm.StrValue("abc"), "d"))
}
