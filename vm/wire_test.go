package vm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeProgram(t *testing.T) {
	tp, err := ParseTimePattern("12:*0")
	require.NoError(t, err)
	prog := &Program{
		Name: "demo",
		Code: []Instruction{
			NewInstruction(JUMP, JumpConditionValue(ALWAYS), Number(4)),
			NewInstruction(ROUTINE, StrValue("blink")),
			NewInstruction(MOVE, Symbol("x"), RegisterRef(HUE)),
			NewInstruction(END),
			NewInstruction(PARAM, StrValue("x"), Number(120.5)),
			NewInstruction(JSR, StrValue("blink")),
			NewInstruction(MOVEQ, UnitModeValue(RAW), RegisterRef(UNIT_MODE)),
			NewInstruction(MOVEQ, OperandValue(GROUP), RegisterRef(OPERAND)),
			NewInstruction(TIME_PATTERN, SetOpValue(INIT), tp),
			NewInstruction(OUT, IoOpValue(IO_PRINT), StrValue("\n")),
			NewInstruction(PUSHQ, None),
			NewInstruction(POP, LoopVar(3)),
			NewInstruction(OP, OperatorValue(NOTEQ)),
			NewInstruction(MOVEQ, BoolTrue, RegisterRef(POWER_REG)),
			NewInstruction(STOP),
		},
		Routines: map[string]int{"blink": 1},
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeProgram(&buf, prog))
	got, err := DecodeProgram(&buf)
	require.NoError(t, err)

	assert.Equal(t, prog.Name, got.Name)
	assert.Equal(t, prog.Routines, got.Routines)
	require.Len(t, got.Code, len(prog.Code))
	for i := range prog.Code {
		assert.Equal(t, prog.Code[i].String(), got.Code[i].String(), "instruction %d", i)
	}
	assert.Equal(t, prog.Fingerprint(), got.Fingerprint())
}

func TestDecodeProgramRejectsGarbage(t *testing.T) {
	_, err := DecodeProgram(bytes.NewReader([]byte{0xc1, 0x00}))
	assert.Error(t, err)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(Number(1), BoolTrue))
	assert.True(t, Equal(StrValue("a"), StrValue("a")))
	assert.False(t, Equal(StrValue("1"), Number(1)))
	assert.True(t, Equal(None, None))
	assert.False(t, Equal(None, Number(0)))
	assert.True(t, Equal(UnitModeValue(RGB), UnitModeValue(RGB)))
	assert.False(t, Equal(OperandValue(ALL), OperandValue(LIGHT)))
}

func TestEncodeProgramIsDeterministic(t *testing.T) {
	prog := &Program{
		Name: "many",
		Code: []Instruction{NewInstruction(NOP)},
		Routines: map[string]int{
			"a": 0, "b": 0, "c": 0, "d": 0, "e": 0, "f": 0, "g": 0, "h": 0,
		},
	}
	var first bytes.Buffer
	require.NoError(t, EncodeProgram(&first, prog))
	for i := 0; i < 20; i++ {
		var again bytes.Buffer
		require.NoError(t, EncodeProgram(&again, prog))
		require.Equal(t, first.Bytes(), again.Bytes())
	}
}
