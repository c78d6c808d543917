package vm

import (
	"fmt"
	"strings"
)

// Register identifies one slot of the machine's register bank. RED, GREEN
// and BLUE alias HUE, SATURATION and BRIGHTNESS; which name applies depends
// on the unit mode.
type Register uint8

const (
	HUE Register = iota
	SATURATION
	BRIGHTNESS
	KELVIN
	RED
	GREEN
	BLUE
	POWER_REG
	DURATION
	TIME
	NAME
	OPERAND
	FIRST_ZONE
	LAST_ZONE
	PC
	RESULT
	UNIT_MODE

	RegisterMax
)

var registerNames = [...]string{
	HUE:        "hue",
	SATURATION: "saturation",
	BRIGHTNESS: "brightness",
	KELVIN:     "kelvin",
	RED:        "red",
	GREEN:      "green",
	BLUE:       "blue",
	POWER_REG:  "power",
	DURATION:   "duration",
	TIME:       "time",
	NAME:       "name",
	OPERAND:    "operand",
	FIRST_ZONE: "first_zone",
	LAST_ZONE:  "last_zone",
	PC:         "pc",
	RESULT:     "result",
	UNIT_MODE:  "unit_mode",
}

func (r Register) String() string {
	if r < RegisterMax {
		return registerNames[r]
	}
	return fmt.Sprintf("Register(%d)", r)
}

// Canonical folds the RGB aliases onto the slot they share.
func (r Register) Canonical() Register {
	switch r {
	case RED:
		return HUE
	case GREEN:
		return SATURATION
	case BLUE:
		return BRIGHTNESS
	}
	return r
}

// ParseRegister looks up a register by name, case-insensitively.
func ParseRegister(s string) (Register, bool) {
	s = strings.ToLower(s)
	for i, n := range registerNames {
		if n == s {
			return Register(i), true
		}
	}
	return 0, false
}

type Operator uint8

const (
	ADD Operator = iota
	SUB
	MUL
	DIV
	MOD
	POW
	EQ
	NOTEQ
	LT
	LTEQ
	GT
	GTEQ
	AND
	OR
	NOT
	UNARY_MINUS
	UNARY_PLUS

	OperatorMax
)

var operatorNames = [...]string{
	ADD:         "ADD",
	SUB:         "SUB",
	MUL:         "MUL",
	DIV:         "DIV",
	MOD:         "MOD",
	POW:         "POW",
	EQ:          "EQ",
	NOTEQ:       "NOTEQ",
	LT:          "LT",
	LTEQ:        "LTEQ",
	GT:          "GT",
	GTEQ:        "GTEQ",
	AND:         "AND",
	OR:          "OR",
	NOT:         "NOT",
	UNARY_MINUS: "UNARY_MINUS",
	UNARY_PLUS:  "UNARY_PLUS",
}

func (o Operator) String() string {
	if o < OperatorMax {
		return operatorNames[o]
	}
	return fmt.Sprintf("Operator(%d)", o)
}

// IsUnary reports whether o takes a single operand.
func (o Operator) IsUnary() bool {
	switch o {
	case NOT, UNARY_MINUS, UNARY_PLUS:
		return true
	}
	return false
}

type JumpCondition uint8

const (
	ALWAYS JumpCondition = iota
	IF_TRUE
	IF_FALSE
	INDIRECT

	JumpConditionMax
)

var jumpConditionNames = [...]string{
	ALWAYS:   "ALWAYS",
	IF_TRUE:  "IF_TRUE",
	IF_FALSE: "IF_FALSE",
	INDIRECT: "INDIRECT",
}

func (j JumpCondition) String() string {
	if j < JumpConditionMax {
		return jumpConditionNames[j]
	}
	return fmt.Sprintf("JumpCondition(%d)", j)
}

// Operand is the addressing kind used by COLOR, POWER and GET_COLOR.
type Operand uint8

const (
	ALL Operand = iota
	LIGHT
	GROUP
	LOCATION
	MZ_LIGHT

	OperandMax
)

var operandNames = [...]string{
	ALL:      "ALL",
	LIGHT:    "LIGHT",
	GROUP:    "GROUP",
	LOCATION: "LOCATION",
	MZ_LIGHT: "MZ_LIGHT",
}

func (o Operand) String() string {
	if o < OperandMax {
		return operandNames[o]
	}
	return fmt.Sprintf("Operand(%d)", o)
}

type UnitMode uint8

const (
	LOGICAL UnitMode = iota
	RAW
	RGB

	UnitModeMax
)

var unitModeNames = [...]string{
	LOGICAL: "LOGICAL",
	RAW:     "RAW",
	RGB:     "RGB",
}

func (u UnitMode) String() string {
	if u < UnitModeMax {
		return unitModeNames[u]
	}
	return fmt.Sprintf("UnitMode(%d)", u)
}

// ParseUnitMode accepts the mode names case-insensitively.
func ParseUnitMode(s string) (UnitMode, bool) {
	s = strings.ToUpper(s)
	for i, n := range unitModeNames {
		if n == s {
			return UnitMode(i), true
		}
	}
	return LOGICAL, false
}

// IoOp selects the OUT sub-operation.
type IoOp uint8

const (
	IO_REGISTER IoOp = iota
	IO_LITERAL
	IO_PRINT
	IO_PRINTLN
	IO_PRINTF

	IoOpMax
)

var ioOpNames = [...]string{
	IO_REGISTER: "REGISTER",
	IO_LITERAL:  "LITERAL",
	IO_PRINT:    "PRINT",
	IO_PRINTLN:  "PRINTLN",
	IO_PRINTF:   "PRINTF",
}

func (o IoOp) String() string {
	if o < IoOpMax {
		return ioOpNames[o]
	}
	return fmt.Sprintf("IoOp(%d)", o)
}

// SetOp selects how TIME_PATTERN combines with the TIME register.
type SetOp uint8

const (
	INIT SetOp = iota
	UNION

	SetOpMax
)

var setOpNames = [...]string{
	INIT:  "INIT",
	UNION: "UNION",
}

func (o SetOp) String() string {
	if o < SetOpMax {
		return setOpNames[o]
	}
	return fmt.Sprintf("SetOp(%d)", o)
}

// ParseTag resolves a bare tag name to its value. Tag names are unique
// across the enumerations, so the lookup is unambiguous.
func ParseTag(s string) (Value, bool) {
	s = strings.ToUpper(s)
	if s == "NONE" {
		return None, true
	}
	for i, n := range operatorNames {
		if n == s {
			return OperatorValue(i), true
		}
	}
	for i, n := range jumpConditionNames {
		if n == s {
			return JumpConditionValue(i), true
		}
	}
	for i, n := range operandNames {
		if n == s {
			return OperandValue(i), true
		}
	}
	for i, n := range unitModeNames {
		if n == s {
			return UnitModeValue(i), true
		}
	}
	for i, n := range ioOpNames {
		if n == s {
			return IoOpValue(i), true
		}
	}
	for i, n := range setOpNames {
		if n == s {
			return SetOpValue(i), true
		}
	}
	return nil, false
}
