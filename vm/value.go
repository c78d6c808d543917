package vm

import (
	"fmt"
	"strconv"
)

// Value is anything an instruction parameter, register, variable or operand
// stack slot can hold. The set of implementations is closed.
type Value interface {
	isValue()
	AsBool() bool
	String() string
}

type Number float64

func (Number) isValue() {}
func (n Number) AsBool() bool {
	return n != 0
}
func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

type StrValue string

func (StrValue) isValue() {}
func (s StrValue) AsBool() bool {
	return s != ""
}
func (s StrValue) String() string {
	return string(s)
}

type BoolValue bool

func (BoolValue) isValue() {}

var (
	BoolTrue  = BoolValue(true)
	BoolFalse = BoolValue(false)
)

func (b BoolValue) AsBool() bool {
	return bool(b)
}
func (b BoolValue) String() string {
	if b {
		return "True"
	}
	return "False"
}

type NoneValue struct{}

var None = NoneValue{}

func (NoneValue) isValue()       {}
func (NoneValue) AsBool() bool   { return false }
func (NoneValue) String() string { return "None" }

type UnitModeValue UnitMode

func (UnitModeValue) isValue()         {}
func (UnitModeValue) AsBool() bool     { return true }
func (u UnitModeValue) String() string { return UnitMode(u).String() }

type OperandValue Operand

func (OperandValue) isValue()         {}
func (OperandValue) AsBool() bool     { return true }
func (o OperandValue) String() string { return Operand(o).String() }

// References. These never live in a register or variable; instructions
// carry them to name where a value comes from or goes to.

type RegisterRef Register

func (RegisterRef) isValue()         {}
func (RegisterRef) AsBool() bool     { return true }
func (r RegisterRef) String() string { return "%" + Register(r).String() }

// Symbol names a variable or constant.
type Symbol string

func (Symbol) isValue()         {}
func (Symbol) AsBool() bool     { return true }
func (s Symbol) String() string { return "$" + string(s) }

// LoopVar is a synthetic variable token visible only in the loop frame
// that created it.
type LoopVar int

func (LoopVar) isValue()         {}
func (LoopVar) AsBool() bool     { return true }
func (l LoopVar) String() string { return "@" + strconv.Itoa(int(l)) }

// Tags.

type OperatorValue Operator

func (OperatorValue) isValue()         {}
func (OperatorValue) AsBool() bool     { return true }
func (o OperatorValue) String() string { return "#" + Operator(o).String() }

type JumpConditionValue JumpCondition

func (JumpConditionValue) isValue()         {}
func (JumpConditionValue) AsBool() bool     { return true }
func (j JumpConditionValue) String() string { return "#" + JumpCondition(j).String() }

type IoOpValue IoOp

func (IoOpValue) isValue()         {}
func (IoOpValue) AsBool() bool     { return true }
func (o IoOpValue) String() string { return "#" + IoOp(o).String() }

type SetOpValue SetOp

func (SetOpValue) isValue()         {}
func (SetOpValue) AsBool() bool     { return true }
func (o SetOpValue) String() string { return "#" + SetOp(o).String() }

// AsNumber returns the numeric reading of v. Booleans count as 0 and 1.
func AsNumber(v Value) (float64, bool) {
	switch x := v.(type) {
	case Number:
		return float64(x), true
	case BoolValue:
		if x {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// IsReference reports whether v names a storage location rather than
// being a value itself.
func IsReference(v Value) bool {
	switch v.(type) {
	case RegisterRef, Symbol, LoopVar:
		return true
	}
	return false
}

// Equal compares two values. Numbers and booleans compare numerically;
// values of unrelated kinds are never equal.
func Equal(a, b Value) bool {
	if an, ok := AsNumber(a); ok {
		if bn, ok := AsNumber(b); ok {
			return an == bn
		}
		return false
	}
	switch av := a.(type) {
	case StrValue:
		bv, ok := b.(StrValue)
		return ok && av == bv
	case NoneValue:
		_, ok := b.(NoneValue)
		return ok
	case UnitModeValue:
		bv, ok := b.(UnitModeValue)
		return ok && av == bv
	case OperandValue:
		bv, ok := b.(OperandValue)
		return ok && av == bv
	case TimePattern:
		bv, ok := b.(TimePattern)
		return ok && av.String() == bv.String()
	}
	return fmt.Sprintf("%T:%s", a, a) == fmt.Sprintf("%T:%s", b, b)
}
