package interp

import (
	"fmt"
	"math"

	"github.com/lumen-dev/lumen/vm"
	"github.com/rs/zerolog/log"
)

// VMMath is the operand stack together with the operators that work on it.
type VMMath struct {
	stack []vm.Value
	reg   *Registers
	calls *CallStack
}

func NewVMMath(reg *Registers, calls *CallStack) *VMMath {
	return &VMMath{reg: reg, calls: calls}
}

func (m *VMMath) Reset() {
	m.stack = m.stack[:0]
}

func (m *VMMath) Depth() int {
	return len(m.stack)
}

func (m *VMMath) push(v vm.Value) {
	m.stack = append(m.stack, v)
}

func (m *VMMath) pop() vm.Value {
	if len(m.stack) == 0 {
		panic("Operand stack underrun")
	}
	v := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return v
}

// Push dereferences src and pushes the value it names.
func (m *VMMath) Push(src vm.Value) error {
	switch s := src.(type) {
	case vm.RegisterRef:
		m.push(m.reg.Get(vm.Register(s)))
	case vm.Symbol, vm.LoopVar:
		v, ok := m.calls.GetVariable(s)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnresolvedName, s)
		}
		m.push(v)
	case nil:
		return fmt.Errorf("%w: PUSH without an operand", ErrBadParam)
	default:
		m.push(src)
	}
	return nil
}

// PushQ pushes a literal as-is.
func (m *VMMath) PushQ(v vm.Value) {
	m.push(v)
}

// Pop stores the top of the stack into a register or variable.
func (m *VMMath) Pop(dest vm.Value) error {
	v := m.pop()
	switch d := dest.(type) {
	case vm.RegisterRef:
		return m.reg.Set(vm.Register(d), v)
	case vm.Symbol, vm.LoopVar:
		m.calls.PutVariable(d, v)
		return nil
	}
	return fmt.Errorf("%w: can't POP into %v", ErrBadParam, dest)
}

// Op applies a unary or binary operator.
func (m *VMMath) Op(op vm.Operator) error {
	if op.IsUnary() {
		return m.UnaryOp(op)
	}
	return m.BinOp(op)
}

// UnaryOp replaces the top of the stack.
func (m *VMMath) UnaryOp(op vm.Operator) error {
	if len(m.stack) == 0 {
		panic("Operand stack underrun")
	}
	top := &m.stack[len(m.stack)-1]
	switch op {
	case vm.NOT:
		*top = vm.BoolValue(!(*top).AsBool())
	case vm.UNARY_MINUS, vm.UNARY_PLUS:
		n, ok := vm.AsNumber(*top)
		if !ok {
			return fmt.Errorf("Can't apply %s to %T", op, *top)
		}
		if op == vm.UNARY_MINUS {
			n = -n
		}
		*top = vm.Number(n)
	default:
		return fmt.Errorf("%w: %s is not a unary operator", ErrBadParam, op)
	}
	return nil
}

// BinOp pops the right operand, then the left, and pushes left OP right.
func (m *VMMath) BinOp(op vm.Operator) error {
	right := m.pop()
	left := m.pop()
	v, err := binOp(op, left, right)
	if err != nil {
		return err
	}
	log.Trace().Str("op", op.String()).Stringer("left", left).Stringer("right", right).Stringer("result", v).Msg("  BINOP")
	m.push(v)
	return nil
}

func binOp(op vm.Operator, a, b vm.Value) (vm.Value, error) {
	switch op {
	case vm.EQ:
		return vm.BoolValue(vm.Equal(a, b)), nil
	case vm.NOTEQ:
		return vm.BoolValue(!vm.Equal(a, b)), nil
	case vm.AND:
		return vm.BoolValue(a.AsBool() && b.AsBool()), nil
	case vm.OR:
		return vm.BoolValue(a.AsBool() || b.AsBool()), nil
	case vm.LT, vm.LTEQ, vm.GT, vm.GTEQ:
		c, err := compare(a, b)
		if err != nil {
			return nil, err
		}
		return vm.BoolValue(ordered(op, c)), nil
	case vm.ADD:
		if as, ok := a.(vm.StrValue); ok {
			if bs, ok := b.(vm.StrValue); ok {
				return as + bs, nil
			}
		}
		return numericOp(op, a, b)
	case vm.SUB, vm.MUL, vm.DIV, vm.MOD, vm.POW:
		return numericOp(op, a, b)
	}
	return nil, fmt.Errorf("%w: %s is not a binary operator", ErrBadParam, op)
}

func numericOp(op vm.Operator, a, b vm.Value) (vm.Value, error) {
	x, ok := vm.AsNumber(a)
	if !ok {
		return nil, fmt.Errorf("Trying to do a numeric operation between a %T and a %T", a, b)
	}
	y, ok := vm.AsNumber(b)
	if !ok {
		return nil, fmt.Errorf("Trying to do a numeric operation between a %T and a %T", a, b)
	}
	switch op {
	case vm.ADD:
		return vm.Number(x + y), nil
	case vm.SUB:
		return vm.Number(x - y), nil
	case vm.MUL:
		return vm.Number(x * y), nil
	case vm.DIV:
		if y == 0 {
			return nil, ErrDivideByZero
		}
		return vm.Number(x / y), nil
	case vm.MOD:
		if y == 0 {
			return nil, ErrDivideByZero
		}
		r := math.Mod(x, y)
		if r != 0 && (r < 0) != (y < 0) {
			r += y
		}
		return vm.Number(r), nil
	case vm.POW:
		return vm.Number(math.Pow(x, y)), nil
	}
	panic("Unhandled numericOp operator")
}

func compare(a, b vm.Value) (int, error) {
	if x, ok := vm.AsNumber(a); ok {
		if y, ok := vm.AsNumber(b); ok {
			switch {
			case x < y:
				return -1, nil
			case x > y:
				return 1, nil
			}
			return 0, nil
		}
	}
	as, aok := a.(vm.StrValue)
	bs, bok := b.(vm.StrValue)
	if aok && bok {
		switch {
		case as < bs:
			return -1, nil
		case as > bs:
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("Can't compare %T to %T", a, b)
}

func ordered(op vm.Operator, c int) bool {
	switch op {
	case vm.LT:
		return c < 0
	case vm.LTEQ:
		return c <= 0
	case vm.GT:
		return c > 0
	}
	return c >= 0
}
