package interp

import (
	"context"
	"errors"
	"fmt"

	"github.com/lumen-dev/lumen/vm"
)

type StepResult int

const (
	ContinueStep StepResult = iota
	StopStep
	ErrorStep
)

func (s StepResult) String() string {
	switch s {
	case ContinueStep:
		return "Continue"
	case StopStep:
		return "Stop"
	case ErrorStep:
		return "Error"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// Step executes the instruction at PC. It returns StopStep once the program
// has finished, and ErrorStep with the failure otherwise. Panics raised by a
// handler are recovered and returned as errors.
func (m *Machine) Step(ctx context.Context) (res StepResult, err error) {
	if m.program == nil {
		return ErrorStep, errors.New("No program loaded")
	}
	if m.stopped.Load() {
		return StopStep, nil
	}
	if err := ctx.Err(); err != nil {
		return ErrorStep, err
	}
	pc := m.reg.PC
	if pc < 0 {
		return ErrorStep, fmt.Errorf("Program counter %d out of range", pc)
	}
	if pc >= len(m.program.Code) {
		m.logger.Trace().Int("pc", pc).Msg("Step: end of code")
		return StopStep, nil
	}
	inst := m.program.Code[pc]

	defer func() {
		if r := recover(); r != nil {
			res = ErrorStep
			err = fmt.Errorf("pc %d %s: %v", pc, inst.Op, r)
		}
	}()

	m.logger.Trace().
		Int("pc", pc).
		Str("opcode", inst.Op.String()).
		Interface("param0", inst.Param0).
		Interface("param1", inst.Param1).
		Int("stack_depth", m.math.Depth()).
		Int("call_depth", m.calls.Depth()).
		Msg("Step: executing instruction")

	if err := m.execute(ctx, inst); err != nil {
		return ErrorStep, fmt.Errorf("pc %d %s: %w", pc, inst.Op, err)
	}
	if inst.Op.AdvancesPC() {
		m.reg.PC++
	}
	if m.stopped.Load() {
		return StopStep, nil
	}
	return ContinueStep, nil
}

func (m *Machine) execute(ctx context.Context, inst vm.Instruction) error {
	switch inst.Op {
	case vm.NOP:
		m.logger.Trace().Msg("  NOP")
	case vm.BREAKPOINT:
		m.logger.Debug().Int("pc", m.reg.PC).Msg("Breakpoint\n" + m.PrettyPrint())
	case vm.COLOR:
		return m.color()
	case vm.CONSTANT:
		name, err := paramName(inst.Param0)
		if err != nil {
			return err
		}
		v, err := m.resolve(inst.Param1)
		if err != nil {
			return err
		}
		m.calls.PutConstant(name, v)
		m.logger.Trace().Str("name", name).Stringer("value", v).Msg("  CONSTANT")
	case vm.DISC:
		return m.discover(inst)
	case vm.DISCM:
		return m.discoverZones(inst)
	case vm.DNEXT:
		return m.discoverNext(inst)
	case vm.DNEXTM:
		return m.discoverNextZone(inst)
	case vm.END:
		m.calls.UnwindLoops()
		addr := m.calls.GetReturn()
		m.calls.PopCurrent()
		m.logger.Trace().Int("return", addr).Int("call_depth", m.calls.Depth()).Msg("  END")
		m.reg.PC = addr
	case vm.END_LOOP:
		m.calls.ExitLoop()
	case vm.GET_COLOR:
		return m.getColor()
	case vm.JSR:
		return m.jsr(inst)
	case vm.JUMP:
		return m.jump(inst)
	case vm.LOOP:
		m.calls.EnterLoop()
	case vm.MOVE:
		v, err := m.resolve(inst.Param0)
		if err != nil {
			return err
		}
		return m.store(inst.Param1, v)
	case vm.MOVEQ:
		if inst.Param0 == nil {
			return fmt.Errorf("%w: MOVEQ without a value", ErrBadParam)
		}
		return m.store(inst.Param1, inst.Param0)
	case vm.OP:
		op, ok := inst.Param0.(vm.OperatorValue)
		if !ok {
			return fmt.Errorf("%w: OP needs an operator, got %v", ErrBadParam, inst.Param0)
		}
		return m.math.Op(vm.Operator(op))
	case vm.OUT:
		return m.io.Out(inst)
	case vm.PARAM:
		name, err := paramName(inst.Param0)
		if err != nil {
			return err
		}
		v, err := m.resolve(inst.Param1)
		if err != nil {
			return err
		}
		m.calls.PutParam(name, v)
		m.logger.Trace().Str("name", name).Stringer("value", v).Msg("  PARAM")
	case vm.PAUSE:
		return m.pause()
	case vm.POP:
		return m.math.Pop(inst.Param0)
	case vm.POWER:
		return m.power()
	case vm.PUSH:
		return m.math.Push(inst.Param0)
	case vm.PUSHQ:
		if inst.Param0 == nil {
			return fmt.Errorf("%w: PUSHQ without a value", ErrBadParam)
		}
		m.math.PushQ(inst.Param0)
	case vm.ROUTINE:
		m.logger.Trace().Interface("name", inst.Param0).Msg("  ROUTINE")
	case vm.STOP:
		m.Stop()
	case vm.TIME_PATTERN:
		return m.timePattern(inst)
	case vm.WAIT:
		return m.wait(ctx)
	default:
		panic(fmt.Sprintf("Unhandled op-code %s", inst.Op))
	}
	return nil
}

func (m *Machine) jsr(inst vm.Instruction) error {
	name, err := paramName(inst.Param0)
	if err != nil {
		return err
	}
	addr, ok := m.program.Resolve(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnresolvedRoutine, name)
	}
	m.calls.SetReturn(m.reg.PC + 1)
	m.calls.PushCurrent()
	m.logger.Trace().Str("routine", name).Int("entry", addr).Int("call_depth", m.calls.Depth()).Msg("  JSR")
	m.reg.PC = addr
	return nil
}

func (m *Machine) jump(inst vm.Instruction) error {
	cond, ok := inst.Param0.(vm.JumpConditionValue)
	if !ok {
		return fmt.Errorf("%w: JUMP needs a condition, got %v", ErrBadParam, inst.Param0)
	}
	if vm.JumpCondition(cond) == vm.INDIRECT {
		v, err := m.resolve(inst.Param1)
		if err != nil {
			return err
		}
		addr, ok := vm.AsNumber(v)
		if !ok {
			return fmt.Errorf("%w: indirect jump through %s holding %s", ErrBadParam, inst.Param1, v)
		}
		m.logger.Trace().Int("target", int(addr)).Msg("  JUMP INDIRECT")
		m.reg.PC = int(addr)
		return nil
	}

	offset, ok := vm.AsNumber(inst.Param1)
	if !ok {
		return fmt.Errorf("%w: JUMP needs a numeric offset, got %v", ErrBadParam, inst.Param1)
	}
	var taken bool
	switch vm.JumpCondition(cond) {
	case vm.ALWAYS:
		taken = true
	case vm.IF_TRUE:
		taken = m.reg.Result.AsBool()
	case vm.IF_FALSE:
		taken = !m.reg.Result.AsBool()
	default:
		return fmt.Errorf("%w: unknown jump condition %d", ErrBadParam, cond)
	}
	if taken {
		m.reg.PC += int(offset)
	} else {
		m.reg.PC++
	}
	m.logger.Trace().Str("cond", vm.JumpCondition(cond).String()).Bool("taken", taken).Int("pc", m.reg.PC).Msg("  JUMP")
	return nil
}

// resolve dereferences a register, variable or loop token. Anything else is
// a literal and is returned as-is.
func (m *Machine) resolve(src vm.Value) (vm.Value, error) {
	switch s := src.(type) {
	case nil:
		return nil, fmt.Errorf("%w: missing operand", ErrBadParam)
	case vm.RegisterRef:
		return m.reg.Get(vm.Register(s)), nil
	case vm.Symbol, vm.LoopVar:
		v, ok := m.calls.GetVariable(s)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnresolvedName, s)
		}
		return v, nil
	}
	return src, nil
}

// store writes v to a register or variable. Writes to UNIT_MODE convert the
// color and time registers to the new mode.
func (m *Machine) store(dest vm.Value, v vm.Value) error {
	switch d := dest.(type) {
	case vm.RegisterRef:
		if vm.Register(d) == vm.UNIT_MODE {
			mode, ok := v.(vm.UnitModeValue)
			if !ok {
				return fmt.Errorf("%w: unit mode can't be %s", ErrBadParam, v)
			}
			m.setUnitMode(vm.UnitMode(mode))
			return nil
		}
		return m.reg.Set(vm.Register(d), v)
	case vm.Symbol, vm.LoopVar:
		m.calls.PutVariable(d, v)
		return nil
	}
	return fmt.Errorf("%w: can't store into %v", ErrBadParam, dest)
}

func paramName(v vm.Value) (string, error) {
	switch n := v.(type) {
	case vm.StrValue:
		return string(n), nil
	case vm.Symbol:
		return string(n), nil
	}
	return "", fmt.Errorf("%w: expected a name, got %v", ErrBadParam, v)
}
