package interp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/lumen-dev/lumen/units"
	"github.com/lumen-dev/lumen/vm"
)

const pausePrompt = "Paused. Enter to continue, q to stop, ! to stop pausing: "

func (m *Machine) pause() error {
	if !m.pauseEnabled {
		return nil
	}
	io.WriteString(m.out, pausePrompt)
	key, err := m.keys.ReadKey()
	if errors.Is(err, io.EOF) {
		m.logger.Debug().Msg("PAUSE: keyboard closed, pausing disabled")
		m.pauseEnabled = false
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading key: %w", err)
	}
	switch key {
	case 'q':
		m.logger.Debug().Msg("PAUSE: stop requested")
		m.Stop()
	case '!':
		m.logger.Debug().Msg("PAUSE: pausing disabled")
		m.pauseEnabled = false
	}
	return nil
}

// wait blocks on the TIME register: until the next match of a time pattern,
// or for a number of seconds (milliseconds in RAW mode).
func (m *Machine) wait(ctx context.Context) error {
	switch t := m.reg.Time.(type) {
	case vm.TimePattern:
		m.logger.Trace().Stringer("pattern", t).Msg("  WAIT until")
		return m.clock.WaitUntil(ctx, t)
	case vm.Number:
		secs := units.Seconds(m.reg.UnitMode, float64(t))
		m.logger.Trace().Float64("seconds", secs).Msg("  WAIT")
		return m.clock.PauseFor(ctx, time.Duration(secs*float64(time.Second)))
	case vm.NoneValue:
		return nil
	}
	return fmt.Errorf("%w: can't wait on %s", ErrBadParam, m.reg.Time)
}

func (m *Machine) timePattern(inst vm.Instruction) error {
	op, ok := inst.Param0.(vm.SetOpValue)
	if !ok {
		return fmt.Errorf("%w: TIME_PATTERN needs a set op, got %v", ErrBadParam, inst.Param0)
	}
	v, err := m.resolve(inst.Param1)
	if err != nil {
		return err
	}
	var p vm.TimePattern
	switch x := v.(type) {
	case vm.TimePattern:
		p = x
	case vm.StrValue:
		p, err = vm.ParseTimePattern(string(x))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadParam, err)
		}
	default:
		return fmt.Errorf("%w: not a time pattern: %s", ErrBadParam, v)
	}

	switch vm.SetOp(op) {
	case vm.INIT:
		m.reg.Time = p
	case vm.UNION:
		if cur, ok := m.reg.Time.(vm.TimePattern); ok {
			p = cur.Union(p)
		}
		m.reg.Time = p
	default:
		return fmt.Errorf("%w: unknown set op %d", ErrBadParam, op)
	}
	m.logger.Trace().Stringer("time", m.reg.Time).Msg("  TIME_PATTERN")
	return nil
}
