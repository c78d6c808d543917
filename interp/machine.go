package interp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/lumen-dev/lumen/clock"
	"github.com/lumen-dev/lumen/lights"
	"github.com/lumen-dev/lumen/vm"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options configures a Machine. Zero values select the defaults: an empty
// simulated light set, the wall clock, stdin for PAUSE and stdout for OUT.
type Options struct {
	Lights   lights.LightSet
	Clock    clock.Clock
	Keyboard clock.Keyboard
	Output   io.Writer
	NoPause  bool
	UnitMode vm.UnitMode
}

// Machine executes programs. It is not safe for concurrent use, except for
// Stop.
type Machine struct {
	reg   *Registers
	calls *CallStack
	math  *VMMath
	io    *VMIO

	lights lights.LightSet
	clock  clock.Clock
	keys   clock.Keyboard
	out    io.Writer
	opts   Options

	program      *vm.Program
	pauseEnabled bool
	stopped      atomic.Bool
	runID        uuid.UUID
	logger       zerolog.Logger
}

func NewMachine(opts Options) *Machine {
	m := &Machine{opts: opts}
	m.lights = opts.Lights
	if m.lights == nil {
		m.lights = lights.NewSimLightSet()
	}
	m.clock = opts.Clock
	if m.clock == nil {
		m.clock = clock.NewWallClock()
	}
	m.keys = opts.Keyboard
	if m.keys == nil {
		m.keys = clock.NewReaderKeyboard(os.Stdin)
	}
	m.out = opts.Output
	if m.out == nil {
		m.out = os.Stdout
	}
	m.reg = NewRegisters()
	m.calls = NewCallStack()
	m.math = NewVMMath(m.reg, m.calls)
	m.io = NewVMIO(m.out, m.reg, m.calls)
	m.logger = log.Logger
	m.Reset()
	return m
}

func (m *Machine) Registers() *Registers { return m.reg }
func (m *Machine) CallStack() *CallStack { return m.calls }
func (m *Machine) Math() *VMMath         { return m.math }
func (m *Machine) IO() *VMIO             { return m.io }
func (m *Machine) Program() *vm.Program  { return m.program }
func (m *Machine) RunID() uuid.UUID      { return m.runID }

// Reset returns every piece of machine state to its initial value so the
// machine can run another program.
func (m *Machine) Reset() {
	m.reg.Reset()
	m.reg.UnitMode = m.opts.UnitMode
	m.calls.Reset()
	m.math.Reset()
	m.io.Reset()
	m.pauseEnabled = !m.opts.NoPause
	m.stopped.Store(false)
}

// Stop asks the machine to halt after the current instruction. It may be
// called from another goroutine.
func (m *Machine) Stop() {
	m.stopped.Store(true)
}

func (m *Machine) Stopped() bool {
	return m.stopped.Load()
}

// Load resets the machine and makes prog the program Step executes.
func (m *Machine) Load(prog *vm.Program) {
	m.Reset()
	m.program = prog
	m.runID = uuid.New()
	m.logger = log.With().Str("run_id", m.runID.String()).Str("program", prog.Name).Logger()
}

// Run executes prog until it stops or falls off the end. A handler error
// ends the run; it is logged and returned.
func (m *Machine) Run(ctx context.Context, prog *vm.Program) error {
	m.Load(prog)
	m.logger.Debug().Int("instructions", len(prog.Code)).Str("fingerprint", fmt.Sprintf("%016x", prog.Fingerprint())).Msg("run starting")
	m.clock.Start()
	defer m.clock.Stop()

	steps := 0
	for {
		res, err := m.Step(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				m.logger.Info().Err(err).Int("steps", steps).Msg("run cancelled")
				return err
			}
			m.logger.Error().Err(err).Int("pc", m.reg.PC).Int("steps", steps).Msg("run failed")
			return err
		}
		steps++
		if res == StopStep {
			m.logger.Debug().Int("steps", steps).Int("pc", m.reg.PC).Msg("run finished")
			return nil
		}
	}
}

// RunSource loads source through loader and runs the result.
func (m *Machine) RunSource(ctx context.Context, loader vm.Loader, name string, r io.Reader) error {
	prog, err := loader.Load(name, r)
	if err != nil {
		return fmt.Errorf("loading %s: %w", name, err)
	}
	return m.Run(ctx, prog)
}
