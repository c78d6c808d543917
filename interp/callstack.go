package interp

import (
	"fmt"

	"github.com/lumen-dev/lumen/vm"
)

// Scope holds the variables of one call frame. Loop frames hold a handle
// to the scope of the frame they were entered from instead of a copy.
type Scope struct {
	vars map[string]vm.Value
}

func NewScope() *Scope {
	return &Scope{vars: make(map[string]vm.Value)}
}

func (s *Scope) Get(name string) (vm.Value, bool) {
	v, ok := s.vars[name]
	return v, ok
}

func (s *Scope) Set(name string, v vm.Value) {
	s.vars[name] = v
}

func (s *Scope) Has(name string) bool {
	_, ok := s.vars[name]
	return ok
}

func (s *Scope) Len() int {
	return len(s.vars)
}

func (s *Scope) clear() {
	clear(s.vars)
}

type StackFrame struct {
	scope      *Scope
	returnAddr int
	loopVars   map[vm.LoopVar]vm.Value // non-nil only for loop frames
}

func NewStackFrame() *StackFrame {
	return &StackFrame{scope: NewScope()}
}

// NewLoopFrame shares enclosing's scope and return address and adds a
// private slot for loop tokens.
func NewLoopFrame(enclosing *StackFrame) *StackFrame {
	return &StackFrame{
		scope:      enclosing.scope,
		returnAddr: enclosing.returnAddr,
		loopVars:   make(map[vm.LoopVar]vm.Value),
	}
}

func (f *StackFrame) IsLoop() bool {
	return f.loopVars != nil
}

func (f *StackFrame) Scope() *Scope {
	return f.scope
}

func (f *StackFrame) ReturnAddr() int {
	return f.returnAddr
}

func (f *StackFrame) reset() {
	f.scope.clear()
	f.returnAddr = 0
	f.loopVars = nil
}

// CallStack manages variable scoping for routine calls and loops.
//
// The bottom frame is the global scope and is never popped. Parameters for
// an upcoming call are staged in a separate frame which only comes into
// scope when PushCurrent runs.
type CallStack struct {
	frames    []*StackFrame
	current   *StackFrame
	constants map[string]vm.Value
}

func NewCallStack() *CallStack {
	cs := &CallStack{}
	cs.Reset()
	return cs
}

func (cs *CallStack) Reset() {
	cs.frames = []*StackFrame{NewStackFrame()}
	cs.current = NewStackFrame()
	cs.constants = make(map[string]vm.Value)
}

func (cs *CallStack) root() *StackFrame {
	return cs.frames[0]
}

func (cs *CallStack) top() *StackFrame {
	return cs.frames[len(cs.frames)-1]
}

// Depth counts frames on the stack, loop frames included.
func (cs *CallStack) Depth() int {
	return len(cs.frames)
}

// CallDepth counts call frames only, the root included.
func (cs *CallStack) CallDepth() int {
	n := 0
	for _, f := range cs.frames {
		if !f.IsLoop() {
			n++
		}
	}
	return n
}

func (cs *CallStack) InLoop() bool {
	return cs.top().IsLoop()
}

// PutParam stages a value for the next call.
func (cs *CallStack) PutParam(name string, v vm.Value) {
	cs.current.scope.Set(name, v)
}

// PutConstant only writes if the name is not yet defined.
func (cs *CallStack) PutConstant(name string, v vm.Value) {
	if _, ok := cs.constants[name]; !ok {
		cs.constants[name] = v
	}
}

// PutVariable writes a loop token into the innermost loop frame, or a name
// into the global scope if it already lives there and the top frame
// otherwise.
func (cs *CallStack) PutVariable(token vm.Value, v vm.Value) {
	switch t := token.(type) {
	case vm.LoopVar:
		top := cs.top()
		if !top.IsLoop() {
			panic(fmt.Sprintf("Loop variable %s written outside a loop", t))
		}
		top.loopVars[t] = v
	case vm.Symbol:
		cs.putName(string(t), v)
	case vm.StrValue:
		cs.putName(string(t), v)
	default:
		panic(fmt.Sprintf("Unsupported variable token %T", token))
	}
}

func (cs *CallStack) putName(name string, v vm.Value) {
	if cs.root().scope.Has(name) {
		cs.root().scope.Set(name, v)
		return
	}
	cs.top().scope.Set(name, v)
}

// GetVariable looks a token up. Names resolve through constants, then the
// top frame, then the global scope.
func (cs *CallStack) GetVariable(token vm.Value) (vm.Value, bool) {
	switch t := token.(type) {
	case vm.LoopVar:
		top := cs.top()
		if !top.IsLoop() {
			return nil, false
		}
		v, ok := top.loopVars[t]
		return v, ok
	case vm.Symbol:
		return cs.getName(string(t))
	case vm.StrValue:
		return cs.getName(string(t))
	}
	return nil, false
}

func (cs *CallStack) getName(name string) (vm.Value, bool) {
	if v, ok := cs.constants[name]; ok {
		return v, true
	}
	if v, ok := cs.top().scope.Get(name); ok {
		return v, true
	}
	return cs.root().scope.Get(name)
}

// IsParam reports whether name is defined in the top frame's scope.
func (cs *CallStack) IsParam(name string) bool {
	return cs.top().scope.Has(name)
}

// SetReturn stamps the staged frame with the address END returns to.
func (cs *CallStack) SetReturn(addr int) {
	cs.current.returnAddr = addr
}

// GetReturn reads the return address of the frame on top.
func (cs *CallStack) GetReturn() int {
	return cs.top().returnAddr
}

// PushCurrent brings the staged frame into scope and starts a new one.
func (cs *CallStack) PushCurrent() {
	cs.frames = append(cs.frames, cs.current)
	cs.current = NewStackFrame()
}

// PopCurrent removes the top frame and reuses it, emptied, as the staging
// frame.
func (cs *CallStack) PopCurrent() {
	if len(cs.frames) <= 1 {
		panic("Call stack underrun")
	}
	f := cs.top()
	if f.IsLoop() {
		panic("Call frame popped with a loop still open")
	}
	cs.frames = cs.frames[:len(cs.frames)-1]
	f.reset()
	cs.current = f
}

func (cs *CallStack) EnterLoop() {
	cs.frames = append(cs.frames, NewLoopFrame(cs.top()))
}

func (cs *CallStack) ExitLoop() {
	if !cs.top().IsLoop() {
		panic("END_LOOP without a loop frame")
	}
	cs.frames = cs.frames[:len(cs.frames)-1]
}

// UnwindLoops pops loop frames until a call frame is on top.
func (cs *CallStack) UnwindLoops() {
	for cs.top().IsLoop() {
		cs.frames = cs.frames[:len(cs.frames)-1]
	}
}

// Globals returns the global scope.
func (cs *CallStack) Globals() *Scope {
	return cs.root().scope
}
