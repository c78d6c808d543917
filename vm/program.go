package vm

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgryski/go-farm"
)

// Instruction is never modified after the loader produces it.
type Instruction struct {
	Op     OpCode
	Param0 Value
	Param1 Value
}

func NewInstruction(op OpCode, params ...Value) Instruction {
	inst := Instruction{Op: op}
	if len(params) > 0 {
		inst.Param0 = params[0]
	}
	if len(params) > 1 {
		inst.Param1 = params[1]
	}
	return inst
}

func (i Instruction) String() string {
	var b strings.Builder
	b.WriteString(i.Op.String())
	for _, p := range []Value{i.Param0, i.Param1} {
		if p == nil {
			continue
		}
		b.WriteByte(' ')
		if s, ok := p.(StrValue); ok {
			fmt.Fprintf(&b, "%q", string(s))
		} else if tp, ok := p.(TimePattern); ok {
			b.WriteString("~" + tp.String())
		} else {
			b.WriteString(p.String())
		}
	}
	return b.String()
}

type Program struct {
	Name     string
	Code     []Instruction
	Routines map[string]int
}

// Loader turns source text into a program with routine addresses resolved.
type Loader interface {
	Load(name string, r io.Reader) (*Program, error)
}

// Resolve returns the entry address of a routine.
func (p *Program) Resolve(name string) (int, bool) {
	addr, ok := p.Routines[name]
	return addr, ok
}

// Fingerprint hashes the program's canonical text form.
func (p *Program) Fingerprint() uint64 {
	var b strings.Builder
	for _, inst := range p.Code {
		b.WriteString(inst.String())
		b.WriteByte('\n')
	}
	return farm.Hash64([]byte(b.String()))
}

func (p *Program) DebugPrint(w io.Writer) {
	fmt.Fprintf(w, "Program: %s (%016x)\n", p.Name, p.Fingerprint())
	fmt.Fprintf(w, "Routines: %v\n", p.Routines)
	for i, inst := range p.Code {
		fmt.Fprintf(w, "  %03d: %s\n", i, inst)
	}
}
