// Package asm reads programs written in the TOML assembly format:
//
//	name = "demo"
//	code = [
//	  ["PUSHQ", 2],
//	  ["PUSHQ", 3],
//	  ["OP", "#ADD"],
//	  ["POP", "%result"],
//	]
//
// Each instruction is an array holding the op-code and up to two operands.
// String operands carry a sigil: %register, $variable, @loop-token, #TAG and
// ~HH:MM time patterns. A leading backslash escapes the sigil; any other
// string is a literal. Numbers and booleans are literals.
package asm

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lumen-dev/lumen/vm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
)

// BinaryExt is the file extension of msgpack-encoded programs.
const BinaryExt = ".lbc"

type source struct {
	Name string  `toml:"name"`
	Code [][]any `toml:"code"`
}

// Loader parses the TOML assembly format.
type Loader struct{}

func NewLoader() *Loader {
	return &Loader{}
}

func (l *Loader) Load(name string, r io.Reader) (*vm.Program, error) {
	var src source
	md, err := toml.NewDecoder(r).Decode(&src)
	if err != nil {
		return nil, fmt.Errorf("Parsing %s: %w", name, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		log.Warn().Str("file", name).Interface("keys", undecoded).Msg("Ignoring unknown keys")
	}
	if src.Name != "" {
		name = src.Name
	}
	p := &vm.Program{
		Name:     name,
		Code:     make([]vm.Instruction, 0, len(src.Code)),
		Routines: make(map[string]int),
	}
	for i, raw := range src.Code {
		inst, err := parseInstruction(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: instruction %d: %w", name, i, err)
		}
		if inst.Op == vm.ROUTINE {
			rname, ok := inst.Param0.(vm.StrValue)
			if !ok {
				return nil, fmt.Errorf("%s: instruction %d: ROUTINE needs a name", name, i)
			}
			if prev, dup := p.Routines[string(rname)]; dup {
				return nil, fmt.Errorf("%s: instruction %d: routine %q already defined at %d", name, i, rname, prev)
			}
			p.Routines[string(rname)] = i
		}
		p.Code = append(p.Code, inst)
	}
	checkCalls(p)
	return p, nil
}

// checkCalls warns about JSR targets with no ROUTINE; the machine fails
// when such a call executes.
func checkCalls(p *vm.Program) {
	for i, inst := range p.Code {
		if inst.Op != vm.JSR {
			continue
		}
		if name, ok := inst.Param0.(vm.StrValue); ok {
			if _, found := p.Routines[string(name)]; !found {
				log.Warn().Str("program", p.Name).Int("pc", i).Str("routine", string(name)).Msg("Call to undefined routine")
			}
		}
	}
}

func parseInstruction(raw []any) (vm.Instruction, error) {
	if len(raw) == 0 {
		return vm.Instruction{}, fmt.Errorf("Empty instruction")
	}
	if len(raw) > 3 {
		return vm.Instruction{}, fmt.Errorf("Too many operands (%d)", len(raw)-1)
	}
	opName, err := cast.ToStringE(raw[0])
	if err != nil {
		return vm.Instruction{}, fmt.Errorf("Op-code must be a string, got %v", raw[0])
	}
	op, ok := vm.ParseOpCode(opName)
	if !ok {
		return vm.Instruction{}, fmt.Errorf("Unknown op-code %q", opName)
	}
	params := make([]vm.Value, 0, 2)
	for _, x := range raw[1:] {
		v, err := ParseOperand(x)
		if err != nil {
			return vm.Instruction{}, fmt.Errorf("%s: %w", op, err)
		}
		params = append(params, v)
	}
	return vm.NewInstruction(op, params...), nil
}

// ParseOperand converts one decoded TOML value into an instruction operand.
func ParseOperand(x any) (vm.Value, error) {
	switch v := x.(type) {
	case bool:
		return vm.BoolValue(v), nil
	case string:
		return parseString(v)
	case int, int64, float64:
		return vm.Number(cast.ToFloat64(v)), nil
	}
	return nil, fmt.Errorf("Unsupported operand %v (%T)", x, x)
}

func parseString(s string) (vm.Value, error) {
	if s == "" {
		return vm.StrValue(""), nil
	}
	rest := s[1:]
	switch s[0] {
	case '\\':
		return vm.StrValue(rest), nil
	case '%':
		r, ok := vm.ParseRegister(rest)
		if !ok {
			return nil, fmt.Errorf("Unknown register %q", rest)
		}
		return vm.RegisterRef(r), nil
	case '$':
		if rest == "" {
			return nil, fmt.Errorf("Empty variable name")
		}
		return vm.Symbol(rest), nil
	case '@':
		n, err := cast.ToIntE(rest)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("Bad loop token %q", s)
		}
		return vm.LoopVar(n), nil
	case '#':
		v, ok := vm.ParseTag(rest)
		if !ok {
			return nil, fmt.Errorf("Unknown tag %q", rest)
		}
		return v, nil
	case '~':
		tp, err := vm.ParseTimePattern(rest)
		if err != nil {
			return nil, err
		}
		return tp, nil
	}
	return vm.StrValue(s), nil
}

// BinaryLoader reads programs written by vm.EncodeProgram.
type BinaryLoader struct{}

func (BinaryLoader) Load(name string, r io.Reader) (*vm.Program, error) {
	p, err := vm.DecodeProgram(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if p.Name == "" {
		p.Name = name
	}
	return p, nil
}

// LoaderFor picks the loader for a file by its extension.
func LoaderFor(path string) vm.Loader {
	if strings.EqualFold(filepath.Ext(path), BinaryExt) {
		return BinaryLoader{}
	}
	return NewLoader()
}

// LoadFile reads a program in either format.
func LoadFile(path string) (*vm.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return LoaderFor(path).Load(name, f)
}
