package vm

import (
	"fmt"
	"io"
	"sort"

	"github.com/shamaton/msgpack/v2"
)

type valueKind uint8

const (
	kindAbsent valueKind = iota
	kindNumber
	kindStr
	kindBool
	kindNone
	kindUnitMode
	kindOperand
	kindTimePattern
	kindRegister
	kindSymbol
	kindLoopVar
	kindOperator
	kindJumpCondition
	kindIoOp
	kindSetOp
)

// wireValue is the flattened form of a Value; msgpack cannot decode into
// an interface, so every value travels as a kind plus payload.
type wireValue struct {
	Kind valueKind
	Num  float64
	Str  string
}

type wireInstruction struct {
	Op     OpCode
	Param0 wireValue
	Param1 wireValue
}

// wireRoutine keeps routine entries in a slice so equal programs encode
// to equal bytes.
type wireRoutine struct {
	Name string
	Addr int
}

type wireProgram struct {
	Name     string
	Code     []wireInstruction
	Routines []wireRoutine
}

func toWire(v Value) wireValue {
	switch x := v.(type) {
	case nil:
		return wireValue{Kind: kindAbsent}
	case Number:
		return wireValue{Kind: kindNumber, Num: float64(x)}
	case StrValue:
		return wireValue{Kind: kindStr, Str: string(x)}
	case BoolValue:
		n := 0.0
		if x {
			n = 1
		}
		return wireValue{Kind: kindBool, Num: n}
	case NoneValue:
		return wireValue{Kind: kindNone}
	case UnitModeValue:
		return wireValue{Kind: kindUnitMode, Num: float64(x)}
	case OperandValue:
		return wireValue{Kind: kindOperand, Num: float64(x)}
	case TimePattern:
		return wireValue{Kind: kindTimePattern, Str: x.String()}
	case RegisterRef:
		return wireValue{Kind: kindRegister, Num: float64(x)}
	case Symbol:
		return wireValue{Kind: kindSymbol, Str: string(x)}
	case LoopVar:
		return wireValue{Kind: kindLoopVar, Num: float64(x)}
	case OperatorValue:
		return wireValue{Kind: kindOperator, Num: float64(x)}
	case JumpConditionValue:
		return wireValue{Kind: kindJumpCondition, Num: float64(x)}
	case IoOpValue:
		return wireValue{Kind: kindIoOp, Num: float64(x)}
	case SetOpValue:
		return wireValue{Kind: kindSetOp, Num: float64(x)}
	}
	panic(fmt.Sprintf("Unencodable value %T", v))
}

func fromWire(w wireValue) (Value, error) {
	switch w.Kind {
	case kindAbsent:
		return nil, nil
	case kindNumber:
		return Number(w.Num), nil
	case kindStr:
		return StrValue(w.Str), nil
	case kindBool:
		return BoolValue(w.Num != 0), nil
	case kindNone:
		return None, nil
	case kindUnitMode:
		return UnitModeValue(w.Num), nil
	case kindOperand:
		return OperandValue(w.Num), nil
	case kindTimePattern:
		tp, err := ParseTimePattern(w.Str)
		if err != nil {
			return nil, err
		}
		return tp, nil
	case kindRegister:
		return RegisterRef(w.Num), nil
	case kindSymbol:
		return Symbol(w.Str), nil
	case kindLoopVar:
		return LoopVar(w.Num), nil
	case kindOperator:
		return OperatorValue(w.Num), nil
	case kindJumpCondition:
		return JumpConditionValue(w.Num), nil
	case kindIoOp:
		return IoOpValue(w.Num), nil
	case kindSetOp:
		return SetOpValue(w.Num), nil
	}
	return nil, fmt.Errorf("Unknown value kind %d in encoded program", w.Kind)
}

// EncodeProgram writes p in the binary program format.
func EncodeProgram(w io.Writer, p *Program) error {
	out := wireProgram{
		Name:     p.Name,
		Code:     make([]wireInstruction, len(p.Code)),
		Routines: make([]wireRoutine, 0, len(p.Routines)),
	}
	for name, addr := range p.Routines {
		out.Routines = append(out.Routines, wireRoutine{Name: name, Addr: addr})
	}
	sort.Slice(out.Routines, func(i, j int) bool {
		return out.Routines[i].Name < out.Routines[j].Name
	})
	for i, inst := range p.Code {
		out.Code[i] = wireInstruction{
			Op:     inst.Op,
			Param0: toWire(inst.Param0),
			Param1: toWire(inst.Param1),
		}
	}
	return msgpack.MarshalWrite(w, out)
}

// DecodeProgram reads a program written by EncodeProgram.
func DecodeProgram(r io.Reader) (*Program, error) {
	var in wireProgram
	if err := msgpack.UnmarshalRead(r, &in); err != nil {
		return nil, fmt.Errorf("decoding program: %w", err)
	}
	p := &Program{
		Name:     in.Name,
		Code:     make([]Instruction, len(in.Code)),
		Routines: make(map[string]int, len(in.Routines)),
	}
	for _, r := range in.Routines {
		if r.Addr < 0 || r.Addr >= len(in.Code) {
			return nil, fmt.Errorf("Routine %q entry %d outside program", r.Name, r.Addr)
		}
		p.Routines[r.Name] = r.Addr
	}
	for i, wi := range in.Code {
		if wi.Op >= OpCodeMax {
			return nil, fmt.Errorf("Unknown op-code %d at %d", wi.Op, i)
		}
		p0, err := fromWire(wi.Param0)
		if err != nil {
			return nil, err
		}
		p1, err := fromWire(wi.Param1)
		if err != nil {
			return nil, err
		}
		p.Code[i] = Instruction{Op: wi.Op, Param0: p0, Param1: p1}
	}
	return p, nil
}
