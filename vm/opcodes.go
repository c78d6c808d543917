package vm

type OpCode uint8

const (
	NOP OpCode = iota
	// | PARAM0 | PARAM1 | EFFECT |
	BREAKPOINT   // | | | logs the register bank
	COLOR        // | | | sets color on the target selected by OPERAND/NAME
	CONSTANT     // | name | value | constants[name] = value, first writer wins
	DISC         // | operand | | RESULT = first name of operand kind, or None
	DISCM        // | light | | RESULT = first zone of light, or None
	DNEXT        // | operand | current | RESULT = name after current, or None
	DNEXTM       // | light | current | RESULT = zone after current, or None
	END          // | | | unwind loops, return from routine
	END_LOOP     // | | | leave loop scope
	GET_COLOR    // | | | reads color of the target into the color registers
	JSR          // | routine | | call routine
	JUMP         // | condition | offset or symbol | conditional relative or indirect jump
	LOOP         // | | | enter loop scope
	MOVE         // | src | dest | dest = *src
	MOVEQ        // | literal | dest | dest = literal
	OP           // | operator | | apply operator to the operand stack
	OUT          // | io op | arg | buffered output
	PARAM        // | name | src | stage parameter for the next JSR
	PAUSE        // | | | wait for a key
	POP          // | dest | | dest = pop()
	POWER        // | | | sets power on the target selected by OPERAND/NAME
	PUSH         // | src | | push(*src)
	PUSHQ        // | literal | | push(literal)
	ROUTINE      // | name | | routine entry marker
	STOP         // | | | halt
	TIME_PATTERN // | set op | pattern | TIME = pattern, or TIME |= pattern
	WAIT         // | | | sleep for TIME, or until the TIME pattern matches

	OpCodeMax
)

var opCodeNames = [...]string{
	NOP:          "NOP",
	BREAKPOINT:   "BREAKPOINT",
	COLOR:        "COLOR",
	CONSTANT:     "CONSTANT",
	DISC:         "DISC",
	DISCM:        "DISCM",
	DNEXT:        "DNEXT",
	DNEXTM:       "DNEXTM",
	END:          "END",
	END_LOOP:     "END_LOOP",
	GET_COLOR:    "GET_COLOR",
	JSR:          "JSR",
	JUMP:         "JUMP",
	LOOP:         "LOOP",
	MOVE:         "MOVE",
	MOVEQ:        "MOVEQ",
	OP:           "OP",
	OUT:          "OUT",
	PARAM:        "PARAM",
	PAUSE:        "PAUSE",
	POP:          "POP",
	POWER:        "POWER",
	PUSH:         "PUSH",
	PUSHQ:        "PUSHQ",
	ROUTINE:      "ROUTINE",
	STOP:         "STOP",
	TIME_PATTERN: "TIME_PATTERN",
	WAIT:         "WAIT",
}

func (o OpCode) String() string {
	if o < OpCodeMax {
		return opCodeNames[o]
	}
	panic("Unnamed opcode")
}

// ParseOpCode looks up an op-code by its mnemonic.
func ParseOpCode(s string) (OpCode, bool) {
	for i, n := range opCodeNames {
		if n == s {
			return OpCode(i), true
		}
	}
	return NOP, false
}

// AdvancesPC reports whether the dispatch loop increments the program
// counter after executing o. END, JSR and JUMP set it themselves.
func (o OpCode) AdvancesPC() bool {
	switch o {
	case END, JSR, JUMP:
		return false
	}
	return true
}
