package asm

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/lumen-dev/lumen/vm"
	"github.com/spf13/cast"
)

// Disassemble writes p in the TOML assembly format. Loading the output
// yields an equivalent program.
func Disassemble(w io.Writer, p *vm.Program) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "name = %s\n", quote(p.Name))
	bw.WriteString("code = [\n")
	for i, inst := range p.Code {
		fmt.Fprintf(bw, "  [%s", quote(inst.Op.String()))
		for _, param := range []vm.Value{inst.Param0, inst.Param1} {
			if param == nil {
				break
			}
			bw.WriteString(", ")
			bw.WriteString(FormatOperand(param))
		}
		fmt.Fprintf(bw, "], # %d\n", i)
	}
	bw.WriteString("]\n")
	return bw.Flush()
}

// FormatOperand renders an operand as a TOML value in assembly notation.
func FormatOperand(v vm.Value) string {
	switch x := v.(type) {
	case vm.Number:
		f := float64(x)
		switch {
		case math.IsNaN(f):
			return "nan"
		case math.IsInf(f, 1):
			return "inf"
		case math.IsInf(f, -1):
			return "-inf"
		case math.Abs(f) >= 1e15:
			return strconv.FormatFloat(f, 'e', -1, 64)
		}
		return cast.ToString(f)
	case vm.BoolValue:
		return cast.ToString(bool(x))
	case vm.StrValue:
		s := string(x)
		if s != "" && strings.ContainsRune(`\%$@#~`, rune(s[0])) {
			s = `\` + s
		}
		return quote(s)
	case vm.NoneValue:
		return quote("#NONE")
	case vm.UnitModeValue, vm.OperandValue:
		return quote("#" + x.String())
	case vm.TimePattern:
		return quote("~" + x.String())
	}
	// References and the remaining tags print in assembly notation already.
	return quote(v.String())
}

// quote produces a TOML basic string.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if unicode.IsControl(r) {
				fmt.Fprintf(&b, `\u%04X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
