package bytecode

import (
	"fmt"
	"strconv"
	"strings"
)

// Disassemble returns a human-readable representation of the code
func Disassemble(code *Code, name string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("== %s ==\n", name))

	for offset := range code.Instructions {
		disassembleInstruction(&sb, code, offset)
	}

	return sb.String()
}

func disassembleInstruction(sb *strings.Builder, code *Code, offset int) {
	in := code.Instructions[offset]
	if in.Op == LABEL {
		sb.WriteString(fmt.Sprintf("     L%d:\n", in.Label.id))
		return
	}

	sb.WriteString(fmt.Sprintf("%04d ", offset))

	// Print line number
	if offset > 0 && in.Line == code.Instructions[offset-1].Line {
		sb.WriteString("   | ")
	} else {
		sb.WriteString(fmt.Sprintf("%4d ", in.Line))
	}

	sb.WriteString(FormatInstruction(in))
	sb.WriteByte('\n')
}

// Text renders every instruction on its own line without offsets or line
// numbers. Labels render as "L<n>:".
func Text(code *Code) []string {
	out := make([]string, len(code.Instructions))
	for i, in := range code.Instructions {
		out[i] = FormatInstruction(in)
	}
	return out
}

// FormatInstruction renders a single instruction with its operands.
func FormatInstruction(in Instruction) string {
	switch in.Op {
	case LABEL:
		return fmt.Sprintf("L%d:", in.Label.id)
	case BIPUSH, SIPUSH,
		ILOAD, LLOAD, FLOAD, DLOAD, ALOAD,
		ISTORE, LSTORE, FSTORE, DSTORE, ASTORE:
		return fmt.Sprintf("%s %d", in.Op, in.Operand)
	case IINC:
		return fmt.Sprintf("IINC %d %d", in.Operand, in.Delta)
	case LDC:
		return "LDC " + formatConstant(in.Const)
	case NEW, CHECKCAST, INSTANCEOF:
		return fmt.Sprintf("%s %s", in.Op, in.Owner)
	case GETSTATIC, PUTSTATIC, GETFIELD, PUTFIELD:
		return fmt.Sprintf("%s %s.%s %s", in.Op, in.Owner, in.Name, in.Desc)
	case INVOKEVIRTUAL, INVOKESPECIAL, INVOKESTATIC, INVOKEINTERFACE:
		return fmt.Sprintf("%s %s.%s %s", in.Op, in.Owner, in.Name, in.Desc)
	}
	if in.Op.IsJump() {
		return fmt.Sprintf("%s L%d", in.Op, in.Label.id)
	}
	return in.Op.String()
}

func formatConstant(v any) string {
	switch c := v.(type) {
	case string:
		return strconv.Quote(c)
	case float64:
		return strconv.FormatFloat(c, 'g', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}
