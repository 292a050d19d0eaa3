package bytecode

// Label is a branch target. Labels may be created before the Code they
// are used in; ids are assigned on first use.
type Label struct {
	id int
}

// NewLabel creates an unplaced label.
func NewLabel() *Label {
	return &Label{}
}

// Visitor receives instructions in emission order. It mirrors the method
// visitor of class-file writers, so an object-file backend can implement
// it directly.
type Visitor interface {
	VisitInsn(op Opcode)
	VisitIntInsn(op Opcode, operand int)
	VisitVarInsn(op Opcode, slot int)
	VisitTypeInsn(op Opcode, internalName string)
	VisitFieldInsn(op Opcode, owner, name, desc string)
	VisitMethodInsn(op Opcode, owner, name, desc string, iface bool)
	VisitJumpInsn(op Opcode, l *Label)
	VisitLabel(l *Label)
	VisitLdcInsn(value any)
	VisitIincInsn(slot, delta int)
	VisitLineNumber(line int)
}

// Instruction is one recorded instruction.
type Instruction struct {
	Op        Opcode
	Operand   int // push value, local slot or IINC slot
	Delta     int // IINC increment
	Const     any // LDC value
	Owner     string
	Name      string
	Desc      string
	Interface bool
	Label     *Label
	Line      int
}

// Code represents a sequence of instructions for one method body.
type Code struct {
	Instructions []Instruction

	// MaxLocals is the highest local slot used plus its width.
	MaxLocals int

	line      int
	nextLabel int
}

// NewCode creates an empty instruction sink.
func NewCode() *Code {
	return &Code{Instructions: make([]Instruction, 0, 32)}
}

func (c *Code) add(in Instruction) {
	in.Line = c.line
	c.Instructions = append(c.Instructions, in)
}

func (c *Code) bind(l *Label) *Label {
	if l.id == 0 {
		c.nextLabel++
		l.id = c.nextLabel
	}
	return l
}

func (c *Code) VisitInsn(op Opcode) {
	c.add(Instruction{Op: op})
}

func (c *Code) VisitIntInsn(op Opcode, operand int) {
	c.add(Instruction{Op: op, Operand: operand})
}

func (c *Code) VisitVarInsn(op Opcode, slot int) {
	width := 1
	if op == LLOAD || op == DLOAD || op == LSTORE || op == DSTORE {
		width = 2
	}
	if slot+width > c.MaxLocals {
		c.MaxLocals = slot + width
	}
	c.add(Instruction{Op: op, Operand: slot})
}

func (c *Code) VisitTypeInsn(op Opcode, internalName string) {
	c.add(Instruction{Op: op, Owner: internalName})
}

func (c *Code) VisitFieldInsn(op Opcode, owner, name, desc string) {
	c.add(Instruction{Op: op, Owner: owner, Name: name, Desc: desc})
}

func (c *Code) VisitMethodInsn(op Opcode, owner, name, desc string, iface bool) {
	c.add(Instruction{Op: op, Owner: owner, Name: name, Desc: desc, Interface: iface})
}

func (c *Code) VisitJumpInsn(op Opcode, l *Label) {
	c.add(Instruction{Op: op, Label: c.bind(l)})
}

func (c *Code) VisitLabel(l *Label) {
	c.add(Instruction{Op: LABEL, Label: c.bind(l)})
}

func (c *Code) VisitLdcInsn(value any) {
	c.add(Instruction{Op: LDC, Const: value})
}

func (c *Code) VisitIincInsn(slot, delta int) {
	c.add(Instruction{Op: IINC, Operand: slot, Delta: delta})
}

// VisitLineNumber sets the source line recorded on following instructions.
func (c *Code) VisitLineNumber(line int) {
	c.line = line
}

// Len returns the number of instructions, labels included.
func (c *Code) Len() int {
	return len(c.Instructions)
}

// Ops returns the opcodes in order, labels excluded.
func (c *Code) Ops() []Opcode {
	ops := make([]Opcode, 0, len(c.Instructions))
	for _, in := range c.Instructions {
		if in.Op != LABEL {
			ops = append(ops, in.Op)
		}
	}
	return ops
}

// Count returns how many times op occurs.
func (c *Code) Count(op Opcode) int {
	n := 0
	for _, in := range c.Instructions {
		if in.Op == op {
			n++
		}
	}
	return n
}
