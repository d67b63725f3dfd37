package ir

import (
	"fmt"
	"strings"

	"muc/internal/types"
)

// Printer renders a Module as textual IR, grounded on the teacher's
// internal/ir/printer.go (an indent-tracking strings.Builder with
// writeLine/write helpers), trimmed of the contract/storage-layout
// sections μC has no equivalent of.
type Printer struct {
	indent int
	output strings.Builder
}

func NewPrinter() *Printer {
	return &Printer{}
}

// Print returns the textual IR for m, used by cmd/muc's -print-ir and
// -emit-ir flags.
func Print(m *Module) string {
	p := NewPrinter()
	p.printModule(m)
	return p.output.String()
}

func (p *Printer) writeLine(format string, args ...interface{}) {
	for i := 0; i < p.indent; i++ {
		p.output.WriteString("  ")
	}
	p.output.WriteString(fmt.Sprintf(format, args...))
	p.output.WriteString("\n")
}

func (p *Printer) printModule(m *Module) {
	for _, g := range m.Strings {
		p.writeLine("%s = string %q", g.Name, g.Value)
	}
	if len(m.Strings) > 0 {
		p.writeLine("")
	}
	for i, fn := range m.Functions {
		if i > 0 {
			p.writeLine("")
		}
		p.printFunction(fn)
	}
}

func (p *Printer) printFunction(fn *Function) {
	params := make([]string, len(fn.Params))
	for i, a := range fn.Params {
		params[i] = fmt.Sprintf("%s %s", a.Typ, a.Name)
	}
	if fn.Entry == nil {
		p.writeLine("declare %s %s(%s)", fn.Return, fn.Name, strings.Join(params, ", "))
		return
	}
	p.writeLine("function %s %s(%s) {", fn.Return, fn.Name, strings.Join(params, ", "))
	p.indent++
	for _, b := range fn.Blocks {
		p.printBlock(b)
	}
	p.indent--
	p.writeLine("}")
}

func (p *Printer) printBlock(b *BasicBlock) {
	preds := make([]string, len(b.Preds))
	for i, pr := range b.Preds {
		preds[i] = pr.Name
	}
	if len(preds) > 0 {
		p.writeLine("%s:  ; preds = %s", b.Name, strings.Join(preds, ", "))
	} else {
		p.writeLine("%s:", b.Name)
	}
	p.indent++
	for _, inst := range b.Instructions {
		p.writeLine("%s", p.instString(inst))
	}
	if b.Terminator != nil {
		p.writeLine("%s", p.termString(b.Terminator))
	}
	p.indent--
}

func (p *Printer) ref(v Value) string {
	if v == nil {
		return "<nil>"
	}
	switch val := v.(type) {
	case *Constant:
		return fmt.Sprintf("%d", val.Val)
	case *Argument:
		return "%" + val.Name
	case *GlobalString:
		return val.Name
	case Instruction:
		return fmt.Sprintf("%%%d", val.ID())
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (p *Printer) instString(inst Instruction) string {
	switch i := inst.(type) {
	case *BinaryMath:
		return fmt.Sprintf("%%%d = %s %s %s, %s", i.ID(), mathOpName(i.Op), i.Typ, p.ref(i.Left), p.ref(i.Right))
	case *BinaryCmp:
		return fmt.Sprintf("%%%d = %s %s, %s", i.ID(), cmpOpName(i.Op), p.ref(i.Left), p.ref(i.Right))
	case *Not:
		return fmt.Sprintf("%%%d = not %s", i.ID(), p.ref(i.X))
	case *SExt:
		return fmt.Sprintf("%%%d = sext %s", i.ID(), p.ref(i.X))
	case *Trunc:
		return fmt.Sprintf("%%%d = trunc %s", i.ID(), p.ref(i.X))
	case *Alloca:
		return fmt.Sprintf("%%%d = alloca %s, %d", i.ID(), i.Elem, i.Count)
	case *GEP:
		return fmt.Sprintf("%%%d = gep %s, %s", i.ID(), p.ref(i.Base), p.ref(i.Index))
	case *Load:
		return fmt.Sprintf("%%%d = load %s", i.ID(), p.ref(i.Addr))
	case *Store:
		return fmt.Sprintf("store %s, %s", p.ref(i.Val), p.ref(i.Addr))
	case *Call:
		args := make([]string, len(i.Args))
		for idx, a := range i.Args {
			args[idx] = p.ref(a)
		}
		if _, void := i.Typ.(types.Void); void {
			return fmt.Sprintf("call %s(%s)", i.Callee, strings.Join(args, ", "))
		}
		return fmt.Sprintf("%%%d = call %s(%s)", i.ID(), i.Callee, strings.Join(args, ", "))
	case *Phi:
		edges := make([]string, len(i.Incoming))
		for idx, e := range i.Incoming {
			edges[idx] = fmt.Sprintf("[%s, %s]", p.ref(e.Value), e.Pred.Name)
		}
		return fmt.Sprintf("%%%d = phi %s", i.ID(), strings.Join(edges, ", "))
	default:
		return fmt.Sprintf("<unknown instruction %T>", inst)
	}
}

func (p *Printer) termString(t Terminator) string {
	switch term := t.(type) {
	case *Ret:
		if term.Val == nil {
			return "ret"
		}
		return fmt.Sprintf("ret %s", p.ref(term.Val))
	case *Jmp:
		return fmt.Sprintf("jmp %s", term.Target.Name)
	case *Br:
		return fmt.Sprintf("br %s, %s, %s", p.ref(term.Cond), term.Then.Name, term.Else.Name)
	default:
		return fmt.Sprintf("<unknown terminator %T>", t)
	}
}

func mathOpName(op MathOp) string {
	switch op {
	case Add:
		return "add"
	case Sub:
		return "sub"
	case Mul:
		return "mul"
	case SDiv:
		return "sdiv"
	case SRem:
		return "srem"
	default:
		return "?"
	}
}

func cmpOpName(op CmpOp) string {
	switch op {
	case Eq:
		return "eq"
	case Ne:
		return "ne"
	case Slt:
		return "slt"
	case Sgt:
		return "sgt"
	default:
		return "?"
	}
}
