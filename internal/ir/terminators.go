package ir

import "muc/internal/types"

// Ret returns from the function, with or without a value.
type Ret struct {
	id    int
	block *BasicBlock
	Val   Value
}

// NewRet creates, appends and installs a Ret as b's terminator.
func NewRet(b *BasicBlock, val Value) *Ret {
	i := &Ret{id: b.Func.nextID(), block: b, Val: val}
	b.SetTerminator(i)
	return i
}

func (i *Ret) ValueType() types.Type { return types.Void{} }
func (i *Ret) ID() int               { return i.id }
func (i *Ret) Block() *BasicBlock    { return i.block }
func (i *Ret) Operands() []Value {
	if i.Val != nil {
		return []Value{i.Val}
	}
	return nil
}
func (i *Ret) Successors() []*BasicBlock { return nil }

// Jmp is an unconditional branch to Target.
type Jmp struct {
	id     int
	block  *BasicBlock
	Target *BasicBlock
}

func NewJmp(b *BasicBlock, target *BasicBlock) *Jmp {
	i := &Jmp{id: b.Func.nextID(), block: b, Target: target}
	b.SetTerminator(i)
	return i
}

func (i *Jmp) ValueType() types.Type     { return types.Void{} }
func (i *Jmp) ID() int                   { return i.id }
func (i *Jmp) Block() *BasicBlock        { return i.block }
func (i *Jmp) Operands() []Value         { return nil }
func (i *Jmp) Successors() []*BasicBlock { return []*BasicBlock{i.Target} }

// Br is a two-way conditional branch on Cond, grounded on uscc's
// BranchInst usage in ASTEmit's If/While emission and on ConstantBranch's
// rewrite of such branches into a Jmp once Cond is a known constant.
type Br struct {
	id         int
	block      *BasicBlock
	Cond       Value
	Then, Else *BasicBlock
}

func NewBr(b *BasicBlock, cond Value, then, els *BasicBlock) *Br {
	i := &Br{id: b.Func.nextID(), block: b, Cond: cond, Then: then, Else: els}
	b.SetTerminator(i)
	return i
}

func (i *Br) ValueType() types.Type { return types.Void{} }
func (i *Br) ID() int               { return i.id }
func (i *Br) Block() *BasicBlock    { return i.block }
func (i *Br) Operands() []Value     { return []Value{i.Cond} }
func (i *Br) Successors() []*BasicBlock {
	return []*BasicBlock{i.Then, i.Else}
}
