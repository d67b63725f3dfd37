// Package cfg computes control-flow facts shared by internal/verify and
// internal/optimize: dominator trees and natural loops. Grounded on the
// standard Cooper-Harvey-Kennedy iterative dominator algorithm (the
// teacher has no equivalent — kanso's IR has no loops or branches
// complex enough to need one — so this is built fresh from the
// textbook algorithm spec.md §4.3.4 assumes as a given).
package cfg

import "muc/internal/ir"

// DomTree is the immediate-dominator relation over one function's blocks.
type DomTree struct {
	fn  *ir.Function
	idom map[*ir.BasicBlock]*ir.BasicBlock
	order map[*ir.BasicBlock]int // reverse postorder index, for the iterative algorithm
}

// Dominators computes the dominator tree of fn, rooted at fn.Entry.
// Unreachable blocks (not reachable from Entry) have no idom entry and
// Dominates against them is always false.
func Dominators(fn *ir.Function) *DomTree {
	rpo := reversePostorder(fn)
	order := make(map[*ir.BasicBlock]int, len(rpo))
	for i, b := range rpo {
		order[b] = i
	}

	idom := make(map[*ir.BasicBlock]*ir.BasicBlock)
	idom[fn.Entry] = fn.Entry

	changed := true
	for changed {
		changed = false
		for _, b := range rpo {
			if b == fn.Entry {
				continue
			}
			var newIdom *ir.BasicBlock
			for _, p := range b.Preds {
				if idom[p] == nil {
					continue
				}
				if newIdom == nil {
					newIdom = p
					continue
				}
				newIdom = intersect(idom, order, newIdom, p)
			}
			if newIdom != nil && idom[b] != newIdom {
				idom[b] = newIdom
				changed = true
			}
		}
	}

	return &DomTree{fn: fn, idom: idom, order: order}
}

func intersect(idom map[*ir.BasicBlock]*ir.BasicBlock, order map[*ir.BasicBlock]int, a, b *ir.BasicBlock) *ir.BasicBlock {
	for a != b {
		for order[a] > order[b] {
			a = idom[a]
		}
		for order[b] > order[a] {
			b = idom[b]
		}
	}
	return a
}

func reversePostorder(fn *ir.Function) []*ir.BasicBlock {
	visited := make(map[*ir.BasicBlock]bool)
	var post []*ir.BasicBlock
	var visit func(b *ir.BasicBlock)
	visit = func(b *ir.BasicBlock) {
		if visited[b] || b == nil {
			return
		}
		visited[b] = true
		if b.Terminator != nil {
			for _, s := range b.Terminator.Successors() {
				visit(s)
			}
		}
		post = append(post, b)
	}
	visit(fn.Entry)

	rpo := make([]*ir.BasicBlock, len(post))
	for i, b := range post {
		rpo[len(post)-1-i] = b
	}
	return rpo
}

// Dominates reports whether a dominates b (every path from the entry to
// b passes through a), inclusive: a dominates itself.
func (d *DomTree) Dominates(a, b *ir.BasicBlock) bool {
	if d.idom[b] == nil {
		return false // b unreachable
	}
	for b != d.fn.Entry {
		if b == a {
			return true
		}
		if d.idom[b] == nil {
			return false
		}
		b = d.idom[b]
	}
	return a == d.fn.Entry
}

// ImmediateDominator returns b's immediate dominator, or nil for the
// entry block or an unreachable block.
func (d *DomTree) ImmediateDominator(b *ir.BasicBlock) *ir.BasicBlock {
	if b == d.fn.Entry {
		return nil
	}
	return d.idom[b]
}

// PreOrder returns fn's reachable blocks in dominator-tree pre-order,
// the traversal spec.md §4.3.4's LICM pass requires so that an
// instruction's operand-defining instructions are visited before it.
func (d *DomTree) PreOrder() []*ir.BasicBlock {
	children := make(map[*ir.BasicBlock][]*ir.BasicBlock)
	for b, p := range d.idom {
		if b == d.fn.Entry {
			continue
		}
		children[p] = append(children[p], b)
	}

	var order []*ir.BasicBlock
	var visit func(b *ir.BasicBlock)
	visit = func(b *ir.BasicBlock) {
		order = append(order, b)
		for _, c := range children[b] {
			visit(c)
		}
	}
	visit(d.fn.Entry)
	return order
}
