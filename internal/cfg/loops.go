package cfg

import "muc/internal/ir"

// Loop is one natural loop: Header is the single entry block dominating
// every block in the loop; Blocks includes the header; Preheader is the
// loop's unique predecessor outside the loop, or nil if the header has
// more than one such predecessor (spec.md §4.3.4: "loops without a
// preheader are skipped").
type Loop struct {
	Header    *ir.BasicBlock
	Blocks    map[*ir.BasicBlock]bool
	Preheader *ir.BasicBlock
}

// NaturalLoops finds every natural loop in fn: for each back edge
// (a branch from a block to one of its dominators), the loop body is
// every block that can reach the back-edge source without passing
// through the header, found by walking predecessors backward from the
// source. Grounded on the standard back-edge-driven natural loop
// construction (Aho/Sethi/Ullman dragon-book algorithm); the teacher
// and uscc have no equivalent, since neither needs a loop analysis.
func NaturalLoops(fn *ir.Function, dom *DomTree) []*Loop {
	byHeader := make(map[*ir.BasicBlock]*Loop)
	var order []*ir.BasicBlock

	for _, b := range fn.Blocks {
		if b.Terminator == nil {
			continue
		}
		for _, succ := range b.Terminator.Successors() {
			if !dom.Dominates(succ, b) {
				continue
			}
			// Multiple back edges to the same header are the same
			// natural loop; merge their bodies into one Loop entry.
			l, ok := byHeader[succ]
			if !ok {
				l = buildLoop(succ, b)
				byHeader[succ] = l
				order = append(order, succ)
			} else {
				for blk := range buildLoop(succ, b).Blocks {
					l.Blocks[blk] = true
				}
			}
		}
	}

	loops := make([]*Loop, len(order))
	for i, h := range order {
		l := byHeader[h]
		l.Preheader = findPreheader(l)
		loops[i] = l
	}
	return loops
}

// buildLoop collects header's natural loop body given one back-edge
// source tail (header dominates tail), by walking predecessors backward
// from tail until the walk reaches header.
func buildLoop(header, tail *ir.BasicBlock) *Loop {
	blocks := map[*ir.BasicBlock]bool{header: true}
	stack := []*ir.BasicBlock{tail}
	blocks[tail] = true
	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range b.Preds {
			if !blocks[p] {
				blocks[p] = true
				stack = append(stack, p)
			}
		}
	}
	return &Loop{Header: header, Blocks: blocks}
}

// findPreheader returns l's preheader: the header's single predecessor
// lying outside the loop. If the header has more than one
// outside-the-loop predecessor (or none), the loop has no preheader and
// LICM must skip it.
func findPreheader(l *Loop) *ir.BasicBlock {
	var preheader *ir.BasicBlock
	for _, p := range l.Header.Preds {
		if l.Blocks[p] {
			continue
		}
		if preheader != nil {
			return nil
		}
		preheader = p
	}
	return preheader
}
