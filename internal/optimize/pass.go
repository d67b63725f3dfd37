// Package optimize implements the function-level IR optimization
// pipeline: constant folding/propagation, constant-branch folding,
// dead-block elimination, and loop-invariant code motion, scheduled by
// a small pass manager that checks each pass's declared dependencies
// before running it (spec.md §4.3). The manager caches no analysis
// results between passes (LICM recomputes dominators and loops on each
// run), so no pass's PreservesCFG bit is consulted. Grounded on uscc's
// ConstantBranch.cpp/DeadBlocks.cpp, the only two opt/ passes in
// original_source/ with a filled-in body: they give the shape of a
// pass (a Run over every block, required-analyses checked first) and,
// for those two passes, a working reference to port. ConstantOps has
// no reference file there (original_source/opt/ has no constant-
// folding pass at all) and is written fresh from spec.md §4.3.1;
// SSABuilder.cpp and LICM.cpp are present but stub-only, so LICM below
// is likewise designed directly from spec.md §4.3.4 against the
// dominator/loop analyses in internal/cfg.
package optimize

import "muc/internal/ir"

// Pass is one function-level optimization. Name identifies it for
// RequiredAnalyses dependency lookups; Run reports whether it changed
// the function (used by Manager.Run to decide whether to repeat the
// pipeline).
type Pass interface {
	Name() string
	RequiredAnalyses() []string
	PreservesCFG() bool
	Run(fn *ir.Function) (changed bool)
}

// Manager runs a fixed pipeline of passes in dependency order,
// repeating until no pass reports a change or a round limit is hit —
// ConstantOps and ConstantBranch can re-enable each other (folding a
// branch can expose more constant operands elsewhere) so a single pass
// over the pipeline is not always enough to reach a fixpoint.
type Manager struct {
	passes []Pass
}

// DefaultPipeline returns the four-pass pipeline in its required
// dependency order: ConstantOps, ConstantBranch, DeadBlocks, LICM.
func DefaultPipeline() *Manager {
	return &Manager{passes: []Pass{
		&ConstantOps{},
		&ConstantBranch{},
		&DeadBlocks{},
		&LICM{},
	}}
}

const maxRounds = 8

// Run applies every pass in m to fn, repeating the whole pipeline while
// any pass still reports progress, bounded by maxRounds to guarantee
// termination even if two passes keep re-enabling each other
// indefinitely (not expected at μC's program sizes, but cheap to bound).
// It panics if a pass is reached before every pass named in its
// RequiredAnalyses has run on fn.
func (m *Manager) Run(fn *ir.Function) {
	if fn.Entry == nil {
		return // declare-only function, nothing to optimize
	}
	ran := make(map[string]bool)
	for round := 0; round < maxRounds; round++ {
		anyChanged := false
		for _, p := range m.passes {
			for _, req := range p.RequiredAnalyses() {
				if !ran[req] {
					panic("optimize: pass " + p.Name() + " requires " + req + ", which has not run on " + fn.Name)
				}
			}
			if p.Run(fn) {
				anyChanged = true
			}
			ran[p.Name()] = true
		}
		if !anyChanged {
			return
		}
	}
}

// RunModule optimizes every defined function in m.
func RunModule(m *ir.Module) {
	mgr := DefaultPipeline()
	for _, fn := range m.Functions {
		mgr.Run(fn)
	}
}
