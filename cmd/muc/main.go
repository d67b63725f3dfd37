// Command muc compiles one μC source file through the full core
// pipeline: parse, resolve names, emit SSA IR, verify, optimize,
// verify again. Grounded on the teacher's cmd/kanso-cli/main.go: a
// single-file, flag-by-hand CLI using fatih/color for diagnostics
// instead of the flag package.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"muc/internal/ast"
	"muc/internal/emit"
	"muc/internal/errors"
	"muc/internal/ir"
	"muc/internal/optimize"
	"muc/internal/parser"
	"muc/internal/resolve"
	"muc/internal/verify"
)

func usage() {
	fmt.Println("Usage: muc [-print-ir] [-emit-ir] [-S] <file.c>")
}

func main() {
	var printIR, emitIR, assembly bool
	var path string

	for _, arg := range os.Args[1:] {
		switch arg {
		case "-print-ir":
			printIR = true
		case "-emit-ir":
			emitIR = true
		case "-S":
			assembly = true
		default:
			if strings.HasPrefix(arg, "-") {
				color.Red("unknown flag: %s", arg)
				usage()
				os.Exit(1)
			}
			path = arg
		}
	}

	if path == "" {
		usage()
		os.Exit(1)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("failed to read %s: %s", path, err)
		os.Exit(1)
	}

	os.Exit(run(path, string(source), printIR, emitIR, assembly))
}

func run(path, source string, printIR, emitIR, assembly bool) int {
	prog, parseErrs := parser.Parse(path, source)
	if len(parseErrs) > 0 {
		for _, e := range parseErrs {
			color.Red("error: %s", e)
		}
		return 1
	}

	binding, semErrs := resolve.Resolve(prog)
	if len(semErrs) > 0 {
		reporter := errors.NewErrorReporter(path, source)
		for _, e := range semErrs {
			fmt.Print(reporter.FormatError(e))
		}
		return 1
	}

	module, ok := compile(path, prog, binding)
	if !ok {
		return 1
	}

	if printIR || emitIR || assembly {
		fmt.Print(ir.Print(module))
	}
	if assembly {
		color.Yellow("note: assembly emission is out of scope for this core; printing IR instead")
	}

	color.Green("compiled %s", path)
	return 0
}

// compile emits and optimizes prog, recovering any internal/verify
// panic as a compiler-bug diagnostic: structural violations are a
// compiler defect, never an ordinary user-facing error.
func compile(path string, prog *ast.Program, binding *resolve.Result) (mod *ir.Module, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if v, isViolation := r.(verify.Violation); isViolation {
				color.Red("internal compiler error: %s", v.Message)
				ok = false
				return
			}
			panic(r)
		}
	}()

	mod = emit.Program(path, prog, binding)
	verify.Module(mod)
	optimize.RunModule(mod)
	verify.Module(mod)
	return mod, true
}
