package resolve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"muc/internal/errors"
	"muc/internal/parser"
	"muc/internal/resolve"
)

func parseOK(t *testing.T, source string) *resolve.Result {
	t.Helper()
	prog, perrs := parser.Parse("t.c", source)
	if !assert.Empty(t, perrs, "unexpected parse errors") {
		t.FailNow()
	}
	res, _ := resolve.Resolve(prog)
	return res
}

func TestResolveAcceptsWellFormedProgram(t *testing.T) {
	prog, perrs := parser.Parse("t.c", `
		int add(int a, int b) {
			return a + b;
		}
		int main() {
			int x;
			x = add(1, 2);
			return x;
		}
	`)
	if !assert.Empty(t, perrs) {
		t.FailNow()
	}
	_, errs := resolve.Resolve(prog)
	assert.Empty(t, errs)
}

func TestResolveReportsUndefinedVariable(t *testing.T) {
	prog, perrs := parser.Parse("t.c", `
		int main() {
			return y;
		}
	`)
	if !assert.Empty(t, perrs) {
		t.FailNow()
	}
	_, errs := resolve.Resolve(prog)
	if assert.Equal(t, 1, len(errs)) {
		assert.Equal(t, errors.ErrorUndefinedVariable, errs[0].Code)
	}
}

func TestResolveReportsUndefinedFunction(t *testing.T) {
	prog, perrs := parser.Parse("t.c", `
		int main() {
			return missing(1);
		}
	`)
	if !assert.Empty(t, perrs) {
		t.FailNow()
	}
	_, errs := resolve.Resolve(prog)
	if assert.Equal(t, 1, len(errs)) {
		assert.Equal(t, errors.ErrorUndefinedFunction, errs[0].Code)
	}
}

func TestResolveReportsArgumentCountMismatch(t *testing.T) {
	prog, perrs := parser.Parse("t.c", `
		int add(int a, int b) {
			return a + b;
		}
		int main() {
			return add(1);
		}
	`)
	if !assert.Empty(t, perrs) {
		t.FailNow()
	}
	_, errs := resolve.Resolve(prog)
	if assert.Equal(t, 1, len(errs)) {
		assert.Equal(t, errors.ErrorInvalidArguments, errs[0].Code)
	}
}

func TestResolveReportsArrayScalarMismatch(t *testing.T) {
	prog, perrs := parser.Parse("t.c", `
		int main() {
			int a[10];
			int x;
			x = a;
			return 0;
		}
	`)
	if !assert.Empty(t, perrs) {
		t.FailNow()
	}
	_, errs := resolve.Resolve(prog)
	assert.NotEmpty(t, errs)
	found := false
	for _, e := range errs {
		if e.Code == errors.ErrorArrayMismatch {
			found = true
		}
	}
	assert.True(t, found, "expected an array-mismatch diagnostic")
}

func TestResolveRegistersPrintfUnconditionally(t *testing.T) {
	res := parseOK(t, `
		int main() {
			return 0;
		}
	`)
	assert.NotNil(t, res.Globals.LookupLocal("printf"))
}

func TestResolveReportsDuplicateDeclaration(t *testing.T) {
	prog, perrs := parser.Parse("t.c", `
		int main() {
			int x;
			int x;
			return 0;
		}
	`)
	if !assert.Empty(t, perrs) {
		t.FailNow()
	}
	_, errs := resolve.Resolve(prog)
	if assert.Equal(t, 1, len(errs)) {
		assert.Equal(t, errors.ErrorDuplicateDeclaration, errs[0].Code)
	}
}
