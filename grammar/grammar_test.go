package grammar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"muc/grammar"
)

const sumSquares = `
int sumSquares(int n) {
    int i = 0;
    int total = 0;
    while (i < n) {
        total = total + i * i;
        i = i + 1;
    }
    return total;
}
`

func TestParseFunction(t *testing.T) {
	prog, err := grammar.ParseString("sum.c", sumSquares)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	assert.Equal(t, 1, len(prog.Functions))

	fn := prog.Functions[0]
	assert.Equal(t, "int", fn.ReturnType)
	assert.Equal(t, "sumSquares", fn.Name)
	assert.Equal(t, 1, len(fn.Params))
	assert.Equal(t, "n", fn.Params[0].Name)
	assert.False(t, fn.Params[0].Array)

	assert.Equal(t, 2, len(fn.Body.Decls))
	assert.Equal(t, "i", fn.Body.Decls[0].Name)
	assert.Equal(t, "total", fn.Body.Decls[1].Name)

	assert.Equal(t, 2, len(fn.Body.Stmts))
	assert.NotNil(t, fn.Body.Stmts[0].While)
	assert.NotNil(t, fn.Body.Stmts[1].Return)
}

const arrayParam = `
void fill(int a[], int n) {
    int i = 0;
    while (i < n) {
        a[i] = i;
        i++;
    }
}
`

func TestParseArrayParamAndIndexAssign(t *testing.T) {
	prog, err := grammar.ParseString("fill.c", arrayParam)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	fn := prog.Functions[0]
	assert.True(t, fn.Params[0].Array)

	body := fn.Body.Stmts[0].While.Body
	assert.NotNil(t, body.Block)
	assert.NotNil(t, body.Block.Stmts[0].AssignArray)
	assert.Equal(t, "a", body.Block.Stmts[0].AssignArray.Name)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := grammar.ParseString("bad.c", `int main( { return; }`)
	assert.Error(t, err)
}
