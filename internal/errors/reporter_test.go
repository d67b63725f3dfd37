package errors_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"muc/internal/ast"
	"muc/internal/errors"
)

func TestFormatErrorIncludesLevelCodeAndLocation(t *testing.T) {
	source := "int main() {\n    return y;\n}\n"
	reporter := errors.NewErrorReporter("t.c", source)

	err := errors.CompilerError{
		Level:    errors.Error,
		Code:     errors.ErrorUndefinedVariable,
		Message:  "undefined variable 'y'",
		Position: ast.Position{Line: 2, Column: 12},
		Length:   1,
	}
	formatted := reporter.FormatError(err)

	assert.Contains(t, formatted, "error["+errors.ErrorUndefinedVariable+"]")
	assert.Contains(t, formatted, "undefined variable 'y'")
	assert.Contains(t, formatted, "t.c:2:12")
	assert.Contains(t, formatted, "return y;")
}

func TestFormatErrorRendersSuggestionsNotesAndHelp(t *testing.T) {
	source := "int main() {\n    return y;\n}\n"
	reporter := errors.NewErrorReporter("t.c", source)

	err := errors.CompilerError{
		Level:    errors.Error,
		Code:     errors.ErrorUndefinedVariable,
		Message:  "undefined variable 'y'",
		Position: ast.Position{Line: 2, Column: 12},
		Length:   1,
		Suggestions: []errors.Suggestion{
			{Message: "did you mean 'x'?"},
		},
		Notes:    []string{"variables must be declared before use"},
		HelpText: "declare 'y' with a type before this line",
	}
	formatted := reporter.FormatError(err)

	assert.Contains(t, formatted, "did you mean 'x'?")
	assert.Contains(t, formatted, "variables must be declared before use")
	assert.Contains(t, formatted, "declare 'y' with a type before this line")
}

func TestFormatErrorWithoutCodeOmitsBrackets(t *testing.T) {
	reporter := errors.NewErrorReporter("t.c", "int x;\n")
	err := errors.CompilerError{Level: errors.Warning, Message: "no code here", Position: ast.Position{Line: 1, Column: 1}}
	formatted := reporter.FormatError(err)

	assert.Contains(t, formatted, "warning: no code here")
	assert.NotContains(t, formatted, "warning[")
}

func TestGetErrorDescriptionAndCategory(t *testing.T) {
	assert.Equal(t, "Semantic Analysis", errors.GetErrorCategory(errors.ErrorUndefinedVariable))
	assert.Equal(t, "Syntax", errors.GetErrorCategory(errors.ErrorSyntax))
	assert.Equal(t, "Flow Control", errors.GetErrorCategory(errors.ErrorMissingReturn))
	assert.Equal(t, "Warning", errors.GetErrorCategory(errors.WarningUnusedVariable))
	assert.NotEqual(t, "unknown error code", errors.GetErrorDescription(errors.ErrorUndefinedVariable))
}

func TestIsWarning(t *testing.T) {
	assert.True(t, errors.IsWarning(errors.WarningUnusedVariable))
	assert.False(t, errors.IsWarning(errors.ErrorUndefinedVariable))
}
