package errors

// Error codes for the μC compiler.
//
// Error code ranges:
// E0001-E0099: Semantic analysis errors
// E0100-E0199: Parser/scanner errors
// E0200-E0299: Type system errors
// E0600-E0699: Flow control errors
// W0001-W0099: Warning codes

const (
	// E0001: Variable resolution errors
	ErrorUndefinedVariable = "E0001"

	// E0002: Function resolution errors
	ErrorUndefinedFunction = "E0002"

	// E0003: Type compatibility errors
	ErrorTypeMismatch = "E0003"

	// E0004: Function return type errors
	ErrorInvalidReturnType = "E0004"

	// E0005: Function call argument count/type errors
	ErrorInvalidArguments = "E0005"

	// E0006: Duplicate declaration in the same scope
	ErrorDuplicateDeclaration = "E0006"

	// E0007: A scalar identifier used where an array was required, or vice versa
	ErrorArrayMismatch = "E0007"

	// E0008: Assignment to an invalid target
	ErrorInvalidAssignment = "E0008"

	// E0009: Invalid operand to a unary or binary operator
	ErrorInvalidOperation = "E0009"

	// E0010: Array index or declared bound is not a valid constant
	ErrorInvalidArrayBound = "E0010"

	// Parser/scanner errors (E0100-E0199)

	// E0100: Scanner could not recognize a character or token
	ErrorSyntax = "E0100"

	// Flow control errors (E0600-E0699)

	// E0600: A non-void function has a code path that falls off the end
	ErrorMissingReturn = "E0600"

	// Warning codes (W0001-W0099)

	// W0001: Declared but never read
	WarningUnusedVariable = "W0001"
)

// GetErrorDescription returns a human-readable description of the error code.
func GetErrorDescription(code string) string {
	switch code {
	case ErrorUndefinedVariable:
		return "variable is used but not declared in the current scope"
	case ErrorUndefinedFunction:
		return "function is called but never defined"
	case ErrorTypeMismatch:
		return "expression type does not match what the context requires"
	case ErrorInvalidReturnType:
		return "returned value does not match the function's declared return type"
	case ErrorInvalidArguments:
		return "function call has the wrong number or type of arguments"
	case ErrorDuplicateDeclaration:
		return "name already declared in this scope"
	case ErrorArrayMismatch:
		return "array used as a scalar, or a scalar used as an array"
	case ErrorInvalidAssignment:
		return "left-hand side of assignment is not a variable or array element"
	case ErrorInvalidOperation:
		return "operator is not supported for these operand types"
	case ErrorInvalidArrayBound:
		return "array bound is not a positive integer constant"
	case ErrorSyntax:
		return "unexpected token"
	case ErrorMissingReturn:
		return "function declares a return type but can fall off the end without returning"
	case WarningUnusedVariable:
		return "variable is declared but never read"
	default:
		return "unknown error code"
	}
}

// IsWarning reports whether code represents a warning rather than a hard error.
func IsWarning(code string) bool {
	return len(code) > 0 && code[0] == 'W'
}

// GetErrorCategory returns the category of the error based on its code.
func GetErrorCategory(code string) string {
	switch {
	case code >= "E0001" && code < "E0100":
		return "Semantic Analysis"
	case code >= "E0100" && code < "E0200":
		return "Syntax"
	case code >= "E0200" && code < "E0300":
		return "Type System"
	case code >= "E0600" && code < "E0700":
		return "Flow Control"
	case len(code) > 0 && code[0] == 'W':
		return "Warning"
	default:
		return "Unknown"
	}
}
