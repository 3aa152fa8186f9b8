package diagnostics

import (
	"fmt"

	"eagle/interpreter-go/pkg/ast"
)

// Span locates a diagnostic in its source text.
type Span = ast.Span

// Kind classifies a diagnostic.
type Kind int

const (
	UnexpectedToken Kind = iota
	InvalidNumber
	UndefinedSymbol
	UndefinedOperator
	CannotConvert
	AlreadyDeclared
	ReadOnlyAssignment
	InvalidBreakOrContinue
	WrongArgumentCount
	NotCallable
	NotAssignable
	InvalidThis
	InvalidReturn
	NotConstant
	MissingTypeOrInitializer
	CyclicDependency
)

func (k Kind) String() string {
	switch k {
	case UnexpectedToken:
		return "UnexpectedToken"
	case InvalidNumber:
		return "InvalidNumber"
	case UndefinedSymbol:
		return "UndefinedSymbol"
	case UndefinedOperator:
		return "UndefinedOperator"
	case CannotConvert:
		return "CannotConvert"
	case AlreadyDeclared:
		return "AlreadyDeclared"
	case ReadOnlyAssignment:
		return "ReadOnlyAssignment"
	case InvalidBreakOrContinue:
		return "InvalidBreakOrContinue"
	case WrongArgumentCount:
		return "WrongArgumentCount"
	case NotCallable:
		return "NotCallable"
	case NotAssignable:
		return "NotAssignable"
	case InvalidThis:
		return "InvalidThis"
	case InvalidReturn:
		return "InvalidReturn"
	case NotConstant:
		return "NotConstant"
	case MissingTypeOrInitializer:
		return "MissingTypeOrInitializer"
	case CyclicDependency:
		return "CyclicDependency"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Diagnostic is a recoverable compile-time problem.
type Diagnostic struct {
	Span    Span
	Kind    Kind
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d+%d: %s", d.Span.Start, d.Span.Length, d.Message)
}

// Describe formats a diagnostic for CLI output, prefixed with the unit path when known.
func Describe(path string, d Diagnostic) string {
	if path == "" {
		return d.String()
	}
	return fmt.Sprintf("%s:%s", path, d.String())
}
