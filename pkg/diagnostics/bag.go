package diagnostics

import "fmt"

// Bag accumulates diagnostics in report order.
type Bag struct {
	items []Diagnostic
}

func (b *Bag) Report(span Span, kind Kind, message string) {
	b.items = append(b.items, Diagnostic{Span: span, Kind: kind, Message: message})
}

// AddRange appends diagnostics produced elsewhere.
func (b *Bag) AddRange(items []Diagnostic) {
	b.items = append(b.items, items...)
}

func (b *Bag) Len() int { return len(b.items) }

// Items returns a copy of the accumulated diagnostics.
func (b *Bag) Items() []Diagnostic {
	out := make([]Diagnostic, len(b.items))
	copy(out, b.items)
	return out
}

func (b *Bag) ReportUnexpectedToken(span Span, actual, expected string) {
	b.Report(span, UnexpectedToken, fmt.Sprintf("Unexpected token <%s>, expected <%s>.", actual, expected))
}

func (b *Bag) ReportInvalidNumber(span Span, text string) {
	b.Report(span, InvalidNumber, fmt.Sprintf("The number '%s' is not a valid number.", text))
}

func (b *Bag) ReportUndefinedName(span Span, name string) {
	b.Report(span, UndefinedSymbol, fmt.Sprintf("Symbol '%s' doesn't exist.", name))
}

func (b *Bag) ReportUndefinedType(span Span, name string) {
	b.Report(span, UndefinedSymbol, fmt.Sprintf("Type '%s' doesn't exist.", name))
}

func (b *Bag) ReportMissingMember(span Span, typeName, member string) {
	b.Report(span, UndefinedSymbol, fmt.Sprintf("Type '%s' doesn't have a member called '%s'.", typeName, member))
}

func (b *Bag) ReportUndefinedUnaryOperator(span Span, op, operand string) {
	b.Report(span, UndefinedOperator, fmt.Sprintf("Unary operator '%s' is not defined for type '%s'.", op, operand))
}

func (b *Bag) ReportUndefinedBinaryOperator(span Span, op, left, right string) {
	b.Report(span, UndefinedOperator, fmt.Sprintf("Binary operator '%s' is not defined for types '%s' and '%s'.", op, left, right))
}

func (b *Bag) ReportCannotConvert(span Span, from, to string) {
	b.Report(span, CannotConvert, fmt.Sprintf("Cannot convert type '%s' to '%s'.", from, to))
}

func (b *Bag) ReportCannotConvertImplicitly(span Span, from, to string) {
	b.Report(span, CannotConvert, fmt.Sprintf("Cannot convert type '%s' to '%s'. An explicit conversion exists (are you missing a cast?)", from, to))
}

func (b *Bag) ReportCyclicDependency(span Span, name string) {
	b.Report(span, CyclicDependency, fmt.Sprintf("Type '%s' cannot derive from itself.", name))
}

func (b *Bag) ReportAlreadyDeclared(span Span, name string) {
	b.Report(span, AlreadyDeclared, fmt.Sprintf("Symbol '%s' is already declared.", name))
}

func (b *Bag) ReportCannotAssign(span Span, name string) {
	b.Report(span, ReadOnlyAssignment, fmt.Sprintf("Variable '%s' is read-only and cannot be assigned to.", name))
}

func (b *Bag) ReportInvalidBreakOrContinue(span Span, keyword string) {
	b.Report(span, InvalidBreakOrContinue, fmt.Sprintf("The keyword '%s' can only be used inside of loops.", keyword))
}

func (b *Bag) ReportWrongArgumentCount(span Span, name string, expected, actual int) {
	b.Report(span, WrongArgumentCount, fmt.Sprintf("Function '%s' requires %d arguments but was given %d.", name, expected, actual))
}

func (b *Bag) ReportNotCallable(span Span, name, kind string) {
	b.Report(span, NotCallable, fmt.Sprintf("Reference '%s' is a '%s'. The target must be a function, method or constructor.", name, kind))
}

func (b *Bag) ReportNotAssignable(span Span, name, kind string) {
	b.Report(span, NotAssignable, fmt.Sprintf("Reference '%s' is a '%s'. The assignment target must be an assignable variable, field or property.", name, kind))
}

func (b *Bag) ReportThisNotAllowed(span Span) {
	b.Report(span, InvalidThis, "This is not allowed in this scope.")
}

func (b *Bag) ReportInvalidReturn(span Span) {
	b.Report(span, InvalidReturn, "The 'return' keyword can only be used inside of functions.")
}

func (b *Bag) ReportNotConstant(span Span) {
	b.Report(span, NotConstant, "The given expression is not compile time constant.")
}

func (b *Bag) ReportMemberMustBeTyped(span Span) {
	b.Report(span, MissingTypeOrInitializer, "Either annotate the member with a type or initialize it.")
}

func (b *Bag) ReportNotAValue(span Span, name, kind string) {
	b.Report(span, UndefinedSymbol, fmt.Sprintf("Reference '%s' is a '%s' and cannot be used as a value.", name, kind))
}
