package interpreter

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"eagle/interpreter-go/pkg/binder"
	"eagle/interpreter-go/pkg/runtime"
	"eagle/interpreter-go/pkg/symbols"
)

// Interpreter evaluates lowered units against a global store.
type Interpreter struct {
	logger  *slog.Logger
	out     io.Writer
	in      *bufio.Reader
	globals *runtime.Store
	frames  []*frame
	labels  map[*binder.BlockStatement]map[*symbols.LabelSymbol]int
}

type Option func(*Interpreter)

func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpreter) { i.logger = logger }
}

// WithOutput redirects Print and PrintLine.
func WithOutput(w io.Writer) Option {
	return func(i *Interpreter) { i.out = w }
}

// WithInput sets the reader behind Input. A *bufio.Reader is used as is, so
// callers can share it with their own line reading.
func WithInput(r io.Reader) Option {
	return func(i *Interpreter) {
		if br, ok := r.(*bufio.Reader); ok {
			i.in = br
			return
		}
		i.in = bufio.NewReader(r)
	}
}

func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		out:    os.Stdout,
		labels: make(map[*binder.BlockStatement]map[*symbols.LabelSymbol]int),
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.in == nil {
		i.in = bufio.NewReader(os.Stdin)
	}
	return i
}

// FunctionValue is a callable body registered under its symbol handle.
type FunctionValue struct {
	Symbol symbols.Invokable
	Body   *binder.BlockStatement
}

func (*FunctionValue) Kind() runtime.Kind { return runtime.KindFunction }

// Fault is an evaluation failure that binding could not rule out.
type Fault struct {
	Message string
	Err     error
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("interpreter: %s: %v", f.Message, f.Err)
	}
	return "interpreter: " + f.Message
}

func (f *Fault) Unwrap() error { return f.Err }

func faultf(format string, args ...any) *Fault {
	return &Fault{Message: fmt.Sprintf(format, args...)}
}

func wrapFault(err error, format string, args ...any) *Fault {
	return &Fault{Message: fmt.Sprintf(format, args...), Err: err}
}

// FrameDepth is the number of active calls.
func (i *Interpreter) FrameDepth() int { return len(i.frames) }

// Evaluate registers the declarations of a lowered unit and runs its global
// statements. The result is the last value produced.
func (i *Interpreter) Evaluate(unit *binder.Unit, globals *runtime.Store) (runtime.Value, error) {
	if unit == nil {
		return runtime.VoidValue{}, nil
	}
	if globals == nil {
		globals = runtime.NewStore()
	}
	i.globals = globals

	last, err := i.evaluateDeclarations(unit.Declarations)
	if err != nil {
		return nil, err
	}
	if unit.Body == nil || len(unit.Body.Statements) == 0 {
		return last, nil
	}
	return i.executeBlock(unit.Body, nil)
}

func (i *Interpreter) evaluateDeclarations(decls []binder.Declaration) (runtime.Value, error) {
	var last runtime.Value = runtime.VoidValue{}
	for _, decl := range decls {
		switch d := decl.(type) {
		case *binder.FunctionDeclaration:
			fn := &FunctionValue{Symbol: d.Symbol, Body: d.Body}
			i.globals.Define(d.Symbol.ID(), fn)
			last = fn
		case *binder.ExternDeclaration:
			native, ok := lookupBuiltin(i, d.Symbol.Name())
			if !ok {
				return nil, faultf("unknown extern function '%s'", d.Symbol.Name())
			}
			if native.Arity != len(d.Symbol.Parameters()) {
				return nil, faultf("extern '%s' expects %d arguments, declared with %d", native.Name, native.Arity, len(d.Symbol.Parameters()))
			}
			i.globals.Define(d.Symbol.ID(), native)
		case *binder.ConstDeclaration:
			i.globals.Define(d.Symbol.ID(), d.Value)
			last = d.Value
		case *binder.StructDeclaration:
			if err := i.evaluateStructDeclaration(d); err != nil {
				return nil, err
			}
		case *binder.AliasDeclaration:
		default:
			return nil, faultf("unsupported declaration %s", decl.Kind())
		}
	}
	return last, nil
}

func (i *Interpreter) evaluateStructDeclaration(decl *binder.StructDeclaration) error {
	if decl.DefaultConstructor != nil {
		return faultf("struct '%s' was not lowered", decl.Type.Name())
	}
	for _, member := range decl.Members {
		switch m := member.(type) {
		case *binder.FieldDeclaration:
		case *binder.MethodDeclaration:
			i.globals.Define(m.Symbol.ID(), &FunctionValue{Symbol: m.Symbol, Body: m.Body})
		case *binder.ConstructorDeclaration:
			if m.Initializer != nil {
				return faultf("constructor of '%s' was not lowered", decl.Type.Name())
			}
			i.globals.Define(m.Symbol.ID(), &FunctionValue{Symbol: m.Symbol, Body: m.Body})
		default:
			return faultf("unsupported member %s of '%s'", member.Kind(), decl.Type.Name())
		}
	}
	return nil
}
