package interpreter

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"eagle/interpreter-go/pkg/runtime"
)

// lookupBuiltin returns the host function an extern declaration binds to.
func lookupBuiltin(i *Interpreter, name string) (runtime.NativeFunctionValue, bool) {
	switch name {
	case "Print":
		return runtime.NativeFunctionValue{Name: name, Arity: 1, Impl: func(args []runtime.Value) (runtime.Value, error) {
			if _, err := fmt.Fprint(i.out, runtime.Stringify(args[0])); err != nil {
				return nil, err
			}
			return runtime.VoidValue{}, nil
		}}, true
	case "PrintLine":
		return runtime.NativeFunctionValue{Name: name, Arity: 1, Impl: func(args []runtime.Value) (runtime.Value, error) {
			if _, err := fmt.Fprintln(i.out, runtime.Stringify(args[0])); err != nil {
				return nil, err
			}
			return runtime.VoidValue{}, nil
		}}, true
	case "Input":
		return runtime.NativeFunctionValue{Name: name, Arity: 0, Impl: func([]runtime.Value) (runtime.Value, error) {
			line, err := i.in.ReadString('\n')
			if err != nil && !(errors.Is(err, io.EOF) && line != "") {
				return nil, err
			}
			return runtime.StringValue{Val: strings.TrimRight(line, "\r\n")}, nil
		}}, true
	case "StringLength":
		return runtime.NativeFunctionValue{Name: name, Arity: 1, Impl: func(args []runtime.Value) (runtime.Value, error) {
			s, ok := args[0].(runtime.StringValue)
			if !ok {
				return nil, fmt.Errorf("StringLength expects a String, got %s", args[0].Kind())
			}
			return runtime.Int(int64(utf8.RuneCountInString(s.Val))), nil
		}}, true
	default:
		return runtime.NativeFunctionValue{}, false
	}
}
