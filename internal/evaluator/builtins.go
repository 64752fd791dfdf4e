package evaluator

import "github.com/PedroManse/stt-sub000/internal/ast"

// builtinFn handles one built-in invocation: it pops its own arguments and
// pushes its own results.
type builtinFn func(c *Context, source string) error

// builtins is the fixed dispatch table; identifiers in it can never be
// shadowed by arguments, user functions, or hooks. Entries are registered
// by the builtins_*.go files.
var builtins = map[string]builtinFn{}

func register(name string, fn builtinFn) {
	builtins[name] = fn
}

// IsBuiltin reports whether name is a predefined built-in.
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

// popArgs pops n values for a built-in, returned in push order (the
// stack's top is the last element).
func (c *Context) popArgs(forFn, argsSpec string, n int) ([]ast.Value, error) {
	values, ok := c.Stack.PopN(n)
	if !ok {
		return nil, &MissingValuesForBuiltinError{
			ForFn:    forFn,
			ArgsSpec: argsSpec,
			Missing:  int64(n - c.Stack.Len()),
		}
	}
	return values, nil
}

func (c *Context) popOne(forFn, argsSpec string) (ast.Value, error) {
	v, ok := c.Stack.Pop()
	if !ok {
		return ast.Value{}, &MissingValuesForBuiltinError{ForFn: forFn, ArgsSpec: argsSpec, Missing: 1}
	}
	return v, nil
}

func (c *Context) peekOne(forFn, argsSpec string) (ast.Value, error) {
	v, ok := c.Stack.Peek()
	if !ok {
		return ast.Value{}, &MissingValuesForBuiltinError{ForFn: forFn, ArgsSpec: argsSpec, Missing: 1}
	}
	return v, nil
}

func wrongType(forFn, argsSpec, thisArg, expected string, got ast.Value) error {
	return &WrongTypeForBuiltinError{
		ForFn:    forFn,
		ArgsSpec: argsSpec,
		ThisArg:  thisArg,
		Expected: expected,
		Got:      got,
	}
}

func wantStr(forFn, argsSpec, thisArg string, v ast.Value) (string, error) {
	if v.Kind != ast.KindStr {
		return "", wrongType(forFn, argsSpec, thisArg, "string", v)
	}
	return v.Str, nil
}

func wantNum(forFn, argsSpec, thisArg string, v ast.Value) (int64, error) {
	if v.Kind != ast.KindNum {
		return 0, wrongType(forFn, argsSpec, thisArg, "number", v)
	}
	return v.Num, nil
}

func wantArr(forFn, argsSpec, thisArg string, v ast.Value) ([]ast.Value, error) {
	if v.Kind != ast.KindArray {
		return nil, wrongType(forFn, argsSpec, thisArg, "array", v)
	}
	return v.Array, nil
}

func wantMap(forFn, argsSpec, thisArg string, v ast.Value) (map[string]ast.Value, error) {
	if v.Kind != ast.KindMap {
		return nil, wrongType(forFn, argsSpec, thisArg, "map", v)
	}
	return v.Map, nil
}

func wantResult(forFn, argsSpec, thisArg string, v ast.Value) (ast.Value, error) {
	if v.Kind != ast.KindResult {
		return ast.Value{}, wrongType(forFn, argsSpec, thisArg, "result", v)
	}
	return v, nil
}

func wantOption(forFn, argsSpec, thisArg string, v ast.Value) (ast.Value, error) {
	if v.Kind != ast.KindOption {
		return ast.Value{}, wrongType(forFn, argsSpec, thisArg, "option", v)
	}
	return v, nil
}

func wantClosure(forFn, argsSpec, thisArg string, v ast.Value) (*ast.Closure, error) {
	if v.Kind != ast.KindClosure {
		return nil, wrongType(forFn, argsSpec, thisArg, "closure", v)
	}
	return v.Closure, nil
}
