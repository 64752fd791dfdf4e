package evaluator

import "github.com/PedroManse/stt-sub000/internal/ast"

func init() {
	register("-", builtinSub)
	register("*", builtinMul)
	register("%", builtinMod)
	register("=", builtinStrictEq)
	register("≃", builtinLooseEq)
	register(">", builtinGreater)
	register("@", builtinApply)
	register("set", builtinSet)
	register("get", builtinGet)
	register("stack$len", builtinStackLen)
	register("true", func(c *Context, _ string) error {
		c.Stack.Push(ast.BoolValue(true))
		return nil
	})
	register("false", func(c *Context, _ string) error {
		c.Stack.Push(ast.BoolValue(false))
		return nil
	})
}

func binNums(c *Context, forFn string) (int64, int64, error) {
	args, err := c.popArgs(forFn, "[lhs rhs]", 2)
	if err != nil {
		return 0, 0, err
	}
	lhs, err := wantNum(forFn, "[lhs rhs]", "lhs", args[0])
	if err != nil {
		return 0, 0, err
	}
	rhs, err := wantNum(forFn, "[lhs rhs]", "rhs", args[1])
	if err != nil {
		return 0, 0, err
	}
	return lhs, rhs, nil
}

func builtinSub(c *Context, _ string) error {
	lhs, rhs, err := binNums(c, "-")
	if err != nil {
		return err
	}
	c.Stack.Push(ast.NumValue(lhs - rhs))
	return nil
}

func builtinMul(c *Context, _ string) error {
	lhs, rhs, err := binNums(c, "*")
	if err != nil {
		return err
	}
	c.Stack.Push(ast.NumValue(lhs * rhs))
	return nil
}

func builtinMod(c *Context, _ string) error {
	lhs, rhs, err := binNums(c, "%")
	if err != nil {
		return err
	}
	c.Stack.Push(ast.NumValue(lhs % rhs))
	return nil
}

// builtinStrictEq compares same-kind primitives; any other pairing is a
// comparison error.
func builtinStrictEq(c *Context, _ string) error {
	args, err := c.popArgs("=", "[lhs rhs]", 2)
	if err != nil {
		return err
	}
	lhs, rhs := args[0], args[1]
	if lhs.Kind != rhs.Kind {
		return &CompareError{This: lhs, That: rhs}
	}
	switch lhs.Kind {
	case ast.KindChar:
		c.Stack.Push(ast.BoolValue(lhs.Char == rhs.Char))
	case ast.KindNum:
		c.Stack.Push(ast.BoolValue(lhs.Num == rhs.Num))
	case ast.KindStr:
		c.Stack.Push(ast.BoolValue(lhs.Str == rhs.Str))
	case ast.KindBool:
		c.Stack.Push(ast.BoolValue(lhs.Bool == rhs.Bool))
	default:
		return &CompareError{This: lhs, That: rhs}
	}
	return nil
}

// builtinLooseEq compares primitives per kind, yields false on mismatched
// primitive kinds, and fails on arrays and maps.
func builtinLooseEq(c *Context, _ string) error {
	args, err := c.popArgs("≃", "[lhs rhs]", 2)
	if err != nil {
		return err
	}
	lhs, rhs := args[0], args[1]
	if lhs.Kind == ast.KindArray || rhs.Kind == ast.KindArray ||
		lhs.Kind == ast.KindMap || rhs.Kind == ast.KindMap {
		return &CompareError{This: lhs, That: rhs}
	}
	if lhs.Kind != rhs.Kind {
		c.Stack.Push(ast.BoolValue(false))
		return nil
	}
	switch lhs.Kind {
	case ast.KindChar:
		c.Stack.Push(ast.BoolValue(lhs.Char == rhs.Char))
	case ast.KindNum:
		c.Stack.Push(ast.BoolValue(lhs.Num == rhs.Num))
	case ast.KindStr:
		c.Stack.Push(ast.BoolValue(lhs.Str == rhs.Str))
	case ast.KindBool:
		c.Stack.Push(ast.BoolValue(lhs.Bool == rhs.Bool))
	default:
		c.Stack.Push(ast.BoolValue(false))
	}
	return nil
}

func builtinGreater(c *Context, _ string) error {
	args, err := c.popArgs(">", "[lhs rhs]", 2)
	if err != nil {
		return err
	}
	lhs, rhs := args[0], args[1]
	if lhs.Kind != rhs.Kind {
		return &CompareError{This: lhs, That: rhs}
	}
	switch lhs.Kind {
	case ast.KindNum:
		c.Stack.Push(ast.BoolValue(lhs.Num > rhs.Num))
	case ast.KindStr:
		c.Stack.Push(ast.BoolValue(lhs.Str > rhs.Str))
	case ast.KindBool:
		c.Stack.Push(ast.BoolValue(lhs.Bool && !rhs.Bool))
	default:
		return &CompareError{This: lhs, That: rhs}
	}
	return nil
}

// builtinApply fills a closure's next argument slot. A still-partial
// closure is pushed back; filling the last slot runs the body in a fresh
// frame and pushes its outputs.
func builtinApply(c *Context, source string) error {
	v, err := c.popOne("@", "[closure value]")
	if err != nil {
		return err
	}
	clv, err := c.popOne("@", "[closure value]")
	if err != nil {
		return err
	}
	cl, err := wantClosure("@", "[closure value]", "closure", clv)
	if err != nil {
		return err
	}

	if len(cl.RequestArgs.Unfilled) > 0 {
		if err := checkArg(c.TRC.Clone(), cl.RequestArgs.Unfilled[0], v); err != nil {
			return err
		}
	}
	filled := cl.Clone()
	result, err := filled.Fill(v)
	if err != nil {
		return err
	}
	if !result.Full {
		c.Stack.Push(ast.ClosureValue(result.Partial))
		return nil
	}
	rets, err := c.executeClosure(result, source)
	if err != nil {
		return err
	}
	c.Stack.PushN(rets)
	return nil
}

func builtinSet(c *Context, _ string) error {
	nameV, err := c.popOne("set", "[value name]")
	if err != nil {
		return err
	}
	name, err := wantStr("set", "[value name]", "name", nameV)
	if err != nil {
		return err
	}
	value, err := c.popOne("set", "[value name]")
	if err != nil {
		return err
	}
	c.Vars[name] = value
	return nil
}

func builtinGet(c *Context, _ string) error {
	nameV, err := c.popOne("get", "[name]")
	if err != nil {
		return err
	}
	name, err := wantStr("get", "[name]", "name", nameV)
	if err != nil {
		return err
	}
	v, ok := c.Vars[name]
	if !ok {
		return &NoSuchVariableError{Name: name}
	}
	c.Stack.Push(v)
	return nil
}

func builtinStackLen(c *Context, _ string) error {
	c.Stack.Push(ast.NumValue(int64(c.Stack.Len())))
	return nil
}
