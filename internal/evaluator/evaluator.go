package evaluator

import (
	"github.com/PedroManse/stt-sub000/internal/ast"
	"github.com/PedroManse/stt-sub000/internal/errs"
	"github.com/PedroManse/stt-sub000/internal/trc"
)

// ExecuteEntireCode runs a fully-parsed program in this context. The
// returned error, if any, is an *errs.RuntimeErrorCtx carrying the call
// stack it climbed.
func (c *Context) ExecuteEntireCode(code *ast.Code) (ast.ControlFlow, error) {
	return c.executeCode(code.Exprs, code.Source)
}

func (c *Context) executeCode(exprs []ast.Expr, source string) (ast.ControlFlow, error) {
	for i := range exprs {
		flow, err := c.executeExpr(&exprs[i], source)
		if err != nil {
			return ast.FlowContinue, err
		}
		if flow != ast.FlowContinue {
			return flow, nil
		}
	}
	return ast.FlowContinue, nil
}

// executeCheck runs a check block and enforces its contract: the stack
// must grow by exactly one and the new top must be a boolean.
func (c *Context) executeCheck(exprs []ast.Expr, source string) (bool, error) {
	oldSize := c.Stack.Len()
	for i := range exprs {
		if _, err := c.executeExpr(&exprs[i], source); err != nil {
			return false, err
		}
	}
	newSize := c.Stack.Len()
	shouldSize := oldSize + 1
	check, ok := c.Stack.Pop()
	if !ok || newSize != shouldSize {
		return false, &WrongStackSizeDiffOnCheckError{
			OldStackSize:       oldSize,
			NewStackSize:       newSize,
			NewShouldStackSize: shouldSize,
		}
	}
	if check.Kind != ast.KindBool {
		return false, &WrongTypeOnCheckError{Got: check}
	}
	return check.Bool, nil
}

// executeExpr dispatches one expression and attaches location context to
// any error crossing it: a raw error gets this expression's context, an
// already-contextual error gets a call-stack frame appended.
func (c *Context) executeExpr(expr *ast.Expr, source string) (ast.ControlFlow, error) {
	flow, err := c.executeExprInternal(expr, source)
	if err != nil {
		return ast.FlowContinue, errs.Wrap(err, source, *expr)
	}
	return flow, nil
}

func (c *Context) executeExprInternal(expr *ast.Expr, source string) (ast.ControlFlow, error) {
	switch expr.Cont.Kind {
	case ast.ContFnCall:
		return ast.FlowContinue, c.executeFn(expr.Cont.FnCall, source)
	case ast.ContKeyword:
		return c.executeKw(&expr.Cont.Keyword, source)
	case ast.ContImmediate:
		v := expr.Cont.Immediate
		if v.Kind == ast.KindClosure {
			// A closure literal binds the enclosing frame's arguments at
			// the instant it executes; the fresh clone makes the binding
			// write-once by construction.
			cl := v.Closure.Clone()
			if c.Args != nil {
				if err := cl.RequestArgs.SetParentArgs(cloneVars(c.Args)); err != nil {
					return ast.FlowContinue, err
				}
			}
			v = ast.ClosureValue(cl)
		}
		c.Stack.Push(v)
		return ast.FlowContinue, nil
	case ast.ContIncludedCode:
		included := expr.Cont.Included
		return c.executeCode(included.Exprs, included.Source)
	}
	return ast.FlowContinue, nil
}

func (c *Context) executeKw(kw *ast.KeywordKind, source string) (ast.ControlFlow, error) {
	switch kw.Tag {
	case ast.KwDefinedGeneric:
		c.TRC.AddGeneric(kw.Generic)
		return ast.FlowContinue, nil

	case ast.KwIntoClosure:
		fndef, ok := c.Fns[kw.FnName]
		if !ok {
			return ast.FlowContinue, &MissingUserFunctionError{Name: kw.FnName}
		}
		cl, err := fndef.IntoClosure(kw.FnName)
		if err != nil {
			return ast.FlowContinue, err
		}
		c.Stack.Push(ast.ClosureValue(cl))
		return ast.FlowContinue, nil

	case ast.KwBubbleError:
		v, ok := c.Stack.Pop()
		if !ok {
			return ast.FlowContinue, &MissingValuesForBuiltinError{ForFn: "(!) keyword", ArgsSpec: "[result]", Missing: 1}
		}
		if v.Kind != ast.KindResult {
			return ast.FlowContinue, &WrongTypeForBuiltinError{
				ForFn: "(!) keyword", ArgsSpec: "[result]", ThisArg: "result",
				Expected: "result", Got: v,
			}
		}
		if v.ResultErr != nil {
			c.Stack.Push(v)
			return ast.FlowReturn, nil
		}
		c.Stack.Push(*v.ResultOk)
		return ast.FlowContinue, nil

	case ast.KwReturn:
		return ast.FlowReturn, nil
	case ast.KwBreak:
		return ast.FlowBreak, nil

	case ast.KwSwitch:
		return c.executeSwitch(kw, source)

	case ast.KwIfs:
		for _, branch := range kw.Branches {
			hit, err := c.executeCheck(branch.Check, source)
			if err != nil {
				return ast.FlowContinue, err
			}
			if hit {
				return c.executeCode(branch.Code, source)
			}
		}
		return ast.FlowContinue, nil

	case ast.KwWhile:
		for {
			hit, err := c.executeCheck(kw.WhileCheck, source)
			if err != nil {
				return ast.FlowContinue, err
			}
			if !hit {
				return ast.FlowContinue, nil
			}
			flow, err := c.executeCode(kw.WhileCode, source)
			if err != nil {
				return ast.FlowContinue, err
			}
			switch flow {
			case ast.FlowBreak:
				return ast.FlowContinue, nil
			case ast.FlowReturn:
				return ast.FlowReturn, nil
			}
		}

	case ast.KwFnDef:
		c.Fns[kw.FnDefName] = kw.AsFnDef(source)
		return ast.FlowContinue, nil
	}
	return ast.FlowContinue, nil
}

func (c *Context) executeSwitch(kw *ast.KeywordKind, source string) (ast.ControlFlow, error) {
	cmp, ok := c.Stack.Pop()
	if !ok {
		return ast.FlowContinue, &SwitchCaseWithNoValueError{}
	}
	for _, cs := range kw.Cases {
		hit, err := switchKeyEq(cs.Key, cmp)
		if err != nil {
			return ast.FlowContinue, err
		}
		if hit {
			return c.executeCode(cs.Code, source)
		}
	}
	if kw.Default != nil {
		return c.executeCode(kw.Default, source)
	}
	return ast.FlowContinue, nil
}

// switchKeyEq compares a case key (always a primitive, by construction)
// against the comparand: same-kind primitives compare structurally,
// different primitive kinds never match, aggregates fail the comparison.
func switchKeyEq(key, cmp ast.Value) (bool, error) {
	switch cmp.Kind {
	case ast.KindArray, ast.KindMap, ast.KindClosure:
		return false, &CompareError{This: key, That: cmp}
	}
	if key.Kind != cmp.Kind {
		return false, nil
	}
	switch key.Kind {
	case ast.KindChar:
		return key.Char == cmp.Char, nil
	case ast.KindStr:
		return key.Str == cmp.Str, nil
	case ast.KindNum:
		return key.Num == cmp.Num, nil
	case ast.KindBool:
		return key.Bool == cmp.Bool, nil
	}
	return false, nil
}

// executeFn resolves an identifier, first match wins: built-in, argument
// binding, user function, host hook. Arguments outrank outer-scope user
// functions so a parameter name never silently invokes a function;
// built-ins outrank everything and cannot be redefined.
func (c *Context) executeFn(name, source string) error {
	if builtin, ok := builtins[name]; ok {
		return builtin(c, source)
	}
	if c.Args != nil {
		if arg, ok := c.Args[name]; ok {
			c.Stack.Push(arg)
			return nil
		}
	}
	if fndef, ok := c.Fns[name]; ok {
		rets, err := c.executeUserFn(name, fndef)
		if err != nil {
			return err
		}
		c.Stack.PushN(rets)
		return nil
	}
	if hook, ok := c.Hooks[name]; ok {
		return hook(c, source)
	}
	return &MissingIdentError{Name: name}
}

func (c *Context) executeUserFn(name string, fndef *ast.FnDef) ([]ast.Value, error) {
	// One TRC clone serves this whole invocation's argument and output
	// checks, so a viral generic captured by one argument constrains the
	// rest; the capture dies with the call.
	checkTRC := c.TRC.Clone()

	vars := map[string]ast.Value{}
	if fndef.Scope != ast.ScopeIsolated {
		vars = cloneVars(c.Vars)
	}

	var frame *Context
	if fndef.Args.AllStack {
		seized, _ := c.Stack.PopN(c.Stack.Len())
		frame = c.frame(vars, nil, seized)
	} else {
		defs := fndef.Args.Args
		values, ok := c.Stack.PopN(len(defs))
		if !ok {
			return nil, &UserFnMissingArgsError{
				Name:  name,
				Got:   append([]ast.Value{}, c.Stack.Values()...),
				Needs: fndef.Args.Names(),
			}
		}
		args := make(map[string]ast.Value, len(defs))
		for i, def := range defs {
			if err := checkArg(checkTRC, def, values[i]); err != nil {
				return nil, err
			}
			args[def.Name] = values[i]
		}
		frame = c.frame(vars, args, nil)
	}

	// FlowReturn terminates the body normally; FlowBreak outside a loop
	// does the same.
	if _, err := frame.executeCode(fndef.Code, fndef.Source); err != nil {
		return nil, err
	}

	if fndef.Scope == ast.ScopeGlobal {
		for k, v := range frame.Vars {
			c.Vars[k] = v
		}
	}

	output := frame.Stack.Values()
	if fndef.OutputTypes != nil {
		if err := checkTRC.CheckOutputs(fndef.OutputTypes, output); err != nil {
			return nil, mapOutputError(err, name, false)
		}
	}
	return output, nil
}

// executeClosure runs a fully-filled closure in a fresh frame and returns
// the values its body left behind.
func (c *Context) executeClosure(full ast.ClosureFillResult, source string) ([]ast.Value, error) {
	frame := c.frame(cloneVars(c.Vars), full.Args, nil)
	if _, err := frame.executeCode(full.Code, source); err != nil {
		return nil, err
	}
	output := frame.Stack.Values()
	if full.Output != nil {
		if err := c.TRC.Clone().CheckOutputs(full.Output, output); err != nil {
			return nil, mapOutputError(err, "", true)
		}
	}
	return output, nil
}

// checkArg type-checks one bound argument. A bare `fn` expectation failing
// against a closure gets the type-against-type rendering; everything else
// reports the offending value.
func checkArg(t *trc.TRC, def ast.FnArgDef, v ast.Value) error {
	failed := t.CheckArg(def, v)
	if failed == nil {
		return nil
	}
	if failed.IsClosureAny() {
		return &TypeTypeError{Expected: failed, Got: ast.TypeOf(v)}
	}
	return &TypeError{Expected: failed, Got: v}
}

// mapOutputError turns package trc's output-check failures into the
// evaluator's error kinds.
func mapOutputError(err error, fnName string, closure bool) error {
	switch e := err.(type) {
	case *trc.OutputCountError:
		if closure {
			return &OutputClosureCountError{Expected: e.Expected, Got: e.Got}
		}
		return &OutputCountError{FnName: fnName, Expected: e.Expected, Got: e.Got}
	case *trc.TypeError:
		return &TypeError{Expected: e.Expected, Got: e.Got}
	}
	return err
}
