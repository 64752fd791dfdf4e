package evaluator

import "github.com/PedroManse/stt-sub000/internal/ast"

func init() {
	register("!", builtinUnwrap)
	register("ok", builtinOk)
	register("err", builtinErr)
	register("some", builtinSome)
	register("none", builtinNone)
	register("&result$is-ok", builtinResultIsOk)
	register("&option$is-some", builtinOptionIsSome)
}

// builtinUnwrap takes a result or option apart: ok/some push the inner
// value, err/none fail with their dedicated error kinds.
func builtinUnwrap(c *Context, _ string) error {
	v, err := c.popOne("!", "[monad]")
	if err != nil {
		return err
	}
	switch v.Kind {
	case ast.KindResult:
		if v.ResultErr != nil {
			return &UnwrapResultBuiltinFailedError{Err: *v.ResultErr}
		}
		c.Stack.Push(*v.ResultOk)
		return nil
	case ast.KindOption:
		if v.Option == nil {
			return &UnwrapOptionBuiltinFailedError{}
		}
		c.Stack.Push(*v.Option)
		return nil
	}
	return wrongType("!", "[monad]", "monad", "result or option", v)
}

func builtinOk(c *Context, _ string) error {
	v, err := c.popOne("ok", "[value]")
	if err != nil {
		return err
	}
	c.Stack.Push(ast.OkValue(v))
	return nil
}

func builtinErr(c *Context, _ string) error {
	v, err := c.popOne("err", "[value]")
	if err != nil {
		return err
	}
	c.Stack.Push(ast.ErrValue(v))
	return nil
}

func builtinSome(c *Context, _ string) error {
	v, err := c.popOne("some", "[value]")
	if err != nil {
		return err
	}
	c.Stack.Push(ast.SomeValue(v))
	return nil
}

func builtinNone(c *Context, _ string) error {
	c.Stack.Push(ast.NoneValue())
	return nil
}

func builtinResultIsOk(c *Context, _ string) error {
	v, err := c.peekOne("&result$is-ok", "[result]")
	if err != nil {
		return err
	}
	r, err := wantResult("&result$is-ok", "[result]", "result", v)
	if err != nil {
		return err
	}
	c.Stack.Push(ast.BoolValue(r.IsOk()))
	return nil
}

func builtinOptionIsSome(c *Context, _ string) error {
	v, err := c.peekOne("&option$is-some", "[option]")
	if err != nil {
		return err
	}
	o, err := wantOption("&option$is-some", "[option]", "option", v)
	if err != nil {
		return err
	}
	c.Stack.Push(ast.BoolValue(o.IsSome()))
	return nil
}
