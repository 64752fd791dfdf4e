// Package evaluator walks the expression tree: it owns the operand stack,
// the scoped variable and function tables, closure currying, the built-in
// table, and the host hook registry.
package evaluator

import (
	"io"
	"os"

	"github.com/PedroManse/stt-sub000/internal/ast"
	"github.com/PedroManse/stt-sub000/internal/trc"
)

// Hook is a host-registered native callable, invoked when an identifier
// resolves to neither a built-in, an argument, nor a user function.
type Hook func(ctx *Context, sourcePath string) error

// Context is one evaluator frame: the operand stack plus the variable,
// function, and hook tables visible to it. Nested calls get fresh frames
// seeded from their caller per the function's scope rules.
type Context struct {
	Vars  map[string]ast.Value
	Fns   map[string]*ast.FnDef
	Stack *ast.Stack
	// Args is the frame's argument bindings; nil for frames without named
	// arguments (the top level and AllStack functions).
	Args  map[string]ast.Value
	Hooks map[string]Hook
	TRC   *trc.TRC

	// Out receives `print` output; DebugOut the debug$* dumps and is
	// prefixed with RunID when one is set.
	Out      io.Writer
	DebugOut io.Writer
	RunID    string
	// Argv backs sys$argv; Exit backs sys$exit. Both are swappable so
	// embedders and tests can intercept them.
	Argv []string
	Exit func(int)
}

func New() *Context {
	return &Context{
		Vars:     make(map[string]ast.Value),
		Fns:      make(map[string]*ast.FnDef),
		Stack:    ast.NewStack(),
		Hooks:    make(map[string]Hook),
		TRC:      trc.New(),
		Out:      os.Stdout,
		DebugOut: os.Stderr,
		Argv:     os.Args,
		Exit:     os.Exit,
	}
}

// AddHook registers a host callable under name. Hooks have the lowest
// resolution precedence; a built-in of the same name always wins.
func (c *Context) AddHook(name string, hook Hook) {
	c.Hooks[name] = hook
}

// GetStack returns the stack contents bottom-to-top, for read-only use by
// embedders.
func (c *Context) GetStack() []ast.Value {
	return c.Stack.Values()
}

func cloneVars(vars map[string]ast.Value) map[string]ast.Value {
	cp := make(map[string]ast.Value, len(vars))
	for k, v := range vars {
		cp[k] = v
	}
	return cp
}

func cloneFns(fns map[string]*ast.FnDef) map[string]*ast.FnDef {
	cp := make(map[string]*ast.FnDef, len(fns))
	for k, v := range fns {
		cp[k] = v
	}
	return cp
}

func cloneHooks(hooks map[string]Hook) map[string]Hook {
	cp := make(map[string]Hook, len(hooks))
	for k, v := range hooks {
		cp[k] = v
	}
	return cp
}

// frame builds a nested evaluator frame. A nil seized slice with non-nil
// args means a named-argument call (empty stack); a seized slice means an
// AllStack call whose stack is the caller's entire stack in order.
func (c *Context) frame(vars map[string]ast.Value, args map[string]ast.Value, seized []ast.Value) *Context {
	stack := ast.NewStack()
	if seized != nil {
		stack = ast.NewStackFrom(seized)
	}
	return &Context{
		Vars:     vars,
		Fns:      cloneFns(c.Fns),
		Stack:    stack,
		Args:     args,
		Hooks:    cloneHooks(c.Hooks),
		TRC:      c.TRC.Clone(),
		Out:      c.Out,
		DebugOut: c.DebugOut,
		RunID:    c.RunID,
		Argv:     c.Argv,
		Exit:     c.Exit,
	}
}
