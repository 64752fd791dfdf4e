package evaluator

import (
	"fmt"
	"sort"
)

func init() {
	register("debug$stack", builtinDebugStack)
	register("debug$vars", builtinDebugVars)
	register("debug$args", builtinDebugArgs)
	register("debug$fns", builtinDebugFns)
	register("debug$generics", builtinDebugGenerics)
}

// debugf prints one debug dump line, prefixed with the run id when one was
// assigned so dumps from interleaved runs can be told apart in a log.
func (c *Context) debugf(format string, args ...any) {
	if c.RunID != "" {
		fmt.Fprintf(c.DebugOut, "[run %s] ", c.RunID)
	}
	fmt.Fprintf(c.DebugOut, format, args...)
}

func builtinDebugStack(c *Context, _ string) error {
	c.debugf("stack: %v\n", c.Stack.Values())
	return nil
}

func builtinDebugVars(c *Context, _ string) error {
	names := make([]string, 0, len(c.Vars))
	for name := range c.Vars {
		names = append(names, name)
	}
	sort.Strings(names)
	c.debugf("vars:\n")
	for _, name := range names {
		c.debugf("  %s = %s\n", name, c.Vars[name])
	}
	return nil
}

func builtinDebugArgs(c *Context, _ string) error {
	if c.Args == nil {
		c.debugf("args: none\n")
		return nil
	}
	names := make([]string, 0, len(c.Args))
	for name := range c.Args {
		names = append(names, name)
	}
	sort.Strings(names)
	c.debugf("args:\n")
	for _, name := range names {
		c.debugf("  %s = %s\n", name, c.Args[name])
	}
	return nil
}

func builtinDebugFns(c *Context, _ string) error {
	names := make([]string, 0, len(c.Fns))
	for name := range c.Fns {
		names = append(names, name)
	}
	sort.Strings(names)
	c.debugf("fns: %v\n", names)
	return nil
}

func builtinDebugGenerics(c *Context, _ string) error {
	c.debugf("generics: %s\n", c.TRC)
	return nil
}
