package evaluator

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/PedroManse/stt-sub000/internal/ast"
)

func init() {
	register("print", builtinPrint)
	register("sys$exit", builtinSysExit)
	register("sys$argv", builtinSysArgv)
	register("sh", builtinSh)
	register("write-to", builtinWriteTo)
}

func builtinPrint(c *Context, _ string) error {
	v, err := c.popOne("print", "[string]")
	if err != nil {
		return err
	}
	s, err := wantStr("print", "[string]", "string", v)
	if err != nil {
		return err
	}
	fmt.Fprint(c.Out, s)
	return nil
}

func builtinSysExit(c *Context, _ string) error {
	v, err := c.popOne("sys$exit", "[exit_code]")
	if err != nil {
		return err
	}
	code, err := wantNum("sys$exit", "[exit_code]", "exit_code", v)
	if err != nil {
		return err
	}
	c.Exit(int(code))
	return nil
}

func builtinSysArgv(c *Context, _ string) error {
	args := make([]ast.Value, len(c.Argv))
	for i, a := range c.Argv {
		args[i] = ast.StrValue(a)
	}
	c.Stack.Push(ast.ArrayValue(args))
	return nil
}

// builtinSh runs a shell command and pushes ok(exit_code) or err(message).
// A command that starts but exits non-zero is still ok.
func builtinSh(c *Context, _ string) error {
	v, err := c.popOne("sh", "[command]")
	if err != nil {
		return err
	}
	cmdline, err := wantStr("sh", "[command]", "command", v)
	if err != nil {
		return err
	}
	cmd := exec.Command("bash", "-c", cmdline)
	cmd.Stdout = c.Out
	cmd.Stderr = os.Stderr
	runErr := cmd.Run()
	switch e := runErr.(type) {
	case nil:
		c.Stack.Push(ast.OkValue(ast.NumValue(0)))
	case *exec.ExitError:
		c.Stack.Push(ast.OkValue(ast.NumValue(int64(e.ExitCode()))))
	default:
		c.Stack.Push(ast.ErrValue(ast.StrValue(runErr.Error())))
	}
	return nil
}

// builtinWriteTo writes content to a file and pushes ok(bytes_written) or
// err(message).
func builtinWriteTo(c *Context, _ string) error {
	args, err := c.popArgs("write-to", "[content file]", 2)
	if err != nil {
		return err
	}
	cont, err := wantStr("write-to", "[content file]", "content", args[0])
	if err != nil {
		return err
	}
	file, err := wantStr("write-to", "[content file]", "file", args[1])
	if err != nil {
		return err
	}
	if writeErr := os.WriteFile(file, []byte(cont), 0o644); writeErr != nil {
		c.Stack.Push(ast.ErrValue(ast.StrValue(writeErr.Error())))
		return nil
	}
	c.Stack.Push(ast.OkValue(ast.NumValue(int64(len(cont)))))
	return nil
}
