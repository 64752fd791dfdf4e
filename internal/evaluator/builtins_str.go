package evaluator

import (
	"strconv"
	"strings"

	"github.com/PedroManse/stt-sub000/internal/ast"
)

func init() {
	register("%%", builtinFormat)
	register("&str$has-prefix", builtinStrHasPrefix)
	register("str$trim", builtinStrTrim)
	register("str$remove-prefix", builtinStrRemovePrefix)
	register("str$into-arr", builtinStrIntoArr)
}

// builtinFormat renders a format string against the stack: `%%` escapes a
// percent, `%s`/`%d`/`%b` consume one value of the stated kind, `%v`
// consumes any value and prints its debug rendering.
func builtinFormat(c *Context, _ string) error {
	fmtV, err := c.popOne("%%", "[format ...]")
	if err != nil {
		return err
	}
	format, err := wantStr("%%", "[format ...]", "format", fmtV)
	if err != nil {
		return err
	}

	var out strings.Builder
	onDirective := false
	for _, ch := range format {
		if !onDirective {
			if ch == '%' {
				onDirective = true
			} else {
				out.WriteRune(ch)
			}
			continue
		}
		onDirective = false
		switch ch {
		case '%':
			out.WriteRune('%')
		case 's':
			v, ok := c.Stack.Pop()
			if !ok {
				return &MissingValueError{Fmt: format, Directive: ch}
			}
			if v.Kind != ast.KindStr {
				return &WrongValueTypeError{Fmt: format, Value: v, Directive: ch}
			}
			out.WriteString(v.Str)
		case 'd':
			v, ok := c.Stack.Pop()
			if !ok {
				return &MissingValueError{Fmt: format, Directive: ch}
			}
			if v.Kind != ast.KindNum {
				return &WrongValueTypeError{Fmt: format, Value: v, Directive: ch}
			}
			out.WriteString(strconv.FormatInt(v.Num, 10))
		case 'b':
			v, ok := c.Stack.Pop()
			if !ok {
				return &MissingValueError{Fmt: format, Directive: ch}
			}
			if v.Kind != ast.KindBool {
				return &WrongValueTypeError{Fmt: format, Value: v, Directive: ch}
			}
			out.WriteString(strconv.FormatBool(v.Bool))
		case 'v':
			v, ok := c.Stack.Pop()
			if !ok {
				return &MissingValueError{Fmt: format, Directive: ch}
			}
			out.WriteString(v.String())
		default:
			return &UnknownStringFormatError{Fmt: format, Directive: ch}
		}
	}
	c.Stack.Push(ast.StrValue(out.String()))
	return nil
}

// builtinStrHasPrefix pops the prefix but only peeks the string, so the
// string can keep being inspected.
func builtinStrHasPrefix(c *Context, _ string) error {
	prefixV, err := c.popOne("&str$has-prefix", "[string prefix]")
	if err != nil {
		return err
	}
	prefix, err := wantStr("&str$has-prefix", "[string prefix]", "prefix", prefixV)
	if err != nil {
		return err
	}
	sv, err := c.peekOne("&str$has-prefix", "[string prefix]")
	if err != nil {
		return err
	}
	s, err := wantStr("&str$has-prefix", "[string prefix]", "string", sv)
	if err != nil {
		return err
	}
	c.Stack.Push(ast.BoolValue(strings.HasPrefix(s, prefix)))
	return nil
}

func builtinStrTrim(c *Context, _ string) error {
	v, err := c.popOne("str$trim", "[string]")
	if err != nil {
		return err
	}
	s, err := wantStr("str$trim", "[string]", "string", v)
	if err != nil {
		return err
	}
	c.Stack.Push(ast.StrValue(strings.TrimSpace(s)))
	return nil
}

// builtinStrRemovePrefix strips the prefix when present and leaves the
// string untouched otherwise.
func builtinStrRemovePrefix(c *Context, _ string) error {
	args, err := c.popArgs("str$remove-prefix", "[string prefix]", 2)
	if err != nil {
		return err
	}
	s, err := wantStr("str$remove-prefix", "[string prefix]", "string", args[0])
	if err != nil {
		return err
	}
	prefix, err := wantStr("str$remove-prefix", "[string prefix]", "prefix", args[1])
	if err != nil {
		return err
	}
	c.Stack.Push(ast.StrValue(strings.TrimPrefix(s, prefix)))
	return nil
}

func builtinStrIntoArr(c *Context, _ string) error {
	v, err := c.popOne("str$into-arr", "[string]")
	if err != nil {
		return err
	}
	s, err := wantStr("str$into-arr", "[string]", "string", v)
	if err != nil {
		return err
	}
	runes := []rune(s)
	chars := make([]ast.Value, len(runes))
	for i, r := range runes {
		chars[i] = ast.CharValue(r)
	}
	c.Stack.Push(ast.ArrayValue(chars))
	return nil
}
