package evaluator

import (
	"fmt"

	"github.com/PedroManse/stt-sub000/internal/ast"
	"github.com/PedroManse/stt-sub000/internal/typesystem"
)

// MissingIdentError reports an identifier that resolved to nothing: not a
// built-in, argument, user function, or hook.
type MissingIdentError struct {
	Name string
}

func (e *MissingIdentError) Error() string {
	return fmt.Sprintf("no such function or function argument called `%s`", e.Name)
}

// MissingUserFunctionError reports (@name) naming an undefined function.
type MissingUserFunctionError struct {
	Name string
}

func (e *MissingUserFunctionError) Error() string {
	return fmt.Sprintf("no such user-defined function `%s`", e.Name)
}

// UserFnMissingArgsError reports a user-function call with fewer stack
// values than declared arguments.
type UserFnMissingArgsError struct {
	Name  string
	Got   []ast.Value
	Needs []string
}

func (e *UserFnMissingArgsError) Error() string {
	return fmt.Sprintf("not enough arguments to execute %s, got %v needs %v", e.Name, e.Got, e.Needs)
}

// UnwrapResultBuiltinFailedError reports `!` applied to an err result.
type UnwrapResultBuiltinFailedError struct {
	Err ast.Value
}

func (e *UnwrapResultBuiltinFailedError) Error() string {
	return fmt.Sprintf("found error while executing `!` on a result: %s", e.Err)
}

// UnwrapOptionBuiltinFailedError reports `!` applied to none.
type UnwrapOptionBuiltinFailedError struct{}

func (e *UnwrapOptionBuiltinFailedError) Error() string {
	return "found missing value while executing `!` on an option"
}

// CompareError reports an ordered or strict comparison between values
// whose kinds have no defined comparison.
type CompareError struct {
	This ast.Value
	That ast.Value
}

func (e *CompareError) Error() string {
	return fmt.Sprintf("can't compare %s with %s", e.This, e.That)
}

// SwitchCaseWithNoValueError reports a (switch) with an empty stack.
type SwitchCaseWithNoValueError struct{}

func (e *SwitchCaseWithNoValueError) Error() string {
	return "switch case with no value"
}

// UnknownStringFormatError reports a `%%` directive outside %, s, d, b, v.
type UnknownStringFormatError struct {
	Fmt       string
	Directive rune
}

func (e *UnknownStringFormatError) Error() string {
	return fmt.Sprintf("`%%%%` (%s) doesn't recognise the format directive `%c`, only '%%', 'd', 's', 'v' and 'b' are available", e.Fmt, e.Directive)
}

// MissingValueError reports a `%%` directive with nothing on the stack.
type MissingValueError struct {
	Fmt       string
	Directive rune
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("`%%%%` (%s) can't capture any value for `%c`, the stack is empty", e.Fmt, e.Directive)
}

// WrongValueTypeError reports a `%%` directive applied to a value of the
// wrong kind.
type WrongValueTypeError struct {
	Fmt       string
	Value     ast.Value
	Directive rune
}

func (e *WrongValueTypeError) Error() string {
	return fmt.Sprintf("`%%%%` (%s) the provided value, %s, can't be formatted with `%c`", e.Fmt, e.Value, e.Directive)
}

// TypeError reports a value failing a structural type check.
type TypeError struct {
	Expected *typesystem.TypeTester
	Got      ast.Value
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("expected type: %s got value %s: %s", e.Expected, e.Got, ast.TypeOf(e.Got))
}

// TypeTypeError reports a closure value failing a closure-shape check,
// rendered type-against-type for clarity.
type TypeTypeError struct {
	Expected *typesystem.TypeTester
	Got      *typesystem.TypeTester
}

func (e *TypeTypeError) Error() string {
	return fmt.Sprintf("expected type: %s got %s", e.Expected, e.Got)
}

// OutputCountError reports a user function leaving the wrong number of
// values for its declared output signature.
type OutputCountError struct {
	FnName   string
	Expected int
	Got      int
}

func (e *OutputCountError) Error() string {
	return fmt.Sprintf("output of function `%s` error, expected %d got %d", e.FnName, e.Expected, e.Got)
}

// OutputClosureCountError is OutputCountError for anonymous closures.
type OutputClosureCountError struct {
	Expected int
	Got      int
}

func (e *OutputClosureCountError) Error() string {
	return fmt.Sprintf("output of closure error, expected %d got %d", e.Expected, e.Got)
}

// WrongStackSizeDiffOnCheckError reports a check block that didn't grow
// the stack by exactly one.
type WrongStackSizeDiffOnCheckError struct {
	OldStackSize       int
	NewStackSize       int
	NewShouldStackSize int
}

func (e *WrongStackSizeDiffOnCheckError) Error() string {
	return fmt.Sprintf("check block changed stack size %d -> %d, should be %d", e.OldStackSize, e.NewStackSize, e.NewShouldStackSize)
}

// WrongTypeOnCheckError reports a check block whose top value isn't a
// boolean.
type WrongTypeOnCheckError struct {
	Got ast.Value
}

func (e *WrongTypeOnCheckError) Error() string {
	return fmt.Sprintf("check blocks must produce one boolean, got %s", e.Got)
}

// MissingValuesForBuiltinError reports a built-in called with fewer stack
// values than its argument spec requires.
type MissingValuesForBuiltinError struct {
	ForFn    string
	ArgsSpec string
	Missing  int64
}

func (e *MissingValuesForBuiltinError) Error() string {
	return fmt.Sprintf("function %s accepts %s, but %d args are missing", e.ForFn, e.ArgsSpec, e.Missing)
}

// WrongTypeForBuiltinError reports a built-in argument of the wrong kind.
type WrongTypeForBuiltinError struct {
	ForFn    string
	ArgsSpec string
	ThisArg  string
	Expected string
	Got      ast.Value
}

func (e *WrongTypeForBuiltinError) Error() string {
	return fmt.Sprintf("function %s accepts %s, but [%s] must be a %s and got %s", e.ForFn, e.ArgsSpec, e.ThisArg, e.Expected, e.Got)
}

// NoSuchVariableError reports `get` on an undefined variable.
type NoSuchVariableError struct {
	Name string
}

func (e *NoSuchVariableError) Error() string {
	return fmt.Sprintf("the variable %s is not defined", e.Name)
}

func joinNonStringError(forFn string, got ast.Value) error {
	return &WrongTypeForBuiltinError{
		ForFn:    forFn,
		ArgsSpec: "[array joiner]",
		ThisArg:  "array",
		Expected: "string array",
		Got:      got,
	}
}
