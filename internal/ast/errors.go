package ast

import (
	"errors"
	"fmt"
)

// ErrCantInstanceClosureZeroArgs guards NewClosurePartialArgs against a
// zero-argument closure literal.
var ErrCantInstanceClosureZeroArgs = errors.New("can't build a closure with zero arguments")

// CantMakeFnIntoClosureAllStackError reports (@name) applied to a function
// declared with an AllStack argument form.
type CantMakeFnIntoClosureAllStackError struct {
	FnName string
}

func (e *CantMakeFnIntoClosureAllStackError) Error() string {
	return fmt.Sprintf("function `%s` takes the whole stack, can't be made into a closure", e.FnName)
}

// CantMakeFnIntoClosureZeroArgsError reports (@name) applied to a
// zero-argument function.
type CantMakeFnIntoClosureZeroArgsError struct {
	FnName string
}

func (e *CantMakeFnIntoClosureZeroArgsError) Error() string {
	return fmt.Sprintf("function `%s` takes no arguments, can't be made into a closure", e.FnName)
}

// DevResettingParentValuesForClosureError is an internal-invariant guard:
// SetParentArgs must only run once per closure, at closure-literal
// execution time. Unreachable through normal execution by construction.
type DevResettingParentValuesForClosureError struct{}

func (e *DevResettingParentValuesForClosureError) Error() string {
	return "internal error: tried to set a closure's parent args twice"
}

// DevFillFullClosureError is an internal-invariant guard returned by Fill
// when the closure has no unfilled slot left. Filling the last slot hands
// the body back for invocation, so no full closure stays on the stack.
type DevFillFullClosureError struct{}

func (e *DevFillFullClosureError) Error() string {
	return "internal error: tried to fill an already-full closure"
}
