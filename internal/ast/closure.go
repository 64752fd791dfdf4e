package ast

import "github.com/PedroManse/stt-sub000/internal/typesystem"

// FnArgDef names one input or declared-output slot, with an optional
// structural type constraint.
type FnArgDef struct {
	Name      string
	TypeCheck *typesystem.TypeTester
}

func UntypedArg(name string) FnArgDef {
	return FnArgDef{Name: name}
}

func TypedArg(name string, tt *typesystem.TypeTester) FnArgDef {
	return FnArgDef{Name: name, TypeCheck: tt}
}

// FnScope controls how a function frame's variables interact with its
// caller's.
type FnScope int

const (
	ScopeLocal FnScope = iota
	ScopeGlobal
	ScopeIsolated
)

func (s FnScope) String() string {
	switch s {
	case ScopeLocal:
		return "local"
	case ScopeGlobal:
		return "global"
	case ScopeIsolated:
		return "isolated"
	}
	return "unknown"
}

// FnArgs is a function's declared input form: either a named argument list
// or AllStack, which seizes the entire caller stack as the new frame's
// stack.
type FnArgs struct {
	AllStack bool
	Args     []FnArgDef
}

func NamedArgs(args []FnArgDef) FnArgs { return FnArgs{Args: args} }
func AllStackArgs() FnArgs             { return FnArgs{AllStack: true} }

// Names returns the declared argument names, or nil for AllStack — used to
// build the UserFnMissingArgs diagnostic's "needs" list.
func (a FnArgs) Names() []string {
	if a.AllStack {
		return nil
	}
	names := make([]string, len(a.Args))
	for i, arg := range a.Args {
		names[i] = arg.Name
	}
	return names
}

// TypedOutputs is a function or closure's declared output signature: an
// ordered list of optional type constraints, checked against the final
// stack contents by package trc.
type TypedOutputs struct {
	Outputs []*typesystem.TypeTester
}

func NewTypedOutputs(args []FnArgDef) *TypedOutputs {
	out := make([]*typesystem.TypeTester, len(args))
	for i, a := range args {
		out[i] = a.TypeCheck
	}
	return &TypedOutputs{Outputs: out}
}

func (t *TypedOutputs) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Outputs)
}

// FnDef is a user-defined function's stored definition, installed into a
// frame's function table by executing a (fn) keyword.
type FnDef struct {
	Scope       FnScope
	Code        []Expr
	Args        FnArgs
	OutputTypes *TypedOutputs
	Source      string
}

// IntoClosure converts a named function into a closure value, as performed
// by the (@name) keyword. Functions with AllStack or zero declared args
// cannot become closures.
func (f *FnDef) IntoClosure(fnName string) (*Closure, error) {
	if f.Args.AllStack {
		return nil, &CantMakeFnIntoClosureAllStackError{FnName: fnName}
	}
	if len(f.Args.Args) == 0 {
		return nil, &CantMakeFnIntoClosureZeroArgsError{FnName: fnName}
	}
	reqArgs, err := NewClosurePartialArgs(f.Args.Args)
	if err != nil {
		return nil, &CantMakeFnIntoClosureZeroArgsError{FnName: fnName}
	}
	return &Closure{
		Code:        f.Code,
		RequestArgs: reqArgs,
		OutputTypes: f.OutputTypes,
	}, nil
}

// ClosurePartialArgs tracks a closure's currying progress: Unfilled is the
// ordered list of slots still to fill (next-to-fill at index 0), Filled is
// the ordered list of (name, value) pairs already bound.
type ClosurePartialArgs struct {
	Unfilled   []FnArgDef
	Filled     []FilledArg
	ParentArgs map[string]Value
	ParentSet  bool
}

type FilledArg struct {
	Name  string
	Value Value
}

// NewClosurePartialArgs builds the initial currying state for a closure
// literal or IntoClosure conversion. A zero-argument list is rejected;
// such a closure could never be invoked.
func NewClosurePartialArgs(args []FnArgDef) (ClosurePartialArgs, error) {
	if len(args) == 0 {
		return ClosurePartialArgs{}, ErrCantInstanceClosureZeroArgs
	}
	cp := make([]FnArgDef, len(args))
	copy(cp, args)
	return ClosurePartialArgs{Unfilled: cp, Filled: make([]FilledArg, 0, len(cp))}, nil
}

func (c *ClosurePartialArgs) IsFull() bool { return len(c.Unfilled) == 0 }

// SetParentArgs binds the enclosing frame's arguments once, at the instant
// the closure literal is executed. The evaluator always calls this on a
// fresh clone, so a second call indicates an internal bug.
func (c *ClosurePartialArgs) SetParentArgs(args map[string]Value) error {
	if c.ParentSet {
		return &DevResettingParentValuesForClosureError{}
	}
	c.ParentArgs = args
	c.ParentSet = true
	return nil
}

// Closure is a first-class, possibly-partially-applied function value.
type Closure struct {
	Code        []Expr
	RequestArgs ClosurePartialArgs
	OutputTypes *TypedOutputs
}

// Clone returns a deep-enough copy so that filling a curried argument on one
// reference doesn't mutate a value shared elsewhere on the stack: Value is
// itself passed by value everywhere else, but Closure is referenced through
// a pointer to keep Value's size bounded, so filling must clone first.
func (c *Closure) Clone() *Closure {
	unfilled := make([]FnArgDef, len(c.RequestArgs.Unfilled))
	copy(unfilled, c.RequestArgs.Unfilled)
	filled := make([]FilledArg, len(c.RequestArgs.Filled))
	copy(filled, c.RequestArgs.Filled)
	return &Closure{
		Code: c.Code,
		RequestArgs: ClosurePartialArgs{
			Unfilled:   unfilled,
			Filled:     filled,
			ParentArgs: c.RequestArgs.ParentArgs,
			ParentSet:  c.RequestArgs.ParentSet,
		},
		OutputTypes: c.OutputTypes,
	}
}

// ClosureFillResult is the outcome of filling a closure's next argument
// slot: either it remains Partial, or it became Full and is ready to
// invoke.
type ClosureFillResult struct {
	Full    bool
	Partial *Closure
	// Populated when Full:
	Code     []Expr
	Args     map[string]Value
	Output   *TypedOutputs
}

// Fill binds value into the closure's next unfilled slot and returns the
// curried result. The caller is
// responsible for type-checking value against the slot before calling Fill
// (package trc owns that check so it can register generic captures).
func (c *Closure) Fill(value Value) (ClosureFillResult, error) {
	if c.RequestArgs.IsFull() {
		return ClosureFillResult{}, &DevFillFullClosureError{}
	}
	next := c.RequestArgs.Unfilled[0]
	c.RequestArgs.Unfilled = c.RequestArgs.Unfilled[1:]
	c.RequestArgs.Filled = append(c.RequestArgs.Filled, FilledArg{Name: next.Name, Value: value})

	if !c.RequestArgs.IsFull() {
		return ClosureFillResult{Full: false, Partial: c}, nil
	}

	args := make(map[string]Value, len(c.RequestArgs.Filled))
	if c.RequestArgs.ParentSet {
		for k, v := range c.RequestArgs.ParentArgs {
			args[k] = v
		}
	}
	for _, f := range c.RequestArgs.Filled {
		args[f.Name] = f.Value
	}
	return ClosureFillResult{
		Full:   true,
		Code:   c.Code,
		Args:   args,
		Output: c.OutputTypes,
	}, nil
}
