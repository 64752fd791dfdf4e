package ast

import (
	"github.com/PedroManse/stt-sub000/internal/span"
	"github.com/PedroManse/stt-sub000/internal/typesystem"
)

// Expr is one parsed unit: a span over the source plus its content.
type Expr struct {
	Span span.LineRange
	Cont ExprCont
}

// ExprContKind tags the variant of ExprCont held.
type ExprContKind int

const (
	ContImmediate ExprContKind = iota
	ContFnCall
	ContKeyword
	ContIncludedCode
)

// ExprCont is the content of one parsed expression: a literal push, a name
// to resolve and invoke, a control keyword, or a preprocessor-included
// block.
type ExprCont struct {
	Kind ExprContKind

	Immediate Value
	FnCall    string
	Keyword   KeywordKind
	Included  *Code
}

func ImmediateCont(v Value) ExprCont     { return ExprCont{Kind: ContImmediate, Immediate: v} }
func FnCallCont(name string) ExprCont    { return ExprCont{Kind: ContFnCall, FnCall: name} }
func KeywordCont(k KeywordKind) ExprCont { return ExprCont{Kind: ContKeyword, Keyword: k} }
func IncludedCodeCont(c *Code) ExprCont  { return ExprCont{Kind: ContIncludedCode, Included: c} }

// Code is a named, fully-parsed expression list: the unit the evaluator
// executes at the top level and for every included file.
type Code struct {
	Source string
	Exprs  []Expr
}

// KeywordKindTag tags the variant of KeywordKind held.
type KeywordKindTag int

const (
	KwBreak KeywordKindTag = iota
	KwReturn
	KwBubbleError
	KwIntoClosure
	KwDefinedGeneric
	KwSwitch
	KwIfs
	KwWhile
	KwFnDef
)

// SwitchCase is one (value, code) arm of a Switch keyword. The case key is
// restricted to the primitive literal kinds the parser accepts there:
// char, str, or num.
type SwitchCase struct {
	Key  Value
	Code []Expr
}

// CondBranch is one (check, code) arm of an Ifs keyword.
type CondBranch struct {
	Check []Expr
	Code  []Expr
}

// KeywordKind is the closed set of control-flow and declaration keywords a
// parsed expression may carry.
type KeywordKind struct {
	Tag KeywordKindTag

	// KwIntoClosure
	FnName string

	// KwDefinedGeneric
	Generic typesystem.DefinedGenericBuilder

	// KwSwitch
	Cases   []SwitchCase
	Default []Expr // nil means no default arm

	// KwIfs
	Branches []CondBranch

	// KwWhile
	WhileCheck []Expr
	WhileCode  []Expr

	// KwFnDef
	FnDefName string
	Scope     FnScope
	FnCode    []Expr
	Args      FnArgs
	OutArgs   *TypedOutputs
}

func BreakKeyword() KeywordKind        { return KeywordKind{Tag: KwBreak} }
func ReturnKeyword() KeywordKind       { return KeywordKind{Tag: KwReturn} }
func BubbleErrorKeyword() KeywordKind  { return KeywordKind{Tag: KwBubbleError} }

func IntoClosureKeyword(fnName string) KeywordKind {
	return KeywordKind{Tag: KwIntoClosure, FnName: fnName}
}

func DefinedGenericKeyword(g typesystem.DefinedGenericBuilder) KeywordKind {
	return KeywordKind{Tag: KwDefinedGeneric, Generic: g}
}

func SwitchKeyword(cases []SwitchCase, def []Expr) KeywordKind {
	return KeywordKind{Tag: KwSwitch, Cases: cases, Default: def}
}

func IfsKeyword(branches []CondBranch) KeywordKind {
	return KeywordKind{Tag: KwIfs, Branches: branches}
}

func WhileKeyword(check, code []Expr) KeywordKind {
	return KeywordKind{Tag: KwWhile, WhileCheck: check, WhileCode: code}
}

func FnDefKeyword(name string, scope FnScope, code []Expr, args FnArgs, outArgs *TypedOutputs) KeywordKind {
	return KeywordKind{
		Tag:       KwFnDef,
		FnDefName: name,
		Scope:     scope,
		FnCode:    code,
		Args:      args,
		OutArgs:   outArgs,
	}
}

// AsFnDef builds the FnDef record a KwFnDef keyword installs into a frame's
// function table.
func (k KeywordKind) AsFnDef(source string) *FnDef {
	return &FnDef{
		Scope:       k.Scope,
		Code:        k.FnCode,
		Args:        k.Args,
		OutputTypes: k.OutArgs,
		Source:      source,
	}
}

// ControlFlow is the signal an executed expression list yields, consumed
// differently by its caller: loops consume Break, function bodies consume
// Return as normal termination, top-level execution expects Continue.
type ControlFlow int

const (
	FlowContinue ControlFlow = iota
	FlowBreak
	FlowReturn
)
