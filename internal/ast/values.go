// Package ast holds the expression tree produced by the parser together
// with the runtime Value union those expressions push and consume. The two
// are kept in one package because Value's Closure variant embeds a body of
// []Expr, and Expr's Immediate variant embeds a Value: splitting them
// across packages would create an import cycle.
package ast

import (
	"fmt"

	"github.com/PedroManse/stt-sub000/internal/typesystem"
)

// ValueKind tags the variant of Value held. Value is a closed sum type:
// exactly one of the typed accessors below is valid per Kind.
type ValueKind int

const (
	KindChar ValueKind = iota
	KindStr
	KindNum
	KindBool
	KindArray
	KindMap
	KindResult
	KindOption
	KindClosure
)

// Value is the language's tagged value union: character, string, signed
// integer, boolean, ordered sequence, string-keyed map, result, option,
// and closure.
type Value struct {
	Kind ValueKind

	Char  rune
	Str   string
	Num   int64
	Bool  bool
	Array []Value
	Map   map[string]Value

	// Result: exactly one of ResultOk/ResultErr is non-nil.
	ResultOk  *Value
	ResultErr *Value

	// Option: nil means None.
	Option *Value

	Closure *Closure
}

func CharValue(c rune) Value    { return Value{Kind: KindChar, Char: c} }
func StrValue(s string) Value   { return Value{Kind: KindStr, Str: s} }
func NumValue(n int64) Value    { return Value{Kind: KindNum, Num: n} }
func BoolValue(b bool) Value    { return Value{Kind: KindBool, Bool: b} }
func ArrayValue(xs []Value) Value {
	if xs == nil {
		xs = []Value{}
	}
	return Value{Kind: KindArray, Array: xs}
}
func MapValue(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{Kind: KindMap, Map: m}
}
func OkValue(v Value) Value  { return Value{Kind: KindResult, ResultOk: &v} }
func ErrValue(v Value) Value { return Value{Kind: KindResult, ResultErr: &v} }
func SomeValue(v Value) Value {
	return Value{Kind: KindOption, Option: &v}
}
func NoneValue() Value { return Value{Kind: KindOption, Option: nil} }
func ClosureValue(c *Closure) Value {
	return Value{Kind: KindClosure, Closure: c}
}

// IsOk reports whether a Result value holds Ok; panics if Kind != KindResult.
func (v Value) IsOk() bool {
	if v.Kind != KindResult {
		panic("IsOk on non-result value")
	}
	return v.ResultOk != nil
}

// IsSome reports whether an Option value holds a value; panics if Kind != KindOption.
func (v Value) IsSome() bool {
	if v.Kind != KindOption {
		panic("IsSome on non-option value")
	}
	return v.Option != nil
}

func (v Value) String() string {
	switch v.Kind {
	case KindChar:
		return fmt.Sprintf("'%c'", v.Char)
	case KindStr:
		return fmt.Sprintf("%q", v.Str)
	case KindNum:
		return fmt.Sprintf("%d", v.Num)
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindArray:
		return fmt.Sprintf("%v", v.Array)
	case KindMap:
		return fmt.Sprintf("%v", v.Map)
	case KindResult:
		if v.ResultOk != nil {
			return fmt.Sprintf("ok(%s)", v.ResultOk)
		}
		return fmt.Sprintf("err(%s)", v.ResultErr)
	case KindOption:
		if v.Option == nil {
			return "none"
		}
		return fmt.Sprintf("some(%s)", v.Option)
	case KindClosure:
		return "<closure>"
	}
	return "<invalid>"
}

// TypeOf infers the structural TypeTester of a value, used when a generic
// captures its first occurrence and when checking a closure value's shape
// against a Closure<...> tester.
func TypeOf(v Value) *typesystem.TypeTester {
	switch v.Kind {
	case KindChar:
		return typesystem.TChar()
	case KindStr:
		return typesystem.TStr()
	case KindNum:
		return typesystem.TNum()
	case KindBool:
		return typesystem.TBool()
	case KindArray:
		return typesystem.TArrayAny()
	case KindMap:
		return typesystem.TMapAny()
	case KindResult:
		return typesystem.TResultAny()
	case KindOption:
		if v.Option == nil {
			return typesystem.TOptionAny()
		}
		return typesystem.TOption(TypeOf(*v.Option))
	case KindClosure:
		return closureTypeOf(v.Closure)
	}
	return typesystem.TAny()
}

func closureTypeOf(cl *Closure) *typesystem.TypeTester {
	ins := make([]*typesystem.TypeTester, 0, len(cl.RequestArgs.Unfilled))
	for _, a := range cl.RequestArgs.Unfilled {
		if a.TypeCheck != nil {
			ins = append(ins, a.TypeCheck)
		} else {
			ins = append(ins, typesystem.TAny())
		}
	}
	inPart := typesystem.TypedFnPartOf(ins)
	outPart := typesystem.AnyFnPart()
	if cl.OutputTypes != nil {
		outs := make([]*typesystem.TypeTester, 0, len(cl.OutputTypes.Outputs))
		for _, o := range cl.OutputTypes.Outputs {
			if o != nil {
				outs = append(outs, o)
			} else {
				outs = append(outs, typesystem.TAny())
			}
		}
		outPart = typesystem.TypedFnPartOf(outs)
	}
	return typesystem.TClosure(inPart, outPart)
}
