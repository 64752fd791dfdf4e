// Package typesystem holds the structural type descriptors (TypeTester) and
// bounded-generic declarations (DefinedGeneric) used by the type resolution
// context. It has no dependency on runtime values — checking a TypeTester
// against a concrete Value is the job of package trc, which depends on both
// typesystem and ast to avoid a typesystem<->ast import cycle.
package typesystem

import (
	"fmt"
	"strings"
)

// Kind identifies a TypeTester's shape, ignoring any nested parametrization.
// Used for the "as_eq" projection where a parametrized kind (Array<T>)
// subsumes its bare "any of kind" form (ArrayAny).
type Kind int

const (
	KindAny Kind = iota
	KindChar
	KindStr
	KindNum
	KindBool
	KindArray
	KindMap
	KindResult
	KindOption
	KindClosure
	KindGeneric
)

// TypedFnPart is a closure's declared input or output list: either an
// explicit ordered list of TypeTesters, or "any shape".
type TypedFnPart struct {
	Any   bool
	Types []*TypeTester
}

func AnyFnPart() TypedFnPart { return TypedFnPart{Any: true} }

func TypedFnPartOf(ts []*TypeTester) TypedFnPart { return TypedFnPart{Types: ts} }

// TypeTester is a structural type descriptor. Exactly one of the fields
// relevant to Kind is populated; see the TypeTester* constructors.
type TypeTester struct {
	Kind Kind

	// KindGeneric
	GenericName string

	// KindArray / KindOption
	Elem *TypeTester

	// KindMap
	MapValue *TypeTester

	// KindResult
	ResultOk  *TypeTester
	ResultErr *TypeTester

	// KindClosure
	ClosureIn  TypedFnPart
	ClosureOut TypedFnPart
}

func TAny() *TypeTester           { return &TypeTester{Kind: KindAny} }
func TChar() *TypeTester          { return &TypeTester{Kind: KindChar} }
func TStr() *TypeTester           { return &TypeTester{Kind: KindStr} }
func TNum() *TypeTester           { return &TypeTester{Kind: KindNum} }
func TBool() *TypeTester          { return &TypeTester{Kind: KindBool} }
func TArrayAny() *TypeTester      { return &TypeTester{Kind: KindArray} }
func TMapAny() *TypeTester        { return &TypeTester{Kind: KindMap} }
func TResultAny() *TypeTester     { return &TypeTester{Kind: KindResult} }
func TOptionAny() *TypeTester     { return &TypeTester{Kind: KindOption} }
func TClosureAny() *TypeTester {
	return &TypeTester{Kind: KindClosure, ClosureIn: AnyFnPart(), ClosureOut: AnyFnPart()}
}

// IsClosureAny reports whether t is the bare closure tester (`fn` with no
// input/output lists), which gets the type-against-type error rendering.
func (t *TypeTester) IsClosureAny() bool {
	return t.Kind == KindClosure &&
		t.ClosureIn.Any && t.ClosureOut.Any &&
		len(t.ClosureIn.Types) == 0 && len(t.ClosureOut.Types) == 0
}
func TGeneric(name string) *TypeTester {
	return &TypeTester{Kind: KindGeneric, GenericName: name}
}
func TArray(elem *TypeTester) *TypeTester { return &TypeTester{Kind: KindArray, Elem: elem} }
func TMap(val *TypeTester) *TypeTester    { return &TypeTester{Kind: KindMap, MapValue: val} }
func TOption(elem *TypeTester) *TypeTester {
	return &TypeTester{Kind: KindOption, Elem: elem}
}
func TResult(ok, err *TypeTester) *TypeTester {
	return &TypeTester{Kind: KindResult, ResultOk: ok, ResultErr: err}
}
func TClosure(in, out TypedFnPart) *TypeTester {
	return &TypeTester{Kind: KindClosure, ClosureIn: in, ClosureOut: out}
}

func (t *TypeTester) String() string {
	switch t.Kind {
	case KindAny:
		return "?"
	case KindChar:
		return "char"
	case KindStr:
		return "str"
	case KindNum:
		return "num"
	case KindBool:
		return "bool"
	case KindArray:
		if t.Elem == nil {
			return "array"
		}
		return fmt.Sprintf("array<%s>", t.Elem)
	case KindMap:
		if t.MapValue == nil {
			return "map"
		}
		return fmt.Sprintf("map<%s>", t.MapValue)
	case KindResult:
		if t.ResultOk == nil {
			return "result"
		}
		return fmt.Sprintf("result<%s><%s>", t.ResultOk, t.ResultErr)
	case KindOption:
		if t.Elem == nil {
			return "option"
		}
		return fmt.Sprintf("option<%s>", t.Elem)
	case KindClosure:
		if t.ClosureIn.Any && t.ClosureOut.Any && len(t.ClosureIn.Types) == 0 && len(t.ClosureOut.Types) == 0 {
			return "fn"
		}
		return fmt.Sprintf("fn<%s><%s>", fnPartString(t.ClosureIn), fnPartString(t.ClosureOut))
	case KindGeneric:
		return t.GenericName
	}
	return "?"
}

func fnPartString(p TypedFnPart) string {
	if p.Any {
		return "*"
	}
	parts := make([]string, len(p.Types))
	for i, t := range p.Types {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

// AsEq returns whether a and b denote the same kind for closure-signature
// matching, where a parametrized kind subsumes its "any" form in either
// direction (ArrayAny == Array<T>) and KindAny matches everything.
func AsEq(a, b *TypeTester) bool {
	if a.Kind == KindAny || b.Kind == KindAny {
		return true
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindArray:
		if a.Elem == nil || b.Elem == nil {
			return true
		}
		return AsEq(a.Elem, b.Elem)
	case KindMap:
		if a.MapValue == nil || b.MapValue == nil {
			return true
		}
		return AsEq(a.MapValue, b.MapValue)
	case KindOption:
		if a.Elem == nil || b.Elem == nil {
			return true
		}
		return AsEq(a.Elem, b.Elem)
	case KindResult:
		if a.ResultOk == nil || b.ResultOk == nil {
			return true
		}
		return AsEq(a.ResultOk, b.ResultOk) && AsEq(a.ResultErr, b.ResultErr)
	case KindClosure:
		return fnPartEq(a.ClosureIn, b.ClosureIn) && fnPartEq(a.ClosureOut, b.ClosureOut)
	case KindGeneric:
		return a.GenericName == b.GenericName
	default:
		return true
	}
}

func fnPartEq(a, b TypedFnPart) bool {
	if a.Any || b.Any {
		return true
	}
	if len(a.Types) != len(b.Types) {
		return false
	}
	for i := range a.Types {
		if !AsEq(a.Types[i], b.Types[i]) {
			return false
		}
	}
	return true
}

// DefinedGeneric is a named, set-bounded generic declared with (TRC ...).
type DefinedGeneric struct {
	Viral bool
	Allow []*TypeTester
}

// Contains reports whether v structurally matches one of the generic's
// allowed member testers, via AsEq.
func (d *DefinedGeneric) Contains(v *TypeTester) bool {
	for _, allowed := range d.Allow {
		if AsEq(allowed, v) {
			return true
		}
	}
	return false
}

// DefinedGenericBuilder is the parsed form of a (TRC [*]NAME T1 T2 ...)
// keyword, before it is installed into a TRC instance.
type DefinedGenericBuilder struct {
	Name  string
	Viral bool
	Allow []*TypeTester
}

// ParseDefinedGeneric parses the body of a TRC keyword: an optional leading
// "*" (meaning non-viral), the generic's name, and its whitespace-separated
// allowed type list.
func ParseDefinedGeneric(s string) (DefinedGenericBuilder, error) {
	viral := true
	cont := s
	if strings.HasPrefix(s, "*") {
		viral = false
		cont = strings.TrimSpace(s[1:])
	}
	fields := strings.Fields(cont)
	if len(fields) == 0 {
		return DefinedGenericBuilder{}, fmt.Errorf("TRC %q: %w", s, ErrTRCMissingName)
	}
	name := fields[0]
	allow := make([]*TypeTester, 0, len(fields)-1)
	for _, f := range fields[1:] {
		tt, err := ParseTypeTester(f)
		if err != nil {
			return DefinedGenericBuilder{}, err
		}
		allow = append(allow, tt)
	}
	return DefinedGenericBuilder{Name: name, Viral: viral, Allow: allow}, nil
}
