// Package trc implements the type resolution context: structural checks of
// type testers against runtime values, with capture of bounded generics.
// It is the one place that depends on both typesystem and ast, so neither
// needs to know about the other's concrete shapes.
package trc

import (
	"sort"
	"strings"

	"github.com/PedroManse/stt-sub000/internal/ast"
	"github.com/PedroManse/stt-sub000/internal/typesystem"
)

// TRC holds the generics declared with (TRC ...) and the concrete types
// captured for them during the current call. It is cloned into each
// function and closure frame; captures made inside a frame stay in that
// frame.
type TRC struct {
	defined map[string]*typesystem.DefinedGeneric
	current map[string]*typesystem.TypeTester
}

func New() *TRC {
	return &TRC{
		defined: make(map[string]*typesystem.DefinedGeneric),
		current: make(map[string]*typesystem.TypeTester),
	}
}

// AddGeneric installs a (TRC ...) declaration.
func (c *TRC) AddGeneric(b typesystem.DefinedGenericBuilder) {
	c.defined[b.Name] = &typesystem.DefinedGeneric{Viral: b.Viral, Allow: b.Allow}
}

// Clone returns an independent copy for a new frame.
func (c *TRC) Clone() *TRC {
	cp := New()
	for k, v := range c.defined {
		cp.defined[k] = v
	}
	for k, v := range c.current {
		cp.current[k] = v
	}
	return cp
}

// Check tests v against t. On failure it returns the tester that rejected
// the value; nil means the value passed, possibly capturing generics along
// the way.
func (c *TRC) Check(t *typesystem.TypeTester, v ast.Value) *typesystem.TypeTester {
	if c.checkInternal(t, v) {
		return nil
	}
	return t
}

// CheckArg tests v against an argument slot's declared type, if any.
func (c *TRC) CheckArg(def ast.FnArgDef, v ast.Value) *typesystem.TypeTester {
	if def.TypeCheck == nil {
		return nil
	}
	return c.Check(def.TypeCheck, v)
}

func (c *TRC) checkInternal(t *typesystem.TypeTester, v ast.Value) bool {
	switch t.Kind {
	case typesystem.KindAny:
		return true
	case typesystem.KindChar:
		return v.Kind == ast.KindChar
	case typesystem.KindStr:
		return v.Kind == ast.KindStr
	case typesystem.KindNum:
		return v.Kind == ast.KindNum
	case typesystem.KindBool:
		return v.Kind == ast.KindBool
	case typesystem.KindArray:
		if v.Kind != ast.KindArray {
			return false
		}
		if t.Elem == nil {
			return true
		}
		for _, el := range v.Array {
			if !c.checkInternal(t.Elem, el) {
				return false
			}
		}
		return true
	case typesystem.KindMap:
		if v.Kind != ast.KindMap {
			return false
		}
		if t.MapValue == nil {
			return true
		}
		for _, el := range v.Map {
			if !c.checkInternal(t.MapValue, el) {
				return false
			}
		}
		return true
	case typesystem.KindResult:
		if v.Kind != ast.KindResult {
			return false
		}
		if t.ResultOk == nil {
			return true
		}
		if v.ResultOk != nil {
			return c.checkInternal(t.ResultOk, *v.ResultOk)
		}
		return c.checkInternal(t.ResultErr, *v.ResultErr)
	case typesystem.KindOption:
		if v.Kind != ast.KindOption {
			return false
		}
		if t.Elem == nil || v.Option == nil {
			return true
		}
		return c.checkInternal(t.Elem, *v.Option)
	case typesystem.KindClosure:
		if v.Kind != ast.KindClosure {
			return false
		}
		return checkClosureShape(t, v.Closure)
	case typesystem.KindGeneric:
		return c.checkGeneric(t.GenericName, v)
	}
	return false
}

// checkClosureShape matches a Closure<InList, OutList> tester against a
// closure value's declared input/output types, at kind level.
func checkClosureShape(t *typesystem.TypeTester, cl *ast.Closure) bool {
	if !t.ClosureIn.Any {
		unfilled := cl.RequestArgs.Unfilled
		if len(unfilled) != len(t.ClosureIn.Types) {
			return false
		}
		for i, want := range t.ClosureIn.Types {
			have := unfilled[i].TypeCheck
			if have != nil && !typesystem.AsEq(want, have) {
				return false
			}
		}
	}
	if !t.ClosureOut.Any {
		if cl.OutputTypes == nil {
			return true
		}
		outs := cl.OutputTypes.Outputs
		if len(outs) != len(t.ClosureOut.Types) {
			return false
		}
		for i, want := range t.ClosureOut.Types {
			if outs[i] != nil && !typesystem.AsEq(want, outs[i]) {
				return false
			}
		}
	}
	return true
}

// checkGeneric resolves a Generic(name) occurrence: a prior capture wins,
// then a (TRC ...) declaration bounds the value's type (capturing it when
// viral), and an undeclared name captures freely on first use.
func (c *TRC) checkGeneric(name string, v ast.Value) bool {
	if captured, ok := c.current[name]; ok {
		return c.checkInternal(captured, v)
	}
	vt := ast.TypeOf(v)
	if def, ok := c.defined[name]; ok {
		if !def.Contains(vt) {
			return false
		}
		if def.Viral {
			c.current[name] = vt
		}
		return true
	}
	c.current[name] = vt
	return true
}

func (c *TRC) String() string {
	names := make([]string, 0, len(c.defined))
	for name := range c.defined {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name)
		if captured, ok := c.current[name]; ok {
			b.WriteString("=")
			b.WriteString(captured.String())
		}
	}
	return "{" + b.String() + "}"
}

// TypeError is the per-element failure of an output check.
type TypeError struct {
	Expected *typesystem.TypeTester
	Got      ast.Value
}

func (e *TypeError) Error() string {
	return "expected type: " + e.Expected.String() + " got value " + e.Got.String()
}

// OutputCountError is the length-mismatch failure of an output check.
type OutputCountError struct {
	Expected int
	Got      int
}

func (e *OutputCountError) Error() string {
	return "wrong output count"
}

// CheckOutputs verifies a frame's final stack contents against a declared
// output signature: exact length, then per-position structural match.
func (c *TRC) CheckOutputs(t *ast.TypedOutputs, values []ast.Value) error {
	if t.Len() != len(values) {
		return &OutputCountError{Expected: t.Len(), Got: len(values)}
	}
	for i, tt := range t.Outputs {
		if tt == nil {
			continue
		}
		if failed := c.Check(tt, values[i]); failed != nil {
			return &TypeError{Expected: failed, Got: values[i]}
		}
	}
	return nil
}
