package parser

import (
	"errors"
	"testing"

	"github.com/PedroManse/stt-sub000/internal/ast"
	"github.com/PedroManse/stt-sub000/internal/lexer"
	"github.com/PedroManse/stt-sub000/internal/typesystem"
)

func parse(t *testing.T, src string) *ast.Code {
	t.Helper()
	block, err := lexer.Tokenize("test.stt", src)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	code, err := Parse(block)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return code
}

func parseErr(t *testing.T, src string) error {
	t.Helper()
	block, err := lexer.Tokenize("test.stt", src)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	_, err = Parse(block)
	if err == nil {
		t.Fatalf("parse of %q unexpectedly succeeded", src)
	}
	return err
}

func TestParseFnDef(t *testing.T) {
	code := parse(t, `
(fn) [ typed<num> in_puts ] [ sum<num> ] fn-name {
    inputs typed 0 - -
}`)
	if len(code.Exprs) != 1 {
		t.Fatalf("expr count = %d", len(code.Exprs))
	}
	expr := code.Exprs[0]
	if expr.Cont.Kind != ast.ContKeyword || expr.Cont.Keyword.Tag != ast.KwFnDef {
		t.Fatalf("not a fn def: %+v", expr.Cont)
	}
	kw := expr.Cont.Keyword
	if kw.FnDefName != "fn-name" || kw.Scope != ast.ScopeLocal {
		t.Errorf("name/scope = %s/%s", kw.FnDefName, kw.Scope)
	}
	if kw.Args.AllStack || len(kw.Args.Args) != 2 {
		t.Fatalf("args = %+v", kw.Args)
	}
	if kw.Args.Args[0].Name != "typed" || kw.Args.Args[0].TypeCheck.Kind != typesystem.KindNum {
		t.Errorf("first arg = %+v", kw.Args.Args[0])
	}
	if kw.OutArgs.Len() != 1 {
		t.Errorf("out args = %+v", kw.OutArgs)
	}
	if expr.Span.Start != 2 || expr.Span.End != 4 {
		t.Errorf("span = %v, want 2..4", expr.Span)
	}

	body := kw.FnCode
	wantKinds := []ast.ExprContKind{
		ast.ContFnCall, ast.ContFnCall, ast.ContImmediate, ast.ContFnCall, ast.ContFnCall,
	}
	if len(body) != len(wantKinds) {
		t.Fatalf("body = %+v", body)
	}
	for i, kind := range wantKinds {
		if body[i].Cont.Kind != kind {
			t.Errorf("body[%d] kind = %v, want %v", i, body[i].Cont.Kind, kind)
		}
		if body[i].Span.Start != 3 {
			t.Errorf("body[%d] line = %d, want 3", i, body[i].Span.Start)
		}
	}
}

func TestParseAllStackFn(t *testing.T) {
	code := parse(t, `(fn*) * drain { }`)
	kw := code.Exprs[0].Cont.Keyword
	if !kw.Args.AllStack || kw.Scope != ast.ScopeGlobal {
		t.Errorf("kw = %+v", kw)
	}
}

func TestParseWrongParamList(t *testing.T) {
	err := parseErr(t, `(fn) bogus name { }`)
	var wrong *WrongParamListError
	if !errors.As(err, &wrong) || wrong.Got != "bogus" {
		t.Fatalf("expected WrongParamListError{bogus}, got %v", err)
	}
}

func TestParseLiteralsAndCalls(t *testing.T) {
	code := parse(t, `1 "two" 'c' word`)
	kinds := []ast.ExprContKind{
		ast.ContImmediate, ast.ContImmediate, ast.ContImmediate, ast.ContFnCall,
	}
	for i, kind := range kinds {
		if code.Exprs[i].Cont.Kind != kind {
			t.Errorf("expr %d kind = %v, want %v", i, code.Exprs[i].Cont.Kind, kind)
		}
	}
	if code.Exprs[0].Cont.Immediate.Num != 1 {
		t.Errorf("num = %s", code.Exprs[0].Cont.Immediate)
	}
	if code.Exprs[3].Cont.FnCall != "word" {
		t.Errorf("call = %s", code.Exprs[3].Cont.FnCall)
	}
}

func TestParseClosureLiteral(t *testing.T) {
	code := parse(t, `[ v<num> ] [ <num> ] { v 2 * }`)
	if len(code.Exprs) != 1 {
		t.Fatalf("exprs = %+v", code.Exprs)
	}
	imm := code.Exprs[0].Cont.Immediate
	if imm.Kind != ast.KindClosure {
		t.Fatalf("not a closure: %s", imm)
	}
	cl := imm.Closure
	if len(cl.RequestArgs.Unfilled) != 1 || cl.RequestArgs.Unfilled[0].Name != "v" {
		t.Errorf("unfilled = %+v", cl.RequestArgs.Unfilled)
	}
	if cl.OutputTypes.Len() != 1 {
		t.Errorf("outputs = %+v", cl.OutputTypes)
	}
	if len(cl.Code) != 3 {
		t.Errorf("body = %+v", cl.Code)
	}
}

func TestParseClosureWithoutOutputs(t *testing.T) {
	code := parse(t, `[ v ] { v }`)
	cl := code.Exprs[0].Cont.Immediate.Closure
	if cl.OutputTypes != nil {
		t.Errorf("outputs = %+v", cl.OutputTypes)
	}
}

func TestParseZeroArgClosureRejected(t *testing.T) {
	err := parseErr(t, `[ ] { 1 }`)
	if !errors.Is(err, ast.ErrCantInstanceClosureZeroArgs) {
		t.Fatalf("expected zero-args closure error, got %v", err)
	}
}

func TestParseSwitch(t *testing.T) {
	code := parse(t, `(switch) 1 { "one" } 'c' { "char" } "s" { "str" } { "default" } after`)
	if len(code.Exprs) != 2 {
		t.Fatalf("exprs = %+v", code.Exprs)
	}
	kw := code.Exprs[0].Cont.Keyword
	if kw.Tag != ast.KwSwitch || len(kw.Cases) != 3 || kw.Default == nil {
		t.Fatalf("switch = %+v", kw)
	}
	if kw.Cases[0].Key.Num != 1 || kw.Cases[1].Key.Char != 'c' || kw.Cases[2].Key.Str != "s" {
		t.Errorf("case keys = %+v", kw.Cases)
	}
	if code.Exprs[1].Cont.FnCall != "after" {
		t.Errorf("trailing expr = %+v", code.Exprs[1].Cont)
	}
}

func TestParseSwitchWithoutDefaultReFeedsTerminator(t *testing.T) {
	code := parse(t, `(switch) 1 { "one" } after`)
	kw := code.Exprs[0].Cont.Keyword
	if len(kw.Cases) != 1 || kw.Default != nil {
		t.Fatalf("switch = %+v", kw)
	}
	if code.Exprs[1].Cont.FnCall != "after" {
		t.Errorf("terminator lost: %+v", code.Exprs[1].Cont)
	}
}

func TestParseIfs(t *testing.T) {
	code := parse(t, `(ifs) { check1 } { code1 } { check2 } { code2 } after`)
	kw := code.Exprs[0].Cont.Keyword
	if kw.Tag != ast.KwIfs || len(kw.Branches) != 2 {
		t.Fatalf("ifs = %+v", kw)
	}
	if len(kw.Branches[0].Check) != 1 || kw.Branches[0].Check[0].Cont.FnCall != "check1" {
		t.Errorf("branch 0 check = %+v", kw.Branches[0].Check)
	}
	if code.Exprs[1].Cont.FnCall != "after" {
		t.Errorf("terminator lost: %+v", code.Exprs[1].Cont)
	}
}

func TestParseWhile(t *testing.T) {
	code := parse(t, `(while) { cond } { body }`)
	kw := code.Exprs[0].Cont.Keyword
	if kw.Tag != ast.KwWhile {
		t.Fatalf("kw = %+v", kw)
	}
	if len(kw.WhileCheck) != 1 || len(kw.WhileCode) != 1 {
		t.Errorf("while = %+v", kw)
	}
}

func TestParseControlKeywords(t *testing.T) {
	code := parse(t, `(break) (return) (!) (@dbl) (TRC Eq num)`)
	tags := []ast.KeywordKindTag{
		ast.KwBreak, ast.KwReturn, ast.KwBubbleError, ast.KwIntoClosure, ast.KwDefinedGeneric,
	}
	for i, tag := range tags {
		if code.Exprs[i].Cont.Keyword.Tag != tag {
			t.Errorf("expr %d tag = %v, want %v", i, code.Exprs[i].Cont.Keyword.Tag, tag)
		}
	}
	if code.Exprs[3].Cont.Keyword.FnName != "dbl" {
		t.Errorf("into-closure name = %q", code.Exprs[3].Cont.Keyword.FnName)
	}
	if code.Exprs[4].Cont.Keyword.Generic.Name != "Eq" {
		t.Errorf("generic = %+v", code.Exprs[4].Cont.Keyword.Generic)
	}
}

func TestParseWhileMissingBlockFails(t *testing.T) {
	err := parseErr(t, `(while) cond { body }`)
	var cantParse *CantParseTokenError
	if !errors.As(err, &cantParse) || cantParse.State != "MakeWhile" {
		t.Fatalf("expected CantParseTokenError{MakeWhile}, got %v", err)
	}
}

func TestParseSwitchCaseMissingBlockFails(t *testing.T) {
	err := parseErr(t, `(switch) 1 2`)
	var cantParse *CantParseTokenError
	if !errors.As(err, &cantParse) || cantParse.State != "MakeSwitchCode" {
		t.Fatalf("expected CantParseTokenError{MakeSwitchCode}, got %v", err)
	}
}
