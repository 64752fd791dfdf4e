package lexer

import (
	"errors"
	"testing"

	"github.com/PedroManse/stt-sub000/internal/token"
	"github.com/PedroManse/stt-sub000/internal/typesystem"
)

func tokenize(t *testing.T, src string) []token.Token {
	t.Helper()
	block, err := Tokenize("test.stt", src)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	return block.Tokens
}

func TestReadTokens(t *testing.T) {
	toks := tokenize(t, `(fn) [ typed<num> in_puts a ] [ sum<num> ] fn-name {
    inputs typed a + +
}
1 2 3 fn-name
`)

	type expect struct {
		kind token.ContKind
		line int
	}
	expected := []expect{
		{token.ContKeyword, 1},
		{token.ContFnArgs, 1},
		{token.ContFnArgs, 1},
		{token.ContIdent, 1},
		{token.ContBlock, 1},
		{token.ContNumber, 4},
		{token.ContNumber, 4},
		{token.ContNumber, 4},
		{token.ContIdent, 4},
		{token.ContEndOfBlock, 4},
	}
	if len(toks) != len(expected) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(expected), toks)
	}
	for i, want := range expected {
		if toks[i].Cont.Kind != want.kind {
			t.Errorf("token %d kind = %v, want %v", i, toks[i].Cont.Kind, want.kind)
		}
		if toks[i].Span.Start != want.line {
			t.Errorf("token %d starts line %d, want %d", i, toks[i].Span.Start, want.line)
		}
	}

	args := toks[1].Cont.FnArgs
	if len(args) != 3 || args[0].Name != "typed" || args[1].Name != "in_puts" || args[2].Name != "a" {
		t.Fatalf("args = %+v", args)
	}
	if args[0].TypeCheck == nil || args[0].TypeCheck.Kind != typesystem.KindNum {
		t.Errorf("typed's type = %v", args[0].TypeCheck)
	}
	if args[1].TypeCheck != nil {
		t.Errorf("in_puts unexpectedly typed")
	}

	block := toks[4].Cont.Block
	words := []string{"inputs", "typed", "a", "+", "+"}
	for i, w := range words {
		if block[i].Cont.Kind != token.ContIdent || block[i].Cont.Ident != w {
			t.Errorf("block token %d = %+v, want ident %q", i, block[i].Cont, w)
		}
		if block[i].Span.Start != 2 {
			t.Errorf("block token %d on line %d, want 2", i, block[i].Span.Start)
		}
	}
	if block[len(block)-1].Cont.Kind != token.ContEndOfBlock {
		t.Error("block not terminated by EndOfBlock")
	}
	if toks[4].Span.Start != 1 || toks[4].Span.End != 3 {
		t.Errorf("block span = %v, want 1..3", toks[4].Span)
	}
}

func TestLiterals(t *testing.T) {
	toks := tokenize(t, `"with \\ and \n" 'x' '\n' '\'' -12 12`)
	if toks[0].Cont.Str != "with \\ and \n" {
		t.Errorf("string = %q", toks[0].Cont.Str)
	}
	if toks[1].Cont.Char != 'x' || toks[2].Cont.Char != '\n' || toks[3].Cont.Char != '\'' {
		t.Errorf("chars = %q %q %q", toks[1].Cont.Char, toks[2].Cont.Char, toks[3].Cont.Char)
	}
	if toks[4].Cont.Number != -12 || toks[5].Cont.Number != 12 {
		t.Errorf("numbers = %d %d", toks[4].Cont.Number, toks[5].Cont.Number)
	}
}

func TestLeadingMinusIdent(t *testing.T) {
	toks := tokenize(t, `- -x`)
	if toks[0].Cont.Kind != token.ContIdent || toks[0].Cont.Ident != "-" {
		t.Errorf("bare minus = %+v", toks[0].Cont)
	}
	if toks[1].Cont.Kind != token.ContIdent || toks[1].Cont.Ident != "-x" {
		t.Errorf("minus-ident = %+v", toks[1].Cont)
	}
}

func TestNumberCommaSeparator(t *testing.T) {
	toks := tokenize(t, `1, 2`)
	if toks[0].Cont.Kind != token.ContNumber || toks[0].Cont.Number != 1 {
		t.Errorf("first = %+v", toks[0].Cont)
	}
	if toks[1].Cont.Kind != token.ContIdent || toks[1].Cont.Ident != "," {
		t.Errorf("separator = %+v", toks[1].Cont)
	}
	if toks[2].Cont.Kind != token.ContNumber || toks[2].Cont.Number != 2 {
		t.Errorf("second = %+v", toks[2].Cont)
	}
}

func TestCommentsIgnored(t *testing.T) {
	toks := tokenize(t, "a # the rest is noise { ] (\nb")
	if len(toks) != 3 {
		t.Fatalf("tokens = %v", toks)
	}
	if toks[0].Cont.Ident != "a" || toks[1].Cont.Ident != "b" {
		t.Errorf("idents = %+v %+v", toks[0].Cont, toks[1].Cont)
	}
}

func TestKeywords(t *testing.T) {
	toks := tokenize(t, `(!) (fn) (fn*) (fn-) (while) (return) (switch) (break) (ifs) (include a/b.stt) (pragma def x) (@dbl) (TRC *Printable num str)`)
	tags := []token.RawKeywordTag{
		token.RawBubbleError, token.RawFn, token.RawFn, token.RawFn,
		token.RawWhile, token.RawReturn, token.RawSwitch, token.RawBreak,
		token.RawIfs, token.RawInclude, token.RawPragma, token.RawFnIntoClosure,
		token.RawTRC,
	}
	for i, tag := range tags {
		if toks[i].Cont.Kind != token.ContKeyword {
			t.Fatalf("token %d not a keyword: %+v", i, toks[i].Cont)
		}
		if toks[i].Cont.Keyword.Tag != tag {
			t.Errorf("keyword %d tag = %v, want %v", i, toks[i].Cont.Keyword.Tag, tag)
		}
	}
	if toks[9].Cont.Keyword.Path != "a/b.stt" {
		t.Errorf("include path = %q", toks[9].Cont.Keyword.Path)
	}
	if toks[10].Cont.Keyword.Command != "def x" {
		t.Errorf("pragma command = %q", toks[10].Cont.Keyword.Command)
	}
	if toks[11].Cont.Keyword.FnName != "dbl" {
		t.Errorf("into-closure fn = %q", toks[11].Cont.Keyword.FnName)
	}
	trc := toks[12].Cont.Keyword.Generic
	if trc.Name != "Printable" || trc.Viral || len(trc.Allow) != 2 {
		t.Errorf("TRC = %+v", trc)
	}
}

func TestUnknownKeyword(t *testing.T) {
	_, err := Tokenize("test.stt", "(frobnicate)")
	var unknown *UnknownKeywordError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownKeywordError, got %v", err)
	}
}

func TestNestedTypeParams(t *testing.T) {
	toks := tokenize(t, `[ xs<array<num>> r<result<num><str>> f<fn<num num><num>> ]`)
	args := toks[0].Cont.FnArgs
	if len(args) != 3 {
		t.Fatalf("args = %+v", args)
	}
	if args[0].TypeCheck.Kind != typesystem.KindArray || args[0].TypeCheck.Elem.Kind != typesystem.KindNum {
		t.Errorf("xs type = %s", args[0].TypeCheck)
	}
	if args[1].TypeCheck.Kind != typesystem.KindResult {
		t.Errorf("r type = %s", args[1].TypeCheck)
	}
	if args[2].TypeCheck.Kind != typesystem.KindClosure || len(args[2].TypeCheck.ClosureIn.Types) != 2 {
		t.Errorf("f type = %s", args[2].TypeCheck)
	}
}

func TestUnexpectedEOF(t *testing.T) {
	_, err := Tokenize("test.stt", `"unterminated`)
	var eof *UnexpectedEOFError
	if !errors.As(err, &eof) {
		t.Fatalf("expected UnexpectedEOFError, got %v", err)
	}
}

func TestEmptyCharLiteral(t *testing.T) {
	_, err := Tokenize("test.stt", "''")
	if !errors.Is(err, ErrMissingChar) {
		t.Fatalf("expected ErrMissingChar, got %v", err)
	}
}

func TestUnknownType(t *testing.T) {
	_, err := Tokenize("test.stt", `[ a<wat> ]`)
	var unknown *typesystem.UnknownTypeError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownTypeError, got %v", err)
	}
}
