package preprocessor

import (
	"errors"
	"testing"

	"github.com/PedroManse/stt-sub000/internal/lexer"
	"github.com/PedroManse/stt-sub000/internal/sourcecache"
	"github.com/PedroManse/stt-sub000/internal/token"
)

func process(t *testing.T, ctx *Context, source, text string) (*token.Block, error) {
	t.Helper()
	raw, err := lexer.Tokenize(source, text)
	if err != nil {
		t.Fatalf("tokenize %s: %v", source, err)
	}
	return ctx.Process(raw)
}

// idents flattens the processed block into the identifier/literal words it
// would execute, recursing into included blocks.
func idents(toks []token.Token) []string {
	var out []string
	for _, tok := range toks {
		switch tok.Cont.Kind {
		case token.ContIdent:
			out = append(out, tok.Cont.Ident)
		case token.ContIncludedBlock:
			out = append(out, idents(tok.Cont.Block2.Tokens)...)
		case token.ContBlock:
			out = append(out, idents(tok.Cont.Block)...)
		}
	}
	return out
}

func TestPragmaIfSkipsUndefined(t *testing.T) {
	cache := sourcecache.NewIsolated()
	block, err := process(t, New(cache), "main.stt", `
before
(pragma if debug)
hidden
(pragma end)
after
`)
	if err != nil {
		t.Fatal(err)
	}
	got := idents(block.Tokens)
	want := []string{"before", "after"}
	if len(got) != len(want) {
		t.Fatalf("idents = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("idents[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPragmaDefAndElse(t *testing.T) {
	cache := sourcecache.NewIsolated()
	block, err := process(t, New(cache), "main.stt", `
(pragma def posix)
(pragma if posix)
unix-path
(pragma else)
other-path
(pragma end)
`)
	if err != nil {
		t.Fatal(err)
	}
	got := idents(block.Tokens)
	if len(got) != 1 || got[0] != "unix-path" {
		t.Errorf("idents = %v, want [unix-path]", got)
	}
}

func TestPragmaSectionErrors(t *testing.T) {
	cache := sourcecache.NewIsolated()

	_, err := process(t, New(cache), "a.stt", "(pragma end)")
	var noClose *NoSectionToCloseError
	if !errors.As(err, &noClose) {
		t.Errorf("expected NoSectionToCloseError, got %v", err)
	}

	_, err = process(t, New(cache), "b.stt", "(pragma else)")
	var noElse *CantElseCurrentSectionError
	if !errors.As(err, &noElse) {
		t.Errorf("expected CantElseCurrentSectionError, got %v", err)
	}

	_, err = process(t, New(cache), "c.stt", "(pragma if x)(pragma else)(pragma else)(pragma end)")
	if !errors.As(err, &noElse) {
		t.Errorf("expected CantElseCurrentSectionError on double else, got %v", err)
	}

	_, err = process(t, New(cache), "d.stt", "(pragma frobnicate)")
	var invalid *InvalidPragmaError
	if !errors.As(err, &invalid) {
		t.Errorf("expected InvalidPragmaError, got %v", err)
	}
}

func TestIncludeFlattens(t *testing.T) {
	cache := sourcecache.NewIsolated()
	cache.AddFile("lib/util.stt", `"util" "origin" set`)
	block, err := process(t, New(cache), "main.stt", "(include lib/util.stt) 1 2 -")
	if err != nil {
		t.Fatal(err)
	}
	if len(block.Tokens) == 0 || block.Tokens[0].Cont.Kind != token.ContIncludedBlock {
		t.Fatalf("expected leading included block, got %+v", block.Tokens)
	}
	inner := block.Tokens[0].Cont.Block2
	if inner.Source != "lib/util.stt" {
		t.Errorf("included source = %q", inner.Source)
	}
}

func TestIncludeDirectoryFallsBackToRootFile(t *testing.T) {
	cache := sourcecache.NewIsolated()
	cache.AddFile("lib/stck.stt", "shared")
	block, err := process(t, New(cache), "main.stt", "(include lib)")
	if err != nil {
		t.Fatal(err)
	}
	got := idents(block.Tokens)
	if len(got) != 1 || got[0] != "shared" {
		t.Errorf("idents = %v, want [shared]", got)
	}
}

func TestIncludeMissingFile(t *testing.T) {
	cache := sourcecache.NewIsolated()
	_, err := process(t, New(cache), "main.stt", "(include nope.stt)")
	var cantRead *CantReadFileError
	if !errors.As(err, &cantRead) {
		t.Fatalf("expected CantReadFileError, got %v", err)
	}
}

func TestIncludeCycleRefused(t *testing.T) {
	cache := sourcecache.NewIsolated()
	cache.AddFile("a.stt", "(include b.stt)")
	cache.AddFile("b.stt", "(include a.stt)")
	_, err := process(t, New(cache), "main.stt", "(include a.stt)")
	var cycle *IncludeCycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("expected IncludeCycleError, got %v", err)
	}
}

func TestIncludeSearchRoots(t *testing.T) {
	cache := sourcecache.NewIsolated()
	cache.AddFile("vendor/extra.stt", "vendored")
	ctx := New(cache)
	ctx.AddRoot("vendor")
	block, err := process(t, ctx, "main.stt", "(include extra.stt)")
	if err != nil {
		t.Fatal(err)
	}
	got := idents(block.Tokens)
	if len(got) != 1 || got[0] != "vendored" {
		t.Errorf("idents = %v, want [vendored]", got)
	}
}

func TestPragmaInsideInactiveSectionIgnored(t *testing.T) {
	cache := sourcecache.NewIsolated()
	block, err := process(t, New(cache), "main.stt", `
(pragma if off)
(pragma def sneaky)
(pragma end)
(pragma if sneaky)
leaked
(pragma end)
ok
`)
	if err != nil {
		t.Fatal(err)
	}
	got := idents(block.Tokens)
	if len(got) != 1 || got[0] != "ok" {
		t.Errorf("idents = %v, want [ok]", got)
	}
}
