package errs

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/PedroManse/stt-sub000/internal/ast"
	"github.com/PedroManse/stt-sub000/internal/sourcecache"
	"github.com/PedroManse/stt-sub000/internal/span"
)

func exprAt(start, end int) ast.Expr {
	return ast.Expr{
		Span: span.LineRange{Start: start, End: end},
		Cont: ast.FnCallCont("boom"),
	}
}

func TestWrapAttachesThenAppends(t *testing.T) {
	raw := errors.New("division underflow")

	ctx := Wrap(raw, "inner.stt", exprAt(3, 3))
	if ctx.Kind != raw {
		t.Fatal("head context lost the raw error")
	}
	if len(ctx.Stack) != 0 {
		t.Fatalf("fresh context has %d stack frames", len(ctx.Stack))
	}

	again := Wrap(ctx, "outer.stt", exprAt(9, 9))
	if again != ctx {
		t.Fatal("wrapping a contextual error must extend it, not nest it")
	}
	if len(again.Stack) != 1 || again.Stack[0].Source != "outer.stt" {
		t.Fatalf("wrong stack: %+v", again.Stack)
	}
	if !errors.Is(again, raw) {
		t.Error("errors.Is lost the raw error through the context")
	}
}

func TestSourcesReadsEveryFrame(t *testing.T) {
	cache := sourcecache.NewIsolated()
	cache.AddFile("inner.stt", "a\nb\nfail-here\nd")
	cache.AddFile("outer.stt", "one\ntwo\nthree\nfour\nfive\nsix\nseven\neight\ncall-site")

	ctx := Wrap(errors.New("boom"), "inner.stt", exprAt(3, 3))
	ctx = Wrap(ctx, "outer.stt", exprAt(9, 9))

	sources, err := ctx.Sources(cache)
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(sources))
	}
	if sources[0].Lines != "fail-here" {
		t.Errorf("head snippet = %q", sources[0].Lines)
	}
	if sources[1].Lines != "call-site" {
		t.Errorf("frame snippet = %q", sources[1].Lines)
	}
}

func TestRenderChainPlain(t *testing.T) {
	cache := sourcecache.NewIsolated()
	cache.AddFile("prog.stt", "1 2 -\nboom")

	ctx := Wrap(errors.New("no such thing"), "prog.stt", exprAt(2, 2))
	var buf bytes.Buffer
	RenderChain(&buf, ctx, cache, "run-1")

	out := buf.String()
	for _, want := range []string{"run-1", "no such thing", "prog.stt", "| boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered chain missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("non-terminal writer got ANSI colors")
	}
}
