// Package errs wraps raw runtime errors with the source location and
// expression that produced them, accumulates call-stack frames as the
// error propagates outward, and renders the final chain with source
// snippets read through the file cache.
package errs

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/PedroManse/stt-sub000/internal/ast"
	"github.com/PedroManse/stt-sub000/internal/sourcecache"
	"github.com/PedroManse/stt-sub000/internal/span"
)

// ErrCtx is one location an error crossed: the source file, the expression
// being executed, and its line span.
type ErrCtx struct {
	Source string
	Expr   ast.Expr
	Lines  span.LineRange
}

func NewErrCtx(source string, expr ast.Expr) ErrCtx {
	return ErrCtx{Source: source, Expr: expr, Lines: expr.Span}
}

// GetLines reads the context's source slice through the cache.
func (c ErrCtx) GetLines(cache sourcecache.FileCacher) (string, error) {
	return cache.GetSpan(c.Source, c.Lines)
}

// RuntimeErrorCtx is a raw error plus the call stack it climbed: Ctx is
// where it first emerged, Stack the frames appended on the way out,
// innermost first.
type RuntimeErrorCtx struct {
	Ctx   ErrCtx
	Kind  error
	Stack []ErrCtx
}

func (e *RuntimeErrorCtx) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s, line %s)", e.Kind, e.Ctx.Source, e.Ctx.Lines)
	for _, frame := range e.Stack {
		fmt.Fprintf(&b, "\n  from %s, line %s", frame.Source, frame.Lines)
	}
	return b.String()
}

func (e *RuntimeErrorCtx) Unwrap() error { return e.Kind }

// Wrap attaches location context to err: a raw error gets a fresh context,
// an already-contextual error gets this frame appended to its call stack.
func Wrap(err error, source string, expr ast.Expr) *RuntimeErrorCtx {
	if ctx, ok := err.(*RuntimeErrorCtx); ok {
		ctx.Stack = append(ctx.Stack, NewErrCtx(source, expr))
		return ctx
	}
	return &RuntimeErrorCtx{Ctx: NewErrCtx(source, expr), Kind: err}
}

// ErrorSource is one renderable frame: its file, line range, and the
// source lines themselves.
type ErrorSource struct {
	Source string
	Range  span.LineRange
	Lines  string
}

// Sources reads every frame's source slice through the cache, head first.
func (e *RuntimeErrorCtx) Sources(cache sourcecache.FileCacher) ([]ErrorSource, error) {
	ctxs := append([]ErrCtx{e.Ctx}, e.Stack...)
	out := make([]ErrorSource, 0, len(ctxs))
	for _, c := range ctxs {
		lines, err := c.GetLines(cache)
		if err != nil {
			return nil, err
		}
		out = append(out, ErrorSource{Source: c.Source, Range: c.Lines, Lines: lines})
	}
	return out, nil
}

const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
)

func wantColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// RenderChain prints err's full picture to w: the run id, the error text,
// and — for a contextual error — each frame's source snippet. Colors are
// applied only when w is a terminal. Frames whose source cannot be read
// are printed without their snippet.
func RenderChain(w io.Writer, err error, cache sourcecache.FileCacher, runID string) {
	red, green, yellow, reset := "", "", "", ""
	if wantColor(w) {
		red, green, yellow, reset = colorRed, colorGreen, colorYellow, colorReset
	}
	if runID != "" {
		fmt.Fprintf(w, "%s[run %s]%s\n", yellow, runID, reset)
	}

	ctx, ok := err.(*RuntimeErrorCtx)
	if !ok {
		fmt.Fprintf(w, "%serror:%s %v\n", red, reset, err)
		return
	}
	fmt.Fprintf(w, "%serror:%s %v\n", red, reset, ctx.Kind)
	for _, frame := range append([]ErrCtx{ctx.Ctx}, ctx.Stack...) {
		fmt.Fprintf(w, "  %s%s%s:%s\n", green, frame.Source, reset, frame.Lines)
		lines, readErr := frame.GetLines(cache)
		if readErr != nil {
			continue
		}
		for _, line := range strings.Split(lines, "\n") {
			fmt.Fprintf(w, "    | %s\n", line)
		}
	}
}
