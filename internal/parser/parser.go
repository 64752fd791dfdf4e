// Package parser consumes a preprocessed token list and produces the
// expression tree the evaluator walks. Tokens are reversed onto a stack
// with a single unget slot; each grammar production is a small recursive
// function over that stream.
package parser

import (
	"fmt"

	"github.com/PedroManse/stt-sub000/internal/ast"
	"github.com/PedroManse/stt-sub000/internal/span"
	"github.com/PedroManse/stt-sub000/internal/token"
)

// Context is one parse run over a single token block.
type Context struct {
	toks     []token.Token // reversed; next token is the last element
	source   string
	ungotten *token.Token
}

// Parse parses a preprocessed token block into executable code.
func Parse(block *token.Block) (*ast.Code, error) {
	ctx := newContext(block.Tokens, block.Source)
	exprs, err := ctx.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Code{Source: block.Source, Exprs: exprs}, nil
}

func newContext(toks []token.Token, source string) *Context {
	rev := make([]token.Token, len(toks))
	for i, t := range toks {
		rev[len(toks)-1-i] = t
	}
	return &Context{toks: rev, source: source}
}

func (c *Context) next() (token.Token, bool) {
	if c.ungotten != nil {
		t := *c.ungotten
		c.ungotten = nil
		return t, true
	}
	n := len(c.toks)
	if n == 0 {
		return token.Token{}, false
	}
	t := c.toks[n-1]
	c.toks = c.toks[:n-1]
	return t, true
}

func (c *Context) unget(t token.Token) {
	if c.ungotten != nil {
		panic("parser: double unget")
	}
	c.ungotten = &t
}

// subParse parses a nested block's token list with the same source.
func (c *Context) subParse(toks []token.Token) ([]ast.Expr, error) {
	return newContext(toks, c.source).parseBlock()
}

func (c *Context) fail(state string, t token.Token) error {
	return &CantParseTokenError{State: state, Token: t.Cont.String(), Path: c.source}
}

func (c *Context) parseBlock() ([]ast.Expr, error) {
	var out []ast.Expr
	for {
		t, ok := c.next()
		if !ok {
			return out, nil
		}
		sp := t.Span
		switch t.Cont.Kind {
		case token.ContEndOfBlock:
			// Block sentinel; parsing continues to the list's end.
		case token.ContIdent:
			out = append(out, ast.Expr{Span: sp, Cont: ast.FnCallCont(t.Cont.Ident)})
		case token.ContStr:
			out = append(out, ast.Expr{Span: sp, Cont: ast.ImmediateCont(ast.StrValue(t.Cont.Str))})
		case token.ContNumber:
			out = append(out, ast.Expr{Span: sp, Cont: ast.ImmediateCont(ast.NumValue(t.Cont.Number))})
		case token.ContChar:
			out = append(out, ast.Expr{Span: sp, Cont: ast.ImmediateCont(ast.CharValue(t.Cont.Char))})
		case token.ContIncludedBlock:
			code, err := Parse(t.Cont.Block2)
			if err != nil {
				return nil, err
			}
			out = append(out, ast.Expr{Span: sp, Cont: ast.IncludedCodeCont(code)})
		case token.ContFnArgs:
			expr, err := c.parseClosure(t.Cont.FnArgs, sp)
			if err != nil {
				return nil, err
			}
			out = append(out, expr)
		case token.ContKeyword:
			expr, err := c.parseKeyword(t.Cont.Keyword, sp)
			if err != nil {
				return nil, err
			}
			out = append(out, expr)
		default:
			return nil, c.fail("Nothing", t)
		}
	}
}

func (c *Context) parseKeyword(kw token.RawKeyword, sp span.LineRange) (ast.Expr, error) {
	switch kw.Tag {
	case token.RawTRC:
		return ast.Expr{Span: sp, Cont: ast.KeywordCont(ast.DefinedGenericKeyword(kw.Generic))}, nil
	case token.RawBreak:
		return ast.Expr{Span: sp, Cont: ast.KeywordCont(ast.BreakKeyword())}, nil
	case token.RawReturn:
		return ast.Expr{Span: sp, Cont: ast.KeywordCont(ast.ReturnKeyword())}, nil
	case token.RawBubbleError:
		return ast.Expr{Span: sp, Cont: ast.KeywordCont(ast.BubbleErrorKeyword())}, nil
	case token.RawFnIntoClosure:
		return ast.Expr{Span: sp, Cont: ast.KeywordCont(ast.IntoClosureKeyword(kw.FnName))}, nil
	case token.RawSwitch:
		return c.parseSwitch(sp)
	case token.RawIfs:
		return c.parseIfs(sp)
	case token.RawWhile:
		return c.parseWhile(sp)
	case token.RawFn:
		return c.parseFnDef(kw.FnScope, sp)
	}
	// Include and pragma keywords are consumed by the preprocessor; one
	// surviving here means the stream was never preprocessed.
	return ast.Expr{}, c.fail("Nothing", token.Token{Cont: token.KeywordCont(kw), Span: sp})
}

// parseClosure handles a closure literal: an argument list, an optional
// output-type list, and the body block.
func (c *Context) parseClosure(args []ast.FnArgDef, sp span.LineRange) (ast.Expr, error) {
	var outs *ast.TypedOutputs
	t, ok := c.next()
	if !ok {
		return ast.Expr{}, c.fail("MakeClosureBlockOrOutArgs", token.Token{Cont: token.EndOfBlockCont(), Span: sp})
	}
	if t.Cont.Kind == token.ContFnArgs {
		outs = ast.NewTypedOutputs(t.Cont.FnArgs)
		sp = sp.Join(t.Span)
		if t, ok = c.next(); !ok {
			return ast.Expr{}, c.fail("MakeClosureBlock", token.Token{Cont: token.EndOfBlockCont(), Span: sp})
		}
	}
	if t.Cont.Kind != token.ContBlock {
		state := "MakeClosureBlockOrOutArgs"
		if outs != nil {
			state = "MakeClosureBlock"
		}
		return ast.Expr{}, c.fail(state, t)
	}
	code, err := c.subParse(t.Cont.Block)
	if err != nil {
		return ast.Expr{}, err
	}
	reqArgs, err := ast.NewClosurePartialArgs(args)
	if err != nil {
		return ast.Expr{}, fmt.Errorf("%w; closure's block spans lines %s", err, t.Span)
	}
	cl := &ast.Closure{Code: code, RequestArgs: reqArgs, OutputTypes: outs}
	sp = sp.Join(t.Span)
	return ast.Expr{Span: sp, Cont: ast.ImmediateCont(ast.ClosureValue(cl))}, nil
}

// parseSwitch consumes `value Block` case pairs and an optional trailing
// bare Block as the default arm. Any other token ends the switch and is
// re-fed to the outer production.
func (c *Context) parseSwitch(sp span.LineRange) (ast.Expr, error) {
	var cases []ast.SwitchCase
	for {
		t, ok := c.next()
		if !ok {
			return ast.Expr{Span: sp, Cont: ast.KeywordCont(ast.SwitchKeyword(cases, nil))}, nil
		}
		var key ast.Value
		switch t.Cont.Kind {
		case token.ContChar:
			key = ast.CharValue(t.Cont.Char)
		case token.ContStr:
			key = ast.StrValue(t.Cont.Str)
		case token.ContNumber:
			key = ast.NumValue(t.Cont.Number)
		case token.ContBlock:
			def, err := c.subParse(t.Cont.Block)
			if err != nil {
				return ast.Expr{}, err
			}
			sp = sp.Join(t.Span)
			return ast.Expr{Span: sp, Cont: ast.KeywordCont(ast.SwitchKeyword(cases, def))}, nil
		default:
			if t.Cont.Kind != token.ContEndOfBlock {
				c.unget(t)
			}
			return ast.Expr{Span: sp, Cont: ast.KeywordCont(ast.SwitchKeyword(cases, nil))}, nil
		}
		blk, ok := c.next()
		if !ok || blk.Cont.Kind != token.ContBlock {
			if !ok {
				blk = token.Token{Cont: token.EndOfBlockCont(), Span: sp}
			}
			return ast.Expr{}, c.fail("MakeSwitchCode", blk)
		}
		code, err := c.subParse(blk.Cont.Block)
		if err != nil {
			return ast.Expr{}, err
		}
		cases = append(cases, ast.SwitchCase{Key: key, Code: code})
		sp = sp.Join(blk.Span)
	}
}

// parseIfs consumes `Block Block` (check, code) pairs. Any other token
// ends the chain and is re-fed.
func (c *Context) parseIfs(sp span.LineRange) (ast.Expr, error) {
	var branches []ast.CondBranch
	for {
		t, ok := c.next()
		if !ok {
			return ast.Expr{Span: sp, Cont: ast.KeywordCont(ast.IfsKeyword(branches))}, nil
		}
		if t.Cont.Kind != token.ContBlock {
			if t.Cont.Kind != token.ContEndOfBlock {
				c.unget(t)
			}
			return ast.Expr{Span: sp, Cont: ast.KeywordCont(ast.IfsKeyword(branches))}, nil
		}
		check, err := c.subParse(t.Cont.Block)
		if err != nil {
			return ast.Expr{}, err
		}
		blk, ok := c.next()
		if !ok || blk.Cont.Kind != token.ContBlock {
			if !ok {
				blk = token.Token{Cont: token.EndOfBlockCont(), Span: sp}
			}
			return ast.Expr{}, c.fail("MakeIfsCode", blk)
		}
		code, err := c.subParse(blk.Cont.Block)
		if err != nil {
			return ast.Expr{}, err
		}
		branches = append(branches, ast.CondBranch{Check: check, Code: code})
		sp = sp.Join(blk.Span)
	}
}

func (c *Context) parseWhile(sp span.LineRange) (ast.Expr, error) {
	t, ok := c.next()
	if !ok || t.Cont.Kind != token.ContBlock {
		if !ok {
			t = token.Token{Cont: token.EndOfBlockCont(), Span: sp}
		}
		return ast.Expr{}, c.fail("MakeWhile", t)
	}
	check, err := c.subParse(t.Cont.Block)
	if err != nil {
		return ast.Expr{}, err
	}
	blk, ok := c.next()
	if !ok || blk.Cont.Kind != token.ContBlock {
		if !ok {
			blk = token.Token{Cont: token.EndOfBlockCont(), Span: sp}
		}
		return ast.Expr{}, c.fail("MakeWhileCode", blk)
	}
	code, err := c.subParse(blk.Cont.Block)
	if err != nil {
		return ast.Expr{}, err
	}
	sp = sp.Join(blk.Span)
	return ast.Expr{Span: sp, Cont: ast.KeywordCont(ast.WhileKeyword(check, code))}, nil
}

// parseFnDef consumes a function definition: `[args]` or `*`, an optional
// output-type list, the function name, and the body block.
func (c *Context) parseFnDef(scope ast.FnScope, sp span.LineRange) (ast.Expr, error) {
	t, ok := c.next()
	if !ok {
		return ast.Expr{}, c.fail("MakeFnArgs", token.Token{Cont: token.EndOfBlockCont(), Span: sp})
	}
	var args ast.FnArgs
	switch {
	case t.Cont.Kind == token.ContFnArgs:
		args = ast.NamedArgs(t.Cont.FnArgs)
	case t.Cont.Kind == token.ContIdent && t.Cont.Ident == "*":
		args = ast.AllStackArgs()
	case t.Cont.Kind == token.ContIdent:
		return ast.Expr{}, &WrongParamListError{Got: t.Cont.Ident, Path: c.source}
	default:
		return ast.Expr{}, c.fail("MakeFnArgs", t)
	}
	sp = sp.Join(t.Span)

	var outs *ast.TypedOutputs
	t, ok = c.next()
	if !ok {
		return ast.Expr{}, c.fail("MakeFnNameOrOutArgs", token.Token{Cont: token.EndOfBlockCont(), Span: sp})
	}
	if t.Cont.Kind == token.ContFnArgs {
		outs = ast.NewTypedOutputs(t.Cont.FnArgs)
		sp = sp.Join(t.Span)
		if t, ok = c.next(); !ok {
			return ast.Expr{}, c.fail("MakeFnName", token.Token{Cont: token.EndOfBlockCont(), Span: sp})
		}
	}
	if t.Cont.Kind != token.ContIdent {
		state := "MakeFnNameOrOutArgs"
		if outs != nil {
			state = "MakeFnName"
		}
		return ast.Expr{}, c.fail(state, t)
	}
	name := t.Cont.Ident
	sp = sp.Join(t.Span)

	blk, ok := c.next()
	if !ok || blk.Cont.Kind != token.ContBlock {
		if !ok {
			blk = token.Token{Cont: token.EndOfBlockCont(), Span: sp}
		}
		return ast.Expr{}, c.fail("MakeFnBlock", blk)
	}
	code, err := c.subParse(blk.Cont.Block)
	if err != nil {
		return ast.Expr{}, err
	}
	sp = sp.Join(blk.Span)
	return ast.Expr{Span: sp, Cont: ast.KeywordCont(ast.FnDefKeyword(name, scope, code, args, outs))}, nil
}
