// Package lexer turns a character stream into the flat token list consumed
// by the preprocessor and parser.
package lexer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PedroManse/stt-sub000/internal/ast"
	"github.com/PedroManse/stt-sub000/internal/span"
	"github.com/PedroManse/stt-sub000/internal/token"
	"github.com/PedroManse/stt-sub000/internal/typesystem"
)

type stateKind int

const (
	stNothing stateKind = iota
	stOnComment
	stMakeIdent
	stMakeString
	stMakeStringEsc
	stMinus
	stMakeNumber
	stMakeKeyword
	stMakeFnArgs
	stMakeFnArgType
	stMakeChar
	stMakeCharEnd
	stMakeCharEndEsc
)

// state is the machine's accumulator. It is copied freely between
// transitions, so the buffers are plain rune slices.
type state struct {
	kind stateKind

	buf       []rune
	lineStart int

	args     []ast.FnArgDef
	argName  string
	typeBuf  []rune
	tagCount int

	char rune
}

func (s state) String() string {
	names := []string{
		"Nothing", "OnComment", "MakeIdent", "MakeString", "MakeStringEsc",
		"Minus", "MakeNumber", "MakeKeyword", "MakeFnArgs", "MakeFnArgType",
		"MakeChar", "MakeCharEnd", "MakeCharEndEsc",
	}
	if int(s.kind) < len(names) {
		return names[s.kind]
	}
	return "Unknown"
}

func (s state) withRune(ch rune) state {
	cp := s
	cp.buf = append(append([]rune{}, s.buf...), ch)
	return cp
}

func (s state) withTypeRune(ch rune) state {
	cp := s
	cp.typeBuf = append(append([]rune{}, s.typeBuf...), ch)
	return cp
}

func isLetter(c rune) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigit(c rune) bool  { return c >= '0' && c <= '9' }
func isSpace(c rune) bool  { return c == ' ' || c == '\n' || c == '\t' }
func isWordEdge(c rune) bool {
	switch c {
	case '(', ')', '{', '}', '[', ']':
		return true
	}
	return false
}
func isStartIdent(c rune) bool {
	if isLetter(c) {
		return true
	}
	switch c {
	case '+', '_', '%', '!', '?', '$', '=', '*', '&', '<', '>', '≃', ',', ':', '~', '@':
		return true
	}
	return false
}
func isIdentCont(c rune) bool {
	return isStartIdent(c) || isDigit(c) || c == '.' || c == '/' || c == '\'' || c == '-'
}
func isArgIdent(c rune) bool {
	return isLetter(c) || c == '_' || c == '-' || c == '&'
}
func isArgType(c rune) bool {
	return isLetter(c) || isSpace(c) || c == '?' || c == '*'
}

// Context is the tokenizer's cursor over a decoded character buffer.
type Context struct {
	chars       []rune
	point       int
	currentLine int
	changedLine bool
}

func NewContext(code string) *Context {
	return &Context{chars: []rune(code), currentLine: 1}
}

func (c *Context) next() (rune, bool) {
	if c.point >= len(c.chars) {
		return 0, false
	}
	ch := c.chars[c.point]
	if c.changedLine {
		c.currentLine++
		c.changedLine = false
	}
	if ch == '\n' {
		c.changedLine = true
	}
	c.point++
	return ch, true
}

func (c *Context) unget() {
	c.point--
	if c.point < len(c.chars) && c.chars[c.point] == '\n' {
		c.changedLine = false
	}
}

func (c *Context) atEOF() bool { return c.point == len(c.chars) }

// Tokenize runs the full state machine over code, named sourcePath for
// the returned block's Source field.
func Tokenize(sourcePath string, code string) (*token.Block, error) {
	c := NewContext(code)
	toks, err := c.tokenizeBlock()
	if err != nil {
		return nil, err
	}
	return &token.Block{Source: sourcePath, Tokens: toks}, nil
}

func (c *Context) pushToken(out *[]token.Token, cont token.TokenCont) {
	sp := span.FromPoints(c.currentLine, c.currentLine)
	*out = append(*out, token.Token{Cont: cont, Span: sp})
}

func (c *Context) pushMultilineToken(out *[]token.Token, cont token.TokenCont, lineStart int) {
	sp := span.FromPoints(lineStart, c.currentLine)
	*out = append(*out, token.Token{Cont: cont, Span: sp})
}

// tokenizeBlock consumes characters until a matching '}' or end of input.
func (c *Context) tokenizeBlock() ([]token.Token, error) {
	st := state{kind: stNothing}
	var out []token.Token

	for {
		ch, ok := c.next()
		if !ok {
			break
		}
		next, err := c.step(st, ch, &out)
		if err != nil {
			if done, ok := err.(errDone); ok {
				return done.out, nil
			}
			return nil, err
		}
		st = next
	}

	if !c.atEOF() {
		return nil, fmt.Errorf("tokenizer: internal inconsistency, not at EOF after loop")
	}
	switch st.kind {
	case stNothing, stOnComment:
	case stMakeIdent, stMinus:
		c.pushToken(&out, token.IdentCont(string(st.buf)))
	case stMakeNumber:
		n, perr := strconv.ParseInt(string(st.buf), 10, 64)
		if perr != nil {
			return nil, perr
		}
		c.pushToken(&out, token.NumberCont(n))
	default:
		return nil, &UnexpectedEOFError{State: st.String()}
	}
	c.pushToken(&out, token.EndOfBlockCont())
	return out, nil
}

func (c *Context) step(st state, ch rune, out *[]token.Token) (state, error) {
	switch st.kind {
	case stNothing:
		switch {
		case ch == '{':
			blockStart := c.currentLine
			block, err := c.tokenizeBlock()
			if err != nil {
				return state{}, err
			}
			c.pushMultilineToken(out, token.BlockCont(block), blockStart)
			return state{kind: stNothing}, nil
		case ch == '}':
			c.pushToken(out, token.EndOfBlockCont())
			return state{}, errDone{out: *out}
		case ch == '\'':
			return state{kind: stMakeChar}, nil
		case ch == '-':
			return state{kind: stMinus, buf: []rune{ch}}, nil
		case isStartIdent(ch):
			return state{kind: stMakeIdent, buf: []rune{ch}}, nil
		case ch == '"':
			return state{kind: stMakeString, lineStart: c.currentLine}, nil
		case isDigit(ch):
			return state{kind: stMakeNumber, buf: []rune{ch}}, nil
		case ch == '(':
			return state{kind: stMakeKeyword, lineStart: c.currentLine}, nil
		case ch == '[':
			return state{kind: stMakeFnArgs, lineStart: c.currentLine}, nil
		case ch == '#':
			return state{kind: stOnComment}, nil
		case isSpace(ch):
			return state{kind: stNothing}, nil
		}
	case stOnComment:
		if ch == '\n' {
			return state{kind: stNothing}, nil
		}
		return state{kind: stOnComment}, nil
	case stMakeChar:
		if ch == '\'' {
			return state{}, ErrMissingChar
		}
		return state{kind: stMakeCharEnd, char: ch}, nil
	case stMakeCharEnd:
		switch {
		case st.char == '\\' && (ch == '\\' || ch == '\''):
			return state{kind: stMakeCharEndEsc, char: ch}, nil
		case st.char == '\\' && ch == 'n':
			return state{kind: stMakeCharEndEsc, char: '\n'}, nil
		case ch == '\'':
			c.pushToken(out, token.CharCont(st.char))
			return state{kind: stNothing}, nil
		}
	case stMakeCharEndEsc:
		if ch == '\'' {
			c.pushToken(out, token.CharCont(st.char))
			return state{kind: stNothing}, nil
		}
	case stMinus:
		if isDigit(ch) {
			next := st.withRune(ch)
			next.kind = stMakeNumber
			return next, nil
		}
		c.unget()
		next := st
		next.kind = stMakeIdent
		return next, nil
	case stMakeIdent:
		switch {
		case isIdentCont(ch):
			return st.withRune(ch), nil
		case isSpace(ch):
			c.pushToken(out, token.IdentCont(string(st.buf)))
			return state{kind: stNothing}, nil
		case isWordEdge(ch):
			c.pushToken(out, token.IdentCont(string(st.buf)))
			c.unget()
			return state{kind: stNothing}, nil
		}
	case stMakeString:
		switch ch {
		case '"':
			c.pushMultilineToken(out, token.StrCont(string(st.buf)), st.lineStart)
			return state{kind: stNothing}, nil
		case '\\':
			next := st
			next.kind = stMakeStringEsc
			return next, nil
		default:
			return st.withRune(ch), nil
		}
	case stMakeStringEsc:
		switch ch {
		case '\\':
			next := st.withRune('\\')
			next.kind = stMakeString
			return next, nil
		case 'n':
			next := st.withRune('\n')
			next.kind = stMakeString
			return next, nil
		}
	case stMakeNumber:
		switch {
		case isDigit(ch):
			return st.withRune(ch), nil
		case isSpace(ch):
			if err := c.pushNumber(out, string(st.buf)); err != nil {
				return state{}, err
			}
			return state{kind: stNothing}, nil
		case isWordEdge(ch):
			if err := c.pushNumber(out, string(st.buf)); err != nil {
				return state{}, err
			}
			c.unget()
			return state{kind: stNothing}, nil
		case ch == ',':
			if err := c.pushNumber(out, string(st.buf)); err != nil {
				return state{}, err
			}
			c.pushToken(out, token.IdentCont(","))
			return state{kind: stNothing}, nil
		}
	case stMakeKeyword:
		if ch == ')' {
			kw, err := parseRawKeyword(strings.TrimSpace(string(st.buf)))
			if err != nil {
				return state{}, err
			}
			c.pushMultilineToken(out, token.KeywordCont(kw), st.lineStart)
			return state{kind: stNothing}, nil
		}
		return st.withRune(ch), nil
	case stMakeFnArgs:
		switch {
		case isSpace(ch):
			args := st.args
			if len(st.buf) > 0 {
				args = append(args, ast.UntypedArg(string(st.buf)))
			}
			return state{kind: stMakeFnArgs, args: args, lineStart: st.lineStart}, nil
		case ch == '<':
			return state{
				kind:      stMakeFnArgType,
				args:      st.args,
				argName:   string(st.buf),
				lineStart: st.lineStart,
			}, nil
		case isArgIdent(ch):
			return st.withRune(ch), nil
		case ch == ']':
			args := st.args
			if len(st.buf) > 0 {
				args = append(args, ast.UntypedArg(string(st.buf)))
			}
			c.pushMultilineToken(out, token.FnArgsCont(args), st.lineStart)
			return state{kind: stNothing}, nil
		}
	case stMakeFnArgType:
		switch {
		case ch == '<':
			next := st.withTypeRune(ch)
			next.tagCount++
			return next, nil
		case ch == '>' && st.tagCount == 0:
			tt, err := typesystem.ParseTypeTester(strings.TrimSpace(string(st.typeBuf)))
			if err != nil {
				return state{}, err
			}
			args := append(st.args, ast.TypedArg(st.argName, tt))
			return state{kind: stMakeFnArgs, args: args, lineStart: st.lineStart}, nil
		case ch == '>':
			next := st.withTypeRune(ch)
			next.tagCount--
			return next, nil
		case isArgType(ch):
			return st.withTypeRune(ch), nil
		}
	}
	return state{}, &CantTokenizeCharError{State: st.String(), Char: ch}
}

func (c *Context) pushNumber(out *[]token.Token, buf string) error {
	n, err := strconv.ParseInt(buf, 10, 64)
	if err != nil {
		return err
	}
	c.pushToken(out, token.NumberCont(n))
	return nil
}

// errDone signals a completed block (hit '}') back up through step and
// tokenizeBlock without treating it as an error.
type errDone struct {
	out []token.Token
}

func (errDone) Error() string { return "done" }

func parseRawKeyword(body string) (token.RawKeyword, error) {
	switch body {
	case "!":
		return token.KwBubbleError(), nil
	case "fn":
		return token.KwFn(ast.ScopeLocal), nil
	case "fn*":
		return token.KwFn(ast.ScopeGlobal), nil
	case "fn-":
		return token.KwFn(ast.ScopeIsolated), nil
	case "while":
		return token.KwWhile(), nil
	case "return":
		return token.KwReturn(), nil
	case "switch":
		return token.KwSwitch(), nil
	case "break":
		return token.KwBreak(), nil
	case "ifs":
		return token.KwIfs(), nil
	}
	if p, ok := strings.CutPrefix(body, "include "); ok {
		return token.KwInclude(strings.TrimSpace(p)), nil
	}
	if p, ok := strings.CutPrefix(body, "pragma "); ok {
		return token.KwPragma(p), nil
	}
	if p, ok := strings.CutPrefix(body, "@"); ok {
		return token.KwFnIntoClosure(p), nil
	}
	if p, ok := strings.CutPrefix(body, "TRC"); ok {
		builder, err := typesystem.ParseDefinedGeneric(strings.TrimSpace(p))
		if err != nil {
			return token.RawKeyword{}, err
		}
		return token.KwTRC(builder), nil
	}
	return token.RawKeyword{}, &UnknownKeywordError{Raw: body}
}
