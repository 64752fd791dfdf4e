// Package token holds the tokenizer's output vocabulary: the flat token
// list a source file's character stream is reduced to before preprocessing
// and parsing.
package token

import (
	"fmt"
	"strings"

	"github.com/PedroManse/stt-sub000/internal/ast"
	"github.com/PedroManse/stt-sub000/internal/span"
	"github.com/PedroManse/stt-sub000/internal/typesystem"
)

// RawKeywordTag tags the variant of RawKeyword held.
type RawKeywordTag int

const (
	RawBubbleError RawKeywordTag = iota
	RawReturn
	RawFn
	RawIfs
	RawWhile
	RawInclude
	RawPragma
	RawSwitch
	RawBreak
	RawFnIntoClosure
	RawTRC
)

// RawKeyword is the parenthesized word a Keyword token carries, before the
// parser turns it into an ast.KeywordKind.
type RawKeyword struct {
	Tag RawKeywordTag

	FnScope ast.FnScope    // RawFn
	Path    string         // RawInclude
	Command string         // RawPragma
	FnName  string         // RawFnIntoClosure
	Generic typesystem.DefinedGenericBuilder // RawTRC
}

func KwBubbleError() RawKeyword          { return RawKeyword{Tag: RawBubbleError} }
func KwReturn() RawKeyword               { return RawKeyword{Tag: RawReturn} }
func KwFn(scope ast.FnScope) RawKeyword  { return RawKeyword{Tag: RawFn, FnScope: scope} }
func KwIfs() RawKeyword                  { return RawKeyword{Tag: RawIfs} }
func KwWhile() RawKeyword                { return RawKeyword{Tag: RawWhile} }
func KwInclude(path string) RawKeyword   { return RawKeyword{Tag: RawInclude, Path: path} }
func KwPragma(command string) RawKeyword { return RawKeyword{Tag: RawPragma, Command: command} }
func KwSwitch() RawKeyword                { return RawKeyword{Tag: RawSwitch} }
func KwBreak() RawKeyword                 { return RawKeyword{Tag: RawBreak} }
func KwFnIntoClosure(fnName string) RawKeyword {
	return RawKeyword{Tag: RawFnIntoClosure, FnName: fnName}
}
func KwTRC(g typesystem.DefinedGenericBuilder) RawKeyword {
	return RawKeyword{Tag: RawTRC, Generic: g}
}

// ContKind tags the variant of TokenCont held.
type ContKind int

const (
	ContChar ContKind = iota
	ContIdent
	ContStr
	ContNumber
	ContKeyword
	ContFnArgs
	ContBlock
	ContIncludedBlock
	ContEndOfBlock
)

// TokenCont is a token's payload: the kind tag plus the kind's data.
type TokenCont struct {
	Kind ContKind

	Char    rune
	Ident   string
	Str     string
	Number  int64
	Keyword RawKeyword
	FnArgs  []ast.FnArgDef
	Block   []Token
	Block2  *Block // IncludedBlock
}

func CharCont(c rune) TokenCont           { return TokenCont{Kind: ContChar, Char: c} }
func IdentCont(s string) TokenCont        { return TokenCont{Kind: ContIdent, Ident: s} }
func StrCont(s string) TokenCont          { return TokenCont{Kind: ContStr, Str: s} }
func NumberCont(n int64) TokenCont        { return TokenCont{Kind: ContNumber, Number: n} }
func KeywordCont(k RawKeyword) TokenCont  { return TokenCont{Kind: ContKeyword, Keyword: k} }
func FnArgsCont(a []ast.FnArgDef) TokenCont {
	return TokenCont{Kind: ContFnArgs, FnArgs: a}
}
func BlockCont(toks []Token) TokenCont { return TokenCont{Kind: ContBlock, Block: toks} }
func IncludedBlockCont(b *Block) TokenCont {
	return TokenCont{Kind: ContIncludedBlock, Block2: b}
}
func EndOfBlockCont() TokenCont { return TokenCont{Kind: ContEndOfBlock} }

func (c TokenCont) String() string {
	switch c.Kind {
	case ContChar:
		return fmt.Sprintf("char %q", c.Char)
	case ContIdent:
		return fmt.Sprintf("ident `%s`", c.Ident)
	case ContStr:
		return fmt.Sprintf("string %q", c.Str)
	case ContNumber:
		return fmt.Sprintf("number %d", c.Number)
	case ContKeyword:
		return fmt.Sprintf("keyword (%s)", c.Keyword)
	case ContFnArgs:
		names := make([]string, len(c.FnArgs))
		for i, a := range c.FnArgs {
			names[i] = a.Name
		}
		return fmt.Sprintf("argument list [%s]", strings.Join(names, " "))
	case ContBlock:
		return fmt.Sprintf("block of %d tokens", len(c.Block))
	case ContIncludedBlock:
		return fmt.Sprintf("included block from %s", c.Block2.Source)
	case ContEndOfBlock:
		return "end of block"
	}
	return "unknown token"
}

func (k RawKeyword) String() string {
	switch k.Tag {
	case RawBubbleError:
		return "!"
	case RawReturn:
		return "return"
	case RawFn:
		switch k.FnScope {
		case ast.ScopeGlobal:
			return "fn*"
		case ast.ScopeIsolated:
			return "fn-"
		}
		return "fn"
	case RawIfs:
		return "ifs"
	case RawWhile:
		return "while"
	case RawInclude:
		return "include " + k.Path
	case RawPragma:
		return "pragma " + k.Command
	case RawSwitch:
		return "switch"
	case RawBreak:
		return "break"
	case RawFnIntoClosure:
		return "@" + k.FnName
	case RawTRC:
		return "TRC " + k.Generic.Name
	}
	return "unknown"
}

// Token pairs a TokenCont with the source span it was read from.
type Token struct {
	Cont TokenCont
	Span span.LineRange
}

// Block is a named, flat token list terminated by EndOfBlock: the unit
// produced by tokenizing one file or one included block.
type Block struct {
	Source string
	Tokens []Token
}
