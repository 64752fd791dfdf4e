// Package preprocessor flattens a token stream: include keywords are
// replaced by the tokenized and preprocessed contents of the referenced
// file, pragma conditionals are resolved against a preprocessor-variable
// set, and nested blocks are descended into recursively.
package preprocessor

import (
	"path/filepath"

	"github.com/PedroManse/stt-sub000/internal/lexer"
	"github.com/PedroManse/stt-sub000/internal/sourcecache"
	"github.com/PedroManse/stt-sub000/internal/token"
)

// RootFileName is the file included when an include path names a directory.
const RootFileName = "stck.stt"

// Context carries one preprocessing run's state: the file-reading
// capability, the variable set pragma conditionals test against, extra
// include search roots, and the in-progress include chain used to refuse
// cycles.
type Context struct {
	cache    sourcecache.FileCacher
	vars     map[string]bool
	roots    []string
	visiting map[string]bool
}

func New(cache sourcecache.FileCacher) *Context {
	return &Context{
		cache:    cache,
		vars:     make(map[string]bool),
		visiting: make(map[string]bool),
	}
}

// Define pre-seeds a preprocessor variable before processing begins.
func (c *Context) Define(name string) {
	c.vars[name] = true
}

// AddRoot appends a directory to the include search path. Includes resolve
// relative to the including file's directory first, then each root in
// order.
func (c *Context) AddRoot(dir string) {
	c.roots = append(c.roots, dir)
}

// section is one open pragma-if region. keep is whether tokens in the
// current arm survive; elsed is set once (pragma else) flipped it.
type section struct {
	keep  bool
	elsed bool
}

// Process flattens block. The block's Source anchors relative include
// paths.
func (c *Context) Process(block *token.Block) (*token.Block, error) {
	dir := filepath.Dir(block.Source)
	toks, err := c.processTokens(block.Tokens, dir)
	if err != nil {
		return nil, err
	}
	return &token.Block{Source: block.Source, Tokens: toks}, nil
}

func (c *Context) processTokens(toks []token.Token, dir string) ([]token.Token, error) {
	out := make([]token.Token, 0, len(toks))
	var sections []section

	active := func() bool {
		for _, s := range sections {
			if !s.keep {
				return false
			}
		}
		return true
	}

	for _, tok := range toks {
		switch tok.Cont.Kind {
		case token.ContKeyword:
			kw := tok.Cont.Keyword
			switch kw.Tag {
			case token.RawPragma:
				if err := c.applyPragma(kw.Command, tok, &sections, active()); err != nil {
					return nil, err
				}
				continue
			case token.RawInclude:
				if !active() {
					continue
				}
				included, err := c.include(kw.Path, dir)
				if err != nil {
					return nil, err
				}
				out = append(out, token.Token{
					Cont: token.IncludedBlockCont(included),
					Span: tok.Span,
				})
				continue
			}
		case token.ContBlock:
			if !active() {
				continue
			}
			inner, err := c.processTokens(tok.Cont.Block, dir)
			if err != nil {
				return nil, err
			}
			out = append(out, token.Token{Cont: token.BlockCont(inner), Span: tok.Span})
			continue
		}
		if active() {
			out = append(out, tok)
		}
	}
	return out, nil
}

func (c *Context) applyPragma(command string, tok token.Token, sections *[]section, active bool) error {
	cmd, arg, _ := cutSpace(command)
	switch cmd {
	case "def":
		if active {
			c.vars[arg] = true
		}
	case "if":
		*sections = append(*sections, section{keep: c.vars[arg]})
	case "else":
		n := len(*sections)
		if n == 0 {
			return &CantElseCurrentSectionError{Span: tok.Span}
		}
		top := &(*sections)[n-1]
		if top.elsed {
			cur := ProcElse
			return &CantElseCurrentSectionError{Span: tok.Span, Current: &cur}
		}
		top.keep = !top.keep
		top.elsed = true
	case "end":
		n := len(*sections)
		if n == 0 {
			return &NoSectionToCloseError{Span: tok.Span}
		}
		*sections = (*sections)[:n-1]
	default:
		return &InvalidPragmaError{Command: command}
	}
	return nil
}

func cutSpace(s string) (string, string, bool) {
	for i, r := range s {
		if r == ' ' || r == '\t' {
			return s[:i], trimLeftSpace(s[i+1:]), true
		}
	}
	return s, "", false
}

func trimLeftSpace(s string) string {
	for len(s) > 0 && (s[0] == ' ' || s[0] == '\t') {
		s = s[1:]
	}
	return s
}

// include resolves, tokenizes, and recursively preprocesses one included
// file. A path naming a directory falls back to its RootFileName; a path
// already on the include chain is a cycle.
func (c *Context) include(path, dir string) (*token.Block, error) {
	resolved, content, err := c.resolve(path, dir)
	if err != nil {
		return nil, err
	}
	if c.visiting[resolved] {
		return nil, &IncludeCycleError{Path: resolved}
	}
	c.visiting[resolved] = true
	defer delete(c.visiting, resolved)

	raw, err := lexer.Tokenize(resolved, content)
	if err != nil {
		return nil, err
	}
	return c.Process(raw)
}

func (c *Context) resolve(path, dir string) (string, string, error) {
	var lastErr error
	dirs := append([]string{dir}, c.roots...)
	for _, d := range dirs {
		p := filepath.Join(d, path)
		cont, err := c.cache.ReadFile(p)
		if err == nil {
			return p, cont, nil
		}
		lastErr = err
		p = filepath.Join(d, path, RootFileName)
		if cont, err = c.cache.ReadFile(p); err == nil {
			return p, cont, nil
		}
	}
	return "", "", &CantReadFileError{Path: filepath.Join(dir, path), Err: lastErr}
}
