package lexer

import (
	"errors"
	"fmt"
)

// ErrMissingChar reports an empty char literal ('').
var ErrMissingChar = errors.New("missing char")

// UnexpectedEOFError reports running off the end of input mid-accumulation.
type UnexpectedEOFError struct {
	State string
}

func (e *UnexpectedEOFError) Error() string {
	return fmt.Sprintf("unexpected end of file while building token %s", e.State)
}

// CantTokenizeCharError reports a (state, char) pair the state machine has
// no transition for.
type CantTokenizeCharError struct {
	State string
	Char  rune
}

func (e *CantTokenizeCharError) Error() string {
	return fmt.Sprintf("tokenizer: no rule for state %s with char %q", e.State, e.Char)
}

// UnknownKeywordError reports a parenthesized word matching none of the
// recognized RawKeyword forms.
type UnknownKeywordError struct {
	Raw string
}

func (e *UnknownKeywordError) Error() string {
	return fmt.Sprintf("unknown keyword: %s", e.Raw)
}
