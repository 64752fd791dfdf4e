package parser

import "fmt"

// CantParseTokenError reports a token arriving in a parser state that has
// no rule for it.
type CantParseTokenError struct {
	State string
	Token string
	Path  string
}

func (e *CantParseTokenError) Error() string {
	return fmt.Sprintf("parser in file %s: state %s doesn't accept token: %s", e.Path, e.State, e.Token)
}

// WrongParamListError reports a (fn) keyword followed by an identifier
// other than `*` where a parameter list was expected.
type WrongParamListError struct {
	Got  string
	Path string
}

func (e *WrongParamListError) Error() string {
	return fmt.Sprintf("parser in file %s: can only use param list or '*' as function arguments, not %s", e.Path, e.Got)
}
