package parser

import (
	"fmt"

	"github.com/marionette-lang/marionette/pkgs/lexer"
)

// ParseError represents a malformed statement shape with location context.
type ParseError struct {
	Message string
	Token   lexer.Token
	Input   string
}

// Error returns the formatted error message with line/column and a code snippet
func (e *ParseError) Error() string {
	snippet := lexer.Snippet(e.Input, e.Token.Position)
	if snippet == "" {
		return fmt.Sprintf("parse error: %s at %d:%d",
			e.Message, e.Token.Position.Line, e.Token.Position.Column)
	}
	return fmt.Sprintf("parse error: %s\n%s", e.Message, snippet)
}

// errorf creates a ParseError at the current token.
func (p *Parser) errorf(format string, args ...any) error {
	return &ParseError{
		Message: fmt.Sprintf(format, args...),
		Token:   p.current(),
		Input:   p.input,
	}
}

// errorAtf creates a ParseError at a specific token.
func (p *Parser) errorAtf(tok lexer.Token, format string, args ...any) error {
	return &ParseError{
		Message: fmt.Sprintf(format, args...),
		Token:   tok,
		Input:   p.input,
	}
}
