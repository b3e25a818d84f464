package lexer

import (
	"fmt"
	"strings"
)

// LexError reports a malformed token: an unterminated string or comment, an
// invalid character, or a broken qualified name.
type LexError struct {
	Message string
	Pos     Position
	Input   string
}

// Error returns the formatted error message with line/column and a code snippet
func (e *LexError) Error() string {
	snippet := Snippet(e.Input, e.Pos)
	if snippet == "" {
		return fmt.Sprintf("lex error: %s at %d:%d", e.Message, e.Pos.Line, e.Pos.Column)
	}
	return fmt.Sprintf("lex error: %s\n%s", e.Message, snippet)
}

// Snippet renders the offending source line with a caret pointer.
func Snippet(input string, pos Position) string {
	if input == "" || pos.Line == 0 {
		return ""
	}

	lines := strings.Split(input, "\n")
	if pos.Line > len(lines) {
		return ""
	}
	lineContent := lines[pos.Line-1]

	var snippet strings.Builder
	snippet.WriteString(fmt.Sprintf("  --> %d:%d\n", pos.Line, pos.Column))
	snippet.WriteString("   |\n")
	snippet.WriteString(fmt.Sprintf("%2d | %s\n", pos.Line, lineContent))
	snippet.WriteString("   | ")
	if pos.Column > 0 && pos.Column <= len(lineContent)+1 {
		snippet.WriteString(strings.Repeat(" ", pos.Column-1) + "^")
	}
	return snippet.String()
}
