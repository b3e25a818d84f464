package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes manifest source in a single forward pass.
//
// Newlines carry no meaning in the manifest grammar, so they are treated as
// ordinary whitespace; statements are delimited by structure alone.
type Lexer struct {
	input    string // Complete input
	position int    // Current position in input (byte offset)
	readPos  int    // Current reading position in input (byte offset)
	ch       rune   // Current rune under examination
	line     int    // Current line number
	column   int    // Current column number
}

// New creates a Lexer over the given source text.
func New(input string) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 0, // Incremented to 1 by the initial readChar
	}
	l.readChar()
	return l
}

// Tokenize scans the whole input and returns the token stream with comments
// stripped. The first malformed token aborts the scan with a *LexError.
func Tokenize(input string) ([]Token, error) {
	l := New(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		switch tok.Type {
		case ILLEGAL:
			return nil, &LexError{Message: tok.Text, Pos: tok.Position, Input: input}
		case COMMENT:
			continue
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

// readChar reads the next character and advances position
func (l *Lexer) readChar() {
	l.position = l.readPos

	if l.readPos >= len(l.input) {
		l.ch = 0 // EOF
	} else {
		var size int
		l.ch, size = utf8.DecodeRuneInString(l.input[l.readPos:])
		if l.ch == utf8.RuneError {
			l.ch = rune(l.input[l.readPos])
			size = 1
		}
		l.readPos += size
	}

	if l.ch == '\n' {
		l.line++
		l.column = 0 // Incremented to 1 for the next character
	} else {
		l.column++
	}
}

// peekChar returns the next character without advancing position
func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	ch, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return ch
}

// skipWhitespace skips whitespace including newlines
func (l *Lexer) skipWhitespace() {
	for l.ch != 0 {
		if l.ch < 128 && isWhitespace[l.ch] {
			l.readChar()
		} else if l.ch >= 128 && unicode.IsSpace(l.ch) {
			l.readChar()
		} else {
			break
		}
	}
}

// NextToken returns the next token from the input. Comments are returned as
// COMMENT tokens; malformed input is returned as an ILLEGAL token whose Text
// holds the diagnostic message.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	start := l.position
	startLine, startColumn := l.line, l.column

	switch l.ch {
	case 0:
		return l.newToken(EOF, "", start, startLine, startColumn)

	case '{':
		l.readChar()
		return l.newToken(LBRACE, "", start, startLine, startColumn)
	case '}':
		l.readChar()
		return l.newToken(RBRACE, "", start, startLine, startColumn)
	case '[':
		l.readChar()
		return l.newToken(LSQUARE, "", start, startLine, startColumn)
	case ']':
		l.readChar()
		return l.newToken(RSQUARE, "", start, startLine, startColumn)
	case ':':
		l.readChar()
		return l.newToken(COLON, "", start, startLine, startColumn)
	case ',':
		l.readChar()
		return l.newToken(COMMA, "", start, startLine, startColumn)

	case '=':
		l.readChar()
		if l.ch == '>' {
			l.readChar()
			return l.newToken(FATARROW, "", start, startLine, startColumn)
		}
		return l.newToken(EQUALS, "", start, startLine, startColumn)

	case '-':
		l.readChar()
		if l.ch == '>' {
			l.readChar()
			return l.newToken(ARROW, "", start, startLine, startColumn)
		}
		return l.newToken(ILLEGAL, "expected '>' after '-'", start, startLine, startColumn)

	case '~':
		l.readChar()
		if l.ch == '>' {
			l.readChar()
			return l.newToken(NOTIFY, "", start, startLine, startColumn)
		}
		return l.newToken(ILLEGAL, "expected '>' after '~'", start, startLine, startColumn)

	case '<':
		l.readChar()
		switch l.ch {
		case '-':
			l.readChar()
			return l.newToken(REQUIRE, "", start, startLine, startColumn)
		case '~':
			l.readChar()
			return l.newToken(SUBSCRIBE, "", start, startLine, startColumn)
		}
		return l.newToken(ILLEGAL, "expected '-' or '~' after '<'", start, startLine, startColumn)

	case '$':
		return l.lexVariable(start, startLine, startColumn)

	case '\'', '"':
		return l.lexString(byte(l.ch), start, startLine, startColumn)

	case '#':
		return l.lexLineComment(start, startLine, startColumn)

	case '/':
		if l.peekChar() == '*' {
			return l.lexBlockComment(start, startLine, startColumn)
		}
		l.readChar()
		return l.newToken(ILLEGAL, "invalid character '/'", start, startLine, startColumn)

	default:
		if (l.ch < 128 && isIdentStart[l.ch]) || (l.ch >= 128 && unicode.IsLetter(l.ch)) {
			return l.lexName(start, startLine, startColumn)
		}
		msg := fmt.Sprintf("invalid character %q", l.ch)
		l.readChar()
		return l.newToken(ILLEGAL, msg, start, startLine, startColumn)
	}
}

// newToken creates a token with position information
func (l *Lexer) newToken(tokenType TokenType, text string, start, line, column int) Token {
	return Token{
		Type:     tokenType,
		Text:     text,
		Position: Position{Line: line, Column: column, Offset: start},
	}
}

// lexName handles identifiers and segmented type names (foo::bar)
func (l *Lexer) lexName(start, startLine, startColumn int) Token {
	l.readIdentPart()

	// Qualified name segments: exactly two colons between ident parts.
	for l.ch == ':' && l.peekChar() == ':' {
		l.readChar() // first ':'
		l.readChar() // second ':'
		if l.ch >= 128 || !isIdentStart[l.ch] {
			return l.newToken(ILLEGAL, "malformed qualified name", start, startLine, startColumn)
		}
		l.readIdentPart()
	}

	return l.newToken(IDENT, l.input[start:l.position], start, startLine, startColumn)
}

// readIdentPart consumes one [a-zA-Z_][a-zA-Z0-9_]* run
func (l *Lexer) readIdentPart() {
	for {
		if l.ch < 128 && isIdentPart[l.ch] {
			l.readChar()
		} else if l.ch >= 128 && (unicode.IsLetter(l.ch) || unicode.IsDigit(l.ch)) {
			l.readChar()
		} else {
			break
		}
	}
}

// lexVariable handles $name assignment targets
func (l *Lexer) lexVariable(start, startLine, startColumn int) Token {
	l.readChar() // skip $

	if l.ch >= 128 || !isIdentStart[l.ch] {
		return l.newToken(ILLEGAL, "invalid variable name", start, startLine, startColumn)
	}

	nameStart := l.position
	l.readIdentPart()
	return l.newToken(VARIABLE, l.input[nameStart:l.position], start, startLine, startColumn)
}

// lexString handles quoted string literals. The returned token carries the
// content between the quotes with \<quote> and \\ escapes resolved; any
// ${...} spans are left untouched for the interpolation splitter.
func (l *Lexer) lexString(quote byte, start, startLine, startColumn int) Token {
	l.readChar() // skip opening quote

	var out []byte
	for l.ch != rune(quote) {
		if l.ch == 0 {
			return l.newToken(ILLEGAL, "unterminated string", start, startLine, startColumn)
		}
		if l.ch == '\\' {
			next := l.peekChar()
			if next == rune(quote) || next == '\\' {
				l.readChar()
				out = utf8.AppendRune(out, l.ch)
				l.readChar()
				continue
			}
		}
		out = utf8.AppendRune(out, l.ch)
		l.readChar()
	}
	l.readChar() // skip closing quote

	tok := l.newToken(STRING, string(out), start, startLine, startColumn)
	tok.Quote = quote
	return tok
}

// lexLineComment handles comments starting with # up to end of line
func (l *Lexer) lexLineComment(start, startLine, startColumn int) Token {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
	return l.newToken(COMMENT, l.input[start:l.position], start, startLine, startColumn)
}

// lexBlockComment handles /* */ comments
func (l *Lexer) lexBlockComment(start, startLine, startColumn int) Token {
	l.readChar() // skip /
	l.readChar() // skip *

	for {
		if l.ch == 0 {
			return l.newToken(ILLEGAL, "unterminated comment", start, startLine, startColumn)
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar() // skip *
			l.readChar() // skip /
			break
		}
		l.readChar()
	}

	return l.newToken(COMMENT, l.input[start:l.position], start, startLine, startColumn)
}
