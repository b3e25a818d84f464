package lexer

// TokenType represents lexical tokens of the manifest language
type TokenType int

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Chaining operators
	ARROW     // -> apply source before target
	NOTIFY    // ~> like -> plus refresh signal on change
	REQUIRE   // <- reversed ->
	SUBSCRIBE // <~ reversed ~>

	// Punctuation
	FATARROW // => attribute assignment
	EQUALS   // =  variable assignment
	COLON    // :  after a resource title
	COMMA    // ,
	LBRACE   // {
	RBRACE   // }
	LSQUARE  // [
	RSQUARE  // ]

	// Literals and content
	IDENT    // type names (foo::bar, File), attribute names, bare words
	STRING   // 'literal' or "interpolated" content, quotes stripped
	VARIABLE // $name at statement level (assignment target)

	// Comments
	COMMENT // # line comment or /* block comment */
)

// Token represents a lexical token
type Token struct {
	Type TokenType
	Text string // token text; for STRING the raw content without quotes
	// Quote is the delimiter of a STRING token (' or "). Double-quoted
	// strings are subject to interpolation splitting, single-quoted are not.
	Quote    byte
	Position Position
}

// Position represents a position in the source code
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
	Offset int // 0-based byte offset
}

// Symbol returns the token's text or its operator symbol.
func (t Token) Symbol() string {
	if t.Text != "" {
		return t.Text
	}
	switch t.Type {
	case ARROW:
		return "->"
	case NOTIFY:
		return "~>"
	case REQUIRE:
		return "<-"
	case SUBSCRIBE:
		return "<~"
	case FATARROW:
		return "=>"
	case EQUALS:
		return "="
	case COLON:
		return ":"
	case COMMA:
		return ","
	case LBRACE:
		return "{"
	case RBRACE:
		return "}"
	case LSQUARE:
		return "["
	case RSQUARE:
		return "]"
	default:
		return ""
	}
}

// String returns a string representation of the token type
func (t TokenType) String() string {
	switch t {
	case EOF:
		return "EOF"
	case ILLEGAL:
		return "ILLEGAL"
	case ARROW:
		return "ARROW"
	case NOTIFY:
		return "NOTIFY"
	case REQUIRE:
		return "REQUIRE"
	case SUBSCRIBE:
		return "SUBSCRIBE"
	case FATARROW:
		return "FATARROW"
	case EQUALS:
		return "EQUALS"
	case COLON:
		return "COLON"
	case COMMA:
		return "COMMA"
	case LBRACE:
		return "LBRACE"
	case RBRACE:
		return "RBRACE"
	case LSQUARE:
		return "LSQUARE"
	case RSQUARE:
		return "RSQUARE"
	case IDENT:
		return "IDENT"
	case STRING:
		return "STRING"
	case VARIABLE:
		return "VARIABLE"
	case COMMENT:
		return "COMMENT"
	default:
		return "UNKNOWN"
	}
}

// IsChainOperator reports whether the token type is one of the four
// relationship-chaining operators.
func (t TokenType) IsChainOperator() bool {
	switch t {
	case ARROW, NOTIFY, REQUIRE, SUBSCRIBE:
		return true
	default:
		return false
	}
}
