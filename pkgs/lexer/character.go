package lexer

// ASCII character lookup tables for fast classification (zero-allocation)
//
// For the rare non-ASCII character (ch >= 128) the lexer falls back to the
// unicode package; manifest syntax itself is ASCII, only string contents may
// carry arbitrary UTF-8.
var (
	isWhitespace [128]bool // Space, tab, carriage return, form feed, newline
	isLetter     [128]bool // a-z, A-Z, _
	isDigit      [128]bool // 0-9
	isIdentStart [128]bool // Letter or _
	isIdentPart  [128]bool // Letter, digit, _
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)

		isWhitespace[i] = ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f'
		isLetter[i] = ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
		isDigit[i] = '0' <= ch && ch <= '9'
		isIdentStart[i] = isLetter[i]
		isIdentPart[i] = isLetter[i] || isDigit[i]
	}
}
