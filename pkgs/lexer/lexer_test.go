package lexer

import "testing"

type tokenExpectation struct {
	tokenType TokenType
	text      string
	line      int
	column    int
}

// assertTokens lexes the input and compares the full token stream, including
// positions, against the expectations.
func assertTokens(t *testing.T, input string, expected []tokenExpectation) {
	t.Helper()

	l := New(input)
	for i, exp := range expected {
		tok := l.NextToken()
		if tok.Type != exp.tokenType {
			t.Fatalf("token %d: expected type %s, got %s (%q)",
				i, exp.tokenType.String(), tok.Type.String(), tok.Text)
		}
		if tok.Text != exp.text {
			t.Fatalf("token %d: expected text %q, got %q", i, exp.text, tok.Text)
		}
		if tok.Position.Line != exp.line || tok.Position.Column != exp.column {
			t.Fatalf("token %d (%s): expected position %d:%d, got %d:%d",
				i, exp.tokenType.String(), exp.line, exp.column,
				tok.Position.Line, tok.Position.Column)
		}
	}
}

// assertTokenTypes lexes the input and compares types and texts only.
func assertTokenTypes(t *testing.T, input string, expected []tokenExpectation) {
	t.Helper()

	l := New(input)
	for i, exp := range expected {
		tok := l.NextToken()
		if tok.Type != exp.tokenType {
			t.Fatalf("token %d: expected type %s, got %s (%q)",
				i, exp.tokenType.String(), tok.Type.String(), tok.Text)
		}
		if tok.Text != exp.text {
			t.Fatalf("token %d: expected text %q, got %q", i, exp.text, tok.Text)
		}
	}
}

func TestIdentifiers(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []tokenExpectation
	}{
		{
			name:  "simple identifier",
			input: "file",
			expected: []tokenExpectation{
				{IDENT, "file", 1, 1},
				{EOF, "", 1, 5},
			},
		},
		{
			name:  "capitalized identifier",
			input: "File",
			expected: []tokenExpectation{
				{IDENT, "File", 1, 1},
				{EOF, "", 1, 5},
			},
		},
		{
			name:  "qualified name",
			input: "foo::bar",
			expected: []tokenExpectation{
				{IDENT, "foo::bar", 1, 1},
				{EOF, "", 1, 9},
			},
		},
		{
			name:  "capitalized qualified name",
			input: "Foo::Bar",
			expected: []tokenExpectation{
				{IDENT, "Foo::Bar", 1, 1},
				{EOF, "", 1, 9},
			},
		},
		{
			name:  "underscore and digits",
			input: "ia_32",
			expected: []tokenExpectation{
				{IDENT, "ia_32", 1, 1},
				{EOF, "", 1, 6},
			},
		},
		{
			name:  "single colon stops the identifier",
			input: "title:",
			expected: []tokenExpectation{
				{IDENT, "title", 1, 1},
				{COLON, "", 1, 6},
				{EOF, "", 1, 7},
			},
		},
		{
			name:  "broken qualified name",
			input: "foo:: {",
			expected: []tokenExpectation{
				{ILLEGAL, "malformed qualified name", 1, 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTokens(t, tt.input, tt.expected)
		})
	}
}

func TestChainOperators(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []tokenExpectation
	}{
		{
			name:  "before",
			input: "->",
			expected: []tokenExpectation{
				{ARROW, "", 1, 1},
				{EOF, "", 1, 3},
			},
		},
		{
			name:  "notify",
			input: "~>",
			expected: []tokenExpectation{
				{NOTIFY, "", 1, 1},
				{EOF, "", 1, 3},
			},
		},
		{
			name:  "require",
			input: "<-",
			expected: []tokenExpectation{
				{REQUIRE, "", 1, 1},
				{EOF, "", 1, 3},
			},
		},
		{
			name:  "subscribe",
			input: "<~",
			expected: []tokenExpectation{
				{SUBSCRIBE, "", 1, 1},
				{EOF, "", 1, 3},
			},
		},
		{
			name:  "all four in sequence",
			input: "-> ~> <- <~",
			expected: []tokenExpectation{
				{ARROW, "", 1, 1},
				{NOTIFY, "", 1, 4},
				{REQUIRE, "", 1, 7},
				{SUBSCRIBE, "", 1, 10},
				{EOF, "", 1, 12},
			},
		},
		{
			name:  "dangling dash",
			input: "- ",
			expected: []tokenExpectation{
				{ILLEGAL, "expected '>' after '-'", 1, 1},
			},
		},
		{
			name:  "dangling tilde",
			input: "~x",
			expected: []tokenExpectation{
				{ILLEGAL, "expected '>' after '~'", 1, 1},
			},
		},
		{
			name:  "dangling less-than",
			input: "<>",
			expected: []tokenExpectation{
				{ILLEGAL, "expected '-' or '~' after '<'", 1, 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTokens(t, tt.input, tt.expected)
		})
	}
}

func TestPunctuation(t *testing.T) {
	assertTokens(t, "{ } [ ] : , => =", []tokenExpectation{
		{LBRACE, "", 1, 1},
		{RBRACE, "", 1, 3},
		{LSQUARE, "", 1, 5},
		{RSQUARE, "", 1, 7},
		{COLON, "", 1, 9},
		{COMMA, "", 1, 11},
		{FATARROW, "", 1, 13},
		{EQUALS, "", 1, 16},
		{EOF, "", 1, 17},
	})
}

func TestStrings(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		text      string
		quote     byte
		eofColumn int
	}{
		{"single quoted", `'/tmp/one'`, "/tmp/one", '\'', 11},
		{"double quoted", `"/tmp/one"`, "/tmp/one", '"', 11},
		{"empty single quoted", `''`, "", '\'', 3},
		{"interpolation left raw", `"/root/${scripts}/yo.sh"`, "/root/${scripts}/yo.sh", '"', 25},
		{"escaped quote", `'it\'s'`, "it's", '\'', 8},
		{"escaped backslash", `'a\\b'`, `a\b`, '\'', 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.input)
			tok := l.NextToken()
			if tok.Type != STRING {
				t.Fatalf("expected STRING, got %s (%q)", tok.Type.String(), tok.Text)
			}
			if tok.Text != tt.text {
				t.Fatalf("expected text %q, got %q", tt.text, tok.Text)
			}
			if tok.Quote != tt.quote {
				t.Fatalf("expected quote %q, got %q", tt.quote, tok.Quote)
			}
			eof := l.NextToken()
			if eof.Type != EOF || eof.Position.Column != tt.eofColumn {
				t.Fatalf("expected EOF at column %d, got %s at %d",
					tt.eofColumn, eof.Type.String(), eof.Position.Column)
			}
		})
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New("'never closed")
	tok := l.NextToken()
	if tok.Type != ILLEGAL || tok.Text != "unterminated string" {
		t.Fatalf("expected unterminated string ILLEGAL, got %s (%q)", tok.Type.String(), tok.Text)
	}
	if tok.Position.Line != 1 || tok.Position.Column != 1 {
		t.Fatalf("expected position 1:1, got %d:%d", tok.Position.Line, tok.Position.Column)
	}
}

func TestVariables(t *testing.T) {
	assertTokens(t, "$scripts = 'bin'", []tokenExpectation{
		{VARIABLE, "scripts", 1, 1},
		{EQUALS, "", 1, 10},
		{STRING, "bin", 1, 12},
		{EOF, "", 1, 17},
	})

	l := New("$ =")
	tok := l.NextToken()
	if tok.Type != ILLEGAL || tok.Text != "invalid variable name" {
		t.Fatalf("expected invalid variable name, got %s (%q)", tok.Type.String(), tok.Text)
	}
}

func TestComments(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []tokenExpectation
	}{
		{
			name:  "line comment",
			input: "# provision the web tier\nfile",
			expected: []tokenExpectation{
				{COMMENT, "# provision the web tier", 1, 1},
				{IDENT, "file", 2, 1},
				{EOF, "", 2, 5},
			},
		},
		{
			name:  "block comment",
			input: "/* disabled */ service",
			expected: []tokenExpectation{
				{COMMENT, "/* disabled */", 1, 1},
				{IDENT, "service", 1, 16},
				{EOF, "", 1, 23},
			},
		},
		{
			name:  "unterminated block comment",
			input: "/* never closed",
			expected: []tokenExpectation{
				{ILLEGAL, "unterminated comment", 1, 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTokens(t, tt.input, tt.expected)
		})
	}
}

func TestResourceDeclarationTokens(t *testing.T) {
	input := "file { '/tmp/one': ensure => present }"
	assertTokenTypes(t, input, []tokenExpectation{
		{IDENT, "file", 0, 0},
		{LBRACE, "", 0, 0},
		{STRING, "/tmp/one", 0, 0},
		{COLON, "", 0, 0},
		{IDENT, "ensure", 0, 0},
		{FATARROW, "", 0, 0},
		{IDENT, "present", 0, 0},
		{RBRACE, "", 0, 0},
		{EOF, "", 0, 0},
	})
}

func TestChainStatementTokens(t *testing.T) {
	input := "File['/tmp/two'] -> [File['/tmp/two/three'], File['/tmp/two/four']] ~> Service['nginx']"
	assertTokenTypes(t, input, []tokenExpectation{
		{IDENT, "File", 0, 0},
		{LSQUARE, "", 0, 0},
		{STRING, "/tmp/two", 0, 0},
		{RSQUARE, "", 0, 0},
		{ARROW, "", 0, 0},
		{LSQUARE, "", 0, 0},
		{IDENT, "File", 0, 0},
		{LSQUARE, "", 0, 0},
		{STRING, "/tmp/two/three", 0, 0},
		{RSQUARE, "", 0, 0},
		{COMMA, "", 0, 0},
		{IDENT, "File", 0, 0},
		{LSQUARE, "", 0, 0},
		{STRING, "/tmp/two/four", 0, 0},
		{RSQUARE, "", 0, 0},
		{RSQUARE, "", 0, 0},
		{NOTIFY, "", 0, 0},
		{IDENT, "Service", 0, 0},
		{LSQUARE, "", 0, 0},
		{STRING, "nginx", 0, 0},
		{RSQUARE, "", 0, 0},
		{EOF, "", 0, 0},
	})
}

func TestTokenize(t *testing.T) {
	t.Run("comments are stripped", func(t *testing.T) {
		tokens, err := Tokenize("# comment\nfile # trailing\n")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tokens) != 2 || tokens[0].Type != IDENT || tokens[1].Type != EOF {
			t.Fatalf("expected [IDENT EOF], got %d tokens", len(tokens))
		}
	})

	t.Run("lex error carries position", func(t *testing.T) {
		_, err := Tokenize("file {\n  '/tmp/unterminated\n}")
		if err == nil {
			t.Fatal("expected an error")
		}
		lexErr, ok := err.(*LexError)
		if !ok {
			t.Fatalf("expected *LexError, got %T", err)
		}
		if lexErr.Message != "unterminated string" {
			t.Fatalf("expected unterminated string, got %q", lexErr.Message)
		}
		if lexErr.Pos.Line != 2 || lexErr.Pos.Column != 3 {
			t.Fatalf("expected position 2:3, got %d:%d", lexErr.Pos.Line, lexErr.Pos.Column)
		}
	})

	t.Run("invalid character", func(t *testing.T) {
		_, err := Tokenize("file ; {")
		if err == nil {
			t.Fatal("expected an error")
		}
		if err.(*LexError).Message != `invalid character ';'` {
			t.Fatalf("unexpected message %q", err.(*LexError).Message)
		}
	})
}
