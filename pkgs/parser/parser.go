// Package parser turns a token stream into the manifest AST. It is a single
// left-to-right pass; one token of lookahead distinguishes a resource
// declaration (`type {`) from a chain statement (`Type[` or a leading
// bracketed array).
package parser

import (
	"github.com/marionette-lang/marionette/pkgs/ast"
	"github.com/marionette-lang/marionette/pkgs/lexer"
)

// Parser consumes a token stream produced by the lexer.
type Parser struct {
	tokens []lexer.Token
	pos    int
	input  string
}

// Parse lexes and parses one manifest body. The error is a *lexer.LexError
// or a *ParseError, both carrying source positions.
func Parse(input string) (*ast.Manifest, error) {
	tokens, err := lexer.Tokenize(input)
	if err != nil {
		return nil, err
	}

	p := &Parser{tokens: tokens, input: input}
	return p.parseManifest()
}

// current returns the token under examination
func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF is always last
	}
	return p.tokens[p.pos]
}

// peek returns the token after the current one
func (p *Parser) peek() lexer.Token {
	if p.pos+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+1]
}

// advance consumes the current token and returns it
func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

// expect consumes a token of the given type or fails
func (p *Parser) expect(t lexer.TokenType, what string) (lexer.Token, error) {
	if p.current().Type != t {
		return lexer.Token{}, p.errorf("expected %s, got %s", what, p.current().Type.String())
	}
	return p.advance(), nil
}

func (p *Parser) parseManifest() (*ast.Manifest, error) {
	manifest := &ast.Manifest{}

	for p.current().Type != lexer.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		manifest.Statements = append(manifest.Statements, stmt)
	}

	return manifest, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.current().Type {
	case lexer.VARIABLE:
		return p.parseVariableAssign()

	case lexer.LSQUARE:
		// A leading bracketed array can only start a chain statement.
		return p.parseChain()

	case lexer.IDENT:
		switch p.peek().Type {
		case lexer.LBRACE:
			return p.parseResourceDecl()
		case lexer.LSQUARE:
			return p.parseChain()
		}
		return nil, p.errorf("expected '{' or '[' after %q", p.current().Text)

	default:
		return nil, p.errorf("expected a statement, got %s", p.current().Type.String())
	}
}

// parseVariableAssign parses `$name = value`.
func (p *Parser) parseVariableAssign() (ast.Statement, error) {
	name := p.advance() // VARIABLE

	if _, err := p.expect(lexer.EQUALS, "'='"); err != nil {
		return nil, err
	}

	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	return &ast.VariableAssign{Name: name.Text, Value: value, Pos: name.Position}, nil
}

// parseResourceDecl parses `type { 'title': attr => value, ... }`. The
// attribute block may be empty and the final pair may carry a trailing comma.
func (p *Parser) parseResourceDecl() (ast.Statement, error) {
	typeTok := p.advance() // IDENT
	p.advance()            // LBRACE, guaranteed by lookahead

	if p.current().Type != lexer.STRING {
		return nil, p.errorf("expected resource title string, got %s", p.current().Type.String())
	}
	title, err := p.parseStringLit()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.COLON, "':' after resource title"); err != nil {
		return nil, err
	}

	decl := &ast.ResourceDecl{Type: typeTok.Text, Title: title, Pos: typeTok.Position}
	seen := map[string]bool{}

	for p.current().Type != lexer.RBRACE {
		if p.current().Type == lexer.EOF {
			return nil, p.errorAtf(typeTok, "unclosed resource declaration %q, missing '}'", typeTok.Text)
		}

		nameTok, err := p.expect(lexer.IDENT, "attribute name")
		if err != nil {
			return nil, err
		}
		if seen[nameTok.Text] {
			return nil, p.errorAtf(nameTok, "duplicate attribute %q", nameTok.Text)
		}
		seen[nameTok.Text] = true

		if _, err := p.expect(lexer.FATARROW, "'=>' after attribute name"); err != nil {
			return nil, err
		}

		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		decl.Attributes = append(decl.Attributes, ast.Attribute{
			Name:  nameTok.Text,
			Value: value,
			Pos:   nameTok.Position,
		})

		// Comma is required between pairs, optional after the last one.
		if p.current().Type == lexer.COMMA {
			p.advance()
		} else if p.current().Type != lexer.RBRACE {
			return nil, p.errorf("expected ',' or '}' after attribute value")
		}
	}
	p.advance() // RBRACE

	return decl, nil
}

// parseValue parses an attribute value: string, bare word, or array.
func (p *Parser) parseValue() (ast.Value, error) {
	switch p.current().Type {
	case lexer.STRING:
		return p.parseStringLit()

	case lexer.IDENT:
		tok := p.advance()
		return ast.BareWord{Word: tok.Text, Pos: tok.Position}, nil

	case lexer.LSQUARE:
		open := p.advance()
		arr := ast.Array{Pos: open.Position}
		for p.current().Type != lexer.RSQUARE {
			if p.current().Type == lexer.EOF {
				return nil, p.errorAtf(open, "unclosed array, missing ']'")
			}
			v, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			arr.Values = append(arr.Values, v)
			if p.current().Type == lexer.COMMA {
				p.advance()
			} else if p.current().Type != lexer.RSQUARE {
				return nil, p.errorf("expected ',' or ']' in array")
			}
		}
		p.advance() // RSQUARE
		return arr, nil

	default:
		return nil, p.errorf("expected a value, got %s", p.current().Type.String())
	}
}

// parseStringLit consumes a STRING token and splits interpolation spans.
func (p *Parser) parseStringLit() (ast.StringLit, error) {
	tok := p.advance()
	segments, err := lexer.Split(tok.Text, tok.Quote, tok.Position)
	if err != nil {
		if lexErr, ok := err.(*lexer.LexError); ok && lexErr.Input == "" {
			lexErr.Input = p.input
		}
		return ast.StringLit{}, err
	}
	return ast.StringLit{Segments: segments, Pos: tok.Position}, nil
}

// parseChain parses `operand <op> operand <op> ...`. A chain needs at least
// one operator; a bare reference expression is not a statement.
func (p *Parser) parseChain() (ast.Statement, error) {
	first, err := p.parseChainOperand()
	if err != nil {
		return nil, err
	}

	chain := &ast.ChainStmt{Operands: []ast.ChainOperand{first}, Pos: first.Pos}

	if !p.current().Type.IsChainOperator() {
		return nil, p.errorf("expected a relationship operator (->, ~>, <-, <~), got %s",
			p.current().Type.String())
	}

	for p.current().Type.IsChainOperator() {
		op := p.advance()
		operand, err := p.parseChainOperand()
		if err != nil {
			return nil, err
		}
		chain.Operators = append(chain.Operators, chainOp(op.Type))
		chain.Operands = append(chain.Operands, operand)
	}

	return chain, nil
}

func chainOp(t lexer.TokenType) ast.ChainOp {
	switch t {
	case lexer.ARROW:
		return ast.OpBefore
	case lexer.NOTIFY:
		return ast.OpNotify
	case lexer.REQUIRE:
		return ast.OpRequire
	default:
		return ast.OpSubscribe
	}
}

// parseChainOperand parses a reference or a bracketed reference array.
func (p *Parser) parseChainOperand() (ast.ChainOperand, error) {
	switch p.current().Type {
	case lexer.IDENT:
		ref, err := p.parseResourceRef()
		if err != nil {
			return ast.ChainOperand{}, err
		}
		return ast.ChainOperand{Refs: []ast.ResourceRef{ref}, Pos: ref.Pos}, nil

	case lexer.LSQUARE:
		open := p.advance()
		operand := ast.ChainOperand{Array: true, Pos: open.Position}
		for p.current().Type != lexer.RSQUARE {
			if p.current().Type == lexer.EOF {
				return ast.ChainOperand{}, p.errorAtf(open, "unclosed reference array, missing ']'")
			}
			ref, err := p.parseResourceRef()
			if err != nil {
				return ast.ChainOperand{}, err
			}
			operand.Refs = append(operand.Refs, ref)
			if p.current().Type == lexer.COMMA {
				p.advance()
			} else if p.current().Type != lexer.RSQUARE {
				return ast.ChainOperand{}, p.errorf("expected ',' or ']' in reference array")
			}
		}
		p.advance() // RSQUARE
		if len(operand.Refs) == 0 {
			return ast.ChainOperand{}, p.errorAtf(open, "empty reference array in chain")
		}
		return operand, nil

	default:
		return ast.ChainOperand{}, p.errorf(
			"expected a resource reference or reference array, got %s", p.current().Type.String())
	}
}

// parseResourceRef parses `Type['title']`.
func (p *Parser) parseResourceRef() (ast.ResourceRef, error) {
	typeTok, err := p.expect(lexer.IDENT, "resource type name")
	if err != nil {
		return ast.ResourceRef{}, err
	}
	if _, err := p.expect(lexer.LSQUARE, "'[' after type name"); err != nil {
		return ast.ResourceRef{}, err
	}
	if p.current().Type != lexer.STRING {
		return ast.ResourceRef{}, p.errorf("expected reference title string, got %s",
			p.current().Type.String())
	}
	title, err := p.parseStringLit()
	if err != nil {
		return ast.ResourceRef{}, err
	}
	if _, err := p.expect(lexer.RSQUARE, "']' after reference title"); err != nil {
		return ast.ResourceRef{}, err
	}
	return ast.ResourceRef{Type: typeTok.Text, Title: title, Pos: typeTok.Position}, nil
}
