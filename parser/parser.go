// Package parser builds dynobj values from JSON text.
package parser

import (
	"fmt"
	"strconv"

	"github.com/dynobj/dynobj-go/internal/errors"
	"github.com/dynobj/dynobj-go/lexer"
	"github.com/dynobj/dynobj-go/syntax"
	"github.com/dynobj/dynobj-go/value"
)

// DefaultMaxDepth is the nesting limit used when Options.MaxDepth is zero.
const DefaultMaxDepth = 512

// Span is an alias for syntax.Span.
type Span = syntax.Span

// Options configures a parse.
type Options struct {
	// Name identifies the document in error messages.
	Name string
	// MaxDepth limits how deeply arrays and objects may nest.
	MaxDepth int
	// Fuel is the maximum number of values the parse may produce.
	// Zero means unlimited.
	Fuel uint64
}

// Parser is a recursive-descent JSON parser. It pulls tokens from the
// lexer on demand and keeps one token of lookahead.
type Parser struct {
	lex      *lexer.Lexer
	peeked   *lexer.Token
	hasPeek  bool
	depth    int
	maxDepth int
	fuel     *fuelTracker
}

// Parse parses a complete JSON document.
func Parse(source string) (value.Value, error) {
	return ParseWithOptions(source, Options{})
}

// ParseWithOptions parses a complete JSON document using opts.
//
// On failure the returned value is None and the error is an *errors.Error
// carrying the location of the problem.
func ParseWithOptions(source string, opts Options) (value.Value, error) {
	p := &Parser{
		lex:      lexer.New(source),
		maxDepth: opts.MaxDepth,
	}
	if p.maxDepth <= 0 {
		p.maxDepth = DefaultMaxDepth
	}
	if opts.Fuel > 0 {
		p.fuel = newFuelTracker(opts.Fuel)
	}

	v, err := p.parse()
	if err != nil {
		return value.None(), decorate(err, opts.Name, source)
	}
	return v, nil
}

func decorate(err error, name, source string) error {
	if e, ok := err.(*errors.Error); ok {
		return e.WithName(name).WithSource(source)
	}
	return err
}

func (p *Parser) parse() (value.Value, error) {
	v, err := p.parseValue()
	if err != nil {
		return value.None(), err
	}
	if span, ok := p.lex.Trailing(); ok {
		return value.None(), p.errorAt(span, "unexpected trailing characters after end of document")
	}
	return v, nil
}

func (p *Parser) current() (*lexer.Token, error) {
	if !p.hasPeek {
		tok, err := p.lex.Next()
		if err != nil {
			return nil, err
		}
		p.peeked = tok
		p.hasPeek = true
	}
	return p.peeked, nil
}

func (p *Parser) advance() (*lexer.Token, error) {
	tok, err := p.current()
	if err != nil || tok == nil {
		return tok, err
	}
	p.hasPeek = false
	p.peeked = nil
	return tok, nil
}

func (p *Parser) skip(typ lexer.TokenType) (bool, error) {
	tok, err := p.current()
	if err != nil {
		return false, err
	}
	if tok != nil && tok.Type == typ {
		_, err = p.advance()
		return true, err
	}
	return false, nil
}

func (p *Parser) expect(typ lexer.TokenType, expected string) (*lexer.Token, error) {
	tok, err := p.advance()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, p.unexpectedEOF(expected)
	}
	if tok.Type != typ {
		return nil, p.unexpected(tok, expected)
	}
	return tok, nil
}

func (p *Parser) errorAt(span Span, format string, args ...any) *errors.Error {
	return errors.Newf(errors.ErrOutOfRange, format, args...).WithSpan(span)
}

func (p *Parser) unexpected(tok *lexer.Token, expected string) *errors.Error {
	return p.errorAt(tok.Span, "unexpected %s, expected %s", tokenDescription(tok), expected)
}

func (p *Parser) unexpectedEOF(expected string) *errors.Error {
	return p.errorAt(p.lex.End(), "unexpected end of input, expected %s", expected)
}

func tokenDescription(tok *lexer.Token) string {
	switch tok.Type {
	case lexer.TokenString:
		return "string"
	case lexer.TokenInteger:
		return "integer"
	case lexer.TokenFloat:
		return "float"
	case lexer.TokenBraceOpen:
		return "`{`"
	case lexer.TokenBraceClose:
		return "`}`"
	case lexer.TokenBracketOpen:
		return "`[`"
	case lexer.TokenBracketClose:
		return "`]`"
	case lexer.TokenColon:
		return "`:`"
	case lexer.TokenComma:
		return "`,`"
	default:
		return fmt.Sprintf("`%s`", tok.Value)
	}
}

func (p *Parser) parseValue() (value.Value, error) {
	tok, err := p.advance()
	if err != nil {
		return value.None(), err
	}
	if tok == nil {
		return value.None(), p.unexpectedEOF("value")
	}
	if p.fuel != nil {
		if err := p.fuel.consume(1); err != nil {
			return value.None(), err.WithSpan(tok.Span)
		}
	}

	switch tok.Type {
	case lexer.TokenBraceOpen:
		return p.parseObject(tok.Span)
	case lexer.TokenBracketOpen:
		return p.parseArray(tok.Span)
	case lexer.TokenString:
		return value.FromString(tok.Value), nil
	case lexer.TokenInteger:
		n, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return value.None(), errors.Newf(errors.ErrTypeError, "integer %s does not fit in 64 bits", tok.Value).WithSpan(tok.Span)
		}
		return value.FromInt(n), nil
	case lexer.TokenFloat:
		f, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return value.None(), errors.Newf(errors.ErrTypeError, "invalid number %s", tok.Value).WithSpan(tok.Span)
		}
		return value.FromFloat(f), nil
	case lexer.TokenTrue:
		return value.FromInt(1), nil
	case lexer.TokenFalse:
		return value.FromInt(0), nil
	case lexer.TokenNull:
		return value.None(), nil
	default:
		return value.None(), p.errorAt(tok.Span, "unexpected %s", tokenDescription(tok))
	}
}

func (p *Parser) enter(span Span) error {
	p.depth++
	if p.depth > p.maxDepth {
		return p.errorAt(span, "document exceeds maximum nesting depth of %d", p.maxDepth)
	}
	return nil
}

func (p *Parser) parseArray(span Span) (value.Value, error) {
	if err := p.enter(span); err != nil {
		return value.None(), err
	}
	defer func() { p.depth-- }()

	var items []value.Value
	for {
		done, err := p.skip(lexer.TokenBracketClose)
		if err != nil {
			return value.None(), err
		}
		if done {
			break
		}
		if len(items) > 0 {
			if _, err := p.expect(lexer.TokenComma, "`,` or `]`"); err != nil {
				return value.None(), err
			}
		}
		item, err := p.parseValue()
		if err != nil {
			return value.None(), err
		}
		items = append(items, item)
	}
	return value.OwnList(items), nil
}

func (p *Parser) parseObject(span Span) (value.Value, error) {
	if err := p.enter(span); err != nil {
		return value.None(), err
	}
	defer func() { p.depth-- }()

	entries := make(map[string]value.Value)
	first := true
	for {
		done, err := p.skip(lexer.TokenBraceClose)
		if err != nil {
			return value.None(), err
		}
		if done {
			break
		}
		if !first {
			if _, err := p.expect(lexer.TokenComma, "`,` or `}`"); err != nil {
				return value.None(), err
			}
		}
		first = false
		key, err := p.expect(lexer.TokenString, "string key")
		if err != nil {
			return value.None(), err
		}
		if _, err := p.expect(lexer.TokenColon, "`:`"); err != nil {
			return value.None(), err
		}
		item, err := p.parseValue()
		if err != nil {
			return value.None(), err
		}
		// Duplicate keys: the last one wins.
		entries[key.Value] = item
	}
	return value.OwnMap(entries), nil
}
