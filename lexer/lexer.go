package lexer

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/dynobj/dynobj-go/internal/errors"
)

// Lexer tokenizes JSON source text.
//
// Lexical errors are *errors.Error values carrying a span. Running out of
// input (an unterminated string, a number or keyword cut off by the end of
// the source) is reported as ErrOutOfRange; a malformed literal is reported
// as ErrTypeError.
type Lexer struct {
	source    string
	pos       int    // current position in source
	start     int    // start position of current token
	line      uint16 // current line (1-indexed)
	col       uint16 // current column (0-indexed at line start)
	startLine uint16
	startCol  uint16
}

// New creates a new Lexer for the given input.
func New(input string) *Lexer {
	return &Lexer{
		source: input,
		line:   1,
	}
}

// Tokenize returns all tokens from the input.
func Tokenize(input string) ([]Token, error) {
	return New(input).All()
}

// All collects all tokens into a slice.
func (l *Lexer) All() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		if tok == nil {
			break
		}
		tokens = append(tokens, *tok)
	}
	return tokens, nil
}

// Next returns the next token, or nil at end of input.
func (l *Lexer) Next() (*Token, error) {
	l.skipWhitespace()
	if l.atEnd() {
		l.markStart()
		return nil, nil
	}
	l.markStart()

	var tok Token
	switch c := l.source[l.pos]; c {
	case '{':
		l.advance(1)
		tok = l.makeToken(TokenBraceOpen, "")
	case '}':
		l.advance(1)
		tok = l.makeToken(TokenBraceClose, "")
	case '[':
		l.advance(1)
		tok = l.makeToken(TokenBracketOpen, "")
	case ']':
		l.advance(1)
		tok = l.makeToken(TokenBracketClose, "")
	case ':':
		l.advance(1)
		tok = l.makeToken(TokenColon, "")
	case ',':
		l.advance(1)
		tok = l.makeToken(TokenComma, "")
	case '"':
		s, err := l.lexString()
		if err != nil {
			return nil, err
		}
		tok = s
	default:
		var err error
		switch {
		case c == '-' || isDigit(c):
			tok, err = l.lexNumber()
		case isIdentStart(c):
			tok, err = l.lexKeyword()
		default:
			r, size := utf8.DecodeRuneInString(l.rest())
			l.advance(size)
			return nil, l.typeError("unexpected character %q", r)
		}
		if err != nil {
			return nil, err
		}
	}
	return &tok, nil
}

// End returns an empty span positioned at the current end of lexing. The
// parser uses it to locate end-of-input errors.
func (l *Lexer) End() Span {
	return Span{
		StartLine:   l.line,
		StartCol:    l.col,
		StartOffset: uint32(l.pos),
		EndLine:     l.line,
		EndCol:      l.col,
		EndOffset:   uint32(l.pos),
	}
}

// Trailing skips whitespace and reports the span of whatever input is left.
func (l *Lexer) Trailing() (Span, bool) {
	l.skipWhitespace()
	if l.atEnd() {
		return Span{}, false
	}
	l.markStart()
	l.advance(len(l.source) - l.pos)
	return l.span(), true
}

func (l *Lexer) lexString() (Token, error) {
	l.advance(1) // opening quote
	var sb strings.Builder
	for {
		if l.atEnd() {
			return Token{}, l.rangeError("unterminated string")
		}
		c := l.source[l.pos]
		switch {
		case c == '"':
			l.advance(1)
			return l.makeToken(TokenString, sb.String()), nil
		case c == '\\':
			if err := l.lexEscape(&sb); err != nil {
				return Token{}, err
			}
		case c < 0x20:
			l.advance(1)
			return Token{}, l.typeError("control character %q in string", rune(c))
		case c < utf8.RuneSelf:
			sb.WriteByte(c)
			l.advance(1)
		default:
			r, size := utf8.DecodeRuneInString(l.rest())
			if r == utf8.RuneError && size == 1 {
				l.advance(1)
				return Token{}, l.typeError("invalid UTF-8 in string")
			}
			sb.WriteRune(r)
			l.advance(size)
		}
	}
}

func (l *Lexer) lexEscape(sb *strings.Builder) error {
	l.advance(1) // backslash
	if l.atEnd() {
		return l.rangeError("unterminated string")
	}
	esc := l.source[l.pos]
	l.advance(1)
	switch esc {
	case '"', '\\', '/':
		sb.WriteByte(esc)
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'n':
		sb.WriteByte('\n')
	case 'r':
		sb.WriteByte('\r')
	case 't':
		sb.WriteByte('\t')
	case 'u':
		r, err := l.lexHex4()
		if err != nil {
			return err
		}
		if utf16.IsSurrogate(r) {
			if r >= 0xDC00 {
				return l.typeError("unexpected low surrogate \\u%04X", r)
			}
			if !strings.HasPrefix(l.rest(), `\u`) {
				if rest := l.rest(); rest == "" || rest == `\` {
					return l.rangeError("unterminated string")
				}
				return l.typeError("missing low surrogate after \\u%04X", r)
			}
			l.advance(2)
			low, err := l.lexHex4()
			if err != nil {
				return err
			}
			combined := utf16.DecodeRune(r, low)
			if combined == utf8.RuneError {
				return l.typeError("invalid surrogate pair \\u%04X\\u%04X", r, low)
			}
			r = combined
		}
		sb.WriteRune(r)
	default:
		return l.typeError("invalid escape %q", "\\"+string(esc))
	}
	return nil
}

func (l *Lexer) lexHex4() (rune, error) {
	if len(l.rest()) < 4 {
		return 0, l.rangeError("unterminated string")
	}
	var r rune
	for i := 0; i < 4; i++ {
		h := l.source[l.pos+i]
		r <<= 4
		switch {
		case h >= '0' && h <= '9':
			r += rune(h - '0')
		case h >= 'a' && h <= 'f':
			r += rune(h - 'a' + 10)
		case h >= 'A' && h <= 'F':
			r += rune(h - 'A' + 10)
		default:
			l.advance(i + 1)
			return 0, l.typeError("invalid unicode escape")
		}
	}
	l.advance(4)
	return r, nil
}

// lexNumber scans -?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)? and
// produces an integer token when neither fraction nor exponent is present.
func (l *Lexer) lexNumber() (Token, error) {
	rest := l.rest()

	// State machine for parsing numbers
	type numState int
	const (
		stateSign     numState = iota // after optional -
		stateZero                     // leading 0
		stateInt                      // integer digits
		stateDot                      // after .
		stateFraction                 // fraction digits
		stateExp                      // after e/E
		stateExpSign                  // after e+/e-
		stateExpDigits                // exponent digits
	)

	state := stateSign
	isFloat := false
	n := 0
	if rest[0] == '-' {
		n = 1
	}

scan:
	for ; n < len(rest); n++ {
		c := rest[n]
		switch state {
		case stateSign:
			switch {
			case c == '0':
				state = stateZero
			case isDigit(c):
				state = stateInt
			default:
				break scan
			}
		case stateZero, stateInt:
			switch {
			case isDigit(c) && state == stateInt:
			case isDigit(c):
				l.advance(n + 1)
				return Token{}, l.typeError("invalid number %q: leading zero", rest[:n+1])
			case c == '.':
				state = stateDot
				isFloat = true
			case c == 'e' || c == 'E':
				state = stateExp
				isFloat = true
			default:
				break scan
			}
		case stateDot:
			if !isDigit(c) {
				break scan
			}
			state = stateFraction
		case stateFraction:
			switch {
			case isDigit(c):
			case c == 'e' || c == 'E':
				state = stateExp
			default:
				break scan
			}
		case stateExp:
			switch {
			case c == '+' || c == '-':
				state = stateExpSign
			case isDigit(c):
				state = stateExpDigits
			default:
				break scan
			}
		case stateExpSign:
			if !isDigit(c) {
				break scan
			}
			state = stateExpDigits
		case stateExpDigits:
			if !isDigit(c) {
				break scan
			}
		}
	}

	literal := rest[:n]
	switch state {
	case stateZero, stateInt, stateFraction, stateExpDigits:
	default:
		l.advance(n)
		if n == len(rest) {
			return Token{}, l.rangeError("unexpected end of input in number %q", literal)
		}
		return Token{}, l.typeError("invalid number %q", literal+string(rest[n]))
	}
	if n < len(rest) && (isIdentPart(rest[n]) || rest[n] == '.') {
		l.advance(n + 1)
		return Token{}, l.typeError("invalid number %q", rest[:n+1])
	}

	l.advance(n)
	if isFloat {
		return l.makeToken(TokenFloat, literal), nil
	}
	return l.makeToken(TokenInteger, literal), nil
}

var keywords = map[string]TokenType{
	"true":  TokenTrue,
	"false": TokenFalse,
	"null":  TokenNull,
}

func (l *Lexer) lexKeyword() (Token, error) {
	rest := l.rest()
	n := 0
	for n < len(rest) && isIdentPart(rest[n]) {
		n++
	}
	word := rest[:n]
	l.advance(n)
	if typ, ok := keywords[word]; ok {
		return l.makeToken(typ, word), nil
	}
	if l.atEnd() {
		for kw := range keywords {
			if strings.HasPrefix(kw, word) {
				return Token{}, l.rangeError("unexpected end of input in %q", word)
			}
		}
	}
	return Token{}, l.typeError("invalid literal %q", word)
}

// Helper methods

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.source)
}

func (l *Lexer) rest() string {
	if l.pos >= len(l.source) {
		return ""
	}
	return l.source[l.pos:]
}

func (l *Lexer) advance(n int) string {
	if n <= 0 {
		return ""
	}
	start := l.pos
	end := l.pos + n
	if end > len(l.source) {
		end = len(l.source)
	}

	skipped := l.source[start:end]
	for _, c := range skipped {
		if c == '\n' {
			if l.line < 65535 {
				l.line++
			}
			l.col = 0
		} else {
			if l.col < 65535 {
				l.col++
			}
		}
	}
	l.pos = end
	return skipped
}

func (l *Lexer) markStart() {
	l.start = l.pos
	l.startLine = l.line
	l.startCol = l.col
}

func (l *Lexer) span() Span {
	return Span{
		StartLine:   l.startLine,
		StartCol:    l.startCol,
		StartOffset: uint32(l.start),
		EndLine:     l.line,
		EndCol:      l.col,
		EndOffset:   uint32(l.pos),
	}
}

func (l *Lexer) makeToken(typ TokenType, value string) Token {
	return Token{
		Type:  typ,
		Value: value,
		Span:  l.span(),
	}
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() {
		c := l.source[l.pos]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			l.advance(1)
		} else {
			break
		}
	}
}

func (l *Lexer) typeError(format string, args ...any) error {
	return errors.Newf(errors.ErrTypeError, format, args...).WithSpan(l.span())
}

func (l *Lexer) rangeError(format string, args ...any) error {
	return errors.Newf(errors.ErrOutOfRange, format, args...).WithSpan(l.span())
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
