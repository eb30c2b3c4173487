// Package lexer provides tokenization for JSON documents.
package lexer

import (
	"fmt"

	"github.com/dynobj/dynobj-go/syntax"
)

// TokenType represents the type of a token.
type TokenType int

const (
	// Punctuation: {
	TokenBraceOpen TokenType = iota

	TokenBraceClose   // }
	TokenBracketOpen  // [
	TokenBracketClose // ]
	TokenColon        // :
	TokenComma        // ,

	// Literals
	TokenString  // "string"
	TokenInteger // 123, -7
	TokenFloat   // 1.5, 2e10

	// Keywords
	TokenTrue
	TokenFalse
	TokenNull
)

// Token represents a single token from the lexer.
type Token struct {
	Type  TokenType
	Value string // decoded string contents, or the number literal as written
	Span  Span   // Source location
}

// Span represents a location range in source code.
type Span = syntax.Span

// String returns a debug representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Type, t.Value)
}

var tokenTypeNames = map[TokenType]string{
	TokenBraceOpen:    "BraceOpen",
	TokenBraceClose:   "BraceClose",
	TokenBracketOpen:  "BracketOpen",
	TokenBracketClose: "BracketClose",
	TokenColon:        "Colon",
	TokenComma:        "Comma",
	TokenString:       "Str",
	TokenInteger:      "Int",
	TokenFloat:        "Float",
	TokenTrue:         "True",
	TokenFalse:        "False",
	TokenNull:         "Null",
}

func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

// FormatForSnapshot formats a token together with the source text it
// covers, one token per two lines.
func (t Token) FormatForSnapshot(source string) string {
	tokenSource := source[t.Span.StartOffset:t.Span.EndOffset]
	switch t.Type {
	case TokenString:
		return fmt.Sprintf("Str(%q)\n  %q", t.Value, tokenSource)
	case TokenInteger, TokenFloat:
		return fmt.Sprintf("%s(%s)\n  %q", t.Type, t.Value, tokenSource)
	default:
		return fmt.Sprintf("%s\n  %q", t.Type, tokenSource)
	}
}
