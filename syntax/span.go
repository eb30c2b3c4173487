// Package syntax holds the source location types shared by the lexer, the
// parser and the error renderer.
package syntax

// Span represents a location range in source code.
//
// Lines are 1-indexed, columns count characters from the start of the line
// beginning at 0. Offsets index into the original source.
type Span struct {
	StartLine   uint16
	StartCol    uint16
	StartOffset uint32
	EndLine     uint16
	EndCol      uint16
	EndOffset   uint32
}
