package tree

import (
	"fmt"
	"strings"

	"github.com/emberlang/emberc/internal/psi"
)

// Position is a 1-based line/column pair recomputed from a byte offset.
type Position struct {
	Line   int
	Column int
}

// PositionOf recomputes the line/column of a byte offset into src by
// counting "\n"/"\r\n" in the prefix.
func PositionOf(src []byte, offset int32) Position {
	if offset < 0 {
		offset = 0
	}
	if int(offset) > len(src) {
		offset = int32(len(src))
	}
	line, col := 1, 1
	for i := int32(0); i < offset; i++ {
		if src[i] == '\n' {
			line++
			col = 1
			continue
		}
		if src[i] == '\r' {
			continue
		}
		col++
	}
	return Position{Line: line, Column: col}
}

// FormatError renders "<message> (<line>:<column>)" for a single error,
// per spec §4.F.
func FormatError(src []byte, e psi.ParseError) string {
	pos := PositionOf(src, e.SourceStart)
	return fmt.Sprintf("%s (%d:%d)", e.Message, pos.Line, pos.Column)
}

// FormatErrors renders every error in a result, one per line.
func FormatErrors(src []byte, result *psi.Result) string {
	var sb strings.Builder
	for _, e := range result.Errors {
		sb.WriteString(FormatError(src, e))
		sb.WriteString("\n")
	}
	return sb.String()
}
