// Package testkit holds invariant checks shared by lexer, driver and fuzz
// tests.
package testkit

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"

	"xts/internal/source"
	"xts/internal/token"
)

// CheckTokenInvariants verifies a complete token stream of sf:
// 1) every span is non-empty, belongs to sf and lies within its content
// 2) spans are strictly increasing and never overlap
// 3) each lexeme equals the source bytes under its span
// 4) every gap between tokens (and around them) is whitespace only
func CheckTokenInvariants(tokens []token.Token, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var prevEnd uint32
	for i, tok := range tokens {
		sp := tok.Span
		if sp.File != sf.ID {
			return fmt.Errorf("token %d: span file mismatch: got=%d want=%d", i, sp.File, sf.ID)
		}
		if sp.End <= sp.Start {
			return fmt.Errorf("token %d (%s): empty span %v", i, tok.Kind, sp)
		}
		if sp.End > lenContent {
			return fmt.Errorf("token %d (%s): span end beyond content: %d > %d", i, tok.Kind, sp.End, lenContent)
		}
		if sp.Start < prevEnd {
			return fmt.Errorf("token %d (%s): span %v overlaps previous end %d", i, tok.Kind, sp, prevEnd)
		}
		if err := checkGap(sf.Content[prevEnd:sp.Start], prevEnd); err != nil {
			return err
		}
		if got, want := tok.Lexeme(), string(sf.Content[sp.Start:sp.End]); got != want {
			return fmt.Errorf("token %d (%s): lexeme %q does not match source %q", i, tok.Kind, got, want)
		}
		prevEnd = sp.End
	}
	return checkGap(sf.Content[prevEnd:], prevEnd)
}

func checkGap(gap []byte, base uint32) error {
	for off := 0; off < len(gap); {
		r, size := utf8.DecodeRune(gap[off:])
		if (r == utf8.RuneError && size <= 1) || !unicode.IsSpace(r) {
			return fmt.Errorf("non-whitespace byte 0x%02X at offset %d not covered by a token", gap[off], int(base)+off)
		}
		off += size
	}
	return nil
}
