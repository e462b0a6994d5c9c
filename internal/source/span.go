package source

import (
	"fmt"
)

// Pos is a snapshot of a scan position: 0-based line and byte offset.
type Pos struct {
	Line uint32
	Off  uint32
}

// Span delimits a lexeme in two coordinate systems at once.
// Start/End are half-open byte offsets, LineStart/LineEnd are inclusive
// 0-based line indices: LineEnd is the line of the last covered byte, so a
// span ending right after '\n' stays on that line.
type Span struct {
	File      FileID
	Start     uint32 // bytes, inclusive
	End       uint32 // bytes, exclusive
	LineStart uint32
	LineEnd   uint32
}

// SpanBetween builds the span covering [start, end) in file.
func SpanBetween(file FileID, start, end Pos) Span {
	return Span{
		File:      file,
		Start:     start.Off,
		End:       end.Off,
		LineStart: start.Line,
		LineEnd:   end.Line,
	}
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Valid reports whether both coordinate pairs are ordered.
func (s Span) Valid() bool {
	return s.Start <= s.End && s.LineStart <= s.LineEnd
}
