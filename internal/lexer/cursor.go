package lexer

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"xts/internal/source"
)

// Cursor is the single read head over a file. It only moves forward:
// the line counter grows once per consumed '\n' and the offset grows by the
// UTF-8 length of every consumed character.
type Cursor struct {
	file *source.File
	src  []byte
	off  uint32
	line uint32
}

// NewCursor creates a cursor at the start of f.
func NewCursor(f *source.File) *Cursor {
	if _, err := safecast.Conv[uint32](len(f.Content)); err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return &Cursor{file: f, src: f.Content}
}

// File returns the file the cursor reads.
func (c *Cursor) File() *source.File { return c.file }

// EOF reports whether the input is exhausted.
func (c *Cursor) EOF() bool {
	return int(c.off) >= len(c.src)
}

// decode returns the character at byte offset off and its width.
// Invalid bytes decode as utf8.RuneError of width 1.
func (c *Cursor) decode(off uint32) (rune, uint32) {
	b := c.src[off]
	if b < utf8.RuneSelf {
		return rune(b), 1
	}
	r, sz := utf8.DecodeRune(c.src[off:])
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("rune size overflow: %w", err))
	}
	return r, usz
}

// Peek returns the next character without consuming it.
func (c *Cursor) Peek() (rune, bool) {
	if c.EOF() {
		return 0, false
	}
	r, _ := c.decode(c.off)
	return r, true
}

// Peek2 returns the next two characters; ok is false unless both exist.
func (c *Cursor) Peek2() (r0, r1 rune, ok bool) {
	if c.EOF() {
		return 0, 0, false
	}
	r0, sz := c.decode(c.off)
	if int(c.off+sz) >= len(c.src) {
		return 0, 0, false
	}
	r1, _ = c.decode(c.off + sz)
	return r0, r1, true
}

// Advance consumes the next character and updates the counters.
func (c *Cursor) Advance() (rune, bool) {
	if c.EOF() {
		return 0, false
	}
	r, sz := c.decode(c.off)
	c.off += sz
	if r == '\n' {
		c.line++
	}
	return r, true
}

// ConsumeWhile consumes characters while pred holds for the peeked one and
// returns the consumed text. A character failing pred is left in place.
func (c *Cursor) ConsumeWhile(pred func(rune) bool) string {
	start := c.off
	for {
		r, ok := c.Peek()
		if !ok || !pred(r) {
			break
		}
		c.Advance()
	}
	return string(c.src[start:c.off])
}

// Pos snapshots the current line and byte offset.
func (c *Cursor) Pos() source.Pos {
	return source.Pos{Line: c.line, Off: c.off}
}

// SpanFrom returns the span from start to the current position. A trailing
// '\n' belongs to the line it ends.
func (c *Cursor) SpanFrom(start source.Pos) source.Span {
	sp := source.SpanBetween(c.file.ID, start, c.Pos())
	if c.off > start.Off && c.src[c.off-1] == '\n' && sp.LineEnd > sp.LineStart {
		sp.LineEnd--
	}
	return sp
}

// TextFrom returns the source text consumed since start.
func (c *Cursor) TextFrom(start source.Pos) string {
	return string(c.src[start.Off:c.off])
}
