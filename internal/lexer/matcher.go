package lexer

import (
	"xts/internal/source"
	"xts/internal/token"
)

// Step is one matcher transition: consume Ch and promote the token to Kind.
type Step struct {
	Ch   rune
	Kind token.Kind
}

// Matcher assembles one fixed-spelling token by chained greedy steps over a
// borrowed cursor. Each step peeks once and consumes only on a match, so a
// failed step leaves the cursor where the longest match ended.
type Matcher struct {
	cursor  *Cursor
	start   source.Pos
	started bool
	kind    token.Kind
	matched bool // previous step matched
}

// NewMatcher starts a matcher at the cursor's current position.
func NewMatcher(c *Cursor) *Matcher {
	return &Matcher{cursor: c, matched: true}
}

// AndThen tries to consume ch; on success the candidate kind becomes kind.
// After the first failed step the remaining steps are no-ops.
func (m *Matcher) AndThen(ch rune, kind token.Kind) *Matcher {
	return m.OneOf(Step{Ch: ch, Kind: kind})
}

// OneOf peeks once and follows the first step whose character matches.
func (m *Matcher) OneOf(steps ...Step) *Matcher {
	if !m.matched {
		return m
	}
	r, ok := m.cursor.Peek()
	if ok {
		for _, s := range steps {
			if s.Ch != r {
				continue
			}
			if !m.started {
				m.start = m.cursor.Pos()
				m.started = true
			}
			m.cursor.Advance()
			m.kind = s.Kind
			return m
		}
	}
	m.matched = false
	return m
}

// Finalized returns the token for the longest successful prefix, or false
// when not even the first step matched.
func (m *Matcher) Finalized() (token.Token, bool) {
	if !m.started {
		return token.Token{}, false
	}
	return token.New(m.kind, m.cursor.SpanFrom(m.start)), true
}
