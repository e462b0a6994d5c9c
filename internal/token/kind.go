package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid marks a rejected span: an unknown character, an unterminated
	// string or a malformed number.
	Invalid Kind = iota
	// EOF is a sentinel for consumers; the lexer never emits it.
	EOF

	// Identifier represents an identifier token.
	Identifier

	// Let represents the 'let' keyword.
	Let // let
	// Mut represents the 'mut' keyword.
	Mut // mut
	// Const represents the 'const' keyword.
	Const // const
	// Fn represents the 'fn' keyword.
	Fn // fn
	// If represents the 'if' keyword.
	If // if
	// Else represents the 'else' keyword.
	Else // else
	// Struct represents the 'struct' keyword.
	Struct // struct
	// Loop represents the 'loop' keyword.
	Loop // loop
	// For represents the 'for' keyword.
	For // for
	// While represents the 'while' keyword.
	While // while
	// In represents the 'in' keyword.
	In // in
	// Break represents the 'break' keyword.
	Break // break
	// Continue represents the 'continue' keyword.
	Continue // continue
	// Return represents the 'return' keyword.
	Return // return
	// True represents the 'true' keyword.
	True // true
	// False represents the 'false' keyword.
	False // false
	// Match represents the 'match' keyword.
	Match // match
	// Impl represents the 'impl' keyword.
	Impl // impl
	// Trait represents the 'trait' keyword.
	Trait // trait

	// Int represents the integer literal token.
	Int
	// Float represents the float literal token.
	Float
	// String represents the string literal token.
	String
	// Boolean represents a folded boolean literal (not produced by the lexer).
	Boolean

	Plus      // +
	PlusEq    // +=
	Minus     // -
	MinusEq   // -=
	Star      // *
	StarEq    // *=
	Slash     // /
	SlashEq   // /=
	Percent   // %
	PercentEq // %=
	Eq        // =
	EqEq      // ==
	NotEq     // !=
	Lt        // <
	LtEq      // <=
	Gt        // >
	GtEq      // >=
	And       // &
	AndAnd    // &&
	Pipe      // |
	Or        // ||
	Bang      // !
	At        // @

	Comma        // ,
	Semicolon    // ;
	Colon        // :
	DoubleColon  // ::
	Dot          // .
	DoubleDot    // ..
	Arrow        // ->
	Underscore   // _
	OpenParen    // (
	CloseParen   // )
	OpenBrace    // {
	CloseBrace   // }
	OpenBracket  // [
	CloseBracket // ]

	kindCount
)

var kindNames = [...]string{
	Invalid:      "Invalid",
	EOF:          "EOF",
	Identifier:   "Identifier",
	Let:          "Let",
	Mut:          "Mut",
	Const:        "Const",
	Fn:           "Fn",
	If:           "If",
	Else:         "Else",
	Struct:       "Struct",
	Loop:         "Loop",
	For:          "For",
	While:        "While",
	In:           "In",
	Break:        "Break",
	Continue:     "Continue",
	Return:       "Return",
	True:         "True",
	False:        "False",
	Match:        "Match",
	Impl:         "Impl",
	Trait:        "Trait",
	Int:          "Int",
	Float:        "Float",
	String:       "String",
	Boolean:      "Boolean",
	Plus:         "Plus",
	PlusEq:       "PlusEq",
	Minus:        "Minus",
	MinusEq:      "MinusEq",
	Star:         "Star",
	StarEq:       "StarEq",
	Slash:        "Slash",
	SlashEq:      "SlashEq",
	Percent:      "Percent",
	PercentEq:    "PercentEq",
	Eq:           "Eq",
	EqEq:         "EqEq",
	NotEq:        "NotEq",
	Lt:           "Lt",
	LtEq:         "LtEq",
	Gt:           "Gt",
	GtEq:         "GtEq",
	And:          "And",
	AndAnd:       "AndAnd",
	Pipe:         "Pipe",
	Or:           "Or",
	Bang:         "Bang",
	At:           "At",
	Comma:        "Comma",
	Semicolon:    "Semicolon",
	Colon:        "Colon",
	DoubleColon:  "DoubleColon",
	Dot:          "Dot",
	DoubleDot:    "DoubleDot",
	Arrow:        "Arrow",
	Underscore:   "Underscore",
	OpenParen:    "OpenParen",
	CloseParen:   "CloseParen",
	OpenBrace:    "OpenBrace",
	CloseBrace:   "CloseBrace",
	OpenBracket:  "OpenBracket",
	CloseBracket: "CloseBracket",
}

var spellings = [...]string{
	Let:          "let",
	Mut:          "mut",
	Const:        "const",
	Fn:           "fn",
	If:           "if",
	Else:         "else",
	Struct:       "struct",
	Loop:         "loop",
	For:          "for",
	While:        "while",
	In:           "in",
	Break:        "break",
	Continue:     "continue",
	Return:       "return",
	True:         "true",
	False:        "false",
	Match:        "match",
	Impl:         "impl",
	Trait:        "trait",
	Plus:         "+",
	PlusEq:       "+=",
	Minus:        "-",
	MinusEq:      "-=",
	Star:         "*",
	StarEq:       "*=",
	Slash:        "/",
	SlashEq:      "/=",
	Percent:      "%",
	PercentEq:    "%=",
	Eq:           "=",
	EqEq:         "==",
	NotEq:        "!=",
	Lt:           "<",
	LtEq:         "<=",
	Gt:           ">",
	GtEq:         ">=",
	And:          "&",
	AndAnd:       "&&",
	Pipe:         "|",
	Or:           "||",
	Bang:         "!",
	At:           "@",
	Comma:        ",",
	Semicolon:    ";",
	Colon:        ":",
	DoubleColon:  "::",
	Dot:          ".",
	DoubleDot:    "..",
	Arrow:        "->",
	Underscore:   "_",
	OpenParen:    "(",
	CloseParen:   ")",
	OpenBrace:    "{",
	CloseBrace:   "}",
	OpenBracket:  "[",
	CloseBracket: "]",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Spelling returns the fixed source spelling of k, or "" for kinds whose
// text varies (identifiers, literals, sentinels).
func (k Kind) Spelling() string {
	if int(k) < len(spellings) {
		return spellings[k]
	}
	return ""
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Invalid; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}
