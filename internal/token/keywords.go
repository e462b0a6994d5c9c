package token

var keywords = map[string]Kind{
	"let":      Let,
	"mut":      Mut,
	"const":    Const,
	"fn":       Fn,
	"if":       If,
	"else":     Else,
	"struct":   Struct,
	"loop":     Loop,
	"for":      For,
	"while":    While,
	"in":       In,
	"break":    Break,
	"continue": Continue,
	"return":   Return,
	"true":     True,
	"false":    False,
	"match":    Match,
	"impl":     Impl,
	"trait":    Trait,
	"_":        Underscore,
}

// LookupKeyword returns the kind for a reserved word.
// Lookup is case-sensitive and whole-word; "_" maps to Underscore.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
