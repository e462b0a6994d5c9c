// Package token defines lexical token kinds for the xts compiler front end.
// Invariants:
//   - Token.Text is set only for Identifier, literal kinds and Invalid;
//     fixed-spelling kinds (keywords, operators, delimiters) carry no text,
//     their spelling is Kind.Spelling().
//   - Token.Span covers the lexeme exactly, quotes of string literals included.
//   - true/false are lexed as the True/False keywords; Boolean is reserved for
//     consumers that fold them into a literal.
//   - EOF is never produced by the lexer: the stream ends by exhaustion.
package token
