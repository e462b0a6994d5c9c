package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/vmihailenco/msgpack/v5"

	"xts/internal/source"
	"xts/internal/token"
)

// TokenOutput is the serialized form of a token for json and msgpack output.
type TokenOutput struct {
	Kind  string `json:"kind" msgpack:"kind"`
	Text  string `json:"text" msgpack:"text"`
	Start uint32 `json:"start" msgpack:"start"`
	End   uint32 `json:"end" msgpack:"end"`
	Line  uint32 `json:"line,omitempty" msgpack:"line,omitempty"`
	Col   uint32 `json:"col,omitempty" msgpack:"col,omitempty"`
}

// TokensOutput is the root document of json and msgpack token output.
type TokensOutput struct {
	File   string        `json:"file,omitempty" msgpack:"file,omitempty"`
	Tokens []TokenOutput `json:"tokens" msgpack:"tokens"`
	Count  int           `json:"count" msgpack:"count"`
}

// BuildTokensOutput converts tokens for serialization. fs may be nil, in
// which case line and column are omitted.
func BuildTokensOutput(tokens []token.Token, fs *source.FileSet) TokensOutput {
	out := TokensOutput{
		Tokens: make([]TokenOutput, 0, len(tokens)),
		Count:  len(tokens),
	}
	for i, tok := range tokens {
		item := TokenOutput{
			Kind:  tok.Kind.String(),
			Text:  tok.Lexeme(),
			Start: tok.Span.Start,
			End:   tok.Span.End,
		}
		if fs != nil {
			if i == 0 {
				out.File = formatPath(fs, tok.Span.File, PathModeAuto)
			}
			start, _ := resolve(fs, tok.Span)
			item.Line, item.Col = start.Line, start.Col
		}
		out.Tokens = append(out.Tokens, item)
	}
	return out
}

func tokenColor(tok token.Token) *color.Color {
	switch {
	case tok.IsInvalid():
		return color.New(color.FgRed, color.Bold)
	case tok.IsKeyword():
		return color.New(color.FgMagenta)
	case tok.IsLiteral():
		return color.New(color.FgGreen)
	case tok.Kind == token.Identifier:
		return color.New(color.FgCyan)
	default:
		return color.New(color.Reset)
	}
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet, colorize bool) error {
	for i, tok := range tokens {
		startPos, endPos := resolve(fs, tok.Span)

		kind := fmt.Sprintf("%-15s", tok.Kind.String())
		if colorize {
			c := tokenColor(tok)
			c.EnableColor()
			kind = c.Sprint(kind)
		}

		_, err := fmt.Fprintf(w, "%3d: %s %-20q at %d:%d-%d:%d\n",
			i+1, kind, tok.Lexeme(),
			startPos.Line, startPos.Col,
			endPos.Line, endPos.Col)
		if err != nil {
			return err
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(BuildTokensOutput(tokens, fs))
}

// FormatTokensMsgpack пишет токены одним msgpack-документом
func FormatTokensMsgpack(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	return msgpack.NewEncoder(w).Encode(BuildTokensOutput(tokens, fs))
}
