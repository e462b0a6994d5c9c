package lexer

import (
	"xts/internal/diag"
	"xts/internal/source"
)

type Options struct {
	Reporter diag.Reporter // может быть nil: ошибки игнорируем, но продолжаем лексить
}

// errLex starts an error diagnostic; the caller chains notes/fixes and emits.
func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) *diag.ReportBuilder {
	if lx.opts.Reporter == nil {
		return nil
	}
	return diag.ReportError(lx.opts.Reporter, code, sp, msg)
}
