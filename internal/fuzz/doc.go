
// Package fuzztests houses Go fuzz harnesses for the xts lexer and the
// source loader. Inputs are arbitrary bytes; the harnesses check that the
// token stream covers the input and that diagnostics stay within bounds.
//
// Назначение: загружать байты в FileSet и прогонять их через лексер.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/diag,
// internal/testkit.

package fuzztests
