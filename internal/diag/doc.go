// Package diag defines the diagnostic model shared by the lexer and the
// driver.
//
// Diagnostic is the central record: Severity, a numeric Code with a stable
// string form (LEX1001, IO4001, ...), a short Message, the Primary span,
// optional Notes and optional Fixes. A Fix is data only, a title plus a set
// of text edits in source coordinates.
//
// Producers emit through a Reporter and never touch storage directly. The
// lexer uses ReportError(...).WithFix(...).Emit(); BagReporter collects into a
// bounded Bag which supports sorting and deduplication. Formatting lives in
// internal/diagfmt.
package diag
