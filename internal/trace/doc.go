// Package trace records what the xts driver is doing: which files it picked
// up, which pass runs and how long each took.
//
// Enable it from the CLI:
//
//	xts tokenize --trace=- --trace-level=detail src/
//
// Implementations: the Nop tracer, StreamTracer (writes every event as text
// or NDJSON), RingTracer (keeps the last N events for a dump when a run
// fails) and MultiTracer (fan-out).
//
// Levels gate scopes: phase shows driver and pass boundaries, detail adds
// per-file events, debug shows everything.
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "lex", parentID)
//	defer span.End("")
package trace
