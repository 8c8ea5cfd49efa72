// Package trace is the structured log of the errgen pipeline.
//
// Трассировка включается флагами командной строки:
//
//	errgen generate --trace=- --trace-level=detail ./internal/cache
//
// Tracer implementations:
//
//   - Nop: disabled tracing, zero cost
//   - StreamTracer: writes every event as it happens
//   - RingTracer: keeps the last N events for a dump on failure
//   - MultiTracer: fans events out to several tracers
//
// Levels pick the scopes that are emitted:
//
//   - LevelOff: nothing
//   - LevelError: error points only
//   - LevelPhase: driver spans (generate, check, cache)
//   - LevelDetail: per-file spans
//   - LevelDebug: per-enum spans as well
//
// The tracer travels through the pipeline in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopeFile, "file:"+path)
//	defer span.End("")
package trace
