// Package trace records what ppfront is doing while it runs.
//
// Events mark the boundaries of driver operations, translation phases, units
// and (at debug level) individual directives. They help explain slow or stuck
// runs over large include trees.
//
// # Usage
//
//	ppfront pp --trace=- --trace-level=detail main.c
//
// # Tracers
//
//   - Nop: disabled tracing, zero cost
//   - StreamTracer: writes every event as it happens
//   - RingTracer: keeps the last N events for a dump on failure
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// LevelPhase emits ScopeDriver and ScopePhase events, LevelDetail adds
// ScopeUnit, LevelDebug adds ScopeDirective (one event per #include).
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "phase4", parentID)
//	defer span.End("")
package trace
