// Package observability defines the tracing, metrics and logging interfaces
// used throughout jsonmend, together with the shared attribute and metric
// names.
//
// [Provider] composes [Tracer], [Metrics] and [Logger] into a single
// injectable dependency. The repair pipeline stores the active [Provider] and
// [Span] in its context with [ContextWithObserver] and [ContextWithSpan];
// they can be read back with [ObserverFromContext] and [SpanFromContext].
//
// semconv.go holds every attribute key, span name and metric name so that
// the pipeline, the editor commands and the HTTP service label their
// observations the same way.
package observability
